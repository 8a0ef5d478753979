/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package postgres

import (
	"context"
	_ "embed"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suparena/metastore/datastore"
	"github.com/suparena/metastore/errors"
	"github.com/suparena/metastore/meta"
	"github.com/suparena/metastore/schema"
	"github.com/suparena/metastore/storagemodels"
)

//go:embed schema.sql
var schemaSQL string

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store keeps metadata in PostgreSQL tables shared by many roots.
type Store struct {
	db     DBTX
	pool   *pgxpool.Pool
	reg    *schema.Registry
	logger *slog.Logger

	mu       sync.RWMutex
	rootID   string
	recorded string
}

var _ datastore.Backend = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithRegistry sets the schema used for validation.
func WithRegistry(reg *schema.Registry) Option {
	return func(s *Store) { s.reg = reg }
}

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithRootID binds the store to an existing or future root.
func WithRootID(id string) Option {
	return func(s *Store) { s.rootID = id }
}

// New creates a store on an existing connection, pool or transaction.
// The tables must already exist (see Migrate).
func New(db DBTX, opts ...Option) *Store {
	s := &Store{
		db:     db,
		reg:    schema.Default(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects a pool to databaseURL and creates the tables if needed.
// Close releases the pool.
func Open(ctx context.Context, databaseURL string, opts ...Option) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := New(pool, opts...)
	s.pool = pool
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	s.logger.Info("postgres store opened", "host", cfg.ConnConfig.Host, "database", cfg.ConnConfig.Database, "root", s.rootID)
	return s, nil
}

// Migrate creates the metastore tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return handlePostgresError("migrate", err)
	}
	return nil
}

// Close releases the pool created by Open. Stores built with New leave
// their connection alone.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// handlePostgresError maps driver errors onto the metastore error types.
func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return errors.NewNotFoundError("root", pgErr.Detail)
		case "23502": // not_null_violation
			return errors.NewValidationError(pgErr.ColumnName, "required value is missing")
		case "42P01": // undefined_table
			return fmt.Errorf("%s: table does not exist - run Migrate first: %w", operation, err)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (s *Store) root() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rootID
}

func (s *Store) Get(ctx context.Context, id schema.FieldID, indices ...int) (meta.Value, error) {
	f, err := datastore.CheckRead(s.reg, id, indices)
	if err != nil {
		return meta.Absent(), err
	}
	root := s.root()
	if root == "" {
		return meta.Absent(), nil
	}

	if f.Kind == schema.KindCount {
		n, err := s.count(ctx, root, f, indices)
		if err != nil {
			return meta.Absent(), err
		}
		return meta.Count(n), nil
	}

	var kind, text string
	err = s.db.QueryRow(ctx,
		`SELECT kind, value FROM metastore_fields WHERE root_id = $1 AND field = $2 AND indices = $3`,
		root, string(id), storagemodels.IndexKey(indices),
	).Scan(&kind, &text)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return meta.Absent(), nil
	}
	if err != nil {
		return meta.Absent(), handlePostgresError("get "+string(id), err)
	}
	return meta.Decode(kind, text)
}

func (s *Store) count(ctx context.Context, root string, f schema.Field, parent []int) (int, error) {
	rows, err := s.db.Query(ctx,
		`SELECT indices FROM metastore_fields WHERE root_id = $1 AND entity = ANY($2)`,
		root, datastore.CountScope(s.reg, f))
	if err != nil {
		return 0, handlePostgresError("count "+string(f.ID), err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return 0, handlePostgresError("count "+string(f.ID), err)
	}

	tuples := make([][]int, 0, len(keys))
	for _, key := range keys {
		t, err := storagemodels.ParseIndexKey(key)
		if err != nil {
			return 0, err
		}
		tuples = append(tuples, t)
	}
	return storagemodels.DeriveCount(tuples, parent), nil
}

func (s *Store) Set(ctx context.Context, id schema.FieldID, v meta.Value, indices ...int) error {
	f, err := datastore.CheckWrite(s.reg, id, v, indices)
	if err != nil {
		return err
	}
	key := storagemodels.IndexKey(indices)

	if !v.IsPresent() {
		root := s.root()
		if root == "" {
			return nil
		}
		if _, err := s.db.Exec(ctx,
			`DELETE FROM metastore_fields WHERE root_id = $1 AND field = $2 AND indices = $3`,
			root, string(id), key); err != nil {
			return handlePostgresError("delete "+string(id), err)
		}
		return nil
	}

	root, err := s.bindRoot(ctx)
	if err != nil {
		return err
	}
	kind, text, err := meta.Encode(v)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO metastore_fields (root_id, field, entity, indices, kind, value, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (root_id, field, indices) DO UPDATE SET
			kind = EXCLUDED.kind,
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at`,
		root, string(id), f.Entity, key, kind, text, time.Now().UTC())
	if err != nil {
		return handlePostgresError("set "+string(id), err)
	}
	return nil
}

// CreateRoot binds the store to a new root if it has none and makes sure
// the bound root is recorded.
func (s *Store) CreateRoot(ctx context.Context) error {
	_, err := s.bindRoot(ctx)
	return err
}

// bindRoot is CreateRoot returning the root it settled on, read under the
// same lock that recorded it.
func (s *Store) bindRoot(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rootID == "" {
		s.rootID = uuid.NewString()
		s.logger.DebugContext(ctx, "postgres root created", "root", s.rootID)
	}
	if err := s.ensureRoot(ctx, s.rootID); err != nil {
		return "", err
	}
	return s.rootID, nil
}

// ensureRoot records id in the roots table. Callers hold s.mu.
func (s *Store) ensureRoot(ctx context.Context, id string) error {
	if s.recorded == id {
		return nil
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO metastore_roots (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, id)
	if err != nil {
		return handlePostgresError("create root", err)
	}
	s.recorded = id
	return nil
}

func (s *Store) GetRoot(ctx context.Context) (meta.Root, error) {
	root := s.root()
	if root == "" {
		return nil, nil
	}
	return meta.RootRef(root), nil
}

// SetRoot binds the store to root.RootID(), recording the root if it is
// new. A nil root unbinds the store without deleting anything.
func (s *Store) SetRoot(ctx context.Context, root meta.Root) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if root == nil {
		s.rootID = ""
		return nil
	}
	id := root.RootID()
	if id == "" {
		return errors.NewValidationError("root", "root identifier is empty")
	}
	if err := s.ensureRoot(ctx, id); err != nil {
		return err
	}
	s.rootID = id
	return nil
}

// Roots lists the recorded roots, oldest first.
func (s *Store) Roots(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT id FROM metastore_roots ORDER BY created_at, id`)
	if err != nil {
		return nil, handlePostgresError("list roots", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Stream sends the records of the bound root ordered by field.
func (s *Store) Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[storagemodels.Record] {
	o := storagemodels.ApplyStreamOptions(opts...)
	out := make(chan storagemodels.StreamResult[storagemodels.Record], o.BufferSize)
	root := s.root()

	go func() {
		defer close(out)
		if root == "" {
			return
		}

		send := func(r storagemodels.StreamResult[storagemodels.Record]) bool {
			select {
			case <-ctx.Done():
				return false
			case out <- r:
				return true
			}
		}

		rows, err := s.db.Query(ctx, `
			SELECT entity, field, indices, kind, value, updated_at FROM metastore_fields
			WHERE root_id = $1 AND starts_with(field, $2)
			ORDER BY field, indices`,
			root, o.Prefix)
		if err != nil {
			send(storagemodels.StreamResult[storagemodels.Record]{Error: handlePostgresError("stream", err)})
			return
		}
		defer rows.Close()

		var index int64
		for rows.Next() {
			rec := storagemodels.Record{Root: root}
			var updated time.Time
			res := storagemodels.StreamResult[storagemodels.Record]{
				Meta: storagemodels.StreamMeta{Index: index, PageNumber: 1, Timestamp: time.Now()},
			}
			if err := rows.Scan(&rec.Entity, &rec.Field, &rec.Indices, &rec.Kind, &rec.Value, &updated); err != nil {
				res.Error = err
			}
			rec.UpdatedAt = strfmt.DateTime(updated)
			res.Item = rec
			if !send(res) {
				return
			}
			index++
		}
		if err := rows.Err(); err != nil {
			send(storagemodels.StreamResult[storagemodels.Record]{Error: handlePostgresError("stream", err)})
		}
	}()
	return out
}
