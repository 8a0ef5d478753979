/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/suparena/metastore/datastore"
	"github.com/suparena/metastore/errors"
	"github.com/suparena/metastore/meta"
	"github.com/suparena/metastore/schema"
	"github.com/suparena/metastore/storagemodels"
)

//go:embed schema.sql
var schemaSQL string

// Store keeps metadata in a SQLite database. One database can hold many
// roots; a Store reads and writes the one it is bound to.
type Store struct {
	db     *sql.DB
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

// Open creates or opens a SQLite database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// A store opened without WithRootID has no root until CreateRoot, SetRoot or
// the first Set.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &Store{
		db:     db,
		reg:    schema.Default(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Info("sqlite store opened", "path", path, "root", s.rootID)
	return s, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
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
	err = s.db.QueryRowContext(ctx,
		`SELECT kind, value FROM fields WHERE root_id = ? AND field = ? AND indices = ?`,
		root, string(id), storagemodels.IndexKey(indices),
	).Scan(&kind, &text)
	if stderrors.Is(err, sql.ErrNoRows) {
		return meta.Absent(), nil
	}
	if err != nil {
		return meta.Absent(), fmt.Errorf("get %s: %w", id, err)
	}
	return meta.Decode(kind, text)
}

func (s *Store) count(ctx context.Context, root string, f schema.Field, parent []int) (int, error) {
	scope := datastore.CountScope(s.reg, f)
	args := make([]any, 0, len(scope)+1)
	args = append(args, root)
	for _, e := range scope {
		args = append(args, e)
	}
	query := `SELECT indices FROM fields WHERE root_id = ? AND entity IN (?` +
		strings.Repeat(", ?", len(scope)-1) + `)`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", f.ID, err)
	}
	defer rows.Close()

	var tuples [][]int
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return 0, fmt.Errorf("count %s: %w", f.ID, err)
		}
		t, err := storagemodels.ParseIndexKey(key)
		if err != nil {
			return 0, err
		}
		tuples = append(tuples, t)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("count %s: %w", f.ID, err)
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
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM fields WHERE root_id = ? AND field = ? AND indices = ?`,
			root, string(id), key); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
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
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO fields (root_id, field, entity, indices, kind, value, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (root_id, field, indices) DO UPDATE SET
			kind = excluded.kind,
			value = excluded.value,
			updated_at = excluded.updated_at`,
		root, string(id), f.Entity, key, kind, text, now())
	if err != nil {
		return fmt.Errorf("set %s: %w", id, err)
	}
	return nil
}

func now() string {
	return strfmt.DateTime(time.Now().UTC()).String()
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
		s.logger.DebugContext(ctx, "sqlite root created", "root", s.rootID)
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
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO roots (id, created_at) VALUES (?, ?) ON CONFLICT (id) DO NOTHING`,
		id, now())
	if err != nil {
		return fmt.Errorf("create root %s: %w", id, err)
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

// Roots lists the roots recorded in the database, oldest first.
func (s *Store) Roots(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM roots ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list roots: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
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

		rows, err := s.db.QueryContext(ctx, `
			SELECT entity, field, indices, kind, value, updated_at FROM fields
			WHERE root_id = ? AND substr(field, 1, length(?)) = ?
			ORDER BY field, indices`,
			root, o.Prefix, o.Prefix)
		if err != nil {
			send(storagemodels.StreamResult[storagemodels.Record]{Error: fmt.Errorf("stream: %w", err)})
			return
		}
		defer rows.Close()

		var index int64
		for rows.Next() {
			rec := storagemodels.Record{Root: root}
			var updated string
			res := storagemodels.StreamResult[storagemodels.Record]{
				Meta: storagemodels.StreamMeta{Index: index, PageNumber: 1, Timestamp: time.Now()},
			}
			if err := rows.Scan(&rec.Entity, &rec.Field, &rec.Indices, &rec.Kind, &rec.Value, &updated); err != nil {
				res.Error = err
			} else if dt, err := strfmt.ParseDateTime(updated); err == nil {
				rec.UpdatedAt = dt
			}
			res.Item = rec
			if !send(res) {
				return
			}
			index++
		}
		if err := rows.Err(); err != nil {
			send(storagemodels.StreamResult[storagemodels.Record]{Error: err})
		}
	}()
	return out
}
