/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memory provides an in-process backing store.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	"github.com/suparena/metastore/datastore"
	"github.com/suparena/metastore/errors"
	"github.com/suparena/metastore/meta"
	"github.com/suparena/metastore/schema"
	"github.com/suparena/metastore/storagemodels"
)

// Model is the root object of a memory store. It owns the stored values.
// A store adopts a copy of the model handed to SetRoot or WithModel, so the
// values move to the new store and later writes to either store stay
// separate.
type Model struct {
	id     string
	values map[string]entry
}

type entry struct {
	field   schema.FieldID
	entity  string
	indices []int
	value   meta.Value
	updated time.Time
}

// NewModel returns an empty model with a fresh UUID.
func NewModel() *Model {
	return &Model{id: uuid.NewString(), values: make(map[string]entry)}
}

func (m *Model) RootID() string { return m.id }

// clone copies m for adoption by a store. A zero Model gets a fresh UUID.
func (m *Model) clone() *Model {
	c := &Model{id: m.id, values: make(map[string]entry, len(m.values))}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	for k, e := range m.values {
		e.indices = slices.Clone(e.indices)
		c.values[k] = e
	}
	return c
}

// Len returns the number of stored values.
func (m *Model) Len() int { return len(m.values) }

// Store is a thread-safe in-memory metadata store.
type Store struct {
	mu     sync.RWMutex
	reg    *schema.Registry
	model  *Model
	logger *slog.Logger
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

// WithModel starts the store on an existing model.
func WithModel(m *Model) Option {
	return func(s *Store) { s.model = m }
}

// New returns a store with an empty root.
func New(opts ...Option) *Store {
	s := &Store{
		reg:    schema.Default(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.model == nil {
		s.model = NewModel()
	} else {
		s.model = s.model.clone()
	}
	return s
}

func (s *Store) Get(ctx context.Context, id schema.FieldID, indices ...int) (meta.Value, error) {
	f, err := datastore.CheckRead(s.reg, id, indices)
	if err != nil {
		return meta.Absent(), err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.model == nil {
		return meta.Absent(), nil
	}
	if f.Kind == schema.KindCount {
		return meta.Count(s.countLocked(f, indices)), nil
	}
	e, ok := s.model.values[storagemodels.FieldKey(string(id), indices)]
	if !ok {
		return meta.Absent(), nil
	}
	return e.value, nil
}

func (s *Store) countLocked(f schema.Field, parent []int) int {
	scope := datastore.CountScope(s.reg, f)
	var tuples [][]int
	for _, e := range s.model.values {
		if slices.Contains(scope, e.entity) {
			tuples = append(tuples, e.indices)
		}
	}
	return storagemodels.DeriveCount(tuples, parent)
}

func (s *Store) Set(ctx context.Context, id schema.FieldID, v meta.Value, indices ...int) error {
	f, err := datastore.CheckWrite(s.reg, id, v, indices)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := storagemodels.FieldKey(string(id), indices)
	if !v.IsPresent() {
		if s.model != nil {
			delete(s.model.values, key)
		}
		return nil
	}
	if s.model == nil {
		s.model = NewModel()
	}
	s.model.values[key] = entry{
		field:   id,
		entity:  f.Entity,
		indices: slices.Clone(indices),
		value:   v,
		updated: time.Now().UTC(),
	}
	return nil
}

func (s *Store) CreateRoot(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model == nil {
		s.model = NewModel()
		s.logger.DebugContext(ctx, "memory root created", "root", s.model.id)
	}
	return nil
}

func (s *Store) GetRoot(ctx context.Context) (meta.Root, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.model == nil {
		return nil, nil
	}
	return s.model, nil
}

// SetRoot replaces the model with a copy of root. Only *Model roots are
// accepted; nil clears the store.
func (s *Store) SetRoot(ctx context.Context, root meta.Root) error {
	var m *Model
	switch r := root.(type) {
	case nil:
	case *Model:
		if r != nil {
			m = r.clone()
		}
	default:
		return errors.NewValidationError("root", fmt.Sprintf("memory store cannot adopt a %T root", root))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = m
	return nil
}

// Stream sends a snapshot of the stored records ordered by field and index.
func (s *Store) Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[storagemodels.Record] {
	o := storagemodels.ApplyStreamOptions(opts...)
	records := s.snapshot(o.Prefix)

	out := make(chan storagemodels.StreamResult[storagemodels.Record], o.BufferSize)
	go func() {
		defer close(out)
		for i, rec := range records {
			res := storagemodels.StreamResult[storagemodels.Record]{
				Item: rec,
				Meta: storagemodels.StreamMeta{
					Index:      int64(i),
					PageNumber: 1,
					Timestamp:  time.Now(),
				},
			}
			select {
			case <-ctx.Done():
				return
			case out <- res:
			}
		}
	}()
	return out
}

func (s *Store) snapshot(prefix string) []storagemodels.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.model == nil {
		return nil
	}

	entries := make([]entry, 0, len(s.model.values))
	for _, e := range s.model.values {
		if strings.HasPrefix(string(e.field), prefix) {
			entries = append(entries, e)
		}
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if c := strings.Compare(string(a.field), string(b.field)); c != 0 {
			return c
		}
		return slices.Compare(a.indices, b.indices)
	})

	records := make([]storagemodels.Record, 0, len(entries))
	for _, e := range entries {
		kind, text, err := meta.Encode(e.value)
		if err != nil {
			continue
		}
		records = append(records, storagemodels.Record{
			Root:      s.model.id,
			Entity:    e.entity,
			Field:     string(e.field),
			Indices:   storagemodels.IndexKey(e.indices),
			Kind:      kind,
			Value:     text,
			UpdatedAt: strfmt.DateTime(e.updated),
		})
	}
	return records
}

func (s *Store) Close() error { return nil }
