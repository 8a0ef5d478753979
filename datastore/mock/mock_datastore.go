/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides a recording implementation of datastore.Backend for testing
package mock

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/suparena/metastore/datastore"
	"github.com/suparena/metastore/meta"
	"github.com/suparena/metastore/schema"
	"github.com/suparena/metastore/storagemodels"
)

// Call records one invocation on the mock
type Call struct {
	Op      string // "Get", "Set", "CreateRoot", "GetRoot" or "SetRoot"
	Field   schema.FieldID
	Indices []int
	Value   meta.Value
}

// DataStore is a mock metadata store. It keeps values by field and index
// tuple without consulting a schema, so any field is accepted.
type DataStore struct {
	mu        sync.RWMutex
	name      string
	data      map[string]meta.Value
	root      meta.Root
	calls     []Call
	getFunc   func(ctx context.Context, id schema.FieldID, indices []int) (meta.Value, error)
	getError  error
	setError  error
	rootError error
}

var _ datastore.Backend = (*DataStore)(nil)

// New creates a new mock DataStore. The name shows up in String and helps
// tell mocks apart in failure output.
func New(name string) *DataStore {
	return &DataStore{
		name: name,
		data: make(map[string]meta.Value),
	}
}

// WithGetFunc sets a custom read function for testing
func (m *DataStore) WithGetFunc(f func(ctx context.Context, id schema.FieldID, indices []int) (meta.Value, error)) *DataStore {
	m.getFunc = f
	return m
}

// WithGetError makes Get operations return an error
func (m *DataStore) WithGetError(err error) *DataStore {
	m.getError = err
	return m
}

// WithSetError makes Set operations return an error
func (m *DataStore) WithSetError(err error) *DataStore {
	m.setError = err
	return m
}

// WithRootError makes the root operations return an error
func (m *DataStore) WithRootError(err error) *DataStore {
	m.rootError = err
	return m
}

// WithValue seeds a value
func (m *DataStore) WithValue(id schema.FieldID, v meta.Value, indices ...int) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[storagemodels.FieldKey(string(id), indices)] = v
	return m
}

func (m *DataStore) String() string { return "mock(" + m.name + ")" }

func (m *DataStore) record(c Call) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.Indices = slices.Clone(c.Indices)
	m.calls = append(m.calls, c)
}

// Get returns the stored value, or the absent value
func (m *DataStore) Get(ctx context.Context, id schema.FieldID, indices ...int) (meta.Value, error) {
	m.record(Call{Op: "Get", Field: id, Indices: indices})
	if m.getError != nil {
		return meta.Absent(), m.getError
	}
	if m.getFunc != nil {
		return m.getFunc(ctx, id, indices)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[storagemodels.FieldKey(string(id), indices)], nil
}

// Set stores a value; the absent value deletes
func (m *DataStore) Set(ctx context.Context, id schema.FieldID, v meta.Value, indices ...int) error {
	m.record(Call{Op: "Set", Field: id, Indices: indices, Value: v})
	if m.setError != nil {
		return m.setError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := storagemodels.FieldKey(string(id), indices)
	if !v.IsPresent() {
		delete(m.data, key)
		return nil
	}
	m.data[key] = v
	return nil
}

// CreateRoot sets a root named after the mock if none is set
func (m *DataStore) CreateRoot(ctx context.Context) error {
	m.record(Call{Op: "CreateRoot"})
	if m.rootError != nil {
		return m.rootError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.root == nil {
		m.root = meta.RootRef(m.name)
	}
	return nil
}

// GetRoot returns the current root
func (m *DataStore) GetRoot(ctx context.Context) (meta.Root, error) {
	m.record(Call{Op: "GetRoot"})
	if m.rootError != nil {
		return nil, m.rootError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.root, nil
}

// SetRoot replaces the current root
func (m *DataStore) SetRoot(ctx context.Context, root meta.Root) error {
	m.record(Call{Op: "SetRoot"})
	if m.rootError != nil {
		return m.rootError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.root = root
	return nil
}

// Stream returns a channel of the stored values in key order
func (m *DataStore) Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[storagemodels.Record] {
	o := storagemodels.ApplyStreamOptions(opts...)

	m.mu.RLock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if strings.HasPrefix(k, o.Prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	results := make([]storagemodels.StreamResult[storagemodels.Record], 0, len(keys))
	for i, k := range keys {
		field, idx, _ := strings.Cut(k, "#")
		kind, text, err := meta.Encode(m.data[k])
		results = append(results, storagemodels.StreamResult[storagemodels.Record]{
			Item: storagemodels.Record{
				Entity:  schema.FieldID(field).Entity(),
				Field:   field,
				Indices: idx,
				Kind:    kind,
				Value:   text,
			},
			Error: err,
			Meta:  storagemodels.StreamMeta{Index: int64(i), PageNumber: 1},
		})
	}
	m.mu.RUnlock()

	resultChan := make(chan storagemodels.StreamResult[storagemodels.Record], o.BufferSize)
	go func() {
		defer close(resultChan)
		for _, r := range results {
			select {
			case <-ctx.Done():
				return
			case resultChan <- r:
			}
		}
	}()
	return resultChan
}

func (m *DataStore) Close() error { return nil }

// Helper methods for testing

// Calls returns a copy of the recorded calls
func (m *DataStore) Calls() []Call {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.calls)
}

// CallCount returns how many times op was invoked
func (m *DataStore) CallCount(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, c := range m.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Count returns the number of stored values
func (m *DataStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Clear removes all data and recorded calls
func (m *DataStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]meta.Value)
	m.calls = nil
}

// Reader exposes only the read capability of the mock
func (m *DataStore) Reader() meta.Retrieve { return reader{m} }

// Writer exposes only the write capability of the mock
func (m *DataStore) Writer() meta.Store { return writer{m} }

type reader struct{ m *DataStore }

func (r reader) Get(ctx context.Context, id schema.FieldID, indices ...int) (meta.Value, error) {
	return r.m.Get(ctx, id, indices...)
}

type writer struct{ m *DataStore }

func (w writer) Set(ctx context.Context, id schema.FieldID, v meta.Value, indices ...int) error {
	return w.m.Set(ctx, id, v, indices...)
}

func (w writer) CreateRoot(ctx context.Context) error { return w.m.CreateRoot(ctx) }

func (w writer) GetRoot(ctx context.Context) (meta.Root, error) { return w.m.GetRoot(ctx) }

func (w writer) SetRoot(ctx context.Context, root meta.Root) error { return w.m.SetRoot(ctx, root) }
