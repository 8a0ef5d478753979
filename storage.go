/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package metastore

import (
	"fmt"
	"sort"
	"sync"

	"github.com/suparena/metastore/errors"
	"github.com/suparena/metastore/meta"
)

// Storage is a thread-safe catalog of named backing stores.
type Storage struct {
	mu     sync.RWMutex
	stores map[string]meta.Metadata
}

// NewStorage creates an empty catalog.
func NewStorage() *Storage {
	return &Storage{
		stores: make(map[string]meta.Metadata),
	}
}

// Register adds a store under name.
func (s *Storage) Register(name string, m meta.Metadata) error {
	if m == nil {
		return errors.NewValidationError("store", fmt.Sprintf("store %q is nil", name))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.stores[name]; exists {
		return errors.NewAlreadyExistsError("store", name)
	}
	s.stores[name] = m
	return nil
}

// Get retrieves a store by name.
func (s *Storage) Get(name string) (meta.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.stores[name]
	if !exists {
		return nil, errors.NewNotFoundError("store", name)
	}
	return m, nil
}

// Remove deletes a store by name. The store itself is not closed.
func (s *Storage) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.stores[name]; !exists {
		return errors.NewNotFoundError("store", name)
	}
	delete(s.stores, name)
	return nil
}

// List returns the registered names in order.
func (s *Storage) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.stores))
	for k := range s.stores {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Lookup retrieves a store by name as its concrete type, e.g.
// Lookup[*sqlite.Store](s, "cache").
func Lookup[T any](s *Storage, name string) (T, error) {
	var zero T
	m, err := s.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := m.(T)
	if !ok {
		return zero, errors.NewValidationError("store", fmt.Sprintf("store %q is a %T, not a %T", name, m, zero))
	}
	return typed, nil
}
