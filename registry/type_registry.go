/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/suparena/metastore/config"
	"github.com/suparena/metastore/errors"
	"github.com/suparena/metastore/meta"
	"github.com/suparena/metastore/schema"
)

// Env carries what every backend shares.
type Env struct {
	Registry *schema.Registry
	Logger   *slog.Logger
}

// OpenFunc builds the store described by sc.
type OpenFunc func(ctx context.Context, sc config.StoreConfig, env Env) (meta.Metadata, error)

var (
	mu       sync.RWMutex
	backends = make(map[string]OpenFunc)
)

// RegisterBackend registers the open function for a store type.
// If the type is already registered, it panics to prevent accidental overrides.
func RegisterBackend(kind string, fn OpenFunc) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := backends[kind]; exists {
		panic(fmt.Sprintf("backend registry: type %q already registered", kind))
	}
	backends[kind] = fn
}

// GetBackend returns the open function registered for kind.
func GetBackend(kind string) (OpenFunc, error) {
	mu.RLock()
	defer mu.RUnlock()
	fn, ok := backends[kind]
	if !ok {
		return nil, errors.NewNotFoundError("backend", kind)
	}
	return fn, nil
}

// Backends lists the registered store types in order.
func Backends() []string {
	mu.RLock()
	defer mu.RUnlock()
	kinds := make([]string, 0, len(backends))
	for k := range backends {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
