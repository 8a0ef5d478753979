/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package meta

import (
	"context"

	"github.com/suparena/metastore/schema"
)

// Retrieve is the read capability of a metadata container.
//
// Get returns the absent value, not an error, when a field has not been set.
// Errors are reserved for failures of the backing store itself.
type Retrieve interface {
	Get(ctx context.Context, id schema.FieldID, indices ...int) (Value, error)
}

// Store is the write capability of a metadata container.
type Store interface {
	Set(ctx context.Context, id schema.FieldID, v Value, indices ...int) error

	// CreateRoot makes sure a root object exists. Calling it again is a no-op.
	CreateRoot(ctx context.Context) error

	// GetRoot returns the backing root object, or nil if there is none.
	GetRoot(ctx context.Context) (Root, error)

	// SetRoot replaces the backing root object.
	SetRoot(ctx context.Context, root Root) error
}

// Metadata is a container with both capabilities.
type Metadata interface {
	Retrieve
	Store
}

// Root is an opaque handle on a store's backing object.
type Root interface {
	RootID() string
}

// RootRef is a Root known only by its identifier.
type RootRef string

func (r RootRef) RootID() string { return string(r) }
