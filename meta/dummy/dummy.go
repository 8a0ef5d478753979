/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package dummy provides a metadata container that stores nothing.
//
// Every read reports the absent value for any field and any index tuple, and
// every write is discarded. It stands in where a Metadata is required but no
// metadata is wanted.
package dummy

import (
	"context"

	"github.com/suparena/metastore/meta"
	"github.com/suparena/metastore/schema"
)

// Metadata is the null metadata container. The zero value is ready to use.
type Metadata struct{}

var _ meta.Metadata = Metadata{}

// New returns a null metadata container.
func New() Metadata { return Metadata{} }

func (Metadata) Get(context.Context, schema.FieldID, ...int) (meta.Value, error) {
	return meta.Absent(), nil
}

func (Metadata) Set(context.Context, schema.FieldID, meta.Value, ...int) error {
	return nil
}

func (Metadata) CreateRoot(context.Context) error { return nil }

func (Metadata) GetRoot(context.Context) (meta.Root, error) { return nil, nil }

func (Metadata) SetRoot(context.Context, meta.Root) error { return nil }
