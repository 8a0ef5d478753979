/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/metastore/meta"
	"github.com/suparena/metastore/storagemodels"
)

// Backend is a backing store: a full metadata container that can also list
// what it holds and release its resources.
type Backend interface {
	meta.Metadata

	// Stream sends every stored record of the current root. The channel is
	// closed when the stream ends or ctx is done.
	Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[storagemodels.Record]

	Close() error
}
