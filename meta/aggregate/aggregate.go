/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package aggregate

import (
	"context"
	"log/slog"

	"github.com/suparena/metastore/errors"
	"github.com/suparena/metastore/meta"
	"github.com/suparena/metastore/schema"
)

const (
	receiver = "aggregate metadata"
	rootHint = "use Delegates() and the root of each delegate"
)

// Metadata fans one metadata contract out over an ordered delegate list.
//
// Reads return the first present value in list order. Writes are broadcast
// to every write-capable delegate and are not atomic: when a delegate fails,
// the error is returned and delegates earlier in the list keep the write.
//
// Metadata does not lock. Callers that share it between goroutines must
// serialize changes to the delegate list themselves.
type Metadata struct {
	delegates []Delegate
	logger    *slog.Logger
}

var _ meta.Metadata = (*Metadata)(nil)

// Option configures an aggregator.
type Option func(*Metadata)

// WithLogger sets the logger used for resolution traces.
func WithLogger(l *slog.Logger) Option {
	return func(m *Metadata) {
		if l != nil {
			m.logger = l
		}
	}
}

// New returns an aggregator over a copy of delegates.
func New(delegates []Delegate, opts ...Option) *Metadata {
	m := &Metadata{
		delegates: append([]Delegate(nil), delegates...),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddDelegate appends d, giving it the lowest read precedence.
func (m *Metadata) AddDelegate(d Delegate) {
	m.delegates = append(m.delegates, d)
}

// RemoveDelegate removes the first delegate registered for source and
// reports whether one was found.
func (m *Metadata) RemoveDelegate(source any) bool {
	for i, d := range m.delegates {
		if sameSource(d.source, source) {
			m.delegates = append(m.delegates[:i], m.delegates[i+1:]...)
			return true
		}
	}
	return false
}

// Delegates returns the delegate list itself, not a copy. Reordering or
// replacing its elements changes the aggregator.
func (m *Metadata) Delegates() []Delegate {
	return m.delegates
}

// Get returns the first present value among the read-capable delegates.
// A delegate error stops the search and is returned as is.
func (m *Metadata) Get(ctx context.Context, id schema.FieldID, indices ...int) (meta.Value, error) {
	for i, d := range m.delegates {
		if d.r == nil {
			continue
		}
		v, err := d.r.Get(ctx, id, indices...)
		if err != nil {
			return meta.Absent(), err
		}
		if v.IsPresent() {
			m.logger.DebugContext(ctx, "metadata resolved",
				"field", id, "indices", indices, "delegate", i)
			return v, nil
		}
	}
	return meta.Absent(), nil
}

// Set writes v to every write-capable delegate in list order.
func (m *Metadata) Set(ctx context.Context, id schema.FieldID, v meta.Value, indices ...int) error {
	for _, d := range m.delegates {
		if d.w == nil {
			continue
		}
		if err := d.w.Set(ctx, id, v, indices...); err != nil {
			return err
		}
	}
	return nil
}

// CreateRoot creates a root in every write-capable delegate.
func (m *Metadata) CreateRoot(ctx context.Context) error {
	for _, d := range m.delegates {
		if d.w == nil {
			continue
		}
		if err := d.w.CreateRoot(ctx); err != nil {
			return err
		}
	}
	return nil
}

// GetRoot always fails: several backing models cannot be flattened into one
// root. Use the roots of the individual delegates instead.
func (m *Metadata) GetRoot(context.Context) (meta.Root, error) {
	return nil, errors.NewUnsupportedError("GetRoot", receiver, rootHint)
}

// SetRoot always fails, for the same reason as GetRoot.
func (m *Metadata) SetRoot(context.Context, meta.Root) error {
	return errors.NewUnsupportedError("SetRoot", receiver, rootHint)
}
