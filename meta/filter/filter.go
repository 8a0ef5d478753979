/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package filter provides a write proxy that sanitizes free text before it
// reaches a metadata store.
package filter

import (
	"context"

	"golang.org/x/text/unicode/norm"

	"github.com/suparena/metastore/meta"
	"github.com/suparena/metastore/schema"
)

// Metadata forwards every write to the wrapped store. When filtering is on,
// string values bound for free-text fields pass through Sanitize first.
// Identifiers (ref, uuid and enum fields) and non-string values are always
// forwarded unchanged.
type Metadata struct {
	store     meta.Store
	filter    bool
	reg       *schema.Registry
	normalize *norm.Form
}

var _ meta.Store = (*Metadata)(nil)

// Option configures the proxy.
type Option func(*Metadata)

// WithRegistry selects the schema used to tell free text from identifiers.
func WithRegistry(reg *schema.Registry) Option {
	return func(m *Metadata) { m.reg = reg }
}

// WithNormalization applies a Unicode normalization form to sanitized text.
func WithNormalization(f norm.Form) Option {
	return func(m *Metadata) { m.normalize = &f }
}

// New wraps store. The filter flag cannot be changed afterwards.
func New(store meta.Store, filter bool, opts ...Option) *Metadata {
	m := &Metadata{store: store, filter: filter, reg: schema.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Filtering reports whether string values are sanitized.
func (m *Metadata) Filtering() bool { return m.filter }

// Unwrap returns the wrapped store.
func (m *Metadata) Unwrap() meta.Store { return m.store }

func (m *Metadata) Set(ctx context.Context, id schema.FieldID, v meta.Value, indices ...int) error {
	if m.filter && m.freeText(id) {
		if s, ok := v.AsString(); ok {
			v = meta.Text(m.clean(s))
		}
	}
	return m.store.Set(ctx, id, v, indices...)
}

func (m *Metadata) clean(s string) string {
	s = Sanitize(s)
	if m.normalize != nil {
		s = m.normalize.String(s)
	}
	return s
}

// freeText reports whether id carries free text. Fields the registry does
// not know are treated as text; the store rejects them afterwards.
func (m *Metadata) freeText(id schema.FieldID) bool {
	f, ok := m.reg.Lookup(id)
	if !ok {
		return true
	}
	return f.Kind == schema.KindText
}

func (m *Metadata) CreateRoot(ctx context.Context) error {
	return m.store.CreateRoot(ctx)
}

func (m *Metadata) GetRoot(ctx context.Context) (meta.Root, error) {
	return m.store.GetRoot(ctx)
}

func (m *Metadata) SetRoot(ctx context.Context, root meta.Root) error {
	return m.store.SetRoot(ctx, root)
}
