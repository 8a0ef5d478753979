/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package aggregate

import (
	"fmt"
	"reflect"

	"github.com/suparena/metastore/errors"
	"github.com/suparena/metastore/meta"
)

// Delegate is a backing store registered with an aggregator, together with
// the capabilities the aggregator may use on it.
type Delegate struct {
	source any
	r      meta.Retrieve
	w      meta.Store
}

// ReadOnly registers r for reads only, even if it can also be written.
func ReadOnly(r meta.Retrieve) Delegate {
	return Delegate{source: r, r: r}
}

// WriteOnly registers w for writes only, even if it can also be read.
func WriteOnly(w meta.Store) Delegate {
	return Delegate{source: w, w: w}
}

// ReadWrite registers m for both reads and writes.
func ReadWrite(m meta.Metadata) Delegate {
	return Delegate{source: m, r: m, w: m}
}

// Wrap registers v with every capability it implements.
func Wrap(v any) (Delegate, error) {
	r, canRead := v.(meta.Retrieve)
	w, canWrite := v.(meta.Store)
	if !canRead && !canWrite {
		return Delegate{}, errors.NewValidationError("", fmt.Sprintf("%T implements neither meta.Retrieve nor meta.Store", v))
	}
	return Delegate{source: v, r: r, w: w}, nil
}

func (d Delegate) CanRead() bool { return d.r != nil }

func (d Delegate) CanWrite() bool { return d.w != nil }

// Source returns the registered backing store.
func (d Delegate) Source() any { return d.source }

func (d Delegate) Retrieve() (meta.Retrieve, bool) { return d.r, d.r != nil }

func (d Delegate) Store() (meta.Store, bool) { return d.w, d.w != nil }

func (d Delegate) String() string {
	mode := "none"
	switch {
	case d.CanRead() && d.CanWrite():
		mode = "readwrite"
	case d.CanRead():
		mode = "read"
	case d.CanWrite():
		mode = "write"
	}
	return fmt.Sprintf("%T(%s)", d.source, mode)
}

// sameSource compares backing stores by identity. Values of incomparable
// dynamic types never match.
func sameSource(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
