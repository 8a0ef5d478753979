/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package meta

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/metastore/schema"
)

// ValueKind discriminates the payload of a Value.
type ValueKind uint8

const (
	KindAbsent ValueKind = iota
	KindCount
	KindString
	KindInt
	KindFloat
	KindBool
	KindTimestamp
	KindBytes
)

var kindNames = [...]string{
	KindAbsent:    "absent",
	KindCount:     "count",
	KindString:    "string",
	KindInt:       "int",
	KindFloat:     "float",
	KindBool:      "bool",
	KindTimestamp: "timestamp",
	KindBytes:     "bytes",
}

func (k ValueKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "ValueKind(" + strconv.Itoa(int(k)) + ")"
}

// ParseValueKind is the inverse of ValueKind.String.
func ParseValueKind(name string) (ValueKind, error) {
	for k, n := range kindNames {
		if n == name {
			return ValueKind(k), nil
		}
	}
	return KindAbsent, fmt.Errorf("unknown value kind %q", name)
}

// ValueKindOf returns the kind of value a schema field carries.
func ValueKindOf(k schema.Kind) ValueKind {
	switch k {
	case schema.KindCount:
		return KindCount
	case schema.KindText, schema.KindRef, schema.KindUUID, schema.KindEnum:
		return KindString
	case schema.KindInt:
		return KindInt
	case schema.KindFloat:
		return KindFloat
	case schema.KindBool:
		return KindBool
	case schema.KindTimestamp:
		return KindTimestamp
	case schema.KindBinary:
		return KindBytes
	}
	return KindAbsent
}

// Value is an optional metadata value. The zero Value is absent.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	b    bool
	s    string
	t    strfmt.DateTime
	raw  []byte
}

// Absent returns the value reported for fields that are not set.
func Absent() Value { return Value{} }

// Count returns a count value. Negative counts are absent.
func Count(n int) Value {
	if n < 0 {
		return Value{}
	}
	return Value{kind: KindCount, i: int64(n)}
}

func Text(s string) Value { return Value{kind: KindString, s: s} }

func Int(n int64) Value { return Value{kind: KindInt, i: n} }

func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Time(t strfmt.DateTime) Value { return Value{kind: KindTimestamp, t: t} }

// Bytes copies b into a new value. A nil slice is still present.
func Bytes(b []byte) Value {
	return Value{kind: KindBytes, raw: bytes.Clone(b)}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsPresent() bool { return v.kind != KindAbsent }

func (v Value) AsCount() (int, bool) {
	return int(v.i), v.kind == KindCount
}

func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

func (v Value) AsFloat() (float64, bool) {
	return v.f, v.kind == KindFloat
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsTime() (strfmt.DateTime, bool) {
	return v.t, v.kind == KindTimestamp
}

func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return bytes.Clone(v.raw), true
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindAbsent:
		return true
	case KindCount, KindInt:
		return v.i == o.i
	case KindString:
		return v.s == o.s
	case KindFloat:
		return v.f == o.f
	case KindBool:
		return v.b == o.b
	case KindTimestamp:
		return time.Time(v.t).Equal(time.Time(o.t))
	case KindBytes:
		return bytes.Equal(v.raw, o.raw)
	}
	return false
}

// String renders the payload for display.
func (v Value) String() string {
	switch v.kind {
	case KindCount, KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindString:
		return v.s
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTimestamp:
		return v.t.String()
	case KindBytes:
		return hex.EncodeToString(v.raw)
	}
	return "<absent>"
}

// GoString makes absent values distinguishable in test failure output.
func (v Value) GoString() string {
	if !v.IsPresent() {
		return "meta.Absent()"
	}
	return fmt.Sprintf("meta.Value{%s: %q}", v.kind, v.String())
}
