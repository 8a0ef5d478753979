/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-openapi/strfmt"
)

// Record is one stored field value, as persisted by the backing stores.
type Record struct {
	// Root identifies the root object the value belongs to.
	Root string
	// Entity is the entity part of Field, kept for count derivation.
	Entity string
	// Field is the "<Entity>.<Field>" identifier.
	Field string
	// Indices is the index tuple in IndexKey form.
	Indices string
	// Kind is the encoded value kind (see meta.Encode).
	Kind string
	// Value is the encoded payload.
	Value string
	// UpdatedAt is set by the store on every write.
	UpdatedAt strfmt.DateTime
}

// Tuple decodes the record's index tuple.
func (r Record) Tuple() ([]int, error) {
	return ParseIndexKey(r.Indices)
}

// IndexKey encodes an index tuple as dot separated decimals. The empty
// tuple encodes as "".
func IndexKey(indices []int) string {
	if len(indices) == 0 {
		return ""
	}
	parts := make([]string, len(indices))
	for i, v := range indices {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ".")
}

// ParseIndexKey is the inverse of IndexKey.
func ParseIndexKey(key string) ([]int, error) {
	if key == "" {
		return nil, nil
	}
	parts := strings.Split(key, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid index key %q", key)
		}
		out[i] = v
	}
	return out, nil
}

// FieldKey joins a field identifier and its index tuple into one key.
func FieldKey(field string, indices []int) string {
	return field + "#" + IndexKey(indices)
}

// DeriveCount returns the number of instances implied by a set of stored
// index tuples under the given parent tuple: one past the largest index
// found at the parent's depth, or zero.
func DeriveCount(tuples [][]int, parent []int) int {
	depth := len(parent)
	n := 0
	for _, t := range tuples {
		if len(t) <= depth || !slices.Equal(t[:depth], parent) {
			continue
		}
		if t[depth]+1 > n {
			n = t[depth] + 1
		}
	}
	return n
}
