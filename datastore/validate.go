/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"github.com/suparena/metastore/errors"
	"github.com/suparena/metastore/meta"
	"github.com/suparena/metastore/schema"
)

// CheckRead resolves id and validates an index tuple for a read.
func CheckRead(reg *schema.Registry, id schema.FieldID, indices []int) (schema.Field, error) {
	f, err := reg.Require(id)
	if err != nil {
		return schema.Field{}, err
	}
	if err := f.CheckIndices(indices); err != nil {
		return schema.Field{}, err
	}
	return f, nil
}

// CheckWrite is CheckRead plus validation of the value being written.
func CheckWrite(reg *schema.Registry, id schema.FieldID, v meta.Value, indices []int) (schema.Field, error) {
	f, err := CheckRead(reg, id, indices)
	if err != nil {
		return schema.Field{}, err
	}
	if f.Kind == schema.KindCount {
		return schema.Field{}, errors.NewValidationError(string(id), "count fields are derived and cannot be set")
	}
	if err := meta.Validate(f, v); err != nil {
		return schema.Field{}, err
	}
	return f, nil
}

// CountScope returns the entities whose stored tuples imply instances of the
// entity owning a count field: the entity and all of its descendants.
func CountScope(reg *schema.Registry, f schema.Field) []string {
	return reg.Subtree(f.Entity)
}
