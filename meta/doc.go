/*
Package meta defines the metadata accessor contract shared by every store
and composition in this module.

A container exposes up to two capabilities:

	Retrieve  Get(ctx, field, indices...) (Value, error)
	Store     Set(ctx, field, value, indices...) error
	          CreateRoot / GetRoot / SetRoot

Absence is a value, not an error. A field that was never set reads back as
Absent(), and a negative count collapses to Absent() as well:

	v, err := r.Get(ctx, schema.ImageName, 0)
	if err != nil {
	    return err // the backing store failed
	}
	if name, ok := v.AsString(); ok {
	    fmt.Println(name)
	}

Index tuples are not validated here. Range and arity checks belong to the
backing store (see schema.Field.CheckIndices).

Sub-packages provide the compositions: dummy (null object), aggregate
(first-match reads, broadcast writes) and filter (string sanitizing proxy).
*/
package meta
