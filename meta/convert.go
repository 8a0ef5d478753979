/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package meta

import (
	"context"
	"fmt"
	"slices"

	"github.com/suparena/metastore/schema"
)

// Convert copies every present field of src into dst and returns the number
// of fields written.
//
// The walk starts at the registry root and follows each indexed entity's
// count field, so only instances src reports are visited. Count fields are
// never written. The first read or write error aborts the copy; fields
// already written stay written.
func Convert(ctx context.Context, src Retrieve, dst Store, reg *schema.Registry) (int, error) {
	if err := dst.CreateRoot(ctx); err != nil {
		return 0, fmt.Errorf("create destination root: %w", err)
	}
	c := &converter{src: src, dst: dst, reg: reg}
	err := c.visit(ctx, reg.Root(), nil)
	return c.written, err
}

type converter struct {
	src     Retrieve
	dst     Store
	reg     *schema.Registry
	written int
}

func (c *converter) visit(ctx context.Context, ent schema.Entity, path []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, f := range c.reg.FieldsOf(ent.Name) {
		if f.Kind == schema.KindCount {
			continue
		}
		v, err := c.src.Get(ctx, f.ID, path...)
		if err != nil {
			return fmt.Errorf("read %s%v: %w", f.ID, path, err)
		}
		if !v.IsPresent() {
			continue
		}
		if err := c.dst.Set(ctx, f.ID, v, path...); err != nil {
			return fmt.Errorf("write %s%v: %w", f.ID, path, err)
		}
		c.written++
	}

	for _, name := range c.reg.Children(ent.Name) {
		child, _ := c.reg.Entity(name)
		if !child.Indexed() {
			if err := c.visit(ctx, child, path); err != nil {
				return err
			}
			continue
		}

		v, err := c.src.Get(ctx, child.CountID(), path...)
		if err != nil {
			return fmt.Errorf("read %s%v: %w", child.CountID(), path, err)
		}
		n, _ := v.AsCount()
		for i := 0; i < n; i++ {
			if err := c.visit(ctx, child, append(slices.Clone(path), i)); err != nil {
				return err
			}
		}
	}
	return nil
}
