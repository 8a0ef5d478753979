/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dummy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/metastore/meta"
	"github.com/suparena/metastore/schema"
)

func TestGetIsAlwaysAbsent(t *testing.T) {
	ctx := context.Background()
	d := New()

	tests := []struct {
		name    string
		field   schema.FieldID
		indices []int
	}{
		{"root field", schema.OMEUUID, nil},
		{"count", schema.ImageCount, nil},
		{"indexed", schema.ImageName, []int{0}},
		{"nested", schema.ChannelName, []int{3, 7}},
		{"negative index", schema.ImageName, []int{-1}},
		{"wrong arity", schema.ChannelName, []int{0, 1, 2, 3}},
		{"unknown field", "Nope.Nothing", []int{42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := d.Get(ctx, tt.field, tt.indices...)
			require.NoError(t, err)
			assert.False(t, v.IsPresent())
		})
	}
}

func TestWritesAreDiscarded(t *testing.T) {
	ctx := context.Background()
	var d Metadata

	require.NoError(t, d.Set(ctx, schema.ImageName, meta.Text("cells"), 0))
	require.NoError(t, d.Set(ctx, schema.PixelsSizeX, meta.Int(512), 0))
	require.NoError(t, d.Set(ctx, "Nope.Nothing", meta.Text("x")))

	v, err := d.Get(ctx, schema.ImageName, 0)
	require.NoError(t, err)
	assert.False(t, v.IsPresent())

	n, err := d.Get(ctx, schema.ImageCount)
	require.NoError(t, err)
	_, ok := n.AsCount()
	assert.False(t, ok)
}

func TestRootLifecycle(t *testing.T) {
	ctx := context.Background()
	d := New()

	require.NoError(t, d.CreateRoot(ctx))
	require.NoError(t, d.SetRoot(ctx, meta.RootRef("abc")))

	root, err := d.GetRoot(ctx)
	require.NoError(t, err)
	assert.Nil(t, root)
}
