/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/metastore/errors"
)

func TestDefaultRegistry(t *testing.T) {
	reg := Default()
	require.NotNil(t, reg)
	assert.Same(t, reg, Default(), "Default should be built once")

	assert.Equal(t, "OME", reg.Root().Name)

	t.Run("text field", func(t *testing.T) {
		f, ok := reg.Lookup(ImageName)
		require.True(t, ok)
		assert.Equal(t, KindText, f.Kind)
		assert.Equal(t, "Image", f.Entity)
		assert.Equal(t, []string{"imageIndex"}, f.Indices)
	})

	t.Run("singleton shares parent path", func(t *testing.T) {
		f, ok := reg.Lookup(PixelsSizeX)
		require.True(t, ok)
		assert.Equal(t, []string{"imageIndex"}, f.Indices)

		_, ok = reg.Lookup("Pixels.Count")
		assert.False(t, ok, "singletons have no count field")
	})

	t.Run("nested path", func(t *testing.T) {
		f, ok := reg.Lookup(ChannelName)
		require.True(t, ok)
		assert.Equal(t, []string{"imageIndex", "channelIndex"}, f.Indices)
	})

	t.Run("count field uses parent path", func(t *testing.T) {
		f, ok := reg.Lookup(ChannelCount)
		require.True(t, ok)
		assert.Equal(t, KindCount, f.Kind)
		assert.Equal(t, []string{"imageIndex"}, f.Indices)

		f, ok = reg.Lookup(ImageCount)
		require.True(t, ok)
		assert.Empty(t, f.Indices)
	})

	t.Run("root fields", func(t *testing.T) {
		f, ok := reg.Lookup(OMEUUID)
		require.True(t, ok)
		assert.Equal(t, KindUUID, f.Kind)
		assert.Zero(t, f.Arity())
	})

	t.Run("enum values", func(t *testing.T) {
		f, ok := reg.Lookup(PixelsDimensionOrder)
		require.True(t, ok)
		assert.True(t, f.AllowsEnum("XYZCT"))
		assert.False(t, f.AllowsEnum("xyzct"))
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := reg.Require("Image.Colour")
		assert.True(t, errors.IsUnknownField(err))
	})
}

func TestRegistryTree(t *testing.T) {
	reg := Default()

	assert.Equal(t, []string{"Pixels"}, reg.Children("Image"))
	assert.Equal(t, []string{"Channel", "Plane"}, reg.Children("Pixels"))
	assert.Empty(t, reg.Children("Plane"))

	ent, ok := reg.Entity("WellSample")
	require.True(t, ok)
	assert.Equal(t, []string{"plateIndex", "wellIndex", "wellSampleIndex"}, ent.Path)
	assert.Equal(t, WellSampleCount, ent.CountID())

	assert.Equal(t, []string{"Pixels", "Channel", "Plane"}, reg.Subtree("Pixels"))
	assert.Nil(t, reg.Subtree("Nope"))

	fields := reg.FieldsOf("Instrument")
	require.Len(t, fields, 2)
	assert.Equal(t, InstrumentCount, fields[0].ID)
	assert.Equal(t, InstrumentID, fields[1].ID)

	// Every entity is reachable from the root.
	seen := map[string]bool{}
	var walk func(string)
	walk = func(name string) {
		seen[name] = true
		for _, c := range reg.Children(name) {
			walk(c)
		}
	}
	walk(reg.Root().Name)
	assert.Len(t, seen, len(reg.Entities()))
}

func TestCheckIndices(t *testing.T) {
	f, ok := Default().Lookup(ChannelName)
	require.True(t, ok)

	tests := []struct {
		name    string
		indices []int
		wantErr bool
	}{
		{"valid", []int{0, 3}, false},
		{"too few", []int{0}, true},
		{"too many", []int{0, 1, 2}, true},
		{"negative", []int{0, -1}, true},
		{"nil", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.CheckIndices(tt.indices)
			if tt.wantErr {
				assert.True(t, errors.IsValidationError(err), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFieldID(t *testing.T) {
	assert.Equal(t, "Channel", ChannelFluor.Entity())
	assert.Equal(t, "Fluor", ChannelFluor.Name())
	assert.Equal(t, "Channel.Fluor", ChannelFluor.String())
}

func TestLoadRejectsMalformedCatalogues(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "unknown kind",
			doc: `entities:
  - name: Root
    fields:
      - {name: A, kind: colour}`,
		},
		{
			name: "unknown parent",
			doc: `entities:
  - name: Root
  - name: Child
    parent: Missing
    index: childIndex`,
		},
		{
			name: "parent declared later",
			doc: `entities:
  - name: Root
  - name: A
    parent: B
    index: a
  - name: B
    parent: A
    index: b`,
		},
		{
			name: "duplicate field",
			doc: `entities:
  - name: Root
    fields:
      - {name: A, kind: text}
      - {name: A, kind: int}`,
		},
		{
			name: "duplicate entity",
			doc: `entities:
  - name: Root
  - name: X
    parent: Root
    index: x
  - name: X
    parent: Root
    index: y`,
		},
		{
			name: "two roots",
			doc: `entities:
  - name: Root
  - name: Other`,
		},
		{
			name: "no root",
			doc:  `entities: []`,
		},
		{
			name: "reserved count name",
			doc: `entities:
  - name: Root
    fields:
      - {name: Count, kind: int}`,
		},
		{
			name: "enum without values",
			doc: `entities:
  - name: Root
    fields:
      - {name: Mode, kind: enum}`,
		},
		{
			name: "declared count kind",
			doc: `entities:
  - name: Root
    fields:
      - {name: N, kind: count}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		})
	}

	t.Run("unknown yaml key", func(t *testing.T) {
		_, err := Load(strings.NewReader("entities:\n  - name: Root\n    colour: red\n"))
		assert.Error(t, err)
	})
}

func TestLoadCustomCatalogue(t *testing.T) {
	doc := `entities:
  - name: Doc
    fields:
      - {name: Title, kind: text}
  - name: Page
    parent: Doc
    index: pageIndex
    fields:
      - {name: Number, kind: int}
`
	reg, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	ids := make([]FieldID, 0)
	for _, f := range reg.Fields() {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []FieldID{"Doc.Title", "Page.Count", "Page.Number"}, ids)
}
