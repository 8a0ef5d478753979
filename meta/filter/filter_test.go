/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package filter

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"github.com/suparena/metastore/datastore/mock"
	"github.com/suparena/metastore/meta"
	"github.com/suparena/metastore/schema"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Image 1", "Image 1"},
		{"null char", "A\x00B", "AB"},
		{"tab and newline kept", "a\tb\nc", "a\tb\nc"},
		{"carriage return removed", "line\r\n", "line\n"},
		{"C0 controls", "\x01\x02x\x1f", "x"},
		{"delete", "a\x7fb", "ab"},
		{"C1 controls", "a\u0085b\u009fc", "abc"},
		{"non-ascii kept", "µm – 488 nm", "µm – 488 nm"},
		{"invalid utf8 dropped", "ok\xff\xfe!", "ok!"},
		{"truncated sequence dropped", "caf\xc3", "caf"},
		{"only controls", "\x00\x00\r", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"", "plain", "A\x00B", "\r\n\t", "\xff\x00\u0085x", "é", strings.Repeat("\x00a", 100),
	}
	for b := 0; b < 256; b++ {
		inputs = append(inputs, string([]byte{'x', byte(b), 'y'}))
	}

	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
		for _, r := range once {
			assert.False(t, dropped(r), "output %q of %q still has %U", once, in, r)
		}
	}
}

func TestFilterOnSanitizesText(t *testing.T) {
	ctx := context.Background()
	store := mock.New("sink")
	f := New(store, true)

	require.NoError(t, f.Set(ctx, schema.ImageName, meta.Text("A\x00B"), 0))

	v, err := store.Get(ctx, schema.ImageName, 0)
	require.NoError(t, err)
	assert.Equal(t, "AB", v.String())
}

func TestFilterOffIsIdentity(t *testing.T) {
	ctx := context.Background()
	store := mock.New("sink")
	f := New(store, false)
	assert.False(t, f.Filtering())

	values := map[schema.FieldID]meta.Value{
		schema.ImageName:        meta.Text("A\x00B\r"),
		schema.ImageDescription: meta.Text("\xff"),
		schema.PixelsSizeX:      meta.Int(512),
	}
	for id, v := range values {
		require.NoError(t, f.Set(ctx, id, v, 0))
		got, err := store.Get(ctx, id, 0)
		require.NoError(t, err)
		assert.True(t, v.Equal(got), "%s: %#v != %#v", id, v, got)
	}
}

func TestIdentifiersAndNonStringsPassThrough(t *testing.T) {
	ctx := context.Background()
	store := mock.New("sink")
	f := New(store, true)

	tests := []struct {
		name    string
		field   schema.FieldID
		value   meta.Value
		indices []int
	}{
		{"ref", schema.ImageInstrumentRef, meta.Text("Instrument:0\x00"), []int{0}},
		{"uuid", schema.OMEUUID, meta.Text("urn:uuid:\x00"), nil},
		{"enum", schema.PixelsType, meta.Text("uint16\r"), []int{0}},
		{"int", schema.PixelsSizeC, meta.Int(3), []int{0}},
		{"bool", schema.PixelsBigEndian, meta.Bool(false), []int{0}},
		{"bytes", schema.PlaneHashSHA1, meta.Bytes([]byte{0, 1, 2}), []int{0, 0}},
		{"absent", schema.ImageName, meta.Absent(), []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, f.Set(ctx, tt.field, tt.value, tt.indices...))
			calls := store.Calls()
			last := calls[len(calls)-1]
			assert.Equal(t, tt.field, last.Field)
			assert.True(t, tt.value.Equal(last.Value), "forwarded %#v, want %#v", last.Value, tt.value)
		})
	}
}

func TestUnknownFieldsAreTreatedAsText(t *testing.T) {
	ctx := context.Background()
	store := mock.New("sink")
	f := New(store, true)

	require.NoError(t, f.Set(ctx, "Image.Colour", meta.Text("red\x00"), 0))
	v, _ := store.Get(ctx, "Image.Colour", 0)
	assert.Equal(t, "red", v.String())
}

func TestCustomRegistry(t *testing.T) {
	ctx := context.Background()
	reg, err := schema.Load(strings.NewReader(`entities:
  - name: Doc
    fields:
      - {name: Title, kind: ref}
`))
	require.NoError(t, err)

	store := mock.New("sink")
	f := New(store, true, WithRegistry(reg))
	require.NoError(t, f.Set(ctx, "Doc.Title", meta.Text("a\x00")))

	v, _ := store.Get(ctx, "Doc.Title")
	assert.Equal(t, "a\x00", v.String(), "ref fields of the custom registry are not sanitized")
}

func TestNormalization(t *testing.T) {
	ctx := context.Background()
	store := mock.New("sink")
	f := New(store, true, WithNormalization(norm.NFC))

	require.NoError(t, f.Set(ctx, schema.ChannelFluor, meta.Text("Cy\x005 e\u0301"), 0, 0))
	v, _ := store.Get(ctx, schema.ChannelFluor, 0, 0)
	assert.Equal(t, "Cy5 \u00e9", v.String())

	again := mock.New("again")
	require.NoError(t, New(again, true, WithNormalization(norm.NFC)).Set(ctx, schema.ChannelFluor, v, 0, 0))
	w, _ := again.Get(ctx, schema.ChannelFluor, 0, 0)
	assert.Equal(t, v.String(), w.String(), "sanitize plus normalization is idempotent")

	plain := mock.New("plain")
	require.NoError(t, New(plain, false, WithNormalization(norm.NFC)).Set(ctx, schema.ChannelFluor, meta.Text("e\u0301"), 0, 0))
	w, _ = plain.Get(ctx, schema.ChannelFluor, 0, 0)
	assert.Equal(t, "e\u0301", w.String(), "normalization only runs when filtering")
}

func TestRootPassThrough(t *testing.T) {
	ctx := context.Background()
	boom := stderrors.New("root failure")
	store := mock.New("sink")
	f := New(store, true)
	assert.Same(t, store, f.Unwrap())

	require.NoError(t, f.CreateRoot(ctx))
	root, err := f.GetRoot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sink", root.RootID())

	require.NoError(t, f.SetRoot(ctx, meta.RootRef("r2")))
	root, _ = store.GetRoot(ctx)
	assert.Equal(t, "r2", root.RootID())

	store.WithRootError(boom)
	_, err = f.GetRoot(ctx)
	assert.Same(t, boom, err)
}

func TestSetErrorPropagates(t *testing.T) {
	ctx := context.Background()
	boom := stderrors.New("write failed")
	f := New(mock.New("sink").WithSetError(boom), true)
	assert.Same(t, boom, f.Set(ctx, schema.ImageName, meta.Text("x"), 0))
}

func TestProxyIsWriteOnly(t *testing.T) {
	var s any = New(mock.New("sink"), true)
	_, ok := s.(meta.Retrieve)
	assert.False(t, ok)
}
