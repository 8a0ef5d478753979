/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package postgres

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/metastore/errors"
	"github.com/suparena/metastore/meta"
	"github.com/suparena/metastore/schema"
	"github.com/suparena/metastore/storagemodels"
)

const urlEnv = "METASTORE_POSTGRES_URL"

func TestHandlePostgresError(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", Detail: `Key (root_id)=(x) is not present`}
	err := handlePostgresError("set", fmt.Errorf("exec: %w", fk))
	assert.True(t, errors.IsNotFound(err))

	nn := &pgconn.PgError{Code: "23502", ColumnName: "value"}
	err = handlePostgresError("set", nn)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), `"value"`)

	missing := &pgconn.PgError{Code: "42P01"}
	err = handlePostgresError("get", missing)
	assert.Contains(t, err.Error(), "run Migrate first")
	assert.True(t, stderrors.Is(err, missing))

	plain := stderrors.New("connection reset")
	err = handlePostgresError("stream", plain)
	assert.ErrorIs(t, err, plain)
	assert.Contains(t, err.Error(), "database error in stream")
}

func TestNoRootWithoutConnection(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	root, err := s.GetRoot(ctx)
	require.NoError(t, err)
	assert.Nil(t, root)

	v, err := s.Get(ctx, schema.ImageCount)
	require.NoError(t, err)
	assert.False(t, v.IsPresent())

	require.NoError(t, s.Set(ctx, schema.ImageName, meta.Absent(), 0))

	for range s.Stream(ctx) {
		t.Fatal("unbound store streamed a record")
	}

	assert.True(t, errors.IsValidationError(s.SetRoot(ctx, meta.RootRef(""))))
	assert.True(t, errors.IsUnknownField(s.Set(ctx, "Image.Colour", meta.Text("red"), 0)))
	assert.NoError(t, s.Close())
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv(urlEnv)
	if url == "" {
		t.Skipf("%s not set", urlEnv)
	}
	s, err := Open(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPostgresRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Set(ctx, schema.ImageName, meta.Text("a"), 0))
	require.NoError(t, s.Set(ctx, schema.PixelsSizeX, meta.Int(512), 0))
	require.NoError(t, s.Set(ctx, schema.ChannelName, meta.Text("GFP"), 1, 2))

	v, err := s.Get(ctx, schema.ImageName, 0)
	require.NoError(t, err)
	assert.Equal(t, "a", v.String())

	v, err = s.Get(ctx, schema.PixelsSizeX, 0)
	require.NoError(t, err)
	n, ok := v.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(512), n)

	acquired := meta.Time(strfmt.DateTime(time.Date(2024, 1, 2, 3, 4, 5, 123456789, time.UTC)))
	require.NoError(t, s.Set(ctx, schema.ImageAcquisitionDate, acquired, 0))
	v, err = s.Get(ctx, schema.ImageAcquisitionDate, 0)
	require.NoError(t, err)
	assert.True(t, acquired.Equal(v), "%#v != %#v", acquired, v)

	v, err = s.Get(ctx, schema.ImageCount)
	require.NoError(t, err)
	c, _ := v.AsCount()
	assert.Equal(t, 2, c)

	v, err = s.Get(ctx, schema.ChannelCount, 1)
	require.NoError(t, err)
	c, _ = v.AsCount()
	assert.Equal(t, 3, c)

	var fields []string
	for res := range s.Stream(ctx, storagemodels.WithPrefix("Image.")) {
		require.NoError(t, res.Error)
		fields = append(fields, res.Item.Field)
	}
	assert.Equal(t, []string{"Image.Name"}, fields)

	require.NoError(t, s.Set(ctx, schema.ImageName, meta.Absent(), 0))
	v, _ = s.Get(ctx, schema.ImageName, 0)
	assert.False(t, v.IsPresent())
}

func TestPostgresSetRoot(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.CreateRoot(ctx))
	a, err := s.GetRoot(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, schema.ImageName, meta.Text("in a"), 0))

	b := New(s.db)
	require.NoError(t, b.SetRoot(ctx, a))
	v, err := b.Get(ctx, schema.ImageName, 0)
	require.NoError(t, err)
	assert.Equal(t, "in a", v.String())

	roots, err := s.Roots(ctx)
	require.NoError(t, err)
	assert.Contains(t, roots, a.RootID())
}
