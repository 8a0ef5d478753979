/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"github.com/suparena/metastore/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metastore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
filter: false
normalize: nfc
log_level: debug
precedence: [disk, cache]
stores:
  - name: cache
    type: memory
  - name: disk
    type: SQLite
    path: /tmp/meta.db
    mode: read
  - name: archive
    type: dynamodb
    table: metastore
    region: us-east-1
    mode: write
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Filter, "an explicit false survives the default")
	require.Len(t, cfg.Stores, 3)
	assert.Equal(t, ModeReadWrite, cfg.Stores[0].Mode)
	assert.Equal(t, TypeSQLite, cfg.Stores[1].Type)
	assert.Equal(t, "GSI1", cfg.Stores[2].Index)

	ordered := cfg.Ordered()
	require.Len(t, ordered, 2)
	assert.Equal(t, "disk", ordered[0].Name)
	assert.Equal(t, "cache", ordered[1].Name)

	form, ok, err := cfg.Normalization()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, norm.NFC, form)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadFileDefaults(t *testing.T) {
	path := writeConfig(t, `
stores:
  - name: only
    type: memory
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Filter)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, cfg.Stores, cfg.Ordered())

	_, ok, err := cfg.Normalization()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadEnv(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("METASTORE_STORE_NAME", "local")
	t.Setenv("METASTORE_STORE_TYPE", "sqlite")
	t.Setenv("METASTORE_STORE_PATH", dbPath)
	t.Setenv("METASTORE_NORMALIZE", "NFKC")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Len(t, cfg.Stores, 1)
	assert.Equal(t, "local", cfg.Stores[0].Name)
	assert.Equal(t, TypeSQLite, cfg.Stores[0].Type)
	assert.Equal(t, dbPath, cfg.Stores[0].Path)
	assert.Equal(t, ModeReadWrite, cfg.Stores[0].Mode)
	assert.True(t, cfg.Filter)

	form, _, err := cfg.Normalization()
	require.NoError(t, err)
	assert.Equal(t, norm.NFKC, form)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Len(t, cfg.Stores, 1)
	assert.Equal(t, TypeMemory, cfg.Stores[0].Type)
	assert.Equal(t, ModeReadWrite, cfg.Stores[0].Mode)
	assert.True(t, cfg.Filter)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{Stores: []StoreConfig{
			{Name: "a", Type: TypeMemory, Mode: ModeReadWrite},
			{Name: "b", Type: TypeDummy, Mode: ModeRead},
		}}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no stores", func(c *Config) { c.Stores = nil }},
		{"duplicate name", func(c *Config) { c.Stores[1].Name = "a" }},
		{"empty name", func(c *Config) { c.Stores[0].Name = "" }},
		{"unknown type", func(c *Config) { c.Stores[0].Type = "redis" }},
		{"unknown mode", func(c *Config) { c.Stores[0].Mode = "append" }},
		{"sqlite without path", func(c *Config) { c.Stores[0].Type = TypeSQLite }},
		{"postgres without url", func(c *Config) { c.Stores[0].Type = TypePostgres }},
		{"dynamodb without region", func(c *Config) {
			c.Stores[0].Type = TypeDynamoDB
			c.Stores[0].Table = "metastore"
		}},
		{"unknown precedence", func(c *Config) { c.Precedence = []string{"c"} }},
		{"repeated precedence", func(c *Config) { c.Precedence = []string{"a", "a"} }},
		{"bad normalization", func(c *Config) { c.Normalize = "NFX" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		})
	}
}
