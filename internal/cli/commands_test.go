/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, "--config", cfg, "set", "Image.Name", "Cy\x015 stack", "0")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	out, err = execute(t, "--config", cfg, "get", "Image.Name", "0")
	require.NoError(t, err)
	assert.Equal(t, "Cy5 stack", out, "the write filter strips control characters")

	out, err = execute(t, "--config", cfg, "get", "Image.Count")
	require.NoError(t, err)
	assert.Equal(t, "1", out)

	out, err = execute(t, "--config", cfg, "get", "Image.Name", "1")
	require.NoError(t, err)
	assert.Equal(t, "<absent>", out)

	out, err = execute(t, "--config", cfg, "get", "Image.Name", "0", "--store", "dst")
	require.NoError(t, err)
	assert.Equal(t, "<absent>", out, "read-only stores receive no writes")
}

func TestGetJSON(t *testing.T) {
	cfg := writeConfig(t)
	_, err := execute(t, "--config", cfg, "set", "Pixels.SizeX", "512", "0", "--store", "src")
	require.NoError(t, err)

	out, err := execute(t, "--config", cfg, "--format", "json", "get", "Pixels.SizeX", "0")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   ValueResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, ValueResult{
		Field:   "Pixels.SizeX",
		Indices: []int{0},
		Kind:    "int",
		Present: true,
		Value:   "512",
	}, resp.Data)
}

func TestUnset(t *testing.T) {
	cfg := writeConfig(t)
	_, err := execute(t, "--config", cfg, "set", "Image.Description", "scratch", "0")
	require.NoError(t, err)

	_, err = execute(t, "--config", cfg, "unset", "Image.Description", "0")
	require.NoError(t, err)

	out, err := execute(t, "--config", cfg, "get", "Image.Description", "0")
	require.NoError(t, err)
	assert.Equal(t, "<absent>", out)
}

func TestSetErrors(t *testing.T) {
	cfg := writeConfig(t)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"unknown field", []string{"set", "Image.Nope", "x", "0"}, ExitCommandError},
		{"bad integer", []string{"set", "Pixels.SizeX", "wide", "0"}, ExitCommandError},
		{"count field", []string{"set", "Image.Count", "3"}, ExitCommandError},
		{"negative index", []string{"set", "--", "Image.Name", "x", "-1"}, ExitCommandError},
		{"non-numeric index", []string{"set", "Image.Name", "x", "first"}, ExitCommandError},
		{"wrong arity", []string{"set", "Image.Name", "x"}, ExitFailure},
		{"unknown store", []string{"set", "Image.Name", "x", "0", "--store", "nope"}, ExitCommandError},
		{"enum outside its set", []string{"set", "Objective.Immersion", "Honey", "0", "0"}, ExitCommandError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"--config", cfg}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, tt.code, GetExitCode(err), "got %v", err)
		})
	}
}

func TestMissingConfig(t *testing.T) {
	_, err := execute(t, "--config", "/nonexistent/metastore.yaml", "get", "Image.Name", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConvert(t *testing.T) {
	cfg := writeConfig(t)
	_, err := execute(t, "--config", cfg, "set", "Image.Name", "Cy5", "0", "--store", "src")
	require.NoError(t, err)
	_, err = execute(t, "--config", cfg, "set", "Pixels.SizeX", "64", "0", "--store", "src")
	require.NoError(t, err)

	out, err := execute(t, "--config", cfg, "convert", "--from", "src", "--to", "dst")
	require.NoError(t, err)
	assert.Equal(t, "copied 2 values from src to dst", out)

	out, err = execute(t, "--config", cfg, "get", "Image.Name", "0", "--store", "dst")
	require.NoError(t, err)
	assert.Equal(t, "Cy5", out)

	_, err = execute(t, "--config", cfg, "convert", "--from", "src", "--to", "src")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "--config", cfg, "convert", "--from", "src")
	assert.Equal(t, ExitCommandError, GetExitCode(err), "--to is required")
}

func TestRootCommands(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, "--config", cfg, "root", "show", "--store", "src")
	require.NoError(t, err)
	assert.Equal(t, "r1", out)

	out, err = execute(t, "--config", cfg, "root", "create", "--store", "dst")
	require.NoError(t, err)
	assert.Equal(t, "r2", out)

	out, err = execute(t, "--config", cfg, "root", "list", "--store", "dst")
	require.NoError(t, err)
	assert.Equal(t, "r2", out)

	out, err = execute(t, "--config", cfg, "--format", "json", "root", "show", "--store", "src")
	require.NoError(t, err)
	var resp struct {
		Data RootResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, RootResult{Store: "src", Root: "r1", Bound: true}, resp.Data)

	_, err = execute(t, "--config", cfg, "root", "list", "--store", "blank")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "--config", cfg, "root", "show")
	assert.Equal(t, ExitCommandError, GetExitCode(err), "--store is required")
}

func TestDump(t *testing.T) {
	cfg := writeConfig(t)
	_, err := execute(t, "--config", cfg, "set", "Image.Name", "Cy5", "0")
	require.NoError(t, err)
	_, err = execute(t, "--config", cfg, "set", "Image.Name", "DAPI", "1")
	require.NoError(t, err)
	_, err = execute(t, "--config", cfg, "set", "Pixels.SizeX", "64", "0")
	require.NoError(t, err)

	out, err := execute(t, "--config", cfg, "dump", "--store", "src", "--prefix", "Image.")
	require.NoError(t, err)
	assert.Equal(t, "Image.Name[0]\tstring\tCy5\nImage.Name[1]\tstring\tDAPI", out)

	out, err = execute(t, "--config", cfg, "--format", "json", "dump", "--store", "src")
	require.NoError(t, err)
	var resp struct {
		Data []DumpRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "Pixels.SizeX", resp.Data[2].Field)
	assert.Equal(t, "64", resp.Data[2].Value)
	assert.NotEmpty(t, resp.Data[2].UpdatedAt)

	_, err = execute(t, "--config", cfg, "dump", "--store", "blank")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"get without field", []string{"get"}},
		{"set without value", []string{"set", "Image.Name"}},
		{"unknown flag", []string{"get", "Image.Name", "--bogus"}},
		{"unknown shorthand", []string{"set", "Image.Name", "x", "-1"}},
		{"bad flag value", []string{"dump", "--store", "src", "--page-size", "many"}},
		{"extra argument", []string{"version", "now"}},
		{"too many entities", []string{"fields", "Image", "Channel"}},
		{"unknown command", []string{"frobnicate"}},
		{"dump without store", []string{"dump"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err), "got %v", err)
		})
	}
}
