/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"golang.org/x/text/unicode/norm"

	"github.com/suparena/metastore/errors"
)

// Store types.
const (
	TypeMemory   = "memory"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeDynamoDB = "dynamodb"
	TypeDummy    = "dummy"
)

// Capability modes of a store inside the aggregate.
const (
	ModeRead      = "read"
	ModeWrite     = "write"
	ModeReadWrite = "readwrite"
)

// Config describes which stores make up the metadata aggregate and how
// writes are filtered.
type Config struct {
	Filter     bool     `yaml:"filter" env:"METASTORE_FILTER"`
	Normalize  string   `yaml:"normalize" env:"METASTORE_NORMALIZE"`
	Precedence []string `yaml:"precedence" env:"METASTORE_PRECEDENCE" env-separator:","`
	LogLevel   string   `yaml:"log_level" env:"METASTORE_LOG_LEVEL" env-default:"info"`

	Stores []StoreConfig `yaml:"stores"`

	// Store is used when Stores is empty, so a single store can be
	// configured from the environment alone.
	Store StoreConfig `yaml:"-" env-prefix:"METASTORE_STORE_"`
}

// StoreConfig configures one backing store. Which fields apply depends on
// Type.
type StoreConfig struct {
	Name   string `yaml:"name" env:"NAME" env-default:"default"`
	Type   string `yaml:"type" env:"TYPE" env-default:"memory"`
	Mode   string `yaml:"mode" env:"MODE" env-default:"readwrite"`
	RootID string `yaml:"root_id" env:"ROOT_ID"`

	// sqlite
	Path string `yaml:"path" env:"PATH"`

	// postgres
	URL string `yaml:"url" env:"URL"`

	// dynamodb
	Table       string `yaml:"table" env:"TABLE"`
	Region      string `yaml:"region" env:"REGION"`
	Endpoint    string `yaml:"endpoint" env:"ENDPOINT"`
	AccessKey   string `yaml:"access_key" env:"ACCESS_KEY"`
	SecretKey   string `yaml:"secret_key" env:"SECRET_KEY"`
	Index       string `yaml:"index" env:"INDEX" env-default:"GSI1"`
	CreateTable bool   `yaml:"create_table" env:"CREATE_TABLE"`
}

// Load reads a .env file if one exists, then the YAML file at path (or only
// the environment when path is empty), and validates the result.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// Filter defaults to true. An env-default tag would also override an
	// explicit false from the file, so the default is set before reading.
	cfg := Config{Filter: true}
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with one filtered in-memory store.
func Default() *Config {
	cfg := &Config{Filter: true, LogLevel: "info"}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills what cleanenv leaves empty inside the Stores list.
func (c *Config) applyDefaults() {
	if len(c.Stores) == 0 {
		s := c.Store
		if s.Name == "" {
			s.Name = "default"
		}
		if s.Type == "" {
			s.Type = TypeMemory
		}
		c.Stores = []StoreConfig{s}
	}
	for i := range c.Stores {
		s := &c.Stores[i]
		s.Type = strings.ToLower(strings.TrimSpace(s.Type))
		s.Mode = strings.ToLower(strings.TrimSpace(s.Mode))
		if s.Mode == "" {
			s.Mode = ModeReadWrite
		}
		if s.Type == TypeDynamoDB && s.Index == "" {
			s.Index = "GSI1"
		}
	}
}

// Validate checks store types, modes, names and the settings each type
// requires.
func (c *Config) Validate() error {
	if len(c.Stores) == 0 {
		return errors.NewValidationError("stores", "at least one store is required")
	}
	if _, _, err := c.Normalization(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}

	names := make(map[string]bool, len(c.Stores))
	for i, s := range c.Stores {
		field := fmt.Sprintf("stores[%d]", i)
		if s.Name == "" {
			return errors.NewValidationError(field, "name is required")
		}
		if names[s.Name] {
			return errors.NewValidationError(field, fmt.Sprintf("duplicate store name %q", s.Name))
		}
		names[s.Name] = true

		switch s.Mode {
		case "", ModeRead, ModeWrite, ModeReadWrite:
		default:
			return errors.NewValidationError(field, fmt.Sprintf("unknown mode %q", s.Mode))
		}

		switch s.Type {
		case TypeMemory, TypeDummy:
		case TypeSQLite:
			if s.Path == "" {
				return errors.NewValidationError(field, "sqlite store needs a path")
			}
		case TypePostgres:
			if s.URL == "" {
				return errors.NewValidationError(field, "postgres store needs a url")
			}
		case TypeDynamoDB:
			if s.Table == "" || s.Region == "" {
				return errors.NewValidationError(field, "dynamodb store needs a table and a region")
			}
		default:
			return errors.NewValidationError(field, fmt.Sprintf("unknown store type %q", s.Type))
		}
	}

	seen := make(map[string]bool, len(c.Precedence))
	for _, name := range c.Precedence {
		if !names[name] {
			return errors.NewValidationError("precedence", fmt.Sprintf("unknown store %q", name))
		}
		if seen[name] {
			return errors.NewValidationError("precedence", fmt.Sprintf("store %q listed twice", name))
		}
		seen[name] = true
	}
	return nil
}

// Ordered returns the stores in precedence order. Stores missing from a
// non-empty Precedence are left out; an empty Precedence keeps the
// configuration order.
func (c *Config) Ordered() []StoreConfig {
	if len(c.Precedence) == 0 {
		return c.Stores
	}
	byName := make(map[string]StoreConfig, len(c.Stores))
	for _, s := range c.Stores {
		byName[s.Name] = s
	}
	out := make([]StoreConfig, 0, len(c.Precedence))
	for _, name := range c.Precedence {
		out = append(out, byName[name])
	}
	return out
}

// Normalization maps Normalize onto a Unicode normalization form. The bool
// is false when no normalization is configured.
func (c *Config) Normalization() (norm.Form, bool, error) {
	switch strings.ToUpper(strings.TrimSpace(c.Normalize)) {
	case "":
		return 0, false, nil
	case "NFC":
		return norm.NFC, true, nil
	case "NFD":
		return norm.NFD, true, nil
	case "NFKC":
		return norm.NFKC, true, nil
	case "NFKD":
		return norm.NFKD, true, nil
	}
	return 0, false, errors.NewValidationError("normalize", fmt.Sprintf("unknown normalization form %q", c.Normalize))
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, errors.NewValidationError("log_level", err.Error())
	}
	return l, nil
}
