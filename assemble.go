/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package metastore

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/suparena/metastore/config"
	"github.com/suparena/metastore/errors"
	"github.com/suparena/metastore/meta"
	"github.com/suparena/metastore/meta/aggregate"
	"github.com/suparena/metastore/meta/filter"
	"github.com/suparena/metastore/registry"
	"github.com/suparena/metastore/schema"
)

// Assembly is a configured set of stores behind one aggregate: reads go
// through the aggregate, writes through the sanitizing proxy in front of it.
type Assembly struct {
	storage *Storage
	names   []string
	reader  *aggregate.Metadata
	writer  *filter.Metadata
	logger  *slog.Logger
}

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	reg    *schema.Registry
	logger *slog.Logger
}

// WithRegistry sets the schema every store validates against.
func WithRegistry(reg *schema.Registry) Option {
	return func(o *openOptions) { o.reg = reg }
}

// WithLogger sets the logger handed to every store.
func WithLogger(l *slog.Logger) Option {
	return func(o *openOptions) { o.logger = l }
}

// Open builds every store in cfg, aggregates them in precedence order with
// their configured capabilities and puts the write filter in front.
// Stores already opened are closed when a later one fails.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Assembly, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := openOptions{reg: schema.Default(), logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	env := registry.Env{Registry: o.reg, Logger: o.logger}

	a := &Assembly{storage: NewStorage(), logger: o.logger}
	for _, sc := range cfg.Stores {
		open, err := registry.GetBackend(sc.Type)
		if err != nil {
			a.Close()
			return nil, err
		}
		m, err := open(ctx, sc, env)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open store %q: %w", sc.Name, err)
		}
		if err := a.storage.Register(sc.Name, m); err != nil {
			closeStore(m)
			a.Close()
			return nil, err
		}
		a.names = append(a.names, sc.Name)
	}

	var delegates []aggregate.Delegate
	for _, sc := range cfg.Ordered() {
		m, err := a.storage.Get(sc.Name)
		if err != nil {
			a.Close()
			return nil, err
		}
		d, err := delegate(m, sc.Mode)
		if err != nil {
			a.Close()
			return nil, err
		}
		delegates = append(delegates, d)
	}
	a.reader = aggregate.New(delegates, aggregate.WithLogger(o.logger))

	filterOpts := []filter.Option{filter.WithRegistry(o.reg)}
	if form, ok, _ := cfg.Normalization(); ok {
		filterOpts = append(filterOpts, filter.WithNormalization(form))
	}
	a.writer = filter.New(a.reader, cfg.Filter, filterOpts...)

	o.logger.Info("metastore assembled", "stores", a.names, "precedence", cfg.Precedence, "filter", cfg.Filter)
	return a, nil
}

func delegate(m meta.Metadata, mode string) (aggregate.Delegate, error) {
	switch mode {
	case config.ModeRead:
		return aggregate.ReadOnly(m), nil
	case config.ModeWrite:
		return aggregate.WriteOnly(m), nil
	case config.ModeReadWrite, "":
		return aggregate.ReadWrite(m), nil
	}
	return aggregate.Delegate{}, errors.NewValidationError("mode", fmt.Sprintf("unknown mode %q", mode))
}

// Reader returns the aggregate all reads resolve through.
func (a *Assembly) Reader() *aggregate.Metadata { return a.reader }

// Writer returns the filtered write path into the aggregate.
func (a *Assembly) Writer() *filter.Metadata { return a.writer }

// Storage returns the catalog of opened stores.
func (a *Assembly) Storage() *Storage { return a.storage }

// Close closes every store that holds resources, in reverse opening order.
func (a *Assembly) Close() error {
	var errs []error
	for i := len(a.names) - 1; i >= 0; i-- {
		m, err := a.storage.Get(a.names[i])
		if err != nil {
			continue
		}
		if err := closeStore(m); err != nil {
			errs = append(errs, fmt.Errorf("close store %q: %w", a.names[i], err))
		}
		a.storage.Remove(a.names[i])
	}
	a.names = nil
	return stderrors.Join(errs...)
}

func closeStore(m meta.Metadata) error {
	if c, ok := m.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
