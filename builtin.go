/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package metastore

import (
	"context"
	"time"

	"github.com/suparena/metastore/config"
	"github.com/suparena/metastore/datastore/ddb"
	"github.com/suparena/metastore/datastore/memory"
	"github.com/suparena/metastore/datastore/postgres"
	"github.com/suparena/metastore/datastore/sqlite"
	"github.com/suparena/metastore/meta"
	"github.com/suparena/metastore/meta/dummy"
	"github.com/suparena/metastore/registry"
)

// tableWait bounds how long opening a dynamodb store waits for a table it
// had to create.
const tableWait = 2 * time.Minute

func init() {
	registry.RegisterBackend(config.TypeMemory, openMemory)
	registry.RegisterBackend(config.TypeSQLite, openSQLite)
	registry.RegisterBackend(config.TypePostgres, openPostgres)
	registry.RegisterBackend(config.TypeDynamoDB, openDynamoDB)
	registry.RegisterBackend(config.TypeDummy, openDummy)
}

func openMemory(_ context.Context, _ config.StoreConfig, env registry.Env) (meta.Metadata, error) {
	return memory.New(memory.WithRegistry(env.Registry), memory.WithLogger(env.Logger)), nil
}

func openSQLite(_ context.Context, sc config.StoreConfig, env registry.Env) (meta.Metadata, error) {
	s, err := sqlite.Open(sc.Path,
		sqlite.WithRegistry(env.Registry),
		sqlite.WithLogger(env.Logger),
		sqlite.WithRootID(sc.RootID),
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openPostgres(ctx context.Context, sc config.StoreConfig, env registry.Env) (meta.Metadata, error) {
	s, err := postgres.Open(ctx, sc.URL,
		postgres.WithRegistry(env.Registry),
		postgres.WithLogger(env.Logger),
		postgres.WithRootID(sc.RootID),
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openDynamoDB(ctx context.Context, sc config.StoreConfig, env registry.Env) (meta.Metadata, error) {
	index := ddb.RootsIndex(sc.Index)
	opts := []ddb.Option{
		ddb.WithRegistry(env.Registry),
		ddb.WithLogger(env.Logger),
		ddb.WithRootID(sc.RootID),
		ddb.WithRootsIndex(index),
	}
	cc := ddb.ClientConfig{
		Region:    sc.Region,
		AccessKey: sc.AccessKey,
		SecretKey: sc.SecretKey,
		Endpoint:  sc.Endpoint,
	}

	if !sc.CreateTable {
		s, err := ddb.Open(ctx, cc, sc.Table, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	client, err := ddb.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	if err := ddb.EnsureTable(ctx, client, sc.Table, index, tableWait); err != nil {
		return nil, err
	}
	env.Logger.Info("dynamodb table ready", "table", sc.Table, "index", index.IndexName)
	return ddb.New(client, sc.Table, opts...), nil
}

func openDummy(context.Context, config.StoreConfig, registry.Env) (meta.Metadata, error) {
	return dummy.New(), nil
}
