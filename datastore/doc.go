/*
Package datastore defines the interface shared by metastore's backing stores.

A Backend is a full meta.Metadata container that can also stream its records
and be closed:

	type Backend interface {
	    meta.Metadata
	    Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[storagemodels.Record]
	    Close() error
	}

Implementations:
  - memory: map backed store holding a *memory.Model root
  - sqlite: single file store on mattn/go-sqlite3
  - postgres: pgx pool backed store
  - ddb: DynamoDB single-table store
  - mock: recording store with injectable errors for testing

Every implementation validates fields against a schema.Registry, derives
count fields from the stored index tuples and treats a write of the absent
value as a delete.
*/
package datastore
