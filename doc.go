/*
Package metastore provides a metadata container for image acquisition
records, backed by any combination of stores.

Every field of the catalogue in package schema is addressed by a FieldID
and an index tuple. A store reads and writes Values through the contract
in package meta; a value that was never written is Absent, not an error.

The layers:
  - schema: the entity tree and typed field catalogue
  - meta: values, the Retrieve/Store contract and Convert
  - meta/aggregate: first-match reads and broadcast writes over many stores
  - meta/filter: a write proxy that strips control characters from free text
  - meta/dummy: a store that holds nothing
  - datastore/...: memory, SQLite, PostgreSQL and DynamoDB backends

Basic Usage:

	cfg, _ := config.Load("metastore.yaml")
	a, err := metastore.Open(ctx, cfg)
	if err != nil {
	    return err
	}
	defer a.Close()

	_ = a.Writer().Set(ctx, schema.ImageName, meta.Text("stack 1"), 0)
	name, _ := a.Reader().Get(ctx, schema.ImageName, 0)

	// Typed access to one store of the assembly
	disk, _ := metastore.Lookup[*sqlite.Store](a.Storage(), "disk")
*/
package metastore
