/*
Package ddb provides a DynamoDB backend for metadata.

The Store uses a single-table layout with one partition per root:

	PK            SK                          item
	ROOT#<id>     ROOT                        root item, listed on GSI1 (PK1 = "ROOTS")
	ROOT#<id>     FIELD#Image.Name#0          value of Image.Name at index 0
	ROOT#<id>     FIELD#Channel.Name#0.2      value of Channel.Name at (0, 2)

Counts are derived from begins_with queries over the FIELD#<Entity>.
prefixes of the count's entity and its descendants.

Streaming:
Stream pages through the root's field items and retries throttled pages:

	results := store.Stream(ctx,
	    storagemodels.WithPageSize(25),
	    storagemodels.WithMaxRetries(3),
	    storagemodels.WithPrefix("Image."),
	)

EnsureTable creates the table and its roots index for local development.
*/
package ddb
