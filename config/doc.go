// Package config loads the store layout of a metastore deployment from a
// YAML file and the environment.
//
// A file lists the stores, their capability inside the aggregate and the
// order reads consult them in:
//
//	filter: true
//	normalize: NFC
//	precedence: [cache, archive]
//	stores:
//	  - name: cache
//	    type: sqlite
//	    path: /var/lib/metastore/cache.db
//	  - name: archive
//	    type: dynamodb
//	    table: metastore
//	    region: us-east-1
//	    mode: read
//
// Without a file a single store is read from METASTORE_STORE_* variables.
// A .env file in the working directory is loaded first when present.
package config
