/*
Package storagemodels defines the data structures shared by the backing stores.

Key Types:

Record:
One persisted field value. Values are kept in the store-neutral text
encoding produced by meta.Encode:

	rec := Record{
	    Root:    "6f1c...",
	    Entity:  "Channel",
	    Field:   "Channel.Name",
	    Indices: IndexKey([]int{0, 2}), // "0.2"
	    Kind:    "string",
	    Value:   "DAPI",
	}

Counts are never stored. DeriveCount computes them from the index tuples of
the records of an entity and its descendants.

StreamResult:
Records streamed out of a store, with metadata:

	type StreamResult[T any] struct {
	    Item  T          // The decoded item
	    Error error      // Item-specific error, if any
	    Meta  StreamMeta // Metadata about this item
	}

StreamOptions:
Configuration for streaming behavior:

	opts := []StreamOption{
	    WithBufferSize(100),
	    WithPageSize(25),
	    WithPrefix("Image."),
	}
*/
package storagemodels
