/*
Package schema holds the catalogue of metadata fields.

Each field is addressed by a FieldID of the form "<Entity>.<Field>" and an
index tuple whose arity follows the entity's position in the tree:

	OME                      ()
	└── Image                (imageIndex)
	    └── Pixels           (imageIndex)             singleton
	        └── Channel      (imageIndex, channelIndex)

The catalogue is data, not code. fields.yaml is embedded and parsed once by
Default; ids.go is generated from it by cmd/fieldgen. Every indexed entity
owns a derived count field (Image.Count, Channel.Count, ...) addressed by its
parent's index tuple.

	f, ok := schema.Default().Lookup(schema.ChannelName)
	if err := f.CheckIndices([]int{0, 2}); err != nil {
	    // arity or sign problem
	}
*/
package schema
