/*
Package processor generates the FieldID constants of package schema from a
field catalogue.

Every entity of the catalogue becomes a commented group and every field one
constant named after its entity and field:

	entities:
	  - name: Image
	    parent: OME
	    index: imageIndex
	    fields:
	      - name: Name
	        kind: text

Generated Code:

	// Image
	ImageCount FieldID = "Image.Count"
	ImageName  FieldID = "Image.Name"

The cmd/fieldgen command wraps Main; schema/ids.go is regenerated with
go generate.
*/
package processor
