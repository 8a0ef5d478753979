/*
Package errors provides semantic error types for the metastore library.

Absence of metadata is never an error: reads report it through meta.Value.
The errors below cover the remaining failure modes and can be checked with
the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound      = errors.New("not found")
	    ErrAlreadyExists = errors.New("already exists")
	    ErrInvalidInput  = errors.New("invalid input")
	    ErrUnsupported   = errors.New("unsupported operation")
	    ErrUnknownField  = errors.New("unknown field")
	)

Usage:

	// The aggregator refuses a flattened root
	root, err := agg.GetRoot(ctx)
	if errors.IsUnsupported(err) {
	    for _, d := range agg.Delegates() {
	        // operate on each delegate's root instead
	    }
	}

	// Create typed errors
	err := errors.NewValidationError("Image.Name", "expected string value")
	err := errors.NewUnknownFieldError("Image.Colour")

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
