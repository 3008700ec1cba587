package component

import "errors"

// Collection errors
var (
	// ErrMismatchedBatch is returned by Apply when the batch was produced by
	// a different collection than the one applying it.
	ErrMismatchedBatch = errors.New("batch does not belong to this collection")
)
