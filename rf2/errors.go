package rf2

import "errors"

var (
	// ErrShortRow is returned by the row decoders when a row has fewer columns
	// than its schema requires.
	ErrShortRow = errors.New("row has too few columns")
)
