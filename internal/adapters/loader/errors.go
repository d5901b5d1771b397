package loader

import "errors"

var (
	// ErrOpen is returned when the dataset file cannot be opened.
	ErrOpen = errors.New("open dataset")
	// ErrMalformed is returned when the dataset cannot be parsed or holds a
	// value that cannot be coerced, such as a non-integer year.
	ErrMalformed = errors.New("malformed dataset")
	// ErrMissingColumn is returned when a required header column is absent.
	ErrMissingColumn = errors.New("missing column")
)
