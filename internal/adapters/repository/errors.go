package repository

import "errors"

// Sentinel kinds for index errors.
var (
	ErrYearNotFound = errors.New("year not found")
	ErrInvalidOrder = errors.New("invalid sort order")
)
