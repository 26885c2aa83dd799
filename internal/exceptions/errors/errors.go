package errors

import "errors"

var (
	ErrNotFound = errors.New("date exception not found")

	ErrInvalidID = errors.New("invalid exception ID format")
)
