package errors

import "errors"

var (
	ErrNotFound = errors.New("booking settings not found")

	ErrInvalidID = errors.New("invalid settings ID format")
)
