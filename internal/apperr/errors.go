package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrReleased = errors.New("released")
	ErrClosed   = errors.New("closed")
)
