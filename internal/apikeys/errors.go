package apikeys

import "errors"

var (
	ErrNotFound   = errors.New("api key not found")
	ErrMissingKey = errors.New("api key required")
	ErrInvalidKey = errors.New("invalid api key")
)
