package binder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON request body")
	ErrEmptyBody            = errors.New("empty request body")
	ErrBodyTooLarge         = errors.New("request body too large")
	ErrFailedToReadBody     = errors.New("failed to read request body")
)
