package apperr

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidOption       = errors.New("invalid display option")
	ErrResourceUnavailable = errors.New("catalog unavailable")
	ErrMalformedEntry      = errors.New("malformed catalog entry")
)
