package errors

import "errors"

var (
	ErrInvalidRegistration  = errors.New("invalid registration request")
	ErrInvalidBagCommand    = errors.New("invalid bag command")
	ErrDiscNotFound         = errors.New("disc not found in catalog")
	ErrWriteUnavailable     = errors.New("bag write path unavailable")
	ErrEventPayloadConflict = errors.New("event id reused with different payload")
)
