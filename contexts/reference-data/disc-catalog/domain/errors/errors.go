package errors

import "errors"

var (
	ErrDiscNotFound  = errors.New("disc not found")
	ErrInvalidDiscID = errors.New("disc id is required")
	ErrDuplicateSeed = errors.New("seed row already exists")
)
