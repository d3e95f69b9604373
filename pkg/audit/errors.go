package audit

import "errors"

var (
	ErrMissingAction       = errors.New("audit: action is required")
	ErrStorageNotAvailable = errors.New("audit: storage is not available")
	ErrFailedToStore       = errors.New("audit: failed to store event")
)
