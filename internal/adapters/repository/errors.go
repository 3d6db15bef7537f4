package repository

import "errors"

// Sentinel kinds for dataset source errors.
var (
	ErrNotFound = errors.New("places file not found")
	ErrDecode   = errors.New("places file decode failed")
)
