package fetch

import "errors"

// Sentinel kinds for fetch errors. They are only logged.
var (
	ErrStatus = errors.New("unexpected status")
)
