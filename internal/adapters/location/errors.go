package location

import "errors"

// Sentinel kinds for location errors.
var (
	ErrInvalidLocation = errors.New("invalid location")
)
