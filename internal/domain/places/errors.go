package places

import "errors"

// Sentinel kinds for place store errors.
var (
	ErrEmptyID     = errors.New("place id is empty")
	ErrDuplicateID = errors.New("duplicate place id")
)
