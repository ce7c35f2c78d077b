package scheduler

import "errors"

// ErrInvalidInput marks a contract violation by the caller, such as a negative
// volunteer count or duplicate ids within one batch.
var ErrInvalidInput = errors.New("invalid input")
