package rules

import "errors"

// ErrInvalidInput is returned when a lookup is made outside the rules tables
var ErrInvalidInput = errors.New("invalid input")
