package model

import "errors"

// Sentinel errors for parsing source values.
var (
	ErrInvalidValue = errors.New("invalid value")
)
