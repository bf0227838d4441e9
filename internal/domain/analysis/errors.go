package analysis

import "errors"

// Sentinel errors returned by the aggregations.
var (
	// ErrNotFound means a selected year, country or sport does not occur in the dataset.
	ErrNotFound = errors.New("not found")
	// ErrInvalidFilter means a selector value is malformed or not allowed for the view.
	ErrInvalidFilter = errors.New("invalid filter")
)
