package metrics

import (
	"errors"
)

// Sentinel errors for the metrics package.
var (
	ErrCollectorRunning = errors.New("runtime collector already running")
)
