package service

import "errors"

// Sentinel errors of the service.
var (
	ErrNotStarted = errors.New("service not started")
	ErrNoStore    = errors.New("no dataset store configured")
	ErrLoad       = errors.New("dataset load failed")
)
