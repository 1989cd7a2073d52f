package services

import "errors"

// Dashboard service errors
var (
	ErrInvalidSelection = errors.New("invalid selection")

	// Watcher errors
	ErrWatcherClosed = errors.New("dataset watcher closed")
)
