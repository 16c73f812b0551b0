package storage

import "errors"

// Common client storage errors
var (
	// ErrSessionNotFound indicates that no session is persisted
	ErrSessionNotFound = errors.New("session not found")

	// ErrEntryNotFound indicates that cache entry was not found
	ErrEntryNotFound = errors.New("cache entry not found")

	// ErrEmptyKey indicates an attempt to store the empty key
	ErrEmptyKey = errors.New("cache key must not be empty")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
