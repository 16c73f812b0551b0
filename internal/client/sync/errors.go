package sync

import "errors"

var (
	// ErrNotAuthenticated is returned by operations that need a signed-in session
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrQueueClosed is returned when a push is enqueued after the session ended
	ErrQueueClosed = errors.New("push queue is closed")

	// ErrIncomplete is returned when a step failed and was skipped; details are logged
	ErrIncomplete = errors.New("synchronization incomplete")
)
