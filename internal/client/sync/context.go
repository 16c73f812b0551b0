package sync

import (
	"context"
	"log/slog"

	"github.com/iudanet/daysync/internal/keynorm"
	"github.com/iudanet/daysync/internal/models"
)

// SyncContext holds everything that lives exactly as long as one session:
// the identity, its remote store and the push queue.
type SyncContext struct {
	Session *models.Session
	remote  RemoteStore
	queue   *pushQueue
}

// newSyncContext starts the push queue for session.
// Guest sessions have neither a remote nor a queue.
func newSyncContext(session *models.Session, remote RemoteStore, logger *slog.Logger) *SyncContext {
	sc := &SyncContext{Session: session, remote: remote}
	if !session.Authenticated() || remote == nil {
		return sc
	}

	sc.queue = newPushQueue(func(ctx context.Context, entry models.CacheEntry) {
		// WriteOne сам логирует ошибку; push best-effort
		_ = remote.WriteOne(ctx, keynorm.Normalize(entry.Key), entry.Key, entry.Value)
	})
	logger.Debug("sync context started", "user", session.Identity(), "device_id", session.DeviceID)

	return sc
}

// Syncing reports whether writes in this context are mirrored remotely
func (sc *SyncContext) Syncing() bool {
	return sc != nil && sc.queue != nil
}

// enqueue schedules a push of one entry
func (sc *SyncContext) enqueue(entry models.CacheEntry) error {
	if !sc.Syncing() {
		return ErrNotAuthenticated
	}
	return sc.queue.Enqueue(entry)
}

// Pending returns the number of pushes waiting in the queue
func (sc *SyncContext) Pending() int {
	if !sc.Syncing() {
		return 0
	}
	return sc.queue.Len()
}

// close drains the push queue; safe on guest contexts
func (sc *SyncContext) close(ctx context.Context) error {
	if !sc.Syncing() {
		return nil
	}
	return sc.queue.Close(ctx)
}
