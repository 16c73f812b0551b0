package sync

import "time"

// State is the orchestrator lifecycle state
type State int

const (
	StateSignedOut State = iota
	StateSyncingPull
	StateSyncingMigrate
	StateSyncingPullAgain
	StateReady
	StateGuest
)

func (s State) String() string {
	switch s {
	case StateSignedOut:
		return "signed-out"
	case StateSyncingPull:
		return "syncing-pull"
	case StateSyncingMigrate:
		return "syncing-migrate"
	case StateSyncingPullAgain:
		return "syncing-pull-again"
	case StateReady:
		return "ready"
	case StateGuest:
		return "guest"
	default:
		return "unknown"
	}
}

// Report summarizes one pull/migrate cycle
type Report struct {
	Duration time.Duration
	// Pulled число документов, записанных в локальный кэш
	Pulled int
	// Flushed число записей, отправленных при пустом удаленном хранилище
	Flushed int
	// Moved число перемещений, примененных reconciler'ом
	Moved int
	// Failed is set when a pull, flush or migration step failed and was skipped
	Failed bool
}
