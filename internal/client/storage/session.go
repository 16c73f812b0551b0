package storage

import (
	"context"

	"github.com/iudanet/daysync/internal/models"
)

// SessionStorage persists the current session and the device identity
type SessionStorage interface {
	// SaveSession replaces the persisted session
	SaveSession(ctx context.Context, session *models.Session) error

	// GetSession returns the persisted session
	// Returns ErrSessionNotFound if nobody is signed in
	GetSession(ctx context.Context) (*models.Session, error)

	// DeleteSession removes the persisted session (sign-out)
	DeleteSession(ctx context.Context) error

	// DeviceID returns the id of this device, generating it on first use.
	// The id survives sign-out.
	DeviceID(ctx context.Context) (string, error)
}
