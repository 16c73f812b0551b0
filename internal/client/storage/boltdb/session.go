package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/iudanet/daysync/internal/client/storage"
	"github.com/iudanet/daysync/internal/models"
)

var (
	sessionKey  = []byte("current")
	deviceIDKey = []byte("device_id")
)

// SaveSession stores the current session
func (s *Storage) SaveSession(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return s.update(bucketSession, func(b *bbolt.Bucket) error {
		if err := b.Put(sessionKey, data); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	})
}

// GetSession retrieves the stored session
func (s *Storage) GetSession(ctx context.Context) (*models.Session, error) {
	var session *models.Session

	err := s.view(bucketSession, func(b *bbolt.Bucket) error {
		data := b.Get(sessionKey)
		if data == nil {
			return storage.ErrSessionNotFound
		}

		session = &models.Session{}
		if err := json.Unmarshal(data, session); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// DeleteSession removes the stored session; the device id is kept
func (s *Storage) DeleteSession(ctx context.Context) error {
	return s.update(bucketSession, func(b *bbolt.Bucket) error {
		if err := b.Delete(sessionKey); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		return nil
	})
}

// DeviceID returns the device id, creating one on first call
func (s *Storage) DeviceID(ctx context.Context) (string, error) {
	var id string

	err := s.update(bucketSession, func(b *bbolt.Bucket) error {
		if data := b.Get(deviceIDKey); data != nil {
			id = string(data)
			return nil
		}

		id = uuid.NewString()
		if err := b.Put(deviceIDKey, []byte(id)); err != nil {
			return fmt.Errorf("failed to save device id: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return id, nil
}
