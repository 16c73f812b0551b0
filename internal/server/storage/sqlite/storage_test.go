package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/daysync/internal/models"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	// Используем in-memory database для тестов
	storage, err := New(ctx, ":memory:")
	require.NoError(t, err)

	cleanup := func() {
		_ = storage.Close()
	}

	return storage, cleanup
}

func createTestUser(t *testing.T, ctx context.Context, s *Storage) string {
	userID := uuid.New().String()
	user := &models.User{
		ID:           userID,
		Username:     "testuser_" + userID[:8],
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}

	require.NoError(t, s.CreateUser(ctx, user))

	return userID
}

// fixedClock возвращает часы, которые сдвигаются на секунду при каждом вызове
func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(time.Second)
		return now
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
