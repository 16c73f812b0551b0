package storage

import (
	"context"

	"github.com/iudanet/daysync/internal/models"
)

// CacheStorage defines the durable key/value layer under the local cache.
// Values are stored as serialized JSON text and are not interpreted here.
type CacheStorage interface {
	// GetEntry retrieves an entry by key
	// Returns ErrEntryNotFound if entry doesn't exist
	GetEntry(ctx context.Context, key string) (*models.CacheEntry, error)

	// PutEntry stores or replaces the value of key
	PutEntry(ctx context.Context, key, value string) error

	// DeleteEntry removes key; removing a missing key is not an error
	DeleteEntry(ctx context.Context, key string) error

	// AllEntries returns every entry ordered by key
	AllEntries(ctx context.Context) ([]models.CacheEntry, error)

	// ClearExcept removes every entry whose key is not in keep
	ClearExcept(ctx context.Context, keep []string) error
}
