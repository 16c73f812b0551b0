package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/daysync/internal/client/storage"
	"github.com/iudanet/daysync/internal/models"
)

// GetEntry retrieves a cache entry by key
func (s *Storage) GetEntry(ctx context.Context, key string) (*models.CacheEntry, error) {
	var entry *models.CacheEntry

	err := s.view(bucketCache, func(b *bbolt.Bucket) error {
		data := b.Get([]byte(key))
		if data == nil {
			return storage.ErrEntryNotFound
		}
		// bbolt отдает память mmap, копируем
		entry = &models.CacheEntry{Key: key, Value: string(data)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// PutEntry stores the serialized value of key
func (s *Storage) PutEntry(ctx context.Context, key, value string) error {
	if key == "" {
		// bbolt не принимает пустые ключи
		return storage.ErrEmptyKey
	}

	return s.update(bucketCache, func(b *bbolt.Bucket) error {
		if err := b.Put([]byte(key), []byte(value)); err != nil {
			return fmt.Errorf("failed to save entry %q: %w", key, err)
		}
		return nil
	})
}

// DeleteEntry removes key from the cache
func (s *Storage) DeleteEntry(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	return s.update(bucketCache, func(b *bbolt.Bucket) error {
		if err := b.Delete([]byte(key)); err != nil {
			return fmt.Errorf("failed to delete entry %q: %w", key, err)
		}
		return nil
	})
}

// AllEntries returns every cache entry in key order
func (s *Storage) AllEntries(ctx context.Context) ([]models.CacheEntry, error) {
	entries := make([]models.CacheEntry, 0)

	err := s.view(bucketCache, func(b *bbolt.Bucket) error {
		return b.ForEach(func(k, v []byte) error {
			entries = append(entries, models.CacheEntry{Key: string(k), Value: string(v)})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// ClearExcept removes every entry whose key is not listed in keep
func (s *Storage) ClearExcept(ctx context.Context, keep []string) error {
	keepSet := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		keepSet[k] = struct{}{}
	}

	return s.update(bucketCache, func(b *bbolt.Bucket) error {
		// Удалять во время ForEach нельзя, сначала собираем ключи
		var doomed [][]byte
		err := b.ForEach(func(k, _ []byte) error {
			if _, ok := keepSet[string(k)]; !ok {
				doomed = append(doomed, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range doomed {
			if err := b.Delete(k); err != nil {
				return fmt.Errorf("failed to delete entry %q: %w", k, err)
			}
		}
		return nil
	})
}
