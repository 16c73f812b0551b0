// Package cache is the device-local key/value store feature modules read and write.
// Every successful Set is reported to a Notifier, which mirrors it to the remote store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/daysync/internal/client/storage"
	"github.com/iudanet/daysync/internal/models"
)

// Notifier receives every local write after it has been stored
type Notifier interface {
	Notify(key, value string)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(key, value string)

// Notify calls f(key, value)
func (f NotifierFunc) Notify(key, value string) { f(key, value) }

// Cache wraps a CacheStorage with JSON (de)serialization
type Cache struct {
	store    storage.CacheStorage
	logger   *slog.Logger
	notifier Notifier
	// mu сериализует записи, чтобы Update был атомарным
	mu sync.Mutex
}

// New creates a cache over store
func New(store storage.CacheStorage, logger *slog.Logger) *Cache {
	return &Cache{
		store:  store,
		logger: logger,
	}
}

// SetNotifier replaces the write notifier; nil disables notifications
func (c *Cache) SetNotifier(n Notifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifier = n
}

// Get returns the stored value of key decoded as T.
// A missing or undecodable value yields def.
func Get[T any](c *Cache, key string, def T) T {
	entry, err := c.store.GetEntry(context.Background(), key)
	if err != nil {
		if !errors.Is(err, storage.ErrEntryNotFound) {
			c.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return def
	}

	var v T
	if err := json.Unmarshal([]byte(entry.Value), &v); err != nil {
		c.logger.Debug("cache value is not decodable, using default", "key", key, "error", err)
		return def
	}
	return v
}

// Set serializes value, stores it under key and notifies the orchestrator.
// Nothing is pushed when serialization or the local write fails.
func (c *Cache) Set(key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.setLocked(key, value)
}

func (c *Cache) setLocked(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize %q: %w", key, err)
	}

	if err := c.store.PutEntry(context.Background(), key, string(data)); err != nil {
		return fmt.Errorf("failed to store %q: %w", key, err)
	}

	if c.notifier != nil {
		c.notifier.Notify(key, string(data))
	}
	return nil
}

// Update reads key (or def), applies fn and stores the result
func Update[T any](c *Cache, key string, def T, fn func(T) T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := fn(Get(c, key, def))
	if err := c.setLocked(key, next); err != nil {
		var zero T
		return zero, err
	}
	return next, nil
}

// Raw returns the serialized value of key
func (c *Cache) Raw(key string) (string, bool, error) {
	entry, err := c.store.GetEntry(context.Background(), key)
	if err != nil {
		if errors.Is(err, storage.ErrEntryNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

// PutRaw stores an already serialized value without notifying.
// Used when applying pulled remote documents.
func (c *Cache) PutRaw(key, serialized string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.PutEntry(context.Background(), key, serialized)
}

// Entries returns every cached entry ordered by key
func (c *Cache) Entries() ([]models.CacheEntry, error) {
	return c.store.AllEntries(context.Background())
}

// Delete removes key locally; remote documents are not touched
func (c *Cache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.DeleteEntry(context.Background(), key)
}

// ClearExcept removes every entry except the listed keys
func (c *Cache) ClearExcept(keys []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.ClearExcept(context.Background(), keys)
}
