package sync

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/daysync/internal/client/cache"
	"github.com/iudanet/daysync/internal/client/storage/boltdb"
	"github.com/iudanet/daysync/internal/keynorm"
	"github.com/iudanet/daysync/internal/models"
)

var testExcluded = []string{"guestMode", "sidebarCollapsed", "colorTheme"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRemote хранит документы одного пользователя в памяти с семантикой сервера
type fakeRemote struct {
	docs  map[string]models.RemoteDocument
	clock time.Time
	mu    gosync.Mutex
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		docs:  make(map[string]models.RemoteDocument),
		clock: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRemote) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

// seed кладет документ как есть, в обход нормализации
func (f *fakeRemote) seed(id, key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[id] = models.RemoteDocument{DocID: id, Key: key, Value: value, WrittenAt: f.tick()}
}

func (f *fakeRemote) get(id string) (models.RemoteDocument, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	return d, ok
}

func (f *fakeRemote) ids() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.docs))
	for id := range f.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (f *fakeRemote) ReadAll(ctx context.Context) ([]models.RemoteDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]models.RemoteDocument, 0, len(f.docs))
	for _, d := range f.docs {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DocID < result[j].DocID })
	return result, nil
}

func (f *fakeRemote) WriteOne(ctx context.Context, docID, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[docID] = models.RemoteDocument{DocID: docID, Key: key, Value: value, WrittenAt: f.tick()}
	return nil
}

func (f *fakeRemote) WriteMany(ctx context.Context, entries []models.CacheEntry) error {
	for _, e := range entries {
		if err := f.WriteOne(ctx, keynorm.Normalize(e.Key), e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeRemote) Commit(ctx context.Context, plan *models.MigrationPlan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.tick()
	for _, m := range plan.Puts() {
		f.docs[m.ToDocID] = models.RemoteDocument{DocID: m.ToDocID, Key: m.Key, Value: m.Value, WrittenAt: now}
	}
	for _, id := range plan.Deletes() {
		delete(f.docs, id)
	}
	return nil
}

// fakeCloud раздает fakeRemote по user id
type fakeCloud struct {
	users map[string]*fakeRemote
	mu    gosync.Mutex
}

func newFakeCloud() *fakeCloud {
	return &fakeCloud{users: make(map[string]*fakeRemote)}
}

func (c *fakeCloud) user(id string) *fakeRemote {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.users[id]
	if !ok {
		r = newFakeRemote()
		c.users[id] = r
	}
	return r
}

func (c *fakeCloud) factory() RemoteFactory {
	return func(session *models.Session) RemoteStore {
		return c.user(session.UserID)
	}
}

// device это кэш и оркестратор одного устройства
type device struct {
	cache *cache.Cache
	svc   *Service
}

func newDevice(t *testing.T, factory RemoteFactory) *device {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "device.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	c := cache.New(store, discardLogger())
	svc := New(c, factory, discardLogger(), Options{ExcludedKeys: testExcluded})
	t.Cleanup(func() { _ = svc.Close(context.Background()) })

	return &device{cache: c, svc: svc}
}

func userSession(id string) *models.Session {
	return &models.Session{
		UserID:      id,
		Username:    "user-" + id,
		AccessToken: "token-" + id,
		DeviceID:    "device-" + id,
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	}
}

func entryMap(t *testing.T, c *cache.Cache) map[string]string {
	t.Helper()
	entries, err := c.Entries()
	require.NoError(t, err)
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		m[e.Key] = e.Value
	}
	return m
}
