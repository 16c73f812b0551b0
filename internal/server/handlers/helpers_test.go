package handlers

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/iudanet/daysync/internal/models"
	"github.com/iudanet/daysync/internal/server/storage"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users       map[string]*models.User // username -> User
	createError error
	getError    error
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.users[user.Username]; exists {
		return storage.ErrUserAlreadyExists
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockUserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	user, ok := m.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) UpdateLastLogin(ctx context.Context, userID string, lastLogin time.Time) error {
	for _, user := range m.users {
		if user.ID == userID {
			user.LastLogin = &lastLogin
			return nil
		}
	}
	return storage.ErrUserNotFound
}

// mockDocumentStorage keeps documents in memory, keyed by user and doc id
type mockDocumentStorage struct {
	docs     map[string]map[string]*models.RemoteDocument
	batchErr error
	mu       sync.Mutex
}

func newMockDocumentStorage() *mockDocumentStorage {
	return &mockDocumentStorage{docs: make(map[string]map[string]*models.RemoteDocument)}
}

func (m *mockDocumentStorage) ListDocuments(ctx context.Context, userID string) ([]*models.RemoteDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*models.RemoteDocument, 0)
	for _, doc := range m.docs[userID] {
		result = append(result, doc)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DocID < result[j].DocID })
	return result, nil
}

func (m *mockDocumentStorage) GetDocument(ctx context.Context, userID, docID string) (*models.RemoteDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[userID][docID]
	if !ok {
		return nil, storage.ErrDocumentNotFound
	}
	return doc, nil
}

func (m *mockDocumentStorage) PutDocument(ctx context.Context, userID string, doc *models.RemoteDocument) (*models.RemoteDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := *doc
	saved.WrittenAt = time.Now().UTC()
	if m.docs[userID] == nil {
		m.docs[userID] = make(map[string]*models.RemoteDocument)
	}
	m.docs[userID][doc.DocID] = &saved
	return &saved, nil
}

func (m *mockDocumentStorage) ApplyBatch(ctx context.Context, userID string, puts []*models.RemoteDocument, deletes []string) error {
	if m.batchErr != nil {
		return m.batchErr
	}
	for _, doc := range puts {
		if _, err := m.PutDocument(ctx, userID, doc); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range deletes {
		delete(m.docs[userID], id)
	}
	return nil
}
