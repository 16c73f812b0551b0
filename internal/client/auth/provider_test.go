package auth

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/daysync/internal/client/api"
	"github.com/iudanet/daysync/internal/client/storage"
	"github.com/iudanet/daysync/internal/client/storage/boltdb"
	"github.com/iudanet/daysync/internal/models"
	pkgapi "github.com/iudanet/daysync/pkg/api"
)

func newTestProvider(t *testing.T, client Client) (*Provider, *boltdb.Storage) {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	p := NewProvider(client, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.now = func() time.Time { return time.Unix(1_750_000_000, 0) }
	return p, store
}

func loginOK() *ClientMock {
	return &ClientMock{
		LoginFunc: func(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return &pkgapi.TokenResponse{UserID: "u-1", AccessToken: "jwt", ExpiresIn: 3600}, nil
		},
	}
}

func TestProvider_Register(t *testing.T) {
	client := &ClientMock{
		RegisterFunc: func(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.RegisterResponse, error) {
			if req.Username == "taken" {
				return nil, &api.StatusError{Message: "username already taken", StatusCode: 409}
			}
			return &pkgapi.RegisterResponse{UserID: "u-1"}, nil
		},
	}
	p, _ := newTestProvider(t, client)

	tests := []struct {
		name     string
		username string
		password string
		wantID   string
		wantErr  bool
	}{
		{name: "success", username: "lily", password: "password123", wantID: "u-1"},
		{name: "short username", username: "ab", password: "password123", wantErr: true},
		{name: "short password", username: "lily", password: "short", wantErr: true},
		{name: "server conflict", username: "taken", password: "password123", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := p.Register(t.Context(), tt.username, tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}

	// валидация не доходит до сервера
	assert.Len(t, client.RegisterCalls(), 2)
}

func TestProvider_SignIn(t *testing.T) {
	ctx := t.Context()
	client := loginOK()
	p, store := newTestProvider(t, client)

	var seen []*models.Session
	p.OnSessionChange(func(ctx context.Context, s *models.Session) { seen = append(seen, s) })

	session, err := p.SignIn(ctx, "lily", "password123")
	require.NoError(t, err)

	deviceID, err := store.DeviceID(ctx)
	require.NoError(t, err)

	assert.Equal(t, "u-1", session.UserID)
	assert.Equal(t, "lily", session.Username)
	assert.Equal(t, "jwt", session.AccessToken)
	assert.Equal(t, deviceID, session.DeviceID)
	assert.Equal(t, int64(1_750_003_600), session.ExpiresAt)

	require.Len(t, seen, 1)
	assert.Equal(t, session, seen[0])

	current, err := p.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, session, current)

	require.Len(t, client.LoginCalls(), 1)
	assert.Equal(t, "password123", client.LoginCalls()[0].Req.Password)
}

func TestProvider_SignInFailure(t *testing.T) {
	ctx := t.Context()
	client := &ClientMock{
		LoginFunc: func(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error) {
			return nil, &api.StatusError{Message: "invalid credentials", StatusCode: 401}
		},
	}
	p, _ := newTestProvider(t, client)

	called := false
	p.OnSessionChange(func(ctx context.Context, s *models.Session) { called = true })

	_, err := p.SignIn(ctx, "lily", "wrong-password")
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.False(t, called)

	_, err = p.SignIn(ctx, "lily", "")
	assert.Error(t, err)
	assert.Len(t, client.LoginCalls(), 1)

	current, err := p.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestProvider_ContinueAsGuest(t *testing.T) {
	ctx := t.Context()
	p, store := newTestProvider(t, &ClientMock{})

	var seen *models.Session
	p.OnSessionChange(func(ctx context.Context, s *models.Session) { seen = s })

	session, err := p.ContinueAsGuest(ctx)
	require.NoError(t, err)
	assert.True(t, session.Guest)
	assert.False(t, session.Authenticated())
	assert.Equal(t, session, seen)

	deviceID, err := store.DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, deviceID, session.DeviceID)
}

func TestProvider_SignOut(t *testing.T) {
	ctx := t.Context()
	p, store := newTestProvider(t, loginOK())

	_, err := p.SignIn(ctx, "lily", "password123")
	require.NoError(t, err)

	// слушатель видит nil, пока сессия еще сохранена
	var stillStored bool
	var seen []*models.Session
	p.OnSessionChange(func(ctx context.Context, s *models.Session) {
		seen = append(seen, s)
		_, err := store.GetSession(ctx)
		stillStored = err == nil
	})

	require.NoError(t, p.SignOut(ctx))

	require.Len(t, seen, 1)
	assert.Nil(t, seen[0])
	assert.True(t, stillStored)

	current, err := p.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestProvider_CurrentStorageError(t *testing.T) {
	ctx := t.Context()
	p, store := newTestProvider(t, &ClientMock{})
	require.NoError(t, store.Close())

	_, err := p.Current(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
