// Package auth is the client-side identity provider.
//
// It talks to the server auth endpoints, persists the resulting session and
// tells subscribers (the sync orchestrator) about every identity change.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/daysync/internal/client/storage"
	"github.com/iudanet/daysync/internal/models"
	"github.com/iudanet/daysync/internal/validation"
	"github.com/iudanet/daysync/pkg/api"
)

//go:generate moq -out client_mock_test.go . Client

// Client is the subset of the server API used for authentication
type Client interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)
}

// SessionListener получает новую сессию; nil означает выход
type SessionListener func(ctx context.Context, session *models.Session)

// Provider manages sign-in state of this device
type Provider struct {
	client    Client
	store     storage.SessionStorage
	logger    *slog.Logger
	now       func() time.Time
	listeners []SessionListener
	mu        sync.Mutex
}

// NewProvider creates a new identity provider
func NewProvider(client Client, store storage.SessionStorage, logger *slog.Logger) *Provider {
	return &Provider{
		client: client,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// OnSessionChange subscribes l to sign-in, guest and sign-out events
func (p *Provider) OnSessionChange(l SessionListener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

// Register creates an account and returns its user id.
// It does not sign in.
func (p *Provider) Register(ctx context.Context, username, password string) (string, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return "", fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return "", fmt.Errorf("invalid password: %w", err)
	}

	resp, err := p.client.Register(ctx, api.RegisterRequest{Username: username, Password: password})
	if err != nil {
		return "", fmt.Errorf("registration failed: %w", err)
	}

	p.logger.Info("account registered", "username", username, "user_id", resp.UserID)
	return resp.UserID, nil
}

// SignIn authenticates, persists the session and notifies listeners.
// Listeners run synchronously, so the initial sync has finished on return.
func (p *Provider) SignIn(ctx context.Context, username, password string) (*models.Session, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}
	if password == "" {
		return nil, errors.New("invalid password: password is required")
	}

	resp, err := p.client.Login(ctx, api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	deviceID, err := p.store.DeviceID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device id: %w", err)
	}

	session := &models.Session{
		UserID:      resp.UserID,
		Username:    username,
		AccessToken: resp.AccessToken,
		DeviceID:    deviceID,
		ExpiresAt:   p.now().Add(time.Duration(resp.ExpiresIn) * time.Second).Unix(),
	}
	if err := p.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	p.logger.Info("signed in", "username", username, "device_id", deviceID)
	p.emit(ctx, session)

	return session, nil
}

// ContinueAsGuest switches to a local-only session
func (p *Provider) ContinueAsGuest(ctx context.Context) (*models.Session, error) {
	deviceID, err := p.store.DeviceID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device id: %w", err)
	}

	session := &models.Session{Guest: true, DeviceID: deviceID}
	if err := p.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	p.emit(ctx, session)
	return session, nil
}

// SignOut notifies listeners first, so they can still flush with the old
// token, and then forgets the session
func (p *Provider) SignOut(ctx context.Context) error {
	p.emit(ctx, nil)

	if err := p.store.DeleteSession(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	p.logger.Info("signed out")
	return nil
}

// Current returns the persisted session or nil when nobody is signed in
func (p *Provider) Current(ctx context.Context) (*models.Session, error) {
	session, err := p.store.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

func (p *Provider) emit(ctx context.Context, session *models.Session) {
	p.mu.Lock()
	listeners := append([]SessionListener(nil), p.listeners...)
	p.mu.Unlock()

	for _, l := range listeners {
		l(ctx, session)
	}
}
