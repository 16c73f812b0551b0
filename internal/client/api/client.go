package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/daysync/pkg/api"
)

var (
	// ErrUnauthorized возвращается, когда сервер отверг токен или учетные данные
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound возвращается на 404
	ErrNotFound = errors.New("not found")
)

// StatusError is a non-2xx response from the server
type StatusError struct {
	Message    string
	StatusCode int
	// RetryAfter задержка из заголовка Retry-After, ноль если его нет
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Unwrap maps 401 to ErrUnauthorized and 404 to ErrNotFound
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// Temporary reports whether retrying the request may succeed
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	deviceID    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// WithSession returns a client that authenticates with token and tags requests with deviceID.
// The underlying http.Client is shared.
func (c *Client) WithSession(token, deviceID string) *Client {
	clone := *c
	clone.accessToken = token
	clone.deviceID = deviceID
	return &clone
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Me возвращает профиль пользователя текущего токена
func (c *Client) Me(ctx context.Context) (*api.UserResponse, error) {
	var resp api.UserResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/auth/me", nil, &resp); err != nil {
		return nil, fmt.Errorf("get profile failed: %w", err)
	}
	return &resp, nil
}

// GetDocument возвращает один документ по идентификатору
func (c *Client) GetDocument(ctx context.Context, id string) (*api.Document, error) {
	var resp api.Document
	path := "/api/v1/documents/" + url.PathEscape(id)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get document %q failed: %w", id, err)
	}
	return &resp, nil
}

// ListDocuments возвращает все документы пользователя
func (c *Client) ListDocuments(ctx context.Context) ([]api.Document, error) {
	var resp api.ListDocumentsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/documents", nil, &resp); err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return resp.Documents, nil
}

// PutDocument записывает документ с идентификатором id
func (c *Client) PutDocument(ctx context.Context, id string, req api.PutDocumentRequest) (*api.Document, error) {
	var resp api.Document
	path := "/api/v1/documents/" + url.PathEscape(id)
	if err := c.doRequest(ctx, http.MethodPut, path, req, &resp); err != nil {
		return nil, fmt.Errorf("put document %q failed: %w", id, err)
	}
	return &resp, nil
}

// CommitBatch атомарно применяет вставки и удаления
func (c *Client) CommitBatch(ctx context.Context, req api.BatchRequest) (*api.BatchResponse, error) {
	var resp api.BatchResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/documents/batch", req, &resp); err != nil {
		return nil, fmt.Errorf("commit batch failed: %w", err)
	}
	return &resp, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	if c.deviceID != "" {
		req.Header.Set(api.DeviceIDHeader, c.deviceID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			statusErr.Message = errResp.Message
		}
		return statusErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// parseRetryAfter understands the delay-seconds form of Retry-After
func parseRetryAfter(value string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
