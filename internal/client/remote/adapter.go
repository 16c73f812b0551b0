// Package remote mirrors cache entries into the per-user document collection.
package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	clientapi "github.com/iudanet/daysync/internal/client/api"
	"github.com/iudanet/daysync/internal/keynorm"
	"github.com/iudanet/daysync/internal/models"
	"github.com/iudanet/daysync/pkg/api"
)

//go:generate moq -out documentclient_mock_test.go . DocumentClient

// DocumentClient is the part of the HTTP client the adapter needs
type DocumentClient interface {
	ListDocuments(ctx context.Context) ([]api.Document, error)
	PutDocument(ctx context.Context, id string, req api.PutDocumentRequest) (*api.Document, error)
	CommitBatch(ctx context.Context, req api.BatchRequest) (*api.BatchResponse, error)
}

// Options настройки адаптера
type Options struct {
	// PushRetries число повторов одиночной записи после первой попытки
	PushRetries uint64
	// FlushConcurrency ограничивает число параллельных записей в WriteMany
	FlushConcurrency int
	// FlushBatchSize число записей в одном batch запросе WriteMany
	FlushBatchSize int
	// BackoffBase начальная задержка экспоненциального backoff
	BackoffBase time.Duration
	// MaxRetryAfter верхняя граница ожидания по заголовку Retry-After
	MaxRetryAfter time.Duration
}

// DefaultOptions returns the options used by the CLI
func DefaultOptions() Options {
	return Options{
		PushRetries:      2,
		FlushConcurrency: 8,
		FlushBatchSize:   200,
		BackoffBase:      200 * time.Millisecond,
		MaxRetryAfter:    time.Minute,
	}
}

// Adapter talks to the remote document store on behalf of one session
type Adapter struct {
	client DocumentClient
	logger *slog.Logger
	opts   Options
}

// New creates an adapter over client
func New(client DocumentClient, logger *slog.Logger, opts Options) *Adapter {
	if opts.FlushConcurrency < 1 {
		opts.FlushConcurrency = 1
	}
	if opts.FlushBatchSize < 1 {
		opts.FlushBatchSize = DefaultOptions().FlushBatchSize
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = DefaultOptions().BackoffBase
	}
	if opts.MaxRetryAfter <= 0 {
		opts.MaxRetryAfter = DefaultOptions().MaxRetryAfter
	}
	return &Adapter{
		client: client,
		logger: logger,
		opts:   opts,
	}
}

// ReadAll returns every document of the signed-in user
func (a *Adapter) ReadAll(ctx context.Context) ([]models.RemoteDocument, error) {
	docs, err := a.client.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("read remote documents: %w", err)
	}

	result := make([]models.RemoteDocument, 0, len(docs))
	for _, d := range docs {
		result = append(result, models.RemoteDocument{
			DocID:     d.ID,
			Key:       d.Key,
			Value:     d.Value,
			WrittenAt: d.WrittenAt,
		})
	}
	return result, nil
}

// WriteOne upserts one document, retrying transient failures.
// The error is already logged; callers on the push path ignore it.
func (a *Adapter) WriteOne(ctx context.Context, docID, key, value string) error {
	attempts, err := a.withRetry(ctx, func(ctx context.Context) error {
		_, err := a.client.PutDocument(ctx, docID, api.PutDocumentRequest{Key: key, Value: value})
		return err
	})
	if err != nil {
		a.logger.WarnContext(ctx, "push failed", "key", key, "doc_id", docID, "attempts", attempts, "error", err)
		return fmt.Errorf("write %q: %w", docID, err)
	}

	a.logger.DebugContext(ctx, "pushed", "key", key, "doc_id", docID)
	return nil
}

// WriteMany upserts entries in chunks of FlushBatchSize through the batch
// endpoint, several chunks at a time, and waits for all of them.
// Chunks are independent: a failed chunk does not undo the others.
// Every failure is returned, joined.
func (a *Adapter) WriteMany(ctx context.Context, entries []models.CacheEntry) error {
	var (
		mu   sync.Mutex
		errs []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.FlushConcurrency)

	for chunk := range slices.Chunk(entries, a.opts.FlushBatchSize) {
		g.Go(func() error {
			if err := a.writeChunk(gctx, chunk); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			// Одна неудача не должна отменять остальные записи
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func (a *Adapter) writeChunk(ctx context.Context, chunk []models.CacheEntry) error {
	req := api.BatchRequest{Puts: make([]api.BatchPut, 0, len(chunk))}
	for _, e := range chunk {
		req.Puts = append(req.Puts, api.BatchPut{ID: keynorm.Normalize(e.Key), Key: e.Key, Value: e.Value})
	}

	attempts, err := a.withRetry(ctx, func(ctx context.Context) error {
		_, err := a.client.CommitBatch(ctx, req)
		return err
	})
	if err != nil {
		a.logger.WarnContext(ctx, "flush chunk failed",
			"entries", len(chunk), "first_key", chunk[0].Key, "attempts", attempts, "error", err)
		return fmt.Errorf("write %d entries starting at %q: %w", len(chunk), chunk[0].Key, err)
	}

	a.logger.DebugContext(ctx, "flushed chunk", "entries", len(chunk))
	return nil
}

// withRetry runs fn with exponential backoff. When the server answers with
// Retry-After the next attempt waits at least that long, up to MaxRetryAfter.
func (a *Adapter) withRetry(ctx context.Context, fn func(ctx context.Context) error) (int, error) {
	base := retry.WithMaxRetries(a.opts.PushRetries, retry.NewExponential(a.opts.BackoffBase))

	var serverDelay time.Duration
	backoff := retry.BackoffFunc(func() (time.Duration, bool) {
		next, stop := base.Next()
		if stop {
			return 0, true
		}
		if serverDelay > next {
			next = serverDelay
		}
		serverDelay = 0
		return next, false
	})

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err != nil && isTransient(err) {
			serverDelay = a.retryAfter(err)
			a.logger.DebugContext(ctx, "attempt failed", "attempt", attempt, "wait_at_least", serverDelay, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
	return attempt, err
}

// retryAfter returns the delay the server asked for, capped by MaxRetryAfter
func (a *Adapter) retryAfter(err error) time.Duration {
	var statusErr *clientapi.StatusError
	if !errors.As(err, &statusErr) {
		return 0
	}
	return min(statusErr.RetryAfter, a.opts.MaxRetryAfter)
}

// Commit applies a migration plan as one atomic batch
func (a *Adapter) Commit(ctx context.Context, plan *models.MigrationPlan) error {
	if plan.Empty() {
		return nil
	}

	req := api.BatchRequest{
		Puts:    make([]api.BatchPut, 0, len(plan.Moves)),
		Deletes: plan.Deletes(),
	}
	for _, m := range plan.Puts() {
		req.Puts = append(req.Puts, api.BatchPut{ID: m.ToDocID, Key: m.Key, Value: m.Value})
	}

	resp, err := a.client.CommitBatch(ctx, req)
	if err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}

	a.logger.InfoContext(ctx, "migration committed", "written", resp.Written, "deleted", resp.Deleted)
	return nil
}

// isTransient reports whether a failed push is worth retrying.
// Errors without an HTTP status are connection failures and are retried.
func isTransient(err error) bool {
	var statusErr *clientapi.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return !errors.Is(err, context.Canceled)
}
