// Package sync keeps the local cache and the remote document store in step.
//
// The Service is a small state machine driven by session changes: sign-in pulls
// the remote documents into the cache, repairs stale document ids and re-pulls;
// afterwards every cache write is pushed in the background; sign-out flushes the
// whole cache and clears it.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/iudanet/daysync/internal/client/cache"
	"github.com/iudanet/daysync/internal/models"
)

var syncTracer = otel.Tracer("daysync.sync")

//go:generate moq -out remotestore_mock_test.go . RemoteStore

// RemoteStore is the per-session view of the remote document collection
type RemoteStore interface {
	ReadAll(ctx context.Context) ([]models.RemoteDocument, error)
	WriteOne(ctx context.Context, docID, key, value string) error
	WriteMany(ctx context.Context, entries []models.CacheEntry) error
	Commit(ctx context.Context, plan *models.MigrationPlan) error
}

// RemoteFactory builds the remote store for an authenticated session
type RemoteFactory func(session *models.Session) RemoteStore

// Options настройки оркестратора
type Options struct {
	// ExcludedKeys никогда не отправляются, не принимаются и переживают очистку кэша
	ExcludedKeys []string
}

// RemoteSummary describes the remote collection without changing it
type RemoteSummary struct {
	Documents    int
	NonCanonical int
}

// Service orchestrates pull, migration and push for the current session
type Service struct {
	cache     *cache.Cache
	newRemote RemoteFactory
	logger    *slog.Logger
	excluded  map[string]struct{}
	keep      []string
	sc        *SyncContext
	hooks     []func(ctx context.Context, report Report)
	// mu сериализует переходы между сессиями
	mu sync.Mutex
	// stateMu защищает state, sc и hooks для чтения из Notify
	stateMu sync.RWMutex
	state   State
}

// New creates the orchestrator and subscribes it to cache writes
func New(c *cache.Cache, newRemote RemoteFactory, logger *slog.Logger, opts Options) *Service {
	s := &Service{
		cache:     c,
		newRemote: newRemote,
		logger:    logger,
		excluded:  make(map[string]struct{}, len(opts.ExcludedKeys)),
		keep:      append([]string(nil), opts.ExcludedKeys...),
		state:     StateSignedOut,
	}
	for _, k := range opts.ExcludedKeys {
		s.excluded[k] = struct{}{}
	}

	c.SetNotifier(s)

	return s
}

// State returns the current lifecycle state
func (s *Service) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Session returns the current session or nil when signed out
func (s *Service) Session() *models.Session {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if s.sc == nil {
		return nil
	}
	return s.sc.Session
}

// Pending returns the number of queued pushes
func (s *Service) Pending() int {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.sc.Pending()
}

// OnAfterReconcile registers cb to run every time a cycle reaches Ready
func (s *Service) OnAfterReconcile(cb func(ctx context.Context, report Report)) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.hooks = append(s.hooks, cb)
}

// Excluded reports whether key is device-local
func (s *Service) Excluded(key string) bool {
	_, ok := s.excluded[key]
	return ok
}

// Notify is called by the cache after every successful Set
func (s *Service) Notify(key, value string) {
	if s.Excluded(key) {
		return
	}

	s.stateMu.RLock()
	sc := s.sc
	s.stateMu.RUnlock()

	if !sc.Syncing() {
		return
	}
	if err := sc.enqueue(models.CacheEntry{Key: key, Value: value}); err != nil {
		s.logger.Debug("push not scheduled", "key", key, "error", err)
	}
}

// HandleSessionChange reacts to the identity provider.
// A nil session means sign-out.
func (s *Service) HandleSessionChange(ctx context.Context, session *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case session == nil:
		s.endSession(ctx)
	case session.Guest:
		s.startGuest(ctx, session)
	default:
		s.startSession(ctx, session)
	}
}

// Resume restores a persisted session without pulling.
// Used by short-lived processes; Sync runs the full cycle on demand.
func (s *Service) Resume(session *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev := s.current(); prev != nil {
		_ = prev.close(context.Background())
	}

	switch {
	case session == nil:
		s.setContext(nil, StateSignedOut)
	case session.Guest:
		s.setContext(newSyncContext(session, nil, s.logger), StateGuest)
	default:
		if session.Expired(time.Now()) {
			s.logger.Warn("resumed session has expired, pushes will fail until next login",
				"user", session.Identity())
		}
		s.setContext(newSyncContext(session, s.newRemote(session), s.logger), StateReady)
	}
}

// Sync runs pull, migration and re-pull for the current session
func (s *Service) Sync(ctx context.Context) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.current()
	if !sc.Syncing() {
		return nil, ErrNotAuthenticated
	}

	report := s.runCycle(ctx, sc)
	return &report, nil
}

// Reconcile runs only the migration pass (and the re-pull it may need)
func (s *Service) Reconcile(ctx context.Context) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.current()
	if !sc.Syncing() {
		return nil, ErrNotAuthenticated
	}

	start := time.Now()
	report := Report{}

	docs, err := sc.remote.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}

	s.setState(StateSyncingMigrate)
	s.migrateAndRepull(ctx, sc, docs, &report)
	s.finish(ctx, start, &report)

	if report.Failed {
		return &report, ErrIncomplete
	}
	return &report, nil
}

// Inspect counts remote documents and those stored under a stale id
func (s *Service) Inspect(ctx context.Context) (*RemoteSummary, error) {
	s.stateMu.RLock()
	sc := s.sc
	s.stateMu.RUnlock()

	if !sc.Syncing() {
		return nil, ErrNotAuthenticated
	}

	docs, err := sc.remote.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return &RemoteSummary{Documents: len(docs), NonCanonical: CountNonCanonical(docs)}, nil
}

// Close drains pending pushes; call before process exit
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.current()
	if err := sc.close(ctx); err != nil {
		return fmt.Errorf("drain push queue: %w", err)
	}
	return nil
}

func (s *Service) startSession(ctx context.Context, session *models.Session) {
	if prev := s.current(); prev != nil {
		switch {
		case prev.Session.Guest:
			// данные гостя не должны попасть в аккаунт
			s.logger.Info("leaving guest mode, clearing local data")
			s.clearLocal()
		case prev.Session.UserID != session.UserID:
			s.endSession(ctx)
		default:
			// тот же пользователь с новым токеном
			if err := prev.close(ctx); err != nil {
				s.logger.Warn("failed to drain pushes of previous session", "error", err)
			}
		}
	}

	sc := newSyncContext(session, s.newRemote(session), s.logger)
	s.setContext(sc, StateSyncingPull)
	s.logger.Info("session started", "user", session.Identity(), "device_id", session.DeviceID)

	s.runCycle(ctx, sc)
}

func (s *Service) startGuest(ctx context.Context, session *models.Session) {
	if prev := s.current(); prev.Syncing() {
		s.endSession(ctx)
	}
	s.setContext(newSyncContext(session, nil, s.logger), StateGuest)
	s.logger.Info("guest mode, nothing will be synchronized")
}

// endSession flushes every entry, stops pushes and clears local data.
// Flush failures are logged; sign-out always completes.
func (s *Service) endSession(ctx context.Context) {
	sc := s.current()
	if sc == nil {
		s.setContext(nil, StateSignedOut)
		return
	}

	if sc.Syncing() {
		ctx, span := syncTracer.Start(ctx, "sync.SignOutFlush")

		// Сначала дожидаемся очереди, иначе старое значение может перезаписать свежее
		if err := sc.close(ctx); err != nil {
			s.logger.Warn("push queue not drained before sign-out", "error", err)
		}

		entries, err := s.pushable()
		switch {
		case err != nil:
			s.logger.Error("failed to read cache for sign-out flush", "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "read cache failed")
		default:
			span.SetAttributes(attribute.Int("entries", len(entries)))
			if err := sc.remote.WriteMany(ctx, entries); err != nil {
				s.logger.Error("sign-out flush incomplete", "entries", len(entries), "error", err)
				span.RecordError(err)
				span.SetStatus(codes.Error, "flush failed")
			} else {
				s.logger.Info("local data flushed", "entries", len(entries))
			}
		}
		span.End()
	}

	s.clearLocal()
	s.setContext(nil, StateSignedOut)
	s.logger.Info("session ended", "user", sc.Session.Identity())
}

// runCycle executes pull, migrate and re-pull, then fires hooks.
// Failures are logged and the cycle still ends in Ready.
func (s *Service) runCycle(ctx context.Context, sc *SyncContext) Report {
	start := time.Now()
	report := Report{}

	ctx, span := syncTracer.Start(ctx, "sync.Cycle",
		trace.WithAttributes(attribute.String("device_id", sc.Session.DeviceID)))
	defer span.End()

	s.setState(StateSyncingPull)
	docs, err := s.pull(ctx, sc, "sync.Pull", &report)
	if err != nil {
		report.Failed = true
		span.RecordError(err)
		s.finish(ctx, start, &report)
		return report
	}

	if len(docs) == 0 {
		s.bootstrap(ctx, sc, &report)
	}

	s.setState(StateSyncingMigrate)
	s.migrateAndRepull(ctx, sc, docs, &report)

	span.SetAttributes(
		attribute.Int("pulled", report.Pulled),
		attribute.Int("flushed", report.Flushed),
		attribute.Int("moved", report.Moved),
	)
	s.finish(ctx, start, &report)
	return report
}

// pull reads all documents and writes them into the cache
func (s *Service) pull(ctx context.Context, sc *SyncContext, spanName string, report *Report) ([]models.RemoteDocument, error) {
	ctx, span := syncTracer.Start(ctx, spanName)
	defer span.End()

	docs, err := sc.remote.ReadAll(ctx)
	if err != nil {
		s.logger.Error("pull failed, continuing with local data", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return nil, err
	}

	applied := s.apply(docs)
	report.Pulled += applied
	span.SetAttributes(attribute.Int("documents", len(docs)), attribute.Int("applied", applied))

	s.logger.Info("pulled remote documents", "documents", len(docs), "applied", applied)
	return docs, nil
}

// apply writes documents into the cache oldest first, so that the newest
// document of a key wins when stale duplicates exist
func (s *Service) apply(docs []models.RemoteDocument) int {
	ordered := make([]models.RemoteDocument, len(docs))
	copy(ordered, docs)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[j].IsNewerThan(&ordered[i]) })

	applied := 0
	for _, doc := range ordered {
		if doc.Key == "" || s.Excluded(doc.Key) {
			continue
		}
		if err := s.cache.PutRaw(doc.Key, doc.Value); err != nil {
			s.logger.Warn("failed to apply remote document", "key", doc.Key, "doc_id", doc.DocID, "error", err)
			continue
		}
		applied++
	}
	return applied
}

// bootstrap pushes the whole cache when the remote collection is empty
func (s *Service) bootstrap(ctx context.Context, sc *SyncContext, report *Report) {
	ctx, span := syncTracer.Start(ctx, "sync.Bootstrap")
	defer span.End()

	entries, err := s.pushable()
	if err != nil {
		s.logger.Error("failed to read cache for bootstrap", "error", err)
		report.Failed = true
		return
	}
	if len(entries) == 0 {
		return
	}

	if err := sc.remote.WriteMany(ctx, entries); err != nil {
		s.logger.Warn("bootstrap flush incomplete", "error", err)
		span.RecordError(err)
		report.Failed = true
	}
	report.Flushed = len(entries)
	s.logger.Info("remote was empty, local data uploaded", "entries", len(entries))
}

// migrateAndRepull commits the migration plan and re-pulls when anything moved
func (s *Service) migrateAndRepull(ctx context.Context, sc *SyncContext, docs []models.RemoteDocument, report *Report) {
	ctx, span := syncTracer.Start(ctx, "sync.Migrate")
	plan := Plan(docs)
	span.SetAttributes(attribute.Int("moves", len(plan.Moves)))

	if plan.Empty() {
		span.End()
		return
	}

	if err := sc.remote.Commit(ctx, plan); err != nil {
		// батч атомарный: ничего не применилось, повторим при следующем входе
		s.logger.Error("migration failed, will retry on next sign-in", "moves", len(plan.Moves), "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		span.End()
		report.Failed = true
		return
	}
	span.End()

	report.Moved = len(plan.Moves)
	s.logger.Info("stale document ids migrated", "moves", len(plan.Moves))

	s.setState(StateSyncingPullAgain)
	if _, err := s.pull(ctx, sc, "sync.PullAgain", report); err != nil {
		report.Failed = true
	}
}

func (s *Service) finish(ctx context.Context, start time.Time, report *Report) {
	report.Duration = time.Since(start)
	s.setState(StateReady)

	s.stateMu.RLock()
	hooks := append([]func(context.Context, Report){}, s.hooks...)
	s.stateMu.RUnlock()

	for _, hook := range hooks {
		hook(ctx, *report)
	}
}

// pushable returns cache entries that may leave the device
func (s *Service) pushable() ([]models.CacheEntry, error) {
	entries, err := s.cache.Entries()
	if err != nil {
		return nil, err
	}

	result := entries[:0]
	for _, e := range entries {
		if !s.Excluded(e.Key) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *Service) clearLocal() {
	if err := s.cache.ClearExcept(s.keep); err != nil {
		s.logger.Error("failed to clear local data", "error", err)
	}
}

func (s *Service) current() *SyncContext {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.sc
}

func (s *Service) setContext(sc *SyncContext, state State) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.sc = sc
	s.state = state
}

func (s *Service) setState(state State) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.state = state
}
