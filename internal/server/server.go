// Package server wires the document store HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/daysync/internal/server/handlers"
	"github.com/iudanet/daysync/internal/server/middleware"
	"github.com/iudanet/daysync/internal/server/storage"
)

// Config параметры HTTP сервера
type Config struct {
	Version    string
	JWT        handlers.JWTConfig
	RateLimit  int
	RateWindow time.Duration
}

// Server is the document store HTTP API
type Server struct {
	handler     http.Handler
	logger      *slog.Logger
	authLimiter *middleware.RateLimiter
	docLimiter  *middleware.RateLimiter
}

// New собирает маршруты и цепочку middleware
func New(logger *slog.Logger, cfg Config, users storage.UserStorage, docs storage.DocumentStorage, db handlers.Pinger) *Server {
	s := &Server{
		logger:      logger,
		authLimiter: middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow),
		// документы пишутся чаще: каждый Set на клиенте дает PUT
		docLimiter: middleware.NewRateLimiter(cfg.RateLimit*50, cfg.RateWindow),
	}

	authHandler := handlers.NewAuthHandler(logger, users, cfg.JWT)
	docHandler := handlers.NewDocumentHandler(logger, docs)
	healthHandler := handlers.NewHealthHandler(logger, db, cfg.Version)

	authLimit := s.authLimiter.Middleware(logger, middleware.ClientIP)
	authenticated := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(logger, cfg.JWT)(
			s.docLimiter.Middleware(logger, middleware.ByUser)(h))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)
	mux.Handle("POST /api/v1/auth/register", authLimit(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/v1/auth/login", authLimit(http.HandlerFunc(authHandler.Login)))
	mux.Handle("GET /api/v1/auth/me", authenticated(authHandler.Me))
	mux.Handle("GET /api/v1/documents", authenticated(docHandler.List))
	mux.Handle("GET /api/v1/documents/{id}", authenticated(docHandler.Get))
	mux.Handle("PUT /api/v1/documents/{id}", authenticated(docHandler.Put))
	mux.Handle("POST /api/v1/documents/batch", authenticated(docHandler.Batch))

	// Порядок: request id -> recovery -> logging -> маршрут
	var h http.Handler = mux
	h = middleware.LoggingMiddleware(logger, "/api/v1/health")(h)
	h = middleware.RecoveryMiddleware(logger)(h)
	h = middleware.RequestIDMiddleware(h)
	s.handler = h

	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run слушает addr до отмены ctx, затем корректно завершает сервер
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close останавливает фоновые горутины rate limiter'ов
func (s *Server) Close() {
	s.authLimiter.Stop()
	s.docLimiter.Stop()
}
