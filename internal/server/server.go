// Package server implements the musictoart HTTP server.
//
// The server owns the Spotify login flow, turns the signed-in listener's top
// artists and tracks into render parameters, and serves those parameters
// (GET /api/preview), a server-side render of them (GET /api/preview.png)
// and AI-generated artwork (GET /api/generate).
//
// Routing uses chi. Every request gets an ID (X-Request-ID) and a log line;
// Prometheus metrics are exposed on /metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/justnchxn/musictoart/pkg/config"
	"github.com/justnchxn/musictoart/pkg/integrations/spotify"
	"github.com/justnchxn/musictoart/pkg/integrations/stability"
	"github.com/justnchxn/musictoart/pkg/session"
)

const (
	shutdownTimeout = 5 * time.Second
	cleanupInterval = 10 * time.Minute
)

// Options carries the server's collaborators. Nil fields are built from
// Config.
type Options struct {
	Config    *config.Config
	Logger    *log.Logger
	Sessions  session.Store
	States    session.StateStore
	OAuth     *spotify.OAuthClient
	Spotify   *spotify.Client
	Stability *stability.Client
	Metrics   *Metrics
}

// Server serves the web UI and API.
type Server struct {
	cfg       *config.Config
	logger    *log.Logger
	sessions  session.Store
	states    session.StateStore
	codec     *session.Codec
	oauth     *spotify.OAuthClient
	spotify   *spotify.Client
	stability *stability.Client
	metrics   *Metrics
	handler   http.Handler
}

// New creates a server.
func New(opts Options) (*Server, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("server: config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       cfg,
		logger:    opts.Logger,
		sessions:  opts.Sessions,
		states:    opts.States,
		codec:     session.NewCodec(cfg.SessionSecret, cfg.SessionTTL),
		oauth:     opts.OAuth,
		spotify:   opts.Spotify,
		stability: opts.Stability,
		metrics:   opts.Metrics,
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.sessions == nil {
		s.sessions = session.NewMemoryStore()
	}
	if s.states == nil {
		s.states = session.NewMemoryStateStore()
	}
	if s.oauth == nil {
		s.oauth = spotify.NewOAuthClient(spotify.OAuthConfig{
			ClientID:    cfg.Spotify.ClientID,
			RedirectURI: cfg.Spotify.RedirectURI,
			Scopes:      cfg.Spotify.Scopes,
		})
	}
	if s.spotify == nil {
		s.spotify = spotify.NewClient(nil)
	}
	if s.stability == nil && cfg.Stability.APIKey != "" {
		s.stability = stability.NewClient(cfg.Stability.APIKey, cfg.Stability.Model)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Metrics returns the server's Prometheus metrics.
func (s *Server) Metrics() *Metrics { return s.metrics }

// ListenAndServe serves on cfg.Addr until ctx is cancelled, then shuts down
// gracefully. Expired sessions and state tokens are swept periodically.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		s.sweep(gctx)
		return nil
	})
	return g.Wait()
}

func (s *Server) sweep(ctx context.Context) {
	t := time.NewTicker(cleanupInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
			}
			if err := s.states.Cleanup(ctx); err != nil {
				s.logger.Warn("state cleanup failed", "error", err)
			}
		}
	}
}
