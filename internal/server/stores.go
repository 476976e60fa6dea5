package server

import (
	"context"
	"fmt"
	"io"

	"github.com/justnchxn/musictoart/pkg/config"
	"github.com/justnchxn/musictoart/pkg/session"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStores builds the session and state stores for the configured backend.
// The returned Closer releases backend connections.
func OpenStores(ctx context.Context, cfg *config.Config) (session.Store, session.StateStore, io.Closer, error) {
	switch cfg.Session.Backend {
	case config.BackendMemory:
		return session.NewMemoryStore(), session.NewMemoryStateStore(), nopCloser{}, nil
	case config.BackendFile:
		fs, err := session.NewFileStore(cfg.Session.Dir)
		if err != nil {
			return nil, nil, nil, err
		}
		return fs, session.NewMemoryStateStore(), nopCloser{}, nil
	case config.BackendRedis:
		client, err := session.NewRedisClient(ctx, session.RedisConfig{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		return session.NewRedisStore(client), session.NewRedisStateStore(client), client, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}
