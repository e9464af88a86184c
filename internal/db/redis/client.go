// Package redis implements db.Store on top of go-redis for Redis Stack / Redis 8.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kailas-cloud/vecrag/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for a Redis store.
type Config struct {
	URL string // redis://[user:pass@]host:port/db
}

// Store implements db.Store via go-redis.
type Store struct {
	client *goredis.Client
}

// NewStore creates a Redis store. The connection is established lazily.
func NewStore(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, errors.New("url is required")
	}

	opt, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	opt.Protocol = 2 // FT.SEARCH result parsing expects RESP2 array format

	return &Store{client: goredis.NewClient(opt)}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	_ = s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// do runs an arbitrary command built from string arguments.
func (s *Store) do(ctx context.Context, name string, args []string) *goredis.Cmd {
	cmdArgs := make([]any, 0, len(args)+1)
	cmdArgs = append(cmdArgs, name)
	for _, a := range args {
		cmdArgs = append(cmdArgs, a)
	}
	return s.client.Do(ctx, cmdArgs...)
}

// serverErr returns the server error message when err came from Redis itself.
func serverErr(err error) (string, bool) {
	var re goredis.Error
	if !errors.As(err, &re) || errors.Is(err, goredis.Nil) {
		return "", false
	}
	return re.Error(), true
}
