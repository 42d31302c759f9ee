package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNotFound is returned by Get when the key has never been written
// or has been deleted. Callers treat it as absence, not as a failure.
var ErrNotFound = errors.New("key not found")

// Store is the key/value persistence boundary. Values are opaque bytes
// (JSON in practice); writes are whole-value overwrites, last writer wins.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Config selects and parameterizes a storage backend
type Config struct {
	Backend       string // file, memory, postgres
	FilePath      string
	EncryptionKey string // optional, file backend only; 32 bytes enables AES-256-GCM at rest
	PostgresURL   string
}

// New creates the storage backend named by cfg.Backend
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case "file":
		return NewFileStore(cfg.FilePath, cfg.EncryptionKey, logger)
	case "memory":
		return NewMemoryStore(), nil
	case "postgres":
		return NewPostgresStore(ctx, cfg.PostgresURL, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Backend)
	}
}
