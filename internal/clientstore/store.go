package clientstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alexedwards/scs/boltstore"
	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/redis/go-redis/v9"
	"go.etcd.io/bbolt"

	"jobboard-client/internal/metrics"
)

// noExpiry is used when a value is written without a ttl.
const noExpiry = 100 * 365 * 24 * time.Hour

var ErrUnsupportedStore = errors.New("unsupported client store")

// Store is durable key/value client storage. Values outlive a single request
// and, with the redis backend, a restart of the client process.
type Store struct {
	store  scs.Store
	kind   string
	logger *slog.Logger
	close  func() error
}

// NewMemoryStore returns a process-local store.
func NewMemoryStore(logger *slog.Logger) *Store {
	mem := memstore.New()

	return &Store{
		store:  mem,
		kind:   metrics.StorageTypeMemory,
		logger: logger,
		close: func() error {
			mem.StopCleanup()
			return nil
		},
	}
}

const boltOpenTimeout = 2 * time.Second

// NewBoltStore returns a store in the bolt database at path, creating it if needed.
// Only one process can hold the file open at a time.
func NewBoltStore(path string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create client store directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open client store %s: %w", path, err)
	}

	bolt := boltstore.New(db)

	return &Store{
		store:  bolt,
		kind:   metrics.StorageTypeBolt,
		logger: logger,
		close: func() error {
			bolt.StopCleanup()
			return db.Close()
		},
	}, nil
}

// NewRedisStore returns a store whose keys live under prefix in redis.
func NewRedisStore(client *redis.Client, prefix string, logger *slog.Logger) *Store {
	return &Store{
		store:  goredisstore.NewWithPrefix(client, prefix),
		kind:   metrics.StorageTypeRedis,
		logger: logger,
		close:  client.Close,
	}
}

// Kind reports the backend name ("bolt", "memory" or "redis").
func (s *Store) Kind() string {
	return s.kind
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		b     []byte
		found bool
		err   error
	)

	if cs, ok := s.store.(scs.CtxStore); ok {
		b, found, err = cs.FindCtx(ctx, key)
	} else {
		b, found, err = s.store.Find(key)
	}

	if err != nil {
		return "", false, fmt.Errorf("failed to read %q from %s store: %w", key, s.kind, err)
	}

	if !found {
		return "", false, nil
	}

	return string(b), true, nil
}

func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = noExpiry
	}
	expiry := time.Now().Add(ttl)

	var err error
	if cs, ok := s.store.(scs.CtxStore); ok {
		err = cs.CommitCtx(ctx, key, []byte(value), expiry)
	} else {
		err = s.store.Commit(key, []byte(value), expiry)
	}

	if err != nil {
		return fmt.Errorf("failed to write %q to %s store: %w", key, s.kind, err)
	}

	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	var err error
	if cs, ok := s.store.(scs.CtxStore); ok {
		err = cs.DeleteCtx(ctx, key)
	} else {
		err = s.store.Delete(key)
	}

	if err != nil {
		return fmt.Errorf("failed to delete %q from %s store: %w", key, s.kind, err)
	}

	return nil
}

func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}

	if err := s.close(); err != nil {
		s.logger.Error("error closing client store", "store", s.kind, "error", err)
		return err
	}

	return nil
}
