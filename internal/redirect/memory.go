package redirect

import (
	"context"
	"fmt"
	"time"
)

// KeyValueStore is the durable storage the redirect target is kept in.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Memory remembers where the user was headed before a forced re-authentication.
type Memory struct {
	store KeyValueStore
	key   string
	ttl   time.Duration
}

func NewMemory(store KeyValueStore, key string, ttl time.Duration) *Memory {
	return &Memory{
		store: store,
		key:   key,
		ttl:   ttl,
	}
}

// Set overwrites any target that has not been consumed yet.
func (m *Memory) Set(ctx context.Context, path string) error {
	if err := m.store.Set(ctx, m.key, path, m.ttl); err != nil {
		return fmt.Errorf("failed to remember redirect target: %w", err)
	}
	return nil
}

// Get returns the stored target without clearing it.
func (m *Memory) Get(ctx context.Context) (string, bool, error) {
	path, ok, err := m.store.Get(ctx, m.key)
	if err != nil {
		return "", false, fmt.Errorf("failed to load redirect target: %w", err)
	}
	return path, ok, nil
}

func (m *Memory) Clear(ctx context.Context) error {
	if err := m.store.Delete(ctx, m.key); err != nil {
		return fmt.Errorf("failed to clear redirect target: %w", err)
	}
	return nil
}

// Consume reads the target and clears it. The post-login flow uses this to resume.
func (m *Memory) Consume(ctx context.Context) (string, bool, error) {
	path, ok, err := m.Get(ctx)
	if err != nil || !ok {
		return "", false, err
	}

	if err := m.Clear(ctx); err != nil {
		return "", false, err
	}

	return path, true, nil
}
