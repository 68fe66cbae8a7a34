package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// StoragePrefix namespaces progress records in the key-value store.
const StoragePrefix = "st-academy-progress-v1:"

// AnonymousIdentity is used in the storage key when no wallet is connected.
const AnonymousIdentity = "anon"

// StorageKey returns the record key for an identity. An empty identity maps
// to the anonymous record.
func StorageKey(identity string) string {
	if identity == "" {
		identity = AnonymousIdentity
	}
	return StoragePrefix + identity
}

// KV is a string key-value store. Implementations must be safe for
// concurrent use.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any existing value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Store loads and saves State records through a KV.
type Store struct {
	kv     KV
	logger *zap.Logger
	now    Clock
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report unreadable records.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock sets the clock used to stamp fresh and normalized records.
func WithClock(c Clock) Option {
	return func(s *Store) { s.now = c }
}

// NewStore creates a Store over kv.
func NewStore(kv KV, opts ...Option) *Store {
	s := &Store{kv: kv, logger: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Clock returns the store's clock.
func (s *Store) Clock() Clock { return s.now }

// Load returns the stored state for identity. A missing, unreadable or
// malformed record yields a fresh state; Load never fails and never writes.
func (s *Store) Load(ctx context.Context, identity string) State {
	key := StorageKey(identity)

	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("progress read failed, starting fresh", zap.String("key", key), zap.Error(err))
		return New(s.now)
	}
	if !ok || raw == "" {
		return New(s.now)
	}

	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		s.logger.Warn("malformed progress record, starting fresh", zap.String("key", key), zap.Error(err))
		return New(s.now)
	}
	return st.normalize(s.now)
}

// Save overwrites the full record for identity.
func (s *Store) Save(ctx context.Context, identity string, st State) error {
	data, err := json.Marshal(st.normalize(s.now))
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey(identity), string(data)); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Reset deletes the record for identity.
func (s *Store) Reset(ctx context.Context, identity string) error {
	if err := s.kv.Delete(ctx, StorageKey(identity)); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}
