package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"jobportal/internal/cache"
	"jobportal/internal/observability"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrStateNotFound is returned for unknown, expired or already consumed nonces.
var ErrStateNotFound = errors.New("oauth state not found or expired")

// PendingLogin is what a state nonce stands for while the browser is at the provider.
type PendingLogin struct {
	Provider  string    `json:"provider"`
	Intent    Intent    `json:"intent"`
	CreatedAt time.Time `json:"created_at"`
}

// StateStore issues single-use state nonces.
type StateStore interface {
	Save(ctx context.Context, login PendingLogin) (string, error)
	// Consume returns the pending login and removes it. A nonce is valid once.
	Consume(ctx context.Context, nonce string) (*PendingLogin, error)
}

// NewStateStore returns a Redis-backed store, or an in-process one when rdb is nil.
func NewStateStore(rdb *redis.Client, ttl time.Duration) StateStore {
	if rdb == nil {
		return NewMemoryStateStore(ttl)
	}
	return NewRedisStateStore(rdb, ttl)
}

// RedisStateStore keeps nonces under oauth_state:<nonce> with a TTL.
type RedisStateStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStateStore(rdb *redis.Client, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStateStore) Save(ctx context.Context, login PendingLogin) (string, error) {
	nonce := uuid.NewString()
	if login.CreatedAt.IsZero() {
		login.CreatedAt = time.Now().UTC()
	}
	b, err := json.Marshal(login)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, cache.OAuthStateKey(nonce), b, s.ttl).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("oauth_state_save").Inc()
		return "", fmt.Errorf("save oauth state: %w", err)
	}
	return nonce, nil
}

func (s *RedisStateStore) Consume(ctx context.Context, nonce string) (*PendingLogin, error) {
	if nonce == "" {
		return nil, ErrStateNotFound
	}
	raw, err := s.rdb.GetDel(ctx, cache.OAuthStateKey(nonce)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		observability.RedisErrorRate.WithLabelValues("oauth_state_consume").Inc()
		return nil, fmt.Errorf("consume oauth state: %w", err)
	}
	var login PendingLogin
	if err := json.Unmarshal(raw, &login); err != nil {
		return nil, fmt.Errorf("decode oauth state: %w", err)
	}
	return &login, nil
}

// MemoryStateStore is the single-process fallback used when Redis is unavailable.
type MemoryStateStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	pending map[string]memoryEntry
}

type memoryEntry struct {
	login     PendingLogin
	expiresAt time.Time
}

func NewMemoryStateStore(ttl time.Duration) *MemoryStateStore {
	return &MemoryStateStore{
		ttl:     ttl,
		now:     time.Now,
		pending: make(map[string]memoryEntry),
	}
}

func (s *MemoryStateStore) Save(_ context.Context, login PendingLogin) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	if login.CreatedAt.IsZero() {
		login.CreatedAt = now.UTC()
	}
	nonce := uuid.NewString()
	s.pending[nonce] = memoryEntry{login: login, expiresAt: now.Add(s.ttl)}
	return nonce, nil
}

func (s *MemoryStateStore) Consume(_ context.Context, nonce string) (*PendingLogin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.pending[nonce]
	if !ok {
		return nil, ErrStateNotFound
	}
	delete(s.pending, nonce)
	if !s.now().Before(entry.expiresAt) {
		return nil, ErrStateNotFound
	}
	login := entry.login
	return &login, nil
}

// Len reports the number of live nonces.
func (s *MemoryStateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(s.now())
	return len(s.pending)
}

func (s *MemoryStateStore) sweepLocked(now time.Time) {
	for nonce, entry := range s.pending {
		if !now.Before(entry.expiresAt) {
			delete(s.pending, nonce)
		}
	}
}
