package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/opskrifter/internal/ui"
)

// TTL is how long an untouched draft is kept
const TTL = 24 * time.Hour

// Store keeps the unsent content of a visitor's submission form
type Store interface {
	Save(ctx context.Context, session string, input ui.FormInput) error
	// Load returns nil without error when the session has no draft.
	Load(ctx context.Context, session string) (*ui.FormInput, error)
	Delete(ctx context.Context, session string) error
}

func key(session string) string {
	return fmt.Sprintf("recipe:draft:%s", session)
}

// RedisStore keeps drafts in Redis with an expiry
type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisStore creates a Redis backed draft store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{redis: client, ttl: TTL}
}

// Save saves a draft to Redis
func (s *RedisStore) Save(ctx context.Context, session string, input ui.FormInput) error {
	data, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, key(session), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft to Redis: %w", err)
	}
	return nil
}

// Load retrieves a draft from Redis
func (s *RedisStore) Load(ctx context.Context, session string) (*ui.FormInput, error) {
	data, err := s.redis.Get(ctx, key(session)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var input ui.FormInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &input, nil
}

// Delete removes a draft from Redis
func (s *RedisStore) Delete(ctx context.Context, session string) error {
	if err := s.redis.Del(ctx, key(session)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft from Redis: %w", err)
	}
	return nil
}

type memoryEntry struct {
	input   ui.FormInput
	expires time.Time
}

// MemoryStore keeps drafts in process memory. Used when Redis is not
// configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an in-memory draft store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     TTL,
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(ctx context.Context, session string, input ui.FormInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[session] = memoryEntry{input: input, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, session string) (*ui.FormInput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[session]
	if !ok {
		return nil, nil
	}
	if s.now().After(e.expires) {
		delete(s.entries, session)
		return nil, nil
	}
	input := e.input
	return &input, nil
}

func (s *MemoryStore) Delete(ctx context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, session)
	return nil
}
