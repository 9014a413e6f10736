package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Record is what the store keeps per session: the upstream bearer token plus
// the identity the backend reported at login.
type Record struct {
	UpstreamToken string `json:"upstream_token"`
	UserID        string `json:"user_id,omitempty"`
	Username      string `json:"username,omitempty"`
}

// Store keeps session records in Redis with a TTL; nothing survives the TTL
// and nothing is persisted anywhere else.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a Redis-backed session store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(id uuid.UUID) string {
	return "session:" + id.String()
}

// SetSession stores the record and returns the new session id.
func (s *Store) SetSession(ctx context.Context, rec Record) (uuid.UUID, error) {
	id := uuid.New()
	data, err := json.Marshal(rec)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return uuid.Nil, fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

// Get returns the record for a session id, or nil when expired/unknown.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &rec, nil
}

// Clear drops a session.
func (s *Store) Clear(ctx context.Context, id uuid.UUID) error {
	return s.client.Del(ctx, s.key(id)).Err()
}
