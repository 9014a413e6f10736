package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultViewTTL = 2 * time.Hour

// SessionStore keeps quiz view sessions in Redis. Sessions are ephemeral:
// the TTL is refreshed on every write and expiry simply drops the view.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a Redis-backed view session store.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultViewTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) key(id uuid.UUID) string {
	return "quizview:" + id.String()
}

// Save writes the session record, refreshing its TTL.
func (s *SessionStore) Save(ctx context.Context, session *ViewSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal view session: %w", err)
	}
	return s.client.Set(ctx, s.key(session.SessionID), data, s.ttl).Err()
}

// Get returns the session record, or nil when expired/unknown.
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*ViewSession, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get view session: %w", err)
	}
	var session ViewSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal view session: %w", err)
	}
	return &session, nil
}
