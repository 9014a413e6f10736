package quiz

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/imdat1/Course-Helper/internal/upstream"
)

const defaultCacheTTL = 5 * time.Minute

// Cache provides Redis-backed question list caching so reopening a quiz does
// not re-fetch the whole list from the backend.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a question list cache.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(courseID, fileID string) string {
	return "questions:" + courseID + ":" + fileID
}

// Get returns the cached question list, or nil on a miss.
func (c *Cache) Get(ctx context.Context, courseID, fileID string) ([]upstream.Question, error) {
	data, err := c.client.Get(ctx, c.key(courseID, fileID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var questions []upstream.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Set caches the question list.
func (c *Cache) Set(ctx context.Context, courseID, fileID string, questions []upstream.Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(courseID, fileID), data, c.ttl).Err()
}
