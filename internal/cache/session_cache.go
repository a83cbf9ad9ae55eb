package cache

import (
	"context"
	"encoding/json"
	"time"

	"quizagent/internal/model"

	"github.com/redis/go-redis/v9"
)

// SessionCache is the fast path for session reads. Entries expire and are
// rebuilt from Mongo on the next load.
type SessionCache interface {
	Set(ctx context.Context, session *model.UserSession) error
	Get(ctx context.Context, userID string) (*model.UserSession, error)
	Delete(ctx context.Context, userID string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    time.Hour,
	}
}

func (c *sessionCache) key(userID string) string {
	return "session:" + userID
}

func (c *sessionCache) Set(ctx context.Context, session *model.UserSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(session.UserID), data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, userID string) (*model.UserSession, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.UserSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *sessionCache) Delete(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}
