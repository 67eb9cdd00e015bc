package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"marketlens/internal/mock"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "marketlens:session:"

// RedisStore keeps one JSON value per session. Update is a plain read then
// write with no WATCH, so overlapping updates resolve as last write wins.
type RedisStore struct {
	client   *redis.Client
	defaults mock.Defaults
	ttl      time.Duration
}

func NewRedisStore(client *redis.Client, defaults mock.Defaults, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:   client,
		defaults: defaults,
		ttl:      ttl,
	}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Dashboard, error) {
	raw, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewDashboard(s.defaults), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return decodeDashboard(raw, s.defaults)
}

func (s *RedisStore) Update(ctx context.Context, sessionID string, fn func(*Dashboard)) (*Dashboard, error) {
	d, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	fn(d)
	d.UpdatedAt = time.Now()

	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode session %s: %w", sessionID, err)
	}
	if err := s.client.Set(ctx, sessionKey(sessionID), raw, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return d, nil
}

func (s *RedisStore) Reset(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}

func decodeDashboard(raw []byte, defaults mock.Defaults) (*Dashboard, error) {
	d := NewDashboard(defaults)
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return d, nil
}
