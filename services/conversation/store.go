// File: services/conversation/store.go
package conversation

import (
	"context"
	"encoding/json"
	"time"

	"praxisagent/models"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "call:sess:"

// SessionStore maps a call id to its in-progress session. Absence of a key
// is not an error: it signals a new conversation and Get returns the
// initial session for the call.
type SessionStore interface {
	Get(ctx context.Context, callID string) (models.CallSession, error)
	Put(ctx context.Context, sess models.CallSession) error
	Delete(ctx context.Context, callID string) error
}

// RedisSessionStore keeps sessions in Redis with a TTL so abandoned calls
// expire instead of leaking.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, callID string) (models.CallSession, error) {
	key := sessionKeyPrefix + callID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return models.NewCallSession(callID), nil
	}
	if err != nil {
		return models.CallSession{}, err
	}
	var sess models.CallSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return models.CallSession{}, err
	}
	return sess, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, sess models.CallSession) error {
	key := sessionKeyPrefix + sess.CallID
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, callID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+callID).Err()
}
