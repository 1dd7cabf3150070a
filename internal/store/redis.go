package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/seawatts/nugget-sub007/internal/models"
)

// RedisStore handles Redis operations for chat messages and sessions.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Client exposes the underlying client for middleware that needs raw
// Redis access (rate limiting).
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

// threadMessagesKey returns the key for a thread's message sorted set.
func threadMessagesKey(threadID string) string {
	return fmt.Sprintf("thread:%s:messages", threadID)
}

// sessionKey returns the key for a session token.
func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// AddMessage stores a message in a thread's sorted set, scored by its
// unix-millisecond timestamp.
func (s *RedisStore) AddMessage(ctx context.Context, msg *models.ChatMessage) error {
	// Generate ULID if not set
	if msg.ID == "" {
		msg.ID = ulid.Make().String()
	}

	// Set timestamp if not set
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.client.ZAdd(ctx, threadMessagesKey(msg.ThreadID), redis.Z{
		Score:  float64(msg.Timestamp),
		Member: string(data),
	}).Err()
}

// GetThreadMessages retrieves messages from a thread, newest first. A
// non-zero before bound is exclusive.
func (s *RedisStore) GetThreadMessages(ctx context.Context, threadID string, limit int, before int64) ([]models.ChatMessage, error) {
	key := threadMessagesKey(threadID)

	var maxScore string
	if before > 0 {
		maxScore = fmt.Sprintf("(%d", before) // exclusive
	} else {
		maxScore = "+inf"
	}

	// Get messages in reverse order (newest first)
	results, err := s.client.ZRevRangeByScore(ctx, key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   maxScore,
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, err
	}

	messages := make([]models.ChatMessage, 0, len(results))
	for _, data := range results {
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(data), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

// FirstMessage retrieves the oldest message in a thread, or nil if the
// thread has no messages.
func (s *RedisStore) FirstMessage(ctx context.Context, threadID string) (*models.ChatMessage, error) {
	results, err := s.client.ZRange(ctx, threadMessagesKey(threadID), 0, 0).Result()
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	var msg models.ChatMessage
	if err := json.Unmarshal([]byte(results[0]), &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// CreateSession stores a session token for a caregiver with a TTL.
func (s *RedisStore) CreateSession(ctx context.Context, token, caregiverID string, ttl time.Duration) error {
	return s.client.Set(ctx, sessionKey(token), caregiverID, ttl).Err()
}

// GetSession resolves a session token to a caregiver ID. Returns "" if
// the token is unknown or expired.
func (s *RedisStore) GetSession(ctx context.Context, token string) (string, error) {
	caregiverID, err := s.client.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return caregiverID, nil
}

// DeleteSession invalidates a session token.
func (s *RedisStore) DeleteSession(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}
