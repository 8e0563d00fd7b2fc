package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mindfort-ai/bulwark/pkg/risk"
)

// keyPrefix namespaces conversation lists so Bulwark can share a Redis
// database with other tenants.
const keyPrefix = "bulwark:conv:"

// RedisStore keeps each conversation window in a Redis list trimmed to the
// window length, so instances behind a load balancer see the same history.
// Idle conversations expire after the configured TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis at addr. A zero TTL disables expiry.
func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

// Ping verifies connectivity. Call at startup so a bad address fails fast
// instead of on the first assessment.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("history: redis ping: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Append(ctx context.Context, conversationID string, entry risk.ConversationEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("history: encode entry: %w", err)
	}

	key := keyPrefix + conversationID
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.LTrim(ctx, key, -int64(risk.HistoryWindow), -1)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("history: append %s: %w", conversationID, err)
	}
	return nil
}

func (s *RedisStore) Window(ctx context.Context, conversationID string) ([]risk.ConversationEntry, error) {
	raw, err := s.client.LRange(ctx, keyPrefix+conversationID, -int64(risk.HistoryWindow), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("history: window %s: %w", conversationID, err)
	}

	out := make([]risk.ConversationEntry, 0, len(raw))
	for _, item := range raw {
		var entry risk.ConversationEntry
		if json.Unmarshal([]byte(item), &entry) != nil {
			// Entries that no longer decode are dropped rather than
			// failing the whole window.
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *RedisStore) Clear(ctx context.Context, conversationID string) error {
	if err := s.client.Del(ctx, keyPrefix+conversationID).Err(); err != nil {
		return fmt.Errorf("history: clear %s: %w", conversationID, err)
	}
	return nil
}
