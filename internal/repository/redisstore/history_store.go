package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"okada-agent-be/internal/repository/contract"
	"okada-agent-be/pkg/agent"

	"github.com/redis/go-redis/v9"
)

type HistoryStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewHistoryStore(client *redis.Client, ttl time.Duration) contract.SessionHistoryStore {
	return &HistoryStore{client: client, ttl: ttl}
}

func historyKey(sessionId string) string {
	return fmt.Sprintf("session:%s:messages", sessionId)
}

func (s *HistoryStore) Load(ctx context.Context, sessionId string) ([]agent.Message, error) {
	raw, err := s.client.LRange(ctx, historyKey(sessionId), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	messages := make([]agent.Message, 0, len(raw))
	for _, item := range raw {
		var m agent.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("decode history entry: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// Append pushes every message and refreshes the TTL inside one MULTI block,
// so concurrent turns never interleave half a turn.
func (s *HistoryStore) Append(ctx context.Context, sessionId string, messages ...agent.Message) error {
	if len(messages) == 0 {
		return nil
	}
	values := make([]interface{}, len(messages))
	for i, m := range messages {
		b, err := json.Marshal(m)
		if err != nil {
			return err
		}
		values[i] = b
	}

	key := historyKey(sessionId)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (s *HistoryStore) Clear(ctx context.Context, sessionId string) error {
	return s.client.Del(ctx, historyKey(sessionId)).Err()
}
