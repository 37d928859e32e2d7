package memory

import (
	"context"
	"sync"
	"time"

	"okada-agent-be/internal/repository/contract"
	"okada-agent-be/pkg/agent"

	"github.com/patrickmn/go-cache"
)

// HistoryStore is the in-process history store used when Redis is not
// configured. Entries expire after the configured TTL.
type HistoryStore struct {
	cache *cache.Cache
	mu    sync.Mutex
}

func NewHistoryStore(ttl time.Duration) contract.SessionHistoryStore {
	return &HistoryStore{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func historyKey(sessionId string) string {
	return "session:" + sessionId + ":messages"
}

func (s *HistoryStore) Load(ctx context.Context, sessionId string) ([]agent.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if x, found := s.cache.Get(historyKey(sessionId)); found {
		stored := x.([]agent.Message)
		return append([]agent.Message(nil), stored...), nil
	}
	return nil, nil
}

func (s *HistoryStore) Append(ctx context.Context, sessionId string, messages ...agent.Message) error {
	if len(messages) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var current []agent.Message
	if x, found := s.cache.Get(historyKey(sessionId)); found {
		current = x.([]agent.Message)
	}
	next := make([]agent.Message, 0, len(current)+len(messages))
	next = append(next, current...)
	next = append(next, messages...)
	s.cache.Set(historyKey(sessionId), next, cache.DefaultExpiration)
	return nil
}

func (s *HistoryStore) Clear(ctx context.Context, sessionId string) error {
	s.cache.Delete(historyKey(sessionId))
	return nil
}
