package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"okada-agent-be/internal/repository/contract"
	"okada-agent-be/pkg/agent"

	"github.com/redis/go-redis/v9"
)

type FileStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFileStore(client *redis.Client, ttl time.Duration) contract.SessionFileStore {
	return &FileStore{client: client, ttl: ttl}
}

func fileKey(sessionId string) string {
	return fmt.Sprintf("session:%s:file_info", sessionId)
}

func (s *FileStore) GetSessionFileInfo(ctx context.Context, sessionId string) (*agent.FileInfo, error) {
	raw, err := s.client.Get(ctx, fileKey(sessionId)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get file info: %w", err)
	}

	var info agent.FileInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("decode file info: %w", err)
	}
	return &info, nil
}

func (s *FileStore) SetSessionFileInfo(ctx context.Context, sessionId string, info agent.FileInfo) error {
	b, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, fileKey(sessionId), b, s.ttl).Err()
}

func (s *FileStore) DeleteSessionFileInfo(ctx context.Context, sessionId string) error {
	return s.client.Del(ctx, fileKey(sessionId)).Err()
}
