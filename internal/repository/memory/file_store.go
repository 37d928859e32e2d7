package memory

import (
	"context"
	"time"

	"okada-agent-be/internal/repository/contract"
	"okada-agent-be/pkg/agent"

	"github.com/patrickmn/go-cache"
)

type FileStore struct {
	cache *cache.Cache
}

func NewFileStore(ttl time.Duration) contract.SessionFileStore {
	return &FileStore{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func fileKey(sessionId string) string {
	return "session:" + sessionId + ":file_info"
}

func (s *FileStore) GetSessionFileInfo(ctx context.Context, sessionId string) (*agent.FileInfo, error) {
	if x, found := s.cache.Get(fileKey(sessionId)); found {
		info := x.(agent.FileInfo)
		return &info, nil
	}
	return nil, nil
}

func (s *FileStore) SetSessionFileInfo(ctx context.Context, sessionId string, info agent.FileInfo) error {
	s.cache.Set(fileKey(sessionId), info, cache.DefaultExpiration)
	return nil
}

func (s *FileStore) DeleteSessionFileInfo(ctx context.Context, sessionId string) error {
	s.cache.Delete(fileKey(sessionId))
	return nil
}

// CachedFileStore puts a short lived read cache in front of another file
// store. Triage reads file info on every RAG turn.
type CachedFileStore struct {
	next  contract.SessionFileStore
	cache *cache.Cache
}

func NewCachedFileStore(next contract.SessionFileStore, ttl time.Duration) *CachedFileStore {
	return &CachedFileStore{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

type cachedFile struct {
	info *agent.FileInfo
}

func (s *CachedFileStore) GetSessionFileInfo(ctx context.Context, sessionId string) (*agent.FileInfo, error) {
	if x, found := s.cache.Get(sessionId); found {
		return x.(cachedFile).info, nil
	}
	info, err := s.next.GetSessionFileInfo(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	s.cache.Set(sessionId, cachedFile{info: info}, cache.DefaultExpiration)
	return info, nil
}

func (s *CachedFileStore) SetSessionFileInfo(ctx context.Context, sessionId string, info agent.FileInfo) error {
	s.cache.Delete(sessionId)
	return s.next.SetSessionFileInfo(ctx, sessionId, info)
}

func (s *CachedFileStore) DeleteSessionFileInfo(ctx context.Context, sessionId string) error {
	s.cache.Delete(sessionId)
	return s.next.DeleteSessionFileInfo(ctx, sessionId)
}
