package embedding

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
)

// CachedProvider memoizes embeddings for repeated queries. Only query-side
// embeddings are worth caching; document chunks are embedded once.
type CachedProvider struct {
	inner EmbeddingProvider
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewCachedProvider(inner EmbeddingProvider, ttl time.Duration) (*CachedProvider, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     32 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &CachedProvider{inner: inner, cache: cache, ttl: ttl}, nil
}

func (c *CachedProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	if taskType != TaskRetrievalQuery {
		return c.inner.Generate(ctx, text, taskType)
	}

	key := taskType + "\x00" + text
	if v, ok := c.cache.Get(key); ok {
		if res, ok := v.(*EmbeddingResponse); ok {
			return res, nil
		}
	}

	res, err := c.inner.Generate(ctx, text, taskType)
	if err != nil {
		return nil, err
	}
	c.cache.SetWithTTL(key, res, int64(len(res.Embedding.Values)*4), c.ttl)
	return res, nil
}

// Wait blocks until pending cache writes are applied.
func (c *CachedProvider) Wait() {
	c.cache.Wait()
}
