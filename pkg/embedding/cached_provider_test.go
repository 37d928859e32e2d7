package embedding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls int
}

func (p *countingProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	p.calls++
	return newResponse([]float32{3, 4}), nil
}

func TestCachedProvider(t *testing.T) {
	inner := &countingProvider{}
	cp, err := NewCachedProvider(inner, time.Minute)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := cp.Generate(ctx, "average rent", TaskRetrievalQuery)
	require.NoError(t, err)
	cp.Wait()

	second, err := cp.Generate(ctx, "average rent", TaskRetrievalQuery)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)
	assert.InDeltaSlice(t, []float32{0.6, 0.8}, second.Embedding.Values, 1e-6)

	_, err = cp.Generate(ctx, "a chunk", TaskRetrievalDocument)
	require.NoError(t, err)
	_, err = cp.Generate(ctx, "a chunk", TaskRetrievalDocument)
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestNormalizeVector_Zero(t *testing.T) {
	assert.Equal(t, []float32{0, 0}, normalizeVector([]float32{0, 0}))
}
