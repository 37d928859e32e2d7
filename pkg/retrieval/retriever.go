package retrieval

import (
	"context"
	"errors"
	"fmt"

	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/pkg/agent"
	"okada-agent-be/pkg/embedding"
)

var ErrNoSessionID = errors.New("retrieval requires a session id")

// ChunkSearcher is the slice of the document chunk repository the retriever needs.
type ChunkSearcher interface {
	SearchSimilar(ctx context.Context, sessionId string, embedding []float32, limit int) ([]*entity.ScoredDocumentChunk, error)
}

// Retriever embeds the query and looks up the closest chunks of one session.
type Retriever struct {
	embedder      embedding.EmbeddingProvider
	chunks        ChunkSearcher
	minSimilarity float64
	logger        logger.ILogger
}

func NewRetriever(embedder embedding.EmbeddingProvider, chunks ChunkSearcher, minSimilarity float64, log logger.ILogger) *Retriever {
	return &Retriever{
		embedder:      embedder,
		chunks:        chunks,
		minSimilarity: minSimilarity,
		logger:        log,
	}
}

func (r *Retriever) Retrieve(ctx context.Context, sessionID, query string, k int) ([]agent.Fragment, error) {
	if sessionID == "" {
		return nil, ErrNoSessionID
	}

	emb, err := r.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored, err := r.chunks.SearchSimilar(ctx, sessionID, emb.Embedding.Values, k)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}

	fragments := make([]agent.Fragment, 0, len(scored))
	for _, s := range scored {
		if s.Similarity < r.minSimilarity {
			continue
		}
		fragments = append(fragments, agent.Fragment{
			Text:   s.Chunk.Content,
			Source: s.Chunk.Source,
			Row:    s.Chunk.RowIndex,
			Record: s.Chunk.RecordIndex,
		})
	}

	r.logger.Debug("Retriever", "chunks retrieved", map[string]interface{}{
		"session_id": sessionID,
		"candidates": len(scored),
		"kept":       len(fragments),
	})
	return fragments, nil
}
