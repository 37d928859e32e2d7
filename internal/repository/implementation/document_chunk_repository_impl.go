package implementation

import (
	"context"
	"math"
	"sort"

	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/mapper"
	"okada-agent-be/internal/model"
	"okada-agent-be/internal/repository/contract"
	"okada-agent-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentChunkMapper
}

func NewDocumentChunkRepository(db *gorm.DB) contract.DocumentChunkRepository {
	return &DocumentChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentChunkMapper(),
	}
}

func (r *DocumentChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := r.mapper.ToModels(chunks)
	if err := r.db.WithContext(ctx).CreateInBatches(models, 100).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *DocumentChunkRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId string) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.DocumentChunk{}).Error
}

func (r *DocumentChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.DocumentChunk{}).Count(&count).Error
	return count, err
}

func (r *DocumentChunkRepositoryImpl) SearchSimilar(ctx context.Context, sessionId string, embedding []float32, limit int) ([]*entity.ScoredDocumentChunk, error) {
	if sessionId == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	if !isPostgres(r.db) {
		return r.searchInProcess(ctx, sessionId, embedding, limit)
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	type result struct {
		model.DocumentChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("session_id = ?", sessionId).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredDocumentChunk, len(results))
	for i := range results {
		scored[i] = &entity.ScoredDocumentChunk{
			Chunk:      r.mapper.ToEntity(&results[i].DocumentChunk),
			Similarity: results[i].Similarity,
		}
	}
	return scored, nil
}

// searchInProcess ranks a session's chunks in Go for databases without pgvector.
func (r *DocumentChunkRepositoryImpl) searchInProcess(ctx context.Context, sessionId string, embedding []float32, limit int) ([]*entity.ScoredDocumentChunk, error) {
	var models []*model.DocumentChunk
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionId).Find(&models).Error; err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredDocumentChunk, 0, len(models))
	for _, m := range models {
		scored = append(scored, &entity.ScoredDocumentChunk{
			Chunk:      r.mapper.ToEntity(m),
			Similarity: cosine(embedding, m.Embedding.Slice()),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
