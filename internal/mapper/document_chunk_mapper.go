package mapper

import (
	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToEntity(c *model.DocumentChunk) *entity.DocumentChunk {
	if c == nil {
		return nil
	}
	return &entity.DocumentChunk{
		Id:          c.Id,
		SessionId:   c.SessionId,
		Source:      c.Source,
		RowIndex:    c.RowIndex,
		RecordIndex: c.RecordIndex,
		ChunkIndex:  c.ChunkIndex,
		Content:     c.Content,
		Embedding:   c.Embedding.Slice(),
		CreatedAt:   c.CreatedAt,
	}
}

func (m *DocumentChunkMapper) ToModel(c *entity.DocumentChunk) *model.DocumentChunk {
	if c == nil {
		return nil
	}
	return &model.DocumentChunk{
		Id:          c.Id,
		SessionId:   c.SessionId,
		Source:      c.Source,
		RowIndex:    c.RowIndex,
		RecordIndex: c.RecordIndex,
		ChunkIndex:  c.ChunkIndex,
		Content:     c.Content,
		Embedding:   pgvector.NewVector(c.Embedding),
		CreatedAt:   c.CreatedAt,
	}
}

func (m *DocumentChunkMapper) ToEntities(chunks []*model.DocumentChunk) []*entity.DocumentChunk {
	entities := make([]*entity.DocumentChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *DocumentChunkMapper) ToModels(chunks []*entity.DocumentChunk) []*model.DocumentChunk {
	models := make([]*model.DocumentChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}
