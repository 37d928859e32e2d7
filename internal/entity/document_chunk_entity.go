package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentChunk struct {
	Id          uuid.UUID
	SessionId   string
	Source      string
	RowIndex    *int
	RecordIndex *int
	ChunkIndex  int
	Content     string
	Embedding   []float32
	CreatedAt   time.Time
}

type ScoredDocumentChunk struct {
	Chunk      *DocumentChunk
	Similarity float64
}
