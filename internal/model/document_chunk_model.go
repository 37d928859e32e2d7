package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type DocumentChunk struct {
	Id          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SessionId   string          `gorm:"type:varchar(128);not null;index"`
	Source      string          `gorm:"type:text;not null"`
	RowIndex    *int            `gorm:"column:row_index"`
	RecordIndex *int            `gorm:"column:record_index"`
	ChunkIndex  int             `gorm:"default:0"`
	Content     string          `gorm:"type:text;not null"`
	Embedding   pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
