package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type DocumentEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Collection     string          `gorm:"type:varchar(64);not null;index"`
	Term           string          `gorm:"type:varchar(255);index"`
	Title          string          `gorm:"type:text"`
	Summary        string          `gorm:"type:text"`
	Url            string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

func (DocumentEmbedding) TableName() string {
	return "document_embeddings"
}
