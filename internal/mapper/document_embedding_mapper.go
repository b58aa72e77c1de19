package mapper

import (
	"github.com/pgvector/pgvector-go"

	"vytalcare-rag-be/internal/entity"
	"vytalcare-rag-be/internal/model"
)

type DocumentEmbeddingMapper struct{}

func NewDocumentEmbeddingMapper() *DocumentEmbeddingMapper {
	return &DocumentEmbeddingMapper{}
}

func (m *DocumentEmbeddingMapper) ToModel(e *entity.DocumentEmbedding) *model.DocumentEmbedding {
	return &model.DocumentEmbedding{
		Id:             e.Id,
		Collection:     e.Collection,
		Term:           e.Term,
		Title:          e.Title,
		Summary:        e.Summary,
		Url:            e.Url,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *DocumentEmbeddingMapper) ToEntity(mod *model.DocumentEmbedding) *entity.DocumentEmbedding {
	updatedAt := mod.UpdatedAt
	return &entity.DocumentEmbedding{
		Id:             mod.Id,
		Collection:     mod.Collection,
		Term:           mod.Term,
		Title:          mod.Title,
		Summary:        mod.Summary,
		Url:            mod.Url,
		EmbeddingValue: mod.EmbeddingValue.Slice(),
		CreatedAt:      mod.CreatedAt,
		UpdatedAt:      &updatedAt,
	}
}

func (m *DocumentEmbeddingMapper) ToRetrieved(mod *model.DocumentEmbedding) *entity.RetrievedDocument {
	return &entity.RetrievedDocument{
		Title:   mod.Title,
		Summary: mod.Summary,
		Url:     mod.Url,
	}
}
