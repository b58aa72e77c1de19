package implementation

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"vytalcare-rag-be/internal/apperror"
	"vytalcare-rag-be/internal/entity"
	"vytalcare-rag-be/internal/mapper"
	"vytalcare-rag-be/internal/model"
	"vytalcare-rag-be/internal/repository/contract"
)

type DocumentRepositoryImpl struct {
	db        *gorm.DB
	dimension int
	mapper    *mapper.DocumentEmbeddingMapper
}

func NewDocumentRepository(db *gorm.DB, dimension int) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		db:        db,
		dimension: dimension,
		mapper:    mapper.NewDocumentEmbeddingMapper(),
	}
}

// checkDimension guards the vector(768) column contract. A mismatch means
// the embedding model and the collection disagree, which is a deployment
// problem, not a retryable one.
func (r *DocumentRepositoryImpl) checkDimension(vector []float32) error {
	if len(vector) != r.dimension {
		return apperror.Config("embedding dimension mismatch: got %d, collection expects %d", len(vector), r.dimension)
	}
	return nil
}

func (r *DocumentRepositoryImpl) Upsert(ctx context.Context, doc *entity.DocumentEmbedding) error {
	if err := r.checkDimension(doc.EmbeddingValue); err != nil {
		return err
	}

	m := r.mapper.ToModel(doc)

	// Replace any previous version of the same document (same collection + url).
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if doc.Url != "" {
			if err := tx.Where("collection = ? AND url = ?", doc.Collection, doc.Url).
				Delete(&model.DocumentEmbedding{}).Error; err != nil {
				return err
			}
		}
		return tx.Create(m).Error
	})
	if err != nil {
		return apperror.Upstream("vector index upsert failed: %v", err)
	}

	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) SearchSimilar(ctx context.Context, collection string, vector []float32, topK int) ([]*entity.RetrievedDocument, error) {
	if err := r.checkDimension(vector); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = 4
	}

	var models []*model.DocumentEmbedding

	// pgvector cosine distance: embedding_value <=> query vector.
	err := r.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order(gorm.Expr("embedding_value <=> ?", pgvector.NewVector(vector))).
		Limit(topK).
		Find(&models).Error
	if err != nil {
		return nil, apperror.Upstream("vector search failed: %v", err)
	}

	docs := make([]*entity.RetrievedDocument, len(models))
	for i, m := range models {
		docs[i] = r.mapper.ToRetrieved(m)
	}
	return docs, nil
}

func (r *DocumentRepositoryImpl) CountByCollection(ctx context.Context, collection string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DocumentEmbedding{}).
		Where("collection = ?", collection).
		Count(&count).Error
	if err != nil {
		return 0, apperror.Upstream("vector index count failed: %v", err)
	}
	return count, nil
}
