package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"vytalcare-rag-be/internal/apperror"
)

func TestEmbedWithoutKeyIsConfigError(t *testing.T) {
	p := NewGeminiProvider("")

	_, err := p.Embed(context.Background(), "some text", TaskRetrievalQuery)

	assert.True(t, apperror.IsConfig(err))
}

func TestEmbedRejectsEmptyText(t *testing.T) {
	p := NewGeminiProvider("key")

	_, err := p.Embed(context.Background(), "", TaskRetrievalDocument)

	assert.True(t, apperror.IsValidation(err))
}
