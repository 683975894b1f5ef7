package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-prep/internal/mocks"
)

type fakeQdrant struct {
	results []SearchResult
	docType string
	limit   int
}

func (f *fakeQdrant) InitCollection(ctx context.Context) error { return nil }

func (f *fakeQdrant) UpsertDocument(ctx context.Context, docID, docType, text string, embedding []float32) error {
	return nil
}

func (f *fakeQdrant) SearchSimilar(ctx context.Context, queryEmbedding []float32, docType string, limit int) ([]SearchResult, error) {
	f.docType = docType
	f.limit = limit
	return f.results, nil
}

func (f *fakeQdrant) DeleteDocument(ctx context.Context, docID string) error { return nil }

func TestRubricRetriever_Retrieve(t *testing.T) {
	embedder := new(mocks.MockEmbeddingService)
	embedder.On("GenerateEmbedding", mock.Anything, "query").Return([]float32{0.1, 0.2}, nil)

	qdrant := &fakeQdrant{results: []SearchResult{{Text: "Reward concrete metrics.", Score: 0.5}}}

	got, err := NewRubricRetriever(embedder, qdrant, 0).Retrieve(context.Background(), "query")

	require.NoError(t, err)
	assert.Equal(t, "--- Rubric 1 (Score: 0.50) ---\nReward concrete metrics.", got)
	assert.Equal(t, RubricDocType, qdrant.docType)
	assert.Equal(t, 3, qdrant.limit)
}

func TestRubricRetriever_EmbeddingError(t *testing.T) {
	embedder := new(mocks.MockEmbeddingService)
	embedder.On("GenerateEmbedding", mock.Anything, "query").Return(nil, errors.New("quota"))

	_, err := NewRubricRetriever(embedder, &fakeQdrant{}, 3).Retrieve(context.Background(), "query")

	assert.ErrorContains(t, err, "quota")
}
