package services

import (
	"context"
	"fmt"
)

// RubricDocType is the payload doc_type rubric chunks are stored under.
const RubricDocType = "interview_rubric"

type RubricRetriever interface {
	Retrieve(ctx context.Context, query string) (string, error)
}

type rubricRetriever struct {
	embedder EmbeddingService
	qdrant   QdrantService
	limit    int
}

func NewRubricRetriever(embedder EmbeddingService, qdrant QdrantService, limit int) RubricRetriever {
	if limit <= 0 {
		limit = 3
	}
	return &rubricRetriever{
		embedder: embedder,
		qdrant:   qdrant,
		limit:    limit,
	}
}

// Retrieve implements RubricRetriever.
func (r *rubricRetriever) Retrieve(ctx context.Context, query string) (string, error) {
	embedding, err := r.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to generate query embedding: %w", err)
	}

	results, err := r.qdrant.SearchSimilar(ctx, embedding, RubricDocType, r.limit)
	if err != nil {
		return "", fmt.Errorf("failed to search rubrics: %w", err)
	}

	return FormatRAGContext(results), nil
}
