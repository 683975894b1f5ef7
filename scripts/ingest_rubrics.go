package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/interview-prep/internal/config"
	"alfredoptarigan/interview-prep/internal/services"
)

// Usage: go run scripts/ingest_rubrics.go [rubric.pdf ...]
// Without arguments every PDF under RUBRIC_DIR (default ./rubrics) is ingested.
func main() {
	log.Println("🚀 Starting rubric ingestion...")

	cfg := config.Load()

	if cfg.Qdrant.URL == "" {
		log.Fatal("❌ QDRANT_URL is not set")
	}

	geminiService, err := services.NewGeminiService(cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel, cfg.Interview.RetryInitialDelay)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	ctx := context.Background()

	if err := qdrantService.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	paths, err := rubricPaths(os.Args[1:])
	if err != nil {
		log.Fatalf("❌ Failed to list rubrics: %v", err)
	}
	if len(paths) == 0 {
		log.Fatal("❌ No rubric PDFs found")
	}

	pdfParser := services.NewPDFParserService()
	chunker := services.NewTextChunker()

	successCount := 0
	failCount := 0

	for _, path := range paths {
		docID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		log.Printf("📄 Processing: %s (%s)", docID, path)

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("   ⚠️  Cannot read file, skipping: %v", err)
			failCount++
			continue
		}

		content, err := pdfParser.ExtractTextWithMetaData(data)
		if err != nil {
			log.Printf("   ❌ Failed to extract text: %v", err)
			failCount++
			continue
		}
		log.Printf("   ✅ Extracted %d pages, %d characters", content.PageCount, len(content.Text))

		chunks := chunker.ChunkText(content.Text, 1000, 200)
		log.Printf("   ✂️  Created %d chunks", len(chunks))

		if err := qdrantService.DeleteDocument(ctx, docID); err != nil {
			log.Printf("   ❌ Failed to clear previous chunks: %v", err)
			failCount++
			continue
		}

		stored := 0
		for i, chunk := range chunks {
			embedding, err := geminiService.GenerateEmbedding(ctx, chunk)
			if err != nil {
				log.Printf("   ❌ Failed to embed chunk %d: %v", i+1, err)
				continue
			}

			if err := qdrantService.UpsertDocument(ctx, docID, services.RubricDocType, chunk, embedding); err != nil {
				log.Printf("   ❌ Failed to store chunk %d: %v", i+1, err)
				continue
			}
			stored++
		}

		if stored < len(chunks) {
			log.Printf("   ⚠️  Stored %d/%d chunks", stored, len(chunks))
			failCount++
			continue
		}

		log.Printf("   ✅ Ingested %s", docID)
		successCount++
	}

	log.Println(strings.Repeat("=", 60))
	log.Printf("📊 Ingestion summary: %d succeeded, %d failed", successCount, failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		os.Exit(1)
	}
}

func rubricPaths(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	dir := os.Getenv("RUBRIC_DIR")
	if dir == "" {
		dir = "./rubrics"
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("invalid rubric directory %q: %w", dir, err)
	}
	return paths, nil
}
