package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// groqService talks to Groq through its OpenAI-compatible chat completions API.
type groqService struct {
	client     openai.Client
	modelName  string
	retryDelay time.Duration
}

func NewGroqService(apiKey, baseURL, modelName string, retryDelay time.Duration) (LLMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY is not set")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)

	return &groqService{
		client:     client,
		modelName:  modelName,
		retryDelay: retryDelay,
	}, nil
}

// GenerateText implements LLMService.
func (g *groqService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(float64(temperature)),
		MaxTokens:   openai.Int(maxOutputTokens),
	})
	if err != nil {
		log.Printf("❌ Groq API error: %v\n", err)
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}

// GenerateTextWithRetry implements LLMService.
func (g *groqService) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return generateWithRetry(ctx, maxRetries, g.retryDelay, func(ctx context.Context) (string, error) {
		return g.GenerateText(ctx, prompt, temperature)
	})
}
