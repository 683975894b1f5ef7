package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicService struct {
	client     anthropic.Client
	modelName  string
	retryDelay time.Duration
}

func NewAnthropicService(apiKey, modelName string, retryDelay time.Duration) (LLMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}

	return &anthropicService{
		client:     anthropic.NewClient(anthropicoption.WithAPIKey(apiKey)),
		modelName:  modelName,
		retryDelay: retryDelay,
	}, nil
}

// GenerateText implements LLMService.
func (a *anthropicService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.modelName),
		MaxTokens:   maxOutputTokens,
		Temperature: anthropic.Float(float64(temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		log.Printf("❌ Anthropic API error: %v\n", err)
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	var textBuilder strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			textBuilder.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(textBuilder.String())
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}

// GenerateTextWithRetry implements LLMService.
func (a *anthropicService) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return generateWithRetry(ctx, maxRetries, a.retryDelay, func(ctx context.Context) (string, error) {
		return a.GenerateText(ctx, prompt, temperature)
	})
}
