package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"alfredoptarigan/interview-prep/internal/models"
)

// InterviewGenerator produces questions and the final report. Every call is
// stateless: all context travels in the arguments.
type InterviewGenerator interface {
	FirstQuestion(ctx context.Context, resumeText string) (string, error)
	NextQuestion(ctx context.Context, resumeText string, previousQuestions, previousAnswers []string, currentQuestion, currentAnswer string) (string, error)
	FinalReport(ctx context.Context, resumeText string, questions, answers []string) (*models.FinalReport, error)
	IsResume(ctx context.Context, text string) (bool, error)
}

type interviewGenerator struct {
	llm           LLMService
	rubrics       RubricRetriever
	promptBuilder *PromptBuilder
	maxRetries    int
}

// NewInterviewGenerator builds a generator on top of llm. rubrics may be nil, in
// which case final reports are written without rubric context.
func NewInterviewGenerator(llm LLMService, rubrics RubricRetriever, totalQuestions, maxRetries int) InterviewGenerator {
	return &interviewGenerator{
		llm:           llm,
		rubrics:       rubrics,
		promptBuilder: NewPromptBuilder(totalQuestions),
		maxRetries:    maxRetries,
	}
}

func (g *interviewGenerator) FirstQuestion(ctx context.Context, resumeText string) (string, error) {
	prompt := g.promptBuilder.BuildFirstQuestionPrompt(resumeText)

	response, err := g.llm.GenerateTextWithRetry(ctx, prompt, 0.7, g.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to generate first question: %w", err)
	}

	return cleanQuestion(response)
}

func (g *interviewGenerator) NextQuestion(ctx context.Context, resumeText string, previousQuestions, previousAnswers []string, currentQuestion, currentAnswer string) (string, error) {
	prompt := g.promptBuilder.BuildNextQuestionPrompt(resumeText, previousQuestions, previousAnswers, currentQuestion, currentAnswer)

	log.Printf("📝 Next question prompt length: %d characters", len(prompt))

	response, err := g.llm.GenerateTextWithRetry(ctx, prompt, 0.7, g.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to generate next question: %w", err)
	}

	return cleanQuestion(response)
}

func (g *interviewGenerator) FinalReport(ctx context.Context, resumeText string, questions, answers []string) (*models.FinalReport, error) {
	rubricContext := ""
	if g.rubrics != nil {
		log.Println("🔍 Retrieving rubric context for final report...")
		found, err := g.rubrics.Retrieve(ctx, g.promptBuilder.BuildRubricQuery(resumeText))
		if err != nil {
			log.Printf("⚠️  Warning: Failed to retrieve rubric context: %v\n", err)
		} else {
			rubricContext = found
		}
	}

	prompt := g.promptBuilder.BuildFinalReportPrompt(resumeText, questions, answers, rubricContext)

	log.Printf("📝 Final report prompt length: %d characters", len(prompt))

	response, err := g.llm.GenerateTextWithRetry(ctx, prompt, 0.3, g.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate final report: %w", err)
	}

	var report models.FinalReport
	if err := parseJSONResponse(response, &report); err != nil {
		log.Printf("❌ Failed to parse final report response: %v", err)
		return nil, fmt.Errorf("failed to parse final report: %w", err)
	}

	return &report, nil
}

func (g *interviewGenerator) IsResume(ctx context.Context, text string) (bool, error) {
	prompt := g.promptBuilder.BuildResumeValidationPrompt(text)

	response, err := g.llm.GenerateText(ctx, prompt, 0)
	if err != nil {
		return false, fmt.Errorf("failed to validate resume: %w", err)
	}

	verdict := strings.ToUpper(strings.Trim(strings.TrimSpace(response), `."'*`))
	switch {
	case strings.HasPrefix(verdict, "YES"):
		return true, nil
	case strings.HasPrefix(verdict, "NO"):
		return false, nil
	default:
		return false, fmt.Errorf("ambiguous validation response: %q", response)
	}
}

// cleanQuestion strips quotes and labels models like to wrap around a question.
func cleanQuestion(response string) (string, error) {
	q := strings.TrimSpace(response)
	q = strings.Trim(q, "\"“”")
	if i := strings.Index(q, ":"); i > 0 && i < 15 && strings.HasPrefix(strings.ToLower(q), "question") {
		q = q[i+1:]
	}
	q = strings.TrimSpace(q)

	if q == "" {
		return "", fmt.Errorf("empty question in response")
	}
	return q, nil
}

func parseJSONResponse(response string, target interface{}) error {
	// Try to extract JSON from response (LLM might wrap it in markdown)
	jsonStr := extractJSON(response)

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w\nResponse: %s", err, response)
	}

	return nil
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
