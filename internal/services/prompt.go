package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct {
	totalQuestions int
}

func NewPromptBuilder(totalQuestions int) *PromptBuilder {
	return &PromptBuilder{totalQuestions: totalQuestions}
}

// BuildResumeValidationPrompt asks for a one-word verdict on whether the text is a resume.
func (pb *PromptBuilder) BuildResumeValidationPrompt(resumeText string) string {
	return fmt.Sprintf(`You are a document classifier. Decide whether the following document is a resume or CV.

A resume typically contains a person's name, contact details, skills, work experience, projects or education.
Grocery lists, articles, invoices, essays, code listings and similar documents are NOT resumes.

DOCUMENT:
%s

Answer with exactly one word: YES if the document is a resume or CV, NO otherwise.`,
		truncate(resumeText, 8000))
}

// BuildFirstQuestionPrompt creates the opening question prompt. Only the resume is known at this point.
func (pb *PromptBuilder) BuildFirstQuestionPrompt(resumeText string) string {
	return fmt.Sprintf(`You are an experienced technical interviewer conducting a mock interview with a candidate.
The interview has %d questions in total. This is question 1.

CANDIDATE RESUME:
%s

Ask the first interview question. It should be specific to the candidate's resume: pick a project,
role or skill they list and ask them to walk you through it.

Return ONLY the question text. No numbering, no preamble, no quotes.`,
		pb.totalQuestions, resumeText)
}

// BuildNextQuestionPrompt creates the follow-up prompt from the full transcript so far.
func (pb *PromptBuilder) BuildNextQuestionPrompt(resumeText string, previousQuestions, previousAnswers []string, currentQuestion, currentAnswer string) string {
	questionNumber := len(previousAnswers) + 2

	return fmt.Sprintf(`You are an experienced technical interviewer conducting a mock interview with a candidate.
The interview has %d questions in total. You are about to ask question %d.

CANDIDATE RESUME:
%s

EARLIER QUESTIONS AND ANSWERS:
%s

LATEST QUESTION:
%s

CANDIDATE'S LATEST ANSWER:
%s

Ask the next interview question. Build on the latest answer where it makes sense (dig deeper into
vague claims, ask about trade-offs, or move to another area of the resume). Do not repeat a question
that was already asked. Mix technical and behavioral questions across the interview.

Return ONLY the question text. No numbering, no preamble, no quotes.`,
		pb.totalQuestions, questionNumber, resumeText,
		FormatTranscript(previousQuestions, previousAnswers),
		currentQuestion, currentAnswer)
}

// BuildFinalReportPrompt creates the evaluation prompt. rubricContext may be empty.
func (pb *PromptBuilder) BuildFinalReportPrompt(resumeText string, questions, answers []string, rubricContext string) string {
	if strings.TrimSpace(rubricContext) == "" {
		rubricContext = "No rubric provided. Use general industry expectations for the candidate's seniority."
	}

	return fmt.Sprintf(`You are an expert hiring manager writing the final evaluation of a mock interview.

CANDIDATE RESUME:
%s

EVALUATION RUBRIC:
%s

INTERVIEW TRANSCRIPT:
%s

Evaluate every answer on a 1-10 scale for clarity, depth, technical accuracy and relevance to the
resume, then give an overall score.

Return your response in the following JSON format:
{
  "overall_score": <1-10>,
  "summary": "<3-5 sentences on overall performance>",
  "strengths": ["<strength>", ...],
  "areas_for_improvement": ["<area>", ...],
  "question_feedback": [
    {"question": "<question text>", "score": <1-10>, "feedback": "<1-3 sentences>"}
  ],
  "recommendation": "<Strong Hire / Hire / Maybe / No Hire>"
}

Be honest and constructive. Reference what the candidate actually said.`,
		resumeText, rubricContext, FormatTranscript(questions, answers))
}

// BuildRubricQuery creates the retrieval query used to find rubric chunks for a resume.
func (pb *PromptBuilder) BuildRubricQuery(resumeText string) string {
	return fmt.Sprintf("Interview evaluation criteria and scoring guidelines for this candidate profile: %s",
		truncate(resumeText, 2000))
}

// FormatTranscript pairs questions with answers. Questions without an answer are
// listed as unanswered.
func FormatTranscript(questions, answers []string) string {
	if len(questions) == 0 {
		return "None yet."
	}

	var parts []string
	for i, q := range questions {
		answer := "(no answer)"
		if i < len(answers) {
			answer = answers[i]
		}
		parts = append(parts, fmt.Sprintf("Q%d: %s\nA%d: %s", i+1, q, i+1, answer))
	}

	return strings.Join(parts, "\n\n")
}

// Helper to clean and format context from RAG results
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Rubric %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}

func truncate(text string, maxRunes int) string {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes])
}
