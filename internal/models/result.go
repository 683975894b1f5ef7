package models

import "time"

type UploadResumeResponse struct {
	SessionID     string `json:"session_id"`
	FirstQuestion string `json:"first_question"`
}

// SubmitAnswerRequest carries one turn. PreviousQuestions and PreviousAnswers are
// accepted for compatibility with older clients and ignored: history always comes
// from the stored session.
type SubmitAnswerRequest struct {
	SessionID         string   `json:"session_id"`
	CurrentQuestion   string   `json:"current_question"`
	CurrentAnswer     string   `json:"current_answer"`
	PreviousQuestions []string `json:"previous_questions,omitempty"`
	PreviousAnswers   []string `json:"previous_answers,omitempty"`
}

type NextQuestionResponse struct {
	NextQuestion  string `json:"next_question"`
	QuestionCount int    `json:"question_count"`
}

type FinalReportResponse struct {
	QuestionCount int          `json:"question_count"`
	FinalReport   *FinalReport `json:"final_report"`
}

// TurnResult is what a submitted answer produced: exactly one of NextQuestion or
// FinalReport is set.
type TurnResult struct {
	QuestionCount int
	NextQuestion  string
	FinalReport   *FinalReport
}

func (t *TurnResult) IsFinal() bool {
	return t.FinalReport != nil
}

type SessionResponse struct {
	SessionID       string       `json:"session_id"`
	QuestionCount   int          `json:"question_count"`
	TotalQuestions  int          `json:"total_questions"`
	CurrentQuestion string       `json:"current_question,omitempty"`
	Questions       []string     `json:"questions"`
	Answers         []string     `json:"answers"`
	Completed       bool         `json:"completed"`
	FinalReport     *FinalReport `json:"final_report,omitempty"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

type ReportResponse struct {
	SessionID     string       `json:"session_id"`
	QuestionCount int          `json:"question_count"`
	FinalReport   *FinalReport `json:"final_report"`
	CreatedAt     time.Time    `json:"created_at"`
}
