package models

import (
	"time"
)

// FinalReport is the structured evaluation produced after the last answer.
type FinalReport struct {
	OverallScore        float64            `json:"overall_score"`
	Summary             string             `json:"summary"`
	Strengths           []string           `json:"strengths"`
	AreasForImprovement []string           `json:"areas_for_improvement"`
	QuestionFeedback    []QuestionFeedback `json:"question_feedback"`
	Recommendation      string             `json:"recommendation"`
}

type QuestionFeedback struct {
	Question string  `json:"question"`
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

func (r *FinalReport) Clone() *FinalReport {
	c := *r
	c.Strengths = append([]string(nil), r.Strengths...)
	c.AreasForImprovement = append([]string(nil), r.AreasForImprovement...)
	c.QuestionFeedback = append([]QuestionFeedback(nil), r.QuestionFeedback...)
	return &c
}

// InterviewReport is the archived copy of a completed interview's report.
// Only the outcome is stored; sessions themselves are never persisted.
type InterviewReport struct {
	SessionID     string    `gorm:"type:text;primary_key" json:"session_id"`
	QuestionCount int       `gorm:"not null" json:"question_count"`
	OverallScore  float64   `gorm:"type:decimal(4,2)" json:"overall_score"`
	Summary       string    `gorm:"type:text" json:"summary"`
	Report        string    `gorm:"type:jsonb" json:"-"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (InterviewReport) TableName() string {
	return "interview_reports"
}
