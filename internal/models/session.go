package models

import "time"

// Session is one candidate's interview. Questions[0] is seeded at creation and
// every submitted turn appends to Answers.
type Session struct {
	ID          string       `json:"id"`
	ResumeText  string       `json:"resume_text"`
	Questions   []string     `json:"questions"`
	Answers     []string     `json:"answers"`
	Completed   bool         `json:"completed"`
	FinalReport *FinalReport `json:"final_report,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// QuestionCount is the number of answered turns.
func (s *Session) QuestionCount() int {
	return len(s.Answers)
}

// Pending reports whether the last recorded answer has no follow-up question yet,
// which happens when generation failed after the answer was stored.
func (s *Session) Pending() bool {
	return !s.Completed && len(s.Answers) > 0 && len(s.Answers) == len(s.Questions)
}

// CurrentQuestion returns the outstanding question, or "" once every question is answered.
func (s *Session) CurrentQuestion() string {
	if len(s.Questions) > len(s.Answers) {
		return s.Questions[len(s.Questions)-1]
	}
	return ""
}

// Clone returns a deep copy so store backends never share slices with callers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}

	c := *s
	c.Questions = append([]string(nil), s.Questions...)
	c.Answers = append([]string(nil), s.Answers...)
	if s.FinalReport != nil {
		c.FinalReport = s.FinalReport.Clone()
	}
	return &c
}
