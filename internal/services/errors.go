package services

import "errors"

// Client errors.
var (
	ErrNoFile            = errors.New("No file provided.")
	ErrInvalidRequest    = errors.New("session_id is required")
	ErrUnsupportedFormat = errors.New("unsupported document")
	ErrNotAResume        = errors.New("The uploaded document does not appear to be a resume or CV. Please upload a valid resume (PDF or DOCX) containing your name, skills, experience, or education.")
	ErrSessionNotFound   = errors.New("Session not found.")
	ErrSessionCompleted  = errors.New("Interview already completed.")
)

// Collaborator errors. The wrapped message keeps the underlying detail.
var (
	ErrExtractionFailed = errors.New("Failed to parse resume file.")
	ErrGeneration       = errors.New("AI API error")
	ErrFinalReport      = errors.New("Final report error")
)
