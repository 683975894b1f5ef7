package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-prep/internal/models"
	"alfredoptarigan/interview-prep/internal/telemetry"
)

// ValidationPolicy decides what happens when the resume check itself fails.
type ValidationPolicy string

const (
	ValidationFailOpen   ValidationPolicy = "fail-open"
	ValidationFailClosed ValidationPolicy = "fail-closed"
	ValidationOff        ValidationPolicy = "off"
)

const DefaultTotalQuestions = 5

type InterviewOptions struct {
	TotalQuestions    int
	ResumeValidation  ValidationPolicy
	GenerationTimeout time.Duration

	// Optional collaborators; nil disables them.
	ResumeArchive ResumeArchive
	Reports       ReportSink
}

type InterviewService interface {
	CreateSession(ctx context.Context, data []byte, filename string) (*models.Session, error)
	SubmitAnswer(ctx context.Context, sessionID, currentQuestion, currentAnswer string) (*models.TurnResult, error)
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	TotalQuestions() int
}

type interviewService struct {
	store     SessionStore
	extractor ResumeExtractor
	generator InterviewGenerator
	opts      InterviewOptions
	locks     *keyedMutex
}

func NewInterviewService(
	store SessionStore,
	extractor ResumeExtractor,
	generator InterviewGenerator,
	opts InterviewOptions,
) InterviewService {
	if opts.TotalQuestions <= 0 {
		opts.TotalQuestions = DefaultTotalQuestions
	}
	if opts.ResumeValidation == "" {
		opts.ResumeValidation = ValidationFailOpen
	}
	return &interviewService{
		store:     store,
		extractor: extractor,
		generator: generator,
		opts:      opts,
		locks:     newKeyedMutex(),
	}
}

func (s *interviewService) TotalQuestions() int {
	return s.opts.TotalQuestions
}

// CreateSession extracts the resume, checks it, asks the first question and
// registers the new session.
func (s *interviewService) CreateSession(ctx context.Context, data []byte, filename string) (*models.Session, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, ErrNoFile
	}

	resumeText, err := s.extract(ctx, data, filename)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			return nil, err
		}
		log.Printf("❌ Failed to extract %s: %v\n", filename, err)
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	log.Printf("📄 Extracted %d characters from %s\n", len(resumeText), filename)

	if err := s.validateResume(ctx, resumeText); err != nil {
		return nil, err
	}

	firstQuestion, err := s.firstQuestion(ctx, resumeText)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	session := &models.Session{
		ID:         uuid.NewString(),
		ResumeText: resumeText,
		Questions:  []string{firstQuestion},
		Answers:    []string{},
	}

	if err := s.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Printf("✅ Session %s created\n", session.ID)

	if s.opts.ResumeArchive != nil {
		go s.archiveResume(context.WithoutCancel(ctx), session.ID, filename, data)
	}

	return session, nil
}

// SubmitAnswer records the answer first, then asks the next question or, once
// TotalQuestions answers exist, writes the final report.
//
// A failed generation leaves the session pending: the answer is kept and no
// question follows it. Resubmitting replaces that answer instead of appending
// a second one and recomputes the call from the stored history.
func (s *interviewService) SubmitAnswer(ctx context.Context, sessionID, currentQuestion, currentAnswer string) (*models.TurnResult, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	if locker, ok := s.store.(SessionLocker); ok {
		release, err := locker.Lock(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to lock session: %w", err)
		}
		defer release()
	}

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.Completed {
		return nil, ErrSessionCompleted
	}

	if session.Pending() {
		log.Printf("🔁 Session %s retrying turn %d\n", sessionID, len(session.Answers))
		session.Answers[len(session.Answers)-1] = currentAnswer
	} else {
		session.Answers = append(session.Answers, currentAnswer)
	}

	if err := s.store.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to record answer: %w", err)
	}

	questionNumber := len(session.Answers)

	if questionNumber >= s.opts.TotalQuestions {
		return s.finish(ctx, session)
	}

	asked := session.Questions[questionNumber-1]
	if q := strings.TrimSpace(currentQuestion); q != "" && q != strings.TrimSpace(asked) {
		log.Printf("⚠️  Session %s: client question differs from the stored one, using stored history\n", sessionID)
	}

	nextQuestion, err := s.nextQuestion(ctx, session, asked)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	session.Questions = append(session.Questions, nextQuestion)
	if err := s.store.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to record next question: %w", err)
	}

	return &models.TurnResult{
		QuestionCount: questionNumber,
		NextQuestion:  nextQuestion,
	}, nil
}

func (s *interviewService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	return s.store.Get(ctx, sessionID)
}

func (s *interviewService) finish(ctx context.Context, session *models.Session) (*models.TurnResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "generator.final_report",
		telemetry.AttrSessionID.String(session.ID),
		telemetry.AttrQuestionCount.Int(len(session.Answers)))
	tctx, cancel := s.withTimeout(ctx)
	report, err := s.generator.FinalReport(tctx, session.ResumeText, cloneStrings(session.Questions), cloneStrings(session.Answers))
	cancel()
	telemetry.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFinalReport, err)
	}

	session.Completed = true
	session.FinalReport = report
	if err := s.store.Update(ctx, session); err != nil {
		// The report is still returned; a lost update only means a resubmission
		// regenerates it.
		log.Printf("⚠️  Failed to mark session %s completed: %v\n", session.ID, err)
	}

	log.Printf("🏁 Session %s completed\n", session.ID)

	if s.opts.Reports != nil {
		if archived, err := toInterviewReport(session); err != nil {
			log.Printf("⚠️  Failed to encode report for %s: %v\n", session.ID, err)
		} else {
			s.opts.Reports.Enqueue(archived)
		}
	}

	return &models.TurnResult{
		QuestionCount: len(session.Answers),
		FinalReport:   report,
	}, nil
}

func (s *interviewService) extract(ctx context.Context, data []byte, filename string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "extractor.extract")
	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	text, err := s.extractor.Extract(tctx, data, filename)
	telemetry.EndSpan(span, err)
	return text, err
}

// validateResume applies the configured policy to the resume check. Only a
// definite "not a resume" verdict rejects under fail-open.
func (s *interviewService) validateResume(ctx context.Context, resumeText string) error {
	if s.opts.ResumeValidation == ValidationOff {
		return nil
	}

	ctx, span := telemetry.StartSpan(ctx, "generator.is_resume")
	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	isResume, err := s.generator.IsResume(tctx, resumeText)
	telemetry.EndSpan(span, err)

	if err != nil {
		if s.opts.ResumeValidation == ValidationFailClosed {
			log.Printf("❌ Resume validation failed, rejecting upload: %v\n", err)
			return ErrNotAResume
		}
		log.Printf("⚠️  Resume validation failed, proceeding anyway: %v\n", err)
		return nil
	}

	if !isResume {
		return ErrNotAResume
	}
	return nil
}

func (s *interviewService) firstQuestion(ctx context.Context, resumeText string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "generator.first_question")
	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	question, err := s.generator.FirstQuestion(tctx, resumeText)
	telemetry.EndSpan(span, err)
	return question, err
}

// nextQuestion passes the stored history: every question and answer before the
// current turn, then the turn itself.
func (s *interviewService) nextQuestion(ctx context.Context, session *models.Session, asked string) (string, error) {
	n := len(session.Answers)

	ctx, span := telemetry.StartSpan(ctx, "generator.next_question",
		telemetry.AttrSessionID.String(session.ID),
		telemetry.AttrQuestionCount.Int(n))
	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	question, err := s.generator.NextQuestion(tctx,
		session.ResumeText,
		cloneStrings(session.Questions[:n-1]),
		cloneStrings(session.Answers[:n-1]),
		asked,
		session.Answers[n-1],
	)
	telemetry.EndSpan(span, err)
	return question, err
}

func (s *interviewService) archiveResume(ctx context.Context, sessionID, filename string, data []byte) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	location, err := s.opts.ResumeArchive.Save(ctx, sessionID, filename, data)
	if err != nil {
		log.Printf("⚠️  Failed to archive resume for %s: %v\n", sessionID, err)
		return
	}
	log.Printf("💾 Resume for %s archived at %s\n", sessionID, location)
}

func (s *interviewService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.GenerationTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.GenerationTimeout)
}

func toInterviewReport(session *models.Session) (*models.InterviewReport, error) {
	raw, err := json.Marshal(session.FinalReport)
	if err != nil {
		return nil, err
	}
	return &models.InterviewReport{
		SessionID:     session.ID,
		QuestionCount: len(session.Answers),
		OverallScore:  session.FinalReport.OverallScore,
		Summary:       session.FinalReport.Summary,
		Report:        string(raw),
		CreatedAt:     time.Now(),
	}, nil
}

func cloneStrings(in []string) []string {
	return append([]string{}, in...)
}
