package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-prep/internal/handlers"
	"alfredoptarigan/interview-prep/internal/mocks"
	"alfredoptarigan/interview-prep/internal/models"
	"alfredoptarigan/interview-prep/internal/repositories"
	"alfredoptarigan/interview-prep/internal/services"
)

const resumeText = "Jane Doe. Go engineer. Experience at Acme. Education: BSc."

type testAPI struct {
	app       *fiber.App
	extractor *mocks.MockResumeExtractor
	generator *mocks.MockInterviewGenerator
}

func newTestAPI(t *testing.T, totalQuestions int, reportRepo repositories.ReportRepository) *testAPI {
	t.Helper()

	extractor := new(mocks.MockResumeExtractor)
	generator := new(mocks.MockInterviewGenerator)

	interview := services.NewInterviewService(
		services.NewMemorySessionStore(0, 0),
		extractor,
		generator,
		services.InterviewOptions{TotalQuestions: totalQuestions},
	)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	handlers.Register(app,
		handlers.NewInterviewHandler(interview, 1024),
		handlers.NewReportHandler(interview, reportRepo),
	)

	return &testAPI{app: app, extractor: extractor, generator: generator}
}

func (a *testAPI) do(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))

	return resp.StatusCode, body
}

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-resume", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func submitRequest(t *testing.T, payload map[string]any) *http.Request {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/submit-answer", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (a *testAPI) startSession(t *testing.T) string {
	t.Helper()

	a.extractor.On("Extract", mock.Anything, []byte("resume bytes"), "resume.pdf").Return(resumeText, nil)
	a.generator.On("IsResume", mock.Anything, resumeText).Return(true, nil)
	a.generator.On("FirstQuestion", mock.Anything, resumeText).Return("Tell me about Acme.", nil)

	status, body := a.do(t, uploadRequest(t, "file", "resume.pdf", []byte("resume bytes")))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Tell me about Acme.", body["first_question"])

	id, ok := body["session_id"].(string)
	require.True(t, ok)
	return id
}

func TestUploadResume_Success(t *testing.T) {
	api := newTestAPI(t, 5, nil)

	id := api.startSession(t)

	assert.NotEmpty(t, id)
	api.generator.AssertExpectations(t)
}

func TestUploadResume_MissingFile(t *testing.T) {
	api := newTestAPI(t, 5, nil)

	req := httptest.NewRequest(http.MethodPost, "/upload-resume", nil)
	status, body := api.do(t, req)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No file provided.", body["error"])
}

func TestUploadResume_WrongField(t *testing.T) {
	api := newTestAPI(t, 5, nil)

	status, body := api.do(t, uploadRequest(t, "resume", "resume.pdf", []byte("x")))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No file provided.", body["error"])
}

func TestUploadResume_TooLarge(t *testing.T) {
	api := newTestAPI(t, 5, nil)

	status, body := api.do(t, uploadRequest(t, "file", "resume.pdf", bytes.Repeat([]byte("a"), 2048)))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "File too large. Max size: 1024 bytes", body["error"])
	api.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadResume_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		extractErr error
		isResume   bool
		wantStatus int
		wantError  string
	}{
		{
			name:       "unsupported format",
			extractErr: &services.DocumentError{Reason: "Unsupported file format. Please upload a PDF or DOCX file."},
			wantStatus: http.StatusBadRequest,
			wantError:  "Unsupported file format. Please upload a PDF or DOCX file.",
		},
		{
			name:       "unreadable file",
			extractErr: errors.New("unexpected EOF"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to parse resume file.",
		},
		{
			name:       "not a resume",
			isResume:   false,
			wantStatus: http.StatusBadRequest,
			wantError:  services.ErrNotAResume.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, 5, nil)
			api.extractor.On("Extract", mock.Anything, mock.Anything, "resume.pdf").Return(resumeText, tt.extractErr)
			api.generator.On("IsResume", mock.Anything, resumeText).Return(tt.isResume, nil).Maybe()

			status, body := api.do(t, uploadRequest(t, "file", "resume.pdf", []byte("data")))

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantError, body["error"])
			api.generator.AssertNotCalled(t, "FirstQuestion", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitAnswer_FlowToFinalReport(t *testing.T) {
	api := newTestAPI(t, 2, nil)
	id := api.startSession(t)

	api.generator.On("NextQuestion", mock.Anything, resumeText, []string{}, []string{}, "Tell me about Acme.", "I built the billing service.").
		Return("How did you test it?", nil).Once()
	api.generator.On("FinalReport", mock.Anything, resumeText,
		[]string{"Tell me about Acme.", "How did you test it?"},
		[]string{"I built the billing service.", "Contract tests."},
	).Return(&models.FinalReport{OverallScore: 8, Summary: "Good."}, nil).Once()

	status, body := api.do(t, submitRequest(t, map[string]any{
		"session_id":       id,
		"current_question": "Tell me about Acme.",
		"current_answer":   "I built the billing service.",
	}))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "How did you test it?", body["next_question"])
	assert.Equal(t, float64(1), body["question_count"])

	status, body = api.do(t, submitRequest(t, map[string]any{
		"session_id":         id,
		"current_question":   "How did you test it?",
		"current_answer":     "Contract tests.",
		"previous_questions": []string{"ignored"},
		"previous_answers":   []string{"ignored"},
	}))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["question_count"])
	report, ok := body["final_report"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Good.", report["summary"])
	assert.NotContains(t, body, "next_question")

	status, body = api.do(t, submitRequest(t, map[string]any{
		"session_id":     id,
		"current_answer": "one more",
	}))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Interview already completed.", body["error"])

	req := httptest.NewRequest(http.MethodGet, "/reports/"+id, nil)
	status, body = api.do(t, req)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, id, body["session_id"])
}

func TestSubmitAnswer_UnknownSession(t *testing.T) {
	api := newTestAPI(t, 5, nil)

	status, body := api.do(t, submitRequest(t, map[string]any{
		"session_id":       "nope",
		"current_question": "Q",
		"current_answer":   "A",
	}))

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Session not found.", body["error"])
}

func TestSubmitAnswer_InvalidPayload(t *testing.T) {
	api := newTestAPI(t, 5, nil)

	req := httptest.NewRequest(http.MethodPost, "/submit-answer", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	status, body := api.do(t, req)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request payload", body["error"])
}

func TestSubmitAnswer_MissingSessionID(t *testing.T) {
	api := newTestAPI(t, 5, nil)

	payloads := []map[string]any{
		{"current_question": "Q", "current_answer": "A"},
		{"session_id": "   ", "current_question": "Q", "current_answer": "A"},
	}

	for _, payload := range payloads {
		status, body := api.do(t, submitRequest(t, payload))

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "session_id is required", body["error"])
	}
	api.generator.AssertNotCalled(t, "NextQuestion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitAnswer_GenerationError(t *testing.T) {
	api := newTestAPI(t, 5, nil)
	id := api.startSession(t)

	api.generator.On("NextQuestion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("model overloaded"))

	status, body := api.do(t, submitRequest(t, map[string]any{
		"session_id":     id,
		"current_answer": "answer",
	}))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body["error"], "AI API error")
	assert.Contains(t, body["error"], "model overloaded")
}

func TestGetSession(t *testing.T) {
	api := newTestAPI(t, 5, nil)
	id := api.startSession(t)

	status, body := api.do(t, httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["question_count"])
	assert.Equal(t, float64(5), body["total_questions"])
	assert.Equal(t, "Tell me about Acme.", body["current_question"])
	assert.Equal(t, false, body["completed"])

	status, _ = api.do(t, httptest.NewRequest(http.MethodGet, "/sessions/unknown", nil))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGetReport_NotCompleted(t *testing.T) {
	api := newTestAPI(t, 5, nil)
	id := api.startSession(t)

	status, body := api.do(t, httptest.NewRequest(http.MethodGet, "/reports/"+id, nil))

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Interview not completed yet.", body["error"])
}

func TestGetReport_FromArchive(t *testing.T) {
	repo := new(mocks.MockReportRepository)
	createdAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.On("FindBySessionID", "archived").Return(&models.InterviewReport{
		SessionID:     "archived",
		QuestionCount: 5,
		Report:        `{"overall_score": 6.5, "summary": "Archived."}`,
		CreatedAt:     createdAt,
	}, nil)
	repo.On("FindBySessionID", "missing").Return(nil, repositories.ErrReportNotFound)

	api := newTestAPI(t, 5, repo)

	status, body := api.do(t, httptest.NewRequest(http.MethodGet, "/reports/archived", nil))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(5), body["question_count"])
	report, ok := body["final_report"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Archived.", report["summary"])

	status, body = api.do(t, httptest.NewRequest(http.MethodGet, "/reports/missing", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Report not found.", body["error"])
}

func TestGetReport_ArchiveDisabled(t *testing.T) {
	api := newTestAPI(t, 5, nil)

	status, body := api.do(t, httptest.NewRequest(http.MethodGet, "/reports/whatever", nil))

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Report not found.", body["error"])
}

func TestHealthAndUnknownRoute(t *testing.T) {
	api := newTestAPI(t, 5, nil)

	status, body := api.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])

	status, body = api.do(t, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, float64(http.StatusNotFound), body["code"])
}
