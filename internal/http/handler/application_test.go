package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"comesapi/internal/model"
	"comesapi/internal/repository/memory"
	"comesapi/internal/service"
	serviceMocks "comesapi/internal/service/mocks"
	"comesapi/internal/storage"
	storeMocks "comesapi/internal/storage/mocks"
)

// multipartBody builds a multipart request body with one small file per
// key, named key+ext.
func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	for key, filename := range files {
		fw, err := w.CreateFormFile(key, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("file content"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func allPDFs(keys ...string) map[string]string {
	files := make(map[string]string, len(keys))
	for _, key := range keys {
		files[key] = key + ".pdf"
	}
	return files
}

func TestUploadApplication(t *testing.T) {
	newApp := func(store storage.Storage) (*fiber.App, *memory.ApplicationMemory) {
		repo := memory.NewApplicationMemory()
		app := fiber.New()
		app.Post("/upload", UploadApplication(repo, store, zap.NewNop()))
		return app, repo
	}

	t.Run("success", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, nil).Times(4)

		app, repo := newApp(mStore)

		body, ct := multipartBody(t, nil, allPDFs(applicationRequiredFiles...))
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ct)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		got := decodeBody(t, resp)
		assert.Equal(t, "Files uploaded successfully", got["message"])
		assert.NotEmpty(t, got["application_id"])

		uploaded, ok := got["uploaded_files"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "resume.pdf", uploaded["resume"])

		nextStep, ok := got["next_step"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "/api/student-applications/analyze/"+got["application_id"].(string), nextStep["analyze"])

		records, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, model.StatusUploaded, records[0].Status)
		assert.Len(t, records[0].Files, 4)
		mStore.AssertExpectations(t)
	})

	t.Run("missing files", func(t *testing.T) {
		// The valid transcript is stored before the absent keys are noticed.
		mStore := new(storeMocks.MockStorage)
		mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, nil).Once()

		app, repo := newApp(mStore)

		// transcript present, everything else absent
		body, ct := multipartBody(t, nil, allPDFs("transcript"))
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "MISSING_FILES", payload.Error.Code)
		assert.Contains(t, payload.Error.Message, "degree_certificate")
		assert.Contains(t, payload.Error.Message, "resume")
		assert.Contains(t, payload.Error.Message, "ielts_score")
		assert.NotContains(t, payload.Error.Message, "transcript,")

		records, _ := repo.List(context.Background())
		assert.Empty(t, records)
	})

	t.Run("disallowed extension", func(t *testing.T) {
		// transcript and degree_certificate are stored before resume.exe
		// is rejected.
		mStore := new(storeMocks.MockStorage)
		mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, nil).Times(2)

		app, _ := newApp(mStore)

		files := allPDFs(applicationRequiredFiles...)
		files["resume"] = "resume.exe"
		body, ct := multipartBody(t, nil, files)
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "INVALID_FILE_TYPE", payload.Error.Code)
		assert.Contains(t, payload.Error.Message, "resume")
		assert.Contains(t, payload.Error.Message, "pdf")
	})

	t.Run("storage failure", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("disk full"))

		app, _ := newApp(mStore)

		body, ct := multipartBody(t, nil, allPDFs(applicationRequiredFiles...))
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "UPLOAD_FAILED", payload.Error.Code)
	})
}

// failingSaveRepo refuses to persist records once they reach the failed
// state, so the discarded-save logging path can be exercised.
type failingSaveRepo struct {
	*memory.ApplicationMemory
}

func (r *failingSaveRepo) Save(ctx context.Context, app *model.Application) (*model.Application, error) {
	if app.Status == model.StatusFailed {
		return nil, errors.New("store unavailable")
	}
	return r.ApplicationMemory.Save(ctx, app)
}

func seedApplication(t *testing.T, repo *memory.ApplicationMemory) *model.Application {
	t.Helper()
	app, err := repo.Create(context.Background(), &model.Application{
		ID:     "app-1",
		Files:  map[string]model.FileInfo{"resume": {Filename: "resume.pdf", StoragePath: "k.pdf"}},
		Status: model.StatusUploaded,
	})
	require.NoError(t, err)
	return app
}

func TestAnalyzeApplication(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := memory.NewApplicationMemory()
		seeded := seedApplication(t, repo)

		result := map[string]any{"applicant_info": map[string]any{"name": "李明"}}
		mockSvc := new(serviceMocks.MockDocumentAnalyzer)
		mockSvc.On("AnalyzeDocuments", mock.Anything, seeded.Files).Return(result, nil)
		mockSvc.On("GenerateStructuredSummary", result).Return("# 学生申请信息整理")

		app := fiber.New()
		app.Post("/analyze/:id", AnalyzeApplication(repo, mockSvc, zap.NewNop()))

		req := httptest.NewRequest(http.MethodPost, "/analyze/app-1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		got := decodeBody(t, resp)
		assert.Equal(t, "Analysis completed successfully", got["message"])
		assert.Equal(t, "app-1", got["application_id"])
		assert.Equal(t, "completed", got["status"])
		assert.Equal(t, "# 学生申请信息整理", got["analysis_summary"])

		stored, err := repo.FindByID(context.Background(), "app-1")
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, stored.Status)
		assert.Equal(t, result, stored.AnalysisResult)
		require.NotNil(t, stored.StructuredSummary)
		assert.Equal(t, "# 学生申请信息整理", *stored.StructuredSummary)
	})

	t.Run("not found", func(t *testing.T) {
		app := fiber.New()
		app.Post("/analyze/:id", AnalyzeApplication(memory.NewApplicationMemory(), new(serviceMocks.MockDocumentAnalyzer), zap.NewNop()))

		req := httptest.NewRequest(http.MethodPost, "/analyze/nope", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "NOT_FOUND", payload.Error.Code)
	})

	t.Run("failed-status save error is logged", func(t *testing.T) {
		repo := memory.NewApplicationMemory()
		seedApplication(t, repo)

		mockSvc := new(serviceMocks.MockDocumentAnalyzer)
		mockSvc.On("AnalyzeDocuments", mock.Anything, mock.Anything).
			Return(nil, errors.New("model unreachable"))

		core, logs := observer.New(zap.ErrorLevel)
		app := fiber.New()
		app.Post("/analyze/:id", AnalyzeApplication(&failingSaveRepo{repo}, mockSvc, zap.New(core)))

		req := httptest.NewRequest(http.MethodPost, "/analyze/app-1", nil)
		resp, _ := app.Test(req)

		// The response still reports the analysis failure.
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "ANALYSIS_FAILED", payload.Error.Code)

		assert.Equal(t, 1, logs.FilterMessage("recording failed analysis status failed").Len())
	})

	t.Run("analysis error marks record failed", func(t *testing.T) {
		repo := memory.NewApplicationMemory()
		seedApplication(t, repo)

		mockSvc := new(serviceMocks.MockDocumentAnalyzer)
		mockSvc.On("AnalyzeDocuments", mock.Anything, mock.Anything).
			Return(nil, errors.New("all transcript models failed"))

		app := fiber.New()
		app.Post("/analyze/:id", AnalyzeApplication(repo, mockSvc, zap.NewNop()))

		req := httptest.NewRequest(http.MethodPost, "/analyze/app-1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "ANALYSIS_FAILED", payload.Error.Code)

		stored, err := repo.FindByID(context.Background(), "app-1")
		require.NoError(t, err)
		assert.Equal(t, model.StatusFailed, stored.Status)
		require.NotNil(t, stored.ErrorMessage)
		assert.Contains(t, *stored.ErrorMessage, "all transcript models failed")
	})
}

func TestGetApplication(t *testing.T) {
	repo := memory.NewApplicationMemory()
	seedApplication(t, repo)

	app := fiber.New()
	app.Get("/:id", GetApplication(repo))

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/app-1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		got := decodeBody(t, resp)
		assert.Equal(t, "app-1", got["id"])
		assert.Equal(t, "uploaded", got["status"])
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListApplications(t *testing.T) {
	repo := memory.NewApplicationMemory()
	seedApplication(t, repo)

	app := fiber.New()
	app.Get("/", ListApplications(repo))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	got := decodeBody(t, resp)
	assert.Equal(t, float64(1), got["count"])
	apps, ok := got["applications"].([]any)
	require.True(t, ok)
	assert.Len(t, apps, 1)
}

func TestGetTemplate(t *testing.T) {
	app := fiber.New()
	app.Get("/template", GetTemplate())

	req := httptest.NewRequest(http.MethodGet, "/template", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	got := decodeBody(t, resp)
	tmpl, ok := got["template"].(string)
	require.True(t, ok)
	assert.Contains(t, tmpl, "# 申请信息梳理模板")
	assert.Contains(t, tmpl, "`[请填写]`")
	assert.Contains(t, tmpl, "### 推荐人 2")
	// The single-quote placeholders are all swapped for backticks.
	assert.NotContains(t, tmpl, "'[")
}

func TestHealthCheck(t *testing.T) {
	app := fiber.New()
	app.Get("/api/health", HealthCheck())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	got := decodeBody(t, resp)
	assert.Equal(t, "healthy", got["status"])
	assert.Equal(t, serviceName, got["service"])
	assert.Equal(t, serviceVersion, got["version"])
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIndex(t *testing.T) {
	app := fiber.New()
	app.Get("/", Index())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	got := decodeBody(t, resp)
	endpoints, ok := got["endpoints"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/api/health", endpoints["health"])
}

func TestErrorHandlerEntityTooLarge(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})
	app.Post("/upload", func(c *fiber.Ctx) error {
		return fiber.ErrRequestEntityTooLarge
	})

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	var payload errorPayload
	json.NewDecoder(resp.Body).Decode(&payload)
	assert.Equal(t, "FILE_TOO_LARGE", payload.Error.Code)
}

func TestBodyLimitRejectsOversizedRequest(t *testing.T) {
	app := fiber.New(fiber.Config{
		BodyLimit:    8,
		ErrorHandler: ErrorHandler(),
	})
	app.Post("/upload", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	// The embedded server drops an over-limit body before routing, so no
	// response is produced at all.
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("this body is longer than eight bytes"))
	resp, err := app.Test(req)
	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestRegisterRoutes(t *testing.T) {
	repo := memory.NewApplicationMemory()
	seedApplication(t, repo)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, Deps{
		Applications:  repo,
		Verifications: memory.NewVerificationMemory(),
		Analyzer:      service.UnavailableAnalyzer{},
		Verifier:      service.UnavailableVerifier{},
		Store:         new(storeMocks.MockStorage),
	})

	// /template must win over the :id parameter route.
	req := httptest.NewRequest(http.MethodGet, "/api/student-applications/template", nil)
	resp, _ := app.Test(req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody(t, resp)
	_, hasTemplate := got["template"]
	assert.True(t, hasTemplate)

	// as must /transcript.
	req = httptest.NewRequest(http.MethodGet, "/api/student-applications/transcript", nil)
	resp, _ = app.Test(req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got = decodeBody(t, resp)
	assert.Equal(t, float64(0), got["count"])

	req = httptest.NewRequest(http.MethodGet, "/api/student-applications/app-1", nil)
	resp, _ = app.Test(req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Unknown routes go through the standard error envelope.
	req = httptest.NewRequest(http.MethodGet, "/definitely-not-here", nil)
	resp, _ = app.Test(req)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var payload errorPayload
	json.NewDecoder(resp.Body).Decode(&payload)
	assert.Equal(t, "NOT_FOUND", payload.Error.Code)

	// Unavailable analyzer still completes; the error lives in the payload.
	req = httptest.NewRequest(http.MethodPost, "/api/student-applications/analyze/app-1", nil)
	resp, _ = app.Test(req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got = decodeBody(t, resp)
	summary, _ := got["analysis_summary"].(string)
	assert.True(t, strings.Contains(summary, "GOOGLE_GENAI_API_KEY"))
}
