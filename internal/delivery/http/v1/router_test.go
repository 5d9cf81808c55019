package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go-advisory-contact/config"
	v1 "go-advisory-contact/internal/delivery/http/v1"
	"go-advisory-contact/internal/domain"
	"go-advisory-contact/internal/repository/draftstore"
	"go-advisory-contact/internal/usecase"
	"go-advisory-contact/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryContactRepo struct {
	mu    sync.Mutex
	saved []domain.ContactSubmission
}

func (r *memoryContactRepo) Create(ctx context.Context, s *domain.ContactSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, *s)
	return nil
}

func (r *memoryContactRepo) GetByID(ctx context.Context, id string) (*domain.ContactSubmission, error) {
	return nil, domain.ErrDraftNotFound
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *memoryContactRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &memoryContactRepo{}
	backend := draftstore.NewMemoryStore("unused")
	cfg := &config.Config{
		AppPrefix:              "gfah",
		RateLimitWindowSeconds: 60,
		RateLimitContactLimit:  2,
		RateLimitGlobalLimit:   100,
		AllowedOrigins:         []string{"http://localhost:3000"},
	}

	router := v1.NewRouter(v1.RouterDeps{
		ContactUC: usecase.NewContactUsecase(repo, nil, validation.NewFormValidator(), nil),
		DraftUC: usecase.NewDraftUsecase(func(key string) domain.DraftStore {
			return backend.WithKey(key)
		}, cfg.DraftKey(), nil),
		HealthUC: usecase.NewHealthUsecase(map[string]usecase.HealthCheck{"database": nil}),
		Config:   cfg,
	})
	return router, repo
}

func do(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w, body
}

func jsonRequest(t *testing.T, method, path string, v interface{}) *http.Request {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.10:5555"
	return req
}

func TestSubmitContact(t *testing.T) {
	r, repo := newTestRouter(t)

	valid := map[string]interface{}{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@example.com",
		"phone":     "(555) 123-4567",
		"service":   "tax-planning",
		"message":   "Please call me about my taxes.",
		"timestamp": "2026-10-16T08:00:00Z",
	}

	t.Run("stores a valid submission", func(t *testing.T) {
		w, body := do(t, r, jsonRequest(t, http.MethodPost, "/v1/contact", valid))
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, body.Success)

		var saved domain.ContactSubmission
		require.NoError(t, json.Unmarshal(body.Data, &saved))
		assert.NotEmpty(t, saved.ID)
		assert.Equal(t, "tax-planning", saved.Service)
		assert.Len(t, repo.saved, 1)
	})

	t.Run("returns field errors", func(t *testing.T) {
		invalid := map[string]interface{}{"firstName": "Ada", "email": "nope"}
		w, body := do(t, r, jsonRequest(t, http.MethodPost, "/v1/contact", invalid))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, body.Success)
		assert.Equal(t, "Please correct the errors above", body.Message)

		var fieldErrs []domain.FieldError
		require.NoError(t, json.Unmarshal(body.Error, &fieldErrs))
		assert.Contains(t, fieldErrs, domain.FieldError{Field: domain.FieldEmail, Message: validation.MsgInvalidEmail})
		assert.Contains(t, fieldErrs, domain.FieldError{Field: domain.FieldLastName, Message: "Last name is required"})
	})

	t.Run("rate limits submissions per client", func(t *testing.T) {
		w, _ := do(t, r, jsonRequest(t, http.MethodPost, "/v1/contact", valid))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Len(t, repo.saved, 1)
	})
}

func TestListServices(t *testing.T) {
	r, _ := newTestRouter(t)

	w, body := do(t, r, httptest.NewRequest(http.MethodGet, "/v1/services", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var services []domain.Service
	require.NoError(t, json.Unmarshal(body.Data, &services))
	assert.Equal(t, domain.OfferedServices, services)
}

func TestDraftRoutes(t *testing.T) {
	r, _ := newTestRouter(t)
	path := "/v1/drafts/5b7f3c2e-8a49-4f5e-9d7e-2b1c0e6f4a10"

	w, _ := do(t, r, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	csrf := cookies[0]

	withCSRF := func(req *http.Request) *http.Request {
		req.AddCookie(csrf)
		req.Header.Set("X-CSRF-Token", csrf.Value)
		return req
	}

	draft := domain.Draft{FirstName: "Ada", Message: "Half written", Newsletter: true}

	w, _ = do(t, r, jsonRequest(t, http.MethodPut, path, draft))
	assert.Equal(t, http.StatusForbidden, w.Code, "mutations need the CSRF header")

	w, _ = do(t, r, withCSRF(jsonRequest(t, http.MethodPut, path, draft)))
	assert.Equal(t, http.StatusOK, w.Code)

	w, body := do(t, r, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var got domain.Draft
	require.NoError(t, json.Unmarshal(body.Data, &got))
	assert.Equal(t, draft, got)

	w, _ = do(t, r, withCSRF(httptest.NewRequest(http.MethodDelete, path, nil)))
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/v1/drafts/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	w, body := do(t, r, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":"disabled"}`, string(body.Data))
}
