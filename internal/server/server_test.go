package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insightly/internal/config"
	"insightly/internal/core"
	"insightly/internal/export"
	"insightly/internal/insights"
	"insightly/internal/llm"
	"insightly/internal/session"
	"insightly/test/mocks"
)

const aiReply = `[{"title":"Agents Reach Production","summary":"Agents ship.","rationale":"Scale."},
{"title":"Multilingual Benchmarks Improve","summary":"Better evals.","rationale":"Locales."}]`

const pmReply = `[{"title":"Writing Strategy Docs","summary":"Be concrete."},
{"title":"Outcomes Over Output","summary":"Measure results."}]`

func newTestServer(t *testing.T, client *mocks.MockTextGenerator, cfg config.Server) *Server {
	t.Helper()
	gen := insights.NewGenerator(client, insights.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return New(gen, export.DefaultEmailOptions(), cfg)
}

func scriptedClient() *mocks.MockTextGenerator {
	return &mocks.MockTextGenerator{
		GenerateTextFunc: func(ctx context.Context, req llm.Request) (string, error) {
			if strings.Contains(req.Prompt, "AI insights") {
				return aiReply, nil
			}
			return pmReply, nil
		},
	}
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, s *Server) string {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	assert.Equal(t, -1, resp.CurrentIndex)
	return resp.ID
}

func validBody() GenerateRequest {
	return GenerateRequest{
		IssueDate: "2025-03-14",
		AITopics:  []string{"Generative AI / LLMs"},
		PMTopics:  []string{"Product Strategy"},
		AICount:   2,
		PMCount:   2,
	}
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) (int, string) {
	t.Helper()
	var resp struct {
		Error struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error.Status, resp.Error.Message
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, scriptedClient(), config.Server{})
	rec := do(t, s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestTopics(t *testing.T) {
	s := newTestServer(t, scriptedClient(), config.Server{})
	rec := do(t, s, http.MethodGet, "/api/topics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TopicsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, core.AITopics, resp.AI.Topics)
	assert.Equal(t, core.DefaultTopics(core.CategoryPM), resp.PM.Defaults)
	assert.Equal(t, 3, resp.MaxCount)
}

func TestGenerateListExportDelete(t *testing.T) {
	s := newTestServer(t, scriptedClient(), config.Server{})
	sid := createSession(t, s)
	base := "/api/sessions/" + sid

	rec := do(t, s, http.MethodPost, base+"/batches", validBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var batch core.InsightBatch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	assert.Len(t, batch.AIItems, 2)
	assert.Len(t, batch.PMItems, 2)
	assert.Equal(t, "2025-03-14", batch.IssueDate.Format("2006-01-02"))

	rec = do(t, s, http.MethodGet, base+"/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), batch.ID)

	rec = do(t, s, http.MethodGet, base+"/batches", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list BatchListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, 0, list.CurrentIndex)

	rec = do(t, s, http.MethodGet, base+"/batches/0/email?download=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "newsletter_email_March_14_2025.txt")
	for _, title := range []string{"Agents Reach Production", "Multilingual Benchmarks Improve", "Writing Strategy Docs", "Outcomes Over Output"} {
		assert.Contains(t, rec.Body.String(), title)
	}

	for _, format := range []string{"json", "markdown", "html"} {
		rec = do(t, s, http.MethodGet, base+"/batches/0/"+format, nil)
		assert.Equal(t, http.StatusOK, rec.Code, format)
		assert.Contains(t, rec.Body.String(), "Outcomes Over Output", format)
	}

	rec = do(t, s, http.MethodGet, base+"/batches/0/pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodDelete, base+"/batches/0", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, base+"/current", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerate_ValidationFailure(t *testing.T) {
	client := scriptedClient()
	s := newTestServer(t, client, config.Server{})
	sid := createSession(t, s)

	body := validBody()
	body.AICount = 7
	rec := do(t, s, http.MethodPost, "/api/sessions/"+sid+"/batches", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	status, msg := errorMessage(t, rec)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, msg, "ai_count")
	assert.Equal(t, 0, client.CallCount())
}

func TestGenerate_BadDate(t *testing.T) {
	s := newTestServer(t, scriptedClient(), config.Server{})
	sid := createSession(t, s)

	body := validBody()
	body.IssueDate = "14/03/2025"
	rec := do(t, s, http.MethodPost, "/api/sessions/"+sid+"/batches", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerate_ServiceFailureStoresNothing(t *testing.T) {
	client := &mocks.MockTextGenerator{
		GenerateTextFunc: func(ctx context.Context, req llm.Request) (string, error) {
			return "", llm.ErrRateLimited
		},
	}
	s := newTestServer(t, client, config.Server{})
	sid := createSession(t, s)

	rec := do(t, s, http.MethodPost, "/api/sessions/"+sid+"/batches", validBody())
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	st, err := s.Sessions().Get(sid)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Archive().Len())
}

func TestBatchNotFound(t *testing.T) {
	s := newTestServer(t, scriptedClient(), config.Server{})
	sid := createSession(t, s)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/sessions/" + sid + "/batches/0", http.StatusNotFound},
		{http.MethodDelete, "/api/sessions/" + sid + "/batches/3", http.StatusNotFound},
		{http.MethodGet, "/api/sessions/" + sid + "/batches/abc", http.StatusBadRequest},
		{http.MethodGet, "/api/sessions/unknown/batches", http.StatusNotFound},
		{http.MethodDelete, "/api/sessions/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := do(t, s, tt.method, tt.path, nil)
		if rec.Code != tt.status {
			t.Errorf("%s %s: Expected status %d, got %d", tt.method, tt.path, tt.status, rec.Code)
		}
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	s := newTestServer(t, scriptedClient(), config.Server{})
	a := createSession(t, s)
	b := createSession(t, s)

	rec := do(t, s, http.MethodPost, "/api/sessions/"+a+"/batches", validBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/sessions/"+b+"/batches", nil)
	var list BatchListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 0, list.Count)

	rec = do(t, s, http.MethodDelete, "/api/sessions/"+a, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, err := s.Sessions().Get(a)
	assert.True(t, errors.Is(err, session.ErrNoSession))
}

func TestRequireAPIKey(t *testing.T) {
	s := newTestServer(t, scriptedClient(), config.Server{APIKey: "secret"})

	rec := do(t, s, http.MethodGet, "/api/topics", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/topics", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// health stays open
	rec = do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
