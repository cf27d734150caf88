package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindtype/insights/internal/application"
	appai "github.com/mindtype/insights/internal/application/ai"
	appreports "github.com/mindtype/insights/internal/application/reports"
	"github.com/mindtype/insights/internal/application/assessment"
	"github.com/mindtype/insights/internal/infra/ai/mockai"
	mockauth "github.com/mindtype/insights/internal/infra/auth/mock"
	"github.com/mindtype/insights/internal/infra/kv"
)

func newTestHandler(t *testing.T, finalAfter int64) http.Handler {
	t.Helper()
	repo := kv.NewMemoryStore()
	gateway := appai.NewGateway(mockai.New(finalAfter))
	sessions := assessment.NewManager(time.Hour)
	t.Cleanup(sessions.Close)

	assessSvc := &assessment.Service{
		Gateway:  gateway,
		Sessions: sessions,
		Repo:     repo,
		Clock:    application.SystemClock{},
	}
	reportSvc := &appreports.Service{
		Repo:    repo,
		Gateway: gateway,
		Clock:   application.SystemClock{},
	}
	return NewRouter(assessSvc, reportSvc, mockauth.New(), Config{ClearHistoryOnLogout: true})
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
	}
	return rec
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()
	var creds struct {
		Token string `json:"token"`
		User  struct {
			UID string `json:"uid"`
		} `json:"user"`
	}
	rec := doJSON(t, h, http.MethodPost, "/v1/auth/login", "", map[string]string{"method": "google"}, &creds)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "mockGoogleUser123", creds.User.UID)
	return creds.Token
}

func TestRequiresToken(t *testing.T) {
	h := newTestHandler(t, 2)
	rec := doJSON(t, h, http.MethodGet, "/v1/reports", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/v1/reports", "bogus", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsUnknownMethod(t *testing.T) {
	h := newTestHandler(t, 2)
	rec := doJSON(t, h, http.MethodPost, "/v1/auth/login", "", map[string]string{"method": "github"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpointIsOpen(t *testing.T) {
	h := newTestHandler(t, 2)
	rec := doJSON(t, h, http.MethodGet, "/health", "", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

type sessionView struct {
	SessionID string `json:"session_id"`
	State     string `json:"state"`
	Turn      int    `json:"turn"`
	Step      *struct {
		Question string   `json:"question"`
		Choices  []string `json:"choices"`
	} `json:"step"`
	Report *map[string]any `json:"report"`
	Error  string          `json:"error"`
}

func TestQnAFlowEndToEnd(t *testing.T) {
	h := newTestHandler(t, 2)
	token := login(t, h)

	var view sessionView
	rec := doJSON(t, h, http.MethodPost, "/v1/qna/start", token, map[string]string{"language": "en"}, &view)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, view.SessionID)
	assert.Equal(t, "awaiting_answer", view.State)
	require.NotNil(t, view.Step)
	assert.Equal(t, "How do you recharge after a long day?", view.Step.Question)
	assert.Equal(t, []string{"Alone time", "With close friends", "A structured routine", "Physical activity"}, view.Step.Choices)

	id := view.SessionID
	rec = doJSON(t, h, http.MethodPost, "/v1/qna/"+id+"/answer", token, map[string]string{"answer": "Alone time"}, &view)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "awaiting_answer", view.State)
	assert.Equal(t, 1, view.Turn)

	rec = doJSON(t, h, http.MethodPost, "/v1/qna/"+id+"/answer", token, map[string]string{"answer": "Excitement"}, &view)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", view.State)
	require.NotNil(t, view.Report)
	assert.Equal(t, "INFJ", (*view.Report)["mbtiType"])
	assert.Equal(t, "en", (*view.Report)["language"])
	assert.NotEmpty(t, (*view.Report)["timestamp"])

	// completed sessions reject further answers
	rec = doJSON(t, h, http.MethodPost, "/v1/qna/"+id+"/answer", token, map[string]string{"answer": "x"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// polling still returns the final snapshot
	rec = doJSON(t, h, http.MethodGet, "/v1/qna/"+id, token, nil, &view)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", view.State)

	var list []map[string]any
	rec = doJSON(t, h, http.MethodGet, "/v1/reports", token, nil, &list)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, list, 1)
	assert.Equal(t, "INFJ", list[0]["mbtiType"])
}

func TestQnAUnknownSession(t *testing.T) {
	h := newTestHandler(t, 2)
	token := login(t, h)
	rec := doJSON(t, h, http.MethodPost, "/v1/qna/nope/answer", token, map[string]string{"answer": "x"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDescriptionAnalysis(t *testing.T) {
	h := newTestHandler(t, 2)
	token := login(t, h)

	var rep map[string]any
	rec := doJSON(t, h, http.MethodPost, "/v1/assess/description", token,
		map[string]string{"description": "I plan everything and recharge alone.", "language": "en"}, &rep)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "INFJ", rep["mbtiType"])
	assert.NotEmpty(t, rep["timestamp"])

	rec = doJSON(t, h, http.MethodPost, "/v1/assess/description", token,
		map[string]string{"description": "x", "language": "xx"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/v1/assess/description", token,
		map[string]string{"description": "  ", "language": "en"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportSectionEnrichment(t *testing.T) {
	h := newTestHandler(t, 2)
	token := login(t, h)

	var rep map[string]any
	rec := doJSON(t, h, http.MethodPost, "/v1/assess/description", token,
		map[string]string{"description": "I plan everything.", "language": "en"}, &rep)
	require.Equal(t, http.StatusOK, rec.Code)
	ts := rep["timestamp"].(string)

	var enriched map[string]any
	rec = doJSON(t, h, http.MethodPost, "/v1/reports/"+ts+"/sections", token,
		map[string]string{"section": "exploration", "language": "en"}, &enriched)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, enriched["detailedMbtiExploration"])

	// the stored copy was updated in place, not duplicated
	var list []map[string]any
	rec = doJSON(t, h, http.MethodGet, "/v1/reports", token, nil, &list)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, list, 1)
	assert.NotEmpty(t, list[0]["detailedMbtiExploration"])

	rec = doJSON(t, h, http.MethodPost, "/v1/reports/"+ts+"/sections", token,
		map[string]string{"section": "careers", "language": "en"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/v1/reports/unknown-ts/sections", token,
		map[string]string{"section": "exploration", "language": "en"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportWithoutArtifactStore(t *testing.T) {
	h := newTestHandler(t, 2)
	token := login(t, h)

	var rep map[string]any
	rec := doJSON(t, h, http.MethodPost, "/v1/assess/description", token,
		map[string]string{"description": "I plan everything.", "language": "en"}, &rep)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/v1/reports/"+rep["timestamp"].(string)+"/export", token,
		map[string]string{"language": "en"}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLogoutClearsHistoryAndRevokesToken(t *testing.T) {
	h := newTestHandler(t, 2)
	token := login(t, h)

	rec := doJSON(t, h, http.MethodPost, "/v1/assess/description", token,
		map[string]string{"description": "I plan everything.", "language": "en"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/v1/auth/logout", token, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/v1/reports", token, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// same identity logging back in starts with an empty history
	token = login(t, h)
	var list []map[string]any
	rec = doJSON(t, h, http.MethodGet, "/v1/reports", token, nil, &list)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, list)
}
