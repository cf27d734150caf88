package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appreports "github.com/mindtype/insights/internal/application/reports"
	"github.com/mindtype/insights/internal/application/assessment"
	domai "github.com/mindtype/insights/internal/domain/ai"
	"github.com/mindtype/insights/internal/domain/auth"
	domreports "github.com/mindtype/insights/internal/domain/reports"
	"github.com/mindtype/insights/internal/middleware"
)

// Config carries the router's cross-cutting knobs.
type Config struct {
	ClearHistoryOnLogout bool
	CORSOrigins          []string
	RateLimiter          *middleware.RateLimiter
	Health               map[string]middleware.HealthChecker
}

type Router struct {
	assessSvc     *assessment.Service
	reportSvc     *appreports.Service
	authProvider  auth.Provider
	clearOnLogout bool
}

func NewRouter(assessSvc *assessment.Service, reportSvc *appreports.Service, provider auth.Provider, cfg Config) http.Handler {
	r := &Router{
		assessSvc:     assessSvc,
		reportSvc:     reportSvc,
		authProvider:  provider,
		clearOnLogout: cfg.ClearHistoryOnLogout,
	}
	mux := chi.NewRouter()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.BearerAuth(provider))
	if cfg.RateLimiter != nil {
		mux.Use(cfg.RateLimiter.Middleware)
	}

	mux.Get("/health", middleware.HealthHandler(cfg.Health))
	mux.Get("/metrics", middleware.MetricsHandler())

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/auth/login", r.wrap(r.handleLogin))
		rt.Post("/auth/logout", r.wrap(r.handleLogout))

		rt.Post("/assess/description", r.wrap(r.handleDescription))

		rt.Post("/qna/start", r.wrap(r.handleQnAStart))
		rt.Get("/qna/{id}", r.wrap(r.handleQnAGet))
		rt.Post("/qna/{id}/answer", r.wrap(r.handleQnAAnswer))

		rt.Get("/reports", r.wrap(r.handleReportsList))
		rt.Post("/reports/{timestamp}/sections", r.wrap(r.handleReportSection))
		rt.Post("/reports/{timestamp}/export", r.wrap(r.handleReportExport))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		case errors.Is(err, middleware.ErrUserInputInvalid):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, assessment.ErrSessionNotFound),
			errors.Is(err, domreports.ErrNotFound),
			errors.Is(err, sql.ErrNoRows):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, assessment.ErrSessionBusy),
			errors.Is(err, assessment.ErrSessionFinished):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, domai.ErrQuotaExceeded):
			http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
		case errors.Is(err, domai.ErrUpstreamFailure),
			errors.Is(err, domai.ErrEmptyResponse),
			errors.Is(err, domai.ErrMalformedResponse):
			http.Error(w, err.Error(), http.StatusBadGateway)
		case errors.Is(err, domai.ErrConfigurationMissing):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

func userFrom(req *http.Request) (*auth.User, error) {
	user := middleware.UserFrom(req.Context())
	if user == nil {
		return nil, auth.ErrInvalidToken
	}
	return user, nil
}

// POST /v1/auth/login
// Body: {"method": "google"|"email"|"none", "email": "...", "password": "..."}
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Method   string `json:"method"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if err := middleware.ValidateLoginMethod(body.Method); err != nil {
		return err
	}

	creds, err := r.authProvider.Login(req.Context(), auth.Method(body.Method), body.Email, body.Password)
	if err != nil {
		return err
	}
	return writeJSON(w, creds)
}

// POST /v1/auth/logout
func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) error {
	user, err := userFrom(req)
	if err != nil {
		return err
	}
	token := strings.TrimSpace(strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer "))
	if err := r.authProvider.Logout(req.Context(), token); err != nil {
		return err
	}
	if r.clearOnLogout {
		if err := r.reportSvc.Clear(req.Context(), user.UID); err != nil {
			return err
		}
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// POST /v1/assess/description
// Body: {"description": "...", "language": "en"}
func (r *Router) handleDescription(w http.ResponseWriter, req *http.Request) error {
	user, err := userFrom(req)
	if err != nil {
		return err
	}
	var body struct {
		Description string `json:"description"`
		Language    string `json:"language"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if err := middleware.ValidateLanguage(body.Language); err != nil {
		return err
	}
	if err := middleware.ValidateDescription(body.Description); err != nil {
		return err
	}

	rep, err := r.assessSvc.AnalyzeDescription(req.Context(), user.UID, body.Description, body.Language)
	if err != nil {
		return err
	}
	middleware.IncrementReportsSaved()
	return writeJSON(w, rep)
}

// POST /v1/qna/start
// Body: {"language": "en", "description": "optional"}
func (r *Router) handleQnAStart(w http.ResponseWriter, req *http.Request) error {
	user, err := userFrom(req)
	if err != nil {
		return err
	}
	var body struct {
		Language    string `json:"language"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if err := middleware.ValidateLanguage(body.Language); err != nil {
		return err
	}
	if err := middleware.ValidateOptionalDescription(body.Description); err != nil {
		return err
	}

	middleware.IncrementSessionsStarted()
	view, err := r.assessSvc.StartSession(req.Context(), user.UID, body.Language, body.Description)
	if err != nil {
		middleware.IncrementSessionsFailed()
		return err
	}
	return writeJSON(w, view)
}

// GET /v1/qna/{id}
func (r *Router) handleQnAGet(w http.ResponseWriter, req *http.Request) error {
	user, err := userFrom(req)
	if err != nil {
		return err
	}
	view, err := r.assessSvc.GetSession(user.UID, chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return writeJSON(w, view)
}

// POST /v1/qna/{id}/answer
// Body: {"answer": "..."}
func (r *Router) handleQnAAnswer(w http.ResponseWriter, req *http.Request) error {
	user, err := userFrom(req)
	if err != nil {
		return err
	}
	var body struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if err := middleware.ValidateAnswer(body.Answer); err != nil {
		return err
	}

	view, err := r.assessSvc.SubmitAnswer(req.Context(), user.UID, chi.URLParam(req, "id"), body.Answer)
	if err != nil {
		if !errors.Is(err, assessment.ErrSessionBusy) && !errors.Is(err, assessment.ErrSessionFinished) {
			middleware.IncrementSessionsFailed()
		}
		return err
	}
	if view.State == assessment.StateCompleted {
		middleware.IncrementSessionsCompleted()
		middleware.IncrementReportsSaved()
	}
	return writeJSON(w, view)
}

// GET /v1/reports
func (r *Router) handleReportsList(w http.ResponseWriter, req *http.Request) error {
	user, err := userFrom(req)
	if err != nil {
		return err
	}
	list, err := r.reportSvc.List(req.Context(), user.UID)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domreports.Report{}
	}
	return writeJSON(w, list)
}

// POST /v1/reports/{timestamp}/sections
// Body: {"section": "exploration"|"strategies", "language": "en"}
func (r *Router) handleReportSection(w http.ResponseWriter, req *http.Request) error {
	user, err := userFrom(req)
	if err != nil {
		return err
	}
	var body struct {
		Section  string `json:"section"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if err := middleware.ValidateSection(body.Section); err != nil {
		return err
	}

	rep, err := r.reportSvc.EnrichSection(req.Context(), user.UID,
		chi.URLParam(req, "timestamp"), body.Language, appreports.Section(body.Section))
	if err != nil {
		return err
	}
	return writeJSON(w, rep)
}

// POST /v1/reports/{timestamp}/export
// Body: {"language": "en"}
func (r *Router) handleReportExport(w http.ResponseWriter, req *http.Request) error {
	user, err := userFrom(req)
	if err != nil {
		return err
	}
	var body struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}

	url, err := r.reportSvc.Export(req.Context(), user.UID, chi.URLParam(req, "timestamp"), body.Language)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]string{"artifact_url": url})
}
