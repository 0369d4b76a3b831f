package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pavelanni/schoolmatch/internal/catalog"
	appI18n "github.com/pavelanni/schoolmatch/internal/i18n"
	"github.com/pavelanni/schoolmatch/internal/match"
	"github.com/pavelanni/schoolmatch/internal/metrics"
	"github.com/pavelanni/schoolmatch/internal/model"
	"github.com/pavelanni/schoolmatch/internal/store"
	"github.com/pavelanni/schoolmatch/internal/wizard"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store     *store.Store
	catalog   *catalog.Catalog
	engine    *match.Engine
	validator *wizard.Validator
	config    model.MatchConfig
}

// New creates a new Handler.
func New(s *store.Store, c *catalog.Catalog, e *match.Engine, cfg model.MatchConfig) (*Handler, error) {
	return &Handler{store: s, catalog: c, engine: e, validator: wizard.NewValidator(), config: cfg}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/wizard/steps", h.handleListSteps)
		r.Post("/wizard/steps/{step}", h.handleValidateStep)
		r.Post("/matches", h.handleMatch)
		r.Post("/profiles", h.handleSubmitProfile)
		r.Get("/profiles/{id}", h.handleGetProfile)
		r.Get("/universities", h.handleListUniversities)
		r.Get("/professors", h.handleListProfessors)
	})
}

// Router builds the full middleware stack around the routes. A non-empty
// base path mounts everything under that prefix.
func (h *Handler) Router(lang string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(appI18n.Middleware(lang))

	basePath := normalizeBasePath(h.config.BasePath)
	if basePath != "" {
		r.Route(basePath, func(sub chi.Router) {
			sub.Use(basePathMiddleware(basePath))
			h.Routes(sub)
		})
	} else {
		h.Routes(r)
	}
	return r
}

func normalizeBasePath(p string) string {
	p = strings.TrimRight(p, "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func basePathMiddleware(basePath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(model.ContextWithBasePath(r.Context(), basePath)))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

type errorResponse struct {
	Error  string           `json:"error"`
	Step   wizard.Step      `json:"step,omitempty"`
	Fields []fieldErrorJSON `json:"errors,omitempty"`
}

type fieldErrorJSON struct {
	wizard.FieldError
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msgID string) {
	writeJSON(w, status, errorResponse{Error: appI18n.T(r.Context(), msgID)})
}

// decodeProfile reads the request body into a profile. It writes the error
// response itself and reports whether decoding succeeded.
func decodeProfile(w http.ResponseWriter, r *http.Request) (model.Profile, bool) {
	var p model.Profile
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&p); err != nil {
		slog.Debug("invalid request body", "error", err)
		writeError(w, r, http.StatusBadRequest, "InvalidJSON")
		return p, false
	}
	return p, true
}
