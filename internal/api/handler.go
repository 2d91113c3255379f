// Package api provides the HTTP handlers for the planet generation
// service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/orbitlab/planetforge/internal/derive"
	"github.com/orbitlab/planetforge/internal/params"
	"github.com/orbitlab/planetforge/internal/session"
	"github.com/orbitlab/planetforge/internal/store"
)

// Handler serves the generation API. The audit store and audit
// directory are optional; a nil limiter disables rate limiting.
type Handler struct {
	source   params.Source
	engine   *derive.Engine
	store    store.Store
	auditDir string
	limiter  *rate.Limiter
}

// NewHandler creates an API handler.
func NewHandler(source params.Source, engine *derive.Engine, st store.Store, auditDir string, limiter *rate.Limiter) *Handler {
	if engine == nil {
		engine = derive.New()
	}
	return &Handler{
		source:   source,
		engine:   engine,
		store:    st,
		auditDir: auditDir,
		limiter:  limiter,
	}
}

// Routes returns the router with all routes configured.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// The front-end is served from arbitrary origins during development.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))
	r.Use(h.rateLimit)
	r.Use(h.jsonContentType)

	r.Get("/health", h.handleHealth)
	r.Get("/defaults", h.handleDefaults)
	r.Post("/generate", h.handleGenerate)
	r.Get("/sessions", h.handleListSessions)
	r.Get("/sessions/{id}", h.handleGetSession)

	return r
}

// rateLimit rejects requests above the configured token-bucket rate.
func (h *Handler) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.limiter != nil && !h.limiter.Allow() {
			h.writeError(w, http.StatusTooManyRequests, "rate limit exceeded", "rate_limited")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// jsonContentType sets Content-Type header to application/json.
func (h *Handler) jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// handleDefaults returns the base parameter document exactly as stored,
// for populating initial UI state.
func (h *Handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	base, err := h.source.Load()
	if err != nil {
		if errors.Is(err, params.ErrNotFound) {
			h.writeError(w, http.StatusInternalServerError, "base configuration not found", "config_not_found")
			return
		}
		zap.L().Error("load base parameters failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to load base configuration", "internal_error")
		return
	}
	h.writeJSON(w, http.StatusOK, base)
}

// handleGenerate accepts parameter overrides, merges them onto the base
// document, and returns the derived planet bundle.
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var overrides params.Overrides
	if err := json.NewDecoder(r.Body).Decode(&overrides); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	base, err := h.source.Load()
	if err != nil {
		if errors.Is(err, params.ErrNotFound) {
			h.writeError(w, http.StatusInternalServerError, "base configuration not found", "config_not_found")
			return
		}
		zap.L().Error("load base parameters failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to load base configuration", "internal_error")
		return
	}

	doc := base.Parameters.Apply(overrides)
	id := session.NewID()

	result, err := h.engine.Derive(doc)
	if err != nil {
		if errors.Is(err, derive.ErrZeroOrbitalDistance) || errors.Is(err, derive.ErrZeroRotationPeriod) {
			h.writeError(w, http.StatusBadRequest, err.Error(), "degenerate_input")
			return
		}
		zap.L().Error("derivation failed", zap.String("session_id", id), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "derivation failed", "internal_error")
		return
	}

	h.audit(r, id, doc, result)

	zap.L().Info("planet generated",
		zap.String("session_id", id),
		zap.Float64("gravity_g", doc.Physics.GravityG),
		zap.Float64("orbital_distance_au", doc.Stellar.OrbitalDistanceAU),
	)

	h.writeJSON(w, http.StatusOK, GenerateResponse{
		SessionID: id,
		Generated: result,
	})
}

// audit records the session to the configured sinks. Failures are
// logged and never fail the request.
func (h *Handler) audit(r *http.Request, id string, doc params.Document, result *derive.Result) {
	if h.auditDir != "" {
		path := filepath.Join(h.auditDir, "tmp_config_"+id+".json")
		if err := params.Save(params.Base{Parameters: doc}, path); err != nil {
			zap.L().Warn("audit config dump failed", zap.String("session_id", id), zap.Error(err))
		}
	}
	if h.store != nil {
		sess := store.Session{
			ID:         id,
			Parameters: doc,
			Result:     result,
			CreatedAt:  time.Now().UTC(),
		}
		if err := h.store.SaveSession(r.Context(), sess); err != nil {
			zap.L().Warn("audit store write failed", zap.String("session_id", id), zap.Error(err))
		}
	}
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.writeError(w, http.StatusServiceUnavailable, "audit store not configured", "store_unavailable")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeError(w, http.StatusBadRequest, "invalid limit", "bad_request")
			return
		}
		limit = n
	}

	sessions, err := h.store.ListSessions(r.Context(), limit)
	if err != nil {
		zap.L().Error("list sessions failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to list sessions", "internal_error")
		return
	}
	if sessions == nil {
		sessions = []store.Session{}
	}
	h.writeJSON(w, http.StatusOK, sessions)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.writeError(w, http.StatusServiceUnavailable, "audit store not configured", "store_unavailable")
		return
	}

	id := chi.URLParam(r, "id")
	sess, err := h.store.GetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "session not found", "not_found")
			return
		}
		zap.L().Error("get session failed", zap.String("session_id", id), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to load session", "internal_error")
		return
	}
	h.writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response failed", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, code string) {
	h.writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}
