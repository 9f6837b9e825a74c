package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/boundarycoach/boundary-api/internal/app/generation"
	"github.com/boundarycoach/boundary-api/internal/domain"
	"github.com/boundarycoach/boundary-api/internal/observability"
	"github.com/boundarycoach/boundary-api/internal/render"
)

const userIDHeader = "X-User-ID"

type Options struct {
	// MaxSituationLength caps the situation text in runes.
	MaxSituationLength int
	RequestTimeout     time.Duration
}

type Server struct {
	svc    *generation.Service
	auth   domain.Authenticator
	maxLen int
}

func NewServer(svc *generation.Service, auth domain.Authenticator, opts Options) http.Handler {
	s := &Server{svc: svc, auth: auth, maxLen: opts.MaxSituationLength}
	if s.maxLen <= 0 {
		s.maxLen = 500
	}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /generations → POST: generate, GET: history
	mux.HandleFunc("/generations", s.handleGenerations)

	// /generations/{id} → GET: one record, DELETE: remove it
	mux.HandleFunc("/generations/", s.handleGenerationWithID)

	return chainMiddlewares(mux,
		withTimeout(opts.RequestTimeout),
		withLogging,
		withCORS,
		withRequestID,
	)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type generateRequest struct {
	UserInput string `json:"user_input"`
	// camelCase spelling used by the web client
	UserInputCamel string `json:"userInput"`
}

type generationData struct {
	ID        *string                 `json:"id"`
	UserInput string                  `json:"user_input"`
	Response  domain.BoundaryResponse `json:"response"`
	CreatedAt *time.Time              `json:"created_at,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// /generations
func (s *Server) handleGenerations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleGenerate(w, r)
	case http.MethodGet:
		s.handleList(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /generations/{id}
func (s *Server) handleGenerationWithID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/generations/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGet(w, r, domain.GenerationID(id))
	case http.MethodDelete:
		s.handleDelete(w, r, domain.GenerationID(id))
	default:
		methodNotAllowed(w)
	}
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	input := req.UserInput
	if input == "" {
		input = req.UserInputCamel
	}
	input = strings.TrimSpace(input)
	if input == "" {
		writeError(w, r, domain.ErrInvalidInput)
		return
	}
	if utf8.RuneCountInString(input) > s.maxLen {
		badRequest(w, fmt.Sprintf("User input must be at most %d characters", s.maxLen))
		return
	}

	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	out, err := s.svc.Generate(r.Context(), generation.GenerateInput{
		Situation: input,
		User:      user,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Data:    toGenerationData(out.Record, false),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	recs, err := s.svc.ListGenerations(r.Context(), user.ID, limit, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	data := make([]generationData, 0, len(recs))
	for _, rec := range recs {
		data = append(data, toGenerationData(rec, true))
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, Data: data})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request, id domain.GenerationID) {
	format := r.URL.Query().Get("format")
	switch format {
	case "", "json", "markdown", "md", "html":
	default:
		badRequest(w, "format must be json, markdown or html")
		return
	}

	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	rec, err := s.svc.GetGeneration(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	switch format {
	case "", "json":
		writeJSON(w, http.StatusOK, successResponse{Success: true, Data: toGenerationData(rec, true)})
	case "markdown", "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(render.Markdown(rec)))
	case "html":
		page, err := render.HTML(rec)
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page)
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, id domain.GenerationID) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if err := s.svc.DeleteGeneration(r.Context(), user.ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─────────────────────────────────────────────
// Auth
// ─────────────────────────────────────────────

// currentUser writes a 401 and returns false when nobody is signed in.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	if s.auth == nil {
		writeError(w, r, domain.ErrUnauthorized)
		return nil, false
	}
	user, err := s.auth.CurrentUser(r.Context(), credential(r))
	if err != nil {
		observability.LoggerFromContext(r.Context()).Warn("authentication failed", zap.Error(err))
		writeError(w, r, domain.ErrUnauthorized)
		return nil, false
	}
	if user == nil || user.ID == "" {
		writeError(w, r, domain.ErrUnauthorized)
		return nil, false
	}
	return user, true
}

// credential prefers a bearer token over the development user header.
func credential(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return r.Header.Get(userIDHeader)
}

// ─────────────────────────────────────────────
// Generation Helpers
// ─────────────────────────────────────────────

func toGenerationData(rec *domain.GenerationRecord, withCreatedAt bool) generationData {
	d := generationData{
		UserInput: rec.SituationInput,
		Response:  rec.Response,
	}
	if rec.ID != "" {
		id := string(rec.ID)
		d.ID = &id
	}
	if withCreatedAt && !rec.CreatedAt.IsZero() {
		at := rec.CreatedAt
		d.CreatedAt = &at
	}
	return d
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to a status code and a client-safe message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status int
		msg    string
	)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, msg = http.StatusBadRequest, "User input is required"
	case errors.Is(err, domain.ErrUnauthorized):
		status, msg = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, domain.ErrNotFound):
		status, msg = http.StatusNotFound, "Generation not found"
	case errors.Is(err, domain.ErrGeneration):
		status, msg = http.StatusInternalServerError, "Failed to generate boundary response"
	default:
		observability.LoggerFromContext(r.Context()).Error("request failed", zap.Error(err))
		status, msg = http.StatusInternalServerError, "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
