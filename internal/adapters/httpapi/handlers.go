package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ardika/judol-filter/internal/core"
)

// Classifier is the slice of the pipeline the HTTP layer consumes.
type Classifier interface {
	Classify(ctx context.Context, rawText string) (core.ClassificationResult, error)
	LookupKeyword(keyword string) (core.ClassificationResult, bool)
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	Comment string `json:"comment"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Handler serves the classification API.
type Handler struct {
	classifier Classifier
	logger     *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(classifier Classifier, logger *zap.Logger) *Handler {
	return &Handler{
		classifier: classifier,
		logger:     logger,
	}
}

// Analyze handles POST /analyze. On success the response body is the
// bare "S,K,C" triplet; failures carry a JSON error with a status that
// separates client-input problems from upstream ones.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_json", "request body must be JSON with a comment field")
		return
	}

	result, err := h.classifier.Classify(r.Context(), req.Comment)
	if err != nil {
		h.classifyError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(result.Triplet()))
}

// CacheLookup handles GET /cache/{keyword}: a read-only diagnostic that
// reports whether a learned entry's normalized keyword matches. It never
// mutates cache state or spends a provider call.
func (h *Handler) CacheLookup(w http.ResponseWriter, r *http.Request) {
	keyword := chi.URLParam(r, "keyword")

	result, ok := h.classifier.LookupKeyword(keyword)
	if !ok {
		h.writeError(w, http.StatusNotFound, "not_found", "no cache entry for keyword")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// Health handles GET /health. Liveness only; does not exercise the
// pipeline.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// classifyError maps pipeline failures onto HTTP statuses: validation
// problems are the client's fault, everything else is an upstream
// dependency failing. A provider failure is deliberately never masked as
// a "not spam" default.
func (h *Handler) classifyError(w http.ResponseWriter, err error) {
	var validationErr *core.ValidationError
	if errors.As(err, &validationErr) {
		kind := "invalid_input"
		switch {
		case errors.Is(err, core.ErrEmptyInput):
			kind = "empty_input"
		case errors.Is(err, core.ErrInputTooLong):
			kind = "input_too_long"
		}
		h.writeError(w, http.StatusBadRequest, kind, validationErr.Error())
		return
	}

	var parseErr *core.ParseError
	if errors.As(err, &parseErr) {
		h.logger.Error("provider returned malformed classification", zap.Error(err))
		h.writeError(w, http.StatusBadGateway, "malformed_provider_response", "provider response violated the classification contract")
		return
	}

	var exhaustedErr *core.ProviderExhaustedError
	if errors.As(err, &exhaustedErr) {
		h.logger.Error("provider exhausted", zap.Error(err))
		h.writeError(w, http.StatusBadGateway, "provider_exhausted", "classification provider unavailable, retry later")
		return
	}

	var provErr *core.ProviderError
	if errors.As(err, &provErr) {
		h.logger.Error("provider failure", zap.Error(err))
		h.writeError(w, http.StatusBadGateway, "provider_error", "classification provider failed")
		return
	}

	h.logger.Error("unexpected classification failure", zap.Error(err))
	h.writeError(w, http.StatusInternalServerError, "internal", "internal error")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, kind, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg, Kind: kind})
}
