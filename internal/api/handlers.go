package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/andreasscherbaum/check-markdown-files/internal/apperr"
	"github.com/andreasscherbaum/check-markdown-files/internal/runner"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Lint handles POST /api/lint.
func (h *Handler) Lint(w http.ResponseWriter, r *http.Request) {
	var req LintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	var (
		res *runner.Result
		err error
	)
	switch {
	case req.Content != "":
		res, err = h.svc.LintContent(r.Context(), req.Path, req.Content)
	case req.Path != "":
		res, err = h.svc.LintFile(r.Context(), req.Path)
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("either content or path is required"))
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("posting not found"))
		case errors.Is(err, apperr.ErrMalformedDocument), errors.Is(err, apperr.ErrInvalidMetadata):
			writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		default:
			slog.Error("lint failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}

	resp := LintResponse{
		Path:        res.Path,
		Diagnostics: res.Diagnostics,
		Flagged:     res.Flagged(),
		Changed:     res.Changed,
	}
	if resp.Diagnostics == nil {
		resp.Diagnostics = []string{}
	}
	if res.Changed {
		resp.Output = res.Output
	}
	writeJSON(w, http.StatusOK, resp)
}

// Checks handles GET /api/checks.
func (h *Handler) Checks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ChecksResponse{Checks: h.svc.CheckNames()})
}
