// Package handler wires verification endpoints to the verification service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"veritas/internal/verification/models"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/httputil"
)

// Service defines the verification operations exposed over HTTP.
type Service interface {
	Run(ctx context.Context, companyID id.CompanyID, kind models.EntityKind, force bool) (*models.RunSummary, error)
	Latest(ctx context.Context, companyID id.CompanyID, kind models.EntityKind) (*models.RunSummary, error)
}

// Handler exposes verification runs over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts verification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/companies/{companyID}/verification-runs", h.HandleRun)
	r.Get("/companies/{companyID}/verification-runs/latest", h.HandleLatest)
}

// HandleRun handles POST /companies/{companyID}/verification-runs.
// Query parameters: kind=director|shareholder (required), force=true to
// re-evaluate entities already notverified.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	companyID, kind, err := h.params(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	summary, err := h.service.Run(ctx, companyID, kind, force)
	if err != nil {
		h.logger.ErrorContext(ctx, "verification run failed",
			"company_id", companyID.String(),
			"kind", string(kind),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "verification run completed",
		"company_id", companyID.String(),
		"run_id", summary.RunID.String(),
		"kind", string(kind),
		"evaluated", summary.Total(),
		"skipped", len(summary.Skipped),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, summary)
}

// HandleLatest handles GET /companies/{companyID}/verification-runs/latest.
func (h *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	companyID, kind, err := h.params(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	summary, err := h.service.Latest(ctx, companyID, kind)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "latest run lookup failed",
				"company_id", companyID.String(),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) params(r *http.Request) (id.CompanyID, models.EntityKind, error) {
	companyID, err := id.ParseCompanyID(chi.URLParam(r, "companyID"))
	if err != nil {
		return id.CompanyID{}, "", err
	}

	kind := models.EntityKind(r.URL.Query().Get("kind"))
	if !kind.IsValid() {
		return id.CompanyID{}, "", dErrors.New(dErrors.CodeValidation, "kind must be director or shareholder")
	}
	return companyID, kind, nil
}
