// Package ports declares the interfaces the verification service depends on.
// Stores and collaborators are injected through these so the orchestrator can
// be tested against mocks.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/ports_mocks.go -package=mocks

import (
	"context"

	"veritas/internal/verification/models"
	id "veritas/pkg/domain"
	"veritas/pkg/platform/audit"
)

// EntityStore is the fact store: the system of record for directors,
// shareholders, their sourced field values and the ownership graph. The
// engine reads snapshots from it and writes verification outcomes back.
type EntityStore interface {
	// Entities returns every entity of the given kind for a company. An
	// unknown company returns an empty slice, not an error.
	Entities(ctx context.Context, companyID id.CompanyID, kind models.EntityKind) ([]models.Entity, error)

	// OwnershipGraph returns the company's ownership structure rooted at the
	// company node. A company with no recorded edges returns an empty graph.
	OwnershipGraph(ctx context.Context, companyID id.CompanyID) (*models.OwnershipGraph, error)

	// UpdateVerification writes one entity's status and detail atomically.
	UpdateVerification(ctx context.Context, entityID id.EntityID, status models.Status, detail models.StatusDetail) error
}

// RunStore persists run summaries for later retrieval.
type RunStore interface {
	SaveSummary(ctx context.Context, summary *models.RunSummary) error

	// LatestSummary returns the most recent run for the company and kind, or
	// sentinel.ErrNotFound when no run has completed yet.
	LatestSummary(ctx context.Context, companyID id.CompanyID, kind models.EntityKind) (*models.RunSummary, error)
}

// RequirementSource supplies the document requirement configuration for a
// company. Implementations may return a shared default set.
type RequirementSource interface {
	RequirementSet(ctx context.Context, companyID id.CompanyID) (*models.RequirementSet, error)
}

// AuditPublisher records compliance and operational audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
