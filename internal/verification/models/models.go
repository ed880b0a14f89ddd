// Package models holds the data model for the verification engine: sourced
// facts, discrepancies, ownership structures and verification results.
package models

import (
	"time"

	id "veritas/pkg/domain"
)

// EntityKind distinguishes the two populations verified per company.
type EntityKind string

const (
	EntityKindDirector    EntityKind = "director"
	EntityKindShareholder EntityKind = "shareholder"
)

// IsValid reports whether the kind is one of the known populations.
func (k EntityKind) IsValid() bool {
	return k == EntityKindDirector || k == EntityKindShareholder
}

// Classification categorizes an entity by type and jurisdiction origin. It
// drives which documents and fields are mandatory.
type Classification string

const (
	IndividualDomestic Classification = "individual_domestic"
	IndividualForeign  Classification = "individual_foreign"
	CorporateDomestic  Classification = "corporate_domestic"
	CorporateForeign   Classification = "corporate_foreign"
)

func (c Classification) IsValid() bool {
	switch c {
	case IndividualDomestic, IndividualForeign, CorporateDomestic, CorporateForeign:
		return true
	}
	return false
}

func (c Classification) IsCorporate() bool {
	return c == CorporateDomestic || c == CorporateForeign
}

// Origin returns the jurisdiction half of the classification.
func (c Classification) Origin() string {
	switch c {
	case IndividualForeign, CorporateForeign:
		return "foreign"
	case IndividualDomestic, CorporateDomestic:
		return "domestic"
	}
	return ""
}

// SourcedValue is one value for a field together with the document it came
// from. Immutable once recorded.
type SourcedValue struct {
	Value            string `json:"value"`
	DocumentID       string `json:"document_id"`
	DocumentName     string `json:"document_name"`
	DocumentCategory string `json:"document_category"`
}

// Discrepancy groups all sourced values of one field when more than one
// distinct value exists. DistinctValues preserves first-seen order so output
// is deterministic.
type Discrepancy struct {
	Field          Field                     `json:"field"`
	DistinctValues []string                  `json:"distinct_values"`
	Sources        map[string][]SourcedValue `json:"sources"`
}

// GenuineDiscrepancy is a discrepancy the judge classified as a real conflict.
type GenuineDiscrepancy struct {
	Field       Field    `json:"field"`
	Values      []string `json:"values"`
	Explanation string   `json:"explanation"`
}

// ResolvedDiscrepancy is a discrepancy the judge classified as a formatting
// variant rather than a real conflict.
type ResolvedDiscrepancy struct {
	Field      Field    `json:"field"`
	Values     []string `json:"values"`
	Resolution string   `json:"resolution"`
}

// Status is the terminal verification classification for one run.
type Status string

const (
	StatusVerified            Status = "verified"
	StatusPending             Status = "pending"
	StatusNotVerified         Status = "notverified"
	StatusOwnershipIncomplete Status = "beneficial_ownership_incomplete"
	StatusUnset               Status = ""
)

func (s Status) IsValid() bool {
	switch s {
	case StatusVerified, StatusPending, StatusNotVerified, StatusOwnershipIncomplete:
		return true
	}
	return false
}

// OwnerIssueKind describes why a flagged beneficial owner blocks verification.
type OwnerIssueKind string

const (
	OwnerIssueMissing     OwnerIssueKind = "missing"
	OwnerIssuePending     OwnerIssueKind = "pending"
	OwnerIssueNotVerified OwnerIssueKind = "notverified"
	OwnerIssueUnset       OwnerIssueKind = "unset"
)

// OwnershipIssue is one flagged owner with the reason it blocks verification.
type OwnershipIssue struct {
	OwnerName string         `json:"owner_name"`
	Issue     OwnerIssueKind `json:"issue"`
}

// Entity is one director or shareholder record as supplied by the fact store,
// snapshotted for a single evaluation.
type Entity struct {
	ID             id.EntityID
	CompanyID      id.CompanyID
	Kind           EntityKind
	Name           string
	Classification Classification
	Fields         FieldSources
	// OwnershipPercent is this entity's direct ownership of the company
	// under verification. Zero for directors.
	OwnershipPercent float64
	PriorStatus      Status
}

// StatusDetail is the structured explanation persisted alongside the status.
type StatusDetail struct {
	GenuineDiscrepancies  []GenuineDiscrepancy  `json:"genuine_discrepancies,omitempty"`
	ResolvedDiscrepancies []ResolvedDiscrepancy `json:"resolved_discrepancies,omitempty"`
	MissingFields         []Field               `json:"missing_fields,omitempty"`
	MissingDocuments      []string              `json:"missing_documents,omitempty"`
	OwnershipIssues       []OwnershipIssue      `json:"ownership_issues,omitempty"`
	Notes                 []string              `json:"notes,omitempty"`
}

// VerificationResult is produced atomically from a snapshot of an entity's
// field sources and ownership subgraph. It is never partially updated.
type VerificationResult struct {
	EntityID    id.EntityID  `json:"entity_id"`
	Status      Status       `json:"status"`
	Detail      StatusDetail `json:"detail"`
	EvaluatedAt time.Time    `json:"evaluated_at"`
	// Persisted is false when the status write failed; the result is still
	// returned to the caller and counted as a partial failure.
	Persisted bool `json:"persisted"`
}

// RunSummary aggregates one verification run over a company's entities.
type RunSummary struct {
	RunID           id.RunID             `json:"run_id"`
	CompanyID       id.CompanyID         `json:"company_id"`
	Kind            EntityKind           `json:"kind"`
	StartedAt       time.Time            `json:"started_at"`
	CompletedAt     time.Time            `json:"completed_at"`
	Counts          map[Status]int       `json:"counts"`
	Skipped         []id.EntityID        `json:"skipped"`
	PersistFailures []id.EntityID        `json:"persist_failures"`
	Results         []VerificationResult `json:"results"`
}

// Total returns the number of entities evaluated (excluding skipped).
func (s *RunSummary) Total() int {
	n := 0
	for _, c := range s.Counts {
		n += c
	}
	return n
}
