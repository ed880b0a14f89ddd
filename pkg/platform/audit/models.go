// Package audit defines the audit event model for the verification engine.
// Events are emitted from domain logic, buffered by the publisher, persisted
// to the outbox and shipped to Kafka by the worker. Keep the model
// transport-agnostic so stores and sinks can fan out.
package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose. This drives
// retention policy and routing downstream.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance:
	// verification decisions, beneficial-ownership flags, status overrides.
	// These require tamper-proof storage and long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events useful for debugging and operational
	// visibility: run lifecycle, collaborator fallbacks, persist failures.
	CategoryOperations EventCategory = "operations"
)

// Event captures one auditable action. EntityIDHash carries a SHA-256 hash of
// the entity identifier so the trail stays free of raw identifiers.
type Event struct {
	Category     EventCategory
	Timestamp    time.Time
	CompanyID    string
	EntityIDHash string
	RunID        string
	Action       string
	Decision     string
	Reason       string
	RequestID    string
}

// AuditEvent enumerates the actions emitted by the engine.
type AuditEvent string

const (
	EventRunStarted          AuditEvent = "verification_run_started"
	EventRunCompleted        AuditEvent = "verification_run_completed"
	EventEntityEvaluated     AuditEvent = "entity_evaluated"
	EventEntityPersistFailed AuditEvent = "entity_persist_failed"
	EventJudgeFallback       AuditEvent = "judge_fallback_applied"
	EventOwnershipFlagged    AuditEvent = "beneficial_owner_flagged"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventRunStarted:          CategoryOperations,
	EventRunCompleted:        CategoryOperations,
	EventEntityEvaluated:     CategoryCompliance,
	EventEntityPersistFailed: CategoryOperations,
	EventJudgeFallback:       CategoryCompliance,
	EventOwnershipFlagged:    CategoryCompliance,
}

// Category returns the category for an action. Unknown actions default to
// operations so nothing is silently dropped from the trail.
func (e AuditEvent) Category() EventCategory {
	if c, ok := eventCategories[e]; ok {
		return c
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Sink ships audit events to an external system (Kafka).
type Sink interface {
	Publish(ctx context.Context, event Event) error
	Close()
}
