// Package postgres implements audit.Store using the transactional outbox
// pattern. Events are written to the outbox table in the same transaction as
// the verification write when one is present in context; the outbox worker
// ships them to Kafka, which is the source of truth for the audit trail.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	audit "veritas/pkg/platform/audit"
	txcontext "veritas/pkg/platform/tx"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// DB exposes the underlying handle for the outbox worker's transactions.
func (s *Store) DB() *sql.DB { return s.db }

// outboxPayload is the JSON structure shipped to Kafka. Field names match
// audit.Event so the consumer side deserializes without a mapping layer.
type outboxPayload struct {
	ID           string `json:"ID"`
	Category     string `json:"Category"`
	Timestamp    string `json:"Timestamp"`
	CompanyID    string `json:"CompanyID,omitempty"`
	EntityIDHash string `json:"EntityIDHash,omitempty"`
	RunID        string `json:"RunID,omitempty"`
	Action       string `json:"Action"`
	Decision     string `json:"Decision,omitempty"`
	Reason       string `json:"Reason,omitempty"`
	RequestID    string `json:"RequestID,omitempty"`
}

// Append writes an audit event to the outbox table.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID := uuid.New()

	category := event.Category
	if category == "" {
		category = audit.AuditEvent(event.Action).Category()
	}

	payload := outboxPayload{
		ID:           eventID.String(),
		Category:     string(category),
		Timestamp:    event.Timestamp.Format(time.RFC3339Nano),
		CompanyID:    event.CompanyID,
		EntityIDHash: event.EntityIDHash,
		RunID:        event.RunID,
		Action:       event.Action,
		Decision:     event.Decision,
		Reason:       event.Reason,
		RequestID:    event.RequestID,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	const q = `
		INSERT INTO audit_outbox (id, aggregate_type, aggregate_id, category, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	aggregateID := event.CompanyID
	if aggregateID == "" {
		aggregateID = eventID.String()
	}

	if _, err := s.execer(ctx).ExecContext(ctx, q,
		eventID, "verification", aggregateID, string(category), payloadBytes, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("insert audit outbox row: %w", err)
	}
	return nil
}

// OutboxRow is an unpublished outbox entry.
type OutboxRow struct {
	ID      uuid.UUID
	Payload []byte
}

// FetchUnpublished returns up to limit unpublished outbox rows in insertion
// order, locking them against concurrent workers.
func (s *Store) FetchUnpublished(ctx context.Context, limit int) ([]OutboxRow, error) {
	const q = `
		SELECT id, payload
		FROM audit_outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED`

	rows, err := s.execer(ctx).QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch unpublished outbox rows: %w", err)
	}
	defer rows.Close()

	var out []OutboxRow
	for rows.Next() {
		var row OutboxRow
		if err := rows.Scan(&row.ID, &row.Payload); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// MarkPublished stamps outbox rows as shipped.
func (s *Store) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	const q = `UPDATE audit_outbox SET published_at = $1 WHERE id = ANY($2)`
	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}
	if _, err := s.execer(ctx).ExecContext(ctx, q, time.Now().UTC(), pq.Array(idStrings)); err != nil {
		return fmt.Errorf("mark outbox rows published: %w", err)
	}
	return nil
}
