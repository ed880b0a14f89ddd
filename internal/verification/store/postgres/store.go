// Package postgres implements the fact store, run store and requirement
// source on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"veritas/internal/verification/models"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/sentinel"
)

// Store persists entities, their sourced field values, ownership graphs,
// requirement sets and run summaries.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *sql.DB { return s.db }

// Entities loads every entity of the given kind together with its ordered
// field sources and its last persisted status.
func (s *Store) Entities(ctx context.Context, companyID id.CompanyID, kind models.EntityKind) ([]models.Entity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, classification, ownership_percent, COALESCE(status, '')
		FROM verification_entities
		WHERE company_id = $1 AND kind = $2
		ORDER BY created_at, id`,
		uuid.UUID(companyID), string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	defer rows.Close()

	var entities []models.Entity
	var entityIDs []uuid.UUID
	for rows.Next() {
		var (
			entityID       uuid.UUID
			name           string
			classification string
			ownershipPct   float64
			status         string
		)
		if err := rows.Scan(&entityID, &name, &classification, &ownershipPct, &status); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		entities = append(entities, models.Entity{
			ID:               id.EntityID(entityID),
			CompanyID:        companyID,
			Kind:             kind,
			Name:             name,
			Classification:   models.Classification(classification),
			Fields:           models.NewFieldSources(models.Classification(classification)),
			OwnershipPercent: ownershipPct,
			PriorStatus:      models.Status(status),
		})
		entityIDs = append(entityIDs, entityID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entities: %w", err)
	}
	if len(entities) == 0 {
		return nil, nil
	}

	if err := s.loadFieldSources(ctx, entities, entityIDs); err != nil {
		return nil, err
	}
	return entities, nil
}

func (s *Store) loadFieldSources(ctx context.Context, entities []models.Entity, entityIDs []uuid.UUID) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entity_id, field, value, document_id, document_name, document_category
		FROM entity_field_sources
		WHERE entity_id = ANY($1)
		ORDER BY entity_id, position`,
		pq.Array(entityIDs),
	)
	if err != nil {
		return fmt.Errorf("list field sources: %w", err)
	}
	defer rows.Close()

	byID := make(map[id.EntityID]*models.Entity, len(entities))
	for i := range entities {
		byID[entities[i].ID] = &entities[i]
	}

	for rows.Next() {
		var (
			entityID uuid.UUID
			field    string
			sv       models.SourcedValue
		)
		if err := rows.Scan(&entityID, &field, &sv.Value, &sv.DocumentID, &sv.DocumentName, &sv.DocumentCategory); err != nil {
			return fmt.Errorf("scan field source: %w", err)
		}
		if entity, ok := byID[id.EntityID(entityID)]; ok {
			entity.Fields.Add(models.Field(field), sv)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate field sources: %w", err)
	}
	return nil
}

// OwnershipGraph loads the ownership snapshot for a company. Node status is
// joined from the tracked entity record when the node corresponds to one.
func (s *Store) OwnershipGraph(ctx context.Context, companyID id.CompanyID) (*models.OwnershipGraph, error) {
	graph := models.NewOwnershipGraph()

	nodeRows, err := s.db.QueryContext(ctx, `
		SELECT n.node_id, n.name, n.kind, COALESCE(e.status, '')
		FROM ownership_nodes n
		LEFT JOIN verification_entities e ON e.id = n.entity_id
		WHERE n.company_id = $1`,
		uuid.UUID(companyID),
	)
	if err != nil {
		return nil, fmt.Errorf("list ownership nodes: %w", err)
	}
	defer nodeRows.Close()

	for nodeRows.Next() {
		var node models.OwnershipNode
		var kind, status string
		if err := nodeRows.Scan(&node.ID, &node.Name, &kind, &status); err != nil {
			return nil, fmt.Errorf("scan ownership node: %w", err)
		}
		node.Kind = models.OwnershipNodeKind(kind)
		node.Status = models.Status(status)
		graph.AddNode(node)
	}
	if err := nodeRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ownership nodes: %w", err)
	}

	edgeRows, err := s.db.QueryContext(ctx, `
		SELECT owner_id, owned_id, percentage
		FROM ownership_edges
		WHERE company_id = $1
		ORDER BY position`,
		uuid.UUID(companyID),
	)
	if err != nil {
		return nil, fmt.Errorf("list ownership edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var edge models.OwnershipEdge
		if err := edgeRows.Scan(&edge.OwnerID, &edge.OwnedID, &edge.Percentage); err != nil {
			return nil, fmt.Errorf("scan ownership edge: %w", err)
		}
		graph.Edges = append(graph.Edges, edge)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ownership edges: %w", err)
	}

	return graph, nil
}

// UpdateVerification writes the status and its structured detail in one
// statement.
func (s *Store) UpdateVerification(ctx context.Context, entityID id.EntityID, status models.Status, detail models.StatusDetail) error {
	payload, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("encode status detail: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE verification_entities
		SET status = $2, status_detail = $3, status_updated_at = $4
		WHERE id = $1`,
		uuid.UUID(entityID), string(status), payload, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update verification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update verification: %w", err)
	}
	if affected == 0 {
		return dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "entity not found")
	}
	return nil
}

func (s *Store) SaveSummary(ctx context.Context, summary *models.RunSummary) error {
	if summary == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "run summary is required")
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode run summary: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO verification_runs (run_id, company_id, kind, started_at, completed_at, summary)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(summary.RunID), uuid.UUID(summary.CompanyID), string(summary.Kind),
		summary.StartedAt, summary.CompletedAt, payload,
	)
	if err != nil {
		return fmt.Errorf("save run summary: %w", err)
	}
	return nil
}

func (s *Store) LatestSummary(ctx context.Context, companyID id.CompanyID, kind models.EntityKind) (*models.RunSummary, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT summary
		FROM verification_runs
		WHERE company_id = $1 AND kind = $2
		ORDER BY completed_at DESC
		LIMIT 1`,
		uuid.UUID(companyID), string(kind),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "no verification run recorded")
	}
	if err != nil {
		return nil, fmt.Errorf("load run summary: %w", err)
	}

	var summary models.RunSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, fmt.Errorf("decode run summary: %w", err)
	}
	return &summary, nil
}

// RequirementSet loads a company's override, falling back to the built-in
// default when none is configured.
func (s *Store) RequirementSet(ctx context.Context, companyID id.CompanyID) (*models.RequirementSet, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM requirement_sets WHERE company_id = $1`,
		uuid.UUID(companyID),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		set := models.DefaultRequirementSet()
		return &set, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load requirement set: %w", err)
	}

	var set models.RequirementSet
	if err := json.Unmarshal(payload, &set); err != nil {
		return nil, fmt.Errorf("decode requirement set: %w", err)
	}
	return &set, nil
}
