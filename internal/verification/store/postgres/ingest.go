package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"veritas/internal/verification/models"
	id "veritas/pkg/domain"
)

// UpsertEntity writes the entity record and replaces its field sources. Used
// by the ingest path that mirrors the system of record.
func (s *Store) UpsertEntity(ctx context.Context, entity models.Entity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin entity upsert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO verification_entities (id, company_id, kind, name, classification, ownership_percent, status)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			classification = EXCLUDED.classification,
			ownership_percent = EXCLUDED.ownership_percent`,
		uuid.UUID(entity.ID), uuid.UUID(entity.CompanyID), string(entity.Kind),
		entity.Name, string(entity.Classification), entity.OwnershipPercent,
		string(entity.PriorStatus),
	)
	if err != nil {
		return fmt.Errorf("upsert entity: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM entity_field_sources WHERE entity_id = $1`, uuid.UUID(entity.ID)); err != nil {
		return fmt.Errorf("clear field sources: %w", err)
	}

	position := 0
	for _, field := range models.FieldsFor(entity.Classification) {
		for _, sv := range entity.Fields.Get(field) {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO entity_field_sources (entity_id, field, value, document_id, document_name, document_category, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				uuid.UUID(entity.ID), string(field), sv.Value,
				sv.DocumentID, sv.DocumentName, sv.DocumentCategory, position,
			)
			if err != nil {
				return fmt.Errorf("insert field source: %w", err)
			}
			position++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit entity upsert: %w", err)
	}
	return nil
}

// ReplaceOwnership swaps a company's ownership snapshot atomically.
func (s *Store) ReplaceOwnership(ctx context.Context, companyID id.CompanyID, graph *models.OwnershipGraph) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ownership replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ownership_nodes WHERE company_id = $1`, uuid.UUID(companyID)); err != nil {
		return fmt.Errorf("clear ownership nodes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM ownership_edges WHERE company_id = $1`, uuid.UUID(companyID)); err != nil {
		return fmt.Errorf("clear ownership edges: %w", err)
	}

	for _, node := range graph.Nodes {
		var entityID interface{}
		if u, err := uuid.Parse(node.ID); err == nil {
			entityID = u
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ownership_nodes (company_id, node_id, name, kind, entity_id)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.UUID(companyID), node.ID, node.Name, string(node.Kind), entityID,
		)
		if err != nil {
			return fmt.Errorf("insert ownership node: %w", err)
		}
	}
	for _, edge := range graph.Edges {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ownership_edges (company_id, owner_id, owned_id, percentage)
			VALUES ($1, $2, $3, $4)`,
			uuid.UUID(companyID), edge.OwnerID, edge.OwnedID, edge.Percentage,
		)
		if err != nil {
			return fmt.Errorf("insert ownership edge: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ownership replace: %w", err)
	}
	return nil
}

// SaveRequirementSet stores a company's requirement override.
func (s *Store) SaveRequirementSet(ctx context.Context, companyID id.CompanyID, set *models.RequirementSet) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("encode requirement set: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO requirement_sets (company_id, payload)
		VALUES ($1, $2)
		ON CONFLICT (company_id) DO UPDATE SET payload = EXCLUDED.payload`,
		uuid.UUID(companyID), payload,
	)
	if err != nil {
		return fmt.Errorf("save requirement set: %w", err)
	}
	return nil
}
