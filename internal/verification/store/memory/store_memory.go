// Package memory provides in-memory store implementations used by unit tests
// and local development.
package memory

import (
	"context"
	"sync"

	"veritas/internal/verification/models"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/sentinel"
)

type verificationRecord struct {
	status models.Status
	detail models.StatusDetail
}

type companyKind struct {
	company id.CompanyID
	kind    models.EntityKind
}

// Store keeps entities, ownership graphs, requirement sets and run summaries
// in memory. Safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	entities     map[id.EntityID]models.Entity
	graphs       map[id.CompanyID]*models.OwnershipGraph
	records      map[id.EntityID]verificationRecord
	summaries    map[companyKind][]*models.RunSummary
	requirements map[id.CompanyID]*models.RequirementSet
}

func New() *Store {
	return &Store{
		entities:     make(map[id.EntityID]models.Entity),
		graphs:       make(map[id.CompanyID]*models.OwnershipGraph),
		records:      make(map[id.EntityID]verificationRecord),
		summaries:    make(map[companyKind][]*models.RunSummary),
		requirements: make(map[id.CompanyID]*models.RequirementSet),
	}
}

// SeedEntity registers an entity. Existing entries with the same ID are
// replaced.
func (s *Store) SeedEntity(entity models.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[entity.ID] = entity
}

// SeedGraph registers a company's ownership graph.
func (s *Store) SeedGraph(companyID id.CompanyID, graph *models.OwnershipGraph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[companyID] = graph
}

// SeedRequirements overrides the requirement set for a company.
func (s *Store) SeedRequirements(companyID id.CompanyID, set *models.RequirementSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requirements[companyID] = set
}

func (s *Store) Entities(ctx context.Context, companyID id.CompanyID, kind models.EntityKind) ([]models.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Entity
	for _, entity := range s.entities {
		if entity.CompanyID != companyID || entity.Kind != kind {
			continue
		}
		if rec, ok := s.records[entity.ID]; ok {
			entity.PriorStatus = rec.status
		}
		out = append(out, entity)
	}
	return out, nil
}

func (s *Store) OwnershipGraph(ctx context.Context, companyID id.CompanyID) (*models.OwnershipGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seeded, ok := s.graphs[companyID]
	if !ok {
		return models.NewOwnershipGraph(), nil
	}

	// Overlay the last persisted status onto nodes that are tracked entities.
	graph := models.NewOwnershipGraph()
	graph.Edges = append(graph.Edges, seeded.Edges...)
	for _, node := range seeded.Nodes {
		if entityID, err := id.ParseEntityID(node.ID); err == nil {
			if rec, ok := s.records[entityID]; ok {
				node.Status = rec.status
			}
		}
		graph.AddNode(node)
	}
	return graph, nil
}

func (s *Store) UpdateVerification(ctx context.Context, entityID id.EntityID, status models.Status, detail models.StatusDetail) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entities[entityID]; !ok {
		return dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "entity not found")
	}
	s.records[entityID] = verificationRecord{status: status, detail: detail}
	return nil
}

// Verification returns the last persisted status and detail for an entity.
func (s *Store) Verification(entityID id.EntityID) (models.Status, models.StatusDetail, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[entityID]
	return rec.status, rec.detail, ok
}

func (s *Store) SaveSummary(ctx context.Context, summary *models.RunSummary) error {
	if summary == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "run summary is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := companyKind{company: summary.CompanyID, kind: summary.Kind}
	s.summaries[key] = append(s.summaries[key], summary)
	return nil
}

func (s *Store) LatestSummary(ctx context.Context, companyID id.CompanyID, kind models.EntityKind) (*models.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := s.summaries[companyKind{company: companyID, kind: kind}]
	if len(runs) == 0 {
		return nil, dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "no verification run recorded")
	}
	return runs[len(runs)-1], nil
}

func (s *Store) RequirementSet(ctx context.Context, companyID id.CompanyID) (*models.RequirementSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if set, ok := s.requirements[companyID]; ok {
		return set, nil
	}
	set := models.DefaultRequirementSet()
	return &set, nil
}
