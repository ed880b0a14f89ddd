// Package service orchestrates verification runs: it snapshots a company's
// entities, evaluates each one through the discrepancy, requirement and
// ownership pipelines, decides the terminal status and persists the outcome.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"veritas/internal/platform/metrics"
	"veritas/internal/verification/discrepancy"
	"veritas/internal/verification/judge"
	"veritas/internal/verification/models"
	"veritas/internal/verification/ownership"
	"veritas/internal/verification/ports"
	"veritas/internal/verification/requirements"
	"veritas/internal/verification/state"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/audit"
)

const (
	defaultWorkers        = 4
	defaultPersistTimeout = 10 * time.Second
	defaultPersistRetries = 2
	defaultPersistBackoff = 100 * time.Millisecond
)

// Service runs verifications over a company's directors or shareholders.
type Service struct {
	entities     ports.EntityStore
	runs         ports.RunStore
	requirements ports.RequirementSource
	judge        judge.Judge
	audit        ports.AuditPublisher
	metrics      *metrics.Metrics
	logger       *slog.Logger

	workers        int
	persistTimeout time.Duration
	persistRetries int
	persistBackoff time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(p ports.AuditPublisher) Option {
	return func(s *Service) { s.audit = p }
}

// WithWorkers bounds how many entities are evaluated concurrently.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithPersistTimeout bounds each status write attempt.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.persistTimeout = d
		}
	}
}

// WithPersistRetry sets how many additional write attempts follow a failed
// status write, and the linear backoff between them.
func WithPersistRetry(retries int, backoff time.Duration) Option {
	return func(s *Service) {
		if retries >= 0 {
			s.persistRetries = retries
		}
		if backoff > 0 {
			s.persistBackoff = backoff
		}
	}
}

func New(entities ports.EntityStore, runs ports.RunStore, reqs ports.RequirementSource, j judge.Judge, opts ...Option) (*Service, error) {
	if entities == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "entity store is required")
	}
	if runs == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "run store is required")
	}
	if reqs == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "requirement source is required")
	}
	if j == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "judge is required")
	}

	s := &Service{
		entities:       entities,
		runs:           runs,
		requirements:   reqs,
		judge:          j,
		logger:         slog.Default(),
		workers:        defaultWorkers,
		persistTimeout: defaultPersistTimeout,
		persistRetries: defaultPersistRetries,
		persistBackoff: defaultPersistBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run verifies every entity of the given kind for a company. Entities already
// notverified are skipped unless force is set. Individual persist failures do
// not abort the run; they are recorded in the summary.
func (s *Service) Run(ctx context.Context, companyID id.CompanyID, kind models.EntityKind, force bool) (*models.RunSummary, error) {
	if companyID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "company ID is required")
	}
	if !kind.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown entity kind %q", kind))
	}

	runID := id.NewRunID()
	startedAt := time.Now().UTC()

	if s.metrics != nil {
		s.metrics.RunsStarted.Inc()
	}
	s.emit(ctx, audit.Event{
		CompanyID: companyID.String(),
		RunID:     runID.String(),
		Action:    string(audit.EventRunStarted),
		Reason:    fmt.Sprintf("kind=%s force=%t", kind, force),
	})

	reqSet, err := s.requirements.RequirementSet(ctx, companyID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load requirement set")
	}

	entities, err := s.entities.Entities(ctx, companyID, kind)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load entities")
	}

	ownerCtx, err := s.resolveOwnership(ctx, companyID, reqSet)
	if err != nil {
		return nil, err
	}

	summary := &models.RunSummary{
		RunID:     runID,
		CompanyID: companyID,
		Kind:      kind,
		StartedAt: startedAt,
		Counts:    make(map[models.Status]int),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, entity := range entities {
		entity := entity

		if entity.PriorStatus == models.StatusNotVerified && !force {
			summary.Skipped = append(summary.Skipped, entity.ID)
			if s.metrics != nil {
				s.metrics.EntitiesSkipped.Inc()
			}
			continue
		}

		g.Go(func() error {
			result := s.evaluate(gctx, runID, entity, *reqSet, ownerCtx)

			mu.Lock()
			defer mu.Unlock()
			summary.Counts[result.Status]++
			summary.Results = append(summary.Results, result)
			if !result.Persisted {
				summary.PersistFailures = append(summary.PersistFailures, entity.ID)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "verification run aborted")
	}

	summary.CompletedAt = time.Now().UTC()

	if err := s.runs.SaveSummary(ctx, summary); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist run summary",
			"run_id", runID.String(),
			"company_id", companyID.String(),
			"error", err,
		)
	}

	if s.metrics != nil {
		s.metrics.RunsCompleted.Inc()
	}
	s.emit(ctx, audit.Event{
		CompanyID: companyID.String(),
		RunID:     runID.String(),
		Action:    string(audit.EventRunCompleted),
		Reason: fmt.Sprintf("evaluated=%d skipped=%d persist_failures=%d",
			summary.Total(), len(summary.Skipped), len(summary.PersistFailures)),
	})

	return summary, nil
}

// Latest returns the most recent run summary for a company and kind.
func (s *Service) Latest(ctx context.Context, companyID id.CompanyID, kind models.EntityKind) (*models.RunSummary, error) {
	if companyID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "company ID is required")
	}
	if !kind.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown entity kind %q", kind))
	}
	return s.runs.LatestSummary(ctx, companyID, kind)
}

// ownershipContext is the per-run ownership resolution shared across entity
// evaluations.
type ownershipContext struct {
	// ownersByVia groups beneficial owners by the first-level holder through
	// which their maximal path reaches the company.
	ownersByVia map[string][]models.BeneficialOwner
	// known marks owner node IDs that are tracked entities of the company.
	known map[string]bool
	// failure carries the resolution error note when the structure could not
	// be resolved; corporate shareholders then evaluate to pending.
	failure string
}

func (s *Service) resolveOwnership(ctx context.Context, companyID id.CompanyID, reqSet *models.RequirementSet) (*ownershipContext, error) {
	graph, err := s.entities.OwnershipGraph(ctx, companyID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load ownership graph")
	}

	oc := &ownershipContext{
		ownersByVia: make(map[string][]models.BeneficialOwner),
		known:       make(map[string]bool),
	}

	for _, kind := range []models.EntityKind{models.EntityKindDirector, models.EntityKindShareholder} {
		tracked, err := s.entities.Entities(ctx, companyID, kind)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load tracked entities")
		}
		for _, e := range tracked {
			oc.known[e.ID.String()] = true
		}
	}

	targetID := companyNode(graph)
	if targetID == "" {
		return oc, nil
	}

	resolver := ownership.New(reqSet.OwnershipThreshold)
	owners, err := resolver.Resolve(graph, targetID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeDataIntegrity) {
			s.logger.WarnContext(ctx, "ownership structure unresolvable",
				"company_id", companyID.String(),
				"error", err,
			)
			oc.failure = fmt.Sprintf("ownership structure unresolvable: %v", err)
			return oc, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolve beneficial owners")
	}

	for _, owner := range owners {
		oc.ownersByVia[owner.ViaOwnerID] = append(oc.ownersByVia[owner.ViaOwnerID], owner)
	}
	return oc, nil
}

// companyNode finds the graph node representing the company under
// verification.
func companyNode(graph *models.OwnershipGraph) string {
	for _, node := range graph.Nodes {
		if node.Kind == models.OwnershipNodeCompany {
			return node.ID
		}
	}
	return ""
}

func (s *Service) evaluate(ctx context.Context, runID id.RunID, entity models.Entity, reqSet models.RequirementSet, oc *ownershipContext) models.VerificationResult {
	start := time.Now()
	in := state.Inputs{}

	detected := discrepancy.Detect(entity.Fields)
	if len(detected) > 0 {
		in.GenuineDiscrepancies, in.ResolvedDiscrepancies = s.judgeDiscrepancies(ctx, runID, entity, detected, reqSet)
	}

	reqResult, err := requirements.Evaluate(entity, reqSet)
	if err != nil {
		s.logger.ErrorContext(ctx, "requirement evaluation failed",
			"entity_id", entity.ID.String(),
			"error", err,
		)
		in.Notes = append(in.Notes, fmt.Sprintf("requirement configuration error: %v", err))
	} else {
		in.MissingFields = reqResult.MissingFields
		in.MissingDocuments = reqResult.MissingDocuments
	}

	if entity.Classification.IsCorporate() {
		if oc.failure != "" {
			in.Notes = append(in.Notes, oc.failure)
		}
		in.OwnershipIssues = s.ownershipIssues(ctx, runID, entity, oc)
	}

	status, detail := state.Decide(in)

	result := models.VerificationResult{
		EntityID:    entity.ID,
		Status:      status,
		Detail:      detail,
		EvaluatedAt: time.Now().UTC(),
		Persisted:   true,
	}

	if err := s.persistVerification(ctx, entity.ID, status, detail); err != nil {
		result.Persisted = false
		if s.metrics != nil {
			s.metrics.PersistFailures.Inc()
		}
		s.logger.ErrorContext(ctx, "failed to persist verification status",
			"entity_id", entity.ID.String(),
			"status", string(status),
			"error", err,
		)
		s.emit(ctx, audit.Event{
			CompanyID:    entity.CompanyID.String(),
			EntityIDHash: hashEntityID(entity.ID),
			RunID:        runID.String(),
			Action:       string(audit.EventEntityPersistFailed),
			Decision:     string(status),
			Reason:       err.Error(),
		})
	}

	if s.metrics != nil {
		s.metrics.ObserveEvaluation(string(status), time.Since(start))
	}
	s.emit(ctx, audit.Event{
		CompanyID:    entity.CompanyID.String(),
		EntityIDHash: hashEntityID(entity.ID),
		RunID:        runID.String(),
		Action:       string(audit.EventEntityEvaluated),
		Decision:     string(status),
		Reason:       state.Summarize(status, detail),
	})

	return result
}

// persistVerification writes the status back with a per-attempt timeout and a
// bounded linear-backoff retry, mirroring the judge client. Exhausting the
// retries is not fatal to the run; the caller records the entity as
// failed-to-persist.
func (s *Service) persistVerification(ctx context.Context, entityID id.EntityID, status models.Status, detail models.StatusDetail) error {
	var lastErr error
	for attempt := 0; attempt <= s.persistRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * s.persistBackoff):
			}
		}

		persistCtx, cancel := context.WithTimeout(ctx, s.persistTimeout)
		err := s.entities.UpdateVerification(persistCtx, entityID, status, detail)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		s.logger.WarnContext(ctx, "status write attempt failed",
			"entity_id", entityID.String(),
			"attempt", attempt+1,
			"error", err,
		)
	}
	return lastErr
}

// judgeDiscrepancies sends the detected conflicts to the judge. Any judge
// failure applies the fail-closed fallback: every discrepancy is treated as
// genuine.
func (s *Service) judgeDiscrepancies(ctx context.Context, runID id.RunID, entity models.Entity, detected []models.Discrepancy, reqSet models.RequirementSet) ([]models.GenuineDiscrepancy, []models.ResolvedDiscrepancy) {
	required, _ := reqSet.CategoriesFor(entity.Classification)
	req := judge.NewRequest(entity, detected, requirementsSummary(required))

	if s.metrics != nil {
		s.metrics.JudgeCalls.Inc()
	}

	resp, err := s.judge.Evaluate(ctx, req)
	if err != nil {
		if s.metrics != nil {
			s.metrics.JudgeFailures.Inc()
			s.metrics.JudgeFallbacks.Inc()
		}
		s.logger.WarnContext(ctx, "judge unavailable, treating all discrepancies as genuine",
			"entity_id", entity.ID.String(),
			"discrepancies", len(detected),
			"error", err,
		)
		s.emit(ctx, audit.Event{
			CompanyID:    entity.CompanyID.String(),
			EntityIDHash: hashEntityID(entity.ID),
			RunID:        runID.String(),
			Action:       string(audit.EventJudgeFallback),
			Reason:       err.Error(),
		})
		resp = judge.FallbackAllGenuine(req)
	}

	return judge.Split(req, resp)
}

// ownershipIssues maps the beneficial owners reached through this corporate
// shareholder to blocking issues.
func (s *Service) ownershipIssues(ctx context.Context, runID id.RunID, entity models.Entity, oc *ownershipContext) []models.OwnershipIssue {
	var issues []models.OwnershipIssue
	for _, owner := range oc.ownersByVia[entity.ID.String()] {
		issue, blocking := state.IssueForOwner(owner, oc.known[owner.OwnerID])
		if !blocking {
			continue
		}
		issues = append(issues, issue)
		s.emit(ctx, audit.Event{
			CompanyID:    entity.CompanyID.String(),
			EntityIDHash: hashEntityID(entity.ID),
			RunID:        runID.String(),
			Action:       string(audit.EventOwnershipFlagged),
			Decision:     string(issue.Issue),
			Reason:       fmt.Sprintf("beneficial owner %s (%.1f%% effective)", owner.Name, owner.EffectivePercentage),
		})
	}
	return issues
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	event.Category = audit.AuditEvent(event.Action).Category()
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", event.Action, "error", err)
	}
}

func hashEntityID(entityID id.EntityID) string {
	sum := sha256.Sum256([]byte(entityID.String()))
	return hex.EncodeToString(sum[:])
}

func requirementsSummary(categories []string) string {
	if len(categories) == 0 {
		return ""
	}
	summary := categories[0]
	for _, c := range categories[1:] {
		summary += ", " + c
	}
	return summary
}
