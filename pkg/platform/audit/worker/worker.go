// Package worker drains the audit outbox to the Kafka sink. Each poll runs in
// one transaction so a crash between publish and mark leaves the row
// unpublished; downstream consumers are expected to deduplicate on event ID.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"veritas/pkg/platform/audit/store/postgres"
	txcontext "veritas/pkg/platform/tx"
)

// RawSink is the subset of the Kafka sink the worker needs.
type RawSink interface {
	PublishRaw(ctx context.Context, key string, payload []byte) error
}

type Worker struct {
	store     *postgres.Store
	sink      RawSink
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

func NewWorker(store *postgres.Store, sink RawSink, logger *slog.Logger) *Worker {
	return &Worker{
		store:     store,
		sink:      sink,
		logger:    logger,
		interval:  2 * time.Second,
		batchSize: 100,
	}
}

// Run polls the outbox until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.drainOnce(ctx); err != nil {
				w.logger.Error("audit outbox drain failed", "error", err)
			}
		}
	}
}

func (w *Worker) drainOnce(ctx context.Context) error {
	tx, err := w.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	txCtx := txcontext.WithTx(ctx, tx)

	rows, err := w.store.FetchUnpublished(txCtx, w.batchSize)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	published := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		if err := w.sink.PublishRaw(ctx, row.ID.String(), row.Payload); err != nil {
			// Stop at the first failure to preserve ordering; the rest of
			// the batch is retried on the next tick.
			w.logger.Warn("audit publish failed, will retry", "event_id", row.ID, "error", err)
			break
		}
		published = append(published, row.ID)
	}

	if len(published) == 0 {
		return nil
	}
	if err := w.store.MarkPublished(txCtx, published); err != nil {
		return err
	}
	return tx.Commit()
}
