package worker

// reconcile_cron.go
// Background goroutine that periodically recomputes variant-parent stock
// aggregates. Best-effort stock sync means drift is possible; this cron is
// the correcting counterpart — sales are never voided over stock errors.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const reconcileTickInterval = 5 * time.Minute

// AggregateReconciler recomputes variant-parent stock aggregates and reports
// how many products were corrected.
type AggregateReconciler interface {
	ReconcileAggregates(ctx context.Context) (int, error)
}

// StartReconcileCron launches a background goroutine that ticks every 5m and
// reconciles product aggregates. It respects the context for graceful shutdown.
func StartReconcileCron(ctx context.Context, inventory AggregateReconciler) {
	go func() {
		ticker := time.NewTicker(reconcileTickInterval)
		defer ticker.Stop()

		log.Info().Msg("reconcile_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("reconcile_cron: shutting down")
				return
			case <-ticker.C:
				corrected, err := inventory.ReconcileAggregates(ctx)
				if err != nil {
					log.Error().Err(err).Msg("reconcile_cron: reconciliation failed")
					continue
				}
				if corrected > 0 {
					log.Warn().Int("corrected", corrected).Msg("reconcile_cron: aggregate drift corrected")
				}
			}
		}
	}()
}
