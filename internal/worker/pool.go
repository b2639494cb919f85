package worker

import (
	"context"
	"encoding/json"
	"time"

	"luminapos/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// maxAttempts before a stock sync job is parked in the DLQ for manual
// reconciliation.
const maxAttempts = 3

// StockSyncPayload mirrors what settlement enqueues per settled sale.
type StockSyncPayload struct {
	TransactionID string           `json:"transaction_id"`
	Lines         []model.SaleLine `json:"lines"`
}

// InventoryAdjuster is the slice of the inventory service the pool consumes.
// Declared here so nothing in worker imports the service layer.
type InventoryAdjuster interface {
	ApplySale(ctx context.Context, txnID uuid.UUID, lines []model.SaleLine) error
}

// Handlers holds the dependencies the pool needs. Wired at the composition root.
type Handlers struct {
	Inventory  InventoryAdjuster
	Dispatcher *Dispatcher
}

// StartPool launches numWorkers goroutines consuming the stock sync queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartPool(ctx context.Context, rdb *redis.Client, h *Handlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, h, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, h *Handlers, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueStockSync).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, h, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, h *Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	var payload StockSyncPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, "bad payload: "+err.Error(), job.Attempts)
		return
	}
	txnID, err := uuid.Parse(payload.TransactionID)
	if err != nil {
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, "bad transaction id", job.Attempts)
		return
	}

	if err := h.Inventory.ApplySale(ctx, txnID, payload.Lines); err != nil {
		job.Attempts++
		if job.Attempts >= maxAttempts {
			SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
			return
		}
		log.Warn().
			Str("transaction_id", payload.TransactionID).
			Int("attempts", job.Attempts).
			Err(err).
			Msg("stock sync failed, requeueing")
		if reqErr := h.Dispatcher.requeue(ctx, queue, job); reqErr != nil {
			SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, reqErr.Error(), job.Attempts)
		}
		return
	}

	log.Info().Str("transaction_id", payload.TransactionID).Msg("stock sync applied")
}
