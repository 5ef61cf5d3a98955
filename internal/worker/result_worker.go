package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mediquiz/mediquiz-backend/internal/config"
	"github.com/mediquiz/mediquiz-backend/internal/persist"
	"github.com/mediquiz/mediquiz-backend/internal/repository"
)

// ResultWorker consumes persist_results_queue and writes completed
// session summaries into the relational history table. The KV append
// has already made the record durable by the time it reaches this
// queue, so the worker only owns the queryable copy.
type ResultWorker struct {
	resultRepo *repository.ResultRepository
	rdb        *redis.Client
	log        zerolog.Logger
}

// NewResultWorker creates a new ResultWorker.
func NewResultWorker(resultRepo *repository.ResultRepository, rdb *redis.Client, log zerolog.Logger) *ResultWorker {
	return &ResultWorker{
		resultRepo: resultRepo,
		rdb:        rdb,
		log:        log.With().Str("component", "result_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *ResultWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *ResultWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.QueueKey.PersistResultsQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var payload persist.QueuedResult
	if err := json.Unmarshal([]byte(result[1]), &payload); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	if err := w.resultRepo.Insert(ctx, payload.PlayerID, &payload.Summary); err != nil {
		w.log.Error().Err(err).
			Str("player_id", payload.PlayerID).
			Str("session_id", payload.Summary.ID.String()).
			Msg("Persist error, retrying in 5s")
		// Push back to queue for retry. The insert is idempotent on
		// session ID, so a double-processed item is harmless.
		w.rdb.RPush(ctx, config.QueueKey.PersistResultsQueue, result[1])
		time.Sleep(5 * time.Second)
	}
}

// drain processes all remaining items in the queue before shutdown.
func (w *ResultWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.QueueKey.PersistResultsQueue).Result()
		if err != nil {
			break
		}

		var payload persist.QueuedResult
		if err := json.Unmarshal([]byte(result), &payload); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}

		if err := w.resultRepo.Insert(ctx, payload.PlayerID, &payload.Summary); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, config.QueueKey.PersistResultsQueue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
