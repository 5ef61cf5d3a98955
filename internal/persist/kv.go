// Package persist implements the durable side of result persistence:
// an append-only collection of session summaries in a key-value store,
// plus a queue feeding the relational history worker.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mediquiz/mediquiz-backend/internal/model"
)

// collectionMu serializes the load-append-store cycle on the shared
// collection key. Every player's persister writes the same key, and the
// engine fires Persist on its own goroutine per completion; without
// this lock two concurrent completions read the same collection and the
// second Set drops the first append.
var collectionMu sync.Mutex

// KVStore is the durable string key-value facility the persister
// appends to. Get reports whether the key exists.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// ResultQueue hands a persisted summary to the background history
// worker. Optional: a nil queue skips the hand-off.
type ResultQueue interface {
	Enqueue(ctx context.Context, payload []byte) error
}

// QueuedResult is the queue payload consumed by the history worker.
type QueuedResult struct {
	PlayerID string               `json:"player_id"`
	Summary  model.SessionSummary `json:"summary"`
}

// KVPersister appends completed-session summaries to a JSON array under
// a single collection key. It satisfies quiz.ResultPersister.
type KVPersister struct {
	store    KVStore
	queue    ResultQueue
	key      string
	playerID string
	log      zerolog.Logger
}

// NewKVPersister creates a persister writing to collectionKey on behalf
// of playerID. queue may be nil.
func NewKVPersister(store KVStore, queue ResultQueue, collectionKey, playerID string, log zerolog.Logger) *KVPersister {
	return &KVPersister{
		store:    store,
		queue:    queue,
		key:      collectionKey,
		playerID: playerID,
		log:      log.With().Str("component", "kv_persister").Logger(),
	}
}

// Persist appends the summary to the collection and enqueues it for the
// history worker. The KV append is the durable write; a queue failure
// after a successful append is logged but not returned, since the
// record is already safe.
func (p *KVPersister) Persist(ctx context.Context, summary model.SessionSummary) error {
	if err := p.append(ctx, summary); err != nil {
		return err
	}

	if p.queue != nil {
		payload, err := json.Marshal(QueuedResult{PlayerID: p.playerID, Summary: summary})
		if err == nil {
			err = p.queue.Enqueue(ctx, payload)
		}
		if err != nil {
			p.log.Warn().Err(err).
				Str("session_id", summary.ID.String()).
				Msg("History queue hand-off failed")
		}
	}

	return nil
}

// append performs the read-modify-write under collectionMu so
// concurrent completions from different players never lose records.
func (p *KVPersister) append(ctx context.Context, summary model.SessionSummary) error {
	collectionMu.Lock()
	defer collectionMu.Unlock()

	records, err := p.load(ctx)
	if err != nil {
		return err
	}

	entry, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	records = append(records, entry)

	encoded, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}
	if err := p.store.Set(ctx, p.key, string(encoded)); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	return nil
}

// load reads the existing collection. A missing key yields an empty
// collection; a corrupt value is discarded with a warning so a single
// bad write cannot wedge persistence forever.
func (p *KVPersister) load(ctx context.Context) ([]json.RawMessage, error) {
	raw, found, err := p.store.Get(ctx, p.key)
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}
	if !found || raw == "" {
		return nil, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		p.log.Warn().Err(err).Str("key", p.key).Msg("Corrupt result collection, starting fresh")
		return nil, nil
	}
	return records, nil
}
