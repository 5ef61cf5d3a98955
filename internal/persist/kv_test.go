package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mediquiz/mediquiz-backend/internal/model"
)

type fakeStore struct {
	data   map[string]string
	getErr error
	setErr error
	sets   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}}
}

func (s *fakeStore) Get(_ context.Context, key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *fakeStore) Set(_ context.Context, key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.sets++
	s.data[key] = value
	return nil
}

type fakeQueue struct {
	payloads [][]byte
	err      error
}

func (q *fakeQueue) Enqueue(_ context.Context, payload []byte) error {
	if q.err != nil {
		return q.err
	}
	q.payloads = append(q.payloads, payload)
	return nil
}

func sampleSummary() model.SessionSummary {
	now := time.Now()
	return model.SessionSummary{
		ID:             uuid.New(),
		CategoryID:     uuid.New(),
		Score:          4,
		TotalQuestions: 5,
		CorrectAnswers: 4,
		TimeTaken:      60,
		Mode:           model.ModeStandard,
		Difficulty:     model.DifficultyMedium,
		StartedAt:      now.Add(-time.Minute),
		CompletedAt:    now,
	}
}

func decodeCollection(t *testing.T, raw string) []model.SessionSummary {
	t.Helper()
	var out []model.SessionSummary
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("collection is not a JSON array: %v", err)
	}
	return out
}

const testKey = "quiz:session_results"

func TestKVPersisterAppends(t *testing.T) {
	store := newFakeStore()
	queue := &fakeQueue{}
	p := NewKVPersister(store, queue, testKey, "player-1", zerolog.Nop())

	first := sampleSummary()
	second := sampleSummary()
	for _, s := range []model.SessionSummary{first, second} {
		if err := p.Persist(context.Background(), s); err != nil {
			t.Fatalf("persist failed: %v", err)
		}
	}

	records := decodeCollection(t, store.data[testKey])
	if len(records) != 2 {
		t.Fatalf("collection has %d records, want 2", len(records))
	}
	if records[0].ID != first.ID || records[1].ID != second.ID {
		t.Fatal("collection lost append order")
	}

	if len(queue.payloads) != 2 {
		t.Fatalf("queue received %d payloads, want 2", len(queue.payloads))
	}
	var queued QueuedResult
	if err := json.Unmarshal(queue.payloads[0], &queued); err != nil {
		t.Fatalf("queue payload not decodable: %v", err)
	}
	if queued.PlayerID != "player-1" || queued.Summary.ID != first.ID {
		t.Fatalf("queue payload mismatch: %+v", queued)
	}
}

func TestKVPersisterDiscardsCorruptCollection(t *testing.T) {
	store := newFakeStore()
	store.data[testKey] = "{not an array"
	p := NewKVPersister(store, nil, testKey, "player-1", zerolog.Nop())

	summary := sampleSummary()
	if err := p.Persist(context.Background(), summary); err != nil {
		t.Fatalf("persist failed on corrupt collection: %v", err)
	}

	records := decodeCollection(t, store.data[testKey])
	if len(records) != 1 || records[0].ID != summary.ID {
		t.Fatalf("corrupt collection not replaced: %+v", records)
	}
}

func TestKVPersisterStoreErrors(t *testing.T) {
	t.Run("ReadFailure", func(t *testing.T) {
		store := newFakeStore()
		store.getErr = errors.New("connection refused")
		p := NewKVPersister(store, nil, testKey, "player-1", zerolog.Nop())

		if err := p.Persist(context.Background(), sampleSummary()); err == nil {
			t.Fatal("expected read failure to surface")
		}
		if store.sets != 0 {
			t.Fatal("persister wrote despite failed read")
		}
	})

	t.Run("WriteFailure", func(t *testing.T) {
		store := newFakeStore()
		store.setErr = errors.New("connection refused")
		queue := &fakeQueue{}
		p := NewKVPersister(store, queue, testKey, "player-1", zerolog.Nop())

		if err := p.Persist(context.Background(), sampleSummary()); err == nil {
			t.Fatal("expected write failure to surface")
		}
		if len(queue.payloads) != 0 {
			t.Fatal("summary queued despite failed durable write")
		}
	})
}

// slowStore is a safe-for-concurrent-use store whose Get lingers, so an
// unserialized read-modify-write would interleave and drop appends.
type slowStore struct {
	mu   sync.Mutex
	data map[string]string
}

func (s *slowStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	v, ok := s.data[key]
	s.mu.Unlock()
	time.Sleep(time.Millisecond)
	return v, ok, nil
}

func (s *slowStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func TestKVPersisterConcurrentAppends(t *testing.T) {
	store := &slowStore{data: map[string]string{}}

	// One persister per player, all sharing the collection key, all
	// persisting at once: the shape of many sessions completing
	// together. Every summary must survive.
	const players = 50
	var wg sync.WaitGroup
	errs := make(chan error, players)
	for i := 0; i < players; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := NewKVPersister(store, nil, testKey, fmt.Sprintf("player-%d", i), zerolog.Nop())
			errs <- p.Persist(context.Background(), sampleSummary())
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("persist failed: %v", err)
		}
	}

	raw, _, _ := store.Get(context.Background(), testKey)
	records := decodeCollection(t, raw)
	if len(records) != players {
		t.Fatalf("collection has %d records, want %d: concurrent appends were lost", len(records), players)
	}
}

func TestKVPersisterQueueFailureIsNonFatal(t *testing.T) {
	store := newFakeStore()
	queue := &fakeQueue{err: errors.New("queue down")}
	p := NewKVPersister(store, queue, testKey, "player-1", zerolog.Nop())

	if err := p.Persist(context.Background(), sampleSummary()); err != nil {
		t.Fatalf("queue failure surfaced after durable write: %v", err)
	}
	if records := decodeCollection(t, store.data[testKey]); len(records) != 1 {
		t.Fatalf("durable write lost: %d records", len(records))
	}
}
