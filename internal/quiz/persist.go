package quiz

import (
	"context"

	"github.com/mediquiz/mediquiz-backend/internal/model"
)

// ResultPersister saves a completed session's summary to durable
// storage. The engine invokes it fire-and-forget on completion: a
// persist failure is logged and reported to the observer, but the
// session stays completed in memory. Losing a history record is
// preferable to blocking the player's perceived completion.
type ResultPersister interface {
	Persist(ctx context.Context, summary model.SessionSummary) error
}

// PersistObserver receives persist failures from the engine so an
// embedding application can react (surface a banner, schedule a retry).
// It runs on the persist goroutine.
type PersistObserver func(err error)

// PersisterFunc adapts a function to the ResultPersister interface.
type PersisterFunc func(ctx context.Context, summary model.SessionSummary) error

// Persist calls f.
func (f PersisterFunc) Persist(ctx context.Context, summary model.SessionSummary) error {
	return f(ctx, summary)
}
