package quiz

import (
	"errors"
	"fmt"
)

// Domain errors returned by Engine.Start. These are user-correctable
// and surfaced verbatim to the caller; the engine never retries.
var (
	ErrNoCategorySelected   = errors.New("no category selected")
	ErrNoQuestionsAvailable = errors.New("no questions available for the selected filters")
)

// InsufficientQuestionsError reports that the filtered pool is smaller
// than the requested session size. Available is included so callers can
// surface "only N available" messaging.
type InsufficientQuestionsError struct {
	Available int
	Requested int
}

func (e *InsufficientQuestionsError) Error() string {
	return fmt.Sprintf("insufficient questions: %d available, %d requested", e.Available, e.Requested)
}

// PersistenceError wraps a result-persister failure. It is never
// returned from an engine operation; it is delivered to the optional
// persist observer only, because completion must not roll back when
// saving the history record fails.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist session result: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
