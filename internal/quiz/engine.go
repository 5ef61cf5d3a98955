package quiz

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mediquiz/mediquiz-backend/internal/model"
)

const (
	// DefaultQuestionTimeLimit is the per-question countdown in timed
	// mode, in seconds.
	DefaultQuestionTimeLimit = 30

	persistTimeout = 10 * time.Second
)

// EngineConfig tunes an Engine. Zero values fall back to production
// defaults (30s per question, 1s timer tick).
type EngineConfig struct {
	QuestionTimeLimit int
	TickInterval      time.Duration
	PersistObserver   PersistObserver
}

// Engine owns a single in-progress quiz session and is the only writer
// to it. All operations are serialized by an internal mutex: UI-driven
// calls and the countdown's expiry callback arrive on different
// goroutines, and whichever of submit/time-up lands first for a
// question wins; the loser is a no-op via the submitted guard.
//
// Guard-violating calls (submit with no selection, next with no
// session) are silent no-ops rather than errors; callers are expected
// to consult the derived state but the engine never fails if they
// don't.
type Engine struct {
	mu        sync.Mutex
	pool      QuestionPool
	persister ResultPersister
	observer  PersistObserver
	log       zerolog.Logger
	timer     *CountdownTimer
	timeLimit int
	rng       *rand.Rand
	session   *model.QuizSession
}

// StartParams are the inputs to Engine.Start.
type StartParams struct {
	CategoryIDs   []uuid.UUID
	QuestionCount int
	Difficulty    model.Difficulty
	Mode          model.Mode
}

// NewEngine creates an engine over the given pool and persister.
func NewEngine(pool QuestionPool, persister ResultPersister, cfg EngineConfig, log zerolog.Logger) *Engine {
	if cfg.QuestionTimeLimit <= 0 {
		cfg.QuestionTimeLimit = DefaultQuestionTimeLimit
	}
	return &Engine{
		pool:      pool,
		persister: persister,
		observer:  cfg.PersistObserver,
		log:       log.With().Str("component", "quiz_engine").Logger(),
		timer:     NewCountdownTimer(cfg.TickInterval),
		timeLimit: cfg.QuestionTimeLimit,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start creates a fresh session from the filtered, shuffled pool,
// replacing any prior in-memory session. An abandoned in-progress
// session is lost unless the caller saved it first.
func (e *Engine) Start(params StartParams) (*model.QuizSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(params.CategoryIDs) == 0 {
		return nil, ErrNoCategorySelected
	}
	if params.QuestionCount < 1 {
		params.QuestionCount = 1
	}

	matched := filterPool(e.pool, params.CategoryIDs, params.Difficulty)
	if len(matched) == 0 {
		return nil, ErrNoQuestionsAvailable
	}
	if len(matched) < params.QuestionCount {
		return nil, &InsufficientQuestionsError{
			Available: len(matched),
			Requested: params.QuestionCount,
		}
	}

	e.rng.Shuffle(len(matched), func(i, j int) {
		matched[i], matched[j] = matched[j], matched[i]
	})

	mode := params.Mode
	if mode == "" {
		mode = model.ModeStandard
	}
	difficulty := params.Difficulty
	if difficulty == "" {
		difficulty = model.DifficultyAll
	}

	questions := matched[:params.QuestionCount]
	e.timer.Stop()
	e.session = &model.QuizSession{
		ID:         uuid.New(),
		CategoryID: params.CategoryIDs[0],
		Questions:  questions,
		Answers:    make([]*model.Answer, len(questions)),
		Mode:       mode,
		Difficulty: difficulty,
		StartedAt:  time.Now(),
	}

	if mode == model.ModeTimed {
		e.armTimerLocked()
	}

	e.log.Info().
		Str("session_id", e.session.ID.String()).
		Int("questions", len(questions)).
		Str("mode", string(mode)).
		Str("difficulty", string(difficulty)).
		Msg("Session started")

	return e.snapshotLocked(), nil
}

// SelectAnswer records the in-progress choice for the current question.
// Selection is only meaningful before submission; afterwards (or with
// no active session, or an out-of-range index) this is a no-op.
func (e *Engine) SelectAnswer(optionIndex int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s == nil || s.IsCompleted || s.IsAnswerSubmitted {
		return
	}
	if optionIndex < 0 || optionIndex >= len(s.Questions[s.CurrentQuestionIndex].Options) {
		return
	}
	s.SelectedAnswer = &optionIndex
}

// SubmitAnswer grades the selected option against the current
// question's correct option identity. No-op without an active session,
// after a prior submit, or when nothing is selected: an answer must be
// chosen before submission is permitted. The submitted guard, not
// re-grading, is what makes a duplicate call harmless.
func (e *Engine) SubmitAnswer() {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s == nil || s.IsCompleted || s.IsAnswerSubmitted || s.SelectedAnswer == nil {
		return
	}
	e.gradeLocked()
}

// NextQuestion advances the pointer, or completes the session when the
// pointer is on the last question. Completion stamps the finish time,
// stops the timer and triggers result persistence exactly once.
func (e *Engine) NextQuestion() {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s == nil || s.IsCompleted {
		return
	}

	if s.CurrentQuestionIndex == len(s.Questions)-1 {
		now := time.Now()
		s.IsCompleted = true
		s.CompletedAt = &now
		e.timer.Stop()
		e.log.Info().
			Str("session_id", s.ID.String()).
			Int("score", s.Score).
			Int("total", len(s.Questions)).
			Msg("Session completed")
		e.persistLocked()
		return
	}

	s.CurrentQuestionIndex++
	e.syncPointerLocked()
}

// PreviousQuestion moves the pointer back one question. A revisited
// question that was already submitted is shown in its graded state:
// the stored answer and submitted flag are restored, so it cannot be
// answered again.
func (e *Engine) PreviousQuestion() {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s == nil || s.IsCompleted || s.CurrentQuestionIndex == 0 {
		return
	}

	s.CurrentQuestionIndex--
	e.syncPointerLocked()
}

// Reset discards the current session entirely and cancels any pending
// timer. Always safe to call, including with no session.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.timer.Stop()
	e.session = nil
}

// Close disposes the engine's timer. The engine must not be used after
// Close.
func (e *Engine) Close() {
	e.Reset()
}

// ─── Derived read-only state ────────────────────────────────────────

// Snapshot returns a copy of the current session, or nil when there is
// no active session. Mutating the copy does not affect the engine.
func (e *Engine) Snapshot() *model.QuizSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Progress returns (currentQuestionIndex+1)/len(questions), or 0
// without a session. A completed session reports 1.
func (e *Engine) Progress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s == nil || len(s.Questions) == 0 {
		return 0
	}
	if s.IsCompleted {
		return 1
	}
	return float64(s.CurrentQuestionIndex+1) / float64(len(s.Questions))
}

// IsLastQuestion reports whether the pointer is on the final question.
func (e *Engine) IsLastQuestion() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	return s != nil && !s.IsCompleted && s.CurrentQuestionIndex == len(s.Questions)-1
}

// CanGoNext reports whether advancing is meaningful: the current
// question must have been submitted.
func (e *Engine) CanGoNext() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	return s != nil && !s.IsCompleted && s.IsAnswerSubmitted
}

// CanGoPrevious reports whether the pointer can move back.
func (e *Engine) CanGoPrevious() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	return s != nil && !s.IsCompleted && s.CurrentQuestionIndex > 0
}

// RemainingTime returns the seconds left on the current question's
// countdown; 0 for untimed sessions.
func (e *Engine) RemainingTime() int {
	return e.timer.Remaining()
}

// ─── Internals (caller holds e.mu) ──────────────────────────────────

// armTimerLocked starts the per-question countdown. The session and
// question identity are captured now and re-checked when the callback
// fires, so an expiry racing a session replacement or a pointer move is
// a no-op.
func (e *Engine) armTimerLocked() {
	sessionID := e.session.ID
	questionIndex := e.session.CurrentQuestionIndex
	e.timer.OnExpire(func() {
		e.handleTimeUp(sessionID, questionIndex)
	})
	e.timer.Start(e.timeLimit)
}

// handleTimeUp is the countdown expiry path. It forces submission with
// whatever is selected, commonly nothing, which always grades as
// incorrect. A submit that won the race makes this a no-op.
func (e *Engine) handleTimeUp(sessionID uuid.UUID, questionIndex int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s == nil || s.ID != sessionID || s.IsCompleted {
		return
	}
	if s.CurrentQuestionIndex != questionIndex || s.IsAnswerSubmitted {
		return
	}
	e.gradeLocked()
}

// gradeLocked records and grades the current question's answer, exactly
// once per question.
func (e *Engine) gradeLocked() {
	s := e.session
	idx := s.CurrentQuestionIndex
	question := s.Questions[idx]

	answer := &model.Answer{OptionIndex: s.SelectedAnswer}
	if s.SelectedAnswer != nil {
		chosen := question.Options[*s.SelectedAnswer]
		answer.Correct = chosen.ID == question.CorrectOptionID
	}
	if answer.Correct {
		s.Score++
		s.CorrectAnswers++
	}

	s.Answers[idx] = answer
	s.IsAnswerSubmitted = true
	if s.Mode == model.ModeTimed {
		e.timer.Pause()
	}
}

// syncPointerLocked aligns the per-question state after a pointer move.
// An already submitted question is restored to its graded view; an
// unanswered one starts clean and, in timed mode, gets a full fresh
// countdown.
func (e *Engine) syncPointerLocked() {
	s := e.session
	if answer := s.Answers[s.CurrentQuestionIndex]; answer != nil {
		s.IsAnswerSubmitted = true
		s.SelectedAnswer = answer.OptionIndex
		e.timer.Stop()
		return
	}

	s.IsAnswerSubmitted = false
	s.SelectedAnswer = nil
	if s.Mode == model.ModeTimed {
		e.armTimerLocked()
	}
}

// persistLocked hands the completed session's summary to the persister
// on a separate goroutine. Failure never rolls back completion; it is
// logged and forwarded to the observer when one is set.
func (e *Engine) persistLocked() {
	if e.persister == nil {
		return
	}
	summary := e.session.Summary()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := e.persister.Persist(ctx, summary); err != nil {
			e.log.Error().Err(err).
				Str("session_id", summary.ID.String()).
				Msg("Result persist failed")
			if e.observer != nil {
				e.observer(&PersistenceError{Err: err})
			}
		}
	}()
}

func (e *Engine) snapshotLocked() *model.QuizSession {
	if e.session == nil {
		return nil
	}
	copied := *e.session
	copied.Questions = append([]model.Question(nil), e.session.Questions...)
	copied.Answers = append([]*model.Answer(nil), e.session.Answers...)
	return &copied
}
