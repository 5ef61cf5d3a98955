package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mediquiz/mediquiz-backend/internal/model"
	"github.com/mediquiz/mediquiz-backend/internal/persist"
	"github.com/mediquiz/mediquiz-backend/internal/quiz"
	"github.com/mediquiz/mediquiz-backend/internal/repository"
)

// QuizService owns one quiz engine per player and adapts engine
// operations for the HTTP layer. Engines are created lazily on the
// first operation and torn down on reset.
type QuizService struct {
	pool       quiz.QuestionPool
	store      persist.KVStore
	queue      persist.ResultQueue
	resultRepo *repository.ResultRepository
	log        zerolog.Logger

	collectionKey string
	timeLimit     int
	tickInterval  time.Duration

	mu      sync.Mutex
	engines map[string]*quiz.Engine
}

// QuizServiceConfig carries the engine tuning shared by all players.
type QuizServiceConfig struct {
	CollectionKey string
	TimeLimit     int
	TickInterval  time.Duration
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	pool quiz.QuestionPool,
	store persist.KVStore,
	queue persist.ResultQueue,
	resultRepo *repository.ResultRepository,
	cfg QuizServiceConfig,
	log zerolog.Logger,
) *QuizService {
	return &QuizService{
		pool:          pool,
		store:         store,
		queue:         queue,
		resultRepo:    resultRepo,
		log:           log.With().Str("component", "quiz_service").Logger(),
		collectionKey: cfg.CollectionKey,
		timeLimit:     cfg.TimeLimit,
		tickInterval:  cfg.TickInterval,
		engines:       make(map[string]*quiz.Engine),
	}
}

// SessionView is the read-only state exposed to callers: the session
// snapshot, the current question without its answer key, and the
// derived navigation flags.
type SessionView struct {
	Session          *model.QuizSession       `json:"session"`
	CurrentQuestion  *model.QuestionForPlayer `json:"current_question,omitempty"`
	Progress         float64                  `json:"progress"`
	IsLastQuestion   bool                     `json:"is_last_question"`
	CanGoNext        bool                     `json:"can_go_next"`
	CanGoPrevious    bool                     `json:"can_go_previous"`
	RemainingSeconds int                      `json:"remaining_seconds"`
}

// CheckAvailability counts catalog questions matching the filters.
func (s *QuizService) CheckAvailability(categoryIDs []uuid.UUID, difficulty model.Difficulty) int {
	return quiz.CheckAvailability(s.pool, categoryIDs, difficulty)
}

// Start begins a new session for the player, replacing any prior one.
func (s *QuizService) Start(playerID string, params quiz.StartParams) (*SessionView, error) {
	engine := s.engineFor(playerID)
	if _, err := engine.Start(params); err != nil {
		return nil, err
	}
	return s.viewOf(engine), nil
}

// SelectAnswer records the player's in-progress choice.
func (s *QuizService) SelectAnswer(playerID string, optionIndex int) *SessionView {
	engine, ok := s.lookupEngine(playerID)
	if !ok {
		return &SessionView{}
	}
	engine.SelectAnswer(optionIndex)
	return s.viewOf(engine)
}

// SubmitAnswer grades the current question.
func (s *QuizService) SubmitAnswer(playerID string) *SessionView {
	engine, ok := s.lookupEngine(playerID)
	if !ok {
		return &SessionView{}
	}
	engine.SubmitAnswer()
	return s.viewOf(engine)
}

// NextQuestion advances the player's session.
func (s *QuizService) NextQuestion(playerID string) *SessionView {
	engine, ok := s.lookupEngine(playerID)
	if !ok {
		return &SessionView{}
	}
	engine.NextQuestion()
	return s.viewOf(engine)
}

// PreviousQuestion moves the player's session back one question.
func (s *QuizService) PreviousQuestion(playerID string) *SessionView {
	engine, ok := s.lookupEngine(playerID)
	if !ok {
		return &SessionView{}
	}
	engine.PreviousQuestion()
	return s.viewOf(engine)
}

// Reset discards the player's session and releases their engine.
func (s *QuizService) Reset(playerID string) {
	s.mu.Lock()
	engine, ok := s.engines[playerID]
	if ok {
		delete(s.engines, playerID)
	}
	s.mu.Unlock()

	if ok {
		engine.Close()
	}
}

// View returns the player's current session state, or nil when the
// player has no active session.
func (s *QuizService) View(playerID string) *SessionView {
	engine, ok := s.lookupEngine(playerID)
	if !ok {
		return nil
	}

	view := s.viewOf(engine)
	if view.Session == nil {
		return nil
	}
	return view
}

// History retrieves the player's persisted results, newest first.
func (s *QuizService) History(ctx context.Context, playerID string, limit, offset int) ([]model.SessionSummary, int, error) {
	return s.resultRepo.ListByPlayer(ctx, playerID, limit, offset)
}

// lookupEngine returns the player's engine if one exists. Only Start
// creates engines; mutations against an unknown player are no-ops, so
// arbitrary player IDs cannot grow the engine map.
func (s *QuizService) lookupEngine(playerID string) (*quiz.Engine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	engine, ok := s.engines[playerID]
	return engine, ok
}

// engineFor returns the player's engine, creating it on first use.
func (s *QuizService) engineFor(playerID string) *quiz.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()

	if engine, ok := s.engines[playerID]; ok {
		return engine
	}

	persister := persist.NewKVPersister(s.store, s.queue, s.collectionKey, playerID, s.log)
	engine := quiz.NewEngine(s.pool, persister, quiz.EngineConfig{
		QuestionTimeLimit: s.timeLimit,
		TickInterval:      s.tickInterval,
	}, s.log)
	s.engines[playerID] = engine
	return engine
}

func (s *QuizService) viewOf(engine *quiz.Engine) *SessionView {
	view := &SessionView{
		Session:        engine.Snapshot(),
		Progress:       engine.Progress(),
		IsLastQuestion: engine.IsLastQuestion(),
		CanGoNext:      engine.CanGoNext(),
		CanGoPrevious:  engine.CanGoPrevious(),
	}
	if sess := view.Session; sess != nil && !sess.IsCompleted {
		q := sess.Questions[sess.CurrentQuestionIndex].ForPlayer()
		view.CurrentQuestion = &q
		if sess.Mode == model.ModeTimed {
			view.RemainingSeconds = engine.RemainingTime()
		}
	}
	return view
}
