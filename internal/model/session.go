package model

import (
	"time"

	"github.com/google/uuid"
)

// Mode enumerates quiz session variants.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeTimed    Mode = "timed"
	ModePractice Mode = "practice"
)

// Valid reports whether m is a known session mode.
func (m Mode) Valid() bool {
	return m == ModeStandard || m == ModeTimed || m == ModePractice
}

// Answer is the recorded outcome of one submitted question.
// OptionIndex is nil when the timer expired before any option was
// chosen; such an answer is always incorrect.
type Answer struct {
	OptionIndex *int `json:"option_index"`
	Correct     bool `json:"correct"`
}

// QuizSession is one attempt at a set of questions, from start to
// completion or abandonment. Questions are snapshotted at creation and
// never change afterwards; Answers has one slot per question and a nil
// slot means the question has not been submitted yet.
type QuizSession struct {
	ID                   uuid.UUID   `json:"id"`
	CategoryID           uuid.UUID   `json:"category_id"`
	Questions            []Question  `json:"-"`
	Answers              []*Answer   `json:"answers"`
	CurrentQuestionIndex int         `json:"current_question_index"`
	SelectedAnswer       *int        `json:"selected_answer,omitempty"`
	IsAnswerSubmitted    bool        `json:"is_answer_submitted"`
	Score                int         `json:"score"`
	CorrectAnswers       int         `json:"correct_answers"`
	Mode                 Mode        `json:"mode"`
	Difficulty           Difficulty  `json:"difficulty"`
	IsCompleted          bool        `json:"is_completed"`
	StartedAt            time.Time   `json:"started_at"`
	CompletedAt          *time.Time  `json:"completed_at,omitempty"`
}

// Summary builds the persisted record for a completed session.
func (s *QuizSession) Summary() SessionSummary {
	var completedAt time.Time
	var timeTaken float64
	if s.CompletedAt != nil {
		completedAt = *s.CompletedAt
		timeTaken = completedAt.Sub(s.StartedAt).Seconds()
	}
	return SessionSummary{
		ID:             s.ID,
		CategoryID:     s.CategoryID,
		Score:          s.Score,
		TotalQuestions: len(s.Questions),
		CorrectAnswers: s.CorrectAnswers,
		TimeTaken:      timeTaken,
		Mode:           s.Mode,
		Difficulty:     s.Difficulty,
		StartedAt:      s.StartedAt,
		CompletedAt:    completedAt,
	}
}

// StartQuizRequest is the payload for starting a new quiz session.
type StartQuizRequest struct {
	CategoryIDs   []uuid.UUID `json:"category_ids"`
	QuestionCount int         `json:"question_count" binding:"required,min=1,max=100"`
	Difficulty    Difficulty  `json:"difficulty" binding:"omitempty,oneof=easy medium hard all"`
	Mode          Mode        `json:"mode" binding:"required,oneof=standard timed practice"`
}

// SelectAnswerRequest is the payload for selecting an option.
type SelectAnswerRequest struct {
	OptionIndex int `json:"option_index" binding:"min=0"`
}

// SessionSummary is the append-only history record written when a
// session completes. Field names match the stored JSON shape consumed
// by downstream history and analytics features.
type SessionSummary struct {
	ID             uuid.UUID  `json:"id"`
	CategoryID     uuid.UUID  `json:"categoryId"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"totalQuestions"`
	CorrectAnswers int        `json:"correctAnswers"`
	TimeTaken      float64    `json:"timeTaken"`
	Mode           Mode       `json:"mode"`
	Difficulty     Difficulty `json:"difficulty"`
	StartedAt      time.Time  `json:"startedAt"`
	CompletedAt    time.Time  `json:"completedAt"`
}
