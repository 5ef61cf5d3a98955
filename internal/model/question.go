package model

import (
	"github.com/google/uuid"
)

// Difficulty enumerates question difficulty levels.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"

	// DifficultyAll is a filter-only value meaning "no difficulty filter".
	// It is never stored on a question.
	DifficultyAll Difficulty = "all"
)

// Valid reports whether d names a storable difficulty level.
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Option is a single answer choice. The ID is stable across option
// reordering, so grading compares identities rather than positions.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question represents a single catalog question. Immutable once loaded.
type Question struct {
	ID              uuid.UUID  `json:"id"`
	CategoryID      uuid.UUID  `json:"category_id"`
	Prompt          string     `json:"prompt"`
	Options         []Option   `json:"options"`
	CorrectOptionID string     `json:"-"`
	Difficulty      Difficulty `json:"difficulty"`
}

// Matches reports whether the question belongs to one of the given
// categories and satisfies the difficulty filter. DifficultyAll (or the
// empty string) matches every difficulty.
func (q Question) Matches(categoryIDs []uuid.UUID, difficulty Difficulty) bool {
	inCategory := false
	for _, id := range categoryIDs {
		if q.CategoryID == id {
			inCategory = true
			break
		}
	}
	if !inCategory {
		return false
	}
	if difficulty == "" || difficulty == DifficultyAll {
		return true
	}
	return q.Difficulty == difficulty
}

// QuestionForPlayer is a question without the correct option, sent to clients.
type QuestionForPlayer struct {
	ID         uuid.UUID  `json:"id"`
	CategoryID uuid.UUID  `json:"category_id"`
	Prompt     string     `json:"prompt"`
	Options    []Option   `json:"options"`
	Difficulty Difficulty `json:"difficulty"`
}

// ForPlayer strips the correct option from a question.
func (q Question) ForPlayer() QuestionForPlayer {
	return QuestionForPlayer{
		ID:         q.ID,
		CategoryID: q.CategoryID,
		Prompt:     q.Prompt,
		Options:    q.Options,
		Difficulty: q.Difficulty,
	}
}
