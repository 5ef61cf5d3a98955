package quiz

import (
	"github.com/google/uuid"

	"github.com/mediquiz/mediquiz-backend/internal/model"
)

// QuestionPool supplies the fully loaded question catalog. The returned
// slice is treated as read-only and may be shared across concurrent
// availability checks.
type QuestionPool interface {
	GetAll() []model.Question
}

// StaticPool is a QuestionPool over a fixed in-memory slice.
type StaticPool []model.Question

// GetAll returns the pool contents.
func (p StaticPool) GetAll() []model.Question {
	return p
}

// filterPool returns the questions matching the category set and
// difficulty filter, in pool order.
func filterPool(pool QuestionPool, categoryIDs []uuid.UUID, difficulty model.Difficulty) []model.Question {
	var matched []model.Question
	for _, q := range pool.GetAll() {
		if q.Matches(categoryIDs, difficulty) {
			matched = append(matched, q)
		}
	}
	return matched
}
