package quiz

import (
	"github.com/google/uuid"

	"github.com/mediquiz/mediquiz-backend/internal/model"
)

// CheckAvailability counts the questions matching the category set and
// difficulty filter. It is a pure query: no side effects, safe to call
// repeatedly and concurrently. An empty category set returns 0 without
// touching the pool, since a session can never start without one.
func CheckAvailability(pool QuestionPool, categoryIDs []uuid.UUID, difficulty model.Difficulty) int {
	if len(categoryIDs) == 0 {
		return 0
	}
	count := 0
	for _, q := range pool.GetAll() {
		if q.Matches(categoryIDs, difficulty) {
			count++
		}
	}
	return count
}
