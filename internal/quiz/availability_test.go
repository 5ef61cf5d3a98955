package quiz

import (
	"testing"

	"github.com/google/uuid"

	"github.com/mediquiz/mediquiz-backend/internal/model"
)

func TestCheckAvailability(t *testing.T) {
	cardio := uuid.New()
	pharma := uuid.New()
	pool := StaticPool{
		makeQuestion(cardio, model.DifficultyEasy, 0),
		makeQuestion(cardio, model.DifficultyEasy, 0),
		makeQuestion(cardio, model.DifficultyHard, 0),
		makeQuestion(pharma, model.DifficultyMedium, 0),
	}

	cases := []struct {
		name        string
		categoryIDs []uuid.UUID
		difficulty  model.Difficulty
		want        int
	}{
		{"SingleCategoryAndDifficulty", []uuid.UUID{cardio}, model.DifficultyEasy, 2},
		{"SingleCategoryAllDifficulties", []uuid.UUID{cardio}, model.DifficultyAll, 3},
		{"ZeroValueDifficultyMeansAll", []uuid.UUID{cardio}, "", 3},
		{"MultipleCategories", []uuid.UUID{cardio, pharma}, model.DifficultyAll, 4},
		{"NoMatches", []uuid.UUID{uuid.New()}, model.DifficultyAll, 0},
		{"DifficultyExcludesEverything", []uuid.UUID{pharma}, model.DifficultyHard, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CheckAvailability(pool, tc.categoryIDs, tc.difficulty); got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}

	t.Run("EmptyCategorySetSkipsPool", func(t *testing.T) {
		counting := &countingPool{pool: pool}
		if got := CheckAvailability(counting, nil, model.DifficultyAll); got != 0 {
			t.Fatalf("got %d for empty category set, want 0", got)
		}
		if counting.calls != 0 {
			t.Fatal("pool queried for an empty category set")
		}
	})

	t.Run("PureQuery", func(t *testing.T) {
		first := CheckAvailability(pool, []uuid.UUID{cardio}, model.DifficultyEasy)
		second := CheckAvailability(pool, []uuid.UUID{cardio}, model.DifficultyEasy)
		if first != second {
			t.Fatalf("repeated calls disagree: %d vs %d", first, second)
		}
	})
}
