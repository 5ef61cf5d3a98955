package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mediquiz/mediquiz-backend/internal/model"
)

// ResultRepository handles the append-only session result history.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Insert appends one completed session. The session ID is the primary
// key, so a worker retry of an already written record is harmless.
func (r *ResultRepository) Insert(ctx context.Context, playerID string, s *model.SessionSummary) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO session_results
		   (id, player_id, category_id, score, total_questions, correct_answers,
		    time_taken_seconds, mode, difficulty, started_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO NOTHING`,
		s.ID, playerID, s.CategoryID, s.Score, s.TotalQuestions, s.CorrectAnswers,
		s.TimeTaken, s.Mode, s.Difficulty, s.StartedAt, s.CompletedAt,
	)
	return err
}

// ListByPlayer retrieves a player's result history, newest first.
func (r *ResultRepository) ListByPlayer(ctx context.Context, playerID string, limit, offset int) ([]model.SessionSummary, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM session_results WHERE player_id = $1`, playerID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, category_id, score, total_questions, correct_answers,
		        time_taken_seconds, mode, difficulty, started_at, completed_at
		 FROM session_results
		 WHERE player_id = $1
		 ORDER BY completed_at DESC
		 LIMIT $2 OFFSET $3`,
		playerID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []model.SessionSummary
	for rows.Next() {
		var s model.SessionSummary
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Score, &s.TotalQuestions, &s.CorrectAnswers,
			&s.TimeTaken, &s.Mode, &s.Difficulty, &s.StartedAt, &s.CompletedAt); err != nil {
			return nil, 0, err
		}
		results = append(results, s)
	}
	return results, total, rows.Err()
}
