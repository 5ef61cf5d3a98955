package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mediquiz/mediquiz-backend/internal/model"
)

// CatalogRepository handles category and question data access.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// ListCategories retrieves all categories ordered by name.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, slug, created_at
		 FROM categories
		 ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ListQuestions retrieves the full question catalog.
func (r *CatalogRepository) ListQuestions(ctx context.Context) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, category_id, prompt, options, correct_option_id, difficulty
		 FROM questions`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var rawOptions json.RawMessage
		if err := rows.Scan(&q.ID, &q.CategoryID, &q.Prompt, &rawOptions, &q.CorrectOptionID, &q.Difficulty); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(rawOptions, &q.Options); err != nil {
			return nil, fmt.Errorf("decode options for question %s: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CreateCategory inserts a new category.
func (r *CatalogRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO categories (name, slug)
		 VALUES ($1, $2)
		 ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, created_at`,
		c.Name, c.Slug,
	).Scan(&c.ID, &c.CreatedAt)
}

// CreateQuestion inserts a new question.
func (r *CatalogRepository) CreateQuestion(ctx context.Context, q *model.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (category_id, prompt, options, correct_option_id, difficulty)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		q.CategoryID, q.Prompt, options, q.CorrectOptionID, q.Difficulty,
	).Scan(&q.ID)
}
