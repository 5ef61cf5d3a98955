package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mediquiz/mediquiz-backend/internal/model"
	"github.com/mediquiz/mediquiz-backend/internal/repository"
)

// CatalogService serves the question catalog from an in-memory
// snapshot loaded at startup. The snapshot is immutable between
// reloads, so it can back concurrent availability checks and session
// starts without locking on the read path. It implements
// quiz.QuestionPool.
type CatalogService struct {
	repo *repository.CatalogRepository
	log  zerolog.Logger

	mu         sync.RWMutex
	questions  []model.Question
	categories []model.Category
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo *repository.CatalogRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		repo: repo,
		log:  log.With().Str("component", "catalog_service").Logger(),
	}
}

// Prewarm loads the full catalog into memory. Called before the server
// accepts traffic; sessions always start against a fully loaded pool.
func (s *CatalogService) Prewarm(ctx context.Context) error {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	questions, err := s.repo.ListQuestions(ctx)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}

	s.mu.Lock()
	s.categories = categories
	s.questions = questions
	s.mu.Unlock()

	s.log.Info().
		Int("categories", len(categories)).
		Int("questions", len(questions)).
		Msg("Catalog loaded")
	return nil
}

// GetAll returns the loaded question snapshot. Callers must treat the
// slice as read-only.
func (s *CatalogService) GetAll() []model.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.questions
}

// Categories returns the loaded categories.
func (s *CatalogService) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories
}
