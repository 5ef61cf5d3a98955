package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mediquiz/mediquiz-backend/internal/model"
	"github.com/mediquiz/mediquiz-backend/internal/response"
	"github.com/mediquiz/mediquiz-backend/internal/service"
)

// CatalogHandler handles category listing and availability queries.
type CatalogHandler struct {
	catalogService *service.CatalogService
	quizService    *service.QuizService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *service.CatalogService, quizService *service.QuizService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		quizService:    quizService,
	}
}

// ListCategories godoc
// GET /api/v1/catalog/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories := h.catalogService.Categories()
	if categories == nil {
		categories = []model.Category{}
	}
	response.Success(c, http.StatusOK, gin.H{"categories": categories})
}

// CheckAvailability godoc
// GET /api/v1/catalog/availability?category_ids=a,b&difficulty=easy
// Returns the number of questions matching the filters, so callers can
// gate session starts and surface "only N available" messaging.
func (h *CatalogHandler) CheckAvailability(c *gin.Context) {
	categoryIDs, ok := parseCategoryIDs(c.Query("category_ids"))
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	difficulty := model.Difficulty(c.DefaultQuery("difficulty", string(model.DifficultyAll)))
	if difficulty != model.DifficultyAll && !difficulty.Valid() {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	available := h.quizService.CheckAvailability(categoryIDs, difficulty)
	response.Success(c, http.StatusOK, gin.H{"available": available})
}

// parseCategoryIDs splits a comma-separated UUID list. An empty input
// yields an empty slice, which downstream treats as zero availability.
func parseCategoryIDs(raw string) ([]uuid.UUID, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}
	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
