package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mediquiz/mediquiz-backend/internal/middleware"
	"github.com/mediquiz/mediquiz-backend/internal/model"
	"github.com/mediquiz/mediquiz-backend/internal/quiz"
	"github.com/mediquiz/mediquiz-backend/internal/response"
	"github.com/mediquiz/mediquiz-backend/internal/service"
	"github.com/mediquiz/mediquiz-backend/internal/validator"
)

// QuizHandler exposes the session engine operations over HTTP.
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// Start godoc
// POST /api/v1/quiz/start
// Starts a fresh session, replacing any in-progress one.
func (h *QuizHandler) Start(c *gin.Context) {
	playerID := middleware.GetPlayerID(c)

	var req model.StartQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.quizService.Start(playerID, quiz.StartParams{
		CategoryIDs:   req.CategoryIDs,
		QuestionCount: req.QuestionCount,
		Difficulty:    req.Difficulty,
		Mode:          req.Mode,
	})
	if err != nil {
		var insufficient *quiz.InsufficientQuestionsError
		switch {
		case errors.Is(err, quiz.ErrNoCategorySelected):
			response.Fail(c, http.StatusBadRequest, response.ErrNoCategorySelected)
		case errors.Is(err, quiz.ErrNoQuestionsAvailable):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrNoQuestionsAvailable)
		case errors.As(err, &insufficient):
			response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrInsufficientQuestions, map[string]string{
				"available": strconv.Itoa(insufficient.Available),
				"requested": strconv.Itoa(insufficient.Requested),
			})
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, view)
}

// GetSession godoc
// GET /api/v1/quiz/session
func (h *QuizHandler) GetSession(c *gin.Context) {
	view := h.quizService.View(middleware.GetPlayerID(c))
	if view == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// SelectAnswer godoc
// POST /api/v1/quiz/select
// Records the in-progress choice. A select after submission (or with no
// session) is a no-op by engine contract, so the response simply
// reflects the resulting state.
func (h *QuizHandler) SelectAnswer(c *gin.Context) {
	var req model.SelectAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view := h.quizService.SelectAnswer(middleware.GetPlayerID(c), req.OptionIndex)
	response.Success(c, http.StatusOK, view)
}

// SubmitAnswer godoc
// POST /api/v1/quiz/submit
func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	view := h.quizService.SubmitAnswer(middleware.GetPlayerID(c))
	response.Success(c, http.StatusOK, view)
}

// NextQuestion godoc
// POST /api/v1/quiz/next
func (h *QuizHandler) NextQuestion(c *gin.Context) {
	view := h.quizService.NextQuestion(middleware.GetPlayerID(c))
	response.Success(c, http.StatusOK, view)
}

// PreviousQuestion godoc
// POST /api/v1/quiz/previous
func (h *QuizHandler) PreviousQuestion(c *gin.Context) {
	view := h.quizService.PreviousQuestion(middleware.GetPlayerID(c))
	response.Success(c, http.StatusOK, view)
}

// Reset godoc
// POST /api/v1/quiz/reset
// Discards the session. Always succeeds, with or without one.
func (h *QuizHandler) Reset(c *gin.Context) {
	h.quizService.Reset(middleware.GetPlayerID(c))
	response.Success(c, http.StatusOK, gin.H{"status": "reset"})
}

// History godoc
// GET /api/v1/quiz/results?page=1&per_page=20
func (h *QuizHandler) History(c *gin.Context) {
	playerID := middleware.GetPlayerID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	results, total, err := h.quizService.History(c.Request.Context(), playerID, perPage, (page-1)*perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if results == nil {
		results = []model.SessionSummary{}
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"results": results}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}
