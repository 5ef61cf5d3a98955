package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mediquiz/mediquiz-backend/internal/config"
	"github.com/mediquiz/mediquiz-backend/internal/handler"
	"github.com/mediquiz/mediquiz-backend/internal/middleware"
	"github.com/mediquiz/mediquiz-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Catalog *handler.CatalogHandler
	Quiz    *handler.QuizHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", middleware.PlayerIDHeader, "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Unknown paths get the envelope too, not Gin's bare 404.
	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	// ─── 1. Catalog Group (No Player Scope) ────────────────────────────
	catalog := router.Group("/api/v1/catalog")
	{
		catalog.GET("/categories", handlers.Catalog.ListCategories)
		catalog.GET("/availability", handlers.Catalog.CheckAvailability)
	}

	// Rate limiter for session mutations (120 requests per minute per IP):
	// generous enough for rapid play, tight enough to blunt scripted abuse.
	quizLimiter := middleware.NewRateLimiter(120, time.Minute)

	// ─── 2. Quiz Group (Player-Scoped) ─────────────────────────────────
	quiz := router.Group("/api/v1/quiz")
	quiz.Use(middleware.RequirePlayerID())
	{
		quiz.GET("/session", handlers.Quiz.GetSession)
		quiz.GET("/results", handlers.Quiz.History)

		mutations := quiz.Group("")
		mutations.Use(quizLimiter.Middleware())
		{
			mutations.POST("/start", handlers.Quiz.Start)
			mutations.POST("/select", handlers.Quiz.SelectAnswer)
			mutations.POST("/submit", handlers.Quiz.SubmitAnswer)
			mutations.POST("/next", handlers.Quiz.NextQuestion)
			mutations.POST("/previous", handlers.Quiz.PreviousQuestion)
			mutations.POST("/reset", handlers.Quiz.Reset)
		}
	}

	// ─── 3. WebSocket (Player-Scoped) ──────────────────────────────────
	wsGroup := router.Group("/ws/v1/quiz")
	wsGroup.Use(middleware.RequirePlayerID())
	{
		wsGroup.GET("/stream", handlers.WS.QuizStream)
	}

	return router
}
