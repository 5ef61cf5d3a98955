package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mediquiz/mediquiz-backend/internal/middleware"
	"github.com/mediquiz/mediquiz-backend/internal/service"
	ws "github.com/mediquiz/mediquiz-backend/internal/websocket"
)

// statePushInterval matches the countdown tick, so timed-mode clients
// see the remaining seconds move once per second.
const statePushInterval = time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live session state over WebSocket.
type WSHandler struct {
	quizService *service.QuizService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(quizService *service.QuizService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		quizService: quizService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// QuizStream godoc
// WS /ws/v1/quiz/stream
// Pushes the player session view once per second, so a timed
// client tracks the countdown without polling. Responds to pings.
func (h *WSHandler) QuizStream(c *gin.Context) {
	playerID := middleware.GetPlayerID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("player_id", playerID).Logger()
	wsLog.Info().Msg("Player connected")

	// The connection has exactly one writer: the select loop below.
	// The reader never writes; it signals pings and protocol errors
	// over channels so pong and error frames come from the same
	// goroutine as the state pushes.
	done := make(chan struct{})
	pings := make(chan struct{}, 4)
	protoErrs := make(chan string, 4)
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Connection closed")
				}
				return
			}
			switch msg.Action {
			case ws.ActionPing:
				select {
				case pings <- struct{}{}:
				default:
				}
			default:
				select {
				case protoErrs <- "unknown action":
				default:
				}
			}
		}
	}()

	ticker := time.NewTicker(statePushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}
		case errMsg := <-protoErrs:
			if err := ws.WriteError(conn, errMsg); err != nil {
				return
			}
		case <-ticker.C:
			var data interface{}
			if view := h.quizService.View(playerID); view != nil {
				data = view
			}
			if err := ws.WriteTyped(conn, ws.StateResponse{Event: ws.EventState, Data: data}); err != nil {
				wsLog.Debug().Err(err).Msg("State push failed, closing")
				return
			}
		}
	}
}
