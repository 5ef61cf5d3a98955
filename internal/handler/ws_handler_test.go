package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mediquiz/mediquiz-backend/internal/middleware"
	"github.com/mediquiz/mediquiz-backend/internal/model"
	"github.com/mediquiz/mediquiz-backend/internal/quiz"
	"github.com/mediquiz/mediquiz-backend/internal/service"
)

type nullStore struct {
	mu   sync.Mutex
	data map[string]string
}

func (s *nullStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *nullStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func wsTestPool(categoryID uuid.UUID) quiz.StaticPool {
	var pool quiz.StaticPool
	for i := 0; i < 3; i++ {
		q := model.Question{
			ID:         uuid.New(),
			CategoryID: categoryID,
			Prompt:     "prompt",
			Difficulty: model.DifficultyEasy,
			Options: []model.Option{
				{ID: "opt_1", Text: "a"},
				{ID: "opt_2", Text: "b"},
			},
		}
		q.CorrectOptionID = "opt_1"
		pool = append(pool, q)
	}
	return pool
}

// dialStream stands up the full route (player middleware included) and
// returns a connected client.
func dialStream(t *testing.T, svc *service.QuizService) (*websocket.Conn, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewWSHandler(svc, zerolog.Nop(), nil)
	r := gin.New()
	r.GET("/ws/v1/quiz/stream", middleware.RequirePlayerID(), h.QuizStream)
	srv := httptest.NewServer(r)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/v1/quiz/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{
		middleware.PlayerIDHeader: []string{"stream-player"},
	})
	if err != nil {
		srv.Close()
		t.Fatalf("dial failed: %v", err)
	}
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

// readEvent reads frames until one with the wanted event arrives,
// skipping interleaved state pushes.
func readEvent(t *testing.T, conn *websocket.Conn, want string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)
		var frame map[string]any
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("read failed waiting for %q: %v", want, err)
		}
		if frame["event"] == want {
			return frame
		}
	}
	t.Fatalf("no %q event before deadline", want)
	return nil
}

func TestQuizStreamPingsDuringStatePushes(t *testing.T) {
	categoryID := uuid.New()
	svc := service.NewQuizService(wsTestPool(categoryID), &nullStore{data: map[string]string{}}, nil, nil, service.QuizServiceConfig{
		CollectionKey: "quiz:session_results",
		TimeLimit:     30,
	}, zerolog.Nop())

	if _, err := svc.Start("stream-player", quiz.StartParams{
		CategoryIDs:   []uuid.UUID{categoryID},
		QuestionCount: 2,
	}); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	conn, teardown := dialStream(t, svc)
	defer teardown()

	// Pings keep arriving while the ticker pushes state; every write
	// must come out of the connection intact. Run long enough to span
	// several state pushes.
	for i := 0; i < 10; i++ {
		if err := conn.WriteJSON(map[string]string{"action": "ping"}); err != nil {
			t.Fatalf("ping %d write failed: %v", i, err)
		}
		readEvent(t, conn, "pong")
		time.Sleep(150 * time.Millisecond)
	}

	frame := readEvent(t, conn, "state")
	if frame["data"] == nil {
		t.Fatal("state push carried no session for an active player")
	}
}

func TestQuizStreamRejectsUnknownAction(t *testing.T) {
	categoryID := uuid.New()
	svc := service.NewQuizService(wsTestPool(categoryID), &nullStore{data: map[string]string{}}, nil, nil, service.QuizServiceConfig{
		CollectionKey: "quiz:session_results",
		TimeLimit:     30,
	}, zerolog.Nop())

	conn, teardown := dialStream(t, svc)
	defer teardown()

	if err := conn.WriteJSON(map[string]string{"action": "bogus"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	frame := readEvent(t, conn, "error")
	if frame["error"] != "unknown action" {
		t.Fatalf("unexpected error payload: %v", frame["error"])
	}
}
