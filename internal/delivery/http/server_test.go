package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/metrics"
)

type fixedCounter int

func (c fixedCounter) Len() int { return int(c) }

func TestHealth(t *testing.T) {
	s := NewServer(":0", fixedCounter(3), zap.NewNop())

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"status":"ok"`) || !strings.Contains(body, `"sessions":3`) {
		t.Fatalf("body = %s", body)
	}
}

func TestMetrics(t *testing.T) {
	metrics.QuizzesFinished.Inc()
	s := NewServer(":0", fixedCounter(0), zap.NewNop())

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "trivia_quizzes_finished_total") {
		t.Fatal("quiz metrics not exported")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s := NewServer("127.0.0.1:0", fixedCounter(0), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("server did not stop")
	}
}
