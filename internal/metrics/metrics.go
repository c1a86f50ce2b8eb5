package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuizzesStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trivia_quizzes_started_total",
			Help: "Rounds that received a question batch, by difficulty",
		},
		[]string{"difficulty"},
	)

	QuizzesFinished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trivia_quizzes_finished_total",
			Help: "Rounds played through to the result screen",
		},
	)

	Answers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trivia_answers_total",
			Help: "Recorded answers by outcome",
		},
		[]string{"result"},
	)

	FetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trivia_fetch_failures_total",
			Help: "Failed calls to the trivia service by operation",
		},
		[]string{"operation"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trivia_fetch_duration_seconds",
			Help:    "Duration of calls to the trivia service",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trivia_active_sessions",
			Help: "Quiz sessions held in memory",
		},
	)
)

// Operation labels.
const (
	OpCategories = "categories"
	OpQuestions  = "questions"
)

// AnswerResult returns the label for an answer outcome.
func AnswerResult(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}
