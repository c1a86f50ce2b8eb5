package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/metrics"
)

// QuizService drives the quiz session of each chat.
type QuizService struct {
	sessions    SessionRepository
	categories  CategoryLister
	questions   TriviaQuestionSource
	preferences PreferenceStore
	logger      *zap.Logger
}

func NewQuizService(
	sessions SessionRepository,
	categories CategoryLister,
	questions TriviaQuestionSource,
	preferences PreferenceStore,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		sessions:    sessions,
		categories:  categories,
		questions:   questions,
		preferences: preferences,
		logger:      logger,
	}
}

// LoadCategories prepares the setup screen of the chat: the session is
// created if needed, stored preferences of userID are restored into a new
// session and the category list is refreshed.
func (s *QuizService) LoadCategories(ctx context.Context, chatID, userID int64) entities.SessionView {
	session := s.session(ctx, chatID, userID)
	session.SetCategories(s.categories.List(ctx))
	return session.Snapshot()
}

// SelectDifficulty sets the difficulty of the next round and saves it as a preference.
func (s *QuizService) SelectDifficulty(ctx context.Context, chatID, userID int64, difficulty entities.Difficulty) (entities.SessionView, error) {
	session := s.session(ctx, chatID, userID)
	if err := session.SelectDifficulty(difficulty); err != nil {
		return session.Snapshot(), err
	}

	if err := s.preferences.UpdateDifficulty(ctx, userID, difficulty); err != nil {
		s.logger.Warn("failed to save difficulty",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	return session.Snapshot(), nil
}

// SelectCategory sets the category filter of the next round and saves it as a
// preference. A nil categoryID means any category.
func (s *QuizService) SelectCategory(ctx context.Context, chatID, userID int64, categoryID *int) (entities.SessionView, error) {
	session := s.session(ctx, chatID, userID)
	if err := session.SelectCategory(categoryID); err != nil {
		return session.Snapshot(), err
	}

	if err := s.preferences.UpdateCategory(ctx, userID, categoryID); err != nil {
		s.logger.Warn("failed to save category",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	return session.Snapshot(), nil
}

// Start fetches a question batch and begins the round. The session lock is
// not held while the batch is fetched.
func (s *QuizService) Start(ctx context.Context, chatID int64) (entities.SessionView, error) {
	session, ok := s.sessions.Get(chatID)
	if !ok {
		return entities.SessionView{}, ErrSessionNotFound
	}

	round, err := session.BeginFetch()
	if err != nil {
		return session.Snapshot(), err
	}

	difficulty, categoryID := session.Preferences()

	started := time.Now()
	questions, err := s.questions.FetchBatch(ctx, difficulty, categoryID)
	metrics.FetchDuration.WithLabelValues(metrics.OpQuestions).Observe(time.Since(started).Seconds())
	if err != nil {
		session.AbortFetch(round)
		metrics.FetchFailures.WithLabelValues(metrics.OpQuestions).Inc()
		s.logger.Warn("failed to fetch questions",
			zap.Int64("chat_id", chatID),
			zap.String("difficulty", string(difficulty)),
			zap.Error(err),
		)
		return session.Snapshot(), fmt.Errorf("%w: %w", ErrQuestionFetchFailed, err)
	}

	if err := session.CompleteFetch(round, questions); err != nil {
		if errors.Is(err, entities.ErrStaleResult) {
			s.logger.Debug("dropping questions of an abandoned round", zap.Int64("chat_id", chatID))
			return session.Snapshot(), err
		}
		metrics.FetchFailures.WithLabelValues(metrics.OpQuestions).Inc()
		return session.Snapshot(), fmt.Errorf("%w: %w", ErrQuestionFetchFailed, err)
	}

	metrics.QuizzesStarted.WithLabelValues(string(difficulty)).Inc()
	s.logger.Info("quiz started",
		zap.Int64("chat_id", chatID),
		zap.String("difficulty", string(difficulty)),
		zap.Int("questions", len(questions)),
	)

	return session.Snapshot(), nil
}

// Answer records the choice at choiceIndex for the question identified by
// round and index. Buttons of an earlier question or round yield ErrStaleAction.
func (s *QuizService) Answer(_ context.Context, chatID int64, round uint64, index, choiceIndex int) (entities.AnsweredQuestion, entities.SessionView, error) {
	session, ok := s.sessions.Get(chatID)
	if !ok {
		return entities.AnsweredQuestion{}, entities.SessionView{}, ErrSessionNotFound
	}

	answered, applied, err := session.AnswerAt(round, index, choiceIndex)
	if err != nil {
		return entities.AnsweredQuestion{}, session.Snapshot(), err
	}
	if applied {
		metrics.Answers.WithLabelValues(metrics.AnswerResult(answered.IsCorrect)).Inc()
	}

	return answered, session.Snapshot(), nil
}

// Next leaves the question identified by round and index.
func (s *QuizService) Next(_ context.Context, chatID int64, round uint64, index int) (entities.SessionView, error) {
	session, ok := s.sessions.Get(chatID)
	if !ok {
		return entities.SessionView{}, ErrSessionNotFound
	}

	stage, err := session.NextAt(round, index)
	if err != nil {
		return session.Snapshot(), err
	}

	view := session.Snapshot()
	if stage == entities.StageFinished {
		metrics.QuizzesFinished.Inc()
		s.logger.Info("quiz finished",
			zap.Int64("chat_id", chatID),
			zap.Int("score", view.Score),
			zap.Int("total", view.Total),
		)
	}

	return view, nil
}

// Restart abandons the current round and returns the chat to setup.
func (s *QuizService) Restart(ctx context.Context, chatID, userID int64) entities.SessionView {
	session := s.session(ctx, chatID, userID)
	session.Restart()
	return session.Snapshot()
}

// View returns the current state of the chat's session.
func (s *QuizService) View(chatID int64) (entities.SessionView, error) {
	session, ok := s.sessions.Get(chatID)
	if !ok {
		return entities.SessionView{}, ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// session returns the chat's session. A new session gets the stored
// preferences of userID.
func (s *QuizService) session(ctx context.Context, chatID, userID int64) *entities.QuizSession {
	session, created := s.sessions.GetOrCreate(chatID)
	if !created {
		return session
	}
	metrics.ActiveSessions.Set(float64(s.sessions.Len()))

	settings, err := s.preferences.GetOrCreate(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load preferences",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return session
	}

	if err := session.SelectDifficulty(settings.Difficulty); err != nil {
		s.logger.Warn("ignoring stored difficulty",
			zap.Int64("user_id", userID),
			zap.String("difficulty", string(settings.Difficulty)),
		)
	}
	_ = session.SelectCategory(settings.CategoryID)

	return session
}
