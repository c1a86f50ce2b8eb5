package entities

import (
	"errors"
	"sync"
	"time"
)

// Stage is the coarse phase of a quiz session.
type Stage string

const (
	StageSetup      Stage = "setup"
	StageInProgress Stage = "in_progress"
	StageFinished   Stage = "finished"
)

var (
	ErrInvalidStage  = errors.New("operation not allowed in current stage")
	ErrStartPending  = errors.New("quiz start already pending")
	ErrStaleResult   = errors.New("fetch result belongs to an abandoned round")
	ErrStaleAction   = errors.New("action belongs to another question or round")
	ErrNoQuestions   = errors.New("question batch is empty")
	ErrInvalidChoice = errors.New("invalid choice index")
)

// QuizSession is the in-memory state of one play-through in one chat.
// All methods are safe for concurrent use; the zero value is not usable,
// create sessions with NewQuizSession.
type QuizSession struct {
	mu sync.Mutex

	chatID     int64
	stage      Stage
	difficulty Difficulty
	categoryID *int       // nil means any category
	categories []Category // selectable list from the catalog

	questions      []Question
	currentIndex   int
	score          int
	currentChoices []string
	selectedChoice string
	answered       bool
	lastCorrect    bool

	pending    bool   // a start fetch is in flight
	generation uint64 // bumped on restart, identifies the round

	shuffle      Shuffler
	now          func() time.Time
	lastActivity time.Time
}

// NewQuizSession creates a session in the Setup stage with easy difficulty.
func NewQuizSession(chatID int64, shuffle Shuffler) *QuizSession {
	if shuffle == nil {
		shuffle = DefaultShuffler
	}
	s := &QuizSession{
		chatID:     chatID,
		stage:      StageSetup,
		difficulty: DifficultyEasy,
		shuffle:    shuffle,
		now:        time.Now,
	}
	s.lastActivity = s.now()
	return s
}

// SessionView is an immutable snapshot of a QuizSession for rendering.
type SessionView struct {
	ChatID         int64
	Stage          Stage
	Difficulty     Difficulty
	CategoryID     *int
	Categories     []Category
	Round          uint64
	Pending        bool
	CurrentIndex   int
	Total          int
	Score          int
	Question       *Question
	Choices        []string
	SelectedChoice string
	Answered       bool
	IsCorrect      bool
	Percentage     int
	LastActivity   time.Time
}

// CategoryName resolves the selected category to its display name.
func (v SessionView) CategoryName() string {
	if v.CategoryID == nil {
		return ""
	}
	for _, c := range v.Categories {
		if c.ID == *v.CategoryID {
			return c.Name
		}
	}
	return ""
}

// ChatID returns the chat that owns the session.
func (s *QuizSession) ChatID() int64 {
	return s.chatID
}

// Stage returns the current stage.
func (s *QuizSession) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Preferences returns the selected difficulty and category filter.
func (s *QuizSession) Preferences() (Difficulty, *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.difficulty, copyInt(s.categoryID)
}

// LastActivity returns the time of the last state change.
func (s *QuizSession) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// SetCategories replaces the selectable category list.
func (s *QuizSession) SetCategories(categories []Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append([]Category(nil), categories...)
	s.touch()
}

// Categories returns a copy of the selectable category list.
func (s *QuizSession) Categories() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Category(nil), s.categories...)
}

// SelectDifficulty sets the difficulty for the next round.
func (s *QuizSession) SelectDifficulty(d Difficulty) error {
	if _, err := ParseDifficulty(string(d)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != StageSetup {
		return ErrInvalidStage
	}
	s.difficulty = d
	s.touch()
	return nil
}

// SelectCategory sets the category filter for the next round; nil clears it.
func (s *QuizSession) SelectCategory(id *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != StageSetup {
		return ErrInvalidStage
	}
	s.categoryID = copyInt(id)
	s.touch()
	return nil
}

// BeginFetch marks a start as pending and returns the round it belongs to.
// Only one start may be pending at a time.
func (s *QuizSession) BeginFetch() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != StageSetup {
		return 0, ErrInvalidStage
	}
	if s.pending {
		return 0, ErrStartPending
	}
	s.pending = true
	s.touch()
	return s.generation, nil
}

// CompleteFetch applies a fetched batch to the round started by BeginFetch.
// Results for a round that was restarted in the meantime are dropped.
func (s *QuizSession) CompleteFetch(round uint64, questions []Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if round != s.generation || !s.pending {
		return ErrStaleResult
	}
	s.pending = false
	s.touch()

	if len(questions) == 0 {
		return ErrNoQuestions
	}

	s.questions = append([]Question(nil), questions...)
	s.currentIndex = 0
	s.score = 0
	s.clearSelection()
	s.currentChoices = ShuffleChoices(s.questions[0], s.shuffle)
	s.stage = StageInProgress
	return nil
}

// AbortFetch ends a pending start without changing the stage.
func (s *QuizSession) AbortFetch(round uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if round != s.generation {
		return
	}
	s.pending = false
	s.touch()
}

// Answer records choice for the active question. The first call per question
// wins; later calls return the recorded answer with applied == false.
func (s *QuizSession) Answer(choice string) (AnsweredQuestion, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answer(choice)
}

// AnswerAt answers the active question with the choice at choiceIndex,
// provided round and index still identify the active question.
func (s *QuizSession) AnswerAt(round uint64, index, choiceIndex int) (AnsweredQuestion, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkActive(round, index); err != nil {
		return AnsweredQuestion{}, false, err
	}
	if choiceIndex < 0 || choiceIndex >= len(s.currentChoices) {
		return AnsweredQuestion{}, false, ErrInvalidChoice
	}
	return s.answer(s.currentChoices[choiceIndex])
}

// Next leaves the active question, answered or not, and returns the new stage.
func (s *QuizSession) Next() (Stage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next()
}

// NextAt advances like Next, provided round and index still identify the active question.
func (s *QuizSession) NextAt(round uint64, index int) (Stage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkActive(round, index); err != nil {
		return s.stage, err
	}
	return s.next()
}

// Restart discards the round and returns to Setup. Difficulty, category
// and the category list are kept. A pending start becomes stale.
func (s *QuizSession) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = nil
	s.currentIndex = 0
	s.score = 0
	s.currentChoices = nil
	s.clearSelection()
	s.pending = false
	s.generation++
	s.stage = StageSetup
	s.touch()
}

// Snapshot returns a copy of the session state.
func (s *QuizSession) Snapshot() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := SessionView{
		ChatID:         s.chatID,
		Stage:          s.stage,
		Difficulty:     s.difficulty,
		CategoryID:     copyInt(s.categoryID),
		Categories:     append([]Category(nil), s.categories...),
		Round:          s.generation,
		Pending:        s.pending,
		CurrentIndex:   s.currentIndex,
		Total:          len(s.questions),
		Score:          s.score,
		Choices:        append([]string(nil), s.currentChoices...),
		SelectedChoice: s.selectedChoice,
		Answered:       s.answered,
		IsCorrect:      s.lastCorrect,
		Percentage:     Percentage(s.score, len(s.questions)),
		LastActivity:   s.lastActivity,
	}
	if s.stage == StageInProgress && s.currentIndex < len(s.questions) {
		q := s.questions[s.currentIndex]
		v.Question = &q
	}
	return v
}

func (s *QuizSession) answer(choice string) (AnsweredQuestion, bool, error) {
	if s.stage != StageInProgress {
		return AnsweredQuestion{}, false, ErrInvalidStage
	}

	q := s.questions[s.currentIndex]
	if s.answered {
		return s.record(q), false, nil
	}

	s.selectedChoice = choice
	s.answered = true
	s.lastCorrect = choice == q.CorrectAnswer
	if s.lastCorrect {
		s.score++
	}
	s.touch()
	return s.record(q), true, nil
}

func (s *QuizSession) next() (Stage, error) {
	if s.stage != StageInProgress {
		return s.stage, ErrInvalidStage
	}

	s.clearSelection()
	if s.currentIndex+1 < len(s.questions) {
		s.currentIndex++
		s.currentChoices = ShuffleChoices(s.questions[s.currentIndex], s.shuffle)
	} else {
		s.currentChoices = nil
		s.stage = StageFinished
	}
	s.touch()
	return s.stage, nil
}

func (s *QuizSession) checkActive(round uint64, index int) error {
	if s.stage != StageInProgress || round != s.generation || index != s.currentIndex {
		return ErrStaleAction
	}
	return nil
}

func (s *QuizSession) record(q Question) AnsweredQuestion {
	return AnsweredQuestion{
		Question:        q,
		ShuffledChoices: append([]string(nil), s.currentChoices...),
		SelectedChoice:  s.selectedChoice,
		IsCorrect:       s.lastCorrect,
	}
}

func (s *QuizSession) clearSelection() {
	s.selectedChoice = ""
	s.answered = false
	s.lastCorrect = false
}

func (s *QuizSession) touch() {
	s.lastActivity = s.now()
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
