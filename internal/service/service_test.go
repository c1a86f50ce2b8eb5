package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/storage"
)

type fakeCatalog struct {
	mu         sync.Mutex
	categories []entities.Category
	err        error
	calls      int
}

func (f *fakeCatalog) ListCategories(context.Context) ([]entities.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.categories, f.err
}

type fakeCache struct {
	stored []entities.Category
	hit    bool
	err    error
}

func (f *fakeCache) Get(context.Context) ([]entities.Category, bool, error) {
	return f.stored, f.hit, f.err
}

func (f *fakeCache) Set(_ context.Context, categories []entities.Category) error {
	f.stored = categories
	f.hit = true
	return nil
}

type fakeSource struct {
	questions []entities.Question
	err       error

	gotDifficulty entities.Difficulty
	gotCategory   *int

	entered chan struct{} // closed when FetchBatch is called, if set
	release chan struct{} // FetchBatch waits on it, if set
}

func (f *fakeSource) FetchBatch(_ context.Context, d entities.Difficulty, categoryID *int) ([]entities.Question, error) {
	f.gotDifficulty = d
	f.gotCategory = categoryID
	if f.entered != nil {
		close(f.entered)
	}
	if f.release != nil {
		<-f.release
	}
	return f.questions, f.err
}

type fakeTransactor struct {
	err error
}

func (f fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

func makeQuestions(n int) []entities.Question {
	qs := make([]entities.Question, n)
	for i := range qs {
		qs[i] = entities.Question{
			Prompt:           fmt.Sprintf("question %d", i),
			CorrectAnswer:    fmt.Sprintf("right-%d", i),
			IncorrectAnswers: []string{"wrong-a", "wrong-b", "wrong-c"},
			Type:             "multiple",
		}
	}
	return qs
}

func noShuffle(int, func(i, j int)) {}

type quizFixture struct {
	service  *QuizService
	sessions *storage.SessionStorage
	settings *storage.SettingsStorage
	catalog  *fakeCatalog
	source   *fakeSource
}

func newQuizFixture() *quizFixture {
	f := &quizFixture{
		sessions: storage.NewSessionStorage(noShuffle),
		settings: storage.NewSettingsStorage(),
		catalog: &fakeCatalog{categories: []entities.Category{
			{ID: 9, Name: "General Knowledge"},
			{ID: 18, Name: "Science: Computers"},
		}},
		source: &fakeSource{questions: makeQuestions(10)},
	}
	categories := NewCategoryService(f.catalog, nil, time.Hour, zap.NewNop())
	f.service = NewQuizService(f.sessions, categories, f.source, NewSettingsService(f.settings), zap.NewNop())
	return f
}

// correctIndex returns the button index of the correct answer in view.
func correctIndex(t *testing.T, view entities.SessionView) int {
	t.Helper()
	for i, c := range view.Choices {
		if c == view.Question.CorrectAnswer {
			return i
		}
	}
	t.Fatalf("correct answer not among choices %v", view.Choices)
	return -1
}

func TestCategoryServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("memoizes catalog result", func(t *testing.T) {
		catalog := &fakeCatalog{categories: []entities.Category{{ID: 9, Name: "General Knowledge"}}}
		svc := NewCategoryService(catalog, nil, time.Hour, zap.NewNop())

		for i := 0; i < 3; i++ {
			if got := svc.List(ctx); len(got) != 1 {
				t.Fatalf("len = %d, want 1", len(got))
			}
		}
		if catalog.calls != 1 {
			t.Fatalf("catalog calls = %d, want 1", catalog.calls)
		}
	})

	t.Run("uses shared cache", func(t *testing.T) {
		catalog := &fakeCatalog{}
		cache := &fakeCache{stored: []entities.Category{{ID: 21, Name: "Sports"}}, hit: true}
		svc := NewCategoryService(catalog, cache, time.Hour, zap.NewNop())

		got := svc.List(ctx)
		if len(got) != 1 || got[0].ID != 21 {
			t.Fatalf("unexpected categories %+v", got)
		}
		if catalog.calls != 0 {
			t.Fatalf("catalog calls = %d, want 0", catalog.calls)
		}
	})

	t.Run("failure degrades to empty list", func(t *testing.T) {
		catalog := &fakeCatalog{err: errors.New("boom")}
		svc := NewCategoryService(catalog, &fakeCache{}, time.Hour, zap.NewNop())

		got := svc.List(ctx)
		if got == nil || len(got) != 0 {
			t.Fatalf("got %v, want empty non-nil list", got)
		}
	})

	t.Run("expired memory is refetched", func(t *testing.T) {
		catalog := &fakeCatalog{categories: []entities.Category{{ID: 9}}}
		svc := NewCategoryService(catalog, nil, time.Minute, zap.NewNop())
		now := time.Now()
		svc.now = func() time.Time { return now }

		svc.List(ctx)
		now = now.Add(2 * time.Minute)
		svc.List(ctx)
		if catalog.calls != 2 {
			t.Fatalf("catalog calls = %d, want 2", catalog.calls)
		}
	})
}

func TestCategoryServiceRefresh(t *testing.T) {
	ctx := context.Background()

	cache := &fakeCache{}
	svc := NewCategoryService(&fakeCatalog{categories: []entities.Category{{ID: 9}}}, cache, time.Hour, zap.NewNop())
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(cache.stored) != 1 {
		t.Fatalf("cache not warmed: %+v", cache.stored)
	}

	failing := NewCategoryService(&fakeCatalog{err: errors.New("down")}, nil, time.Hour, zap.NewNop())
	if err := failing.Refresh(ctx); !errors.Is(err, ErrCatalogFetchFailed) {
		t.Fatalf("err = %v, want ErrCatalogFetchFailed", err)
	}
}

func TestQuizServiceSetup(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()

	view := f.service.LoadCategories(ctx, 1, 100)
	if view.Stage != entities.StageSetup || len(view.Categories) != 2 {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.Difficulty != entities.DifficultyEasy {
		t.Fatalf("difficulty = %q, want easy", view.Difficulty)
	}

	if _, err := f.service.SelectDifficulty(ctx, 1, 100, entities.DifficultyHard); err != nil {
		t.Fatalf("SelectDifficulty: %v", err)
	}
	category := 18
	view, err := f.service.SelectCategory(ctx, 1, 100, &category)
	if err != nil {
		t.Fatalf("SelectCategory: %v", err)
	}
	if view.CategoryName() != "Science: Computers" {
		t.Fatalf("category name = %q", view.CategoryName())
	}

	stored, err := f.settings.GetByUserID(ctx, 100)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if stored.Difficulty != entities.DifficultyHard || stored.CategoryID == nil || *stored.CategoryID != 18 {
		t.Fatalf("preferences not saved: %+v", stored)
	}
}

func TestQuizServiceRestoresPreferences(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()

	category := 9
	_ = f.settings.Create(ctx, 100)
	_ = f.settings.UpdateDifficulty(ctx, 100, entities.DifficultyMedium)
	_ = f.settings.UpdateCategory(ctx, 100, &category)

	view := f.service.LoadCategories(ctx, 1, 100)
	if view.Difficulty != entities.DifficultyMedium {
		t.Fatalf("difficulty = %q, want medium", view.Difficulty)
	}
	if view.CategoryID == nil || *view.CategoryID != 9 {
		t.Fatalf("category = %v, want 9", view.CategoryID)
	}
}

func TestQuizServiceStart(t *testing.T) {
	ctx := context.Background()

	t.Run("begins round with stored choices", func(t *testing.T) {
		f := newQuizFixture()
		f.service.LoadCategories(ctx, 1, 100)
		_, _ = f.service.SelectDifficulty(ctx, 1, 100, entities.DifficultyMedium)

		view, err := f.service.Start(ctx, 1)
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
		if view.Stage != entities.StageInProgress || view.Total != 10 || view.CurrentIndex != 0 {
			t.Fatalf("unexpected view %+v", view)
		}
		if f.source.gotDifficulty != entities.DifficultyMedium || f.source.gotCategory != nil {
			t.Fatalf("fetched with %q %v", f.source.gotDifficulty, f.source.gotCategory)
		}
	})

	t.Run("unknown chat", func(t *testing.T) {
		f := newQuizFixture()
		if _, err := f.service.Start(ctx, 42); !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("err = %v, want ErrSessionNotFound", err)
		}
	})

	t.Run("fetch failure stays in setup", func(t *testing.T) {
		f := newQuizFixture()
		f.source.err = errors.New("network down")
		f.service.LoadCategories(ctx, 1, 100)

		view, err := f.service.Start(ctx, 1)
		if !errors.Is(err, ErrQuestionFetchFailed) {
			t.Fatalf("err = %v, want ErrQuestionFetchFailed", err)
		}
		if view.Stage != entities.StageSetup || view.Pending {
			t.Fatalf("unexpected view %+v", view)
		}
	})

	t.Run("empty batch stays in setup", func(t *testing.T) {
		f := newQuizFixture()
		f.source.questions = nil
		f.service.LoadCategories(ctx, 1, 100)

		view, err := f.service.Start(ctx, 1)
		if !errors.Is(err, ErrQuestionFetchFailed) || !errors.Is(err, entities.ErrNoQuestions) {
			t.Fatalf("err = %v, want ErrQuestionFetchFailed wrapping ErrNoQuestions", err)
		}
		if view.Stage != entities.StageSetup {
			t.Fatalf("stage = %q", view.Stage)
		}
	})
}

func TestQuizServiceStartOverlapAndRestart(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()
	f.source.entered = make(chan struct{})
	f.source.release = make(chan struct{})
	f.service.LoadCategories(ctx, 1, 100)

	done := make(chan error, 1)
	go func() {
		_, err := f.service.Start(ctx, 1)
		done <- err
	}()
	<-f.source.entered

	if _, err := f.service.Start(ctx, 1); !errors.Is(err, entities.ErrStartPending) {
		t.Fatalf("overlapping start err = %v, want ErrStartPending", err)
	}

	f.service.Restart(ctx, 1, 100)
	close(f.source.release)

	if err := <-done; !errors.Is(err, entities.ErrStaleResult) {
		t.Fatalf("late start err = %v, want ErrStaleResult", err)
	}
	view, _ := f.service.View(1)
	if view.Stage != entities.StageSetup || view.Total != 0 {
		t.Fatalf("late result applied: %+v", view)
	}
}

func TestQuizServiceFullRound(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()
	f.service.LoadCategories(ctx, 1, 100)

	view, err := f.service.Start(ctx, 1)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 0; i < 10; i++ {
		choice := correctIndex(t, view)
		if i%2 == 1 {
			choice = (choice + 1) % len(view.Choices)
		}

		answered, after, err := f.service.Answer(ctx, 1, view.Round, view.CurrentIndex, choice)
		if err != nil {
			t.Fatalf("Answer %d: %v", i, err)
		}
		if answered.IsCorrect != (i%2 == 0) {
			t.Fatalf("question %d: correct = %v", i, answered.IsCorrect)
		}

		// A second tap on the same question does not score again.
		_, again, err := f.service.Answer(ctx, 1, view.Round, view.CurrentIndex, choice)
		if err != nil || again.Score != after.Score {
			t.Fatalf("repeated answer changed score: %v %d -> %d", err, after.Score, again.Score)
		}

		view, err = f.service.Next(ctx, 1, view.Round, view.CurrentIndex)
		if err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
	}

	if view.Stage != entities.StageFinished || view.Score != 5 || view.Percentage != 50 {
		t.Fatalf("unexpected result %+v", view)
	}
}

func TestQuizServiceStaleButtons(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()
	f.service.LoadCategories(ctx, 1, 100)
	first, _ := f.service.Start(ctx, 1)

	if _, err := f.service.Next(ctx, 1, first.Round, first.CurrentIndex); err != nil {
		t.Fatalf("Next: %v", err)
	}

	if _, _, err := f.service.Answer(ctx, 1, first.Round, first.CurrentIndex, 0); !errors.Is(err, entities.ErrStaleAction) {
		t.Fatalf("answer on old question err = %v, want ErrStaleAction", err)
	}
	if _, err := f.service.Next(ctx, 1, first.Round, first.CurrentIndex); !errors.Is(err, entities.ErrStaleAction) {
		t.Fatalf("next on old question err = %v, want ErrStaleAction", err)
	}

	f.service.Restart(ctx, 1, 100)
	second, err := f.service.Start(ctx, 1)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if second.Round == first.Round {
		t.Fatal("restart must begin a new round")
	}
	if _, _, err := f.service.Answer(ctx, 1, first.Round, 0, 0); !errors.Is(err, entities.ErrStaleAction) {
		t.Fatalf("answer from old round err = %v, want ErrStaleAction", err)
	}
}

func TestQuizServiceSelectionOutsideSetup(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()
	f.service.LoadCategories(ctx, 1, 100)
	_, _ = f.service.Start(ctx, 1)

	if _, err := f.service.SelectDifficulty(ctx, 1, 100, entities.DifficultyHard); !errors.Is(err, entities.ErrInvalidStage) {
		t.Fatalf("err = %v, want ErrInvalidStage", err)
	}
	stored, _ := f.settings.GetByUserID(ctx, 100)
	if stored.Difficulty != entities.DifficultyEasy {
		t.Fatalf("rejected selection was saved: %+v", stored)
	}
}

func TestSettingsServiceUpdateCreatesDefaults(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewSettingsStorage()
	svc := NewSettingsService(repo)

	if err := svc.UpdateDifficulty(ctx, 7, entities.DifficultyHard); err != nil {
		t.Fatalf("UpdateDifficulty: %v", err)
	}
	got, err := svc.GetOrCreate(ctx, 7)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if got.Difficulty != entities.DifficultyHard {
		t.Fatalf("difficulty = %q, want hard", got.Difficulty)
	}
}

func TestUserServiceEnsureUser(t *testing.T) {
	ctx := context.Background()

	t.Run("registers user with default settings", func(t *testing.T) {
		users := storage.NewUserStorage()
		settings := storage.NewSettingsStorage()
		svc := NewUserService(users, settings, storage.NoopTransactor{}, zap.NewNop())

		if err := svc.EnsureUser(ctx, 5, 50); err != nil {
			t.Fatalf("EnsureUser: %v", err)
		}
		if ok, _ := users.Exists(ctx, 5); !ok {
			t.Fatal("user not stored")
		}
		if _, err := settings.GetByUserID(ctx, 5); err != nil {
			t.Fatalf("settings not created: %v", err)
		}
		if err := svc.EnsureUser(ctx, 5, 50); err != nil {
			t.Fatalf("second EnsureUser: %v", err)
		}
	})

	t.Run("transaction failure", func(t *testing.T) {
		txErr := errors.New("tx failed")
		svc := NewUserService(storage.NewUserStorage(), storage.NewSettingsStorage(), fakeTransactor{err: txErr}, zap.NewNop())
		if err := svc.EnsureUser(ctx, 5, 50); !errors.Is(err, txErr) {
			t.Fatalf("err = %v, want %v", err, txErr)
		}
	})
}

func TestMaintenanceSweepSessions(t *testing.T) {
	sessions := storage.NewSessionStorage(nil)
	sessions.GetOrCreate(1)
	sessions.GetOrCreate(2)

	svc := NewMaintenanceService(NewCategoryService(&fakeCatalog{}, nil, time.Hour, zap.NewNop()), sessions, time.Hour, zap.NewNop())

	svc.sweepSessions()
	if sessions.Len() != 2 {
		t.Fatalf("fresh sessions removed: len = %d", sessions.Len())
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	svc.sweepSessions()
	if sessions.Len() != 0 {
		t.Fatalf("idle sessions kept: len = %d", sessions.Len())
	}
}

func TestMaintenanceStartStops(t *testing.T) {
	catalog := &fakeCatalog{categories: []entities.Category{{ID: 9}}}
	svc := NewMaintenanceService(NewCategoryService(catalog, nil, time.Hour, zap.NewNop()), storage.NewSessionStorage(nil), time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("maintenance service did not stop")
	}
	if catalog.calls != 1 {
		t.Fatalf("catalog calls = %d, want 1 warm-up call", catalog.calls)
	}
}
