package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/metrics"
)

// CategoryService serves the category list from memory, then the shared
// cache, then the catalog itself.
type CategoryService struct {
	catalog TriviaCatalog
	cache   CategoryCache // optional
	ttl     time.Duration
	logger  *zap.Logger

	mu        sync.RWMutex
	memory    []entities.Category
	fetchedAt time.Time
	now       func() time.Time
}

// NewCategoryService creates a CategoryService. cache may be nil.
func NewCategoryService(catalog TriviaCatalog, cache CategoryCache, ttl time.Duration, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		catalog: catalog,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// List returns the selectable categories. Failures are logged and yield an
// empty list so the quiz can still be played with "any category".
func (s *CategoryService) List(ctx context.Context) []entities.Category {
	if categories, ok := s.fromMemory(); ok {
		return categories
	}

	if s.cache != nil {
		categories, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("category cache read failed", zap.Error(err))
		}
		if ok {
			s.remember(categories)
			return categories
		}
	}

	categories, err := s.fetch(ctx)
	if err != nil {
		s.logger.Warn("failed to load categories", zap.Error(err))
		return []entities.Category{}
	}
	return categories
}

// Refresh reloads the categories from the catalog and rewarms the caches.
func (s *CategoryService) Refresh(ctx context.Context) error {
	_, err := s.fetch(ctx)
	return err
}

func (s *CategoryService) fetch(ctx context.Context) ([]entities.Category, error) {
	started := time.Now()
	categories, err := s.catalog.ListCategories(ctx)
	metrics.FetchDuration.WithLabelValues(metrics.OpCategories).Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.FetchFailures.WithLabelValues(metrics.OpCategories).Inc()
		return nil, fmt.Errorf("%w: %w", ErrCatalogFetchFailed, err)
	}

	s.remember(categories)
	if s.cache != nil {
		if err := s.cache.Set(ctx, categories); err != nil {
			s.logger.Warn("category cache write failed", zap.Error(err))
		}
	}

	return categories, nil
}

func (s *CategoryService) fromMemory() ([]entities.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.memory == nil || s.now().Sub(s.fetchedAt) > s.ttl {
		return nil, false
	}
	return append([]entities.Category(nil), s.memory...), true
}

func (s *CategoryService) remember(categories []entities.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memory = append([]entities.Category{}, categories...)
	s.fetchedAt = s.now()
}
