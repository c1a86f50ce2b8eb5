package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

const categoriesKey = "trivia:categories"

// Config holds the Redis configuration
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Connect establishes a connection to Redis
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// CategoryCache keeps the trivia category list in Redis.
type CategoryCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewCategoryCache creates a cache whose entries expire after ttl.
func NewCategoryCache(client redis.Cmdable, ttl time.Duration) *CategoryCache {
	return &CategoryCache{client: client, ttl: ttl}
}

// Get returns the cached categories; ok is false on a cache miss.
func (c *CategoryCache) Get(ctx context.Context) ([]entities.Category, bool, error) {
	data, err := c.client.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get categories: %w", err)
	}

	var categories []entities.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal categories: %w", err)
	}

	return categories, true, nil
}

// Set stores the categories with the cache TTL.
func (c *CategoryCache) Set(ctx context.Context, categories []entities.Category) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}

	if err := c.client.Set(ctx, categoriesKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store categories: %w", err)
	}

	return nil
}
