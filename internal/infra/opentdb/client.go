package opentdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

const (
	categoriesPath = "/api_category.php"
	questionsPath  = "/api.php"

	DefaultBaseURL   = "https://opentdb.com"
	DefaultBatchSize = 10
)

var (
	ErrUnexpectedStatus  = errors.New("unexpected http status")
	ErrResponseCode      = errors.New("opentdb response code")
	ErrMalformedQuestion = errors.New("malformed question")
)

// Response codes reported in the response_code field.
const (
	codeSuccess          = 0
	codeNoResults        = 1
	codeInvalidParameter = 2
	codeTokenNotFound    = 3
	codeTokenEmpty       = 4
	codeRateLimit        = 5
)

var responseCodeText = map[int]string{
	codeNoResults:        "not enough questions for the query",
	codeInvalidParameter: "invalid parameter",
	codeTokenNotFound:    "session token not found",
	codeTokenEmpty:       "session token exhausted",
	codeRateLimit:        "rate limited",
}

// Config holds client parameters.
type Config struct {
	BaseURL   string
	BatchSize int
	Timeout   time.Duration
}

// Client talks to the Open Trivia Database. It implements both the
// category catalog and the question source.
type Client struct {
	baseURL    string
	batchSize  int
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Client; zero config values fall back to the public service defaults.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}

	return &Client{
		baseURL:    base,
		batchSize:  batch,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type categoriesResponse struct {
	TriviaCategories []entities.Category `json:"trivia_categories"`
}

type questionsResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []rawQuestion `json:"results"`
}

type rawQuestion struct {
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// ListCategories returns the categories offered by the service.
func (c *Client) ListCategories(ctx context.Context) ([]entities.Category, error) {
	var resp categoriesResponse
	if err := c.get(ctx, c.baseURL+categoriesPath, &resp); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return resp.TriviaCategories, nil
}

// FetchBatch returns one batch of questions. A nil categoryID means any category.
// Malformed questions are dropped; a batch with none left is an error.
func (c *Client) FetchBatch(ctx context.Context, difficulty entities.Difficulty, categoryID *int) ([]entities.Question, error) {
	q := url.Values{}
	q.Set("amount", strconv.Itoa(c.batchSize))
	q.Set("difficulty", string(difficulty))
	if categoryID != nil {
		q.Set("category", strconv.Itoa(*categoryID))
	}

	var resp questionsResponse
	if err := c.get(ctx, c.baseURL+questionsPath+"?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}

	if resp.ResponseCode != codeSuccess {
		text := responseCodeText[resp.ResponseCode]
		if text == "" {
			text = "unknown"
		}
		return nil, fmt.Errorf("fetch questions: %w %d (%s)", ErrResponseCode, resp.ResponseCode, text)
	}

	questions := make([]entities.Question, 0, len(resp.Results))
	for i, raw := range resp.Results {
		question := raw.toEntity()
		if !question.Valid() {
			c.logger.Warn("dropping malformed question",
				zap.Int("position", i),
				zap.String("difficulty", string(difficulty)),
			)
			continue
		}
		questions = append(questions, question)
	}

	if len(questions) == 0 && len(resp.Results) > 0 {
		return nil, fmt.Errorf("fetch questions: %w: all %d questions invalid", ErrMalformedQuestion, len(resp.Results))
	}

	return questions, nil
}

func (c *Client) get(ctx context.Context, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (r rawQuestion) toEntity() entities.Question {
	incorrect := make([]string, 0, len(r.IncorrectAnswers))
	for _, a := range r.IncorrectAnswers {
		if a == "" || a == r.CorrectAnswer {
			continue
		}
		incorrect = append(incorrect, a)
	}

	return entities.Question{
		Prompt:           r.Question,
		CorrectAnswer:    r.CorrectAnswer,
		IncorrectAnswers: incorrect,
		Category:         r.Category,
		Type:             r.Type,
		Difficulty:       r.Difficulty,
	}
}
