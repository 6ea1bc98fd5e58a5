package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"elicitcam/internal/annotate"
)

const (
	defaultBaseURL    = "https://api.openai.com/v1"
	defaultAPIVersion = "2024-02-01"
	defaultModel      = "gpt-4o"
	defaultMaxTokens  = 200
	defaultTopP       = 0.1

	defaultHTTPTimeout    = 120 * time.Second
	defaultRetryAttempts  = 5
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second

	contentFilterCode = "content_filter"
)

// ErrNotConfigured reports an unusable credential configuration. It is fatal:
// runs abort before any annotation work starts.
var ErrNotConfigured = errors.New("openai: credentials not configured")

// Config captures the runtime settings required to reach the model. Exactly
// one credential scheme must be populated: APIKey for the direct API, or
// AzureAPIKey plus AzureEndpoint for an Azure OpenAI deployment.
type Config struct {
	APIKey string

	AzureAPIKey   string
	AzureEndpoint string
	APIVersion    string

	BaseURL        string
	Model          string
	MaxTokens      int
	Temperature    float64
	TopP           float64
	TimeoutSeconds int
}

// Client wraps the chat completions API for both credential schemes.
type Client struct {
	cfg        Config
	endpoint   string
	authHeader string
	authValue  string
	httpClient *http.Client

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the default retry count.
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.retryMaxAttempts = attempts
		}
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient validates the credential configuration and constructs a client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.AzureAPIKey = strings.TrimSpace(cfg.AzureAPIKey)
	cfg.AzureEndpoint = strings.TrimSpace(cfg.AzureEndpoint)
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.TopP <= 0 {
		cfg.TopP = defaultTopP
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	azure := cfg.AzureAPIKey != "" || cfg.AzureEndpoint != ""
	var endpoint, authHeader, authValue string
	switch {
	case azure && cfg.APIKey != "":
		return nil, fmt.Errorf("%w: both direct and Azure credentials set, choose one scheme", ErrNotConfigured)
	case azure:
		if cfg.AzureAPIKey == "" {
			return nil, fmt.Errorf("%w: AZURE_OPENAI_API_KEY missing", ErrNotConfigured)
		}
		if cfg.AzureEndpoint == "" {
			return nil, fmt.Errorf("%w: AZURE_OPENAI_ENDPOINT missing", ErrNotConfigured)
		}
		endpoint = fmt.Sprintf(
			"%s/openai/deployments/%s/chat/completions?api-version=%s",
			strings.TrimRight(cfg.AzureEndpoint, "/"),
			url.PathEscape(cfg.Model),
			url.QueryEscape(cfg.APIVersion),
		)
		authHeader = "api-key"
		authValue = cfg.AzureAPIKey
	case cfg.APIKey != "":
		endpoint = strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
		authHeader = "Authorization"
		authValue = "Bearer " + cfg.APIKey
	default:
		return nil, fmt.Errorf("%w: set OPENAI_API_KEY or AZURE_OPENAI_API_KEY and AZURE_OPENAI_ENDPOINT", ErrNotConfigured)
	}

	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:              cfg,
		endpoint:         endpoint,
		authHeader:       authHeader,
		authValue:        authValue,
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type httpStatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("openai request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Produce implements annotate.Source. Content blocks, refusals, and empty
// completions are reported as rejected outcomes; everything else that fails
// returns an error after retries.
func (c *Client) Produce(ctx context.Context, req annotate.Request) (annotate.Outcome, error) {
	var empty annotate.Outcome
	messages, err := buildMessages(req)
	if err != nil {
		return empty, err
	}
	payload := chatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		TopP:        c.cfg.TopP,
	}
	return c.completeWithRetry(ctx, payload)
}

func buildMessages(req annotate.Request) ([]chatMessage, error) {
	switch req.Task {
	case annotate.TaskDescribeImages:
		if len(req.Images) == 0 {
			return nil, errors.New("openai produce: image sequence required")
		}
		parts := make([]contentPart, 0, len(req.Images))
		for _, frame := range req.Images {
			parts = append(parts, contentPart{
				Type:     "image_url",
				ImageURL: &imageURL{URL: "data:image/jpeg;base64," + frame},
			})
		}
		return []chatMessage{
			{Role: "system", Content: describeImagesSystemPrompt},
			{Role: "user", Content: describeImagesUserPrompt},
			{Role: "user", Content: parts},
		}, nil
	case annotate.TaskDescribePoses:
		if strings.TrimSpace(req.Text) == "" {
			return nil, errors.New("openai produce: pose documents required")
		}
		return []chatMessage{
			{Role: "system", Content: describePosesSystemPrompt},
			{Role: "user", Content: describePosesUserPrompt},
			{Role: "user", Content: req.Text},
		}, nil
	case annotate.TaskPredictCommand:
		if strings.TrimSpace(req.Text) == "" {
			return nil, errors.New("openai produce: gesture description required")
		}
		return []chatMessage{
			{Role: "system", Content: predictCommandSystemPrompt},
			{Role: "user", Content: predictCommandUserPrompt},
			{Role: "user", Content: req.Text},
		}, nil
	}
	return nil, fmt.Errorf("openai produce: unknown task %q", req.Task)
}

func (c *Client) completeWithRetry(ctx context.Context, payload chatCompletionRequest) (annotate.Outcome, error) {
	var empty annotate.Outcome
	attempts := c.retryMaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		outcome, err := c.sendOnce(ctx, payload)
		if err == nil {
			return outcome, nil
		}

		delay, retry := c.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			return empty, err
		}
		if err := c.sleep(ctx, delay); err != nil {
			return empty, err
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("unknown retry failure")
	}
	return empty, fmt.Errorf("openai produce: failed after %d attempts: %w", attempts, lastErr)
}

func (c *Client) sendOnce(ctx context.Context, payload chatCompletionRequest) (annotate.Outcome, error) {
	var empty annotate.Outcome
	encoded, err := json.Marshal(payload)
	if err != nil {
		return empty, fmt.Errorf("openai request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return empty, fmt.Errorf("openai request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(c.authHeader, c.authValue)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, fmt.Errorf("openai request: http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, fmt.Errorf("openai request: read body: %w", err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		// Azure reports prompt-level content blocks as a 400 with a
		// dedicated error code rather than a completed choice.
		if code := decodeErrorCode(body); code == contentFilterCode {
			return annotate.Outcome{Status: annotate.StatusRejected, Reason: "provider blocked the content"}, nil
		}
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return empty, &httpStatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			RetryAfter: retryAfter,
		}
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return empty, fmt.Errorf("openai request: decode response: %w", err)
	}
	if completion.Error != nil {
		if completion.Error.Code == contentFilterCode {
			return annotate.Outcome{Status: annotate.StatusRejected, Reason: "provider blocked the content"}, nil
		}
		return empty, fmt.Errorf("openai request: api error: %s", strings.TrimSpace(completion.Error.Message))
	}
	if len(completion.Choices) == 0 {
		return annotate.Outcome{Status: annotate.StatusRejected, Reason: "empty choices"}, nil
	}

	choice := completion.Choices[0]
	if refusal := strings.TrimSpace(choice.Message.Refusal); refusal != "" {
		return annotate.Outcome{Status: annotate.StatusRejected, Reason: refusal}, nil
	}
	if choice.FinishReason == contentFilterCode {
		return annotate.Outcome{Status: annotate.StatusRejected, Reason: "completion stopped by content filter"}, nil
	}
	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return annotate.Outcome{Status: annotate.StatusRejected, Reason: "empty completion"}, nil
	}
	return annotate.Outcome{Status: annotate.StatusFilled, Text: content}, nil
}

func decodeErrorCode(body []byte) string {
	var parsed struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Error == nil {
		return ""
	}
	return parsed.Error.Code
}

func (c *Client) retryDelay(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts || err == nil || ctx == nil || ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= http.StatusInternalServerError:
			if statusErr.RetryAfter > 0 {
				return c.capDelay(statusErr.RetryAfter), true
			}
			return c.backoffDelay(attempt), true
		default:
			return 0, false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return c.backoffDelay(attempt), true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return c.backoffDelay(attempt), true
	}
	return 0, false
}

func (c *Client) backoffDelay(attempt int) time.Duration {
	base := c.retryBaseDelay
	if base <= 0 {
		return 0
	}
	delay := base
	for i := 1; i < attempt; i++ {
		if delay > c.retryMaxDelay/2 {
			return c.capDelay(c.retryMaxDelay)
		}
		delay *= 2
	}
	return c.capDelay(delay)
}

func (c *Client) capDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	if c.retryMaxDelay > 0 && delay > c.retryMaxDelay {
		return c.retryMaxDelay
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}
