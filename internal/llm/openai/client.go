package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"revisor-backend/internal/llm"
	"revisor-backend/internal/shared/metrics"
	"revisor-backend/internal/shared/telemetry"
)

const (
	// Prompts are cut at this size before transmission so oversized requests
	// are degraded instead of rejected by the remote side.
	truncateAt      = 50000
	truncateMarker  = "\n\n[Texto truncado devido ao tamanho]"
	defaultTimeout  = 120 * time.Second
	defaultMaxRetry = 3

	systemMessage = "Você é um especialista em educação profissional. Responda de forma clara, estruturada e objetiva, sem usar marcadores markdown como asteriscos ou hashtags."
)

// Client implements llm.Client against an OpenAI-compatible chat-completions
// endpoint authenticated with an api-key header (Azure style).
type Client struct {
	endpoint    string
	apiKey      string
	maxTokens   int
	temperature float64
	maxRetries  int
	httpClient  *http.Client
	backoff     llm.BackoffPolicy
	sleep       func(time.Duration)
}

// Option customizes a Client.
type Option func(*Client)

// WithBackoff replaces the retry backoff policy.
func WithBackoff(policy llm.BackoffPolicy) Option {
	return func(c *Client) { c.backoff = policy }
}

// WithSleep replaces the blocking sleep used between retries.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Client) { c.sleep = sleep }
}

// WithMaxRetries overrides the retry budget.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n < 1 {
			n = 1
		}
		if n > 5 {
			n = 5
		}
		c.maxRetries = n
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient validates the configuration and constructs a Client.
// Defaults: maxTokens and temperature are applied when a request passes
// zero-value params.
func NewClient(endpoint, apiKey string, maxTokens int, temperature float64, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: API key is empty", llm.ErrConfiguration)
	}
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("%w: API endpoint is empty", llm.ErrConfiguration)
	}
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: API endpoint %q is not a valid URL", llm.ErrConfiguration, endpoint)
	}

	c := &Client{
		endpoint:    endpoint,
		apiKey:      apiKey,
		maxTokens:   maxTokens,
		temperature: temperature,
		maxRetries:  defaultMaxRetry,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		backoff:     llm.LinearBackoff(2 * time.Second),
		sleep:       time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type rateLimitError struct {
	retryAfter time.Duration
}

func (e *rateLimitError) Error() string {
	return "rate limited by text-generation API"
}

// Send posts one completion request, retrying transient failures. HTTP 429
// waits according to the server hint (or the backoff policy) without
// consuming a failure attempt; other failures burn attempts up to the
// configured maximum.
func (c *Client) Send(ctx context.Context, prompt string, params Params) (llm.Completion, error) {
	if err := llm.ValidatePromptLength(prompt); err != nil {
		return llm.Completion{}, err
	}
	if len(prompt) > truncateAt {
		prompt = prompt[:truncateAt] + truncateMarker
	}

	maxTokens := params.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}
	temperature := params.Temperature
	if temperature < 0 {
		temperature = c.temperature
	}

	attempts := 0
	rateLimitWaits := 0
	var lastErr error

	for {
		completion, err := c.sendOnce(ctx, prompt, maxTokens, temperature)
		if err == nil {
			telemetry.Debug("llm.request_ok", map[string]any{
				"content_length": len(completion.Content),
				"attempts":       attempts + 1,
			})
			return completion, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return llm.Completion{}, ctxErr
		}

		var rl *rateLimitError
		if errors.As(err, &rl) {
			if rateLimitWaits >= c.maxRetries {
				telemetry.Error("llm.rate_limit_exhausted", map[string]any{"waits": rateLimitWaits})
				return llm.Completion{}, fmt.Errorf("%w after %d waits", llm.ErrRateLimited, rateLimitWaits)
			}
			rateLimitWaits++
			delay := rl.retryAfter
			if delay <= 0 {
				delay = c.backoff(rateLimitWaits)
			}
			telemetry.Warn("llm.rate_limited", map[string]any{
				"wait_seconds": delay.Seconds(),
				"wait_number":  rateLimitWaits,
			})
			metrics.IncLLMRateLimitWait()
			c.sleep(delay)
			continue
		}

		attempts++
		lastErr = err
		if attempts >= c.maxRetries {
			telemetry.Error("llm.retries_exhausted", map[string]any{
				"attempts": attempts,
				"error":    lastErr.Error(),
			})
			return llm.Completion{}, fmt.Errorf("request failed after %d attempts: %w", attempts, lastErr)
		}
		delay := c.backoff(attempts)
		telemetry.Warn("llm.retry", map[string]any{
			"attempt":      attempts,
			"wait_seconds": delay.Seconds(),
			"error":        err.Error(),
		})
		metrics.IncLLMRetry()
		c.sleep(delay)
	}
}

// Params is re-exported to keep call sites short.
type Params = llm.Params

func (c *Client) sendOnce(ctx context.Context, prompt string, maxTokens int, temperature float64) (llm.Completion, error) {
	reqBody := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return llm.Completion{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return llm.Completion{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return llm.Completion{}, fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Completion{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return llm.Completion{}, &rateLimitError{retryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	}

	if resp.StatusCode != http.StatusOK {
		msg := extractErrorMessage(body)
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusRequestEntityTooLarge {
			msg += " (prompt may be too long)"
		}
		return llm.Completion{}, errors.New(msg)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return llm.Completion{}, fmt.Errorf("%w: %v", llm.ErrInvalidResponse, err)
	}
	if parsed.Error != nil {
		return llm.Completion{}, errors.New(parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return llm.Completion{}, llm.ErrInvalidResponse
	}

	completion := llm.Completion{Content: parsed.Choices[0].Message.Content}
	if parsed.Usage != nil {
		completion.Usage = &llm.Usage{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
			TotalTokens:      parsed.Usage.TotalTokens,
		}
	}
	return completion, nil
}

func extractErrorMessage(body []byte) string {
	var parsed struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Error == nil {
		return ""
	}
	return strings.TrimSpace(parsed.Error.Message)
}

func parseRetryAfter(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

// TestConnection sends a canned prompt and reports the round trip outcome.
func (c *Client) TestConnection(ctx context.Context) (string, error) {
	completion, err := c.Send(ctx, "Responda apenas: 'Conexão estabelecida com sucesso'", llm.Params{MaxTokens: 50, Temperature: 0})
	if err != nil {
		return "", err
	}
	return completion.Content, nil
}

var _ llm.Client = (*Client)(nil)
