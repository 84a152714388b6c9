package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// Hard ceilings for a single request. Prompts above MaxPromptChars are
// rejected before any network call; the transmitting client additionally
// truncates at its own (smaller) wire limit.
const (
	MaxPromptChars      = 100000
	MaxEstimatedTokens  = 25000
	charsPerTokenApprox = 4
)

var (
	// ErrConfiguration indicates missing or malformed API credentials/endpoint.
	ErrConfiguration = errors.New("text-generation client is not configured")
	// ErrPromptTooLong indicates the prompt failed the pre-transmission size check.
	ErrPromptTooLong = errors.New("prompt exceeds size limits")
	// ErrInvalidResponse indicates the API answered with an unexpected shape.
	ErrInvalidResponse = errors.New("invalid response from API")
	// ErrRateLimited indicates rate-limit retries were exhausted.
	ErrRateLimited = errors.New("rate limit retries exhausted")
)

// Params tunes a single completion request. MaxTokens <= 0 and
// Temperature < 0 fall back to the client's configured defaults;
// Temperature 0 is a valid explicit value.
type Params struct {
	MaxTokens   int
	Temperature float64
}

// Usage reports token accounting when the API returns it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Completion is a successful text-generation result.
type Completion struct {
	Content string
	Usage   *Usage
}

// Client sends one chat-style completion request. Implementations retry
// internally; a returned error is terminal for this call.
type Client interface {
	Send(ctx context.Context, prompt string, params Params) (Completion, error)
}

// BackoffPolicy computes the delay before retry number attempt (1-based).
type BackoffPolicy func(attempt int) time.Duration

// LinearBackoff returns base * attempt.
func LinearBackoff(base time.Duration) BackoffPolicy {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return base * time.Duration(attempt)
	}
}

// EstimateTokens approximates token count for Portuguese/English prose.
func EstimateTokens(text string) int {
	return (len(text) + charsPerTokenApprox - 1) / charsPerTokenApprox
}

// ValidatePromptLength rejects prompts that would exceed the request
// ceilings, without touching the network.
func ValidatePromptLength(prompt string) error {
	length := len(prompt)
	estimated := EstimateTokens(prompt)

	if length > MaxPromptChars {
		return fmt.Errorf("%w: %d characters (max %d)", ErrPromptTooLong, length, MaxPromptChars)
	}
	if estimated > MaxEstimatedTokens {
		return fmt.Errorf("%w: %d estimated tokens (max %d)", ErrPromptTooLong, estimated, MaxEstimatedTokens)
	}
	if !utf8.ValidString(prompt) {
		return fmt.Errorf("%w: prompt contains invalid UTF-8", ErrPromptTooLong)
	}
	return nil
}

// PromptStats describes a prompt's size relative to the request ceilings.
type PromptStats struct {
	CharacterCount       int      `json:"characterCount"`
	EstimatedInputTokens int      `json:"estimatedInputTokens"`
	MaxOutputTokens      int      `json:"maxOutputTokens"`
	TotalEstimatedTokens int      `json:"totalEstimatedTokens"`
	WithinLimits         bool     `json:"withinLimits"`
	Recommendations      []string `json:"recommendations,omitempty"`
}

// AnalyzePrompt reports size statistics and tuning recommendations for a prompt.
func AnalyzePrompt(prompt string, maxOutputTokens int) PromptStats {
	chars := len(prompt)
	estimated := EstimateTokens(prompt)

	var recs []string
	if estimated > MaxEstimatedTokens {
		recs = append(recs, "prompt too long; reduce the size of the reference documents")
	} else if estimated > 15000 {
		recs = append(recs, "long prompt; responses may be slow")
	}
	if chars < 500 {
		recs = append(recs, "very short prompt; consider adding more context")
	}

	return PromptStats{
		CharacterCount:       chars,
		EstimatedInputTokens: estimated,
		MaxOutputTokens:      maxOutputTokens,
		TotalEstimatedTokens: estimated + maxOutputTokens,
		WithinLimits:         estimated <= MaxEstimatedTokens && chars <= MaxPromptChars,
		Recommendations:      recs,
	}
}
