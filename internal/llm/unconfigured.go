package llm

import (
	"context"
	"fmt"
)

// UnconfiguredClient stands in when no API credentials are present. Every
// send fails fast with a configuration error.
type UnconfiguredClient struct{}

func (UnconfiguredClient) Send(context.Context, string, Params) (Completion, error) {
	return Completion{}, fmt.Errorf("%w: set LLM_API_KEY and LLM_API_ENDPOINT", ErrConfiguration)
}

var _ Client = UnconfiguredClient{}
