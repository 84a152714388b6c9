package llm

import (
	"context"
	"strings"
)

// PlaceholderClient returns canned content without any network call. Used in
// dev mode and handler tests when no provider is configured.
type PlaceholderClient struct {
	// Content overrides the canned response when non-empty.
	Content string
}

// Send returns the canned content. Header-extraction style prompts get a
// parseable labeled answer so downstream parsing still works.
func (p PlaceholderClient) Send(ctx context.Context, prompt string, params Params) (Completion, error) {
	if err := ctx.Err(); err != nil {
		return Completion{}, err
	}
	if p.Content != "" {
		return Completion{Content: p.Content}, nil
	}
	if strings.Contains(prompt, "Nome do Curso:") && params.MaxTokens <= 300 {
		return Completion{Content: "Nome do Curso: Curso de Demonstração\nUnidade Curricular: UC Demonstração\nCarga Horária: 60h"}, nil
	}
	return Completion{Content: "Resposta gerada em modo de demonstração, sem chamada ao provedor de IA."}, nil
}

var _ Client = PlaceholderClient{}
