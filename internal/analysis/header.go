package analysis

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"revisor-backend/internal/llm"
	"revisor-backend/internal/shared/telemetry"
)

const (
	headerSourceBudget    = 5000
	headerSecondaryBudget = 3000
	headerMaxTokens       = 200
)

var (
	courseNamePattern = regexp.MustCompile(`(?i)Nome do Curso:\s*(.+)`)
	unitNamePattern   = regexp.MustCompile(`(?i)Unidade Curricular:\s*(.+)`)
	hoursPattern      = regexp.MustCompile(`(?i)Carga Horária:\s*(.+)`)
)

// ExtractHeader asks the model for the course identification fields found
// near the top of the documents. Failure is never fatal: any error leaves
// all fields at the sentinel value.
func ExtractHeader(ctx context.Context, client llm.Client, ptdText, pcnText string) HeaderInfo {
	prompt := buildHeaderPrompt(ptdText, pcnText)

	completion, err := client.Send(ctx, prompt, llm.Params{MaxTokens: headerMaxTokens, Temperature: 0})
	if err != nil {
		telemetry.Error("analysis.header_extraction_failed", map[string]any{"error": err.Error()})
		return NewHeaderInfo()
	}

	return ParseHeader(completion.Content)
}

func buildHeaderPrompt(ptdText, pcnText string) string {
	return fmt.Sprintf(`Extraia as seguintes informações do PTD abaixo e responda APENAS com os dados solicitados, sem explicações adicionais:

1. Nome do Curso
2. Unidade Curricular
3. Carga Horária

PTD:
%s

PCN (se necessário para complementar):
%s

Formate a resposta exatamente assim:
Nome do Curso: [nome]
Unidade Curricular: [nome]
Carga Horária: [valor]`, runeSafePrefix(ptdText, headerSourceBudget), runeSafePrefix(pcnText, headerSecondaryBudget))
}

// ParseHeader pulls the three labeled fields out of a model response.
// Missing fields keep the sentinel value.
func ParseHeader(response string) HeaderInfo {
	info := NewHeaderInfo()

	if m := courseNamePattern.FindStringSubmatch(response); m != nil {
		info.CourseName = strings.TrimSpace(m[1])
	}
	if m := unitNamePattern.FindStringSubmatch(response); m != nil {
		info.UnitName = strings.TrimSpace(m[1])
	}
	if m := hoursPattern.FindStringSubmatch(response); m != nil {
		info.Hours = strings.TrimSpace(m[1])
	}

	return info
}
