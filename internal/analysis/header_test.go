package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"revisor-backend/internal/llm"
)

type stubClient struct {
	reply   string
	err     error
	prompts []string
	params  []llm.Params
}

func (s *stubClient) Send(_ context.Context, prompt string, params llm.Params) (llm.Completion, error) {
	s.prompts = append(s.prompts, prompt)
	s.params = append(s.params, params)
	if s.err != nil {
		return llm.Completion{}, s.err
	}
	return llm.Completion{Content: s.reply}, nil
}

func TestParseHeader(t *testing.T) {
	response := `Nome do Curso: Técnico em Logística
Unidade Curricular: Gestão de Estoques
Carga Horária: 60 horas`

	info := ParseHeader(response)
	if info.CourseName != "Técnico em Logística" {
		t.Errorf("course = %q", info.CourseName)
	}
	if info.UnitName != "Gestão de Estoques" {
		t.Errorf("unit = %q", info.UnitName)
	}
	if info.Hours != "60 horas" {
		t.Errorf("hours = %q", info.Hours)
	}
}

func TestParseHeaderPartial(t *testing.T) {
	info := ParseHeader("nome do curso: Administração\nsem mais nada")
	if info.CourseName != "Administração" {
		t.Errorf("labels must match case-insensitively, got %q", info.CourseName)
	}
	if info.UnitName != HeaderNotIdentified || info.Hours != HeaderNotIdentified {
		t.Errorf("missing fields must keep the sentinel: %+v", info)
	}
}

func TestExtractHeaderBoundsAndParams(t *testing.T) {
	client := &stubClient{reply: "Nome do Curso: X\nUnidade Curricular: Y\nCarga Horária: Z"}

	ptd := strings.Repeat("a", 9000)
	pcn := strings.Repeat("b", 9000)
	info := ExtractHeader(context.Background(), client, ptd, pcn)

	if info.CourseName != "X" {
		t.Errorf("course = %q", info.CourseName)
	}
	if len(client.prompts) != 1 {
		t.Fatalf("prompts = %d", len(client.prompts))
	}
	prompt := client.prompts[0]
	if strings.Count(prompt, "a") != headerSourceBudget {
		t.Errorf("source excerpt not bounded to %d", headerSourceBudget)
	}
	if strings.Count(prompt, "b") != headerSecondaryBudget {
		t.Errorf("secondary excerpt not bounded to %d", headerSecondaryBudget)
	}
	if p := client.params[0]; p.MaxTokens != headerMaxTokens || p.Temperature != 0 {
		t.Errorf("params = %+v", p)
	}
}

func TestExtractHeaderCutsOnRuneBoundary(t *testing.T) {
	client := &stubClient{reply: "Nome do Curso: X\nUnidade Curricular: Y\nCarga Horária: Z"}

	// A multibyte rune straddling each byte budget must not be split in half.
	ptd := strings.Repeat("a", headerSourceBudget-1) + "ção do curso"
	pcn := strings.Repeat("b", headerSecondaryBudget-1) + "çã"
	info := ExtractHeader(context.Background(), client, ptd, pcn)

	if info.CourseName != "X" {
		t.Errorf("course = %q", info.CourseName)
	}
	if len(client.prompts) != 1 {
		t.Fatalf("prompts = %d", len(client.prompts))
	}
	if !utf8.ValidString(client.prompts[0]) {
		t.Error("header prompt contains invalid UTF-8")
	}
}

func TestExtractHeaderFailureIsNotFatal(t *testing.T) {
	client := &stubClient{err: errors.New("boom")}
	info := ExtractHeader(context.Background(), client, "texto", "")
	if info != NewHeaderInfo() {
		t.Errorf("expected sentinel header, got %+v", info)
	}
}
