package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"revisor-backend/internal/llm"
)

// scriptClient answers each call through a user-supplied function. Call
// zero is always the header extraction request.
type scriptClient struct {
	replyFn func(call int, prompt string) (string, error)
	prompts []string
	params  []llm.Params
}

func (s *scriptClient) Send(_ context.Context, prompt string, params llm.Params) (llm.Completion, error) {
	call := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	s.params = append(s.params, params)
	content, err := s.replyFn(call, prompt)
	if err != nil {
		return llm.Completion{}, err
	}
	return llm.Completion{Content: content}, nil
}

type fixedReferences struct {
	excerpt     string
	identifiers []string
	limits      []int
}

func (f *fixedReferences) ExcerptFor(_ context.Context, identifier string, limit int) string {
	f.identifiers = append(f.identifiers, identifier)
	f.limits = append(f.limits, limit)
	return f.excerpt
}

const headerReply = "Nome do Curso: Técnico em Redes\nUnidade Curricular: Infraestrutura\nCarga Horária: 40 horas"

func TestOrchestratorRunSkipsAccessibilityTopic(t *testing.T) {
	client := &scriptClient{replyFn: func(call int, _ string) (string, error) {
		if call == 0 {
			return headerReply, nil
		}
		return "Análise consistente do tópico solicitado, cobrindo todos os pontos avaliados no plano.", nil
	}}
	refs := &fixedReferences{excerpt: "material de referência"}

	var sleeps []time.Duration
	orc := NewOrchestrator(client, refs, NewSkipPolicy(), 3*time.Second).
		WithSleep(func(d time.Duration) { sleeps = append(sleeps, d) })

	userCtx := NewUserContext([][2]string{
		{"Turma", "Noturno"},
		{"Alunos com necessidades especiais", "não"},
	})

	report, err := orc.Run(context.Background(), "conteúdo do ptd", "conteúdo do pcn", userCtx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// Header call plus seven analyzed topics; the accessibility topic
	// never reaches the client.
	if len(client.prompts) != 8 {
		t.Fatalf("client calls = %d", len(client.prompts))
	}
	for _, prompt := range client.prompts[1:] {
		if strings.Contains(prompt, "Acessibilidade e inclusão") {
			t.Error("skipped topic was sent to the client")
		}
	}

	// No pause before the first topic request, one before each of the
	// remaining six.
	if len(sleeps) != 6 {
		t.Fatalf("sleeps = %d", len(sleeps))
	}
	for _, d := range sleeps {
		if d != 3*time.Second {
			t.Errorf("sleep = %v", d)
		}
	}

	for _, p := range client.params[1:] {
		if p.MaxTokens != topicMaxTokens || p.Temperature != topicTemperature {
			t.Errorf("topic params = %+v", p)
		}
	}

	if !strings.Contains(report, "Nome do Curso: Técnico em Redes") {
		t.Error("report missing extracted header")
	}
	if !strings.Contains(report, "8. Acessibilidade e inclusão") {
		t.Error("skipped topic missing from report")
	}
	if !strings.Contains(report, SkippedContent) {
		t.Error("skip placeholder missing from report")
	}
	for _, topic := range topics {
		if !strings.Contains(report, topic.Title) {
			t.Errorf("topic %d missing from report", topic.Number)
		}
	}
	if len(refs.identifiers) != 7 {
		t.Errorf("reference lookups = %d", len(refs.identifiers))
	}
	for _, limit := range refs.limits {
		if limit != referenceExcerptBudget {
			t.Errorf("reference limit = %d", limit)
		}
	}
}

func TestOrchestratorRunContainsTopicFailure(t *testing.T) {
	client := &scriptClient{replyFn: func(call int, prompt string) (string, error) {
		if call == 0 {
			return headerReply, nil
		}
		if strings.Contains(prompt, "'4. Metodologias ativas e protagonismo do aluno'") {
			return "", errors.New("upstream timeout")
		}
		return "Análise completa e objetiva do tópico, sem pendências relevantes no planejamento.", nil
	}}

	orc := NewOrchestrator(client, nil, NewSkipPolicy(), 0).
		WithSleep(func(time.Duration) {})

	userCtx := NewUserContext([][2]string{
		{"Alunos com necessidades especiais", "dois alunos com baixa visão"},
	})

	report, err := orc.Run(context.Background(), "conteúdo do ptd", "", userCtx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// All eight topics analyzed; the failing one renders the placeholder.
	if len(client.prompts) != 9 {
		t.Fatalf("client calls = %d", len(client.prompts))
	}
	if !strings.Contains(report, "4. Metodologias ativas e protagonismo do aluno\n") {
		t.Error("failed topic section missing")
	}
	if !strings.Contains(report, FailedContent) {
		t.Error("failure placeholder missing")
	}
	if strings.Contains(report, SkippedContent) {
		t.Error("accessibility topic must not be skipped with a positive answer")
	}
}

func TestOrchestratorRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &scriptClient{replyFn: func(call int, _ string) (string, error) {
		if call == 2 {
			cancel()
		}
		return "Resposta dentro do esperado para o tópico em análise.", nil
	}}

	orc := NewOrchestrator(client, nil, NewSkipPolicy(), 0).
		WithSleep(func(time.Duration) {})

	_, err := orc.Run(ctx, "conteúdo do ptd", "", NewUserContext(nil))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if len(client.prompts) >= 9 {
		t.Errorf("loop did not stop after cancellation: %d calls", len(client.prompts))
	}
}

func TestOrchestratorRunSanitizesTopicContent(t *testing.T) {
	echoed := topics[0].Questions[0]
	client := &scriptClient{replyFn: func(call int, _ string) (string, error) {
		if call == 0 {
			return headerReply, nil
		}
		return echoed + "\nA relação entre competência e situação de aprendizagem está bem construída ao longo do plano.", nil
	}}

	orc := NewOrchestrator(client, nil, NewSkipPolicy(), 0).
		WithSleep(func(time.Duration) {})

	userCtx := NewUserContext([][2]string{{"PcD", "um aluno surdo"}})
	report, err := orc.Run(context.Background(), "conteúdo do ptd", "", userCtx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// The question reappears only once per topic, as the report's own
	// bullet line, never as echoed model output.
	if got := strings.Count(report, echoed); got != 1 {
		t.Errorf("question rendered %d times", got)
	}
	if !strings.Contains(report, "• "+echoed) {
		t.Error("report bullet for the question missing")
	}
}
