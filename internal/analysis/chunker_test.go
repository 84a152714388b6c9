package analysis

import (
	"strings"
	"testing"
)

func topicByNumber(t *testing.T, number int) Topic {
	t.Helper()
	for _, topic := range Topics() {
		if topic.Number == number {
			return topic
		}
	}
	t.Fatalf("no topic %d", number)
	return Topic{}
}

func TestRelevantExcerptShortTextUnchanged(t *testing.T) {
	topic := topicByNumber(t, 1)
	text := "plano curto sobre competência"
	if got := RelevantExcerpt(text, topic, 1000); got != text {
		t.Errorf("got %q, want input unchanged", got)
	}
}

func TestRelevantExcerptPicksKeywordSection(t *testing.T) {
	topic := topicByNumber(t, 7)

	filler := strings.Repeat("conteúdo genérico sem relação. ", 40)
	relevant := "A avaliação diagnóstica e a avaliação formativa aparecem no plano, com feedback previsto ao final de cada situação. " +
		strings.Repeat("Os instrumentos avaliativos incluem rubricas e autoavaliação com feedback estruturado. ", 12)
	text := filler + "\n\n" + relevant + "\n\n" + filler

	got := RelevantExcerpt(text, topic, len(relevant)+100)
	if got != relevant {
		t.Errorf("excerpt did not pick the keyword-dense section, got %d chars", len(got))
	}
}

func TestRelevantExcerptFallbackToPrefix(t *testing.T) {
	topic := topicByNumber(t, 5)

	// No section mentions any topic-5 keyword, so scoring finds nothing
	// and the prefix wins.
	text := strings.Repeat("parágrafo neutro.\n\n", 600)
	max := 2000
	got := RelevantExcerpt(text, topic, max)
	if got != text[:max] {
		t.Errorf("expected exact prefix fallback, got %d chars", len(got))
	}
}

func TestRelevantExcerptShortBestSectionFallsBack(t *testing.T) {
	topic := topicByNumber(t, 5)

	// The only keyword hit lives in a tiny section, below the usefulness
	// floor; the prefix must win.
	text := strings.Repeat("x", 5000) + "\n\ntecnologia digital\n\n" + strings.Repeat("y", 5000)
	max := 3000
	got := RelevantExcerpt(text, topic, max)
	if got != text[:max] {
		t.Errorf("expected prefix fallback for sub-floor section, got %d chars", len(got))
	}
}
