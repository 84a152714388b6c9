package analysis

import "strings"

// accessibilityLabels are the form label variants under which callers
// report students with disabilities.
var accessibilityLabels = []string{
	"Alunos com necessidades especiais",
	"special_needs",
	"Necessidades especiais",
	"PcD",
	"Pessoa com Deficiência",
}

// defaultNegativeTokens are answers meaning "no such students". The list
// is extendable at construction time rather than fixed, since these are
// free-form user answers.
var defaultNegativeTokens = []string{
	"não",
	"nao",
	"nenhum",
	"não há",
	"nao ha",
	"sem necessidades",
	"0",
	"zero",
}

// SkipPolicy decides whether the accessibility topic applies to a run.
type SkipPolicy struct {
	negatives map[string]struct{}
}

// NewSkipPolicy builds a policy with the default negative tokens plus any
// extras (compared case-insensitively, trimmed).
func NewSkipPolicy(extraNegatives ...string) SkipPolicy {
	negatives := make(map[string]struct{}, len(defaultNegativeTokens)+len(extraNegatives))
	for _, tok := range defaultNegativeTokens {
		negatives[tok] = struct{}{}
	}
	for _, tok := range extraNegatives {
		negatives[strings.ToLower(strings.TrimSpace(tok))] = struct{}{}
	}
	return SkipPolicy{negatives: negatives}
}

// SkipAccessibility reports whether the accessibility topic should be
// skipped: true unless some recognized label carries a non-empty value
// that is not a negative token. Pure and total.
func (p SkipPolicy) SkipAccessibility(userCtx UserContext) bool {
	for _, label := range accessibilityLabels {
		value, ok := userCtx.Get(label)
		if !ok {
			continue
		}
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		if _, negative := p.negatives[value]; !negative {
			return false
		}
	}
	return true
}
