package analysis

import (
	"regexp"
	"strings"
)

// minUsefulSection is the floor below which a keyword-scored section is
// considered too thin to carry an analysis, triggering the prefix fallback.
const minUsefulSection = 1000

var sectionSplit = regexp.MustCompile(`\n\s*\n`)

// RelevantExcerpt returns the portion of text most relevant to the topic,
// bounded by maxSize. Text already within the bound is returned unchanged.
// Otherwise sections (blank-line delimited) are scored by case-insensitive
// keyword occurrence counts and the best one wins; a best section that is
// empty or under the usefulness floor falls back to the text prefix.
// Pure function: no I/O, deterministic for identical inputs.
func RelevantExcerpt(text string, topic Topic, maxSize int) string {
	if len(text) <= maxSize {
		return text
	}

	if best := bestSection(text, topic.Keywords, maxSize); len(best) >= minUsefulSection {
		return best
	}

	return text[:maxSize]
}

func bestSection(text string, keywords []string, maxSize int) string {
	var bestMatch string
	bestScore := 0

	for _, section := range sectionSplit.Split(text, -1) {
		if len(section) > maxSize {
			continue
		}
		lower := strings.ToLower(section)
		score := 0
		for _, keyword := range keywords {
			score += strings.Count(lower, strings.ToLower(keyword))
		}
		if score > bestScore {
			bestScore = score
			bestMatch = section
		}
	}

	return bestMatch
}
