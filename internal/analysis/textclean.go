package analysis

import (
	"regexp"
	"strings"
)

var (
	controlChars   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	crlf           = regexp.MustCompile(`\r\n|\r`)
	spaceRuns      = regexp.MustCompile(`[ \t]+`)
	blankLineRuns  = regexp.MustCompile(`\n{3,}`)
	boldMarkers    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicMarkers  = regexp.MustCompile(`\*(.*?)\*`)
	headingMarkers = regexp.MustCompile(`(?m)^#{1,6}\s*(.*)$`)
	listMarkers    = regexp.MustCompile(`(?m)^\s*[-*]\s*(.*)$`)
	numberMarkers  = regexp.MustCompile(`(?m)^\s*\d+\.\s*(.*)$`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// CleanText normalizes free text before it is embedded in a prompt:
// control characters removed, line endings unified, whitespace runs
// collapsed, invalid UTF-8 replaced.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = controlChars.ReplaceAllString(text, "")
	text = crlf.ReplaceAllString(text, "\n")
	text = spaceRuns.ReplaceAllString(text, " ")
	text = blankLineRuns.ReplaceAllString(text, "\n\n")
	text = strings.ToValidUTF8(text, "")
	return strings.TrimSpace(text)
}

// StripMarkdown flattens markdown formatting out of a model response used
// verbatim in the single-request path: bold/italics, heading hashes and
// list markers go away, whitespace is normalized into plain prose.
func StripMarkdown(content string) string {
	content = boldMarkers.ReplaceAllString(content, "$1")
	content = italicMarkers.ReplaceAllString(content, "$1")
	content = headingMarkers.ReplaceAllString(content, "$1")
	content = listMarkers.ReplaceAllString(content, "$1")
	content = numberMarkers.ReplaceAllString(content, "$1")
	content = blankLineRuns.ReplaceAllString(content, "\n\n")
	content = whitespaceRuns.ReplaceAllString(content, " ")
	content = strings.ReplaceAll(content, "\n ", "\n")
	return strings.TrimSpace(content)
}
