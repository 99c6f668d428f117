package ai

import (
	"regexp"
	"strings"
)

// maxCommentaryLength bounds stored commentary; anything longer gets cut at
// the last full sentence inside the limit.
const maxCommentaryLength = 4000

var (
	codeFenceRe = regexp.MustCompile("(?s)```[a-z]*\n?|```")
	controlRe   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
)

// CleanCommentary normalizes raw model output into storable plain text: code
// fences and control characters removed, whitespace collapsed per paragraph,
// length bounded.
func CleanCommentary(raw string) string {
	text := codeFenceRe.ReplaceAllString(raw, "")
	text = controlRe.ReplaceAllString(text, " ")

	// Collapse whitespace within paragraphs but keep paragraph breaks.
	paragraphs := strings.Split(text, "\n\n")
	cleaned := paragraphs[:0]
	for _, p := range paragraphs {
		p = strings.Join(strings.Fields(p), " ")
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	text = strings.Join(cleaned, "\n\n")

	if len(text) > maxCommentaryLength {
		cut := text[:maxCommentaryLength]
		if idx := strings.LastIndex(cut, "."); idx > 0 {
			cut = cut[:idx+1]
		}
		text = cut
	}
	return strings.TrimSpace(text)
}
