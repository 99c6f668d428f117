package ai

import (
	"fmt"
	"strings"

	"newsarchive/internal/models"
)

// maxPromptItems caps how many headlines go into one prompt; a full news day
// can carry far more than the model needs to read.
const maxPromptItems = 30

// PromptTemplates contains the prompt templates used for content generation
var PromptTemplates = struct {
	DailyCommentary string
}{
	DailyCommentary: `You are a seasoned investment analyst writing a daily market note.
Below are the news headlines and briefs archived for %s.

Write a short commentary (2-3 paragraphs, plain prose) covering:

1. The themes of the day most likely to matter to investors
2. Sectors or industries these stories touch
3. A measured, non-advisory closing observation

Do not invent facts beyond the provided items. Do not give buy/sell advice.
Respond with the commentary text only, no JSON, no markdown headers.

News of the day:
%s`,
}

// BuildCommentaryPrompt creates the daily commentary prompt for a record.
func BuildCommentaryPrompt(date string, rec *models.DayRecord) string {
	var b strings.Builder
	for i, item := range rec.List {
		if i >= maxPromptItems {
			fmt.Fprintf(&b, "(and %d more items)\n", rec.ItemCount()-maxPromptItems)
			break
		}
		fmt.Fprintf(&b, "- %s", escapeForPrompt(item.Title))
		if item.Brief != "" {
			fmt.Fprintf(&b, ": %s", escapeForPrompt(item.Brief))
		}
		b.WriteString("\n")
	}
	return fmt.Sprintf(PromptTemplates.DailyCommentary, date, b.String())
}

// escapeForPrompt escapes special characters for use in prompts
func escapeForPrompt(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}
