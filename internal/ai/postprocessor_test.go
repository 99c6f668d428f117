package ai

import (
	"strings"
	"testing"

	"newsarchive/internal/models"
)

func TestCleanCommentary(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"plain text", "Markets were calm today.", "Markets were calm today."},
		{"code fences stripped", "```text\nMarkets were calm.\n```", "Markets were calm."},
		{"bare fences stripped", "```Markets were calm.```", "Markets were calm."},
		{"control chars removed", "Markets\x00 were\x1f calm.", "Markets were calm."},
		{"intra-paragraph whitespace collapsed", "Markets   were\t calm.", "Markets were calm."},
		{"paragraph breaks kept", "First paragraph.\n\nSecond paragraph.", "First paragraph.\n\nSecond paragraph."},
		{"empty paragraphs dropped", "First.\n\n   \n\nSecond.", "First.\n\nSecond."},
		{"surrounding whitespace trimmed", "  Markets were calm.  \n", "Markets were calm."},
		{"empty input", "", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := CleanCommentary(c.raw); got != c.want {
				t.Errorf("CleanCommentary(%q) = %q, want %q", c.raw, got, c.want)
			}
		})
	}
}

func TestCleanCommentaryBoundsLength(t *testing.T) {
	sentence := "This is a filler sentence about the market. "
	raw := strings.Repeat(sentence, 200)

	got := CleanCommentary(raw)
	if len(got) > maxCommentaryLength {
		t.Fatalf("cleaned text is %d chars, limit is %d", len(got), maxCommentaryLength)
	}
	if !strings.HasSuffix(got, ".") {
		t.Errorf("truncation should end at a sentence boundary, got suffix %q", got[len(got)-20:])
	}
}

func TestBuildCommentaryPromptCapsItems(t *testing.T) {
	rec := &models.DayRecord{}
	for i := 0; i < maxPromptItems+10; i++ {
		rec.List = append(rec.List, models.NewsItem{Title: "headline", Brief: "brief"})
	}
	prompt := BuildCommentaryPrompt("20250315", rec)
	if got := strings.Count(prompt, "- headline"); got != maxPromptItems {
		t.Errorf("prompt carries %d items, want cap of %d", got, maxPromptItems)
	}
	if !strings.Contains(prompt, "(and 10 more items)") {
		t.Error("prompt should note the overflow count")
	}
	if !strings.Contains(prompt, "20250315") {
		t.Error("prompt should mention the date")
	}
}
