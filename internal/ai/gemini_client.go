package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"newsarchive/internal/cache"
	"newsarchive/internal/logger"
	"newsarchive/internal/models"
)

// Commentator generates a short investment-flavored commentary for one day
// of archived news via the Gemini API. Generated text is cached per date so
// repeated site builds never re-pay for the same day.
type Commentator struct {
	client  *resty.Client
	apiKey  string
	model   string
	baseURL string
	cache   cache.CommentaryCache
	ttl     time.Duration
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewCommentator creates a Commentator. cc may be a redis-backed cache or
// the in-memory one; ttl bounds how long cached commentary lives.
func NewCommentator(apiKey, model string, cc cache.CommentaryCache, ttl time.Duration) *Commentator {
	return &Commentator{
		client:  resty.New().SetTimeout(60 * time.Second),
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		cache:   cc,
		ttl:     ttl,
	}
}

// DailyCommentary returns the commentary for a date, generating it on a
// cache miss. Records with no items produce no commentary.
func (c *Commentator) DailyCommentary(ctx context.Context, date string, rec *models.DayRecord) (string, error) {
	if rec.ItemCount() == 0 {
		return "", nil
	}

	if c.cache != nil {
		cached, err := c.cache.Get(ctx, date)
		if err == nil {
			logger.Get().Debug().Str("date", date).Msg("Commentary cache hit")
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.Get().Warn().Err(err).Str("date", date).Msg("Commentary cache read failed")
		}
	}

	prompt := BuildCommentaryPrompt(date, rec)
	raw, err := c.callGeminiAPI(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("error calling Gemini API: %w", err)
	}

	text := CleanCommentary(raw)
	if text == "" {
		return "", fmt.Errorf("empty commentary for %s after cleanup", date)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, date, text, c.ttl); err != nil {
			logger.Get().Warn().Err(err).Str("date", date).Msg("Commentary cache write failed")
		}
	}
	return text, nil
}

func (c *Commentator) callGeminiAPI(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	req := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{
				Text: prompt,
			}},
		}},
	}

	var resp geminiResponse
	_, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&resp).
		Post(url)

	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("API error: %s", resp.Error.Message)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}
