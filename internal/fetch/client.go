// Package fetch is the thin HTTP transport behind the crawler's Fetcher
// interface. The crawler only cares about record-or-error; everything else
// about the upstream archive endpoint stays in here.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"newsarchive/internal/models"
)

// Client fetches one day of archived news from the upstream JSON endpoint.
type Client struct {
	client  *resty.Client
	baseURL string
}

// NewClient creates a Client against the given base URL. The endpoint is
// expected to serve `{baseURL}/{year}/{date}.json`.
func NewClient(baseURL string) *Client {
	return &Client{
		client: resty.New().
			SetTimeout(30 * time.Second).
			SetHeader("User-Agent", "newsarchive/1.0"),
		baseURL: baseURL,
	}
}

// FetchDay retrieves the record for one date. A 404 from upstream means the
// date has no archive entry and comes back as a valid empty record; any
// other non-200 status or transport error is returned as-is.
func (c *Client) FetchDay(ctx context.Context, date string) (*models.DayRecord, error) {
	url := fmt.Sprintf("%s/%s/%s.json", c.baseURL, date[:4], date)

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return &models.DayRecord{Date: date, List: []models.NewsItem{}}, nil
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode(), url)
	}

	var rec models.DayRecord
	if err := json.Unmarshal(resp.Body(), &rec); err != nil {
		return nil, fmt.Errorf("failed to parse day response for %s: %w", date, err)
	}
	if rec.List == nil {
		rec.List = []models.NewsItem{}
	}
	rec.Date = date
	return &rec, nil
}
