package models

import "time"

// ArchiveIndex is the derived aggregate over every persisted DayRecord. It is
// rebuilt wholesale on each indexing pass and holds nothing that cannot be
// recomputed from the store.
type ArchiveIndex struct {
	TotalNews   int                                `json:"total_news"`
	FirstDate   string                             `json:"first_date,omitempty"`
	LastDate    string                             `json:"last_date,omitempty"`
	Years       map[string]map[string][]DaySummary `json:"years"`
	Categories  map[string]int                     `json:"categories"`
	Recent      []RecentItem                       `json:"recent"`
	GeneratedAt time.Time                          `json:"generated_at"`
}

// DaySummary is the per-date entry in the year->month browse tree.
type DaySummary struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// RecentItem is an item inside the bounded recent window, denormalized with
// its owning date so consumers never have to re-open day files.
type RecentItem struct {
	Date  string `json:"date"`
	ID    string `json:"id"`
	Title string `json:"title"`
	Brief string `json:"brief"`
	Tag   string `json:"tag"`
	Image string `json:"image,omitempty"`
	URL   string `json:"url,omitempty"`
}

// SearchEntry is one flattened row of search.json: one entry per news item
// with the date fields split out and a precomputed permalink.
type SearchEntry struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Year      string `json:"year"`
	Month     string `json:"month"`
	Day       string `json:"day"`
	Title     string `json:"title"`
	Brief     string `json:"brief"`
	Tag       string `json:"tag"`
	Permalink string `json:"permalink"`
}
