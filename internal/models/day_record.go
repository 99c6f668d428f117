package models

// DayRecord is the persisted set of news items for one calendar date. It maps
// 1:1 onto a `{year}/{date}.json` file in the archive store. A record with an
// empty List is a valid "no news that day" fact and is distinct from a date
// that was never fetched.
type DayRecord struct {
	Date string     `json:"date,omitempty"`
	List []NewsItem `json:"list" validate:"required"`
}

// ItemCount returns the number of items in the record.
func (r *DayRecord) ItemCount() int {
	return len(r.List)
}

// NewsItem represents one news entry inside a DayRecord. Items are owned by
// their parent record and never shared across dates.
type NewsItem struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Brief  string      `json:"brief"`
	Tag    string      `json:"tag"`
	Length string      `json:"length,omitempty"`
	Time   string      `json:"time,omitempty"`
	URL    string      `json:"url,omitempty"`
	Image  string      `json:"image,omitempty"`
	Detail *NewsDetail `json:"content,omitempty"`
}

// NewsDetail carries the optional long-form body of an item. The content is
// HTML-bearing text; stripping presentation markup is the renderer's job,
// not ours.
type NewsDetail struct {
	Content string `json:"content"`
}
