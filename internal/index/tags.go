package index

import "strings"

// DefaultStoplist holds tag values that carry no category signal. "General"
// is the archive's sentinel for untagged items.
var DefaultStoplist = map[string]struct{}{
	"General": {},
}

// SplitTags tokenizes a raw tag field on commas and whitespace, trims each
// token, and drops empty tokens plus anything in the stoplist. The result
// preserves first-seen order and contains no duplicates.
func SplitTags(raw string, stoplist map[string]struct{}) []string {
	if raw == "" {
		return nil
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '，' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	var tags []string
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tag := strings.TrimSpace(f)
		if tag == "" {
			continue
		}
		if _, stopped := stoplist[tag]; stopped {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
