package index

import (
	"reflect"
	"testing"
)

func TestSplitTags(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "Economy", []string{"Economy"}},
		{"comma separated", "Economy,Policy", []string{"Economy", "Policy"}},
		{"whitespace separated", "Economy Policy", []string{"Economy", "Policy"}},
		{"mixed delimiters", "Economy, Policy\tMarkets", []string{"Economy", "Policy", "Markets"}},
		{"fullwidth comma", "财经，科技", []string{"财经", "科技"}},
		{"sentinel dropped", "General", nil},
		{"sentinel among others", "General,Economy", []string{"Economy"}},
		{"only delimiters", ", ,, ", nil},
		{"duplicates collapsed", "Economy,Economy Policy", []string{"Economy", "Policy"}},
		{"surrounding whitespace", "  Economy , Policy  ", []string{"Economy", "Policy"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := SplitTags(c.raw, DefaultStoplist)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("SplitTags(%q) = %v, want %v", c.raw, got, c.want)
			}
		})
	}
}

func TestSplitTagsCustomStoplist(t *testing.T) {
	stop := map[string]struct{}{"Misc": {}}
	got := SplitTags("General,Misc", stop)
	if !reflect.DeepEqual(got, []string{"General"}) {
		t.Errorf("custom stoplist: got %v, want [General]", got)
	}
}
