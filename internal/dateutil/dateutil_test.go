package dateutil

import (
	"errors"
	"testing"
)

func TestParseKeyRejectsMalformedInput(t *testing.T) {
	bad := []string{
		"",
		"2023",
		"202301011",  // 9 digits
		"2023-01-01", // separators
		"2023010a",
		"20230230", // not a real date
		"20231301", // month 13
		"20230100", // day 0
	}
	for _, key := range bad {
		if _, err := ParseKey(key); !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("ParseKey(%q): want ErrInvalidDateFormat, got %v", key, err)
		}
	}
}

func TestParseKeyAcceptsLeapDay(t *testing.T) {
	if _, err := ParseKey("20120229"); err != nil {
		t.Fatalf("ParseKey leap day: %v", err)
	}
	if _, err := ParseKey("21000229"); err == nil {
		t.Fatal("ParseKey(21000229): 2100 is not a leap year, want error")
	}
}

func TestCursorCrossesMonthAndLeapBoundary(t *testing.T) {
	keys, err := Keys("20120228", "20120301")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	want := []string{"20120228", "20120229", "20120301"}
	if len(keys) != len(want) {
		t.Fatalf("got %d keys %v, want %v", len(keys), keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %s, want %s", i, keys[i], want[i])
		}
	}
}

func TestCursorCountMatchesDaysBetween(t *testing.T) {
	pairs := [][2]string{
		{"20110101", "20120630"},
		{"20231201", "20240115"}, // year rollover
		{"20240101", "20241231"}, // full leap year
		{"20250501", "20250501"}, // single day
	}
	for _, p := range pairs {
		diff, err := DaysBetween(p[0], p[1])
		if err != nil {
			t.Fatalf("DaysBetween(%s, %s): %v", p[0], p[1], err)
		}
		keys, err := Keys(p[0], p[1])
		if err != nil {
			t.Fatalf("Keys(%s, %s): %v", p[0], p[1], err)
		}
		if len(keys) != diff+1 {
			t.Errorf("Keys(%s, %s) yielded %d dates, want daysBetween+1 = %d", p[0], p[1], len(keys), diff+1)
		}
		for i := 1; i < len(keys); i++ {
			if keys[i] <= keys[i-1] {
				t.Fatalf("sequence not strictly ascending at %d: %s then %s", i, keys[i-1], keys[i])
			}
			if d, _ := DaysBetween(keys[i-1], keys[i]); d != 1 {
				t.Fatalf("gap between %s and %s is %d days", keys[i-1], keys[i], d)
			}
		}
	}
}

func TestCursorEmptyWhenStartAfterEnd(t *testing.T) {
	cur, err := NewCursor("20250110", "20250101")
	if err != nil {
		t.Fatalf("NewCursor: %v", err)
	}
	if cur.Len() != 0 {
		t.Errorf("Len = %d, want 0", cur.Len())
	}
	if key, ok := cur.Next(); ok {
		t.Errorf("Next yielded %s over an empty range", key)
	}
}

func TestCursorReset(t *testing.T) {
	cur, err := NewCursor("20250101", "20250103")
	if err != nil {
		t.Fatalf("NewCursor: %v", err)
	}
	for _, ok := cur.Next(); ok; _, ok = cur.Next() {
	}
	cur.Reset()
	key, ok := cur.Next()
	if !ok || key != "20250101" {
		t.Errorf("after Reset, Next = (%s, %v), want (20250101, true)", key, ok)
	}
}

func TestDaysBetweenNegative(t *testing.T) {
	d, err := DaysBetween("20250110", "20250101")
	if err != nil {
		t.Fatalf("DaysBetween: %v", err)
	}
	if d != -9 {
		t.Errorf("DaysBetween = %d, want -9", d)
	}
}

func TestAddDays(t *testing.T) {
	cases := []struct {
		key  string
		n    int
		want string
	}{
		{"20231231", 1, "20240101"},
		{"20240228", 1, "20240229"},
		{"20240301", -1, "20240229"},
		{"20250101", -7, "20241225"},
		{"20250615", 0, "20250615"},
	}
	for _, c := range cases {
		got, err := AddDays(c.key, c.n)
		if err != nil {
			t.Fatalf("AddDays(%s, %d): %v", c.key, c.n, err)
		}
		if got != c.want {
			t.Errorf("AddDays(%s, %d) = %s, want %s", c.key, c.n, got, c.want)
		}
	}
}

func TestIsOnOrBefore(t *testing.T) {
	ok, err := IsOnOrBefore("20250101", "20250102")
	if err != nil || !ok {
		t.Errorf("IsOnOrBefore(20250101, 20250102) = (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = IsOnOrBefore("20250102", "20250101")
	if err != nil || ok {
		t.Errorf("IsOnOrBefore(20250102, 20250101) = (%v, %v), want (false, nil)", ok, err)
	}
	if _, err := IsOnOrBefore("bad", "20250101"); err == nil {
		t.Error("IsOnOrBefore with invalid key: want error")
	}
}
