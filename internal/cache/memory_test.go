package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheMissThenHit(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if _, err := c.Get(ctx, "20250315"); !errors.Is(err, ErrMiss) {
		t.Fatalf("Get before Set: got %v, want ErrMiss", err)
	}

	if err := c.Set(ctx, "20250315", "a note", time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	text, err := c.Get(ctx, "20250315")
	if err != nil {
		t.Fatalf("Get after Set: %v", err)
	}
	if text != "a note" {
		t.Errorf("Get = %q, want %q", text, "a note")
	}

	// Other dates stay independent.
	if _, err := c.Get(ctx, "20250316"); !errors.Is(err, ErrMiss) {
		t.Errorf("Get of different date: got %v, want ErrMiss", err)
	}

	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
