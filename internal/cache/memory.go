package cache

import (
	"context"
	"time"
)

// MemoryCache provides an in-process implementation for tests and for runs
// where Redis is not available.
type MemoryCache struct {
	data   map[string]string
	prefix string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data:   make(map[string]string),
		prefix: "commentary:",
	}
}

func (m *MemoryCache) Close() error {
	return nil
}

func (m *MemoryCache) Get(ctx context.Context, date string) (string, error) {
	text, ok := m.data[m.prefix+date]
	if !ok {
		return "", ErrMiss
	}
	return text, nil
}

func (m *MemoryCache) Set(ctx context.Context, date string, text string, ttl time.Duration) error {
	m.data[m.prefix+date] = text
	return nil
}
