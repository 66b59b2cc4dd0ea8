package util

import "strconv"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxPage         = 10000
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Calculate turns a 1-based page and a size into offset and limit. Out of
// range sizes fall back to the default and page is clamped to [1, MaxPage].
func Calculate(page, size int) (offset, limit int) {
	switch {
	case page < 1:
		page = 1
	case page > MaxPage:
		page = MaxPage
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}
