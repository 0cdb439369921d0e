package cache

import (
	"context"
	"errors"
	"testing"
)

func TestHashKey(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
	}{
		{
			name:  "single part",
			parts: []string{"test"},
		},
		{
			name:  "multiple parts",
			parts: []string{"42", "title", "economy", "0", "20"},
		},
		{
			name:  "empty parts",
			parts: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed1 := HashKey(tt.parts...)
			hashed2 := HashKey(tt.parts...)

			// Hash should be consistent
			if hashed1 != hashed2 {
				t.Errorf("HashKey() should be consistent, got %s and %s", hashed1, hashed2)
			}

			// Hash should be 32 characters (MD5 hex)
			if len(hashed1) != 32 {
				t.Errorf("HashKey() should return 32 character hex string, got length %d", len(hashed1))
			}
		})
	}
}

func TestHashKeySeparatorMatters(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not collide
	if HashKey("ab", "c") == HashKey("a", "bc") {
		t.Error("HashKey() should distinguish part boundaries")
	}
}

func TestDisabledCacheCounters(t *testing.T) {
	ctx := context.Background()

	for _, c := range []*Cache{nil, {}} {
		if _, err := c.Counter(ctx, "feed.version"); !errors.Is(err, ErrCacheDisabled) {
			t.Errorf("Counter() on disabled cache = %v, want ErrCacheDisabled", err)
		}
		if err := c.Bump(ctx, "feed.version"); !errors.Is(err, ErrCacheDisabled) {
			t.Errorf("Bump() on disabled cache = %v, want ErrCacheDisabled", err)
		}
	}
}

func TestCacheNamespaceKey(t *testing.T) {
	c := &Cache{}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "simple key",
			key:      "feed",
			expected: "socialnet:feed",
		},
		{
			name:     "key with colon",
			key:      "feed:42",
			expected: "socialnet:feed:42",
		},
		{
			name:     "empty key",
			key:      "",
			expected: "socialnet:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.namespaceKey(tt.key)
			if result != tt.expected {
				t.Errorf("namespaceKey() = %v, want %v", result, tt.expected)
			}
		})
	}
}
