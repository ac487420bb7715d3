package phonenumber

import (
	"fmt"
	"sync"
	"testing"
)

func TestPatternCacheReturnsSameObject(t *testing.T) {
	cache := newPatternCache()

	first, err := cache.get(`\d{3}`)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	second, err := cache.get(`\d{3}`)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if first != second {
		t.Fatalf("repeat get compiled a second regexp")
	}

	other, err := cache.get(`\d{4}`)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if other == first {
		t.Fatalf("distinct patterns shared one regexp")
	}
}

func TestPatternCacheInvalidPattern(t *testing.T) {
	cache := newPatternCache()
	if _, err := cache.get(`[`); err == nil {
		t.Fatalf("invalid pattern compiled")
	}
	if cache.entireMatch(`[`, "123") {
		t.Fatalf("invalid pattern matched")
	}
	if _, err := cache.startMatch(`[`); err == nil {
		t.Fatalf("invalid pattern compiled via startMatch")
	}
}

func TestPatternCacheEntireMatchIsAnchored(t *testing.T) {
	cache := newPatternCache()

	tests := []struct {
		name    string
		pattern string
		input   string
		want    bool
	}{
		{name: "full match", pattern: `\d{3}`, input: "650", want: true},
		{name: "prefix only", pattern: `\d{3}`, input: "6502", want: false},
		{name: "suffix only", pattern: `\d{3}`, input: "x650", want: false},
		// alternations bind inside the anchors, not around them
		{name: "alternation full", pattern: `2\d{2}|650`, input: "650", want: true},
		{name: "alternation partial", pattern: `2\d{2}|650`, input: "6500", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := cache.entireMatch(tc.pattern, tc.input); got != tc.want {
				t.Fatalf("entireMatch(%q, %q) = %t want %t", tc.pattern, tc.input, got, tc.want)
			}
		})
	}
}

func TestPatternCacheStartMatch(t *testing.T) {
	cache := newPatternCache()

	re, err := cache.startMatch(`0|1`)
	if err != nil {
		t.Fatalf("startMatch: %v", err)
	}
	if !re.MatchString("0343") {
		t.Fatalf("start anchor rejected leading match")
	}
	if re.MatchString("343") {
		t.Fatalf("start anchor matched mid-string")
	}
}

func TestPatternCacheConcurrentAccess(t *testing.T) {
	cache := newPatternCache()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				pattern := fmt.Sprintf(`\d{%d}`, j%5+1)
				if _, err := cache.get(pattern); err != nil {
					t.Errorf("goroutine %d: get(%q): %v", n, pattern, err)
				}
			}
		}(i)
	}
	wg.Wait()
}
