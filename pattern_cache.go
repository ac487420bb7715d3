package phonenumber

import (
	"regexp"
	"sync"
)

// patternCache memoizes compiled regexes keyed by pattern text. The same
// pattern fragments recur across dozens of plans, so content addressing keeps
// compilation cost bounded by the distinct pattern corpus. Growth is
// unbounded but the corpus is small and static. Safe for concurrent use.
type patternCache struct {
	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
}

func newPatternCache() *patternCache {
	return &patternCache{patterns: make(map[string]*regexp.Regexp)}
}

// get returns the compiled form of pattern, compiling at most once per
// distinct text. Repeated calls return the same object.
func (c *patternCache) get(pattern string) (*regexp.Regexp, error) {
	c.mu.RLock()
	re, ok := c.patterns[pattern]
	c.mu.RUnlock()
	if ok {
		return re, nil
	}

	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// another goroutine may have won the compile race
	if re, ok := c.patterns[pattern]; ok {
		return re, nil
	}
	c.patterns[pattern] = compiled
	return compiled, nil
}

// entireMatch reports whether s matches pattern in full. Store construction
// validates every plan pattern, so a compile failure here means a caller
// supplied pattern and degrades to no-match.
func (c *patternCache) entireMatch(pattern, s string) bool {
	re, err := c.get("^(?:" + pattern + ")$")
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

// startMatch returns the compiled pattern anchored to the start of input.
func (c *patternCache) startMatch(pattern string) (*regexp.Regexp, error) {
	return c.get("^(?:" + pattern + ")")
}
