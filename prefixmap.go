package phonenumber

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// PrefixMap answers longest-matching-prefix queries over a sorted table of
// integer prefixes with variable lengths, the lookup shape shared by
// geocoding and carrier data. Immutable once built.
type PrefixMap struct {
	prefixes     []int
	descriptions []string
	// lengths holds the distinct prefix digit counts present in the table,
	// descending, so lookups try the longest prefixes first.
	lengths []int
}

// NewPrefixMap builds a map from prefix to description. Prefixes are keyed on
// their decimal digits; a phone number matches the longest prefix its leading
// digits equal.
func NewPrefixMap(entries map[int]string) *PrefixMap {
	m := &PrefixMap{
		prefixes:     make([]int, 0, len(entries)),
		descriptions: make([]string, 0, len(entries)),
	}
	for prefix := range entries {
		m.prefixes = append(m.prefixes, prefix)
	}
	sort.Ints(m.prefixes)

	lengthSeen := make(map[int]bool)
	for _, prefix := range m.prefixes {
		m.descriptions = append(m.descriptions, entries[prefix])
		lengthSeen[digitCount(prefix)] = true
	}
	for length := range lengthSeen {
		m.lengths = append(m.lengths, length)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(m.lengths)))
	return m
}

// Len returns the number of entries.
func (m *PrefixMap) Len() int { return len(m.prefixes) }

// Lookup finds the description of the longest prefix matching the leading
// digits of number, trying each recorded prefix length from longest to
// shortest.
func (m *PrefixMap) Lookup(number uint64) (string, bool) {
	if m == nil || len(m.prefixes) == 0 {
		return "", false
	}
	digits := strconv.FormatUint(number, 10)
	for _, length := range m.lengths {
		if length > len(digits) {
			continue
		}
		prefix, err := strconv.Atoi(digits[:length])
		if err != nil {
			continue
		}
		if idx, found := m.search(prefix); found {
			return m.descriptions[idx], true
		}
	}
	return "", false
}

// search binary-searches for target. On a miss it returns the index of the
// largest entry strictly less than target (-1 when none), which keeps the
// door open for nearest-prefix queries even though Lookup only takes exact
// hits.
func (m *PrefixMap) search(target int) (int, bool) {
	idx := sort.SearchInts(m.prefixes, target)
	if idx < len(m.prefixes) && m.prefixes[idx] == target {
		return idx, true
	}
	return idx - 1, false
}

func digitCount(n int) int {
	if n == 0 {
		return 1
	}
	count := 0
	for n > 0 {
		count++
		n /= 10
	}
	return count
}

// prefixDataFile is the on-disk shape of prefix tables: descriptions keyed by
// language, then by prefix digits.
type prefixDataFile map[string]map[string]string

// LoadPrefixData reads per-language prefix tables from a JSON or YAML file.
func LoadPrefixData(path string) (map[string]*PrefixMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("phonenumber: read %s: %w", path, err)
	}

	var file prefixDataFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &file)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	default:
		return nil, fmt.Errorf("phonenumber: unsupported extension %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("phonenumber: decode %s: %w", path, err)
	}
	return buildPrefixMaps(file)
}

func buildPrefixMaps(file prefixDataFile) (map[string]*PrefixMap, error) {
	if len(file) == 0 {
		return nil, errors.New("phonenumber: empty prefix data")
	}
	out := make(map[string]*PrefixMap, len(file))
	for lang, table := range file {
		entries := make(map[int]string, len(table))
		for digits, description := range table {
			prefix, err := strconv.Atoi(digits)
			if err != nil || prefix <= 0 {
				return nil, fmt.Errorf("phonenumber: bad prefix %q for language %s", digits, lang)
			}
			entries[prefix] = description
		}
		out[strings.ToLower(lang)] = NewPrefixMap(entries)
	}
	return out, nil
}
