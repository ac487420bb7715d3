package phonenumber

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPrefixMapLookup(t *testing.T) {
	m := NewPrefixMap(map[int]string{
		1650:    "California",
		1650253: "Mountain View",
		1212:    "New York",
		44:      "United Kingdom",
		4420:    "London",
	})
	if m.Len() != 5 {
		t.Fatalf("Len = %d want 5", m.Len())
	}

	tests := []struct {
		name   string
		number uint64
		want   string
		wantOK bool
	}{
		{name: "longest prefix wins", number: 16502530000, want: "Mountain View", wantOK: true},
		{name: "shorter prefix fallback", number: 16504301234, want: "California", wantOK: true},
		{name: "different area", number: 12125551234, want: "New York", wantOK: true},
		{name: "country level", number: 441212345678, want: "United Kingdom", wantOK: true},
		{name: "city level", number: 442083661177, want: "London", wantOK: true},
		{name: "no prefix matches", number: 3912345678, wantOK: false},
		{name: "number shorter than prefixes", number: 9, wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := m.Lookup(tc.number)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("Lookup(%d) = (%q, %t) want (%q, %t)", tc.number, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestPrefixMapEmpty(t *testing.T) {
	var nilMap *PrefixMap
	if _, ok := nilMap.Lookup(16502530000); ok {
		t.Fatalf("nil map returned a hit")
	}
	empty := NewPrefixMap(nil)
	if _, ok := empty.Lookup(16502530000); ok {
		t.Fatalf("empty map returned a hit")
	}
}

func TestLoadPrefixDataJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefixes.json")
	payload := `{"en": {"1650": "California", "1650253": "Mountain View"}, "DE": {"4930": "Berlin"}}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	maps, err := LoadPrefixData(path)
	if err != nil {
		t.Fatalf("LoadPrefixData: %v", err)
	}
	if got, ok := maps["en"].Lookup(16502530000); !ok || got != "Mountain View" {
		t.Fatalf("en lookup = (%q, %t)", got, ok)
	}
	// language keys are normalized to lower case
	if _, ok := maps["de"]; !ok {
		t.Fatalf("DE table not keyed as de: %v", maps)
	}
}

func TestLoadPrefixDataYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefixes.yaml")
	payload := "en:\n  \"4420\": London\n  \"44\": United Kingdom\n"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	maps, err := LoadPrefixData(path)
	if err != nil {
		t.Fatalf("LoadPrefixData: %v", err)
	}
	if got, ok := maps["en"].Lookup(442083661177); !ok || got != "London" {
		t.Fatalf("yaml lookup = (%q, %t)", got, ok)
	}
}

func TestLoadPrefixDataErrors(t *testing.T) {
	dir := t.TempDir()

	badExt := filepath.Join(dir, "prefixes.txt")
	if err := os.WriteFile(badExt, []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadPrefixData(badExt); err == nil {
		t.Fatalf("unsupported extension accepted")
	}

	badPrefix := filepath.Join(dir, "prefixes.json")
	if err := os.WriteFile(badPrefix, []byte(`{"en": {"abc": "nope"}}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadPrefixData(badPrefix); err == nil {
		t.Fatalf("non-numeric prefix accepted")
	}

	if _, err := LoadPrefixData(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("missing file accepted")
	}
}
