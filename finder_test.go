package phonenumber

import (
	"strings"
	"testing"
)

func collectMatches(m *Matcher) []PhoneNumberMatch {
	var out []PhoneNumberMatch
	for m.Next() {
		out = append(out, m.Match())
	}
	return out
}

func TestFindNumbersInText(t *testing.T) {
	util := newTestUtil(t)

	text := "Call me at (650) 253-0000 tomorrow, or the office on +44 20 8366 1177."
	matches := collectMatches(util.FindNumbers(text, "US", LeniencyValid, 0))

	if len(matches) != 2 {
		t.Fatalf("found %d matches, want 2: %+v", len(matches), matches)
	}

	first := matches[0]
	if first.Raw != "(650) 253-0000" {
		t.Fatalf("first.Raw = %q", first.Raw)
	}
	if first.Start != strings.Index(text, "(650)") {
		t.Fatalf("first.Start = %d", first.Start)
	}
	if first.End() != first.Start+len(first.Raw) {
		t.Fatalf("End() inconsistent with Start and Raw")
	}
	if first.Number.CountryCode != 1 || first.Number.NationalNumber != 6502530000 {
		t.Fatalf("first parsed as %+v", first.Number)
	}
	if first.Number.RawInput != first.Raw {
		t.Fatalf("match raw input = %q want %q", first.Number.RawInput, first.Raw)
	}

	second := matches[1]
	if second.Number.CountryCode != 44 || second.Number.NationalNumber != 2083661177 {
		t.Fatalf("second parsed as %+v", second.Number)
	}
}

func TestFindNumbersRejectsDates(t *testing.T) {
	util := newTestUtil(t)

	for _, text := range []string{
		"the meeting moved to 11/12/2012 at noon",
		"deadline 3/9/99 is firm",
	} {
		if matches := collectMatches(util.FindNumbers(text, "US", LeniencyPossible, 0)); len(matches) != 0 {
			t.Fatalf("date in %q matched: %+v", text, matches)
		}
	}
}

func TestFindNumbersRejectsUnbalancedBrackets(t *testing.T) {
	util := newTestUtil(t)

	text := "broken (650 253-0000) 1234) input"
	for _, match := range collectMatches(util.FindNumbers(text, "US", LeniencyValid, 0)) {
		if !bracketsAreBalanced(match.Raw) {
			t.Fatalf("unbalanced candidate survived: %q", match.Raw)
		}
	}
}

func TestFindNumbersLeniencyLadder(t *testing.T) {
	util := newTestUtil(t)

	tests := []struct {
		name     string
		text     string
		leniency Leniency
		want     int
	}{
		// local-only length passes POSSIBLE but not VALID
		{name: "possible accepts local", text: "ring 253-0000 today", leniency: LeniencyPossible, want: 1},
		{name: "valid rejects local", text: "ring 253-0000 today", leniency: LeniencyValid, want: 0},
		{name: "valid accepts full", text: "ring 650 253 0000 today", leniency: LeniencyValid, want: 1},
		// the grouping 65 0253 0000 splits no formatting group boundary at 3
		{name: "strict rejects misgrouped", text: "ring +1 65 0253 0000 today", leniency: LeniencyStrictGrouping, want: 0},
		{name: "strict accepts formatted", text: "ring +1 650-253-0000 today", leniency: LeniencyStrictGrouping, want: 1},
		{name: "strict accepts unformatted", text: "ring +16502530000 today", leniency: LeniencyStrictGrouping, want: 1},
		// merging groups is fine for strict but not exact
		{name: "strict accepts merged groups", text: "ring +1 650 2530000 today", leniency: LeniencyStrictGrouping, want: 1},
		{name: "exact rejects merged groups", text: "ring +1 650 2530000 today", leniency: LeniencyExactGrouping, want: 0},
		{name: "exact accepts canonical", text: "ring +1 650-253-0000 today", leniency: LeniencyExactGrouping, want: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			matches := collectMatches(util.FindNumbers(tc.text, "US", tc.leniency, 0))
			if len(matches) != tc.want {
				t.Fatalf("found %d matches, want %d: %+v", len(matches), tc.want, matches)
			}
		})
	}
}

func TestFindNumbersRejectsGluedContext(t *testing.T) {
	util := newTestUtil(t)

	tests := []struct {
		name     string
		text     string
		leniency Leniency
		want     int
	}{
		{name: "letters both sides", text: "order abc6502530000def shipped", leniency: LeniencyValid, want: 0},
		{name: "letter before", text: "code650 253 0000 is yours", leniency: LeniencyValid, want: 0},
		{name: "letter after", text: "dial 650 253 0000px now", leniency: LeniencyValid, want: 0},
		{name: "currency sign before", text: "price $650 253 0000 today", leniency: LeniencyValid, want: 0},
		{name: "percent after", text: "sale 650 253 0000% off", leniency: LeniencyValid, want: 0},
		{name: "clean boundaries", text: "call 650 253 0000, thanks", leniency: LeniencyValid, want: 1},
		// context is only vetted at VALID and above
		{name: "possible skips context check", text: "abc253-0000def", leniency: LeniencyPossible, want: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			matches := collectMatches(util.FindNumbers(tc.text, "US", tc.leniency, 0))
			if len(matches) != tc.want {
				t.Fatalf("found %d matches, want %d: %+v", len(matches), tc.want, matches)
			}
		})
	}
}

func TestFindNumbersMaxTries(t *testing.T) {
	util := newTestUtil(t)

	// every candidate here fails verification, eating one try each
	// commas separate candidates; spaces would chain the runs together
	text := strings.Repeat("12/13/2014, ", 5) + "650 253 0000"
	if matches := collectMatches(util.FindNumbers(text, "US", LeniencyValid, 2)); len(matches) != 0 {
		t.Fatalf("exhausted matcher still matched: %+v", matches)
	}
	if matches := collectMatches(util.FindNumbers(text, "US", LeniencyValid, 100)); len(matches) != 1 {
		t.Fatalf("generous budget found %d matches", len(matches))
	}
}

func TestFindNumbersEmptyAndNoMatch(t *testing.T) {
	util := newTestUtil(t)

	if matches := collectMatches(util.FindNumbers("", "US", LeniencyValid, 0)); len(matches) != 0 {
		t.Fatalf("empty text matched: %+v", matches)
	}
	if matches := collectMatches(util.FindNumbers("no digits here", "US", LeniencyValid, 0)); len(matches) != 0 {
		t.Fatalf("digit-free text matched: %+v", matches)
	}
}

func TestFindNumbersNationalPrefixRequirement(t *testing.T) {
	// a plan whose formatting rule makes the national prefix mandatory
	// rejects nationally dialed candidates that omit it
	util, err := NewUtil(WithMetadata(&Metadata{
		ID:             "HU",
		CountryCode:    36,
		NationalPrefix: "06",
		GeneralDesc: &NumberDesc{
			NationalNumberPattern: `[1-9]\d{7,8}`,
			PossibleLengths:       []int{8, 9},
		},
		FixedLine: &NumberDesc{
			NationalNumberPattern: `1\d{7}`,
			PossibleLengths:       []int{8},
		},
		NumberFormats: []NumberFormat{{
			Pattern:                      `(\d)(\d{3})(\d{4})`,
			Format:                       "$1 $2 $3",
			NationalPrefixFormattingRule: "($NP $FG)",
		}},
	}))
	if err != nil {
		t.Fatalf("NewUtil: %v", err)
	}

	withPrefix := collectMatches(util.FindNumbers("hívj: 06 1 234 5678", "HU", LeniencyValid, 0))
	if len(withPrefix) != 1 {
		t.Fatalf("prefixed number not found: %+v", withPrefix)
	}
	withoutPrefix := collectMatches(util.FindNumbers("hívj: 1 234 5678", "HU", LeniencyValid, 0))
	if len(withoutPrefix) != 0 {
		t.Fatalf("prefixless number accepted: %+v", withoutPrefix)
	}
}
