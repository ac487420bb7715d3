package phonenumber

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxTries is a FindNumbers budget high enough for any sane document.
const DefaultMaxTries = 65535

// PhoneNumberMatch is one number found in free text.
type PhoneNumberMatch struct {
	// Start is the byte offset of the raw match within the scanned text.
	Start int
	// Raw is the matched substring exactly as it appears in the text.
	Raw string
	// Number is the parsed form of the match.
	Number *PhoneNumber
}

func (m PhoneNumberMatch) End() int { return m.Start + len(m.Raw) }

// candidatePattern over-captures possible number substrings: an optional
// bracket or plus lead-in, then digit runs separated by limited punctuation,
// with an optional extension tail. Candidates are vetted afterwards.
var candidatePattern = regexp.MustCompile(
	`(?i)(?:[(\[（［` + plusChars + `][` + validPunctuation + `]{0,4}){0,2}` +
		`\p{Nd}{1,20}(?:[` + validPunctuation + `]{0,4}\p{Nd}{1,20}){0,20}` +
		`(?:` + extnPatternsForParsing + `)?`)

// slashSeparatedDates recognizes date fragments like 11/12/2012 that the
// candidate pattern would otherwise swallow.
var slashSeparatedDates = regexp.MustCompile(
	`(?:(?:[0-3]?\d/[01]?\d)|(?:[01]?\d/[0-3]?\d))/(?:[12]\d{3}|\d{2})`)

// leadClassPattern matches the bracket/plus lead-in characters a phone number
// legitimately starts with. A candidate opening this way separates itself from
// the preceding text, so the character before it is not inspected.
var leadClassPattern = regexp.MustCompile(`^[(\[（［` + plusChars + `]`)

// Matcher is a restartable lazy sequence of phone number matches over one
// text blob. It is pull based: the caller stops calling Next to cancel.
type Matcher struct {
	util          *Util
	text          string
	defaultRegion string
	leniency      Leniency
	// maxTries bounds the number of rejected candidates before the matcher
	// gives up, guarding against degenerate inputs.
	maxTries    int
	searchIndex int
	current     PhoneNumberMatch
}

// FindNumbers scans text for phone numbers parseable under defaultRegion at
// the given leniency.
func (u *Util) FindNumbers(text, defaultRegion string, leniency Leniency, maxTries int) *Matcher {
	if maxTries <= 0 {
		maxTries = DefaultMaxTries
	}
	return &Matcher{
		util:          u,
		text:          text,
		defaultRegion: defaultRegion,
		leniency:      leniency,
		maxTries:      maxTries,
	}
}

// Next advances to the next match, reporting whether one was found.
func (m *Matcher) Next() bool {
	for m.maxTries > 0 && m.searchIndex < len(m.text) {
		loc := candidatePattern.FindStringIndex(m.text[m.searchIndex:])
		if loc == nil {
			return false
		}
		start := m.searchIndex + loc[0]
		end := m.searchIndex + loc[1]
		candidate := trimAfterFirstMatch(secondNumberStartPattern, m.text[start:end])
		m.searchIndex = end

		if match, ok := m.extractMatch(candidate, start); ok {
			m.current = match
			return true
		}
		m.maxTries--
	}
	return false
}

// Match returns the match Next found.
func (m *Matcher) Match() PhoneNumberMatch {
	return m.current
}

func trimAfterFirstMatch(re *regexp.Regexp, s string) string {
	if loc := re.FindStringIndex(s); loc != nil {
		return s[:loc[0]]
	}
	return s
}

func (m *Matcher) extractMatch(candidate string, offset int) (PhoneNumberMatch, bool) {
	if candidate == "" || slashSeparatedDates.MatchString(candidate) {
		return PhoneNumberMatch{}, false
	}
	if !bracketsAreBalanced(candidate) {
		return PhoneNumberMatch{}, false
	}
	// At VALID and stricter, digit runs glued into surrounding words like
	// abc8005001234 are not numbers.
	if m.leniency >= LeniencyValid && !m.contextAllowsMatch(candidate, offset) {
		return PhoneNumberMatch{}, false
	}

	number, err := m.util.ParseAndKeepRawInput(candidate, m.defaultRegion)
	if err != nil {
		return PhoneNumberMatch{}, false
	}
	if !m.verify(number, candidate) {
		return PhoneNumberMatch{}, false
	}

	// matches never leak the scanning bookkeeping
	result := number.Clone()
	result.RawInput = candidate
	return PhoneNumberMatch{Start: offset, Raw: candidate, Number: result}, true
}

// contextAllowsMatch vets the characters immediately around the candidate:
// a Latin letter or a currency/percent sign touching either end means the
// digits belong to the surrounding text, not to a phone number.
func (m *Matcher) contextAllowsMatch(candidate string, offset int) bool {
	if offset > 0 && !leadClassPattern.MatchString(candidate) {
		previous, _ := utf8.DecodeLastRuneInString(m.text[:offset])
		if isInvalidPunctuationSymbol(previous) || isLatinLetter(previous) {
			return false
		}
	}
	if end := offset + len(candidate); end < len(m.text) {
		next, _ := utf8.DecodeRuneInString(m.text[end:])
		if isInvalidPunctuationSymbol(next) || isLatinLetter(next) {
			return false
		}
	}
	return true
}

// isLatinLetter reports whether r is a Latin letter or a combining mark, the
// characters that would weld a digit run into a word.
func isLatinLetter(r rune) bool {
	if !unicode.IsLetter(r) && !unicode.Is(unicode.Mn, r) {
		return false
	}
	return unicode.Is(unicode.Latin, r) || unicode.Is(unicode.Mn, r)
}

func isInvalidPunctuationSymbol(r rune) bool {
	return r == '%' || unicode.Is(unicode.Sc, r)
}

func bracketsAreBalanced(candidate string) bool {
	depth := 0
	for _, r := range candidate {
		switch r {
		case '(', '[', '（', '［':
			depth++
		case ')', ']', '）', '］':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// verify applies the leniency ladder: each level implies all the previous
// ones.
func (m *Matcher) verify(number *PhoneNumber, candidate string) bool {
	u := m.util
	switch m.leniency {
	case LeniencyPossible:
		return u.IsPossibleNumber(number)
	case LeniencyValid:
		return u.IsValidNumber(number) && u.isNationalPrefixPresentIfRequired(number)
	case LeniencyStrictGrouping:
		return u.IsValidNumber(number) && u.isNationalPrefixPresentIfRequired(number) &&
			m.checkNumberGrouping(number, candidate, false)
	case LeniencyExactGrouping:
		return u.IsValidNumber(number) && u.isNationalPrefixPresentIfRequired(number) &&
			m.checkNumberGrouping(number, candidate, true)
	}
	return false
}

// isNationalPrefixPresentIfRequired rejects nationally formatted candidates
// that omit a national prefix the chosen formatting rule considers mandatory.
func (u *Util) isNationalPrefixPresentIfRequired(number *PhoneNumber) bool {
	if number.CountryCodeSource != SourceFromDefaultCountry {
		// the number stated its country code; no national prefix expected
		return true
	}
	regionCode := u.GetRegionCodeForCountryCode(number.CountryCode)
	md := u.metadataForRegion(regionCode)
	if md == nil || md.NationalPrefix == "" {
		return true
	}
	nsn := number.NationalSignificantNumber()
	rule := u.chooseFormattingPatternForNumber(md.NumberFormats, nsn)
	if rule == nil || rule.NationalPrefixFormattingRule == "" || rule.NationalPrefixOptionalWhenFormatting {
		return true
	}
	raw := normalizeDigitsOnly(number.RawInput)
	stripped := raw
	return u.maybeStripNationalPrefixAndCarrierCode(&stripped, md, nil)
}

// checkNumberGrouping compares the digit grouping the candidate uses in the
// text against the grouping the plan's formatting rules produce. Strict mode
// accepts any coarsening of the formatted groups; exact mode requires the
// same groups.
func (m *Matcher) checkNumberGrouping(number *PhoneNumber, candidate string, exact bool) bool {
	u := m.util
	nsn := number.NationalSignificantNumber()

	candidateGroups := splitDigitGroups(normalizeHelper(candidate, false, false))
	candidateGroups = stripCountryCodeGroups(candidateGroups, number, nsn)
	if len(candidateGroups) == 0 {
		return false
	}
	if strings.Join(candidateGroups, "") != nsn {
		// a national prefix or carrier code was typed; grouping checks run on
		// the significant number only
		candidateGroups = realignGroupsToNSN(candidateGroups, nsn)
		if candidateGroups == nil {
			return false
		}
	}

	// an unformatted candidate is always acceptable; there is no grouping to
	// disagree with
	if len(candidateGroups) == 1 {
		return true
	}

	expected := u.expectedDigitGroups(number, nsn)
	if len(expected) <= 1 {
		return !exact
	}
	if exact {
		return equalGroups(candidateGroups, expected)
	}
	return boundariesSubset(candidateGroups, expected)
}

// stripCountryCodeGroups removes the leading country code digits from the
// candidate's groups when the candidate spelled the code out.
func stripCountryCodeGroups(groups []string, number *PhoneNumber, nsn string) []string {
	if number.CountryCodeSource == SourceFromDefaultCountry || len(groups) == 0 {
		return groups
	}
	cc := strconv.Itoa(number.CountryCode)
	first := groups[0]
	if first == cc {
		return groups[1:]
	}
	if strings.HasPrefix(first, cc) && strings.HasPrefix(strings.Join(groups, ""), cc+nsn) {
		out := append([]string{first[len(cc):]}, groups[1:]...)
		if out[0] == "" {
			out = out[1:]
		}
		return out
	}
	return groups
}

// realignGroupsToNSN drops leading digits (national prefix, carrier code)
// that are not part of the significant number, keeping group boundaries.
func realignGroupsToNSN(groups []string, nsn string) []string {
	all := strings.Join(groups, "")
	idx := strings.Index(all, nsn)
	if idx < 0 || idx+len(nsn) != len(all) {
		return nil
	}
	// walk off idx leading digits
	out := make([]string, 0, len(groups))
	skip := idx
	for _, g := range groups {
		if skip >= len(g) {
			skip -= len(g)
			continue
		}
		out = append(out, g[skip:])
		skip = 0
	}
	return out
}

// expectedDigitGroups formats the significant number with the plan's own
// rules and splits the result into digit groups.
func (u *Util) expectedDigitGroups(number *PhoneNumber, nsn string) []string {
	regionCode := u.GetRegionCodeForCountryCode(number.CountryCode)
	md := u.metadataForRegionOrCallingCode(number.CountryCode, regionCode)
	if md == nil {
		return []string{nsn}
	}
	rule := u.chooseFormattingPatternForNumber(md.NumberFormats, nsn)
	if rule == nil {
		return []string{nsn}
	}
	formatted := u.formatNsnUsingPattern(nsn, rule, FormatInternational, "")
	return splitDigitGroups(formatted)
}

func equalGroups(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// boundariesSubset reports whether every group boundary of candidate is also
// a boundary of expected, i.e. the candidate grouping merges but never splits
// the expected groups.
func boundariesSubset(candidate, expected []string) bool {
	expectedSet := make(map[int]bool, len(expected))
	pos := 0
	for _, g := range expected {
		pos += len(g)
		expectedSet[pos] = true
	}
	pos = 0
	for _, g := range candidate[:len(candidate)-1] {
		pos += len(g)
		if !expectedSet[pos] {
			return false
		}
	}
	return true
}
