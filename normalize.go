package phonenumber

import (
	"regexp"
	"strings"
)

const (
	// minLengthNSN is the shortest national significant number anywhere.
	minLengthNSN = 2
	// maxLengthNSN is the longest national significant number anywhere.
	maxLengthNSN = 17
	// maxLengthCountryCode bounds the greedy shortest-match country code scan.
	maxLengthCountryCode = 3
	// maxInputStringLength caps raw input before any regex work, bounding the
	// cost of pathological inputs.
	maxInputStringLength = 250
)

const (
	plusSign  = '+'
	starSign  = `\*`
	plusChars = "+＋"
	// validPunctuation covers separators seen in the wild: dashes and their
	// unicode variants, spaces including NBSP and ideographic space, brackets,
	// dots, slashes and tilde variants.
	validPunctuation = "-x‐-―−ー－-／  ­​⁠　()（）［］.\\[\\]/~⁓∼～"
	validAlpha       = "A-Za-z"
	digitsPattern    = `\p{Nd}`
)

const (
	rfc3966ExtnPrefix     = ";ext="
	rfc3966Prefix         = "tel:"
	rfc3966PhoneContext   = ";phone-context="
	rfc3966IsdnSubaddress = ";isub="
)

// extnPatternsForParsing recognizes extension suffixes: the RFC3966 form,
// spelled out markers in several languages, single character markers, and a
// bare trailing "- 1234#" style. Capture groups hold the extension digits.
var extnPatternsForParsing = rfc3966ExtnPrefix + `(\p{Nd}{1,7})` +
	`|[ \x{00A0}\t,]*(?:e?xt(?:ensi(?:o\x{301}?|\x{F3})?n?)?|\x{FF45}?\x{FF58}\x{FF54}\x{FF4E}?|anexo|int|\x{FF49}\x{FF4E}\x{FF54}|[,x\x{FF58}#\x{FF03}~\x{FF5E};])` +
	`[:\.\x{FF0E}]?[ \x{00A0}\t,-]*(\p{Nd}{1,7})#?` +
	`|[- ]+(\p{Nd}{1,5})#`

var (
	validStartCharPattern = regexp.MustCompile("[" + plusChars + "]|" + digitsPattern)
	// unwantedEndCharsPattern trims trailing characters that are neither
	// letters, digits nor '#'.
	unwantedEndCharsPattern = regexp.MustCompile(`[^\p{N}\p{L}#]+$`)
	// secondNumberStartPattern signals a second number such as "x302/x2303";
	// everything from the match on belongs to the second number.
	secondNumberStartPattern = regexp.MustCompile(`[\\/]+ *x`)
	leadingPlusCharsPattern  = regexp.MustCompile("^[" + plusChars + "]+")
	capturingDigitPattern    = regexp.MustCompile("(" + digitsPattern + ")")
	extnPattern              = regexp.MustCompile(`(?i)(?:` + extnPatternsForParsing + `)$`)
	firstGroupPattern        = regexp.MustCompile(`(\$\d)`)

	// validPhoneNumberPattern is the viability grammar: either exactly the
	// minimum two digits, or at least three digit runs separated by allowed
	// punctuation, with optional trailing alpha characters and an optional
	// extension suffix.
	validPhoneNumberPattern = regexp.MustCompile(
		`(?i)^(?:` +
			digitsPattern + `{` + "2" + `}` +
			`|[` + plusChars + `]*(?:[` + validPunctuation + starSign + `]*` + digitsPattern + `){3,}` +
			`[` + validPunctuation + starSign + validAlpha + digitsPattern + `]*` +
			`)(?:` + extnPatternsForParsing + `)?$`)

	// validAlphaPhonePattern spots vanity numbers: at least three letters
	// somewhere in the number part.
	validAlphaPhonePattern = regexp.MustCompile(`(?:.*?[A-Za-z]){3}`)
)

// alphaMappings is the ITU E.161 keypad letter layout.
var alphaMappings = map[rune]rune{
	'A': '2', 'B': '2', 'C': '2',
	'D': '3', 'E': '3', 'F': '3',
	'G': '4', 'H': '4', 'I': '4',
	'J': '5', 'K': '5', 'L': '5',
	'M': '6', 'N': '6', 'O': '6',
	'P': '7', 'Q': '7', 'R': '7', 'S': '7',
	'T': '8', 'U': '8', 'V': '8',
	'W': '9', 'X': '9', 'Y': '9', 'Z': '9',
}

// asciiDigit converts any supported decimal digit code point to its ASCII
// value. Covers ASCII, fullwidth, Arabic-Indic and Eastern Arabic-Indic
// digits, the scripts numbering plans actually encounter.
func asciiDigit(r rune) (rune, bool) {
	switch {
	case r >= '0' && r <= '9':
		return r, true
	case r >= '０' && r <= '９': // fullwidth
		return '0' + (r - '０'), true
	case r >= '٠' && r <= '٩': // arabic-indic
		return '0' + (r - '٠'), true
	case r >= '۰' && r <= '۹': // eastern arabic-indic
		return '0' + (r - '۰'), true
	}
	return 0, false
}

// extractPossibleNumber finds the portion of input that could be a phone
// number: it drops everything before the first plausible start character,
// trims trailing junk, and cuts at the start of a second embedded number.
func extractPossibleNumber(input string) string {
	start := validStartCharPattern.FindStringIndex(input)
	if start == nil {
		return ""
	}
	number := input[start[0]:]

	if end := unwantedEndCharsPattern.FindStringIndex(number); end != nil {
		number = number[:end[0]]
	}
	if second := secondNumberStartPattern.FindStringIndex(number); second != nil {
		number = number[:second[0]]
	}
	return number
}

// isViablePhoneNumber checks a candidate against the valid phone number
// grammar. It weeds out obvious non-numbers before the heavier parse work.
func isViablePhoneNumber(number string) bool {
	if len(number) < minLengthNSN {
		return false
	}
	return validPhoneNumberPattern.MatchString(number)
}

// normalize converts a number to pure ASCII digits. Vanity numbers with three
// or more letters have every letter mapped to its keypad digit; everything
// else is digit normalized with non-digits dropped.
func normalize(number string) string {
	if validAlphaPhonePattern.MatchString(number) {
		return normalizeHelper(number, true, true)
	}
	return normalizeDigitsOnly(number)
}

// normalizeDigitsOnly keeps decimal digits, converting non-ASCII digit
// scripts to their ASCII value.
func normalizeDigitsOnly(number string) string {
	var sb strings.Builder
	sb.Grow(len(number))
	for _, r := range number {
		if d, ok := asciiDigit(r); ok {
			sb.WriteRune(d)
		}
	}
	return sb.String()
}

// normalizeHelper maps digits, and letters when mapAlpha is set; other runes
// are dropped when removeNonMatches is set, kept verbatim otherwise.
func normalizeHelper(number string, mapAlpha, removeNonMatches bool) string {
	var sb strings.Builder
	sb.Grow(len(number))
	for _, r := range number {
		if d, ok := asciiDigit(r); ok {
			sb.WriteRune(d)
			continue
		}
		if mapAlpha {
			if d, ok := alphaMappings[upperRune(r)]; ok {
				sb.WriteRune(d)
				continue
			}
		}
		if !removeNonMatches {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// normalizeDiallableCharsOnly keeps the characters a keypad can actually
// dial: digits, '+', '*' and '#'.
func normalizeDiallableCharsOnly(number string) string {
	var sb strings.Builder
	sb.Grow(len(number))
	for _, r := range number {
		if d, ok := asciiDigit(r); ok {
			sb.WriteRune(d)
			continue
		}
		switch r {
		case '+', '*', '#':
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func upperRune(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

// maybeStripExtension removes a trailing extension suffix, returning the
// number without it and the extension digits. The strip only commits when the
// remainder is still a viable phone number, guarding against inputs whose
// tail merely resembles an extension.
func maybeStripExtension(number string) (string, string) {
	loc := extnPattern.FindStringSubmatchIndex(number)
	if loc == nil {
		return number, ""
	}
	remainder := number[:loc[0]]
	if !isViablePhoneNumber(remainder) {
		return number, ""
	}
	// first group that actually captured holds the extension digits
	for group := 1; 2*group+1 < len(loc); group++ {
		start, end := loc[2*group], loc[2*group+1]
		if start >= 0 && end >= start {
			return remainder, number[start:end]
		}
	}
	return number, ""
}
