// Package phonenumber parses, formats, validates and classifies telephone
// numbers against region numbering plan metadata, and offers prefix based
// geocoding and carrier lookup on top of the same metadata engine.
package phonenumber

import (
	"strconv"
	"strings"
)

// PhoneNumberFormat selects a textual rendering of a structured number.
type PhoneNumberFormat int

const (
	FormatE164 PhoneNumberFormat = iota
	FormatInternational
	FormatNational
	FormatRFC3966
)

func (f PhoneNumberFormat) String() string {
	switch f {
	case FormatE164:
		return "E164"
	case FormatInternational:
		return "INTERNATIONAL"
	case FormatNational:
		return "NATIONAL"
	case FormatRFC3966:
		return "RFC3966"
	}
	return "UNKNOWN"
}

// NumberType is the classification of a number within its numbering plan.
type NumberType int

const (
	TypeUnknown NumberType = iota
	TypeFixedLine
	TypeMobile
	// TypeFixedLineOrMobile is reported when a plan does not distinguish the
	// two, or when a number satisfies both descriptors.
	TypeFixedLineOrMobile
	TypeTollFree
	TypePremiumRate
	TypeSharedCost
	TypeVOIP
	TypePersonalNumber
	TypePager
	TypeUAN
	TypeVoicemail
)

func (t NumberType) String() string {
	switch t {
	case TypeFixedLine:
		return "FIXED_LINE"
	case TypeMobile:
		return "MOBILE"
	case TypeFixedLineOrMobile:
		return "FIXED_LINE_OR_MOBILE"
	case TypeTollFree:
		return "TOLL_FREE"
	case TypePremiumRate:
		return "PREMIUM_RATE"
	case TypeSharedCost:
		return "SHARED_COST"
	case TypeVOIP:
		return "VOIP"
	case TypePersonalNumber:
		return "PERSONAL_NUMBER"
	case TypePager:
		return "PAGER"
	case TypeUAN:
		return "UAN"
	case TypeVoicemail:
		return "VOICEMAIL"
	}
	return "UNKNOWN"
}

// CountryCodeSource records how the country calling code of a parsed number
// was determined. It drives FormatInOriginalFormat.
type CountryCodeSource int

const (
	SourceUnspecified CountryCodeSource = iota
	SourceFromNumberWithPlusSign
	SourceFromNumberWithIDD
	SourceFromNumberWithoutPlusSign
	SourceFromDefaultCountry
)

// MatchType is the verdict of comparing two numbers.
type MatchType int

const (
	MatchNotANumber MatchType = iota
	MatchNone
	// MatchShortNSN means one national number is a trailing suffix of the
	// other, with country codes agreeing or absent.
	MatchShortNSN
	// MatchNSN means the national numbers agree but only one side carries a
	// country code.
	MatchNSN
	MatchExact
)

func (m MatchType) String() string {
	switch m {
	case MatchNotANumber:
		return "NOT_A_NUMBER"
	case MatchNone:
		return "NO_MATCH"
	case MatchShortNSN:
		return "SHORT_NSN_MATCH"
	case MatchNSN:
		return "NSN_MATCH"
	case MatchExact:
		return "EXACT_MATCH"
	}
	return "UNKNOWN"
}

// ValidationResult is the outcome of a possible-number length check.
type ValidationResult int

const (
	ResultIsPossible ValidationResult = iota
	// ResultIsPossibleLocalOnly means the length only works for local dialing,
	// without the area code.
	ResultIsPossibleLocalOnly
	ResultInvalidCountryCode
	ResultTooShort
	// ResultInvalidLength means the length sits inside the plan's range but is
	// not one of the plan's possible lengths.
	ResultInvalidLength
	ResultTooLong
)

func (r ValidationResult) String() string {
	switch r {
	case ResultIsPossible:
		return "IS_POSSIBLE"
	case ResultIsPossibleLocalOnly:
		return "IS_POSSIBLE_LOCAL_ONLY"
	case ResultInvalidCountryCode:
		return "INVALID_COUNTRY_CODE"
	case ResultTooShort:
		return "TOO_SHORT"
	case ResultInvalidLength:
		return "INVALID_LENGTH"
	case ResultTooLong:
		return "TOO_LONG"
	}
	return "UNKNOWN"
}

// Leniency controls how strictly FindNumbers vets candidate substrings.
type Leniency int

const (
	// LeniencyPossible accepts anything that passes the length based
	// possibility check.
	LeniencyPossible Leniency = iota
	// LeniencyValid additionally requires pattern validity for some region and
	// a correctly used national prefix.
	LeniencyValid
	// LeniencyStrictGrouping additionally requires the digit grouping in the
	// text to be compatible with an admissible formatting of the number.
	LeniencyStrictGrouping
	// LeniencyExactGrouping requires the grouping to match what the formatter
	// itself would produce.
	LeniencyExactGrouping
)

// PhoneNumber is the canonical structured result of parsing. It is a value
// object owned by the caller; the engine never retains references to it.
type PhoneNumber struct {
	// CountryCode is the country calling code, 0 when none was resolved.
	CountryCode int
	// NationalNumber is the national significant number without national
	// prefix or formatting. Leading zeros cannot survive in an integer and are
	// tracked by ItalianLeadingZero/NumberOfLeadingZeros.
	NationalNumber uint64
	// ItalianLeadingZero is set when the national number carries at least one
	// meaningful leading zero.
	ItalianLeadingZero bool
	// NumberOfLeadingZeros counts the stripped leading zeros, at least 1
	// whenever ItalianLeadingZero is set.
	NumberOfLeadingZeros int
	// Extension holds digits dialed after the connection is established.
	Extension string
	// RawInput is the verbatim input, retained by ParseAndKeepRawInput only.
	RawInput string
	// CountryCodeSource records how CountryCode was determined, set by
	// ParseAndKeepRawInput only.
	CountryCodeSource CountryCodeSource
	// PreferredDomesticCarrierCode is the carrier selection code typed by the
	// user, when the plan's national prefix pattern captures one.
	PreferredDomesticCarrierCode string
}

// NationalSignificantNumber renders the national number as a digit string,
// restoring tracked leading zeros.
func (p *PhoneNumber) NationalSignificantNumber() string {
	var sb strings.Builder
	if p.ItalianLeadingZero {
		zeros := p.NumberOfLeadingZeros
		if zeros < 1 {
			zeros = 1
		}
		sb.WriteString(strings.Repeat("0", zeros))
	}
	sb.WriteString(strconv.FormatUint(p.NationalNumber, 10))
	return sb.String()
}

// Clone returns an independent copy of the number.
func (p *PhoneNumber) Clone() *PhoneNumber {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

// WithExtension returns a copy with the extension replaced.
func (p PhoneNumber) WithExtension(ext string) PhoneNumber {
	p.Extension = ext
	return p
}

// WithRawInput returns a copy with the raw input replaced.
func (p PhoneNumber) WithRawInput(raw string) PhoneNumber {
	p.RawInput = raw
	return p
}

// coreFields strips presentation metadata so two numbers can be compared on
// dialing identity alone.
func (p PhoneNumber) coreFields() PhoneNumber {
	core := PhoneNumber{
		CountryCode:        p.CountryCode,
		NationalNumber:     p.NationalNumber,
		ItalianLeadingZero: p.ItalianLeadingZero,
		Extension:          p.Extension,
	}
	if core.ItalianLeadingZero {
		core.NumberOfLeadingZeros = p.NumberOfLeadingZeros
		if core.NumberOfLeadingZeros < 1 {
			core.NumberOfLeadingZeros = 1
		}
	}
	return core
}
