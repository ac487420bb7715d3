package phonenumber

import "strings"

// IsNumberMatch compares two numbers given as text. Inputs without a country
// code are compared on national significant number alone, which can only ever
// yield NSN or short NSN confidence.
func (u *Util) IsNumberMatch(first, second string) MatchType {
	firstNumber, err := u.Parse(first, unknownRegion)
	if err == nil {
		return u.IsNumberMatchWithOneNumber(firstNumber, second)
	}
	if !isParseErrorKind(err, ErrInvalidCountryCode) {
		return MatchNotANumber
	}

	// first has no country code; lean on the second number instead
	secondNumber, err := u.Parse(second, unknownRegion)
	if err == nil {
		return u.IsNumberMatchWithOneNumber(secondNumber, first)
	}
	if !isParseErrorKind(err, ErrInvalidCountryCode) {
		return MatchNotANumber
	}

	// neither side has a country code: compare as bare national numbers
	firstNumber, err1 := u.parseHelper(first, "", false, false)
	secondNumber, err2 := u.parseHelper(second, "", false, false)
	if err1 != nil || err2 != nil {
		return MatchNotANumber
	}
	return u.IsNumberMatchWithNumbers(firstNumber, secondNumber)
}

// IsNumberMatchWithOneNumber compares a parsed number against text. Text
// without a country code is re-parsed against the parsed number's region, and
// an exact hit then counts only as an NSN match since the country code was
// assumed, not stated.
func (u *Util) IsNumberMatchWithOneNumber(number *PhoneNumber, second string) MatchType {
	secondNumber, err := u.Parse(second, unknownRegion)
	if err == nil {
		return u.IsNumberMatchWithNumbers(number, secondNumber)
	}
	if !isParseErrorKind(err, ErrInvalidCountryCode) {
		return MatchNotANumber
	}

	regionCode := u.GetRegionCodeForCountryCode(number.CountryCode)
	if regionCode != unknownRegion {
		secondNumber, err = u.Parse(second, regionCode)
		if err != nil {
			return MatchNotANumber
		}
		match := u.IsNumberMatchWithNumbers(number, secondNumber)
		if match == MatchExact {
			return MatchNSN
		}
		return match
	}

	// no region to borrow; compare bare national numbers
	secondNumber, err = u.parseHelper(second, "", false, false)
	if err != nil {
		return MatchNotANumber
	}
	return u.IsNumberMatchWithNumbers(number, secondNumber)
}

// IsNumberMatchWithNumbers compares two parsed numbers on dialing identity,
// ignoring raw input, country code source and carrier code.
func (u *Util) IsNumberMatchWithNumbers(first, second *PhoneNumber) MatchType {
	if first == nil || second == nil {
		return MatchNotANumber
	}
	a := first.coreFields()
	b := second.coreFields()

	// two set extensions must agree; one side lacking an extension cannot
	// reach EXACT but may still match on the significant number
	if a.Extension != "" && b.Extension != "" && a.Extension != b.Extension {
		return MatchNone
	}

	if a.CountryCode != 0 && b.CountryCode != 0 {
		if a == b {
			return MatchExact
		}
		if a.CountryCode == b.CountryCode && isNationalNumberSuffixOfTheOther(a, b) {
			return MatchShortNSN
		}
		return MatchNone
	}

	// at most one side knows its country code: compare the rest
	a.CountryCode = 0
	b.CountryCode = 0
	if a == b {
		return MatchNSN
	}
	if isNationalNumberSuffixOfTheOther(a, b) {
		return MatchShortNSN
	}
	return MatchNone
}

// isNationalNumberSuffixOfTheOther also holds for equal significant numbers:
// numbers differing only in extension presence or leading zeros land on a
// short NSN verdict, not on no match.
func isNationalNumberSuffixOfTheOther(a, b PhoneNumber) bool {
	an := a.NationalSignificantNumber()
	bn := b.NationalSignificantNumber()
	return strings.HasSuffix(an, bn) || strings.HasSuffix(bn, an)
}
