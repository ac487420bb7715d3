package phonenumber

import (
	"regexp"
	"strconv"
	"strings"
)

// Parse parses text into a structured number. defaultRegion supplies the
// numbering plan assumed when the input carries no country code of its own;
// it may be empty only for inputs starting with '+'.
func (u *Util) Parse(text, defaultRegion string) (*PhoneNumber, error) {
	return u.parseHelper(text, defaultRegion, false, true)
}

// ParseAndKeepRawInput parses like Parse and additionally records the raw
// input, the country code source and any carrier selection code, enabling
// FormatInOriginalFormat.
func (u *Util) ParseAndKeepRawInput(text, defaultRegion string) (*PhoneNumber, error) {
	return u.parseHelper(text, defaultRegion, true, true)
}

func (u *Util) parseHelper(numberToParse, defaultRegion string, keepRawInput, checkRegion bool) (*PhoneNumber, error) {
	if numberToParse == "" {
		return nil, newParseError(ErrNotANumber, "empty input")
	}
	if len(numberToParse) > maxInputStringLength {
		return nil, newParseError(ErrTooLong, "input exceeds maximum length")
	}

	nationalNumber := buildNationalNumberForParsing(numberToParse)
	if !isViablePhoneNumber(nationalNumber) {
		return nil, newParseError(ErrNotANumber, "input does not look like a phone number")
	}

	defaultRegion = strings.ToUpper(strings.TrimSpace(defaultRegion))
	if checkRegion && !u.checkRegionForParsing(nationalNumber, defaultRegion) {
		return nil, newParseError(ErrInvalidCountryCode, "missing or unknown default region")
	}

	phoneNumber := &PhoneNumber{}
	if keepRawInput {
		phoneNumber.RawInput = numberToParse
	}

	// Extensions come off before country code extraction; the remainder must
	// stay viable or the strip is rejected inside maybeStripExtension.
	nationalNumber, extension := maybeStripExtension(nationalNumber)
	phoneNumber.Extension = extension

	regionMetadata := u.metadataForRegion(defaultRegion)

	countryCode, normalizedNationalNumber, err := u.maybeExtractCountryCode(
		nationalNumber, regionMetadata, keepRawInput, phoneNumber)
	if err != nil {
		if isParseErrorKind(err, ErrInvalidCountryCode) && leadingPlusCharsPattern.MatchString(nationalNumber) {
			// Strip the plus and retry: the input may carry the country code
			// with a plus variant the IDD logic rejected.
			rest := leadingPlusCharsPattern.ReplaceAllString(nationalNumber, "")
			countryCode, normalizedNationalNumber, err = u.maybeExtractCountryCode(
				rest, regionMetadata, keepRawInput, phoneNumber)
			if err != nil {
				return nil, err
			}
			if countryCode == 0 {
				return nil, newParseError(ErrInvalidCountryCode, "could not interpret number after plus sign")
			}
		} else {
			return nil, err
		}
	}

	if countryCode != 0 {
		regionCode := u.GetRegionCodeForCountryCode(countryCode)
		if regionCode != defaultRegion {
			regionMetadata = u.metadataForRegionOrCallingCode(countryCode, regionCode)
		}
	} else if regionMetadata != nil {
		// No country code in the input: the default region's code is implied.
		countryCode = regionMetadata.CountryCode
	}

	if len(normalizedNationalNumber) < minLengthNSN {
		return nil, newParseError(ErrTooShortNSN, "national number too short")
	}

	if regionMetadata != nil {
		potential := normalizedNationalNumber
		var carrierCode string
		u.maybeStripNationalPrefixAndCarrierCode(&potential, regionMetadata, &carrierCode)
		// Keep the strip only when the remainder is still a dialable length:
		// a result of too short, local only or invalid length means the typed
		// digits were part of the number, not a prefix.
		result := u.testNumberLength(potential, regionMetadata)
		if result != ResultTooShort && result != ResultIsPossibleLocalOnly && result != ResultInvalidLength {
			normalizedNationalNumber = potential
			if keepRawInput {
				phoneNumber.PreferredDomesticCarrierCode = carrierCode
			}
		}
	}

	switch n := len(normalizedNationalNumber); {
	case n < minLengthNSN:
		return nil, newParseError(ErrTooShortNSN, "national number too short")
	case n > maxLengthNSN:
		return nil, newParseError(ErrTooLong, "national number too long")
	}

	setLeadingZeros(normalizedNationalNumber, phoneNumber)
	phoneNumber.CountryCode = countryCode
	national, perr := strconv.ParseUint(normalizedNationalNumber, 10, 64)
	if perr != nil {
		return nil, newParseError(ErrNotANumber, "national number is not numeric")
	}
	phoneNumber.NationalNumber = national
	return phoneNumber, nil
}

// buildNationalNumberForParsing isolates the dialable part of the input,
// honouring RFC3966 tel URIs: a phone-context parameter that names a global
// number is prepended, and any isub parameter is dropped.
func buildNationalNumberForParsing(numberToParse string) string {
	var sb strings.Builder
	if idx := strings.Index(numberToParse, rfc3966PhoneContext); idx >= 0 {
		contextStart := idx + len(rfc3966PhoneContext)
		if contextStart < len(numberToParse) && numberToParse[contextStart] == plusSign {
			context := numberToParse[contextStart:]
			if end := strings.IndexByte(context, ';'); end >= 0 {
				context = context[:end]
			}
			sb.WriteString(context)
		}
		numberPart := numberToParse[:idx]
		if p := strings.Index(numberPart, rfc3966Prefix); p >= 0 {
			numberPart = numberPart[p+len(rfc3966Prefix):]
		}
		sb.WriteString(numberPart)
	} else {
		sb.WriteString(extractPossibleNumber(numberToParse))
	}

	number := sb.String()
	if i := strings.Index(number, rfc3966IsdnSubaddress); i >= 0 {
		number = number[:i]
	}
	return number
}

// checkRegionForParsing accepts a missing or unknown default region only when
// the input announces its own country code with a plus sign.
func (u *Util) checkRegionForParsing(numberToParse, defaultRegion string) bool {
	if u.metadataForRegion(defaultRegion) != nil {
		return true
	}
	return numberToParse != "" && leadingPlusCharsPattern.MatchString(numberToParse)
}

// maybeExtractCountryCode resolves the country calling code of a number,
// trying in order: an explicit plus sign, the default region's IDD prefix,
// and the default region's calling code typed as a literal digit prefix.
// It returns the code (0 when none was found) and the normalized remainder.
func (u *Util) maybeExtractCountryCode(number string, defaultRegionMetadata *Metadata, keepRawInput bool, phoneNumber *PhoneNumber) (int, string, error) {
	if number == "" {
		return 0, "", nil
	}

	// "NonMatch" can never match a normalized number, standing in for plans
	// without an international prefix.
	possibleIddPrefix := "NonMatch"
	if defaultRegionMetadata != nil && defaultRegionMetadata.InternationalPrefix != "" {
		possibleIddPrefix = defaultRegionMetadata.InternationalPrefix
	}

	fullNumber, source := u.maybeStripInternationalPrefixAndNormalize(number, possibleIddPrefix)
	if keepRawInput {
		phoneNumber.CountryCodeSource = source
	}

	if source != SourceFromDefaultCountry {
		if len(fullNumber) <= minLengthNSN {
			return 0, "", newParseError(ErrTooShortAfterIDD, "too few digits after IDD prefix")
		}
		if code, rest := u.extractCountryCode(fullNumber); code != 0 {
			return code, rest, nil
		}
		return 0, "", newParseError(ErrInvalidCountryCode, "country calling code not recognized")
	}

	if defaultRegionMetadata != nil {
		// Users sometimes type the country code without a plus sign; prefer
		// that reading when it makes the number valid, or when the full
		// reading is too long anyway.
		ccString := strconv.Itoa(defaultRegionMetadata.CountryCode)
		if strings.HasPrefix(fullNumber, ccString) {
			potential := fullNumber[len(ccString):]
			stripped := potential
			u.maybeStripNationalPrefixAndCarrierCode(&stripped, defaultRegionMetadata, nil)

			if (!u.matchesGeneralDesc(fullNumber, defaultRegionMetadata) &&
				u.matchesGeneralDesc(stripped, defaultRegionMetadata)) ||
				u.testNumberLength(fullNumber, defaultRegionMetadata) == ResultTooLong {
				if keepRawInput {
					phoneNumber.CountryCodeSource = SourceFromNumberWithoutPlusSign
				}
				return defaultRegionMetadata.CountryCode, stripped, nil
			}
		}
	}

	return 0, fullNumber, nil
}

func (u *Util) matchesGeneralDesc(number string, md *Metadata) bool {
	if md.GeneralDesc == nil || md.GeneralDesc.NationalNumberPattern == "" {
		return false
	}
	return u.cache.entireMatch(md.GeneralDesc.NationalNumberPattern, number)
}

// maybeStripInternationalPrefixAndNormalize removes a leading plus sign or
// IDD prefix, reporting how the number announced its country code. The
// returned number is normalized either way.
func (u *Util) maybeStripInternationalPrefixAndNormalize(number, possibleIddPrefix string) (string, CountryCodeSource) {
	if number == "" {
		return number, SourceFromDefaultCountry
	}
	if loc := leadingPlusCharsPattern.FindStringIndex(number); loc != nil {
		return normalize(number[loc[1]:]), SourceFromNumberWithPlusSign
	}

	normalized := normalize(number)
	iddPattern, err := u.cache.startMatch(possibleIddPrefix)
	if err == nil {
		if stripped, ok := stripPrefixAsIDD(iddPattern, normalized); ok {
			return stripped, SourceFromNumberWithIDD
		}
	}
	return normalized, SourceFromDefaultCountry
}

// stripPrefixAsIDD strips an IDD prefix match, refusing when the first digit
// after it is '0': a country calling code never starts with zero, so such a
// match is coincidence.
func stripPrefixAsIDD(iddPattern *regexp.Regexp, number string) (string, bool) {
	loc := iddPattern.FindStringIndex(number)
	if loc == nil || loc[0] != 0 {
		return number, false
	}
	rest := number[loc[1]:]
	if digit := capturingDigitPattern.FindString(rest); digit != "" {
		if normalizeDigitsOnly(digit) == "0" {
			return number, false
		}
	}
	return rest, true
}

// extractCountryCode finds the country calling code at the start of a fully
// normalized number by shortest-match-first over 1 to 3 digits. Calling codes
// are prefix-free across lengths, so the first hit is the only hit.
func (u *Util) extractCountryCode(fullNumber string) (int, string) {
	if fullNumber == "" || fullNumber[0] == '0' {
		// country calling codes never begin with zero
		return 0, fullNumber
	}
	for length := 1; length <= maxLengthCountryCode && length <= len(fullNumber); length++ {
		code, err := strconv.Atoi(fullNumber[:length])
		if err != nil {
			break
		}
		if u.store.hasCallingCode(code) {
			return code, fullNumber[length:]
		}
	}
	return 0, fullNumber
}

// maybeStripNationalPrefixAndCarrierCode strips the plan's parsing prefix
// from number in place, applying the transform rule when the plan rewrites
// digits rather than deleting them, and captures a carrier selection code
// when the prefix pattern exposes one. The strip is rejected when it would
// turn a number matching the general description into one that does not.
func (u *Util) maybeStripNationalPrefixAndCarrierCode(number *string, md *Metadata, carrierCode *string) bool {
	numberStr := *number
	possibleNationalPrefix := md.NationalPrefixForParsing
	if possibleNationalPrefix == "" {
		possibleNationalPrefix = md.NationalPrefix
	}
	if numberStr == "" || possibleNationalPrefix == "" {
		return false
	}

	prefixRe, err := u.cache.startMatch(possibleNationalPrefix)
	if err != nil {
		return false
	}
	m := prefixRe.FindStringSubmatchIndex(numberStr)
	if m == nil {
		return false
	}

	var generalPattern string
	if md.GeneralDesc != nil {
		generalPattern = md.GeneralDesc.NationalNumberPattern
	}
	isViableOriginal := generalPattern != "" && u.cache.entireMatch(generalPattern, numberStr)
	numGroups := prefixRe.NumSubexp()
	transformRule := md.NationalPrefixTransformRule

	if transformRule == "" || numGroups == 0 || m[2*numGroups] < 0 {
		stripped := numberStr[m[1]:]
		if isViableOriginal && !u.cache.entireMatch(generalPattern, stripped) {
			return false
		}
		if carrierCode != nil && numGroups > 0 && m[2] >= 0 {
			*carrierCode = numberStr[m[2]:m[3]]
		}
		*number = stripped
		return true
	}

	transformed := string(prefixRe.ExpandString(nil, transformRule, numberStr, m)) + numberStr[m[1]:]
	if isViableOriginal && !u.cache.entireMatch(generalPattern, transformed) {
		return false
	}
	if carrierCode != nil && numGroups > 1 && m[2] >= 0 {
		*carrierCode = numberStr[m[2]:m[3]]
	}
	*number = transformed
	return true
}

// setLeadingZeros records leading zeros that the numeric national number
// field cannot retain. At least one trailing digit always stays.
func setLeadingZeros(nationalNumber string, p *PhoneNumber) {
	if len(nationalNumber) < 2 || nationalNumber[0] != '0' {
		return
	}
	p.ItalianLeadingZero = true
	zeros := 0
	for i := 0; i < len(nationalNumber)-1 && nationalNumber[i] == '0'; i++ {
		zeros++
	}
	p.NumberOfLeadingZeros = zeros
}
