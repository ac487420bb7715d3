package phonenumber

import (
	"strconv"
	"strings"
)

// defaultExtnPrefix separates the extension in non-RFC3966 output when the
// plan does not declare its own separator.
const defaultExtnPrefix = " ext. "

// Format renders a structured number in the requested style. Formatting is
// best effort and never fails: numbers the metadata cannot format come back
// as their raw national digits.
func (u *Util) Format(number *PhoneNumber, format PhoneNumberFormat) string {
	if number.NationalNumber == 0 && number.RawInput != "" {
		// parsed from something like a short vanity code we could not
		// interpret; the raw input is all there is to show
		return number.RawInput
	}

	countryCode := number.CountryCode
	nationalNumber := number.NationalSignificantNumber()

	if !u.store.hasCallingCode(countryCode) {
		return nationalNumber
	}
	if format == FormatE164 {
		// E164 carries no formatting and no extension
		return prefixWithCountryCode(countryCode, nationalNumber, FormatE164)
	}

	regionCode := u.GetRegionCodeForCountryCode(countryCode)
	md := u.metadataForRegionOrCallingCode(countryCode, regionCode)
	formatted := u.formatNsn(nationalNumber, md, format, "")
	formatted = u.maybeAppendFormattedExtension(number, md, format, formatted)
	return prefixWithCountryCode(countryCode, formatted, format)
}

// FormatNationalNumberWithCarrierCode renders NATIONAL format with a carrier
// selection code substituted into plans that declare a carrier slot.
func (u *Util) FormatNationalNumberWithCarrierCode(number *PhoneNumber, carrierCode string) string {
	countryCode := number.CountryCode
	nationalNumber := number.NationalSignificantNumber()
	if !u.store.hasCallingCode(countryCode) {
		return nationalNumber
	}

	regionCode := u.GetRegionCodeForCountryCode(countryCode)
	md := u.metadataForRegionOrCallingCode(countryCode, regionCode)
	formatted := u.formatNsn(nationalNumber, md, FormatNational, carrierCode)
	formatted = u.maybeAppendFormattedExtension(number, md, FormatNational, formatted)
	return prefixWithCountryCode(countryCode, formatted, FormatNational)
}

// FormatNationalNumberWithPreferredCarrierCode uses the carrier code
// remembered from parsing, falling back to the supplied default.
func (u *Util) FormatNationalNumberWithPreferredCarrierCode(number *PhoneNumber, fallbackCarrierCode string) string {
	carrierCode := number.PreferredDomesticCarrierCode
	if carrierCode == "" {
		carrierCode = fallbackCarrierCode
	}
	return u.FormatNationalNumberWithCarrierCode(number, carrierCode)
}

// FormatByPattern formats with caller-supplied rules instead of the plan's
// own, reusing only the plan's national prefix value. Rules here keep their
// $NP/$FG placeholders, resolved per call.
func (u *Util) FormatByPattern(number *PhoneNumber, format PhoneNumberFormat, userFormats []NumberFormat) string {
	countryCode := number.CountryCode
	nationalNumber := number.NationalSignificantNumber()
	if !u.store.hasCallingCode(countryCode) {
		return nationalNumber
	}
	regionCode := u.GetRegionCodeForCountryCode(countryCode)
	md := u.metadataForRegionOrCallingCode(countryCode, regionCode)

	formatted := nationalNumber
	if rule := u.chooseFormattingPatternForNumber(userFormats, nationalNumber); rule != nil {
		withPrefix := *rule
		npRule := withPrefix.NationalPrefixFormattingRule
		if npRule != "" {
			if md != nil && md.NationalPrefix != "" {
				npRule = strings.ReplaceAll(npRule, "$NP", md.NationalPrefix)
				npRule = strings.ReplaceAll(npRule, "$FG", "$1")
				withPrefix.NationalPrefixFormattingRule = npRule
			} else {
				// no national prefix to inject
				withPrefix.NationalPrefixFormattingRule = ""
			}
		}
		formatted = u.formatNsnUsingPattern(nationalNumber, &withPrefix, format, "")
	}
	formatted = u.maybeAppendFormattedExtension(number, md, format, formatted)
	return prefixWithCountryCode(countryCode, formatted, format)
}

// FormatOutOfCountryCallingNumber renders the digits a caller in
// regionCallingFrom dials: IDD prefix, country code, then the international
// national format. Same-country calls collapse to NATIONAL format and calls
// between NANPA countries keep the shared country code visible.
func (u *Util) FormatOutOfCountryCallingNumber(number *PhoneNumber, regionCallingFrom string) string {
	mdCallingFrom := u.metadataForRegion(regionCallingFrom)
	if mdCallingFrom == nil {
		return u.Format(number, FormatInternational)
	}

	countryCode := number.CountryCode
	nationalNumber := number.NationalSignificantNumber()
	if !u.store.hasCallingCode(countryCode) {
		return nationalNumber
	}

	if countryCode == nanpaCountryCode {
		if u.IsNANPACountry(regionCallingFrom) {
			// dialing inside NANPA keeps the country code up front
			return strconv.Itoa(countryCode) + " " + u.Format(number, FormatNational)
		}
	} else if countryCode == mdCallingFrom.CountryCode {
		// domestic call after all
		return u.Format(number, FormatNational)
	}

	iddPrefix := mdCallingFrom.PreferredInternationalPrefix
	if iddPrefix == "" && isSinglePrefix(mdCallingFrom.InternationalPrefix) {
		iddPrefix = mdCallingFrom.InternationalPrefix
	}

	regionCode := u.GetRegionCodeForCountryCode(countryCode)
	md := u.metadataForRegionOrCallingCode(countryCode, regionCode)
	formatted := u.formatNsn(nationalNumber, md, FormatInternational, "")
	formatted = u.maybeAppendFormattedExtension(number, md, FormatInternational, formatted)

	if iddPrefix == "" {
		// several IDD prefixes and no preferred one: show the number in
		// unambiguous international form instead
		return prefixWithCountryCode(countryCode, formatted, FormatInternational)
	}
	return iddPrefix + " " + strconv.Itoa(countryCode) + " " + formatted
}

// isSinglePrefix reports whether an international prefix is concrete digits
// (optionally with a wait-for-tone tilde) rather than a pattern of choices.
func isSinglePrefix(prefix string) bool {
	if prefix == "" {
		return false
	}
	for _, r := range prefix {
		if r >= '0' && r <= '9' || r == '~' || r == '～' {
			continue
		}
		return false
	}
	return true
}

// FormatOutOfCountryKeepingAlphaChars behaves like
// FormatOutOfCountryCallingNumber but preserves the alpha characters and
// grouping of the raw input, for vanity numbers meant to be read as typed.
func (u *Util) FormatOutOfCountryKeepingAlphaChars(number *PhoneNumber, regionCallingFrom string) string {
	rawInput := number.RawInput
	if rawInput == "" {
		return u.FormatOutOfCountryCallingNumber(number, regionCallingFrom)
	}
	countryCode := number.CountryCode
	if !u.store.hasCallingCode(countryCode) {
		return rawInput
	}

	// normalize digits but keep letters and grouping punctuation as typed
	rawInput = normalizeHelper(rawInput, false, false)

	mdCallingFrom := u.metadataForRegion(regionCallingFrom)
	if countryCode == nanpaCountryCode && u.IsNANPACountry(regionCallingFrom) {
		return strconv.Itoa(countryCode) + " " + rawInput
	}
	if mdCallingFrom != nil && countryCode == mdCallingFrom.CountryCode {
		return rawInput
	}

	iddPrefix := ""
	if mdCallingFrom != nil {
		iddPrefix = mdCallingFrom.PreferredInternationalPrefix
		if iddPrefix == "" && isSinglePrefix(mdCallingFrom.InternationalPrefix) {
			iddPrefix = mdCallingFrom.InternationalPrefix
		}
	}
	if iddPrefix != "" {
		return iddPrefix + " " + strconv.Itoa(countryCode) + " " + rawInput
	}
	return "+" + strconv.Itoa(countryCode) + " " + rawInput
}

// FormatInOriginalFormat reproduces the grouping the user typed as closely as
// the metadata allows, dispatching on how the country code was announced.
// Whenever the reconstruction would alter any dialable character it falls
// back to the verbatim raw input.
func (u *Util) FormatInOriginalFormat(number *PhoneNumber, regionCallingFrom string) string {
	if number.RawInput == "" {
		return u.Format(number, FormatNational)
	}

	var formatted string
	switch number.CountryCodeSource {
	case SourceFromNumberWithPlusSign:
		formatted = u.Format(number, FormatInternational)
	case SourceFromNumberWithIDD:
		formatted = u.FormatOutOfCountryCallingNumber(number, regionCallingFrom)
	case SourceFromNumberWithoutPlusSign:
		intl := u.Format(number, FormatInternational)
		formatted = strings.TrimPrefix(intl, "+")
	default:
		formatted = u.formatFromDefaultCountry(number)
	}

	// never silently drop or alter a digit the user typed
	if formatted != "" {
		if normalizeDiallableCharsOnly(formatted) != normalizeDiallableCharsOnly(number.RawInput) {
			return number.RawInput
		}
		return formatted
	}
	return number.RawInput
}

func (u *Util) formatFromDefaultCountry(number *PhoneNumber) string {
	nationalFormat := u.Format(number, FormatNational)
	regionCode := u.GetRegionCodeForNumber(number)
	nationalPrefix := u.GetNddPrefixForRegion(regionCode, true)
	if nationalPrefix == "" {
		return nationalFormat
	}
	if rawInputContainsNationalPrefix(number.RawInput, nationalPrefix) {
		return nationalFormat
	}

	// The user omitted the national prefix: format with a copy of the rule
	// that injects none.
	md := u.metadataForRegion(regionCode)
	if md == nil {
		return nationalFormat
	}
	nationalNumber := number.NationalSignificantNumber()
	rule := u.chooseFormattingPatternForNumber(md.NumberFormats, nationalNumber)
	if rule == nil {
		return nationalFormat
	}
	bare := *rule
	bare.NationalPrefixFormattingRule = ""
	formatted := u.formatNsnUsingPattern(nationalNumber, &bare, FormatNational, "")
	return u.maybeAppendFormattedExtension(number, md, FormatNational, formatted)
}

func rawInputContainsNationalPrefix(rawInput, nationalPrefix string) bool {
	normalized := normalizeDigitsOnly(rawInput)
	return strings.HasPrefix(normalized, nationalPrefix)
}

// formatNsn picks the applicable rule list and rule for the national number.
// The dedicated international list wins for everything but NATIONAL output,
// when the plan ships one.
func (u *Util) formatNsn(nationalNumber string, md *Metadata, format PhoneNumberFormat, carrierCode string) string {
	if md == nil {
		return nationalNumber
	}
	formats := md.NumberFormats
	if len(md.IntlNumberFormats) > 0 && format != FormatNational {
		formats = md.IntlNumberFormats
	}
	rule := u.chooseFormattingPatternForNumber(formats, nationalNumber)
	if rule == nil {
		// graceful degradation: unformattable numbers pass through verbatim
		return nationalNumber
	}
	return u.formatNsnUsingPattern(nationalNumber, rule, format, carrierCode)
}

// chooseFormattingPatternForNumber scans rules in plan order. A rule applies
// when its most specific leading digits pattern (the last one) matches the
// number's start and its main pattern matches in full. First hit wins.
func (u *Util) chooseFormattingPatternForNumber(formats []NumberFormat, nationalNumber string) *NumberFormat {
	for i := range formats {
		rule := &formats[i]
		if n := len(rule.LeadingDigitsPatterns); n > 0 {
			leading := rule.LeadingDigitsPatterns[n-1]
			re, err := u.cache.startMatch(leading)
			if err != nil || !re.MatchString(nationalNumber) {
				continue
			}
		}
		if u.cache.entireMatch(rule.Pattern, nationalNumber) {
			return rule
		}
	}
	return nil
}

// formatNsnUsingPattern substitutes the rule's capture groups into its
// template. NATIONAL output splices the national prefix rule (and the
// carrier rule, when a carrier code is given) over the first group
// reference.
func (u *Util) formatNsnUsingPattern(nationalNumber string, rule *NumberFormat, format PhoneNumberFormat, carrierCode string) string {
	template := rule.Format
	switch {
	case format == FormatNational && carrierCode != "" && rule.DomesticCarrierCodeFormattingRule != "":
		carrierRule := strings.Replace(rule.DomesticCarrierCodeFormattingRule, "$CC", carrierCode, 1)
		template = spliceFirstGroup(template, carrierRule)
	case format == FormatNational && rule.NationalPrefixFormattingRule != "":
		template = spliceFirstGroup(template, rule.NationalPrefixFormattingRule)
	}

	re, err := u.cache.get(rule.Pattern)
	if err != nil {
		return nationalNumber
	}
	formatted := re.ReplaceAllString(nationalNumber, template)

	if format == FormatRFC3966 {
		formatted = rfc3966Separators(formatted)
	}
	return formatted
}

// spliceFirstGroup replaces the first $n reference in template with rule,
// which itself references that group.
func spliceFirstGroup(template, rule string) string {
	loc := firstGroupPattern.FindStringIndex(template)
	if loc == nil {
		return template
	}
	return template[:loc[0]] + rule + template[loc[1]:]
}

// rfc3966Separators rewrites a nationally formatted number into RFC3966's
// hyphen-separated groups.
func rfc3966Separators(formatted string) string {
	groups := splitDigitGroups(formatted)
	return strings.Join(groups, "-")
}

// maybeAppendFormattedExtension adds the extension using the style's
// convention: RFC3966's ;ext= parameter, or the plan's preferred prefix.
func (u *Util) maybeAppendFormattedExtension(number *PhoneNumber, md *Metadata, format PhoneNumberFormat, formatted string) string {
	if number.Extension == "" {
		return formatted
	}
	if format == FormatRFC3966 {
		return formatted + rfc3966ExtnPrefix + number.Extension
	}
	if md != nil && md.PreferredExtnPrefix != "" {
		return formatted + md.PreferredExtnPrefix + number.Extension
	}
	return formatted + defaultExtnPrefix + number.Extension
}

// prefixWithCountryCode completes a formatted national number for the target
// style.
func prefixWithCountryCode(countryCode int, formatted string, format PhoneNumberFormat) string {
	cc := strconv.Itoa(countryCode)
	switch format {
	case FormatE164:
		return "+" + cc + formatted
	case FormatInternational:
		return "+" + cc + " " + formatted
	case FormatRFC3966:
		return rfc3966Prefix + "+" + cc + "-" + formatted
	}
	return formatted
}
