package phonenumber

import (
	"sort"
	"strings"
)

// unknownRegion is returned when no region can be derived for a number.
const unknownRegion = "ZZ"

// GetNumberType classifies a parsed number within its numbering plan.
// Numbers the plan does not recognize classify as TypeUnknown; classification
// never fails hard.
func (u *Util) GetNumberType(number *PhoneNumber) NumberType {
	regionCode := u.GetRegionCodeForNumber(number)
	md := u.metadataForRegionOrCallingCode(number.CountryCode, regionCode)
	if md == nil {
		return TypeUnknown
	}
	return u.numberTypeHelper(number.NationalSignificantNumber(), md)
}

// numberTypeHelper walks the type descriptors in fixed priority order. Each
// type matches only when both its possible lengths and its national number
// pattern accept the candidate.
func (u *Util) numberTypeHelper(nationalNumber string, md *Metadata) NumberType {
	if md.GeneralDesc == nil || md.GeneralDesc.NationalNumberPattern == "" ||
		!u.isNumberMatchingDesc(nationalNumber, md.GeneralDesc) {
		return TypeUnknown
	}

	switch {
	case u.isNumberMatchingDesc(nationalNumber, md.PremiumRate):
		return TypePremiumRate
	case u.isNumberMatchingDesc(nationalNumber, md.TollFree):
		return TypeTollFree
	case u.isNumberMatchingDesc(nationalNumber, md.SharedCost):
		return TypeSharedCost
	case u.isNumberMatchingDesc(nationalNumber, md.VOIP):
		return TypeVOIP
	case u.isNumberMatchingDesc(nationalNumber, md.PersonalNumber):
		return TypePersonalNumber
	case u.isNumberMatchingDesc(nationalNumber, md.Pager):
		return TypePager
	case u.isNumberMatchingDesc(nationalNumber, md.UAN):
		return TypeUAN
	case u.isNumberMatchingDesc(nationalNumber, md.Voicemail):
		return TypeVoicemail
	}

	if u.isNumberMatchingDesc(nationalNumber, md.FixedLine) {
		if md.SameMobileAndFixedLinePattern {
			return TypeFixedLineOrMobile
		}
		if u.isNumberMatchingDesc(nationalNumber, md.Mobile) {
			return TypeFixedLineOrMobile
		}
		return TypeFixedLine
	}
	if u.isNumberMatchingDesc(nationalNumber, md.Mobile) {
		return TypeMobile
	}
	return TypeUnknown
}

func (u *Util) isNumberMatchingDesc(nationalNumber string, desc *NumberDesc) bool {
	if desc == nil || desc.NationalNumberPattern == "" {
		return false
	}
	if len(desc.PossibleLengths) > 0 &&
		!containsInt(desc.PossibleLengths, len(nationalNumber)) &&
		!containsInt(desc.PossibleLengthsLocalOnly, len(nationalNumber)) {
		return false
	}
	return u.cache.entireMatch(desc.NationalNumberPattern, nationalNumber)
}

// IsValidNumber reports whether the number matches a type descriptor of the
// plan its country code and leading digits select.
func (u *Util) IsValidNumber(number *PhoneNumber) bool {
	return u.IsValidNumberForRegion(number, u.GetRegionCodeForNumber(number))
}

// IsValidNumberForRegion is IsValidNumber pinned to one region: a number
// whose country code belongs to a different region is invalid regardless of
// its shape.
func (u *Util) IsValidNumberForRegion(number *PhoneNumber, regionCode string) bool {
	md := u.metadataForRegionOrCallingCode(number.CountryCode, regionCode)
	if md == nil {
		return false
	}
	if regionCode != nonGeoRegionCode && number.CountryCode != u.GetCountryCodeForRegion(regionCode) {
		return false
	}
	nationalNumber := number.NationalSignificantNumber()

	// Plans with no general descriptor degrade to a conservative length
	// check rather than failing.
	if md.GeneralDesc == nil || md.GeneralDesc.NationalNumberPattern == "" {
		n := len(nationalNumber)
		return n > minLengthNSN && n <= 16
	}
	return u.numberTypeHelper(nationalNumber, md) != TypeUnknown
}

// GetRegionCodeForNumber determines which region a parsed number belongs to.
// Among regions sharing a calling code, a region's leading digits pattern is
// the fast path and full classification the tie breaker.
func (u *Util) GetRegionCodeForNumber(number *PhoneNumber) string {
	if number == nil {
		return ""
	}
	regions := u.store.regionsForCallingCode(number.CountryCode)
	switch len(regions) {
	case 0:
		return ""
	case 1:
		return regions[0]
	}

	nationalNumber := number.NationalSignificantNumber()
	for _, regionCode := range regions {
		md, ok := u.store.MetadataForRegion(regionCode)
		if !ok {
			continue
		}
		if md.LeadingDigits != "" {
			if re, err := u.cache.startMatch(md.LeadingDigits); err == nil && re.MatchString(nationalNumber) {
				return regionCode
			}
		} else if u.numberTypeHelper(nationalNumber, md) != TypeUnknown {
			return regionCode
		}
	}
	return ""
}

// GetRegionCodeForCountryCode returns the main region for a calling code, the
// 001 pseudo region for non-geographical codes, and ZZ when unknown.
func (u *Util) GetRegionCodeForCountryCode(countryCallingCode int) string {
	regions := u.store.regionsForCallingCode(countryCallingCode)
	if len(regions) == 0 {
		return unknownRegion
	}
	return regions[0]
}

// GetRegionCodesForCountryCode returns every region assigned to a calling
// code, main country first.
func (u *Util) GetRegionCodesForCountryCode(countryCallingCode int) []string {
	regions := u.store.regionsForCallingCode(countryCallingCode)
	out := make([]string, len(regions))
	copy(out, regions)
	return out
}

// GetCountryCodeForRegion returns a region's country calling code, 0 when the
// region is unknown.
func (u *Util) GetCountryCodeForRegion(regionCode string) int {
	md := u.metadataForRegion(regionCode)
	if md == nil {
		return 0
	}
	return md.CountryCode
}

// GetSupportedRegions lists the region codes the engine has plans for.
func (u *Util) GetSupportedRegions() []string {
	return u.store.supportedRegions()
}

// IsNANPACountry reports whether the region participates in the North
// American Numbering Plan.
func (u *Util) IsNANPACountry(regionCode string) bool {
	regionCode = strings.ToUpper(strings.TrimSpace(regionCode))
	for _, region := range u.store.regionsForCallingCode(nanpaCountryCode) {
		if region == regionCode {
			return true
		}
	}
	return false
}

const nanpaCountryCode = 1

// IsPossibleNumber is the cheap length-only check; it never consults the type
// patterns.
func (u *Util) IsPossibleNumber(number *PhoneNumber) bool {
	result := u.IsPossibleNumberWithReason(number)
	return result == ResultIsPossible || result == ResultIsPossibleLocalOnly
}

// IsPossibleNumberWithReason compares the number's length against the plan's
// recorded possible lengths for the general descriptor.
func (u *Util) IsPossibleNumberWithReason(number *PhoneNumber) ValidationResult {
	if !u.store.hasCallingCode(number.CountryCode) {
		return ResultInvalidCountryCode
	}
	regionCode := u.GetRegionCodeForCountryCode(number.CountryCode)
	md := u.metadataForRegionOrCallingCode(number.CountryCode, regionCode)
	if md == nil {
		return ResultInvalidCountryCode
	}
	return u.testNumberLength(number.NationalSignificantNumber(), md)
}

// IsPossibleNumberForString parses just far enough to run the possibility
// check on text; parse failures report as impossible rather than erroring.
func (u *Util) IsPossibleNumberForString(text, defaultRegion string) bool {
	number, err := u.Parse(text, defaultRegion)
	if err != nil {
		return false
	}
	return u.IsPossibleNumber(number)
}

// testNumberLength checks a candidate against the general descriptor's
// possible lengths. Plans predating length sets fall back to matching the
// general pattern: a full match is possible, a prefix-only match is too long,
// anything else too short.
func (u *Util) testNumberLength(nationalNumber string, md *Metadata) ValidationResult {
	desc := md.GeneralDesc
	if desc == nil {
		return ResultInvalidLength
	}
	if len(desc.PossibleLengths) == 0 {
		return u.testNumberLengthAgainstPattern(nationalNumber, desc.NationalNumberPattern)
	}
	return lengthPossibility(len(nationalNumber), desc)
}

func lengthPossibility(n int, desc *NumberDesc) ValidationResult {
	if containsInt(desc.PossibleLengthsLocalOnly, n) {
		return ResultIsPossibleLocalOnly
	}

	lengths := desc.PossibleLengths
	minLength := lengths[0]
	switch {
	case minLength == n:
		return ResultIsPossible
	case minLength > n:
		return ResultTooShort
	case lengths[len(lengths)-1] < n:
		return ResultTooLong
	}
	if containsInt(lengths[1:], n) {
		return ResultIsPossible
	}
	return ResultInvalidLength
}

// IsPossibleNumberForType runs the length possibility check against one number
// type's recorded lengths instead of the general descriptor's. Types without
// their own length set fall back to the general check.
func (u *Util) IsPossibleNumberForType(number *PhoneNumber, numberType NumberType) bool {
	if !u.store.hasCallingCode(number.CountryCode) {
		return false
	}
	regionCode := u.GetRegionCodeForCountryCode(number.CountryCode)
	md := u.metadataForRegionOrCallingCode(number.CountryCode, regionCode)
	if md == nil {
		return false
	}

	nationalNumber := number.NationalSignificantNumber()
	desc := md.descForType(numberType)
	if desc == nil || len(desc.PossibleLengths) == 0 {
		result := u.testNumberLength(nationalNumber, md)
		return result == ResultIsPossible || result == ResultIsPossibleLocalOnly
	}
	result := lengthPossibility(len(nationalNumber), desc)
	return result == ResultIsPossible || result == ResultIsPossibleLocalOnly
}

func (u *Util) testNumberLengthAgainstPattern(nationalNumber, pattern string) ValidationResult {
	if pattern == "" {
		return ResultInvalidLength
	}
	if u.cache.entireMatch(pattern, nationalNumber) {
		return ResultIsPossible
	}
	if re, err := u.cache.startMatch(pattern); err == nil && re.MatchString(nationalNumber) {
		return ResultTooLong
	}
	return ResultTooShort
}

// TruncateTooLongNumber drops trailing digits until the number is valid. It
// reports false, leaving the number untouched, when no truncation helps.
func (u *Util) TruncateTooLongNumber(number *PhoneNumber) bool {
	if u.IsValidNumber(number) {
		return true
	}
	copied := *number
	national := number.NationalNumber
	for {
		national /= 10
		copied.NationalNumber = national
		if national == 0 || u.IsPossibleNumberWithReason(&copied) == ResultTooShort {
			return false
		}
		if u.IsValidNumber(&copied) {
			number.NationalNumber = national
			return true
		}
	}
}

// IsNumberGeographical reports whether the number is tied to a geographic
// area: fixed lines always, plus mobile numbers in plans whose mobile ranges
// carry geography.
func (u *Util) IsNumberGeographical(number *PhoneNumber) bool {
	switch u.GetNumberType(number) {
	case TypeFixedLine, TypeFixedLineOrMobile:
		return true
	case TypeMobile:
		return geographicalMobileCountryCodes[number.CountryCode]
	}
	return false
}

// Plans where mobile numbers embed an area code.
var geographicalMobileCountryCodes = map[int]bool{
	52: true, // Mexico
	54: true, // Argentina
}

// GetExampleNumber returns a parsed example fixed line number for the region.
func (u *Util) GetExampleNumber(regionCode string) *PhoneNumber {
	return u.GetExampleNumberForType(regionCode, TypeFixedLine)
}

// GetExampleNumberForType returns a parsed example number of the given type,
// or nil when the plan records none.
func (u *Util) GetExampleNumberForType(regionCode string, numberType NumberType) *PhoneNumber {
	md := u.metadataForRegion(regionCode)
	if md == nil {
		return nil
	}
	desc := md.descForType(numberType)
	if desc == nil || desc.ExampleNumber == "" {
		return nil
	}
	number, err := u.Parse(desc.ExampleNumber, regionCode)
	if err != nil {
		return nil
	}
	return number
}

// GetNddPrefixForRegion returns the national dialing prefix, optionally
// reduced to its digits for plans whose prefix embeds formatting like "0~0".
func (u *Util) GetNddPrefixForRegion(regionCode string, stripNonDigits bool) string {
	md := u.metadataForRegion(regionCode)
	if md == nil {
		return ""
	}
	prefix := md.NationalPrefix
	if stripNonDigits {
		prefix = strings.ReplaceAll(prefix, "~", "")
	}
	return prefix
}

// GetLengthOfGeographicalAreaCode returns how many leading NSN digits form
// the area code, 0 when the number has none.
func (u *Util) GetLengthOfGeographicalAreaCode(number *PhoneNumber) int {
	md := u.metadataForRegion(u.GetRegionCodeForNumber(number))
	if md == nil || md.NationalPrefix == "" && !number.ItalianLeadingZero {
		return 0
	}
	if !u.IsNumberGeographical(number) {
		return 0
	}
	return u.GetLengthOfNationalDestinationCode(number)
}

// GetLengthOfNationalDestinationCode derives the NDC length from the grouping
// the international format produces: the first group after the country code.
func (u *Util) GetLengthOfNationalDestinationCode(number *PhoneNumber) int {
	copied := *number
	copied.Extension = ""
	formatted := u.Format(&copied, FormatInternational)
	groups := splitDigitGroups(formatted)
	// group 0 is the country code; fewer than three groups means the plan
	// does not separate an NDC
	if len(groups) <= 2 {
		return 0
	}
	return len(groups[1])
}

func splitDigitGroups(formatted string) []string {
	var groups []string
	start := -1
	for i, r := range formatted {
		if _, ok := asciiDigit(r); ok {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			groups = append(groups, formatted[start:i])
			start = -1
		}
	}
	if start >= 0 {
		groups = append(groups, formatted[start:])
	}
	return groups
}

func containsInt(values []int, target int) bool {
	if len(values) == 0 {
		return false
	}
	idx := sort.SearchInts(values, target)
	return idx < len(values) && values[idx] == target
}
