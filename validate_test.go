package phonenumber

import "testing"

func mustParse(t *testing.T, util *Util, input, region string) *PhoneNumber {
	t.Helper()
	number, err := util.Parse(input, region)
	if err != nil {
		t.Fatalf("Parse(%q, %q): %v", input, region, err)
	}
	return number
}

func TestGetNumberType(t *testing.T) {
	util := newTestUtil(t)

	tests := []struct {
		name   string
		input  string
		region string
		want   NumberType
	}{
		{name: "us plan merges fixed and mobile", input: "650 253 0000", region: "US", want: TypeFixedLineOrMobile},
		{name: "us toll free", input: "800 234 5678", region: "US", want: TypeTollFree},
		{name: "us premium", input: "900 234 5678", region: "US", want: TypePremiumRate},
		{name: "us personal number", input: "500 234 5678", region: "US", want: TypePersonalNumber},
		{name: "gb fixed", input: "020 8366 1177", region: "GB", want: TypeFixedLine},
		{name: "gb mobile", input: "07400 123456", region: "GB", want: TypeMobile},
		{name: "it fixed with leading zero", input: "02 3661 8300", region: "IT", want: TypeFixedLine},
		{name: "it mobile", input: "312 345 6789", region: "IT", want: TypeMobile},
		{name: "ar mobile after transform", input: "0343 15 555 1212", region: "AR", want: TypeMobile},
		{name: "international toll free", input: "+800 1234 5678", region: "", want: TypeTollFree},
		{name: "wrong length is unknown", input: "+44 123456", region: "", want: TypeUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			number := mustParse(t, util, tc.input, tc.region)
			if got := util.GetNumberType(number); got != tc.want {
				t.Fatalf("GetNumberType = %v want %v", got, tc.want)
			}
		})
	}
}

func TestIsValidNumber(t *testing.T) {
	util := newTestUtil(t)

	tests := []struct {
		name   string
		input  string
		region string
		want   bool
	}{
		{name: "us valid", input: "+1 650 253 0000", region: "", want: true},
		{name: "gb valid", input: "+44 20 8366 1177", region: "", want: true},
		{name: "de valid", input: "+49 30 123456", region: "", want: true},
		{name: "non geo valid", input: "+800 1234 5678", region: "", want: true},
		{name: "us local only is not valid", input: "253 0000", region: "US", want: false},
		{name: "us too long", input: "+1 650 253 00000", region: "", want: false},
		{name: "gb wrong shape", input: "+44 91 2345678", region: "", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			number := mustParse(t, util, tc.input, tc.region)
			if got := util.IsValidNumber(number); got != tc.want {
				t.Fatalf("IsValidNumber(%q) = %t want %t", tc.input, got, tc.want)
			}
		})
	}
}

func TestIsValidNumberForRegion(t *testing.T) {
	util := newTestUtil(t)

	gbNumber := mustParse(t, util, "+44 20 8366 1177", "")
	if !util.IsValidNumberForRegion(gbNumber, "GB") {
		t.Fatalf("GB number should be valid for GB")
	}
	if util.IsValidNumberForRegion(gbNumber, "US") {
		t.Fatalf("GB number must not validate against US")
	}

	// BS shares the calling code with US but has its own ranges
	bsNumber := mustParse(t, util, "+1 242 345 6789", "")
	if !util.IsValidNumberForRegion(bsNumber, "BS") {
		t.Fatalf("BS number should be valid for BS")
	}
	if util.IsValidNumberForRegion(bsNumber, "US") {
		t.Fatalf("BS number must not validate against US")
	}
}

func TestGetRegionCodeForNumber(t *testing.T) {
	util := newTestUtil(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "us", input: "+1 650 253 0000", want: "US"},
		{name: "bahamas shares nanpa code", input: "+1 242 345 6789", want: "BS"},
		{name: "gb", input: "+44 20 8366 1177", want: "GB"},
		{name: "non geographic", input: "+800 1234 5678", want: "001"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			number := mustParse(t, util, tc.input, "")
			if got := util.GetRegionCodeForNumber(number); got != tc.want {
				t.Fatalf("GetRegionCodeForNumber(%q) = %q want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestRegionAndCountryCodeLookups(t *testing.T) {
	util := newTestUtil(t)

	if got := util.GetRegionCodeForCountryCode(44); got != "GB" {
		t.Fatalf("GetRegionCodeForCountryCode(44) = %q want GB", got)
	}
	if got := util.GetRegionCodeForCountryCode(1); got != "US" {
		t.Fatalf("GetRegionCodeForCountryCode(1) = %q want US (main country first)", got)
	}
	if got := util.GetRegionCodeForCountryCode(800); got != "001" {
		t.Fatalf("GetRegionCodeForCountryCode(800) = %q want 001", got)
	}
	if got := util.GetRegionCodeForCountryCode(999); got != unknownRegion {
		t.Fatalf("GetRegionCodeForCountryCode(999) = %q want %q", got, unknownRegion)
	}

	regions := util.GetRegionCodesForCountryCode(1)
	if len(regions) != 2 || regions[0] != "US" || regions[1] != "BS" {
		t.Fatalf("GetRegionCodesForCountryCode(1) = %v want [US BS]", regions)
	}

	if got := util.GetCountryCodeForRegion("DE"); got != 49 {
		t.Fatalf("GetCountryCodeForRegion(DE) = %d want 49", got)
	}
	if got := util.GetCountryCodeForRegion("XX"); got != 0 {
		t.Fatalf("GetCountryCodeForRegion(XX) = %d want 0", got)
	}

	if !util.IsNANPACountry("US") || !util.IsNANPACountry("bs") {
		t.Fatalf("US and BS are NANPA countries")
	}
	if util.IsNANPACountry("GB") {
		t.Fatalf("GB is not a NANPA country")
	}
}

func TestIsPossibleNumberWithReason(t *testing.T) {
	util := newTestUtil(t)

	tests := []struct {
		name   string
		number *PhoneNumber
		want   ValidationResult
	}{
		{name: "possible", number: &PhoneNumber{CountryCode: 1, NationalNumber: 6502530000}, want: ResultIsPossible},
		{name: "local only", number: &PhoneNumber{CountryCode: 1, NationalNumber: 2530000}, want: ResultIsPossibleLocalOnly},
		{name: "too short", number: &PhoneNumber{CountryCode: 1, NationalNumber: 253000}, want: ResultTooShort},
		{name: "too long", number: &PhoneNumber{CountryCode: 1, NationalNumber: 65025300000}, want: ResultTooLong},
		// DE has a gap between regular numbers and 15-digit M2M ranges
		{name: "invalid length inside range", number: &PhoneNumber{CountryCode: 49, NationalNumber: 123456789012}, want: ResultInvalidLength},
		{name: "unknown country code", number: &PhoneNumber{CountryCode: 999, NationalNumber: 6502530000}, want: ResultInvalidCountryCode},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := util.IsPossibleNumberWithReason(tc.number); got != tc.want {
				t.Fatalf("IsPossibleNumberWithReason = %v want %v", got, tc.want)
			}
		})
	}
}

func TestIsPossibleNumberForType(t *testing.T) {
	util := newTestUtil(t)

	local := &PhoneNumber{CountryCode: 1, NationalNumber: 2530000}
	if !util.IsPossibleNumberForType(local, TypeFixedLine) {
		t.Fatalf("7 digits are possible for US fixed line local dialing")
	}
	if util.IsPossibleNumberForType(local, TypeTollFree) {
		t.Fatalf("toll free numbers have no local-only length")
	}

	auTollFree := &PhoneNumber{CountryCode: 61, NationalNumber: 1800123456}
	if !util.IsPossibleNumberForType(auTollFree, TypeTollFree) {
		t.Fatalf("10 digits are possible for AU toll free")
	}
	if util.IsPossibleNumberForType(auTollFree, TypeFixedLine) {
		t.Fatalf("10 digits are not possible for AU fixed line")
	}
}

func TestIsPossibleNumberForString(t *testing.T) {
	util := newTestUtil(t)

	if !util.IsPossibleNumberForString("+44 20 8366 1177", "") {
		t.Fatalf("well formed number should be possible")
	}
	if util.IsPossibleNumberForString("nonsense", "GB") {
		t.Fatalf("unparseable text cannot be possible")
	}
}

func TestTruncateTooLongNumber(t *testing.T) {
	util := newTestUtil(t)

	number := &PhoneNumber{CountryCode: 1, NationalNumber: 65025300001}
	if !util.TruncateTooLongNumber(number) {
		t.Fatalf("TruncateTooLongNumber = false, want true")
	}
	if number.NationalNumber != 6502530000 {
		t.Fatalf("NationalNumber = %d want 6502530000", number.NationalNumber)
	}

	valid := &PhoneNumber{CountryCode: 1, NationalNumber: 6502530000}
	if !util.TruncateTooLongNumber(valid) || valid.NationalNumber != 6502530000 {
		t.Fatalf("valid number must be left untouched")
	}

	hopeless := &PhoneNumber{CountryCode: 1, NationalNumber: 2530000}
	if util.TruncateTooLongNumber(hopeless) {
		t.Fatalf("local-only number cannot be truncated into validity")
	}
	if hopeless.NationalNumber != 2530000 {
		t.Fatalf("failed truncation must not modify the number")
	}
}

func TestIsNumberGeographical(t *testing.T) {
	util := newTestUtil(t)

	tests := []struct {
		name   string
		input  string
		region string
		want   bool
	}{
		{name: "us fixed or mobile", input: "650 253 0000", region: "US", want: true},
		{name: "gb mobile not geographic", input: "07400 123456", region: "GB", want: false},
		{name: "ar mobile is geographic", input: "0343 15 555 1212", region: "AR", want: true},
		{name: "mx mobile is geographic", input: "044 33 1234 5678", region: "MX", want: true},
		{name: "toll free not geographic", input: "+800 1234 5678", region: "", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			number := mustParse(t, util, tc.input, tc.region)
			if got := util.IsNumberGeographical(number); got != tc.want {
				t.Fatalf("IsNumberGeographical(%q) = %t want %t", tc.input, got, tc.want)
			}
		})
	}
}

func TestGetExampleNumber(t *testing.T) {
	util := newTestUtil(t)

	for _, region := range util.GetSupportedRegions() {
		example := util.GetExampleNumber(region)
		if example == nil {
			continue
		}
		if !util.IsValidNumber(example) {
			t.Fatalf("example number for %s is not valid: %+v", region, example)
		}
	}

	mobile := util.GetExampleNumberForType("GB", TypeMobile)
	if mobile == nil {
		t.Fatalf("GB mobile example missing")
	}
	if got := util.GetNumberType(mobile); got != TypeMobile {
		t.Fatalf("GB example classified as %v want MOBILE", got)
	}

	if util.GetExampleNumber("XX") != nil {
		t.Fatalf("unknown region must have no example")
	}
}

func TestGetNddPrefixForRegion(t *testing.T) {
	util := newTestUtil(t)

	if got := util.GetNddPrefixForRegion("US", false); got != "1" {
		t.Fatalf("US NDD = %q want 1", got)
	}
	if got := util.GetNddPrefixForRegion("GB", false); got != "0" {
		t.Fatalf("GB NDD = %q want 0", got)
	}
	if got := util.GetNddPrefixForRegion("IT", false); got != "" {
		t.Fatalf("IT NDD = %q want empty", got)
	}
}

func TestAreaCodeAndNDCLengths(t *testing.T) {
	util := newTestUtil(t)

	tests := []struct {
		name     string
		input    string
		region   string
		wantArea int
		wantNDC  int
	}{
		{name: "us", input: "650 253 0000", region: "US", wantArea: 3, wantNDC: 3},
		{name: "gb", input: "020 8366 1177", region: "GB", wantArea: 2, wantNDC: 2},
		{name: "gb mobile has ndc but no area code", input: "07400 123456", region: "GB", wantArea: 0, wantNDC: 4},
		{name: "non geo toll free", input: "+800 1234 5678", region: "", wantArea: 0, wantNDC: 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			number := mustParse(t, util, tc.input, tc.region)
			if got := util.GetLengthOfGeographicalAreaCode(number); got != tc.wantArea {
				t.Fatalf("GetLengthOfGeographicalAreaCode = %d want %d", got, tc.wantArea)
			}
			if got := util.GetLengthOfNationalDestinationCode(number); got != tc.wantNDC {
				t.Fatalf("GetLengthOfNationalDestinationCode = %d want %d", got, tc.wantNDC)
			}
		})
	}
}
