package phonenumber

import "testing"

func newTestGeocoder(t *testing.T, util *Util) *Geocoder {
	t.Helper()
	geocoder, err := NewGeocoder(util, nil)
	if err != nil {
		t.Fatalf("NewGeocoder: %v", err)
	}
	return geocoder
}

func TestGeocoderDescriptionForNumber(t *testing.T) {
	util := newTestUtil(t)
	geocoder := newTestGeocoder(t, util)

	tests := []struct {
		name   string
		input  string
		locale string
		want   string
	}{
		{name: "exact prefix", input: "+16502530000", locale: "en", want: "Mountain View, CA"},
		{name: "shorter prefix fallback", input: "+16504301234", locale: "en", want: "California"},
		{name: "gb prefix", input: "+442083661177", locale: "en", want: "London"},
		{name: "german locale", input: "+493012345678", locale: "de", want: "Berlin"},
		{name: "locale with region subtag", input: "+390236618300", locale: "de-DE", want: "Mailand"},
		{name: "unknown locale falls back to english", input: "+390236618300", locale: "sw", want: "Milan"},
		{name: "no prefix hit falls back to region name", input: "+33612345678", locale: "en", want: "France"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			number := mustParse(t, util, tc.input, "")
			if got := geocoder.DescriptionForNumber(number, tc.locale); got != tc.want {
				t.Fatalf("DescriptionForNumber(%q, %q) = %q want %q", tc.input, tc.locale, got, tc.want)
			}
		})
	}
}

func TestGeocoderNonGeographicNumber(t *testing.T) {
	util := newTestUtil(t)
	geocoder := newTestGeocoder(t, util)

	number := mustParse(t, util, "+80012345678", "")
	if got := geocoder.DescriptionForNumber(number, "en"); got != "" {
		t.Fatalf("non-geographic description = %q want empty", got)
	}
}

func TestGeocoderCustomTables(t *testing.T) {
	util := newTestUtil(t)

	geocoder, err := NewGeocoder(util, map[string]*PrefixMap{
		"en": NewPrefixMap(map[int]string{1650: "Bay Area"}),
	})
	if err != nil {
		t.Fatalf("NewGeocoder: %v", err)
	}

	number := mustParse(t, util, "+16502530000", "")
	if got := geocoder.DescriptionForNumber(number, "en"); got != "Bay Area" {
		t.Fatalf("DescriptionForNumber = %q want %q", got, "Bay Area")
	}
}

func TestCarrierMapperNameForNumber(t *testing.T) {
	util := newTestUtil(t)
	mapper, err := NewCarrierMapper(nil)
	if err != nil {
		t.Fatalf("NewCarrierMapper: %v", err)
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "gb vodafone range", input: "+447400123456", want: "Vodafone"},
		{name: "gb ee range is longer prefix", input: "+447500123456", want: "EE"},
		{name: "au telstra range", input: "+61412345678", want: "Telstra"},
		{name: "fixed line has no carrier", input: "+442083661177", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			number := mustParse(t, util, tc.input, "")
			if got := mapper.NameForNumber(number, "en"); got != tc.want {
				t.Fatalf("NameForNumber(%q) = %q want %q", tc.input, got, tc.want)
			}
		})
	}
}
