package phonenumber

import (
	_ "embed"
	"encoding/json"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

//go:embed testdata/geocoding.json
var defaultGeocodingJSON []byte

//go:embed testdata/carrier.json
var defaultCarrierJSON []byte

// Geocoder resolves a parsed number to a textual area description, keyed by
// country calling code plus leading national digits, with per-language
// tables and BCP 47 fallback.
type Geocoder struct {
	util       *Util
	byLanguage map[string]*PrefixMap
}

// NewGeocoder builds a geocoder over the given per-language prefix tables.
// Passing nil tables selects the data shipped with the library.
func NewGeocoder(util *Util, byLanguage map[string]*PrefixMap) (*Geocoder, error) {
	if byLanguage == nil {
		var file prefixDataFile
		if err := json.Unmarshal(defaultGeocodingJSON, &file); err != nil {
			return nil, err
		}
		maps, err := buildPrefixMaps(file)
		if err != nil {
			return nil, err
		}
		byLanguage = maps
	}
	return &Geocoder{util: util, byLanguage: byLanguage}, nil
}

// DescriptionForNumber returns a description of the number's area in the
// requested locale: the prefix table hit when one exists, else the display
// name of the number's region, else empty.
func (g *Geocoder) DescriptionForNumber(number *PhoneNumber, locale string) string {
	if description, ok := lookupByLocale(g.byLanguage, number, locale); ok {
		return description
	}
	return g.regionDisplayName(number, locale)
}

// regionDisplayName renders the number's region name in the caller's
// language, falling back to English.
func (g *Geocoder) regionDisplayName(number *PhoneNumber, locale string) string {
	regionCode := g.util.GetRegionCodeForNumber(number)
	if regionCode == "" || regionCode == nonGeoRegionCode {
		return ""
	}
	region, err := language.ParseRegion(regionCode)
	if err != nil {
		return ""
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	if name := display.Regions(tag).Name(region); name != "" {
		return name
	}
	return display.Regions(language.English).Name(region)
}

// CarrierMapper resolves a parsed number to the name of the carrier its
// prefix range was originally assigned to. Number portability makes this a
// best-effort original-carrier lookup, not a live one.
type CarrierMapper struct {
	byLanguage map[string]*PrefixMap
}

// NewCarrierMapper builds a mapper over the given per-language prefix
// tables, or the shipped data when nil.
func NewCarrierMapper(byLanguage map[string]*PrefixMap) (*CarrierMapper, error) {
	if byLanguage == nil {
		var file prefixDataFile
		if err := json.Unmarshal(defaultCarrierJSON, &file); err != nil {
			return nil, err
		}
		maps, err := buildPrefixMaps(file)
		if err != nil {
			return nil, err
		}
		byLanguage = maps
	}
	return &CarrierMapper{byLanguage: byLanguage}, nil
}

// NameForNumber returns the carrier name for the number's prefix in the
// requested locale, empty when unknown.
func (c *CarrierMapper) NameForNumber(number *PhoneNumber, locale string) string {
	name, _ := lookupByLocale(c.byLanguage, number, locale)
	return name
}

// lookupByLocale probes the language tables from most to least specific:
// the full lowercased tag, its base language, then English.
func lookupByLocale(byLanguage map[string]*PrefixMap, number *PhoneNumber, locale string) (string, bool) {
	key := geocodingKey(number)
	if key == 0 || len(byLanguage) == 0 {
		return "", false
	}
	for _, candidate := range localeCandidates(locale) {
		table, ok := byLanguage[candidate]
		if !ok {
			continue
		}
		if description, found := table.Lookup(key); found {
			return description, true
		}
	}
	return "", false
}

// geocodingKey concatenates country code and national digits into the
// integer form the prefix tables are keyed on. Leading zeros survive because
// the country code digits precede them.
func geocodingKey(number *PhoneNumber) uint64 {
	if number == nil || number.CountryCode <= 0 {
		return 0
	}
	digits := strconv.Itoa(number.CountryCode) + number.NationalSignificantNumber()
	key, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0
	}
	return key
}

func localeCandidates(locale string) []string {
	candidates := make([]string, 0, 3)
	seen := make(map[string]bool, 3)
	push := func(value string) {
		if value != "" && !seen[value] {
			seen[value] = true
			candidates = append(candidates, value)
		}
	}

	if tag, err := language.Parse(locale); err == nil {
		push(normalizeLocaleKey(tag.String()))
		if base, conf := tag.Base(); conf != language.No {
			push(normalizeLocaleKey(base.String()))
		}
	}
	push("en")
	return candidates
}

func normalizeLocaleKey(locale string) string {
	out := make([]byte, 0, len(locale))
	for i := 0; i < len(locale); i++ {
		c := locale[i]
		if c == '_' {
			c = '-'
		}
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}
