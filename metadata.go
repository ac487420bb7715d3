package phonenumber

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// NumberDesc captures the shape of one number type within a numbering plan.
type NumberDesc struct {
	// NationalNumberPattern is the authoritative regex for the type, matched
	// against the full national significant number.
	NationalNumberPattern string `json:"national_number_pattern" yaml:"national_number_pattern"`
	// PossibleLengths lists NSN lengths that are structurally plausible for
	// the type, ascending.
	PossibleLengths []int `json:"possible_lengths,omitempty" yaml:"possible_lengths,omitempty"`
	// PossibleLengthsLocalOnly lists lengths dialable only locally, without
	// the area code.
	PossibleLengthsLocalOnly []int `json:"possible_lengths_local_only,omitempty" yaml:"possible_lengths_local_only,omitempty"`
	ExampleNumber            string `json:"example_number,omitempty" yaml:"example_number,omitempty"`
}

// NumberFormat is one formatting rule of a numbering plan. Rules are ordered;
// the first whose pattern and leading digits both match wins.
type NumberFormat struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	// Format is the replacement template, referencing the pattern's capture
	// groups positionally as $1, $2, ...
	Format string `json:"format" yaml:"format"`
	// LeadingDigitsPatterns narrow the rule to numbers whose start matches the
	// last (most specific) entry.
	LeadingDigitsPatterns []string `json:"leading_digits_patterns,omitempty" yaml:"leading_digits_patterns,omitempty"`
	// NationalPrefixFormattingRule injects the national prefix ahead of the
	// first group. In source data it uses $NP and $FG placeholders; the store
	// resolves those once at load time.
	NationalPrefixFormattingRule         string `json:"national_prefix_formatting_rule,omitempty" yaml:"national_prefix_formatting_rule,omitempty"`
	NationalPrefixOptionalWhenFormatting bool   `json:"national_prefix_optional_when_formatting,omitempty" yaml:"national_prefix_optional_when_formatting,omitempty"`
	// DomesticCarrierCodeFormattingRule keeps its $CC placeholder until a
	// carrier code is supplied at format time.
	DomesticCarrierCodeFormattingRule string `json:"domestic_carrier_code_formatting_rule,omitempty" yaml:"domestic_carrier_code_formatting_rule,omitempty"`
}

// Metadata is the numbering plan of one region, or of one non-geographical
// country calling code (ID "001"). Instances are immutable once published by
// the store.
type Metadata struct {
	ID                           string `json:"id" yaml:"id"`
	CountryCode                  int    `json:"country_code" yaml:"country_code"`
	InternationalPrefix          string `json:"international_prefix,omitempty" yaml:"international_prefix,omitempty"`
	PreferredInternationalPrefix string `json:"preferred_international_prefix,omitempty" yaml:"preferred_international_prefix,omitempty"`
	NationalPrefix               string `json:"national_prefix,omitempty" yaml:"national_prefix,omitempty"`
	PreferredExtnPrefix          string `json:"preferred_extn_prefix,omitempty" yaml:"preferred_extn_prefix,omitempty"`
	// NationalPrefixForParsing may carry capture groups and pair with
	// NationalPrefixTransformRule for plans that rewrite digits while
	// stripping the prefix. Empty means fall back to NationalPrefix.
	NationalPrefixForParsing    string `json:"national_prefix_for_parsing,omitempty" yaml:"national_prefix_for_parsing,omitempty"`
	NationalPrefixTransformRule string `json:"national_prefix_transform_rule,omitempty" yaml:"national_prefix_transform_rule,omitempty"`
	// MainCountryForCode marks the canonical region among several sharing one
	// country calling code.
	MainCountryForCode bool `json:"main_country_for_code,omitempty" yaml:"main_country_for_code,omitempty"`
	// LeadingDigits is a fast path discriminator among regions sharing a
	// calling code.
	LeadingDigits                 string `json:"leading_digits,omitempty" yaml:"leading_digits,omitempty"`
	LeadingZeroPossible           bool   `json:"leading_zero_possible,omitempty" yaml:"leading_zero_possible,omitempty"`
	SameMobileAndFixedLinePattern bool   `json:"same_mobile_and_fixed_line_pattern,omitempty" yaml:"same_mobile_and_fixed_line_pattern,omitempty"`

	GeneralDesc             *NumberDesc `json:"general_desc,omitempty" yaml:"general_desc,omitempty"`
	FixedLine               *NumberDesc `json:"fixed_line,omitempty" yaml:"fixed_line,omitempty"`
	Mobile                  *NumberDesc `json:"mobile,omitempty" yaml:"mobile,omitempty"`
	TollFree                *NumberDesc `json:"toll_free,omitempty" yaml:"toll_free,omitempty"`
	PremiumRate             *NumberDesc `json:"premium_rate,omitempty" yaml:"premium_rate,omitempty"`
	SharedCost              *NumberDesc `json:"shared_cost,omitempty" yaml:"shared_cost,omitempty"`
	VOIP                    *NumberDesc `json:"voip,omitempty" yaml:"voip,omitempty"`
	PersonalNumber          *NumberDesc `json:"personal_number,omitempty" yaml:"personal_number,omitempty"`
	Pager                   *NumberDesc `json:"pager,omitempty" yaml:"pager,omitempty"`
	UAN                     *NumberDesc `json:"uan,omitempty" yaml:"uan,omitempty"`
	Voicemail               *NumberDesc `json:"voicemail,omitempty" yaml:"voicemail,omitempty"`
	NoInternationalDialling *NumberDesc `json:"no_international_dialling,omitempty" yaml:"no_international_dialling,omitempty"`

	NumberFormats     []NumberFormat `json:"number_formats,omitempty" yaml:"number_formats,omitempty"`
	IntlNumberFormats []NumberFormat `json:"intl_number_formats,omitempty" yaml:"intl_number_formats,omitempty"`
}

func (m *Metadata) descForType(t NumberType) *NumberDesc {
	switch t {
	case TypeFixedLine, TypeFixedLineOrMobile:
		return m.FixedLine
	case TypeMobile:
		return m.Mobile
	case TypeTollFree:
		return m.TollFree
	case TypePremiumRate:
		return m.PremiumRate
	case TypeSharedCost:
		return m.SharedCost
	case TypeVOIP:
		return m.VOIP
	case TypePersonalNumber:
		return m.PersonalNumber
	case TypePager:
		return m.Pager
	case TypeUAN:
		return m.UAN
	case TypeVoicemail:
		return m.Voicemail
	}
	return m.GeneralDesc
}

func (m *Metadata) clone() *Metadata {
	out := *m
	out.GeneralDesc = m.GeneralDesc.clone()
	out.FixedLine = m.FixedLine.clone()
	out.Mobile = m.Mobile.clone()
	out.TollFree = m.TollFree.clone()
	out.PremiumRate = m.PremiumRate.clone()
	out.SharedCost = m.SharedCost.clone()
	out.VOIP = m.VOIP.clone()
	out.PersonalNumber = m.PersonalNumber.clone()
	out.Pager = m.Pager.clone()
	out.UAN = m.UAN.clone()
	out.Voicemail = m.Voicemail.clone()
	out.NoInternationalDialling = m.NoInternationalDialling.clone()
	out.NumberFormats = cloneFormats(m.NumberFormats)
	out.IntlNumberFormats = cloneFormats(m.IntlNumberFormats)
	return &out
}

func (d *NumberDesc) clone() *NumberDesc {
	if d == nil {
		return nil
	}
	out := *d
	out.PossibleLengths = append([]int(nil), d.PossibleLengths...)
	out.PossibleLengthsLocalOnly = append([]int(nil), d.PossibleLengthsLocalOnly...)
	return &out
}

func cloneFormats(formats []NumberFormat) []NumberFormat {
	if len(formats) == 0 {
		return nil
	}
	out := make([]NumberFormat, len(formats))
	copy(out, formats)
	for i := range out {
		out[i].LeadingDigitsPatterns = append([]string(nil), formats[i].LeadingDigitsPatterns...)
	}
	return out
}

// MetadataSource supplies numbering plans to the engine. Implementations must
// return immutable metadata.
type MetadataSource interface {
	// MetadataForRegion returns the plan for an ISO 3166-1 alpha-2 region code.
	MetadataForRegion(regionCode string) (*Metadata, bool)
	// MetadataForNonGeographicalRegion returns the plan addressed by a country
	// calling code only, such as +800.
	MetadataForNonGeographicalRegion(countryCallingCode int) (*Metadata, bool)
}

// nonGeoRegionCode is the pseudo region id used by plans addressed only by
// their country calling code.
const nonGeoRegionCode = "001"

// metadataStore is an immutable snapshot of all loaded plans, indexed by
// region code and by country calling code.
type metadataStore struct {
	byRegion      map[string]*Metadata
	byCallingCode map[int]*Metadata
	// regionsByCallingCode keeps the main country for a code first.
	regionsByCallingCode map[int][]string
	regions              []string
}

var _ MetadataSource = (*metadataStore)(nil)

// newMetadataStore builds an immutable snapshot from the given plans,
// resolving $NP/$FG formatting placeholders once up front and validating that
// every referenced regex compiles.
func newMetadataStore(plans []*Metadata) (*metadataStore, error) {
	store := &metadataStore{
		byRegion:             make(map[string]*Metadata, len(plans)),
		byCallingCode:        make(map[int]*Metadata),
		regionsByCallingCode: make(map[int][]string),
	}

	for _, plan := range plans {
		if plan == nil {
			continue
		}
		md := plan.clone()
		if md.ID == "" || md.CountryCode == 0 {
			return nil, fmt.Errorf("phonenumber: metadata entry missing id or country code (%q/%d)", md.ID, md.CountryCode)
		}
		resolveFormattingRules(md)
		if err := validatePlanPatterns(md); err != nil {
			return nil, err
		}

		if md.ID == nonGeoRegionCode {
			store.byCallingCode[md.CountryCode] = md
			continue
		}

		store.byRegion[md.ID] = md
		store.regions = append(store.regions, md.ID)
		if md.MainCountryForCode {
			store.regionsByCallingCode[md.CountryCode] = append(
				[]string{md.ID}, store.regionsByCallingCode[md.CountryCode]...)
		} else {
			store.regionsByCallingCode[md.CountryCode] = append(
				store.regionsByCallingCode[md.CountryCode], md.ID)
		}
	}

	if len(store.byRegion) == 0 && len(store.byCallingCode) == 0 {
		return nil, ErrNoMetadata
	}

	sort.Strings(store.regions)
	return store, nil
}

// resolveFormattingRules substitutes $NP with the plan's national prefix and
// $FG with the first group reference, so format time only splices strings.
// $CC stays in place until a carrier code is known.
func resolveFormattingRules(md *Metadata) {
	resolve := func(rule string) string {
		rule = strings.ReplaceAll(rule, "$NP", md.NationalPrefix)
		rule = strings.ReplaceAll(rule, "$FG", "$1")
		return rule
	}
	for i := range md.NumberFormats {
		md.NumberFormats[i].NationalPrefixFormattingRule = resolve(md.NumberFormats[i].NationalPrefixFormattingRule)
		md.NumberFormats[i].DomesticCarrierCodeFormattingRule = resolve(md.NumberFormats[i].DomesticCarrierCodeFormattingRule)
	}
	for i := range md.IntlNumberFormats {
		md.IntlNumberFormats[i].NationalPrefixFormattingRule = resolve(md.IntlNumberFormats[i].NationalPrefixFormattingRule)
		md.IntlNumberFormats[i].DomesticCarrierCodeFormattingRule = resolve(md.IntlNumberFormats[i].DomesticCarrierCodeFormattingRule)
	}
}

func validatePlanPatterns(md *Metadata) error {
	check := func(pattern, what string) error {
		if pattern == "" {
			return nil
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("phonenumber: %s: bad %s pattern: %w", md.ID, what, err)
		}
		return nil
	}

	descs := map[string]*NumberDesc{
		"general": md.GeneralDesc, "fixed_line": md.FixedLine, "mobile": md.Mobile,
		"toll_free": md.TollFree, "premium_rate": md.PremiumRate, "shared_cost": md.SharedCost,
		"voip": md.VOIP, "personal_number": md.PersonalNumber, "pager": md.Pager,
		"uan": md.UAN, "voicemail": md.Voicemail, "no_international_dialling": md.NoInternationalDialling,
	}
	for name, desc := range descs {
		if desc == nil {
			continue
		}
		if err := check(desc.NationalNumberPattern, name); err != nil {
			return err
		}
	}

	if err := check(md.InternationalPrefix, "international prefix"); err != nil {
		return err
	}
	if err := check(md.NationalPrefixForParsing, "national prefix for parsing"); err != nil {
		return err
	}
	if err := check(md.LeadingDigits, "leading digits"); err != nil {
		return err
	}
	for _, list := range [][]NumberFormat{md.NumberFormats, md.IntlNumberFormats} {
		for _, rule := range list {
			if err := check(rule.Pattern, "format"); err != nil {
				return err
			}
			for _, ld := range rule.LeadingDigitsPatterns {
				if err := check(ld, "leading digits of format"); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *metadataStore) MetadataForRegion(regionCode string) (*Metadata, bool) {
	if s == nil || regionCode == "" {
		return nil, false
	}
	md, ok := s.byRegion[strings.ToUpper(regionCode)]
	return md, ok
}

func (s *metadataStore) MetadataForNonGeographicalRegion(countryCallingCode int) (*Metadata, bool) {
	if s == nil {
		return nil, false
	}
	md, ok := s.byCallingCode[countryCallingCode]
	return md, ok
}

// regionsForCallingCode returns the region codes assigned to a calling code,
// main country first. Non-geographical codes return the 001 pseudo region.
func (s *metadataStore) regionsForCallingCode(countryCallingCode int) []string {
	if regions, ok := s.regionsByCallingCode[countryCallingCode]; ok {
		return regions
	}
	if _, ok := s.byCallingCode[countryCallingCode]; ok {
		return []string{nonGeoRegionCode}
	}
	return nil
}

func (s *metadataStore) hasCallingCode(countryCallingCode int) bool {
	return len(s.regionsForCallingCode(countryCallingCode)) > 0
}

// supportedRegions returns all region codes known to the store, sorted.
func (s *metadataStore) supportedRegions() []string {
	out := make([]string, len(s.regions))
	copy(out, s.regions)
	return out
}
