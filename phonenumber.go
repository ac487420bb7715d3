package phonenumber

import (
	"strings"
	"sync"
)

// Util is the phone number engine: an immutable metadata snapshot plus a
// pattern cache. Build one per process with NewUtil and share it; all methods
// are safe for concurrent use.
type Util struct {
	store *metadataStore
	cache *patternCache
}

type utilConfig struct {
	loaders []MetadataLoader
	regions map[string]bool
}

// Option configures NewUtil.
type Option func(*utilConfig)

// WithMetadataLoader adds a loader whose plans override earlier ones region
// by region. The embedded table is always loaded first.
func WithMetadataLoader(loader MetadataLoader) Option {
	return func(cfg *utilConfig) {
		if loader != nil {
			cfg.loaders = append(cfg.loaders, loader)
		}
	}
}

// WithMetadata registers explicit plans, useful for tests and for callers
// that build plans programmatically.
func WithMetadata(plans ...*Metadata) Option {
	return WithMetadataLoader(MetadataLoaderFunc(func() ([]*Metadata, error) {
		return plans, nil
	}))
}

// WithRegions restricts the engine to the listed region codes, shrinking the
// working set for callers that only handle a few markets. Non-geographical
// plans are always kept.
func WithRegions(regionCodes ...string) Option {
	return func(cfg *utilConfig) {
		if cfg.regions == nil {
			cfg.regions = make(map[string]bool, len(regionCodes))
		}
		for _, code := range regionCodes {
			cfg.regions[strings.ToUpper(strings.TrimSpace(code))] = true
		}
	}
}

// NewUtil builds an engine. With no options it serves the numbering plan
// table shipped with the library.
func NewUtil(opts ...Option) (*Util, error) {
	cfg := utilConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	loaders := append([]MetadataLoader{EmbeddedMetadataLoader{}}, cfg.loaders...)

	merged := make(map[string]*Metadata)
	var order []string
	for _, loader := range loaders {
		plans, err := loader.Load()
		if err != nil {
			return nil, err
		}
		for _, plan := range plans {
			if plan == nil {
				continue
			}
			key := planKey(plan)
			if _, seen := merged[key]; !seen {
				order = append(order, key)
			}
			merged[key] = plan
		}
	}

	selected := make([]*Metadata, 0, len(order))
	for _, key := range order {
		plan := merged[key]
		if cfg.regions != nil && plan.ID != nonGeoRegionCode && !cfg.regions[plan.ID] {
			continue
		}
		selected = append(selected, plan)
	}

	store, err := newMetadataStore(selected)
	if err != nil {
		return nil, err
	}
	return &Util{store: store, cache: newPatternCache()}, nil
}

// NewUtilFromLoader builds an engine from a single loader, without the
// embedded table underneath. Useful when the caller ships its own complete
// plan set.
func NewUtilFromLoader(loader MetadataLoader) (*Util, error) {
	if loader == nil {
		return NewUtil()
	}
	plans, err := loader.Load()
	if err != nil {
		return nil, err
	}
	store, err := newMetadataStore(plans)
	if err != nil {
		return nil, err
	}
	return &Util{store: store, cache: newPatternCache()}, nil
}

// MetadataSource exposes the engine's snapshot to collaborators such as
// metadata inspection tooling.
func (u *Util) MetadataSource() MetadataSource {
	return u.store
}

func (u *Util) metadataForRegion(regionCode string) *Metadata {
	md, ok := u.store.MetadataForRegion(regionCode)
	if !ok {
		return nil
	}
	return md
}

// metadataForRegionOrCallingCode resolves the plan for a number: by region
// for geographic numbers, by calling code for non-geographical ones.
func (u *Util) metadataForRegionOrCallingCode(countryCallingCode int, regionCode string) *Metadata {
	if regionCode == nonGeoRegionCode {
		md, ok := u.store.MetadataForNonGeographicalRegion(countryCallingCode)
		if !ok {
			return nil
		}
		return md
	}
	return u.metadataForRegion(regionCode)
}

// ConvertAlphaCharactersInNumber replaces keypad letters with their digits,
// leaving formatting untouched.
func ConvertAlphaCharactersInNumber(text string) string {
	return normalizeHelper(text, true, false)
}

// IsAlphaNumber reports whether text is a viable vanity number: one with at
// least three keypad letters in its number part.
func IsAlphaNumber(text string) bool {
	if !isViablePhoneNumber(text) {
		return false
	}
	stripped, _ := maybeStripExtension(text)
	return validAlphaPhonePattern.MatchString(stripped)
}

// Normalize converts a number to pure ASCII digits, mapping keypad letters
// in vanity numbers. Idempotent.
func Normalize(text string) string {
	return normalize(text)
}

var (
	defaultUtil     *Util
	defaultUtilErr  error
	defaultUtilOnce sync.Once
)

// Default returns the process-wide engine over the shipped metadata,
// building it on first use. The returned error repeats on every call when
// the embedded table is unusable.
func Default() (*Util, error) {
	defaultUtilOnce.Do(func() {
		defaultUtil, defaultUtilErr = NewUtil()
	})
	return defaultUtil, defaultUtilErr
}

func mustDefault() *Util {
	util, err := Default()
	if err != nil {
		panic(err)
	}
	return util
}

// Parse parses with the default engine. See Util.Parse.
func Parse(text, defaultRegion string) (*PhoneNumber, error) {
	return mustDefault().Parse(text, defaultRegion)
}

// ParseAndKeepRawInput parses with the default engine, retaining raw input.
func ParseAndKeepRawInput(text, defaultRegion string) (*PhoneNumber, error) {
	return mustDefault().ParseAndKeepRawInput(text, defaultRegion)
}

// Format renders with the default engine. See Util.Format.
func Format(number *PhoneNumber, format PhoneNumberFormat) string {
	return mustDefault().Format(number, format)
}

// IsValidNumber validates with the default engine.
func IsValidNumber(number *PhoneNumber) bool {
	return mustDefault().IsValidNumber(number)
}

// GetNumberType classifies with the default engine.
func GetNumberType(number *PhoneNumber) NumberType {
	return mustDefault().GetNumberType(number)
}

// IsNumberMatch compares two textual numbers with the default engine.
func IsNumberMatch(first, second string) MatchType {
	return mustDefault().IsNumberMatch(first, second)
}

// FindNumbers scans text with the default engine.
func FindNumbers(text, defaultRegion string, leniency Leniency, maxTries int) *Matcher {
	return mustDefault().FindNumbers(text, defaultRegion, leniency, maxTries)
}
