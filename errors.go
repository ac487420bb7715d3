package phonenumber

import (
	"errors"
	"fmt"
)

// ErrUnsupportedRegion indicates a region code the loaded metadata does not cover.
var ErrUnsupportedRegion = errors.New("phonenumber: unsupported region")

// ErrNoMetadata indicates an engine constructed without any numbering plan data.
var ErrNoMetadata = errors.New("phonenumber: no metadata loaded")

// ParseErrorKind enumerates the ways user-supplied text can fail to parse.
type ParseErrorKind int

const (
	// ErrInvalidCountryCode means a plus-prefixed input whose digits match no
	// known country calling code, or a default region the library has no
	// metadata for when no plus sign is present.
	ErrInvalidCountryCode ParseErrorKind = iota
	// ErrNotANumber means the input is empty or fails the viable phone number grammar.
	ErrNotANumber
	// ErrTooShortAfterIDD means stripping an international dialing prefix left
	// fewer digits than a national number can have.
	ErrTooShortAfterIDD
	// ErrTooShortNSN means the national significant number is below the minimum length.
	ErrTooShortNSN
	// ErrTooLong means the input has more digits than any national number can have.
	ErrTooLong
)

func (k ParseErrorKind) String() string {
	switch k {
	case ErrInvalidCountryCode:
		return "INVALID_COUNTRY_CODE"
	case ErrNotANumber:
		return "NOT_A_NUMBER"
	case ErrTooShortAfterIDD:
		return "TOO_SHORT_AFTER_IDD"
	case ErrTooShortNSN:
		return "TOO_SHORT_NSN"
	case ErrTooLong:
		return "TOO_LONG"
	}
	return "UNKNOWN"
}

// ParseError is the typed failure returned by Parse and ParseAndKeepRawInput.
type ParseError struct {
	Kind   ParseErrorKind
	Reason string
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("phonenumber: %s", e.Kind)
	}
	return fmt.Sprintf("phonenumber: %s: %s", e.Kind, e.Reason)
}

func newParseError(kind ParseErrorKind, reason string) *ParseError {
	return &ParseError{Kind: kind, Reason: reason}
}

// ParseErrorOf extracts the kind from an error returned by Parse, with
// ok=false when err is not a ParseError.
func ParseErrorOf(err error) (ParseErrorKind, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}

func isParseErrorKind(err error, kind ParseErrorKind) bool {
	k, ok := ParseErrorOf(err)
	return ok && k == kind
}
