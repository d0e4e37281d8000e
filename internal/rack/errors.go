package rack

import "fmt"

// ErrorKind identifies a validation failure category. De-duplication in the
// Tracker is by kind only; the bounds carried by an OutOfRange value are
// display payload, not identity.
type ErrorKind int

const (
	// KindNotANumber means the input was non-empty but not a non-negative
	// base-10 integer.
	KindNotANumber ErrorKind = iota

	// KindOutOfRange means the input parsed but fell outside the sequence
	// domain.
	KindOutOfRange
)

// String returns a stable machine-readable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNotANumber:
		return "not_a_number"
	case KindOutOfRange:
		return "out_of_range"
	default:
		return "unknown"
	}
}

// ScanError is a user-input validation error. It is always an ordinary value,
// never a fault: the engine has no I/O and nothing to panic about.
type ScanError struct {
	Kind ErrorKind
	Min  int
	Max  int
}

// NotANumber returns the malformed-input error.
func NotANumber() ScanError {
	return ScanError{Kind: KindNotANumber}
}

// OutOfRange returns the out-of-bounds error carrying the valid domain.
func OutOfRange(min, max int) ScanError {
	return ScanError{Kind: KindOutOfRange, Min: min, Max: max}
}

// Error renders the operator-facing message. The wording is part of the
// widget contract and is asserted by tests.
func (e ScanError) Error() string {
	switch e.Kind {
	case KindOutOfRange:
		return fmt.Sprintf("Sequence must be between %d and %d.", e.Min, e.Max)
	default:
		return "Sequence must be a positive integer."
	}
}
