package float

import "errors"

// Failure classes, matched with errors.Is. Constructors and operators wrap
// these with context about the offending value.
var (
	// ErrWidthMismatch marks a field or packed vector whose bit width does
	// not fit the format, including mismatched formats in binary operators.
	ErrWidthMismatch = errors.New("float: field width mismatch")

	// ErrAlreadyPopulated marks a second construction attempt through a
	// populator that has already delivered its value.
	ErrAlreadyPopulated = errors.New("float: populator already used")

	// ErrUnsupportedRounding marks a rounding mode that is recognized but
	// not implemented.
	ErrUnsupportedRounding = errors.New("float: unsupported rounding mode")

	// ErrInfinityUnsupported marks an infinity requested from a format
	// whose top exponent code encodes finite values.
	ErrInfinityUnsupported = errors.New("float: format has no infinity encoding")

	// ErrRangeExceeded marks a value outside the representable range of a
	// range-checked format, or a conversion target too small for the value.
	ErrRangeExceeded = errors.New("float: value outside representable range")

	// ErrInvalidComparison marks an ordering request involving NaN.
	ErrInvalidComparison = errors.New("float: comparison undefined for NaN")
)
