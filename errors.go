package curvelab

import "errors"

// Error categories returned by the core. The presentation side catches
// once, tests with errors.Is, and shows a single message; underlying
// parser and evaluator messages are preserved verbatim by wrapping.
var (
	// ErrExpression marks a malformed or disallowed formula: parse
	// failures, undeclared identifiers, and evaluation-time errors.
	ErrExpression = errors.New("curvelab: invalid expression")

	// ErrEmptyData marks input with no usable rows: nothing finite
	// after filtering, or fewer points than an operation requires.
	ErrEmptyData = errors.New("curvelab: not enough data")

	// ErrDomain marks a bad sampling range or point count, including
	// non-numeric free-text fields.
	ErrDomain = errors.New("curvelab: invalid domain")

	// ErrShape marks a result that is not a numeric vector of the
	// expected length, and mismatched x/y inputs.
	ErrShape = errors.New("curvelab: shape mismatch")
)
