package domain

import "errors"

// Error classes for the calculation engine. All are deterministic: the same
// input always produces the same error, so none of them is retryable.
var (
	// ErrInvalidInput marks malformed or out-of-range request parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCalculation marks a genuine mathematical degeneracy, e.g. a zero
	// denominator in the hour-angle solve at a pole. The query is physically
	// unanswerable, not transiently broken.
	ErrCalculation = errors.New("calculation error")

	// ErrNotFound marks a missing lookup entry (e.g. unknown country).
	ErrNotFound = errors.New("not found")

	// ErrDateParsing marks a malformed date string or span descriptor.
	ErrDateParsing = errors.New("date parsing error")

	// ErrTimezoneParsing marks an unresolvable timezone name or offset.
	ErrTimezoneParsing = errors.New("timezone parsing error")
)
