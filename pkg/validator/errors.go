package validator

import "errors"

// Configuration errors. They describe a broken rule declaration and are reported
// when the rule or schema is built, never inside ValidationErrors.
var (
	// ErrLengthRange is returned when a length rule has a negative bound or min > max.
	ErrLengthRange = errors.New("invalid length range")

	// ErrDateTimeFormatNotSet is returned when a date format rule has no known format tag.
	ErrDateTimeFormatNotSet = errors.New("date time format not set")

	// ErrInvalidRule is returned when a rule is declared with unusable parameters.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrUnknownCustomRule is returned when a custom rule name cannot be resolved.
	ErrUnknownCustomRule = errors.New("unknown custom rule")
)
