package schema

import "errors"

// Configuration errors reported while building or looking up schemas. Data
// problems are never reported with these; they come back as
// validator.ValidationErrors.
var (
	ErrUnknownGroup     = errors.New("unknown validation group")
	ErrUnknownField     = errors.New("unknown field")
	ErrDuplicateField   = errors.New("duplicate field")
	ErrRuleTypeMismatch = errors.New("rule does not fit field type")
	ErrInvalidSchema    = errors.New("invalid schema")
	ErrUnknownSchema    = errors.New("unknown schema")
	ErrUnsupportedType  = errors.New("unsupported field type")
)
