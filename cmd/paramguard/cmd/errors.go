package cmd

import "errors"

// Process exit codes.
const (
	ExitOK      = 0
	ExitInvalid = 1
	ExitConfig  = 2
)

// errInvalidInput marks a run whose input failed validation. The report has
// already been written when it is returned.
var errInvalidInput = errors.New("input failed validation")

var (
	ErrNoSchemaFile  = errors.New("no schema file given: use --schema-file or PARAMGUARD_SCHEMA_FILE")
	ErrNoSchemaName  = errors.New("no schema name given: use --schema")
	ErrInvalidConfig = errors.New("invalid configuration")
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errInvalidInput):
		return ExitInvalid
	default:
		return ExitConfig
	}
}
