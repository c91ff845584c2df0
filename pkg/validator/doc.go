// Package validator is the rule model and evaluation engine for declarative
// parameter validation.
//
// A Rule describes one constraint (not null, length, date format, numeric
// bounds and friends, or a named custom function). Rules are collected into a
// RuleSet together with the field's human-readable description and the type
// its raw value is parsed into. RuleSets are immutable values: build them once
// at startup and share them across goroutines.
//
// Input reaches the engine as Value: absent, a scalar string, a collection or
// a nested Record. Numbers are carried as their text and parsed exactly with
// math/big when a numeric rule needs them, so "0.1" is really 1/10.
//
// # Evaluation
//
// ValidateValue walks the rules in declaration order and returns the first
// failure as a ValidationError. Absent values only fail NotNull; a field
// without NotNull is optional and an absent value skips every rule. Exist*
// rules also skip the empty string and empty collections.
//
//	rs := validator.NewRuleSet("user name").NotNull().LengthRange(3, 20)
//	if err := validator.ValidateValue("username", validator.String("ab"), rs); err != nil {
//	    // username: length must be between 3 and 20
//	}
//
// # Errors
//
// Two classes of error never mix. Broken declarations (min > max, a date rule
// without a format) are configuration errors: RuleSet.Add panics with them and
// RuleSet.TryAdd returns them wrapped around ErrLengthRange,
// ErrDateTimeFormatNotSet or ErrInvalidRule. Data problems are reported as
// ValidationError values and aggregated by callers into ValidationErrors, which
// carry a translation key ("validation.<kind>") and values for i18n.
package validator
