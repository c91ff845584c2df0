package validator

import (
	"fmt"
	"math"
	"strconv"
)

// CustomFunc checks a value and returns a non-nil error describing the problem.
// The error text becomes the failure message.
type CustomFunc func(v Value) error

// unbounded is the max of a length range without an upper bound.
const unbounded = math.MaxInt

// Rule is an immutable description of one constraint. Build rules with the
// constructors below; the zero Rule is invalid.
type Rule struct {
	kind     RuleKind
	min, max int
	bound    float64
	intBound int64
	format   DateTimeFormat
	name     string
	fn       CustomFunc
}

// NotNull rejects absent values, blank text, "null", "undefined" and empty collections.
func NotNull() Rule {
	return Rule{kind: KindNotNull}
}

// Length requires exactly n characters (or elements for collections).
func Length(n int) Rule {
	return Rule{kind: KindLength, min: n, max: n}
}

// LengthRange requires between min and max characters or elements, inclusive.
func LengthRange(min, max int) Rule {
	return Rule{kind: KindLengthRange, min: min, max: max}
}

// MinLength requires at least n characters or elements.
func MinLength(n int) Rule {
	return LengthRange(n, unbounded)
}

// MaxLength requires at most n characters or elements.
func MaxLength(n int) Rule {
	return LengthRange(0, n)
}

// ExistLength is Length applied only when the value is present and non-empty.
func ExistLength(n int) Rule {
	return Rule{kind: KindExistLength, min: n, max: n}
}

// ExistLengthRange is LengthRange applied only to non-empty values.
func ExistLengthRange(min, max int) Rule {
	return Rule{kind: KindExistLengthRange, min: min, max: max}
}

// DateFormat requires text that parses with f and formats back unchanged.
func DateFormat(f DateTimeFormat) Rule {
	return Rule{kind: KindDateFormat, format: f}
}

// Min requires a number greater than or equal to bound.
func Min(bound float64) Rule {
	return Rule{kind: KindMin, bound: bound}
}

// Max requires a number less than or equal to bound.
func Max(bound float64) Rule {
	return Rule{kind: KindMax, bound: bound}
}

// NumberMin is the integer-bounded variant of Min.
func NumberMin(bound int64) Rule {
	return Rule{kind: KindNumberMin, intBound: bound}
}

// NumberMax is the integer-bounded variant of Max.
func NumberMax(bound int64) Rule {
	return Rule{kind: KindNumberMax, intBound: bound}
}

// PositiveNumber requires a number greater than zero.
func PositiveNumber() Rule {
	return Rule{kind: KindPositiveNumber}
}

// NonNegativeNumber requires a number greater than or equal to zero.
func NonNegativeNumber() Rule {
	return Rule{kind: KindNonNegativeNumber}
}

// Integer requires a number without a fractional part.
func Integer() Rule {
	return Rule{kind: KindInteger}
}

// DecimalScale allows at most n digits after the decimal point.
func DecimalScale(n int) Rule {
	return Rule{kind: KindDecimalScale, min: n}
}

// OddNumber requires an odd integer.
func OddNumber() Rule {
	return Rule{kind: KindOddNumber}
}

// EvenNumber requires an even integer.
func EvenNumber() Rule {
	return Rule{kind: KindEvenNumber}
}

// MultipleOf requires an integer divisible by n.
func MultipleOf(n int64) Rule {
	return Rule{kind: KindMultipleOf, intBound: n}
}

// Custom wraps fn as a named rule.
func Custom(name string, fn CustomFunc) Rule {
	return Rule{kind: KindCustom, name: name, fn: fn}
}

func (r Rule) Kind() RuleKind { return r.kind }

// Name is the custom rule name, or the kind for built-in rules.
func (r Rule) Name() string {
	if r.kind == KindCustom {
		return r.name
	}
	return string(r.kind)
}

// Format returns the date format of a DateFormat rule.
func (r Rule) Format() DateTimeFormat { return r.format }

// Validate checks the rule declaration itself. A non-nil result is a
// configuration error.
func (r Rule) Validate() error {
	switch r.kind {
	case KindNotNull, KindPositiveNumber, KindNonNegativeNumber, KindInteger,
		KindOddNumber, KindEvenNumber, KindNumberMin, KindNumberMax:
		return nil
	case KindLength, KindExistLength:
		if r.min < 0 {
			return fmt.Errorf("%w: %s %d is negative", ErrLengthRange, r.kind, r.min)
		}
		return nil
	case KindLengthRange, KindExistLengthRange:
		if r.min < 0 || r.max < 0 {
			return fmt.Errorf("%w: %s %d~%d has a negative bound", ErrLengthRange, r.kind, r.min, r.max)
		}
		if r.min > r.max {
			return fmt.Errorf("%w: %s min %d is greater than max %d", ErrLengthRange, r.kind, r.min, r.max)
		}
		return nil
	case KindDateFormat:
		if !r.format.Valid() {
			return ErrDateTimeFormatNotSet
		}
		return nil
	case KindMin, KindMax:
		if math.IsNaN(r.bound) || math.IsInf(r.bound, 0) {
			return fmt.Errorf("%w: %s bound must be finite", ErrInvalidRule, r.kind)
		}
		return nil
	case KindDecimalScale:
		if r.min < 0 {
			return fmt.Errorf("%w: decimal scale %d is negative", ErrInvalidRule, r.min)
		}
		return nil
	case KindMultipleOf:
		if r.intBound == 0 {
			return fmt.Errorf("%w: multiple_of requires a non-zero divisor", ErrInvalidRule)
		}
		return nil
	case KindCustom:
		if r.name == "" || r.fn == nil {
			return fmt.Errorf("%w: custom rule needs a name and a function", ErrInvalidRule)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, r.kind)
}

// Params returns the rule parameters keyed by name, as used in translation
// values and schema descriptions.
func (r Rule) Params() map[string]any {
	switch r.kind {
	case KindLength, KindExistLength:
		return map[string]any{"length": r.min}
	case KindLengthRange, KindExistLengthRange:
		if r.max == unbounded {
			return map[string]any{"min": r.min}
		}
		return map[string]any{"min": r.min, "max": r.max}
	case KindDateFormat:
		return map[string]any{"format": r.format.String(), "pattern": r.format.Pattern()}
	case KindMin:
		return map[string]any{"min": formatBound(r.bound)}
	case KindMax:
		return map[string]any{"max": formatBound(r.bound)}
	case KindNumberMin:
		return map[string]any{"min": r.intBound}
	case KindNumberMax:
		return map[string]any{"max": r.intBound}
	case KindDecimalScale:
		return map[string]any{"scale": r.min}
	case KindMultipleOf:
		return map[string]any{"multiple": r.intBound}
	case KindCustom:
		return map[string]any{"name": r.name}
	}
	return nil
}

func (r Rule) String() string {
	switch r.kind {
	case KindLength, KindExistLength:
		return fmt.Sprintf("%s(%d)", r.kind, r.min)
	case KindLengthRange, KindExistLengthRange:
		if r.max == unbounded {
			return fmt.Sprintf("%s(%d, ...)", r.kind, r.min)
		}
		return fmt.Sprintf("%s(%d, %d)", r.kind, r.min, r.max)
	case KindDateFormat:
		return fmt.Sprintf("%s(%s)", r.kind, r.format)
	case KindMin, KindMax:
		return fmt.Sprintf("%s(%s)", r.kind, formatBound(r.bound))
	case KindNumberMin, KindNumberMax, KindMultipleOf:
		return fmt.Sprintf("%s(%d)", r.kind, r.intBound)
	case KindDecimalScale:
		return fmt.Sprintf("%s(%d)", r.kind, r.min)
	case KindCustom:
		return fmt.Sprintf("%s(%s)", r.kind, r.name)
	}
	return string(r.kind)
}

// translationKey is validation.<kind>, with length_min and length_max for
// length ranges open at one end.
func (r Rule) translationKey() string {
	if r.kind == KindLengthRange || r.kind == KindExistLengthRange {
		switch {
		case r.max == unbounded:
			return TranslationKeyPrefix + "length_min"
		case r.min == 0:
			return TranslationKeyPrefix + "length_max"
		}
	}
	if r.kind == KindCustom {
		return TranslationKeyPrefix + "custom." + r.name
	}
	return TranslationKeyPrefix + string(r.kind)
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
