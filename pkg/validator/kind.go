package validator

// RuleKind identifies a constraint. The set is closed: rules can only be built
// through the constructors in this package.
type RuleKind string

const (
	KindNotNull           RuleKind = "not_null"
	KindLength            RuleKind = "length"
	KindLengthRange       RuleKind = "length_range"
	KindExistLength       RuleKind = "exist_length"
	KindExistLengthRange  RuleKind = "exist_length_range"
	KindDateFormat        RuleKind = "date_format"
	KindMin               RuleKind = "min"
	KindMax               RuleKind = "max"
	KindNumberMin         RuleKind = "number_min"
	KindNumberMax         RuleKind = "number_max"
	KindPositiveNumber    RuleKind = "positive_number"
	KindNonNegativeNumber RuleKind = "non_negative_number"
	KindInteger           RuleKind = "integer"
	KindDecimalScale      RuleKind = "decimal_scale"
	KindOddNumber         RuleKind = "odd_number"
	KindEvenNumber        RuleKind = "even_number"
	KindMultipleOf        RuleKind = "multiple_of"
	KindCustom            RuleKind = "custom"
)

// Failure-only kinds. They appear in ValidationError.Kind but cannot be declared.
const (
	KindNumberFormat    RuleKind = "number_format"
	KindUnsupportedType RuleKind = "unsupported_type"
)

// IsLength reports whether the kind measures length (characters or elements).
func (k RuleKind) IsLength() bool {
	switch k {
	case KindLength, KindLengthRange, KindExistLength, KindExistLengthRange:
		return true
	}
	return false
}

// IsExist reports whether the kind only applies to present, non-empty values.
func (k RuleKind) IsExist() bool {
	return k == KindExistLength || k == KindExistLengthRange
}

// IsNumeric reports whether the kind requires the value to parse as a number.
func (k RuleKind) IsNumeric() bool {
	switch k {
	case KindMin, KindMax, KindNumberMin, KindNumberMax,
		KindPositiveNumber, KindNonNegativeNumber, KindInteger,
		KindDecimalScale, KindOddNumber, KindEvenNumber, KindMultipleOf:
		return true
	}
	return false
}

func (k RuleKind) String() string {
	return string(k)
}
