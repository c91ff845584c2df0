package validator

import (
	"fmt"
	"maps"
)

// TranslationKeyPrefix namespaces the translation keys of validation failures.
const TranslationKeyPrefix = "validation."

func message(k RuleKind, p map[string]any) string {
	switch k {
	case KindNotNull:
		return "must not be empty"
	case KindLength, KindExistLength:
		return fmt.Sprintf("length must be exactly %v", p["length"])
	case KindLengthRange, KindExistLengthRange:
		if _, ok := p["max"]; !ok {
			return fmt.Sprintf("length must be at least %v", p["min"])
		}
		if p["min"] == 0 {
			return fmt.Sprintf("length must be at most %v", p["max"])
		}
		return fmt.Sprintf("length must be between %v and %v", p["min"], p["max"])
	case KindDateFormat:
		return fmt.Sprintf("has an invalid format, expected %v", p["pattern"])
	case KindMin, KindNumberMin:
		return fmt.Sprintf("must be at least %v", p["min"])
	case KindMax, KindNumberMax:
		return fmt.Sprintf("must be at most %v", p["max"])
	case KindPositiveNumber:
		return "must be a positive number"
	case KindNonNegativeNumber:
		return "must not be negative"
	case KindInteger:
		return "must be an integer"
	case KindDecimalScale:
		return fmt.Sprintf("must have at most %v decimal places", p["scale"])
	case KindOddNumber:
		return "must be an odd number"
	case KindEvenNumber:
		return "must be an even number"
	case KindMultipleOf:
		return fmt.Sprintf("must be a multiple of %v", p["multiple"])
	case KindNumberFormat:
		return "must be a valid number"
	case KindUnsupportedType:
		return fmt.Sprintf("rule %v does not support this value type", p["rule"])
	}
	return "is invalid"
}

func newError(field, desc string, k RuleKind, params map[string]any, msg string) ValidationError {
	if desc == "" {
		desc = field
	}
	values := map[string]any{"field": desc}
	maps.Copy(values, params)
	if msg == "" {
		msg = message(k, values)
	}
	return ValidationError{
		Field:             field,
		Desc:              desc,
		Kind:              k,
		Message:           msg,
		TranslationKey:    TranslationKeyPrefix + string(k),
		TranslationValues: values,
	}
}

// ruleError builds the failure of rule r.
func ruleError(field string, rs RuleSet, r Rule) ValidationError {
	fe := newError(field, rs.desc, r.kind, r.Params(), "")
	fe.TranslationKey = r.translationKey()
	return fe
}

// UnsupportedType reports that rule cannot be applied to the value found in
// field, e.g. a length rule on a record.
func UnsupportedType(field, desc string, rule RuleKind) ValidationError {
	return newError(field, desc, KindUnsupportedType, map[string]any{"rule": string(rule)}, "")
}
