package validator

import "math/big"

// ValidateValue checks v against rs and returns nil or the ValidationError of
// the first failing rule.
func ValidateValue(field string, v Value, rs RuleSet) error {
	if err, ok := Check(field, v, rs); !ok {
		return err
	}
	return nil
}

// Check runs the rules of rs in declaration order and stops at the first
// failure. The boolean is true when v satisfies every rule.
//
// An absent value only ever fails NotNull: optional fields skip all rules and
// required ones fail with not_null wherever NotNull sits in the set.
func Check(field string, v Value, rs RuleSet) (ValidationError, bool) {
	if v.IsAbsent() {
		if rs.Required() {
			return ruleError(field, rs, NotNull()), false
		}
		return ValidationError{}, true
	}

	var (
		num    *big.Rat
		parsed bool
	)
	for _, r := range rs.rules {
		switch {
		case r.kind == KindNotNull:
			if v.isNull() {
				return ruleError(field, rs, r), false
			}

		case r.kind.IsLength():
			if r.kind.IsExist() && v.IsEmpty() {
				continue
			}
			if v.IsRecord() {
				return UnsupportedType(field, rs.desc, r.kind), false
			}
			if n := v.Len(); n < r.min || n > r.max {
				return ruleError(field, rs, r), false
			}

		case r.kind == KindDateFormat:
			if !v.IsScalar() {
				return UnsupportedType(field, rs.desc, r.kind), false
			}
			if !r.format.Matches(v.raw) {
				return ruleError(field, rs, r), false
			}

		case r.kind.IsNumeric():
			if !v.IsScalar() {
				return UnsupportedType(field, rs.desc, r.kind), false
			}
			if !parsed {
				n, ok := parseNumber(v.raw, rs.typ)
				if !ok {
					return newError(field, rs.desc, KindNumberFormat, map[string]any{"type": rs.typ.String()}, ""), false
				}
				num, parsed = n, true
			}
			if !checkNumber(r, num) {
				return ruleError(field, rs, r), false
			}

		case r.kind == KindCustom:
			if err := r.fn(v); err != nil {
				fe := newError(field, rs.desc, KindCustom, r.Params(), err.Error())
				fe.TranslationKey = r.translationKey()
				return fe, false
			}
		}
	}
	return ValidationError{}, true
}
