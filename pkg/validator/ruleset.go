package validator

import (
	"fmt"
	"slices"
)

// ValueType is the declared type a field's raw value is parsed into by the
// numeric rules.
type ValueType uint8

const (
	TypeString ValueType = iota
	TypeInt
	TypeUint
	TypeFloat
)

func (t ValueType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeUint:
		return "uint"
	case TypeFloat:
		return "float"
	}
	return "string"
}

// ParseValueType maps the names used in schema files to a ValueType.
func ParseValueType(name string) (ValueType, error) {
	switch name {
	case "", "string":
		return TypeString, nil
	case "int", "integer":
		return TypeInt, nil
	case "uint":
		return TypeUint, nil
	case "float", "number", "decimal":
		return TypeFloat, nil
	}
	return TypeString, fmt.Errorf("%w: unknown value type %q", ErrInvalidRule, name)
}

// RuleSet is the ordered list of rules for one field, together with the
// field's human-readable description. RuleSet is a value: every method
// returns a new RuleSet and never modifies the receiver, so a RuleSet can be
// shared freely once built.
//
//	username := validator.NewRuleSet("user name").NotNull().LengthRange(3, 20)
//	age := validator.NewRuleSet("age").As(validator.TypeInt).Min(0).Max(150)
type RuleSet struct {
	desc  string
	typ   ValueType
	rules []Rule
}

// NewRuleSet starts an empty string-typed rule set described as desc.
func NewRuleSet(desc string) RuleSet {
	return RuleSet{desc: desc}
}

func (rs RuleSet) Desc() string    { return rs.desc }
func (rs RuleSet) Type() ValueType { return rs.typ }
func (rs RuleSet) Len() int        { return len(rs.rules) }

// Rules returns a copy of the rules in evaluation order.
func (rs RuleSet) Rules() []Rule {
	return slices.Clone(rs.rules)
}

// Required reports whether the field declares NotNull. Fields without it are
// optional: an absent value skips every rule.
func (rs RuleSet) Required() bool {
	return slices.ContainsFunc(rs.rules, func(r Rule) bool { return r.kind == KindNotNull })
}

// Has reports whether a rule of kind k is declared.
func (rs RuleSet) Has(k RuleKind) bool {
	return slices.ContainsFunc(rs.rules, func(r Rule) bool { return r.kind == k })
}

// As sets the type numeric rules parse the value into.
func (rs RuleSet) As(t ValueType) RuleSet {
	rs.typ = t
	return rs
}

// WithDesc replaces the field description used in messages.
func (rs RuleSet) WithDesc(desc string) RuleSet {
	rs.desc = desc
	return rs
}

// Add appends r. An invalid rule is a programming error and panics with a
// configuration error; use TryAdd when rules come from external input.
func (rs RuleSet) Add(r Rule) RuleSet {
	next, err := rs.TryAdd(r)
	if err != nil {
		panic(err)
	}
	return next
}

// TryAdd appends r after checking it with Rule.Validate.
func (rs RuleSet) TryAdd(r Rule) (RuleSet, error) {
	if err := r.Validate(); err != nil {
		return rs, fmt.Errorf("rule set %q: %w", rs.desc, err)
	}
	rs.rules = append(slices.Clip(rs.rules), r)
	return rs, nil
}

func (rs RuleSet) NotNull() RuleSet                 { return rs.Add(NotNull()) }
func (rs RuleSet) Length(n int) RuleSet             { return rs.Add(Length(n)) }
func (rs RuleSet) LengthRange(min, max int) RuleSet { return rs.Add(LengthRange(min, max)) }
func (rs RuleSet) MinLength(n int) RuleSet          { return rs.Add(MinLength(n)) }
func (rs RuleSet) MaxLength(n int) RuleSet          { return rs.Add(MaxLength(n)) }
func (rs RuleSet) ExistLength(n int) RuleSet        { return rs.Add(ExistLength(n)) }
func (rs RuleSet) ExistLengthRange(min, max int) RuleSet {
	return rs.Add(ExistLengthRange(min, max))
}
func (rs RuleSet) DateFormat(f DateTimeFormat) RuleSet { return rs.Add(DateFormat(f)) }
func (rs RuleSet) Min(bound float64) RuleSet           { return rs.Add(Min(bound)) }
func (rs RuleSet) Max(bound float64) RuleSet           { return rs.Add(Max(bound)) }
func (rs RuleSet) NumberMin(bound int64) RuleSet       { return rs.Add(NumberMin(bound)) }
func (rs RuleSet) NumberMax(bound int64) RuleSet       { return rs.Add(NumberMax(bound)) }
func (rs RuleSet) PositiveNumber() RuleSet             { return rs.Add(PositiveNumber()) }
func (rs RuleSet) NonNegativeNumber() RuleSet          { return rs.Add(NonNegativeNumber()) }
func (rs RuleSet) Integer() RuleSet                    { return rs.Add(Integer()) }
func (rs RuleSet) DecimalScale(n int) RuleSet          { return rs.Add(DecimalScale(n)) }
func (rs RuleSet) OddNumber() RuleSet                  { return rs.Add(OddNumber()) }
func (rs RuleSet) EvenNumber() RuleSet                 { return rs.Add(EvenNumber()) }
func (rs RuleSet) MultipleOf(n int64) RuleSet          { return rs.Add(MultipleOf(n)) }

// NumberRange adds NumberMin followed by NumberMax.
func (rs RuleSet) NumberRange(min, max int64) RuleSet {
	return rs.Add(NumberMin(min)).Add(NumberMax(max))
}

func (rs RuleSet) Custom(name string, fn CustomFunc) RuleSet {
	return rs.Add(Custom(name, fn))
}
