package schema

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrymomot/paramguard/pkg/validator"
)

var (
	customMu    sync.RWMutex
	customRules = make(map[string]validator.CustomFunc)
)

// RegisterRule makes fn available to struct tags and schema files under name,
// e.g. `validate:"not_null,slug"`. Register rules before compiling schemas
// that use them. It panics on an empty name or nil fn.
func RegisterRule(name string, fn validator.CustomFunc) {
	if name == "" || fn == nil {
		panic(fmt.Errorf("%w: custom rule needs a name and a function", validator.ErrInvalidRule))
	}
	customMu.Lock()
	defer customMu.Unlock()
	customRules[name] = fn
}

func registeredRule(name string) (validator.CustomFunc, bool) {
	customMu.RLock()
	defer customMu.RUnlock()
	fn, ok := customRules[name]
	return fn, ok
}

// customLookup resolves custom rule names for one compilation.
type customLookup func(name string) (validator.CustomFunc, bool)

// ruleSpec is one rule declaration before compilation, e.g. "length_range"
// with ["3", "20"].
type ruleSpec struct {
	name string
	args []string
}

// parseRuleSpec reads the "name=arg" form shared by struct tags and scalar
// YAML rules.
func parseRuleSpec(s string) ruleSpec {
	name, arg, _ := strings.Cut(strings.TrimSpace(s), "=")
	name = strings.TrimSpace(name)
	return ruleSpec{name: name, args: splitArgs(name, strings.TrimSpace(arg))}
}

func splitArgs(name, arg string) []string {
	if arg == "" {
		return nil
	}
	switch name {
	case "pattern":
		return []string{arg}
	case "one_of":
		return strings.Split(arg, "|")
	}
	return strings.Split(arg, ":")
}

// parseTag splits a validate tag into rule specs and reports whether the
// nested flag is present.
func parseTag(tag string) (specs []ruleSpec, nested bool) {
	for item := range strings.SplitSeq(tag, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}
		spec := parseRuleSpec(item)
		if spec.name == "nested" {
			nested = true
			continue
		}
		specs = append(specs, spec)
	}
	return specs, nested
}

// buildRuleSet compiles specs in order. When lengthLike is set, min and max
// describe a length and merge into one LengthRange placed where the first of
// them appeared.
func buildRuleSet(desc string, typ validator.ValueType, lengthLike bool, specs []ruleSpec, custom customLookup) (validator.RuleSet, error) {
	var (
		errs     []error
		rules    []validator.Rule
		lengthAt = -1
		minLen   = 0
		maxLen   = math.MaxInt
	)
	for _, spec := range specs {
		if lengthLike && (spec.name == "min" || spec.name == "max") {
			n, err := intArg(spec)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if lengthAt < 0 {
				lengthAt = len(rules)
				rules = append(rules, validator.Rule{})
			}
			if spec.name == "min" {
				minLen = n
			} else {
				maxLen = n
			}
			continue
		}
		compiled, err := compileRule(spec, custom)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rules = append(rules, compiled...)
	}
	if lengthAt >= 0 {
		rules[lengthAt] = validator.LengthRange(minLen, maxLen)
	}

	rs := validator.NewRuleSet(desc).As(typ)
	for _, r := range rules {
		next, err := rs.TryAdd(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rs = next
	}
	return rs, errors.Join(errs...)
}

func compileRule(spec ruleSpec, custom customLookup) ([]validator.Rule, error) {
	one := func(r validator.Rule, err error) ([]validator.Rule, error) {
		if err != nil {
			return nil, err
		}
		return []validator.Rule{r}, nil
	}

	switch spec.name {
	case "not_null", "required":
		return one(validator.NotNull(), arity(spec, 0))
	case "length", "exist_length":
		n, err := intArg(spec)
		if err != nil {
			return nil, err
		}
		if spec.name == "length" {
			return one(validator.Length(n), nil)
		}
		return one(validator.ExistLength(n), nil)
	case "min_length", "max_length":
		n, err := intArg(spec)
		if err != nil {
			return nil, err
		}
		if spec.name == "min_length" {
			return one(validator.MinLength(n), nil)
		}
		return one(validator.MaxLength(n), nil)
	case "length_range", "exist_length_range":
		lo, hi, err := intPair(spec)
		if err != nil {
			return nil, err
		}
		if spec.name == "length_range" {
			return one(validator.LengthRange(lo, hi), nil)
		}
		return one(validator.ExistLengthRange(lo, hi), nil)
	case "date_format":
		if len(spec.args) != 1 {
			return nil, fmt.Errorf("%w: date_format needs a format name", validator.ErrDateTimeFormatNotSet)
		}
		f, err := validator.ParseDateTimeFormat(spec.args[0])
		return one(validator.DateFormat(f), err)
	case "min", "max":
		if err := arity(spec, 1); err != nil {
			return nil, err
		}
		bound, err := strconv.ParseFloat(spec.args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects a number, got %q", validator.ErrInvalidRule, spec.name, spec.args[0])
		}
		if spec.name == "min" {
			return one(validator.Min(bound), nil)
		}
		return one(validator.Max(bound), nil)
	case "number_min", "number_max", "multiple_of":
		if err := arity(spec, 1); err != nil {
			return nil, err
		}
		n, err := int64Arg(spec, 0)
		if err != nil {
			return nil, err
		}
		switch spec.name {
		case "number_min":
			return one(validator.NumberMin(n), nil)
		case "number_max":
			return one(validator.NumberMax(n), nil)
		}
		return one(validator.MultipleOf(n), nil)
	case "number_range":
		if err := arity(spec, 2); err != nil {
			return nil, err
		}
		lo, err := int64Arg(spec, 0)
		if err != nil {
			return nil, err
		}
		hi, err := int64Arg(spec, 1)
		if err != nil {
			return nil, err
		}
		return []validator.Rule{validator.NumberMin(lo), validator.NumberMax(hi)}, nil
	case "positive", "positive_number":
		return one(validator.PositiveNumber(), arity(spec, 0))
	case "non_negative", "non_negative_number":
		return one(validator.NonNegativeNumber(), arity(spec, 0))
	case "integer":
		return one(validator.Integer(), arity(spec, 0))
	case "decimal_scale":
		n, err := intArg(spec)
		return one(validator.DecimalScale(n), err)
	case "odd", "odd_number":
		return one(validator.OddNumber(), arity(spec, 0))
	case "even", "even_number":
		return one(validator.EvenNumber(), arity(spec, 0))
	case "one_of":
		if len(spec.args) == 0 {
			return nil, fmt.Errorf("%w: one_of needs at least one value", validator.ErrInvalidRule)
		}
		return one(validator.OneOf(spec.args...), nil)
	case "pattern":
		switch len(spec.args) {
		case 1:
			return one(validator.PatternRule("pattern", spec.args[0]))
		case 2:
			return one(validator.PatternRule(spec.args[0], spec.args[1]))
		}
		return nil, fmt.Errorf("%w: pattern expects an expression", validator.ErrInvalidRule)
	case "custom":
		if err := arity(spec, 1); err != nil {
			return nil, err
		}
		return one(resolveCustom(spec.args[0], custom))
	case "":
		return nil, fmt.Errorf("%w: empty rule name", validator.ErrInvalidRule)
	}

	if len(spec.args) > 0 {
		return nil, fmt.Errorf("%w: unknown rule %q", validator.ErrInvalidRule, spec.name)
	}
	r, err := resolveCustom(spec.name, custom)
	if errors.Is(err, validator.ErrUnknownCustomRule) {
		return nil, fmt.Errorf("%w: unknown rule %q", validator.ErrInvalidRule, spec.name)
	}
	return one(r, err)
}

// resolveCustom looks name up in the compilation's own rules, the global
// registry and the built-ins, in that order.
func resolveCustom(name string, custom customLookup) (validator.Rule, error) {
	if custom != nil {
		if fn, ok := custom(name); ok {
			return validator.Custom(name, fn), nil
		}
	}
	if fn, ok := registeredRule(name); ok {
		return validator.Custom(name, fn), nil
	}
	return validator.BuiltinCustom(name)
}

func arity(spec ruleSpec, n int) error {
	if len(spec.args) != n {
		return fmt.Errorf("%w: %s expects %d argument(s), got %d", validator.ErrInvalidRule, spec.name, n, len(spec.args))
	}
	return nil
}

func intArg(spec ruleSpec) (int, error) {
	if err := arity(spec, 1); err != nil {
		return 0, err
	}
	return atoi(spec, spec.args[0])
}

func intPair(spec ruleSpec) (int, int, error) {
	if err := arity(spec, 2); err != nil {
		return 0, 0, err
	}
	lo, err := atoi(spec, spec.args[0])
	if err != nil {
		return 0, 0, err
	}
	hi, err := atoi(spec, spec.args[1])
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

func atoi(spec ruleSpec, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s expects an integer, got %q", validator.ErrInvalidRule, spec.name, s)
	}
	return n, nil
}

// int64Arg parses argument i; callers check the arity first.
func int64Arg(spec ruleSpec, i int) (int64, error) {
	n, err := strconv.ParseInt(spec.args[i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s expects an integer, got %q", validator.ErrInvalidRule, spec.name, spec.args[i])
	}
	return n, nil
}
