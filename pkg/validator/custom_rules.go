package validator

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// textRule adapts a string predicate to a CustomFunc. Collections pass when
// every element passes; records are rejected.
func textRule(msg string, check func(string) bool) CustomFunc {
	fail := errors.New(msg)
	return func(v Value) error {
		switch {
		case v.IsScalar():
			if !check(v.Raw()) {
				return fail
			}
		case v.IsList():
			for _, item := range v.Items() {
				if !item.IsScalar() || !check(item.Raw()) {
					return fail
				}
			}
		default:
			return fail
		}
		return nil
	}
}

// UUID accepts the canonical 36-character hyphenated form only.
func UUID() Rule {
	return Custom("uuid", textRule("must be a valid UUID", func(s string) bool {
		// Fast rejection before parsing.
		if len(s) != 36 || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
			return false
		}
		_, err := uuid.Parse(s)
		return err == nil
	}))
}

// Email accepts a bare address with a dotted domain, e.g. user@example.com.
func Email() Rule {
	return Custom("email", textRule("must be a valid email address", validEmail))
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	local, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || local == "" {
		return false
	}
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

// Pattern matches the whole value against expr. It panics if expr does not
// compile; use PatternRule for expressions from configuration.
func Pattern(name, expr string) Rule {
	r, err := PatternRule(name, expr)
	if err != nil {
		panic(err)
	}
	return r
}

func PatternRule(name, expr string) (Rule, error) {
	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: pattern %q: %w", ErrInvalidRule, name, err)
	}
	return Custom(name, textRule(fmt.Sprintf("must match the %s pattern", name), re.MatchString)), nil
}

// OneOf accepts only the listed values (exact, case-sensitive).
func OneOf(values ...string) Rule {
	allowed := slices.Clone(values)
	msg := fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", "))
	return Custom("one_of", textRule(msg, func(s string) bool {
		return slices.Contains(allowed, s)
	}))
}

// BuiltinCustom resolves the parameterless built-in custom rules by name.
func BuiltinCustom(name string) (Rule, error) {
	switch strings.ToLower(name) {
	case "uuid":
		return UUID(), nil
	case "email":
		return Email(), nil
	}
	return Rule{}, fmt.Errorf("%w: %q", ErrUnknownCustomRule, name)
}
