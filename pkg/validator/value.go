package validator

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

type valueKind uint8

const (
	kindAbsent valueKind = iota
	kindScalar
	kindList
	kindRecord
)

// Value is one raw input value: absent, a scalar string, a collection of
// values or a nested record. The zero Value is absent.
type Value struct {
	kind   valueKind
	raw    string
	items  []Value
	record Record
}

// Record is anything that can hand out field values by name.
type Record interface {
	Lookup(field string) Value
}

// Values is the plain field-name to value mapping produced by request binders.
type Values map[string]Value

// Lookup returns the value for field, or an absent value.
func (v Values) Lookup(field string) Value {
	if val, ok := v[field]; ok {
		return val
	}
	return Absent()
}

// Absent returns the value of a missing field.
func Absent() Value {
	return Value{}
}

// String returns a scalar holding s as given.
func String(s string) Value {
	return Value{kind: kindScalar, raw: s}
}

// Number formats n canonically, e.g. 42, -3.5, 1e+21.
func Number[T Numeric](n T) Value {
	return Value{kind: kindScalar, raw: fmt.Sprint(n)}
}

// Bool returns the scalar "true" or "false".
func Bool(b bool) Value {
	return Value{kind: kindScalar, raw: strconv.FormatBool(b)}
}

// List returns a present collection. Length rules count its elements.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: kindList, items: items}
}

// Strings returns a collection of scalars.
func Strings(ss ...string) Value {
	items := make([]Value, len(ss))
	for i, s := range ss {
		items[i] = String(s)
	}
	return List(items...)
}

// Object wraps a nested record. A nil record is absent.
func Object(r Record) Value {
	if r == nil {
		return Absent()
	}
	return Value{kind: kindRecord, record: r}
}

func (v Value) IsAbsent() bool { return v.kind == kindAbsent }
func (v Value) IsScalar() bool { return v.kind == kindScalar }
func (v Value) IsList() bool   { return v.kind == kindList }
func (v Value) IsRecord() bool { return v.kind == kindRecord }

// Raw returns the scalar text, or "" for any other kind.
func (v Value) Raw() string { return v.raw }

// Items returns the collection elements.
func (v Value) Items() []Value { return v.items }

// Record returns the nested record, or nil.
func (v Value) Record() Record { return v.record }

// Len is the character count of a scalar (runes, not bytes) or the element
// count of a collection.
func (v Value) Len() int {
	switch v.kind {
	case kindScalar:
		return utf8.RuneCountInString(v.raw)
	case kindList:
		return len(v.items)
	}
	return 0
}

// IsEmpty reports an absent value, an empty string or an empty collection.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case kindAbsent:
		return true
	case kindScalar:
		return v.raw == ""
	case kindList:
		return len(v.items) == 0
	}
	return false
}

// isNull is the NotNull test: blank text and the exact literals "null" and
// "undefined" (any case) count as missing. " null " is present.
func (v Value) isNull() bool {
	switch v.kind {
	case kindAbsent:
		return true
	case kindScalar:
		return strings.TrimSpace(v.raw) == "" ||
			strings.EqualFold(v.raw, "null") ||
			strings.EqualFold(v.raw, "undefined")
	case kindList:
		return len(v.items) == 0
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case kindScalar:
		return v.raw
	case kindList:
		return fmt.Sprintf("[%d items]", len(v.items))
	case kindRecord:
		return "{record}"
	}
	return "<absent>"
}
