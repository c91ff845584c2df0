package schema

import "github.com/dmitrymomot/paramguard/pkg/validator"

// Validatable is implemented by anything that can validate itself in full or
// for one group. Nested records implementing it are delegated to instead of
// being walked field by field.
type Validatable interface {
	Validate() error
	ValidateGroup(group string) error
}

type boundRecord struct {
	schema *Schema
	rec    validator.Record
}

// Bind ties rec to s so it can be passed around as a Validatable.
func Bind(s *Schema, rec validator.Record) Validatable {
	return boundRecord{schema: s, rec: rec}
}

func (b boundRecord) Validate() error {
	return b.schema.Validate(b.rec)
}

func (b boundRecord) ValidateGroup(group string) error {
	return b.schema.ValidateGroup(b.rec, group)
}

// delegator is implemented by records that wrap a value which may validate
// itself, such as reflected structs.
type delegator interface {
	validatable() (Validatable, bool)
}

func delegate(rec validator.Record) (Validatable, bool) {
	switch r := rec.(type) {
	case delegator:
		return r.validatable()
	case Validatable:
		return r, true
	}
	return nil, false
}
