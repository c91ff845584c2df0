package schema

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/paramguard/pkg/validator"
)

const kindNested validator.RuleKind = "nested"

// Validate checks every field of rec in declaration order. It returns nil,
// validator.ValidationErrors with the first failure of each failing field, or
// a configuration error raised by a delegated record.
func (s *Schema) Validate(rec validator.Record) error {
	return result(s.check(rec, nil))
}

// ValidateGroup checks only the fields of group. Nested records reached from
// those fields are validated in full. An undeclared group is a configuration
// error wrapping ErrUnknownGroup.
func (s *Schema) ValidateGroup(rec validator.Record, group string) error {
	members, ok := s.groups[group]
	if !ok {
		return fmt.Errorf("%w: %q is not declared on schema %q", ErrUnknownGroup, group, s.name)
	}
	return result(s.check(rec, members))
}

func result(errs validator.ValidationErrors, err error) error {
	if err != nil {
		return err
	}
	if errs.IsEmpty() {
		return nil
	}
	return errs
}

// check validates the fields named in only, or all fields when only is nil.
func (s *Schema) check(rec validator.Record, only []string) (validator.ValidationErrors, error) {
	var errs validator.ValidationErrors
	visit := func(f FieldDescriptor) error {
		fieldErrs, err := s.checkField(f, lookup(rec, f.Name))
		if err != nil {
			return err
		}
		errs.Merge(fieldErrs)
		return nil
	}

	if only == nil {
		for _, f := range s.fields {
			if err := visit(f); err != nil {
				return nil, err
			}
		}
		return errs, nil
	}
	for _, name := range only {
		if err := visit(s.fields[s.index[name]]); err != nil {
			return nil, err
		}
	}
	return errs, nil
}

func (s *Schema) checkField(f FieldDescriptor, v validator.Value) (validator.ValidationErrors, error) {
	if f.Collection && v.IsScalar() {
		v = asList(v)
	}
	if fe, ok := validator.Check(f.Name, v, f.Rules); !ok {
		return validator.ValidationErrors{fe}, nil
	}
	if f.Nested == nil || v.IsAbsent() {
		return nil, nil
	}
	if !f.Collection {
		return f.Nested.checkNested(f.Name, f.Desc, v)
	}

	if !v.IsList() {
		return validator.ValidationErrors{validator.UnsupportedType(f.Name, f.Desc, kindNested)}, nil
	}
	var errs validator.ValidationErrors
	for i, item := range v.Items() {
		if item.IsAbsent() {
			continue
		}
		itemErrs, err := f.Nested.checkNested(validator.IndexField(f.Name, i), f.Desc, item)
		if err != nil {
			return nil, err
		}
		errs.Merge(itemErrs)
	}
	return errs, nil
}

// checkNested validates a nested record and qualifies failures with path.
func (s *Schema) checkNested(path, desc string, v validator.Value) (validator.ValidationErrors, error) {
	if !v.IsRecord() {
		return validator.ValidationErrors{validator.UnsupportedType(path, desc, kindNested)}, nil
	}

	rec := v.Record()
	if d, ok := delegate(rec); ok {
		err := d.Validate()
		if err == nil {
			return nil, nil
		}
		if errs := validator.ExtractValidationErrors(err); errs != nil {
			return errs.Prefix(path), nil
		}
		return nil, fmt.Errorf("field %q: %w", path, err)
	}

	errs, err := s.check(rec, nil)
	if err != nil {
		return nil, err
	}
	return errs.Prefix(path), nil
}

// asList reads a scalar given for a collection field as a one-element
// collection, so "?tags=go" counts one tag. Blank text is an empty collection.
func asList(v validator.Value) validator.Value {
	if strings.TrimSpace(v.Raw()) == "" {
		return validator.List()
	}
	return validator.List(v)
}

func lookup(rec validator.Record, name string) validator.Value {
	if rec == nil {
		return validator.Absent()
	}
	return rec.Lookup(name)
}
