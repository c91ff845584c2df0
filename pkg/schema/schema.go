package schema

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/dmitrymomot/paramguard/pkg/validator"
)

// FieldDescriptor describes one field of a Schema. It is owned by its schema
// and must not be modified after Build.
type FieldDescriptor struct {
	Name  string
	Desc  string
	Rules validator.RuleSet
	// Optional is true when the rules do not declare NotNull.
	Optional bool
	// Collection marks list fields. Length rules count elements and, when
	// Nested is set, every element is validated against Nested.
	Collection bool
	Nested     *Schema
}

// Schema is the ordered set of fields for one record type plus its groups.
// A built Schema is immutable and safe for concurrent use.
type Schema struct {
	name   string
	fields []FieldDescriptor
	index  map[string]int
	groups map[string][]string
}

func (s *Schema) Name() string { return s.name }

// Fields returns the field descriptors in declaration order.
func (s *Schema) Fields() []FieldDescriptor {
	return slices.Clone(s.fields)
}

func (s *Schema) Field(name string) (FieldDescriptor, bool) {
	i, ok := s.index[name]
	if !ok {
		return FieldDescriptor{}, false
	}
	return s.fields[i], true
}

// Groups returns the declared group names, sorted.
func (s *Schema) Groups() []string {
	names := make([]string, 0, len(s.groups))
	for name := range s.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Schema) HasGroup(group string) bool {
	_, ok := s.groups[group]
	return ok
}

// GroupFields returns the members of group in field declaration order.
func (s *Schema) GroupFields(group string) ([]string, error) {
	members, ok := s.groups[group]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not declared on schema %q", ErrUnknownGroup, group, s.name)
	}
	return slices.Clone(members), nil
}

type fieldDecl struct {
	FieldDescriptor
	nested bool
}

// Builder collects field declarations. Problems are reported together by
// Build; the builder methods never fail.
//
//	address := schema.New("address").
//	    Field("zipcode", validator.NewRuleSet("zip code").NotNull().Length(6)).
//	    MustBuild()
//	user := schema.New("user").
//	    Field("username", validator.NewRuleSet("user name").NotNull().LengthRange(3, 20)).
//	    Field("age", validator.NewRuleSet("age").Min(0).Max(150)).
//	    Nested("address", "address", address).
//	    Group(schema.GroupCreate, "username", "age").
//	    MustBuild()
type Builder struct {
	name       string
	fields     []fieldDecl
	groups     map[string][]string
	groupOrder []string
}

func New(name string) *Builder {
	return &Builder{name: name, groups: make(map[string][]string)}
}

// Field adds a scalar field.
func (b *Builder) Field(name string, rs validator.RuleSet) *Builder {
	return b.add(name, rs.Desc(), rs, false, nil, false)
}

// Collection adds a list field whose length rules count elements.
func (b *Builder) Collection(name string, rs validator.RuleSet) *Builder {
	return b.add(name, rs.Desc(), rs, true, nil, false)
}

// Nested adds a record field validated against child. Optional rule sets run
// on the field itself before descending; a failure there skips the child.
func (b *Builder) Nested(name, desc string, child *Schema, rs ...validator.RuleSet) *Builder {
	return b.add(name, desc, mergeRuleSets(desc, rs), false, child, true)
}

// NestedList adds a list field whose elements are validated against child and
// reported as name[i].field.
func (b *Builder) NestedList(name, desc string, child *Schema, rs ...validator.RuleSet) *Builder {
	return b.add(name, desc, mergeRuleSets(desc, rs), true, child, true)
}

// Group adds fields to a named group. It can be called more than once for the
// same group.
func (b *Builder) Group(name string, fields ...string) *Builder {
	if _, ok := b.groups[name]; !ok {
		b.groupOrder = append(b.groupOrder, name)
	}
	b.groups[name] = append(b.groups[name], fields...)
	return b
}

func (b *Builder) add(name, desc string, rs validator.RuleSet, collection bool, child *Schema, nested bool) *Builder {
	if desc == "" {
		desc = name
	}
	if rs.Desc() == "" {
		rs = rs.WithDesc(desc)
	}
	b.fields = append(b.fields, fieldDecl{
		FieldDescriptor: FieldDescriptor{
			Name:       name,
			Desc:       desc,
			Rules:      rs,
			Optional:   !rs.Required(),
			Collection: collection,
			Nested:     child,
		},
		nested: nested,
	})
	return b
}

func mergeRuleSets(desc string, sets []validator.RuleSet) validator.RuleSet {
	merged := validator.NewRuleSet(desc)
	for i, rs := range sets {
		if i == 0 {
			merged = rs
			continue
		}
		for _, r := range rs.Rules() {
			merged = merged.Add(r)
		}
	}
	return merged
}

// Build checks every declaration and returns the schema, or all problems
// joined into one error.
func (b *Builder) Build() (*Schema, error) {
	s := &Schema{}
	if err := b.buildInto(s); err != nil {
		return nil, err
	}
	return s, nil
}

// MustBuild is Build that panics on error, for schemas declared in code.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// buildInto fills dst in place so that loaders can hand out a *Schema before
// it is built, which is how recursive and forward references resolve.
func (b *Builder) buildInto(dst *Schema) error {
	var errs []error
	if b.name == "" {
		errs = append(errs, fmt.Errorf("%w: schema name is empty", ErrInvalidSchema))
	}

	fields := make([]FieldDescriptor, 0, len(b.fields))
	index := make(map[string]int, len(b.fields))
	for i, f := range b.fields {
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("%w: field #%d has no name", ErrInvalidSchema, i))
			continue
		}
		if _, dup := index[f.Name]; dup {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateField, f.Name))
			continue
		}
		if f.nested && f.Nested == nil {
			errs = append(errs, fmt.Errorf("%w: field %q: nested schema is nil", ErrInvalidSchema, f.Name))
		}
		for _, r := range f.Rules.Rules() {
			if err := r.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("field %q: %w", f.Name, err))
				continue
			}
			if err := checkRuleFits(f.FieldDescriptor, r); err != nil {
				errs = append(errs, err)
			}
		}
		index[f.Name] = len(fields)
		fields = append(fields, f.FieldDescriptor)
	}

	groups := make(map[string][]string, len(b.groups))
	for _, name := range b.groupOrder {
		if name == "" {
			errs = append(errs, fmt.Errorf("%w: group name is empty", ErrInvalidSchema))
			continue
		}
		members := make([]string, 0, len(b.groups[name]))
		for _, field := range b.groups[name] {
			if _, ok := index[field]; !ok {
				errs = append(errs, fmt.Errorf("%w: group %q references %q", ErrUnknownField, name, field))
				continue
			}
			if !slices.Contains(members, field) {
				members = append(members, field)
			}
		}
		slices.SortFunc(members, func(x, y string) int { return index[x] - index[y] })
		groups[name] = members
	}

	if len(errs) > 0 {
		return fmt.Errorf("schema %q: %w", b.name, errors.Join(errs...))
	}

	*dst = Schema{name: b.name, fields: fields, index: index, groups: groups}
	return nil
}

// checkRuleFits rejects rules that can never pass on the field's shape.
func checkRuleFits(f FieldDescriptor, r validator.Rule) error {
	k := r.Kind()
	switch {
	case f.Nested != nil && !f.Collection:
		if k.IsLength() || k.IsNumeric() || k == validator.KindDateFormat {
			return fmt.Errorf("%w: field %q is a record, %s does not apply", ErrRuleTypeMismatch, f.Name, r)
		}
	case f.Collection:
		if k.IsNumeric() || k == validator.KindDateFormat {
			return fmt.Errorf("%w: field %q is a collection, %s does not apply", ErrRuleTypeMismatch, f.Name, r)
		}
	}
	return nil
}
