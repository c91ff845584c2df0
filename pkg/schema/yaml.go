package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/paramguard/pkg/validator"
)

// Schema file layout:
//
//	schemas:
//	  - name: user
//	    fields:
//	      - name: username
//	        desc: user name
//	        rules: [not_null, {length_range: [3, 20]}]
//	      - name: age
//	        type: int
//	        rules: ["min=0", "max=150"]
//	      - name: phones
//	        nested: phone
//	        collection: true
//	    groups:
//	      create: [username, age]
type fileDef struct {
	Schemas []schemaDef `yaml:"schemas"`
}

type schemaDef struct {
	Name   string              `yaml:"name"`
	Fields []fieldDef          `yaml:"fields"`
	Groups map[string][]string `yaml:"groups"`
}

type fieldDef struct {
	Name       string     `yaml:"name"`
	Desc       string     `yaml:"desc"`
	Type       string     `yaml:"type"`
	Collection bool       `yaml:"collection"`
	Nested     string     `yaml:"nested"`
	Rules      []ruleSpec `yaml:"rules"`
}

// UnmarshalYAML accepts a scalar ("not_null", "min=0", "length_range=3:20")
// or a single-key mapping whose value is a scalar, a list of arguments, or a
// {min, max} / {name, expr} mapping.
func (r *ruleSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*r = parseRuleSpec(node.Value)
		return nil
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("%w: line %d: a rule mapping must have exactly one key", ErrInvalidSchema, node.Line)
		}
	default:
		return fmt.Errorf("%w: line %d: a rule must be a string or a mapping", ErrInvalidSchema, node.Line)
	}

	name := strings.TrimSpace(node.Content[0].Value)
	arg := node.Content[1]
	spec := ruleSpec{name: name}
	switch arg.Kind {
	case yaml.ScalarNode:
		spec.args = splitArgs(name, strings.TrimSpace(arg.Value))
	case yaml.SequenceNode:
		for _, item := range arg.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("%w: line %d: rule %q arguments must be scalars", ErrInvalidSchema, item.Line, name)
			}
			spec.args = append(spec.args, item.Value)
		}
	case yaml.MappingNode:
		var m map[string]string
		if err := arg.Decode(&m); err != nil {
			return fmt.Errorf("%w: line %d: rule %q: %w", ErrInvalidSchema, arg.Line, name, err)
		}
		args, err := namedArgs(m)
		if err != nil {
			return fmt.Errorf("line %d: rule %q: %w", arg.Line, name, err)
		}
		spec.args = args
	default:
		return fmt.Errorf("%w: line %d: rule %q has an unsupported argument", ErrInvalidSchema, arg.Line, name)
	}
	*r = spec
	return nil
}

func namedArgs(m map[string]string) ([]string, error) {
	if lo, ok := m["min"]; ok {
		hi, ok := m["max"]
		if !ok || len(m) != 2 {
			return nil, fmt.Errorf("%w: expected keys min and max", ErrInvalidSchema)
		}
		return []string{lo, hi}, nil
	}
	if expr, ok := m["expr"]; ok {
		if name, ok := m["name"]; ok && len(m) == 2 {
			return []string{name, expr}, nil
		}
		if len(m) == 1 {
			return []string{expr}, nil
		}
	}
	return nil, fmt.Errorf("%w: expected {min, max} or {name, expr}", ErrInvalidSchema)
}

// LoadOption configures LoadYAML.
type LoadOption func(*loadOptions)

type loadOptions struct {
	custom map[string]validator.CustomFunc
}

// WithCustomRule makes fn available to the loaded schemas under name. It
// takes precedence over RegisterRule and the built-in rules.
func WithCustomRule(name string, fn validator.CustomFunc) LoadOption {
	return func(o *loadOptions) {
		if name != "" && fn != nil {
			o.custom[name] = fn
		}
	}
}

// LoadYAML builds every schema in data. Nested references resolve by schema
// name in any order, including self references. All problems are joined into
// one error and no schema is returned in that case.
func LoadYAML(data []byte, opts ...LoadOption) (map[string]*Schema, error) {
	o := &loadOptions{custom: make(map[string]validator.CustomFunc)}
	for _, opt := range opts {
		opt(o)
	}

	var def fileDef
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: document is empty", ErrInvalidSchema)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	if len(def.Schemas) == 0 {
		return nil, fmt.Errorf("%w: no schemas declared", ErrInvalidSchema)
	}

	var errs []error
	shells := make(map[string]*Schema, len(def.Schemas))
	for i, sd := range def.Schemas {
		switch _, dup := shells[sd.Name]; {
		case sd.Name == "":
			errs = append(errs, fmt.Errorf("%w: schema #%d has no name", ErrInvalidSchema, i))
		case dup:
			errs = append(errs, fmt.Errorf("%w: schema %q declared twice", ErrInvalidSchema, sd.Name))
		default:
			shells[sd.Name] = &Schema{}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	lookup := func(name string) (validator.CustomFunc, bool) {
		fn, ok := o.custom[name]
		return fn, ok
	}
	for _, sd := range def.Schemas {
		if err := sd.build(shells, lookup); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return shells, nil
}

// LoadYAMLFile reads path and passes it to LoadYAML.
func LoadYAMLFile(path string, opts ...LoadOption) (map[string]*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return LoadYAML(data, opts...)
}

func (sd schemaDef) build(shells map[string]*Schema, custom customLookup) error {
	var errs []error
	b := New(sd.Name)
	for _, fd := range sd.Fields {
		desc := fd.Desc
		if desc == "" {
			desc = fd.Name
		}
		typ, err := validator.ParseValueType(fd.Type)
		if err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", fd.Name, err))
			continue
		}
		rs, err := buildRuleSet(desc, typ, false, fd.Rules, custom)
		if err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", fd.Name, err))
			continue
		}

		switch {
		case fd.Nested != "":
			child, ok := shells[fd.Nested]
			if !ok {
				errs = append(errs, fmt.Errorf("%w: field %q references %q", ErrUnknownSchema, fd.Name, fd.Nested))
				continue
			}
			if fd.Collection {
				b.NestedList(fd.Name, desc, child, rs)
			} else {
				b.Nested(fd.Name, desc, child, rs)
			}
		case fd.Collection:
			b.Collection(fd.Name, rs)
		default:
			b.Field(fd.Name, rs)
		}
	}

	groups := make([]string, 0, len(sd.Groups))
	for name := range sd.Groups {
		groups = append(groups, name)
	}
	sort.Strings(groups)
	for _, name := range groups {
		b.Group(name, sd.Groups[name]...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("schema %q: %w", sd.Name, errors.Join(errs...))
	}
	return b.buildInto(shells[sd.Name])
}
