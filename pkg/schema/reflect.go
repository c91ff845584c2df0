package schema

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrymomot/paramguard/pkg/validator"
)

// typeInfo is the compiled form of one struct type.
type typeInfo struct {
	schema *Schema
	index  map[string][]int
}

var (
	compileMu sync.Mutex
	compiled  sync.Map // reflect.Type -> *typeInfo

	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// Typed validates values of one struct type against the schema compiled from
// its tags.
//
//	type SignUp struct {
//	    Username string   `json:"username" validate:"not_null,min=3,max=20" desc:"user name" groups:"create"`
//	    Age      *int     `json:"age" validate:"min=0,max=150" groups:"create,update"`
//	    Birthday string   `json:"birthday" validate:"date_format=YearMonthDay"`
//	    Address  *Address `json:"address" validate:"nested"`
//	    Phones   []Phone  `json:"phones" validate:"max=3,nested"`
//	}
//
//	signUp := schema.MustCompile[SignUp]()
//	err := signUp.ValidateGroup(req, schema.GroupCreate)
type Typed[T any] struct {
	info *typeInfo
}

// Compile builds the schema for struct type T (or a pointer to one). The
// result is cached per type, so calling it repeatedly is cheap.
func Compile[T any]() (*Typed[T], error) {
	info, err := compileType(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return &Typed[T]{info: info}, nil
}

func MustCompile[T any]() *Typed[T] {
	t, err := Compile[T]()
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Typed[T]) Schema() *Schema { return t.info.schema }

func (t *Typed[T]) Validate(v T) error {
	return t.info.schema.Validate(t.Record(v))
}

func (t *Typed[T]) ValidateGroup(v T, group string) error {
	return t.info.schema.ValidateGroup(t.Record(v), group)
}

func (t *Typed[T]) Bind(v T) Validatable {
	return Bind(t.info.schema, t.Record(v))
}

// Record exposes v to the engine. A nil pointer is a record with every field
// absent.
func (t *Typed[T]) Record(v T) validator.Record {
	rv := reflect.ValueOf(&v).Elem()
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return structRecord{info: t.info}
		}
		rv = rv.Elem()
	}
	return structRecord{v: rv, info: t.info}
}

func compileType(t reflect.Type) (*typeInfo, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrUnsupportedType, t)
	}
	if info, ok := compiled.Load(t); ok {
		return info.(*typeInfo), nil
	}

	compileMu.Lock()
	defer compileMu.Unlock()
	if info, ok := compiled.Load(t); ok {
		return info.(*typeInfo), nil
	}

	c := &structCompiler{pending: make(map[reflect.Type]*typeInfo)}
	info, err := c.compile(t)
	if err != nil {
		return nil, err
	}
	// Publish the whole batch only once every type in it has built.
	for typ, ti := range c.pending {
		compiled.Store(typ, ti)
	}
	return info, nil
}

// structCompiler compiles a struct type and the nested types it reaches.
// pending holds types whose compilation has started, which is what lets a
// type refer to itself.
type structCompiler struct {
	pending map[reflect.Type]*typeInfo
}

func (c *structCompiler) compile(t reflect.Type) (*typeInfo, error) {
	if info, ok := compiled.Load(t); ok {
		return info.(*typeInfo), nil
	}
	if info, ok := c.pending[t]; ok {
		return info, nil
	}

	info := &typeInfo{schema: &Schema{}, index: make(map[string][]int)}
	c.pending[t] = info

	b := New(schemaName(t))
	var (
		errs       []error
		groupOrder []string
		groups     = make(map[string][]string)
	)
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || isEmbeddedStruct(sf) {
			continue
		}
		tag := sf.Tag.Get("validate")
		name := fieldName(sf)
		if tag == "-" || name == "-" {
			continue
		}
		if err := c.field(b, sf, name, tag); err != nil {
			errs = append(errs, fmt.Errorf("field %s: %w", sf.Name, err))
			continue
		}
		info.index[name] = sf.Index
		for _, g := range splitList(sf.Tag.Get("groups")) {
			if _, ok := groups[g]; !ok {
				groupOrder = append(groupOrder, g)
			}
			groups[g] = append(groups[g], name)
		}
	}
	for _, g := range groupOrder {
		b.Group(g, groups[g]...)
	}

	if len(errs) == 0 {
		if err := b.buildInto(info.schema); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("compile %s: %w", t, errors.Join(errs...))
	}
	return info, nil
}

type fieldShape uint8

const (
	shapeInvalid fieldShape = iota
	shapeScalar
	shapeList
	shapeRecord
)

func (c *structCompiler) field(b *Builder, sf reflect.StructField, name, tag string) error {
	desc := sf.Tag.Get("desc")
	if desc == "" {
		desc = name
	}
	specs, nested := parseTag(tag)

	ft := deref(sf.Type)
	shape, typ := classify(ft)
	lengthLike := shape == shapeList || (shape == shapeScalar && ft.Kind() == reflect.String)

	rs, err := buildRuleSet(desc, typ, lengthLike, specs, nil)
	if err != nil {
		return err
	}

	switch shape {
	case shapeInvalid:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, sf.Type)

	case shapeScalar:
		if nested {
			return fmt.Errorf("%w: nested on %s", ErrRuleTypeMismatch, sf.Type)
		}
		if ft.Kind() == reflect.Bool && hasValueRules(rs) {
			return fmt.Errorf("%w: length, date or numeric rule on a bool", ErrRuleTypeMismatch)
		}
		b.Field(name, rs)

	case shapeList:
		if !nested {
			b.Collection(name, rs)
			return nil
		}
		elem := deref(ft.Elem())
		if elem.Kind() != reflect.Struct {
			return fmt.Errorf("%w: nested on %s", ErrRuleTypeMismatch, sf.Type)
		}
		child, err := c.compile(elem)
		if err != nil {
			return err
		}
		b.NestedList(name, desc, child.schema, rs)

	case shapeRecord:
		if !nested || ft.Kind() != reflect.Struct {
			if nested {
				return fmt.Errorf("%w: nested on %s", ErrRuleTypeMismatch, sf.Type)
			}
			if hasValueRules(rs) {
				return fmt.Errorf("%w: %s is a record", ErrRuleTypeMismatch, sf.Type)
			}
			b.Field(name, rs)
			return nil
		}
		child, err := c.compile(ft)
		if err != nil {
			return err
		}
		b.Nested(name, desc, child.schema, rs)
	}
	return nil
}

// hasValueRules reports rules that need a scalar: length, date or numeric.
func hasValueRules(rs validator.RuleSet) bool {
	return slices.ContainsFunc(rs.Rules(), func(r validator.Rule) bool {
		k := r.Kind()
		return k.IsLength() || k.IsNumeric() || k == validator.KindDateFormat
	})
}

func classify(t reflect.Type) (fieldShape, validator.ValueType) {
	if isText(t) {
		return shapeScalar, validator.TypeString
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool, reflect.Interface:
		return shapeScalar, validator.TypeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return shapeScalar, validator.TypeInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return shapeScalar, validator.TypeUint
	case reflect.Float32, reflect.Float64:
		return shapeScalar, validator.TypeFloat
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return shapeScalar, validator.TypeString
		}
		return shapeList, validator.TypeString
	case reflect.Struct:
		return shapeRecord, validator.TypeString
	case reflect.Map:
		if t.Key().Kind() == reflect.String {
			return shapeRecord, validator.TypeString
		}
	}
	return shapeInvalid, validator.TypeString
}

func isText(t reflect.Type) bool {
	return t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType)
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// isEmbeddedStruct reports an untagged embedded struct; its promoted fields
// are listed separately by reflect.VisibleFields.
func isEmbeddedStruct(sf reflect.StructField) bool {
	return sf.Anonymous && sf.Tag.Get("json") == "" && sf.Tag.Get("validate") == "" &&
		deref(sf.Type).Kind() == reflect.Struct && !isText(deref(sf.Type))
}

// fieldName is the first segment of the json tag, or the lowercased Go name.
func fieldName(sf reflect.StructField) string {
	if name, _, _ := strings.Cut(sf.Tag.Get("json"), ","); name != "" {
		return name
	}
	return strings.ToLower(sf.Name)
}

func schemaName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

func splitList(s string) []string {
	var out []string
	for item := range strings.SplitSeq(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// structRecord exposes a struct value as a validator.Record.
type structRecord struct {
	v    reflect.Value
	info *typeInfo
}

func (r structRecord) Lookup(name string) validator.Value {
	idx, ok := r.info.index[name]
	if !ok || !r.v.IsValid() {
		return validator.Absent()
	}
	fv, err := r.v.FieldByIndexErr(idx)
	if err != nil {
		// nil embedded pointer
		return validator.Absent()
	}
	return valueOf(fv)
}

func (r structRecord) validatable() (Validatable, bool) {
	if !r.v.IsValid() {
		return nil, false
	}
	if r.v.CanAddr() && r.v.Addr().CanInterface() {
		if v, ok := r.v.Addr().Interface().(Validatable); ok {
			return v, true
		}
	}
	if r.v.CanInterface() {
		if v, ok := r.v.Interface().(Validatable); ok {
			return v, true
		}
	}
	return nil, false
}

// opaqueRecord stands in for struct values that were not compiled because the
// field is not marked nested. Only presence rules apply to it.
type opaqueRecord struct{}

func (opaqueRecord) Lookup(string) validator.Value { return validator.Absent() }

func valueOf(rv reflect.Value) validator.Value {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return validator.Absent()
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return validator.Absent()
	}

	if v, ok := textValue(rv); ok {
		return v
	}

	switch rv.Kind() {
	case reflect.String:
		return validator.String(rv.String())
	case reflect.Bool:
		return validator.Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return validator.String(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return validator.String(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		return validator.String(strconv.FormatFloat(rv.Float(), 'g', -1, rv.Type().Bits()))
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return validator.Absent()
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			for i := range b {
				b[i] = byte(rv.Index(i).Uint())
			}
			return validator.String(string(b))
		}
		items := make([]validator.Value, rv.Len())
		for i := range items {
			items[i] = valueOf(rv.Index(i))
		}
		return validator.List(items...)
	case reflect.Map:
		if rv.IsNil() {
			return validator.Absent()
		}
		values := make(validator.Values, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			values[fmt.Sprint(iter.Key().Interface())] = valueOf(iter.Value())
		}
		return validator.Object(values)
	case reflect.Struct:
		if info, ok := compiled.Load(rv.Type()); ok {
			return validator.Object(structRecord{v: rv, info: info.(*typeInfo)})
		}
		return validator.Object(opaqueRecord{})
	}
	return validator.Absent()
}

func textValue(rv reflect.Value) (validator.Value, bool) {
	var m encoding.TextMarshaler
	switch {
	case rv.Type().Implements(textMarshalerType) && rv.CanInterface():
		m = rv.Interface().(encoding.TextMarshaler)
	case rv.CanAddr() && rv.Addr().Type().Implements(textMarshalerType) && rv.Addr().CanInterface():
		m = rv.Addr().Interface().(encoding.TextMarshaler)
	default:
		return validator.Value{}, false
	}
	b, err := m.MarshalText()
	if err != nil {
		return validator.Absent(), true
	}
	return validator.String(string(b)), true
}
