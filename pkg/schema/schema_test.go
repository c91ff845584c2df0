package schema_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/paramguard/pkg/schema"
	"github.com/dmitrymomot/paramguard/pkg/validator"
)

func userSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New("user").
		Field("username", validator.NewRuleSet("user name").NotNull().LengthRange(3, 20)).
		Field("age", validator.NewRuleSet("age").Min(0).Max(150)).
		Group(schema.GroupCreate, "username").
		Group(schema.GroupUpdate, "age").
		Build()
	require.NoError(t, err)
	return s
}

func errorsOf(t *testing.T, err error) validator.ValidationErrors {
	t.Helper()
	require.Error(t, err)
	errs := validator.ExtractValidationErrors(err)
	require.NotNil(t, errs, "expected validation errors, got %v", err)
	return errs
}

func TestSchema_Validate(t *testing.T) {
	s := userSchema(t)

	t.Run("reports each failing field in declaration order", func(t *testing.T) {
		errs := errorsOf(t, s.Validate(validator.Values{
			"age":      validator.Number(200),
			"username": validator.String("ab"),
		}))

		require.Len(t, errs, 2)
		assert.Equal(t, "username", errs[0].Field)
		assert.Equal(t, validator.KindLengthRange, errs[0].Kind)
		assert.Equal(t, "age", errs[1].Field)
		assert.Equal(t, validator.KindMax, errs[1].Kind)
	})

	t.Run("valid record", func(t *testing.T) {
		assert.NoError(t, s.Validate(validator.Values{
			"username": validator.String("alice"),
			"age":      validator.Number(30),
		}))
	})

	t.Run("optional field may be absent", func(t *testing.T) {
		assert.NoError(t, s.Validate(validator.Values{"username": validator.String("alice")}))
	})

	t.Run("required field missing", func(t *testing.T) {
		errs := errorsOf(t, s.Validate(validator.Values{}))
		require.Len(t, errs, 1)
		assert.Equal(t, validator.KindNotNull, errs[0].Kind)
		assert.Equal(t, "user name", errs[0].Desc)
	})

	t.Run("nil record", func(t *testing.T) {
		errs := errorsOf(t, s.Validate(nil))
		assert.Equal(t, []string{"username"}, errs.Fields())
	})
}

func TestSchema_ValidateGroup(t *testing.T) {
	s := userSchema(t)
	bad := validator.Values{
		"username": validator.String("ab"),
		"age":      validator.Number(-1),
	}

	t.Run("only group fields are checked", func(t *testing.T) {
		errs := errorsOf(t, s.ValidateGroup(bad, schema.GroupCreate))
		assert.Equal(t, []string{"username"}, errs.Fields())

		errs = errorsOf(t, s.ValidateGroup(bad, schema.GroupUpdate))
		assert.Equal(t, []string{"age"}, errs.Fields())
	})

	t.Run("unknown group is a configuration error", func(t *testing.T) {
		err := s.ValidateGroup(bad, "delete")
		require.ErrorIs(t, err, schema.ErrUnknownGroup)
		assert.False(t, validator.IsValidationError(err))
	})

	t.Run("group members follow declaration order", func(t *testing.T) {
		s := schema.New("x").
			Field("a", validator.NewRuleSet("a").NotNull()).
			Field("b", validator.NewRuleSet("b").NotNull()).
			Group("both", "b", "a", "b").
			MustBuild()

		members, err := s.GroupFields("both")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, members)

		errs := errorsOf(t, s.ValidateGroup(validator.Values{}, "both"))
		assert.Equal(t, []string{"a", "b"}, errs.Fields())
	})

	t.Run("bind", func(t *testing.T) {
		v := schema.Bind(s, bad)
		assert.Error(t, v.Validate())
		assert.Error(t, v.ValidateGroup(schema.GroupCreate))
		assert.ErrorIs(t, v.ValidateGroup("nope"), schema.ErrUnknownGroup)
	})
}

func TestSchema_Nested(t *testing.T) {
	address := schema.New("address").
		Field("zipcode", validator.NewRuleSet("zip code").NotNull().Length(6)).
		MustBuild()
	phone := schema.New("phone").
		Field("number", validator.NewRuleSet("phone number").NotNull().LengthRange(7, 15)).
		MustBuild()
	person := schema.New("person").
		Field("name", validator.NewRuleSet("name").NotNull()).
		Nested("address", "address", address).
		NestedList("phones", "phones", phone, validator.NewRuleSet("phones").LengthRange(0, 3)).
		Group(schema.GroupCreate, "address").
		MustBuild()

	t.Run("nested failures are qualified by the parent field", func(t *testing.T) {
		errs := errorsOf(t, person.Validate(validator.Values{
			"name":    validator.String("bob"),
			"address": validator.Object(validator.Values{"zipcode": validator.String("123")}),
			"phones": validator.List(
				validator.Object(validator.Values{"number": validator.String("5551234")}),
				validator.Object(validator.Values{"number": validator.String("1")}),
			),
		}))

		assert.Equal(t, []string{"address.zipcode", "phones[1].number"}, errs.Fields())
		assert.Equal(t, validator.KindLength, errs[0].Kind)
		assert.Equal(t, "zip code", errs[0].Desc)
	})

	t.Run("absent nested record is skipped when optional", func(t *testing.T) {
		assert.NoError(t, person.Validate(validator.Values{"name": validator.String("bob")}))
	})

	t.Run("field rules run before descent", func(t *testing.T) {
		many := make([]validator.Value, 4)
		for i := range many {
			many[i] = validator.Object(validator.Values{})
		}
		errs := errorsOf(t, person.Validate(validator.Values{
			"name":   validator.String("bob"),
			"phones": validator.List(many...),
		}))
		assert.Equal(t, []string{"phones"}, errs.Fields())
		assert.Equal(t, validator.KindLengthRange, errs[0].Kind)
	})

	t.Run("scalar where a record is expected", func(t *testing.T) {
		errs := errorsOf(t, person.Validate(validator.Values{
			"name":    validator.String("bob"),
			"address": validator.String("main street"),
			"phones":  validator.List(validator.String("x")),
		}))
		assert.Equal(t, []string{"address", "phones[0]"}, errs.Fields())
		assert.Equal(t, validator.KindUnsupportedType, errs[0].Kind)
	})

	t.Run("scalar given for a nested list is one element", func(t *testing.T) {
		errs := errorsOf(t, person.Validate(validator.Values{
			"name":   validator.String("bob"),
			"phones": validator.String("5551234"),
		}))
		assert.Equal(t, []string{"phones[0]"}, errs.Fields())
		assert.Equal(t, validator.KindUnsupportedType, errs[0].Kind)
	})

	t.Run("group validation validates nested records in full", func(t *testing.T) {
		errs := errorsOf(t, person.ValidateGroup(validator.Values{
			"address": validator.Object(validator.Values{}),
		}, schema.GroupCreate))
		assert.Equal(t, []string{"address.zipcode"}, errs.Fields())
	})
}

type selfChecked struct{ err error }

func (s selfChecked) Lookup(string) validator.Value { return validator.Absent() }
func (s selfChecked) Validate() error               { return s.err }
func (s selfChecked) ValidateGroup(string) error    { return s.err }

func TestSchema_NestedDelegation(t *testing.T) {
	child := schema.New("child").Field("x", validator.NewRuleSet("x").NotNull()).MustBuild()
	parent := schema.New("parent").Nested("child", "child", child).MustBuild()

	t.Run("validatable records are delegated to", func(t *testing.T) {
		assert.NoError(t, parent.Validate(validator.Values{"child": validator.Object(selfChecked{})}))

		rec := selfChecked{err: validator.ValidationErrors{{Field: "inner", Message: "bad"}}}
		errs := errorsOf(t, parent.Validate(validator.Values{"child": validator.Object(rec)}))
		assert.Equal(t, []string{"child.inner"}, errs.Fields())
	})

	t.Run("configuration errors pass through", func(t *testing.T) {
		boom := errors.New("boom")
		err := parent.Validate(validator.Values{"child": validator.Object(selfChecked{err: boom})})
		require.ErrorIs(t, err, boom)
		assert.False(t, validator.IsValidationError(err))
	})
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("all problems are joined", func(t *testing.T) {
		_, err := schema.New("broken").
			Field("a", validator.NewRuleSet("a")).
			Field("a", validator.NewRuleSet("a")).
			Field("", validator.NewRuleSet("")).
			Group("create", "missing").
			Build()

		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrDuplicateField)
		assert.ErrorIs(t, err, schema.ErrInvalidSchema)
		assert.ErrorIs(t, err, schema.ErrUnknownField)
	})

	t.Run("rule type mismatch on nested fields", func(t *testing.T) {
		child := schema.New("child").MustBuild()

		_, err := schema.New("p").Nested("c", "c", child, validator.NewRuleSet("c").Min(1)).Build()
		assert.ErrorIs(t, err, schema.ErrRuleTypeMismatch)

		_, err = schema.New("p").Nested("c", "c", child, validator.NewRuleSet("c").Length(1)).Build()
		assert.ErrorIs(t, err, schema.ErrRuleTypeMismatch)

		_, err = schema.New("p").Collection("tags", validator.NewRuleSet("tags").DateFormat(validator.Year)).Build()
		assert.ErrorIs(t, err, schema.ErrRuleTypeMismatch)

		_, err = schema.New("p").NestedList("c", "c", child, validator.NewRuleSet("c").NotNull().LengthRange(1, 2)).Build()
		assert.NoError(t, err)
	})

	t.Run("nil nested schema", func(t *testing.T) {
		_, err := schema.New("p").Nested("c", "c", nil).Build()
		assert.ErrorIs(t, err, schema.ErrInvalidSchema)
	})

	t.Run("empty schema name", func(t *testing.T) {
		_, err := schema.New("").Build()
		assert.ErrorIs(t, err, schema.ErrInvalidSchema)
	})

	t.Run("must build panics", func(t *testing.T) {
		assert.Panics(t, func() { schema.New("").MustBuild() })
	})
}

func TestSchema_Describe(t *testing.T) {
	s := userSchema(t)

	assert.Equal(t, "user", s.Name())
	assert.Equal(t, []string{schema.GroupCreate, schema.GroupUpdate}, s.Groups())
	assert.True(t, s.HasGroup(schema.GroupCreate))
	assert.False(t, s.HasGroup(schema.GroupQuery))

	f, ok := s.Field("age")
	require.True(t, ok)
	assert.True(t, f.Optional)
	assert.Equal(t, "age", f.Desc)

	f, ok = s.Field("username")
	require.True(t, ok)
	assert.False(t, f.Optional)

	_, ok = s.Field("missing")
	assert.False(t, ok)

	_, err := s.GroupFields("missing")
	assert.ErrorIs(t, err, schema.ErrUnknownGroup)

	fields := s.Fields()
	fields[0].Name = "changed"
	assert.Equal(t, "username", s.Fields()[0].Name)
}
