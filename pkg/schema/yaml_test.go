package schema_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/paramguard/pkg/schema"
	"github.com/dmitrymomot/paramguard/pkg/validator"
)

const userYAML = `
schemas:
  - name: user
    fields:
      - name: username
        desc: user name
        rules: [not_null, {length_range: [3, 20]}]
      - name: age
        type: int
        rules: ["min=0", "max=150"]
    groups:
      create: [username]
      update: [age]
`

const personYAML = `
schemas:
  - name: person
    fields:
      - name: name
        rules: [not_null]
      - name: address
        nested: address
      - name: phones
        nested: phone
        collection: true
        rules: [{length_range: {min: 0, max: 3}}]
      - name: manager
        nested: person
  - name: address
    fields:
      - name: zipcode
        desc: zip code
        rules: [not_null, {pattern: {name: zip, expr: "[0-9]{6}"}}]
  - name: phone
    fields:
      - name: number
        rules: [not_null, "length_range=7:15"]
`

func TestLoadYAML(t *testing.T) {
	schemas, err := schema.LoadYAML([]byte(userYAML))
	require.NoError(t, err)
	require.Contains(t, schemas, "user")

	user := schemas["user"]
	assert.Equal(t, []string{"create", "update"}, user.Groups())

	age, ok := user.Field("age")
	require.True(t, ok)
	assert.Equal(t, validator.TypeInt, age.Rules.Type())
	assert.True(t, age.Optional)

	errs := errorsOf(t, user.Validate(validator.Values{
		"username": validator.String("ab"),
		"age":      validator.Number(200),
	}))
	assert.Equal(t, []string{"username", "age"}, errs.Fields())
	assert.Equal(t, "user name", errs[0].Desc)

	errs = errorsOf(t, user.ValidateGroup(validator.Values{"age": validator.String("1.5")}, schema.GroupUpdate))
	require.Len(t, errs, 1)
	assert.Equal(t, validator.KindNumberFormat, errs[0].Kind)
}

func TestLoadYAML_References(t *testing.T) {
	schemas, err := schema.LoadYAML([]byte(personYAML))
	require.NoError(t, err)
	person := schemas["person"]

	manager, ok := person.Field("manager")
	require.True(t, ok)
	assert.Same(t, person, manager.Nested)

	errs := errorsOf(t, person.Validate(validator.Values{
		"name":    validator.String("ann"),
		"address": validator.Object(validator.Values{"zipcode": validator.String("12ab56")}),
		"phones": validator.List(
			validator.Object(validator.Values{"number": validator.String("123")}),
		),
		"manager": validator.Object(validator.Values{
			"address": validator.Object(validator.Values{"zipcode": validator.String("")}),
		}),
	}))
	assert.Equal(t,
		[]string{"address.zipcode", "phones[0].number", "manager.name", "manager.address.zipcode"},
		errs.Fields())
	assert.Equal(t, "must match the zip pattern", errs[0].Message)
	assert.Equal(t, validator.KindNotNull, errs[3].Kind)
}

func TestLoadYAML_RuleForms(t *testing.T) {
	const doc = `
schemas:
  - name: invoice
    fields:
      - name: amount
        type: decimal
        rules: [not_null, positive, "decimal_scale=2", {number_range: [1, 10000]}]
      - name: batch
        type: int
        rules: [odd, {multiple_of: 3}]
      - name: currency
        rules: [{one_of: [USD, EUR]}]
      - name: issued
        rules: ["date_format=year_month_day"]
      - name: code
        rules: [{custom: slug}, {exist_length: 4}]
`
	slug := func(v validator.Value) error {
		if strings.ToLower(v.Raw()) != v.Raw() {
			return errors.New("must be lower case")
		}
		return nil
	}

	schemas, err := schema.LoadYAML([]byte(doc), schema.WithCustomRule("slug", slug))
	require.NoError(t, err)
	invoice := schemas["invoice"]

	valid := validator.Values{
		"amount":   validator.String("99.95"),
		"batch":    validator.Number(9),
		"currency": validator.String("EUR"),
		"issued":   validator.String("2025-03-01"),
		"code":     validator.String("ab12"),
	}
	require.NoError(t, invoice.Validate(valid))

	tests := []struct {
		name  string
		field string
		value validator.Value
		kind  validator.RuleKind
	}{
		{"decimal scale", "amount", validator.String("1.999"), validator.KindDecimalScale},
		{"range upper bound", "amount", validator.String("10000.01"), validator.KindNumberMax},
		{"odd", "batch", validator.Number(6), validator.KindOddNumber},
		{"multiple of", "batch", validator.Number(7), validator.KindMultipleOf},
		{"one of", "currency", validator.String("usd"), validator.KindCustom},
		{"date", "issued", validator.String("2025-13-01"), validator.KindDateFormat},
		{"custom", "code", validator.String("AB12"), validator.KindCustom},
		{"exist length", "code", validator.String("abc"), validator.KindExistLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validator.Values{}
			for k, v := range valid {
				rec[k] = v
			}
			rec[tt.field] = tt.value

			errs := errorsOf(t, invoice.Validate(rec))
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.kind, errs[0].Kind)
		})
	}

	t.Run("exist rules skip empty values", func(t *testing.T) {
		rec := validator.Values{}
		for k, v := range valid {
			rec[k] = v
		}
		rec["code"] = validator.String("")
		assert.NoError(t, invoice.Validate(rec))
	})
}

func TestLoadYAML_RegisteredRule(t *testing.T) {
	schema.RegisterRule("yaml_test_even_length", func(v validator.Value) error {
		if v.Len()%2 != 0 {
			return errors.New("must have an even length")
		}
		return nil
	})

	schemas, err := schema.LoadYAML([]byte(`
schemas:
  - name: token
    fields:
      - name: value
        rules: [yaml_test_even_length]
`))
	require.NoError(t, err)

	errs := errorsOf(t, schemas["token"].Validate(validator.Values{"value": validator.String("abc")}))
	assert.Equal(t, "must have an even length", errs[0].Message)
}

func TestLoadYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"empty document", "", schema.ErrInvalidSchema},
		{"no schemas", "schemas: []", schema.ErrInvalidSchema},
		{"unknown key", "schemas:\n  - name: a\n    feilds: []\n", schema.ErrInvalidSchema},
		{"missing schema name", "schemas:\n  - fields: []\n", schema.ErrInvalidSchema},
		{"duplicate schema", "schemas:\n  - name: a\n  - name: a\n", schema.ErrInvalidSchema},
		{"unknown nested schema", "schemas:\n  - name: a\n    fields:\n      - name: b\n        nested: missing\n", schema.ErrUnknownSchema},
		{"unknown rule", "schemas:\n  - name: a\n    fields:\n      - name: b\n        rules: [frobnicate]\n", validator.ErrInvalidRule},
		{"unknown custom rule", "schemas:\n  - name: a\n    fields:\n      - name: b\n        rules: [{custom: nope}]\n", validator.ErrUnknownCustomRule},
		{"unknown value type", "schemas:\n  - name: a\n    fields:\n      - name: b\n        type: complex\n", validator.ErrInvalidRule},
		{"inverted range", "schemas:\n  - name: a\n    fields:\n      - name: b\n        rules: [\"length_range=9:1\"]\n", validator.ErrLengthRange},
		{"date format without a name", "schemas:\n  - name: a\n    fields:\n      - name: b\n        rules: [date_format]\n", validator.ErrDateTimeFormatNotSet},
		{"rule mapping with two keys", "schemas:\n  - name: a\n    fields:\n      - name: b\n        rules: [{min: 1, max: 2}]\n", schema.ErrInvalidSchema},
		{"unknown group member", "schemas:\n  - name: a\n    fields:\n      - name: b\n    groups:\n      create: [c]\n", schema.ErrUnknownField},
		{"numeric rule on a nested field", "schemas:\n  - name: a\n    fields:\n      - name: self\n        nested: a\n        rules: [\"min=1\"]\n", schema.ErrRuleTypeMismatch},
		{"bad pattern", "schemas:\n  - name: a\n    fields:\n      - name: b\n        rules: [\"pattern=[a-\"]\n", validator.ErrInvalidRule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schemas, err := schema.LoadYAML([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, schemas)
		})
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(userYAML), 0o600))

	schemas, err := schema.LoadYAMLFile(path)
	require.NoError(t, err)
	assert.Contains(t, schemas, "user")

	_, err = schema.LoadYAMLFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

type User struct {
	Username string `json:"username" validate:"not_null,min=3,max=20" desc:"user name" groups:"create"`
	Age      *int   `json:"age" validate:"min=0,max=150" groups:"update"`
}

// The builder, struct tags and schema files describe the same schema and
// must report identical failures.
func TestFrontEnds_Equivalent(t *testing.T) {
	loaded, err := schema.LoadYAML([]byte(userYAML))
	require.NoError(t, err)

	fromYAML := loaded["user"]
	fromBuilder := userSchema(t)
	fromTags := schema.MustCompile[User]()

	cases := []struct {
		name     string
		username string
		age      int
	}{
		{"both invalid", "ab", 200},
		{"negative age", "alice", -1},
		{"username too long", strings.Repeat("x", 21), 20},
		{"valid", "alice", 150},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := validator.Values{
				"username": validator.String(tc.username),
				"age":      validator.Number(tc.age),
			}
			byBuilder := validator.ExtractValidationErrors(fromBuilder.Validate(rec))
			byYAML := validator.ExtractValidationErrors(fromYAML.Validate(rec))
			byTags := validator.ExtractValidationErrors(fromTags.Validate(User{Username: tc.username, Age: &tc.age}))

			assert.Equal(t, byBuilder, byYAML)
			assert.Equal(t, byBuilder, byTags)
		})
	}
}

func TestLoadYAML_OneSidedLength(t *testing.T) {
	schemas, err := schema.LoadYAML([]byte(`
schemas:
  - name: profile
    fields:
      - name: nickname
        rules: [not_null, "min_length=2"]
      - name: tags
        collection: true
        rules: [{max_length: 2}]
`))
	require.NoError(t, err)

	errs := errorsOf(t, schemas["profile"].Validate(validator.Values{
		"nickname": validator.String("a"),
		"tags":     validator.Strings("a", "b", "c"),
	}))
	require.Equal(t, []string{"nickname", "tags"}, errs.Fields())
	assert.Equal(t, "length must be at least 2", errs[0].Message)
	assert.Equal(t, "length must be at most 2", errs[1].Message)
}
