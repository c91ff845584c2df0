package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/paramguard/pkg/validator"
)

func TestValidationErrors_Error(t *testing.T) {
	t.Run("returns default message when no errors", func(t *testing.T) {
		var errs validator.ValidationErrors
		assert.Equal(t, "validation failed", errs.Error())
	})

	t.Run("returns formatted message with single error", func(t *testing.T) {
		var errs validator.ValidationErrors
		errs.Add(validator.ValidationError{
			Field:   "email",
			Message: "must not be empty",
		})
		assert.Equal(t, "validation failed: email: must not be empty", errs.Error())
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		var errs validator.ValidationErrors
		errs.Add(validator.ValidationError{Field: "username", Message: "too short"})
		errs.Add(validator.ValidationError{Field: "age", Message: "too big"})

		assert.Equal(t, "validation failed: username: too short; age: too big", errs.Error())
	})
}

func TestValidationErrors_Accessors(t *testing.T) {
	var errs validator.ValidationErrors
	errs.Add(validator.ValidationError{Field: "email", Kind: validator.KindNotNull, Message: "must not be empty"})
	errs.Add(validator.ValidationError{Field: "age", Kind: validator.KindMax, Message: "must be at most 150"})
	errs.Add(validator.ValidationError{Field: "email", Kind: validator.KindCustom, Message: "must be a valid email address"})

	t.Run("has", func(t *testing.T) {
		assert.True(t, errs.Has("email"))
		assert.False(t, errs.Has("password"))
	})

	t.Run("get returns messages in order", func(t *testing.T) {
		assert.Equal(t, []string{"must not be empty", "must be a valid email address"}, errs.Get("email"))
		assert.Empty(t, errs.Get("nonexistent"))
	})

	t.Run("get errors", func(t *testing.T) {
		result := errs.GetErrors("age")
		require.Len(t, result, 1)
		assert.Equal(t, validator.KindMax, result[0].Kind)
		assert.Empty(t, errs.GetErrors("nonexistent"))
	})

	t.Run("fields are unique and ordered", func(t *testing.T) {
		assert.Equal(t, []string{"email", "age"}, errs.Fields())
	})

	t.Run("by kind", func(t *testing.T) {
		byKind := errs.ByKind(validator.KindNotNull)
		require.Len(t, byKind, 1)
		assert.Equal(t, "email", byKind[0].Field)
		assert.Empty(t, errs.ByKind(validator.KindLength))
	})

	t.Run("is empty", func(t *testing.T) {
		var empty validator.ValidationErrors
		assert.True(t, empty.IsEmpty())
		assert.False(t, errs.IsEmpty())
	})
}

func TestValidationErrors_Prefix(t *testing.T) {
	errs := validator.ValidationErrors{
		{Field: "zipcode", Message: "x"},
		{Field: "[2]", Message: "y"},
	}

	prefixed := errs.Prefix("address")
	assert.Equal(t, []string{"address.zipcode", "address[2]"}, prefixed.Fields())
	assert.Equal(t, "zipcode", errs[0].Field, "receiver must not change")

	assert.Equal(t, errs, errs.Prefix(""))
}

func TestJoinField(t *testing.T) {
	assert.Equal(t, "address.zipcode", validator.JoinField("address", "zipcode"))
	assert.Equal(t, "phones[1].number", validator.JoinField(validator.IndexField("phones", 1), "number"))
	assert.Equal(t, "tags[0]", validator.JoinField("tags", "[0]"))
	assert.Equal(t, "name", validator.JoinField("", "name"))
	assert.Equal(t, "parent", validator.JoinField("parent", ""))
}

func TestValidationErrors_Merge(t *testing.T) {
	var errs validator.ValidationErrors
	errs.Add(validator.ValidationError{Field: "a"})
	errs.Merge(validator.ValidationErrors{{Field: "b"}, {Field: "c"}})

	assert.Equal(t, []string{"a", "b", "c"}, errs.Fields())
}

func TestExtractValidationErrors(t *testing.T) {
	t.Run("extracts ValidationErrors from error", func(t *testing.T) {
		var originalErrs validator.ValidationErrors
		originalErrs.Add(validator.ValidationError{
			Field:   "email",
			Message: "must not be empty",
		})

		extractedErrs := validator.ExtractValidationErrors(originalErrs)
		require.NotNil(t, extractedErrs)
		assert.True(t, extractedErrs.Has("email"))
	})

	t.Run("extracts wrapped ValidationErrors", func(t *testing.T) {
		errs := validator.ValidationErrors{{Field: "email"}}
		wrapped := fmt.Errorf("create user: %w", errs)

		assert.Equal(t, errs, validator.ExtractValidationErrors(wrapped))
	})

	t.Run("wraps a single ValidationError", func(t *testing.T) {
		err := validator.ValidateValue("name", validator.Absent(), validator.NewRuleSet("name").NotNull())

		extracted := validator.ExtractValidationErrors(err)
		require.Len(t, extracted, 1)
		assert.Equal(t, "name", extracted[0].Field)
	})

	t.Run("returns nil for non-ValidationErrors", func(t *testing.T) {
		err := errors.New("regular error")

		extractedErrs := validator.ExtractValidationErrors(err)
		assert.Nil(t, extractedErrs)
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		extractedErrs := validator.ExtractValidationErrors(nil)
		assert.Nil(t, extractedErrs)
	})
}

func TestIsValidationError(t *testing.T) {
	t.Run("returns true for ValidationErrors", func(t *testing.T) {
		var errs validator.ValidationErrors
		errs.Add(validator.ValidationError{
			Field:   "email",
			Message: "must not be empty",
		})

		assert.True(t, validator.IsValidationError(errs))
	})

	t.Run("returns false for configuration errors", func(t *testing.T) {
		assert.False(t, validator.IsValidationError(validator.ErrLengthRange))
	})

	t.Run("returns false for regular error", func(t *testing.T) {
		err := errors.New("regular error")

		assert.False(t, validator.IsValidationError(err))
	})

	t.Run("returns false for nil error", func(t *testing.T) {
		assert.False(t, validator.IsValidationError(nil))
	})
}
