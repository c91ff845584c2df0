package validator

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is the first failure recorded for one field.
type ValidationError struct {
	Field             string
	Desc              string
	Kind              RuleKind
	Message           string
	TranslationKey    string
	TranslationValues map[string]any
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is the ordered outcome of validating a record: at most one
// entry per field, in field declaration order.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, err.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (ve *ValidationErrors) Add(err ValidationError) {
	*ve = append(*ve, err)
}

// Merge appends every error of other, keeping order.
func (ve *ValidationErrors) Merge(other ValidationErrors) {
	*ve = append(*ve, other...)
}

func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

func (ve ValidationErrors) Get(field string) []string {
	var messages []string
	for _, err := range ve {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

func (ve ValidationErrors) GetErrors(field string) []ValidationError {
	var out []ValidationError
	for _, err := range ve {
		if err.Field == field {
			out = append(out, err)
		}
	}
	return out
}

// ByKind returns the errors produced by rules of kind k.
func (ve ValidationErrors) ByKind(k RuleKind) ValidationErrors {
	var out ValidationErrors
	for _, err := range ve {
		if err.Kind == k {
			out = append(out, err)
		}
	}
	return out
}

func (ve ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Field] {
			fields = append(fields, err.Field)
			seen[err.Field] = true
		}
	}
	return fields
}

func (ve ValidationErrors) IsEmpty() bool {
	return len(ve) == 0
}

// Prefix returns a copy with every field name qualified by parent, producing
// "address.zipcode" or "phones[1].number". Names that already start with an
// index ("[0]") are joined without a dot.
func (ve ValidationErrors) Prefix(parent string) ValidationErrors {
	if parent == "" || len(ve) == 0 {
		return ve
	}
	out := make(ValidationErrors, len(ve))
	for i, err := range ve {
		err.Field = JoinField(parent, err.Field)
		out[i] = err
	}
	return out
}

// JoinField qualifies child with parent using the dotted/indexed notation.
func JoinField(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	case strings.HasPrefix(child, "["):
		return parent + child
	}
	return parent + "." + child
}

// IndexField returns "name[i]".
func IndexField(name string, i int) string {
	return fmt.Sprintf("%s[%d]", name, i)
}

// ExtractValidationErrors extracts ValidationErrors from an error. A single
// ValidationError is returned as a one-element list.
func ExtractValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var validationErrs ValidationErrors
	if errors.As(err, &validationErrs) {
		return validationErrs
	}

	var single ValidationError
	if errors.As(err, &single) {
		return ValidationErrors{single}
	}

	return nil
}

func IsValidationError(err error) bool {
	return ExtractValidationErrors(err) != nil
}
