package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrymomot/paramguard/pkg/validator"
)

// MaxBodySize limits JSON and urlencoded request bodies (1 MiB).
const MaxBodySize = 1 << 20

// JSON reads a JSON object from the request body.
//
// Objects become records, arrays become lists and null becomes an absent
// value. Numbers keep their literal text, so "1.50" is checked as written and
// never goes through float64.
func JSON(r *http.Request) (validator.Values, error) {
	if err := requireMediaType(r, "application/json"); err != nil {
		return nil, err
	}
	return decodeJSONBody(r)
}

func decodeJSONBody(r *http.Request) (validator.Values, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read request body: %v", ErrFailedToParseJSON, err)
	}
	if len(body) > MaxBodySize {
		return nil, fmt.Errorf("%w: request body too large (max %d bytes)", ErrFailedToParseJSON, MaxBodySize)
	}
	return FromJSON(body)
}

// FromJSON converts a JSON object document to Values.
func FromJSON(data []byte) (validator.Values, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after JSON object", ErrFailedToParseJSON)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON object, got %s", ErrFailedToParseJSON, jsonKind(doc))
	}
	return objectValues(obj), nil
}

func objectValues(obj map[string]any) validator.Values {
	values := make(validator.Values, len(obj))
	for k, v := range obj {
		values[k] = jsonValue(v)
	}
	return values
}

func jsonValue(v any) validator.Value {
	switch v := v.(type) {
	case nil:
		return validator.Absent()
	case string:
		return validator.String(v)
	case json.Number:
		return validator.String(v.String())
	case bool:
		return validator.Bool(v)
	case []any:
		items := make([]validator.Value, len(v))
		for i, item := range v {
			items[i] = jsonValue(item)
		}
		return validator.List(items...)
	case map[string]any:
		return validator.Object(objectValues(v))
	}
	return validator.String(fmt.Sprint(v))
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "an array"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	}
	return fmt.Sprintf("%T", v)
}
