package binder

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/paramguard/pkg/validator"
)

// DefaultMaxMemory is the maximum memory used for parsing multipart forms (10MB).
const DefaultMaxMemory = 10 << 20

// Query reads the URL query string.
//
// A key given once is a scalar and a repeated key is a list. Keys written as
// "name[]" are always lists, stored under "name".
func Query(r *http.Request) (validator.Values, error) {
	q, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToParseQuery, err)
	}
	return fromMultiMap(q), nil
}

// Form reads application/x-www-form-urlencoded and multipart/form-data
// bodies. Query parameters are not included; combine with Query and Merge.
// Uploaded files are ignored.
func Form(r *http.Request) (validator.Values, error) {
	mediaType, params, err := mediaTypeOf(r)
	if err != nil {
		return nil, err
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(nil, r.Body, MaxBodySize)
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
		}
		return fromMultiMap(r.PostForm), nil

	case "multipart/form-data":
		if params["boundary"] == "" {
			return nil, fmt.Errorf("%w: missing boundary in content type", ErrFailedToParseForm)
		}
		if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
		}
		if r.MultipartForm == nil {
			return validator.Values{}, nil
		}
		return fromMultiMap(r.MultipartForm.Value), nil
	}
	return nil, fmt.Errorf("%w: got %s, expected application/x-www-form-urlencoded or multipart/form-data", ErrUnsupportedMediaType, mediaType)
}

// Path reads the named chi URL parameters. Parameters that are not set in
// the route are absent.
//
//	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
//	    values := binder.Path(r, "id")
//	    ...
//	})
func Path(r *http.Request, names ...string) validator.Values {
	values := make(validator.Values, len(names))
	for _, name := range names {
		if v := chi.URLParam(r, name); v != "" {
			values[name] = validator.String(v)
		}
	}
	return values
}

// Merge combines sources left to right; a later source wins for keys it
// defines with a present value.
func Merge(sources ...validator.Values) validator.Values {
	out := make(validator.Values)
	for _, src := range sources {
		for k, v := range src {
			if _, seen := out[k]; seen && v.IsAbsent() {
				continue
			}
			out[k] = v
		}
	}
	return out
}

// Request collects everything a handler usually validates: query parameters,
// the body (JSON or form, chosen by Content-Type) and the named path
// parameters, merged in that order. Requests without a body only contribute
// query and path values.
func Request(r *http.Request, pathParams ...string) (validator.Values, error) {
	query, err := Query(r)
	if err != nil {
		return nil, err
	}

	var body validator.Values
	if hasBody(r) {
		mediaType, _, err := mediaTypeOf(r)
		if err != nil {
			return nil, err
		}
		if mediaType == "application/json" || strings.HasSuffix(mediaType, "+json") {
			body, err = decodeJSONBody(r)
		} else {
			body, err = Form(r)
		}
		if err != nil {
			return nil, err
		}
	}

	return Merge(query, body, Path(r, pathParams...)), nil
}

func hasBody(r *http.Request) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return false
	}
	return r.ContentLength != 0 || r.Header.Get("Content-Type") != ""
}

func fromMultiMap(m map[string][]string) validator.Values {
	values := make(validator.Values, len(m))
	for key, vs := range m {
		if name, ok := strings.CutSuffix(key, "[]"); ok {
			values[name] = validator.Strings(vs...)
			continue
		}
		switch len(vs) {
		case 0:
			values[key] = validator.Absent()
		case 1:
			values[key] = validator.String(vs[0])
		default:
			values[key] = validator.Strings(vs...)
		}
	}
	return values
}

func mediaTypeOf(r *http.Request) (string, map[string]string, error) {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return "", nil, fmt.Errorf("%w: missing content-type header", ErrMissingContentType)
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", nil, fmt.Errorf("%w: malformed content type %q", ErrUnsupportedMediaType, contentType)
	}
	return mediaType, params, nil
}

func requireMediaType(r *http.Request, want string) error {
	mediaType, _, err := mediaTypeOf(r)
	if err != nil {
		return err
	}
	if mediaType != want {
		return fmt.Errorf("%w: got %s, expected %s", ErrUnsupportedMediaType, mediaType, want)
	}
	return nil
}
