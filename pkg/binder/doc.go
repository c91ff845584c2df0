// Package binder extracts request data into validator.Values, the untyped
// field mapping the validation engine consumes.
//
// Each source has its own function:
//
//   - Query: URL query parameters
//   - Form: urlencoded and multipart form bodies
//   - JSON: JSON object bodies, numbers kept verbatim
//   - Path: chi URL parameters
//   - Request: all of the above merged, body chosen by Content-Type
//
// A typical chi handler:
//
//	r.Post("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
//	    values, err := binder.Request(r, "id")
//	    if err != nil {
//	        http.Error(w, err.Error(), http.StatusBadRequest)
//	        return
//	    }
//	    if err := registry.ValidateGroup("user", schema.GroupUpdate, values); err != nil {
//	        // respond with validator.ExtractValidationErrors(err)
//	    }
//	})
//
// # Error Handling
//
//   - ErrUnsupportedMediaType: Content type doesn't match expected type
//   - ErrFailedToParseJSON: Malformed, oversized or non-object JSON body
//   - ErrFailedToParseForm: Failed to parse form data
//   - ErrFailedToParseQuery: Failed to parse query parameters
//   - ErrMissingContentType: Missing Content-Type header
package binder
