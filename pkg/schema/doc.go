// Package schema describes validated record types and validates records
// against them.
//
// A Schema is an ordered list of fields, each with a validator.RuleSet, plus
// named groups of fields. Schemas come from three front-ends that produce the
// same result: the Builder API, struct tags compiled by Compile, and YAML
// files read by LoadYAML. Every declaration problem is found once, when the
// schema is built.
//
// Validation is fail-fast per field and aggregates across fields: each field
// contributes at most its first failure. Nested records are validated
// recursively and their failures are qualified with the parent field, as in
// "address.zipcode" or "phones[1].number".
//
//	user := schema.MustCompile[User]()
//	if err := user.ValidateGroup(u, schema.GroupCreate); err != nil {
//	    if errs := validator.ExtractValidationErrors(err); errs != nil {
//	        // report errs to the caller
//	    }
//	    // otherwise a configuration error, e.g. ErrUnknownGroup
//	}
package schema
