// Package reststeps is the core of a REST API test harness: request bodies
// built from JSON templates, single-field mutations driven by test data, and
// validation of responses against typed shapes.
//
// A scenario parses a template, optionally mutates one field and sends it:
//
//	body, err := reststeps.ParseBody([]byte(`{"consentId":"c-1","peopleId":"p-1"}`))
//	if err != nil {
//	    return err
//	}
//	// fieldName and action come from a data-table row.
//	if _, err := reststeps.ApplyInput(body, "peopleId", "remove"); err != nil {
//	    return err
//	}
//	// body is now {"consentId":"c-1"}
//
// Response shapes implement [Ruler]:
//
//	func (r *ErrorResponse) Rules() []*reststeps.FieldRules {
//	    return []*reststeps.FieldRules{
//	        reststeps.Field(&r.StatusCode, reststeps.Required, reststeps.Numeric),
//	        reststeps.Field(&r.Description, reststeps.Required),
//	    }
//	}
//
// and are checked with [ValidateShape], which combines the rules with the
// OpenAPI schema generated from the shape.
//
// Sub-packages:
//   - config – harness configuration from YAML and the environment
//   - rest – HTTP invocation of the endpoints under test
//   - services – catalog of endpoints, templates and shapes
//   - steps – godog step definitions
//   - openapi – OpenAPI documents for the catalog and Swagger UI
//   - stub – local backend twin of the catalog
//   - transform – string normalization of shapes and data-table rows
package reststeps
