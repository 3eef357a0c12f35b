package reststeps

import "github.com/getkin/kin-openapi/openapi3"

type (
	// Rule validates a value and describes itself on an OpenAPI schema.
	Rule interface {
		Validate(value any) error
		Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error
	}

	// FieldRules binds a struct field pointer to its validation rules.
	FieldRules struct {
		fieldPtr any
		tag      string
		rules    []Rule
	}

	// Ruler is implemented by request and response shapes:
	//
	//	func (r *TopupResponse) Rules() []*FieldRules {
	//	    return []*FieldRules{
	//	        Field(&r.Code, Present),
	//	        Field(&r.Msg, Present),
	//	    }
	//	}
	Ruler interface {
		Rules() []*FieldRules
	}
)
