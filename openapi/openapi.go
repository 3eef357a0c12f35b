package openapi

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/Gobd/reststeps"
	"github.com/Gobd/reststeps/services"
)

const jsonContent = "application/json"

// Response is one documented status code and the shapes it may carry.
type Response struct {
	Desc   string
	Bodies []any
}

// Endpoint is one documented operation.
type Endpoint struct {
	Summary     string
	Description string
	Request     any
	// RequestExample is shown next to the request schema, e.g. a service's
	// template body.
	RequestExample any
	// Responses is keyed by status code, e.g. "200" or "400".
	Responses map[string]Response
}

// NewSchemaRefForValue generates the schema of a shape, with its rules
// described on it.
func NewSchemaRefForValue(value any) (*openapi3.SchemaRef, error) {
	return reststeps.NewSchemaRefForValue(value)
}

// oneOf wraps several shapes in a oneOf schema. A single shape is returned
// as is.
func oneOf(vs []any) (*openapi3.SchemaRef, error) {
	refs := make(openapi3.SchemaRefs, 0, len(vs))
	for _, v := range vs {
		ref, err := NewSchemaRefForValue(v)
		if err != nil {
			return nil, fmt.Errorf("schema for %s: %w", reststeps.ShapeName(v), err)
		}
		refs = append(refs, ref)
	}
	if len(refs) == 1 {
		return refs[0], nil
	}
	return &openapi3.SchemaRef{Value: &openapi3.Schema{OneOf: refs}}, nil
}

// NewRequest builds a JSON request body from one or more shapes.
func NewRequest(vs ...any) (*openapi3.RequestBodyRef, error) {
	if len(vs) == 0 {
		return nil, errors.New("no request shapes given")
	}
	schema, err := oneOf(vs)
	if err != nil {
		return nil, err
	}
	return &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
		WithRequired(true).
		WithContent(openapi3.NewContentWithJSONSchemaRef(schema))}, nil
}

// NewResponses builds the responses object. Status codes are added in
// sorted order so the output is stable.
func NewResponses(vs map[string]Response) (*openapi3.Responses, error) {
	if len(vs) == 0 {
		return nil, errors.New("no responses given")
	}
	codes := make([]string, 0, len(vs))
	for code := range vs {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	opts := make([]openapi3.NewResponsesOption, 0, len(codes))
	for _, code := range codes {
		desc := vs[code].Desc
		resp := &openapi3.Response{Description: &desc}
		if len(vs[code].Bodies) > 0 {
			schema, err := oneOf(vs[code].Bodies)
			if err != nil {
				return nil, fmt.Errorf("response %s: %w", code, err)
			}
			resp.Content = openapi3.Content{jsonContent: &openapi3.MediaType{Schema: schema}}
		}
		opts = append(opts, openapi3.WithName(code, resp))
	}
	return openapi3.NewResponses(opts...), nil
}

// DocBase returns an empty OpenAPI 3.0.3 document.
func DocBase(title, description, version string) *openapi3.T {
	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       title,
			Description: description,
			Version:     version,
		},
		Paths: &openapi3.Paths{},
	}
}

// Add documents ep at method and path.
func Add(doc *openapi3.T, method, path, operationID string, ep Endpoint) error {
	op := &openapi3.Operation{
		OperationID: operationID,
		Summary:     ep.Summary,
		Description: ep.Description,
		Responses:   openapi3.NewResponses(),
	}
	if ep.Request != nil {
		body, err := NewRequest(ep.Request)
		if err != nil {
			return fmt.Errorf("%s request: %w", operationID, err)
		}
		if ep.RequestExample != nil {
			body.Value.Content.Get(jsonContent).Example = ep.RequestExample
		}
		op.RequestBody = body
	}
	if len(ep.Responses) > 0 {
		responses, err := NewResponses(ep.Responses)
		if err != nil {
			return fmt.Errorf("%s: %w", operationID, err)
		}
		op.Responses = responses
	}

	item := doc.Paths.Value(path)
	if item == nil {
		item = &openapi3.PathItem{}
	}
	item.SetOperation(strings.ToUpper(method), op)
	doc.Paths.Set(path, item)
	return nil
}

// FromRegistry documents every service in reg. The request template is the
// request example, the success shape is listed under 200 and the error shape
// under 400.
func FromRegistry(reg *services.Registry, title, version string) (*openapi3.T, error) {
	doc := DocBase(title, "Endpoints exercised by the feature suite", version)
	for _, def := range reg.All() {
		responses := map[string]Response{
			"200": {Desc: "Success", Bodies: []any{def.Success}},
			"400": {Desc: "Rejected request", Bodies: []any{def.ErrorShape()}},
		}
		template, err := def.NewBody()
		if err != nil {
			return nil, err
		}
		ep := Endpoint{
			Summary:        def.Summary,
			Request:        def.Request,
			RequestExample: template,
			Responses:      responses,
		}
		if err := Add(doc, def.HTTPMethod(), def.Path, def.Name, ep); err != nil {
			return nil, err
		}
	}
	return doc, nil
}
