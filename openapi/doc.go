// Package openapi documents the registered services as an OpenAPI 3
// document and serves it through Swagger UI. Schemas come from the request
// and response shapes, so a Required rule shows up under "required" and an
// In rule as an enum:
//
//	doc, err := openapi.FromRegistry(services.Default(), "reststeps", "1.0.0")
//	if err != nil {
//	    return err
//	}
//	r.Handle("/swagger/*", openapi.SwaggerHandlerMust("/swagger/", doc))
package openapi
