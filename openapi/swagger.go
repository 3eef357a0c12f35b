package openapi

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed swagger/index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

// SwaggerHandler serves a Swagger UI page for doc at prefix and the raw
// document at prefix+"docs.json". Mount it with the same prefix:
//
//	r.Handle("/swagger/*", openapi.SwaggerHandlerMust("/swagger/", doc))
func SwaggerHandler(prefix string, doc *openapi3.T) (http.Handler, error) {
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	specJSON, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	data := map[string]any{"Title": doc.Info.Title, "Docs": template.JS(specJSON)}
	if err := indexTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	index := buf.Bytes()

	return http.StripPrefix(prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "", "/", "index.html":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write(index)
		case "docs.json":
			w.Header().Set("Content-Type", jsonContent)
			_, _ = w.Write(specJSON)
		default:
			http.NotFound(w, r)
		}
	})), nil
}

// SwaggerHandlerMust is like SwaggerHandler but panics on error.
func SwaggerHandlerMust(prefix string, doc *openapi3.T) http.Handler {
	h, err := SwaggerHandler(prefix, doc)
	if err != nil {
		panic(err)
	}
	return h
}
