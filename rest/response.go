package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode    int
	Header        http.Header
	Body          []byte
	Elapsed       time.Duration
	CorrelationID string
}

// Field looks up a gjson path such as "sample.data.accounts.0.productName".
func (r *Response) Field(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// IsJSON reports whether the body is valid JSON.
func (r *Response) IsJSON() bool {
	return gjson.ValidBytes(r.Body)
}

// Decode unmarshals the body into dst.
func (r *Response) Decode(dst any) error {
	return json.Unmarshal(r.Body, dst)
}

// Pretty returns the body indented for logs. Non-JSON bodies are returned
// unchanged.
func (r *Response) Pretty() string {
	if !r.IsJSON() {
		return string(r.Body)
	}
	return gjson.GetBytes(r.Body, "@pretty").Raw
}
