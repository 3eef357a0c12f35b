// Package services catalogs the endpoints under test. A Definition ties an
// endpoint to its request template and to the typed shapes its success and
// error responses must match.
package services

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/Gobd/reststeps"
)

// Data-table columns that drive the field mutation instead of overlaying a
// template field.
const (
	ColumnFieldName = "fieldName"
	ColumnAction    = "action"
)

// Definition describes one endpoint.
type Definition struct {
	// Name is the identifier used in step text, e.g. "consentProvisionProcessResult".
	Name    string
	Summary string
	// Method defaults to POST.
	Method string
	// Path is relative to the configured base URL.
	Path string
	// Template is the JSON object every scenario starts from.
	Template string
	// Request, Success and Error are zero values of the shapes, e.g.
	// ConsentSuccessResponse{}. Error may be nil when the endpoint has no
	// distinct error shape.
	Request any
	Success any
	Error   any
	// CodeField and MessageField are gjson paths to the status code and
	// message of a reply.
	CodeField    string
	MessageField string
	// SuccessCode is the CodeField value of a successful reply.
	SuccessCode string
	// Echo maps request field paths to the response paths that must repeat
	// them, e.g. "consentId" to "sample.data.consentId".
	Echo map[string]string
}

// HTTPMethod returns Method or POST when unset.
func (d Definition) HTTPMethod() string {
	if d.Method == "" {
		return http.MethodPost
	}
	return d.Method
}

// ErrorShape returns the error shape, falling back to the success shape.
func (d Definition) ErrorShape() any {
	if d.Error != nil {
		return d.Error
	}
	return d.Success
}

func (d Definition) validate() error {
	var errs []error
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if !strings.HasPrefix(d.Path, "/") {
		errs = append(errs, fmt.Errorf("path %q must start with /", d.Path))
	}
	if d.Success == nil {
		errs = append(errs, errors.New("success shape is required"))
	}
	if d.SuccessCode != "" && d.CodeField == "" {
		errs = append(errs, errors.New("success code needs a code field"))
	}
	if _, err := d.NewBody(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// NewBody parses a fresh copy of the template.
func (d Definition) NewBody() (*reststeps.Body, error) {
	b, err := reststeps.ParseBody([]byte(d.Template))
	if err != nil {
		return nil, fmt.Errorf("%s template: %w", d.Name, err)
	}
	return b, nil
}

// BuildBody parses the template and overlays the row's cells. Each column
// other than fieldName and action is a field path ("peopleId" or
// "customer.name"); top-level names match case-insensitively. Cells are
// coerced to the kind of the template value they replace. Columns that name
// no template field are ignored.
func (d Definition) BuildBody(row map[string]string) (*reststeps.Body, error) {
	body, err := d.NewBody()
	if err != nil {
		return nil, err
	}
	for _, col := range slices.Sorted(maps.Keys(row)) {
		if IsReservedColumn(col) {
			continue
		}
		path, err := reststeps.ParseFieldPath(col)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		path.Key = matchKey(body, path.Key)
		body.Assign(path, row[col])
	}
	return body, nil
}

// IsReservedColumn reports whether col is fieldName or action, in any case.
func IsReservedColumn(col string) bool {
	return strings.EqualFold(col, ColumnFieldName) || strings.EqualFold(col, ColumnAction)
}

func matchKey(body *reststeps.Body, key string) string {
	if body.Has(key) {
		return key
	}
	for _, k := range body.Keys() {
		if strings.EqualFold(k, key) {
			return k
		}
	}
	return key
}
