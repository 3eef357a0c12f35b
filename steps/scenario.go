package steps

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cucumber/godog"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/Gobd/reststeps"
	"github.com/Gobd/reststeps/rest"
	"github.com/Gobd/reststeps/services"
	"github.com/Gobd/reststeps/transform"
)

var errNoResponse = errors.New("no request has been sent in this scenario")

// Scenario is the state of one running scenario.
type Scenario struct {
	suite  *Suite
	logger *zap.Logger

	// table holds the data table attached to the running step.
	table [][]string

	service  services.Definition
	body     *reststeps.Body
	response *rest.Response
}

func (st *Scenario) before(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
	st.logger = st.suite.logger.With(zap.String("scenario", sc.Name))
	return ctx, nil
}

func (st *Scenario) beforeStep(ctx context.Context, step *godog.Step) (context.Context, error) {
	st.table = nil
	if step.Argument != nil && step.Argument.DataTable != nil {
		st.table = tableCells(step.Argument.DataTable)
	}
	return ctx, nil
}

// post sends the template of the named service, or the body built from the
// step's data table when one is attached.
func (st *Scenario) post(ctx context.Context, name string) error {
	def, err := st.suite.service(name)
	if err != nil {
		return err
	}
	if st.table == nil {
		body, err := def.NewBody()
		if err != nil {
			return err
		}
		return st.send(ctx, def, body)
	}
	row, err := firstRow(st.table)
	if err != nil {
		return err
	}
	body, err := st.buildBody(def, row)
	if err != nil {
		return err
	}
	return st.send(ctx, def, body)
}

// buildBody overlays row onto the template, then applies the row's action
// to its fieldName. A blank action leaves the body as overlaid.
func (st *Scenario) buildBody(def services.Definition, row map[string]string) (*reststeps.Body, error) {
	body, err := def.BuildBody(row)
	if err != nil {
		return nil, err
	}
	action := cell(row, services.ColumnAction)
	if action == "" {
		return body, nil
	}
	field := cell(row, services.ColumnFieldName)
	if body, err = st.suite.mutator.ApplyInput(body, field, action); err != nil {
		return nil, fmt.Errorf("%s %s: %w", action, field, err)
	}
	st.logger.Debug("mutated request body",
		zap.String("field", field),
		zap.String("action", action))
	return body, nil
}

func (st *Scenario) send(ctx context.Context, def services.Definition, body *reststeps.Body) error {
	client, path, err := st.suite.client(def)
	if err != nil {
		return err
	}
	st.service = def
	st.body = body
	st.logger.Info("request body", zap.String("service", def.Name), zap.Stringer("body", body))

	resp, err := client.Do(ctx, def.HTTPMethod(), path, body, nil)
	if err != nil {
		return err
	}
	st.response = resp
	st.logger.Info("response",
		zap.String("service", def.Name),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", resp.Elapsed),
		zap.String("body", resp.Pretty()))
	return nil
}

func (st *Scenario) statusForService(name string, want int) error {
	if st.response == nil {
		return errNoResponse
	}
	if !strings.EqualFold(st.service.Name, name) {
		return fmt.Errorf("last request went to %s, not %s", st.service.Name, name)
	}
	return st.statusIs(want)
}

func (st *Scenario) statusIs(want int) error {
	if st.response == nil {
		return errNoResponse
	}
	if st.response.StatusCode != want {
		return fmt.Errorf("expected status %d, got %d: %s", want, st.response.StatusCode, st.response.Body)
	}
	return nil
}

func (st *Scenario) verifySchema(ctx context.Context, kind, name string) error {
	if st.response == nil {
		return errNoResponse
	}
	def, err := st.suite.service(name)
	if err != nil {
		return err
	}
	return st.checkShape(ctx, kind, def)
}

// verifyLastSchema checks the reply against the service last posted to.
func (st *Scenario) verifyLastSchema(ctx context.Context, kind string) error {
	if st.response == nil {
		return errNoResponse
	}
	return st.checkShape(ctx, kind, st.service)
}

func (st *Scenario) checkShape(ctx context.Context, kind string, def services.Definition) error {
	shape := def.Success
	if kind == "error" {
		shape = def.ErrorShape()
	}
	return reststeps.ValidateShapeCtx(ctx, st.response.Body, shape)
}

// successBodyValid checks that the last reply came from the named service,
// matches its success shape and carries its success code.
func (st *Scenario) successBodyValid(ctx context.Context, name string) error {
	if st.response == nil {
		return errNoResponse
	}
	if !strings.EqualFold(st.service.Name, name) {
		return fmt.Errorf("last request went to %s, not %s", st.service.Name, name)
	}
	def := st.service
	if err := st.checkShape(ctx, "success", def); err != nil {
		return err
	}
	if def.SuccessCode == "" {
		return nil
	}
	if got := st.response.Field(def.CodeField).String(); got != def.SuccessCode {
		return fmt.Errorf("%s: expected %q, got %q", def.CodeField, def.SuccessCode, got)
	}
	return nil
}

// correctDetails is successBodyValid plus the fields the service echoes
// back from the request.
func (st *Scenario) correctDetails(ctx context.Context, name string) error {
	if err := st.successBodyValid(ctx, name); err != nil {
		return err
	}
	sent := st.body.String()
	for _, req := range slices.Sorted(maps.Keys(st.service.Echo)) {
		path := st.service.Echo[req]
		want := gjson.Get(sent, req)
		if !want.Exists() {
			continue
		}
		if got := st.response.Field(path); got.String() != want.String() {
			return fmt.Errorf("response field %s: expected %q from request %s, got %q", path, want.String(), req, got.String())
		}
	}
	return nil
}

func (st *Scenario) fieldEquals(path, want string) error {
	if st.response == nil {
		return errNoResponse
	}
	want = unquote(want)
	got := st.response.Field(path)
	if !got.Exists() {
		return fmt.Errorf("response has no field %s", path)
	}
	if want == "null" && got.Type == gjson.Null {
		return nil
	}
	if got.String() != want {
		return fmt.Errorf("response field %s: expected %q, got %q", path, want, got.String())
	}
	return nil
}

func (st *Scenario) matchesJSONSchema(file string) error {
	if st.response == nil {
		return errNoResponse
	}
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(st.suite.cfg.SchemaDir, file)
	}
	schema, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	return reststeps.ValidateJSONSchema(file, schema, st.response.Body)
}

// errorBodyContains checks the error reply's code exactly and that its
// message contains the expected text.
func (st *Scenario) errorBodyContains(name, code, message string) error {
	if st.response == nil {
		return errNoResponse
	}
	def, err := st.suite.service(name)
	if err != nil {
		return err
	}
	if def.CodeField == "" || def.MessageField == "" {
		return fmt.Errorf("service %s does not declare its error fields", def.Name)
	}
	code, message = unquote(code), unquote(message)

	if got := st.response.Field(def.CodeField).String(); got != code {
		return fmt.Errorf("%s: expected %q, got %q", def.CodeField, code, got)
	}
	if got := st.response.Field(def.MessageField).String(); !strings.Contains(got, message) {
		return fmt.Errorf("%s: expected to contain %q, got %q", def.MessageField, message, got)
	}
	return nil
}

func tableCells(table *godog.Table) [][]string {
	if table == nil {
		return nil
	}
	rows := make([][]string, len(table.Rows))
	for i, r := range table.Rows {
		rows[i] = make([]string, len(r.Cells))
		for j, c := range r.Cells {
			rows[i][j] = c.Value
		}
	}
	return rows
}

// firstRow maps the header row onto the first data row. Later rows are
// ignored.
func firstRow(rows [][]string) (map[string]string, error) {
	if len(rows) < 2 {
		return nil, errors.New("data table needs a header row and a data row")
	}
	header, data := rows[0], rows[1]
	if len(header) != len(data) {
		return nil, fmt.Errorf("data table header has %d cells, first row has %d", len(header), len(data))
	}
	row := make(map[string]string, len(header))
	for i, name := range header {
		row[name] = data[i]
	}
	return transform.RowTrimSpace(row), nil
}

// cell looks up a column ignoring case.
func cell(row map[string]string, col string) string {
	if v, ok := row[col]; ok {
		return v
	}
	for k, v := range row {
		if strings.EqualFold(k, col) {
			return v
		}
	}
	return ""
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
