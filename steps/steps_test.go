package steps

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Gobd/reststeps"
	"github.com/Gobd/reststeps/config"
	"github.com/Gobd/reststeps/services"
	"github.com/Gobd/reststeps/stub"
)

func newSuite(t *testing.T, failOnMissing bool) *Suite {
	t.Helper()
	srv := httptest.NewServer(stub.NewRouter(services.Default(), stub.Responders(), zap.NewNop()))
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.BaseURL = srv.URL
	cfg.SchemaDir = "testdata/schemas"
	cfg.FailOnMissingField = failOnMissing

	s, err := NewSuite(Options{Config: cfg, HTTPClient: srv.Client()})
	require.NoError(t, err)
	return s
}

func TestFeatures(t *testing.T) {
	s := newSuite(t, false)
	suite := godog.TestSuite{
		Name:                "reststeps",
		ScenarioInitializer: s.InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"testdata/features"},
			TestingT: t,
			Strict:   true,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func TestNewSuiteRequiresConfig(t *testing.T) {
	_, err := NewSuite(Options{})
	assert.Error(t, err)
}

func TestBuildBody(t *testing.T) {
	s := newSuite(t, false)
	st := &Scenario{suite: s, logger: zap.NewNop()}
	def := services.ConsentProvisionProcessResult()

	t.Run("blank action keeps overlay", func(t *testing.T) {
		body, err := st.buildBody(def, map[string]string{"consentId": "C-1", "fieldName": "", "action": ""})
		require.NoError(t, err)
		assert.JSONEq(t, `{"consentId":"C-1","peopleId":"sample-string"}`, body.String())
	})

	t.Run("remove", func(t *testing.T) {
		body, err := st.buildBody(def, map[string]string{"fieldName": "peopleId", "action": "remove"})
		require.NoError(t, err)
		assert.Equal(t, `{"consentId":"sample-string"}`, body.String())
	})

	t.Run("null", func(t *testing.T) {
		body, err := st.buildBody(def, map[string]string{"FieldName": "consentId", "Action": "null"})
		require.NoError(t, err)
		assert.Equal(t, `{"consentId":"","peopleId":"sample-string"}`, body.String())
	})

	t.Run("unsupported action fails", func(t *testing.T) {
		_, err := st.buildBody(def, map[string]string{"fieldName": "consentId", "action": "uppercase"})
		assert.ErrorIs(t, err, reststeps.ErrInvalidArgument)
	})

	t.Run("missing field is ignored by default", func(t *testing.T) {
		body, err := st.buildBody(def, map[string]string{"fieldName": "nickname", "action": "remove"})
		require.NoError(t, err)
		assert.Equal(t, `{"consentId":"sample-string","peopleId":"sample-string"}`, body.String())
	})

	t.Run("null creates a missing field by default", func(t *testing.T) {
		body, err := st.buildBody(def, map[string]string{"fieldName": "nickname", "action": "null"})
		require.NoError(t, err)
		assert.Equal(t, `{"consentId":"sample-string","peopleId":"sample-string","nickname":""}`, body.String())
	})
}

func TestBuildBodyFailOnMissing(t *testing.T) {
	s := newSuite(t, true)
	st := &Scenario{suite: s, logger: zap.NewNop()}

	_, err := st.buildBody(services.ConsentProvisionProcessResult(), map[string]string{"fieldName": "nickname", "action": "null"})
	assert.ErrorIs(t, err, reststeps.ErrFieldNotFound)
}

func TestStepsWithoutResponse(t *testing.T) {
	st := &Scenario{suite: newSuite(t, false), logger: zap.NewNop()}

	assert.ErrorIs(t, st.statusIs(200), errNoResponse)
	assert.ErrorIs(t, st.fieldEquals("code", "0"), errNoResponse)
	assert.ErrorIs(t, st.verifySchema(context.Background(), "success", services.AppServerBPTopupRequestName), errNoResponse)
	assert.ErrorIs(t, st.verifyLastSchema(context.Background(), "error"), errNoResponse)
	assert.ErrorIs(t, st.correctDetails(context.Background(), services.AppServerBPTopupRequestName), errNoResponse)
}

func TestSendAndCheck(t *testing.T) {
	st := &Scenario{suite: newSuite(t, false), logger: zap.NewNop()}
	ctx := context.Background()

	require.NoError(t, st.post(ctx, "appserverbptopuprequest"))
	require.NoError(t, st.statusForService(services.AppServerBPTopupRequestName, 200))
	require.NoError(t, st.verifySchema(ctx, "success", services.AppServerBPTopupRequestName))
	require.NoError(t, st.fieldEquals("msg", `"Success"`))

	assert.Error(t, st.statusIs(400))
	assert.Error(t, st.statusForService(services.ConsentProvisionProcessResultName, 200))
	assert.Error(t, st.fieldEquals("missing", "x"))
	assert.Error(t, st.fieldEquals("code", "1"))
	assert.Error(t, st.post(ctx, "unknownService"))
}

func tableStep(rows ...[]string) *godog.Step {
	table := &godog.Table{}
	for _, r := range rows {
		row := &messages.PickleTableRow{}
		for _, c := range r {
			row.Cells = append(row.Cells, &messages.PickleTableCell{Value: c})
		}
		table.Rows = append(table.Rows, row)
	}
	return &godog.Step{Argument: &messages.PickleStepArgument{DataTable: table}}
}

func TestPostUsesAttachedTable(t *testing.T) {
	st := &Scenario{suite: newSuite(t, false), logger: zap.NewNop()}
	ctx := context.Background()

	_, err := st.beforeStep(ctx, tableStep([]string{"fieldName", "action"}, []string{"peopleId", "remove"}))
	require.NoError(t, err)
	require.NoError(t, st.post(ctx, services.ConsentProvisionProcessResultName))
	assert.Equal(t, `{"consentId":"sample-string"}`, st.body.String())
	require.NoError(t, st.statusIs(400))
	require.NoError(t, st.verifyLastSchema(ctx, "error"))
	assert.Error(t, st.successBodyValid(ctx, services.ConsentProvisionProcessResultName))

	_, err = st.beforeStep(ctx, &godog.Step{Text: "no table"})
	require.NoError(t, err)
	assert.Nil(t, st.table)
	require.NoError(t, st.post(ctx, services.ConsentProvisionProcessResultName))
	assert.Equal(t, `{"consentId":"sample-string","peopleId":"sample-string"}`, st.body.String())
	require.NoError(t, st.statusIs(200))

	_, err = st.beforeStep(ctx, tableStep([]string{"fieldName", "action"}))
	require.NoError(t, err)
	assert.Error(t, st.post(ctx, services.ConsentProvisionProcessResultName))
}

func TestSuccessDetails(t *testing.T) {
	st := &Scenario{suite: newSuite(t, false), logger: zap.NewNop()}
	ctx := context.Background()

	_, err := st.beforeStep(ctx, tableStep([]string{"consentId", "peopleId"}, []string{"C-7", "P-8"}))
	require.NoError(t, err)
	require.NoError(t, st.post(ctx, services.ConsentProvisionProcessResultName))

	require.NoError(t, st.verifyLastSchema(ctx, "success"))
	require.NoError(t, st.successBodyValid(ctx, "CONSENTPROVISIONPROCESSRESULT"))
	require.NoError(t, st.correctDetails(ctx, services.ConsentProvisionProcessResultName))
	assert.Error(t, st.successBodyValid(ctx, services.AppServerBPTopupRequestName))

	st.body = reststeps.MustParseBody(`{"consentId":"C-7","peopleId":"someone-else"}`)
	err = st.correctDetails(ctx, services.ConsentProvisionProcessResultName)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample.data.peopleld")

	st.service.SuccessCode = "9999"
	assert.Error(t, st.successBodyValid(ctx, services.ConsentProvisionProcessResultName))
}

func TestFirstRow(t *testing.T) {
	_, err := firstRow(nil)
	assert.Error(t, err)

	_, err = firstRow([][]string{{"a", "b"}, {"1"}})
	assert.Error(t, err)

	row, err := firstRow([][]string{
		{" consentId ", "action"},
		{" C-9 ", " remove "},
		{"ignored", "ignored"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"consentId": "C-9", "action": "remove"}, row)
}

func TestUnquote(t *testing.T) {
	assert.Equal(t, "abc", unquote(`"abc"`))
	assert.Equal(t, "abc", unquote(`'abc'`))
	assert.Equal(t, `"abc`, unquote(`"abc`))
	assert.Equal(t, "400", unquote(" 400 "))
}
