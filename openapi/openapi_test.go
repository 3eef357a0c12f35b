package openapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/Gobd/reststeps/openapi"
	"github.com/Gobd/reststeps/services"
)

func TestFromRegistrySchemas(t *testing.T) {
	doc, err := openapi.FromRegistry(services.Default(), "reststeps", "1.0.0")
	require.NoError(t, err)

	consent := doc.Paths.Value("/v1/ospl/consent/provide/status").Post
	require.NotNil(t, consent)

	req := consent.RequestBody.Value.Content.Get("application/json").Schema.Value
	required := slices.Clone(req.Required)
	slices.Sort(required)
	assert.Equal(t, []string{"consentId", "peopleId"}, required)

	example, err := json.Marshal(consent.RequestBody.Value.Content.Get("application/json").Example)
	require.NoError(t, err)
	assert.Equal(t, `{"consentId":"sample-string","peopleId":"sample-string"}`, string(example))

	ok := consent.Responses.Value("200").Value.Content.Get("application/json").Schema.Value
	assert.Contains(t, ok.Properties, "sample")
	data := ok.Properties["sample"].Value.Properties["data"].Value
	assert.Contains(t, data.Properties, "peopleld")

	topup := doc.Paths.Value("/appserver/bp/topup/request").Post
	require.NotNil(t, topup)
	topupReq := topup.RequestBody.Value.Content.Get("application/json").Schema.Value
	assert.Equal(t, []any{"MOBILE", "DATA"}, topupReq.Properties["topupType"].Value.Enum)
	assert.Contains(t, topupReq.Required, "isELOAD")
	assert.NotContains(t, topupReq.Required, "kickBack")

	// The top-up endpoint has no separate error envelope.
	bad := topup.Responses.Value("400").Value.Content.Get("application/json").Schema.Value
	assert.ElementsMatch(t, []string{"code", "error", "msg", "data"}, bad.Required)
}

func TestSwaggerHandler(t *testing.T) {
	doc, err := openapi.FromRegistry(services.Default(), "reststeps", "1.0.0")
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("/swagger/", openapi.SwaggerHandlerMust("/swagger/", doc))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	get := func(path string) (int, string) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	status, body := get("/swagger/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "swagger-ui")
	assert.Contains(t, body, "consentProvisionProcessResult")

	status, body = get("/swagger/docs.json")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, gjson.Valid(body))
	assert.Equal(t, "3.0.3", gjson.Get(body, "openapi").String())

	status, _ = get("/swagger/missing.css")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAddRejectsEmptyResponses(t *testing.T) {
	_, err := openapi.NewResponses(nil)
	assert.Error(t, err)
	_, err = openapi.NewRequest()
	assert.Error(t, err)
}
