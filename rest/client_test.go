package rest_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gobd/reststeps"
	"github.com/Gobd/reststeps/rest"
)

type captured struct {
	method string
	path   string
	header http.Header
	body   string
}

func echoServer(t *testing.T, status int, reply string) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got.method, got.path, got.header, got.body = r.Method, r.URL.Path, r.Header.Clone(), string(b)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	for _, base := range []string{"", "uat.bank.example", "/v1", "://bad"} {
		_, err := rest.New(rest.Options{BaseURL: base})
		assert.Error(t, err, base)
	}
}

func TestURL(t *testing.T) {
	c, err := rest.New(rest.Options{BaseURL: "https://uat.bank.example/api"})
	require.NoError(t, err)
	assert.Equal(t, "https://uat.bank.example/api/v1/ospl/consent/provide/status", c.URL("/v1/ospl/consent/provide/status"))
	assert.Equal(t, "http://other.example/x", c.URL("http://other.example/x"))
}

func TestPostSendsBodyAndHeaders(t *testing.T) {
	srv, got := echoServer(t, http.StatusOK, `{"code":0,"error":false,"msg":"Success","data":"d"}`)
	c, err := rest.New(rest.Options{
		BaseURL:    srv.URL,
		Headers:    map[string]string{"token": "global", "channel": "web"},
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)

	body := reststeps.MustParseBody(`{"topupType":"MOBILE","kickBack":0}`)
	resp, err := c.Post(context.Background(), "/appserver/bp/topup/request", body, map[string]string{"token": "call"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/appserver/bp/topup/request", got.path)
	assert.Equal(t, `{"topupType":"MOBILE","kickBack":0}`, got.body)
	assert.Equal(t, "call", got.header.Get("token"))
	assert.Equal(t, "web", got.header.Get("channel"))
	assert.Equal(t, "application/json", got.header.Get("Content-Type"))
	assert.NotEmpty(t, got.header.Get(rest.CorrelationIDHeader))
	assert.Equal(t, got.header.Get(rest.CorrelationIDHeader), resp.CorrelationID)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, resp.IsJSON())
	assert.Equal(t, "Success", resp.Field("msg").String())
	assert.Equal(t, int64(0), resp.Field("code").Int())
}

func TestDoKeepsCallerCorrelationID(t *testing.T) {
	srv, got := echoServer(t, http.StatusOK, `{}`)
	c, err := rest.New(rest.Options{BaseURL: srv.URL, HTTPClient: srv.Client()})
	require.NoError(t, err)

	resp, err := c.Do(context.Background(), http.MethodGet, "/ping", nil, map[string]string{rest.CorrelationIDHeader: "run-1"})
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.header.Get(rest.CorrelationIDHeader))
	assert.Equal(t, "run-1", resp.CorrelationID)
	assert.Empty(t, got.header.Get("Content-Type"))
	assert.Empty(t, got.body)
}

func TestDoRawBodies(t *testing.T) {
	srv, got := echoServer(t, http.StatusOK, `{}`)
	c, err := rest.New(rest.Options{BaseURL: srv.URL, HTTPClient: srv.Client()})
	require.NoError(t, err)

	_, err = c.Post(context.Background(), "/", `{"a":1}`, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, got.body)

	_, err = c.Post(context.Background(), "/", []byte(`{"b":2}`), nil)
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, got.body)

	_, err = c.Post(context.Background(), "/", map[string]int{"c": 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"c":3}`, got.body)

	_, err = c.Post(context.Background(), "/", func() {}, nil)
	assert.Error(t, err)
}

func TestNon2xxIsNotAnError(t *testing.T) {
	srv, _ := echoServer(t, http.StatusBadRequest, `{"statusCode":"400","description":"consentId: cannot be blank."}`)
	c, err := rest.New(rest.Options{BaseURL: srv.URL, HTTPClient: srv.Client()})
	require.NoError(t, err)

	resp, err := c.Post(context.Background(), "/v1/ospl/consent/provide/status", `{}`, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "400", resp.Field("statusCode").String())

	var decoded struct {
		Description string `json:"description"`
	}
	require.NoError(t, resp.Decode(&decoded))
	assert.Equal(t, "consentId: cannot be blank.", decoded.Description)
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)

	c, err := rest.New(rest.Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)
	_, err = c.Post(context.Background(), "/", `{}`, nil)
	assert.Error(t, err)
}

func TestContextCanceled(t *testing.T) {
	srv, _ := echoServer(t, http.StatusOK, `{}`)
	c, err := rest.New(rest.Options{BaseURL: srv.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Post(ctx, "/", `{}`, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResponsePretty(t *testing.T) {
	r := &rest.Response{Body: []byte(`{"a":1}`)}
	assert.JSONEq(t, `{"a":1}`, r.Pretty())
	assert.Contains(t, r.Pretty(), "\n  \"a\": 1")

	r = &rest.Response{Body: []byte("<html>oops</html>")}
	assert.False(t, r.IsJSON())
	assert.Equal(t, "<html>oops</html>", r.Pretty())
	assert.False(t, r.Field("a").Exists())
}
