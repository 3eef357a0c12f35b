// Package steps registers the Cucumber step definitions that drive the
// catalogued endpoints: build a request body from the service template and an
// optional data table, mutate one field, send it and check the reply.
//
// Wire it into a godog suite:
//
//	suite, err := steps.NewSuite(steps.Options{Config: cfg, Logger: logger})
//	if err != nil {
//	    return err
//	}
//	godog.TestSuite{ScenarioInitializer: suite.InitializeScenario, Options: &opts}.Run()
package steps

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/cucumber/godog"
	"go.uber.org/zap"

	"github.com/Gobd/reststeps"
	"github.com/Gobd/reststeps/config"
	"github.com/Gobd/reststeps/rest"
	"github.com/Gobd/reststeps/services"
)

// Options configures [NewSuite].
type Options struct {
	Config *config.Config
	// Registry defaults to services.Default().
	Registry *services.Registry
	Logger   *zap.Logger
	// HTTPClient replaces the pooled client, e.g. an httptest server's.
	HTTPClient *http.Client
}

// Suite holds what scenarios share: configuration, the service catalog and
// one HTTP client per service. Scenario state is created per scenario.
type Suite struct {
	cfg      *config.Config
	registry *services.Registry
	logger   *zap.Logger
	mutator  reststeps.Mutator
	http     *http.Client

	mu      sync.Mutex
	clients map[string]*rest.Client
}

// NewSuite validates opts and returns a suite.
func NewSuite(opts Options) (*Suite, error) {
	if opts.Config == nil {
		return nil, errors.New("steps: config is required")
	}
	reg := opts.Registry
	if reg == nil {
		reg = services.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mutator := reststeps.Mutator{Missing: reststeps.IgnoreMissing}
	if opts.Config.FailOnMissingField {
		mutator.Missing = reststeps.FailOnMissing
	}
	return &Suite{
		cfg:      opts.Config,
		registry: reg,
		logger:   logger,
		mutator:  mutator,
		http:     opts.HTTPClient,
		clients:  map[string]*rest.Client{},
	}, nil
}

// InitializeScenario registers the step definitions against a fresh
// per-scenario state. Pass it as godog's ScenarioInitializer.
func (s *Suite) InitializeScenario(sc *godog.ScenarioContext) {
	st := &Scenario{suite: s, logger: s.logger}
	sc.Before(st.before)
	sc.StepContext().Before(st.beforeStep)

	// When. A data table, if any, is picked up by beforeStep.
	sc.Step(`^the user sends? (?:a )?post request to (\S+) service endpoint(?: with)?:?$`, st.post)

	// Then
	sc.Step(`^the user should get status code for (\S+) endpoint as (\d+)$`, st.statusForService)
	sc.Step(`^the response status should be (\d+)$`, st.statusIs)
	sc.Step(`^the user verify the (success|error) schema of the response returned as expected for (\S+) service endpoint$`, st.verifySchema)
	sc.Step(`^the response should match the (success|error) response schema$`, st.verifyLastSchema)
	sc.Step(`^the user verify the success response body should contain valid data for (\S+) service endpoint$`, st.successBodyValid)
	sc.Step(`^the response should contain the correct (\S+) details$`, st.correctDetails)
	sc.Step(`^the response field (\S+) should equals? (.+)$`, st.fieldEquals)
	sc.Step(`^the response should match the JSON schema (\S+)$`, st.matchesJSONSchema)
	sc.Step(`^the user verify the error response body should contain valid data for (\S+) service endpoint with (\S+) and (.+)$`, st.errorBodyContains)
}

func (s *Suite) service(name string) (services.Definition, error) {
	def, ok := s.registry.Lookup(name)
	if !ok {
		return services.Definition{}, fmt.Errorf("unknown service %q", name)
	}
	return def, nil
}

// client returns the cached client for def together with the request path.
func (s *Suite) client(def services.Definition) (*rest.Client, string, error) {
	svc, err := s.cfg.Service(def.Name)
	if err != nil {
		return nil, "", err
	}
	path := def.Path
	if svc.Path != "" {
		path = svc.Path
	}

	key := strings.ToLower(def.Name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.clients[key]; ok {
		return c, path, nil
	}
	c, err := rest.New(rest.Options{
		BaseURL:    svc.BaseURL,
		Timeout:    s.cfg.Timeout,
		Headers:    svc.Headers,
		Logger:     s.logger.With(zap.String("service", def.Name)),
		HTTPClient: s.http,
	})
	if err != nil {
		return nil, "", fmt.Errorf("client for %s: %w", def.Name, err)
	}
	s.clients[key] = c
	return c, path, nil
}
