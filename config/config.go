// Package config loads the harness configuration: where the endpoints under
// test live, which headers they need and how the run behaves. Values come
// from a YAML file and are overridden by RESTSTEPS_* environment variables,
// so tokens never have to be written into feature files or source.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"
	"time"

	"github.com/Gobd/reststeps"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of the environment overrides, e.g. RESTSTEPS_BASE_URL.
const EnvPrefix = "RESTSTEPS"

// DefaultTimeout bounds a single HTTP exchange when the file sets none.
const DefaultTimeout = 30 * time.Second

// Config is the explicit configuration handed to every HTTP client.
type Config struct {
	BaseURL            string             `yaml:"baseURL"`
	Timeout            time.Duration      `yaml:"timeout"`
	Headers            map[string]string  `yaml:"headers"`
	SchemaDir          string             `yaml:"schemaDir"`
	FailOnMissingField bool               `yaml:"failOnMissingField"`
	Log                Log                `yaml:"log"`
	Services           map[string]Service `yaml:"services"`
}

// Log configures the zap logger.
type Log struct {
	Debug       bool     `yaml:"debug"`
	OutputPaths []string `yaml:"outputPaths"`
}

// Service overrides the defaults for one catalogued endpoint.
type Service struct {
	BaseURL string            `yaml:"baseURL"`
	Path    string            `yaml:"path"`
	Headers map[string]string `yaml:"headers"`
}

// env holds the RESTSTEPS_* overrides. Headers use envconfig's map syntax:
// RESTSTEPS_HEADERS="token:abc,channel:web".
type env struct {
	BaseURL   string `split_words:"true"`
	Timeout   time.Duration
	Headers   map[string]string
	SchemaDir string `split_words:"true"`
	Debug     bool
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Timeout:  DefaultTimeout,
		Headers:  map[string]string{"Content-Type": "application/json"},
		Services: map[string]Service{},
	}
}

// Load reads the YAML file at path (skipped when path is empty), applies the
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if c.Services == nil {
		c.Services = map[string]Service{}
	}
	return nil
}

func (c *Config) applyEnv() error {
	var e env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return fmt.Errorf("read %s_* environment: %w", EnvPrefix, err)
	}
	if e.BaseURL != "" {
		c.BaseURL = e.BaseURL
	}
	if e.Timeout != 0 {
		c.Timeout = e.Timeout
	}
	if e.SchemaDir != "" {
		c.SchemaDir = e.SchemaDir
	}
	if len(e.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = map[string]string{}
		}
		maps.Copy(c.Headers, e.Headers)
	}
	c.Log.Debug = c.Log.Debug || e.Debug
	return nil
}

// Validate checks the configuration with the same rules used for shapes.
func (c *Config) Validate() error {
	return reststeps.Validate(c)
}

func (c *Config) Rules() []*reststeps.FieldRules {
	return []*reststeps.FieldRules{
		reststeps.Field(&c.BaseURL, reststeps.URL),
		reststeps.Field(&c.Timeout, reststeps.Min(time.Duration(0))),
		reststeps.Field(&c.Headers, headerNames),
		reststeps.Field(&c.Log),
		reststeps.Field(&c.Services),
	}
}

func (l *Log) Rules() []*reststeps.FieldRules {
	return []*reststeps.FieldRules{
		reststeps.Field(&l.OutputPaths, reststeps.Each(reststeps.Required)),
	}
}

func (s *Service) Rules() []*reststeps.FieldRules {
	return []*reststeps.FieldRules{
		reststeps.Field(&s.BaseURL, reststeps.URL),
		reststeps.Field(&s.Path, reststeps.Custom(func(v any) error {
			if p, _ := v.(string); p != "" && !strings.HasPrefix(p, "/") {
				return errors.New("must start with /")
			}
			return nil
		}, "absolute path")),
		reststeps.Field(&s.Headers, headerNames),
	}
}

var headerNames = reststeps.Custom(func(v any) error {
	h, _ := v.(map[string]string)
	for k := range h {
		if strings.TrimSpace(k) == "" {
			return errors.New("header names must not be blank")
		}
	}
	return nil
}, "header names must not be blank")

// Service resolves the effective settings for the named service: its own
// base URL or the global one, and the global headers overlaid with its own.
// Names are matched case-insensitively.
func (c *Config) Service(name string) (Service, error) {
	var own Service
	for k, s := range c.Services {
		if strings.EqualFold(k, name) {
			own = s
			break
		}
	}

	out := Service{
		BaseURL: own.BaseURL,
		Path:    own.Path,
		Headers: make(map[string]string, len(c.Headers)+len(own.Headers)),
	}
	if out.BaseURL == "" {
		out.BaseURL = c.BaseURL
	}
	if out.BaseURL == "" {
		return Service{}, fmt.Errorf("no base URL configured for service %s", name)
	}
	maps.Copy(out.Headers, c.Headers)
	maps.Copy(out.Headers, own.Headers)
	return out, nil
}
