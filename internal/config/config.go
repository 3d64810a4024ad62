// Package config loads the daemon settings from the environment and the
// per-project dispatch policies from a YAML file.
package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/caarlos0/env/v11"
	"sigs.k8s.io/yaml"

	"github.com/claves/redmine-messenger/internal/types"
)

// Service is the daemon configuration. Values come from the environment;
// flags in cmd/messengerd may override them.
type Service struct {
	ListenAddr      string `env:"MESSENGER_LISTEN_ADDR" envDefault:":8080"`
	MetricsAddr     string `env:"MESSENGER_METRICS_ADDR" envDefault:":9090"`
	ProjectsFile    string `env:"MESSENGER_PROJECTS_FILE" envDefault:"projects.yaml"`
	DefaultLanguage string `env:"MESSENGER_DEFAULT_LANGUAGE" envDefault:"en"`

	WebhookTimeoutSeconds     int    `env:"MESSENGER_WEBHOOK_TIMEOUT" envDefault:"10"`
	WebhookAuthToken          string `env:"MESSENGER_WEBHOOK_AUTH_TOKEN"`
	WebhookInsecureSkipVerify bool   `env:"MESSENGER_WEBHOOK_INSECURE_SKIP_VERIFY"`

	RateLimitPerMinute int `env:"MESSENGER_RATE_LIMIT_PER_MINUTE" envDefault:"60"`
}

// FromEnv parses the daemon configuration from the environment.
func FromEnv() (Service, error) {
	var cfg Service
	if err := env.Parse(&cfg); err != nil {
		return Service{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Projects is the parsed projects file: the user directory seed plus one
// ProjectConfig per project identifier.
type Projects struct {
	Users    []types.User                   `json:"users,omitempty"`
	Projects map[string]types.ProjectConfig `json:"projects"`
}

// LoadProjects reads and validates a projects file.
func LoadProjects(path string) (*Projects, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read projects file: %w", err)
	}
	return ParseProjects(raw)
}

// ParseProjects parses and validates projects-file content.
func ParseProjects(raw []byte) (*Projects, error) {
	var p Projects
	if err := yaml.UnmarshalStrict(raw, &p); err != nil {
		return nil, fmt.Errorf("parse projects file: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Get returns the dispatch policy for a project identifier.
func (p *Projects) Get(identifier string) (types.ProjectConfig, bool) {
	cfg, ok := p.Projects[identifier]
	return cfg, ok
}

// Validate checks every configured webhook URL. A project without a
// webhook URL is valid — its notifications are suppressed, not rejected.
func (p *Projects) Validate() error {
	for ident, cfg := range p.Projects {
		if cfg.WebhookURL == "" {
			continue
		}
		u, err := url.Parse(cfg.WebhookURL)
		if err != nil {
			return fmt.Errorf("project %s: invalid webhook URL: %w", ident, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("project %s: webhook URL must use http or https scheme, got %q", ident, u.Scheme)
		}
		if u.Host == "" {
			return fmt.Errorf("project %s: webhook URL must include a host", ident)
		}
	}
	for _, u := range p.Users {
		if u.Login == "" {
			return fmt.Errorf("directory user %q has no login", u.DisplayName)
		}
	}
	return nil
}
