package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/priyamv/jobhub/internal/source"
)

// Config is the root configuration for jobhub.
type Config struct {
	WideSearch  bool
	Database    string
	Harvest     HarvestConfig
	Sources     SourcesConfig
	Preferences PreferencesConfig
}

// HarvestConfig bounds how long and how fast a harvest may run.
type HarvestConfig struct {
	AdapterTimeout time.Duration // per-source limit for one harvest
	RequestTimeout time.Duration // per HTTP call
	RequestsPerSec float64       // per-host rate limit
	Burst          int
}

// SourcesConfig holds per-source settings and credentials.
type SourcesConfig struct {
	OpenFeed      OpenFeedConfig
	SearchProxy   SearchProxyConfig
	EmployerBoard EmployerBoardConfig
	Regional      RegionalConfig
}

type OpenFeedConfig struct {
	Enabled bool
	BaseURL string
}

type SearchProxyConfig struct {
	Enabled bool
	BaseURL string
	APIKey  string // expanded from env by Load
	Query   string
}

type EmployerBoardConfig struct {
	Enabled   bool
	Employers []source.Employer
}

type RegionalConfig struct {
	Enabled  bool
	BaseURL  string
	AppID    string
	AppKey   string
	Keywords []string
}

// PreferencesConfig feeds the priority scorer.
type PreferencesConfig struct {
	TargetRoles     []string
	TargetCompanies []string
}

// Defaults applied when the config omits a setting.
const (
	defaultDatabase       = "jobs.db"
	defaultOpenFeedURL    = "https://remotive.com"
	defaultSearchProxyURL = "https://serpapi.com"
	defaultRegionalURL    = "https://api.adzuna.com/v1/api/jobs/ca/search/1"
	defaultQuery          = "Data Analyst OR BI Analyst OR Reporting Analyst"
	defaultAdapterTimeout = 90 * time.Second
	defaultRequestTimeout = 15 * time.Second
	defaultRequestsPerSec = 2.0
	defaultBurst          = 1
)

// rawConfig is used for YAML unmarshaling (snake_case fields, durations as
// strings).
type rawConfig struct {
	WideSearch  bool             `yaml:"wide_search"`
	Database    string           `yaml:"database"`
	Harvest     rawHarvestConfig `yaml:"harvest"`
	Sources     rawSourcesConfig `yaml:"sources"`
	Preferences rawPreferences   `yaml:"preferences"`
}

type rawHarvestConfig struct {
	AdapterTimeout string  `yaml:"adapter_timeout"`
	RequestTimeout string  `yaml:"request_timeout"`
	RequestsPerSec float64 `yaml:"requests_per_second"`
	Burst          int     `yaml:"burst"`
}

type rawSourcesConfig struct {
	OpenFeed struct {
		Enabled *bool  `yaml:"enabled"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"open_feed"`
	SearchProxy struct {
		Enabled *bool  `yaml:"enabled"`
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Query   string `yaml:"query"`
	} `yaml:"search_proxy"`
	EmployerBoard struct {
		Enabled   *bool         `yaml:"enabled"`
		Employers []rawEmployer `yaml:"employers"`
	} `yaml:"employer_board"`
	Regional struct {
		Enabled  *bool    `yaml:"enabled"`
		BaseURL  string   `yaml:"base_url"`
		AppID    string   `yaml:"app_id"`
		AppKey   string   `yaml:"app_key"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"regional"`
}

type rawEmployer struct {
	Name    string `yaml:"name"`
	Slug    string `yaml:"slug"`
	Host    string `yaml:"host"`
	Company string `yaml:"company"`
}

type rawPreferences struct {
	TargetRoles     []string `yaml:"target_roles"`
	TargetCompanies []string `yaml:"target_companies"`
}

// Load reads and parses the YAML config file at path, expands ${ENV_VAR}
// references, applies defaults, validates, and returns the Config. A
// missing file yields the all-defaults configuration so the tool works
// out of the box.
func Load(path string) (*Config, error) {
	var raw rawConfig

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg := &Config{
		WideSearch: raw.WideSearch,
		Database:   stringOr(raw.Database, defaultDatabase),
		Harvest: HarvestConfig{
			AdapterTimeout: defaultAdapterTimeout,
			RequestTimeout: defaultRequestTimeout,
			RequestsPerSec: raw.Harvest.RequestsPerSec,
			Burst:          raw.Harvest.Burst,
		},
		Sources: SourcesConfig{
			OpenFeed: OpenFeedConfig{
				Enabled: boolOr(raw.Sources.OpenFeed.Enabled, true),
				BaseURL: stringOr(raw.Sources.OpenFeed.BaseURL, defaultOpenFeedURL),
			},
			SearchProxy: SearchProxyConfig{
				Enabled: boolOr(raw.Sources.SearchProxy.Enabled, true),
				BaseURL: stringOr(raw.Sources.SearchProxy.BaseURL, defaultSearchProxyURL),
				APIKey:  stringOr(raw.Sources.SearchProxy.APIKey, os.Getenv("SERPAPI_KEY")),
				Query:   stringOr(raw.Sources.SearchProxy.Query, defaultQuery),
			},
			EmployerBoard: EmployerBoardConfig{
				Enabled:   boolOr(raw.Sources.EmployerBoard.Enabled, true),
				Employers: mapEmployers(raw.Sources.EmployerBoard.Employers),
			},
			Regional: RegionalConfig{
				Enabled:  boolOr(raw.Sources.Regional.Enabled, true),
				BaseURL:  stringOr(raw.Sources.Regional.BaseURL, defaultRegionalURL),
				AppID:    stringOr(raw.Sources.Regional.AppID, os.Getenv("ADZUNA_APP_ID")),
				AppKey:   stringOr(raw.Sources.Regional.AppKey, os.Getenv("ADZUNA_APP_KEY")),
				Keywords: raw.Sources.Regional.Keywords,
			},
		},
		Preferences: PreferencesConfig{
			TargetRoles:     raw.Preferences.TargetRoles,
			TargetCompanies: raw.Preferences.TargetCompanies,
		},
	}

	if raw.Harvest.AdapterTimeout != "" {
		cfg.Harvest.AdapterTimeout, err = time.ParseDuration(raw.Harvest.AdapterTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse harvest.adapter_timeout %q: %w", raw.Harvest.AdapterTimeout, err)
		}
	}
	if raw.Harvest.RequestTimeout != "" {
		cfg.Harvest.RequestTimeout, err = time.ParseDuration(raw.Harvest.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse harvest.request_timeout %q: %w", raw.Harvest.RequestTimeout, err)
		}
	}
	if cfg.Harvest.RequestsPerSec <= 0 {
		cfg.Harvest.RequestsPerSec = defaultRequestsPerSec
	}
	if cfg.Harvest.Burst <= 0 {
		cfg.Harvest.Burst = defaultBurst
	}
	if len(cfg.Preferences.TargetRoles) == 0 {
		cfg.Preferences.TargetRoles = []string{"Data Analyst", "BI Analyst", "Reporting Analyst"}
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mapEmployers(raw []rawEmployer) []source.Employer {
	out := make([]source.Employer, 0, len(raw))
	for _, e := range raw {
		out = append(out, source.Employer{
			Name:    e.Name,
			Slug:    e.Slug,
			Host:    e.Host,
			Company: e.Company,
		})
	}
	return out
}

func stringOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func validate(cfg *Config) error {
	if cfg.Harvest.AdapterTimeout <= 0 {
		return fmt.Errorf("harvest.adapter_timeout must be positive, got %v", cfg.Harvest.AdapterTimeout)
	}
	if cfg.Harvest.RequestTimeout <= 0 {
		return fmt.Errorf("harvest.request_timeout must be positive, got %v", cfg.Harvest.RequestTimeout)
	}
	if cfg.Harvest.RequestTimeout > cfg.Harvest.AdapterTimeout {
		return fmt.Errorf("harvest.request_timeout %v exceeds adapter_timeout %v",
			cfg.Harvest.RequestTimeout, cfg.Harvest.AdapterTimeout)
	}

	enabled := 0
	if cfg.Sources.OpenFeed.Enabled {
		enabled++
	}
	if cfg.Sources.SearchProxy.Enabled {
		enabled++
	}
	if cfg.Sources.EmployerBoard.Enabled {
		enabled++
	}
	if cfg.Sources.Regional.Enabled {
		enabled++
	}
	if enabled == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	for _, e := range cfg.Sources.EmployerBoard.Employers {
		if e.Host == "" || e.Slug == "" {
			return fmt.Errorf("employer %q needs both host and slug", e.Name)
		}
	}

	return nil
}
