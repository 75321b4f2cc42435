package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
wide_search: true
database: /tmp/test-jobs.db
harvest:
  adapter_timeout: 2m
  request_timeout: 10s
sources:
  search_proxy:
    api_key: "abc123"
    query: "Data Engineer"
  employer_board:
    employers:
      - name: RBC
        slug: rbc
        host: rbc.wd1.myworkdayjobs.com
        company: Royal Bank of Canada
  regional:
    app_id: "id"
    app_key: "key"
    keywords: [Data Analyst]
preferences:
  target_roles: [Data Analyst]
  target_companies: [Acme]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.WideSearch {
		t.Error("WideSearch not set")
	}
	if cfg.Database != "/tmp/test-jobs.db" {
		t.Errorf("Database = %q", cfg.Database)
	}
	if cfg.Harvest.AdapterTimeout != 2*time.Minute {
		t.Errorf("AdapterTimeout = %v, want 2m", cfg.Harvest.AdapterTimeout)
	}
	if cfg.Harvest.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.Harvest.RequestTimeout)
	}
	if cfg.Sources.SearchProxy.APIKey != "abc123" || cfg.Sources.SearchProxy.Query != "Data Engineer" {
		t.Errorf("SearchProxy = %+v", cfg.Sources.SearchProxy)
	}
	if len(cfg.Sources.EmployerBoard.Employers) != 1 || cfg.Sources.EmployerBoard.Employers[0].Slug != "rbc" {
		t.Errorf("Employers = %+v", cfg.Sources.EmployerBoard.Employers)
	}
	if len(cfg.Preferences.TargetCompanies) != 1 || cfg.Preferences.TargetCompanies[0] != "Acme" {
		t.Errorf("TargetCompanies = %v", cfg.Preferences.TargetCompanies)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database != "jobs.db" {
		t.Errorf("Database = %q, want default", cfg.Database)
	}
	if !cfg.Sources.OpenFeed.Enabled {
		t.Error("OpenFeed should default to enabled")
	}
	if cfg.Sources.OpenFeed.BaseURL == "" || cfg.Sources.Regional.BaseURL == "" {
		t.Error("base URLs should default")
	}
	if len(cfg.Preferences.TargetRoles) == 0 {
		t.Error("target roles should default")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("JOBHUB_TEST_KEY", "secret-from-env")
	path := writeConfig(t, `
sources:
  search_proxy:
    api_key: ${JOBHUB_TEST_KEY}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sources.SearchProxy.APIKey != "secret-from-env" {
		t.Errorf("APIKey = %q, want env expansion", cfg.Sources.SearchProxy.APIKey)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "wide_search: [broken")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, `
harvest:
  adapter_timeout: "soon"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unparsable duration")
	}
}

func TestLoad_AllSourcesDisabled(t *testing.T) {
	path := writeConfig(t, `
sources:
  open_feed: {enabled: false}
  search_proxy: {enabled: false}
  employer_board: {enabled: false}
  regional: {enabled: false}
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error when every source is disabled")
	}
}

func TestLoad_RequestTimeoutExceedsAdapterTimeout(t *testing.T) {
	path := writeConfig(t, `
harvest:
  adapter_timeout: 5s
  request_timeout: 30s
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for request timeout above adapter timeout")
	}
}

func TestLoad_EmployerMissingHost(t *testing.T) {
	path := writeConfig(t, `
sources:
  employer_board:
    employers:
      - name: Broken
        company: Broken Inc
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for employer without host/slug")
	}
}
