package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/priyamv/jobhub/internal/dates"
	"github.com/priyamv/jobhub/internal/model"
)

// regionalJob represents a single result from the regional job-search API.
// Company and location arrive as nested display-name objects.
type regionalJob struct {
	Title   string `json:"title"`
	Created string `json:"created"`
	Company struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	RedirectURL string `json:"redirect_url"`
}

// regionalResponse is the top-level regional API response.
type regionalResponse struct {
	Results []regionalJob `json:"results"`
}

// defaultRegionalKeywords is the built-in analyst keyword sweep.
var defaultRegionalKeywords = []string{
	"Data Analyst",
	"BI Analyst",
	"Reporting Analyst",
	"Business Analyst",
}

// RegionalConfig configures the regional API adapter.
type RegionalConfig struct {
	BaseURL  string // e.g. https://api.adzuna.com/v1/api/jobs/ca/search/1
	AppID    string
	AppKey   string
	Keywords []string
}

// RegionalAdapter fetches jobs from a regional job-search API, one request
// per keyword. Missing credentials short-circuit the whole adapter; a
// single keyword's failure only skips that keyword.
type RegionalAdapter struct {
	cfg    RegionalConfig
	client *Client
	logger *slog.Logger
}

// NewRegionalAdapter creates an adapter for the regional API, falling back
// to the default keyword sweep when none is configured.
func NewRegionalAdapter(cfg RegionalConfig, client *Client, logger *slog.Logger) *RegionalAdapter {
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = defaultRegionalKeywords
	}
	return &RegionalAdapter{cfg: cfg, client: client, logger: logger}
}

func (a *RegionalAdapter) Source() model.Source { return model.SourceRegionalAPI }

// Fetch runs the keyword sweep against the search endpoint.
func (a *RegionalAdapter) Fetch(ctx context.Context, now time.Time) ([]model.Job, model.Diagnostics) {
	var diag model.Diagnostics

	if a.cfg.AppID == "" || a.cfg.AppKey == "" {
		diag.LastError = "regional API app id/key not configured; source skipped"
		a.logger.Warn("regional API skipped", "reason", "missing credentials")
		return nil, diag
	}

	var jobs []model.Job
	for _, keyword := range a.cfg.Keywords {
		params := url.Values{}
		params.Set("app_id", a.cfg.AppID)
		params.Set("app_key", a.cfg.AppKey)
		params.Set("what", keyword)
		params.Set("results_per_page", "50")
		params.Set("sort_by", "date")

		var resp regionalResponse
		if err := a.client.GetJSON(ctx, a.cfg.BaseURL+"?"+params.Encode(), &resp); err != nil {
			diag.LastError = fmt.Sprintf("%q: %v", keyword, err)
			a.logger.Warn("regional keyword failed", "keyword", keyword, "error", err)
			continue
		}

		diag.Fetched += len(resp.Results)
		kept := 0
		for _, raw := range resp.Results {
			job, ok := a.normalize(raw, now)
			if !ok {
				continue
			}
			jobs = append(jobs, job)
			kept++
		}
		diag.Kept += kept
		a.logger.Info("regional keyword harvested", "keyword", keyword, "fetched", len(resp.Results), "kept", kept)
	}

	return jobs, diag
}

func (a *RegionalAdapter) normalize(raw regionalJob, now time.Time) (model.Job, bool) {
	postedAt := model.UnknownPostedAt
	w := dates.Window{Within48h: true}
	if t, ok := dates.ParseAbsolute(raw.Created); ok {
		postedAt = dates.Format(t)
		w = dates.At(t, now)
	}
	if !w.Within48h {
		return model.Job{}, false
	}

	if raw.RedirectURL == "" {
		return model.Job{}, false
	}

	return model.Job{
		Title:    orPlaceholder(raw.Title),
		Company:  orPlaceholder(raw.Company.DisplayName),
		Location: firstNonEmpty(raw.Location.DisplayName, "Canada"),
		URL:      raw.RedirectURL,
		PostedAt: postedAt,
		Source:   model.SourceRegionalAPI,
		Hot:      w.Within12h,
	}, true
}
