package source

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/priyamv/jobhub/internal/dates"
	"github.com/priyamv/jobhub/internal/model"
)

// searchProxyJob represents a single result in the search proxy response.
type searchProxyJob struct {
	Title              string `json:"title"`
	CompanyName        string `json:"company_name"`
	Location           string `json:"location"`
	JobLink            string `json:"job_link"`
	URL                string `json:"url"`
	DetectedExtensions struct {
		PostedAt string `json:"posted_at"` // relative phrase, e.g. "2 days ago"
	} `json:"detected_extensions"`
	ApplyOptions []struct {
		Link string `json:"link"`
	} `json:"apply_options"`
}

// searchProxyResponse is the top-level search proxy response. A non-empty
// Error field means the proxy rejected the query even though the HTTP
// status was 200.
type searchProxyResponse struct {
	Error          string `json:"error"`
	SearchMetadata struct {
		Status string `json:"status"`
	} `json:"search_metadata"`
	JobsResults []searchProxyJob `json:"jobs_results"`
}

// searchAttempt is one query/location combination to try.
type searchAttempt struct {
	query    string
	location string // empty means no location constraint
	name     string
}

// SearchProxyConfig configures the search proxy adapter.
type SearchProxyConfig struct {
	BaseURL    string // e.g. https://serpapi.com
	APIKey     string // absence short-circuits the adapter
	Query      string // e.g. "Data Analyst OR BI Analyst OR Reporting Analyst"
	WideSearch bool   // broad multi-city sweep instead of the narrow default
}

// SearchProxyAdapter fetches jobs through a paid search-engine proxy. It
// walks an ordered list of query/location combinations and stops at the
// first one that yields any kept record, to limit metered API usage.
type SearchProxyAdapter struct {
	cfg    SearchProxyConfig
	client *Client
	logger *slog.Logger
}

// NewSearchProxyAdapter creates an adapter for the search proxy.
func NewSearchProxyAdapter(cfg SearchProxyConfig, client *Client, logger *slog.Logger) *SearchProxyAdapter {
	return &SearchProxyAdapter{cfg: cfg, client: client, logger: logger}
}

func (a *SearchProxyAdapter) Source() model.Source { return model.SourceSearchProxy }

// attempts builds the sweep for the configured search mode.
func (a *SearchProxyAdapter) attempts() []searchAttempt {
	q := a.cfg.Query
	remoteQ := "remote " + q

	if a.cfg.WideSearch {
		return []searchAttempt{
			{q, "Canada", "Canada-wide"},
			{q, "Toronto, Ontario, Canada", "Toronto"},
			{q, "Vancouver, British Columbia, Canada", "Vancouver"},
			{q, "Calgary, Alberta, Canada", "Calgary"},
			{q, "Montreal, Quebec, Canada", "Montreal"},
			{q, "Ottawa, Ontario, Canada", "Ottawa"},
			{q, "Waterloo, Ontario, Canada", "Waterloo"},
			{remoteQ, "", "remote (no location)"},
		}
	}
	return []searchAttempt{
		{q, "Toronto, Ontario, Canada", "Toronto"},
		{remoteQ, "", "remote (no location)"},
	}
}

// Fetch tries each search attempt in order until one yields a kept record.
// Without an API key the adapter returns empty with a diagnostic note
// rather than an error.
func (a *SearchProxyAdapter) Fetch(ctx context.Context, now time.Time) ([]model.Job, model.Diagnostics) {
	var diag model.Diagnostics

	if a.cfg.APIKey == "" {
		diag.LastError = "search proxy API key not configured; source skipped"
		a.logger.Warn("search proxy skipped", "reason", "missing API key")
		return nil, diag
	}

	var jobs []model.Job
	for _, attempt := range a.attempts() {
		params := url.Values{}
		params.Set("api_key", a.cfg.APIKey)
		params.Set("engine", "google_jobs")
		params.Set("q", attempt.query)
		params.Set("hl", "en")
		params.Set("num", "100")
		if attempt.location != "" {
			params.Set("location", attempt.location)
		}

		var resp searchProxyResponse
		err := a.client.GetJSON(ctx, a.cfg.BaseURL+"/search.json?"+params.Encode(), &resp)
		if err != nil {
			diag.LastError = err.Error()
			a.logger.Warn("search proxy attempt failed", "attempt", attempt.name, "error", err)
			continue
		}
		if resp.Error != "" {
			diag.LastError = resp.Error
			a.logger.Warn("search proxy rejected query", "attempt", attempt.name, "error", resp.Error)
			continue
		}

		diag.Fetched += len(resp.JobsResults)
		kept := a.normalize(resp.JobsResults, now)
		diag.Kept += len(kept)
		a.logger.Info("search proxy attempt",
			"attempt", attempt.name,
			"results", len(resp.JobsResults),
			"kept", len(kept),
		)

		if len(kept) > 0 {
			jobs = kept
			break
		}
	}

	return jobs, diag
}

// normalize maps proxy results to jobs, converting relative posting dates
// to absolute instants and applying the recency cutoff.
func (a *SearchProxyAdapter) normalize(results []searchProxyJob, now time.Time) []model.Job {
	var jobs []model.Job
	for _, raw := range results {
		postedAt := model.UnknownPostedAt
		w := dates.Window{Within48h: true}
		if t, ok := dates.ParseRelative(raw.DetectedExtensions.PostedAt, now); ok {
			postedAt = dates.Format(t)
			w = dates.At(t, now)
		}
		if !w.Within48h {
			continue
		}

		jobURL := firstNonEmpty(raw.JobLink, raw.URL)
		if jobURL == "" && len(raw.ApplyOptions) > 0 {
			jobURL = raw.ApplyOptions[0].Link
		}
		if jobURL == "" {
			continue
		}

		jobs = append(jobs, model.Job{
			Title:    orPlaceholder(raw.Title),
			Company:  orPlaceholder(raw.CompanyName),
			Location: orPlaceholder(raw.Location),
			URL:      jobURL,
			PostedAt: postedAt,
			Source:   model.SourceSearchProxy,
			Hot:      w.Within12h,
		})
	}
	return jobs
}
