package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/priyamv/jobhub/internal/dates"
	"github.com/priyamv/jobhub/internal/model"
)

const (
	openFeedPageSize = 100
	openFeedMaxPages = 5 // caps a harvest at 500 listings
)

// openFeedJob represents a single listing in the open feed API response.
type openFeedJob struct {
	Title           string `json:"title"`
	CompanyName     string `json:"company_name"`
	JobGeoLocation  string `json:"job_geo_location"`
	URL             string `json:"url"`
	PublicationDate string `json:"publication_date"`
}

// openFeedResponse is the top-level open feed API response.
type openFeedResponse struct {
	Jobs []openFeedJob `json:"jobs"`
}

// OpenFeedConfig configures the open feed adapter.
type OpenFeedConfig struct {
	BaseURL string // e.g. https://remotive.com
}

// OpenFeedAdapter fetches jobs from a public remote-jobs feed that needs
// no authentication. It paginates newest-first and stops as soon as a
// page yields nothing inside the recency window.
type OpenFeedAdapter struct {
	cfg    OpenFeedConfig
	client *Client
	logger *slog.Logger
}

// NewOpenFeedAdapter creates an adapter for the open feed.
func NewOpenFeedAdapter(cfg OpenFeedConfig, client *Client, logger *slog.Logger) *OpenFeedAdapter {
	return &OpenFeedAdapter{cfg: cfg, client: client, logger: logger}
}

func (a *OpenFeedAdapter) Source() model.Source { return model.SourceOpenFeed }

// Fetch paginates the feed, keeping listings inside the 48h window.
// A transport failure on any page is treated as end-of-stream: the pages
// already fetched are returned and the error lands in the diagnostics.
func (a *OpenFeedAdapter) Fetch(ctx context.Context, now time.Time) ([]model.Job, model.Diagnostics) {
	var jobs []model.Job
	var diag model.Diagnostics

	for page := 1; page <= openFeedMaxPages; page++ {
		url := fmt.Sprintf("%s/api/remote-jobs?limit=%d&page=%d", a.cfg.BaseURL, openFeedPageSize, page)

		var resp openFeedResponse
		if err := a.client.GetJSON(ctx, url, &resp); err != nil {
			diag.LastError = err.Error()
			a.logger.Warn("open feed page failed", "page", page, "error", err)
			break
		}

		if len(resp.Jobs) == 0 {
			break
		}

		pageKept := 0
		for _, raw := range resp.Jobs {
			diag.Fetched++

			w := dates.Recency(raw.PublicationDate, now)
			if !w.Within48h {
				continue
			}
			if raw.URL == "" {
				continue
			}

			jobs = append(jobs, model.Job{
				Title:    orPlaceholder(raw.Title),
				Company:  orPlaceholder(raw.CompanyName),
				Location: firstNonEmpty(raw.JobGeoLocation, "Remote"),
				URL:      raw.URL,
				PostedAt: normalizePostedAt(raw.PublicationDate),
				Source:   model.SourceOpenFeed,
				Hot:      w.Within12h,
			})
			pageKept++
		}
		diag.Kept += pageKept

		// The feed is newest-first: a page with nothing inside the window
		// means older pages can only be staler.
		if pageKept == 0 {
			break
		}
	}

	a.logger.Info("open feed harvested", "fetched", diag.Fetched, "kept", diag.Kept)
	return jobs, diag
}

// normalizePostedAt converts a vendor timestamp to the canonical RFC3339
// UTC string, or the sentinel when it cannot be parsed.
func normalizePostedAt(raw string) string {
	if t, ok := dates.ParseAbsolute(raw); ok {
		return dates.Format(t)
	}
	return model.UnknownPostedAt
}
