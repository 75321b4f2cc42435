package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/priyamv/jobhub/internal/dates"
	"github.com/priyamv/jobhub/internal/model"
)

// Employer describes one employer career board endpoint.
type Employer struct {
	Name    string // short label for logs, e.g. "RBC"
	Slug    string // board tenant in the endpoint path
	Host    string // e.g. rbc.wd1.myworkdayjobs.com
	Company string // display name, e.g. "Royal Bank of Canada"
}

// DefaultEmployers is the built-in roster of Canadian employer boards.
var DefaultEmployers = []Employer{
	{Name: "RBC", Slug: "rbc", Host: "rbc.wd1.myworkdayjobs.com", Company: "Royal Bank of Canada"},
	{Name: "TD", Slug: "td", Host: "td.wd5.myworkdayjobs.com", Company: "TD Bank"},
	{Name: "Scotiabank", Slug: "scotiabank", Host: "scotiabank.wd3.myworkdayjobs.com", Company: "Scotiabank"},
	{Name: "BMO", Slug: "bmo", Host: "bmo.wd5.myworkdayjobs.com", Company: "BMO Financial Group"},
	{Name: "CIBC", Slug: "cibc", Host: "cibc.wd3.myworkdayjobs.com", Company: "CIBC"},
}

// employerJob represents a single posting in an employer board response.
// Boards disagree on field names, so each field has a fallback.
type employerJob struct {
	Title        string `json:"title"`
	JobTitle     string `json:"jobTitle"`
	PostedOn     string `json:"postedOn"`
	DatePosted   string `json:"datePosted"`
	URL          string `json:"url"`
	JobURL       string `json:"jobUrl"`
	ExternalPath string `json:"externalPath"`
	Location     string `json:"location"`
	JobLocation  struct {
		Name string `json:"name"`
	} `json:"jobLocation"`
}

// employerResponse is the top-level employer board response. Some tenants
// return "jobPostings", others "jobs".
type employerResponse struct {
	JobPostings []employerJob `json:"jobPostings"`
	Jobs        []employerJob `json:"jobs"`
}

// EmployerBoardConfig configures the employer board adapter.
type EmployerBoardConfig struct {
	Employers []Employer
	Scheme    string // URL scheme for board endpoints, default https
}

// EmployerBoardAdapter iterates a fixed roster of per-employer career
// board endpoints. One employer's failure never aborts the others.
type EmployerBoardAdapter struct {
	cfg    EmployerBoardConfig
	client *Client
	logger *slog.Logger
}

// NewEmployerBoardAdapter creates an adapter over the given roster,
// falling back to the default roster when none is configured.
func NewEmployerBoardAdapter(cfg EmployerBoardConfig, client *Client, logger *slog.Logger) *EmployerBoardAdapter {
	if len(cfg.Employers) == 0 {
		cfg.Employers = DefaultEmployers
	}
	if cfg.Scheme == "" {
		cfg.Scheme = "https"
	}
	return &EmployerBoardAdapter{cfg: cfg, client: client, logger: logger}
}

func (a *EmployerBoardAdapter) Source() model.Source { return model.SourceEmployerBoard }

// Fetch walks the roster, collecting postings inside the recency window.
// Timeouts, bad payloads and non-200s are recorded per employer and the
// remaining employers are still attempted.
func (a *EmployerBoardAdapter) Fetch(ctx context.Context, now time.Time) ([]model.Job, model.Diagnostics) {
	var jobs []model.Job
	var diag model.Diagnostics

	for _, emp := range a.cfg.Employers {
		url := fmt.Sprintf("%s://%s/wday/cxs/%s/jobs?limit=100", a.cfg.Scheme, emp.Host, emp.Slug)

		var resp employerResponse
		if err := a.client.GetJSON(ctx, url, &resp); err != nil {
			diag.LastError = fmt.Sprintf("%s: %v", emp.Name, err)
			a.logger.Warn("employer board failed", "employer", emp.Name, "error", err)
			continue
		}

		postings := resp.JobPostings
		if len(postings) == 0 {
			postings = resp.Jobs
		}
		diag.Fetched += len(postings)

		kept := 0
		for _, raw := range postings {
			job, ok := a.normalize(raw, emp, now)
			if !ok {
				continue
			}
			jobs = append(jobs, job)
			kept++
		}
		diag.Kept += kept
		a.logger.Info("employer board harvested", "employer", emp.Name, "fetched", len(postings), "kept", kept)
	}

	return jobs, diag
}

// normalize maps a board posting to a job. Postings outside the recency
// window or without any usable URL are dropped.
func (a *EmployerBoardAdapter) normalize(raw employerJob, emp Employer, now time.Time) (model.Job, bool) {
	postedRaw := firstNonEmpty(raw.PostedOn, raw.DatePosted)

	postedAt := model.UnknownPostedAt
	w := dates.Window{Within48h: true}
	if t, ok := dates.ParseAbsolute(postedRaw); ok {
		postedAt = dates.Format(t)
		w = dates.At(t, now)
	}
	if !w.Within48h {
		return model.Job{}, false
	}

	jobURL := firstNonEmpty(raw.URL, raw.JobURL, raw.ExternalPath)
	if jobURL == "" {
		return model.Job{}, false
	}
	// Boards often return tenant-relative paths.
	if !strings.HasPrefix(jobURL, "http") {
		jobURL = fmt.Sprintf("%s://%s%s", a.cfg.Scheme, emp.Host, jobURL)
	}

	return model.Job{
		Title:    orPlaceholder(firstNonEmpty(raw.Title, raw.JobTitle)),
		Company:  emp.Company,
		Location: firstNonEmpty(raw.Location, raw.JobLocation.Name, "Canada"),
		URL:      jobURL,
		PostedAt: postedAt,
		Source:   model.SourceEmployerBoard,
		Hot:      w.Within12h,
	}, true
}
