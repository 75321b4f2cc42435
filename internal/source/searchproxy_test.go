package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/priyamv/jobhub/internal/dates"
	"github.com/priyamv/jobhub/internal/model"
)

func proxyResult(title, link, postedAt string) string {
	return fmt.Sprintf(`{
		"title": %q,
		"company_name": "Acme Corp",
		"location": "Toronto, ON",
		"job_link": %q,
		"detected_extensions": {"posted_at": %q}
	}`, title, link, postedAt)
}

func TestSearchProxy_MissingKeySkips(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	a := NewSearchProxyAdapter(SearchProxyConfig{BaseURL: srv.URL, Query: "Data Analyst"}, testClient(), testLogger())
	jobs, diag := a.Fetch(context.Background(), testNow)

	if len(jobs) != 0 {
		t.Fatalf("expected 0 jobs, got %d", len(jobs))
	}
	if diag.LastError == "" {
		t.Error("expected a diagnostic note about the missing key")
	}
	if requests != 0 {
		t.Errorf("adapter made %d requests without credentials", requests)
	}
}

func TestSearchProxy_StopsAtFirstHit(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprintf(w, `{"jobs_results": [%s]}`, proxyResult("Data Analyst", "https://jobs.example/1", "2 hours ago"))
	}))
	defer srv.Close()

	cfg := SearchProxyConfig{BaseURL: srv.URL, APIKey: "k", Query: "Data Analyst", WideSearch: true}
	a := NewSearchProxyAdapter(cfg, testClient(), testLogger())
	jobs, diag := a.Fetch(context.Background(), testNow)

	// Wide mode has eight attempts, but the first one already yields a
	// kept record, so exactly one request goes out.
	if requests != 1 {
		t.Errorf("requests = %d, want 1", requests)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if !jobs[0].Hot {
		t.Error("job posted 2 hours ago should be hot")
	}
	if diag.Fetched != 1 || diag.Kept != 1 {
		t.Errorf("diag = %+v, want fetched=1 kept=1", diag)
	}
}

func TestSearchProxy_APIErrorMovesToNextAttempt(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			fmt.Fprint(w, `{"error": "query quota exceeded"}`)
			return
		}
		fmt.Fprintf(w, `{"jobs_results": [%s]}`, proxyResult("BI Analyst", "https://jobs.example/2", "a day ago"))
	}))
	defer srv.Close()

	cfg := SearchProxyConfig{BaseURL: srv.URL, APIKey: "k", Query: "BI Analyst"}
	a := NewSearchProxyAdapter(cfg, testClient(), testLogger())
	jobs, diag := a.Fetch(context.Background(), testNow)

	if requests != 2 {
		t.Errorf("requests = %d, want 2", requests)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	// The payload error stays visible even though a later attempt succeeded.
	if diag.LastError != "query quota exceeded" {
		t.Errorf("LastError = %q", diag.LastError)
	}
}

func TestSearchProxy_RelativeDatesNormalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"jobs_results": [%s, %s, %s]}`,
			proxyResult("Fresh", "https://jobs.example/1", "3 hours ago"),
			proxyResult("Stale", "https://jobs.example/2", "5 days ago"),
			proxyResult("Undated", "https://jobs.example/3", ""),
		)
	}))
	defer srv.Close()

	cfg := SearchProxyConfig{BaseURL: srv.URL, APIKey: "k", Query: "Analyst"}
	a := NewSearchProxyAdapter(cfg, testClient(), testLogger())
	jobs, diag := a.Fetch(context.Background(), testNow)

	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs (stale dropped), got %d", len(jobs))
	}

	want := dates.Format(testNow.Add(-3 * time.Hour))
	if jobs[0].PostedAt != want {
		t.Errorf("PostedAt = %q, want %q", jobs[0].PostedAt, want)
	}
	if jobs[1].PostedAt != model.UnknownPostedAt {
		t.Errorf("undated job PostedAt = %q, want sentinel", jobs[1].PostedAt)
	}
	if diag.Fetched != 3 || diag.Kept != 2 {
		t.Errorf("diag = %+v, want fetched=3 kept=2", diag)
	}
}

func TestSearchProxy_FallsBackToApplyOptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jobs_results": [{
			"title": "Reporting Analyst",
			"company_name": "Acme Corp",
			"location": "Toronto, ON",
			"detected_extensions": {"posted_at": "just now"},
			"apply_options": [{"link": "https://jobs.example/apply/1"}]
		}]}`)
	}))
	defer srv.Close()

	cfg := SearchProxyConfig{BaseURL: srv.URL, APIKey: "k", Query: "Analyst"}
	a := NewSearchProxyAdapter(cfg, testClient(), testLogger())
	jobs, _ := a.Fetch(context.Background(), testNow)

	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if jobs[0].URL != "https://jobs.example/apply/1" {
		t.Errorf("URL = %q", jobs[0].URL)
	}
}
