package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/priyamv/jobhub/internal/model"
)

func openFeedPage(jobs string) string {
	return fmt.Sprintf(`{"jobs": [%s]}`, jobs)
}

func openFeedJobJSON(title, url, published string) string {
	return fmt.Sprintf(`{
		"title": %q,
		"company_name": "Acme Corp",
		"job_geo_location": "Remote",
		"url": %q,
		"publication_date": %q
	}`, title, url, published)
}

func TestOpenFeed_KeepsRecentDropsStale(t *testing.T) {
	fresh := iso(testNow.Add(-2 * time.Hour))
	stale := iso(testNow.Add(-80 * time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, openFeedPage(
				openFeedJobJSON("Data Analyst", "https://x.com/job/1", fresh)+","+
					openFeedJobJSON("Old Analyst", "https://x.com/job/2", stale),
			))
		default:
			fmt.Fprint(w, openFeedPage(""))
		}
	}))
	defer srv.Close()

	a := NewOpenFeedAdapter(OpenFeedConfig{BaseURL: srv.URL}, testClient(), testLogger())
	jobs, diag := a.Fetch(context.Background(), testNow)

	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if jobs[0].Title != "Data Analyst" {
		t.Errorf("kept wrong job: %+v", jobs[0])
	}
	if !jobs[0].Hot {
		t.Errorf("job posted 2h ago should be hot")
	}
	if jobs[0].Source != model.SourceOpenFeed {
		t.Errorf("source = %s, want OpenFeed", jobs[0].Source)
	}
	if diag.Fetched != 2 || diag.Kept != 1 {
		t.Errorf("diag = %+v, want fetched=2 kept=1", diag)
	}
	if diag.LastError != "" {
		t.Errorf("unexpected error in diagnostics: %s", diag.LastError)
	}
}

func TestOpenFeed_StopsOnStalePage(t *testing.T) {
	fresh := iso(testNow.Add(-1 * time.Hour))
	stale := iso(testNow.Add(-100 * time.Hour))

	var pagesServed int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pagesServed++
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, openFeedPage(openFeedJobJSON("Analyst I", "https://x.com/job/1", fresh)))
		case "2":
			fmt.Fprint(w, openFeedPage(openFeedJobJSON("Analyst II", "https://x.com/job/2", stale)))
		default:
			fmt.Fprint(w, openFeedPage(openFeedJobJSON("Analyst III", "https://x.com/job/3", fresh)))
		}
	}))
	defer srv.Close()

	a := NewOpenFeedAdapter(OpenFeedConfig{BaseURL: srv.URL}, testClient(), testLogger())
	jobs, _ := a.Fetch(context.Background(), testNow)

	// Page 2 yields zero kept records, so page 3 must never be requested.
	if pagesServed != 2 {
		t.Errorf("pages served = %d, want 2", pagesServed)
	}
	if len(jobs) != 1 {
		t.Errorf("expected 1 job, got %d", len(jobs))
	}
}

func TestOpenFeed_TransportFailureReturnsPartial(t *testing.T) {
	fresh := iso(testNow.Add(-1 * time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, openFeedPage(openFeedJobJSON("Analyst", "https://x.com/job/1", fresh)))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewOpenFeedAdapter(OpenFeedConfig{BaseURL: srv.URL}, testClient(), testLogger())
	jobs, diag := a.Fetch(context.Background(), testNow)

	if len(jobs) != 1 {
		t.Fatalf("expected partial result of 1 job, got %d", len(jobs))
	}
	if diag.LastError == "" {
		t.Error("expected transport error recorded in diagnostics")
	}
}

func TestOpenFeed_DropsJobsWithoutURL(t *testing.T) {
	fresh := iso(testNow.Add(-1 * time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, openFeedPage(openFeedJobJSON("No Link Analyst", "", fresh)))
			return
		}
		fmt.Fprint(w, openFeedPage(""))
	}))
	defer srv.Close()

	a := NewOpenFeedAdapter(OpenFeedConfig{BaseURL: srv.URL}, testClient(), testLogger())
	jobs, diag := a.Fetch(context.Background(), testNow)

	if len(jobs) != 0 {
		t.Fatalf("expected 0 jobs, got %d", len(jobs))
	}
	if diag.Fetched != 1 || diag.Kept != 0 {
		t.Errorf("diag = %+v, want fetched=1 kept=0", diag)
	}
}

func TestOpenFeed_UnparsableDateKeptWithSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, openFeedPage(openFeedJobJSON("Mystery Analyst", "https://x.com/job/9", "no idea")))
			return
		}
		fmt.Fprint(w, openFeedPage(""))
	}))
	defer srv.Close()

	a := NewOpenFeedAdapter(OpenFeedConfig{BaseURL: srv.URL}, testClient(), testLogger())
	jobs, _ := a.Fetch(context.Background(), testNow)

	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if jobs[0].PostedAt != model.UnknownPostedAt {
		t.Errorf("PostedAt = %q, want sentinel", jobs[0].PostedAt)
	}
	if jobs[0].Hot {
		t.Error("unknown-date job must not be hot")
	}
}
