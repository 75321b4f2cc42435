package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/priyamv/jobhub/internal/model"
)

// testRoster points every employer at the given test server.
func testRoster(srv *httptest.Server, slugs ...string) []Employer {
	host := strings.TrimPrefix(srv.URL, "http://")
	roster := make([]Employer, 0, len(slugs))
	for _, slug := range slugs {
		roster = append(roster, Employer{
			Name:    strings.ToUpper(slug),
			Slug:    slug,
			Host:    host,
			Company: strings.ToUpper(slug) + " Inc",
		})
	}
	return roster
}

func employerAdapter(srv *httptest.Server, slugs ...string) *EmployerBoardAdapter {
	cfg := EmployerBoardConfig{Employers: testRoster(srv, slugs...), Scheme: "http"}
	return NewEmployerBoardAdapter(cfg, testClient(), testLogger())
}

func TestEmployerBoard_OneFailureSkipsOnlyThatEmployer(t *testing.T) {
	fresh := iso(testNow.Add(-2 * time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/cxs/alpha/"):
			w.WriteHeader(http.StatusServiceUnavailable)
		case strings.Contains(r.URL.Path, "/cxs/beta/"):
			fmt.Fprintf(w, `{"jobPostings": [{
				"title": "Data Analyst",
				"postedOn": %q,
				"url": "https://careers.beta.example/jobs/1",
				"location": "Toronto, ON"
			}]}`, fresh)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	a := employerAdapter(srv, "alpha", "beta")
	jobs, diag := a.Fetch(context.Background(), testNow)

	if len(jobs) != 1 {
		t.Fatalf("expected 1 job from the healthy employer, got %d", len(jobs))
	}
	if jobs[0].Company != "BETA Inc" {
		t.Errorf("company = %q", jobs[0].Company)
	}
	if !strings.Contains(diag.LastError, "ALPHA") {
		t.Errorf("LastError = %q, want the failed employer named", diag.LastError)
	}
}

func TestEmployerBoard_MalformedPayloadSkipped(t *testing.T) {
	fresh := iso(testNow.Add(-1 * time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/cxs/broken/") {
			fmt.Fprint(w, `{not json`)
			return
		}
		fmt.Fprintf(w, `{"jobs": [{
			"jobTitle": "BI Analyst",
			"datePosted": %q,
			"jobUrl": "https://careers.ok.example/jobs/2"
		}]}`, fresh)
	}))
	defer srv.Close()

	a := employerAdapter(srv, "broken", "ok")
	jobs, diag := a.Fetch(context.Background(), testNow)

	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	// Fallback field names: jobs / jobTitle / datePosted / jobUrl.
	if jobs[0].Title != "BI Analyst" {
		t.Errorf("title = %q", jobs[0].Title)
	}
	if diag.LastError == "" {
		t.Error("expected the malformed payload recorded in diagnostics")
	}
}

func TestEmployerBoard_CompletesRelativeURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jobPostings": [{
			"title": "Analyst",
			"externalPath": "/en-US/careers/job/12345"
		}]}`)
	}))
	defer srv.Close()

	a := employerAdapter(srv, "gamma")
	jobs, _ := a.Fetch(context.Background(), testNow)

	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	host := strings.TrimPrefix(srv.URL, "http://")
	want := "http://" + host + "/en-US/careers/job/12345"
	if jobs[0].URL != want {
		t.Errorf("URL = %q, want %q", jobs[0].URL, want)
	}
	// No posted date: kept with the sentinel, never hot.
	if jobs[0].PostedAt != model.UnknownPostedAt {
		t.Errorf("PostedAt = %q, want sentinel", jobs[0].PostedAt)
	}
	if jobs[0].Hot {
		t.Error("undated posting must not be hot")
	}
	if jobs[0].Location != "Canada" {
		t.Errorf("location = %q, want default Canada", jobs[0].Location)
	}
}

func TestEmployerBoard_DropsStaleAndURLless(t *testing.T) {
	stale := iso(testNow.Add(-72 * time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"jobPostings": [
			{"title": "Stale", "postedOn": %q, "url": "https://x.example/1"},
			{"title": "No URL", "postedOn": %q}
		]}`, stale, iso(testNow.Add(-time.Hour)))
	}))
	defer srv.Close()

	a := employerAdapter(srv, "delta")
	jobs, diag := a.Fetch(context.Background(), testNow)

	if len(jobs) != 0 {
		t.Fatalf("expected 0 jobs, got %d", len(jobs))
	}
	if diag.Fetched != 2 || diag.Kept != 0 {
		t.Errorf("diag = %+v, want fetched=2 kept=0", diag)
	}
}
