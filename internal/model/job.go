package model

import (
	"context"
	"time"
)

// Source identifies which external API a job came from.
type Source string

const (
	SourceOpenFeed      Source = "OpenFeed"
	SourceSearchProxy   Source = "SearchProxy"
	SourceEmployerBoard Source = "EmployerBoard"
	SourceRegionalAPI   Source = "RegionalAPI"
)

// UnknownPostedAt is stored in Job.PostedAt when the source supplied no
// posting date or one we could not parse. Jobs with this sentinel are
// always kept by the recency filter.
const UnknownPostedAt = "Unknown"

// Placeholder fills title/company/location fields a source left empty.
const Placeholder = "N/A"

// Job is the unified representation of a posting from any source.
type Job struct {
	Title    string // job title
	Company  string // company name
	Location string // location string
	URL      string // direct apply link; part of the identity key
	PostedAt string // RFC3339 UTC instant, or UnknownPostedAt
	Source   Source // which adapter produced this record
	Hot      bool   // posted within the 12h window at fetch time
}

// Key is the identity tuple used to recognize the same posting across
// sources.
type Key struct {
	URL     string
	Title   string
	Company string
}

// Key returns the job's dedup identity.
func (j Job) Key() Key {
	return Key{URL: j.URL, Title: j.Title, Company: j.Company}
}

// Diagnostics records what a single source did during one harvest.
// It is a read-only side channel for operator visibility; the pipeline
// never branches on it.
type Diagnostics struct {
	Fetched   int    // records seen before the recency filter
	Kept      int    // records that survived the filter
	LastError string // most recent error text, empty if none
}

// Adapter fetches raw listings from one external source and maps them to
// normalized jobs. Fetch never fails: transport and payload errors are
// absorbed into the returned Diagnostics and the result is best-effort
// partial.
type Adapter interface {
	Source() Source
	Fetch(ctx context.Context, now time.Time) ([]Job, Diagnostics)
}
