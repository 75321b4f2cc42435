// Package export renders stored jobs as Markdown, CSV, or JSON feeds.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/priyamv/jobhub/internal/dates"
	"github.com/priyamv/jobhub/internal/store"
)

// statusOrder fixes the section order in the Markdown feed.
var statusOrder = []string{store.StatusNew, store.StatusSaved, store.StatusApplied, store.StatusRejected}

// Markdown writes a human-readable feed grouped by review status.
func Markdown(w io.Writer, records []store.Record, now time.Time) error {
	if _, err := fmt.Fprintf(w, "# Job Feed\n\nGenerated: %s\n\n", dates.Format(now)); err != nil {
		return fmt.Errorf("write markdown header: %w", err)
	}

	byStatus := make(map[string][]store.Record)
	for _, r := range records {
		byStatus[r.Status] = append(byStatus[r.Status], r)
	}

	for _, status := range statusOrder {
		group := byStatus[status]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(w, "## %s (%d)\n\n", status, len(group))
		for _, r := range group {
			fmt.Fprintf(w, "### %s\n", r.Job.Title)
			fmt.Fprintf(w, "- **Company**: %s\n", r.Job.Company)
			fmt.Fprintf(w, "- **Location**: %s\n", r.Job.Location)
			fmt.Fprintf(w, "- **Source**: %s\n", r.Job.Source)
			fmt.Fprintf(w, "- **Posted**: %s\n", dates.Age(r.Job.PostedAt, now))
			fmt.Fprintf(w, "- **Status**: %s\n", r.Status)
			fmt.Fprintf(w, "- **Link**: [%s](%s)\n\n", r.Job.URL, r.Job.URL)
		}
	}

	if _, err := fmt.Fprintf(w, "---\nTotal jobs: %d\n", len(records)); err != nil {
		return fmt.Errorf("write markdown footer: %w", err)
	}
	return nil
}

// CSV writes one row per job with a header line.
func CSV(w io.Writer, records []store.Record, now time.Time) error {
	cw := csv.NewWriter(w)

	header := []string{"Title", "Company", "Location", "Source", "Posted Age", "Posted At", "Status", "URL"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Job.Title,
			r.Job.Company,
			r.Job.Location,
			string(r.Job.Source),
			dates.Age(r.Job.PostedAt, now),
			r.Job.PostedAt,
			r.Status,
			r.Job.URL,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// jsonRecord is the stable export shape; it flattens Record so consumers
// don't depend on internal struct layout.
type jsonRecord struct {
	Title      string `json:"title"`
	Company    string `json:"company"`
	Location   string `json:"location"`
	URL        string `json:"url"`
	PostedAt   string `json:"posted_at"`
	Source     string `json:"source"`
	Status     string `json:"status"`
	AddedAt    string `json:"added_at"`
	AppliedAt  string `json:"applied_at,omitempty"`
	FollowUpAt string `json:"follow_up_at,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// JSON writes the records as an indented JSON array.
func JSON(w io.Writer, records []store.Record) error {
	out := make([]jsonRecord, 0, len(records))
	for _, r := range records {
		out = append(out, jsonRecord{
			Title:      r.Job.Title,
			Company:    r.Job.Company,
			Location:   r.Job.Location,
			URL:        r.Job.URL,
			PostedAt:   r.Job.PostedAt,
			Source:     string(r.Job.Source),
			Status:     r.Status,
			AddedAt:    r.AddedAt,
			AppliedAt:  r.AppliedAt,
			FollowUpAt: r.FollowUpAt,
			Notes:      r.Notes,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
