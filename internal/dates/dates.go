// Package dates normalizes the date representations the job sources emit:
// ISO-8601 variants, relative phrases like "2 days ago", and nothing at
// all. Every function takes the reference time as a parameter so recency
// decisions are deterministic under test.
package dates

import (
	"strconv"
	"strings"
	"time"

	"github.com/priyamv/jobhub/internal/model"
)

// Recency thresholds shared by every adapter: jobs older than the keep
// window are discarded, jobs inside the hot window are flagged.
const (
	KeepWindow = 48 * time.Hour
	HotWindow  = 12 * time.Hour
)

// absoluteLayouts covers the shapes the sources actually send: trailing Z,
// explicit offset, naive datetime (assumed UTC), and date-only.
var absoluteLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseAbsolute parses an ISO-8601-ish timestamp into a UTC instant.
// Naive representations are assumed to already be UTC. Returns false on
// anything it cannot parse; it never panics or errors out.
func ParseAbsolute(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range absoluteLayouts {
		t, err := time.Parse(layout, text)
		if err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseRelative parses phrases of the form "<quantity> <unit> ago" and the
// literal "just now" against the supplied reference time. Quantity "a" or
// "an" means 1. Months are approximated as 30 days.
func ParseRelative(text string, now time.Time) (time.Time, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return time.Time{}, false
	}

	if strings.Contains(text, "just now") {
		return now.UTC(), true
	}

	parts := strings.Fields(text)
	if len(parts) < 2 {
		return time.Time{}, false
	}

	var n int
	switch parts[0] {
	case "a", "an":
		n = 1
	default:
		v, err := strconv.Atoi(parts[0])
		if err != nil {
			return time.Time{}, false
		}
		n = v
	}

	unit := parts[1]
	var delta time.Duration
	switch {
	case strings.Contains(unit, "day"):
		delta = time.Duration(n) * 24 * time.Hour
	case strings.Contains(unit, "hour"):
		delta = time.Duration(n) * time.Hour
	case strings.Contains(unit, "min"):
		delta = time.Duration(n) * time.Minute
	case strings.Contains(unit, "week"):
		delta = time.Duration(n) * 7 * 24 * time.Hour
	case strings.Contains(unit, "month"):
		delta = time.Duration(n) * 30 * 24 * time.Hour
	default:
		return time.Time{}, false
	}

	return now.UTC().Add(-delta), true
}

// Window reports where a posting time sits relative to the recency cutoffs.
type Window struct {
	Within48h bool
	Within12h bool
}

// Recency classifies a posted-at string against the keep and hot windows.
// Missing or unparsable dates are kept but never hot: unknown-date jobs
// are never discarded.
func Recency(postedAt string, now time.Time) Window {
	if postedAt == "" || postedAt == model.UnknownPostedAt {
		return Window{Within48h: true}
	}
	t, ok := ParseAbsolute(postedAt)
	if !ok {
		return Window{Within48h: true}
	}
	return At(t, now)
}

// At classifies an already-parsed instant against the recency windows.
func At(t time.Time, now time.Time) Window {
	return Window{
		Within48h: !t.Before(now.Add(-KeepWindow)),
		Within12h: !t.Before(now.Add(-HotWindow)),
	}
}

// Format renders an instant as the canonical RFC3339 UTC string stored in
// Job.PostedAt.
func Format(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Age renders a posted-at string as a short human age ("5m ago", "3h ago",
// "2d ago") for list and export output. Unknown or future dates come back
// as "N/A" and "Just now" respectively.
func Age(postedAt string, now time.Time) string {
	t, ok := ParseAbsolute(postedAt)
	if !ok {
		return "N/A"
	}

	seconds := int(now.UTC().Sub(t).Seconds())
	switch {
	case seconds < 0:
		return "Just now"
	case seconds < 60:
		return strconv.Itoa(seconds) + "s ago"
	case seconds < 3600:
		return strconv.Itoa(seconds/60) + "m ago"
	case seconds < 86400:
		return strconv.Itoa(seconds/3600) + "h ago"
	default:
		return strconv.Itoa(seconds/86400) + "d ago"
	}
}
