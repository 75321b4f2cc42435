// Package filter narrows stored jobs for the list and export commands.
package filter

import (
	"strings"

	"github.com/priyamv/jobhub/internal/model"
)

// Criteria selects jobs by free-text search, role, location, and source.
// Empty fields are treated as "match all". Matching is case-insensitive
// substring.
type Criteria struct {
	Search   string         // matched against title or company
	Role     string         // matched against title
	Location string         // matched against location; "kw" covers Kitchener/Waterloo
	Sources  []model.Source // empty means any source
}

// Match reports whether the job satisfies every non-empty criterion.
func (c Criteria) Match(job model.Job) bool {
	title := strings.ToLower(job.Title)
	company := strings.ToLower(job.Company)
	location := strings.ToLower(job.Location)

	if s := strings.ToLower(strings.TrimSpace(c.Search)); s != "" {
		if !strings.Contains(title, s) && !strings.Contains(company, s) {
			return false
		}
	}

	if r := strings.ToLower(strings.TrimSpace(c.Role)); r != "" {
		if !strings.Contains(title, r) {
			return false
		}
	}

	if l := strings.ToLower(strings.TrimSpace(c.Location)); l != "" {
		if !matchLocation(location, l) {
			return false
		}
	}

	if len(c.Sources) > 0 {
		matched := false
		for _, src := range c.Sources {
			if job.Source == src {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// matchLocation handles the "kw" shorthand the rest of the matching can't:
// it stands for the Kitchener/Waterloo region, not a literal substring.
func matchLocation(location, want string) bool {
	if want == "kw" {
		return strings.Contains(location, "kitchener") ||
			strings.Contains(location, "waterloo") ||
			strings.Contains(location, "kw")
	}
	return strings.Contains(location, want)
}
