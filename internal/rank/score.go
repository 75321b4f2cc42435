// Package rank computes the priority score used to order stored jobs.
package rank

import (
	"sort"
	"strings"
	"time"

	"github.com/priyamv/jobhub/internal/dates"
	"github.com/priyamv/jobhub/internal/model"
)

// Score bounds.
const (
	minScore = 1
	maxScore = 10
)

// metroLexicon is the location lexicon that earns the location bonus.
var metroLexicon = []string{"toronto", "mississauga", "windsor", "kitchener", "waterloo", "kw"}

// Score computes a priority in [1,10] for one job against the caller's
// preferences and reference time:
//
//	base 1
//	+2 any target role appears in the title
//	+2 location mentions a watched metro
//	+2 posted within 12h, or +1 within 48h (unknown dates add nothing)
//	+1 company matches a target company (containment either way)
//
// Pure and allocation-light; it runs on every filter application.
func Score(job model.Job, now time.Time, targetRoles, targetCompanies []string) int {
	score := minScore

	title := strings.ToLower(job.Title)
	for _, role := range targetRoles {
		if role != "" && strings.Contains(title, strings.ToLower(role)) {
			score += 2
			break
		}
	}

	location := strings.ToLower(job.Location)
	for _, metro := range metroLexicon {
		if strings.Contains(location, metro) {
			score += 2
			break
		}
	}

	if t, ok := dates.ParseAbsolute(job.PostedAt); ok {
		switch w := dates.At(t, now); {
		case w.Within12h:
			score += 2
		case w.Within48h:
			score++
		}
	}

	if company := strings.ToLower(job.Company); company != "" {
		for _, target := range targetCompanies {
			tl := strings.ToLower(target)
			if tl == "" {
				continue
			}
			if strings.Contains(company, tl) || strings.Contains(tl, company) {
				score++
				break
			}
		}
	}

	if score > maxScore {
		return maxScore
	}
	return score
}

// Scored pairs a job with its computed priority.
type Scored struct {
	Job   model.Job
	Score int
}

// Rank scores every job and sorts by score descending, most recently
// posted first within a score.
func Rank(jobs []model.Job, now time.Time, targetRoles, targetCompanies []string) []Scored {
	ranked := make([]Scored, 0, len(jobs))
	for _, j := range jobs {
		ranked = append(ranked, Scored{Job: j, Score: Score(j, now, targetRoles, targetCompanies)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Job.PostedAt > ranked[j].Job.PostedAt
	})
	return ranked
}
