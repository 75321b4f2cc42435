package harvest

import (
	"sort"

	"github.com/priyamv/jobhub/internal/model"
)

// Dedupe collapses records sharing an identity key (url, title, company)
// to a single record, preferring a hot duplicate over a cold one. The
// stable hot-first sort means first-seen-per-key after sorting is the
// best duplicate, so one map pass suffices.
func Dedupe(jobs []model.Job) []model.Job {
	sorted := make([]model.Job, len(jobs))
	copy(sorted, jobs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Hot && !sorted[j].Hot
	})

	seen := make(map[model.Key]struct{}, len(sorted))
	deduped := make([]model.Job, 0, len(sorted))
	for _, job := range sorted {
		key := job.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, job)
	}
	return deduped
}
