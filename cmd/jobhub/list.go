package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/priyamv/jobhub/internal/config"
	"github.com/priyamv/jobhub/internal/dates"
	"github.com/priyamv/jobhub/internal/filter"
	"github.com/priyamv/jobhub/internal/model"
	"github.com/priyamv/jobhub/internal/rank"
	"github.com/priyamv/jobhub/internal/store"
)

var (
	listStatus   string
	listSearch   string
	listRole     string
	listLocation string
	listSource   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored jobs, highest score first",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by review status (New, Saved, Applied, Rejected)")
	listCmd.Flags().StringVar(&listSearch, "search", "", "substring match on title or company")
	listCmd.Flags().StringVar(&listRole, "role", "", "substring match on title")
	listCmd.Flags().StringVar(&listLocation, "location", "", "substring match on location (\"kw\" covers Kitchener/Waterloo)")
	listCmd.Flags().StringVar(&listSource, "source", "", "filter by source name")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	st, err := store.New(cfg.Database)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	records, err := loadRecords(st, listStatus)
	if err != nil {
		logger.Error("failed to load jobs", "error", err)
		os.Exit(1)
	}

	crit := filter.Criteria{
		Search:   listSearch,
		Role:     listRole,
		Location: listLocation,
	}
	if listSource != "" {
		crit.Sources = []model.Source{model.Source(listSource)}
	}

	var matched []store.Record
	for _, r := range records {
		if crit.Match(r.Job) {
			matched = append(matched, r)
		}
	}

	now := time.Now().UTC()
	printRecords(matched, now, cfg.Preferences)
	return nil
}

func loadRecords(st *store.Store, status string) ([]store.Record, error) {
	if status == "" {
		return st.All()
	}
	return st.ByStatus(status)
}

// printRecords renders a score-sorted table of jobs to stdout.
func printRecords(records []store.Record, now time.Time, prefs config.PreferencesConfig) {
	scores := make(map[int64]int, len(records))
	for _, r := range records {
		scores[r.ID] = rank.Score(r.Job, now, prefs.TargetRoles, prefs.TargetCompanies)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return scores[records[i].ID] > scores[records[j].ID]
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCORE\tTITLE\tCOMPANY\tLOCATION\tPOSTED\tSOURCE\tSTATUS")
	for _, r := range records {
		title := r.Job.Title
		if r.Job.Hot {
			title = "* " + title
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			scores[r.ID],
			truncate(title, 50),
			truncate(r.Job.Company, 30),
			truncate(r.Job.Location, 30),
			dates.Age(r.Job.PostedAt, now),
			r.Job.Source,
			r.Status,
		)
	}
	w.Flush()
	fmt.Printf("\n%d job(s)\n", len(records))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n-1]) + "…"
}
