package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/priyamv/jobhub/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show job counts per review status",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
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

	counts, err := st.CountByStatus()
	if err != nil {
		logger.Error("failed to count jobs", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, status := range []string{store.StatusNew, store.StatusSaved, store.StatusApplied, store.StatusRejected} {
		fmt.Fprintf(w, "%s\t%d\n", status, counts[status])
	}
	fmt.Fprintf(w, "Total\t%d\n", counts["Total"])
	return w.Flush()
}
