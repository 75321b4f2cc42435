package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/priyamv/jobhub/internal/review"
	"github.com/priyamv/jobhub/internal/store"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Interactively triage stored jobs",
	Long:  "Opens a terminal UI to walk the feed and mark jobs Saved, Applied, or Rejected, or delete them.",
	RunE:  runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
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

	return review.Run(st)
}
