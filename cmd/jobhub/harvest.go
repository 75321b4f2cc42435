package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/priyamv/jobhub/internal/harvest"
	"github.com/priyamv/jobhub/internal/source"
	"github.com/priyamv/jobhub/internal/store"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Fetch recent jobs from all enabled sources",
	Long:  "Harvests every enabled source concurrently, dedupes the results, and inserts new postings into the local database.",
	RunE:  runHarvest,
}

func init() {
	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	client := source.NewClient(cfg.Harvest.RequestTimeout, cfg.Harvest.RequestsPerSec, cfg.Harvest.Burst)
	adapters := buildAdapters(cfg, client, logger)
	if len(adapters) == 0 {
		logger.Error("no sources enabled")
		os.Exit(1)
	}

	st, err := store.New(cfg.Database)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := harvest.NewHarvester(adapters, cfg.Harvest.AdapterTimeout, logger)
	jobs, report := h.Run(ctx, time.Now().UTC())
	jobs = harvest.Dedupe(jobs)

	added, err := st.AddBatch(jobs)
	if err != nil {
		logger.Error("failed to save jobs", "error", err)
		os.Exit(1)
	}

	logger.Info("harvest complete",
		"fetched", report.TotalFetched(),
		"kept", report.TotalKept(),
		"unique", len(jobs),
		"new", added,
	)
	return nil
}
