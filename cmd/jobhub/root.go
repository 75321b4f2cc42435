package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/priyamv/jobhub/internal/config"
	"github.com/priyamv/jobhub/internal/model"
	"github.com/priyamv/jobhub/internal/source"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobhub",
	Short: "Job feed aggregator for analyst roles in Canada",
	Long:  "jobhub harvests recent job postings from several boards, dedupes and scores them, and keeps a local feed you can review and export.",
	// Default to `harvest` so that `jobhub` with no args refreshes the feed.
	RunE: runHarvest,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBHUB_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBHUB_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBHUB_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// buildAdapters constructs one adapter per enabled source.
func buildAdapters(cfg *config.Config, client *source.Client, logger *slog.Logger) []model.Adapter {
	var adapters []model.Adapter

	if cfg.Sources.OpenFeed.Enabled {
		adapters = append(adapters, source.NewOpenFeedAdapter(source.OpenFeedConfig{
			BaseURL: cfg.Sources.OpenFeed.BaseURL,
		}, client, logger))
	}
	if cfg.Sources.SearchProxy.Enabled {
		adapters = append(adapters, source.NewSearchProxyAdapter(source.SearchProxyConfig{
			BaseURL:    cfg.Sources.SearchProxy.BaseURL,
			APIKey:     cfg.Sources.SearchProxy.APIKey,
			Query:      cfg.Sources.SearchProxy.Query,
			WideSearch: cfg.WideSearch,
		}, client, logger))
	}
	if cfg.Sources.EmployerBoard.Enabled {
		adapters = append(adapters, source.NewEmployerBoardAdapter(source.EmployerBoardConfig{
			Employers: cfg.Sources.EmployerBoard.Employers,
		}, client, logger))
	}
	if cfg.Sources.Regional.Enabled {
		adapters = append(adapters, source.NewRegionalAdapter(source.RegionalConfig{
			BaseURL:  cfg.Sources.Regional.BaseURL,
			AppID:    cfg.Sources.Regional.AppID,
			AppKey:   cfg.Sources.Regional.AppKey,
			Keywords: cfg.Sources.Regional.Keywords,
		}, client, logger))
	}

	for _, a := range adapters {
		logger.Info("registered source", "source", a.Source())
	}
	return adapters
}
