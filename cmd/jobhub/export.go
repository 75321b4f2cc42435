package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/priyamv/jobhub/internal/export"
	"github.com/priyamv/jobhub/internal/store"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the stored feed to a file",
	Long:  "Exports all stored jobs as markdown, csv, or json. The default output path is job_feed.<ext> in the current directory.",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "markdown", "output format: markdown, csv, or json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path (default: job_feed.<ext>)")
	rootCmd.AddCommand(exportCmd)
}

var exportExtensions = map[string]string{
	"markdown": "md",
	"csv":      "csv",
	"json":     "json",
}

func runExport(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	ext, ok := exportExtensions[exportFormat]
	if !ok {
		return fmt.Errorf("unknown format %q (want markdown, csv, or json)", exportFormat)
	}
	out := exportOut
	if out == "" {
		out = "job_feed." + ext
	}

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

	records, err := st.All()
	if err != nil {
		logger.Error("failed to load jobs", "error", err)
		os.Exit(1)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close()

	now := time.Now().UTC()
	switch exportFormat {
	case "markdown":
		err = export.Markdown(f, records, now)
	case "csv":
		err = export.CSV(f, records, now)
	case "json":
		err = export.JSON(f, records)
	}
	if err != nil {
		return fmt.Errorf("exporting feed: %w", err)
	}

	logger.Info("feed exported", "format", exportFormat, "path", out, "jobs", len(records))
	return nil
}
