package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/priyamv/jobhub/internal/store"
)

var (
	markNotes    string
	markFollowUp string
)

var markCmd = &cobra.Command{
	Use:   "mark <id> [status]",
	Short: "Update a job's review status, notes, or follow-up date",
	Long: `Updates a stored job by ID. Status is one of New, Saved, Applied, Rejected;
marking a job Applied also schedules a follow-up reminder four days out.
Use --notes and --follow-up to set those fields without changing status.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runMark,
}

func init() {
	markCmd.Flags().StringVar(&markNotes, "notes", "", "set notes on the job")
	markCmd.Flags().StringVar(&markFollowUp, "follow-up", "", "set follow-up date (YYYY-MM-DD)")
	rootCmd.AddCommand(markCmd)
}

func runMark(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid job id %q", args[0])
	}
	if len(args) < 2 && markNotes == "" && markFollowUp == "" {
		return fmt.Errorf("nothing to update: give a status, --notes, or --follow-up")
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

	if len(args) == 2 {
		if err := st.UpdateStatus(id, args[1]); err != nil {
			return err
		}
		logger.Info("status updated", "id", id, "status", args[1])
	}
	if markNotes != "" {
		if err := st.UpdateNotes(id, markNotes); err != nil {
			return err
		}
		logger.Info("notes updated", "id", id)
	}
	if markFollowUp != "" {
		t, err := time.Parse("2006-01-02", markFollowUp)
		if err != nil {
			return fmt.Errorf("invalid follow-up date %q (want YYYY-MM-DD)", markFollowUp)
		}
		if err := st.UpdateFollowUp(id, t); err != nil {
			return err
		}
		logger.Info("follow-up updated", "id", id, "follow_up", markFollowUp)
	}
	return nil
}
