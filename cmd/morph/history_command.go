package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"morph/internal/history"
)

func newHistoryCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int
	var owner string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLedger(cmdCtx)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			var entries []history.Entry
			if owner != "" {
				entries, err = store.ListByOwner(ctx, owner, limit)
			} else {
				entries, err = store.List(ctx, limit)
			}
			if err != nil {
				return fmt.Errorf("list conversions: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No conversions recorded")
				return nil
			}

			headers := []string{"ID", "When", "Owner", "File", "Target", "Outcome", "Output", "Duration"}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				outcome := string(entry.Outcome)
				if entry.Outcome == history.OutcomeFailed && entry.ErrorKind != "" {
					outcome = fmt.Sprintf("%s (%s)", outcome, entry.ErrorKind)
				}
				rows = append(rows, []string{
					strconv.FormatInt(entry.ID, 10),
					entry.CreatedAt.Local().Format("2006-01-02 15:04"),
					entry.OwnerID,
					entry.FileName,
					entry.TargetExt,
					outcome,
					humanize.IBytes(uint64(entry.OutputBytes)),
					entry.Duration.Round(time.Millisecond).String(),
				})
			}
			fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignRight}))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show")
	cmd.Flags().StringVar(&owner, "owner", "", "Only show conversions for this user")

	cmd.AddCommand(newHistorySummaryCommand(cmdCtx))
	return cmd
}

func newHistorySummaryCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show aggregate conversion counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLedger(cmdCtx)
			if err != nil {
				return err
			}
			defer store.Close()

			summary, err := store.Summarize(cmd.Context())
			if err != nil {
				return fmt.Errorf("summarize conversions: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total:     %d\n", summary.Total)
			fmt.Fprintf(out, "Completed: %d\n", summary.Completed)
			fmt.Fprintf(out, "Failed:    %d\n", summary.Failed)
			return nil
		},
	}
}

func openLedger(cmdCtx *commandContext) (*history.Store, error) {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, errors.New("history ledger is disabled in configuration")
	}
	store, err := history.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open history ledger: %w", err)
	}
	return store, nil
}
