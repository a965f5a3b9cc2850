package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"yt2audio/internal/api"
	"yt2audio/internal/history"
	"yt2audio/internal/timecodes"
)

const defaultHistoryLimit = 20

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		movieID    string
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			rt, err := ctx.app(cmd)
			if err != nil {
				return err
			}
			entries, err := rt.processor.History(cmd.Context(), movieID, limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, api.HistoryListResponse{Runs: entries})
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderHistory(entries, time.Now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&movieID, "movie", "", "Only runs for this video id")
	cmd.Flags().IntVar(&limit, "limit", defaultHistoryLimit, "Maximum runs to list")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	cmd.AddCommand(newHistoryPruneCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			rt, err := ctx.app(cmd)
			if err != nil {
				return err
			}
			entry, err := rt.processor.Describe(cmd.Context(), args[0])
			if errors.Is(err, history.ErrNotFound) {
				return fmt.Errorf("run %s not found", args[0])
			}
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, entry)
			}
			printHistoryEntry(cmd.OutOrStdout(), entry)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete runs older than the configured retention",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			rt, err := ctx.app(cmd)
			if err != nil {
				return err
			}
			removed, err := rt.processor.PruneHistory(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s)\n", removed)
			return nil
		},
	}
}

func renderHistory(entries []api.HistoryEntry, now time.Time) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.RunID,
			e.MovieID,
			e.Command,
			e.Outcome,
			strconv.Itoa(e.Parts),
			strconv.Itoa(e.Warnings),
			relativeTime(e.CreatedAt, now),
		})
	}
	return renderTable(
		[]string{"Run", "Video", "Command", "Outcome", "Parts", "Warnings", "When"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

func printHistoryEntry(out io.Writer, e api.HistoryEntry) {
	fmt.Fprintf(out, "Run:      %s\n", e.RunID)
	fmt.Fprintf(out, "Video:    %s\n", e.MovieID)
	if e.Title != "" {
		fmt.Fprintf(out, "Title:    %s\n", e.Title)
	}
	fmt.Fprintf(out, "Command:  %s\n", e.Command)
	if len(e.Params) > 0 {
		fmt.Fprintf(out, "Params:   %v\n", e.Params)
	}
	fmt.Fprintf(out, "Outcome:  %s\n", e.Outcome)
	if e.Error != "" {
		fmt.Fprintf(out, "Error:    %s\n", e.Error)
	}
	fmt.Fprintf(out, "Duration: %s\n", timecodes.Format(e.Duration))
	fmt.Fprintf(out, "Parts:    %d\n", e.Parts)
	fmt.Fprintf(out, "Elapsed:  %s\n", humanizeMillis(e.ElapsedMS))
	fmt.Fprintf(out, "Recorded: %s\n", e.CreatedAt)
	for _, d := range e.Diagnostics {
		fmt.Fprintf(out, "  %s [%s] %s\n", d.Kind, d.Stage, d.Message)
	}
}

// relativeTime renders an API timestamp as "3 minutes ago", falling back
// to the raw value when it does not parse.
func relativeTime(value string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
