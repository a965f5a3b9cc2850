package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"yt2audio/internal/api"
	"yt2audio/internal/services"
	"yt2audio/internal/timecodes"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		commandName string
		params      []string
		chatID      int64
		messageID   int64
		jsonOutput  bool
		wait        bool
	)

	cmd := &cobra.Command{
		Use:   "run <video>",
		Short: "Process one video and print the deliverables",
		Long: `Process one video id or watch URL in the foreground.

--command takes a command name (split, bitrate, subtitles) or a full
"/name p1 p2" line; --param appends further parameters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			rt, err := ctx.app(cmd)
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			resp, err := rt.processor.Process(signalCtx, api.ProcessRequest{
				Movie:     args[0],
				Command:   commandName,
				Params:    params,
				SenderID:  chatID,
				MessageID: messageID,
				Wait:      wait,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				if err := writeJSON(cmd, resp); err != nil {
					return err
				}
			} else {
				printRunResponse(cmd.OutOrStdout(), resp)
			}
			if resp.Outcome != services.OutcomeSucceeded {
				return fmt.Errorf("run %s %s: %s", resp.RunID, resp.Outcome, resp.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&commandName, "command", "", "Command name or full command line")
	cmd.Flags().StringSliceVar(&params, "param", nil, "Command parameter (repeatable)")
	cmd.Flags().Int64Var(&chatID, "chat-id", 0, "Chat the parts are addressed to")
	cmd.Flags().Int64Var(&messageID, "message-id", 0, "Message the parts reply to")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for a run already processing this video instead of failing")
	return cmd
}

func printRunResponse(out io.Writer, resp api.ProcessResponse) {
	title := resp.Title
	if title == "" {
		title = resp.MovieID
	}
	fmt.Fprintf(out, "%s (%s)\n", title, timecodes.Format(resp.Duration))
	fmt.Fprintf(out, "Run %s: %s in %s\n", resp.RunID, resp.Outcome, humanizeMillis(resp.ElapsedMS))

	if len(resp.Parts) > 0 {
		rows := make([][]string, 0, len(resp.Parts))
		for i, part := range resp.Parts {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				part.AudioFilename,
				timecodes.Format(part.Duration),
				fileSize(part.AudioPath),
				yesNo(part.ThumbnailPath != ""),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"#", "File", "Length", "Size", "Cover"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
		))
	}
	if s := resp.Subtitles; s != nil {
		fmt.Fprintf(out, "Subtitles: %s\n", s.Filename)
		if s.Path != "" {
			fmt.Fprintf(out, "Saved to: %s\n", s.Path)
		}
	}
	for _, d := range resp.Diagnostics {
		fmt.Fprintf(out, "%s [%s] %s\n", strings.ToUpper(d.Kind), d.Stage, d.Message)
	}
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "-"
	}
	return humanize.Bytes(uint64(info.Size()))
}

func humanizeMillis(ms int64) string {
	if ms < 1000 {
		return strconv.FormatInt(ms, 10) + "ms"
	}
	return strconv.FormatFloat(float64(ms)/1000, 'f', 1, 64) + "s"
}
