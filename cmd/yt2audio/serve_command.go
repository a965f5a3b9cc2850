package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"yt2audio/internal/daemon"
	"yt2audio/internal/deps"
	"yt2audio/internal/logging"
	"yt2audio/internal/preflight"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			rt, err := ctx.app(cmd)
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if failed := preflight.Failed(preflight.RunAll(signalCtx, rt.cfg, rt.pinger())); len(failed) > 0 {
				names := make([]string, 0, len(failed))
				for _, check := range failed {
					names = append(names, fmt.Sprintf("%s (%s)", check.Name, check.Detail))
				}
				return fmt.Errorf("preflight failed: %s", strings.Join(names, "; "))
			}
			for _, status := range deps.Missing(preflight.CheckSystemDeps(rt.cfg)) {
				logging.WarnWithContext(rt.logger, "required tool unavailable", "dependency_missing",
					logging.String("dependency", status.Name),
					logging.String("command", status.Command),
					logging.String(logging.FieldErrorHint, "install it or set the path under [tools]"),
					logging.String(logging.FieldImpact, "requests fail until the tool is available"),
				)
			}

			d, err := daemon.New(rt.cfg, rt.processor, daemon.Options{
				Metrics: rt.metrics.Handler(),
				Cache:   rt.pinger(),
				Logger:  rt.logger,
			})
			if err != nil {
				return err
			}
			if err := d.Start(signalCtx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", d.Addr())

			<-signalCtx.Done()
			d.Stop()
			return nil
		},
	}
}
