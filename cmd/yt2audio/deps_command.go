package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"yt2audio/internal/api"
	"yt2audio/internal/config"
	"yt2audio/internal/deps"
	"yt2audio/internal/logging"
	"yt2audio/internal/metacache"
	"yt2audio/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check external tools and writable directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := preflight.CheckSystemDeps(cfg)
			var pinger preflight.Pinger
			if cache := openCacheForCheck(cmd.Context(), cfg); cache != nil {
				defer cache.Close()
				pinger = cache
			}
			checks := preflight.RunAll(cmd.Context(), cfg, pinger)

			if jsonOutput {
				return writeJSON(cmd, api.HealthResponse{
					Status:       healthStatus(statuses, checks),
					Checks:       api.FromChecks(checks),
					Dependencies: api.FromDependencies(statuses),
				})
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				location := s.Path
				if !s.Available {
					location = s.Detail
				}
				rows = append(rows, []string{s.Name, s.Command, yesNo(s.Available), yesNo(s.Optional), location})
			}
			fmt.Fprintln(out, renderTable([]string{"Tool", "Command", "Available", "Optional", "Location"}, rows, nil))

			checkRows := make([][]string, 0, len(checks))
			for _, c := range checks {
				checkRows = append(checkRows, []string{c.Name, yesNo(c.Passed), c.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Passed", "Detail"}, checkRows, nil))

			if missing := deps.Missing(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required tool(s) missing", len(missing))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// openCacheForCheck connects to the metadata cache when it is enabled. A
// failed connection yields nil, which the cache check reports as unreachable.
func openCacheForCheck(ctx context.Context, cfg *config.Config) *metacache.Cache {
	if !cfg.CacheEnabled() {
		return nil
	}
	cache, err := metacache.Open(ctx, metacache.Options{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
		TTL:      cfg.CacheTTL(),
	}, logging.NewNop())
	if err != nil {
		return nil
	}
	return cache
}

func healthStatus(statuses []deps.Status, checks []preflight.Result) string {
	if len(deps.Missing(statuses)) > 0 || len(preflight.Failed(checks)) > 0 {
		return "degraded"
	}
	return "ok"
}
