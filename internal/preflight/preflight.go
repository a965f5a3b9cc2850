package preflight

import (
	"context"

	"yt2audio/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks that apply to cfg. cache may be nil when the
// metadata cache is disabled.
func RunAll(ctx context.Context, cfg *config.Config, cache Pinger) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Store directory", cfg.Paths.StoreDir))

	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	if cfg.CacheEnabled() {
		results = append(results, CheckCache(ctx, cfg.Cache.RedisAddr, cache))
	}

	return results
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
