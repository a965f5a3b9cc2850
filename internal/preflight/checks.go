package preflight

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"yt2audio/internal/config"
	"yt2audio/internal/deps"
)

// Pinger is satisfied by the metadata cache.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCache pings the redis metadata cache with a short timeout.
func CheckCache(ctx context.Context, addr string, cache Pinger) Result {
	const name = "Metadata cache"
	if cache == nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not connected)", addr)}
	}
	checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := cache.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", addr, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable)", addr)}
}

// CheckSystemDeps evaluates the external tools named in cfg. The run and
// serve commands and the deps command share this list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries([]deps.Requirement{
		{
			Name:        "yt-dlp",
			Command:     cfg.Tools.YtDLP,
			Description: "Required for metadata, audio and subtitles",
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.Tools.FFmpeg,
			Description: "Required for splitting and cover compression",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Tools.FFprobe,
			Description: "Reads audio tags to backfill descriptions",
			Optional:    true,
		},
	})
}
