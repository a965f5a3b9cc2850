package testsupport

import (
	"testing"

	"yt2audio/internal/config"
	"yt2audio/internal/history"
)

// MustOpenHistory opens the run history for cfg and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
