package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"yt2audio/internal/pipeline"
)

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("run not found")

// Run is one recorded pipeline invocation.
type Run struct {
	RunID        string                `json:"run_id"`
	MovieID      string                `json:"movie_id"`
	Title        string                `json:"title"`
	Command      string                `json:"command"`
	Params       []string              `json:"params"`
	Parts        int                   `json:"parts"`
	Duration     int                   `json:"duration_seconds"`
	Outcome      string                `json:"outcome"`
	ErrorMessage string                `json:"error_message,omitempty"`
	Diagnostics  []pipeline.Diagnostic `json:"diagnostics"`
	Elapsed      time.Duration         `json:"elapsed"`
	CreatedAt    time.Time             `json:"created_at"`
}

// FromResult builds a Run from a finished pipeline result.
func FromResult(result pipeline.Result, title string, params []string, at time.Time) Run {
	run := Run{
		RunID:       result.RunID,
		MovieID:     result.MovieID,
		Title:       title,
		Command:     result.Command,
		Params:      append([]string(nil), params...),
		Parts:       len(result.AudioDatas),
		Duration:    result.Duration,
		Outcome:     result.Outcome(),
		Diagnostics: append([]pipeline.Diagnostic(nil), result.Diagnostics...),
		Elapsed:     result.Elapsed,
		CreatedAt:   at.UTC(),
	}
	for _, d := range result.Diagnostics {
		if d.Kind == pipeline.KindError {
			run.ErrorMessage = d.Message
			break
		}
	}
	return run
}

// Warnings returns the number of warnings recorded for the run.
func (r Run) Warnings() int {
	count := 0
	for _, d := range r.Diagnostics {
		if d.Kind == pipeline.KindWarning {
			count++
		}
	}
	return count
}

// Record inserts run. Recording the same run id twice fails.
func (s *Store) Record(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.RunID) == "" {
		return errors.New("record run: run id required")
	}
	params, err := json.Marshal(nonNil(run.Params))
	if err != nil {
		return fmt.Errorf("encode params: %w", err)
	}
	diagnostics, err := json.Marshal(nonNil(run.Diagnostics))
	if err != nil {
		return fmt.Errorf("encode diagnostics: %w", err)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err = s.execWithRetry(ctx, `INSERT INTO runs (
		run_id, movie_id, title, command, params, parts, duration_seconds,
		outcome, error_message, diagnostics, elapsed_ms, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.MovieID, run.Title, run.Command, string(params), run.Parts, run.Duration,
		run.Outcome, run.ErrorMessage, string(diagnostics), run.Elapsed.Milliseconds(),
		run.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

const selectRuns = `SELECT run_id, movie_id, title, command, params, parts, duration_seconds,
	outcome, error_message, diagnostics, elapsed_ms, created_at FROM runs`

// List returns the most recent runs first. A non-empty movieID restricts the
// result to that movie. limit <= 0 means 50.
func (s *Store) List(ctx context.Context, movieID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	query := selectRuns
	args := []any{}
	if movieID = strings.TrimSpace(movieID); movieID != "" {
		query += " WHERE movie_id = ?"
		args = append(args, movieID)
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Get returns a single run.
func (s *Store) Get(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+" WHERE run_id = ?", runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return run, err
}

// Prune deletes runs created before cutoff and returns how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.execWithRetry(ctx, "DELETE FROM runs WHERE created_at < ?", cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run         Run
		params      string
		diagnostics string
		elapsedMS   int64
		createdAt   string
	)
	if err := row.Scan(&run.RunID, &run.MovieID, &run.Title, &run.Command, &params, &run.Parts,
		&run.Duration, &run.Outcome, &run.ErrorMessage, &diagnostics, &elapsedMS, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if err := json.Unmarshal([]byte(params), &run.Params); err != nil {
		return Run{}, fmt.Errorf("decode params: %w", err)
	}
	if err := json.Unmarshal([]byte(diagnostics), &run.Diagnostics); err != nil {
		return Run{}, fmt.Errorf("decode diagnostics: %w", err)
	}
	run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	parsed, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("decode created_at: %w", err)
	}
	run.CreatedAt = parsed
	return run, nil
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}
