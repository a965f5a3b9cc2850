package api

import (
	"time"

	"yt2audio/internal/deps"
	"yt2audio/internal/history"
	"yt2audio/internal/pipeline"
	"yt2audio/internal/preflight"
)

// FromResult converts a pipeline result into its transport form.
func FromResult(result pipeline.Result, title string) ProcessResponse {
	resp := ProcessResponse{
		RunID:       result.RunID,
		MovieID:     result.MovieID,
		Title:       title,
		Command:     result.Command,
		Outcome:     result.Outcome(),
		Duration:    result.Duration,
		Parts:       make([]AudioPart, 0, len(result.AudioDatas)),
		Diagnostics: fromDiagnostics(result.Diagnostics),
		ElapsedMS:   result.Elapsed.Milliseconds(),
	}
	for _, d := range result.Diagnostics {
		if d.Kind == pipeline.KindError {
			resp.Error = d.Message
			break
		}
	}
	for _, p := range result.AudioDatas {
		resp.Parts = append(resp.Parts, AudioPart{
			ChatID:           p.ChatID,
			ReplyToMessageID: p.ReplyToMessageID,
			AudioPath:        p.AudioPath,
			AudioFilename:    p.AudioFilename,
			Duration:         p.Duration,
			ThumbnailPath:    p.ThumbnailPath,
			Caption:          p.Caption,
		})
	}
	if s := result.Subtitles; s != nil {
		resp.Subtitles = &SubtitlesFile{
			Caption:  s.Caption,
			Filename: s.Filename,
			Path:     s.Path,
			Text:     s.Text,
		}
	}
	return resp
}

// FromRun converts a recorded run.
func FromRun(run history.Run) HistoryEntry {
	params := run.Params
	if params == nil {
		params = []string{}
	}
	return HistoryEntry{
		RunID:       run.RunID,
		MovieID:     run.MovieID,
		Title:       run.Title,
		Command:     run.Command,
		Params:      params,
		Parts:       run.Parts,
		Duration:    run.Duration,
		Outcome:     run.Outcome,
		Error:       run.ErrorMessage,
		Warnings:    run.Warnings(),
		Diagnostics: fromDiagnostics(run.Diagnostics),
		ElapsedMS:   run.Elapsed.Milliseconds(),
		CreatedAt:   FormatTime(run.CreatedAt),
	}
}

// FromRuns converts a slice of recorded runs.
func FromRuns(runs []history.Run) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(runs))
	for _, run := range runs {
		out = append(out, FromRun(run))
	}
	return out
}

// FromDependencies converts binary availability results.
func FromDependencies(statuses []deps.Status) []DependencyStatus {
	out := make([]DependencyStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, DependencyStatus{
			Name:        s.Name,
			Command:     s.Command,
			Description: s.Description,
			Optional:    s.Optional,
			Available:   s.Available,
			Path:        s.Path,
			Detail:      s.Detail,
		})
	}
	return out
}

// FromChecks converts preflight results.
func FromChecks(results []preflight.Result) []CheckResult {
	out := make([]CheckResult, 0, len(results))
	for _, r := range results {
		out = append(out, CheckResult{Name: r.Name, Passed: r.Passed, Detail: r.Detail})
	}
	return out
}

// FormatTime renders t in the API timestamp format, or "" for the zero time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}

func fromDiagnostics(diags []pipeline.Diagnostic) []Diagnostic {
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, Diagnostic{Kind: string(d.Kind), Stage: d.Stage, Message: d.Message})
	}
	return out
}
