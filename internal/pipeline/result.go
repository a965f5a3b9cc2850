package pipeline

import (
	"errors"
	"time"

	"yt2audio/internal/payload"
	"yt2audio/internal/services"
)

// Kind classifies a diagnostic.
type Kind string

const (
	// KindError halts the run.
	KindError Kind = "error"
	// KindWarning records a degraded step; the run continues.
	KindWarning Kind = "warning"
)

// Diagnostic is one error or warning raised during a run.
type Diagnostic struct {
	Kind    Kind   `json:"kind"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// SubtitlesPayload is returned instead of audio parts for the subtitles command.
type SubtitlesPayload struct {
	Caption  string `json:"caption"`
	Text     string `json:"text"`
	Filename string `json:"filename"`
	// Path is the saved text file, empty when nothing was written.
	Path string `json:"path,omitempty"`
}

// Result is the outcome of one run. Diagnostics keep every warning in the
// order raised; at most one error is recorded because errors halt the run.
type Result struct {
	RunID       string            `json:"run_id"`
	MovieID     string            `json:"movie_id"`
	Command     string            `json:"command"`
	Diagnostics []Diagnostic      `json:"diagnostics,omitempty"`
	Duration    int               `json:"duration"`
	AudioDatas  []payload.Payload `json:"audio_datas,omitempty"`
	Subtitles   *SubtitlesPayload `json:"subtitles,omitempty"`
	Elapsed     time.Duration     `json:"-"`
}

// Err returns the fatal error of the run, or nil.
func (r Result) Err() error {
	for _, d := range r.Diagnostics {
		if d.Kind != KindError {
			continue
		}
		if d.Err != nil {
			return d.Err
		}
		return errors.New(d.Message)
	}
	return nil
}

// Failed reports whether the run halted on an error.
func (r Result) Failed() bool {
	return r.Err() != nil
}

// Warnings returns the warnings in the order raised.
func (r Result) Warnings() []Diagnostic {
	var warnings []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind == KindWarning {
			warnings = append(warnings, d)
		}
	}
	return warnings
}

// Outcome returns the outcome label used by history and metrics.
func (r Result) Outcome() string {
	return services.OutcomeFor(r.Err())
}

// Halted returns a failed Result for a run that stopped at stage before the
// pipeline itself was entered, such as a metadata lookup.
func Halted(runID, movieID, command, stage string, err error) Result {
	result := Result{RunID: runID, MovieID: movieID, Command: command}
	result.fail(stage, services.Details(err), err)
	return result
}

func (r *Result) fail(stage, message string, err error) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: KindError, Stage: stage, Message: message, Err: err})
}

func (r *Result) warn(stage, message string, err error) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: KindWarning, Stage: stage, Message: message, Err: err})
}
