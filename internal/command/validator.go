package command

import (
	"fmt"
	"strconv"
	"strings"

	"yt2audio/internal/config"
	"yt2audio/internal/movie"
	"yt2audio/internal/services"
)

const stageValidate = "validate"

// Validation messages surfaced to the user.
const (
	MsgNoParams    = "no params"
	MsgNotNumeric  = "not numeric"
	MsgTooManyArgs = "expected exactly one param"
)

// DefaultBitrateToken is the bitrate token in the default extraction options.
const DefaultBitrateToken = "48k"

// Outcome describes how the pipeline should continue after validation.
type Outcome struct {
	// Subtitles is set for the subtitles command; the caller returns the
	// subtitles payload instead of audio parts.
	Subtitles bool
	// Query is the free-text subtitle search, empty when no params were given.
	Query string
}

// Validator checks command parameters against the limits table and applies
// them to a Meta. Every check runs before any mutation.
type Validator struct {
	Limits config.Limits
}

// NewValidator returns a validator bound to limits.
func NewValidator(limits config.Limits) Validator {
	return Validator{Limits: limits}
}

// Apply validates cmd and mutates meta on success. A returned error is tagged
// with services.ErrValidation and leaves meta untouched.
func (v Validator) Apply(cmd movie.Command, meta *movie.Meta) (Outcome, error) {
	switch cmd.Name {
	case movie.CommandSplit:
		minutes, err := v.singleInt(cmd, v.Limits.SplitMinutesMin, v.Limits.SplitMinutesMax)
		if err != nil {
			return Outcome{}, err
		}
		meta.ThresholdSeconds = 1
		meta.SplitDurationMinutes = minutes
		return Outcome{}, nil
	case movie.CommandBitrate:
		kbps, err := v.singleInt(cmd, v.Limits.BitrateMin, v.Limits.BitrateMax)
		if err != nil {
			return Outcome{}, err
		}
		meta.YtDLPRewriteOptions = strings.ReplaceAll(meta.YtDLPRewriteOptions, DefaultBitrateToken, fmt.Sprintf("%dk", kbps))
		meta.AdditionalMetaText = BitrateNote(kbps)
		return Outcome{}, nil
	case movie.CommandSubtitles:
		return Outcome{Subtitles: true, Query: strings.TrimSpace(strings.Join(cmd.Params, " "))}, nil
	default:
		return Outcome{}, nil
	}
}

// BitrateNote is the caption annotation added by the bitrate command.
func BitrateNote(kbps int) string {
	return fmt.Sprintf("Bitrate %dk", kbps)
}

func (v Validator) singleInt(cmd movie.Command, lo, hi int) (int, error) {
	switch {
	case len(cmd.Params) == 0:
		return 0, invalid(cmd.Name, MsgNoParams)
	case len(cmd.Params) > 1:
		return 0, invalid(cmd.Name, MsgTooManyArgs)
	}
	value, err := strconv.Atoi(strings.TrimSpace(cmd.Params[0]))
	if err != nil {
		return 0, invalid(cmd.Name, MsgNotNumeric)
	}
	if value < lo || value > hi {
		return 0, invalid(cmd.Name, OutOfRangeMessage(lo, hi))
	}
	return value, nil
}

// OutOfRangeMessage is the message reported for a numeric param outside [lo, hi].
func OutOfRangeMessage(lo, hi int) string {
	return fmt.Sprintf("out of range: expected %d..%d", lo, hi)
}

func invalid(name, message string) error {
	return services.Wrap(services.ErrValidation, stageValidate, name, message, nil)
}
