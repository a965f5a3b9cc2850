package config

import "fmt"

// Limits is the table of numeric bounds shared by command validation,
// split planning and payload assembly.
type Limits struct {
	SplitMinutesMin       int `toml:"split_minutes_min"`
	SplitMinutesMax       int `toml:"split_minutes_max"`
	DefaultSplitMinutes   int `toml:"default_split_minutes"`
	SplitThresholdMinutes int `toml:"split_threshold_minutes"`
	BoundaryDeltaSeconds  int `toml:"boundary_delta_seconds"`
	BitrateMin            int `toml:"bitrate_min"`
	BitrateMax            int `toml:"bitrate_max"`
	CaptionMaxLength      int `toml:"caption_max_length"`
}

const (
	defaultSplitMinutesMin       = 5
	defaultSplitMinutesMax       = 39
	defaultSplitMinutes          = 39
	defaultSplitThresholdMinutes = 120
	defaultBoundaryDeltaSeconds  = 5
	defaultBitrateMin            = 48
	defaultBitrateMax            = 320
	defaultCaptionMaxLength      = 1023
)

// DefaultLimits returns the built-in bounds.
func DefaultLimits() Limits {
	return Limits{
		SplitMinutesMin:       defaultSplitMinutesMin,
		SplitMinutesMax:       defaultSplitMinutesMax,
		DefaultSplitMinutes:   defaultSplitMinutes,
		SplitThresholdMinutes: defaultSplitThresholdMinutes,
		BoundaryDeltaSeconds:  defaultBoundaryDeltaSeconds,
		BitrateMin:            defaultBitrateMin,
		BitrateMax:            defaultBitrateMax,
		CaptionMaxLength:      defaultCaptionMaxLength,
	}
}

// SplitThresholdSeconds returns the total duration below which no splitting occurs.
func (l Limits) SplitThresholdSeconds() int {
	return l.SplitThresholdMinutes * 60
}

// Validate reports inconsistent bounds.
func (l Limits) Validate() error {
	if l.SplitMinutesMin <= 0 || l.SplitMinutesMax < l.SplitMinutesMin {
		return fmt.Errorf("limits.split_minutes_min/max must satisfy 0 < min <= max (got %d..%d)", l.SplitMinutesMin, l.SplitMinutesMax)
	}
	if l.DefaultSplitMinutes <= 0 {
		return fmt.Errorf("limits.default_split_minutes must be positive")
	}
	if l.SplitThresholdMinutes <= 0 {
		return fmt.Errorf("limits.split_threshold_minutes must be positive")
	}
	if l.BoundaryDeltaSeconds < 0 {
		return fmt.Errorf("limits.boundary_delta_seconds must not be negative")
	}
	if l.BitrateMin <= 0 || l.BitrateMax < l.BitrateMin {
		return fmt.Errorf("limits.bitrate_min/max must satisfy 0 < min <= max (got %d..%d)", l.BitrateMin, l.BitrateMax)
	}
	// Truncation keeps max-8 characters plus a marker.
	if l.CaptionMaxLength <= 8 {
		return fmt.Errorf("limits.caption_max_length must be greater than 8")
	}
	return nil
}
