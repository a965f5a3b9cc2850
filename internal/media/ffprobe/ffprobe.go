package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// DescriptionTag is the normalized key under which ReadTags reports the
// embedded description.
const DescriptionTag = "desc"

// descriptionKeys are the container tags checked, in order, for a description.
var descriptionKeys = []string{"description", "comment", "synopsis", "purl_description"}

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index      int               `json:"index"`
	CodecName  string            `json:"codec_name"`
	CodecType  string            `json:"codec_type"`
	Duration   string            `json:"duration"`
	BitRate    string            `json:"bit_rate"`
	SampleRate string            `json:"sample_rate"`
	Channels   int               `json:"channels"`
	Tags       map[string]string `json:"tags"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string            `json:"filename"`
	NBStreams  int               `json:"nb_streams"`
	Duration   string            `json:"duration"`
	Size       string            `json:"size"`
	BitRate    string            `json:"bit_rate"`
	FormatName string            `json:"format_name"`
	Tags       map[string]string `json:"tags"`
}

// OutputRunner executes a command and returns its combined output.
type OutputRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Prober runs ffprobe against local files.
type Prober struct {
	binary string
	run    OutputRunner
}

// New returns a Prober using binary, defaulting to "ffprobe".
func New(binary string) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	return &Prober{binary: binary, run: combinedOutput}
}

// WithRunner sets a custom command runner (for testing).
func (p *Prober) WithRunner(run OutputRunner) *Prober {
	if run != nil {
		p.run = run
	}
	return p
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func (p *Prober) Inspect(ctx context.Context, path string) (Result, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}
	output, err := p.run(ctx, p.binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// ReadTags returns the container tags of path with lower-cased keys. Audio
// stream tags fill keys the container lacks. When a description-like tag is
// present it is also reported under DescriptionTag.
func (p *Prober) ReadTags(ctx context.Context, path string) (map[string]string, error) {
	result, err := p.Inspect(ctx, path)
	if err != nil {
		return nil, err
	}
	return result.Tags(), nil
}

// Tags merges container and audio stream tags as described on ReadTags.
func (r Result) Tags() map[string]string {
	tags := make(map[string]string, len(r.Format.Tags))
	for k, v := range r.Format.Tags {
		tags[strings.ToLower(k)] = v
	}
	for _, stream := range r.Streams {
		if !strings.EqualFold(stream.CodecType, "audio") {
			continue
		}
		for k, v := range stream.Tags {
			key := strings.ToLower(k)
			if _, exists := tags[key]; !exists {
				tags[key] = v
			}
		}
	}
	for _, key := range descriptionKeys {
		if value := strings.TrimSpace(tags[key]); value != "" {
			tags[DescriptionTag] = value
			break
		}
	}
	return tags
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			count++
		}
	}
	return count
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

// BitRate returns the container bitrate in bits per second, or 0 when unavailable.
func (r Result) BitRate() int64 {
	rate := parseFloat(r.Format.BitRate)
	if math.IsNaN(rate) || rate < 0 {
		return 0
	}
	return int64(rate)
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}

func combinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput() //nolint:gosec
}
