package transcode

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

// ProbeResult is the parsed output of ffprobe.
type ProbeResult struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index     int        `json:"index"`
	CodecName string     `json:"codec_name"`
	CodecType string     `json:"codec_type"`
	Duration  string     `json:"duration"`
	Tags      StreamTags `json:"tags"`
}

// StreamTags holds the stream metadata flixcase reads.
type StreamTags struct {
	Language string `json:"language"`
	Title    string `json:"title"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	FormatName string `json:"format_name"`
}

// SubtitleTrack is a subtitle stream embedded in a container.
type SubtitleTrack struct {
	Index    int // ffprobe stream index
	Language string
	Codec    string
	Label    string // "ENG (subrip)"
}

// Probe executes ffprobe against path and decodes the JSON response.
func Probe(ctx context.Context, binary, path string) (ProbeResult, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return ProbeResult{}, errors.New("ffprobe: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return ProbeResult{}, fmt.Errorf("ffprobe %s: %w: %s", path, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return ProbeResult{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var result ProbeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return ProbeResult{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// DurationSeconds returns the container duration, falling back to the
// longest stream duration. Returns 0 when unavailable.
func (r ProbeResult) DurationSeconds() float64 {
	if d := parseSeconds(r.Format.Duration); d > 0 {
		return d
	}
	var longest float64
	for _, s := range r.Streams {
		longest = math.Max(longest, parseSeconds(s.Duration))
	}
	return longest
}

// SubtitleTracks returns embedded subtitle streams in stream order.
func (r ProbeResult) SubtitleTracks() []SubtitleTrack {
	var tracks []SubtitleTrack
	for _, s := range r.Streams {
		if !strings.EqualFold(s.CodecType, "subtitle") {
			continue
		}
		lang := strings.TrimSpace(s.Tags.Language)
		if lang == "" || lang == "und" {
			lang = "Unknown"
		}
		tracks = append(tracks, SubtitleTrack{
			Index:    s.Index,
			Language: lang,
			Codec:    s.CodecName,
			Label:    fmt.Sprintf("%s (%s)", strings.ToUpper(lang), s.CodecName),
		})
	}
	return tracks
}

func parseSeconds(value string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
