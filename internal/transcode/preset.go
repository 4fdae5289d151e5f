// Package transcode converts one source file into a library file under a
// named preset, either by plain copy or by driving an external ffmpeg process.
package transcode

import (
	"fmt"
	"strconv"
)

// CopyPreset is the key of the preset that copies the file unchanged.
const CopyPreset = "copy"

// Preset is a named set of encoder parameters.
type Preset struct {
	Key          string
	Name         string
	Description  string
	VideoCodec   string
	Quality      *int // CRF for the CPU encoders; nil for copy
	AudioCodec   string
	AudioBitrate string // empty keeps the encoder default
	ExtraArgs    []string
}

// IsCopy reports whether the preset bypasses the encoder.
func (p Preset) IsCopy() bool { return p.VideoCodec == "copy" }

// OutputExt returns the extension of files produced from source.
// Copies keep the source extension; encodes are written as Matroska so
// subtitle streams copy without conversion.
func (p Preset) OutputExt(sourceExt string) string {
	if p.IsCopy() {
		return sourceExt
	}
	return ".mkv"
}

// QualityLabel is a short description of the quality parameter for listings.
func (p Preset) QualityLabel() string {
	if p.Quality == nil {
		return "-"
	}
	return "crf " + strconv.Itoa(*p.Quality)
}

func quality(n int) *int { return &n }

var presets = []Preset{
	{
		Key:         CopyPreset,
		Name:        "No Compression",
		Description: "Copy file as-is (fastest, no quality change)",
		VideoCodec:  "copy",
		AudioCodec:  "copy",
	},
	{
		Key:         "lossless",
		Name:        "Lossless",
		Description: "Zero quality loss, re-encodes for optimal container (largest files)",
		VideoCodec:  "libx264",
		Quality:     quality(0),
		AudioCodec:  "flac",
		ExtraArgs:   []string{"-preset", "medium"},
	},
	{
		Key:          "high",
		Name:         "High Quality",
		Description:  "Visually identical to original, ~40-50% smaller",
		VideoCodec:   "libx264",
		Quality:      quality(18),
		AudioCodec:   "aac",
		AudioBitrate: "192k",
		ExtraArgs:    []string{"-preset", "slow"},
	},
	{
		Key:          "balanced",
		Name:         "Balanced",
		Description:  "Great quality, ~60-70% smaller",
		VideoCodec:   "libx264",
		Quality:      quality(23),
		AudioCodec:   "aac",
		AudioBitrate: "128k",
		ExtraArgs:    []string{"-preset", "medium"},
	},
	{
		Key:          "space_saver",
		Name:         "Space Saver",
		Description:  "Good quality, ~75-85% smaller",
		VideoCodec:   "libx264",
		Quality:      quality(28),
		AudioCodec:   "aac",
		AudioBitrate: "96k",
		ExtraArgs:    []string{"-preset", "fast"},
	},
}

// Presets returns all presets in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset returns the preset with the given key.
func LookupPreset(key string) (Preset, error) {
	for _, p := range presets {
		if p.Key == key {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, key)
}
