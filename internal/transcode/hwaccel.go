package transcode

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// HWAccel selects a hardware encoder family.
type HWAccel string

const (
	HWAuto         HWAccel = "auto"
	HWNone         HWAccel = "none"
	HWNvidia       HWAccel = "nvidia"
	HWQSV          HWAccel = "qsv"
	HWVAAPI        HWAccel = "vaapi"
	HWVideoToolbox HWAccel = "videotoolbox"
)

// autoOrder is the probe order for HWAuto.
var autoOrder = []HWAccel{HWNvidia, HWQSV, HWVAAPI, HWVideoToolbox}

// DefaultVAAPIDevice is the render node used when none is configured.
const DefaultVAAPIDevice = "/dev/dri/renderD128"

// ParseHWAccel validates a configured acceleration mode. Empty means auto.
func ParseHWAccel(s string) (HWAccel, error) {
	switch a := HWAccel(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return HWAuto, nil
	case HWAuto, HWNone, HWNvidia, HWQSV, HWVAAPI, HWVideoToolbox:
		return a, nil
	}
	return "", fmt.Errorf("unknown hwaccel %q (want auto, none, nvidia, qsv, vaapi or videotoolbox)", s)
}

// hwEncoder returns the ffmpeg encoder name for a CPU codec on accel, or ""
// when the pair has no hardware equivalent.
func hwEncoder(accel HWAccel, cpuCodec string) string {
	var family string
	switch cpuCodec {
	case "libx264":
		family = "h264"
	case "libx265":
		family = "hevc"
	default:
		return ""
	}
	switch accel {
	case HWNvidia:
		return family + "_nvenc"
	case HWQSV:
		return family + "_qsv"
	case HWVAAPI:
		return family + "_vaapi"
	case HWVideoToolbox:
		return family + "_videotoolbox"
	}
	return ""
}

// detectHW resolves the configured mode to a working encoder family by
// running a one-frame test encode for each candidate. Returns HWNone when
// nothing works. The result is cached, so cancelling ctx does not cut the
// self-test short.
func (t *Transcoder) detectHW(ctx context.Context) HWAccel {
	t.hwOnce.Do(func() {
		ctx := context.WithoutCancel(ctx)
		t.hw = HWNone
		var candidates []HWAccel
		switch t.cfg.HWAccel {
		case HWNone:
			return
		case HWAuto, "":
			candidates = autoOrder
		default:
			candidates = []HWAccel{t.cfg.HWAccel}
		}

		for _, accel := range candidates {
			if err := t.testEncode(ctx, accel); err != nil {
				t.logger.Debug("hardware encoder unavailable", "hwaccel", accel, "error", err)
				continue
			}
			t.hw = accel
			t.logger.Info("hardware encoder detected", "hwaccel", accel, "encoder", hwEncoder(accel, "libx264"))
			return
		}
		if t.cfg.HWAccel != HWAuto && t.cfg.HWAccel != "" {
			t.logger.Warn("configured hardware encoder failed self-test, using CPU", "hwaccel", t.cfg.HWAccel)
		}
	})
	return t.hw
}

func (t *Transcoder) testEncode(ctx context.Context, accel HWAccel) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	args := []string{"-hide_banner", "-nostdin", "-loglevel", "error"}
	if accel == HWVAAPI {
		args = append(args, "-vaapi_device", t.vaapiDevice())
	}
	args = append(args, "-f", "lavfi", "-i", "color=c=black:s=256x256:d=0.1")
	if accel == HWVAAPI {
		args = append(args, "-vf", "format=nv12,hwupload")
	}
	args = append(args, "-c:v", hwEncoder(accel, "libx264"), "-frames:v", "1", "-f", "null", "-")

	out, err := exec.CommandContext(ctx, t.cfg.FFmpeg, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, tail(string(out), 200))
	}
	return nil
}

func (t *Transcoder) vaapiDevice() string {
	if t.cfg.VAAPIDevice != "" {
		return t.cfg.VAAPIDevice
	}
	return DefaultVAAPIDevice
}

// usesHW reports whether p can run on a hardware encoder. Lossless presets
// stay on the CPU since hardware constant-quality modes are not lossless.
func usesHW(p Preset) bool {
	if p.IsCopy() || p.Quality == nil || *p.Quality == 0 {
		return false
	}
	return hwEncoder(HWNvidia, p.VideoCodec) != ""
}

// videoArgs returns the input-side and output-side video arguments for p.
func (t *Transcoder) videoArgs(p Preset, accel HWAccel) (input, output []string) {
	if accel == HWNone || !usesHW(p) {
		output = []string{"-c:v", p.VideoCodec}
		if p.Quality != nil {
			output = append(output, "-crf", strconv.Itoa(*p.Quality))
		}
		return nil, append(output, p.ExtraArgs...)
	}

	q := *p.Quality
	enc := hwEncoder(accel, p.VideoCodec)
	switch accel {
	case HWNvidia:
		output = []string{"-c:v", enc, "-rc", "vbr", "-cq", strconv.Itoa(q), "-b:v", "0"}
		output = append(output, p.ExtraArgs...)
	case HWQSV:
		output = []string{"-c:v", enc, "-global_quality", strconv.Itoa(q)}
		output = append(output, p.ExtraArgs...)
	case HWVAAPI:
		input = []string{"-vaapi_device", t.vaapiDevice()}
		output = []string{"-vf", "format=nv12,hwupload", "-c:v", enc, "-qp", strconv.Itoa(q)}
		output = append(output, withoutFlag(p.ExtraArgs, "-preset")...)
	case HWVideoToolbox:
		vq := min(max(100-2*q, 1), 100)
		output = []string{"-c:v", enc, "-q:v", strconv.Itoa(vq)}
		output = append(output, withoutFlag(p.ExtraArgs, "-preset")...)
	}
	return input, output
}

// withoutFlag drops flag and its value from args.
func withoutFlag(args []string, flag string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		if args[i] == flag {
			i++
			continue
		}
		out = append(out, args[i])
	}
	return out
}
