package transcode

import (
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

// maxPercentBeforeDone keeps progress below 100 until the encoder exits cleanly.
const maxPercentBeforeDone = 99.9

// parseProgressLine extracts elapsed output time in seconds from one line of
// ffmpeg's -progress stream. Both out_time_us and out_time_ms carry
// microseconds.
func parseProgressLine(line string) (float64, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok || (key != "out_time_us" && key != "out_time_ms") {
		return 0, false
	}
	us, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || us < 0 {
		return 0, false
	}
	return float64(us) / 1e6, true
}

// percentOf converts elapsed seconds to a percentage of duration, clamped
// to [0, 99.9]. Returns false when duration is unknown.
func percentOf(elapsed, duration float64) (float64, bool) {
	if duration <= 0 {
		return 0, false
	}
	pct := elapsed / duration * 100
	return min(max(pct, 0), maxPercentBeforeDone), true
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{max: limit}
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.max; over > 0 {
		b.buf = append(b.buf[:0], b.buf[over:]...)
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}

// tail returns at most the last n characters of s, trimmed.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[len(r)-n:]))
}
