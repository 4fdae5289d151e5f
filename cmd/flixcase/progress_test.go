package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vmunix/flixcase/internal/events"
)

func TestRenderBar(t *testing.T) {
	assert.Equal(t, "["+strings.Repeat("-", barWidth)+"]   0.0%", renderBar(0))
	assert.Equal(t, "["+strings.Repeat("#", 15)+strings.Repeat("-", 15)+"]  50.0%", renderBar(50))
	assert.Equal(t, "["+strings.Repeat("#", barWidth)+"] 100.0%", renderBar(140))

	bar := renderBar(-1)
	assert.Contains(t, bar, "working")
	assert.Len(t, bar, barWidth+2)
}

func progressed(pct float64) *events.ImportProgressed {
	return &events.ImportProgressed{
		BaseEvent:  events.NewBaseEvent(events.EventImportProgressed, events.EntityMovie, 0),
		Operation:  events.Operation{OperationID: "op", Kind: events.KindMovie},
		TotalItems: 1,
		Stage:      "copying",
		Percent:    pct,
	}
}

func TestProgressPrinter_PlainOutputEveryTenPercent(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressPrinter(&buf)

	for _, pct := range []float64{-1, 0, 3, 9.9, 10, 15, 42, 100} {
		p.handle(progressed(pct))
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"  0.0% item 1/1 copying",
		" 10.0% item 1/1 copying",
		" 42.0% item 1/1 copying",
		"100.0% item 1/1 copying",
	}, lines)
	assert.NotContains(t, buf.String(), "\r")
}

func TestProgressPrinter_Lines(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressPrinter(&buf)
	op := events.Operation{OperationID: "op", Kind: events.KindMovie}

	p.handle(&events.ImportStarted{
		BaseEvent: events.NewBaseEvent(events.EventImportStarted, events.EntityMovie, 0),
		Operation: op,
		Title:     "Alien",
		Preset:    "copy",
	})
	p.handle(&events.ImportFailed{
		BaseEvent: events.NewBaseEvent(events.EventImportFailed, events.EntityMovie, 0),
		Operation: op,
		Reason:    "disk full",
	})

	assert.Equal(t, "importing Alien (preset copy)\nimport failed: disk full\n", buf.String())
}

func TestProgressPrinter_TerminalRedraw(t *testing.T) {
	var buf bytes.Buffer
	p := &progressPrinter{out: &buf, tty: true, lastTen: -1}

	p.handle(progressed(50))
	assert.True(t, p.drawn)
	assert.True(t, strings.HasPrefix(buf.String(), "\r\033[K["))

	p.line("done")
	assert.False(t, p.drawn)
	assert.True(t, strings.HasSuffix(buf.String(), "\r\033[Kdone\n"))
}
