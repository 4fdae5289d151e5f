package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/vmunix/flixcase/internal/events"
)

const barWidth = 30

// progressPrinter renders import events. On a terminal progress redraws one
// line in place; otherwise it prints a line every 10 percent.
type progressPrinter struct {
	out     io.Writer
	tty     bool
	drawn   bool
	lastTen int
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out, tty: isTerminal(out), lastTen: -1}
}

// follow prints events from the bus until stop is called. stop returns once
// every buffered event has been printed.
func (p *progressPrinter) follow(bus *events.Bus) (stop func()) {
	ch := bus.SubscribeAll(256)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range ch {
			p.handle(e)
		}
		p.clear()
	}()
	return func() {
		bus.Unsubscribe(ch)
		<-done
	}
}

func (p *progressPrinter) handle(e events.Event) {
	switch e := e.(type) {
	case *events.ImportProgressed:
		p.progress(e)
	case *events.ImportStarted:
		p.line(e.Summary())
	case *events.ImportItemCommitted:
		p.line("  ok   " + e.Summary())
	case *events.ImportItemSkipped:
		p.line("  skip " + e.Summary())
	case events.Summarizer:
		p.line(e.Summary())
	}
}

func (p *progressPrinter) progress(e *events.ImportProgressed) {
	label := fmt.Sprintf("item %d/%d %s", e.ItemIndex+1, e.TotalItems, e.Stage)
	if !p.tty {
		if e.Percent < 0 {
			return
		}
		if ten := int(e.Percent / 10); ten > p.lastTen {
			p.lastTen = ten
			fmt.Fprintf(p.out, "%5.1f%% %s\n", e.Percent, label)
		}
		return
	}
	fmt.Fprintf(p.out, "\r\033[K%s %s", renderBar(e.Percent), label)
	p.drawn = true
}

func (p *progressPrinter) line(s string) {
	p.clear()
	fmt.Fprintln(p.out, s)
}

func (p *progressPrinter) clear() {
	if p.drawn {
		fmt.Fprint(p.out, "\r\033[K")
		p.drawn = false
	}
}

// renderBar draws a fixed-width bar. Indeterminate progress shows "working".
func renderBar(pct float64) string {
	if pct < 0 {
		return "[" + centered("working", barWidth) + "]"
	}
	pct = math.Min(pct, 100)
	filled := int(pct / 100 * barWidth)
	return fmt.Sprintf("[%s%s] %5.1f%%", strings.Repeat("#", filled), strings.Repeat("-", barWidth-filled), pct)
}

func centered(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
