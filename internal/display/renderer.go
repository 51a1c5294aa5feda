package display

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/zinojeng/mov2mp4/internal/progress"
)

const (
	// DefaultInterval is how often the live display redraws.
	DefaultInterval = 200 * time.Millisecond

	barWidth = 24
)

// Renderer draws an in-place live view of the batch on a terminal:
// one overall bar plus a line per in-flight conversion. It polls the
// tracker on a ticker, so it never slows the workers feeding it.
type Renderer struct {
	tracker  *progress.Tracker
	out      io.Writer
	interval time.Duration

	lines   int // height of the last drawn block
	done    chan struct{}
	stopped chan struct{}
}

// NewRenderer creates a renderer over tracker writing to out. A zero
// interval uses DefaultInterval.
func NewRenderer(tracker *progress.Tracker, out io.Writer, interval time.Duration) *Renderer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Renderer{
		tracker:  tracker,
		out:      out,
		interval: interval,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start begins redrawing in the background. Call Stop to finish.
func (r *Renderer) Start() {
	go r.run()
}

func (r *Renderer) run() {
	defer close(r.stopped)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.draw(r.tracker.Snapshot())
		case <-r.done:
			return
		}
	}
}

// Stop halts redrawing, paints one final frame, and leaves the cursor
// on a fresh line below the display.
func (r *Renderer) Stop() {
	close(r.done)
	<-r.stopped
	r.draw(r.tracker.Snapshot())
	r.lines = 0
}

func (r *Renderer) draw(snap progress.Snapshot) {
	var b strings.Builder

	// Move to the top of the previous block and wipe it.
	if r.lines > 0 {
		fmt.Fprintf(&b, "\r\x1b[%dA\x1b[0J", r.lines)
	}

	lines := 0
	fmt.Fprintf(&b, "converting %s %d/%d %s\n",
		bar(snap.Overall), snap.Done(), snap.Total, FormatPercent(snap.Overall))
	lines++

	for _, j := range snap.Jobs {
		if j.State != progress.StateRunning {
			continue
		}
		fmt.Fprintf(&b, "  %s %s\n", FormatPercent(j.Fraction), filepath.Base(j.Source))
		lines++
	}

	io.WriteString(r.out, b.String())
	r.lines = lines
}

// bar renders a fixed-width progress bar for a fraction in [0,1].
func bar(fraction float64) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * barWidth)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"
}
