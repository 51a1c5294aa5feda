package display

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/zinojeng/mov2mp4/internal/events"
)

// EventPrinter writes one plain line per finished job, for runs where
// stdout is a pipe or a dumb terminal and in-place redrawing would
// just smear escape codes into a log file.
type EventPrinter struct {
	bus  *events.Bus
	out  io.Writer
	ch   <-chan events.Event
	done chan struct{}
}

// NewEventPrinter subscribes to the bus and starts printing.
func NewEventPrinter(bus *events.Bus, out io.Writer) *EventPrinter {
	p := &EventPrinter{
		bus:  bus,
		out:  out,
		ch:   bus.SubscribeAll(256),
		done: make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *EventPrinter) run() {
	defer close(p.done)
	for e := range p.ch {
		switch ev := e.(type) {
		case *events.JobCompleted:
			fmt.Fprintf(p.out, "converted %s -> %s (%s, %s)\n",
				ev.Source, ev.Dest,
				humanize.IBytes(uint64(ev.OutputBytes)),
				FormatDuration(time.Duration(ev.ElapsedSeconds*float64(time.Second))))
		case *events.JobFailed:
			if ev.Detail != "" {
				fmt.Fprintf(p.out, "failed %s: %s (%s)\n", ev.Source, ReasonText(ev.Reason), ev.Detail)
			} else {
				fmt.Fprintf(p.out, "failed %s: %s\n", ev.Source, ReasonText(ev.Reason))
			}
		case *events.JobSkipped:
			fmt.Fprintf(p.out, "skipped %s: %s\n", ev.Source, ReasonText(ev.Reason))
		case *events.JobCancelled:
			fmt.Fprintf(p.out, "cancelled %s\n", ev.Source)
		}
	}
}

// Stop unsubscribes and waits for the printer to drain.
func (p *EventPrinter) Stop() {
	p.bus.Unsubscribe(p.ch)
	<-p.done
}
