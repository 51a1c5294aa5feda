package events

import "log/slog"

// LogObserver mirrors bus traffic to slog so verbose runs expose the
// full event stream. State never round-trips through here; it is a
// debugging aid only.
type LogObserver struct {
	bus    *Bus
	logger *slog.Logger
	ch     <-chan Event
	done   chan struct{}
}

// NewLogObserver subscribes to all events and logs them at debug level.
func NewLogObserver(bus *Bus, logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	o := &LogObserver{
		bus:    bus,
		logger: logger.With("component", "events"),
		ch:     bus.SubscribeAll(256),
		done:   make(chan struct{}),
	}
	go o.run()
	return o
}

func (o *LogObserver) run() {
	defer close(o.done)
	for e := range o.ch {
		switch ev := e.(type) {
		case *BatchStarted:
			o.logger.Debug("batch started", "total", ev.Total, "parallel", ev.Parallel)
		case *JobStarted:
			o.logger.Debug("job started", "job_id", ev.JobID(), "source", ev.Source, "dest", ev.Dest)
		case *JobProgressed:
			o.logger.Debug("job progressed", "job_id", ev.JobID(), "fraction", ev.Fraction)
		case *JobCompleted:
			o.logger.Debug("job completed", "job_id", ev.JobID(), "dest", ev.Dest,
				"output_bytes", ev.OutputBytes, "elapsed_seconds", ev.ElapsedSeconds)
		case *JobFailed:
			o.logger.Debug("job failed", "job_id", ev.JobID(), "source", ev.Source,
				"reason", ev.Reason, "detail", ev.Detail)
		case *JobSkipped:
			o.logger.Debug("job skipped", "job_id", ev.JobID(), "source", ev.Source, "reason", ev.Reason)
		case *JobCancelled:
			o.logger.Debug("job cancelled", "job_id", ev.JobID(), "source", ev.Source)
		case *BatchFinished:
			o.logger.Debug("batch finished",
				"succeeded", ev.Succeeded, "failed", ev.Failed,
				"skipped", ev.Skipped, "cancelled", ev.Cancelled)
		default:
			o.logger.Debug("event", "type", e.EventType(), "job_id", e.JobID())
		}
	}
}

// Stop unsubscribes and waits for in-flight log writes to drain.
func (o *LogObserver) Stop() {
	o.bus.Unsubscribe(o.ch)
	<-o.done
}
