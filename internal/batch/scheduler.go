package batch

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zinojeng/mov2mp4/internal/events"
	"github.com/zinojeng/mov2mp4/internal/progress"
)

// Converter runs a single conversion job to completion. Every per-job
// disposition, including failure and cancellation, comes back as a
// Result value. The error return is reserved for the engine itself
// being unusable (see ErrEngineNotAvailable), which aborts the batch.
type Converter interface {
	Convert(ctx context.Context, job Job, onProgress func(fraction float64)) (Result, error)
}

// Options tune how the scheduler runs a plan.
type Options struct {
	// Parallel caps concurrent conversions. Values below 1 act as 1.
	Parallel int

	// Timeout bounds each job. Zero means no per-job limit.
	Timeout time.Duration
}

// Scheduler dispatches plan jobs to a Converter with bounded
// parallelism. Jobs start in plan order as slots free up, and the
// summary lists results in plan order no matter which job finishes
// first.
type Scheduler struct {
	conv    Converter
	tracker *progress.Tracker
	bus     *events.Bus
	log     *slog.Logger
	opts    Options
}

// NewScheduler creates a scheduler publishing lifecycle events to bus
// and live state to tracker.
func NewScheduler(conv Converter, tracker *progress.Tracker, bus *events.Bus, logger *slog.Logger, opts Options) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Parallel < 1 {
		opts.Parallel = 1
	}
	return &Scheduler{
		conv:    conv,
		tracker: tracker,
		bus:     bus,
		log:     logger.With("component", "scheduler"),
		opts:    opts,
	}
}

// Run executes the plan and returns a summary holding one result per
// job, in plan order. Cancelling ctx stops dispatch and terminates
// in-flight jobs; the summary still accounts for every job. The error
// is non-nil only when the engine is unusable.
func (s *Scheduler) Run(ctx context.Context, plan *Plan) (*Summary, error) {
	start := time.Now()
	results := make([]Result, len(plan.Jobs))

	for _, job := range plan.Jobs {
		s.tracker.Add(job.ID, job.Source)
	}
	s.bus.Publish(&events.BatchStarted{
		BaseEvent: events.NewBaseEvent(events.EventBatchStarted, ""),
		Total:     len(plan.Jobs),
		Parallel:  s.opts.Parallel,
	})
	s.log.Info("batch started", "jobs", len(plan.Jobs), "parallel", s.opts.Parallel)

	g, runCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Parallel)

	for i, job := range plan.Jobs {
		i, job := i, job
		if job.Resolved() {
			results[i] = s.resolvePlanned(job)
			continue
		}

		g.Go(func() error {
			// Dispatch may have been queued behind the pool limit, so
			// re-check for cancellation before touching the engine.
			if runCtx.Err() != nil {
				results[i] = s.record(Result{Job: job, Outcome: OutcomeCancelled, Reason: ReasonCancelled})
				return nil
			}

			s.tracker.Start(job.ID)
			s.bus.Publish(&events.JobStarted{
				BaseEvent: events.NewBaseEvent(events.EventJobStarted, job.ID),
				Source:    job.Source,
				Dest:      job.Dest,
			})
			s.log.Info("converting", "source", job.Source, "dest", job.Dest, "quality", job.Preset)

			jobCtx := runCtx
			if s.opts.Timeout > 0 {
				var cancel context.CancelFunc
				jobCtx, cancel = context.WithTimeout(runCtx, s.opts.Timeout)
				defer cancel()
			}

			onProgress := func(fraction float64) {
				s.tracker.Progress(job.ID, fraction)
				s.bus.Publish(&events.JobProgressed{
					BaseEvent: events.NewBaseEvent(events.EventJobProgressed, job.ID),
					Fraction:  fraction,
				})
			}

			res, err := s.conv.Convert(jobCtx, job, onProgress)
			if err != nil {
				results[i] = s.record(Result{
					Job:     job,
					Outcome: OutcomeFailed,
					Reason:  ReasonEngineFailed,
					Detail:  err.Error(),
				})
				return err
			}

			results[i] = s.record(res)
			return nil
		})
	}

	runErr := g.Wait()

	summary := &Summary{Results: results, Elapsed: time.Since(start)}
	s.bus.Publish(&events.BatchFinished{
		BaseEvent:      events.NewBaseEvent(events.EventBatchFinished, ""),
		Succeeded:      summary.Succeeded(),
		Failed:         summary.Failed(),
		Skipped:        summary.Skipped(),
		Cancelled:      summary.Cancelled(),
		ElapsedSeconds: summary.Elapsed.Seconds(),
	})
	s.log.Info("batch finished",
		"succeeded", summary.Succeeded(),
		"failed", summary.Failed(),
		"skipped", summary.Skipped(),
		"cancelled", summary.Cancelled(),
		"elapsed", summary.Elapsed.Round(time.Millisecond))

	return summary, runErr
}

// resolvePlanned produces the result for a job whose outcome was
// decided at plan time, so it never consumes a pool slot.
func (s *Scheduler) resolvePlanned(job Job) Result {
	res := Result{Job: job}
	if job.SkipReason != "" {
		res.Outcome = OutcomeSkipped
		res.Reason = job.SkipReason
	} else {
		res.Outcome = OutcomeFailed
		res.Reason = job.FailReason
		res.Detail = job.FailDetail
	}
	return s.record(res)
}

// record moves the tracker to the result's terminal state and publishes
// the matching event.
func (s *Scheduler) record(res Result) Result {
	job := res.Job
	switch res.Outcome {
	case OutcomeSuccess:
		s.tracker.Resolve(job.ID, progress.StateSuccess)
		s.bus.Publish(&events.JobCompleted{
			BaseEvent:      events.NewBaseEvent(events.EventJobCompleted, job.ID),
			Source:         job.Source,
			Dest:           job.Dest,
			OutputBytes:    res.OutputBytes,
			ElapsedSeconds: res.Elapsed.Seconds(),
		})
		s.log.Info("converted", "source", job.Source, "dest", job.Dest, "elapsed", res.Elapsed.Round(time.Millisecond))
	case OutcomeFailed:
		s.tracker.Resolve(job.ID, progress.StateFailed)
		s.bus.Publish(&events.JobFailed{
			BaseEvent: events.NewBaseEvent(events.EventJobFailed, job.ID),
			Source:    job.Source,
			Reason:    string(res.Reason),
			Detail:    res.Detail,
		})
		s.log.Warn("conversion failed", "source", job.Source, "reason", res.Reason, "detail", res.Detail)
	case OutcomeSkipped:
		s.tracker.Resolve(job.ID, progress.StateSkipped)
		s.bus.Publish(&events.JobSkipped{
			BaseEvent: events.NewBaseEvent(events.EventJobSkipped, job.ID),
			Source:    job.Source,
			Reason:    string(res.Reason),
		})
		s.log.Info("skipped", "source", job.Source, "reason", res.Reason)
	case OutcomeCancelled:
		s.tracker.Resolve(job.ID, progress.StateCancelled)
		s.bus.Publish(&events.JobCancelled{
			BaseEvent: events.NewBaseEvent(events.EventJobCancelled, job.ID),
			Source:    job.Source,
		})
		s.log.Info("cancelled", "source", job.Source)
	}
	return res
}
