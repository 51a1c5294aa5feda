package engine

import (
	"bufio"
	"context"
	"errors"
	"os/exec"
	"syscall"
	"time"
)

// tailLines bounds how much subprocess output is kept for diagnostics.
const tailLines = 20

// RunResult is the outcome of one finished subprocess.
type RunResult struct {
	ExitCode int
	Tail     []string // last lines of combined stdout and stderr
}

// Runner abstracts subprocess execution so conversions can be tested
// without a real ffmpeg install. Run streams every line of combined
// output to onLine as the process produces it. A non-zero exit status
// is reported in RunResult, not as an error; the error return means
// the process could not be started or was stopped by its context.
type Runner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, name string, args []string, onLine func(string)) (RunResult, error)
}

type execRunner struct {
	grace time.Duration
}

// NewRunner returns a Runner backed by os/exec. On cancellation the
// process is asked to stop with SIGINT and given grace to shut down
// before it is killed. ffmpeg uses the window to finalize its muxer
// instead of leaving a truncated file.
func NewRunner(grace time.Duration) Runner {
	return &execRunner{grace: grace}
}

func (r *execRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (r *execRunner) Run(ctx context.Context, name string, args []string, onLine func(string)) (RunResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGINT)
	}
	cmd.WaitDelay = r.grace

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return RunResult{}, err
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return RunResult{}, err
	}

	var tail []string
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if onLine != nil {
			onLine(line)
		}
		tail = append(tail, line)
		if len(tail) > tailLines {
			tail = tail[1:]
		}
	}

	res := RunResult{Tail: tail}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			// A process we interrupted reports its own exit status
			// (ffmpeg exits 255 after SIGINT), and Wait hands that
			// back instead of the context error. The caller needs
			// the cancellation, not a fake engine failure.
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			return res, nil
		}
		// Start succeeded but Wait did not produce an exit status:
		// either the context stopped the process or I/O broke down.
		return res, err
	}
	return res, nil
}
