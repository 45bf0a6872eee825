package schedule

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Runner executes external commands. The OS scheduling facilities (at,
// atq, atrm, schtasks) are invoked through this seam so tests can inject
// fakes.
type Runner interface {
	// Run executes a command and returns its stdout and stderr. A non-zero
	// exit reports as a non-nil error alongside whatever output was
	// produced.
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)

	// LookPath reports where a binary resolves on PATH.
	LookPath(name string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Scheduler submits a payload to the platform's deferred-execution
// facility. After a successful submit the job exists independently of
// this process.
type Scheduler interface {
	Submit(ctx context.Context, target time.Time, spec Spec) (label string, err error)
}

// NewScheduler picks the facility strategy for the host platform.
func NewScheduler(r Runner, prog Program, log zerolog.Logger) Scheduler {
	return newSchedulerFor(runtime.GOOS, r, prog, log)
}

func newSchedulerFor(goos string, r Runner, prog Program, log zerolog.Logger) Scheduler {
	if goos == "windows" {
		return &TaskScheduler{runner: r, prog: prog, log: log}
	}
	return &AtScheduler{runner: r, prog: prog, log: log}
}
