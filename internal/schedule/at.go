package schedule

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cueplay/internal/errors"
)

// atTimeLayout is the -t argument format accepted by at(1).
const atTimeLayout = "200601021504"

// AtScheduler submits jobs to the POSIX at(1) facility.
type AtScheduler struct {
	runner Runner
	prog   Program
	log    zerolog.Logger
}

// Submit writes the payload to a temporary script in the working
// directory, hands it to at(1), and removes the script on every exit
// path. The facility's combined output becomes the job label, which on
// most systems includes the assigned job number.
func (s *AtScheduler) Submit(ctx context.Context, target time.Time, spec Spec) (string, error) {
	if _, err := s.runner.LookPath("at"); err != nil {
		return "", fmt.Errorf("%w: the 'at' command is not available", errors.ErrToolMissing)
	}

	payload := BuildPayload(s.prog, spec)

	script, err := os.CreateTemp(s.prog.WorkDir, "cueplay-job-*.sh")
	if err != nil {
		return "", fmt.Errorf("failed to create job script: %w", err)
	}
	path := script.Name()
	defer func() { _ = os.Remove(path) }()

	if _, err := script.WriteString(payload); err != nil {
		_ = script.Close()
		return "", fmt.Errorf("failed to write job script: %w", err)
	}
	if err := script.Close(); err != nil {
		return "", fmt.Errorf("failed to write job script: %w", err)
	}

	stdout, stderr, err := s.runner.Run(ctx, "at", "-t", target.Format(atTimeLayout), "-f", path)
	if err != nil {
		diag := strings.TrimSpace(stderr)
		if diag == "" {
			diag = err.Error()
		}
		return "", fmt.Errorf("%w: %s", errors.ErrSubmissionFailed, diag)
	}

	// at(1) reports the job number on stderr.
	label := strings.TrimSpace(stdout + stderr)
	s.log.Info().Str("label", label).Time("target", target).Msg("submitted at job")
	return label, nil
}
