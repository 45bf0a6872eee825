package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cueplay/internal/errors"
)

// TaskScheduler submits one-shot jobs to the Windows task scheduler.
type TaskScheduler struct {
	runner Runner
	prog   Program
	log    zerolog.Logger
}

// taskName synthesizes a unique task name from the target timestamp plus
// a random suffix. The suffix only avoids collisions between jobs aimed
// at the same minute; it carries no meaning.
func taskName(target time.Time) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("cueplay_%s_%s", target.Format("20060102150405"), suffix)
}

// Submit creates a one-shot scheduled task at the target date/time and
// returns the constructed task name as the label.
func (s *TaskScheduler) Submit(ctx context.Context, target time.Time, spec Spec) (string, error) {
	if _, err := s.runner.LookPath("schtasks"); err != nil {
		return "", fmt.Errorf("%w: the 'schtasks' command is not available", errors.ErrToolMissing)
	}

	name := taskName(target)
	command := BuildWindowsCommand(s.prog, spec)

	_, stderr, err := s.runner.Run(ctx, "schtasks",
		"/Create",
		"/SC", "ONCE",
		"/TN", name,
		"/TR", command,
		"/SD", target.Format("01/02/2006"),
		"/ST", target.Format("15:04"),
		"/F",
	)
	if err != nil {
		diag := strings.TrimSpace(stderr)
		if diag == "" {
			diag = err.Error()
		}
		return "", fmt.Errorf("%w: %s", errors.ErrSubmissionFailed, diag)
	}

	s.log.Info().Str("task", name).Time("target", target).Msg("created scheduled task")
	return name, nil
}
