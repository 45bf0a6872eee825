package schedule

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"cueplay/internal/media"
)

// Spec is a fully resolved scheduling request. It is consumed once when
// building a job payload and never persisted; the submitted payload text
// is the only durable record of the job.
type Spec struct {
	Target time.Time
	Media  media.Reference
	Device string
	Volume *int
}

// Program is a snapshot of the invocation environment embedded in job
// payloads: the program's own path, the directory to run from, and an
// optional environment-activation script.
type Program struct {
	Path     string
	WorkDir  string
	Activate string
}

// markerPrefix introduces the machine-readable comment inside POSIX
// payloads. The inspector prefers it over re-tokenizing the command line.
const markerPrefix = "# cueplay:job"

// DiscoverProgram resolves the current executable, working directory, and
// activation script. An explicitly configured activation path wins over
// the conventional venv/.venv locations.
func DiscoverProgram(explicitActivate string) (Program, error) {
	exe, err := os.Executable()
	if err != nil {
		return Program{}, fmt.Errorf("failed to locate executable: %w", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return Program{}, fmt.Errorf("failed to get working directory: %w", err)
	}

	p := Program{Path: exe, WorkDir: wd}

	candidates := []string{}
	if explicitActivate != "" {
		candidates = append(candidates, explicitActivate)
	}
	candidates = append(candidates,
		filepath.Join(wd, "venv", "bin", "activate"),
		filepath.Join(wd, ".venv", "bin", "activate"),
	)
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			p.Activate = c
			break
		}
	}

	return p, nil
}

// BuildCommand produces the argv tokens of the re-invocation command line:
// the program path, the media reference's original literal, the
// immediate-mode flag, the optional device and volume, and the
// browser-suppression flag. A deferred run must never try to open a
// browser for authentication.
func BuildCommand(p Program, spec Spec) []string {
	args := []string{p.Path, spec.Media.Raw, "--now"}
	if spec.Device != "" {
		args = append(args, "--device", spec.Device)
	}
	if spec.Volume != nil {
		args = append(args, "--volume", strconv.Itoa(*spec.Volume))
	}
	args = append(args, "--no-browser")
	return args
}

// buildMarker renders the structured marker comment. Its k=v tokens are
// shell-quoted so the line survives quoting-aware tokenization intact.
func buildMarker(spec Spec) string {
	tokens := []string{"media=" + spec.Media.Raw}
	if spec.Device != "" {
		tokens = append(tokens, "device="+spec.Device)
	}
	if spec.Volume != nil {
		tokens = append(tokens, "volume="+strconv.Itoa(*spec.Volume))
	}
	tokens = append(tokens, "at="+spec.Target.Format(time.RFC3339))
	return markerPrefix + " " + shellquote.Join(tokens...)
}

// BuildPayload renders the POSIX job script. The sleep step delays within
// the target minute because at(1) schedules with whole-minute resolution;
// its argument is the target's seconds component.
func BuildPayload(p Program, spec Spec) string {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("cd " + shellquote.Join(p.WorkDir) + "\n")
	fmt.Fprintf(&b, "sleep %d\n", spec.Target.Second())
	if p.Activate != "" {
		b.WriteString(". " + shellquote.Join(p.Activate) + "\n")
	}
	b.WriteString(buildMarker(spec) + "\n")
	b.WriteString(shellquote.Join(BuildCommand(p, spec)...) + "\n")
	return b.String()
}

// BuildWindowsCommand renders the single command-line string handed to
// the Windows task scheduler. Scheduled Tasks run with minute resolution
// as well, so no sleep compensation is embedded; the task fires at the
// target minute.
func BuildWindowsCommand(p Program, spec Spec) string {
	return shellquote.Join(BuildCommand(p, spec)...)
}
