package schedule

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"

	"cueplay/internal/media"
)

// Inspection is what can be recovered from a stored job's payload text.
type Inspection struct {
	Command      string
	SleepSeconds int
	HasCommand   bool
	HasSleep     bool
	Media        *media.Reference
	Volume       *int
}

// Inspector retrieves and decodes stored job payloads from the at(1)
// facility.
type Inspector struct {
	runner      Runner
	programName string // base name of the scheduler's own binary
	log         zerolog.Logger
}

// NewInspector creates an inspector. programPath is the scheduler's own
// executable; its base name anchors media extraction from stored command
// lines.
func NewInspector(r Runner, programPath string, log zerolog.Logger) *Inspector {
	return &Inspector{
		runner:      r,
		programName: filepath.Base(programPath),
		log:         log,
	}
}

// Inspect fetches a job's stored payload with `at -c` and analyzes it.
// The second return value is false when the facility cannot describe the
// job (tool missing, job vanished); that is not an error.
func (i *Inspector) Inspect(ctx context.Context, jobID string) (Inspection, bool) {
	if _, err := i.runner.LookPath("at"); err != nil {
		return Inspection{}, false
	}

	stdout, _, err := i.runner.Run(ctx, "at", "-c", jobID)
	if err != nil {
		i.log.Debug().Str("job", jobID).Err(err).Msg("at -c failed")
		return Inspection{}, false
	}

	insp := AnalyzePayload(stdout)

	// The structured marker is authoritative when present; tokenizing the
	// command line is the fallback for payloads written without one.
	if fields, ok := FindMarker(stdout); ok {
		if ref, err := media.ParseReference(fields["media"]); err == nil {
			insp.Media = &ref
		}
		if n, err := strconv.Atoi(fields["volume"]); err == nil && n >= 0 && n <= 100 {
			insp.Volume = &n
		}
	}
	if insp.HasCommand {
		if insp.Media == nil {
			insp.Media = ExtractMedia(insp.Command, i.programName)
		}
		if insp.Volume == nil {
			insp.Volume = ExtractVolume(insp.Command)
		}
	}
	return insp, true
}

// isBoilerplate reports whether a payload line is shell scaffolding
// rather than the job's real command. at(1) stores jobs with an
// environment dump, umask/cd preamble, and similar noise around the
// submitted script.
func isBoilerplate(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return true
	}
	for _, prefix := range []string{"export ", "cd ", "sleep ", ". ", "source ", "umask", "trap"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return isVariableAssignment(trimmed)
}

// isVariableAssignment matches bare KEY=value lines with an identifier
// key, the form at(1)'s environment dump uses.
func isVariableAssignment(line string) bool {
	key, _, found := strings.Cut(line, "=")
	if !found || key == "" {
		return false
	}
	for pos, c := range key {
		switch {
		case c == '_':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if pos == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// AnalyzePayload extracts the sleep offset and the real command line from
// stored payload text. The sleep offset comes from the first `sleep N`
// line; the command is the last line that is not boilerplate.
func AnalyzePayload(text string) Inspection {
	lines := strings.Split(text, "\n")

	insp := Inspection{}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(trimmed, "sleep "); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil {
				insp.SleepSeconds = n
				insp.HasSleep = true
				break
			}
		}
	}

	for j := len(lines) - 1; j >= 0; j-- {
		if isBoilerplate(lines[j]) {
			continue
		}
		insp.Command = strings.TrimSpace(lines[j])
		insp.HasCommand = true
		break
	}

	return insp
}

// ExtractMedia recovers the media reference from a stored command line.
// The token following the one naming the scheduler's own program file is
// the media literal. Tokenization respects shell quoting; any failure
// yields nil rather than an error.
func ExtractMedia(command, programName string) *media.Reference {
	tokens, err := shellquote.Split(command)
	if err != nil {
		return nil
	}
	for i, tok := range tokens {
		if filepath.Base(tok) != programName {
			continue
		}
		if i+1 >= len(tokens) {
			return nil
		}
		ref, err := media.ParseReference(tokens[i+1])
		if err != nil {
			return nil
		}
		return &ref
	}
	return nil
}

// ExtractVolume recovers the --volume argument from a stored command
// line. A missing flag or an argument outside 0-100 reads as absent.
func ExtractVolume(command string) *int {
	tokens, err := shellquote.Split(command)
	if err != nil {
		return nil
	}
	for i, tok := range tokens {
		if tok != "--volume" || i+1 >= len(tokens) {
			continue
		}
		n, err := strconv.Atoi(tokens[i+1])
		if err != nil || n < 0 || n > 100 {
			return nil
		}
		return &n
	}
	return nil
}

// ParseMarker decodes the structured `# cueplay:job` comment embedded by
// the payload builder. It returns the k=v fields and whether the line was
// a marker at all.
func ParseMarker(line string) (map[string]string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), markerPrefix+" ")
	if !ok {
		return nil, false
	}
	tokens, err := shellquote.Split(rest)
	if err != nil {
		return nil, false
	}
	fields := make(map[string]string, len(tokens))
	for _, tok := range tokens {
		k, v, found := strings.Cut(tok, "=")
		if !found || k == "" {
			continue
		}
		fields[k] = v
	}
	return fields, true
}

// FindMarker scans payload text for the structured marker line.
func FindMarker(text string) (map[string]string, bool) {
	for _, line := range strings.Split(text, "\n") {
		if fields, ok := ParseMarker(line); ok {
			return fields, true
		}
	}
	return nil, false
}
