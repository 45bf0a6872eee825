package schedule

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cueplay/internal/media"
)

// JobRecord is a display-ready view of one pending job. Records are
// rebuilt from live facility output on every listing call and never
// cached; the OS queue is the sole source of truth.
type JobRecord struct {
	ID           string
	ScheduledFor time.Time
	PlaybackAt   time.Time
	HasTimestamp bool
	Command      string
	Media        *media.Reference
	MediaLabel   string
	Volume       *int
	Queue        string
	User         string
}

// queueTimeLayout matches atq's native timestamp, e.g.
// "Sat Oct  4 08:30:00 2025". Tokens are re-joined through Fields first,
// so the variable-width day needs no special handling.
const queueTimeLayout = "Mon Jan 2 15:04:05 2006"

// Registry lists and cancels pending jobs in the OS queue. The media
// service is optional; when present it enriches records with catalog
// descriptions.
type Registry struct {
	runner    Runner
	inspector *Inspector
	svc       media.Service
	log       zerolog.Logger
	goos      string
}

// NewRegistry creates a registry. svc may be nil to skip enrichment.
func NewRegistry(r Runner, inspector *Inspector, svc media.Service, log zerolog.Logger) *Registry {
	return &Registry{
		runner:    r,
		inspector: inspector,
		svc:       svc,
		log:       log,
		goos:      runtime.GOOS,
	}
}

// parseQueueLine splits one atq output line into an ID and a partial
// record. The ID is tab-delimited when a tab is present, otherwise the
// first whitespace field. The next five fields are the facility's
// timestamp; fields six and seven are queue and user.
func parseQueueLine(line string) (JobRecord, bool) {
	var id, remainder string
	if i := strings.IndexByte(line, '\t'); i >= 0 {
		id, remainder = line[:i], line[i+1:]
	} else {
		id, remainder, _ = strings.Cut(strings.TrimSpace(line), " ")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return JobRecord{}, false
	}

	rec := JobRecord{ID: id}

	fields := strings.Fields(remainder)
	if len(fields) >= 5 {
		stamp := strings.Join(fields[:5], " ")
		if t, err := time.ParseInLocation(queueTimeLayout, stamp, time.Local); err == nil {
			rec.ScheduledFor = t
			rec.HasTimestamp = true
		}
	}
	if len(fields) >= 6 {
		rec.Queue = fields[5]
	}
	if len(fields) >= 7 {
		rec.User = fields[6]
	}
	return rec, true
}

// List enumerates pending jobs. Failures are soft: an unsupported
// platform or missing facility yields no records plus an explanatory
// message, and per-job enrichment failures never suppress other records.
func (r *Registry) List(ctx context.Context) ([]JobRecord, string) {
	if r.goos == "windows" {
		return nil, "Job listing is not supported on this platform."
	}
	if _, err := r.runner.LookPath("atq"); err != nil {
		return nil, "The 'atq' command is not available; cannot list scheduled jobs."
	}

	stdout, stderr, err := r.runner.Run(ctx, "atq")
	if err != nil {
		diag := strings.TrimSpace(stderr)
		if diag == "" {
			diag = err.Error()
		}
		return nil, "Unable to list scheduled jobs: " + diag
	}

	var records []JobRecord
	for _, line := range strings.Split(stdout, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, ok := parseQueueLine(line)
		if !ok {
			continue
		}

		if insp, ok := r.inspector.Inspect(ctx, rec.ID); ok {
			rec.Command = insp.Command
			rec.Media = insp.Media
			rec.Volume = insp.Volume
			if rec.HasTimestamp && insp.HasSleep {
				rec.PlaybackAt = rec.ScheduledFor.Add(time.Duration(insp.SleepSeconds) * time.Second)
			}
		}

		if rec.Media != nil {
			rec.MediaLabel = r.describe(ctx, *rec.Media)
		}

		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ScheduledFor.Before(records[j].ScheduledFor)
	})
	return records, ""
}

// describe looks up a catalog description, falling back to the canonical
// URI when the service is absent or the lookup fails.
func (r *Registry) describe(ctx context.Context, ref media.Reference) string {
	if r.svc == nil {
		return ref.URI()
	}
	desc, err := r.svc.Describe(ctx, ref)
	if err != nil {
		r.log.Debug().Str("media", ref.URI()).Err(err).Msg("description lookup failed")
		return ref.URI()
	}
	return desc.Label()
}

// isNumeric reports whether s is a non-empty string of ASCII digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Remove cancels a pending job. The ID must be numeric before the
// facility is invoked at all; every failure reads as a soft message.
func (r *Registry) Remove(ctx context.Context, jobID string) (bool, string) {
	jobID = strings.TrimSpace(jobID)
	if !isNumeric(jobID) {
		return false, "Job ID must be a number."
	}
	if r.goos == "windows" {
		return false, "Job removal is not supported on this platform."
	}
	if _, err := r.runner.LookPath("atrm"); err != nil {
		return false, "The 'atrm' command is not available; cannot remove jobs."
	}

	_, stderr, err := r.runner.Run(ctx, "atrm", jobID)
	if err != nil {
		diag := strings.TrimSpace(stderr)
		if diag == "" {
			diag = err.Error()
		}
		return false, "Unable to remove job " + jobID + ": " + diag
	}

	r.log.Info().Str("job", jobID).Msg("removed scheduled job")
	return true, "Removed job " + jobID + "."
}
