package schedule

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"cueplay/internal/media"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// fakeService returns canned descriptions keyed by canonical URI.
type fakeService struct {
	descriptions map[string]*media.Description
	describeErr  error
}

func (f *fakeService) Describe(_ context.Context, ref media.Reference) (*media.Description, error) {
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	if d, ok := f.descriptions[ref.URI()]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("unknown reference %s", ref.URI())
}

func (f *fakeService) Devices(context.Context) ([]media.Device, error) { return nil, nil }
func (f *fakeService) TransferPlayback(context.Context, string) error  { return nil }
func (f *fakeService) StartPlayback(context.Context, string, media.Reference) error {
	return nil
}
func (f *fakeService) CurrentVolume(context.Context) (int, error)   { return 0, nil }
func (f *fakeService) SetVolume(context.Context, string, int) error { return nil }

func newTestRegistry(runner *fakeRunner, svc media.Service) *Registry {
	reg := NewRegistry(runner, NewInspector(runner, "/usr/bin/cueplay", testLogger()), svc, testLogger())
	reg.goos = "linux"
	return reg
}

func TestParseQueueLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantID   string
		wantTime string // "" for unparseable
		queue    string
		user     string
	}{
		{
			name:     "tab delimited",
			line:     "5\tSat Oct  4 08:30:00 2025 a me",
			wantID:   "5",
			wantTime: "2025-10-04T08:30:00",
			queue:    "a",
			user:     "me",
		},
		{
			name:     "whitespace delimited",
			line:     "12 Wed Jan  1 09:00:00 2025 b root",
			wantID:   "12",
			wantTime: "2025-01-01T09:00:00",
			queue:    "b",
			user:     "root",
		},
		{
			name:   "missing queue and user",
			line:   "3\tSat Oct  4 08:30:00 2025",
			wantID: "3",
			wantTime: "2025-10-04T08:30:00",
		},
		{
			name:   "garbled timestamp",
			line:   "7\tnot a real date at all xx",
			wantID: "7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := parseQueueLine(tt.line)
			if !ok {
				t.Fatal("parseQueueLine() rejected line")
			}
			if rec.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", rec.ID, tt.wantID)
			}
			if tt.wantTime == "" {
				if rec.HasTimestamp {
					t.Errorf("unexpected timestamp %v", rec.ScheduledFor)
				}
			} else {
				want := mustTime(t, tt.wantTime)
				if !rec.HasTimestamp || !rec.ScheduledFor.Equal(want) {
					t.Errorf("ScheduledFor = %v (has=%v), want %v", rec.ScheduledFor, rec.HasTimestamp, want)
				}
			}
			if rec.Queue != tt.queue {
				t.Errorf("Queue = %q, want %q", rec.Queue, tt.queue)
			}
			if rec.User != tt.user {
				t.Errorf("User = %q, want %q", rec.User, tt.user)
			}
		})
	}
}

func TestListComputesPlaybackAt(t *testing.T) {
	payload := "sleep 42\n/usr/bin/cueplay spotify:track:4uLU6hMCjMI75M1A2tKUQC --now --volume 35 --no-browser\n"
	runner := &fakeRunner{outputs: map[string]fakeResult{
		"atq":     {stdout: "5\tSat Oct  4 08:30:00 2025 a me\n"},
		"at -c 5": {stdout: payload},
	}}
	svc := &fakeService{descriptions: map[string]*media.Description{
		"spotify:track:4uLU6hMCjMI75M1A2tKUQC": {Kind: media.KindTrack, Name: "Song 2", Artist: "Blur"},
	}}

	records, msg := newTestRegistry(runner, svc).List(context.Background())
	if msg != "" {
		t.Fatalf("List() message = %q", msg)
	}
	if len(records) != 1 {
		t.Fatalf("List() returned %d records, want 1", len(records))
	}

	rec := records[0]
	// The facility rounds to the minute; the sleep offset restores the
	// original target's seconds.
	wantPlayback := mustTime(t, "2025-10-04T08:30:42")
	if !rec.PlaybackAt.Equal(wantPlayback) {
		t.Errorf("PlaybackAt = %v, want %v", rec.PlaybackAt, wantPlayback)
	}
	if rec.MediaLabel != "Song 2 — Blur" {
		t.Errorf("MediaLabel = %q, want %q", rec.MediaLabel, "Song 2 — Blur")
	}
	if rec.Volume == nil || *rec.Volume != 35 {
		t.Errorf("Volume = %v, want 35", rec.Volume)
	}
}

func TestListSortsByScheduledTime(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]fakeResult{
		"atq": {stdout: "9\tSun Oct  5 10:00:00 2025 a me\n" +
			"4\tSat Oct  4 08:30:00 2025 a me\n"},
		"at -c 9": {stdout: "sleep 0\n/usr/bin/cueplay 4uLU6hMCjMI75M1A2tKUQC --now\n"},
		"at -c 4": {stdout: "sleep 0\n/usr/bin/cueplay 4uLU6hMCjMI75M1A2tKUQC --now\n"},
	}}

	records, _ := newTestRegistry(runner, nil).List(context.Background())
	if len(records) != 2 {
		t.Fatalf("List() returned %d records, want 2", len(records))
	}
	if records[0].ID != "4" || records[1].ID != "9" {
		t.Errorf("order = %s, %s; want 4, 9", records[0].ID, records[1].ID)
	}
}

func TestListEnrichmentFailureIsNonFatal(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]fakeResult{
		"atq":     {stdout: "5\tSat Oct  4 08:30:00 2025 a me\n"},
		"at -c 5": {stdout: "sleep 0\n/usr/bin/cueplay spotify:track:4uLU6hMCjMI75M1A2tKUQC --now\n"},
	}}
	svc := &fakeService{describeErr: fmt.Errorf("api down")}

	records, msg := newTestRegistry(runner, svc).List(context.Background())
	if msg != "" {
		t.Fatalf("List() message = %q", msg)
	}
	if len(records) != 1 {
		t.Fatalf("List() returned %d records, want 1", len(records))
	}
	// Falls back to the raw reference.
	if records[0].MediaLabel != "spotify:track:4uLU6hMCjMI75M1A2tKUQC" {
		t.Errorf("MediaLabel = %q, want canonical URI fallback", records[0].MediaLabel)
	}
}

func TestListSoftFailures(t *testing.T) {
	t.Run("unsupported platform", func(t *testing.T) {
		runner := &fakeRunner{}
		reg := newTestRegistry(runner, nil)
		reg.goos = "windows"
		records, msg := reg.List(context.Background())
		if records != nil || msg == "" {
			t.Errorf("List() = (%v, %q), want soft failure", records, msg)
		}
	})

	t.Run("atq missing", func(t *testing.T) {
		runner := &fakeRunner{lookPathErr: map[string]error{"atq": fmt.Errorf("not found")}}
		records, msg := newTestRegistry(runner, nil).List(context.Background())
		if records != nil || !strings.Contains(msg, "atq") {
			t.Errorf("List() = (%v, %q), want soft failure naming atq", records, msg)
		}
	})

	t.Run("atq fails", func(t *testing.T) {
		runner := &fakeRunner{outputs: map[string]fakeResult{
			"atq": {stderr: "atq: cannot open queue", err: fmt.Errorf("exit status 1")},
		}}
		records, msg := newTestRegistry(runner, nil).List(context.Background())
		if records != nil || !strings.Contains(msg, "cannot open queue") {
			t.Errorf("List() = (%v, %q), want facility diagnostic", records, msg)
		}
	})
}

func TestRemove(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		runner := &fakeRunner{outputs: map[string]fakeResult{
			"atrm 5": {},
		}}
		ok, msg := newTestRegistry(runner, nil).Remove(context.Background(), "5")
		if !ok {
			t.Errorf("Remove() failed: %s", msg)
		}
	})

	t.Run("facility failure", func(t *testing.T) {
		runner := &fakeRunner{outputs: map[string]fakeResult{
			"atrm 5": {stderr: "Cannot find jobid 5", err: fmt.Errorf("exit status 1")},
		}}
		ok, msg := newTestRegistry(runner, nil).Remove(context.Background(), "5")
		if ok || !strings.Contains(msg, "Cannot find jobid 5") {
			t.Errorf("Remove() = (%v, %q), want facility diagnostic", ok, msg)
		}
	})

	t.Run("precondition failures never invoke the facility", func(t *testing.T) {
		for _, id := range []string{"", "  ", "abc", "5; rm -rf /", "-1", "1.5"} {
			runner := &fakeRunner{}
			ok, msg := newTestRegistry(runner, nil).Remove(context.Background(), id)
			if ok {
				t.Errorf("Remove(%q) succeeded", id)
			}
			if msg == "" {
				t.Errorf("Remove(%q) gave no message", id)
			}
			if len(runner.calls) != 0 {
				t.Errorf("Remove(%q) invoked the facility: %v", id, runner.calls)
			}
		}
	})
}

func TestPlaybackAtRoundTrip(t *testing.T) {
	// Build a payload for a target with a seconds component, push it
	// through the inspector, and confirm the registry reconstructs the
	// original instant from the facility's whole-minute timestamp.
	target := mustTime(t, "2025-10-04T08:30:42")
	prog := Program{Path: "/usr/bin/cueplay", WorkDir: "/srv"}
	ref, err := media.ParseReference("4uLU6hMCjMI75M1A2tKUQC")
	if err != nil {
		t.Fatal(err)
	}
	payload := BuildPayload(prog, Spec{Target: target, Media: ref})

	runner := &fakeRunner{outputs: map[string]fakeResult{
		"atq":     {stdout: "8\tSat Oct  4 08:30:00 2025 a me\n"},
		"at -c 8": {stdout: payload},
	}}

	records, msg := newTestRegistry(runner, nil).List(context.Background())
	if msg != "" || len(records) != 1 {
		t.Fatalf("List() = (%d records, %q)", len(records), msg)
	}
	if !records[0].PlaybackAt.Equal(target) {
		t.Errorf("PlaybackAt = %v, want original target %v", records[0].PlaybackAt, target)
	}
}
