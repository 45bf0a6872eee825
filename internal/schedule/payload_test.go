package schedule

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/kballard/go-shellquote"

	"cueplay/internal/media"
)

func intPtr(n int) *int { return &n }

func testSpec(t *testing.T, target string, device string, volume *int) Spec {
	t.Helper()
	ref, err := media.ParseReference("spotify:track:4uLU6hMCjMI75M1A2tKUQC")
	if err != nil {
		t.Fatalf("ParseReference: %v", err)
	}
	return Spec{
		Target: mustTime(t, target),
		Media:  ref,
		Device: device,
		Volume: volume,
	}
}

func TestBuildCommand(t *testing.T) {
	prog := Program{Path: "/usr/local/bin/cueplay", WorkDir: "/home/me"}

	tests := []struct {
		name   string
		device string
		volume *int
		want   []string
	}{
		{
			name: "minimal",
			want: []string{"/usr/local/bin/cueplay", "spotify:track:4uLU6hMCjMI75M1A2tKUQC", "--now", "--no-browser"},
		},
		{
			name:   "device and volume",
			device: "Kitchen Speaker",
			volume: intPtr(35),
			want: []string{
				"/usr/local/bin/cueplay", "spotify:track:4uLU6hMCjMI75M1A2tKUQC",
				"--now", "--device", "Kitchen Speaker", "--volume", "35", "--no-browser",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testSpec(t, "2025-10-04T08:30:00", tt.device, tt.volume)
			got := BuildCommand(prog, spec)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BuildCommand() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildPayloadSleepMatchesTargetSeconds(t *testing.T) {
	prog := Program{Path: "/usr/local/bin/cueplay", WorkDir: "/home/me"}
	spec := testSpec(t, "2025-10-04T08:30:42", "", nil)

	payload := BuildPayload(prog, spec)

	if !strings.Contains(payload, "\nsleep 42\n") {
		t.Errorf("payload missing sleep 42:\n%s", payload)
	}

	insp := AnalyzePayload(payload)
	if !insp.HasSleep || insp.SleepSeconds != 42 {
		t.Errorf("AnalyzePayload sleep = %d (has=%v), want 42", insp.SleepSeconds, insp.HasSleep)
	}
}

func TestBuildPayloadQuoting(t *testing.T) {
	// Paths and device names with shell metacharacters must survive as
	// single tokens.
	prog := Program{Path: "/opt/my tools/cueplay", WorkDir: "/home/me/My Music"}
	spec := testSpec(t, "2025-10-04T08:30:00", `Living Room; rm -rf /`, intPtr(80))

	payload := BuildPayload(prog, spec)
	insp := AnalyzePayload(payload)
	if !insp.HasCommand {
		t.Fatalf("no command recovered from payload:\n%s", payload)
	}

	tokens, err := shellquote.Split(insp.Command)
	if err != nil {
		t.Fatalf("command does not tokenize: %v", err)
	}
	want := []string{
		"/opt/my tools/cueplay", "spotify:track:4uLU6hMCjMI75M1A2tKUQC",
		"--now", "--device", "Living Room; rm -rf /", "--volume", "80", "--no-browser",
	}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("command tokens mismatch (-want +got):\n%s", diff)
	}

	if !strings.Contains(payload, "cd '/home/me/My Music'\n") {
		t.Errorf("workdir not quoted:\n%s", payload)
	}
}

func TestBuildPayloadActivationLine(t *testing.T) {
	spec := testSpec(t, "2025-10-04T08:30:00", "", nil)

	withEnv := Program{Path: "/usr/bin/cueplay", WorkDir: "/srv", Activate: "/srv/.venv/bin/activate"}
	payload := BuildPayload(withEnv, spec)
	if !strings.Contains(payload, "\n. /srv/.venv/bin/activate\n") {
		t.Errorf("activation line missing:\n%s", payload)
	}

	without := Program{Path: "/usr/bin/cueplay", WorkDir: "/srv"}
	payload = BuildPayload(without, spec)
	if strings.Contains(payload, "activate") {
		t.Errorf("unexpected activation line:\n%s", payload)
	}
}

func TestBuildPayloadMarkerRoundTrip(t *testing.T) {
	prog := Program{Path: "/usr/bin/cueplay", WorkDir: "/srv"}
	spec := testSpec(t, "2025-10-04T08:30:42", "Kitchen Speaker", intPtr(35))

	payload := BuildPayload(prog, spec)

	fields, ok := FindMarker(payload)
	if !ok {
		t.Fatalf("no marker in payload:\n%s", payload)
	}
	if fields["media"] != spec.Media.Raw {
		t.Errorf("marker media = %q, want %q", fields["media"], spec.Media.Raw)
	}
	if fields["device"] != "Kitchen Speaker" {
		t.Errorf("marker device = %q, want %q", fields["device"], "Kitchen Speaker")
	}
	if fields["volume"] != "35" {
		t.Errorf("marker volume = %q, want %q", fields["volume"], "35")
	}
	at, err := time.Parse(time.RFC3339, fields["at"])
	if err != nil {
		t.Fatalf("marker at does not parse: %v", err)
	}
	if !at.Equal(spec.Target) {
		t.Errorf("marker at = %v, want %v", at, spec.Target)
	}
}

func TestBuildWindowsCommand(t *testing.T) {
	prog := Program{Path: `C:\Tools\cueplay.exe`, WorkDir: `C:\Users\me`}
	spec := testSpec(t, "2025-10-04T08:30:00", "Office", nil)

	got := BuildWindowsCommand(prog, spec)
	for _, piece := range []string{"cueplay.exe", spec.Media.Raw, "--now", "--device", "Office", "--no-browser"} {
		if !strings.Contains(got, piece) {
			t.Errorf("windows command missing %q: %s", piece, got)
		}
	}
	if strings.Contains(got, "sleep") {
		t.Errorf("windows command must not embed a sleep step: %s", got)
	}
}
