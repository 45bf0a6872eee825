package schedule

import (
	"errors"
	"testing"
	"time"

	cueerrors "cueplay/internal/errors"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02T15:04:05", value, time.Local)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}
	return parsed
}

func TestResolve(t *testing.T) {
	now := mustTime(t, "2025-01-01T10:00:00")

	tests := []struct {
		name    string
		in      ResolveInput
		want    string
		wantErr error
	}{
		{
			name: "time already past rolls to tomorrow",
			in:   ResolveInput{Time: "09:00"},
			want: "2025-01-02T09:00:00",
		},
		{
			name: "time still upcoming stays today",
			in:   ResolveInput{Time: "11:00"},
			want: "2025-01-01T11:00:00",
		},
		{
			name: "time equal to now counts as past",
			in:   ResolveInput{Time: "10:00"},
			want: "2025-01-02T10:00:00",
		},
		{
			name: "time with seconds",
			in:   ResolveInput{Time: "11:30:45"},
			want: "2025-01-01T11:30:45",
		},
		{
			name: "explicit future date",
			in:   ResolveInput{Time: "08:00", Date: "2025-03-01"},
			want: "2025-03-01T08:00:00",
		},
		{
			name:    "explicit past date never rolls forward",
			in:      ResolveInput{Time: "23:59", Date: "2024-12-31"},
			wantErr: cueerrors.ErrPastTime,
		},
		{
			name:    "explicit today with past time fails",
			in:      ResolveInput{Time: "09:00", Date: "2025-01-01"},
			wantErr: cueerrors.ErrPastTime,
		},
		{
			name: "absolute timestamp",
			in:   ResolveInput{At: "2025-02-01T08:30"},
			want: "2025-02-01T08:30:00",
		},
		{
			name: "absolute timestamp with space and seconds",
			in:   ResolveInput{At: "2025-02-01 08:30:15"},
			want: "2025-02-01T08:30:15",
		},
		{
			name: "absolute timestamp overrides time and date",
			in:   ResolveInput{At: "2025-02-01T08:30", Time: "26:99", Date: "not-a-date"},
			want: "2025-02-01T08:30:00",
		},
		{
			name:    "absolute timestamp in the past",
			in:      ResolveInput{At: "2024-12-31T23:59"},
			wantErr: cueerrors.ErrPastTime,
		},
		{
			name:    "absolute timestamp equal to now",
			in:      ResolveInput{At: "2025-01-01T10:00:00"},
			wantErr: cueerrors.ErrPastTime,
		},
		{
			name:    "absolute timestamp malformed",
			in:      ResolveInput{At: "tomorrow"},
			wantErr: cueerrors.ErrParse,
		},
		{
			name:    "no spec at all",
			in:      ResolveInput{},
			wantErr: cueerrors.ErrInvalidSpec,
		},
		{
			name:    "24:00 is invalid",
			in:      ResolveInput{Time: "24:00"},
			wantErr: cueerrors.ErrParse,
		},
		{
			name:    "minutes out of range",
			in:      ResolveInput{Time: "10:60"},
			wantErr: cueerrors.ErrParse,
		},
		{
			name:    "seconds out of range",
			in:      ResolveInput{Time: "10:00:60"},
			wantErr: cueerrors.ErrParse,
		},
		{
			name:    "non-numeric clock",
			in:      ResolveInput{Time: "ten:30"},
			wantErr: cueerrors.ErrParse,
		},
		{
			name:    "too many clock parts",
			in:      ResolveInput{Time: "10:00:00:00"},
			wantErr: cueerrors.ErrParse,
		},
		{
			name:    "bad date",
			in:      ResolveInput{Time: "10:30", Date: "2025-13-01"},
			wantErr: cueerrors.ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.in, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			want := mustTime(t, tt.want)
			if !got.Equal(want) {
				t.Errorf("Resolve() = %v, want %v", got, want)
			}
		})
	}
}

func TestResolveEndToEndExample(t *testing.T) {
	// A morning alarm scheduled the evening before: 08:30 has already
	// passed by 09:00, so the next occurrence is tomorrow.
	now := mustTime(t, "2025-10-03T09:00:00")
	got, err := Resolve(ResolveInput{Time: "08:30"}, now)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	want := mustTime(t, "2025-10-04T08:30:00")
	if !got.Equal(want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}
