package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cueplay/internal/errors"
)

// ResolveInput carries the raw time specification from the CLI or web form.
type ResolveInput struct {
	At   string // absolute ISO timestamp; overrides Time/Date when set
	Time string // HH:MM or HH:MM:SS
	Date string // YYYY-MM-DD, combined with Time
}

// Accepted layouts for the --at timestamp.
var atLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

const dateLayout = "2006-01-02"

// clock is a validated wall-clock time of day.
type clock struct {
	hour, minute, second int
}

// parseClock validates an HH:MM or HH:MM:SS string. 24:00 is rejected;
// hours run 0-23 and minutes/seconds 0-59.
func parseClock(s string) (clock, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return clock{}, fmt.Errorf("%w: use HH:MM or HH:MM:SS for the clock time", errors.ErrParse)
	}

	values := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return clock{}, fmt.Errorf("%w: clock values must be integers", errors.ErrParse)
		}
		values[i] = v
	}

	c := clock{hour: values[0], minute: values[1]}
	if len(values) == 3 {
		c.second = values[2]
	}

	if c.hour < 0 || c.hour > 23 || c.minute < 0 || c.minute > 59 || c.second < 0 || c.second > 59 {
		return clock{}, fmt.Errorf("%w: clock values are out of range", errors.ErrParse)
	}
	return c, nil
}

// Resolve turns a time specification into one concrete future instant.
//
// An absolute At timestamp overrides everything else and must be strictly
// in the future. Otherwise Time is required and combined with Date, or
// with today's date; a combination without an explicit Date that has
// already passed rolls forward one day ("next occurrence"), while an
// explicit past Date is a hard failure. An instant equal to now counts
// as past.
func Resolve(in ResolveInput, now time.Time) (time.Time, error) {
	loc := now.Location()

	if in.At != "" {
		var target time.Time
		var err error
		for _, layout := range atLayouts {
			target, err = time.ParseInLocation(layout, in.At, loc)
			if err == nil {
				break
			}
		}
		if err != nil {
			return time.Time{}, fmt.Errorf(
				"%w: unable to parse %q (use ISO format, e.g. 2025-10-03T08:30)", errors.ErrParse, in.At)
		}
		if !target.After(now) {
			return time.Time{}, fmt.Errorf("%w: the absolute timestamp must be in the future", errors.ErrPastTime)
		}
		return target, nil
	}

	if in.Time == "" {
		return time.Time{}, errors.ErrInvalidSpec
	}

	c, err := parseClock(in.Time)
	if err != nil {
		return time.Time{}, err
	}

	var year int
	var month time.Month
	var day int
	if in.Date != "" {
		d, err := time.ParseInLocation(dateLayout, in.Date, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: unable to parse date %q (use YYYY-MM-DD)", errors.ErrParse, in.Date)
		}
		year, month, day = d.Date()
	} else {
		year, month, day = now.Date()
	}

	candidate := time.Date(year, month, day, c.hour, c.minute, c.second, 0, loc)
	if !candidate.After(now) {
		if in.Date != "" {
			return time.Time{}, fmt.Errorf("%w: the chosen date/time has already passed", errors.ErrPastTime)
		}
		// No explicit date: schedule the next occurrence.
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate, nil
}
