package timecalc

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// EntryLayout is the textual timestamp format accepted when editing entries.
const EntryLayout = "2006-01-02 15:04"

// ErrParse is matched by every ParseError.
var ErrParse = errors.New("invalid timestamp")

// ParseError reports a timestamp that does not match the expected layout.
type ParseError struct {
	Input  string
	Layout string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid timestamp %q, expected layout %q", e.Input, e.Layout)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ParseLocal parses s with EntryLayout in loc.
func ParseLocal(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(EntryLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, &ParseError{Input: s, Layout: EntryLayout}
	}
	return t, nil
}

// Period is a calendar granularity relative to "now".
type Period string

const (
	Day   Period = "day"
	Week  Period = "week"
	Month Period = "month"
	Year  Period = "year"
	All   Period = "all"
)

// Periods lists every valid period in ascending span.
var Periods = []Period{Day, Week, Month, Year, All}

// ParsePeriod converts a case-insensitive period name.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Periods {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown period %q (want one of day, week, month, year, all)", s)
}

// Contains reports whether start falls into the period around now. start is
// compared in now's location. Month deliberately ignores the year.
func (p Period) Contains(start, now time.Time) bool {
	start = start.In(now.Location())
	switch p {
	case Day:
		return SameDay(start, now)
	case Week:
		sy, sw := start.ISOWeek()
		ny, nw := now.ISOWeek()
		return sy == ny && sw == nw
	case Month:
		return start.Month() == now.Month()
	case Year:
		return start.Year() == now.Year()
	case All:
		return true
	}
	return false
}

// Label returns a human-readable description of the period around now,
// e.g. "2026-10-19", "2026-W43" or "October".
func (p Period) Label(now time.Time) string {
	switch p {
	case Day:
		return now.Format("2006-01-02")
	case Week:
		return ISOWeekLabel(now)
	case Month:
		return now.Month().String()
	case Year:
		return now.Format("2006")
	}
	return "all time"
}

// FormatDuration formats seconds as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatDurationHHMMSS formats seconds as HH:MM:SS.
func FormatDurationHHMMSS(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
	sunday := monday.AddDate(0, 0, 6)
	sunday = time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 0, t.Location())
	return monday, sunday
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
