package ledger

import (
	"time"

	"github.com/Tiliavir/timelog/internal/model"
	"github.com/Tiliavir/timelog/internal/timecalc"
)

// Query selects entries for a report. Project must match exactly; a nil
// Tag matches every entry.
type Query struct {
	Period  timecalc.Period
	Project string
	Tag     *string
}

// Match reports whether e satisfies q relative to now.
func (q Query) Match(e model.TimeEntry, now time.Time) bool {
	if !q.Period.Contains(e.Start, now) {
		return false
	}
	if e.Project != q.Project {
		return false
	}
	if q.Tag != nil && (e.Tag == nil || *e.Tag != *q.Tag) {
		return false
	}
	return true
}

// EntriesForPeriod returns the entries whose start falls into period.
func (l *Ledger) EntriesForPeriod(period timecalc.Period, now time.Time) ([]model.TimeEntry, error) {
	doc, err := l.store.Load()
	if err != nil {
		return nil, err
	}
	var out []model.TimeEntry
	for _, e := range doc.Entries {
		if period.Contains(e.Start, now) {
			out = append(out, e)
		}
	}
	return out, nil
}

// FetchEntries returns the entries matching q, in storage order. The
// project name is trimmed like in CreateProject.
func (l *Ledger) FetchEntries(q Query, now time.Time) ([]model.TimeEntry, error) {
	q.Project = projectName(q.Project)
	doc, err := l.store.Load()
	if err != nil {
		return nil, err
	}
	var out []model.TimeEntry
	for _, e := range doc.Entries {
		if q.Match(e, now) {
			out = append(out, e)
		}
	}
	return out, nil
}
