package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/Tiliavir/timelog/internal/model"
	"github.com/Tiliavir/timelog/internal/timecalc"
)

// OngoingMarker can be passed as the end of UpdateEntry to reopen an entry.
const OngoingMarker = "ongoing"

// StartResult describes the outcome of StartEntry.
type StartResult struct {
	Started model.TimeEntry
	// Stopped is the entry of another project that was closed implicitly, if any.
	Stopped *model.TimeEntry
}

// StartEntry opens a new entry for project at the given time. A running
// entry of a different project is closed at the same instant (see closeEntry).
func (l *Ledger) StartEntry(project string, tag *string, at time.Time) (StartResult, error) {
	var res StartResult
	project = projectName(project)
	err := l.store.Update(func(doc *model.Document) error {
		if !doc.HasProject(project) {
			return fmt.Errorf("%w: %q", ErrProjectNotFound, project)
		}
		if open := doc.OpenEntry(); open != nil {
			if open.Project == project {
				return fmt.Errorf("%w: %q", ErrAlreadyRunning, project)
			}
			closeEntry(open, at)
			stopped := *open
			res.Stopped = &stopped
		}

		entry := model.TimeEntry{
			ID:      doc.AllocateID(),
			Project: project,
			Tag:     tag,
			Start:   at,
		}
		doc.Entries = append(doc.Entries, entry)
		res.Started = entry
		return nil
	})
	if err != nil {
		return StartResult{}, err
	}

	if res.Stopped != nil {
		l.log.Info("auto-stopped running entry", "id", res.Stopped.ID, "project", res.Stopped.Project)
	}
	l.log.Debug("entry started", "id", res.Started.ID, "project", project, "tag", res.Started.TagOrEmpty())
	return res, nil
}

// StopEntry closes the running entry at the given time and returns it.
func (l *Ledger) StopEntry(at time.Time) (model.TimeEntry, error) {
	var stopped model.TimeEntry
	err := l.store.Update(func(doc *model.Document) error {
		open := doc.OpenEntry()
		if open == nil {
			return ErrNoEntryRunning
		}
		closeEntry(open, at)
		stopped = *open
		return nil
	})
	if err != nil {
		return model.TimeEntry{}, err
	}
	l.log.Debug("entry stopped", "id", stopped.ID, "project", stopped.Project)
	return stopped, nil
}

// closeEntry ends e at at. An entry whose start lies after at ends at its
// start instead, so the document stays consistent.
func closeEntry(e *model.TimeEntry, at time.Time) {
	end := at
	if end.Before(e.Start) {
		end = e.Start
	}
	e.End = &end
}

// UpdateEntry rewrites start and end of an entry. Both are parsed with
// timecalc.EntryLayout in the ledger's location. An end of "" or
// OngoingMarker reopens the entry, which is refused while another entry
// is running.
func (l *Ledger) UpdateEntry(id int, start, end string) error {
	startTime, err := timecalc.ParseLocal(start, l.loc)
	if err != nil {
		return err
	}
	var endTime *time.Time
	if e := strings.TrimSpace(end); e != "" && !strings.EqualFold(e, OngoingMarker) {
		t, err := timecalc.ParseLocal(end, l.loc)
		if err != nil {
			return err
		}
		if t.Before(startTime) {
			return fmt.Errorf("%w: %s is before %s", ErrInvalidRange, t.Format(timecalc.EntryLayout), startTime.Format(timecalc.EntryLayout))
		}
		endTime = &t
	}

	err = l.store.Update(func(doc *model.Document) error {
		entry := doc.FindEntry(id)
		if entry == nil {
			return fmt.Errorf("%w: %d", ErrEntryNotFound, id)
		}
		if endTime == nil {
			if open := doc.OpenEntry(); open != nil && open.ID != id {
				return fmt.Errorf("%w: entry %d for %q is running", ErrAlreadyRunning, open.ID, open.Project)
			}
		}
		entry.Start = startTime
		entry.End = endTime
		return nil
	})
	if err != nil {
		return err
	}
	l.log.Debug("entry updated", "id", id, "reopened", endTime == nil)
	return nil
}

// DeleteEntry removes an entry.
func (l *Ledger) DeleteEntry(id int) error {
	err := l.store.Update(func(doc *model.Document) error {
		if !doc.RemoveEntry(id) {
			return fmt.Errorf("%w: %d", ErrEntryNotFound, id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	l.log.Debug("entry deleted", "id", id)
	return nil
}

// ListEntries returns every entry in storage order.
func (l *Ledger) ListEntries() ([]model.TimeEntry, error) {
	doc, err := l.store.Load()
	if err != nil {
		return nil, err
	}
	return doc.Entries, nil
}

// ActiveEntry returns the running entry, or nil if nothing is running.
func (l *Ledger) ActiveEntry() (*model.TimeEntry, error) {
	doc, err := l.store.Load()
	if err != nil {
		return nil, err
	}
	return doc.OpenEntry(), nil
}
