package model

import (
	"fmt"
	"time"
)

// ProjectDef is a named project entries can be tracked against.
type ProjectDef struct {
	Name string `yaml:"name" json:"name"`
}

// TimeEntry is one tracked work session. A nil End means it is still running.
type TimeEntry struct {
	ID      int        `yaml:"id" json:"id"`
	Project string     `yaml:"project" json:"project"`
	Tag     *string    `yaml:"tag" json:"tag"`
	Start   time.Time  `yaml:"start" json:"start"`
	End     *time.Time `yaml:"end" json:"end"`
}

// Running reports whether the entry has not been stopped yet.
func (e TimeEntry) Running() bool {
	return e.End == nil
}

// TagOrEmpty returns the tag, or "" for untagged entries.
func (e TimeEntry) TagOrEmpty() string {
	if e.Tag == nil {
		return ""
	}
	return *e.Tag
}

// Duration returns the length of the entry. Running entries are measured up to now.
func (e TimeEntry) Duration(now time.Time) time.Duration {
	end := now
	if e.End != nil {
		end = *e.End
	}
	if end.Before(e.Start) {
		return 0
	}
	return end.Sub(e.Start)
}

// Document is the root structure stored in the timelog file.
type Document struct {
	NextID   int          `yaml:"next_id"`
	Projects []ProjectDef `yaml:"projects"`
	Entries  []TimeEntry  `yaml:"entries"`
}

// HasProject reports whether a project with the given name exists.
func (d *Document) HasProject(name string) bool {
	return d.projectIndex(name) >= 0
}

func (d *Document) projectIndex(name string) int {
	for i, p := range d.Projects {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// RemoveProject deletes the named project and reports whether it was present.
func (d *Document) RemoveProject(name string) bool {
	i := d.projectIndex(name)
	if i < 0 {
		return false
	}
	d.Projects = append(d.Projects[:i], d.Projects[i+1:]...)
	return true
}

// OpenEntry returns the first running entry, or nil.
func (d *Document) OpenEntry() *TimeEntry {
	for i := range d.Entries {
		if d.Entries[i].Running() {
			return &d.Entries[i]
		}
	}
	return nil
}

// FindEntry returns the entry with the given id, or nil.
func (d *Document) FindEntry(id int) *TimeEntry {
	for i := range d.Entries {
		if d.Entries[i].ID == id {
			return &d.Entries[i]
		}
	}
	return nil
}

// RemoveEntry deletes the entry with the given id and reports whether it was present.
func (d *Document) RemoveEntry(id int) bool {
	for i := range d.Entries {
		if d.Entries[i].ID == id {
			d.Entries = append(d.Entries[:i], d.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// AllocateID returns the next free entry id and advances the counter.
func (d *Document) AllocateID() int {
	d.Normalize()
	id := d.NextID
	d.NextID++
	return id
}

// Normalize raises NextID above every stored id. Files written before the
// counter existed carry next_id 0.
func (d *Document) Normalize() {
	for _, e := range d.Entries {
		if e.ID >= d.NextID {
			d.NextID = e.ID + 1
		}
	}
}

// Validate checks the structural shape of a loaded document: non-empty
// unique project names and unique entry ids.
func (d *Document) Validate() error {
	names := make(map[string]struct{}, len(d.Projects))
	for _, p := range d.Projects {
		if p.Name == "" {
			return fmt.Errorf("project with empty name")
		}
		if _, dup := names[p.Name]; dup {
			return fmt.Errorf("duplicate project %q", p.Name)
		}
		names[p.Name] = struct{}{}
	}

	ids := make(map[int]struct{}, len(d.Entries))
	for _, e := range d.Entries {
		if _, dup := ids[e.ID]; dup {
			return fmt.Errorf("duplicate entry id %d", e.ID)
		}
		ids[e.ID] = struct{}{}
	}
	return nil
}

// CheckInvariants runs Validate and additionally requires at most one
// running entry and no entry ending before it starts. Every mutation is
// checked with it before the document is written.
func (d *Document) CheckInvariants() error {
	if err := d.Validate(); err != nil {
		return err
	}
	open := 0
	for _, e := range d.Entries {
		if e.Running() {
			open++
			continue
		}
		if e.End.Before(e.Start) {
			return fmt.Errorf("entry %d ends before it starts", e.ID)
		}
	}
	if open > 1 {
		return fmt.Errorf("%d entries are running, at most one is allowed", open)
	}
	return nil
}
