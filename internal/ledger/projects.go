package ledger

import (
	"fmt"
	"strings"

	"github.com/Tiliavir/timelog/internal/model"
)

// projectName normalises a project name as given by the user.
func projectName(name string) string {
	return strings.TrimSpace(name)
}

// CreateProject registers a new project.
func (l *Ledger) CreateProject(name string) error {
	name = projectName(name)
	if name == "" {
		return ErrInvalidName
	}
	err := l.store.Update(func(doc *model.Document) error {
		if doc.HasProject(name) {
			return fmt.Errorf("%w: %q", ErrProjectExists, name)
		}
		doc.Projects = append(doc.Projects, model.ProjectDef{Name: name})
		return nil
	})
	if err != nil {
		return err
	}
	l.log.Debug("project created", "project", name)
	return nil
}

// DeleteProject removes a project. Entries referencing it are kept.
func (l *Ledger) DeleteProject(name string) error {
	name = projectName(name)
	orphaned := 0
	err := l.store.Update(func(doc *model.Document) error {
		if !doc.RemoveProject(name) {
			return fmt.Errorf("%w: %q", ErrProjectNotFound, name)
		}
		orphaned = countProject(doc.Entries, name)
		return nil
	})
	if err != nil {
		return err
	}
	l.log.Debug("project deleted", "project", name, "orphaned_entries", orphaned)
	return nil
}

// ListProjects returns all project names in insertion order.
func (l *Ledger) ListProjects() ([]string, error) {
	doc, err := l.store.Load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(doc.Projects))
	for _, p := range doc.Projects {
		names = append(names, p.Name)
	}
	return names, nil
}

// ProjectUsage returns how many entries reference the named project.
func (l *Ledger) ProjectUsage(name string) (int, error) {
	name = projectName(name)
	doc, err := l.store.Load()
	if err != nil {
		return 0, err
	}
	return countProject(doc.Entries, name), nil
}

func countProject(entries []model.TimeEntry, name string) int {
	n := 0
	for _, e := range entries {
		if e.Project == name {
			n++
		}
	}
	return n
}
