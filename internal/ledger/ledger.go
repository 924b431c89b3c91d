// Package ledger implements the project registry, the entry ledger and the
// period queries on top of a storage.Store. Every mutating call is one
// load-mutate-save transaction; every query reloads the document.
package ledger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Tiliavir/timelog/internal/storage"
)

var (
	// ErrNotFound is matched by ErrProjectNotFound and ErrEntryNotFound.
	ErrNotFound = errors.New("not found")

	ErrProjectExists   = errors.New("project already exists")
	ErrProjectNotFound = fmt.Errorf("project %w", ErrNotFound)
	ErrEntryNotFound   = fmt.Errorf("entry %w", ErrNotFound)
	ErrInvalidName     = errors.New("project name must not be empty")
	ErrAlreadyRunning  = errors.New("project already started")
	ErrNoEntryRunning  = errors.New("no project started")
	ErrInvalidRange    = errors.New("entry ends before it starts")
)

// Ledger is the entry point for all project and entry operations.
type Ledger struct {
	store *storage.Store
	log   *slog.Logger
	loc   *time.Location
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for mutation events.
func WithLogger(log *slog.Logger) Option {
	return func(l *Ledger) {
		if log != nil {
			l.log = log
		}
	}
}

// WithLocation sets the location textual timestamps are parsed in.
// Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// New returns a Ledger persisting to store.
func New(store *storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}
