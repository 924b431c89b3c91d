package ledger_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/timelog/internal/ledger"
	"github.com/Tiliavir/timelog/internal/model"
	"github.com/Tiliavir/timelog/internal/storage"
	"github.com/Tiliavir/timelog/internal/timecalc"
)

var t0 = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func newLedger(t *testing.T, projects ...string) (*ledger.Ledger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timelog.yaml")
	l := ledger.New(storage.New(path), ledger.WithLocation(time.UTC))
	for _, p := range projects {
		require.NoError(t, l.CreateProject(p))
	}
	return l, path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func openCount(entries []model.TimeEntry) int {
	n := 0
	for _, e := range entries {
		if e.Running() {
			n++
		}
	}
	return n
}

func TestCreateProject(t *testing.T) {
	l, path := newLedger(t, "writing")

	err := l.CreateProject("writing")
	require.ErrorIs(t, err, ledger.ErrProjectExists)

	require.ErrorIs(t, l.CreateProject("   "), ledger.ErrInvalidName)

	require.NoError(t, l.CreateProject(" ops "))
	names, err := l.ListProjects()
	require.NoError(t, err)
	assert.Equal(t, []string{"writing", "ops"}, names)
	assert.Contains(t, readFile(t, path), "name: ops")
}

func TestDeleteProject(t *testing.T) {
	l, path := newLedger(t, "a", "b")
	_, err := l.StartEntry("a", nil, t0)
	require.NoError(t, err)

	before := readFile(t, path)
	err = l.DeleteProject("missing")
	require.ErrorIs(t, err, ledger.ErrProjectNotFound)
	require.ErrorIs(t, err, ledger.ErrNotFound)
	assert.Equal(t, before, readFile(t, path))

	require.NoError(t, l.DeleteProject("a"))
	names, err := l.ListProjects()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names)

	// Entries of a deleted project are kept.
	entries, err := l.ListEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Project)

	n, err := l.ProjectUsage("a")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStartEntryUnknownProject(t *testing.T) {
	l, _ := newLedger(t)
	_, err := l.StartEntry("nope", nil, t0)
	require.ErrorIs(t, err, ledger.ErrProjectNotFound)
}

func TestWritingScenario(t *testing.T) {
	l, path := newLedger(t, "writing")
	t1 := t0.Add(45 * time.Minute)

	res, err := l.StartEntry("writing", nil, t0)
	require.NoError(t, err)
	assert.Nil(t, res.Stopped)
	assert.Equal(t, 0, res.Started.ID)

	before := readFile(t, path)
	_, err = l.StartEntry("writing", ptr("draft"), t0.Add(time.Second))
	require.ErrorIs(t, err, ledger.ErrAlreadyRunning)
	assert.Equal(t, before, readFile(t, path), "failed start must not modify the ledger")

	stopped, err := l.StopEntry(t1)
	require.NoError(t, err)
	require.NotNil(t, stopped.End)
	assert.True(t, stopped.End.Equal(t1))

	entries, err := l.EntriesForPeriod(timecalc.All, t1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "writing", e.Project)
	assert.Equal(t, "", e.TagOrEmpty())
	assert.True(t, e.Start.Equal(t0))
	require.NotNil(t, e.End)
	assert.True(t, e.End.Equal(t1))
}

func TestStartSwitchesProjects(t *testing.T) {
	l, _ := newLedger(t, "a", "b")
	t1 := t0.Add(time.Hour)

	_, err := l.StartEntry("a", nil, t0)
	require.NoError(t, err)
	res, err := l.StartEntry("b", nil, t1)
	require.NoError(t, err)
	require.NotNil(t, res.Stopped)
	assert.Equal(t, "a", res.Stopped.Project)

	entries, err := l.ListEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "a", entries[0].Project)
	assert.True(t, entries[0].Start.Equal(t0))
	require.NotNil(t, entries[0].End)
	assert.True(t, entries[0].End.Equal(t1))

	assert.Equal(t, "b", entries[1].Project)
	assert.True(t, entries[1].Start.Equal(t1))
	assert.Nil(t, entries[1].End)
}

func TestAtMostOneOpenEntry(t *testing.T) {
	l, _ := newLedger(t, "a", "b", "c")
	at := t0
	steps := []string{"a", "b", "stop", "c", "a", "stop", "stop", "b", "c", "a"}
	for _, step := range steps {
		at = at.Add(10 * time.Minute)
		if step == "stop" {
			_, err := l.StopEntry(at)
			if err != nil {
				require.ErrorIs(t, err, ledger.ErrNoEntryRunning)
			}
		} else {
			_, err := l.StartEntry(step, nil, at)
			require.NoError(t, err)
		}
		entries, err := l.ListEntries()
		require.NoError(t, err)
		require.LessOrEqual(t, openCount(entries), 1, "after %q", step)
	}
}

func TestStopWithoutRunningEntry(t *testing.T) {
	l, path := newLedger(t, "a")
	before := readFile(t, path)
	_, err := l.StopEntry(t0)
	require.ErrorIs(t, err, ledger.ErrNoEntryRunning)
	assert.Equal(t, before, readFile(t, path))
}

func TestIDsStayUniqueAfterDelete(t *testing.T) {
	l, _ := newLedger(t, "a", "b")
	_, err := l.StartEntry("a", nil, t0)
	require.NoError(t, err)
	_, err = l.StartEntry("b", nil, t0.Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, l.DeleteEntry(0))

	res, err := l.StartEntry("a", nil, t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Started.ID)

	entries, err := l.ListEntries()
	require.NoError(t, err)
	ids := map[int]bool{}
	for _, e := range entries {
		assert.False(t, ids[e.ID], "duplicate id %d", e.ID)
		ids[e.ID] = true
	}
}

func TestDeleteEntryNotFound(t *testing.T) {
	l, path := newLedger(t, "a")
	before := readFile(t, path)
	err := l.DeleteEntry(42)
	require.ErrorIs(t, err, ledger.ErrEntryNotFound)
	require.ErrorIs(t, err, ledger.ErrNotFound)
	assert.Equal(t, before, readFile(t, path))
}

func TestUpdateEntry(t *testing.T) {
	l, _ := newLedger(t, "a")
	_, err := l.StartEntry("a", nil, t0)
	require.NoError(t, err)

	require.NoError(t, l.UpdateEntry(0, "2026-10-18 08:15", "2026-10-18 12:30"))
	entries, err := l.ListEntries()
	require.NoError(t, err)
	assert.True(t, entries[0].Start.Equal(time.Date(2026, 10, 18, 8, 15, 0, 0, time.UTC)))
	require.NotNil(t, entries[0].End)
	assert.True(t, entries[0].End.Equal(time.Date(2026, 10, 18, 12, 30, 0, 0, time.UTC)))

	// Reopening is allowed while nothing else runs.
	require.NoError(t, l.UpdateEntry(0, "2026-10-18 08:15", ledger.OngoingMarker))
	active, err := l.ActiveEntry()
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, 0, active.ID)
}

func TestStopAfterReopenWithLaterStart(t *testing.T) {
	l, _ := newLedger(t, "a", "b")
	_, err := l.StartEntry("a", nil, t0)
	require.NoError(t, err)
	require.NoError(t, l.UpdateEntry(0, "2026-10-19 12:00", ledger.OngoingMarker))

	stopped, err := l.StopEntry(t0.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, stopped.End)
	assert.True(t, stopped.End.Equal(stopped.Start), "end is clamped to start")
	assert.Equal(t, time.Duration(0), stopped.Duration(t0))

	require.NoError(t, l.UpdateEntry(0, "2026-10-19 12:00", ""))
	res, err := l.StartEntry("b", nil, t0.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, res.Stopped)
	require.NotNil(t, res.Stopped.End)
	assert.True(t, res.Stopped.End.Equal(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)))
}

func TestProjectNamesAreTrimmed(t *testing.T) {
	l, _ := newLedger(t, " a ")

	res, err := l.StartEntry(" a", nil, t0)
	require.NoError(t, err)
	assert.Equal(t, "a", res.Started.Project)

	n, err := l.ProjectUsage("a ")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := l.FetchEntries(ledger.Query{Period: timecalc.All, Project: " a "}, t0)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, l.DeleteProject(" a "))
	names, err := l.ListProjects()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestUpdateEntryErrors(t *testing.T) {
	l, path := newLedger(t, "a", "b")
	_, err := l.StartEntry("a", nil, t0)
	require.NoError(t, err)
	_, err = l.StartEntry("b", nil, t0.Add(time.Hour))
	require.NoError(t, err)
	before := readFile(t, path)

	tests := []struct {
		name  string
		id    int
		start string
		end   string
		want  error
	}{
		{"bad start", 0, "yesterday", "2026-10-19 10:00", timecalc.ErrParse},
		{"bad end", 0, "2026-10-19 09:00", "10:00", timecalc.ErrParse},
		{"unknown id", 9, "2026-10-19 09:00", "2026-10-19 10:00", ledger.ErrEntryNotFound},
		{"reversed range", 0, "2026-10-19 11:00", "2026-10-19 10:00", ledger.ErrInvalidRange},
		{"reopen while other runs", 0, "2026-10-19 09:00", "", ledger.ErrAlreadyRunning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.UpdateEntry(tt.id, tt.start, tt.end)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
			assert.Equal(t, before, readFile(t, path))
		})
	}
}

func TestFetchEntries(t *testing.T) {
	l, _ := newLedger(t, "proj", "other")
	now := time.Date(2026, 10, 19, 18, 0, 0, 0, time.UTC)

	steps := []struct {
		project string
		tag     *string
		at      time.Time
	}{
		{"proj", nil, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)},
		{"proj", ptr("draft"), time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)},
		{"other", ptr("draft"), time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)},
		{"proj", ptr("review"), time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)},
		{"proj", ptr("draft"), time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)},
	}
	for i, s := range steps {
		if i > 0 {
			_, err := l.StopEntry(s.at)
			require.NoError(t, err)
		}
		_, err := l.StartEntry(s.project, s.tag, s.at)
		require.NoError(t, err)
	}

	ids := func(entries []model.TimeEntry) []int {
		out := []int{}
		for _, e := range entries {
			out = append(out, e.ID)
		}
		return out
	}

	tests := []struct {
		name string
		q    ledger.Query
		want []int
	}{
		{"all any tag", ledger.Query{Period: timecalc.All, Project: "proj"}, []int{0, 1, 3, 4}},
		{"all draft", ledger.Query{Period: timecalc.All, Project: "proj", Tag: ptr("draft")}, []int{1, 4}},
		{"day", ledger.Query{Period: timecalc.Day, Project: "proj"}, []int{3, 4}},
		{"week", ledger.Query{Period: timecalc.Week, Project: "proj"}, []int{3, 4}},
		{"month", ledger.Query{Period: timecalc.Month, Project: "proj"}, []int{1, 3, 4}},
		{"year draft", ledger.Query{Period: timecalc.Year, Project: "proj", Tag: ptr("draft")}, []int{1, 4}},
		{"case sensitive", ledger.Query{Period: timecalc.All, Project: "Proj"}, []int{}},
		{"unknown tag", ledger.Query{Period: timecalc.All, Project: "proj", Tag: ptr("none")}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.FetchEntries(tt.q, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	day, err := l.EntriesForPeriod(timecalc.Day, now)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, ids(day))
}

func TestQueriesDoNotWrite(t *testing.T) {
	l, path := newLedger(t, "a")
	_, err := l.StartEntry("a", nil, t0)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Chmod(path, 0o400))
	t.Cleanup(func() { _ = os.Chmod(path, 0o600) })

	_, err = l.ListProjects()
	require.NoError(t, err)
	_, err = l.FetchEntries(ledger.Query{Period: timecalc.All, Project: "a"}, t0)
	require.NoError(t, err)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), after.ModTime())
}
