// Package report aggregates filtered entries into per-day and per-tag totals.
package report

import (
	"sort"
	"time"

	"github.com/Tiliavir/timelog/internal/model"
	"github.com/Tiliavir/timelog/internal/timecalc"
)

// DayTotal is the tracked time of one calendar day.
type DayTotal struct {
	Date    string `json:"date"`
	Seconds int64  `json:"seconds"`
}

// TagTotal is the tracked time of one tag. Untagged entries use Tag "".
type TagTotal struct {
	Tag     string `json:"tag"`
	Seconds int64  `json:"seconds"`
}

// Summary aggregates a set of entries.
type Summary struct {
	Entries      int        `json:"entries"`
	TotalSeconds int64      `json:"total_seconds"`
	Days         []DayTotal `json:"days"`
	Tags         []TagTotal `json:"tags"`
	// Running is set when a still-running entry was counted up to now.
	Running bool `json:"running"`
}

// Summarize totals entries. Running entries count up to now; days are
// keyed by the entry's start date in now's location.
func Summarize(entries []model.TimeEntry, now time.Time) Summary {
	s := Summary{Days: []DayTotal{}, Tags: []TagTotal{}}
	days := map[time.Time]int64{}
	tags := map[string]int64{}

	for _, e := range entries {
		sec := int64(e.Duration(now).Seconds())
		day := timecalc.StartOfDay(e.Start.In(now.Location()))
		days[day] += sec
		tags[e.TagOrEmpty()] += sec
		s.TotalSeconds += sec
		s.Entries++
		if e.Running() {
			s.Running = true
		}
	}

	dayKeys := make([]time.Time, 0, len(days))
	for d := range days {
		dayKeys = append(dayKeys, d)
	}
	sort.Slice(dayKeys, func(i, j int) bool { return dayKeys[i].Before(dayKeys[j]) })
	for _, d := range dayKeys {
		s.Days = append(s.Days, DayTotal{Date: d.Format("2006-01-02"), Seconds: days[d]})
	}

	tagKeys := make([]string, 0, len(tags))
	for t := range tags {
		tagKeys = append(tagKeys, t)
	}
	sort.Strings(tagKeys)
	for _, t := range tagKeys {
		s.Tags = append(s.Tags, TagTotal{Tag: t, Seconds: tags[t]})
	}
	return s
}
