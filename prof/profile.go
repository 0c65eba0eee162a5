// Package prof collects wall-clock timings of labelled operations.
package prof

import (
	"sort"
	"sync"
	"time"
)

// Entry represents a single timing measurement.
type Entry struct {
	Label string
	Dur   time.Duration
}

// Stat aggregates the entries of one label.
type Stat struct {
	Label string
	Count int
	Mean  time.Duration
	Min   time.Duration
	Max   time.Duration
}

var (
	mu     sync.Mutex
	record []Entry
)

// Track logs the duration since start with the given name. Use it as
// defer prof.Track(time.Now(), "label").
func Track(start time.Time, name string) {
	elapsed := time.Since(start)
	mu.Lock()
	record = append(record, Entry{Label: name, Dur: elapsed})
	mu.Unlock()
}

// SnapshotAndReset returns the collected timing entries and clears them.
func SnapshotAndReset() []Entry {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Entry, len(record))
	copy(out, record)
	record = nil
	return out
}

// Summarize groups entries by label, sorted by label.
func Summarize(entries []Entry) []Stat {
	by := map[string]*Stat{}
	total := map[string]time.Duration{}
	for _, e := range entries {
		s, ok := by[e.Label]
		if !ok {
			s = &Stat{Label: e.Label, Min: e.Dur, Max: e.Dur}
			by[e.Label] = s
		}
		s.Count++
		total[e.Label] += e.Dur
		if e.Dur < s.Min {
			s.Min = e.Dur
		}
		if e.Dur > s.Max {
			s.Max = e.Dur
		}
	}
	out := make([]Stat, 0, len(by))
	for label, s := range by {
		s.Mean = total[label] / time.Duration(s.Count)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
