// Package measureutil accumulates byte counts of encoded objects under
// string labels.
package measureutil

import (
	"sort"
	"sync"
)

// Recorder is a concurrency-safe label -> bytes accumulator.
type Recorder struct {
	mu sync.Mutex
	m  map[string]uint64
}

// Global is the process-wide recorder.
var Global = &Recorder{}

// Add adds n bytes to label.
func (r *Recorder) Add(label string, n int) {
	r.mu.Lock()
	if r.m == nil {
		r.m = map[string]uint64{}
	}
	r.m[label] += uint64(n)
	r.mu.Unlock()
}

// SnapshotAndReset returns the accumulated counts and clears them.
func (r *Recorder) SnapshotAndReset() map[string]uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.m
	if out == nil {
		out = map[string]uint64{}
	}
	r.m = nil
	return out
}

// SnapshotAndReset returns the global counts and clears them.
func SnapshotAndReset() map[string]uint64 {
	return Global.SnapshotAndReset()
}

// Labels returns the keys of m in sorted order.
func Labels(m map[string]uint64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
