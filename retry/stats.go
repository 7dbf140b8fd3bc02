// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package retry

import (
	"sync"

	"github.com/poiesic/docmem/core"
)

// Stats accumulates error events into per-category counters. Counters are
// monotonically non-decreasing for the lifetime of the Stats instance.
// Safe for concurrent use.
type Stats struct {
	mu       sync.Mutex
	byCat    map[core.Category]uint64
	total    uint64
	lastSeen core.ErrorEvent
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{
		byCat: make(map[core.Category]uint64),
	}
}

// Record adds one event to the counters. Implements core.EventRecorder.
func (s *Stats) Record(event core.ErrorEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byCat[event.Category]++
	s.total++
	s.lastSeen = event
}

// Count returns the number of events recorded for a category.
func (s *Stats) Count(category core.Category) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byCat[category]
}

// Total returns the number of events recorded across all categories.
func (s *Stats) Total() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Snapshot returns a copy of the per-category counters.
func (s *Stats) Snapshot() map[core.Category]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[core.Category]uint64, len(s.byCat))
	for cat, n := range s.byCat {
		out[cat] = n
	}
	return out
}

// LastEvent returns the most recently recorded event, if any.
func (s *Stats) LastEvent() (core.ErrorEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen, s.total > 0
}
