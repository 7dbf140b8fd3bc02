package reembed

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports reembedding progress to a writer at a fixed
// record interval. Progress lines share one terminal line via carriage
// returns until Finish prints the trailing newline.
type ProgressTracker struct {
	mu      sync.Mutex
	w       io.Writer
	total   int
	every   int
	done    int
	lastOut int
	began   time.Time
}

// NewProgressTracker builds a tracker over total records that writes a
// line every reportInterval records. Output typically goes to os.Stderr.
func NewProgressTracker(w io.Writer, total, reportInterval int) *ProgressTracker {
	return &ProgressTracker{
		w:     w,
		total: total,
		every: reportInterval,
	}
}

// Start resets counters and begins timing. Updates before Start are ignored.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.began = time.Now()
	p.done = 0
	p.lastOut = 0
}

// Update records that current records have been processed so far, capped
// at the total. A line is written when a report interval has been crossed.
func (p *ProgressTracker) Update(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.began.IsZero() {
		return
	}
	p.done = min(current, p.total)

	if p.done-p.lastOut >= p.every {
		p.writeLine()
		p.lastOut = p.done
	}
}

// Finish forces progress to the total, writes a final line and a newline.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.began.IsZero() {
		return
	}
	p.done = p.total
	p.writeLine()
	fmt.Fprintln(p.w)
}

// Elapsed returns the time since Start, or zero if Start was never called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.began.IsZero() {
		return 0
	}
	return time.Since(p.began)
}

// writeLine emits one progress line. Caller holds the lock.
func (p *ProgressTracker) writeLine() {
	elapsed := time.Since(p.began)
	rate := float64(p.done) / elapsed.Seconds()

	pct := 0.0
	if p.total > 0 {
		pct = float64(p.done) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.w, "\rProgress: %d/%d (%.1f%%) - %.1f records/s",
		p.done, p.total, pct, rate)
}
