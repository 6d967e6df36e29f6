package scanning

import "sync"

// ProgressFunc receives scan progress as a percentage.
type ProgressFunc func(percent int)

// progress forwards only non-decreasing values in 0..100.
type progress struct {
	mu   sync.Mutex
	fn   ProgressFunc
	last int
}

func newProgress(fn ProgressFunc) *progress {
	return &progress{fn: fn, last: -1}
}

func (p *progress) report(percent int) {
	if p == nil || p.fn == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	p.mu.Lock()
	if percent <= p.last {
		p.mu.Unlock()
		return
	}
	p.last = percent
	p.mu.Unlock()

	p.fn(percent)
}
