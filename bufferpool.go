package forme

import (
	"context"
	"sync"
)

// Pool drives a DoubleBuffer's render loop with its back-buffer clear
// overlapped into the caller's own frame-logic time: once Swap hands back
// a buffer that needs clearing, the clear runs on a background goroutine
// rather than blocking the next frame's draw calls, becoming visible only
// if the producer writes to back faster than the clearer can keep up.
//
// This changes nothing about DoubleBuffer's synchronous contract — it only
// decides when the "clear" half of swap -> clear_dirty happens.
type Pool struct {
	db *DoubleBuffer

	mu          sync.Mutex
	cond        *sync.Cond
	pending     bool
	defaultCell Cell
	stopped     bool
}

// NewPool wraps db with async back-buffer clearing using def as the fill
// value for newly cleared cells.
func NewPool(db *DoubleBuffer, def Cell) *Pool {
	p := &Pool{db: db, defaultCell: def}
	p.cond = sync.NewCond(&p.mu)
	go p.clearLoop()
	return p
}

// Current returns the buffer the next frame should draw into.
func (p *Pool) Current() *ScreenBuffer { return p.db.Back() }

// Swap advances the double buffer and schedules the new back buffer (the
// one just displayed) to be cleared in the background, returning the
// freshly-promoted back buffer for the next frame to draw into. If a clear
// scheduled on a previous cycle hasn't finished yet, Swap waits for it —
// this only happens if the caller produces frames faster than the
// background goroutine can clear, and preserves correctness over latency.
func (p *Pool) Swap() *ScreenBuffer {
	p.mu.Lock()
	for p.pending && !p.stopped {
		p.cond.Wait()
	}
	p.mu.Unlock()

	p.db.Swap()

	p.mu.Lock()
	if !p.stopped {
		p.pending = true
		p.cond.Signal()
	}
	p.mu.Unlock()

	return p.db.Back()
}

func (p *Pool) clearLoop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for {
		for !p.pending && !p.stopped {
			p.cond.Wait()
		}
		if p.stopped {
			return
		}
		def := p.defaultCell
		p.mu.Unlock()
		p.db.ClearBack(def)
		p.mu.Lock()
		p.pending = false
		p.cond.Broadcast()
	}
}

// Stop shuts down the background clearer. Subsequent Swap calls behave as
// if nothing were ever scheduled.
func (p *Pool) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.cond.Broadcast()
	p.mu.Unlock()
}

// Run executes frame once per loop iteration against the current back
// buffer, then swaps, until ctx is cancelled.
func (p *Pool) Run(ctx context.Context, frame func(*ScreenBuffer)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		frame(p.Current())
		p.Swap()
	}
}
