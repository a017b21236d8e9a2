package backdrop

import (
	"context"
	"image"
	"sync"
)

// Result is the outcome of a scheduled render.
type Result struct {
	Seq   uint64
	Image *image.RGBA
	Err   error
}

// Scheduler serializes re-renders triggered by parameter changes. Only the
// most recent submission matters: submitting cancels the render in flight
// and completions of superseded renders are dropped.
type Scheduler struct {
	r Renderer

	mu        sync.Mutex
	seq       uint64
	cancel    context.CancelFunc
	latest    *image.RGBA
	latestSeq uint64
	closed    bool

	results chan Result
	wg      sync.WaitGroup
}

// NewScheduler returns a Scheduler driving r.
func NewScheduler(r Renderer) *Scheduler {
	return &Scheduler{
		r:       r,
		results: make(chan Result, 1),
	}
}

// Submit starts rendering src with style and returns the sequence number of
// the submission. It returns 0 once the scheduler is closed.
func (s *Scheduler) Submit(ctx context.Context, src []byte, style Style) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq

	rctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		img, err := s.r.Render(rctx, src, style)
		s.publish(Result{Seq: seq, Image: img, Err: err})
	}()
	return seq
}

func (s *Scheduler) publish(res Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || res.Seq != s.seq {
		Logger().Debug("dropped stale render", "seq", res.Seq, "current", s.seq)
		return
	}
	// The last good buffer survives a failed render.
	if res.Err == nil {
		s.latest, s.latestSeq = res.Image, res.Seq
	}
	// Replace an unread result, the consumer only cares about the newest one.
	select {
	case <-s.results:
	default:
	}
	s.results <- res
}

// Results delivers the completion of the newest submission. The channel is
// closed by Close.
func (s *Scheduler) Results() <-chan Result {
	return s.results
}

// Latest returns the last successfully rendered buffer and its sequence
// number, or nil when nothing was rendered yet.
func (s *Scheduler) Latest() (*image.RGBA, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.latest, s.latestSeq
}

// Close cancels the render in flight and waits for the workers to return.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()
	close(s.results)
}
