package capture

import (
	"context"
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// Prefetcher reads frames on its own goroutine and hands the newest one to the
// processing loop through a Slot. Frames the loop was too slow to take are closed.
type Prefetcher struct {
	source FrameSource
	slot   *Slot[*gocv.Mat]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu  sync.Mutex
	err error
}

// NewPrefetcher wraps source. Call Start before ReadFrame.
func NewPrefetcher(source FrameSource) *Prefetcher {
	return &Prefetcher{
		source: source,
		slot:   NewSlot[*gocv.Mat](),
	}
}

// Start launches the capture goroutine.
func (p *Prefetcher) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Add(1)
	go p.run()
}

func (p *Prefetcher) run() {
	defer p.wg.Done()
	defer p.slot.Close()

	for p.ctx.Err() == nil {
		frame, err := p.source.ReadFrame()
		if err != nil {
			p.mu.Lock()
			p.err = err
			p.mu.Unlock()
			return
		}
		if old, ok := p.slot.Put(frame); ok {
			old.Close()
		}
	}
}

// ReadFrame implements FrameSource. It blocks until the next frame arrives and
// reports the capture error once the stream has ended.
func (p *Prefetcher) ReadFrame() (*gocv.Mat, error) {
	frame, err := p.slot.Take(p.ctx)
	if errors.Is(err, ErrSlotClosed) {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.err != nil {
			return nil, p.err
		}
		return nil, ErrStreamEnded
	}
	if err != nil {
		return nil, err
	}
	return frame, nil
}

// Stop ends the capture goroutine and releases any frame left in the slot.
func (p *Prefetcher) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	p.wg.Wait()
	for {
		frame, ok := p.slot.Drain()
		if !ok {
			return
		}
		frame.Close()
	}
}

// Dropped returns how many frames were discarded unseen.
func (p *Prefetcher) Dropped() uint64 {
	return p.slot.Drops()
}
