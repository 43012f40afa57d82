package stage

import "github.com/ivlev/lobbyreel/internal/scroll"

// Ticker is advanced once per frame
type Ticker interface {
	Tick(dt float64)
}

// ScrollListener is notified whenever the scroll fraction changes
type ScrollListener interface {
	OnScrollChanged(percent float64)
}

// TickFunc adapts a function to Ticker
type TickFunc func(dt float64)

func (f TickFunc) Tick(dt float64) { f(dt) }

// Document is the scrollable host: its total height and the viewport height
type Document struct {
	Height         float64
	ViewportHeight float64
}

// Scheduler replaces the browser's frame callback and scroll listener:
// Scroll is the scroll event, Frame the animation frame. Both run on the
// caller's goroutine.
type Scheduler struct {
	ctx       *Context
	doc       Document
	offset    float64
	tickers   []Ticker
	listeners []ScrollListener
}

func NewScheduler(ctx *Context, doc Document) *Scheduler {
	return &Scheduler{ctx: ctx, doc: doc}
}

// OnFrame registers a per-frame ticker
func (s *Scheduler) OnFrame(t Ticker) {
	s.tickers = append(s.tickers, t)
}

// OnScroll registers a scroll listener
func (s *Scheduler) OnScroll(l ScrollListener) {
	s.listeners = append(s.listeners, l)
}

// Scroll sets the scroll offset in pixels and notifies listeners
func (s *Scheduler) Scroll(offset float64) float64 {
	s.offset = offset
	percent := scroll.ComputeScrollPercent(offset, s.doc.Height, s.doc.ViewportHeight)
	s.ctx.Percent = percent
	for _, l := range s.listeners {
		l.OnScrollChanged(percent)
	}
	return percent
}

// Offset is the last scroll offset
func (s *Scheduler) Offset() float64 {
	return s.offset
}

// Extent is the scrollable height of the document
func (s *Scheduler) Extent() float64 {
	return s.doc.Height - s.doc.ViewportHeight
}

// Frame advances the clock and runs every ticker in registration order
func (s *Scheduler) Frame(dt float64) {
	s.ctx.Elapsed += dt
	s.ctx.Frame++
	for _, t := range s.tickers {
		t.Tick(dt)
	}
}
