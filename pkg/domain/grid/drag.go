package grid

import (
	"math"
	"sync"
	"time"
)

// DragState is the phase of the drag interaction machine.
type DragState int

const (
	// DragIdle: no draft interval exists.
	DragIdle DragState = iota
	// DragAnchored: pointer is down but has not moved past the drag
	// threshold; a pointer-up here may still be a click.
	DragAnchored
	// DragActive: the pointer moved far enough, the draft rubber-bands with
	// every move.
	DragActive
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragAnchored:
		return "anchored"
	case DragActive:
		return "dragging"
	default:
		return "unknown"
	}
}

// ScrollPort is the scrollable container a drag operates inside.
type ScrollPort interface {
	ScrollTop() float64
	SetScrollTop(top float64)
	ViewHeight() float64
	MaxScroll() float64
}

// DragCallbacks receive the machine's outputs. Nil callbacks are skipped.
type DragCallbacks struct {
	// OnDraft fires whenever the draft interval changes, and once more with
	// dragging=false right before OnClick/OnComplete so consumers always
	// observe the settled interval before the commit signal.
	OnDraft func(span Span, dragging bool)
	// OnClick fires exactly once when a pointer-up resolves to a click.
	OnClick func(anchor time.Time)
	// OnComplete fires exactly once when a drag resolves to a usable
	// interval.
	OnComplete func(span Span)
	// OnDiscard fires when the gesture produced nothing: cancellation,
	// sub-snap drags, long presses that never moved.
	OnDiscard func()
}

// DragConfig tunes the machine. Zero fields take defaults via Normalize.
type DragConfig struct {
	MinDragDistance float64       // px before Anchored becomes Dragging
	ClickMaxWait    time.Duration // pointer-up later than this is not a click
	EdgeZone        float64       // px from top/bottom that trigger auto-scroll
	ScrollStep      float64       // px moved per auto-scroll tick
	TickEvery       time.Duration // auto-scroll tick period

	// Now is the clock; injectable for tests.
	Now func() time.Time

	// StartTicker starts a repeating tick and returns its stop function.
	// Injectable for tests; the default runs a time.Ticker goroutine.
	StartTicker func(every time.Duration, tick func()) (stop func())
}

// Normalize fills zero fields with the standard defaults.
func (c DragConfig) Normalize() DragConfig {
	if c.MinDragDistance <= 0 {
		c.MinDragDistance = 5
	}
	if c.ClickMaxWait <= 0 {
		c.ClickMaxWait = 200 * time.Millisecond
	}
	if c.EdgeZone <= 0 {
		c.EdgeZone = 50
	}
	if c.ScrollStep <= 0 {
		c.ScrollStep = 10
	}
	if c.TickEvery <= 0 {
		c.TickEvery = 16 * time.Millisecond
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.StartTicker == nil {
		c.StartTicker = tickerLoop
	}
	return c
}

func tickerLoop(every time.Duration, tick func()) (stop func()) {
	done := make(chan struct{})
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				tick()
			}
		}
	}()
	return func() { close(done) }
}

// Drag turns a sequence of pointer events into either a click or a
// rubber-band drag over a day column. Only one drag may be active at a
// time; a pointer-down while another pointer owns the gesture is ignored.
type Drag struct {
	mu   sync.Mutex
	geo  Geometry
	cfg  DragConfig
	port ScrollPort
	cb   DragCallbacks

	state     DragState
	pointerID int

	day       time.Time
	anchor    time.Time
	anchorX   float64
	anchorY   float64
	lastY     float64
	downAt    time.Time
	draft     Span
	scrollDir int // -1 up, +1 down, 0 off
	stopTick  func()
}

// NewDrag builds a machine over the given geometry and scroll container.
func NewDrag(geo Geometry, cfg DragConfig, port ScrollPort, cb DragCallbacks) *Drag {
	return &Drag{
		geo:  geo.Normalize(),
		cfg:  cfg.Normalize(),
		port: port,
		cb:   cb,
	}
}

// State returns the current machine state.
func (d *Drag) State() DragState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// PointerDown begins a gesture at viewport coordinates (x, y) inside the
// column for day. Returns false when another pointer already owns the
// gesture.
func (d *Drag) PointerDown(pointerID int, x, y float64, day time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != DragIdle {
		return false
	}

	d.state = DragAnchored
	d.pointerID = pointerID
	d.day = day
	d.anchor = d.geo.TimeAt(y, d.port.ScrollTop(), day, SnapFloor)
	d.anchorX, d.anchorY = x, y
	d.lastY = y
	d.downAt = d.cfg.Now()
	d.draft = Span{From: d.anchor, To: d.anchor.Add(d.geo.Snap())}

	d.emitDraft(false)
	return true
}

// PointerMove updates the gesture. Moves from other pointers, or while no
// gesture is active, are ignored.
func (d *Drag) PointerMove(pointerID int, x, y float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == DragIdle || pointerID != d.pointerID {
		return
	}

	if d.state == DragAnchored {
		dx, dy := x-d.anchorX, y-d.anchorY
		if math.Hypot(dx, dy) < d.cfg.MinDragDistance {
			return // jitter on what is meant to be a click
		}
		d.state = DragActive
	}

	d.lastY = y
	d.retrack()
	d.updateAutoScroll(y)
}

// PointerUp ends the gesture and resolves it to a click, a completed drag,
// or a silent discard.
func (d *Drag) PointerUp(pointerID int, x, y float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == DragIdle || pointerID != d.pointerID {
		return
	}

	d.haltAutoScroll()
	elapsed := d.cfg.Now().Sub(d.downAt)
	state := d.state
	d.state = DragIdle

	switch {
	case state == DragAnchored && elapsed < d.cfg.ClickMaxWait:
		// Click: the one-block draft stays visible for hand-off to the
		// edit surface.
		d.emitDraft(false)
		if d.cb.OnClick != nil {
			d.cb.OnClick(d.anchor)
		}
	case state == DragActive && d.draft.Duration() >= d.geo.Snap():
		d.emitDraft(false)
		if d.cb.OnComplete != nil {
			d.cb.OnComplete(d.draft)
		}
	default:
		// Long press that never dragged, or a drag that collapsed below one
		// snap block: interaction noise, not a fault.
		if d.cb.OnDiscard != nil {
			d.cb.OnDiscard()
		}
	}
}

// Cancel unconditionally terminates the gesture: escape key, or a
// pointer-up captured outside any tracked cell. Auto-scroll stops with the
// drag, never after it.
func (d *Drag) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.haltAutoScroll()
	if d.state == DragIdle {
		return
	}
	d.state = DragIdle
	if d.cb.OnDiscard != nil {
		d.cb.OnDiscard()
	}
}

// Tick applies one auto-scroll step. Exposed so injected tickers (and
// tests) can drive it; guarded so a tick that fires after the drag ended is
// a no-op.
func (d *Drag) Tick() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != DragActive || d.scrollDir == 0 {
		return
	}

	top := d.port.ScrollTop() + float64(d.scrollDir)*d.cfg.ScrollStep
	if top < 0 {
		top = 0
	}
	if max := d.port.MaxScroll(); top > max {
		top = max
	}
	d.port.SetScrollTop(top)

	// Scrolling changes the time under a stationary pointer.
	d.retrack()
}

// retrack recomputes the draft from the last pointer position. Caller holds
// the lock.
func (d *Drag) retrack() {
	cur := d.geo.TimeAt(d.lastY, d.port.ScrollTop(), d.day, SnapRound)

	if cur.Equal(d.anchor) {
		d.draft = Span{From: d.anchor, To: d.anchor.Add(d.geo.Snap())}
	} else if cur.Before(d.anchor) {
		d.draft = Span{From: cur, To: d.anchor}
	} else {
		d.draft = Span{From: d.anchor, To: cur}
	}

	d.emitDraft(true)
}

func (d *Drag) updateAutoScroll(y float64) {
	dir := 0
	switch {
	case y < d.cfg.EdgeZone:
		dir = -1
	case y > d.port.ViewHeight()-d.cfg.EdgeZone:
		dir = 1
	}

	if dir == d.scrollDir {
		return
	}
	d.haltAutoScroll()
	if dir != 0 {
		d.scrollDir = dir
		d.stopTick = d.cfg.StartTicker(d.cfg.TickEvery, d.Tick)
	}
}

func (d *Drag) haltAutoScroll() {
	d.scrollDir = 0
	if d.stopTick != nil {
		d.stopTick()
		d.stopTick = nil
	}
}

func (d *Drag) emitDraft(dragging bool) {
	if d.cb.OnDraft != nil {
		d.cb.OnDraft(d.draft, dragging)
	}
}
