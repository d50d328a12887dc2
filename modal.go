package scratchcard

import (
	"context"
)

// ModalSession is the enlarged, interactive view of one card. A single
// surface and controller are reused for every card opened; the session
// writes each stroke's outcome back to the store and to the grid presenter
// of the same index.
type ModalSession struct {
	session *Session
	surface *Surface
	ctrl    *Controller
	zoom    *ZoomOverlay
	lookup  func(CardIndex) *CardPresenter

	active     CardIndex
	file, name string
	generation uint64
	live       bool
	pending    *ReleaseEvent

	reveal  RevealState
	visuals Visuals
	image   fader
	label   fader
}

// NewModalSession returns a closed modal. lookup resolves a card index to
// its grid presenter and may return nil.
func NewModalSession(session *Session, lookup func(CardIndex) *CardPresenter) *ModalSession {
	m := &ModalSession{
		session: session,
		surface: session.newSurface(0, 0),
		zoom:    NewZoomOverlay(),
		lookup:  lookup,
		active:  NoCard,
	}
	m.ctrl = NewController(session, m.surface, NoCard)
	m.ctrl.OnProgress = m.onProgress
	m.ctrl.OnReveal = m.onReveal
	m.ctrl.OnRelease = func(ev ReleaseEvent) { m.pending = &ev }
	m.visuals = Visuals{}
	return m
}

// Active returns the open card, or NoCard.
func (m *ModalSession) Active() CardIndex {
	return m.active
}

// IsOpen reports whether a card is open.
func (m *ModalSession) IsOpen() bool {
	return m.active != NoCard
}

// File returns the open card's image identifier.
func (m *ModalSession) File() string {
	return m.file
}

// Name returns the open card's display name.
func (m *ModalSession) Name() string {
	return m.name
}

// Surface returns the shared modal scratch layer.
func (m *ModalSession) Surface() *Surface {
	return m.surface
}

// Controller returns the modal's controller.
func (m *ModalSession) Controller() *Controller {
	return m.ctrl
}

// Zoom returns the zoom overlay.
func (m *ModalSession) Zoom() *ZoomOverlay {
	return m.zoom
}

// Reveal returns the open card's reveal state.
func (m *ModalSession) Reveal() RevealState {
	return m.reveal
}

// Visuals returns the target visuals of the open card.
func (m *ModalSession) Visuals() Visuals {
	return m.visuals
}

// Displayed returns the visuals as currently drawn, mid-transition.
func (m *ModalSession) Displayed() Visuals {
	return Visuals{
		ImageOpacity:   m.image.value,
		LabelOpacity:   m.label.value,
		SurfaceVisible: m.visuals.SurfaceVisible,
	}
}

// Generation increments on every Open and Close. Work started for one
// opening carries its generation and is dropped by Deliver if the modal has
// moved on.
func (m *ModalSession) Generation() uint64 {
	return m.generation
}

// Deliver runs fn only if gen is still the current generation. It reports
// whether fn ran.
func (m *ModalSession) Deliver(gen uint64, fn func()) bool {
	if gen != m.generation || m.active == NoCard {
		return false
	}
	fn()
	return true
}

// Open binds the modal to index, resets zoom and visuals, sizes the shared
// surface to w×h and initializes it from the store. Call it once the modal's
// rendered size is known.
func (m *ModalSession) Open(ctx context.Context, index CardIndex, w, h int) error {
	p := m.lookup(index)
	if index < 0 || p == nil {
		return ErrIndexOutOfRange
	}
	if m.active != NoCard {
		m.Close()
	}
	m.generation++
	m.active = index
	m.file = p.File
	m.name = p.Name

	m.zoom.Enable(false)
	m.zoom.Snap()
	m.image.jump(0)
	m.label.jump(0)
	m.visuals = VisualsFor(RevealState{})

	if m.surface.Width() != w || m.surface.Height() != h {
		m.surface.Resize(w, h)
	} else {
		m.surface.Clear()
	}
	m.live = false
	m.ctrl.Bind(index)
	m.ctrl.Init(ctx)
	m.session.logger().Debug("modal opened", "card", int(index), "revealed", m.reveal.Revealed)
	return nil
}

// Close unbinds the modal, clears the surface and resets zoom. Any stroke in
// progress is dropped without being saved.
func (m *ModalSession) Close() {
	if m.active == NoCard {
		return
	}
	m.session.logger().Debug("modal closed", "card", int(m.active))
	m.ctrl.Cancel()
	m.ctrl.Bind(NoCard)
	m.pending = nil
	m.active = NoCard
	m.file, m.name = "", ""
	m.generation++
	m.surface.Clear()
	m.zoom.Enable(false)
	m.zoom.Snap()
	m.reveal = RevealState{}
	m.visuals = Visuals{}
	m.image.jump(0)
	m.label.jump(0)
}

// Reinit re-runs initialization for the open card, e.g. after a reset or a
// persistence toggle. The card stays open, so the generation is kept.
func (m *ModalSession) Reinit(ctx context.Context) {
	if m.active == NoCard {
		return
	}
	m.ctrl.Cancel()
	m.pending = nil
	m.zoom.Enable(false)
	m.zoom.Snap()
	m.live = false
	m.ctrl.Init(ctx)
}

// PointerDown starts a stroke on the modal surface.
func (m *ModalSession) PointerDown(p Vec2) {
	if m.active == NoCard {
		return
	}
	m.live = true
	m.ctrl.PointerDown(p)
}

// PointerMove continues a stroke on the modal surface.
func (m *ModalSession) PointerMove(p Vec2) {
	if m.active == NoCard {
		return
	}
	m.ctrl.PointerMove(p)
}

// PointerUp ends a stroke, saves it and brings the grid cell of the same
// card up to date.
func (m *ModalSession) PointerUp(ctx context.Context) error {
	if m.active == NoCard {
		return nil
	}
	defer func() { m.live = false }()
	if err := m.ctrl.PointerUp(ctx); err != nil {
		m.pending = nil
		return err
	}
	if m.pending == nil {
		return nil
	}
	ev := *m.pending
	m.pending = nil
	m.writeBack(ctx, ev)
	return nil
}

// PointerLeave behaves like PointerUp.
func (m *ModalSession) PointerLeave(ctx context.Context) error {
	return m.PointerUp(ctx)
}

// Click toggles the zoom when the card is revealed. bounds is the image box
// the click landed in.
func (m *ModalSession) Click(p Vec2, bounds Rect) bool {
	if m.active == NoCard || !m.reveal.Revealed {
		return false
	}
	return m.zoom.Toggle(p, bounds)
}

// Update advances transitions by dt seconds.
func (m *ModalSession) Update(dt float32) {
	m.image.update(dt)
	m.label.update(dt)
	m.zoom.Update(dt)
}

func (m *ModalSession) writeBack(ctx context.Context, ev ReleaseEvent) {
	p := m.lookup(ev.Index)
	if p == nil {
		return
	}
	if ev.Saved {
		p.RefreshFromStore(ctx)
	} else if err := p.Adopt(ev.Snapshot); err != nil {
		m.session.logger().Debug("grid write-back failed", "card", int(ev.Index), "err", err)
	}
	if m.reveal.Revealed {
		p.Mirror(m.reveal)
	}
}

func (m *ModalSession) onProgress(r RevealState) {
	m.reveal = r
	m.visuals = VisualsFor(r)
	m.image.set(m.visuals.ImageOpacity, fadeDuration, m.live)
	m.label.set(m.visuals.LabelOpacity, fadeDuration, m.live)
}

func (m *ModalSession) onReveal(r RevealState) {
	m.zoom.Enable(true)
	if p := m.lookup(m.ctrl.Index()); p != nil {
		p.Mirror(r)
	}
}
