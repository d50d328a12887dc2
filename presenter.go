package scratchcard

import (
	"context"
)

// Visuals is the visual state of one card: the hidden image, its label and
// the scratch layer on top.
type Visuals struct {
	ImageOpacity   float64
	LabelOpacity   float64
	SurfaceVisible bool
}

// VisualsFor derives a card's visuals from its reveal state. It is the only
// place visuals are computed; toggling persistence or resetting never
// rebuilds presenters, it just feeds a new RevealState through here.
func VisualsFor(r RevealState) Visuals {
	if r.Revealed {
		return Visuals{ImageOpacity: 1, LabelOpacity: 1, SurfaceVisible: false}
	}
	return Visuals{ImageOpacity: 0, LabelOpacity: LabelOpacity(r.Fraction), SurfaceVisible: true}
}

// CardPresenter binds one card's controller to its grid cell visuals.
type CardPresenter struct {
	Index CardIndex
	File  string // image identifier from the asset list
	Name  string // display name shown on the label

	// HasLabel is false when the cell has no label; label effects are
	// skipped.
	HasLabel bool

	session     *Session
	surface     *Surface
	ctrl        *Controller
	interactive bool
	live        bool

	reveal  RevealState
	visuals Visuals
	image   fader
	label   fader
}

// NewCardPresenter creates the presenter for one grid cell with a w×h
// scratch layer. When interactive is false the cell only mirrors the store
// and the modal; Controller returns nil.
func NewCardPresenter(session *Session, index CardIndex, file string, w, h int, interactive bool) *CardPresenter {
	p := &CardPresenter{
		Index:       index,
		File:        file,
		Name:        DisplayName(file),
		HasLabel:    true,
		session:     session,
		surface:     session.newSurface(w, h),
		interactive: interactive,
	}
	p.ctrl = NewController(session, p.surface, index)
	p.ctrl.OnProgress = func(r RevealState) { p.apply(r, p.live) }
	return p
}

// Surface returns the cell's scratch layer.
func (p *CardPresenter) Surface() *Surface {
	return p.surface
}

// Controller returns the cell's controller when the cell is scratchable in
// place, or nil for a read-only cell.
func (p *CardPresenter) Controller() *Controller {
	if !p.interactive {
		return nil
	}
	return p.ctrl
}

// Interactive reports whether the cell takes pointer input directly.
func (p *CardPresenter) Interactive() bool {
	return p.interactive
}

// Reveal returns the cell's current reveal state.
func (p *CardPresenter) Reveal() RevealState {
	return p.reveal
}

// Visuals returns the target visuals.
func (p *CardPresenter) Visuals() Visuals {
	return p.visuals
}

// Displayed returns the visuals as currently drawn, mid-transition.
func (p *CardPresenter) Displayed() Visuals {
	return Visuals{
		ImageOpacity:   p.image.value,
		LabelOpacity:   p.label.value,
		SurfaceVisible: p.visuals.SurfaceVisible,
	}
}

// Update advances opacity transitions by dt seconds.
func (p *CardPresenter) Update(dt float32) {
	p.image.update(dt)
	p.label.update(dt)
}

// RefreshFromStore re-derives the cell purely from the store under the
// current persistence toggle. No input handlers are involved.
func (p *CardPresenter) RefreshFromStore(ctx context.Context) RevealState {
	p.live = false
	return p.ctrl.Init(ctx)
}

// Reset covers the card again: fresh overlay, hidden image and label at
// zero opacity, controller idle.
func (p *CardPresenter) Reset() {
	p.live = false
	p.ctrl.Reset()
}

// Mirror shows a terminal reveal reported by the modal.
func (p *CardPresenter) Mirror(r RevealState) {
	if !r.Revealed {
		return
	}
	p.apply(r, true)
}

// Adopt copies another surface's progress into this cell without touching
// the store. The modal uses it when persistence is off.
func (p *CardPresenter) Adopt(snap Snapshot) error {
	p.live = true
	defer func() { p.live = false }()
	return p.ctrl.Adopt(snap)
}

// PointerDown forwards to the controller of an interactive cell.
func (p *CardPresenter) PointerDown(pt Vec2) {
	if !p.interactive {
		return
	}
	p.live = true
	p.ctrl.PointerDown(pt)
}

// PointerMove forwards to the controller of an interactive cell.
func (p *CardPresenter) PointerMove(pt Vec2) {
	if !p.interactive {
		return
	}
	p.ctrl.PointerMove(pt)
}

// PointerUp forwards to the controller of an interactive cell.
func (p *CardPresenter) PointerUp(ctx context.Context) error {
	if !p.interactive {
		return nil
	}
	defer func() { p.live = false }()
	return p.ctrl.PointerUp(ctx)
}

func (p *CardPresenter) apply(r RevealState, animate bool) {
	p.reveal = r
	v := VisualsFor(r)
	if !p.HasLabel {
		v.LabelOpacity = 0
	}
	p.visuals = v
	p.image.set(v.ImageOpacity, fadeDuration, animate)
	p.label.set(v.LabelOpacity, fadeDuration, animate)
}
