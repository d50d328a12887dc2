package scratchcard

import (
	"context"
	"errors"
)

// State is the scratch controller's interaction state.
type State uint8

const (
	StateIdle      State = iota // no stroke in progress
	StateStroking               // pointer is down and erasing
	StateRevealed               // threshold crossed; terminal until reset
)

// String returns a lower-case name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStroking:
		return "stroking"
	case StateRevealed:
		return "revealed"
	default:
		return "unknown"
	}
}

// RevealState is the derived progress of one surface.
type RevealState struct {
	Fraction float64 // erased fraction in [0, 1]
	Revealed bool    // Fraction >= RevealThreshold
}

// NewRevealState derives the reveal state for an erased fraction.
func NewRevealState(fraction float64) RevealState {
	return RevealState{Fraction: fraction, Revealed: fraction >= RevealThreshold}
}

// LabelOpacity returns the label fade for an erased fraction: zero below
// FadeStart, linear up to one at RevealThreshold, one beyond.
func LabelOpacity(fraction float64) float64 {
	return clamp01((fraction - FadeStart) / (RevealThreshold - FadeStart))
}

// LabelOpacity returns the label fade for r.
func (r RevealState) LabelOpacity() float64 {
	if r.Revealed {
		return 1
	}
	return LabelOpacity(r.Fraction)
}

// ReleaseEvent describes the end of a stroke.
type ReleaseEvent struct {
	Index    CardIndex
	Snapshot Snapshot
	Saved    bool // written to the store
	Reveal   RevealState
}

// Controller turns pointer input into erase stamps on one Surface and tracks
// the reveal state. It knows nothing about drawing; effects are delivered
// through the On* callbacks.
type Controller struct {
	session  *Session
	surface  *Surface
	index    CardIndex
	stroking bool
	revealed bool
	reveal   RevealState
	// latch is set when a loaded snapshot is revealed at its own size; the
	// next evaluation reveals even if the scaled copy samples lower.
	latch bool

	// OnProgress fires after every erase and after Init or Reset.
	OnProgress func(RevealState)
	// OnReveal fires once when the threshold is first crossed.
	OnReveal func(RevealState)
	// OnRelease fires at the end of every stroke.
	OnRelease func(ReleaseEvent)
}

// NewController returns an idle controller for index drawing on surface.
// Call Init before feeding it input.
func NewController(session *Session, surface *Surface, index CardIndex) *Controller {
	return &Controller{session: session, surface: surface, index: index}
}

// Index returns the bound card index.
func (c *Controller) Index() CardIndex {
	return c.index
}

// Surface returns the surface the controller erases.
func (c *Controller) Surface() *Surface {
	return c.surface
}

// Bind points the controller at another card. It does not touch the surface;
// call Init afterwards.
func (c *Controller) Bind(index CardIndex) {
	c.index = index
	c.stroking = false
}

// State returns the current state.
func (c *Controller) State() State {
	switch {
	case c.revealed:
		return StateRevealed
	case c.stroking:
		return StateStroking
	default:
		return StateIdle
	}
}

// Reveal returns the most recently computed reveal state.
func (c *Controller) Reveal() RevealState {
	return c.reveal
}

// Init loads the bound card's snapshot from the store, or paints a fresh
// overlay when there is none, persistence is off, or the snapshot does not
// decode. The reveal state is recomputed once so a card finished in an
// earlier run comes up revealed.
func (c *Controller) Init(ctx context.Context) RevealState {
	c.stroking = false
	c.revealed = false
	c.latch = false
	c.reveal = RevealState{}

	if !c.load(ctx) {
		c.surface.PaintOverlay()
	}
	c.evaluate()
	return c.reveal
}

func (c *Controller) load(ctx context.Context) bool {
	if c.index == NoCard || c.session == nil || c.session.Store == nil {
		return false
	}
	log := c.session.logger()
	snap, err := c.session.Store.Get(ctx, c.index)
	if err != nil {
		if !errors.Is(err, ErrNoSnapshot) {
			log.Debug("progress unavailable", "card", int(c.index), "err", err)
		}
		return false
	}
	if err := c.surface.LoadSnapshot(snap); err != nil {
		log.Debug("ignoring undecodable snapshot", "card", int(c.index), "err", err)
		return false
	}
	c.latch = revealedAtSize(snap)
	return true
}

// revealedAtSize reports whether snap is revealed measured at its own
// dimensions. Nearest-neighbour scaling can drop a few cleared pixels, so a
// card saved right at the threshold must be judged before scaling.
func revealedAtSize(snap Snapshot) bool {
	f, err := snap.Fraction()
	return err == nil && f >= RevealThreshold
}

// Reset returns the controller to Idle over a fresh overlay regardless of
// its current state.
func (c *Controller) Reset() {
	c.stroking = false
	c.revealed = false
	c.latch = false
	c.reveal = RevealState{}
	c.surface.PaintOverlay()
	c.evaluate()
}

// Adopt replaces the surface contents with snap and recomputes the reveal
// state. A revealed controller stays revealed.
func (c *Controller) Adopt(snap Snapshot) error {
	if err := c.surface.LoadSnapshot(snap); err != nil {
		return err
	}
	c.latch = revealedAtSize(snap)
	c.evaluate()
	return nil
}

// PointerDown starts a stroke and erases once at p.
func (c *Controller) PointerDown(p Vec2) {
	if c.revealed {
		return
	}
	c.stroking = true
	c.erase(p)
}

// PointerMove erases once at p while a stroke is in progress. Consecutive
// positions are not joined.
func (c *Controller) PointerMove(p Vec2) {
	if !c.stroking || c.revealed {
		return
	}
	c.erase(p)
}

// PointerUp ends the stroke and persists the surface when persistence is on
// and a card is bound. A stroke that revealed the card is persisted too.
func (c *Controller) PointerUp(ctx context.Context) error {
	if !c.stroking {
		return nil
	}
	c.stroking = false

	snap, err := c.surface.Snapshot()
	if err != nil {
		return err
	}
	ev := ReleaseEvent{Index: c.index, Snapshot: snap, Reveal: c.reveal}
	if c.index != NoCard && c.session != nil && c.session.Store.Enabled() {
		if err := c.session.Store.Put(ctx, c.index, snap); err != nil {
			c.session.logger().Warn("saving progress failed", "card", int(c.index), "err", err)
			return err
		}
		ev.Saved = true
	}
	if c.OnRelease != nil {
		c.OnRelease(ev)
	}
	return nil
}

// PointerLeave behaves like PointerUp.
func (c *Controller) PointerLeave(ctx context.Context) error {
	return c.PointerUp(ctx)
}

// Cancel drops an in-flight stroke without persisting it.
func (c *Controller) Cancel() {
	c.stroking = false
}

func (c *Controller) erase(p Vec2) {
	radius := EraseRadius
	if c.session != nil {
		radius = c.session.eraseRadius()
	}
	c.surface.Erase(p, radius)
	c.evaluate()
}

func (c *Controller) evaluate() {
	r := NewRevealState(c.surface.Transparency())
	if c.revealed || c.latch {
		r.Revealed = true
	}
	c.latch = false
	c.reveal = r
	if c.OnProgress != nil {
		c.OnProgress(r)
	}
	if r.Revealed && !c.revealed {
		c.revealed = true
		if c.session != nil {
			c.session.logger().Debug("card revealed", "card", int(c.index), "fraction", r.Fraction)
		}
		if c.OnReveal != nil {
			c.OnReveal(r)
		}
	}
}
