package scratchcard

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	maxPointers         = 10  // pointer 0 = mouse, 1-9 = touch
	defaultDragDeadZone = 4.0 // pixels
)

// targetKind names the screen region a pointer is over.
type targetKind uint8

const (
	targetNone       targetKind = iota
	targetPersist               // persistence checkbox
	targetReset                 // reset button
	targetCard                  // grid cell
	targetModalImage            // modal scratch area / revealed image
	targetModalClose            // modal close button
	targetModalPanel            // modal chrome; swallows clicks
	targetBackdrop              // outside the open modal
)

type target struct {
	kind targetKind
	card CardIndex
}

// scratcher receives the pointer events of one stroke.
type scratcher interface {
	PointerDown(Vec2)
	PointerMove(Vec2)
}

// --- Per-pointer state ---

type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	hit      target
	stroke   target // region receiving erase events, targetNone when not scratching
	dragging bool
	button   MouseButton // button captured at press time
}

// --- Hit testing ---

// hitTest finds the region at (x, y). While the modal is open it covers
// everything else.
func (a *App) hitTest(x, y float64) target {
	if m := a.gallery.Modal(); m != nil && m.IsOpen() {
		switch {
		case a.layout.ModalClose.Contains(x, y):
			return target{kind: targetModalClose, card: NoCard}
		case a.layout.ModalImage.Contains(x, y):
			return target{kind: targetModalImage, card: m.Active()}
		case a.layout.Modal.Contains(x, y):
			return target{kind: targetModalPanel, card: NoCard}
		}
		return target{kind: targetBackdrop, card: NoCard}
	}
	switch {
	case a.layout.Persist.Contains(x, y):
		return target{kind: targetPersist, card: NoCard}
	case a.layout.ResetButton.Contains(x, y):
		return target{kind: targetReset, card: NoCard}
	}
	if i := a.layout.CardAt(x, y, a.gallery.Len()); i != NoCard {
		return target{kind: targetCard, card: i}
	}
	return target{kind: targetNone, card: NoCard}
}

// strokeArea returns the receiver and screen rectangle of a scratchable
// region, or ok == false when t cannot be scratched right now.
func (a *App) strokeArea(t target) (s scratcher, bounds Rect, ok bool) {
	switch t.kind {
	case targetModalImage:
		m := a.gallery.Modal()
		if m == nil || !m.IsOpen() || m.Reveal().Revealed {
			return nil, Rect{}, false
		}
		return m, a.layout.ModalImage, true
	case targetCard:
		p := a.gallery.Card(t.card)
		if p == nil || !p.Interactive() || p.Reveal().Revealed {
			return nil, Rect{}, false
		}
		return p, a.layout.CardImage(int(t.card)), true
	}
	return nil, Rect{}, false
}

// --- Input processing ---

// processInput reads real mouse and touch input.
func (a *App) processInput() {
	a.processMousePointer()
	a.processTouchPointers()
}

// processMousePointer handles mouse input (pointer 0).
func (a *App) processMousePointer() {
	mx, my := ebiten.CursorPosition()

	// If the pointer is already down, the stored button wins so it cannot
	// change mid-interaction.
	var pressed bool
	var button MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)

	if left || right || middle {
		pressed = true
		if left {
			button = MouseButtonLeft
		} else if right {
			button = MouseButtonRight
		} else {
			button = MouseButtonMiddle
		}
	}

	a.processPointer(0, float64(mx), float64(my), pressed, button)
}

// processTouchPointers handles touch input (pointers 1-9).
func (a *App) processTouchPointers() {
	touchIDs := ebiten.AppendTouchIDs(a.prevTouchIDs[:0])
	a.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := a.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		a.processPointer(slot, float64(tx), float64(ty), true, MouseButtonLeft)
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxPointers; i++ {
		if a.touchUsed[i] && !activeSlots[i] {
			ps := &a.pointers[i]
			if ps.down {
				a.processPointer(i, ps.lastX, ps.lastY, false, MouseButtonLeft)
			}
			a.touchUsed[i] = false
			a.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (a *App) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if a.touchUsed[i] && a.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !a.touchUsed[i] {
			a.touchUsed[i] = true
			a.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer runs the pointer state machine for a single pointer.
// A press on a scratchable region starts a stroke that follows the pointer
// until release or until it leaves the region. Any other press and release
// over the same region, without dragging, is a click.
func (a *App) processPointer(pointerID int, x, y float64, pressed bool, button MouseButton) {
	ps := &a.pointers[pointerID]

	switch {
	case pressed && !ps.down:
		t := a.hitTest(x, y)
		ps.down = true
		ps.button = button
		ps.startX, ps.startY = x, y
		ps.lastX, ps.lastY = x, y
		ps.hit = t
		ps.dragging = false
		ps.stroke = target{kind: targetNone, card: NoCard}

		if button != MouseButtonLeft {
			return
		}
		if s, bounds, ok := a.strokeArea(t); ok {
			ps.stroke = t
			s.PointerDown(bounds.Local(x, y))
		}

	case !pressed && ps.down:
		if ps.stroke.kind != targetNone {
			a.endStroke(ps.stroke)
		} else if !ps.dragging && ps.button == MouseButtonLeft {
			if t := a.hitTest(x, y); t == ps.hit {
				a.click(t, x, y)
			}
		}
		ps.down = false
		ps.dragging = false
		ps.hit = target{kind: targetNone, card: NoCard}
		ps.stroke = target{kind: targetNone, card: NoCard}

	case pressed && ps.down:
		if x == ps.lastX && y == ps.lastY {
			return
		}
		if !ps.dragging {
			dx, dy := x-ps.startX, y-ps.startY
			if math.Sqrt(dx*dx+dy*dy) > a.dragDeadZone {
				ps.dragging = true
			}
		}
		ps.lastX, ps.lastY = x, y
		if ps.stroke.kind == targetNone {
			return
		}
		s, bounds, ok := a.strokeArea(ps.stroke)
		if !ok {
			// Revealed mid-stroke; the release still has to be recorded.
			a.endStroke(ps.stroke)
			ps.stroke = target{kind: targetNone, card: NoCard}
			ps.dragging = true
			return
		}
		if !bounds.Contains(x, y) {
			a.endStroke(ps.stroke)
			ps.stroke = target{kind: targetNone, card: NoCard}
			ps.dragging = true
			return
		}
		s.PointerMove(bounds.Local(x, y))

	default:
		ps.lastX, ps.lastY = x, y
	}
}

// endStroke releases the stroke on t, which persists it.
func (a *App) endStroke(t target) {
	var err error
	switch t.kind {
	case targetModalImage:
		if m := a.gallery.Modal(); m != nil {
			err = m.PointerUp(a.ctx)
		}
	case targetCard:
		if p := a.gallery.Card(t.card); p != nil {
			err = p.PointerUp(a.ctx)
		}
	}
	if err != nil {
		a.log.Warn("stroke release failed", "card", int(t.card), "err", err)
	}
}

// click dispatches a completed click on t at screen point (x, y).
func (a *App) click(t target, x, y float64) {
	switch t.kind {
	case targetPersist:
		a.gallery.SetPersist(a.ctx, !a.gallery.Session().Persist.Enabled())
	case targetReset:
		if err := a.gallery.Reset(a.ctx); err != nil {
			a.log.Warn("reset failed", "err", err)
		}
	case targetCard:
		if a.gallery.Mode() == ModeModal {
			a.openModal(t.card)
		}
	case targetModalImage:
		if m := a.gallery.Modal(); m != nil {
			m.Click(Vec2{X: x, Y: y}, a.layout.ModalImage)
		}
	case targetModalClose, targetBackdrop:
		a.closeModal()
	}
}

// scroll moves the grid while the modal is closed.
func (a *App) scroll(dy float64) {
	if m := a.gallery.Modal(); m != nil && m.IsOpen() {
		return
	}
	a.layout.ScrollBy(dy, a.gallery.Len())
}
