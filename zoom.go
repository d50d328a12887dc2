package scratchcard

import "github.com/hajimehoshi/ebiten/v2"

// ZoomOverlay magnifies the modal's revealed image around a clicked point.
// It only responds while enabled, which the modal does once the card is
// revealed.
type ZoomOverlay struct {
	enabled bool
	active  bool
	origin  Vec2 // percent of the image box, [0, 100]
	scale   fader
}

// NewZoomOverlay returns a disabled, unzoomed overlay.
func NewZoomOverlay() *ZoomOverlay {
	z := &ZoomOverlay{origin: Vec2{50, 50}}
	z.scale.jump(1)
	return z
}

// Enable allows or forbids zooming. Disabling also resets.
func (z *ZoomOverlay) Enable(on bool) {
	z.enabled = on
	if !on {
		z.Reset()
	}
}

// Enabled reports whether clicks toggle the zoom.
func (z *ZoomOverlay) Enabled() bool {
	return z.enabled
}

// Active reports whether the image is magnified.
func (z *ZoomOverlay) Active() bool {
	return z.active
}

// Origin returns the magnification anchor as percentages of the image box.
func (z *ZoomOverlay) Origin() Vec2 {
	return z.origin
}

// Target returns the magnification the overlay is heading to.
func (z *ZoomOverlay) Target() float64 {
	return z.scale.target
}

// Scale returns the magnification as currently drawn, mid-transition.
func (z *ZoomOverlay) Scale() float64 {
	return z.scale.value
}

// Toggle handles a click at p on an image occupying bounds. The first click
// anchors ZoomFactor magnification at the clicked point; the next click
// reverts. It reports whether the overlay is now zoomed.
func (z *ZoomOverlay) Toggle(p Vec2, bounds Rect) bool {
	if !z.enabled {
		return false
	}
	if z.active {
		z.Reset()
		return false
	}
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return false
	}
	z.origin = Vec2{
		X: clamp01((p.X-bounds.X)/bounds.Width) * 100,
		Y: clamp01((p.Y-bounds.Y)/bounds.Height) * 100,
	}
	z.active = true
	z.scale.set(ZoomFactor, zoomDuration, true)
	return true
}

// Reset reverts to unmagnified with the origin at the centre. Calling it
// while unzoomed changes nothing.
func (z *ZoomOverlay) Reset() {
	if !z.active {
		return
	}
	z.active = false
	z.origin = Vec2{50, 50}
	z.scale.set(1, zoomDuration, true)
}

// Snap finishes any running transition.
func (z *ZoomOverlay) Snap() {
	z.scale.jump(z.scale.target)
}

// Update advances the scale transition by dt seconds.
func (z *ZoomOverlay) Update(dt float32) {
	z.scale.update(dt)
}

// GeoM returns the current magnification of an image box at bounds, scaled
// about the origin. Unzoomed it is the identity.
func (z *ZoomOverlay) GeoM(bounds Rect) ebiten.GeoM {
	var g ebiten.GeoM
	s := z.scale.value
	if s == 1 {
		return g
	}
	ox := bounds.X + bounds.Width*z.origin.X/100
	oy := bounds.Y + bounds.Height*z.origin.Y/100
	g.Translate(-ox, -oy)
	g.Scale(s, s)
	g.Translate(ox, oy)
	return g
}

// Transform maps a point of the unmagnified image box to where it is drawn
// under the current magnification.
func (z *ZoomOverlay) Transform(p Vec2, bounds Rect) Vec2 {
	g := z.GeoM(bounds)
	x, y := g.Apply(p.X, p.Y)
	return Vec2{X: x, Y: y}
}
