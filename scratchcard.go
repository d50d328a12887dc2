package scratchcard

import (
	"image/color"
)

// CardIndex identifies a card's slot in the gallery and in the snapshot
// collection. Indices are assigned in gallery order starting at zero.
type CardIndex int

// NoCard is the index of an unbound controller or a closed modal.
const NoCard CardIndex = -1

const (
	// RevealThreshold is the erased fraction at which a card counts as revealed.
	RevealThreshold = 0.5
	// FadeStart is the erased fraction at which the label starts fading in.
	FadeStart = 0.25
	// EraseRadius is the radius of one erase stamp in surface pixels.
	EraseRadius = 20.0
	// ZoomFactor is the magnification applied by the zoom overlay.
	ZoomFactor = 2.5
	// StoreNamespace is the blob key the snapshot collection is stored under.
	StoreNamespace = "scratchProgress"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint.
var ColorWhite = Color{1, 1, 1, 1}

// ColorOverlay is the default scratch layer fill (#bbbbbb).
var ColorOverlay = Color{R: 0xbb / 255.0, G: 0xbb / 255.0, B: 0xbb / 255.0, A: 1}

// RGBA converts c to a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A)*255 + 0.5),
		G: uint8(clamp01(c.G*c.A)*255 + 0.5),
		B: uint8(clamp01(c.B*c.A)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// Vec2 is a 2D vector used for positions and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Local converts a point in the rectangle's parent space into coordinates
// relative to the rectangle's top-left corner.
func (r Rect) Local(x, y float64) Vec2 {
	return Vec2{X: x - r.X, Y: y - r.Y}
}

// Inset returns r shrunk by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}

// Mode selects where scratching happens.
type Mode uint8

const (
	ModeModal Mode = iota // grid is read-only, clicking a card opens the modal
	ModeGrid              // every grid card is scratchable in place
)

// String returns the configuration spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeGrid:
		return "grid"
	default:
		return "modal"
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
