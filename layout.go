package scratchcard

import "math"

const (
	headerHeight = 48.0
	labelHeight  = 24.0
	modalPadding = 16.0
	modalTitle   = 36.0
	closeSize    = 24.0
	scrollStep   = 48.0
)

// Layout places the header controls, the card grid and the modal on screen.
// All rectangles are in screen pixels.
type Layout struct {
	Screen      Rect
	Header      Rect
	Persist     Rect // checkbox plus its caption
	ResetButton Rect
	Grid        Rect // scrolling viewport below the header

	Columns    int
	CardWidth  float64
	CardHeight float64
	Gap        float64
	Scroll     float64

	Modal      Rect // panel
	ModalImage Rect // scratch surface and hidden image
	ModalClose Rect
}

// NewLayout computes the layout for a w×h screen.
func NewLayout(cfg *Config, w, h int) Layout {
	sw, sh := float64(w), float64(h)
	l := Layout{
		Screen:     Rect{Width: sw, Height: sh},
		Header:     Rect{Width: sw, Height: headerHeight},
		Columns:    max(cfg.Grid.Columns, 1),
		CardWidth:  float64(cfg.Grid.CardWidth),
		CardHeight: float64(cfg.Grid.CardHeight),
		Gap:        float64(cfg.Grid.Gap),
	}
	l.Persist = Rect{X: 16, Y: 12, Width: 180, Height: 24}
	l.ResetButton = Rect{X: sw - 16 - 180, Y: 10, Width: 180, Height: 28}
	l.Grid = Rect{Y: headerHeight, Width: sw, Height: math.Max(sh-headerHeight, 0)}

	mw, mh := float64(cfg.Modal.Width), float64(cfg.Modal.Height)
	pw, ph := mw+2*modalPadding, mh+modalTitle+2*modalPadding
	l.Modal = Rect{X: math.Round((sw - pw) / 2), Y: math.Round((sh - ph) / 2), Width: pw, Height: ph}
	l.ModalImage = Rect{X: l.Modal.X + modalPadding, Y: l.Modal.Y + modalPadding + modalTitle, Width: mw, Height: mh}
	l.ModalClose = Rect{
		X:     l.Modal.X + pw - modalPadding - closeSize,
		Y:     l.Modal.Y + modalPadding/2 + (modalTitle-closeSize)/2,
		Width: closeSize, Height: closeSize,
	}
	return l
}

func (l Layout) stepX() float64 { return l.CardWidth + l.Gap }
func (l Layout) stepY() float64 { return l.CardHeight + labelHeight + l.Gap }

// originX is the left edge of the first column; the grid is centred.
func (l Layout) originX() float64 {
	total := float64(l.Columns)*l.CardWidth + float64(l.Columns-1)*l.Gap
	return math.Max(math.Round((l.Grid.Width-total)/2), l.Gap)
}

func (l Layout) originY() float64 {
	return l.Grid.Y + l.Gap - l.Scroll
}

// Cell returns the full cell of card i: image on top, label strip below.
func (l Layout) Cell(i int) Rect {
	col, row := i%l.Columns, i/l.Columns
	return Rect{
		X:      l.originX() + float64(col)*l.stepX(),
		Y:      l.originY() + float64(row)*l.stepY(),
		Width:  l.CardWidth,
		Height: l.CardHeight + labelHeight,
	}
}

// CardImage returns the image and scratch area of card i.
func (l Layout) CardImage(i int) Rect {
	c := l.Cell(i)
	c.Height = l.CardHeight
	return c
}

// CardLabel returns the label strip under card i.
func (l Layout) CardLabel(i int) Rect {
	c := l.Cell(i)
	c.Y += l.CardHeight
	c.Height = labelHeight
	return c
}

// CardAt returns the card whose cell contains (x, y), or NoCard. Points in
// the gaps, outside the viewport or past the last of n cards hit nothing.
func (l Layout) CardAt(x, y float64, n int) CardIndex {
	if !l.Grid.Contains(x, y) {
		return NoCard
	}
	dx, dy := x-l.originX(), y-l.originY()
	if dx < 0 || dy < 0 {
		return NoCard
	}
	col, row := int(dx/l.stepX()), int(dy/l.stepY())
	if col >= l.Columns {
		return NoCard
	}
	if dx-float64(col)*l.stepX() > l.CardWidth || dy-float64(row)*l.stepY() > l.CardHeight+labelHeight {
		return NoCard
	}
	i := row*l.Columns + col
	if i >= n {
		return NoCard
	}
	return CardIndex(i)
}

// ContentHeight returns the height of n cards laid out in the grid,
// including the outer gaps.
func (l Layout) ContentHeight(n int) float64 {
	if n <= 0 {
		return 0
	}
	rows := (n + l.Columns - 1) / l.Columns
	return float64(rows)*l.stepY() + l.Gap
}

// MaxScroll returns the largest scroll offset for n cards.
func (l Layout) MaxScroll(n int) float64 {
	return math.Max(l.ContentHeight(n)-l.Grid.Height, 0)
}

// ScrollBy moves the grid by dy pixels, clamped to the content.
func (l *Layout) ScrollBy(dy float64, n int) {
	l.Scroll = math.Min(math.Max(l.Scroll+dy, 0), l.MaxScroll(n))
}
