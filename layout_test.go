package scratchcard

import "testing"

func newTestLayout() Layout {
	return NewLayout(DefaultConfig(), 960, 720)
}

func TestLayoutCells(t *testing.T) {
	l := newTestLayout()
	tests := []struct {
		i    int
		want Rect
	}{
		{0, Rect{X: 48, Y: 64, Width: 160, Height: 184}},
		{4, Rect{X: 48 + 4*176, Y: 64, Width: 160, Height: 184}},
		{6, Rect{X: 224, Y: 264, Width: 160, Height: 184}},
	}
	for _, tt := range tests {
		if got := l.Cell(tt.i); got != tt.want {
			t.Errorf("Cell(%d) = %+v, want %+v", tt.i, got, tt.want)
		}
	}
	if got := l.CardImage(0); got != (Rect{X: 48, Y: 64, Width: 160, Height: 160}) {
		t.Errorf("CardImage(0) = %+v", got)
	}
	if got := l.CardLabel(0); got != (Rect{X: 48, Y: 224, Width: 160, Height: 24}) {
		t.Errorf("CardLabel(0) = %+v", got)
	}
}

func TestLayoutCardAt(t *testing.T) {
	l := newTestLayout()
	tests := []struct {
		name string
		x, y float64
		n    int
		want CardIndex
	}{
		{"first image", 53, 69, 10, 0},
		{"first label", 100, 240, 10, 0},
		{"second row", 230, 270, 10, 6},
		{"column gap", 48 + 165, 70, 10, NoCard},
		{"left margin", 10, 100, 10, NoCard},
		{"header", 60, 10, 10, NoCard},
		{"past last card", 230, 270, 5, NoCard},
		{"right of grid", 955, 70, 10, NoCard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.CardAt(tt.x, tt.y, tt.n); got != tt.want {
				t.Errorf("CardAt(%v, %v) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestLayoutScroll(t *testing.T) {
	l := newTestLayout()
	if got := l.ContentHeight(10); got != 416 {
		t.Errorf("ContentHeight(10) = %v, want 416", got)
	}
	if got := l.ContentHeight(0); got != 0 {
		t.Errorf("ContentHeight(0) = %v, want 0", got)
	}
	if got := l.MaxScroll(10); got != 0 {
		t.Errorf("MaxScroll(10) = %v, want 0", got)
	}
	if got := l.MaxScroll(20); got != 144 {
		t.Errorf("MaxScroll(20) = %v, want 144", got)
	}

	l.ScrollBy(1000, 20)
	if l.Scroll != 144 {
		t.Errorf("Scroll = %v, want 144", l.Scroll)
	}
	if got := l.Cell(0).Y; got != 64-144 {
		t.Errorf("Cell(0).Y = %v after scrolling, want %v", got, 64-144)
	}
	l.ScrollBy(-5000, 20)
	if l.Scroll != 0 {
		t.Errorf("Scroll = %v, want 0", l.Scroll)
	}
}

func TestLayoutModal(t *testing.T) {
	l := newTestLayout()
	if want := (Rect{X: 224, Y: 86, Width: 512, Height: 548}); l.Modal != want {
		t.Errorf("Modal = %+v, want %+v", l.Modal, want)
	}
	if want := (Rect{X: 240, Y: 138, Width: 480, Height: 480}); l.ModalImage != want {
		t.Errorf("ModalImage = %+v, want %+v", l.ModalImage, want)
	}
	if want := (Rect{X: 696, Y: 100, Width: 24, Height: 24}); l.ModalClose != want {
		t.Errorf("ModalClose = %+v, want %+v", l.ModalClose, want)
	}
}

func TestLayoutNarrowScreen(t *testing.T) {
	l := NewLayout(DefaultConfig(), 300, 400)
	// The grid never starts left of one gap.
	if got := l.Cell(0).X; got != 16 {
		t.Errorf("Cell(0).X = %v, want 16", got)
	}
}
