package scratchcard

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Align is the horizontal alignment of drawn text.
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Font wraps Ebitengine's text/v2 for TrueType font rendering.
type Font struct {
	face *text.GoTextFace
	lh   float64 // cached line height
}

// LoadFont loads a TrueType font from raw TTF/OTF data at the given size.
func LoadFont(ttfData []byte, size float64) (*Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("scratchcard: failed to parse TTF data: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &Font{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}, nil
}

// MeasureString returns the width and height of the rendered text.
func (f *Font) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// Fit shortens s with a trailing ellipsis until it measures no wider than
// width. Strings that already fit are returned unchanged.
func (f *Font) Fit(s string, width float64) string {
	if w, _ := f.MeasureString(s); w <= width {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		t := string(runes[:n]) + "…"
		if w, _ := f.MeasureString(t); w <= width {
			return t
		}
	}
	return ""
}

// DrawIn draws s vertically centred in r with the given alignment, tinted c
// and faded by alpha. Text wider than r is shortened with Fit.
func (f *Font) DrawIn(dst *ebiten.Image, s string, r Rect, align Align, c Color, alpha float64) {
	if alpha <= 0 {
		return
	}
	s = f.Fit(s, r.Width)
	if s == "" {
		return
	}
	op := &text.DrawOptions{}
	op.LineSpacing = f.lh
	op.SecondaryAlign = text.AlignCenter
	x := r.X
	switch align {
	case AlignCenter:
		op.PrimaryAlign = text.AlignCenter
		x = r.X + r.Width/2
	case AlignRight:
		op.PrimaryAlign = text.AlignEnd
		x = r.X + r.Width
	}
	op.GeoM.Translate(x, r.Y+r.Height/2)
	op.ColorScale.Scale(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	op.ColorScale.ScaleAlpha(float32(alpha))
	text.Draw(dst, s, f.face, op)
}

// uiFonts are the faces used for chrome and labels.
type uiFonts struct {
	label *Font
	title *Font
}

func loadUIFonts() (*uiFonts, error) {
	label, err := LoadFont(goregular.TTF, 14)
	if err != nil {
		return nil, err
	}
	title, err := LoadFont(goregular.TTF, 20)
	if err != nil {
		return nil, err
	}
	return &uiFonts{label: label, title: title}, nil
}
