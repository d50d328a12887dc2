package scratchcard

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	colorBackground = Color{R: 0.118, G: 0.118, B: 0.141, A: 1}
	colorPanel      = Color{R: 0.2, G: 0.2, B: 0.24, A: 1}
	colorCardBack   = Color{R: 0.16, G: 0.16, B: 0.19, A: 1}
	colorAccent     = Color{R: 0.36, G: 0.55, B: 0.95, A: 1}
	colorMuted      = Color{R: 0.7, G: 0.7, B: 0.75, A: 1}
	colorBackdrop   = Color{R: 0, G: 0, B: 0, A: 0.6}
)

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used
// for solid rectangles.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(ColorWhite.RGBA())
	}
	return whitePixelImage
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	if a.fonts == nil {
		fonts, err := loadUIFonts()
		if err != nil {
			a.log.Error("loading fonts failed", "err", err)
		}
		a.fonts = fonts
	}
	fillRect(screen, a.layout.Screen, colorBackground)

	a.drawGrid(screen)
	a.drawHeader(screen)
	if m := a.gallery.Modal(); m != nil && m.IsOpen() {
		a.drawModal(screen, m)
	}
	if a.debug {
		a.hud.draw(screen)
	}
	a.flushScreenshots(screen)
}

func (a *App) drawHeader(screen *ebiten.Image) {
	l := a.layout
	fillRect(screen, l.Header, colorPanel)

	box := Rect{X: l.Persist.X, Y: l.Persist.Y + (l.Persist.Height-18)/2, Width: 18, Height: 18}
	strokeRect(screen, box, 2, colorMuted)
	if a.gallery.Session().Persist.Enabled() {
		fillRect(screen, box.Inset(4), colorAccent)
	}
	caption := Rect{X: box.X + box.Width + 8, Y: l.Persist.Y, Width: l.Persist.Width - box.Width - 8, Height: l.Persist.Height}
	a.drawText(screen, "Store progress", caption, AlignLeft, ColorWhite, 1, false)

	fillRect(screen, l.ResetButton, colorAccent)
	a.drawText(screen, "Reset scratch cards", l.ResetButton, AlignCenter, ColorWhite, 1, false)
}

func (a *App) drawGrid(screen *ebiten.Image) {
	l := a.layout
	view := subImage(screen, l.Grid)
	if view == nil {
		return
	}
	for i, p := range a.gallery.Cards() {
		cell := l.Cell(i)
		if !cell.Intersects(l.Grid) {
			continue
		}
		imgRect := l.CardImage(i)
		fillRect(view, imgRect, colorCardBack)

		d := p.Displayed()
		if d.ImageOpacity > 0 {
			if tex := a.texture(p.File); tex != nil {
				drawCover(subImage(view, imgRect), tex, imgRect, d.ImageOpacity, ebiten.GeoM{})
			}
		}
		if d.SurfaceVisible {
			if tex := p.Surface().Texture(); tex != nil {
				drawStretched(view, tex, imgRect)
			}
		}
		a.drawText(view, p.Name, l.CardLabel(i), AlignCenter, ColorWhite, d.LabelOpacity, false)
	}
}

func (a *App) drawModal(screen *ebiten.Image, m *ModalSession) {
	l := a.layout
	fillRect(screen, l.Screen, colorBackdrop)
	fillRect(screen, l.Modal, colorPanel)

	title := Rect{X: l.Modal.X + modalPadding, Y: l.Modal.Y + modalPadding/2, Width: l.Modal.Width - 2*modalPadding - closeSize, Height: modalTitle}
	d := m.Displayed()
	a.drawText(screen, m.Name(), title, AlignLeft, ColorWhite, d.LabelOpacity, true)
	a.drawText(screen, "×", l.ModalClose, AlignCenter, colorMuted, 1, true)

	area := subImage(screen, l.ModalImage)
	if area == nil {
		return
	}
	fillRect(area, l.ModalImage, colorCardBack)
	if d.ImageOpacity > 0 && a.modalImg.ready && a.modalImg.file == m.File() {
		if tex := a.texture(m.File()); tex != nil {
			drawCover(area, tex, l.ModalImage, d.ImageOpacity, m.Zoom().GeoM(l.ModalImage))
		}
	}
	if d.SurfaceVisible {
		if tex := m.Surface().Texture(); tex != nil {
			drawStretched(area, tex, l.ModalImage)
		}
	}
}

// drawText draws s into r when fonts are available.
func (a *App) drawText(dst *ebiten.Image, s string, r Rect, align Align, c Color, alpha float64, title bool) {
	if a.fonts == nil || dst == nil {
		return
	}
	f := a.fonts.label
	if title {
		f = a.fonts.title
	}
	f.DrawIn(dst, s, r, align, c, alpha)
}

// coverGeoM scales an iw×ih image to cover r, centred, then applies zoom.
func coverGeoM(iw, ih float64, r Rect, zoom ebiten.GeoM) ebiten.GeoM {
	var g ebiten.GeoM
	fit := math.Max(r.Width/iw, r.Height/ih)
	g.Scale(fit, fit)
	g.Translate(r.X+(r.Width-iw*fit)/2, r.Y+(r.Height-ih*fit)/2)
	g.Concat(zoom)
	return g
}

// drawCover draws img scaled to cover r, centred, faded by alpha and
// magnified by zoom. dst should be clipped to r.
func drawCover(dst, img *ebiten.Image, r Rect, alpha float64, zoom ebiten.GeoM) {
	if dst == nil {
		return
	}
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw == 0 || ih == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM = coverGeoM(iw, ih, r, zoom)
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img, op)
}

// drawStretched draws img scaled to fill r exactly.
func drawStretched(dst, img *ebiten.Image, r Rect) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(r.Width/float64(b.Dx()), r.Height/float64(b.Dy()))
	op.GeoM.Translate(r.X, r.Y)
	dst.DrawImage(img, op)
}

func fillRect(dst *ebiten.Image, r Rect, c Color) {
	if dst == nil || r.Width <= 0 || r.Height <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(r.Width, r.Height)
	op.GeoM.Translate(r.X, r.Y)
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	dst.DrawImage(ensureWhitePixel(), op)
}

func strokeRect(dst *ebiten.Image, r Rect, w float64, c Color) {
	fillRect(dst, Rect{X: r.X, Y: r.Y, Width: r.Width, Height: w}, c)
	fillRect(dst, Rect{X: r.X, Y: r.Y + r.Height - w, Width: r.Width, Height: w}, c)
	fillRect(dst, Rect{X: r.X, Y: r.Y, Width: w, Height: r.Height}, c)
	fillRect(dst, Rect{X: r.X + r.Width - w, Y: r.Y, Width: w, Height: r.Height}, c)
}

// subImage clips dst to r. Drawing into the result still uses dst's
// coordinates. It returns nil when r is off dst.
func subImage(dst *ebiten.Image, r Rect) *ebiten.Image {
	if dst == nil {
		return nil
	}
	rr := image.Rect(int(math.Floor(r.X)), int(math.Floor(r.Y)), int(math.Ceil(r.X+r.Width)), int(math.Ceil(r.Y+r.Height)))
	rr = rr.Intersect(dst.Bounds())
	if rr.Empty() {
		return nil
	}
	return dst.SubImage(rr).(*ebiten.Image)
}
