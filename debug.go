package scratchcard

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// hudInterval is how often the debug overlay text is refreshed, in seconds.
const hudInterval = 0.5

// hud is the debug overlay: frame rates plus gallery progress. It is only
// updated and drawn when the app runs with Config.Debug.
type hud struct {
	img     *ebiten.Image
	elapsed float64
	text    string
	dirty   bool
}

func (h *hud) update(dt float32, a *App) {
	h.elapsed += float64(dt)
	if h.elapsed < hudInterval && h.text != "" {
		return
	}
	h.elapsed = 0
	h.text = a.hudText(ebiten.ActualFPS(), ebiten.ActualTPS())
	h.dirty = true
}

func (h *hud) draw(screen *ebiten.Image) {
	if h.text == "" {
		return
	}
	if h.img == nil {
		h.img = ebiten.NewImage(220, 64)
	}
	if h.dirty {
		h.dirty = false
		h.img.Clear()
		h.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(h.img, h.text)
	}
	op := &ebiten.DrawImageOptions{}
	b := screen.Bounds()
	op.GeoM.Translate(4, float64(b.Dy()-h.img.Bounds().Dy()-4))
	screen.DrawImage(h.img, op)
}

// hudText formats the overlay lines.
func (a *App) hudText(fps, tps float64) string {
	modal := "closed"
	if m := a.gallery.Modal(); m != nil && m.IsOpen() {
		modal = fmt.Sprintf("#%d %.0f%% zoom %.1fx", int(m.Active()), m.Reveal().Fraction*100, m.Zoom().Scale())
	}
	return fmt.Sprintf("FPS: %.1f  TPS: %.1f\nrevealed: %d/%d\npersist: %v\nmodal: %s",
		fps, tps,
		a.gallery.RevealedCount(), a.gallery.Len(),
		a.gallery.Session().Persist.Enabled(),
		modal)
}
