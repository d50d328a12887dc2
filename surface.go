package scratchcard

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/fogleman/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// circleK is the control-point distance for approximating a quarter circle
// with one cubic Bézier segment.
const circleK = 0.5522847498

// Surface is the erasable scratch layer covering one card. Pixels live in a
// CPU-side premultiplied RGBA buffer so reveal sampling is exact; a GPU copy
// is uploaded lazily for drawing.
type Surface struct {
	img     *image.RGBA
	w, h    int
	overlay Color

	raster *vector.Rasterizer
	mask   *image.Alpha

	tex   *ebiten.Image
	dirty bool
}

// NewSurface creates a transparent surface of the given size.
func NewSurface(w, h int) *Surface {
	s := &Surface{overlay: ColorOverlay}
	s.Resize(w, h)
	return s
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	return s.w
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	return s.h
}

// Image returns the CPU-side pixel buffer. Callers must not keep it across
// Resize.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// SetOverlayColor sets the fill used by PaintOverlay.
func (s *Surface) SetOverlayColor(c Color) {
	s.overlay = c
}

// Resize replaces the pixel buffer with a transparent one of the new size.
func (s *Surface) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
	s.w = w
	s.h = h
	s.dirty = true
}

// Clear makes every pixel fully transparent.
func (s *Surface) Clear() {
	clear(s.img.Pix)
	s.dirty = true
}

// PaintOverlay fills the whole surface with the opaque overlay color.
func (s *Surface) PaintOverlay() {
	if s.w == 0 || s.h == 0 {
		return
	}
	dc := gg.NewContextForRGBA(s.img)
	c := s.overlay
	c.A = 1
	dc.SetColor(c.RGBA())
	dc.Clear()
	s.dirty = true
}

// Erase clears alpha inside a circle of the given radius centred at p,
// like a destination-out fill. Edge pixels are partially cleared by their
// coverage.
func (s *Surface) Erase(p Vec2, radius float64) {
	if radius <= 0 || s.w == 0 || s.h == 0 {
		return
	}
	x0 := max(0, int(math.Floor(p.X-radius)))
	y0 := max(0, int(math.Floor(p.Y-radius)))
	x1 := min(s.w, int(math.Ceil(p.X+radius)))
	y1 := min(s.h, int(math.Ceil(p.Y+radius)))
	if x0 >= x1 || y0 >= y1 {
		return
	}
	bw, bh := x1-x0, y1-y0

	if s.raster == nil {
		s.raster = vector.NewRasterizer(bw, bh)
	} else {
		s.raster.Reset(bw, bh)
	}
	addCircle(s.raster, float32(p.X-float64(x0)), float32(p.Y-float64(y0)), float32(radius))

	if s.mask == nil || s.mask.Rect.Dx() < bw || s.mask.Rect.Dy() < bh {
		s.mask = image.NewAlpha(image.Rect(0, 0, bw, bh))
	}
	mask := s.mask.SubImage(image.Rect(0, 0, bw, bh)).(*image.Alpha)
	clear(s.mask.Pix)
	s.raster.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	for y := 0; y < bh; y++ {
		for x := 0; x < bw; x++ {
			m := mask.AlphaAt(x, y).A
			if m == 0 {
				continue
			}
			i := s.img.PixOffset(x0+x, y0+y)
			px := s.img.Pix[i : i+4 : i+4]
			if m == 0xff {
				px[0], px[1], px[2], px[3] = 0, 0, 0, 0
				continue
			}
			keep := uint32(0xff - m)
			for c := range px {
				px[c] = uint8((uint32(px[c])*keep + 0x7f) / 0xff)
			}
		}
	}
	s.dirty = true
}

// addCircle appends a closed circle path to z.
func addCircle(z *vector.Rasterizer, cx, cy, r float32) {
	k := r * circleK
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
}

// Transparency returns the fraction of pixels whose alpha is exactly zero.
// Every pixel is inspected.
func (s *Surface) Transparency() float64 {
	total := s.w * s.h
	if total == 0 {
		return 0
	}
	clearPx := 0
	pix := s.img.Pix
	for i := 3; i < len(pix); i += 4 {
		if pix[i] == 0 {
			clearPx++
		}
	}
	return float64(clearPx) / float64(total)
}

// LoadSnapshot decodes snap and replaces the surface contents with it.
// A snapshot of a different size is scaled with nearest-neighbour sampling.
// On error the surface is left unchanged.
func (s *Surface) LoadSnapshot(snap Snapshot) error {
	if snap.Empty() {
		return ErrNoSnapshot
	}
	src, err := png.Decode(bytes.NewReader(snap))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	b := src.Bounds()
	if b.Empty() {
		return fmt.Errorf("%w: empty image", ErrBadSnapshot)
	}
	if b.Dx() == s.w && b.Dy() == s.h {
		draw.Draw(s.img, s.img.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.NearestNeighbor.Scale(s.img, s.img.Bounds(), src, b, draw.Src, nil)
	}
	s.dirty = true
	return nil
}

// Snapshot encodes the current surface contents as PNG.
func (s *Surface) Snapshot() (Snapshot, error) {
	if s.w == 0 || s.h == 0 {
		return nil, fmt.Errorf("scratchcard: snapshot of empty surface")
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, s.img); err != nil {
		return nil, fmt.Errorf("scratchcard: encode snapshot: %w", err)
	}
	return Snapshot(buf.Bytes()), nil
}

// Texture returns a GPU copy of the surface, re-uploading pixels only when
// they changed since the last call. Returns nil for an empty surface.
func (s *Surface) Texture() *ebiten.Image {
	if s.w == 0 || s.h == 0 {
		return nil
	}
	if s.tex != nil {
		if b := s.tex.Bounds(); b.Dx() != s.w || b.Dy() != s.h {
			s.tex.Deallocate()
			s.tex = nil
		}
	}
	if s.tex == nil {
		s.tex = ebiten.NewImage(s.w, s.h)
		s.dirty = true
	}
	if s.dirty {
		s.tex.WritePixels(s.img.Pix)
		s.dirty = false
	}
	return s.tex
}

// Dispose deallocates the GPU copy. The CPU buffer stays usable.
func (s *Surface) Dispose() {
	if s.tex != nil {
		s.tex.Deallocate()
		s.tex = nil
	}
	s.dirty = true
}

// Fraction decodes s at its own size and returns its erased fraction.
func (s Snapshot) Fraction() (float64, error) {
	if s.Empty() {
		return 0, ErrNoSnapshot
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	surf := NewSurface(cfg.Width, cfg.Height)
	if err := surf.LoadSnapshot(s); err != nil {
		return 0, err
	}
	return surf.Transparency(), nil
}
