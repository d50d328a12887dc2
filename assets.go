package scratchcard

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/font/gofont/goregular"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/semaphore"
)

// maxDecoders bounds concurrent image decodes.
const maxDecoders = 4

// LoadImage decodes the named image from fsys.
func LoadImage(fsys fs.FS, name string) (image.Image, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("scratchcard: open %s: %w", name, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("scratchcard: decode %s: %w", name, err)
	}
	return img, nil
}

var (
	placeholderFontOnce sync.Once
	placeholderFont     *truetype.Font
)

// Placeholder renders stand-in artwork for an image that could not be
// loaded: a gradient keyed on name with the name written across it.
func Placeholder(name string, w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	hsh := fnv.New32a()
	hsh.Write([]byte(name))
	sum := hsh.Sum32()
	c0 := color.RGBA{uint8(sum), uint8(sum >> 8), uint8(sum >> 16), 0xff}
	c1 := color.RGBA{c0.B / 2, c0.R / 2, c0.G / 2, 0xff}

	dc := gg.NewContext(w, h)
	grad := gg.NewLinearGradient(0, 0, float64(w), float64(h))
	grad.AddColorStop(0, c0)
	grad.AddColorStop(1, c1)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()

	placeholderFontOnce.Do(func() {
		placeholderFont, _ = truetype.Parse(goregular.TTF)
	})
	if placeholderFont != nil {
		dc.SetFontFace(truetype.NewFace(placeholderFont, &truetype.Options{Size: float64(h) / 10}))
	}
	dc.SetColor(color.White)
	dc.DrawStringWrapped(DisplayName(name), float64(w)/2, float64(h)/2, 0.5, 0.5, float64(w)*0.9, 1.2, gg.AlignCenter)
	return dc.Image()
}

// assetResult is one finished decode.
type assetResult struct {
	file string
	img  image.Image
	err  error
}

// assetLoader decodes hidden images off the game goroutine. Results are
// collected with poll from Update, so everything touching ebiten stays on
// the game goroutine.
type assetLoader struct {
	fsys    fs.FS
	sem     *semaphore.Weighted
	results chan assetResult
	pending map[string]bool
	done    map[string]image.Image
}

func newAssetLoader(fsys fs.FS) *assetLoader {
	return &assetLoader{
		fsys:    fsys,
		sem:     semaphore.NewWeighted(maxDecoders),
		results: make(chan assetResult, 64),
		pending: make(map[string]bool),
		done:    make(map[string]image.Image),
	}
}

// request starts decoding file unless it is already loaded or in flight.
func (l *assetLoader) request(ctx context.Context, file string) {
	if l.fsys == nil || l.pending[file] {
		return
	}
	if _, ok := l.done[file]; ok {
		return
	}
	l.pending[file] = true
	go func() {
		if err := l.sem.Acquire(ctx, 1); err != nil {
			l.results <- assetResult{file: file, err: err}
			return
		}
		defer l.sem.Release(1)
		img, err := LoadImage(l.fsys, file)
		l.results <- assetResult{file: file, img: img, err: err}
	}()
}

// image returns the decoded image for file, if it has arrived.
func (l *assetLoader) image(file string) (image.Image, bool) {
	img, ok := l.done[file]
	return img, ok
}

// substitute records img as the decoded image for file.
func (l *assetLoader) substitute(file string, img image.Image) {
	l.done[file] = img
}

// poll drains finished decodes without blocking and hands each to fn.
func (l *assetLoader) poll(fn func(assetResult)) {
	for {
		select {
		case r := <-l.results:
			delete(l.pending, r.file)
			if r.err == nil {
				l.done[r.file] = r.img
			} else if errors.Is(r.err, context.Canceled) {
				continue
			}
			fn(r)
		default:
			return
		}
	}
}
