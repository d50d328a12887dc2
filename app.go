package scratchcard

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// App is the Ebitengine game: it owns the layout, routes input to the
// gallery and draws the grid, header and modal.
type App struct {
	ctx     context.Context
	cfg     *Config
	gallery *Gallery
	log     *slog.Logger
	layout  Layout
	debug   bool

	assets   *assetLoader
	textures map[string]*ebiten.Image
	modalImg modalImage
	fonts    *uiFonts

	// Input state
	pointers     [maxPointers]pointerState
	dragDeadZone float64
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
	injectQueue  []syntheticPointerEvent

	testRunner      *TestRunner
	screenshotQueue []string

	// ScreenshotDir is where Screenshot writes its PNG files.
	ScreenshotDir string
	// ExitWhenScriptDone ends the game loop once the attached TestRunner
	// has run every step.
	ExitWhenScriptDone bool

	hud hud
}

// modalImage tracks the hidden image requested for the open modal. It is
// only shown once delivered under the generation it was requested for.
type modalImage struct {
	gen   uint64
	file  string
	ready bool
}

// NewApp returns the game for gallery. Hidden images are decoded from
// images in the background; a nil images shows placeholders only.
func NewApp(ctx context.Context, cfg *Config, gallery *Gallery, images fs.FS, log *slog.Logger) *App {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = gallery.Session().logger()
	}
	a := &App{
		ctx:           ctx,
		cfg:           cfg,
		gallery:       gallery,
		log:           log,
		layout:        NewLayout(cfg, cfg.Window.Width, cfg.Window.Height),
		debug:         cfg.Debug,
		assets:        newAssetLoader(images),
		textures:      make(map[string]*ebiten.Image),
		dragDeadZone:  defaultDragDeadZone,
		ScreenshotDir: cfg.ScreenshotDir,
	}
	for _, p := range gallery.Cards() {
		a.assets.request(ctx, p.File)
	}
	return a
}

// Gallery returns the gallery the app drives.
func (a *App) Gallery() *Gallery {
	return a.gallery
}

// ScreenLayout returns the current screen layout.
func (a *App) ScreenLayout() Layout {
	return a.layout
}

// Update advances one frame: scripted steps, input, asset delivery and
// transitions.
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.closeModal()
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		a.scroll(-dy * scrollStep)
	}
	a.update(float32(1.0/float64(ebiten.TPS())), true)
	if a.ExitWhenScriptDone && a.testRunner != nil && a.testRunner.Done() && len(a.screenshotQueue) == 0 {
		return ebiten.Termination
	}
	return nil
}

// update is Update without the ebiten polling that needs a running game.
func (a *App) update(dt float32, realInput bool) {
	if a.testRunner != nil {
		a.testRunner.step(a)
	}
	if !a.processInjectedInput() && realInput {
		a.processInput()
	}
	a.pollAssets()
	a.gallery.Update(dt)
	if a.debug {
		a.hud.update(dt, a)
	}
}

// Layout implements ebiten.Game. The layout follows the window size.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if float64(outsideWidth) != a.layout.Screen.Width || float64(outsideHeight) != a.layout.Screen.Height {
		scroll := a.layout.Scroll
		a.layout = NewLayout(a.cfg, outsideWidth, outsideHeight)
		a.layout.ScrollBy(scroll, a.gallery.Len())
	}
	return outsideWidth, outsideHeight
}

// openModal shows card i in the modal and requests its hidden image.
func (a *App) openModal(i CardIndex) {
	if err := a.gallery.Open(a.ctx, i, a.cfg.Modal.Width, a.cfg.Modal.Height); err != nil {
		a.log.Warn("opening card failed", "card", int(i), "err", err)
		return
	}
	m := a.gallery.Modal()
	if m == nil {
		return
	}
	a.modalImg = modalImage{gen: m.Generation(), file: m.File()}
	if _, ok := a.assets.image(m.File()); ok {
		a.deliverModalImage(m.File())
		return
	}
	a.assets.request(a.ctx, m.File())
}

// closeModal hides the modal. Pointer strokes on it are dropped.
func (a *App) closeModal() {
	m := a.gallery.Modal()
	if m == nil || !m.IsOpen() {
		return
	}
	for i := range a.pointers {
		if a.pointers[i].stroke.kind == targetModalImage {
			a.pointers[i].stroke = target{kind: targetNone, card: NoCard}
		}
	}
	a.gallery.Close()
	a.modalImg = modalImage{}
}

// deliverModalImage marks the modal image ready if file is what the
// current opening asked for. Results for an earlier opening are dropped.
func (a *App) deliverModalImage(file string) {
	m := a.gallery.Modal()
	if m == nil || a.modalImg.file != file {
		return
	}
	gen := a.modalImg.gen
	if !m.Deliver(gen, func() { a.modalImg.ready = true }) {
		a.log.Debug("dropping stale modal image", "file", file, "gen", gen, "current", m.Generation())
	}
}

// pollAssets collects finished decodes.
func (a *App) pollAssets() {
	a.assets.poll(func(r assetResult) {
		if r.err != nil {
			if errors.Is(r.err, context.Canceled) {
				return
			}
			a.log.Warn("hidden image unavailable", "file", r.file, "err", r.err)
			a.assets.substitute(r.file, Placeholder(r.file, a.cfg.Modal.Width, a.cfg.Modal.Height))
		}
		a.deliverModalImage(r.file)
	})
}

// texture returns the GPU copy of a decoded hidden image, or nil while it
// is still loading.
func (a *App) texture(file string) *ebiten.Image {
	if t, ok := a.textures[file]; ok {
		return t
	}
	img, ok := a.assets.image(file)
	if !ok {
		return nil
	}
	t := ebiten.NewImageFromImage(img)
	a.textures[file] = t
	return t
}

// RunConfig configures Run.
type RunConfig struct {
	Title         string
	Width, Height int
	Resizable     bool
}

// Run opens a window and runs app until the window closes or the app
// terminates itself.
func Run(app *App, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	err := ebiten.RunGame(app)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

var _ ebiten.Game = (*App)(nil)
