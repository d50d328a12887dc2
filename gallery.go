package scratchcard

import (
	"context"
	"path"
	"strings"
)

// GalleryOptions sizes and configures the cards built by BuildGallery.
type GalleryOptions struct {
	Mode       Mode
	CardWidth  int
	CardHeight int
}

// Gallery owns every card presenter and the modal session.
type Gallery struct {
	session *Session
	opts    GalleryOptions
	cards   []*CardPresenter
	modal   *ModalSession
}

// DisplayName derives a card label from an image identifier: the base name
// without its last extension, upper-cased. An extension is a dot followed by
// at least one character, so ".hidden" has no name left and "name." keeps
// its dot.
func DisplayName(file string) string {
	base := path.Base(strings.ReplaceAll(file, `\`, "/"))
	if ext := path.Ext(base); len(ext) > 1 {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.ToUpper(base)
}

// BuildGallery creates one card per image, index = position in images, and
// initializes each from the store. In ModeModal the cards are read-only and
// Open shows the modal; in ModeGrid every card is scratchable in place.
func BuildGallery(ctx context.Context, session *Session, images []string, opts GalleryOptions) *Gallery {
	g := &Gallery{session: session, opts: opts}
	interactive := opts.Mode == ModeGrid
	g.cards = make([]*CardPresenter, len(images))
	for i, file := range images {
		p := NewCardPresenter(session, CardIndex(i), file, opts.CardWidth, opts.CardHeight, interactive)
		p.RefreshFromStore(ctx)
		g.cards[i] = p
	}
	if opts.Mode == ModeModal {
		g.modal = NewModalSession(session, g.Card)
	}
	session.logger().Debug("gallery built", "cards", len(g.cards), "mode", opts.Mode.String())
	return g
}

// Session returns the gallery's session.
func (g *Gallery) Session() *Session {
	return g.session
}

// Mode returns the interaction mode.
func (g *Gallery) Mode() Mode {
	return g.opts.Mode
}

// Cards returns every presenter in index order. The slice must not be
// mutated.
func (g *Gallery) Cards() []*CardPresenter {
	return g.cards
}

// Len returns the number of cards.
func (g *Gallery) Len() int {
	return len(g.cards)
}

// Card returns the presenter for index, or nil when out of range.
func (g *Gallery) Card(index CardIndex) *CardPresenter {
	if index < 0 || int(index) >= len(g.cards) {
		return nil
	}
	return g.cards[index]
}

// Modal returns the modal session, or nil in ModeGrid.
func (g *Gallery) Modal() *ModalSession {
	return g.modal
}

// Open shows index in the modal sized w×h. It is a no-op in ModeGrid.
func (g *Gallery) Open(ctx context.Context, index CardIndex, w, h int) error {
	if g.modal == nil {
		return nil
	}
	return g.modal.Open(ctx, index, w, h)
}

// Close hides the modal.
func (g *Gallery) Close() {
	if g.modal != nil {
		g.modal.Close()
	}
}

// SetPersist switches persistence and revisualizes every card (and the open
// modal) from the store under the new setting. Switching off never deletes
// stored progress.
func (g *Gallery) SetPersist(ctx context.Context, on bool) {
	g.session.Persist.Set(on)
	g.session.logger().Info("persistence switched", "enabled", on)
	for _, p := range g.cards {
		p.RefreshFromStore(ctx)
	}
	if g.modal != nil {
		g.modal.Reinit(ctx)
	}
}

// Reset empties every stored slot, covers every card and resets the open
// modal to a fresh overlay.
func (g *Gallery) Reset(ctx context.Context) error {
	err := g.session.Store.Reset(ctx)
	for _, p := range g.cards {
		p.Reset()
	}
	if g.modal != nil {
		g.modal.Reinit(ctx)
	}
	if err != nil {
		return err
	}
	g.session.logger().Info("progress reset", "cards", len(g.cards))
	return nil
}

// RevealedCount returns how many cards are revealed.
func (g *Gallery) RevealedCount() int {
	n := 0
	for _, p := range g.cards {
		if p.Reveal().Revealed {
			n++
		}
	}
	return n
}

// Update advances every card's and the modal's transitions.
func (g *Gallery) Update(dt float32) {
	for _, p := range g.cards {
		p.Update(dt)
	}
	if g.modal != nil {
		g.modal.Update(dt)
	}
}
