// Package scratchcard is a scratch-card image gallery for [Ebitengine].
//
// Every card hides an image under an opaque layer. Dragging a pointer or a
// finger across the layer erases it; once half of the layer is clear the
// card is revealed. Progress can be kept between runs, and a modal view
// offers a larger scratch area plus click-to-zoom on the revealed image.
//
// # Quick start
//
//	cfg, _ := scratchcard.LoadConfig("config.yaml")
//	store := scratchcard.NewStore(scratchcard.NewFileBlobs(cfg.Persistence.Path))
//	session := scratchcard.NewSession(store, cfg.Persistence.Enabled, scratchcard.NewLogger(cfg.Debug))
//
//	images, _ := cfg.ImageList()
//	gallery := scratchcard.BuildGallery(ctx, session, images, scratchcard.GalleryOptions{
//		Mode: cfg.Mode(), CardWidth: cfg.Grid.CardWidth, CardHeight: cfg.Grid.CardHeight,
//	})
//	app := scratchcard.NewApp(ctx, cfg, gallery, os.DirFS(cfg.Images.Dir), nil)
//	scratchcard.Run(app, scratchcard.RunConfig{Title: "Scratch Cards", Width: 960, Height: 720})
//
// # Scratching
//
// A [Surface] is a CPU raster of the scratch layer. [Controller] turns
// pointer strokes into erase stamps of radius [EraseRadius], measures the
// cleared fraction exactly after every stamp and latches the card as
// revealed at [RevealThreshold]. The label fades in between [FadeStart] and
// the threshold ([LabelOpacity]).
//
// [CardPresenter] maps a controller's [RevealState] to [Visuals] through the
// pure function [VisualsFor]. [ModalSession] reuses one surface for every
// card it opens and writes each stroke back to the store and to the grid.
//
// # Persistence
//
// [Store] keeps one PNG [Snapshot] per card as a JSON array under
// [StoreNamespace], on any [Blobs] backend: [MemoryBlobs], [FileBlobs] or
// the sqlitestore subpackage. The session's [Toggle] gates reads and writes
// of single slots; switching it off never deletes anything.
//
// # Automation
//
// [App.InjectClick], [App.InjectDrag] and [App.InjectScratch] queue
// synthetic pointer input, [App.Screenshot] captures frames, and
// [LoadTestScript] drives both from a JSON script.
//
// [Ebitengine]: https://ebitengine.org
package scratchcard
