package scratchcard

import "math"

// syntheticPointerEvent represents a single injected pointer event in screen
// coordinates, the same space real mouse input arrives in.
type syntheticPointerEvent struct {
	screenX, screenY float64
	pressed          bool
	button           MouseButton
}

// InjectPress queues a pointer press event at the given screen coordinates
// (left button). The event is consumed on the next frame's Update.
func (a *App) InjectPress(x, y float64) {
	a.injectQueue = append(a.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: true,
		button:  MouseButtonLeft,
	})
}

// InjectMove queues a pointer move event with the button held down. Use it
// between InjectPress and InjectRelease to scratch along a path.
func (a *App) InjectMove(x, y float64) {
	a.injectQueue = append(a.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: true,
		button:  MouseButtonLeft,
	})
}

// InjectRelease queues a pointer release event at the given screen coordinates.
func (a *App) InjectRelease(x, y float64) {
	a.injectQueue = append(a.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: false,
		button:  MouseButtonLeft,
	})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two frames.
func (a *App) InjectClick(x, y float64) {
	a.InjectPress(x, y)
	a.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (a *App) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	a.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		a.InjectMove(x, y)
	}
	a.InjectRelease(toX, toY)
}

// InjectScratch queues one stroke that zigzags across r in rows passes,
// top to bottom, with a move every step pixels. With the default erase
// radius, rows = ceil(r.Height/30) clears most of r.
func (a *App) InjectScratch(r Rect, rows int, step float64) {
	if rows < 1 {
		rows = 1
	}
	if step <= 0 {
		step = 10
	}
	rowH := r.Height / float64(rows)
	first := true
	for row := 0; row < rows; row++ {
		y := r.Y + rowH*(float64(row)+0.5)
		x0, x1 := r.X+1, r.X+r.Width-1
		if row%2 == 1 {
			x0, x1 = x1, x0
		}
		n := max(int(math.Abs(x1-x0)/step), 1)
		for i := 0; i <= n; i++ {
			x := x0 + (x1-x0)*float64(i)/float64(n)
			if first {
				a.InjectPress(x, y)
				first = false
				continue
			}
			a.InjectMove(x, y)
		}
	}
	last := r.Y + rowH*(float64(rows)-0.5)
	lastX := r.X + 1
	if rows%2 == 1 {
		lastX = r.X + r.Width - 1
	}
	a.InjectRelease(lastX, last)
}

// processInjectedInput pops one event from the inject queue and feeds it
// through processPointer as pointer 0. Returns true if an event was consumed
// (real mouse input should be skipped).
func (a *App) processInjectedInput() bool {
	if len(a.injectQueue) == 0 {
		return false
	}
	evt := a.injectQueue[0]
	copy(a.injectQueue, a.injectQueue[1:])
	a.injectQueue = a.injectQueue[:len(a.injectQueue)-1]

	a.processPointer(0, evt.screenX, evt.screenY, evt.pressed, evt.button)
	return true
}
