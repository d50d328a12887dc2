package scratchcard

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	// fadeDuration is how long opacity changes take to settle, in seconds.
	fadeDuration float32 = 0.3
	// zoomDuration is how long the zoom scale transition takes, in seconds.
	zoomDuration float32 = 0.25
)

// Tween animates one float64 field toward a target. Call Update(dt) each
// frame; the value is written to the field as it advances.
//
// There is no global animation manager; owners call Update themselves.
type Tween struct {
	tween *gween.Tween
	field *float64
	end   float64
	Done  bool
}

// Update advances the tween by dt seconds and writes the value to the field.
func (g *Tween) Update(dt float32) {
	if g == nil || g.Done {
		return
	}
	val, finished := g.tween.Update(dt)
	*g.field = float64(val)
	g.Done = finished
}

// Finish jumps the field to its end value.
func (g *Tween) Finish() {
	if g == nil || g.Done {
		return
	}
	*g.field = g.end
	g.Done = true
}

// TweenTo animates *field to the target value over duration seconds.
func TweenTo(field *float64, to float64, duration float32, fn ease.TweenFunc) *Tween {
	return &Tween{
		tween: gween.New(float32(*field), float32(to), duration, fn),
		field: field,
		end:   to,
	}
}

// fader is one displayed value chasing a target through a tween.
type fader struct {
	value  float64
	target float64
	tw     *Tween
}

// set retargets the fader. Without animation the value jumps immediately.
func (f *fader) set(target float64, duration float32, animate bool) {
	if target == f.target && (f.tw != nil || f.value == target) {
		return
	}
	f.target = target
	if !animate || duration <= 0 {
		f.value = target
		f.tw = nil
		return
	}
	f.tw = TweenTo(&f.value, target, duration, ease.OutQuad)
}

// jump sets value and target without animating.
func (f *fader) jump(v float64) {
	f.value = v
	f.target = v
	f.tw = nil
}

func (f *fader) update(dt float32) {
	if f.tw == nil {
		return
	}
	f.tw.Update(dt)
	if f.tw.Done {
		f.value = f.target
		f.tw = nil
	}
}

// settled reports whether the value has reached its target.
func (f *fader) settled() bool {
	return f.tw == nil
}
