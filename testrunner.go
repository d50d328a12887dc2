package scratchcard

import (
	"encoding/json"
	"fmt"
	"os"
)

// testStep represents a single action in a test script.
//
// Actions: screenshot, click, drag, scratch, wait, open, close, persist,
// reset, scroll. Card-relative actions (scratch, open) take Card; scratch
// with Modal set works on the open modal instead.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Card   int     `json:"card,omitempty"`
	Modal  bool    `json:"modal,omitempty"`
	Rows   int     `json:"rows,omitempty"`
	On     bool    `json:"on,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected input, gallery actions and screenshots
// across frames for automated visual checks. Attach to an App via
// SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownAction(st.Action) {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// LoadTestScriptFile reads and parses a JSON test script from path.
func LoadTestScriptFile(path string) (*TestRunner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read test script: %w", err)
	}
	return LoadTestScript(data)
}

func knownAction(a string) bool {
	switch a {
	case "screenshot", "click", "drag", "scratch", "wait", "open", "close", "persist", "reset", "scroll":
		return true
	}
	return false
}

// SetTestRunner attaches a TestRunner to the app. The runner advances once
// per frame before input is processed.
func (a *App) SetTestRunner(runner *TestRunner) {
	a.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame.
func (r *TestRunner) step(a *App) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(a.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		a.Screenshot(st.Label)
	case "click":
		a.InjectClick(st.X, st.Y)
	case "drag":
		a.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "scratch":
		rect := a.layout.CardImage(st.Card)
		if st.Modal {
			rect = a.layout.ModalImage
		}
		rows := st.Rows
		if rows <= 0 {
			rows = int(rect.Height/30) + 1
		}
		a.InjectScratch(rect, rows, 10)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "open":
		a.openModal(CardIndex(st.Card))
	case "close":
		a.closeModal()
	case "persist":
		a.gallery.SetPersist(a.ctx, st.On)
	case "reset":
		if err := a.gallery.Reset(a.ctx); err != nil {
			a.log.Warn("scripted reset failed", "err", err)
		}
	case "scroll":
		a.scroll(st.Y)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(a.injectQueue) == 0 {
		r.done = true
	}
}
