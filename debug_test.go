package scratchcard

import (
	"context"
	"strings"
	"testing"
)

func TestHudText(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(true)
	if err := s.Store.Put(ctx, 1, snapshotWithFraction(t, 100, 100, 1)); err != nil {
		t.Fatal(err)
	}
	a := newTestApp(t, ModeModal, s, 3)

	got := a.hudText(60, 59.5)
	for _, want := range []string{"FPS: 60.0", "TPS: 59.5", "revealed: 1/3", "persist: true", "modal: closed"} {
		if !strings.Contains(got, want) {
			t.Errorf("hudText missing %q:\n%s", want, got)
		}
	}

	a.openModal(1)
	got = a.hudText(60, 60)
	if !strings.Contains(got, "modal: #1 100% zoom 1.0x") {
		t.Errorf("hudText with modal open:\n%s", got)
	}
}

func TestHudUpdateInterval(t *testing.T) {
	a := newTestApp(t, ModeModal, newTestSession(false), 1)
	var h hud
	h.update(0.1, a)
	if h.text == "" || !h.dirty {
		t.Fatal("first update did not produce text")
	}
	h.dirty = false
	h.update(0.1, a)
	if h.dirty {
		t.Error("text refreshed before the interval elapsed")
	}
	h.update(float32(hudInterval), a)
	if !h.dirty {
		t.Error("text not refreshed after the interval")
	}
}
