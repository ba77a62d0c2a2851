package fogwall

import (
	"errors"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"invalid json", `{"steps": [`, "parse script"},
		{"no steps", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "teleport"}]}`, `unknown action "teleport"`},
		{"unknown key", `{"steps": [{"action": "key", "key": "Space"}]}`, `unknown key "Space"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestScriptNavigatesAndCloses(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [
		{"action": "key", "key": "ArrowRight"},
		{"action": "wait", "frames": 2},
		{"action": "key", "key": "Escape"}
	]}`))
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	h := openHarness(t, testPosters(3), Options{})
	h.g.SetScript(r)

	frames := 0
	for ; frames < 20; frames++ {
		err := h.g.Update()
		if errors.Is(err, ebiten.Termination) {
			break
		}
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if frames == 0 && h.g.Phase() != PhaseScatter {
			t.Errorf("first frame phase = %v, want scatter", h.g.Phase())
		}
	}
	if frames != 3 {
		t.Errorf("closed on frame %d, want 3", frames)
	}
	if !h.g.Closed() {
		t.Error("script should have closed the gallery")
	}
}

func TestScriptDragWaitsForQueuedInput(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [
		{"action": "drag", "fromX": 100, "fromY": 100, "toX": 300, "toY": 100, "frames": 5},
		{"action": "screenshot", "label": "after drag"}
	]}`))
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	h := openHarness(t, testPosters(2), Options{})
	h.g.SetScript(r)

	// The drag takes five frames; the screenshot step runs on the sixth.
	for range 5 {
		h.step(t, 0)
	}
	if len(h.g.screenshotQueue) != 0 {
		t.Fatal("screenshot queued before the drag finished")
	}
	h.step(t, 0)
	if len(h.g.screenshotQueue) != 1 || h.g.screenshotQueue[0] != "after drag" {
		t.Errorf("queue = %v", h.g.screenshotQueue)
	}
	if !r.Done() {
		t.Error("script should be done")
	}
	if yaw := h.g.Session().Rotation.Yaw; !approxEqual(yaw, 200*h.g.tuning.RotateSpeed, 1e-9) {
		t.Errorf("yaw = %v", yaw)
	}
}
