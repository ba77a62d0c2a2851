package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/fogwall"
	"github.com/phanxgames/fogwall/internal/observability"
)

func opaqueImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 40, B: 90, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "poster.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

// runCLI executes the root command with a fresh viper state.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	observability.ResetForTest()
	t.Cleanup(func() {
		viper.Reset()
		observability.ResetForTest()
	})
	config := filepath.Join(t.TempDir(), "fogwall.yaml")
	require.NoError(t, os.WriteFile(config, []byte("logger:\n  level: error\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--config", config}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSampleReport(t *testing.T) {
	tu := fogwall.DefaultTuning()
	r := buildSampleReport("square.png", opaqueImage(100, 100), 1024, 768, 7, &tu)

	assert.Equal(t, 100, r.Sampling.Width)
	assert.InDelta(t, 1.7, r.Sampling.Gap, 1e-9)
	assert.Len(t, r.Sampling.Samples, 59*59)
	assert.Equal(t, 59*59, r.ImageParticles)
	imageCount := float64(59 * 59)
	assert.Equal(t, int(imageCount*0.22), r.AmbientExtras)
	assert.Greater(t, r.AmbientImage, 0)
	assert.Less(t, r.AmbientImage, r.ImageParticles)

	out := r.render()
	assert.Contains(t, out, "fogwall sampling")
	assert.Contains(t, out, "3481")
}

func TestSimulateTransitionTimeline(t *testing.T) {
	tu := fogwall.DefaultTuning()
	s := fogwall.SampleImageWith(opaqueImage(60, 40), 800, 600, &tu)
	frameTime := time.Second / 60

	res := simulate(s, &tu, simOptions{
		Width: 800, Height: 600, Seed: 3,
		Frames: 300, FrameTime: frameTime, NavigateAt: 30,
	})
	require.Len(t, res.MeanSpeed, 300)

	// 3000 ms of scatter, then 100 ms of assemble.
	assert.InDelta(t, 30+180, res.SwapFrame, 1)
	assert.InDelta(t, 6, res.IdleFrame-res.SwapFrame, 1)

	assert.Equal(t, fogwall.PhaseIdle, res.Phases[10])
	assert.Equal(t, fogwall.PhaseScatter, res.Phases[100])
	assert.Equal(t, fogwall.PhaseIdle, res.Phases[299])
}

func TestSimulateWithoutNavigation(t *testing.T) {
	tu := fogwall.DefaultTuning()
	s := fogwall.SampleImageWith(opaqueImage(20, 20), 800, 600, &tu)
	res := simulate(s, &tu, simOptions{
		Width: 800, Height: 600, Frames: 30, FrameTime: time.Second / 60, NavigateAt: -1,
	})
	assert.Equal(t, -1, res.SwapFrame)
	assert.Equal(t, -1, res.IdleFrame)
	for _, p := range res.Phases {
		assert.Equal(t, fogwall.PhaseIdle, p)
	}
}

func TestSampleCommand(t *testing.T) {
	path := writePNG(t, opaqueImage(100, 100))
	out, err := runCLI(t, "sample", path)
	require.NoError(t, err)
	assert.Contains(t, out, "3481")
}

func TestSimulateCommand(t *testing.T) {
	path := writePNG(t, opaqueImage(30, 30))
	out, err := runCLI(t, "simulate", path, "--frames", "240", "--navigate-at", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "mean particle speed")
	assert.Contains(t, out, "transition: start frame 10")
}

func TestCatalogCommand(t *testing.T) {
	list := filepath.Join(t.TempDir(), "list.yaml")
	require.NoError(t, os.WriteFile(list, []byte("- id: a\n  title: A\n  url: https://x/a.png\n"), 0o644))
	out, err := runCLI(t, "catalog", list)
	require.NoError(t, err)
	assert.Contains(t, out, `"posterUrl": "https://x/a.png"`)
}

func TestSampleCommandMissingImage(t *testing.T) {
	_, err := runCLI(t, "sample", filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}
