package main

import (
	"context"
	"fmt"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/phanxgames/fogwall"
)

// manualClock is advanced explicitly by the simulation loop.
type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time { return c.now }

type simOptions struct {
	Width, Height int
	Seed          uint64
	Frames        int
	FrameTime     time.Duration
	// NavigateAt is the frame at which a transition starts. Negative disables it.
	NavigateAt int
}

type simResult struct {
	MeanSpeed []float64
	Phases    []fogwall.Phase
	SwapFrame int
	IdleFrame int
}

// simulate runs a headless field through an optional transition and records
// the mean particle speed of every frame.
func simulate(s fogwall.Sampling, t *fogwall.Tuning, o simOptions) simResult {
	clock := &manualClock{now: time.Unix(0, 0)}
	session := fogwall.NewSession(t)
	field := fogwall.NewParticleField(s, o.Width, o.Height, o.Seed, t)
	res := simResult{SwapFrame: -1, IdleFrame: -1}

	frame := 0
	pc := fogwall.NewPhaseController(t.ScatterDuration, t.AssembleDuration)
	pc.OnScatter = func() { field.Scatter() }
	pc.OnSwap = func(int) {
		field = fogwall.NewParticleField(s, o.Width, o.Height, o.Seed+1, t)
		field.Assemble()
		res.SwapFrame = frame
	}
	pc.OnIdle = func() { res.IdleFrame = frame }

	f := fogwall.Frame{Session: session, Tuning: t}
	ms := float64(o.FrameTime) / float64(time.Millisecond)
	for frame = 0; frame < o.Frames; frame++ {
		if frame == o.NavigateAt {
			pc.Begin(clock.now, 1)
		}
		clock.now = clock.now.Add(o.FrameTime)
		session.Advance(o.FrameTime.Seconds())
		pc.Update(clock.now)

		f.DT = fogwall.FrameDT(ms)
		f.Phase = pc.Phase()
		field.Update(&f)

		res.MeanSpeed = append(res.MeanSpeed, field.MeanSpeed())
		res.Phases = append(res.Phases, pc.Phase())
	}
	return res
}

func newSimulateCmd() *cobra.Command {
	var (
		frames     int
		navigateAt int
	)
	cmd := &cobra.Command{
		Use:   "simulate <image>",
		Short: "Run a transition headlessly and plot mean particle speed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := newLoader(cfg).Load(context.Background(), args[0])
			if err != nil {
				return err
			}
			t := cfg.Tuning()
			s := fogwall.SampleImageWith(img, cfg.Window.Width, cfg.Window.Height, &t)
			if s.Empty() {
				return fmt.Errorf("%s: no visible pixels to sample", args[0])
			}
			res := simulate(s, &t, simOptions{
				Width:      cfg.Window.Width,
				Height:     cfg.Window.Height,
				Seed:       cfg.Gallery.Seed,
				Frames:     frames,
				FrameTime:  time.Second / 60,
				NavigateAt: navigateAt,
			})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, asciigraph.Plot(res.MeanSpeed,
				asciigraph.Height(12),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("mean particle speed, %d particles", len(s.Samples))),
			))
			fmt.Fprintf(out, "transition: start frame %d, swap frame %d, idle frame %d\n",
				navigateAt, res.SwapFrame, res.IdleFrame)
			return nil
		},
	}
	cmd.Flags().IntVar(&frames, "frames", 360, "frames to simulate at 60 fps")
	cmd.Flags().IntVar(&navigateAt, "navigate-at", 60, "frame that starts a transition (-1 for none)")
	return cmd
}
