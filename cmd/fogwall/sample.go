package main

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/phanxgames/fogwall"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(18)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
)

// sampleReport summarizes how an image turns into particles.
type sampleReport struct {
	Source         string
	ImageW, ImageH int
	Sampling       fogwall.Sampling
	ImageParticles int
	AmbientImage   int
	AmbientExtras  int
}

func buildSampleReport(source string, img image.Image, w, h int, seed uint64, t *fogwall.Tuning) sampleReport {
	b := img.Bounds()
	s := fogwall.SampleImageWith(img, w, h, t)
	pf := fogwall.NewParticleField(s, w, h, seed, t)
	r := sampleReport{
		Source:         source,
		ImageW:         b.Dx(),
		ImageH:         b.Dy(),
		Sampling:       s,
		ImageParticles: pf.ImageCount,
		AmbientExtras:  pf.AmbientExtras(),
	}
	for i := 0; i < pf.ImageCount; i++ {
		if pf.Particles[i].Ambient {
			r.AmbientImage++
		}
	}
	return r
}

func (r sampleReport) render() string {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
	}
	rows := []string{
		row("source", r.Source),
		row("image", fmt.Sprintf("%d×%d", r.ImageW, r.ImageH)),
		row("scaled", fmt.Sprintf("%d×%d", r.Sampling.Width, r.Sampling.Height)),
		row("canvas", fmt.Sprintf("%d×%d", r.Sampling.CanvasW, r.Sampling.CanvasH)),
		row("gap", fmt.Sprintf("%.3f px", r.Sampling.Gap)),
		row("samples", fmt.Sprint(len(r.Sampling.Samples))),
		row("ambient (image)", fmt.Sprint(r.AmbientImage)),
		row("ambient (extra)", fmt.Sprint(r.AmbientExtras)),
		row("total particles", fmt.Sprint(r.ImageParticles+r.AmbientExtras)),
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("fogwall sampling"),
		boxStyle.Render(strings.Join(rows, "\n")),
	)
}

func newSampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample <image>",
		Short: "Print sampling statistics for an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := newLoader(cfg).Load(context.Background(), args[0])
			if err != nil {
				return err
			}
			t := cfg.Tuning()
			r := buildSampleReport(args[0], img, cfg.Window.Width, cfg.Window.Height, cfg.Gallery.Seed, &t)
			fmt.Fprintln(cmd.OutOrStdout(), r.render())
			return nil
		},
	}
}
