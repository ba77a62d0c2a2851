package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/fogwall"
	"github.com/phanxgames/fogwall/internal/catalog"
	"github.com/phanxgames/fogwall/internal/observability"
)

func newViewCmd() *cobra.Command {
	var (
		script     string
		debug      bool
		fullscreen bool
		start      int
	)
	cmd := &cobra.Command{
		Use:   "view [poster-list...]",
		Short: "Open the gallery window",
		Long: `Open the gallery window for one or more poster lists (JSON or YAML).
Lists are merged in order; later records replace earlier ones with the same id.
Without arguments the configured gallery.posters_file is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{cfg.Gallery.PostersFile}
			}
			posters, err := catalog.LoadFiles(args...)
			if err != nil {
				return err
			}
			logger := observability.GetLogger()

			tuning := cfg.Tuning()
			opts := fogwall.Options{
				Tuning:               &tuning,
				Seed:                 cfg.Gallery.Seed,
				StartIndex:           cfg.Gallery.StartIndex,
				Width:                cfg.Window.Width,
				Height:               cfg.Window.Height,
				Loader:               newLoader(cfg),
				Logger:               logger.Named("gallery"),
				MaxConcurrentDecodes: cfg.Loader.MaxConcurrentDecodes,
				Debug:                cfg.Gallery.Debug || debug,
				ScreenshotDir:        cfg.Gallery.ScreenshotDir,
			}
			if cmd.Flags().Changed("start") {
				opts.StartIndex = start
			}
			g := fogwall.Open(posters, opts)

			if script == "" {
				script = cfg.Gallery.Script
			}
			if script != "" {
				data, err := os.ReadFile(script)
				if err != nil {
					return fmt.Errorf("read script: %w", err)
				}
				runner, err := fogwall.LoadScript(data)
				if err != nil {
					return err
				}
				g.SetScript(runner)
			}

			ebiten.SetFullscreen(cfg.Window.Fullscreen || fullscreen)
			logger.Info("Opening gallery", zap.Int("posters", len(posters)))
			return fogwall.Run(g, fogwall.RunConfig{
				Title:     cfg.Window.Title,
				Width:     cfg.Window.Width,
				Height:    cfg.Window.Height,
				Resizable: cfg.Window.Resizable,
				TPS:       cfg.Window.TPS,
			})
		},
	}
	cmd.Flags().StringVar(&script, "script", "", "JSON input script to replay")
	cmd.Flags().BoolVar(&debug, "debug", false, "show the stats overlay and log frame timings")
	cmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "start in fullscreen")
	cmd.Flags().IntVar(&start, "start", 0, "index of the first poster")
	return cmd
}
