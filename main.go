package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"orbitfolio/config"
	"orbitfolio/game"
	"orbitfolio/prefs"
	"orbitfolio/scene"
)

var (
	configPath    string
	verbose       bool
	reducedMotion bool
	seed          int64
	prefsPath     string
)

var rootCmd = &cobra.Command{
	Use:   "orbitfolio",
	Short: "Animated space backdrop: starfield, sun, torus belt and sunlight",
	Long: `orbitfolio opens a window showing the portfolio backdrop.

Scroll with the mouse wheel, arrow keys, Page Up/Down, Home and End.
F3 toggles the statistics overlay, M toggles reduced motion, Escape quits.

The reduced-motion preference is read from --prefs (reduce_motion: true)
and watched for changes. --reduced-motion, motion.reduced and
ORBITFOLIO_REDUCED_MOTION pin it for the whole run.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "orbitfolio.yaml", "config file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().BoolVar(&reducedMotion, "reduced-motion", false, "start with motion reduced")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "layout seed (0 picks one)")
	rootCmd.Flags().StringVar(&prefsPath, "prefs", "", "motion preference file to watch")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Scene.Seed = seed
	}
	if cmd.Flags().Changed("prefs") {
		cfg.Motion.PreferenceFile = prefsPath
	}

	logger, err := cfg.NewLogger(verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	reduced, watch := prefs.Resolve(cfg.Motion.PreferenceFile, cfg.Motion.Reduced || reducedMotion, logger)

	sc, err := scene.New(cfg.SceneOptions(), logger)
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	group, gctx := errgroup.WithContext(ctx)

	var changes <-chan bool
	if watch {
		watcher, err := prefs.NewWatcher(cfg.Motion.PreferenceFile, logger)
		if err != nil {
			// Motion stays at its startup value
			logger.Warn("motion preference watcher unavailable", zap.Error(err))
		} else {
			changes = watcher.Changes()
			group.Go(func() error { return watcher.Run(gctx) })
		}
	}

	g := game.NewGame(cfg, sc, reduced, changes, logger)
	defer g.Close()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizable(cfg.Window.Resizable)
	if cfg.Window.TPS > 0 {
		ebiten.SetTPS(cfg.Window.TPS)
	} else {
		ebiten.SetTPS(ebiten.SyncWithFPS)
	}

	logger.Info("starting",
		zap.String("config", configPath),
		zap.Int64("seed", sc.Seed()),
		zap.Bool("reduced_motion", reduced),
		zap.Bool("watching_preference", watch))

	runErr := ebiten.RunGame(g)
	cancel()
	if err := group.Wait(); err != nil {
		logger.Warn("motion preference watcher stopped", zap.Error(err))
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		return fmt.Errorf("game loop: %w", runErr)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
