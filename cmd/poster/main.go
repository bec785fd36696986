// Command orbitfolio-poster renders a still frame of the backdrop to PNG.
package main

import (
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"orbitfolio/config"
	"orbitfolio/poster"
	"orbitfolio/scene"
)

// frameInterval is the synthetic refresh period used to advance the scene
const frameInterval = time.Second / 60

var (
	configPath string
	outPath    string
	width      float64
	height     float64
	dpr        float64
	scrollY    float64
	frames     int
	seed       int64
	verbose    bool
	hide       []string
)

var rootCmd = &cobra.Command{
	Use:   "orbitfolio-poster",
	Short: "Render a still frame of the backdrop to PNG",
	Long: `orbitfolio-poster lays the scene out for a viewport, scrolls it, advances
a number of frames and writes the result as a PNG. The image is the static
fallback for visitors who prefer reduced motion.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&configPath, "config", "c", "orbitfolio.yaml", "config file")
	f.StringVarP(&outPath, "out", "o", "poster.png", "output PNG")
	f.Float64Var(&width, "width", 1280, "viewport width in CSS pixels")
	f.Float64Var(&height, "height", 800, "viewport height in CSS pixels")
	f.Float64Var(&dpr, "dpr", 1, "device pixel ratio")
	f.Float64Var(&scrollY, "scroll", 0, "document scroll offset in CSS pixels")
	f.IntVar(&frames, "frames", 0, "frames to advance before capturing")
	f.Int64Var(&seed, "seed", 0, "layout seed (0 uses the config seed)")
	f.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	f.StringSliceVar(&hide, "hide", nil, "layers to omit: stars, belt, sun, overlay")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if seed != 0 {
		cfg.Scene.Seed = seed
	}
	if frames < 0 {
		return fmt.Errorf("frames must not be negative: %d", frames)
	}
	opts, err := posterOptions(hide)
	if err != nil {
		return err
	}

	logger, err := cfg.NewLogger(verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	vp := scene.Viewport{Width: width, Height: height, DPR: dpr}
	if vp.Empty() {
		return fmt.Errorf("viewport %gx%g has no area", width, height)
	}

	sc, err := scene.New(cfg.SceneOptions(), logger)
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}
	defer sc.Teardown()
	sc.SetMeasurer(poster.FixedSun(cfg.SunRadius(vp)))

	sc.Mount(vp, false)
	sc.ScrollTo(scrollY)
	sc.Scroll.Jump()

	now := time.Now()
	for i := 0; i < frames; i++ {
		now = now.Add(frameInterval)
		sc.Frame(now)
	}

	img := poster.Render(sc, opts)

	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode poster: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	logger.Info("poster written",
		zap.String("path", outPath),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
		zap.Int64("seed", sc.Seed()),
		zap.Float64("scroll", sc.Scroll.Offset()),
		zap.Int("frames", frames))
	return nil
}

// posterOptions maps --hide values to render options
func posterOptions(layers []string) (poster.Options, error) {
	var opts poster.Options
	for _, l := range layers {
		switch l {
		case "stars":
			opts.HideStars = true
		case "belt":
			opts.HideBelt = true
		case "sun":
			opts.HideSun = true
		case "overlay":
			opts.HideOverlay = true
		default:
			return opts, fmt.Errorf("unknown layer %q", l)
		}
	}
	return opts, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
