package game

import (
	"fmt"
	"runtime"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"orbitfolio/config"
	"orbitfolio/scene"
)

// Game hosts a scene in an ebiten window
type Game struct {
	log      *zap.Logger
	cfg      *config.Config
	scene    *scene.Scene
	renderer *Renderer
	input    *Input
	debug    DebugState

	// Reduced-motion changes from the preference watcher
	prefs   <-chan bool
	reduced bool

	// Viewport reported by Layout, applied on the next Update
	pending scene.Viewport
	hovered int

	// FPS tracking
	fps              float64
	fpsUpdateCounter int
	fpsUpdateTimer   float64

	// Performance profiling
	profiler *Profiler

	// FPS drop detection
	lastFPSDropTime time.Time
	fpsDropCooldown time.Duration

	// Start time to ignore FPS drops during startup
	gameStartTime time.Time

	// Last update time for delta time calculation
	lastUpdateTime time.Time
}

// NewGame wraps sc. reduced is the startup preference; prefs may be nil.
func NewGame(cfg *config.Config, sc *scene.Scene, reduced bool, prefs <-chan bool, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Game{
		log:             log.Named("game"),
		cfg:             cfg,
		scene:           sc,
		renderer:        NewRenderer(cfg),
		input:           NewInput(),
		prefs:           prefs,
		reduced:         reduced,
		hovered:         -1,
		fps:             60.0,
		fpsDropCooldown: 10 * time.Second, // Don't trigger profiling more than once every 10 seconds
		gameStartTime:   time.Now(),
		lastUpdateTime:  time.Now(),
	}
	if cfg.Profiling.Enabled {
		g.profiler = NewProfiler(cfg.Profiling.Dir, log)
	}
	sc.SetMeasurer(g.renderer)
	return g
}

// Update drains preference changes, applies input and advances the scene
func (g *Game) Update() error {
	now := time.Now()
	deltaTime := now.Sub(g.lastUpdateTime).Seconds()
	g.lastUpdateTime = now

	// Clamp delta time to prevent large jumps
	if deltaTime > 0.1 {
		deltaTime = 0.1
	}

	g.applyViewport()
	g.drainPrefs()

	cmds, wheel := g.input.Poll()
	for _, cmd := range cmds {
		if apply(cmd, g.scene, &g.debug) {
			g.log.Info("quit requested")
			return ebiten.Termination
		}
	}
	if wheel != 0 {
		g.scene.ScrollBy(wheel)
	}

	g.scene.Frame(now)
	g.updateHover()
	g.trackFPS(deltaTime)
	return nil
}

// applyViewport mounts on the first viewport and resizes afterwards
func (g *Game) applyViewport() {
	vp := g.pending
	if vp.Empty() {
		return
	}
	g.renderer.Resize(vp, g.scene.Stars)
	if !g.scene.Mounted() {
		g.scene.Mount(vp, g.reduced)
		return
	}
	g.scene.Resize(vp)
}

func (g *Game) drainPrefs() {
	for {
		select {
		case reduced, ok := <-g.prefs:
			if !ok {
				g.prefs = nil
				return
			}
			g.reduced = reduced
			g.scene.SetReducedMotion(reduced)
			g.log.Info("motion preference applied", zap.Bool("reduced", reduced))
		default:
			return
		}
	}
}

// updateHover tracks the belt sample under the pointer
func (g *Game) updateHover() {
	g.hovered = -1
	if !g.scene.Mounted() {
		return
	}
	x, y := g.input.Cursor()
	s := g.scene.Viewport().Scale()
	if i, ok := g.scene.Belt.HitTest(x/s, y/s); ok {
		g.hovered = i
	}
}

// trackFPS updates the FPS estimate every half second and captures a profile
// on a sustained drop
func (g *Game) trackFPS(deltaTime float64) {
	g.fpsUpdateTimer += deltaTime
	g.fpsUpdateCounter++
	if g.fpsUpdateTimer < 0.5 {
		return
	}
	if g.fpsUpdateCounter > 0 {
		g.fps = float64(g.fpsUpdateCounter) / g.fpsUpdateTimer
	}
	g.fpsUpdateCounter = 0
	g.fpsUpdateTimer = 0.0

	// Skip detection in the first 3 seconds after launch
	if g.profiler == nil || g.fps >= g.cfg.Profiling.FPSThreshold ||
		time.Since(g.gameStartTime) < 3*time.Second ||
		time.Since(g.lastFPSDropTime) < g.fpsDropCooldown {
		return
	}
	g.lastFPSDropTime = time.Now()

	reason := fmt.Sprintf("fps%.0f-stars%d-belt%d", g.fps, g.scene.Stars.Len(), len(g.scene.Belt.Samples()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	g.log.Warn("FPS drop detected, capturing profile",
		zap.Float64("fps", g.fps),
		zap.Uint32("num_gc", m.NumGC),
		zap.Uint64("pause_total_ns", m.PauseTotalNs),
		zap.Uint64("heap_alloc_kb", m.HeapAlloc/1024))

	if err := g.profiler.CaptureProfile(reason); err != nil {
		g.log.Debug("profile not captured", zap.Error(err))
	}
}

// Draw renders the scene and the optional HUD
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.scene, g.hovered)
	if g.debug.ShowHUD && g.scene.Mounted() {
		drawHUD(screen, hudLines(g.scene, ebiten.ActualFPS(), ebiten.ActualTPS(), g.hovered))
	}
}

// Layout reports the device-pixel screen size and records the viewport
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := ebiten.Monitor().DeviceScaleFactor()
	g.pending = scene.Viewport{
		Width:  float64(outsideWidth),
		Height: float64(outsideHeight),
		DPR:    dpr,
	}
	w, h := g.pending.DevicePixels()
	return max(w, 1), max(h, 1)
}

// Close tears the scene down and waits for a running profile capture.
// Nothing is ticked afterwards.
func (g *Game) Close() {
	g.scene.Teardown()
	if g.profiler != nil {
		g.profiler.Wait()
	}
}
