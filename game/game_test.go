package game

import (
	"image"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"orbitfolio/config"
	"orbitfolio/scene"
	"orbitfolio/sprite"
)

func mountedScene(t *testing.T, reduced bool) *scene.Scene {
	t.Helper()
	opts := scene.DefaultOptions()
	opts.Seed = 21
	sc, err := scene.New(opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(sc.Teardown)
	sc.Mount(scene.Viewport{Width: 1280, Height: 800}, reduced)
	return sc
}

func TestApply_Scrolling(t *testing.T) {
	sc := mountedScene(t, true)
	var debug DebugState

	assert.False(t, apply(CommandPageDown, sc, &debug))
	assert.Equal(t, 800.0, sc.Scroll.Offset(), "reduced motion jumps straight to the target")

	apply(CommandLineDown, sc, &debug)
	assert.Equal(t, 840.0, sc.Scroll.Offset())
	apply(CommandLineUp, sc, &debug)
	apply(CommandPageUp, sc, &debug)
	assert.Equal(t, 0.0, sc.Scroll.Offset())

	apply(CommandEnd, sc, &debug)
	assert.Equal(t, sc.Scroll.Max(), sc.Scroll.Offset())
	apply(CommandHome, sc, &debug)
	assert.Equal(t, 0.0, sc.Scroll.Offset())
}

func TestApply_Toggles(t *testing.T) {
	sc := mountedScene(t, false)
	var debug DebugState

	apply(CommandToggleHUD, sc, &debug)
	assert.True(t, debug.ShowHUD)

	apply(CommandToggleMotion, sc, &debug)
	assert.True(t, sc.ReducedMotion())
	assert.Equal(t, scene.SchedulerStopped, sc.Scheduler.State())

	assert.True(t, apply(CommandQuit, sc, &debug))
	assert.False(t, apply(CommandNone, sc, &debug))
}

func TestKeyBindings_Unique(t *testing.T) {
	quit := 0
	for _, cmd := range keyBindings {
		assert.NotEqual(t, CommandNone, cmd)
		if cmd == CommandQuit {
			quit++
		}
	}
	assert.Equal(t, 1, quit)
}

func TestHUDLines(t *testing.T) {
	sc := mountedScene(t, false)
	lines := hudLines(sc, 59.9, 60, 7)

	text := strings.Join(lines, "\n")
	assert.Contains(t, text, "FPS 59.9")
	assert.Contains(t, text, "viewport 1280x800")
	assert.Contains(t, text, "stars 160")
	assert.Contains(t, text, "seed 21")
	assert.Contains(t, lines[len(lines)-1], "hover sample 7")

	assert.Len(t, hudLines(sc, 60, 60, -1), len(lines)-1)
}

func TestRenderer_MeasuresSun(t *testing.T) {
	r := NewRenderer(config.DefaultConfig())
	_, ok := r.SunRadius()
	assert.False(t, ok, "no viewport yet")

	r.vp = scene.Viewport{Width: 1280, Height: 800}
	radius, ok := r.SunRadius()
	require.True(t, ok)
	assert.InDelta(t, 340.0, radius, 1e-9)
}

func TestRectOf(t *testing.T) {
	assert.Equal(t, image.Rect(-1, 2, 11, 5), rectOf(sprite.Rect{X0: -0.5, Y0: 2, X1: 10.2, Y1: 4.9}))
}

func TestProfiler_CaptureSync(t *testing.T) {
	dir := t.TempDir()
	p := NewProfiler(dir, zaptest.NewLogger(t))

	require.NoError(t, p.CaptureProfileSync("test", 20*time.Millisecond))
	assert.False(t, p.IsProfiling())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Len(t, names, 2)
	assert.True(t, strings.HasSuffix(names[0], ".cpu.prof") || strings.HasSuffix(names[1], ".cpu.prof"))
}

func TestProfiler_Cooldown(t *testing.T) {
	p := NewProfiler(t.TempDir(), nil)
	p.captureDuration = 10 * time.Millisecond

	require.NoError(t, p.CaptureProfile("first"))
	assert.Error(t, p.CaptureProfile("second"))
	p.Wait()
	assert.ErrorIs(t, p.CaptureProfile("third"), errCaptureCooldown)
}

func TestGame_DrainPrefsAppliesLatestAndSurvivesClose(t *testing.T) {
	sc := mountedScene(t, false)
	changes := make(chan bool, 2)
	g := NewGame(config.DefaultConfig(), sc, false, changes, zaptest.NewLogger(t))

	g.drainPrefs()
	assert.False(t, sc.ReducedMotion(), "nothing pending")

	changes <- false
	changes <- true
	g.drainPrefs()
	assert.True(t, g.reduced)
	assert.True(t, sc.ReducedMotion())
	assert.Equal(t, scene.SchedulerStopped, sc.Scheduler.State())

	close(changes)
	g.drainPrefs()
	assert.Nil(t, g.prefs, "a closed channel is dropped")
	g.drainPrefs()
	assert.True(t, sc.ReducedMotion(), "closing keeps the last preference")
}

func TestGame_PreferenceBeforeMountReachesMount(t *testing.T) {
	opts := scene.DefaultOptions()
	opts.Seed = 22
	sc, err := scene.New(opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(sc.Teardown)

	changes := make(chan bool, 1)
	g := NewGame(config.DefaultConfig(), sc, false, changes, zaptest.NewLogger(t))
	changes <- true
	g.drainPrefs()

	sc.Mount(scene.Viewport{Width: 1280, Height: 800}, g.reduced)
	assert.Equal(t, scene.SchedulerStopped, sc.Scheduler.State())
}
