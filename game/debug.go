package game

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"orbitfolio/scene"
)

// DebugState holds debug overlay flags. It outlives viewport changes.
type DebugState struct {
	ShowHUD bool // F3: frame and scene statistics
}

// hudLines formats the scene statistics shown by the HUD
func hudLines(sc *scene.Scene, fps, tps float64, hovered int) []string {
	vp := sc.Viewport()
	sun := sc.Sun.Last()

	visible := 0
	for _, p := range sc.Belt.Projections() {
		if p.Visible {
			visible++
		}
	}

	lines := []string{
		fmt.Sprintf("FPS %.1f  TPS %.1f", fps, tps),
		fmt.Sprintf("viewport %.0fx%.0f @%.2fx", vp.Width, vp.Height, vp.Scale()),
		fmt.Sprintf("scheduler %s  frames %d  handlers %d", sc.Scheduler.State(), sc.Scheduler.Frames(), sc.Scheduler.Len()),
		fmt.Sprintf("reduced motion %v", sc.ReducedMotion()),
		fmt.Sprintf("scroll %.0f / %.0f", sc.Scroll.Offset(), sc.Scroll.Max()),
		fmt.Sprintf("sun t=%.3f (%.0f, %.0f) r=%.0f", sun.T, sun.X, sun.Y, sun.Radius),
		fmt.Sprintf("stars %d  belt %d/%d visible", sc.Stars.Len(), visible, len(sc.Belt.Samples())),
		fmt.Sprintf("glow %.2f  seed %d", sc.Glow.Intensity(), sc.Seed()),
	}
	if hovered >= 0 {
		lines = append(lines, fmt.Sprintf("hover sample %d", hovered))
	}
	return lines
}

// drawHUD prints the statistics in the top-left corner
func drawHUD(screen *ebiten.Image, lines []string) {
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), 8, 8)
}
