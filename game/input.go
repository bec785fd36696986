package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"orbitfolio/scene"
)

// Command is one user intent decoded from the keyboard or wheel
type Command int

const (
	CommandNone Command = iota
	CommandLineDown
	CommandLineUp
	CommandPageDown
	CommandPageUp
	CommandHome
	CommandEnd
	CommandToggleHUD
	CommandToggleMotion
	CommandQuit
)

// Scroll distances in CSS pixels
const (
	wheelStep = 60.0
	lineStep  = 40.0
)

// keyBindings maps just-pressed keys to commands
var keyBindings = map[ebiten.Key]Command{
	ebiten.KeyArrowDown: CommandLineDown,
	ebiten.KeyJ:         CommandLineDown,
	ebiten.KeyArrowUp:   CommandLineUp,
	ebiten.KeyK:         CommandLineUp,
	ebiten.KeyPageDown:  CommandPageDown,
	ebiten.KeySpace:     CommandPageDown,
	ebiten.KeyPageUp:    CommandPageUp,
	ebiten.KeyHome:      CommandHome,
	ebiten.KeyEnd:       CommandEnd,
	ebiten.KeyF3:        CommandToggleHUD,
	ebiten.KeyM:         CommandToggleMotion,
	ebiten.KeyEscape:    CommandQuit,
}

// Input decodes ebiten input into commands and a wheel delta
type Input struct {
	keys []ebiten.Key
}

// NewInput creates an input decoder
func NewInput() *Input {
	return &Input{keys: make([]ebiten.Key, 0, 8)}
}

// Poll returns the commands issued since the last tick and the wheel scroll
// in CSS pixels, positive downward
func (in *Input) Poll() ([]Command, float64) {
	in.keys = inpututil.AppendJustPressedKeys(in.keys[:0])
	cmds := make([]Command, 0, len(in.keys))
	for _, k := range in.keys {
		if cmd, ok := keyBindings[k]; ok {
			cmds = append(cmds, cmd)
		}
	}
	_, dy := ebiten.Wheel()
	return cmds, -dy * wheelStep
}

// Cursor returns the pointer position in CSS pixels
func (in *Input) Cursor() (float64, float64) {
	x, y := ebiten.CursorPosition()
	return float64(x), float64(y)
}

// apply runs one command against the scene. It reports whether the program
// should quit.
func apply(cmd Command, sc *scene.Scene, debug *DebugState) bool {
	switch cmd {
	case CommandLineDown:
		sc.ScrollBy(lineStep)
	case CommandLineUp:
		sc.ScrollBy(-lineStep)
	case CommandPageDown:
		sc.Page(1)
	case CommandPageUp:
		sc.Page(-1)
	case CommandHome:
		sc.Home()
	case CommandEnd:
		sc.End()
	case CommandToggleHUD:
		debug.ShowHUD = !debug.ShowHUD
	case CommandToggleMotion:
		sc.SetReducedMotion(!sc.ReducedMotion())
	case CommandQuit:
		return true
	}
	return false
}
