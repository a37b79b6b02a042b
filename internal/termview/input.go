package termview

import (
	"time"

	"raycaster/internal/simulation"

	"github.com/gdamore/tcell/v2"
)

// HoldWindow is how long a key press counts as held. Terminals report key
// repeats but never key releases.
const HoldWindow = 150 * time.Millisecond

type action int

const (
	actionForward action = iota
	actionBackward
	actionRotateLeft
	actionRotateRight
	actionStrafeLeft
	actionStrafeRight
	actionCount
)

// KeyState turns terminal key events into held-key snapshots.
type KeyState struct {
	until [actionCount]time.Time
}

// Press records ev at now and reports whether it asks to quit (Esc or Ctrl-C).
func (k *KeyState) Press(ev *tcell.EventKey, now time.Time) (quit bool) {
	return k.press(ev.Key(), ev.Rune(), now)
}

func (k *KeyState) press(key tcell.Key, r rune, now time.Time) bool {
	a, ok := actionFor(key, r)
	switch {
	case key == tcell.KeyEscape || key == tcell.KeyCtrlC:
		return true
	case ok:
		k.until[a] = now.Add(HoldWindow)
	}
	return false
}

// Snapshot returns the actions still held at now.
func (k *KeyState) Snapshot(now time.Time) simulation.InputSnapshot {
	held := func(a action) bool { return now.Before(k.until[a]) }
	return simulation.InputSnapshot{
		Forward:     held(actionForward),
		Backward:    held(actionBackward),
		RotateLeft:  held(actionRotateLeft),
		RotateRight: held(actionRotateRight),
		StrafeLeft:  held(actionStrafeLeft),
		StrafeRight: held(actionStrafeRight),
	}
}

func actionFor(key tcell.Key, r rune) (action, bool) {
	switch key {
	case tcell.KeyUp:
		return actionForward, true
	case tcell.KeyDown:
		return actionBackward, true
	case tcell.KeyLeft:
		return actionRotateLeft, true
	case tcell.KeyRight:
		return actionRotateRight, true
	case tcell.KeyRune:
		switch r {
		case 'w', 'W':
			return actionForward, true
		case 's', 'S':
			return actionBackward, true
		case 'a', 'A':
			return actionRotateLeft, true
		case 'd', 'D':
			return actionRotateRight, true
		case 'q', 'Q':
			return actionStrafeLeft, true
		case 'e', 'E':
			return actionStrafeRight, true
		}
	}
	return 0, false
}
