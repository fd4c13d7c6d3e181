// Package host implements the external windowing collaborator spec.md
// §1/§6 treats as out of scope for the core: a window that can open,
// blit a palette-expanded frame, and hand back key events, polled by
// the scheduler rather than delivered through a callback.
package host

import "toumapet/internal/video"

// Model distinguishes the two supported hardware revisions, which
// disagree on which physical button wires to which key bitmask bit.
type Model int

const (
	Model550 Model = iota // 4 MiB ROM, 128x128 screen
	Model560               // 8 MiB ROM, 128x160 screen
)

// Button names the three physical front buttons plus the two chassis
// side buttons, independent of which bit a given model wires each one
// to.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
	ButtonSideLeft
	ButtonSideRight
)

// bitsByModel is spec.md §6's key table transposed: button -> bit,
// per model.
var bitsByModel = map[Model][5]int{
	Model550: {ButtonLeft: 4, ButtonMiddle: 5, ButtonRight: 6, ButtonSideLeft: 3, ButtonSideRight: 2},
	Model560: {ButtonLeft: 2, ButtonMiddle: 3, ButtonRight: 4, ButtonSideLeft: 5, ButtonSideRight: 6},
}

// ButtonBit resolves which key-register bit a button lands on for a
// given model.
func ButtonBit(m Model, b Button) int {
	return bitsByModel[m][b]
}

// Keysym is a host-independent key identifier; the concrete backend
// (internal/host's SDL implementation) translates its own scancode
// space into this one.
type Keysym int

const (
	KeyA Keysym = iota
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyR
	KeyLeft
	KeyDown
	KeyRight
	KeyDelete
	KeyPageDown
	KeyEscape
)

// Action is what a physical key means to the emulator, independent of
// which of the two keys that can trigger it (e.g. A and Left both
// mean "left (select)").
type Action int

const (
	ActionLeftButton Action = iota
	ActionMiddleButton
	ActionRightButton
	ActionSideLeftButton
	ActionSideRightButton
	ActionReset
	ActionQuit
)

// actionTable is spec.md §6's "Keys" column collapsed to one action
// per physical key.
var actionTable = map[Keysym]Action{
	KeyA:        ActionLeftButton,
	KeyLeft:     ActionLeftButton,
	KeyS:        ActionMiddleButton,
	KeyDown:     ActionMiddleButton,
	KeyD:        ActionRightButton,
	KeyRight:    ActionRightButton,
	KeyQ:        ActionSideLeftButton,
	KeyDelete:   ActionSideLeftButton,
	KeyE:        ActionSideRightButton,
	KeyPageDown: ActionSideRightButton,
	KeyR:        ActionReset,
	KeyEscape:   ActionQuit,
}

// ActionFor resolves a host keysym to its emulator action. ok is false
// for any key the firmware doesn't care about.
func ActionFor(k Keysym) (Action, bool) {
	a, ok := actionTable[k]
	return a, ok
}

// EventKind distinguishes the three shapes of host event the
// scheduler's pump consumes.
type EventKind int

const (
	EventKeyDown EventKind = iota
	EventKeyUp
	EventQuit
)

// Event is one polled host input event.
type Event struct {
	Kind EventKind
	Key  Keysym
}

// Window is the narrow surface the scheduler needs from a concrete
// backend: open once, blit once per frame, pump events opportunistically
// (both mid-frame and at the frame boundary), close once.
type Window interface {
	// Open creates the window sized for width x height at the given
	// integer zoom factor, negotiating which byte of its native pixel
	// format carries red so the caller can build a matching palette.
	Open(width, height, zoom int, title string) (redByteIndex int, err error)
	// Blit scales and presents one framebuffer frame through pal.
	Blit(fb *video.Framebuffer, pal [256][4]byte) error
	// PumpEvents drains whatever input events arrived since the last
	// call without blocking.
	PumpEvents() []Event
	Close()
}
