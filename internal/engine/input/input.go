// Package input keeps per-frame keyboard and mouse state independent of the
// windowing backend. The UI layer feeds it events once per frame.
package input

import "github.com/Faultbox/humangl/pkg/math"

// Key is a backend-independent key identifier.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyR
	KeyF12
	KeyEscape
	keyCount
)

// Keys lists every key the viewer reacts to.
var Keys = []Key{KeyW, KeyA, KeyS, KeyD, KeyQ, KeyE, KeyR, KeyF12, KeyEscape}

func (k Key) String() string {
	switch k {
	case KeyW:
		return "W"
	case KeyA:
		return "A"
	case KeyS:
		return "S"
	case KeyD:
		return "D"
	case KeyQ:
		return "Q"
	case KeyE:
		return "E"
	case KeyR:
		return "R"
	case KeyF12:
		return "F12"
	case KeyEscape:
		return "Escape"
	}
	return "Unknown"
}

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	mouseButtonCount
)

// EventType is the kind of an input event.
type EventType int

const (
	EventNone EventType = iota
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventScroll
)

// Event is one input change.
type Event struct {
	Type   EventType
	Key    Key
	Button MouseButton
	Mouse  math.Vec2
	Scroll float32
}

// KeyState is what components query to react to the keyboard.
type KeyState interface {
	IsKeyDown(key Key) bool
	IsKeyPressed(key Key) bool
}

// Input accumulates the events of one frame on top of the held state.
type Input struct {
	events  []Event
	down    [keyCount]bool
	buttons [mouseButtonCount]bool
	mouse   math.Vec2
	scroll  float32
}

// New creates an empty input state.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// BeginFrame clears the per-frame events. Held keys and buttons persist.
func (i *Input) BeginFrame() {
	i.events = i.events[:0]
	i.scroll = 0
}

// Push records an event for the current frame.
func (i *Input) Push(e Event) {
	i.events = append(i.events, e)
	switch e.Type {
	case EventKeyDown:
		if e.Key > KeyUnknown && e.Key < keyCount {
			i.down[e.Key] = true
		}
	case EventKeyUp:
		if e.Key > KeyUnknown && e.Key < keyCount {
			i.down[e.Key] = false
		}
	case EventMouseMove:
		i.mouse = e.Mouse
	case EventMouseDown:
		i.mouse = e.Mouse
		if e.Button >= 0 && e.Button < mouseButtonCount {
			i.buttons[e.Button] = true
		}
	case EventMouseUp:
		i.mouse = e.Mouse
		if e.Button >= 0 && e.Button < mouseButtonCount {
			i.buttons[e.Button] = false
		}
	case EventScroll:
		i.scroll += e.Scroll
	}
}

// Events returns the events of the current frame.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyDown reports whether key is held.
func (i *Input) IsKeyDown(key Key) bool {
	if key <= KeyUnknown || key >= keyCount {
		return false
	}
	return i.down[key]
}

// IsKeyPressed reports whether key went down this frame.
func (i *Input) IsKeyPressed(key Key) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key {
			return true
		}
	}
	return false
}

// IsMouseDown reports whether button is held.
func (i *Input) IsMouseDown(button MouseButton) bool {
	if button < 0 || button >= mouseButtonCount {
		return false
	}
	return i.buttons[button]
}

// Clicked returns the cursor position of the first press of button this
// frame.
func (i *Input) Clicked(button MouseButton) (math.Vec2, bool) {
	for _, e := range i.events {
		if e.Type == EventMouseDown && e.Button == button {
			return e.Mouse, true
		}
	}
	return math.Vec2{}, false
}

// Mouse returns the last known cursor position.
func (i *Input) Mouse() math.Vec2 {
	return i.mouse
}

// Scroll returns the wheel movement of this frame.
func (i *Input) Scroll() float32 {
	return i.scroll
}

// Snapshot is the raw device state sampled once per frame by the UI layer.
type Snapshot struct {
	Keys    map[Key]bool
	Buttons [mouseButtonCount]bool // indexed by MouseButton
	Mouse   math.Vec2
	Scroll  float32
	Hovered bool // cursor is over the 3D view
}

// Sync starts a new frame and turns the difference between s and the held
// state into events. Presses and scrolling outside the 3D view are
// dropped; releases are always delivered.
func (i *Input) Sync(s Snapshot) {
	i.BeginFrame()

	for _, k := range Keys {
		down := s.Keys[k]
		if down == i.down[k] {
			continue
		}
		if down {
			i.Push(Event{Type: EventKeyDown, Key: k})
		} else {
			i.Push(Event{Type: EventKeyUp, Key: k})
		}
	}

	if s.Mouse != i.mouse {
		i.Push(Event{Type: EventMouseMove, Mouse: s.Mouse})
	}

	for b := MouseLeft; b < mouseButtonCount; b++ {
		down := s.Buttons[b]
		switch {
		case down && !i.buttons[b] && s.Hovered:
			i.Push(Event{Type: EventMouseDown, Button: b, Mouse: s.Mouse})
		case !down && i.buttons[b]:
			i.Push(Event{Type: EventMouseUp, Button: b, Mouse: s.Mouse})
		}
	}

	if s.Scroll != 0 && s.Hovered {
		i.Push(Event{Type: EventScroll, Scroll: s.Scroll})
	}
}
