// Package key defines the keyboard event model shared by the input
// router and the host event translation layer.
package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Key represents a keyboard key.
// For character keys, use KeyRune and set the Rune field in Event.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// KeyRune is a printable character key; the character is carried
	// in the Rune field of the event.
	KeyRune

	// Special keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// String returns a human-readable name for the key.
func (k Key) String() string {
	switch k {
	case KeyRune:
		return "rune"
	case KeyEscape:
		return "escape"
	case KeyEnter:
		return "enter"
	case KeyTab:
		return "tab"
	case KeyBackspace:
		return "backspace"
	case KeyDelete:
		return "delete"
	case KeyInsert:
		return "insert"
	case KeyHome:
		return "home"
	case KeyEnd:
		return "end"
	case KeyPageUp:
		return "pageup"
	case KeyPageDown:
		return "pagedown"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	default:
		return "none"
	}
}

// Event represents a single key event.
type Event struct {
	// Key identifies the key.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{Key: key, Modifiers: mods}
}

// IsDelete returns true for the keys that delete the selected image.
func (e Event) IsDelete() bool {
	return e.Key == KeyDelete || e.Key == KeyBackspace
}

// IsChord returns true if the event is the platform command chord for
// the given character: Ctrl on most platforms, Cmd (Meta) on macOS.
func (e Event) IsChord(r rune) bool {
	if e.Key != KeyRune {
		return false
	}
	if !e.Modifiers.HasCtrl() && !e.Modifiers.HasMeta() {
		return false
	}
	return unicode.ToLower(e.Rune) == unicode.ToLower(r)
}

// IsCopyChord returns true for the platform copy chord (Ctrl/Cmd+C).
func (e Event) IsCopyChord() bool {
	return e.IsChord('c')
}

// IsCutChord returns true for the platform cut chord (Ctrl/Cmd+X).
func (e Event) IsCutChord() bool {
	return e.IsChord('x')
}

// String returns a human-readable form such as "ctrl+c" or "delete".
func (e Event) String() string {
	var parts []string
	if e.Modifiers.HasCtrl() {
		parts = append(parts, "ctrl")
	}
	if e.Modifiers.HasAlt() {
		parts = append(parts, "alt")
	}
	if e.Modifiers.HasShift() {
		parts = append(parts, "shift")
	}
	if e.Modifiers.HasMeta() {
		parts = append(parts, "meta")
	}
	if e.Key == KeyRune {
		parts = append(parts, fmt.Sprintf("%c", e.Rune))
	} else {
		parts = append(parts, e.Key.String())
	}
	return strings.Join(parts, "+")
}
