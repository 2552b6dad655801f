package models

import "time"

// Event is anything the session controller reacts to. The set is closed:
// only the types in this file implement it.
type Event interface {
	isEvent()
}

// MouseInput is a click reported by the renderer. HitHotspot is the
// renderer's hit-test result against the displayed hotspot region.
type MouseInput struct {
	Button     MouseButton `json:"button"`
	Modifiers  []string    `json:"modifiers"`
	HitHotspot bool        `json:"hit"`
}

// KeyInput is a key press reported by the renderer.
type KeyInput struct {
	ScanCode  int      `json:"scancode"`
	Text      string   `json:"text"`
	Modifiers []string `json:"modifiers"`
}

// TimerTick refreshes elapsed time; it never changes state.
type TimerTick struct {
	At time.Time `json:"at"`
}

// UserChoice answers the pending prompt.
type UserChoice struct {
	Choice Choice `json:"choice"`
}

// SelectContent points the session at a content folder.
type SelectContent struct {
	Folder string `json:"folder"`
}

// StartGame begins play from the first level.
type StartGame struct{}

// ReturnHome abandons play and goes back to Ready.
type ReturnHome struct{}

func (MouseInput) isEvent()    {}
func (KeyInput) isEvent()      {}
func (TimerTick) isEvent()     {}
func (UserChoice) isEvent()    {}
func (SelectContent) isEvent() {}
func (StartGame) isEvent()     {}
func (ReturnHome) isEvent()    {}
