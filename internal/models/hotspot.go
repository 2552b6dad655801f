package models

// HotspotKind is the kind of input a hotspot expects.
type HotspotKind string

const (
	HotspotMouse HotspotKind = "mouse"
	HotspotKey   HotspotKind = "key"
)

// MouseButton identifies a mouse button.
type MouseButton string

const (
	ButtonLeft   MouseButton = "left"
	ButtonRight  MouseButton = "right"
	ButtonMiddle MouseButton = "middle"
)

// Valid reports whether b is one of the known buttons.
func (b MouseButton) Valid() bool {
	switch b {
	case ButtonLeft, ButtonRight, ButtonMiddle:
		return true
	}
	return false
}

// Point is a position in source image coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// HotspotRecord is the input required to leave one image of a level.
type HotspotRecord struct {
	Index     int         `json:"index"`
	Kind      HotspotKind `json:"type"`
	Button    MouseButton `json:"button,omitempty"`    // mouse only
	Position  Point       `json:"position"`            // mouse only
	ScanCode  int         `json:"scancode,omitempty"`  // key only
	Name      string      `json:"name,omitempty"`      // key only, display text
	Modifiers []string    `json:"modifiers,omitempty"` // raw modifier names as recorded
}
