// Package input decides whether a captured input satisfies a hotspot.
package input

import (
	"slices"
	"strings"

	"github.com/hotspot-trainer/backend/internal/models"
)

// canonical maps every recognized modifier spelling to one of
// shift, ctrl, alt, win. Side qualifiers are stripped before lookup.
var canonical = map[string]string{
	"shift":   "shift",
	"ctrl":    "ctrl",
	"control": "ctrl",
	"alt":     "alt",
	"win":     "win",
	"windows": "win",
	"meta":    "win",
	"super":   "win",
	"cmd":     "win",
}

// NormalizeModifiers collapses left/right variants ("left shift",
// "right shift") to one canonical name and returns a sorted set.
// Unrecognized tokens pass through unchanged.
func NormalizeModifiers(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, token := range raw {
		out = append(out, normalize(token))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func normalize(token string) string {
	key := strings.ToLower(strings.TrimSpace(token))
	key = strings.TrimPrefix(key, "left ")
	key = strings.TrimPrefix(key, "right ")
	if name, ok := canonical[key]; ok {
		return name
	}
	return token
}

// SameModifiers reports set equality after normalization.
func SameModifiers(a, b []string) bool {
	return slices.Equal(NormalizeModifiers(a), NormalizeModifiers(b))
}

// MatchesMouse reports whether a click satisfies a mouse hotspot. Hit
// testing belongs to the renderer, which reports it as HitHotspot.
func MatchesMouse(ev models.MouseInput, rec models.HotspotRecord) bool {
	return rec.Kind == models.HotspotMouse &&
		ev.HitHotspot &&
		ev.Button == rec.Button &&
		SameModifiers(ev.Modifiers, rec.Modifiers)
}

// MatchesKey reports whether a key press satisfies a key hotspot. Only the
// native scan code is compared; the key text is for display.
func MatchesKey(ev models.KeyInput, rec models.HotspotRecord) bool {
	return rec.Kind == models.HotspotKey &&
		ev.ScanCode == rec.ScanCode &&
		SameModifiers(ev.Modifiers, rec.Modifiers)
}

// Matches dispatches on the event type. Events that are not inputs never match.
func Matches(ev models.Event, rec models.HotspotRecord) bool {
	switch e := ev.(type) {
	case models.MouseInput:
		return MatchesMouse(e, rec)
	case models.KeyInput:
		return MatchesKey(e, rec)
	}
	return false
}
