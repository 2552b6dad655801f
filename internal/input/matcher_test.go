package input

import (
	"testing"

	"github.com/hotspot-trainer/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeModifiers(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, []string{}},
		{"left and right shift collapse", []string{"left shift", "right shift"}, []string{"shift"}},
		{"order independent", []string{"right shift", "left shift", "shift"}, []string{"shift"}},
		{"ctrl spellings", []string{"Left Ctrl", "control"}, []string{"ctrl"}},
		{"windows key", []string{"left windows"}, []string{"win"}},
		{"mixed set sorted", []string{"right alt", "left shift", "right ctrl"}, []string{"alt", "ctrl", "shift"}},
		{"unknown passes through", []string{"Fn", "left shift"}, []string{"Fn", "shift"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeModifiers(tt.in))
		})
	}
}

func TestNormalizeModifiers_Idempotent(t *testing.T) {
	combos := [][]string{
		{"left shift"},
		{"right shift"},
		{"left shift", "right shift"},
		{"right shift", "left shift", "right shift"},
	}
	for _, combo := range combos {
		once := NormalizeModifiers(combo)
		assert.Equal(t, []string{"shift"}, once)
		assert.Equal(t, once, NormalizeModifiers(once))
	}
}

func TestMatchesMouse(t *testing.T) {
	rec := models.HotspotRecord{
		Kind:      models.HotspotMouse,
		Button:    models.ButtonLeft,
		Position:  models.Point{X: 10, Y: 10},
		Modifiers: []string{"left ctrl"},
	}

	tests := []struct {
		name string
		ev   models.MouseInput
		want bool
	}{
		{"exact", models.MouseInput{Button: models.ButtonLeft, Modifiers: []string{"right ctrl"}, HitHotspot: true}, true},
		{"missed region", models.MouseInput{Button: models.ButtonLeft, Modifiers: []string{"ctrl"}, HitHotspot: false}, false},
		{"wrong button", models.MouseInput{Button: models.ButtonRight, Modifiers: []string{"ctrl"}, HitHotspot: true}, false},
		{"missing modifier", models.MouseInput{Button: models.ButtonLeft, HitHotspot: true}, false},
		{"extra modifier", models.MouseInput{Button: models.ButtonLeft, Modifiers: []string{"ctrl", "shift"}, HitHotspot: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesMouse(tt.ev, rec))
		})
	}
}

func TestMatchesKey(t *testing.T) {
	rec := models.HotspotRecord{Kind: models.HotspotKey, ScanCode: 30, Name: "a", Modifiers: []string{"left shift"}}

	assert.True(t, MatchesKey(models.KeyInput{ScanCode: 30, Text: "A", Modifiers: []string{"shift"}}, rec))
	assert.True(t, MatchesKey(models.KeyInput{ScanCode: 30, Text: "", Modifiers: []string{"right shift"}}, rec), "text is not compared")
	assert.False(t, MatchesKey(models.KeyInput{ScanCode: 31, Text: "a", Modifiers: []string{"shift"}}, rec))
	assert.False(t, MatchesKey(models.KeyInput{ScanCode: 30, Text: "a"}, rec))
}

func TestMatches_KindMismatch(t *testing.T) {
	mouse := models.HotspotRecord{Kind: models.HotspotMouse, Button: models.ButtonLeft}
	key := models.HotspotRecord{Kind: models.HotspotKey, ScanCode: 1}

	assert.False(t, Matches(models.KeyInput{ScanCode: 1}, mouse))
	assert.False(t, Matches(models.MouseInput{Button: models.ButtonLeft, HitHotspot: true}, key))
	assert.False(t, Matches(models.TimerTick{}, key))
	assert.True(t, Matches(models.MouseInput{Button: models.ButtonLeft, HitHotspot: true}, mouse))
}
