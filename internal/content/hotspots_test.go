package content

import (
	"io"
	"strings"
	"testing"

	"github.com/hotspot-trainer/backend/internal/models"
)

func TestParseHotspots_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown type", `{"000000": {"type": "touch"}}`},
		{"unknown button", `{"000000": {"type": "mouse", "button": "side", "position": [1, 2]}}`},
		{"short position", `{"000000": {"type": "mouse", "button": "left", "position": [1]}}`},
		{"key without scancode", `{"000000": {"type": "key", "name": "a"}}`},
		{"gap in keys", `{"000000": {"type": "key", "scancode": 1}, "000002": {"type": "key", "scancode": 2}}`},
		{"non numeric key", `{"first": {"type": "key", "scancode": 1}}`},
		{"not a mapping", `[1, 2, 3]`},
	}

	parsers := map[string]func(io.Reader) ([]models.HotspotRecord, error){
		"yaml": ParseHotspots,
		"json": ParseHotspotsJSON,
	}

	for format, parse := range parsers {
		for _, tt := range tests {
			t.Run(format+"/"+tt.name, func(t *testing.T) {
				_, err := parse(strings.NewReader(tt.body))
				if err == nil {
					t.Fatalf("expected error for %s", tt.name)
				}
				if !strings.Contains(err.Error(), ErrMalformedRecord.Error()) {
					t.Errorf("expected malformed record error, got %v", err)
				}
			})
		}
	}
}

func TestParseHotspotsJSON_Escapes(t *testing.T) {
	body := `{
  "000000": {"type": "key", "scancode": 53, "name": "a\/b", "modifiers": ["left \u0073hift"]},
  "000001": {"type": "mouse", "button": "left", "position": [3, 4], "modifiers": []}
}`
	records, err := ParseHotspotsJSON(strings.NewReader(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Name != "a/b" {
		t.Errorf("expected name a/b, got %q", records[0].Name)
	}
	if len(records[0].Modifiers) != 1 || records[0].Modifiers[0] != "left shift" {
		t.Errorf("unexpected modifiers: %v", records[0].Modifiers)
	}
}

func TestParseHotspots_YAML(t *testing.T) {
	body := `
"000000":
  type: mouse
  button: middle
  position: [640, 480]
  modifiers: [right ctrl]
"000001":
  type: key
  scancode: 28
  name: Enter
`
	records, err := ParseHotspots(strings.NewReader(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Button != models.ButtonMiddle || records[0].Position.X != 640 {
		t.Errorf("unexpected mouse record: %+v", records[0])
	}
	if records[1].Kind != models.HotspotKey || records[1].ScanCode != 28 || records[1].Name != "Enter" {
		t.Errorf("unexpected key record: %+v", records[1])
	}
	if records[1].Index != 1 {
		t.Errorf("expected index 1, got %d", records[1].Index)
	}
}
