package content

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/hotspot-trainer/backend/internal/models"
	"gopkg.in/yaml.v3"
)

// rawRecord mirrors one entry of the hotspot record file.
type rawRecord struct {
	Type      string   `json:"type" yaml:"type"`
	Button    string   `json:"button" yaml:"button"`
	Position  []int    `json:"position" yaml:"position"`
	Modifiers []string `json:"modifiers" yaml:"modifiers"`
	ScanCode  *int     `json:"scancode" yaml:"scancode"`
	Name      string   `json:"name" yaml:"name"`
}

// ParseHotspots decodes a hand-written YAML hotspot record mapping.
// Keys are six-digit image indexes and must run 000000..n-1 without gaps.
func ParseHotspots(r io.Reader) ([]models.HotspotRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var raw map[string]rawRecord
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return orderRecords(raw)
}

// ParseHotspotsJSON decodes the JSON record file written by the recorder.
func ParseHotspotsJSON(r io.Reader) ([]models.HotspotRecord, error) {
	var raw map[string]rawRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return orderRecords(raw)
}

func orderRecords(raw map[string]rawRecord) ([]models.HotspotRecord, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	records := make([]models.HotspotRecord, 0, len(keys))
	for i, key := range keys {
		idx, err := strconv.Atoi(key)
		if err != nil || idx != i {
			return nil, fmt.Errorf("%w: key %q is not image index %06d", ErrMalformedRecord, key, i)
		}
		rec, err := raw[key].toRecord(idx)
		if err != nil {
			return nil, fmt.Errorf("%w: record %s: %v", ErrMalformedRecord, key, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r rawRecord) toRecord(idx int) (models.HotspotRecord, error) {
	rec := models.HotspotRecord{
		Index:     idx,
		Kind:      models.HotspotKind(r.Type),
		Modifiers: r.Modifiers,
	}

	switch rec.Kind {
	case models.HotspotMouse:
		rec.Button = models.MouseButton(strings.ToLower(r.Button))
		if !rec.Button.Valid() {
			return rec, fmt.Errorf("unknown button %q", r.Button)
		}
		if len(r.Position) != 2 {
			return rec, fmt.Errorf("position needs 2 coordinates, got %d", len(r.Position))
		}
		rec.Position = models.Point{X: r.Position[0], Y: r.Position[1]}
	case models.HotspotKey:
		if r.ScanCode == nil {
			return rec, errors.New("key record without scancode")
		}
		rec.ScanCode = *r.ScanCode
		rec.Name = r.Name
	default:
		return rec, fmt.Errorf("unknown type %q", r.Type)
	}
	return rec, nil
}

// ParseLegacyHotspots reads the original CSV format: a header row followed
// by "index,x,y" rows, each an unmodified left click.
func ParseLegacyHotspots(r io.Reader) ([]models.HotspotRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if len(rows) == 0 {
		return []models.HotspotRecord{}, nil
	}

	records := make([]models.HotspotRecord, 0, len(rows)-1)
	for line, row := range rows[1:] {
		if len(row) < 3 {
			return nil, fmt.Errorf("%w: line %d has %d fields", ErrMalformedRecord, line+2, len(row))
		}
		x, errX := strconv.Atoi(row[1])
		y, errY := strconv.Atoi(row[2])
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("%w: line %d has a non-numeric position", ErrMalformedRecord, line+2)
		}
		records = append(records, models.HotspotRecord{
			Index:    line,
			Kind:     models.HotspotMouse,
			Button:   models.ButtonLeft,
			Position: models.Point{X: x, Y: y},
		})
	}
	return records, nil
}
