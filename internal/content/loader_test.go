package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hotspot-trainer/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeLevel creates a level folder with the given number of frames and
// mouse records.
func writeLevel(t *testing.T, dir string, frames, records int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for i := 0; i < frames; i++ {
		name := filepath.Join(dir, fmt.Sprintf("%06d.png", i))
		require.NoError(t, os.WriteFile(name, []byte("png"), 0644))
	}
	var parts []string
	for i := 0; i < records; i++ {
		parts = append(parts, fmt.Sprintf(`"%06d": {"type": "mouse", "button": "left", "position": [%d, %d], "modifiers": []}`, i, 10*i, 20*i))
	}
	body := "{" + strings.Join(parts, ",") + "}"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hotspots.json"), []byte(body), 0644))
}

func TestLoadLevel_CountRule(t *testing.T) {
	tests := []struct {
		name    string
		frames  int
		records int
		wantErr error
	}{
		{"frames equal records plus one", 4, 3, nil},
		{"one frame too few", 3, 3, ErrCountMismatch},
		{"one frame too many", 5, 3, ErrCountMismatch},
		{"completion screen only", 1, 0, nil},
		{"no frames", 0, 0, ErrCountMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "level")
			writeLevel(t, dir, tt.frames, tt.records)

			level, err := NewLoader().LoadLevel(dir)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				var cerr *Error
				assert.True(t, errors.As(err, &cerr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.records, level.ImageCount())
			assert.Len(t, level.Images, tt.frames)
		})
	}
}

func TestLoadLevel_MissingHotspotFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000000.png"), []byte("png"), 0644))

	_, err := NewLoader().LoadLevel(dir)
	assert.ErrorIs(t, err, ErrMissingHotspotFile)
}

func TestLoadLevel_ImagesInFilenameOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"000002.png", "000000.png", "000001.PNG", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	body := `{"000000": {"type": "key", "scancode": 30, "name": "a", "modifiers": ["left shift"]},
	          "000001": {"type": "mouse", "button": "right", "position": [5, 6]}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hotspots.json"), []byte(body), 0644))

	level, err := NewLoader().LoadLevel(dir)
	require.NoError(t, err)

	var names []string
	for _, img := range level.Images {
		names = append(names, filepath.Base(img))
	}
	assert.Equal(t, []string{"000000.png", "000001.PNG", "000002.png"}, names)

	assert.Equal(t, models.HotspotKey, level.Hotspots[0].Kind)
	assert.Equal(t, 30, level.Hotspots[0].ScanCode)
	assert.Equal(t, []string{"left shift"}, level.Hotspots[0].Modifiers)
	assert.Equal(t, models.ButtonRight, level.Hotspots[1].Button)
	assert.Equal(t, models.Point{X: 5, Y: 6}, level.Hotspots[1].Position)
}

func TestLoadLevel_LegacyCSV(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("%06d.png", i)), []byte("x"), 0644))
	}
	csv := "index,x,y\n0,100,200\n1,300,400\n2,500,600\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hotspots.csv"), []byte(csv), 0644))

	level, err := NewLoader().LoadLevel(dir)
	require.NoError(t, err)
	require.Equal(t, 3, level.ImageCount())
	assert.Len(t, level.Images, 3)
	assert.Equal(t, models.ButtonLeft, level.Hotspots[1].Button)
	assert.Equal(t, models.Point{X: 300, Y: 400}, level.Hotspots[1].Position)
	assert.Equal(t, models.Point{X: 500, Y: 600}, level.Hotspots[2].Position)
}

func TestLoadLevel_LegacyCSV_CountRule(t *testing.T) {
	tests := []struct {
		name    string
		frames  int
		wantErr bool
	}{
		{"one record per frame", 2, false},
		{"extra completion frame", 3, true},
		{"missing frame", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for i := 0; i < tt.frames; i++ {
				require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("%06d.png", i)), []byte("x"), 0644))
			}
			csv := "index,x,y\n0,1,2\n1,3,4\n"
			require.NoError(t, os.WriteFile(filepath.Join(dir, "hotspots.csv"), []byte(csv), 0644))

			_, err := NewLoader().LoadLevel(dir)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrCountMismatch)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDiscoverLevels_MultiLevelSortedByName(t *testing.T) {
	root := t.TempDir()
	writeLevel(t, filepath.Join(root, "b_second"), 3, 2)
	writeLevel(t, filepath.Join(root, "a_first"), 4, 3)

	set, err := NewLoader().DiscoverLevels(root)
	require.NoError(t, err)

	require.Equal(t, 2, set.NumLevels())
	assert.False(t, set.Implicit)
	assert.Equal(t, "a_first", set.Levels[0].Name)
	assert.Equal(t, 3, set.Levels[0].ImageCount)
	assert.Equal(t, "b_second", set.Levels[1].Name)
	assert.Equal(t, 1, set.Levels[1].Index)
	assert.Equal(t, 5, set.TotalImages)
}

func TestDiscoverLevels_ImplicitSingleLevel(t *testing.T) {
	root := t.TempDir()
	writeLevel(t, root, 3, 2)

	set, err := NewLoader().DiscoverLevels(root)
	require.NoError(t, err)
	assert.True(t, set.Implicit)
	assert.Equal(t, 1, set.NumLevels())
	assert.Equal(t, 2, set.TotalImages)
}

func TestDiscoverLevels_FirstInvalidLevelRejectsAll(t *testing.T) {
	root := t.TempDir()
	writeLevel(t, filepath.Join(root, "level1"), 3, 2)
	writeLevel(t, filepath.Join(root, "level2"), 3, 3)

	set, err := NewLoader().DiscoverLevels(root)
	assert.Nil(t, set)
	assert.ErrorIs(t, err, ErrCountMismatch)
}

func TestDiscoverLevels_NotAFolder(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := NewLoader().DiscoverLevels(file)
	assert.ErrorIs(t, err, ErrInvalidFolder)

	_, err = NewLoader().DiscoverLevels(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrInvalidFolder)
}
