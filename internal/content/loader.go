// Package content validates and loads leveled hotspot content from disk.
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hotspot-trainer/backend/internal/models"
)

// HotspotFiles are the record file names looked up in a level folder, in
// order of preference. The CSV name is the format of the first release.
var HotspotFiles = []string{"hotspots.json", "hotspots.yaml", "hotspots.yml", "hotspots.csv"}

// Loader reads levels from the local filesystem.
type Loader struct{}

// NewLoader creates a new content loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadLevel reads the hotspot records and frame list of one level folder.
// The last frame is the completion screen and has no record, so a valid
// level has exactly one more frame than records. Legacy CSV levels have no
// completion screen and pair every frame with a record.
func (l *Loader) LoadLevel(dir string) (*models.Level, error) {
	records, legacy, err := readHotspots(dir)
	if err != nil {
		return nil, err
	}

	images, err := listImages(dir)
	if err != nil {
		return nil, &Error{Op: "load level", Path: dir, Err: fmt.Errorf("%w: %v", ErrImageRead, err)}
	}

	if legacy {
		if len(images) != len(records) {
			return nil, &Error{
				Op:   "load level",
				Path: dir,
				Err:  fmt.Errorf("%w: %d images, %d records", ErrCountMismatch, len(images), len(records)),
			}
		}
	} else if imageCount := len(images) - 1; imageCount != len(records) {
		return nil, &Error{
			Op:   "load level",
			Path: dir,
			Err:  fmt.Errorf("%w: %d images (plus completion screen), %d records", ErrCountMismatch, imageCount, len(records)),
		}
	}

	return &models.Level{
		Name:     filepath.Base(dir),
		Path:     dir,
		Images:   images,
		Hotspots: records,
	}, nil
}

// DiscoverLevels validates a content folder. Each immediate subfolder is a
// level, played in name order; a folder without subfolders is itself the
// only level. The first invalid level rejects the whole folder.
func (l *Loader) DiscoverLevels(root string) (*models.LevelSet, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &Error{Op: "discover", Path: root, Err: fmt.Errorf("%w: %v", ErrInvalidFolder, err)}
	}
	if !info.IsDir() {
		return nil, &Error{Op: "discover", Path: root, Err: fmt.Errorf("%w: not a directory", ErrInvalidFolder)}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, &Error{Op: "discover", Path: root, Err: fmt.Errorf("%w: %v", ErrInvalidFolder, err)}
	}

	// os.ReadDir returns entries sorted by name, which fixes play order.
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			dirs = append(dirs, filepath.Join(root, entry.Name()))
		}
	}

	set := &models.LevelSet{Root: root}
	if len(dirs) == 0 {
		dirs = []string{root}
		set.Implicit = true
	}

	for i, dir := range dirs {
		level, err := l.LoadLevel(dir)
		if err != nil {
			return nil, err
		}
		set.Levels = append(set.Levels, models.LevelInfo{
			Index:      i,
			Name:       level.Name,
			Path:       dir,
			ImageCount: level.ImageCount(),
		})
		set.TotalImages += level.ImageCount()
	}

	fmt.Printf("[Content] %s: %d level(s), %d image(s)\n", root, set.NumLevels(), set.TotalImages)
	return set, nil
}

// readHotspots reports legacy when the records came from hotspots.csv.
func readHotspots(dir string) (records []models.HotspotRecord, legacy bool, err error) {
	for _, name := range HotspotFiles {
		path := filepath.Join(dir, name)
		file, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, false, &Error{Op: "read hotspots", Path: path, Err: fmt.Errorf("%w: %v", ErrMissingHotspotFile, err)}
		}

		legacy = strings.HasSuffix(name, ".csv")
		switch filepath.Ext(name) {
		case ".csv":
			records, err = ParseLegacyHotspots(file)
		case ".json":
			records, err = ParseHotspotsJSON(file)
		default:
			records, err = ParseHotspots(file)
		}
		file.Close()
		if err != nil {
			return nil, false, &Error{Op: "read hotspots", Path: path, Err: err}
		}
		return records, legacy, nil
	}
	return nil, false, &Error{Op: "read hotspots", Path: dir, Err: ErrMissingHotspotFile}
}

// listImages returns the .png frames of dir in filename order.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".png") {
			images = append(images, filepath.Join(dir, entry.Name()))
		}
	}
	return images, nil
}
