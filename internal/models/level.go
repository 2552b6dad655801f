package models

// Level is a fully loaded level: its frames and the hotspot for each frame
// except the last one, which is the completion screen.
type Level struct {
	Name     string          `json:"name"`
	Path     string          `json:"path"`
	Images   []string        `json:"images"`
	Hotspots []HotspotRecord `json:"hotspots"`
}

// ImageCount is the number of inputs needed to finish the level.
func (l *Level) ImageCount() int {
	return len(l.Hotspots)
}

// LevelInfo describes a validated level without keeping its data resident.
type LevelInfo struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	Path       string `json:"path"`
	ImageCount int    `json:"imageCount"`
}

// LevelSet is the ordered result of content discovery.
type LevelSet struct {
	Root        string      `json:"root"`
	Levels      []LevelInfo `json:"levels"`
	TotalImages int         `json:"totalImages"`
	// Implicit is true when the root folder itself is the only level.
	Implicit bool `json:"implicit"`
}

// NumLevels returns the number of playable levels.
func (s *LevelSet) NumLevels() int {
	if s == nil {
		return 0
	}
	return len(s.Levels)
}
