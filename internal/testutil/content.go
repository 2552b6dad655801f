package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteLevel creates a level folder with n left-click hotspots and n+1
// frames, the last being the completion screen. It returns dir.
func WriteLevel(t testing.TB, dir string, n int) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create level dir: %v", err)
	}

	records := make(map[string]any, n)
	for i := 0; i < n; i++ {
		records[fmt.Sprintf("%06d", i)] = map[string]any{
			"type":      "mouse",
			"button":    "left",
			"position":  []int{100 + i, 200 + i},
			"modifiers": []string{},
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("Failed to encode hotspots: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "hotspots.json"), data, 0644); err != nil {
		t.Fatalf("Failed to write hotspots: %v", err)
	}

	for i := 0; i <= n; i++ {
		WriteFrame(t, filepath.Join(dir, fmt.Sprintf("%06d.png", i)))
	}
	return dir
}

// pngHeader is the 8-byte PNG signature, enough for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// WriteFrame writes a stub PNG frame.
func WriteFrame(t testing.TB, path string) {
	t.Helper()
	if err := os.WriteFile(path, pngHeader, 0644); err != nil {
		t.Fatalf("Failed to write frame: %v", err)
	}
}
