// Package manifest reads the input list of items to download.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"postgrab/internal/domain/consts"
	"postgrab/internal/domain/logger"
	"postgrab/internal/models"
)

// Load reads the JSON array of entries at path.
func Load(path string) ([]models.ManifestEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}

	var entries []models.ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %q: %w", path, err)
	}
	return entries, nil
}

// Filter keeps entries tagged with typ, preserving order.
func Filter(entries []models.ManifestEntry, typ string) []models.ManifestEntry {
	out := make([]models.ManifestEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsType(typ) {
			out = append(out, e)
		}
	}
	return out
}

// LoadVideos reads path and returns only the video entries.
func LoadVideos(path string) ([]models.ManifestEntry, error) {
	entries, err := Load(path)
	if err != nil {
		return nil, err
	}
	videos := Filter(entries, consts.VideoType)
	logger.Pl.I("Loaded %d entries from %q, %d of them videos", len(entries), path, len(videos))
	return videos, nil
}
