package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"dancehub/pkg/models"
)

// LocalSource reads a song bundle JSON file from disk. The bundle is either
// an object keyed by map name or a plain array of songs.
type LocalSource struct {
	Path string
}

func NewLocalSource(path string) *LocalSource {
	return &LocalSource{Path: path}
}

func (s *LocalSource) Name() string { return "local" }

func (s *LocalSource) FetchAll(_ context.Context) ([]models.Song, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read bundle %s: %w", s.Path, err)
	}
	return decodeBundle(b)
}

func decodeBundle(b []byte) ([]models.Song, error) {
	var keyed map[string]models.Song
	if err := json.Unmarshal(b, &keyed); err == nil {
		out := make([]models.Song, 0, len(keyed))
		for mapName, s := range keyed {
			if s.MapName == "" {
				s.MapName = mapName
			}
			out = append(out, s)
		}
		return out, nil
	}

	var list []models.Song
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("bundle is neither a song map nor a song list: %w", err)
	}
	return list, nil
}
