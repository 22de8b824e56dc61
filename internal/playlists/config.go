package playlists

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"dancehub/pkg/models"
)

const DefaultWeeklyPrefix = "weekly_"

// Config holds the static playlist definitions. Loaded once at startup and
// read-only afterwards.
type Config struct {
	WeeklyPrefix string
	defs         []models.PlaylistDefinition
	byName       map[string]models.PlaylistDefinition
}

type fileFormat struct {
	WeeklyPrefix string                      `json:"weekly_prefix"`
	Playlists    []models.PlaylistDefinition `json:"playlists"`
}

// Load reads and validates the playlist config file. Bad shape is rejected
// here with a clear diagnostic, never discovered mid-request.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playlist config %s: %w", path, err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Config, error) {
	var f fileFormat
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("playlist config is not valid JSON: %w", err)
	}

	prefix := strings.TrimSpace(f.WeeklyPrefix)
	if prefix == "" {
		prefix = DefaultWeeklyPrefix
	}

	cfg := &Config{
		WeeklyPrefix: prefix,
		byName:       make(map[string]models.PlaylistDefinition, len(f.Playlists)),
	}

	for i, def := range f.Playlists {
		if strings.TrimSpace(def.ID) == "" {
			return nil, fmt.Errorf("playlist %d: id is required", i)
		}
		if strings.TrimSpace(def.Name) == "" {
			return nil, fmt.Errorf("playlist %q: name is required", def.ID)
		}
		if def.Songs == nil {
			return nil, fmt.Errorf("playlist %q: songs list is required (may be empty)", def.ID)
		}
		if _, dup := cfg.byName[def.Name]; dup {
			return nil, fmt.Errorf("playlist %q: duplicate name %q", def.ID, def.Name)
		}
		if def.DisplayName == "" {
			def.DisplayName = def.Name
		}
		cfg.byName[def.Name] = def
		cfg.defs = append(cfg.defs, def)
	}

	return cfg, nil
}

// Empty returns a config with no playlists; the carousel then simply emits
// no playlist categories.
func Empty() *Config {
	return &Config{
		WeeklyPrefix: DefaultWeeklyPrefix,
		byName:       make(map[string]models.PlaylistDefinition),
	}
}

// All returns every definition in config file order.
func (c *Config) All() []models.PlaylistDefinition {
	return append([]models.PlaylistDefinition(nil), c.defs...)
}

// WeeklyFor finds the rotating playlist for the given week number, i.e. the
// definition named "<weekly-prefix><week>".
func (c *Config) WeeklyFor(week int) (models.PlaylistDefinition, bool) {
	def, ok := c.byName[c.WeeklyPrefix+strconv.Itoa(week)]
	return def, ok
}

// NonWeekly returns the permanent playlists in config file order.
func (c *Config) NonWeekly() []models.PlaylistDefinition {
	var out []models.PlaylistDefinition
	for _, def := range c.defs {
		if !strings.HasPrefix(def.Name, c.WeeklyPrefix) {
			out = append(out, def)
		}
	}
	return out
}
