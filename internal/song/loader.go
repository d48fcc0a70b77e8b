package song

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrDoe/lyrehero/internal/notetable"
	"gopkg.in/yaml.v3"
)

// Load reads a song file, decoding it by extension: .yaml/.yml with
// gopkg.in/yaml.v3, .json with encoding/json. The result is validated
// before being returned.
func Load(path string) (*Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("song: read %s: %w", path, err)
	}
	var s Song
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("song: decode yaml %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("song: decode json %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("song: unsupported extension %q", filepath.Ext(path))
	}
	if err := Validate(&s); err != nil {
		return nil, fmt.Errorf("song: %s: %w", path, err)
	}
	return &s, nil
}

// Validate resolves every NoteEvent's Note (and BassNote, if present)
// against the full note table and checks Difficulty and Duration against
// their fixed sets. A song with no notes is invalid.
func Validate(s *Song) error {
	if len(s.Notes) == 0 {
		return ErrEmptySong
	}
	if s.Difficulty != "" && !s.Difficulty.valid() {
		return fmt.Errorf("song: invalid difficulty %q", s.Difficulty)
	}
	for i, ev := range s.Notes {
		if _, ok := notetable.FrequencyOf(ev.Note); !ok {
			return fmt.Errorf("song: note %d: unknown note name %q", i, ev.Note)
		}
		if ev.BassNote != "" {
			if _, ok := notetable.FrequencyOf(ev.BassNote); !ok {
				return fmt.Errorf("song: note %d: unknown bass note name %q", i, ev.BassNote)
			}
		}
		if !ev.Duration.valid() {
			return fmt.Errorf("song: note %d: invalid duration %q", i, ev.Duration)
		}
	}
	return nil
}
