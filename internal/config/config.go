// Package config persists the engine's tunable thresholds across runs
// under the single "lyrehero-audio-config" key spec.md §6 documents.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/MrDoe/lyrehero/internal/engine"
)

// Key is the top-level JSON key the persisted document is stored under.
const Key = "lyrehero-audio-config"

// Store loads and saves an engine.Config. Load never returns a fatal
// error to its caller in practice: implementations should prefer
// returning engine.DefaultConfig() alongside a wrapped
// engine.ErrConfigLoadFailed over failing outright.
type Store interface {
	Load() (engine.Config, error)
	Save(engine.Config) error
}

// FileStore persists to a single JSON file on disk.
type FileStore struct {
	Path string
}

// NewFileStore creates a FileStore backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

type document map[string]engine.Config

// Load reads and decodes the config file. Any failure — missing file,
// unreadable file, malformed JSON, missing key — yields
// engine.DefaultConfig() alongside a wrapped engine.ErrConfigLoadFailed;
// callers should log the error and proceed with the returned defaults.
func (s *FileStore) Load() (engine.Config, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return engine.DefaultConfig(), fmt.Errorf("config: read %s: %w", s.Path, engine.ErrConfigLoadFailed)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return engine.DefaultConfig(), fmt.Errorf("config: decode %s: %w", s.Path, engine.ErrConfigLoadFailed)
	}
	cfg, ok := doc[Key]
	if !ok {
		return engine.DefaultConfig(), fmt.Errorf("config: %s missing in %s: %w", Key, s.Path, engine.ErrConfigLoadFailed)
	}
	filled := fillDefaults(cfg)
	return filled, nil
}

// fillDefaults replaces zero-valued fields with DefaultConfig's, so a
// document that omits a field (rather than omitting the whole key) still
// behaves per spec.md §6 ("missing fields fall back to defaults").
func fillDefaults(cfg engine.Config) engine.Config {
	def := engine.DefaultConfig()
	if cfg.RMSThreshold == 0 {
		cfg.RMSThreshold = def.RMSThreshold
	}
	if cfg.ClarityThreshold == 0 {
		cfg.ClarityThreshold = def.ClarityThreshold
	}
	if cfg.HoldDurationMs == 0 {
		cfg.HoldDurationMs = def.HoldDurationMs
	}
	if cfg.Gain == 0 {
		cfg.Gain = def.Gain
	}
	return cfg
}

// Save writes cfg under Key, overwriting the file.
func (s *FileStore) Save(cfg engine.Config) error {
	doc := document{Key: cfg}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", s.Path, err)
	}
	return nil
}
