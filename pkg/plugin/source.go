package plugin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Source supplies manifests. The manager's contract begins at "manifest in
// hand": where they come from (a static list, a directory scan, an embedded
// catalog) is a source strategy.
type Source interface {
	Manifests() ([]Manifest, error)
}

// StaticSource is the trivial source: an in-memory manifest list.
type StaticSource []Manifest

func (s StaticSource) Manifests() ([]Manifest, error) {
	return []Manifest(s), nil
}

// DirSource scans directories for plugin bundles, each a subdirectory
// holding a plugin.json manifest. Malformed manifests are logged and
// skipped so one broken bundle cannot hide the rest.
type DirSource struct {
	dirs   []string
	logger zerolog.Logger
}

// NewDirSource creates a source scanning the given directories.
func NewDirSource(dirs []string, logger zerolog.Logger) *DirSource {
	return &DirSource{
		dirs:   dirs,
		logger: logger.With().Str("component", "plugin-source").Logger(),
	}
}

func (d *DirSource) Manifests() ([]Manifest, error) {
	var manifests []Manifest
	for _, dir := range d.dirs {
		if dir == "" {
			continue
		}
		found, err := d.scanDirectory(dir)
		if err != nil {
			d.logger.Warn().Err(err).Str("dir", dir).Msg("Failed to scan plugin directory")
			continue
		}
		manifests = append(manifests, found...)
	}
	d.logger.Info().Int("count", len(manifests)).Msg("Manifest scan completed")
	return manifests, nil
}

func (d *DirSource) scanDirectory(dir string) ([]Manifest, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			d.logger.Debug().Str("dir", dir).Msg("Directory does not exist, skipping")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var manifests []Manifest
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifestPath := filepath.Join(dir, entry.Name(), "plugin.json")
		data, err := os.ReadFile(manifestPath)
		if err != nil {
			if os.IsNotExist(err) {
				d.logger.Debug().Str("dir", entry.Name()).Msg("Directory has no plugin.json, skipping")
			} else {
				d.logger.Warn().Err(err).Str("path", manifestPath).Msg("Failed to read manifest")
			}
			continue
		}

		var manifest Manifest
		if err := json.Unmarshal(data, &manifest); err != nil {
			d.logger.Warn().Err(err).Str("path", manifestPath).Msg("Malformed manifest, skipping")
			continue
		}

		manifests = append(manifests, manifest)
		d.logger.Debug().
			Str("plugin", manifest.Name).
			Str("path", manifestPath).
			Msg("Found manifest")
	}
	return manifests, nil
}
