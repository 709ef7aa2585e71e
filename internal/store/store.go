// Package store persists configuration documents under the data directory:
// named templates in templates/ and the reserved last-used slot in last.json.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/ebalder/wmstudio/internal/model"
)

// ErrNotFound reports a template name with no document behind it.
var ErrNotFound = errors.New("template not found")

const lastFile = "last.json"

type Store struct {
	dir string
}

// New opens a store rooted at dir, creating the layout if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, "templates"), 0755); err != nil {
		return nil, fmt.Errorf("create template dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// LoadLast returns the last-used configuration. A missing or corrupt slot
// silently falls back to defaults: startup must always succeed.
func (s *Store) LoadLast() model.WatermarkConfig {
	data, err := os.ReadFile(filepath.Join(s.dir, lastFile))
	if err != nil {
		return model.Default()
	}
	cfg, err := model.Decode(data)
	if err != nil {
		slog.Warn("last-used config unreadable, using defaults", "error", err)
		return model.Default()
	}
	return cfg
}

// SaveLast writes the last-used slot. Called after every configuration
// change so the next session starts where this one left off.
func (s *Store) SaveLast(cfg model.WatermarkConfig) error {
	return s.writeDoc(filepath.Join(s.dir, lastFile), cfg)
}

// List returns the saved template names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, "templates"))
	if err != nil {
		return nil, fmt.Errorf("read template dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) Load(name string) (model.WatermarkConfig, error) {
	data, err := os.ReadFile(s.templatePath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return model.Default(), fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return model.Default(), fmt.Errorf("read template %s: %w", name, err)
	}
	return model.Decode(data)
}

func (s *Store) Save(name string, cfg model.WatermarkConfig) error {
	if sanitizeName(name) == "" {
		return fmt.Errorf("invalid template name %q", name)
	}
	return s.writeDoc(s.templatePath(name), cfg)
}

func (s *Store) Delete(name string) error {
	err := os.Remove(s.templatePath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return err
}

func (s *Store) templatePath(name string) string {
	return filepath.Join(s.dir, "templates", sanitizeName(name)+".json")
}

// writeDoc encodes into a temp file beside the destination and renames it
// into place, so a crash mid-write never corrupts an existing document.
func (s *Store) writeDoc(path string, cfg model.WatermarkConfig) error {
	data, err := model.Encode(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".doc-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", path, werr)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// sanitizeName reduces a template name to filename-safe characters. Unicode
// letters and digits stay, so non-ASCII template names keep working.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
