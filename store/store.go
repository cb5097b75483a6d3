// Package store manages a filesystem directory of JSON-serialized Migration
// artifacts named "<version>_<slug>.json".
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/schemamorph/pgmigrate/migration"
)

// ErrMalformedArtifact is returned when a migration file's name does not
// match the naming convention or its contents fail to parse as a Migration.
var ErrMalformedArtifact = errors.New("pgmigrate: malformed migration artifact")

var filenamePattern = regexp.MustCompile(`^([0-9]+)_([^/]+)\.json$`)

// Store is a filesystem-backed directory of migration artifacts.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. The directory need not exist yet;
// Write creates it on first use.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Entry names a migration artifact on disk alongside its parsed version.
type Entry struct {
	Version int
	Path    string
}

// List returns every migration file in the store directory, sorted
// numerically by version. A missing directory is treated as an empty
// store, not an error.
func (s *Store) List() ([]Entry, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pgmigrate: failed to list migrations directory %q: %w", s.dir, err)
	}

	var out []Entry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		version, _, ok := parseFilename(e.Name())
		if !ok {
			continue
		}
		out = append(out, Entry{Version: version, Path: filepath.Join(s.dir, e.Name())})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Read loads and parses one migration artifact. A name that doesn't match
// the naming convention, or JSON that fails to unmarshal, is reported as
// ErrMalformedArtifact.
func (s *Store) Read(path string) (migration.Migration, error) {
	if _, _, ok := parseFilename(filepath.Base(path)); !ok {
		return migration.Migration{}, fmt.Errorf("%w: %q does not match <version>_<slug>.json", ErrMalformedArtifact, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return migration.Migration{}, fmt.Errorf("pgmigrate: failed to read migration file %q: %w", path, err)
	}

	var m migration.Migration
	if err := json.Unmarshal(data, &m); err != nil {
		return migration.Migration{}, fmt.Errorf("%w: %q: %v", ErrMalformedArtifact, path, err)
	}
	return m, nil
}

// Write serializes m as JSON and writes it to "<version>_<slug>.json" in
// the store directory, creating the directory if missing. The write is
// atomic: contents land in a temp file in the same directory, then get
// renamed into place, so readers never observe a partial file.
func (s *Store) Write(m migration.Migration) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("pgmigrate: failed to create migrations directory %q: %w", s.dir, err)
	}

	name := fmt.Sprintf("%s_%s.json", m.Version, slugify(m.Description))
	finalPath := filepath.Join(s.dir, name)

	if _, err := os.Stat(finalPath); err == nil {
		return fmt.Errorf("pgmigrate: migration version %q already exists at %q", m.Version, finalPath)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("pgmigrate: failed to serialize migration %q: %w", m.Version, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".tmp-*")
	if err != nil {
		return fmt.Errorf("pgmigrate: failed to create temp file for migration %q: %w", m.Version, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("pgmigrate: failed to write migration %q: %w", m.Version, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("pgmigrate: failed to finalize migration %q: %w", m.Version, err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("pgmigrate: failed to install migration %q: %w", m.Version, err)
	}
	return nil
}

func parseFilename(name string) (version int, slug string, ok bool) {
	match := filenamePattern.FindStringSubmatch(name)
	if match == nil {
		return 0, "", false
	}
	v, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, "", false
	}
	return v, match[2], true
}

func slugify(description string) string {
	return strings.Join(strings.Fields(description), "_")
}
