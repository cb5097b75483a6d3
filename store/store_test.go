package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	qt "github.com/frankban/quicktest"

	"github.com/schemamorph/pgmigrate/migration"
	"github.com/schemamorph/pgmigrate/store"
)

func TestStoreWriteReadListRoundtrip(t *testing.T) {
	c := qt.New(t)

	s := store.New(t.TempDir())
	m := migration.Migration{
		Version:     "20260101000000",
		Description: "create user table",
		Steps: []migration.Step{
			{Type: migration.StepCreate, ObjectType: migration.ObjectTable, Name: "User", SQL: "CREATE TABLE User (...)", RollbackSQL: "DROP TABLE User"},
		},
	}

	err := s.Write(m)
	c.Assert(err, qt.IsNil)

	entries, err := s.List()
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 1)
	c.Assert(entries[0].Version, qt.Equals, 20260101000000)

	read, err := s.Read(entries[0].Path)
	c.Assert(err, qt.IsNil)
	if diff := cmp.Diff(m.Steps, read.Steps); diff != "" {
		t.Errorf("roundtripped steps differ (-want +got):\n%s", diff)
	}
	c.Assert(read.Version, qt.Equals, m.Version)
	c.Assert(read.Description, qt.Equals, m.Description)
}

func TestStoreListIsSortedByVersion(t *testing.T) {
	c := qt.New(t)

	s := store.New(t.TempDir())
	c.Assert(s.Write(migration.Migration{Version: "20260301000000", Description: "third"}), qt.IsNil)
	c.Assert(s.Write(migration.Migration{Version: "20260101000000", Description: "first"}), qt.IsNil)
	c.Assert(s.Write(migration.Migration{Version: "20260201000000", Description: "second"}), qt.IsNil)

	entries, err := s.List()
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 3)
	c.Assert(entries[0].Version, qt.Equals, 20260101000000)
	c.Assert(entries[1].Version, qt.Equals, 20260201000000)
	c.Assert(entries[2].Version, qt.Equals, 20260301000000)
}

func TestStoreListOnMissingDirectoryIsEmptyNotError(t *testing.T) {
	c := qt.New(t)

	s := store.New(filepath.Join(t.TempDir(), "does-not-exist"))
	entries, err := s.List()
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 0)
}

func TestStoreWriteRejectsDuplicateVersion(t *testing.T) {
	c := qt.New(t)

	s := store.New(t.TempDir())
	m := migration.Migration{Version: "20260101000000", Description: "first"}
	c.Assert(s.Write(m), qt.IsNil)

	err := s.Write(m)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestStoreReadRejectsMalformedFilename(t *testing.T) {
	c := qt.New(t)

	dir := t.TempDir()
	badPath := filepath.Join(dir, "not-a-valid-name.json")
	c.Assert(os.WriteFile(badPath, []byte(`{}`), 0o644), qt.IsNil)

	s := store.New(dir)
	_, err := s.Read(badPath)
	c.Assert(err, qt.ErrorIs, store.ErrMalformedArtifact)
}

func TestStoreReadRejectsMalformedJSON(t *testing.T) {
	c := qt.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "20260101000000_broken.json")
	c.Assert(os.WriteFile(path, []byte(`{not json`), 0o644), qt.IsNil)

	s := store.New(dir)
	_, err := s.Read(path)
	c.Assert(err, qt.ErrorIs, store.ErrMalformedArtifact)
}

func TestStoreListSkipsMalformedFilenames(t *testing.T) {
	c := qt.New(t)

	dir := t.TempDir()
	c.Assert(os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644), qt.IsNil)

	s := store.New(dir)
	c.Assert(s.Write(migration.Migration{Version: "20260101000000", Description: "only"}), qt.IsNil)

	entries, err := s.List()
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 1)
}
