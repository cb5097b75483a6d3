package diff_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/schemamorph/pgmigrate/diff"
	"github.com/schemamorph/pgmigrate/schema"
)

func TestCompareExtensionsAddedRemovedUpdated(t *testing.T) {
	c := qt.New(t)

	from := []schema.Extension{{Name: "pg_trgm", Version: "1.5"}, {Name: "uuid-ossp"}}
	to := []schema.Extension{{Name: "pg_trgm", Version: "1.6"}, {Name: "pg_stat_statements"}}

	d := diff.CompareExtensions(from, to)
	c.Assert(d.Added, qt.HasLen, 1)
	c.Assert(d.Added[0].Name, qt.Equals, "pg_stat_statements")
	c.Assert(d.Removed, qt.HasLen, 1)
	c.Assert(d.Removed[0].Name, qt.Equals, "uuid-ossp")
	c.Assert(d.Updated, qt.HasLen, 1)
	c.Assert(d.Updated[0].From.Version, qt.Equals, "1.5")
	c.Assert(d.Updated[0].To.Version, qt.Equals, "1.6")
}

// Spec property 3: diff symmetry.
func TestCompareExtensionsDiffSymmetry(t *testing.T) {
	c := qt.New(t)

	a := []schema.Extension{{Name: "pg_trgm"}, {Name: "uuid-ossp"}}
	b := []schema.Extension{{Name: "pg_trgm", Version: "1.6"}, {Name: "pg_stat_statements"}}

	ab := diff.CompareExtensions(a, b)
	ba := diff.CompareExtensions(b, a)

	c.Assert(ab.Added, qt.DeepEquals, ba.Removed)
	c.Assert(ab.Removed, qt.DeepEquals, ba.Added)
}

func TestPlanExtensionsAddedRemoved(t *testing.T) {
	c := qt.New(t)

	d := diff.ExtensionDiff{
		Added:   []schema.Extension{{Name: "pg_trgm"}},
		Removed: []schema.Extension{{Name: "uuid-ossp"}},
	}
	steps := diff.PlanExtensions(d, "public")
	c.Assert(steps, qt.HasLen, 2)
	c.Assert(steps[0].SQL, qt.Contains, `CREATE EXTENSION IF NOT EXISTS "pg_trgm"`)
	c.Assert(steps[1].SQL, qt.Contains, `DROP EXTENSION IF EXISTS "uuid-ossp"`)
}

func TestPlanExtensionsUpdatedIsDropThenCreate(t *testing.T) {
	c := qt.New(t)

	d := diff.ExtensionDiff{
		Updated: []diff.UpdatedExtension{{
			From: schema.Extension{Name: "pg_trgm", Version: "1.5"},
			To:   schema.Extension{Name: "pg_trgm", Version: "1.6"},
		}},
	}
	steps := diff.PlanExtensions(d, "public")
	c.Assert(steps, qt.HasLen, 2)
	c.Assert(steps[0].Name, qt.Equals, "pg_trgm_old")
	c.Assert(steps[0].SQL, qt.Contains, `DROP EXTENSION IF EXISTS "pg_trgm"`)
	c.Assert(steps[1].Name, qt.Equals, "pg_trgm")
	c.Assert(steps[1].SQL, qt.Contains, "VERSION '1.6'")
}
