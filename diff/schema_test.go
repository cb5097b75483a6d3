package diff_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/schemamorph/pgmigrate/diff"
	"github.com/schemamorph/pgmigrate/schema"
)

func TestCompareSchemasEmptyIsEmpty(t *testing.T) {
	c := qt.New(t)

	s := schema.Schema{Models: []schema.Model{{Name: "User"}}}
	d := diff.CompareSchemas(s, s)
	c.Assert(d.IsEmpty(), qt.IsTrue)
}

func TestCompareSchemasAddedModelHasOnlyAddedSubDiffs(t *testing.T) {
	c := qt.New(t)

	from := schema.Schema{}
	to := schema.Schema{Models: []schema.Model{{
		Name:    "User",
		Indexes: []schema.Index{{Fields: []string{"email"}, Unique: true}},
		Relations: []schema.Relation{
			{Name: "org", Model: "Organization", Fields: []string{"orgId"}, References: []string{"id"}},
		},
	}}}

	d := diff.CompareSchemas(from, to)
	c.Assert(d.IsEmpty(), qt.IsFalse)
	c.Assert(d.Models.Added, qt.HasLen, 1)
	c.Assert(d.Indexes["User"].Added, qt.HasLen, 1)
	c.Assert(d.Indexes["User"].Removed, qt.HasLen, 0)
	c.Assert(d.Relations["User"].Added, qt.HasLen, 1)
}

func TestCompareSchemasRemovedModelHasOnlyRemovedSubDiffs(t *testing.T) {
	c := qt.New(t)

	from := schema.Schema{Models: []schema.Model{{
		Name:    "Legacy",
		Indexes: []schema.Index{{Fields: []string{"code"}}},
	}}}
	to := schema.Schema{}

	d := diff.CompareSchemas(from, to)
	c.Assert(d.Models.Removed, qt.HasLen, 1)
	c.Assert(d.Indexes["Legacy"].Removed, qt.HasLen, 1)
	c.Assert(d.Indexes["Legacy"].Added, qt.HasLen, 0)
}

func TestSchemaDiffSortedModelNamesIsDeterministic(t *testing.T) {
	c := qt.New(t)

	from := schema.Schema{}
	to := schema.Schema{Models: []schema.Model{{Name: "Zeta"}, {Name: "Alpha"}, {Name: "Mid"}}}

	d := diff.CompareSchemas(from, to)
	c.Assert(d.SortedModelNames(), qt.DeepEquals, []string{"Alpha", "Mid", "Zeta"})
}
