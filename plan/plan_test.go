package plan_test

import (
	"testing"

	"github.com/go-extras/go-kit/ptr"
	qt "github.com/frankban/quicktest"

	"github.com/schemamorph/pgmigrate/migration"
	"github.com/schemamorph/pgmigrate/plan"
	"github.com/schemamorph/pgmigrate/schema"
)

// S1 — fresh install: an extension, an enum, a table, and the table's
// unique index, in that tier order.
func TestGenerateFreshInstallScenario(t *testing.T) {
	c := qt.New(t)

	to := schema.Schema{
		Extensions: []schema.Extension{{Name: "pgcrypto"}},
		Enums:      []schema.Enum{{Name: "UserRole", Values: []string{"ADMIN", "MEMBER"}}},
		Models: []schema.Model{{
			Name: "User",
			Fields: []schema.Field{
				{Name: "id", Type: "uuid", Attributes: []schema.FieldAttribute{schema.AttrID}},
				{Name: "email", Type: "varchar", Length: ptr.To(255)},
			},
			Indexes: []schema.Index{{Fields: []string{"email"}, Unique: true}},
		}},
	}

	steps := plan.Generate(to, plan.DefaultOptions())
	c.Assert(steps, qt.HasLen, 4)
	c.Assert(steps[0].ObjectType, qt.Equals, migration.ObjectExtension)
	c.Assert(steps[1].ObjectType, qt.Equals, migration.ObjectEnum)
	c.Assert(steps[2].ObjectType, qt.Equals, migration.ObjectTable)
	c.Assert(steps[3].ObjectType, qt.Equals, migration.ObjectIndex)
	c.Assert(steps[3].Name, qt.Equals, "idx_User_email_unique")
}

// S5 — circular FK: two tables reference each other. Both CREATE TABLE
// steps must precede both foreign-key steps, since tables are tier 4 and
// relations are tier 6.
func TestGenerateCircularForeignKeyScenario(t *testing.T) {
	c := qt.New(t)

	to := schema.Schema{
		Models: []schema.Model{
			{
				Name:   "User",
				Fields: []schema.Field{{Name: "id", Type: "uuid"}, {Name: "favoriteOrderId", Type: "uuid", Nullable: true}},
				Relations: []schema.Relation{
					{Name: "favoriteOrder", Model: "Order", Fields: []string{"favoriteOrderId"}, References: []string{"id"}},
				},
			},
			{
				Name:   "Order",
				Fields: []schema.Field{{Name: "id", Type: "uuid"}, {Name: "userId", Type: "uuid"}},
				Relations: []schema.Relation{
					{Name: "user", Model: "User", Fields: []string{"userId"}, References: []string{"id"}},
				},
			},
		},
	}

	steps := plan.Generate(to, plan.DefaultOptions())

	var tableIdx, fkIdx []int
	for i, s := range steps {
		switch s.ObjectType {
		case migration.ObjectTable:
			tableIdx = append(tableIdx, i)
		case migration.ObjectForeignKey:
			fkIdx = append(fkIdx, i)
		}
	}
	c.Assert(tableIdx, qt.HasLen, 2)
	c.Assert(fkIdx, qt.HasLen, 2)
	for _, ti := range tableIdx {
		for _, fi := range fkIdx {
			c.Assert(ti < fi, qt.IsTrue, qt.Commentf("every table create must precede every FK step"))
		}
	}
}

// Spec property 2: planning a schema against itself produces no steps.
func TestGenerateFromDiffIdempotentPlanProperty(t *testing.T) {
	c := qt.New(t)

	s := schema.Schema{
		Extensions: []schema.Extension{{Name: "pgcrypto"}},
		Enums:      []schema.Enum{{Name: "UserRole", Values: []string{"ADMIN", "MEMBER"}}},
		Models: []schema.Model{{
			Name:    "User",
			Fields:  []schema.Field{{Name: "id", Type: "uuid"}},
			Indexes: []schema.Index{{Fields: []string{"id"}, Unique: true}},
		}},
	}

	steps := plan.GenerateFromDiff(s, s, plan.DefaultOptions())
	c.Assert(steps, qt.HasLen, 0)
}

// Spec property 1: GenerateRollback is Generate reversed, with sql and
// rollbackSql swapped on every step.
func TestGenerateRollbackReversesGenerate(t *testing.T) {
	c := qt.New(t)

	to := schema.Schema{
		Extensions: []schema.Extension{{Name: "pgcrypto"}},
		Models: []schema.Model{{
			Name:   "User",
			Fields: []schema.Field{{Name: "id", Type: "uuid"}},
		}},
	}

	forward := plan.Generate(to, plan.DefaultOptions())
	rollback := plan.GenerateRollback(to, plan.DefaultOptions())

	c.Assert(rollback, qt.HasLen, len(forward))
	for i, s := range forward {
		r := rollback[len(forward)-1-i]
		c.Assert(r.SQL, qt.Equals, s.RollbackSQL)
		c.Assert(r.RollbackSQL, qt.Equals, s.SQL)
	}
}

// S3 — update policy: exactly the two-step drop/create pair, nested under
// tier 10 (policies) between RLS and triggers.
func TestGenerateFromDiffUpdatePolicyScenario(t *testing.T) {
	c := qt.New(t)

	from := schema.Schema{Models: []schema.Model{{
		Name:    "User",
		Fields:  []schema.Field{{Name: "id", Type: "uuid"}},
		Policies: []schema.Policy{{Name: "P", For: []schema.PolicyCommand{schema.PolicySelect}, To: "authenticated", Using: "(id = auth.uid())"}},
	}}}
	to := schema.Schema{Models: []schema.Model{{
		Name:    "User",
		Fields:  []schema.Field{{Name: "id", Type: "uuid"}},
		Policies: []schema.Policy{{Name: "P", For: []schema.PolicyCommand{schema.PolicySelect, schema.PolicyUpdate}, To: "authenticated", Using: "(id = auth.uid())"}},
	}}}

	steps := plan.GenerateFromDiff(from, to, plan.DefaultOptions())
	c.Assert(steps, qt.HasLen, 2)
	c.Assert(steps[0].ObjectType, qt.Equals, migration.ObjectPolicy)
	c.Assert(steps[0].SQL, qt.Contains, "DROP POLICY")
	c.Assert(steps[1].SQL, qt.Contains, "CREATE POLICY")
}

func TestIgnoredExtensionsAreNeverPlanned(t *testing.T) {
	c := qt.New(t)

	from := schema.Schema{Extensions: []schema.Extension{{Name: "plpgsql"}}}
	to := schema.Schema{}

	opts := plan.DefaultOptions()
	opts.IgnoredExtensions = []string{"plpgsql"}

	steps := plan.GenerateFromDiff(from, to, opts)
	c.Assert(steps, qt.HasLen, 0)
}
