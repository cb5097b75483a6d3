package render_test

import (
	"strings"
	"testing"

	"github.com/go-extras/go-kit/ptr"
	qt "github.com/frankban/quicktest"

	"github.com/schemamorph/pgmigrate/render"
	"github.com/schemamorph/pgmigrate/schema"
)

func TestColumnType(t *testing.T) {
	c := qt.New(t)

	c.Assert(render.ColumnType(schema.Field{Type: "VARCHAR", Length: ptr.To(255)}), qt.Equals, "VARCHAR(255)")
	c.Assert(render.ColumnType(schema.Field{Type: "NUMERIC", Precision: ptr.To(10), Scale: ptr.To(2)}), qt.Equals, "NUMERIC(10,2)")
	c.Assert(render.ColumnType(schema.Field{Type: "TEXT[]"}), qt.Equals, "TEXT[]")
	c.Assert(render.ColumnType(schema.Field{Type: "UUID"}), qt.Equals, "UUID")
}

func TestColumnDefinition(t *testing.T) {
	c := qt.New(t)

	id := schema.Field{Name: "id", Type: "UUID", Attributes: []schema.FieldAttribute{schema.AttrID}}
	c.Assert(render.ColumnDefinition("public", id, nil), qt.Equals, `"id" UUID PRIMARY KEY NOT NULL`)

	email := schema.Field{
		Name:       "email",
		Type:       "VARCHAR",
		Length:     ptr.To(255),
		Attributes: []schema.FieldAttribute{schema.AttrUnique},
	}
	c.Assert(render.ColumnDefinition("public", email, nil), qt.Equals, `"email" VARCHAR(255) NOT NULL UNIQUE`)

	name := schema.Field{Name: "name", Type: "VARCHAR", Length: ptr.To(100), Nullable: true}
	c.Assert(render.ColumnDefinition("public", name, nil), qt.Equals, `"name" VARCHAR(100)`)

	role := schema.Field{
		Name:         "role",
		Type:         "UserRole",
		Attributes:   []schema.FieldAttribute{schema.AttrDefault},
		DefaultValue: "USER",
	}
	enums := render.NewKnownEnums([]schema.Enum{{Name: "UserRole", Values: []string{"ADMIN", "USER"}}})
	c.Assert(render.ColumnDefinition("public", role, enums), qt.Contains, `DEFAULT 'USER'::"public"."UserRole"`)
}

func TestCreateTableRendersFieldsOnly(t *testing.T) {
	c := qt.New(t)

	m := schema.Model{
		Name: "User",
		Fields: []schema.Field{
			{Name: "id", Type: "UUID", Attributes: []schema.FieldAttribute{schema.AttrID}},
			{Name: "email", Type: "VARCHAR", Length: ptr.To(255), Attributes: []schema.FieldAttribute{schema.AttrUnique}},
		},
		// Relations/Indexes/RLS/Policies/Triggers are emitted by their own
		// orchestrators, never by CreateTable.
		Indexes: []schema.Index{{Fields: []string{"email"}, Unique: true}},
	}

	sql := render.CreateTable("public", m, nil)
	c.Assert(sql, qt.Contains, `CREATE TABLE "public"."User"`)
	c.Assert(sql, qt.Contains, `"id" UUID PRIMARY KEY NOT NULL`)
	c.Assert(sql, qt.Contains, `"email" VARCHAR(255) NOT NULL UNIQUE`)
	c.Assert(sql, qt.Not(qt.Contains), "INDEX")
}

func TestAddAndDropColumn(t *testing.T) {
	c := qt.New(t)

	f := schema.Field{Name: "name", Type: "VARCHAR", Length: ptr.To(100), Nullable: true}
	sql := render.AddColumn("public", "User", f, nil)
	c.Assert(sql, qt.Equals, `ALTER TABLE "public"."User" ADD COLUMN "name" VARCHAR(100)`)

	dropSQL := render.DropColumn("public", "User", "name")
	c.Assert(dropSQL, qt.Contains, `ALTER TABLE "public"."User" DROP COLUMN "name"`)
	c.Assert(dropSQL, qt.Contains, "-- WARNING:")
}

func TestAlterColumnSequencesTypeDefaultNotNull(t *testing.T) {
	c := qt.New(t)

	from := schema.Field{Name: "status", Type: "VARCHAR", Length: ptr.To(20), Nullable: true}
	to := schema.Field{
		Name:         "status",
		Type:         "VARCHAR",
		Length:       ptr.To(30),
		Nullable:     false,
		Attributes:   []schema.FieldAttribute{schema.AttrDefault},
		DefaultValue: "'pending'",
	}

	sql := render.AlterColumn("public", "User", from, to, nil)
	typeIdx := strings.Index(sql, "TYPE VARCHAR(30)")
	defaultIdx := strings.Index(sql, "SET DEFAULT")
	notNullIdx := strings.Index(sql, "SET NOT NULL")

	c.Assert(typeIdx >= 0 && defaultIdx > typeIdx && notNullIdx > defaultIdx, qt.IsTrue,
		qt.Commentf("expected TYPE, then DEFAULT, then NOT NULL clauses in order; got %q", sql))
}

func TestAlterColumnNoOpWhenUnchanged(t *testing.T) {
	c := qt.New(t)

	f := schema.Field{Name: "email", Type: "VARCHAR", Length: ptr.To(255)}
	c.Assert(render.AlterColumn("public", "User", f, f, nil), qt.Equals, "")
}
