package render_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/schemamorph/pgmigrate/render"
	"github.com/schemamorph/pgmigrate/schema"
)

func TestAddForeignKey(t *testing.T) {
	c := qt.New(t)

	rel := schema.Relation{
		Name:       "user",
		Model:      "User",
		Fields:     []string{"userId"},
		References: []string{"id"},
		OnDelete:   "CASCADE",
	}

	sql := render.AddForeignKey("public", "Order", rel)
	c.Assert(sql, qt.Contains, `ALTER TABLE "public"."Order" ADD CONSTRAINT "fk_Order_user"`)
	c.Assert(sql, qt.Contains, `FOREIGN KEY ("userId") REFERENCES "public"."User" ("id")`)
	c.Assert(sql, qt.Contains, "ON DELETE CASCADE")
}

func TestAddForeignKeySkipsBackReference(t *testing.T) {
	c := qt.New(t)

	backRef := schema.Relation{Name: "orders", Model: "Order"}
	c.Assert(render.AddForeignKey("public", "User", backRef), qt.Equals, "")
}

func TestDropForeignKey(t *testing.T) {
	c := qt.New(t)

	sql := render.DropForeignKey("public", "Order", "user")
	c.Assert(sql, qt.Contains, `ALTER TABLE "public"."Order" DROP CONSTRAINT IF EXISTS "fk_Order_user"`)
	c.Assert(sql, qt.Contains, "-- WARNING:")
}
