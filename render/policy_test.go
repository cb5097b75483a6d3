package render_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/schemamorph/pgmigrate/render"
	"github.com/schemamorph/pgmigrate/schema"
)

func TestCreatePolicy(t *testing.T) {
	c := qt.New(t)

	p := schema.Policy{
		Name:  "P",
		For:   []schema.PolicyCommand{schema.PolicySelect, schema.PolicyUpdate},
		To:    "authenticated",
		Using: "(id = auth.uid())",
	}

	sql := render.CreatePolicy("public", "User", p)
	c.Assert(sql, qt.Equals, `CREATE POLICY "P" ON "public"."User" FOR SELECT, UPDATE TO authenticated USING ((id = auth.uid()))`)
}

func TestCreatePolicyDefaultsToAndAll(t *testing.T) {
	c := qt.New(t)

	p := schema.Policy{Name: "P", Using: "true"}
	sql := render.CreatePolicy("public", "User", p)
	c.Assert(sql, qt.Contains, "FOR ALL TO public")
}

func TestCreatePolicyWithCheck(t *testing.T) {
	c := qt.New(t)

	p := schema.Policy{Name: "P", Using: "true", Check: "author_id = auth.uid()"}
	sql := render.CreatePolicy("public", "User", p)
	c.Assert(sql, qt.Contains, "WITH CHECK (author_id = auth.uid())")
}

func TestDropPolicy(t *testing.T) {
	c := qt.New(t)

	sql := render.DropPolicy("public", "User", "P")
	c.Assert(sql, qt.Contains, `DROP POLICY IF EXISTS "P" ON "public"."User"`)
	c.Assert(sql, qt.Contains, "-- WARNING:")
}
