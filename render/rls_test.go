package render_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/schemamorph/pgmigrate/render"
)

func TestRLSStatements(t *testing.T) {
	c := qt.New(t)

	c.Assert(render.EnableRLS("public", "User"), qt.Equals, `ALTER TABLE "public"."User" ENABLE ROW LEVEL SECURITY`)
	c.Assert(render.DisableRLS("public", "User"), qt.Equals, `ALTER TABLE "public"."User" DISABLE ROW LEVEL SECURITY`)
	c.Assert(render.ForceRLS("public", "User"), qt.Equals, `ALTER TABLE "public"."User" FORCE ROW LEVEL SECURITY`)
	c.Assert(render.NoForceRLS("public", "User"), qt.Equals, `ALTER TABLE "public"."User" NO FORCE ROW LEVEL SECURITY`)
}
