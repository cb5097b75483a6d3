package diff_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/schemamorph/pgmigrate/diff"
	"github.com/schemamorph/pgmigrate/schema"
)

func TestCompareRLSAbsentVsDisabledAreDistinct(t *testing.T) {
	c := qt.New(t)

	d := diff.CompareRLS(nil, &schema.RowLevelSecurity{Enabled: false})
	c.Assert(d.Changed, qt.IsTrue, qt.Commentf("absent RLS and {Enabled:false} are distinct states"))

	d = diff.CompareRLS(nil, &schema.RowLevelSecurity{Enabled: true})
	c.Assert(d.Changed, qt.IsTrue)
}

func TestPlanRLSEmitsIndependentFlagSteps(t *testing.T) {
	c := qt.New(t)

	d := diff.RLSDiff{
		Changed: true,
		From:    &schema.RowLevelSecurity{Enabled: false, Force: false},
		To:      &schema.RowLevelSecurity{Enabled: true, Force: true},
	}

	steps := diff.PlanRLS(d, "public", "User")
	c.Assert(steps, qt.HasLen, 2)
	c.Assert(steps[0].SQL, qt.Contains, "ENABLE ROW LEVEL SECURITY")
	c.Assert(steps[1].SQL, qt.Contains, "FORCE ROW LEVEL SECURITY")
}

func TestPlanRLSOnlyEmitsChangedFlag(t *testing.T) {
	c := qt.New(t)

	d := diff.RLSDiff{
		Changed: true,
		From:    &schema.RowLevelSecurity{Enabled: true, Force: false},
		To:      &schema.RowLevelSecurity{Enabled: true, Force: true},
	}

	steps := diff.PlanRLS(d, "public", "User")
	c.Assert(steps, qt.HasLen, 1)
	c.Assert(steps[0].SQL, qt.Contains, "FORCE ROW LEVEL SECURITY")
}

func TestPlanRLSNoOpWhenUnchanged(t *testing.T) {
	c := qt.New(t)

	c.Assert(diff.PlanRLS(diff.RLSDiff{Changed: false}, "public", "User"), qt.HasLen, 0)
}
