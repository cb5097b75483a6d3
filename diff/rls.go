package diff

import (
	"github.com/schemamorph/pgmigrate/migration"
	"github.com/schemamorph/pgmigrate/render"
	"github.com/schemamorph/pgmigrate/schema"
)

// RLSDiff describes the change, if any, to a model's row-level-security
// posture. A nil *RowLevelSecurity means RLS is untouched by this model;
// absence is distinct from Enabled: false.
type RLSDiff struct {
	Changed bool
	From    *schema.RowLevelSecurity
	To      *schema.RowLevelSecurity
}

// CompareRLS: RLS identity is the model it belongs to, so there is exactly
// one comparison per model rather than a collection diff.
func CompareRLS(from, to *schema.RowLevelSecurity) RLSDiff {
	return RLSDiff{
		Changed: !rlsEqual(from, to),
		From:    from,
		To:      to,
	}
}

// PlanRLS emits ENABLE/DISABLE and FORCE/NO FORCE ROW LEVEL SECURITY steps.
// RLS flags are alterable in place, so no drop/create pair is needed.
//
// Added (d.From == nil) numbers its steps rls_<Model>_0, rls_<Model>_1 in
// emission order; Removed and Updated name each step after the bit it
// flips: rls_<Model>_enable|disable|force|no_force.
func PlanRLS(d RLSDiff, schemaName, modelName string) []migration.Step {
	if !d.Changed {
		return nil
	}

	added := d.From == nil
	fromEnabled, fromForce := rlsFlags(d.From)
	toEnabled, toForce := rlsFlags(d.To)

	var steps []migration.Step
	if fromEnabled != toEnabled {
		var sql, rollback, name string
		if toEnabled {
			sql = render.EnableRLS(schemaName, modelName)
			rollback = render.DisableRLS(schemaName, modelName)
			name = "rls_" + modelName + "_enable"
		} else {
			sql = render.DisableRLS(schemaName, modelName)
			rollback = render.EnableRLS(schemaName, modelName)
			name = "rls_" + modelName + "_disable"
		}
		if added {
			name = "rls_" + modelName + "_0"
		}
		steps = append(steps, migration.Step{
			Type:        migration.StepAlter,
			ObjectType:  migration.ObjectRLS,
			Name:        name,
			SQL:         sql,
			RollbackSQL: rollback,
		})
	}

	if fromForce != toForce {
		var sql, rollback, name string
		if toForce {
			sql = render.ForceRLS(schemaName, modelName)
			rollback = render.NoForceRLS(schemaName, modelName)
			name = "rls_" + modelName + "_force"
		} else {
			sql = render.NoForceRLS(schemaName, modelName)
			rollback = render.ForceRLS(schemaName, modelName)
			name = "rls_" + modelName + "_no_force"
		}
		if added {
			name = "rls_" + modelName + "_1"
		}
		steps = append(steps, migration.Step{
			Type:        migration.StepAlter,
			ObjectType:  migration.ObjectRLS,
			Name:        name,
			SQL:         sql,
			RollbackSQL: rollback,
		})
	}

	return steps
}

func rlsFlags(r *schema.RowLevelSecurity) (enabled, force bool) {
	if r == nil {
		return false, false
	}
	return r.Enabled, r.Force
}
