package diff

import (
	"sort"

	"github.com/schemamorph/pgmigrate/migration"
	"github.com/schemamorph/pgmigrate/render"
	"github.com/schemamorph/pgmigrate/schema"
)

// UpdatedEnum pairs the old and new revision of a changed Enum.
type UpdatedEnum struct {
	From schema.Enum
	To   schema.Enum
}

// EnumDiff is the added/removed/updated result of comparing two Enum sets.
type EnumDiff struct {
	Added   []schema.Enum
	Removed []schema.Enum
	Updated []UpdatedEnum
}

// CompareEnums: identity is Name, equality is set equality of Values
// (reordering alone is not a change).
func CompareEnums(from, to []schema.Enum) EnumDiff {
	fromByName := indexEnums(from)
	toByName := indexEnums(to)

	var d EnumDiff
	for name, t := range toByName {
		if f, ok := fromByName[name]; !ok {
			d.Added = append(d.Added, t)
		} else if !schema.StringSetEqual(f.Values, t.Values) {
			d.Updated = append(d.Updated, UpdatedEnum{From: f, To: t})
		}
	}
	for name, f := range fromByName {
		if _, ok := toByName[name]; !ok {
			d.Removed = append(d.Removed, f)
		}
	}
	sortEnums(d.Added)
	sortEnums(d.Removed)
	sort.Slice(d.Updated, func(i, j int) bool { return d.Updated[i].To.Name < d.Updated[j].To.Name })
	return d
}

// PlanEnums emits CREATE/DROP TYPE steps. Updated enums become a
// drop-then-create pair; the drop step's RollbackSQL carries the previous
// enum definition so rollback restores the old values.
func PlanEnums(d EnumDiff, schemaName string) []migration.Step {
	var steps []migration.Step

	for _, e := range d.Added {
		steps = append(steps, migration.Step{
			Type:        migration.StepCreate,
			ObjectType:  migration.ObjectEnum,
			Name:        e.Name,
			SQL:         render.CreateEnum(schemaName, e.Name, e.Values),
			RollbackSQL: render.DropEnum(schemaName, e.Name),
		})
	}

	for _, e := range d.Removed {
		steps = append(steps, migration.Step{
			Type:        migration.StepDrop,
			ObjectType:  migration.ObjectEnum,
			Name:        e.Name,
			SQL:         render.DropEnum(schemaName, e.Name),
			RollbackSQL: render.CreateEnum(schemaName, e.Name, e.Values),
		})
	}

	for _, u := range d.Updated {
		steps = append(steps,
			migration.Step{
				Type:        migration.StepDrop,
				ObjectType:  migration.ObjectEnum,
				Name:        u.To.Name + "_old",
				SQL:         render.DropEnum(schemaName, u.From.Name),
				RollbackSQL: render.CreateEnum(schemaName, u.From.Name, u.From.Values),
			},
			migration.Step{
				Type:        migration.StepCreate,
				ObjectType:  migration.ObjectEnum,
				Name:        u.To.Name,
				SQL:         render.CreateEnum(schemaName, u.To.Name, u.To.Values),
				RollbackSQL: render.DropEnum(schemaName, u.To.Name),
			},
		)
	}

	return steps
}

func indexEnums(enums []schema.Enum) map[string]schema.Enum {
	m := make(map[string]schema.Enum, len(enums))
	for _, e := range enums {
		m[e.Name] = e
	}
	return m
}

func sortEnums(enums []schema.Enum) {
	sort.Slice(enums, func(i, j int) bool { return enums[i].Name < enums[j].Name })
}
