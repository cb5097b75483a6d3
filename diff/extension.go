// Package diff implements one orchestrator per object kind: each compares
// a "from" and "to" projection of that kind and produces an
// added/removed/updated Diff plus a list of reversible migration.Steps.
// Orchestrators never error: malformed or missing input degrades to an
// empty step list.
package diff

import (
	"sort"

	"github.com/schemamorph/pgmigrate/migration"
	"github.com/schemamorph/pgmigrate/render"
	"github.com/schemamorph/pgmigrate/schema"
)

// UpdatedExtension pairs the old and new revision of a changed Extension.
type UpdatedExtension struct {
	From schema.Extension
	To   schema.Extension
}

// ExtensionDiff is the added/removed/updated result of comparing two
// Extension sets.
type ExtensionDiff struct {
	Added   []schema.Extension
	Removed []schema.Extension
	Updated []UpdatedExtension
}

// CompareExtensions: identity is Name, updated iff Version differs (missing
// version treated as "").
func CompareExtensions(from, to []schema.Extension) ExtensionDiff {
	fromByName := indexExtensions(from)
	toByName := indexExtensions(to)

	var d ExtensionDiff
	for name, t := range toByName {
		if f, ok := fromByName[name]; !ok {
			d.Added = append(d.Added, t)
		} else if f.Version != t.Version {
			d.Updated = append(d.Updated, UpdatedExtension{From: f, To: t})
		}
	}
	for name, f := range fromByName {
		if _, ok := toByName[name]; !ok {
			d.Removed = append(d.Removed, f)
		}
	}
	sortExtensions(d.Added)
	sortExtensions(d.Removed)
	sort.Slice(d.Updated, func(i, j int) bool { return d.Updated[i].To.Name < d.Updated[j].To.Name })
	return d
}

// PlanExtensions emits CREATE/DROP EXTENSION steps. Updated extensions
// become a drop-then-create pair, with "_old" suffixing the drop half's
// step name.
func PlanExtensions(d ExtensionDiff, schemaName string) []migration.Step {
	var steps []migration.Step

	for _, e := range d.Added {
		steps = append(steps, migration.Step{
			Type:        migration.StepCreate,
			ObjectType:  migration.ObjectExtension,
			Name:        e.Name,
			SQL:         render.CreateExtension(e.Name, e.Version),
			RollbackSQL: render.DropExtension(e.Name),
		})
	}

	for _, e := range d.Removed {
		steps = append(steps, migration.Step{
			Type:        migration.StepDrop,
			ObjectType:  migration.ObjectExtension,
			Name:        e.Name,
			SQL:         render.DropExtension(e.Name),
			RollbackSQL: render.CreateExtension(e.Name, e.Version),
		})
	}

	for _, u := range d.Updated {
		steps = append(steps,
			migration.Step{
				Type:        migration.StepDrop,
				ObjectType:  migration.ObjectExtension,
				Name:        u.To.Name + "_old",
				SQL:         render.DropExtension(u.From.Name),
				RollbackSQL: render.CreateExtension(u.From.Name, u.From.Version),
			},
			migration.Step{
				Type:        migration.StepCreate,
				ObjectType:  migration.ObjectExtension,
				Name:        u.To.Name,
				SQL:         render.CreateExtension(u.To.Name, u.To.Version),
				RollbackSQL: render.DropExtension(u.To.Name),
			},
		)
	}

	return steps
}

func indexExtensions(exts []schema.Extension) map[string]schema.Extension {
	m := make(map[string]schema.Extension, len(exts))
	for _, e := range exts {
		m[e.Name] = e
	}
	return m
}

func sortExtensions(exts []schema.Extension) {
	sort.Slice(exts, func(i, j int) bool { return exts[i].Name < exts[j].Name })
}
