package diff

import (
	"sort"

	"github.com/schemamorph/pgmigrate/migration"
	"github.com/schemamorph/pgmigrate/render"
	"github.com/schemamorph/pgmigrate/schema"
)

// UpdatedIndex pairs the old and new revision of a changed Index.
type UpdatedIndex struct {
	From schema.Index
	To   schema.Index
}

// IndexDiff is the added/removed/updated result of comparing two Index
// sets belonging to the same model.
type IndexDiff struct {
	Added   []schema.Index
	Removed []schema.Index
	Updated []UpdatedIndex
}

// CompareIndexes: identity is schema.IndexIdentity (explicit Name when
// present, otherwise the sorted field list — unnamed-index column order
// does not by itself constitute a change).
func CompareIndexes(from, to []schema.Index) IndexDiff {
	fromByID := indexIndexes(from)
	toByID := indexIndexes(to)

	var d IndexDiff
	for id, t := range toByID {
		f, ok := fromByID[id]
		if !ok {
			d.Added = append(d.Added, t)
			continue
		}
		if indexChanged(f, t) {
			d.Updated = append(d.Updated, UpdatedIndex{From: f, To: t})
		}
	}
	for id, f := range fromByID {
		if _, ok := toByID[id]; !ok {
			d.Removed = append(d.Removed, f)
		}
	}

	sortIndexes(d.Added)
	sortIndexes(d.Removed)
	sort.Slice(d.Updated, func(i, j int) bool {
		return schema.IndexIdentity(d.Updated[i].To) < schema.IndexIdentity(d.Updated[j].To)
	})
	return d
}

func indexChanged(f, t schema.Index) bool {
	fieldsChanged := false
	if f.Name == "" && t.Name == "" {
		fieldsChanged = !schema.StringSetEqual(f.Fields, t.Fields)
	} else {
		fieldsChanged = !schema.StringSliceEqual(f.Fields, t.Fields)
	}
	return fieldsChanged || f.Unique != t.Unique || f.Where != t.Where || f.Type != t.Type
}

// PlanIndexes emits CREATE/DROP INDEX steps. Indexes are not alterable in
// place in PostgreSQL, so an update is drop-then-create.
func PlanIndexes(d IndexDiff, schemaName, modelName string) []migration.Step {
	var steps []migration.Step

	for _, idx := range d.Added {
		steps = append(steps, migration.Step{
			Type:        migration.StepCreate,
			ObjectType:  migration.ObjectIndex,
			Name:        render.IndexName(modelName, idx),
			SQL:         render.CreateIndex(schemaName, modelName, idx),
			RollbackSQL: render.DropIndex(schemaName, modelName, idx),
		})
	}

	for _, u := range d.Updated {
		steps = append(steps,
			migration.Step{
				Type:        migration.StepDrop,
				ObjectType:  migration.ObjectIndex,
				Name:        render.IndexName(modelName, u.From) + "_old",
				SQL:         render.DropIndex(schemaName, modelName, u.From),
				RollbackSQL: render.CreateIndex(schemaName, modelName, u.From),
			},
			migration.Step{
				Type:        migration.StepCreate,
				ObjectType:  migration.ObjectIndex,
				Name:        render.IndexName(modelName, u.To),
				SQL:         render.CreateIndex(schemaName, modelName, u.To),
				RollbackSQL: render.DropIndex(schemaName, modelName, u.To),
			},
		)
	}

	for _, idx := range d.Removed {
		steps = append(steps, migration.Step{
			Type:        migration.StepDrop,
			ObjectType:  migration.ObjectIndex,
			Name:        render.IndexName(modelName, idx),
			SQL:         render.DropIndex(schemaName, modelName, idx),
			RollbackSQL: render.CreateIndex(schemaName, modelName, idx),
		})
	}

	return steps
}

func indexIndexes(idxs []schema.Index) map[string]schema.Index {
	m := make(map[string]schema.Index, len(idxs))
	for _, idx := range idxs {
		m[schema.IndexIdentity(idx)] = idx
	}
	return m
}

func sortIndexes(idxs []schema.Index) {
	sort.Slice(idxs, func(i, j int) bool { return schema.IndexIdentity(idxs[i]) < schema.IndexIdentity(idxs[j]) })
}
