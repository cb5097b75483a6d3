package diff

import (
	"sort"

	"github.com/schemamorph/pgmigrate/migration"
	"github.com/schemamorph/pgmigrate/render"
	"github.com/schemamorph/pgmigrate/schema"
)

// UpdatedRelation pairs the old and new revision of a changed Relation.
type UpdatedRelation struct {
	From schema.Relation
	To   schema.Relation
}

// RelationDiff is the added/removed/updated result of comparing two
// Relation sets belonging to the same model.
type RelationDiff struct {
	Added   []schema.Relation
	Removed []schema.Relation
	Updated []UpdatedRelation
}

// CompareRelations: identity is Name within a model. A rename is not
// detected as an update — it is represented as a removal plus an addition,
// since the old and new relation share no identity key.
func CompareRelations(from, to []schema.Relation) RelationDiff {
	fromByName := indexRelations(from)
	toByName := indexRelations(to)

	var d RelationDiff
	for name, t := range toByName {
		f, ok := fromByName[name]
		if !ok {
			d.Added = append(d.Added, t)
			continue
		}
		if relationChanged(f, t) {
			d.Updated = append(d.Updated, UpdatedRelation{From: f, To: t})
		}
	}
	for name, f := range fromByName {
		if _, ok := toByName[name]; !ok {
			d.Removed = append(d.Removed, f)
		}
	}

	sort.Slice(d.Added, func(i, j int) bool { return d.Added[i].Name < d.Added[j].Name })
	sort.Slice(d.Removed, func(i, j int) bool { return d.Removed[i].Name < d.Removed[j].Name })
	sort.Slice(d.Updated, func(i, j int) bool { return d.Updated[i].To.Name < d.Updated[j].To.Name })
	return d
}

func relationChanged(f, t schema.Relation) bool {
	return f.Type != t.Type || f.Model != t.Model ||
		!schema.StringSliceEqual(f.Fields, t.Fields) ||
		!schema.StringSliceEqual(f.References, t.References) ||
		f.OnDelete != t.OnDelete || f.OnUpdate != t.OnUpdate
}

// PlanRelations emits ADD/DROP CONSTRAINT steps. An updated relation is
// drop-then-add, since foreign keys are not alterable
// in place. Relations with no foreign key (pure back-references) render no
// SQL and are skipped.
func PlanRelations(d RelationDiff, schemaName, modelName string) []migration.Step {
	var steps []migration.Step

	for _, r := range d.Added {
		if !r.HasForeignKey() {
			continue
		}
		steps = append(steps, migration.Step{
			Type:        migration.StepCreate,
			ObjectType:  migration.ObjectForeignKey,
			Name:        render.ForeignKeyName(modelName, r.Name),
			SQL:         render.AddForeignKey(schemaName, modelName, r),
			RollbackSQL: render.DropForeignKey(schemaName, modelName, r.Name),
		})
	}

	for _, u := range d.Updated {
		if u.From.HasForeignKey() {
			steps = append(steps, migration.Step{
				Type:        migration.StepDrop,
				ObjectType:  migration.ObjectForeignKey,
				Name:        render.ForeignKeyName(modelName, u.From.Name) + "_old",
				SQL:         render.DropForeignKey(schemaName, modelName, u.From.Name),
				RollbackSQL: render.AddForeignKey(schemaName, modelName, u.From),
			})
		}
		if u.To.HasForeignKey() {
			steps = append(steps, migration.Step{
				Type:        migration.StepCreate,
				ObjectType:  migration.ObjectForeignKey,
				Name:        render.ForeignKeyName(modelName, u.To.Name),
				SQL:         render.AddForeignKey(schemaName, modelName, u.To),
				RollbackSQL: render.DropForeignKey(schemaName, modelName, u.To.Name),
			})
		}
	}

	for _, r := range d.Removed {
		if !r.HasForeignKey() {
			continue
		}
		steps = append(steps, migration.Step{
			Type:        migration.StepDrop,
			ObjectType:  migration.ObjectForeignKey,
			Name:        render.ForeignKeyName(modelName, r.Name),
			SQL:         render.DropForeignKey(schemaName, modelName, r.Name),
			RollbackSQL: render.AddForeignKey(schemaName, modelName, r),
		})
	}

	return steps
}

func indexRelations(rels []schema.Relation) map[string]schema.Relation {
	m := make(map[string]schema.Relation, len(rels))
	for _, r := range rels {
		m[r.Name] = r
	}
	return m
}
