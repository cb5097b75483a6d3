package diff

import (
	"fmt"
	"sort"

	"github.com/schemamorph/pgmigrate/migration"
	"github.com/schemamorph/pgmigrate/render"
	"github.com/schemamorph/pgmigrate/schema"
)

// FieldDiff is the result of comparing one model's field list.
type FieldDiff struct {
	Added   []schema.Field
	Removed []schema.Field
	Updated []UpdatedField
}

// UpdatedField pairs the old and new revision of a changed Field.
type UpdatedField struct {
	From schema.Field
	To   schema.Field
}

// ModelDiff is the result of comparing one model across two schema
// projections: table existence plus, for tables present in both, a field
// sub-diff and informational change flags the RLS/Policy/Relation
// orchestrators independently act on.
type ModelDiff struct {
	Added           []schema.Model
	Removed         []schema.Model
	ModelsModified  []ModifiedModel
}

// ModifiedModel names a model present in both projections together with its
// field-level sub-diff.
type ModifiedModel struct {
	Name             string
	Fields           FieldDiff
	RelationsChanged bool
	RLSChanged       bool
	PoliciesChanged  bool
}

// CompareModels: identity is Model name.
func CompareModels(from, to []schema.Model) ModelDiff {
	fromByName := indexModels(from)
	toByName := indexModels(to)

	var d ModelDiff
	for name, t := range toByName {
		f, ok := fromByName[name]
		if !ok {
			d.Added = append(d.Added, t)
			continue
		}
		fd := CompareFields(f.Fields, t.Fields)
		mm := ModifiedModel{
			Name:             name,
			Fields:           fd,
			RelationsChanged: !relationsEqual(f.Relations, t.Relations),
			RLSChanged:       !rlsEqual(f.RowLevelSecurity, t.RowLevelSecurity),
			PoliciesChanged:  !policiesEqual(f.Policies, t.Policies),
		}
		if len(fd.Added) > 0 || len(fd.Removed) > 0 || len(fd.Updated) > 0 ||
			mm.RelationsChanged || mm.RLSChanged || mm.PoliciesChanged {
			d.ModelsModified = append(d.ModelsModified, mm)
		}
	}
	for name, f := range fromByName {
		if _, ok := toByName[name]; !ok {
			d.Removed = append(d.Removed, f)
		}
	}

	sort.Slice(d.Added, func(i, j int) bool { return d.Added[i].Name < d.Added[j].Name })
	sort.Slice(d.Removed, func(i, j int) bool { return d.Removed[i].Name < d.Removed[j].Name })
	sort.Slice(d.ModelsModified, func(i, j int) bool { return d.ModelsModified[i].Name < d.ModelsModified[j].Name })
	return d
}

// CompareFields is the per-field sub-diff: a field is "updated" if any of
// type/attributes/default/length/precision/scale/nullable differ.
func CompareFields(from, to []schema.Field) FieldDiff {
	fromByName := make(map[string]schema.Field, len(from))
	for _, f := range from {
		fromByName[f.Name] = f
	}
	toByName := make(map[string]schema.Field, len(to))
	for _, f := range to {
		toByName[f.Name] = f
	}

	var fd FieldDiff
	for name, t := range toByName {
		f, ok := fromByName[name]
		if !ok {
			fd.Added = append(fd.Added, t)
			continue
		}
		if fieldChanged(f, t) {
			fd.Updated = append(fd.Updated, UpdatedField{From: f, To: t})
		}
	}
	for name, f := range fromByName {
		if _, ok := toByName[name]; !ok {
			fd.Removed = append(fd.Removed, f)
		}
	}

	sort.Slice(fd.Added, func(i, j int) bool { return fd.Added[i].Name < fd.Added[j].Name })
	sort.Slice(fd.Removed, func(i, j int) bool { return fd.Removed[i].Name < fd.Removed[j].Name })
	sort.Slice(fd.Updated, func(i, j int) bool { return fd.Updated[i].To.Name < fd.Updated[j].To.Name })
	return fd
}

func fieldChanged(f, t schema.Field) bool {
	return f.Type != t.Type ||
		!schema.AttributeSetEqual(f.Attributes, t.Attributes) ||
		f.DefaultValue != t.DefaultValue ||
		!intPtrEqual(f.Length, t.Length) ||
		!intPtrEqual(f.Precision, t.Precision) ||
		!intPtrEqual(f.Scale, t.Scale) ||
		f.Nullable != t.Nullable
}

func intPtrEqual(a, b *int) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// PlanModels emits CREATE/DROP TABLE and column ADD/ALTER/DROP steps.
func PlanModels(d ModelDiff, schemaName string, enums render.KnownEnums) []migration.Step {
	var steps []migration.Step

	for _, m := range d.Added {
		steps = append(steps, migration.Step{
			Type:        migration.StepCreate,
			ObjectType:  migration.ObjectTable,
			Name:        m.Name,
			SQL:         render.CreateTable(schemaName, m, enums),
			RollbackSQL: render.DropTable(schemaName, m.Name),
		})
	}

	for _, mm := range d.ModelsModified {
		for _, f := range mm.Fields.Added {
			steps = append(steps, migration.Step{
				Type:        migration.StepAlter,
				ObjectType:  migration.ObjectColumn,
				Name:        fmt.Sprintf("%s_add_%s", mm.Name, f.Name),
				SQL:         render.AddColumn(schemaName, mm.Name, f, enums),
				RollbackSQL: render.DropColumn(schemaName, mm.Name, f.Name),
			})
		}
		for _, uf := range mm.Fields.Updated {
			steps = append(steps, migration.Step{
				Type:        migration.StepAlter,
				ObjectType:  migration.ObjectColumn,
				Name:        fmt.Sprintf("%s_alter_%s", mm.Name, uf.To.Name),
				SQL:         render.AlterColumn(schemaName, mm.Name, uf.From, uf.To, enums),
				RollbackSQL: render.AlterColumn(schemaName, mm.Name, uf.To, uf.From, enums),
			})
		}
		for _, f := range mm.Fields.Removed {
			steps = append(steps, migration.Step{
				Type:        migration.StepAlter,
				ObjectType:  migration.ObjectColumn,
				Name:        fmt.Sprintf("%s_drop_%s", mm.Name, f.Name),
				SQL:         render.DropColumn(schemaName, mm.Name, f.Name),
				RollbackSQL: render.AddColumn(schemaName, mm.Name, f, enums),
			})
		}
	}

	for _, m := range d.Removed {
		steps = append(steps, migration.Step{
			Type:        migration.StepDrop,
			ObjectType:  migration.ObjectTable,
			Name:        m.Name,
			SQL:         render.DropTable(schemaName, m.Name),
			RollbackSQL: render.CreateTable(schemaName, m, enums),
		})
	}

	return steps
}

func indexModels(models []schema.Model) map[string]schema.Model {
	m := make(map[string]schema.Model, len(models))
	for _, mo := range models {
		m[mo.Name] = mo
	}
	return m
}

func relationsEqual(a, b []schema.Relation) bool {
	if len(a) != len(b) {
		return false
	}
	am := make(map[string]schema.Relation, len(a))
	for _, r := range a {
		am[r.Name] = r
	}
	for _, r := range b {
		o, ok := am[r.Name]
		if !ok {
			return false
		}
		if o.Type != r.Type || o.Model != r.Model || !schema.StringSliceEqual(o.Fields, r.Fields) ||
			!schema.StringSliceEqual(o.References, r.References) || o.OnDelete != r.OnDelete || o.OnUpdate != r.OnUpdate {
			return false
		}
	}
	return true
}

func rlsEqual(a, b *schema.RowLevelSecurity) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

func policiesEqual(a, b []schema.Policy) bool {
	if len(a) != len(b) {
		return false
	}
	am := make(map[string]schema.Policy, len(a))
	for _, p := range a {
		am[p.Name] = p
	}
	for _, p := range b {
		o, ok := am[p.Name]
		if !ok {
			return false
		}
		if !schema.CommandSetEqual(o.For, p.For) || o.To != p.To || o.Using != p.Using || o.Check != p.Check {
			return false
		}
	}
	return true
}
