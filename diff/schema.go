package diff

import (
	"sort"

	"github.com/schemamorph/pgmigrate/schema"
)

// SchemaDiff is the complete, composed result of comparing two Schema
// projections: the top-level Extension/Enum/Model/Role diffs plus, for
// every model present on either side, its per-kind sub-diffs. Per-model
// diffs are computed against whatever fields/relations/etc. that
// model carries on each side — nil on the side where the model does not
// exist yet, which makes an added model's relations, indexes, RLS, policies
// and triggers come out as pure "Added" rather than needing special-casing.
type SchemaDiff struct {
	Extensions ExtensionDiff
	Enums      EnumDiff
	Models     ModelDiff
	Roles      RoleDiff

	Relations map[string]RelationDiff
	Indexes   map[string]IndexDiff
	RLS       map[string]RLSDiff
	Policies  map[string]PolicyDiff
	Triggers  map[string]TriggerDiff
}

// CompareSchemas runs all nine object-kind orchestrators and composes their
// results into one SchemaDiff.
func CompareSchemas(from, to schema.Schema) SchemaDiff {
	d := SchemaDiff{
		Extensions: CompareExtensions(from.Extensions, to.Extensions),
		Enums:      CompareEnums(from.Enums, to.Enums),
		Models:     CompareModels(from.Models, to.Models),
		Roles:      CompareRoles(from.Roles, to.Roles),
		Relations:  make(map[string]RelationDiff),
		Indexes:    make(map[string]IndexDiff),
		RLS:        make(map[string]RLSDiff),
		Policies:   make(map[string]PolicyDiff),
		Triggers:   make(map[string]TriggerDiff),
	}

	fromModels := make(map[string]schema.Model, len(from.Models))
	for _, m := range from.Models {
		fromModels[m.Name] = m
	}
	toModels := make(map[string]schema.Model, len(to.Models))
	for _, m := range to.Models {
		toModels[m.Name] = m
	}

	for name := range unionModelNames(fromModels, toModels) {
		f := fromModels[name]
		t := toModels[name]
		d.Relations[name] = CompareRelations(f.Relations, t.Relations)
		d.Indexes[name] = CompareIndexes(f.Indexes, t.Indexes)
		d.RLS[name] = CompareRLS(f.RowLevelSecurity, t.RowLevelSecurity)
		d.Policies[name] = ComparePolicies(f.Policies, t.Policies)
		d.Triggers[name] = CompareTriggers(f.Triggers, t.Triggers)
	}

	return d
}

func unionModelNames(a, b map[string]schema.Model) map[string]struct{} {
	names := make(map[string]struct{}, len(a)+len(b))
	for name := range a {
		names[name] = struct{}{}
	}
	for name := range b {
		names[name] = struct{}{}
	}
	return names
}

// SortedModelNames returns the model names touched by a SchemaDiff's
// per-model maps, sorted for deterministic iteration.
func (d SchemaDiff) SortedModelNames() []string {
	seen := make(map[string]struct{})
	for name := range d.Relations {
		seen[name] = struct{}{}
	}
	for name := range d.Indexes {
		seen[name] = struct{}{}
	}
	for name := range d.RLS {
		seen[name] = struct{}{}
	}
	for name := range d.Policies {
		seen[name] = struct{}{}
	}
	for name := range d.Triggers {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsEmpty reports whether the diff contains no changes at all: no schema
// projection differences, and thus Plan would produce no MigrationSteps.
func (d SchemaDiff) IsEmpty() bool {
	if len(d.Extensions.Added)+len(d.Extensions.Removed)+len(d.Extensions.Updated) > 0 {
		return false
	}
	if len(d.Enums.Added)+len(d.Enums.Removed)+len(d.Enums.Updated) > 0 {
		return false
	}
	if len(d.Models.Added)+len(d.Models.Removed)+len(d.Models.ModelsModified) > 0 {
		return false
	}
	if len(d.Roles.Added)+len(d.Roles.Removed)+len(d.Roles.Updated) > 0 {
		return false
	}
	for _, name := range d.SortedModelNames() {
		if r := d.Relations[name]; len(r.Added)+len(r.Removed)+len(r.Updated) > 0 {
			return false
		}
		if i := d.Indexes[name]; len(i.Added)+len(i.Removed)+len(i.Updated) > 0 {
			return false
		}
		if rls := d.RLS[name]; rls.Changed {
			return false
		}
		if p := d.Policies[name]; len(p.Added)+len(p.Removed)+len(p.Updated) > 0 {
			return false
		}
		if t := d.Triggers[name]; len(t.Added)+len(t.Removed) > 0 {
			return false
		}
	}
	return true
}
