// Package plan runs the diff orchestrators over two schema projections and
// concatenates their steps into the fixed thirteen-tier dependency order a
// PostgreSQL migration must follow.
package plan

import (
	"sort"
	"strings"

	"github.com/schemamorph/pgmigrate/config"
	"github.com/schemamorph/pgmigrate/diff"
	"github.com/schemamorph/pgmigrate/migration"
	"github.com/schemamorph/pgmigrate/render"
	"github.com/schemamorph/pgmigrate/schema"
)

// Options enumerates exactly which object kinds the planner includes. The
// zero value is not usable directly; call DefaultOptions to get
// include-everything defaults.
type Options struct {
	SchemaName string

	IncludeExtensions  bool
	IncludeEnums       bool
	IncludeTables      bool
	IncludeConstraints bool
	IncludeIndexes     bool
	IncludeRLS         bool
	IncludeRoles       bool
	IncludePolicies    bool
	IncludeTriggers    bool

	// IgnoredExtensions names extensions that are never created, dropped or
	// reported as changed, no matter what either schema projection says
	// about them (config.CompareOptions.IgnoredExtensions).
	IgnoredExtensions []string
}

// DefaultOptions returns an Options with every kind included and
// schemaName set to "public".
func DefaultOptions() Options {
	return Options{
		SchemaName:         render.DefaultSchemaName,
		IncludeExtensions:  true,
		IncludeEnums:       true,
		IncludeTables:      true,
		IncludeConstraints: true,
		IncludeIndexes:     true,
		IncludeRLS:         true,
		IncludeRoles:       true,
		IncludePolicies:    true,
		IncludeTriggers:    true,
		IgnoredExtensions:  config.DefaultCompareOptions().IgnoredExtensions,
	}
}

func (o Options) schemaName() string {
	if o.SchemaName == "" {
		return render.DefaultSchemaName
	}
	return o.SchemaName
}

// GenerateFromDiff runs every orchestrator against the (from, to) pair and
// concatenates steps in the fixed tiered order. An empty from means a
// fresh database — every object in to is emitted as an Added step.
func GenerateFromDiff(from, to schema.Schema, opts Options) []migration.Step {
	d := diff.CompareSchemas(from, to)
	d.Extensions = filterIgnoredExtensions(d.Extensions, opts.IgnoredExtensions)
	enums := render.NewKnownEnums(to.Enums)
	schemaName := opts.schemaName()

	var steps []migration.Step

	// Tier 1: extensions added, updated.
	if opts.IncludeExtensions {
		steps = append(steps, onlyNonRemove(diff.PlanExtensions(d.Extensions, schemaName))...)
	}

	// Tier 2: enums added, updated.
	if opts.IncludeEnums {
		steps = append(steps, onlyNonRemove(diff.PlanEnums(d.Enums, schemaName))...)
	}

	// Tier 3: roles added (CREATE ROLE only — grants deferred to tier 8).
	if opts.IncludeRoles {
		for _, r := range d.Roles.Added {
			steps = append(steps, migration.Step{
				Type:        migration.StepCreate,
				ObjectType:  migration.ObjectRole,
				Name:        r.Name,
				SQL:         render.CreateRole(r.Name),
				RollbackSQL: render.DropRole(r.Name),
			})
		}
	}

	// Tier 4: tables added.
	if opts.IncludeTables {
		for _, m := range d.Models.Added {
			steps = append(steps, migration.Step{
				Type:        migration.StepCreate,
				ObjectType:  migration.ObjectTable,
				Name:        m.Name,
				SQL:         render.CreateTable(schemaName, m, enums),
				RollbackSQL: render.DropTable(schemaName, m.Name),
			})
		}
	}

	// Tier 5: columns added/updated/removed per existing table.
	if opts.IncludeTables {
		for _, mm := range sortedModifiedModels(d.Models.ModelsModified) {
			steps = append(steps, columnSteps(mm, schemaName, enums)...)
		}
	}

	// Tier 6: foreign keys added/updated, after all referenced tables exist.
	if opts.IncludeConstraints {
		for _, name := range d.SortedModelNames() {
			steps = append(steps, diff.PlanRelations(d.Relations[name], schemaName, name)...)
		}
	}

	// Tier 7: indexes.
	if opts.IncludeIndexes {
		for _, name := range d.SortedModelNames() {
			steps = append(steps, diff.PlanIndexes(d.Indexes[name], schemaName, name)...)
		}
	}

	// Tier 8: role grants.
	if opts.IncludeRoles {
		steps = append(steps, roleGrantSteps(d.Roles, schemaName)...)
	}

	// Tier 9: RLS flags.
	if opts.IncludeRLS {
		for _, name := range d.SortedModelNames() {
			steps = append(steps, diff.PlanRLS(d.RLS[name], schemaName, name)...)
		}
	}

	// Tier 10: policies.
	if opts.IncludePolicies {
		for _, name := range d.SortedModelNames() {
			steps = append(steps, diff.PlanPolicies(d.Policies[name], schemaName, name)...)
		}
	}

	// Tier 11: triggers.
	if opts.IncludeTriggers {
		for _, name := range d.SortedModelNames() {
			steps = append(steps, diff.PlanTriggers(d.Triggers[name], schemaName, name)...)
		}
	}

	// Tier 12: tables removed, after their constraints.
	if opts.IncludeTables {
		for _, m := range sortedModels(d.Models.Removed) {
			steps = append(steps, migration.Step{
				Type:        migration.StepDrop,
				ObjectType:  migration.ObjectTable,
				Name:        m.Name,
				SQL:         render.DropTable(schemaName, m.Name),
				RollbackSQL: render.CreateTable(schemaName, m, enums),
			})
		}
	}

	// Tier 13: enums removed, extensions removed.
	if opts.IncludeEnums {
		steps = append(steps, onlyRemoved(diff.PlanEnums(d.Enums, schemaName))...)
	}
	if opts.IncludeExtensions {
		steps = append(steps, onlyRemoved(diff.PlanExtensions(d.Extensions, schemaName))...)
	}

	// Role removal (and its revokes) has no tier slot of its own among the
	// thirteen; it belongs after grants are settled and before nothing else
	// depends on the role, so it runs alongside tier 13.
	if opts.IncludeRoles {
		steps = append(steps, roleRemovalSteps(d.Roles, schemaName)...)
	}

	return steps
}

// Generate produces the forward Migration steps that build to from an empty
// database.
func Generate(to schema.Schema, opts Options) []migration.Step {
	return GenerateFromDiff(schema.Schema{}, to, opts)
}

// GenerateRollback returns the reverse of Generate(to, opts): the steps
// that tear the given schema back down to empty, in reverse order with
// sql/rollbackSql swapped.
func GenerateRollback(to schema.Schema, opts Options) []migration.Step {
	forward := Generate(to, opts)
	reversed := make([]migration.Step, len(forward))
	for i, s := range forward {
		reversed[len(forward)-1-i] = s.Reverse()
	}
	return reversed
}

// filterIgnoredExtensions drops any Added/Removed/Updated entry naming an
// ignored extension, so an ignored extension is never created, dropped, or
// reported as changed regardless of what either schema projection says
// about it.
func filterIgnoredExtensions(d diff.ExtensionDiff, ignored []string) diff.ExtensionDiff {
	opts := config.WithIgnoredExtensions(ignored...)
	if len(ignored) == 0 {
		return d
	}

	var out diff.ExtensionDiff
	for _, e := range d.Added {
		if !opts.IsExtensionIgnored(e.Name) {
			out.Added = append(out.Added, e)
		}
	}
	for _, e := range d.Removed {
		if !opts.IsExtensionIgnored(e.Name) {
			out.Removed = append(out.Removed, e)
		}
	}
	for _, u := range d.Updated {
		if !opts.IsExtensionIgnored(u.To.Name) {
			out.Updated = append(out.Updated, u)
		}
	}
	return out
}

func onlyAdded(steps []migration.Step) []migration.Step {
	var out []migration.Step
	for _, s := range steps {
		if s.Type == migration.StepCreate {
			out = append(out, s)
		}
	}
	return out
}

// onlyRemoved keeps the drop-only steps for removed objects. The "_old" drop
// half of an update pair is left out: it is emitted with its create half.
func onlyRemoved(steps []migration.Step) []migration.Step {
	var out []migration.Step
	for _, s := range steps {
		if s.Type == migration.StepDrop && !strings.HasSuffix(s.Name, "_old") {
			out = append(out, s)
		}
	}
	return out
}

// onlyNonRemove keeps every step except plain (non-paired) drops, i.e. the
// added-create and updated-drop-then-create steps PlanEnums and
// PlanExtensions emit, but not their drop-only steps for removed enums and
// extensions (those belong to tier 13).
func onlyNonRemove(steps []migration.Step) []migration.Step {
	var out []migration.Step
	for i := 0; i < len(steps); i++ {
		s := steps[i]
		if s.Type == migration.StepDrop && strings.HasSuffix(s.Name, "_old") {
			// drop-half of an update pair: belongs here with its create half.
			out = append(out, s)
			continue
		}
		if s.Type == migration.StepCreate {
			out = append(out, s)
		}
	}
	return out
}

func columnSteps(mm diff.ModifiedModel, schemaName string, enums render.KnownEnums) []migration.Step {
	return diff.PlanModels(diff.ModelDiff{ModelsModified: []diff.ModifiedModel{mm}}, schemaName, enums)
}

func roleGrantSteps(d diff.RoleDiff, schemaName string) []migration.Step {
	var steps []migration.Step
	for _, r := range d.Added {
		for _, rp := range r.Privileges {
			steps = append(steps, migration.Step{
				Type:        migration.StepAlter,
				ObjectType:  migration.ObjectRole,
				Name:        r.Name + "_grant_" + rp.On,
				SQL:         render.GrantPrivilege(schemaName, r.Name, rp),
				RollbackSQL: render.RevokePrivilege(schemaName, r.Name, rp),
			})
		}
	}
	for _, u := range d.Updated {
		for _, rp := range u.From.Privileges {
			steps = append(steps, migration.Step{
				Type:        migration.StepAlter,
				ObjectType:  migration.ObjectRole,
				Name:        u.To.Name + "_revoke_" + rp.On,
				SQL:         render.RevokePrivilege(schemaName, u.From.Name, rp),
				RollbackSQL: render.GrantPrivilege(schemaName, u.From.Name, rp),
			})
		}
		steps = append(steps, migration.Step{
			Type:        migration.StepDrop,
			ObjectType:  migration.ObjectRole,
			Name:        u.From.Name + "_old",
			SQL:         render.DropRole(u.From.Name),
			RollbackSQL: render.CreateRole(u.From.Name),
		})
		steps = append(steps, migration.Step{
			Type:        migration.StepCreate,
			ObjectType:  migration.ObjectRole,
			Name:        u.To.Name,
			SQL:         render.CreateRole(u.To.Name),
			RollbackSQL: render.DropRole(u.To.Name),
		})
		for _, rp := range u.To.Privileges {
			steps = append(steps, migration.Step{
				Type:        migration.StepAlter,
				ObjectType:  migration.ObjectRole,
				Name:        u.To.Name + "_grant_" + rp.On,
				SQL:         render.GrantPrivilege(schemaName, u.To.Name, rp),
				RollbackSQL: render.RevokePrivilege(schemaName, u.To.Name, rp),
			})
		}
	}
	return steps
}

func roleRemovalSteps(d diff.RoleDiff, schemaName string) []migration.Step {
	var steps []migration.Step
	for _, r := range d.Removed {
		for _, rp := range r.Privileges {
			steps = append(steps, migration.Step{
				Type:        migration.StepAlter,
				ObjectType:  migration.ObjectRole,
				Name:        r.Name + "_revoke_" + rp.On,
				SQL:         render.RevokePrivilege(schemaName, r.Name, rp),
				RollbackSQL: render.GrantPrivilege(schemaName, r.Name, rp),
			})
		}
		steps = append(steps, migration.Step{
			Type:        migration.StepDrop,
			ObjectType:  migration.ObjectRole,
			Name:        r.Name,
			SQL:         render.DropRole(r.Name),
			RollbackSQL: render.CreateRole(r.Name),
		})
	}
	return steps
}

func sortedModels(models []schema.Model) []schema.Model {
	out := append([]schema.Model(nil), models...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedModifiedModels(mms []diff.ModifiedModel) []diff.ModifiedModel {
	out := append([]diff.ModifiedModel(nil), mms...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
