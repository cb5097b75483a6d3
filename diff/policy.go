package diff

import (
	"sort"

	"github.com/schemamorph/pgmigrate/migration"
	"github.com/schemamorph/pgmigrate/render"
	"github.com/schemamorph/pgmigrate/schema"
)

// UpdatedPolicy pairs the old and new revision of a changed Policy.
type UpdatedPolicy struct {
	From schema.Policy
	To   schema.Policy
}

// PolicyDiff is the added/removed/updated result of comparing two Policy
// sets belonging to the same model.
type PolicyDiff struct {
	Added   []schema.Policy
	Removed []schema.Policy
	Updated []UpdatedPolicy
}

// ComparePolicies: identity is Name within a model.
func ComparePolicies(from, to []schema.Policy) PolicyDiff {
	fromByName := indexPolicies(from)
	toByName := indexPolicies(to)

	var d PolicyDiff
	for name, t := range toByName {
		f, ok := fromByName[name]
		if !ok {
			d.Added = append(d.Added, t)
			continue
		}
		if policyChanged(f, t) {
			d.Updated = append(d.Updated, UpdatedPolicy{From: f, To: t})
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

func policyChanged(f, t schema.Policy) bool {
	return !schema.CommandSetEqual(f.For, t.For) || f.To != t.To || f.Using != t.Using || f.Check != t.Check
}

// PlanPolicies emits CREATE/DROP POLICY steps. A PostgreSQL policy has no
// ALTER form for its command list, so an update is
// drop-then-create.
func PlanPolicies(d PolicyDiff, schemaName, modelName string) []migration.Step {
	var steps []migration.Step

	for _, p := range d.Added {
		steps = append(steps, migration.Step{
			Type:        migration.StepCreate,
			ObjectType:  migration.ObjectPolicy,
			Name:        render.PolicyConstraintName(modelName, p.Name),
			SQL:         render.CreatePolicy(schemaName, modelName, p),
			RollbackSQL: render.DropPolicy(schemaName, modelName, p.Name),
		})
	}

	for _, u := range d.Updated {
		steps = append(steps,
			migration.Step{
				Type:        migration.StepDrop,
				ObjectType:  migration.ObjectPolicy,
				Name:        render.PolicyConstraintName(modelName, u.From.Name) + "_drop",
				SQL:         render.DropPolicy(schemaName, modelName, u.From.Name),
				RollbackSQL: render.CreatePolicy(schemaName, modelName, u.From),
			},
			migration.Step{
				Type:        migration.StepCreate,
				ObjectType:  migration.ObjectPolicy,
				Name:        render.PolicyConstraintName(modelName, u.To.Name) + "_create",
				SQL:         render.CreatePolicy(schemaName, modelName, u.To),
				RollbackSQL: render.DropPolicy(schemaName, modelName, u.To.Name),
			},
		)
	}

	for _, p := range d.Removed {
		steps = append(steps, migration.Step{
			Type:        migration.StepDrop,
			ObjectType:  migration.ObjectPolicy,
			Name:        render.PolicyConstraintName(modelName, p.Name),
			SQL:         render.DropPolicy(schemaName, modelName, p.Name),
			RollbackSQL: render.CreatePolicy(schemaName, modelName, p),
		})
	}

	return steps
}

func indexPolicies(policies []schema.Policy) map[string]schema.Policy {
	m := make(map[string]schema.Policy, len(policies))
	for _, p := range policies {
		m[p.Name] = p
	}
	return m
}
