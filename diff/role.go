package diff

import (
	"sort"

	"github.com/schemamorph/pgmigrate/migration"
	"github.com/schemamorph/pgmigrate/render"
	"github.com/schemamorph/pgmigrate/schema"
)

// UpdatedRole pairs the old and new revision of a changed Role.
type UpdatedRole struct {
	From schema.Role
	To   schema.Role
}

// RoleDiff is the added/removed/updated result of comparing two Role sets.
type RoleDiff struct {
	Added   []schema.Role
	Removed []schema.Role
	Updated []UpdatedRole
}

// CompareRoles: identity is Name, updated iff the privilege set differs.
func CompareRoles(from, to []schema.Role) RoleDiff {
	fromByName := indexRoles(from)
	toByName := indexRoles(to)

	var d RoleDiff
	for name, t := range toByName {
		f, ok := fromByName[name]
		if !ok {
			d.Added = append(d.Added, t)
			continue
		}
		if !rolePrivilegesEqual(f.Privileges, t.Privileges) {
			d.Updated = append(d.Updated, UpdatedRole{From: f, To: t})
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

func rolePrivilegesEqual(a, b []schema.RolePrivilege) bool {
	if len(a) != len(b) {
		return false
	}
	am := make(map[string]schema.RolePrivilege, len(a))
	for _, rp := range a {
		am[rp.On] = rp
	}
	for _, rp := range b {
		o, ok := am[rp.On]
		if !ok || !schema.PrivilegeSetEqual(o.Privileges, rp.Privileges) {
			return false
		}
	}
	return true
}

// PlanRoles emits CREATE/DROP ROLE plus GRANT/REVOKE steps. PostgreSQL
// roles have no identity-preserving ALTER for privilege sets as modeled
// here, so an update revokes the old grants, drops and recreates the role,
// then grants the new set. Rollback of an update is therefore only as
// reliable as the recorded "from" privileges — reapplying them recreates
// the same grants but not any manually-applied ones outside this model.
func PlanRoles(d RoleDiff, schemaName string) []migration.Step {
	var steps []migration.Step

	for _, r := range d.Added {
		steps = append(steps, migration.Step{
			Type:        migration.StepCreate,
			ObjectType:  migration.ObjectRole,
			Name:        r.Name,
			SQL:         render.CreateRole(r.Name),
			RollbackSQL: render.DropRole(r.Name),
		})
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

func indexRoles(roles []schema.Role) map[string]schema.Role {
	m := make(map[string]schema.Role, len(roles))
	for _, r := range roles {
		m[r.Name] = r
	}
	return m
}
