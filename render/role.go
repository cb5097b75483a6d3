package render

import (
	"fmt"
	"strings"

	"github.com/schemamorph/pgmigrate/schema"
)

// CreateRole renders an idempotent CREATE ROLE statement.
func CreateRole(name string) string {
	if name == "" {
		return ""
	}
	return idempotentBlock(fmt.Sprintf(`CREATE ROLE %s`, Quote(name)))
}

// DropRole renders a DROP ROLE statement.
func DropRole(name string) string {
	if name == "" {
		return ""
	}
	return destructiveWarning(fmt.Sprintf(`DROP ROLE IF EXISTS %s`, Quote(name)))
}

// GrantPrivilege renders a GRANT statement for one RolePrivilege entry.
func GrantPrivilege(schemaName, roleName string, rp schema.RolePrivilege) string {
	if roleName == "" || rp.On == "" || len(rp.Privileges) == 0 {
		return ""
	}
	return fmt.Sprintf(
		`GRANT %s ON %s TO %s`,
		privilegeList(rp.Privileges), QualifiedName(schemaName, rp.On), Quote(roleName),
	)
}

// RevokePrivilege renders the inverse REVOKE statement.
func RevokePrivilege(schemaName, roleName string, rp schema.RolePrivilege) string {
	if roleName == "" || rp.On == "" || len(rp.Privileges) == 0 {
		return ""
	}
	return fmt.Sprintf(
		`REVOKE %s ON %s FROM %s`,
		privilegeList(rp.Privileges), QualifiedName(schemaName, rp.On), Quote(roleName),
	)
}

func privilegeList(privs []schema.Privilege) string {
	parts := make([]string, len(privs))
	for i, p := range privs {
		parts[i] = strings.ToUpper(string(p))
	}
	return strings.Join(parts, ", ")
}
