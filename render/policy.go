package render

import (
	"fmt"
	"strings"

	"github.com/schemamorph/pgmigrate/schema"
)

// CreatePolicy renders a CREATE POLICY statement for a model-scoped RLS
// policy.
func CreatePolicy(schemaName, modelName string, p schema.Policy) string {
	if modelName == "" || p.Name == "" {
		return ""
	}
	forClause := policyForClause(p.For)
	to := p.To
	if to == "" {
		to = "public"
	}

	stmt := fmt.Sprintf(
		`CREATE POLICY %s ON %s FOR %s TO %s USING (%s)`,
		Quote(p.Name), QualifiedName(schemaName, modelName), forClause, to, p.Using,
	)
	if p.Check != "" {
		stmt += fmt.Sprintf(" WITH CHECK (%s)", p.Check)
	}
	return stmt
}

// DropPolicy renders a DROP POLICY statement.
func DropPolicy(schemaName, modelName, policyName string) string {
	if modelName == "" || policyName == "" {
		return ""
	}
	return destructiveWarning(fmt.Sprintf(`DROP POLICY IF EXISTS %s ON %s`, Quote(policyName), QualifiedName(schemaName, modelName)))
}

func policyForClause(cmds []schema.PolicyCommand) string {
	if len(cmds) == 0 {
		return "ALL"
	}
	for _, c := range cmds {
		if c == schema.PolicyAll {
			return "ALL"
		}
	}
	parts := make([]string, len(cmds))
	for i, c := range cmds {
		parts[i] = strings.ToUpper(string(c))
	}
	return strings.Join(parts, ", ")
}
