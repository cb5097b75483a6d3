// Package render holds the pure, stateless SQL fragment functions that turn
// a single schema entity into its forward or reverse SQL text. No function
// in this package performs I/O, and none of them fail: malformed input
// degrades to an empty string rather than an error.
//
// Naming conventions: foreign keys are named fk_<Model>_<relation>, indexes
// idx_<Model>_<col>..., policies policy_<Model>_<name>, and trigger
// functions <trigger>_fn.
package render

import (
	"fmt"
	"strings"

	"github.com/schemamorph/pgmigrate/schema"
)

// DefaultSchemaName is used whenever a caller does not supply one.
const DefaultSchemaName = "public"

func schemaOrDefault(schemaName string) string {
	if schemaName == "" {
		return DefaultSchemaName
	}
	return schemaName
}

// QualifiedName double-quotes and schema-qualifies a single identifier, e.g.
// QualifiedName("public", "User") -> `"public"."User"`.
func QualifiedName(schemaName, name string) string {
	return fmt.Sprintf(`"%s"."%s"`, schemaOrDefault(schemaName), name)
}

// Quote double-quotes a bare identifier.
func Quote(name string) string {
	return fmt.Sprintf(`"%s"`, name)
}

// ForeignKeyName returns the conventional constraint name for a relation.
func ForeignKeyName(modelName, relationName string) string {
	return fmt.Sprintf("fk_%s_%s", modelName, relationName)
}

// PolicyConstraintName returns the conventional name for an RLS policy.
func PolicyConstraintName(modelName, policyName string) string {
	return fmt.Sprintf("policy_%s_%s", modelName, policyName)
}

// TriggerBindingName returns the conventional name for a trigger binding.
func TriggerBindingName(modelName string, trg schema.Trigger) string {
	event := sanitize(trg.Event)
	level := sanitize(trg.Level)
	return fmt.Sprintf("%s_%s_%s_trigger", modelName, event, level)
}

// TriggerFunctionName returns the conventional name for a trigger's backing
// function.
func TriggerFunctionName(triggerName string) string {
	return triggerName + "_fn"
}

// IndexName returns the explicit index name if set, otherwise derives one
// from the model, field list, type and uniqueness.
func IndexName(modelName string, idx schema.Index) string {
	if idx.Name != "" {
		return idx.Name
	}
	parts := []string{"idx", modelName}
	parts = append(parts, idx.Fields...)
	if idx.Type != "" {
		parts = append(parts, sanitize(idx.Type))
	}
	if idx.Unique {
		parts = append(parts, "unique")
	}
	return strings.Join(parts, "_")
}

func sanitize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

// enumCastSuffix renders the ::"schema"."Enum" cast suffix for a default
// value known to be of enum type name.
func enumCastSuffix(schemaName, enumName string) string {
	return fmt.Sprintf("::%s", QualifiedName(schemaName, enumName))
}

// destructiveWarning prefixes a destructive DDL statement with a comment
// line warning that the drop is not itself undoable by replaying forward
// SQL (rollback relies on the paired RollbackSQL recreating the object).
func destructiveWarning(stmt string) string {
	return fmt.Sprintf("-- WARNING: destructive operation, cannot be undone\n%s", stmt)
}

// idempotentBlock wraps a CREATE statement so that re-running it on a
// database where the object already exists is a no-op rather than an error.
func idempotentBlock(createStmt string) string {
	return fmt.Sprintf(
		"DO $$ BEGIN\n  %s;\nEXCEPTION WHEN duplicate_object THEN NULL;\nEND $$;",
		strings.TrimSuffix(strings.TrimSpace(createStmt), ";"),
	)
}
