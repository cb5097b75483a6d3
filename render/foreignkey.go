package render

import (
	"fmt"
	"strings"

	"github.com/schemamorph/pgmigrate/schema"
)

// AddForeignKey renders an ALTER TABLE ... ADD CONSTRAINT ... FOREIGN KEY
// statement for a relation that owns a foreign key. Returns "" if the
// relation carries no fields/references (a pure back-reference).
func AddForeignKey(schemaName, modelName string, rel schema.Relation) string {
	if !rel.HasForeignKey() {
		return ""
	}
	name := ForeignKeyName(modelName, rel.Name)
	cols := quoteList(rel.Fields)
	refCols := quoteList(rel.References)

	stmt := fmt.Sprintf(
		`ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)`,
		QualifiedName(schemaName, modelName), Quote(name), cols, QualifiedName(schemaName, rel.Model), refCols,
	)
	if rel.OnDelete != "" {
		stmt += " ON DELETE " + rel.OnDelete
	}
	if rel.OnUpdate != "" {
		stmt += " ON UPDATE " + rel.OnUpdate
	}
	return stmt
}

// DropForeignKey renders an ALTER TABLE ... DROP CONSTRAINT statement.
func DropForeignKey(schemaName, modelName, relationName string) string {
	if modelName == "" || relationName == "" {
		return ""
	}
	name := ForeignKeyName(modelName, relationName)
	return destructiveWarning(fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s`, QualifiedName(schemaName, modelName), Quote(name)))
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = Quote(n)
	}
	return strings.Join(quoted, ", ")
}
