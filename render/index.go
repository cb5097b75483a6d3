package render

import (
	"fmt"

	"github.com/schemamorph/pgmigrate/schema"
)

// CreateIndex renders a CREATE [UNIQUE] INDEX statement, including optional
// method (USING) and partial WHERE clause.
func CreateIndex(schemaName, modelName string, idx schema.Index) string {
	if modelName == "" || len(idx.Fields) == 0 {
		return ""
	}
	name := IndexName(modelName, idx)

	unique := ""
	if idx.Unique {
		unique = "UNIQUE "
	}

	using := ""
	if idx.Type != "" {
		using = fmt.Sprintf(" USING %s", idx.Type)
	}

	where := ""
	if idx.Where != "" {
		where = fmt.Sprintf(" WHERE %s", idx.Where)
	}

	return fmt.Sprintf(
		`CREATE %sINDEX %s ON %s%s (%s)%s`,
		unique, Quote(name), QualifiedName(schemaName, modelName), using, quoteList(idx.Fields), where,
	)
}

// DropIndex renders a DROP INDEX statement.
func DropIndex(schemaName, modelName string, idx schema.Index) string {
	name := IndexName(modelName, idx)
	return destructiveWarning(fmt.Sprintf(`DROP INDEX IF EXISTS %s`, QualifiedName(schemaName, name)))
}
