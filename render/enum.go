package render

import (
	"fmt"
	"strings"
)

// CreateEnum renders an idempotent CREATE TYPE ... AS ENUM statement.
func CreateEnum(schemaName, name string, values []string) string {
	if name == "" {
		return ""
	}
	return idempotentBlock(fmt.Sprintf(
		`CREATE TYPE %s AS ENUM (%s)`,
		QualifiedName(schemaName, name),
		quotedValueList(values),
	))
}

// DropEnum renders a DROP TYPE statement for an enum.
func DropEnum(schemaName, name string) string {
	if name == "" {
		return ""
	}
	return destructiveWarning(fmt.Sprintf(`DROP TYPE IF EXISTS %s`, QualifiedName(schemaName, name)))
}

// EnumDefaultCast renders the `'value'::"schema"."Enum"` literal used as a
// column DEFAULT for enum-typed fields.
func EnumDefaultCast(schemaName, enumName, value string) string {
	if enumName == "" {
		return fmt.Sprintf("'%s'", value)
	}
	return fmt.Sprintf("'%s'%s", value, enumCastSuffix(schemaName, enumName))
}

func quotedValueList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return strings.Join(quoted, ", ")
}
