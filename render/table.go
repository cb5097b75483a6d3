package render

import (
	"fmt"
	"strings"

	"github.com/schemamorph/pgmigrate/schema"
)

// KnownEnums is an explicit set of enum names in scope for a render call,
// threaded through every call that needs to know whether a field's Type
// names an enum (for default-value cast rendering) rather than relying on
// any process-wide registry.
type KnownEnums map[string]bool

// NewKnownEnums builds a KnownEnums set from a Schema's enum list.
func NewKnownEnums(enums []schema.Enum) KnownEnums {
	set := make(KnownEnums, len(enums))
	for _, e := range enums {
		set[e.Name] = true
	}
	return set
}

// ColumnType renders the SQL type for a field, applying length/precision/
// scale modifiers and the "[]" array suffix when Type ends in "[]".
func ColumnType(f schema.Field) string {
	base := f.Type
	array := false
	if strings.HasSuffix(base, "[]") {
		array = true
		base = strings.TrimSuffix(base, "[]")
	}

	switch {
	case f.Length != nil:
		base = fmt.Sprintf("%s(%d)", base, *f.Length)
	case f.Precision != nil && f.Scale != nil:
		base = fmt.Sprintf("%s(%d,%d)", base, *f.Precision, *f.Scale)
	case f.Precision != nil:
		base = fmt.Sprintf("%s(%d)", base, *f.Precision)
	}

	if array {
		base += "[]"
	}
	return base
}

// ColumnDefinition renders a single column's definition fragment, as used
// inside CREATE TABLE and ALTER TABLE ... ADD COLUMN.
func ColumnDefinition(schemaName string, f schema.Field, enums KnownEnums) string {
	if f.Name == "" {
		return ""
	}
	parts := []string{Quote(f.Name), ColumnType(f)}

	if f.HasAttribute(schema.AttrID) {
		parts = append(parts, "PRIMARY KEY")
	}
	if !f.Nullable {
		parts = append(parts, "NOT NULL")
	}
	if f.HasAttribute(schema.AttrUnique) && !f.HasAttribute(schema.AttrID) {
		parts = append(parts, "UNIQUE")
	}
	if f.HasAttribute(schema.AttrDefault) && f.DefaultValue != "" {
		if enums[f.Type] {
			parts = append(parts, "DEFAULT "+EnumDefaultCast(schemaName, f.Type, f.DefaultValue))
		} else {
			parts = append(parts, "DEFAULT "+f.DefaultValue)
		}
	}
	return strings.Join(parts, " ")
}

// CreateTable renders a full CREATE TABLE statement for a model (fields
// only; constraints such as foreign keys, indexes and RLS are emitted by
// their own orchestrators).
func CreateTable(schemaName string, m schema.Model, enums KnownEnums) string {
	if m.Name == "" {
		return ""
	}
	cols := make([]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		cols = append(cols, "  "+ColumnDefinition(schemaName, f, enums))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n%s\n)", QualifiedName(schemaName, m.Name), strings.Join(cols, ",\n"))
}

// DropTable renders a DROP TABLE statement.
func DropTable(schemaName, modelName string) string {
	if modelName == "" {
		return ""
	}
	return destructiveWarning(fmt.Sprintf("DROP TABLE IF EXISTS %s", QualifiedName(schemaName, modelName)))
}

// AddColumn renders an ALTER TABLE ... ADD COLUMN statement.
func AddColumn(schemaName, modelName string, f schema.Field, enums KnownEnums) string {
	if modelName == "" || f.Name == "" {
		return ""
	}
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", QualifiedName(schemaName, modelName), ColumnDefinition(schemaName, f, enums))
}

// DropColumn renders an ALTER TABLE ... DROP COLUMN statement.
func DropColumn(schemaName, modelName, fieldName string) string {
	if modelName == "" || fieldName == "" {
		return ""
	}
	return destructiveWarning(fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", QualifiedName(schemaName, modelName), Quote(fieldName)))
}

// AlterColumn renders the sequenced ALTER COLUMN clauses needed to migrate
// `from` to `to` for one field: TYPE change, then SET/DROP DEFAULT, then
// SET/DROP NOT NULL, in that order.
func AlterColumn(schemaName, modelName string, from, to schema.Field, enums KnownEnums) string {
	if modelName == "" || to.Name == "" {
		return ""
	}
	table := QualifiedName(schemaName, modelName)
	col := Quote(to.Name)
	var clauses []string

	if from.Type != to.Type || !ptrEq(from.Length, to.Length) || !ptrEq(from.Precision, to.Precision) || !ptrEq(from.Scale, to.Scale) {
		clauses = append(clauses, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s USING %s::%s", table, col, ColumnType(to), col, ColumnType(to)))
	}

	if from.DefaultValue != to.DefaultValue || from.HasAttribute(schema.AttrDefault) != to.HasAttribute(schema.AttrDefault) {
		if to.HasAttribute(schema.AttrDefault) && to.DefaultValue != "" {
			def := to.DefaultValue
			if enums[to.Type] {
				def = EnumDefaultCast(schemaName, to.Type, to.DefaultValue)
			}
			clauses = append(clauses, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s", table, col, def))
		} else {
			clauses = append(clauses, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT", table, col))
		}
	}

	if from.Nullable != to.Nullable {
		if to.Nullable {
			clauses = append(clauses, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL", table, col))
		} else {
			clauses = append(clauses, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL", table, col))
		}
	}

	return strings.Join(clauses, ";\n")
}

func ptrEq(a, b *int) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
