// Package schema defines the in-memory value types describing a desired
// PostgreSQL database state. Values of these types are produced by the
// (out-of-scope) schema-language parser and consumed by the diff engine,
// the planner, and the SQL renderer. None of the types in this package
// perform I/O or validation beyond basic invariants; they are plain data.
package schema

// Schema is the desired state of a database: every model, enum, extension
// and role the engine should reconcile the target database towards.
type Schema struct {
	Models     []Model
	Enums      []Enum
	Extensions []Extension
	Roles      []Role
}

// ModelByName returns the model with the given name, if any.
func (s *Schema) ModelByName(name string) (Model, bool) {
	for _, m := range s.Models {
		if m.Name == name {
			return m, true
		}
	}
	return Model{}, false
}

// Model is a single table: an ordered list of fields plus the optional
// relations, indexes, row-level-security configuration, policies and
// triggers attached to it.
type Model struct {
	Name              string
	Fields            []Field
	Relations         []Relation
	Indexes           []Index
	RowLevelSecurity  *RowLevelSecurity
	Policies          []Policy
	Triggers          []Trigger
}

// FieldAttribute marks special behavior on a Field.
type FieldAttribute string

const (
	AttrID      FieldAttribute = "id"
	AttrUnique  FieldAttribute = "unique"
	AttrDefault FieldAttribute = "default"
)

// Field is a single column on a Model.
//
// Type is either a built-in primitive (e.g. "uuid", "varchar", "int"), the
// name of an Enum declared in the owning Schema, or an array form "T[]".
type Field struct {
	Name         string
	Type         string
	Attributes   []FieldAttribute
	DefaultValue string
	Length       *int
	Precision    *int
	Scale        *int
	Nullable     bool
}

// HasAttribute reports whether the field carries the given attribute.
func (f Field) HasAttribute(a FieldAttribute) bool {
	for _, attr := range f.Attributes {
		if attr == a {
			return true
		}
	}
	return false
}

// RelationType enumerates the cardinality of a Relation.
type RelationType string

const (
	OneToOne   RelationType = "one-to-one"
	OneToMany  RelationType = "one-to-many"
	ManyToMany RelationType = "many-to-many"
)

// Relation links the owning Model to another Model. When Fields/References
// are both populated, the relation is backed by a foreign key constraint;
// when absent, it is a pure back-reference and the diff engine emits no SQL
// for it.
type Relation struct {
	Name       string
	Type       RelationType
	Model      string // target model name
	Fields     []string
	References []string
	OnDelete   string
	OnUpdate   string
}

// HasForeignKey reports whether this relation owns a foreign key constraint.
func (r Relation) HasForeignKey() bool {
	return len(r.Fields) > 0 && len(r.References) > 0 && len(r.Fields) == len(r.References)
}

// Index describes a (possibly unique, possibly partial) index on a Model.
type Index struct {
	Name    string // explicit name, or "" to derive identity from sorted Fields
	Fields  []string
	Unique  bool
	Where   string
	Type    string // BTREE, GIN, GIST, HASH, ...
}

// RowLevelSecurity captures a Model's RLS posture.
type RowLevelSecurity struct {
	Enabled bool
	Force   bool
}

// PolicyCommand is one of the operations an RLS Policy applies to.
type PolicyCommand string

const (
	PolicySelect PolicyCommand = "select"
	PolicyInsert PolicyCommand = "insert"
	PolicyUpdate PolicyCommand = "update"
	PolicyDelete PolicyCommand = "delete"
	PolicyAll    PolicyCommand = "all"
)

// Policy is a single RLS rule scoped to a Model.
type Policy struct {
	Name  string
	For   []PolicyCommand
	To    string // comma-separated role list, or "public"
	Using string
	Check string
}

// Trigger binds a PL/pgSQL function to a table-level event.
type Trigger struct {
	Event   string // e.g. "BEFORE UPDATE"
	Level   string // "FOR EACH ROW" | "FOR EACH STATEMENT"
	Execute string // function body
}

// Enum is a named PostgreSQL enum type. Equality for diffing purposes is
// set-equality of Values: reordering alone is not a schema change.
type Enum struct {
	Name   string
	Values []string
}

// Extension is a PostgreSQL extension requirement.
type Extension struct {
	Name    string
	Version string
}

// Privilege is one grantable PostgreSQL table privilege.
type Privilege string

const (
	PrivSelect Privilege = "select"
	PrivInsert Privilege = "insert"
	PrivUpdate Privilege = "update"
	PrivDelete Privilege = "delete"
)

// RolePrivilege grants a set of Privileges on a target model to a Role.
type RolePrivilege struct {
	Privileges []Privilege
	On         string // target model name
}

// Role is a PostgreSQL database role together with its table grants.
type Role struct {
	Name       string
	Privileges []RolePrivilege
}
