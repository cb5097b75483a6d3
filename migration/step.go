// Package migration defines the artifact types the planner produces and the
// store persists: Step and Migration. These are plain JSON-serializable
// values with no behavior beyond what rollback composition requires.
package migration

import "time"

// StepType classifies what kind of DDL operation a MigrationStep performs.
type StepType string

const (
	StepCreate StepType = "create"
	StepAlter  StepType = "alter"
	StepDrop   StepType = "drop"
)

// ObjectType names the kind of database object a MigrationStep targets.
type ObjectType string

const (
	ObjectExtension ObjectType = "extension"
	ObjectEnum      ObjectType = "enum"
	ObjectRole      ObjectType = "role"
	ObjectTable     ObjectType = "table"
	ObjectColumn    ObjectType = "column"
	ObjectForeignKey ObjectType = "foreign_key"
	ObjectIndex     ObjectType = "index"
	ObjectRLS       ObjectType = "rls"
	ObjectPolicy    ObjectType = "policy"
	ObjectTrigger   ObjectType = "trigger"
)

// Step is a single reversible unit of DDL. RollbackSQL MUST semantically
// invert SQL.
type Step struct {
	Type        StepType   `json:"type"`
	ObjectType  ObjectType `json:"objectType"`
	Name        string     `json:"name"`
	SQL         string     `json:"sql"`
	RollbackSQL string     `json:"rollbackSql"`
}

// Reverse returns a Step that inverts this one: the forward/rollback SQL are
// swapped and create/drop step types are flipped (alter stays alter).
func (s Step) Reverse() Step {
	t := s.Type
	switch t {
	case StepCreate:
		t = StepDrop
	case StepDrop:
		t = StepCreate
	}
	return Step{
		Type:        t,
		ObjectType:  s.ObjectType,
		Name:        s.Name,
		SQL:         s.RollbackSQL,
		RollbackSQL: s.SQL,
	}
}

// Migration is an ordered, reversible, versioned sequence of Steps.
type Migration struct {
	Version     string    `json:"version"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Steps       []Step    `json:"steps"`
}

// Reverse returns the rollback Migration for m: its Steps are m's Steps in
// reverse order, each individually reversed.
func (m Migration) Reverse() Migration {
	steps := make([]Step, len(m.Steps))
	for i, s := range m.Steps {
		steps[len(m.Steps)-1-i] = s.Reverse()
	}
	return Migration{
		Version:     m.Version,
		Description: m.Description,
		Timestamp:   m.Timestamp,
		Steps:       steps,
	}
}
