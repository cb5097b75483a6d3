package render

import (
	"fmt"

	"github.com/schemamorph/pgmigrate/schema"
)

// CreateTrigger renders the CREATE FUNCTION + CREATE TRIGGER pair that
// implements a Trigger: both statements are emitted inside one SQL block so
// a single MigrationStep creates (or, in DropTrigger, drops) both the
// backing function and its binding together.
func CreateTrigger(schemaName, modelName string, trg schema.Trigger) string {
	if modelName == "" {
		return ""
	}
	bindingName := TriggerBindingName(modelName, trg)
	fnName := TriggerFunctionName(bindingName)

	fn := fmt.Sprintf(
		"CREATE OR REPLACE FUNCTION %s() RETURNS TRIGGER AS $$\n%s\n$$ LANGUAGE plpgsql",
		QualifiedName(schemaName, fnName), trg.Execute,
	)

	binding := fmt.Sprintf(
		"CREATE TRIGGER %s %s %s ON %s EXECUTE FUNCTION %s()",
		Quote(bindingName), trg.Event, trg.Level, QualifiedName(schemaName, modelName), QualifiedName(schemaName, fnName),
	)

	return fn + ";\n" + binding
}

// DropTrigger renders the DROP TRIGGER + DROP FUNCTION pair that reverses
// CreateTrigger.
func DropTrigger(schemaName, modelName string, trg schema.Trigger) string {
	if modelName == "" {
		return ""
	}
	bindingName := TriggerBindingName(modelName, trg)
	fnName := TriggerFunctionName(bindingName)

	dropBinding := fmt.Sprintf(
		`DROP TRIGGER IF EXISTS %s ON %s`, Quote(bindingName), QualifiedName(schemaName, modelName),
	)
	dropFn := fmt.Sprintf(`DROP FUNCTION IF EXISTS %s()`, QualifiedName(schemaName, fnName))

	return destructiveWarning(dropBinding + ";\n" + dropFn)
}
