package render

import "fmt"

// EnableRLS renders ALTER TABLE ... ENABLE ROW LEVEL SECURITY.
func EnableRLS(schemaName, modelName string) string {
	return fmt.Sprintf(`ALTER TABLE %s ENABLE ROW LEVEL SECURITY`, QualifiedName(schemaName, modelName))
}

// DisableRLS renders ALTER TABLE ... DISABLE ROW LEVEL SECURITY.
func DisableRLS(schemaName, modelName string) string {
	return fmt.Sprintf(`ALTER TABLE %s DISABLE ROW LEVEL SECURITY`, QualifiedName(schemaName, modelName))
}

// ForceRLS renders ALTER TABLE ... FORCE ROW LEVEL SECURITY.
func ForceRLS(schemaName, modelName string) string {
	return fmt.Sprintf(`ALTER TABLE %s FORCE ROW LEVEL SECURITY`, QualifiedName(schemaName, modelName))
}

// NoForceRLS renders ALTER TABLE ... NO FORCE ROW LEVEL SECURITY.
func NoForceRLS(schemaName, modelName string) string {
	return fmt.Sprintf(`ALTER TABLE %s NO FORCE ROW LEVEL SECURITY`, QualifiedName(schemaName, modelName))
}
