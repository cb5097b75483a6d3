package render

import "fmt"

// CreateExtension renders a CREATE EXTENSION statement. Version is optional.
func CreateExtension(name, version string) string {
	if name == "" {
		return ""
	}
	if version != "" {
		return fmt.Sprintf(`CREATE EXTENSION IF NOT EXISTS "%s" VERSION '%s'`, name, version)
	}
	return fmt.Sprintf(`CREATE EXTENSION IF NOT EXISTS "%s"`, name)
}

// DropExtension renders a DROP EXTENSION statement.
func DropExtension(name string) string {
	if name == "" {
		return ""
	}
	return destructiveWarning(fmt.Sprintf(`DROP EXTENSION IF EXISTS "%s"`, name))
}
