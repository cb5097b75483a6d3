// Package config holds the CompareOptions consumed by plan.Options.IgnoredExtensions:
// the set of PostgreSQL extensions the planner must treat as pre-installed and
// therefore never touch, regardless of what either schema projection says about them.
package config

// CompareOptions controls which PostgreSQL extensions plan.GenerateFromDiff
// excludes from tier 1 (extensions added or updated) and tier 13 (extensions
// removed).
type CompareOptions struct {
	// IgnoredExtensions names extensions that plan.Options.IgnoredExtensions
	// forwards into filterIgnoredExtensions: an ignored extension is never
	// created, dropped, or reported as changed.
	//
	// Common extensions to ignore include:
	// - plpgsql: Default procedural language, usually pre-installed
	// - adminpack: Administrative functions, often pre-installed
	IgnoredExtensions []string
}

// DefaultCompareOptions returns the options plan.DefaultOptions seeds its
// own IgnoredExtensions from: the commonly pre-installed extensions that
// should typically be left alone.
func DefaultCompareOptions() *CompareOptions {
	return &CompareOptions{
		IgnoredExtensions: []string{
			"plpgsql", // PostgreSQL procedural language - usually pre-installed
		},
	}
}

// WithIgnoredExtensions returns a new CompareOptions with the specified ignored extensions.
// This completely replaces the default ignored extensions list.
//
// Example:
//
//	opts := config.WithIgnoredExtensions("plpgsql", "adminpack", "pg_stat_statements")
func WithIgnoredExtensions(extensions ...string) *CompareOptions {
	return &CompareOptions{
		IgnoredExtensions: extensions,
	}
}

// WithAdditionalIgnoredExtensions returns a new CompareOptions that includes the default
// ignored extensions plus the additional ones specified.
//
// Example:
//
//	opts := config.WithAdditionalIgnoredExtensions("adminpack", "pg_stat_statements")
//	// Result: ["plpgsql", "adminpack", "pg_stat_statements"]
func WithAdditionalIgnoredExtensions(extensions ...string) *CompareOptions {
	defaults := DefaultCompareOptions()
	allExtensions := make([]string, len(defaults.IgnoredExtensions)+len(extensions))
	copy(allExtensions, defaults.IgnoredExtensions)
	copy(allExtensions[len(defaults.IgnoredExtensions):], extensions)

	return &CompareOptions{
		IgnoredExtensions: allExtensions,
	}
}

// IsExtensionIgnored reports whether plan.GenerateFromDiff's
// filterIgnoredExtensions should drop extensionName from an ExtensionDiff.
func (c *CompareOptions) IsExtensionIgnored(extensionName string) bool {
	for _, ignored := range c.IgnoredExtensions {
		if ignored == extensionName {
			return true
		}
	}
	return false
}

// FilterIgnoredExtensions removes ignored extensions from the provided slice
// and returns a new slice containing only non-ignored extensions. Callers
// building a schema.Schema from introspection can use this to drop
// pre-installed extensions before diffing, the same filtering
// filterIgnoredExtensions applies to an already-computed ExtensionDiff.
func (c *CompareOptions) FilterIgnoredExtensions(extensions []string) []string {
	filtered := make([]string, 0)
	for _, ext := range extensions {
		if !c.IsExtensionIgnored(ext) {
			filtered = append(filtered, ext)
		}
	}
	return filtered
}
