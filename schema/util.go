package schema

import (
	"sort"
	"strings"
)

// CanonicalExecute strips whitespace from a trigger body so that
// cosmetically-reformatted bodies still compare equal. Used as part of a
// Trigger's identity key.
func CanonicalExecute(execute string) string {
	fields := strings.Fields(execute)
	return strings.Join(fields, " ")
}

// IndexIdentity returns the key used to match an index across two schema
// projections: the explicit name when present, otherwise the sorted field
// list.
func IndexIdentity(idx Index) string {
	if idx.Name != "" {
		return "name:" + idx.Name
	}
	sorted := append([]string(nil), idx.Fields...)
	sort.Strings(sorted)
	return "fields:" + strings.Join(sorted, ",")
}

// SortedStrings returns a sorted copy of ss.
func SortedStrings(ss []string) []string {
	out := append([]string(nil), ss...)
	sort.Strings(out)
	return out
}

// StringSetEqual reports whether a and b contain the same strings,
// ignoring order; each string must occur the same number of times in both.
func StringSetEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]int)
	for _, v := range a {
		set[v]++
	}
	for _, v := range b {
		set[v]--
	}
	for _, n := range set {
		if n != 0 {
			return false
		}
	}
	return true
}

// StringSliceEqual reports order-sensitive equality.
func StringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// AttributeSetEqual reports set-equality of two field attribute lists.
func AttributeSetEqual(a, b []FieldAttribute) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[FieldAttribute]int)
	for _, v := range a {
		set[v]++
	}
	for _, v := range b {
		set[v]--
	}
	for _, n := range set {
		if n != 0 {
			return false
		}
	}
	return true
}

// PrivilegeSetEqual reports set-equality of two privilege lists.
func PrivilegeSetEqual(a, b []Privilege) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[Privilege]int)
	for _, v := range a {
		set[v]++
	}
	for _, v := range b {
		set[v]--
	}
	for _, n := range set {
		if n != 0 {
			return false
		}
	}
	return true
}

// CommandSetEqual reports set-equality of two PolicyCommand lists.
func CommandSetEqual(a, b []PolicyCommand) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[PolicyCommand]int)
	for _, v := range a {
		set[v]++
	}
	for _, v := range b {
		set[v]--
	}
	for _, n := range set {
		if n != 0 {
			return false
		}
	}
	return true
}
