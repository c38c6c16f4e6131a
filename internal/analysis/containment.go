package analysis

import (
	"strings"

	"github.com/standardbeagle/codegraph/internal/types"
)

// kindGroup is the token used on each side of a containment edge name
// (e.g. "CLASS" in "CLASS_TO_METHOD"): the DefinitionKind uppercased, so
// every kind is its own group (associated_function becomes
// "ASSOCIATED_FUNCTION", distinct from "METHOD").
func kindGroup(k types.DefinitionKind) string {
	return strings.ToUpper(string(k))
}

// containmentAllow is the explicit allow-list SPEC_FULL.md §4.C.1
// requires ("unmapped pairs produce no edge"). It starts from the
// spec-given Ruby table (Module/Class parents) and extends it by
// analogy for Java/Kotlin (interface, enum, record), Rust (struct,
// trait, enum, impl) and Python (module-less, class only), grounded on
// original_source's RelationshipType enum plus the additional
// definition kinds SPEC_FULL.md's analyzer tracks that the Ruby-only
// original list didn't need.
var containmentAllow = map[[2]string]bool{
	// Ruby-shaped containers, from original_source/crates/database/src/graph/relationship.rs
	{"MODULE", "MODULE"}:           true,
	{"MODULE", "CLASS"}:            true,
	{"MODULE", "METHOD"}:           true,
	{"MODULE", "SINGLETON_METHOD"}: true,
	{"MODULE", "LAMBDA"}:           true,
	{"MODULE", "PROC"}:             true,
	{"CLASS", "CLASS"}:             true,
	{"CLASS", "METHOD"}:            true,
	{"CLASS", "SINGLETON_METHOD"}:  true,
	{"CLASS", "LAMBDA"}:            true,
	{"CLASS", "PROC"}:              true,

	// Extensions for Java/Kotlin/Python/Rust definition kinds.
	{"CLASS", "FIELD"}:               true,
	{"CLASS", "CONSTRUCTOR"}:         true,
	{"CLASS", "FUNCTION"}:            true, // Python/Kotlin methods are function definitions in a class body
	{"INTERFACE", "METHOD"}:          true,
	{"INTERFACE", "FIELD"}:           true,
	{"ENUM", "ENUM_CONSTANT"}:        true,
	{"ENUM", "METHOD"}:               true,
	{"ENUM", "FIELD"}:                true,
	{"STRUCT", "FIELD"}:              true,
	{"STRUCT", "METHOD"}:             true,
	{"STRUCT", "ASSOCIATED_FUNCTION"}: true,
	{"TRAIT", "METHOD"}:              true,
	{"TRAIT", "ASSOCIATED_FUNCTION"}: true,
	{"IMPL", "METHOD"}:               true,
	{"IMPL", "ASSOCIATED_FUNCTION"}:  true,
	{"IMPL", "FUNCTION"}:             true,
	{"RECORD", "FIELD"}:              true,
	{"RECORD", "METHOD"}:             true,
	{"UNION", "FIELD"}:               true,
	{"UNION", "METHOD"}:              true,
	{"FUNCTION", "FUNCTION"}:         true, // nested/closure functions
	{"FUNCTION", "LAMBDA"}:           true,
	{"METHOD", "LAMBDA"}:             true,
	{"METHOD", "FUNCTION"}:           true, // function nested inside a method
}

// containmentEdge returns the relationship kind name for a parent→child
// definition pair, and false if the pair has no entry in the allow-list
// (in which case the caller emits no edge at all).
func containmentEdge(parent, child types.DefinitionKind) (string, bool) {
	key := [2]string{kindGroup(parent), kindGroup(child)}
	if !containmentAllow[key] {
		return "", false
	}
	return kindGroup(parent) + "_TO_" + kindGroup(child), true
}
