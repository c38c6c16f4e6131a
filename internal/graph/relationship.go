// Package graph defines the node and relationship table schema (§4.D):
// the fixed set of node/relationship tables from §3, the canonical
// RelationshipType vocabulary, and the append-only RelationshipTypeMapping
// that assigns each relationship name a stable one-byte id.
package graph

import (
	"sync"

	"github.com/standardbeagle/codegraph/internal/cgerrors"
)

// Canonical relationship type names, seeded into every new
// RelationshipTypeMapping at id 1 upward. Names beyond this list (the
// per-language containment edges computed by internal/analysis, e.g.
// STRUCT_TO_FIELD) are registered dynamically the first time the writer
// encounters them.
const (
	DirContainsDir  = "DIR_CONTAINS_DIR"
	DirContainsFile = "DIR_CONTAINS_FILE"
	FileDefines     = "FILE_DEFINES"
	FileImports     = "FILE_IMPORTS"
	Calls           = "CALLS"
	AmbiguouslyCalls = "AMBIGUOUSLY_CALLS"
	PropertyReference = "PROPERTY_REFERENCE"

	ModuleToModule          = "MODULE_TO_MODULE"
	ModuleToClass           = "MODULE_TO_CLASS"
	ModuleToMethod          = "MODULE_TO_METHOD"
	ModuleToSingletonMethod = "MODULE_TO_SINGLETON_METHOD"
	ModuleToLambda          = "MODULE_TO_LAMBDA"
	ModuleToProc            = "MODULE_TO_PROC"
	ClassToMethod           = "CLASS_TO_METHOD"
	ClassToSingletonMethod  = "CLASS_TO_SINGLETON_METHOD"
	ClassToClass            = "CLASS_TO_CLASS"
	ClassToLambda           = "CLASS_TO_LAMBDA"
	ClassToProc             = "CLASS_TO_PROC"
)

// seedTypes lists the canonical names pre-registered at ids 1..len, in
// order, matching the original's RelationshipType::all_types table
// extended with the reference-edge kinds §3 also treats as canonical
// (FILE_IMPORTS, CALLS, AMBIGUOUSLY_CALLS, PROPERTY_REFERENCE).
var seedTypes = []string{
	DirContainsDir,
	DirContainsFile,
	FileDefines,
	FileImports,
	ModuleToModule,
	ModuleToClass,
	ModuleToMethod,
	ModuleToSingletonMethod,
	ModuleToLambda,
	ModuleToProc,
	ClassToMethod,
	ClassToSingletonMethod,
	ClassToClass,
	ClassToLambda,
	ClassToProc,
	Calls,
	AmbiguouslyCalls,
	PropertyReference,
}

// RelationshipTypeMapping assigns every relationship type name a stable
// uint8 id. The mapping is append-only for the lifetime of a database:
// names already registered always return the same id; unseen names are
// assigned the next free id, so a newly-introduced per-language
// containment edge (e.g. STRUCT_TO_FIELD) gets one without a schema
// change. Overflow past math.MaxUint8 is fatal (invariant 6).
type RelationshipTypeMapping struct {
	mu         sync.RWMutex
	typeToID   map[string]uint8
	idToType   map[uint8]string
	nextID     uint8
	overflowed bool
}

// NewRelationshipTypeMapping returns a mapping pre-seeded with the
// canonical relationship names at ids 1 upward, reserving 0 for unknown.
func NewRelationshipTypeMapping() *RelationshipTypeMapping {
	m := &RelationshipTypeMapping{
		typeToID: make(map[string]uint8),
		idToType: make(map[uint8]string),
		nextID:   1,
	}
	for _, name := range seedTypes {
		if _, err := m.Register(name); err != nil {
			// The seed list is fixed and far smaller than 255 entries;
			// overflow here would indicate the seed list itself is broken.
			panic(err)
		}
	}
	return m
}

// Register returns the id assigned to name, registering it at the next
// free id if it has not been seen before. Safe for concurrent use.
func (m *RelationshipTypeMapping) Register(name string) (uint8, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.typeToID[name]; ok {
		return id, nil
	}
	if m.overflowed {
		return 0, cgerrors.New(cgerrors.KindTypeIDOverflow, "register relationship type", nil).
			WithRecoverable(false)
	}

	id := m.nextID
	m.typeToID[name] = id
	m.idToType[id] = name

	if id == 255 {
		// id 255 itself is still valid and assigned above; the next
		// registration of an unseen name is the one that overflows.
		m.overflowed = true
	} else {
		m.nextID++
	}
	return id, nil
}

// TypeID returns the id for an already-registered name.
func (m *RelationshipTypeMapping) TypeID(name string) (uint8, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.typeToID[name]
	return id, ok
}

// TypeName returns the name registered at id.
func (m *RelationshipTypeMapping) TypeName(id uint8) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	name, ok := m.idToType[id]
	return name, ok
}

// AllMappings returns a snapshot copy of the full name->id table.
func (m *RelationshipTypeMapping) AllMappings() map[string]uint8 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]uint8, len(m.typeToID))
	for k, v := range m.typeToID {
		out[k] = v
	}
	return out
}
