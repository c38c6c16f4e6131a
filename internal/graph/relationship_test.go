package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRelationshipTypeMappingSeedsCanonicalNames(t *testing.T) {
	m := NewRelationshipTypeMapping()

	id, ok := m.TypeID(ClassToMethod)
	require.True(t, ok)
	assert.NotZero(t, id)

	id, ok = m.TypeID(Calls)
	require.True(t, ok)
	assert.NotZero(t, id)

	_, ok = m.TypeID("DIR_CONTAINS_DIR") // id 1, not zero
	require.True(t, ok)
}

func TestRegisterIsIdempotent(t *testing.T) {
	m := NewRelationshipTypeMapping()

	first, err := m.Register(ClassToMethod)
	require.NoError(t, err)
	second, err := m.Register(ClassToMethod)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRegisterAssignsNextFreeIDToNewNames(t *testing.T) {
	m := NewRelationshipTypeMapping()
	before := len(m.AllMappings())

	id, err := m.Register("STRUCT_TO_FIELD")
	require.NoError(t, err)
	assert.NotZero(t, id)

	name, ok := m.TypeName(id)
	require.True(t, ok)
	assert.Equal(t, "STRUCT_TO_FIELD", name)
	assert.Len(t, m.AllMappings(), before+1)
}

func TestRegisterOverflowsPastByteRange(t *testing.T) {
	m := NewRelationshipTypeMapping()

	for i := 0; i < 300; i++ {
		_, err := m.Register(fmt.Sprintf("KIND_%d", i))
		if err != nil {
			assert.Contains(t, err.Error(), "type_id_overflow")
			return
		}
	}
	t.Fatal("expected registering 300 distinct names to overflow the byte id space")
}

func TestRelationshipTableForAllowedAndUnlistedPairs(t *testing.T) {
	table, ok := RelationshipTableFor(TableDirectory, TableDirectory)
	require.True(t, ok)
	assert.Equal(t, TableDirectoryRelationships, table)

	table, ok = RelationshipTableFor(TableFile, TableDefinition)
	require.True(t, ok)
	assert.Equal(t, TableFileRelationships, table)

	table, ok = RelationshipTableFor(TableDefinition, TableImportedSymbol)
	require.True(t, ok)
	assert.Equal(t, TableDefinitionRelationships, table)

	_, ok = RelationshipTableFor(TableFile, TableDirectory)
	assert.False(t, ok, "File -> Directory is not a listed endpoint pair")
}
