package parserfacade

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/codegraph/internal/types"
)

// NodeRange converts a tree-sitter node's 0-based row/column span into the
// 1-based Range this indexer persists everywhere else.
func NodeRange(n *tree_sitter.Node) types.Range {
	start := n.StartPosition()
	end := n.EndPosition()
	return types.Range{
		StartByte: int64(n.StartByte()),
		EndByte:   int64(n.EndByte()),
		StartLine: int32(start.Row) + 1,
		StartCol:  int32(start.Column) + 1,
		EndLine:   int32(end.Row) + 1,
		EndCol:    int32(end.Column) + 1,
	}
}

// NodeText returns the source slice a node spans.
func NodeText(n *tree_sitter.Node, content []byte) string {
	return string(content[n.StartByte():n.EndByte()])
}

// FieldText returns the text of n's named field, and false if the field is
// absent (an anonymous or partially-written construct).
func FieldText(n *tree_sitter.Node, field string, content []byte) (string, bool) {
	child := n.ChildByFieldName(field)
	if child == nil {
		return "", false
	}
	return NodeText(child, content), true
}

// Children returns n's named children (skipping anonymous/punctuation
// nodes), the traversal unit every analyzer walks.
func Children(n *tree_sitter.Node) []*tree_sitter.Node {
	count := n.NamedChildCount()
	out := make([]*tree_sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}
