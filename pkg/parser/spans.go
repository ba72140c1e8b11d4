package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
)

// spanFromNode converts tree-sitter's 0-based rows to ESTree's 1-based lines;
// columns stay 0-based.
func spanFromNode(node *sitter.Node) *ast.SourceLocation {
	start := node.StartPosition()
	end := node.EndPosition()
	return &ast.SourceLocation{
		Start: ast.Position{Line: int(start.Row) + 1, Column: int(start.Column)},
		End:   ast.Position{Line: int(end.Row) + 1, Column: int(end.Column)},
	}
}

func locate[T ast.Node](node T, tsNode *sitter.Node) T {
	if tsNode != nil {
		node.SetLocation(spanFromNode(tsNode))
	}
	return node
}
