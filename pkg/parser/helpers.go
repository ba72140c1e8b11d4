package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

func sliceContent(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := int(node.StartByte())
	end := int(node.EndByte())
	if start < 0 || end < start || end > len(source) {
		return ""
	}
	return string(source[start:end])
}

// namedChildren lists named children, skipping comments.
func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && !isIgnorableNode(child) {
			out = append(out, child)
		}
	}
	return out
}

// children lists every child, anonymous tokens included, skipping comments.
func children(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.ChildCount())
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && !isIgnorableNode(child) {
			out = append(out, child)
		}
	}
	return out
}

func firstNamedChild(node *sitter.Node) *sitter.Node {
	kids := namedChildren(node)
	if len(kids) == 0 {
		return nil
	}
	return kids[0]
}

// hasToken reports whether node has an anonymous child token with the given
// text, such as "async" or "*".
func hasToken(node *sitter.Node, token string) bool {
	for _, child := range children(node) {
		if !child.IsNamed() && child.Kind() == token {
			return true
		}
	}
	return false
}

func findErrorNode(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := findErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

func isIgnorableNode(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "comment", "hash_bang_line":
		return true
	default:
		return false
	}
}
