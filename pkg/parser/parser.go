// Package parser lowers JavaScript source into pkg/ast trees using the
// tree-sitter JavaScript grammar. The evaluator never depends on it; it is
// the reference front-end for the CLI and for end-to-end tests.
package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
)

// logicalOperators become LogicalExpression; every other binary_expression
// operator becomes BinaryExpression.
var logicalOperators = map[string]bool{"&&": true, "||": true, "??": true}

// Parser wraps a tree-sitter parser configured for JavaScript.
type Parser struct {
	parser *sitter.Parser
}

// NewParser constructs a parser with the JavaScript language loaded.
func NewParser() (*Parser, error) {
	lang := sitter.NewLanguage(javascript.Language())
	if lang == nil {
		return nil, fmt.Errorf("parser: javascript language not available")
	}
	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, fmt.Errorf("parser: %w", err)
	}
	return &Parser{parser: p}, nil
}

// Close releases parser resources.
func (p *Parser) Close() {
	if p == nil || p.parser == nil {
		return
	}
	p.parser.Close()
}

// SyntaxError reports the first error or missing node in the parse tree.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parser: %d:%d: %s", e.Line, e.Column, e.Message)
}

// Parse converts source into a Program. Syntax the grammar rejects yields a
// *SyntaxError; constructs the evaluator does not model (classes, labels,
// modules) lower to raw nodes so evaluation reports them precisely.
func (p *Parser) Parse(source []byte) (*ast.Program, error) {
	if p == nil || p.parser == nil {
		return nil, fmt.Errorf("parser: nil parser")
	}
	tree := p.parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parser: parse failed")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.Kind() != "program" {
		return nil, fmt.Errorf("parser: unexpected root node")
	}
	if root.HasError() {
		return nil, syntaxErrorAt(root, source)
	}

	l := &lowerer{source: source}
	body, err := l.statementList(namedChildren(root))
	if err != nil {
		return nil, err
	}
	program := ast.NewProgram(body)
	locate(program, root)
	return program, nil
}

// ParseProgram parses source with a throwaway Parser.
func ParseProgram(source []byte) (*ast.Program, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Parse(source)
}

func syntaxErrorAt(root *sitter.Node, source []byte) error {
	bad := findErrorNode(root)
	if bad == nil {
		return &SyntaxError{Line: 1, Column: 0, Message: "syntax error"}
	}
	pos := bad.StartPosition()
	msg := "unexpected token"
	if bad.IsMissing() {
		msg = fmt.Sprintf("missing %s", bad.Kind())
	} else if text := sliceContent(bad, source); text != "" {
		if len(text) > 20 {
			text = text[:20] + "..."
		}
		msg = fmt.Sprintf("unexpected %q", text)
	}
	return &SyntaxError{Line: int(pos.Row) + 1, Column: int(pos.Column), Message: msg}
}

// lowerer carries the source buffer through the CST walk.
type lowerer struct {
	source []byte
}

func (l *lowerer) text(node *sitter.Node) string {
	return sliceContent(node, l.source)
}

func (l *lowerer) errorf(node *sitter.Node, format string, args ...any) error {
	pos := node.StartPosition()
	return &SyntaxError{Line: int(pos.Row) + 1, Column: int(pos.Column), Message: fmt.Sprintf(format, args...)}
}
