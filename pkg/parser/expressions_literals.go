package parser

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
)

func (l *lowerer) number(node *sitter.Node) (ast.Expression, error) {
	raw := l.text(node)
	if strings.HasSuffix(raw, "n") {
		return l.raw(ast.NodeType("BigIntLiteral"), node), nil
	}
	value, ok := parseNumber(raw)
	if !ok {
		return nil, l.errorf(node, "invalid number %q", raw)
	}
	return locate(ast.NewLiteral(value, raw), node), nil
}

// parseNumber handles decimal, hex, octal, binary and legacy octal forms,
// with numeric separators.
func parseNumber(raw string) (float64, bool) {
	s := strings.ReplaceAll(raw, "_", "")
	base := 0
	digits := s
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			base, digits = 16, s[2:]
		case 'o', 'O':
			base, digits = 8, s[2:]
		case 'b', 'B':
			base, digits = 2, s[2:]
		}
	}
	if base == 0 && len(s) > 1 && s[0] == '0' && strings.Trim(s, "01234567") == "" {
		base, digits = 8, s[1:]
	}
	if base != 0 {
		n, ok := new(big.Int).SetString(digits, base)
		if !ok {
			return 0, false
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f, true
		}
		return 0, false
	}
	return f, true
}

func (l *lowerer) stringLiteral(node *sitter.Node) (ast.Expression, error) {
	raw := l.text(node)
	if len(raw) < 2 {
		return nil, l.errorf(node, "malformed string literal")
	}
	value, err := unescape(raw[1 : len(raw)-1])
	if err != nil {
		return nil, l.errorf(node, "%v", err)
	}
	return locate(ast.NewLiteral(value, raw), node), nil
}

// template splits a template string on its substitutions by byte range so
// raw text is preserved exactly.
func (l *lowerer) template(node *sitter.Node) (ast.Expression, error) {
	var (
		quasis []*ast.TemplateElement
		exprs  []ast.Expression
	)
	prev := int(node.StartByte()) + 1
	addQuasi := func(end int, tail bool) error {
		raw := string(l.source[prev:end])
		cooked, err := unescape(strings.ReplaceAll(raw, "\r\n", "\n"))
		if err != nil {
			return l.errorf(node, "%v", err)
		}
		quasis = append(quasis, ast.NewTemplateElement(cooked, raw, tail))
		return nil
	}
	for _, child := range namedChildren(node) {
		if child.Kind() != "template_substitution" {
			continue
		}
		if err := addQuasi(int(child.StartByte()), false); err != nil {
			return nil, err
		}
		expr, err := l.expression(firstNamedChild(child))
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		prev = int(child.EndByte())
	}
	if err := addQuasi(int(node.EndByte())-1, true); err != nil {
		return nil, err
	}
	return locate(ast.NewTemplateLiteral(quasis, exprs), node), nil
}

type escapeError string

func (e escapeError) Error() string { return string(e) }

// unescape decodes string-literal escape sequences.
func unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", escapeError("unterminated escape sequence")
		}
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			if i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9' {
				return "", escapeError("octal escape sequences are not allowed")
			}
			b.WriteByte(0)
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\n':
		case 'x':
			if i+2 >= len(s) {
				return "", escapeError("invalid hexadecimal escape sequence")
			}
			n, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return "", escapeError("invalid hexadecimal escape sequence")
			}
			b.WriteRune(rune(n))
			i += 2
		case 'u':
			r, width, err := unicodeEscape(s[i+1:])
			if err != nil {
				return "", err
			}
			i += width
			// Combine a surrogate pair written as two escapes.
			if r >= 0xd800 && r < 0xdc00 && strings.HasPrefix(s[i+1:], `\u`) {
				if low, lw, err := unicodeEscape(s[i+3:]); err == nil && low >= 0xdc00 && low < 0xe000 {
					r = (r-0xd800)<<10 + (low - 0xdc00) + 0x10000
					i += 2 + lw
				}
			}
			if !utf8.ValidRune(r) {
				r = utf8.RuneError
			}
			b.WriteRune(r)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}

// unicodeEscape reads the body of a \u escape: XXXX or {X...}.
func unicodeEscape(s string) (rune, int, error) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0, escapeError("invalid Unicode escape sequence")
		}
		n, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || n > math.MaxInt32 || n > utf8.MaxRune {
			return 0, 0, escapeError("undefined Unicode code-point")
		}
		return rune(n), end + 1, nil
	}
	if len(s) < 4 {
		return 0, 0, escapeError("invalid Unicode escape sequence")
	}
	n, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, 0, escapeError("invalid Unicode escape sequence")
	}
	return rune(n), 4, nil
}
