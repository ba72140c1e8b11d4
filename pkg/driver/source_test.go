package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

func commitAll(t *testing.T, repo *git.Repository, message string) string {
	t.Helper()
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "tinyjs",
			Email: "tinyjs@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func TestReadRevision(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	path := filepath.Join(dir, "src", "main.js")
	writeFile(t, path, "exports.v = 1;\n")
	first := commitAll(t, repo, "first")
	writeFile(t, path, "exports.v = 2;\n")
	commitAll(t, repo, "second")
	writeFile(t, path, "exports.v = 3;\n")

	src, err := ReadRevision(path, first)
	if err != nil {
		t.Fatalf("ReadRevision(first): %v", err)
	}
	if string(src.Data) != "exports.v = 1;\n" || src.Commit != first {
		t.Fatalf("unexpected source %q at %s", src.Data, src.Commit)
	}
	src, err = ReadRevision(path, "HEAD")
	if err != nil {
		t.Fatalf("ReadRevision(HEAD): %v", err)
	}
	if string(src.Data) != "exports.v = 2;\n" {
		t.Fatalf("HEAD content = %q", src.Data)
	}
	src, err = ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(src.Data) != "exports.v = 3;\n" {
		t.Fatalf("working tree content = %q", src.Data)
	}
}

func TestReadRevisionDeletedFile(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	path := filepath.Join(dir, "gone.js")
	writeFile(t, path, "exports.gone = true;\n")
	writeFile(t, filepath.Join(dir, "keep.js"), "\n")
	commitAll(t, repo, "init")
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	src, err := ReadRevision(path, "HEAD")
	if err != nil {
		t.Fatalf("ReadRevision: %v", err)
	}
	if !strings.Contains(string(src.Data), "gone = true") {
		t.Fatalf("unexpected content %q", src.Data)
	}
}

func TestReadRevisionErrors(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	writeFile(t, filepath.Join(dir, "main.js"), "1;\n")
	commitAll(t, repo, "init")

	if _, err := ReadRevision(filepath.Join(dir, "missing.js"), "HEAD"); err == nil || !strings.Contains(err.Error(), "does not exist at HEAD") {
		t.Fatalf("expected missing file error, got %v", err)
	}
	if _, err := ReadRevision(filepath.Join(dir, "main.js"), "no-such-branch"); err == nil || !strings.Contains(err.Error(), "resolve revision") {
		t.Fatalf("expected revision error, got %v", err)
	}
	if _, err := ReadRevision(filepath.Join(t.TempDir(), "main.js"), "HEAD"); err == nil || !strings.Contains(err.Error(), "open repository") {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestParseSelectsFrontEnd(t *testing.T) {
	js := &Source{Path: "main.js", Data: []byte("exports.v = 40 + 2;")}
	program, err := Parse(js, FormatAuto)
	if err != nil {
		t.Fatalf("Parse js: %v", err)
	}
	if len(program.Body) != 1 {
		t.Fatalf("expected one statement, got %d", len(program.Body))
	}

	estree := &Source{Path: "main.json", Data: []byte(`{
  "type": "Program",
  "body": [
    {
      "type": "ExpressionStatement",
      "expression": {
        "type": "AssignmentExpression",
        "operator": "=",
        "left": {
          "type": "MemberExpression",
          "computed": false,
          "object": {"type": "Identifier", "name": "exports"},
          "property": {"type": "Identifier", "name": "v"}
        },
        "right": {"type": "Literal", "value": 42, "raw": "42"}
      }
    }
  ]
}`)}
	program, err = Parse(estree, FormatAuto)
	if err != nil {
		t.Fatalf("Parse estree: %v", err)
	}
	stmt, ok := program.Body[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected expression statement, got %T", program.Body[0])
	}
	if stmt.Expression.NodeType() != ast.NodeAssignmentExpression {
		t.Fatalf("unexpected expression %s", stmt.Expression.NodeType())
	}

	if _, err := Parse(js, FormatESTree); err == nil {
		t.Fatalf("expected decode error for JavaScript text read as ESTree")
	}
	if _, err := Parse(&Source{Path: "bad.js", Data: []byte("var = ;")}, FormatJS); err == nil {
		t.Fatalf("expected syntax error")
	}
}
