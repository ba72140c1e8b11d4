package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/parser"
)

// Source is program text together with where it was read from.
type Source struct {
	Path string
	Data []byte
	// Commit is the resolved commit hash when read from a git revision.
	Commit string
}

// ReadFile loads program text from the working tree.
func ReadFile(path string) (*Source, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("source: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", absPath, err)
	}
	return &Source{Path: absPath, Data: data}, nil
}

// ReadRevision loads path as it exists at rev in the git repository that
// contains it. rev accepts anything go-git resolves: hashes, branches, tags
// and expressions like HEAD~1.
func ReadRevision(path, rev string) (*Source, error) {
	rev = strings.TrimSpace(rev)
	if rev == "" {
		return nil, fmt.Errorf("source: empty revision")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("source: resolve %s: %w", path, err)
	}
	absPath = resolveSymlinks(absPath)
	repo, err := git.PlainOpenWithOptions(filepath.Dir(absPath), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("source: open repository for %s: %w", absPath, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("source: worktree: %w", err)
	}
	root := resolveSymlinks(worktree.Filesystem.Root())
	rel, err := filepath.Rel(root, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("source: %s is outside repository %s", absPath, root)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("source: resolve revision %s: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("source: commit %s: %w", hash, err)
	}
	file, err := commit.File(filepath.ToSlash(rel))
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("source: %s does not exist at %s: %w", filepath.ToSlash(rel), rev, err)
		}
		return nil, fmt.Errorf("source: read %s at %s: %w", filepath.ToSlash(rel), rev, err)
	}
	contents, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("source: read %s at %s: %w", filepath.ToSlash(rel), rev, err)
	}
	return &Source{Path: absPath, Data: []byte(contents), Commit: hash.String()}, nil
}

// resolveSymlinks evaluates path when possible. A file missing from the
// working tree may still exist at an older revision, so only its directory
// is required to exist.
func resolveSymlinks(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(path)); err == nil {
		return filepath.Join(dir, filepath.Base(path))
	}
	return path
}

// DetectFormat picks a front-end from the file extension.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatESTree
	}
	return FormatJS
}

// Parse lowers src into a program. FormatAuto chooses by extension.
func Parse(src *Source, format Format) (*ast.Program, error) {
	if src == nil {
		return nil, fmt.Errorf("source: nil source")
	}
	if format == FormatAuto {
		format = DetectFormat(src.Path)
	}
	switch format {
	case FormatJS:
		program, err := parser.ParseProgram(src.Data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", src.Path, err)
		}
		return program, nil
	case FormatESTree:
		program, err := ast.DecodeJSON(src.Data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", src.Path, err)
		}
		return program, nil
	default:
		return nil, fmt.Errorf("source: unknown format %q", format)
	}
}
