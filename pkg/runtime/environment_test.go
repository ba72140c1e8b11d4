package runtime

import (
	"errors"
	"testing"
)

func TestImmutableBindingRejectsWrites(t *testing.T) {
	root := NewEnvironment(nil, ScopeRoot)
	if err := root.Declare(DeclareConst, "answer", Num(42)); err != nil {
		t.Fatalf("declare failed: %v", err)
	}
	binding, ok := root.Lookup("answer")
	if !ok {
		t.Fatalf("expected answer to be bound")
	}
	err := root.Write("answer", binding, Num(7))
	var immutable *ImmutableBindingError
	if !errors.As(err, &immutable) {
		t.Fatalf("expected ImmutableBindingError, got %v", err)
	}
	got, _ := root.Get("answer")
	if !StrictEquals(got, Num(42)) {
		t.Fatalf("expected original value 42, got %#v", got)
	}
}

func TestVarHoistsPastBlockAndLoopScopes(t *testing.T) {
	root := NewEnvironment(nil, ScopeRoot)
	fn := root.Extend(ScopeFunction)
	loop := fn.Extend(ScopeLoop)
	block := loop.Extend(ScopeBlock)
	if err := block.Declare(DeclareVar, "x", Str("inner")); err != nil {
		t.Fatalf("declare failed: %v", err)
	}
	if block.HasOwn("x") || loop.HasOwn("x") {
		t.Fatalf("var must not bind in block or loop scopes")
	}
	if !fn.HasOwn("x") {
		t.Fatalf("expected var to land in the function scope")
	}
	if root.HasOwn("x") {
		t.Fatalf("var must stop at the nearest function scope")
	}
}

func TestVarRedeclarationOverwrites(t *testing.T) {
	root := NewEnvironment(nil, ScopeRoot)
	if err := root.Declare(DeclareVar, "x", Num(1)); err != nil {
		t.Fatalf("declare failed: %v", err)
	}
	if err := root.Declare(DeclareVar, "x", Num(2)); err != nil {
		t.Fatalf("redeclare failed: %v", err)
	}
	got, _ := root.Get("x")
	if !StrictEquals(got, Num(2)) {
		t.Fatalf("expected 2, got %#v", got)
	}
}

func TestLexicalRedeclarationFailsButShadowingWorks(t *testing.T) {
	root := NewEnvironment(nil, ScopeRoot)
	if err := root.Declare(DeclareLet, "y", Num(1)); err != nil {
		t.Fatalf("declare failed: %v", err)
	}
	var redeclared *RedeclarationError
	if err := root.Declare(DeclareConst, "y", Num(2)); !errors.As(err, &redeclared) {
		t.Fatalf("expected RedeclarationError, got %v", err)
	}
	block := root.Extend(ScopeBlock)
	if err := block.Declare(DeclareLet, "y", Num(3)); err != nil {
		t.Fatalf("shadowing failed: %v", err)
	}
	inner, _ := block.Get("y")
	outer, _ := root.Get("y")
	if !StrictEquals(inner, Num(3)) || !StrictEquals(outer, Num(1)) {
		t.Fatalf("unexpected shadowing result inner=%#v outer=%#v", inner, outer)
	}
}

func TestLookupWalksParentChain(t *testing.T) {
	root := NewEnvironment(nil, ScopeRoot)
	root.Define("g", Mutable, Str("global"))
	child := root.Extend(ScopeFunction).Extend(ScopeBlock)
	if _, ok := child.Lookup("missing"); ok {
		t.Fatalf("expected lookup miss")
	}
	b, ok := child.Lookup("g")
	if !ok {
		t.Fatalf("expected lookup hit through parents")
	}
	if err := child.Write("g", b, Str("changed")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, _ := root.Get("g")
	if !StrictEquals(got, Str("changed")) {
		t.Fatalf("expected write through shared binding, got %#v", got)
	}
	if keys := root.Keys(); len(keys) != 1 || keys[0] != "g" {
		t.Fatalf("unexpected keys %v", keys)
	}
}
