package runtime

import (
	"fmt"
	"sort"
)

// ScopeKind tags an environment so that `var` declarations know where to land.
type ScopeKind int

const (
	ScopeRoot ScopeKind = iota
	ScopeFunction
	ScopeBlock
	ScopeLoop
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeRoot:
		return "root"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeLoop:
		return "loop"
	default:
		return fmt.Sprintf("unknown_scope_%d", int(k))
	}
}

// DeclarationKind selects the binding discipline used by Declare.
type DeclarationKind int

const (
	// DeclareVar hoists to the nearest function or root scope and overwrites.
	DeclareVar DeclarationKind = iota
	// DeclareLet binds mutably in the current scope and rejects redeclaration.
	DeclareLet
	// DeclareConst binds immutably in the current scope and rejects redeclaration.
	DeclareConst
)

type Mutability int

const (
	Mutable Mutability = iota
	Immutable
)

// Binding is a single storage cell.
type Binding struct {
	mutability Mutability
	value      Value
}

func NewBinding(mutability Mutability, value Value) *Binding {
	if value == nil {
		value = Undefined
	}
	return &Binding{mutability: mutability, value: value}
}

func (b *Binding) Value() Value { return b.value }

func (b *Binding) Mutability() Mutability { return b.mutability }

// Set stores value unless the binding is immutable; the stored value is left
// untouched on failure.
func (b *Binding) Set(value Value) bool {
	if b.mutability == Immutable {
		return false
	}
	if value == nil {
		value = Undefined
	}
	b.value = value
	return true
}

// RedeclarationError reports a let/const name already bound in its scope.
type RedeclarationError struct {
	Name string
}

func (e *RedeclarationError) Error() string {
	return fmt.Sprintf("Identifier '%s' has already been declared", e.Name)
}

// ImmutableBindingError reports a write to a const binding.
type ImmutableBindingError struct {
	Name string
}

func (e *ImmutableBindingError) Error() string {
	return "Assignment to constant variable."
}

// Environment is one lexical scope in a parent-linked chain.
type Environment struct {
	kind   ScopeKind
	values map[string]*Binding
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment, kind ScopeKind) *Environment {
	return &Environment{
		kind:   kind,
		values: make(map[string]*Binding),
		parent: parent,
	}
}

func (e *Environment) Kind() ScopeKind { return e.kind }

// Parent exposes the lexical parent (nil for the root).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// HoistTarget returns the nearest function-or-root environment.
func (e *Environment) HoistTarget() *Environment {
	env := e
	for env.kind != ScopeFunction && env.kind != ScopeRoot && env.parent != nil {
		env = env.parent
	}
	return env
}

// Declare installs a binding following the rules of kind.
func (e *Environment) Declare(kind DeclarationKind, name string, value Value) error {
	switch kind {
	case DeclareVar:
		e.HoistTarget().values[name] = NewBinding(Mutable, value)
		return nil
	case DeclareLet, DeclareConst:
		if _, exists := e.values[name]; exists {
			return &RedeclarationError{Name: name}
		}
		mutability := Mutable
		if kind == DeclareConst {
			mutability = Immutable
		}
		e.values[name] = NewBinding(mutability, value)
		return nil
	default:
		return fmt.Errorf("runtime: unknown declaration kind %d", int(kind))
	}
}

// Define inserts or shadows a binding in the current scope unconditionally.
func (e *Environment) Define(name string, mutability Mutability, value Value) *Binding {
	binding := NewBinding(mutability, value)
	e.values[name] = binding
	return binding
}

// Lookup retrieves a binding, searching outward through the scope chain.
func (e *Environment) Lookup(name string) (*Binding, bool) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.values[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// HasOwn reports whether name is bound directly in this environment.
func (e *Environment) HasOwn(name string) bool {
	_, ok := e.values[name]
	return ok
}

// Write stores value through binding, reporting const violations.
func (e *Environment) Write(name string, binding *Binding, value Value) error {
	if !binding.Set(value) {
		return &ImmutableBindingError{Name: name}
	}
	return nil
}

// Get is a convenience wrapper around Lookup for reads.
func (e *Environment) Get(name string) (Value, bool) {
	b, ok := e.Lookup(name)
	if !ok {
		return nil, false
	}
	return b.value, true
}

// Snapshot returns a copy of the current scope's values.
func (e *Environment) Snapshot() map[string]Value {
	out := make(map[string]Value, len(e.values))
	for k, b := range e.values {
		out[k] = b.value
	}
	return out
}

// Keys returns the bindings in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extend creates a child scope of the given kind.
func (e *Environment) Extend(kind ScopeKind) *Environment {
	return NewEnvironment(e, kind)
}
