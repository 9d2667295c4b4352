// Package resolver implements the Resolver component of the compilation
// pipeline: it owns scopes, declarations and the type table, and answers
// name/type queries for the binder and compiler. It never walks the syntax
// tree itself — that is lang/binder's job.
package resolver

import "math"

// ScopeId identifies a lexical scope.
type ScopeId uint32

const (
	// ScopeNative holds the built-in native function declarations.
	ScopeNative ScopeId = 0
	// ScopeMain is the top-level scope of the program being compiled.
	ScopeMain ScopeId = 1
)

// DeclarationId identifies a declaration by its insertion order.
type DeclarationId uint32

// DeclarationMain is the declaration id reserved for the implicit `main`
// function every program compiles into.
const DeclarationMain DeclarationId = 0

// TypeId identifies a resolved or inferred type. The seven primitive types
// occupy sentinel values at the top of the uint32 range so they need no
// table lookup; every other TypeId indexes into the Resolver's type table.
type TypeId uint32

const (
	TypeNone TypeId = math.MaxUint32 - iota
	TypeBoolean
	TypeByte
	TypeCharacter
	TypeFloat
	TypeInteger
	TypeString
)

// IsPrimitive reports whether id is one of the seven sentinel primitive
// types rather than an index into the type table.
func (id TypeId) IsPrimitive() bool {
	return id >= TypeString && id <= TypeNone
}

// Symbol is a hash of an identifier's text, used as (half of) the key into
// the declaration table instead of storing and comparing the string
// itself on every lookup.
type Symbol struct {
	hash uint64
}
