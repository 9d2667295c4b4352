package resolver

// ScopeKind distinguishes a function body's scope (where `return` targets
// and where block-scoped locals bottom out) from a plain nested block and
// from a module's top-level scope.
type ScopeKind uint8

const (
	ScopeKindModule ScopeKind = iota
	ScopeKindFunction
	ScopeKindBlock
)

// Scope is one lexical scope: a function body, a nested block, or a
// module's top level. Declarations are not stored on the Scope itself —
// they live in the Resolver's declaration table keyed by (Symbol, ScopeId)
// — so a Scope only needs its kind, its parent for the walk-up search, and
// the imports/modules it can also resolve names through.
type Scope struct {
	Kind    ScopeKind
	Parent  ScopeId
	Imports []DeclarationId
	Modules []DeclarationId
}

// DeclarationKind is the payload carried by a Declaration, mirroring the
// distinct things a name in Dust can refer to.
type DeclarationKind uint8

const (
	DeclFunction DeclarationKind = iota
	DeclNativeFunction
	DeclLocal
	DeclLocalMutable
	DeclModule
	DeclType
)

// FunctionInfo is the extra data carried by a DeclFunction declaration.
type FunctionInfo struct {
	InnerScope      ScopeId
	ParametersStart uint32
	ParametersCount uint32
	// PrototypeIndex is set by the compiler when it reserves this function's
	// Prototype slot, before any function body is compiled; -1 (encoded as
	// math.MaxUint32) until then.
	PrototypeIndex uint32
}

const NoPrototypeIndex = ^uint32(0)

// Declaration records what a name in a given scope refers to.
type Declaration struct {
	Kind     DeclarationKind
	ScopeID  ScopeId
	TypeID   TypeId
	IsPublic bool
	Mutable  bool

	// Function is only meaningful when Kind == DeclFunction.
	Function FunctionInfo
	// ModuleScope is only meaningful when Kind == DeclModule.
	ModuleScope ScopeId
}

// declarationKey is the composite key a declaration is stored under: the
// same identifier text can be declared in many different scopes, so the
// scope id must be part of the key, not just the name's hash.
type declarationKey struct {
	symbol  Symbol
	scopeID ScopeId
}
