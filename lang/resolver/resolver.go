package resolver

import (
	"github.com/dolthub/swiss"

	"github.com/dust-lang/dust/lang/syntax"
)

// Resolver owns every scope, declaration and type produced while binding a
// program. lang/binder populates it by walking the syntax tree;
// lang/compiler reads it back to resolve names and decide instruction
// operand types.
type Resolver struct {
	// declarations is insertion-ordered (a DeclarationId is its index), with
	// declarationIndex providing the (symbol, scope) -> id lookup a plain
	// append-only slice can't.
	declarations     []Declaration
	declarationIndex *swiss.Map[declarationKey, DeclarationId]

	parameters []DeclarationId

	scopes []Scope

	// scopeBindings records which scope a given syntax node (function item,
	// function body block) resolved in, consulted by the compiler so it does not
	// need to re-walk the scope chain at codegen time.
	scopeBindings *swiss.Map[syntax.SyntaxId, ScopeId]

	// typeNodes is insertion-ordered the same way declarations is, so a
	// TypeId doubles as an index.
	typeNodes     []TypeNode
	typeNodeIndex *swiss.Map[TypeNode, TypeId]

	typeMembers []TypeId

	nextInferredTypeID uint32
}

// New returns a Resolver seeded with the native scope and the main-function
// scope and declaration, in the bootstrap order of the original
// implementation's Resolver::new. No native function declarations are
// added.
func New() *Resolver {
	r := &Resolver{
		declarationIndex: swiss.NewMap[declarationKey, DeclarationId](64),
		scopeBindings:    swiss.NewMap[syntax.SyntaxId, ScopeId](64),
		typeNodeIndex:    swiss.NewMap[TypeNode, TypeId](64),
	}

	nativeScope := r.AddScope(Scope{Kind: ScopeKindModule, Parent: ScopeMain})
	mainScope := r.AddScope(Scope{Kind: ScopeKindFunction, Parent: ScopeMain})
	if nativeScope != ScopeNative || mainScope != ScopeMain {
		panic("resolver: bootstrap scope ids drifted from their sentinels")
	}

	mainID := r.AddDeclaration("main", Declaration{
		Kind:    DeclFunction,
		ScopeID: ScopeMain,
		TypeID:  TypeNone,
		Function: FunctionInfo{
			InnerScope:     ScopeMain,
			PrototypeIndex: 0,
		},
		IsPublic: true,
	})
	if mainID != DeclarationMain {
		panic("resolver: bootstrap main declaration id drifted from its sentinel")
	}

	return r
}

// AddScope appends a new scope and returns its id.
func (r *Resolver) AddScope(s Scope) ScopeId {
	id := ScopeId(len(r.scopes))
	r.scopes = append(r.scopes, s)
	return id
}

func (r *Resolver) Scope(id ScopeId) Scope { return r.scopes[id] }

func (r *Resolver) SetScope(id ScopeId, s Scope) { r.scopes[id] = s }

func (r *Resolver) BindScope(node syntax.SyntaxId, scope ScopeId) {
	r.scopeBindings.Put(node, scope)
}

func (r *Resolver) ScopeBinding(node syntax.SyntaxId) (ScopeId, bool) {
	return r.scopeBindings.Get(node)
}

// AddDeclaration inserts a declaration under the given identifier, scoped
// to declaration.ScopeID, and returns its id.
func (r *Resolver) AddDeclaration(identifier string, declaration Declaration) DeclarationId {
	id := DeclarationId(len(r.declarations))
	key := declarationKey{symbol: newSymbol(identifier), scopeID: declaration.ScopeID}

	r.declarations = append(r.declarations, declaration)
	r.declarationIndex.Put(key, id)

	return id
}

func (r *Resolver) Declaration(id DeclarationId) Declaration { return r.declarations[id] }

func (r *Resolver) SetDeclaration(id DeclarationId, d Declaration) { r.declarations[id] = d }

// AddParameters appends parameter declaration ids to the shared parameter
// table and returns the (start, count) range to store on a FunctionInfo.
func (r *Resolver) AddParameters(ids []DeclarationId) (start, count uint32) {
	start = uint32(len(r.parameters))
	r.parameters = append(r.parameters, ids...)
	return start, uint32(len(ids))
}

func (r *Resolver) Parameters(start, count uint32) []DeclarationId {
	return r.parameters[start : start+count]
}

// FindDeclarationInScope looks up identifier starting at targetScope,
// checking the scope's own declarations, then its imports, then its
// modules, then (if the scope is a plain block) its parent, exactly as
// Resolver::find_declaration_in_scope does in the original implementation.
func (r *Resolver) FindDeclarationInScope(identifier string, targetScope ScopeId) (DeclarationId, Declaration, bool) {
	symbol := newSymbol(identifier)
	currentScopeID := targetScope

	for {
		key := declarationKey{symbol: symbol, scopeID: currentScopeID}
		if id, ok := r.declarationIndex.Get(key); ok {
			return id, r.declarations[id], true
		}

		current := r.scopes[currentScopeID]

		for _, importID := range current.Imports {
			importDecl := r.declarations[importID]
			if id, ok := r.declarationIndex.Get(declarationKey{symbol: symbol, scopeID: importDecl.ScopeID}); ok {
				return id, r.declarations[id], true
			}
		}

		for _, moduleID := range current.Modules {
			moduleDecl := r.declarations[moduleID]
			if id, ok := r.declarationIndex.Get(declarationKey{symbol: symbol, scopeID: moduleDecl.ScopeID}); ok {
				return id, r.declarations[id], true
			}
		}

		if current.Kind != ScopeKindBlock || currentScopeID == 0 {
			break
		}
		currentScopeID = current.Parent
	}

	return 0, Declaration{}, false
}
