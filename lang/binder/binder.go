// Package binder walks a lang/syntax.Tree and populates a lang/resolver
// Resolver with the declarations (functions, modules, imports, parameters)
// it finds. It never evaluates expressions or binds local `let` statements
// inside a function body — those are bound on the fly by lang/compiler as
// it walks each function's statements, mirroring how the original
// implementation's Binder only forward-declares items while local bindings
// happen during compilation.
package binder

import (
	"fmt"

	"github.com/dust-lang/dust/lang/resolver"
	"github.com/dust-lang/dust/lang/syntax"
)

// Error reports a problem found while binding.
type Error struct {
	Span    syntax.Span
	Message string
}

func (e *Error) Error() string { return e.Message }

// Binder binds one source file's syntax tree into a shared Resolver.
type Binder struct {
	file     syntax.SourceFileId
	tree     *syntax.Tree
	resolver *resolver.Resolver
	scope    resolver.ScopeId
	errors   []error
}

// New returns a Binder that will bind tree's items into scope within
// resolver.
func New(file syntax.SourceFileId, tree *syntax.Tree, res *resolver.Resolver, scope resolver.ScopeId) *Binder {
	return &Binder{file: file, tree: tree, resolver: res, scope: scope}
}

// BindFile binds every item in the tree's root KindFile node, collecting
// (rather than stopping at) the first error so a single compilation pass
// can report every undeclared-import or malformed-item problem at once.
func (b *Binder) BindFile(root syntax.SyntaxId) []error {
	node := b.tree.Node(root)
	if node.Kind != syntax.KindFile {
		b.fail(node.Span, "binder: expected a file node at the tree root")
		return b.errors
	}

	start, count := node.Children[0], node.Children[1]
	for _, item := range b.tree.List(start, count) {
		b.bindItem(item)
	}
	return b.errors
}

func (b *Binder) fail(span syntax.Span, format string, args ...any) {
	b.errors = append(b.errors, &Error{Span: span, Message: fmt.Sprintf(format, args...)})
}

func (b *Binder) bindItem(id syntax.SyntaxId) {
	node := b.tree.Node(id)
	switch node.Kind {
	case syntax.KindFunctionItem:
		b.bindFunctionItem(id, node)
	case syntax.KindUseItem:
		b.bindUseItem(node)
	case syntax.KindModuleItem:
		b.bindModuleItem(node)
	default:
		b.fail(node.Span, "binder: unexpected item kind %d", node.Kind)
	}
}

// bindFunctionItem declares the function in the current scope and its
// parameters in a freshly allocated function scope, resolving parameter
// and return type annotations into TypeIds along the way.
func (b *Binder) bindFunctionItem(itemID syntax.SyntaxId, node syntax.Node) {
	start, count := node.Children[0], node.Children[1]
	children := b.tree.List(start, count)
	nameID, retTypeID, bodyID := children[0], children[1], children[2]
	paramIDs := children[3:]

	name := b.tree.Name(b.tree.Node(nameID).Children[0])
	functionScope := b.resolver.AddScope(resolver.Scope{Kind: resolver.ScopeKindFunction, Parent: b.scope})

	valueParamTypes := make([]resolver.TypeId, 0, len(paramIDs))
	declIDs := make([]resolver.DeclarationId, 0, len(paramIDs))

	for _, paramID := range paramIDs {
		paramNode := b.tree.Node(paramID)
		paramNameID, paramTypeID := paramNode.Double()
		paramName := b.tree.Name(b.tree.Node(paramNameID).Children[0])
		typeID := b.resolveType(paramTypeID)

		declID := b.resolver.AddDeclaration(paramName, resolver.Declaration{
			Kind:    resolver.DeclLocal,
			ScopeID: functionScope,
			TypeID:  typeID,
		})

		valueParamTypes = append(valueParamTypes, typeID)
		declIDs = append(declIDs, declID)
	}

	var returnType resolver.TypeId = resolver.TypeNone
	if retTypeID != syntax.NoSyntaxId {
		returnType = b.resolveType(retTypeID)
	}

	functionType := b.resolver.AddFunctionType(nil, valueParamTypes, returnType)
	paramsStart, paramsCount := b.resolver.AddParameters(declIDs)

	b.resolver.AddDeclaration(name, resolver.Declaration{
		Kind:    resolver.DeclFunction,
		ScopeID: b.scope,
		TypeID:  functionType,
		Function: resolver.FunctionInfo{
			InnerScope:      functionScope,
			ParametersStart: paramsStart,
			ParametersCount: paramsCount,
			PrototypeIndex:  resolver.NoPrototypeIndex,
		},
		IsPublic: true,
	})

	b.resolver.BindScope(itemID, functionScope)
	b.resolver.BindScope(bodyID, functionScope)
}

// bindUseItem resolves a `use a::b::c` path segment by segment, descending
// into module scopes, and records the final declaration as an import
// reachable from the importing scope.
func (b *Binder) bindUseItem(node syntax.Node) {
	start, count := node.Children[0], node.Children[1]
	segments := b.tree.List(start, count)

	currentScope := b.scope
	var lastID resolver.DeclarationId
	var found bool

	for _, segID := range segments {
		name := b.tree.Name(b.tree.Node(segID).Children[0])
		declID, decl, ok := b.resolver.FindDeclarationInScope(name, currentScope)
		if !ok {
			b.fail(b.tree.Node(segID).Span, "binder: undeclared name %q", name)
			return
		}
		lastID, found = declID, true
		if decl.Kind == resolver.DeclModule {
			currentScope = decl.ModuleScope
		} else {
			currentScope = decl.ScopeID
		}
	}

	if !found {
		return
	}
	scope := b.resolver.Scope(b.scope)
	scope.Imports = append(scope.Imports, lastID)
	b.resolver.SetScope(b.scope, scope)
}

// bindModuleItem declares a nested module and recursively binds its items
// into a fresh scope.
func (b *Binder) bindModuleItem(node syntax.Node) {
	start, count := node.Children[0], node.Children[1]
	children := b.tree.List(start, count)
	nameID, items := children[0], children[1:]

	name := b.tree.Name(b.tree.Node(nameID).Children[0])
	moduleScope := b.resolver.AddScope(resolver.Scope{Kind: resolver.ScopeKindModule, Parent: b.scope})

	b.resolver.AddDeclaration(name, resolver.Declaration{
		Kind:        resolver.DeclModule,
		ScopeID:     b.scope,
		TypeID:      resolver.TypeNone,
		ModuleScope: moduleScope,
		IsPublic:    true,
	})

	inner := &Binder{file: b.file, tree: b.tree, resolver: b.resolver, scope: moduleScope}
	for _, item := range items {
		inner.bindItem(item)
	}
	b.errors = append(b.errors, inner.errors...)
}

// resolveType interns a type annotation's syntax node into a TypeId, using
// the resolver's type table for compound shapes and its inferred-type
// machinery for `_`.
func (b *Binder) resolveType(id syntax.SyntaxId) resolver.TypeId {
	node := b.tree.Node(id)
	switch node.Kind {
	case syntax.KindTypeName:
		return b.resolvePrimitiveName(b.tree.Name(node.Children[0]), node.Span)

	case syntax.KindListType:
		elem := b.resolveType(node.Single())
		return b.resolver.AddListType(elem)

	case syntax.KindFunctionType:
		start, count := node.Children[0], node.Children[1]
		all := b.tree.List(start, count)
		ret := b.resolveType(all[0])
		params := make([]resolver.TypeId, 0, len(all)-1)
		for _, p := range all[1:] {
			params = append(params, b.resolveType(p))
		}
		return b.resolver.AddFunctionType(nil, params, ret)

	case syntax.KindInferredType:
		return b.resolver.CreateInferredType()

	default:
		b.fail(node.Span, "binder: unexpected type node kind %d", node.Kind)
		return b.resolver.CreateInferredType()
	}
}

func (b *Binder) resolvePrimitiveName(name string, span syntax.Span) resolver.TypeId {
	switch name {
	case "bool":
		return resolver.TypeBoolean
	case "byte":
		return resolver.TypeByte
	case "char":
		return resolver.TypeCharacter
	case "float":
		return resolver.TypeFloat
	case "int":
		return resolver.TypeInteger
	case "str":
		return resolver.TypeString
	case "none":
		return resolver.TypeNone
	default:
		// A named type that isn't a recognized primitive is reported as an
		// unknown type. An inferred placeholder is returned in its place so
		// binding of the rest of the program can proceed.
		b.fail(span, "binder: unknown type %q", name)
		return b.resolver.CreateInferredType()
	}
}
