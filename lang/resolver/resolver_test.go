package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dust-lang/dust/lang/resolver"
)

func TestNewBootstrapsMainScopeAndDeclaration(t *testing.T) {
	res := resolver.New()

	id, decl, ok := res.FindDeclarationInScope("main", resolver.ScopeMain)
	require.True(t, ok)
	require.Equal(t, resolver.DeclarationMain, id)
	require.Equal(t, resolver.DeclFunction, decl.Kind)
}

func TestAddDeclarationIsFindableInItsScope(t *testing.T) {
	res := resolver.New()
	scope := res.AddScope(resolver.Scope{Kind: resolver.ScopeKindBlock, Parent: resolver.ScopeMain})

	id := res.AddDeclaration("x", resolver.Declaration{Kind: resolver.DeclLocal, ScopeID: scope, TypeID: resolver.TypeInteger})

	found, decl, ok := res.FindDeclarationInScope("x", scope)
	require.True(t, ok)
	require.Equal(t, id, found)
	require.Equal(t, resolver.TypeInteger, decl.TypeID)
}

func TestFindDeclarationInScopeWalksUpBlockScopes(t *testing.T) {
	res := resolver.New()
	outer := res.AddScope(resolver.Scope{Kind: resolver.ScopeKindBlock, Parent: resolver.ScopeMain})
	inner := res.AddScope(resolver.Scope{Kind: resolver.ScopeKindBlock, Parent: outer})

	res.AddDeclaration("y", resolver.Declaration{Kind: resolver.DeclLocal, ScopeID: outer, TypeID: resolver.TypeBoolean})

	_, decl, ok := res.FindDeclarationInScope("y", inner)
	require.True(t, ok)
	require.Equal(t, resolver.TypeBoolean, decl.TypeID)
}

func TestFindDeclarationInScopeDoesNotCrossFunctionBoundary(t *testing.T) {
	res := resolver.New()
	outer := res.AddScope(resolver.Scope{Kind: resolver.ScopeKindFunction, Parent: resolver.ScopeMain})
	inner := res.AddScope(resolver.Scope{Kind: resolver.ScopeKindBlock, Parent: outer})

	res.AddDeclaration("z", resolver.Declaration{Kind: resolver.DeclLocal, ScopeID: resolver.ScopeMain, TypeID: resolver.TypeInteger})

	_, _, ok := res.FindDeclarationInScope("z", inner)
	require.False(t, ok)
}

func TestAddParametersRoundTrips(t *testing.T) {
	res := resolver.New()
	a := res.AddDeclaration("a", resolver.Declaration{Kind: resolver.DeclLocal, TypeID: resolver.TypeInteger})
	b := res.AddDeclaration("b", resolver.Declaration{Kind: resolver.DeclLocal, TypeID: resolver.TypeFloat})

	start, count := res.AddParameters([]resolver.DeclarationId{a, b})
	got := res.Parameters(start, count)
	require.Equal(t, []resolver.DeclarationId{a, b}, got)
}

func TestAddListTypeInternsIdenticalShapes(t *testing.T) {
	res := resolver.New()
	first := res.AddListType(resolver.TypeInteger)
	second := res.AddListType(resolver.TypeInteger)
	require.Equal(t, first, second)

	node, ok := res.TypeNodeOf(first)
	require.True(t, ok)
	require.Equal(t, resolver.TypeInteger, node.ListElement)
}

func TestCreateInferredTypeIsDistinctEachCall(t *testing.T) {
	res := resolver.New()
	first := res.CreateInferredType()
	second := res.CreateInferredType()
	require.NotEqual(t, first, second)
}

func TestUnifyTypesResolvesInferredAgainstPrimitive(t *testing.T) {
	res := resolver.New()
	inferred := res.CreateInferredType()

	unified, ok := res.UnifyTypes(inferred, resolver.TypeInteger)
	require.True(t, ok)
	require.Equal(t, resolver.TypeInteger, unified)
	require.Equal(t, resolver.TypeInteger, res.InferType(inferred))
}

func TestUnifyTypesRejectsMismatchedPrimitives(t *testing.T) {
	res := resolver.New()
	_, ok := res.UnifyTypes(resolver.TypeInteger, resolver.TypeBoolean)
	require.False(t, ok)
}
