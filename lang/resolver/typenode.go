package resolver

// TypeNodeKind distinguishes the three non-primitive type shapes a TypeId
// can name.
type TypeNodeKind uint8

const (
	TypeNodeList TypeNodeKind = iota
	TypeNodeFunction
	TypeNodeInferred
)

// FunctionTypeNode is a function type's signature, with its parameter
// lists stored as (start, count) ranges into the Resolver's shared
// type-members table rather than as owned slices, the same compaction the
// original implementation uses for its SmallVec-backed parameter lists.
type FunctionTypeNode struct {
	TypeParamsStart, TypeParamsCount   uint32
	ValueParamsStart, ValueParamsCount uint32
	ReturnType                         TypeId
}

// InferredTypeNode is a placeholder type created for an expression whose
// type isn't known yet; Resolved is meaningful only once IsSet is true
// (unification fills in both).
type InferredTypeNode struct {
	ID       uint32
	Resolved TypeId
	IsSet    bool
}

// TypeNode is the table entry for any TypeId that isn't one of the seven
// primitive sentinels. Every field is a value type, so a whole TypeNode can
// serve directly as a swiss.Map key: two structurally identical types (two
// `[int]` annotations, say) compare equal and intern to the same TypeId,
// which is what the original implementation's content-hashed IndexMap
// achieves by hashing the type's content by hand.
type TypeNode struct {
	Kind TypeNodeKind

	ListElement TypeId
	Function    FunctionTypeNode
	Inferred    InferredTypeNode
}
