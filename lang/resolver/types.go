package resolver

// addTypeNode interns node, returning its existing TypeId if an identical
// node was already added, or appending it as a new entry otherwise.
func (r *Resolver) addTypeNode(node TypeNode) TypeId {
	if existing, ok := r.typeNodeIndex.Get(node); ok {
		return existing
	}

	id := TypeId(len(r.typeNodes))
	r.typeNodes = append(r.typeNodes, node)
	r.typeNodeIndex.Put(node, id)

	return id
}

// AddListType interns `[element]`.
func (r *Resolver) AddListType(element TypeId) TypeId {
	return r.addTypeNode(TypeNode{Kind: TypeNodeList, ListElement: element})
}

// AddFunctionType interns a function signature, first interning its
// parameter and return types.
func (r *Resolver) AddFunctionType(typeParams, valueParams []TypeId, returnType TypeId) TypeId {
	tpStart, tpCount := r.AddTypeMembers(typeParams)
	vpStart, vpCount := r.AddTypeMembers(valueParams)

	return r.addTypeNode(TypeNode{
		Kind: TypeNodeFunction,
		Function: FunctionTypeNode{
			TypeParamsStart:  tpStart,
			TypeParamsCount:  tpCount,
			ValueParamsStart: vpStart,
			ValueParamsCount: vpCount,
			ReturnType:       returnType,
		},
	})
}

// AddTypeMembers appends type ids to the shared type-members table and
// returns the (start, count) range to embed in a FunctionTypeNode.
func (r *Resolver) AddTypeMembers(members []TypeId) (start, count uint32) {
	start = uint32(len(r.typeMembers))
	r.typeMembers = append(r.typeMembers, members...)
	return start, uint32(len(members))
}

func (r *Resolver) TypeMembers(start, count uint32) []TypeId {
	return r.typeMembers[start : start+count]
}

// TypeNodeOf returns the table entry for a non-primitive TypeId.
func (r *Resolver) TypeNodeOf(id TypeId) (TypeNode, bool) {
	if id.IsPrimitive() || int(id) >= len(r.typeNodes) {
		return TypeNode{}, false
	}
	return r.typeNodes[id], true
}

// CreateInferredType allocates a fresh, unresolved inferred type variable.
func (r *Resolver) CreateInferredType() TypeId {
	id := r.nextInferredTypeID
	r.nextInferredTypeID++
	return r.addTypeNode(TypeNode{Kind: TypeNodeInferred, Inferred: InferredTypeNode{ID: id}})
}

// InferType follows an inferred type's resolution chain to its current end,
// returning id unchanged if it is a primitive or an unresolved variable.
func (r *Resolver) InferType(id TypeId) TypeId {
	if id.IsPrimitive() {
		return id
	}
	node, ok := r.TypeNodeOf(id)
	if !ok || node.Kind != TypeNodeInferred || !node.Inferred.IsSet {
		return id
	}
	return r.InferType(node.Inferred.Resolved)
}

// UnifyTypes attempts to unify left and right, resolving whichever
// inferred-type side is still unset, and recursing into list element types
// and function signatures. It reports ok=false when the two types cannot
// be unified.
func (r *Resolver) UnifyTypes(left, right TypeId) (TypeId, bool) {
	left = r.InferType(left)
	right = r.InferType(right)

	if left == right {
		return left, true
	}

	leftNode, leftOK := r.TypeNodeOf(left)
	rightNode, rightOK := r.TypeNodeOf(right)
	if !leftOK && !rightOK {
		return 0, false
	}

	switch {
	case leftOK && leftNode.Kind == TypeNodeInferred && !leftNode.Inferred.IsSet:
		leftNode.Inferred.Resolved = right
		leftNode.Inferred.IsSet = true
		r.typeNodes[left] = leftNode
		return right, true

	case rightOK && rightNode.Kind == TypeNodeInferred && !rightNode.Inferred.IsSet:
		rightNode.Inferred.Resolved = left
		rightNode.Inferred.IsSet = true
		r.typeNodes[right] = rightNode
		return left, true

	case leftOK && rightOK && leftNode.Kind == TypeNodeList && rightNode.Kind == TypeNodeList:
		if _, ok := r.UnifyTypes(leftNode.ListElement, rightNode.ListElement); !ok {
			return 0, false
		}
		return left, true

	case leftOK && rightOK && leftNode.Kind == TypeNodeFunction && rightNode.Kind == TypeNodeFunction:
		lf, rf := leftNode.Function, rightNode.Function
		if !r.unifyMembers(lf.TypeParamsStart, lf.TypeParamsCount, rf.TypeParamsStart, rf.TypeParamsCount) {
			return 0, false
		}
		if !r.unifyMembers(lf.ValueParamsStart, lf.ValueParamsCount, rf.ValueParamsStart, rf.ValueParamsCount) {
			return 0, false
		}
		if _, ok := r.UnifyTypes(lf.ReturnType, rf.ReturnType); !ok {
			return 0, false
		}
		return left, true

	default:
		return 0, false
	}
}

func (r *Resolver) unifyMembers(leftStart, leftCount, rightStart, rightCount uint32) bool {
	if leftCount != rightCount {
		return false
	}
	leftMembers := r.TypeMembers(leftStart, leftCount)
	rightMembers := r.TypeMembers(rightStart, rightCount)
	for i := range leftMembers {
		if _, ok := r.UnifyTypes(leftMembers[i], rightMembers[i]); !ok {
			return false
		}
	}
	return true
}
