package compiler

import (
	"github.com/dust-lang/dust/lang/parser"
	"github.com/dust-lang/dust/lang/resolver"
	"github.com/dust-lang/dust/lang/syntax"
)

// compileExpr lowers one expression node, returning the Address its value
// ends up at and the OperandType that value carries. Literal and constant-
// folded expressions are returned as CONSTANT addresses without emitting
// any instruction at all; everything else is computed into a register.
func (c *Compiler) compileExpr(fs *funcState, id syntax.SyntaxId) (Address, OperandType) {
	node := c.tree.Node(id)

	if k, ok := c.foldLiteral(id); ok {
		return ConstAddr(c.addConstant(k)), k.Type
	}

	switch node.Kind {
	case syntax.KindGroupExpr:
		return c.compileExpr(fs, syntax.SyntaxId(node.Children[0]))

	case syntax.KindIdentifier:
		return c.compileIdentifier(fs, node)

	case syntax.KindUnaryExpr:
		return c.compileUnary(fs, node)

	case syntax.KindBinaryExpr:
		return c.compileBinary(fs, node)

	case syntax.KindAssignExpr:
		return c.compileAssign(fs, node)

	case syntax.KindCallExpr:
		return c.compileCall(fs, node)

	case syntax.KindListLiteral:
		return c.compileListLiteral(fs, node)

	case syntax.KindBlockExpr:
		addr, typ, hasValue := c.compileBlock(fs, id)
		if !hasValue {
			return Address{}, OperandNone
		}
		return addr, typ

	case syntax.KindIfExpr:
		return c.compileIf(fs, node)

	case syntax.KindWhileExpr:
		return c.compileWhile(fs, node)

	case syntax.KindIndexExpr:
		return c.compileIndex(fs, node)

	default:
		c.fail(node.Span, "compiler: unexpected expression kind %d", node.Kind)
		return Address{}, OperandNone
	}
}

func (c *Compiler) compileIdentifier(fs *funcState, node syntax.Node) (Address, OperandType) {
	name := c.tree.Name(node.Children[0])
	if l, ok := fs.locals[name]; ok {
		return Register(l.register), l.typ
	}
	c.fail(node.Span, "compiler: undeclared name %q", name)
	return Address{}, OperandNone
}

func (c *Compiler) compileUnary(fs *funcState, node syntax.Node) (Address, OperandType) {
	operandID := syntax.SyntaxId(node.Children[0])
	op := parser.UnaryOp(node.Children[1])

	operandAddr, operandType := c.compileExpr(fs, operandID)

	var opcode Opcode
	switch op {
	case parser.OpNeg:
		opcode = NEGATE
	case parser.OpNot:
		opcode = NOT
	default:
		c.fail(node.Span, "compiler: unsupported unary operator")
		return Address{}, OperandNone
	}

	dest := fs.allocReg()
	fs.emit(Instruction{
		Operation:   opcode,
		OperandType: operandType,
		Destination: Register(dest),
		Left:        operandAddr,
	})
	fs.freeTemp(operandAddr)
	return Register(dest), operandType
}

func (c *Compiler) compileBinary(fs *funcState, node syntax.Node) (Address, OperandType) {
	operands := c.tree.List(node.Children[0], 2)
	lhsID, rhsID := operands[0], operands[1]
	op := parser.BinaryOp(node.Children[1])

	if k, ok, err := c.foldBinary(op, lhsID, rhsID, node.Span); err != nil {
		c.errors = append(c.errors, err)
		return Address{}, OperandNone
	} else if ok {
		return ConstAddr(c.addConstant(k)), k.Type
	}

	switch op {
	case parser.OpAnd:
		return c.compileShortCircuit(fs, lhsID, rhsID, true)
	case parser.OpOr:
		return c.compileShortCircuit(fs, lhsID, rhsID, false)
	}

	lhsAddr, lhsType := c.compileExpr(fs, lhsID)
	rhsAddr, rhsType := c.compileExpr(fs, rhsID)
	operandType := lhsType
	if operandType == OperandNone {
		operandType = rhsType
	}

	dest := fs.allocReg()

	switch op {
	case parser.OpNotEq:
		// No dedicated not-equal opcode: compute equality then negate it.
		fs.emit(Instruction{Operation: EQUAL, OperandType: operandType, Destination: Register(dest), Left: lhsAddr, Right: rhsAddr})
		fs.emit(Instruction{Operation: NOT, OperandType: OperandBoolean, Destination: Register(dest), Left: Register(dest)})
	case parser.OpGt:
		// a > b is b < a.
		fs.emit(Instruction{Operation: LESS, OperandType: operandType, Destination: Register(dest), Left: rhsAddr, Right: lhsAddr})
	case parser.OpGe:
		// a >= b is b <= a.
		fs.emit(Instruction{Operation: LESS_EQUAL, OperandType: operandType, Destination: Register(dest), Left: rhsAddr, Right: lhsAddr})
	default:
		opcode, ok := binaryOpcode(op)
		if !ok {
			c.fail(node.Span, "compiler: unsupported binary operator")
			return Address{}, OperandNone
		}
		fs.emit(Instruction{Operation: opcode, OperandType: operandType, Destination: Register(dest), Left: lhsAddr, Right: rhsAddr})
	}

	fs.freeTemp(lhsAddr)
	fs.freeTemp(rhsAddr)

	resultType := operandType
	switch op {
	case parser.OpEq, parser.OpNotEq, parser.OpLt, parser.OpLe, parser.OpGt, parser.OpGe:
		resultType = OperandBoolean
	}
	return Register(dest), resultType
}

// compileShortCircuit lowers `&&`/`||` via TEST+JUMP instead of an ADD-style
// opcode, since a true right-hand side must never be evaluated once the
// left-hand side has already decided the result.
func (c *Compiler) compileShortCircuit(fs *funcState, lhsID, rhsID syntax.SyntaxId, isAnd bool) (Address, OperandType) {
	dest := fs.allocReg()
	lhsAddr, _ := c.compileExpr(fs, lhsID)
	fs.emit(Instruction{Operation: MOVE, OperandType: OperandBoolean, Destination: Register(dest), Left: lhsAddr})
	fs.freeTemp(lhsAddr)

	// Skip evaluating rhs when lhs already settles the result: for `&&` that
	// is lhs == false, for `||` that is lhs == true.
	fs.emit(Instruction{Operation: TEST, OperandType: OperandBoolean, Left: Register(dest), Comparator: isAnd})
	skip := fs.emitJump()

	rhsAddr, _ := c.compileExpr(fs, rhsID)
	fs.emit(Instruction{Operation: MOVE, OperandType: OperandBoolean, Destination: Register(dest), Left: rhsAddr})
	fs.freeTemp(rhsAddr)

	fs.patchForward(skip, len(fs.instrs))
	return Register(dest), OperandBoolean
}

func (c *Compiler) compileAssign(fs *funcState, node syntax.Node) (Address, OperandType) {
	lhsID, rhsID := syntax.SyntaxId(node.Children[0]), syntax.SyntaxId(node.Children[1])
	lhsNode := c.tree.Node(lhsID)
	if lhsNode.Kind != syntax.KindIdentifier {
		c.fail(lhsNode.Span, "compiler: assignment target must be a local variable")
		return Address{}, OperandNone
	}

	name := c.tree.Name(lhsNode.Children[0])
	l, ok := fs.locals[name]
	if !ok {
		c.fail(lhsNode.Span, "compiler: undeclared name %q", name)
		return Address{}, OperandNone
	}
	if !l.mutable {
		c.fail(lhsNode.Span, "compiler: %q is not declared `mut`", name)
		return Address{}, OperandNone
	}

	valueAddr, valueType := c.compileExpr(fs, rhsID)
	fs.emit(Instruction{Operation: MOVE, OperandType: valueType, Destination: Register(l.register), Left: valueAddr})
	fs.freeTemp(valueAddr)
	return Register(l.register), valueType
}

// compileCall only supports calling a function by its bare name; Dust does
// not yet compile indirect calls through a function-valued expression.
func (c *Compiler) compileCall(fs *funcState, node syntax.Node) (Address, OperandType) {
	all := c.tree.List(node.Children[0], node.Children[1])
	calleeID, argIDs := all[0], all[1:]

	calleeNode := c.tree.Node(calleeID)
	if calleeNode.Kind != syntax.KindIdentifier {
		c.fail(calleeNode.Span, "compiler: call target must be a function name")
		return Address{}, OperandNone
	}
	name := c.tree.Name(calleeNode.Children[0])

	// A sibling function declared alongside the one being compiled lives in
	// the enclosing scope, not the function's own scope, and
	// FindDeclarationInScope only climbs to a parent scope automatically for
	// block scopes (see FindDeclarationInScope's doc comment) — a function's own
	// scope is not a block, so look there explicitly once the immediate
	// scope search comes up empty.
	_, decl, ok := c.resolver.FindDeclarationInScope(name, fs.scope)
	if !ok {
		_, decl, ok = c.resolver.FindDeclarationInScope(name, c.resolver.Scope(fs.scope).Parent)
	}
	if !ok || decl.Kind != resolver.DeclFunction {
		c.fail(calleeNode.Span, "compiler: undeclared function %q", name)
		return Address{}, OperandNone
	}

	argStart := uint32(len(fs.callArgs))
	for _, argID := range argIDs {
		addr, typ := c.compileExpr(fs, argID)
		fs.callArgs = append(fs.callArgs, CallArgument{Address: addr, OperandType: typ})
	}

	returnType := OperandNone
	if ft, ok := c.resolver.TypeNodeOf(decl.TypeID); ok {
		returnType = c.operandTypeOf(ft.Function.ReturnType)
	}

	dest := fs.allocReg()
	fs.emit(Instruction{
		Operation:   CALL,
		OperandType: returnType,
		Destination: Register(dest),
		Left:        Encoded(uint16(decl.Function.PrototypeIndex)),
		Right:       Encoded(uint16(argStart)),
		IsRecursive: decl.Function.PrototypeIndex == fs.selfIndex,
	})
	return Register(dest), returnType
}

func (c *Compiler) compileListLiteral(fs *funcState, node syntax.Node) (Address, OperandType) {
	elems := c.tree.List(node.Children[0], node.Children[1])
	start := uint32(len(fs.listElems))

	elemType := OperandNone
	for _, elemID := range elems {
		addr, typ := c.compileExpr(fs, elemID)
		if elemType == OperandNone {
			elemType = typ
		}
		fs.listElems = append(fs.listElems, CallArgument{Address: addr, OperandType: typ})
	}

	listType := listOperandTypeOf(elemType)
	dest := fs.allocReg()
	fs.emit(Instruction{
		Operation:   LOAD_LIST,
		OperandType: listType,
		Destination: Register(dest),
		Left:        Encoded(uint16(start)),
		Right:       Encoded(uint16(len(elems))),
	})
	return Register(dest), listType
}

// compileIndex lowers `list[i]` to INDEX, which reads the element at Right
// out of the list addressed by Left into Destination. The element's
// OperandType is recovered from the list's own OperandListX tag, the same
// inverse of listOperandTypeOf used to build it in compileListLiteral.
func (c *Compiler) compileIndex(fs *funcState, node syntax.Node) (Address, OperandType) {
	listID, idxID := syntax.SyntaxId(node.Children[0]), syntax.SyntaxId(node.Children[1])

	listAddr, listType := c.compileExpr(fs, listID)
	idxAddr, _ := c.compileExpr(fs, idxID)

	elemType := elementOperandTypeOf(listType)

	dest := fs.allocReg()
	fs.emit(Instruction{
		Operation:   INDEX,
		OperandType: elemType,
		Destination: Register(dest),
		Left:        listAddr,
		Right:       idxAddr,
	})
	fs.freeTemp(listAddr)
	fs.freeTemp(idxAddr)
	return Register(dest), elemType
}

func elementOperandTypeOf(listType OperandType) OperandType {
	switch listType {
	case OperandListBoolean:
		return OperandBoolean
	case OperandListByte:
		return OperandByte
	case OperandListCharacter:
		return OperandCharacter
	case OperandListFloat:
		return OperandFloat
	case OperandListInteger:
		return OperandInteger
	case OperandListString:
		return OperandString
	default:
		return OperandNone
	}
}

func listOperandTypeOf(elem OperandType) OperandType {
	switch elem {
	case OperandBoolean:
		return OperandListBoolean
	case OperandByte:
		return OperandListByte
	case OperandCharacter:
		return OperandListCharacter
	case OperandFloat:
		return OperandListFloat
	case OperandInteger:
		return OperandListInteger
	case OperandString:
		return OperandListString
	default:
		return OperandListList
	}
}

// compileIf lowers `if cond { then } else { else }` via TEST + placeholder
// JUMP + backpatch: TEST skips the jump-to-else when the condition is
// true, the then-branch falls through and jumps past the else-branch once
// done.
func (c *Compiler) compileIf(fs *funcState, node syntax.Node) (Address, OperandType) {
	parts := c.tree.List(node.Children[0], node.Children[1])
	condID, thenID, elseID := parts[0], parts[1], parts[2]

	dest := fs.allocReg()

	condAddr, _ := c.compileExpr(fs, condID)
	fs.emit(Instruction{Operation: TEST, OperandType: OperandBoolean, Left: condAddr, Comparator: true})
	fs.freeTemp(condAddr)
	toElse := fs.emitJump()

	thenAddr, thenType, thenHasValue := c.compileBlock(fs, thenID)
	if thenHasValue {
		fs.emit(Instruction{Operation: MOVE, OperandType: thenType, Destination: Register(dest), Left: thenAddr})
	}
	toEnd := fs.emitJump()

	fs.patchForward(toElse, len(fs.instrs))
	resultType := thenType
	if elseID != syntax.NoSyntaxId {
		elseAddr, elseType, elseHasValue := c.compileBlock(fs, elseID)
		if elseHasValue {
			fs.emit(Instruction{Operation: MOVE, OperandType: elseType, Destination: Register(dest), Left: elseAddr})
			if resultType == OperandNone {
				resultType = elseType
			}
		}
	} else {
		noneConst := ConstAddr(c.addConstant(Constant{Type: OperandNone}))
		fs.emit(Instruction{Operation: MOVE, OperandType: OperandNone, Destination: Register(dest), Left: noneConst})
		resultType = OperandNone
	}
	fs.patchForward(toEnd, len(fs.instrs))

	return Register(dest), resultType
}

// compileWhile lowers `while cond { body }`; its value is always none.
func (c *Compiler) compileWhile(fs *funcState, node syntax.Node) (Address, OperandType) {
	condID, bodyID := syntax.SyntaxId(node.Children[0]), syntax.SyntaxId(node.Children[1])

	loopStart := len(fs.instrs)
	condAddr, _ := c.compileExpr(fs, condID)
	fs.emit(Instruction{Operation: TEST, OperandType: OperandBoolean, Left: condAddr, Comparator: true})
	fs.freeTemp(condAddr)
	exit := fs.emitJump()

	_, _, _ = c.compileBlock(fs, bodyID)
	fs.emitJumpBack(loopStart)

	fs.patchForward(exit, len(fs.instrs))
	return Address{}, OperandNone
}
