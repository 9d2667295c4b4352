package compiler

import "github.com/dust-lang/dust/lang/syntax"

// compileBlock lowers a KindBlockExpr's statements in order, returning the
// block's value: the trailing statement's address/type when it is a
// KindExprStatement written without a semicolon, or hasValue=false
// otherwise (an empty block, or one ending in `;`, evaluates to none).
func (c *Compiler) compileBlock(fs *funcState, blockID syntax.SyntaxId) (Address, OperandType, bool) {
	node := c.tree.Node(blockID)
	stmts := c.tree.List(node.Children[0], node.Children[1])

	for i, stmtID := range stmts {
		isLast := i == len(stmts)-1
		stmtNode := c.tree.Node(stmtID)

		if isLast && stmtNode.Kind == syntax.KindExprStatement && stmtNode.Children[1] == 0 {
			addr, typ := c.compileExpr(fs, syntax.SyntaxId(stmtNode.Children[0]))
			return addr, typ, true
		}
		c.compileStatement(fs, stmtID)
	}
	return Address{}, OperandNone, false
}

func (c *Compiler) compileStatement(fs *funcState, stmtID syntax.SyntaxId) {
	node := c.tree.Node(stmtID)
	switch node.Kind {
	case syntax.KindLetStatement:
		c.compileLetStatement(fs, node)
	case syntax.KindExprStatement:
		addr, _ := c.compileExpr(fs, syntax.SyntaxId(node.Children[0]))
		fs.freeTemp(addr)
	default:
		c.fail(node.Span, "compiler: unexpected statement kind %d", node.Kind)
	}
}

// compileLetStatement binds a new local. A fresh register is always
// allocated for the binding (rather than reusing whatever temporary the
// initializer landed in) so later reassignment of a `mut` local can't
// alias a register some other live expression still depends on.
func (c *Compiler) compileLetStatement(fs *funcState, node syntax.Node) {
	children := c.tree.List(node.Children[0], node.Children[1])
	nameID, valueID, mutableID := children[0], children[2], children[3]
	mutable := mutableID != 0

	name := c.tree.Name(c.tree.Node(nameID).Children[0])
	valueAddr, valueType := c.compileExpr(fs, valueID)

	reg := fs.allocReg()
	fs.emit(Instruction{
		Operation:   MOVE,
		OperandType: valueType,
		Destination: Register(reg),
		Left:        valueAddr,
	})
	fs.freeTemp(valueAddr)

	fs.locals[name] = local{register: reg, typ: valueType, mutable: mutable}
}
