package compiler

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/dust-lang/dust/lang/resolver"
	"github.com/dust-lang/dust/lang/syntax"
	parserpkg "github.com/dust-lang/dust/lang/parser"
)

// Error reports a problem found while compiling, with the source position
// it occurred at.
type Error struct {
	Span    syntax.Span
	Message string
}

func (e *Error) Error() string { return e.Message }

// Compiler lowers every function item in a bound syntax tree into a
// Program. One Compiler compiles one Program; it is not reused.
type Compiler struct {
	tree     *syntax.Tree
	resolver *resolver.Resolver

	program *Program

	errors []error
}

// CompileProgram compiles every `fn` item bound into resolver's
// declaration table, starting from tree's root KindFile node, into a
// Program whose entry point (index 0) is the function named "main"
// declared in the top scope.
func CompileProgram(tree *syntax.Tree, res *resolver.Resolver, root syntax.SyntaxId) (*Program, []error) {
	c := &Compiler{
		tree:     tree,
		resolver: res,
		program:  &Program{},
	}

	functionItems := c.gatherFunctionItems(root)

	mainIdx := -1
	for i, item := range functionItems {
		if c.itemName(item) == "main" {
			mainIdx = i
			break
		}
	}
	if mainIdx < 0 {
		c.fail(tree.Node(root).Span, "compiler: no `fn main` found")
		return c.program, c.errors
	}

	order := append([]syntax.SyntaxId{functionItems[mainIdx]}, append(append([]syntax.SyntaxId{}, functionItems[:mainIdx]...), functionItems[mainIdx+1:]...)...)

	// Reserve every function's prototype index up front, writing it back
	// into its Declaration, so forward and mutually recursive calls can
	// resolve the callee's prototype index before that prototype's body is
	// compiled.
	for i, item := range order {
		declID, decl, ok := c.declarationOf(item)
		if !ok {
			continue
		}
		decl.Function.PrototypeIndex = uint32(i)
		c.resolver.SetDeclaration(declID, decl)
	}

	for i, item := range order {
		proto := c.compileFunctionItem(item, uint32(i))
		c.program.Prototypes = append(c.program.Prototypes, proto)
	}

	return c.program, c.errors
}

// declarationOf finds the Declaration a function item was bound to: its
// inner (body/parameter) scope is recorded by the binder via BindScope,
// and that scope's Parent is the scope the function's own name was
// declared into.
func (c *Compiler) declarationOf(functionItem syntax.SyntaxId) (resolver.DeclarationId, resolver.Declaration, bool) {
	innerScope, ok := c.resolver.ScopeBinding(functionItem)
	if !ok {
		return 0, resolver.Declaration{}, false
	}
	enclosing := c.resolver.Scope(innerScope).Parent
	return c.resolver.FindDeclarationInScope(c.itemName(functionItem), enclosing)
}

func (c *Compiler) fail(span syntax.Span, format string, args ...any) {
	c.errors = append(c.errors, &Error{Span: span, Message: fmt.Sprintf(format, args...)})
}

// gatherFunctionItems walks the file's items (and nested modules, since
// their functions share the same Program and are simply reachable under a
// different declaration scope) collecting every KindFunctionItem node.
func (c *Compiler) gatherFunctionItems(root syntax.SyntaxId) []syntax.SyntaxId {
	var out []syntax.SyntaxId
	var walk func(id syntax.SyntaxId)
	walk = func(id syntax.SyntaxId) {
		node := c.tree.Node(id)
		switch node.Kind {
		case syntax.KindFile:
			for _, item := range c.tree.List(node.Children[0], node.Children[1]) {
				walk(item)
			}
		case syntax.KindModuleItem:
			children := c.tree.List(node.Children[0], node.Children[1])
			for _, item := range children[1:] {
				walk(item)
			}
		case syntax.KindFunctionItem:
			out = append(out, id)
		}
	}
	walk(root)
	return out
}

func (c *Compiler) itemName(functionItem syntax.SyntaxId) string {
	node := c.tree.Node(functionItem)
	children := c.tree.List(node.Children[0], node.Children[1])
	nameID := children[0]
	return c.tree.Name(c.tree.Node(nameID).Children[0])
}

// addConstant interns a constant, returning the (stable) index to use in a
// CONSTANT address. Constants are only ever added here, at the point one
// is about to be emitted into an instruction, so a plain linear search
// over the pool built so far is enough to dedupe — mirroring the original
// implementation's "collect raw constants, then compact to only the ones
// actually used" scheme (stable_constants / push_stable) without needing
// the compaction pass, since nothing unused is ever added in the first
// place.
func (c *Compiler) addConstant(k Constant) uint16 {
	if idx := slices.Index(c.program.Constants, k); idx >= 0 {
		return uint16(idx)
	}
	idx := uint16(len(c.program.Constants))
	c.program.Constants = append(c.program.Constants, k)
	return idx
}

// compileFunctionItem lowers one `fn` item into a Prototype at the given
// program index.
func (c *Compiler) compileFunctionItem(item syntax.SyntaxId, index uint32) *Prototype {
	node := c.tree.Node(item)
	children := c.tree.List(node.Children[0], node.Children[1])
	nameID, bodyID := children[0], children[2]
	paramIDs := children[3:]

	name := c.tree.Name(c.tree.Node(nameID).Children[0])
	innerScope, _ := c.resolver.ScopeBinding(item)
	_, decl, _ := c.declarationOf(item)

	fs := newFuncState(c, innerScope, name, index)

	paramDeclIDs := c.resolver.Parameters(decl.Function.ParametersStart, decl.Function.ParametersCount)
	for i, paramID := range paramIDs {
		paramNode := c.tree.Node(paramID)
		paramNameID, _ := paramNode.Double()
		paramName := c.tree.Name(c.tree.Node(paramNameID).Children[0])

		reg := fs.allocReg()
		paramType := OperandNone
		if i < len(paramDeclIDs) {
			paramType = c.operandTypeOf(c.resolver.Declaration(paramDeclIDs[i]).TypeID)
		}
		fs.locals[paramName] = local{register: reg, typ: paramType}
	}

	valueAddr, valueType, hasValue := c.compileBlock(fs, bodyID)

	ret := Instruction{Operation: RETURN, ShouldReturnValue: hasValue}
	if hasValue {
		ret.OperandType = valueType
		ret.Left = valueAddr
	}
	fs.emit(ret)

	proto := fs.prototype(index, name)
	proto.FunctionType = uint32(decl.TypeID)
	proto.ParameterCount = uint16(decl.Function.ParametersCount)
	return proto
}

// binaryOpcode maps a parsed BinaryOp to the Opcode that implements it.
// Equality/ordering operators additionally need a Comparator flag, handled
// by the caller.
func binaryOpcode(op parserpkg.BinaryOp) (Opcode, bool) {
	switch op {
	case parserpkg.OpAdd:
		return ADD, true
	case parserpkg.OpSub:
		return SUBTRACT, true
	case parserpkg.OpMul:
		return MULTIPLY, true
	case parserpkg.OpDiv:
		return DIVIDE, true
	case parserpkg.OpRem:
		return MODULO, true
	case parserpkg.OpEq:
		return EQUAL, true
	case parserpkg.OpLt:
		return LESS, true
	case parserpkg.OpLe:
		return LESS_EQUAL, true
	default:
		return 0, false
	}
}
