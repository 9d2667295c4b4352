// Package syntax defines the flat syntax tree produced by lang/parser and
// consumed by lang/binder. Nodes are appended to a single growable buffer
// rather than allocated as a pointer tree: a SyntaxId is simply an index
// into that buffer, children are referenced by id, and literal payloads for
// bool/byte/char/float/int tokens are packed directly into the two uint32
// child slots instead of being boxed.
package syntax

import (
	"fmt"

	"github.com/dust-lang/dust/lang/token"
)

// SyntaxId identifies a node within a Tree. The zero value, NoSyntaxId, is
// never a valid node.
type SyntaxId uint32

const NoSyntaxId SyntaxId = 0

// SourceFileId identifies one source file within a compilation, indexing
// into the FileSet held alongside the tree.
type SourceFileId uint32

// Span is a half-open byte range within a single source file.
type Span struct {
	Start, End token.Pos
}

// SyntaxKind enumerates every node shape the parser can emit.
type SyntaxKind uint8

const (
	KindInvalid SyntaxKind = iota

	// literals
	KindNoneLiteral
	KindBooleanLiteral
	KindByteLiteral
	KindCharacterLiteral
	KindFloatLiteral
	KindIntegerLiteral
	KindStringLiteral
	KindListLiteral

	// names and types
	KindIdentifier
	KindTypeName
	KindListType
	KindFunctionType
	KindInferredType

	// expressions
	KindBinaryExpr
	KindUnaryExpr
	KindCallExpr
	KindIndexExpr
	KindGroupExpr
	KindBlockExpr
	KindIfExpr
	KindWhileExpr
	KindAssignExpr

	// items and statements
	KindParameter
	KindFunctionItem
	KindModuleItem
	KindUseItem
	KindLetStatement
	KindExprStatement
	KindFile
)

var syntaxKindNames = [...]string{
	KindInvalid:          "invalid",
	KindNoneLiteral:      "none_literal",
	KindBooleanLiteral:   "boolean_literal",
	KindByteLiteral:      "byte_literal",
	KindCharacterLiteral: "character_literal",
	KindFloatLiteral:     "float_literal",
	KindIntegerLiteral:   "integer_literal",
	KindStringLiteral:    "string_literal",
	KindListLiteral:      "list_literal",
	KindIdentifier:       "identifier",
	KindTypeName:         "type_name",
	KindListType:         "list_type",
	KindFunctionType:     "function_type",
	KindInferredType:     "inferred_type",
	KindBinaryExpr:       "binary_expr",
	KindUnaryExpr:        "unary_expr",
	KindCallExpr:         "call_expr",
	KindIndexExpr:        "index_expr",
	KindGroupExpr:        "group_expr",
	KindBlockExpr:        "block_expr",
	KindIfExpr:           "if_expr",
	KindWhileExpr:        "while_expr",
	KindAssignExpr:       "assign_expr",
	KindParameter:        "parameter",
	KindFunctionItem:     "function_item",
	KindModuleItem:       "module_item",
	KindUseItem:          "use_item",
	KindLetStatement:     "let_statement",
	KindExprStatement:    "expr_statement",
	KindFile:             "file",
}

func (k SyntaxKind) String() string {
	if int(k) < len(syntaxKindNames) && syntaxKindNames[k] != "" {
		return syntaxKindNames[k]
	}
	return fmt.Sprintf("syntax_kind(%d)", uint8(k))
}

// Node is a single entry in a Tree's flat buffer. The two children fields
// are reinterpreted depending on Kind: most node kinds store child
// SyntaxIds there directly; literal kinds store an encoded payload (see
// EncodeInteger et al.); KindFile and other variable-arity kinds index into
// Tree.lists instead.
type Node struct {
	Kind     SyntaxKind
	Children [2]uint32
	Span     Span
	File     SourceFileId
}

// Tree is the append-only flat syntax tree for one parsed compilation unit
// (possibly spanning several source files via modules/use-items).
type Tree struct {
	nodes []Node
	lists []SyntaxId
	names []string
}

// NewTree returns an empty Tree. Index 0 is reserved so NoSyntaxId (the
// zero value) is never a valid node reference.
func NewTree() *Tree {
	t := &Tree{}
	t.nodes = append(t.nodes, Node{Kind: KindInvalid})
	return t
}

func (t *Tree) Node(id SyntaxId) Node { return t.nodes[id] }

func (t *Tree) Len() int { return len(t.nodes) }

// Root returns the id of the file's KindFile node: the last node pushed by
// parseFile, since nothing is ever appended to a Tree after its wrapping
// file node.
func (t *Tree) Root() SyntaxId { return SyntaxId(len(t.nodes) - 1) }

// Push appends a new node and returns its id.
func (t *Tree) Push(n Node) SyntaxId {
	id := SyntaxId(len(t.nodes))
	t.nodes = append(t.nodes, n)
	return id
}

// PushList appends a contiguous run of child ids to the side list and
// returns the (start, count) pair to store in a node's Children field.
func (t *Tree) PushList(ids []SyntaxId) (start uint32, count uint32) {
	start = uint32(len(t.lists))
	t.lists = append(t.lists, ids...)
	return start, uint32(len(ids))
}

// List returns the child ids for a node whose Children were produced by
// PushList.
func (t *Tree) List(start, count uint32) []SyntaxId {
	return t.lists[start : start+count]
}

// PushName interns an identifier's text and returns the index to store in a
// KindIdentifier/KindTypeName node's Children[0].
func (t *Tree) PushName(s string) uint32 {
	idx := uint32(len(t.names))
	t.names = append(t.names, s)
	return idx
}

// Name returns an interned identifier's text given the index stored in its
// node's Children[0].
func (t *Tree) Name(idx uint32) string {
	return t.names[idx]
}

// Single returns the single child id of a node created with one child
// packed directly into Children[0].
func (n Node) Single() SyntaxId { return SyntaxId(n.Children[0]) }

// Double returns the two child ids of a node created with two children
// packed directly into Children.
func (n Node) Double() (SyntaxId, SyntaxId) {
	return SyntaxId(n.Children[0]), SyntaxId(n.Children[1])
}

// Literal encode/decode helpers. Each packs a payload wider than 32 bits
// into the two uint32 child slots, little-endian, mirroring the original
// implementation's syntax_node encoding so the same bit-packing rationale
// (avoid a separate literal table) carries over to the flat Go tree.

func EncodeInteger(v int64) [2]uint32 {
	u := uint64(v)
	return [2]uint32{uint32(u), uint32(u >> 32)}
}

func DecodeInteger(c [2]uint32) int64 {
	return int64(uint64(c[0]) | uint64(c[1])<<32)
}

func EncodeFloat(v float64) [2]uint32 {
	return EncodeInteger(int64(floatBits(v)))
}

func DecodeFloat(c [2]uint32) float64 {
	return floatFromBits(uint64(DecodeInteger(c)))
}

func EncodeCharacter(r rune) [2]uint32 {
	return [2]uint32{uint32(r), 0}
}

func DecodeCharacter(c [2]uint32) rune {
	return rune(c[0])
}

func EncodeByte(b byte) [2]uint32 {
	return [2]uint32{uint32(b), 0}
}

func DecodeByte(c [2]uint32) byte {
	return byte(c[0])
}

func EncodeBool(b bool) [2]uint32 {
	if b {
		return [2]uint32{1, 0}
	}
	return [2]uint32{0, 0}
}

func DecodeBool(c [2]uint32) bool { return c[0] != 0 }
