// Package value implements Dust's value and object model: the six
// primitive kinds (none, boolean, byte, character, float, integer) plus
// the heap-allocated Object representation for
// strings and lists that lang/objectpool arenas hold.
package value

import (
	"fmt"
	"math"
)

// Kind tags a Value's representation, mirroring the OperandType tags
// carried by compiled instructions (lang/compiler.OperandType) one to one
// for the primitive cases.
type Kind uint8

const (
	KindNone Kind = iota
	KindBoolean
	KindByte
	KindCharacter
	KindFloat
	KindInteger
	KindString
	KindList
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBoolean:
		return "bool"
	case KindByte:
		return "byte"
	case KindCharacter:
		return "char"
	case KindFloat:
		return "float"
	case KindInteger:
		return "int"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a Dust runtime value. Primitives are stored inline; String,
// List and Function values carry a pointer into a worker's object pool
// (Obj) or a Prototype index, never both.
type Value struct {
	Kind Kind

	// Prim packs Boolean/Byte/Character/Float/Integer as a raw 64-bit
	// pattern, exactly as a register's primitive slot does in lang/engine,
	// so moving a Value between a register and this type never needs a
	// type switch on the hot path.
	Prim uint64

	// Obj is set for KindString and KindList; it points into whichever
	// object pool allocated the value. Nil for every other Kind.
	Obj *Object

	// PrototypeIndex is set for KindFunction: the index of the Prototype
	// this value refers to within the shared Program.
	PrototypeIndex uint32
}

func None() Value { return Value{Kind: KindNone} }

func Bool(b bool) Value {
	var p uint64
	if b {
		p = 1
	}
	return Value{Kind: KindBoolean, Prim: p}
}

func Byte(b byte) Value { return Value{Kind: KindByte, Prim: uint64(b)} }

func Character(r rune) Value { return Value{Kind: KindCharacter, Prim: uint64(uint32(r))} }

func Float(f float64) Value { return Value{Kind: KindFloat, Prim: math.Float64bits(f)} }

func Integer(i int64) Value { return Value{Kind: KindInteger, Prim: uint64(i)} }

func Function(prototypeIndex uint32) Value {
	return Value{Kind: KindFunction, PrototypeIndex: prototypeIndex}
}

func StringValue(obj *Object) Value { return Value{Kind: KindString, Obj: obj} }

func ListValue(obj *Object) Value { return Value{Kind: KindList, Obj: obj} }

func (v Value) AsBool() bool      { return v.Prim != 0 }
func (v Value) AsByte() byte      { return byte(v.Prim) }
func (v Value) AsCharacter() rune { return rune(uint32(v.Prim)) }
func (v Value) AsFloat() float64  { return math.Float64frombits(v.Prim) }
func (v Value) AsInteger() int64  { return int64(v.Prim) }
func (v Value) AsString() string  { return v.Obj.Str }
func (v Value) AsList() []Value   { return v.Obj.List }

// Equal implements Dust's structural equality: floats compare by bit
// pattern (so NaNs are distinguishable and equality is total), strings and
// lists compare element-wise.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNone:
		return true
	case KindString:
		return a.AsString() == b.AsString()
	case KindList:
		al, bl := a.AsList(), b.AsList()
		if len(al) != len(bl) {
			return false
		}
		for i := range al {
			if !Equal(al[i], bl[i]) {
				return false
			}
		}
		return true
	case KindFunction:
		return a.PrototypeIndex == b.PrototypeIndex
	default:
		return a.Prim == b.Prim
	}
}

// Less implements Dust's total order: lexicographic for strings and lists,
// bit-pattern order for floats (so every float, including NaN, compares
// consistently), numeric order otherwise.
func Less(a, b Value) bool {
	switch a.Kind {
	case KindString:
		return a.AsString() < b.AsString()
	case KindList:
		al, bl := a.AsList(), b.AsList()
		for i := 0; i < len(al) && i < len(bl); i++ {
			if Equal(al[i], bl[i]) {
				continue
			}
			return Less(al[i], bl[i])
		}
		return len(al) < len(bl)
	case KindFloat:
		return a.Prim < b.Prim
	case KindInteger:
		return a.AsInteger() < b.AsInteger()
	default:
		return a.Prim < b.Prim
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNone:
		return "none"
	case KindBoolean:
		return fmt.Sprintf("%t", v.AsBool())
	case KindByte:
		return fmt.Sprintf("%db", v.AsByte())
	case KindCharacter:
		return fmt.Sprintf("%q", v.AsCharacter())
	case KindFloat:
		return fmt.Sprintf("%g", v.AsFloat())
	case KindInteger:
		return fmt.Sprintf("%d", v.AsInteger())
	case KindString:
		return fmt.Sprintf("%q", v.AsString())
	case KindList:
		return fmt.Sprintf("%v", v.AsList())
	case KindFunction:
		return fmt.Sprintf("function(%d)", v.PrototypeIndex)
	default:
		return "<invalid value>"
	}
}
