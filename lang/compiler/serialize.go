package compiler

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/dust-lang/dust/lang/token"
)

// magic tags the start of a serialized Program binary, per spec.md §6
// ("a header with magic bytes and version").
var magic = [4]byte{'D', 'U', 'S', 'T'}

// Serialize encodes p into the on-disk format spec.md §6 describes: a
// magic/version header, the constant pool (each entry tagged by
// OperandType), then a count-prefixed sequence of Prototypes. Prototype
// Index and the ListElements table are additional fields this
// implementation's Prototype carries beyond the fields spec.md's
// serialization paragraph enumerates (see program.go's doc comment on
// ListElements reusing the CallArgument shape); they're serialized too so
// Deserialize(Serialize(p)) reproduces every field, not just the subset
// spec.md names.
func (p *Program) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(magic[:])
	writeUint16(&buf, Version)

	writeUint32(&buf, uint32(len(p.Constants)))
	for _, k := range p.Constants {
		writeConstant(&buf, k)
	}

	writeUint32(&buf, uint32(len(p.Prototypes)))
	for _, proto := range p.Prototypes {
		writePrototype(&buf, proto)
	}

	return buf.Bytes(), nil
}

// Deserialize decodes a Program binary produced by Serialize. It returns
// an error rather than panicking on truncated or malformed input, since a
// corrupt bytecode file is an expected failure mode for a front end that
// loads one from disk.
func Deserialize(data []byte) (*Program, error) {
	r := bytes.NewReader(data)

	var gotMagic [4]byte
	if _, err := r.Read(gotMagic[:]); err != nil {
		return nil, fmt.Errorf("compiler: reading magic: %w", err)
	}
	if gotMagic != magic {
		return nil, fmt.Errorf("compiler: not a dust bytecode file (bad magic %q)", gotMagic)
	}

	version, err := readUint16(r)
	if err != nil {
		return nil, fmt.Errorf("compiler: reading version: %w", err)
	}
	if version != Version {
		return nil, fmt.Errorf("compiler: bytecode version %d unsupported by this build (want %d)", version, Version)
	}

	constantCount, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("compiler: reading constant count: %w", err)
	}
	var constants []Constant
	if constantCount > 0 {
		constants = make([]Constant, constantCount)
	}
	for i := range constants {
		k, err := readConstant(r)
		if err != nil {
			return nil, fmt.Errorf("compiler: reading constant %d: %w", i, err)
		}
		constants[i] = k
	}

	prototypeCount, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("compiler: reading prototype count: %w", err)
	}
	prototypes := make([]*Prototype, prototypeCount)
	for i := range prototypes {
		proto, err := readPrototype(r)
		if err != nil {
			return nil, fmt.Errorf("compiler: reading prototype %d: %w", i, err)
		}
		prototypes[i] = proto
	}

	return &Program{Prototypes: prototypes, Constants: constants}, nil
}

func writeConstant(buf *bytes.Buffer, k Constant) {
	buf.WriteByte(byte(k.Type))
	switch k.Type {
	case OperandBoolean:
		writeBool(buf, k.Bool)
	case OperandByte:
		buf.WriteByte(k.Byte)
	case OperandCharacter:
		writeUint32(buf, uint32(k.Char))
	case OperandFloat:
		writeUint64(buf, math.Float64bits(k.Float))
	case OperandInteger:
		writeUint64(buf, uint64(k.Int))
	case OperandString:
		writeString(buf, k.Str)
	}
}

func readConstant(r *bytes.Reader) (Constant, error) {
	typByte, err := r.ReadByte()
	if err != nil {
		return Constant{}, err
	}
	k := Constant{Type: OperandType(typByte)}

	switch k.Type {
	case OperandBoolean:
		v, err := readBool(r)
		if err != nil {
			return Constant{}, err
		}
		k.Bool = v
	case OperandByte:
		v, err := r.ReadByte()
		if err != nil {
			return Constant{}, err
		}
		k.Byte = v
	case OperandCharacter:
		v, err := readUint32(r)
		if err != nil {
			return Constant{}, err
		}
		k.Char = rune(v)
	case OperandFloat:
		v, err := readUint64(r)
		if err != nil {
			return Constant{}, err
		}
		k.Float = math.Float64frombits(v)
	case OperandInteger:
		v, err := readUint64(r)
		if err != nil {
			return Constant{}, err
		}
		k.Int = int64(v)
	case OperandString:
		v, err := readString(r)
		if err != nil {
			return Constant{}, err
		}
		k.Str = v
	}
	return k, nil
}

func writePrototype(buf *bytes.Buffer, proto *Prototype) {
	writeUint32(buf, proto.Index)
	writeString(buf, proto.Name)
	writeUint32(buf, uint32(proto.NamePosition))
	writeUint32(buf, proto.FunctionType)
	writeUint16(buf, proto.ParameterCount)
	writeUint16(buf, proto.RegisterCount)

	writeUint32(buf, uint32(len(proto.Instructions)))
	for _, instr := range proto.Instructions {
		writeUint64(buf, instr.Word())
	}

	writeUint32(buf, uint32(len(proto.CallArguments)))
	for _, a := range proto.CallArguments {
		writeAddress(buf, a.Address)
		buf.WriteByte(byte(a.OperandType))
	}

	writeUint32(buf, uint32(len(proto.ListElements)))
	for _, a := range proto.ListElements {
		writeAddress(buf, a.Address)
		buf.WriteByte(byte(a.OperandType))
	}

	writeUint32(buf, uint32(len(proto.DropLists)))
	for _, reg := range proto.DropLists {
		writeUint16(buf, reg)
	}
}

func readPrototype(r *bytes.Reader) (*Prototype, error) {
	proto := &Prototype{}

	var err error
	if proto.Index, err = readUint32(r); err != nil {
		return nil, err
	}
	if proto.Name, err = readString(r); err != nil {
		return nil, err
	}
	pos, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	proto.NamePosition = token.Pos(pos)
	if proto.FunctionType, err = readUint32(r); err != nil {
		return nil, err
	}
	if proto.ParameterCount, err = readUint16(r); err != nil {
		return nil, err
	}
	if proto.RegisterCount, err = readUint16(r); err != nil {
		return nil, err
	}

	instrCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	proto.Instructions = make([]Instruction, instrCount)
	for i := range proto.Instructions {
		w, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		proto.Instructions[i] = DecodeWord(w)
	}

	callArgCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	if callArgCount > 0 {
		proto.CallArguments = make([]CallArgument, callArgCount)
	}
	for i := range proto.CallArguments {
		if proto.CallArguments[i], err = readCallArgument(r); err != nil {
			return nil, err
		}
	}

	listElemCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	if listElemCount > 0 {
		proto.ListElements = make([]CallArgument, listElemCount)
	}
	for i := range proto.ListElements {
		if proto.ListElements[i], err = readCallArgument(r); err != nil {
			return nil, err
		}
	}

	dropCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	if dropCount > 0 {
		proto.DropLists = make([]uint16, dropCount)
	}
	for i := range proto.DropLists {
		if proto.DropLists[i], err = readUint16(r); err != nil {
			return nil, err
		}
	}

	return proto, nil
}

func readCallArgument(r *bytes.Reader) (CallArgument, error) {
	addr, err := readAddress(r)
	if err != nil {
		return CallArgument{}, err
	}
	typByte, err := r.ReadByte()
	if err != nil {
		return CallArgument{}, err
	}
	return CallArgument{Address: addr, OperandType: OperandType(typByte)}, nil
}

func writeAddress(buf *bytes.Buffer, a Address) {
	buf.WriteByte(byte(a.Kind))
	writeUint16(buf, a.Index)
}

func readAddress(r *bytes.Reader) (Address, error) {
	kindByte, err := r.ReadByte()
	if err != nil {
		return Address{}, err
	}
	index, err := readUint16(r)
	if err != nil {
		return Address{}, err
	}
	return Address{Kind: AddressKind(kindByte), Index: index}, nil
}

func writeBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func readBool(r *bytes.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil {
		return "", err
	}
	return string(b), nil
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func readUint16(r *bytes.Reader) (uint16, error) {
	var b [2]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func readUint64(r *bytes.Reader) (uint64, error) {
	var b [8]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
