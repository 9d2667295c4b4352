// Package disasm renders a compiled Program as a human-readable table of
// instructions, constants and prototypes, grounded on the original Rust
// implementation's ChunkDisassembler (original_source/dust-lang/src/chunk.rs):
// the same bordered, fixed-width box layout and the same header/detail/border
// row kinds. Function values are not disassembled recursively, so every row
// is printed at the same indentation. The styling is adapted from that
// builder's hand-rolled
// bold/dim ANSI codes to github.com/charmbracelet/lipgloss, which the rest
// of this module already pulls in for internal/replui's terminal UI.
package disasm

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dust-lang/dust/lang/compiler"
)

const defaultWidth = 88

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	borderStyle = lipgloss.NewStyle().Faint(true)
)

var instructionHeader = [...]string{
	"Instructions",
	"------------",
	"INDEX OPERATION       TYPE           LEFT       RIGHT      DEST     FLAGS",
	"----- --------------- -------------- ---------- ---------- -------- -----",
}

var constantHeader = [...]string{
	"Constants",
	"---------",
	"INDEX VALUE",
	"----- -----",
}

// Disassembler formats one Program. Mirrors the original's builder: a
// Disassembler is configured with Styled/Width before calling Disassemble.
type Disassembler struct {
	program *compiler.Program
	width   int
	styled  bool
	indent  int
}

func New(program *compiler.Program) *Disassembler {
	return &Disassembler{program: program, width: defaultWidth}
}

func (d *Disassembler) Styled(styled bool) *Disassembler {
	d.styled = styled
	return d
}

func (d *Disassembler) Width(width int) *Disassembler {
	d.width = width
	return d
}

// Disassemble renders every prototype in the program, entry point (index 0,
// "main") first.
func (d *Disassembler) Disassemble() string {
	var b strings.Builder
	d.pushBorder(&b, d.topBorder())
	for i, proto := range d.program.Prototypes {
		d.disassemblePrototype(&b, proto)
		if i != len(d.program.Prototypes)-1 {
			d.pushBorder(&b, d.sectionBorder())
		}
	}
	d.pushBorder(&b, d.bottomBorder())
	return b.String()
}

func (d *Disassembler) disassemblePrototype(b *strings.Builder, proto *compiler.Prototype) {
	d.pushHeader(b, fmt.Sprintf("%s (prototype %d)", proto.Name, proto.Index))
	d.pushDetail(b, fmt.Sprintf("%d instructions, %d registers, %d parameters",
		len(proto.Instructions), proto.RegisterCount, proto.ParameterCount))

	for _, line := range instructionHeader {
		d.pushHeader(b, line)
	}
	for i, instr := range proto.Instructions {
		d.pushDetail(b, formatInstruction(i, instr))
	}

	if len(d.program.Constants) > 0 && proto.Index == 0 {
		d.pushBorder(b, d.sectionBorder())
		for _, line := range constantHeader {
			d.pushHeader(b, line)
		}
		for i, k := range d.program.Constants {
			d.pushDetail(b, fmt.Sprintf("%-5d %s", i, formatConstant(k)))
		}
	}
}

func formatInstruction(index int, instr compiler.Instruction) string {
	flags := ""
	switch instr.Operation {
	case compiler.JUMP, compiler.MOVE_WITH_JUMP:
		sign := "-"
		if instr.JumpPositive {
			sign = "+"
		}
		flags = fmt.Sprintf("jmp%s%d", sign, instr.Left.Index)
	case compiler.TEST, compiler.EQUAL, compiler.LESS, compiler.LESS_EQUAL:
		flags = fmt.Sprintf("cmp=%t", instr.Comparator)
	case compiler.CALL:
		if instr.IsRecursive {
			flags = "recursive"
		}
	case compiler.RETURN:
		flags = fmt.Sprintf("hasvalue=%t", instr.ShouldReturnValue)
	}

	return fmt.Sprintf("%-5d %-15s %-14s %-10s %-10s %-8s %-5s",
		index,
		instr.Operation.String(),
		instr.OperandType.String(),
		formatAddress(instr.Left),
		formatAddress(instr.Right),
		formatAddress(instr.Destination),
		flags,
	)
}

func formatAddress(a compiler.Address) string {
	switch a.Kind {
	case compiler.AddressRegister:
		return fmt.Sprintf("r%d", a.Index)
	case compiler.AddressConstant:
		return fmt.Sprintf("k%d", a.Index)
	case compiler.AddressEncoded:
		return fmt.Sprintf("#%d", a.Index)
	default:
		return "-"
	}
}

func formatConstant(k compiler.Constant) string {
	switch k.Type {
	case compiler.OperandBoolean:
		return fmt.Sprintf("%t", k.Bool)
	case compiler.OperandByte:
		return fmt.Sprintf("%db", k.Byte)
	case compiler.OperandCharacter:
		return fmt.Sprintf("%q", k.Char)
	case compiler.OperandFloat:
		return fmt.Sprintf("%g", k.Float)
	case compiler.OperandInteger:
		return fmt.Sprintf("%d", k.Int)
	case compiler.OperandString:
		return fmt.Sprintf("%q", k.Str)
	default:
		return "none"
	}
}

func (d *Disassembler) pushHeader(b *strings.Builder, text string) {
	d.pushLine(b, text, headerStyle)
}

func (d *Disassembler) pushDetail(b *strings.Builder, text string) {
	d.pushLine(b, text, lipgloss.NewStyle())
}

func (d *Disassembler) pushBorder(b *strings.Builder, text string) {
	d.pushLine(b, text, borderStyle)
}

func (d *Disassembler) pushLine(b *strings.Builder, text string, style lipgloss.Style) {
	for i := 0; i < d.indent; i++ {
		b.WriteString("│   ")
	}
	content := text
	if d.styled {
		content = style.Render(text)
	}
	b.WriteString(content)
	b.WriteByte('\n')
}

func (d *Disassembler) topBorder() string {
	return "┌" + strings.Repeat("─", d.width-2) + "┐"
}

func (d *Disassembler) sectionBorder() string {
	return "│" + strings.Repeat("┈", d.width-2) + "│"
}

func (d *Disassembler) bottomBorder() string {
	return "└" + strings.Repeat("─", d.width-2) + "┘"
}
