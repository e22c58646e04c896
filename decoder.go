package z80dismblr

import (
	"strconv"
	"strings"
)

// Decoded is the result of decoding one instruction: its address, total
// length in bytes, mnemonic template (pre-operand-substitution, used by the
// complexity pass to classify conditional branches/returns), the raw
// instruction bytes, and the resolved immediate with its label-type kind and
// control-flow flags.
type Decoded struct {
	Address  uint16
	Length   uint8
	Template string
	Bytes    []byte
	ImmKind  LabelType
	Flags    InstrFlag
	ImmValue uint16
	HasImm   bool
}

// Decode reads the instruction at addr from mem and returns its decoded
// form. It does not mutate mem or any analysis state.
func Decode(mem *MemSpace, addr uint16) Decoded {
	b0 := mem.ReadByte(addr)

	switch b0 {
	case 0xCB:
		op := mem.ReadByte(addr + 1)
		instr := cbTable[op]
		return Decoded{
			Address:  addr,
			Length:   instr.Length,
			Template: instr.Mnemonic,
			Bytes:    readBytes(mem, addr, instr.Length),
			ImmKind:  LabelNone,
			Flags:    instr.Flags,
		}
	case 0xED:
		op := mem.ReadByte(addr + 1)
		instr := edTable[op]
		d := Decoded{
			Address:  addr,
			Length:   instr.Length,
			Template: instr.Mnemonic,
			Flags:    instr.Flags,
		}
		if instr.ImmKind == DataLbl && instr.Length == 4 {
			d.ImmKind = DataLbl
			d.ImmValue = mem.ReadWord(addr + 2)
			d.HasImm = true
		}
		d.Bytes = readBytes(mem, addr, d.Length)
		return d
	case 0xDD:
		return decodeIndexed(mem, addr, "IX")
	case 0xFD:
		return decodeIndexed(mem, addr, "IY")
	default:
		return decodeBase(mem, addr, b0)
	}
}

func decodeBase(mem *MemSpace, addr uint16, op byte) Decoded {
	instr := baseTable[op]
	d := Decoded{
		Address:  addr,
		Length:   instr.Length,
		Template: instr.Mnemonic,
		Flags:    instr.Flags,
	}

	switch instr.ImmKind {
	case CodeLocalLbl:
		e := int8(mem.ReadByte(addr + 1))
		d.ImmValue = addr + 2 + uint16(int16(e))
		d.ImmKind = CodeLocalLbl
		d.HasImm = true
	case CodeLbl, CodeSub:
		d.ImmValue = mem.ReadWord(addr + 1)
		d.ImmKind = instr.ImmKind
		d.HasImm = true
	case CodeRst:
		d.ImmValue = uint16(op & 0x38)
		d.ImmKind = CodeRst
		d.HasImm = true
	case NumberByte, PortLbl:
		d.ImmValue = uint16(mem.ReadByte(addr + 1))
		d.ImmKind = instr.ImmKind
		d.HasImm = true
	case NumberWord, DataLbl:
		d.ImmValue = mem.ReadWord(addr + 1)
		d.ImmKind = instr.ImmKind
		d.HasImm = true
	}

	d.Bytes = readBytes(mem, addr, d.Length)
	return d
}

// decodeIndexed decodes a DD- or FD-prefixed instruction. The prefix swaps
// HL for IX/IY; when the base instruction touches (HL) a displacement byte
// is inserted immediately after the opcode. Instructions that reference
// neither HL nor (HL) pass through unaffected other than the wasted prefix
// byte, matching real Z80 behavior.
func decodeIndexed(mem *MemSpace, addr uint16, reg string) Decoded {
	op := mem.ReadByte(addr + 1)

	if op == 0xCB {
		d8 := int8(mem.ReadByte(addr + 2))
		cbOp := mem.ReadByte(addr + 3)
		instr := cbTable[cbOp]
		template := strings.ReplaceAll(instr.Mnemonic, "(HL)", "("+reg+displacementText(d8)+")")
		return Decoded{
			Address:  addr,
			Length:   4,
			Template: template,
			Bytes:    readBytes(mem, addr, 4),
			ImmKind:  LabelNone,
			Flags:    instr.Flags,
		}
	}

	base := baseTable[op]
	usesMem := strings.Contains(base.Mnemonic, "(HL)")
	usesReg := !usesMem && strings.Contains(base.Mnemonic, "HL")

	if !usesMem && !usesReg {
		d := decodeBaseAt(mem, addr+1, op, addr+2)
		d.Address = addr
		d.Length = base.Length + 1
		d.Bytes = readBytes(mem, addr, d.Length)
		return d
	}

	var dispByte int8
	operandAddr := addr + 2
	if usesMem {
		dispByte = int8(mem.ReadByte(addr + 2))
		operandAddr = addr + 3
	}

	template := base.Mnemonic
	if usesMem {
		template = strings.ReplaceAll(template, "(HL)", "("+reg+displacementText(dispByte)+")")
	} else {
		template = strings.ReplaceAll(template, "HL", reg)
	}

	d := Decoded{
		Address:  addr,
		Template: template,
		Flags:    base.Flags,
	}

	switch base.ImmKind {
	case NumberByte, PortLbl:
		d.ImmValue = uint16(mem.ReadByte(operandAddr))
		d.ImmKind = base.ImmKind
		d.HasImm = true
	case NumberWord, DataLbl:
		d.ImmValue = mem.ReadWord(operandAddr)
		d.ImmKind = base.ImmKind
		d.HasImm = true
	}

	extra := uint8(0)
	if usesMem {
		extra = 1
	}
	d.Length = base.Length + 1 + extra
	d.Bytes = readBytes(mem, addr, d.Length)
	return d
}

// decodeBaseAt decodes a base-table instruction whose operand bytes begin at
// operandAddr instead of opAddr+1, used for the DD/FD "wasted prefix" case
// where decoding is otherwise identical to the unprefixed instruction.
func decodeBaseAt(mem *MemSpace, opAddr uint16, op byte, operandAddr uint16) Decoded {
	instr := baseTable[op]
	d := Decoded{
		Template: instr.Mnemonic,
		Flags:    instr.Flags,
	}

	switch instr.ImmKind {
	case CodeLocalLbl:
		e := int8(mem.ReadByte(operandAddr))
		d.ImmValue = operandAddr + 1 + uint16(int16(e))
		d.ImmKind = CodeLocalLbl
		d.HasImm = true
	case CodeLbl, CodeSub:
		d.ImmValue = mem.ReadWord(operandAddr)
		d.ImmKind = instr.ImmKind
		d.HasImm = true
	case CodeRst:
		d.ImmValue = uint16(op & 0x38)
		d.ImmKind = CodeRst
		d.HasImm = true
	case NumberByte, PortLbl:
		d.ImmValue = uint16(mem.ReadByte(operandAddr))
		d.ImmKind = instr.ImmKind
		d.HasImm = true
	case NumberWord, DataLbl:
		d.ImmValue = mem.ReadWord(operandAddr)
		d.ImmKind = instr.ImmKind
		d.HasImm = true
	}
	return d
}

func readBytes(mem *MemSpace, addr uint16, length uint8) []byte {
	out := make([]byte, length)
	a := addr
	for i := range out {
		out[i] = mem.ReadByte(a)
		a++
	}
	return out
}

func displacementText(d int8) string {
	if d < 0 {
		return strconv.Itoa(int(d))
	}
	return "+" + strconv.Itoa(int(d))
}
