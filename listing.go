package z80dismblr

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// ListingConfig controls both the names pass 11 assigns (the eight label
// prefixes) and the textual rendering produced by WriteListing (everything
// else). The zero value is a usable default: uppercase mnemonics, two blank
// lines between code blocks, no cross-reference comments, no opcode-bytes
// column, and the built-in SUB/LBL/RST/... prefixes.
type ListingConfig struct {
	OpcodesLowerCase bool

	// NumberOfLinesBetweenBlocks is the blank-line count emitted between an
	// ORG transition and the preceding block. Zero means "use the default
	// of 2".
	NumberOfLinesBetweenBlocks int

	AddReferencesToSubroutines bool
	AddReferencesToAbsoluteLbl bool
	AddReferencesToRstLabels   bool
	AddReferencesToDataLabels  bool

	AddOpcodeBytes bool

	// AddressColumnWidth, BytesColumnWidth, OpcodeFirstPartWidth, and
	// MnemonicColumnWidth pad their respective columns to at least this
	// many characters. Zero means "use the built-in default", except for
	// OpcodeFirstPartWidth, where zero leaves the opcode unpadded.
	AddressColumnWidth   int
	BytesColumnWidth     int
	OpcodeFirstPartWidth int
	MnemonicColumnWidth  int

	// Label prefixes consumed by pass 2 (LabelIntrptPrefix) and pass 11
	// (the rest), not by WriteListing itself: a label's Name is already
	// fixed by the time a listing is rendered. Empty means "use the
	// built-in default". LabelLocalLablePrefix keeps spec's own spelling.
	LabelSubPrefix           string
	LabelLblPrefix           string
	LabelRstPrefix           string
	LabelDataLblPrefix       string
	LabelSelfModifyingPrefix string
	LabelLocalLablePrefix    string
	LabelLoopPrefix          string
	LabelIntrptPrefix        string
}

func (c ListingConfig) blankLines() int {
	if c.NumberOfLinesBetweenBlocks > 0 {
		return c.NumberOfLinesBetweenBlocks
	}
	return 2
}

func (c ListingConfig) addressWidth() int {
	if c.AddressColumnWidth > 0 {
		return c.AddressColumnWidth
	}
	return 4
}

func (c ListingConfig) bytesWidth() int {
	if c.BytesColumnWidth > 0 {
		return c.BytesColumnWidth
	}
	return 15
}

func (c ListingConfig) opcodeFirstPartWidth() int {
	if c.OpcodeFirstPartWidth > 0 {
		return c.OpcodeFirstPartWidth
	}
	return 6
}

func (c ListingConfig) mnemonicWidth() int {
	if c.MnemonicColumnWidth > 0 {
		return c.MnemonicColumnWidth
	}
	return 24
}

func (c ListingConfig) subPrefix() string {
	if c.LabelSubPrefix != "" {
		return c.LabelSubPrefix
	}
	return "SUB"
}

func (c ListingConfig) lblPrefix() string {
	if c.LabelLblPrefix != "" {
		return c.LabelLblPrefix
	}
	return "LBL"
}

func (c ListingConfig) rstPrefix() string {
	if c.LabelRstPrefix != "" {
		return c.LabelRstPrefix
	}
	return "RST"
}

func (c ListingConfig) dataLblPrefix() string {
	if c.LabelDataLblPrefix != "" {
		return c.LabelDataLblPrefix
	}
	return "DATA"
}

func (c ListingConfig) selfModifyingPrefix() string {
	if c.LabelSelfModifyingPrefix != "" {
		return c.LabelSelfModifyingPrefix
	}
	return "SELF_MOD"
}

func (c ListingConfig) localLablePrefix() string {
	if c.LabelLocalLablePrefix != "" {
		return c.LabelLocalLablePrefix
	}
	return "_l"
}

func (c ListingConfig) loopPrefix() string {
	if c.LabelLoopPrefix != "" {
		return c.LabelLoopPrefix
	}
	return "_loop"
}

func (c ListingConfig) intrptPrefix() string {
	if c.LabelIntrptPrefix != "" {
		return c.LabelIntrptPrefix
	}
	return "INTRPT"
}

// WriteListing renders the full disassembly as a single text stream: an EQU
// preamble followed by the address-ordered code/data body.
func WriteListing(d *Disassembler, w io.Writer, cfg ListingConfig) {
	writeEquPreamble(d, w, cfg)
	writeBody(d, w, cfg)
}

func writeEquPreamble(d *Disassembler, w io.Writer, cfg ListingConfig) {
	for _, l := range d.Labels.All() {
		if !l.IsEqu {
			continue
		}
		fmt.Fprintf(w, "%s: EQU %d ; %s.%s\n", l.Name, l.Address, hexWord(l.Address), referenceSuffix(l, cfg))
	}
}

func writeBody(d *Disassembler, w io.Writer, cfg ListingConfig) {
	prevAssigned := false
	blankPending := false

	for a := 0; a < 65536; a++ {
		addr := uint16(a)
		attr := d.Mem.Attribute(addr)
		if attr&Assigned == 0 {
			prevAssigned = false
			continue
		}
		if !prevAssigned {
			if blankPending {
				for i := 0; i < cfg.blankLines(); i++ {
					fmt.Fprintln(w)
				}
			}
			fmt.Fprintf(w, "ORG %d ; %s\n", addr, hexWord(addr))
			blankPending = true
		}
		prevAssigned = true

		if l := d.Labels.Get(addr); l != nil && !l.IsEqu {
			fmt.Fprintf(w, "%s:\n", l.Name)
		}

		if attr&CodeFirst != 0 {
			inst := Decode(d.Mem, addr)
			writeInstructionLine(d, w, addr, inst, cfg)
			a += int(inst.Length) - 1
			continue
		}
		if attr&Code != 0 {
			// Tail byte of a multi-byte instruction whose CODE_FIRST byte
			// already printed the full line; nothing further to render.
			continue
		}

		writeDataLine(d, w, addr, cfg)
	}
}

func writeInstructionLine(d *Disassembler, w io.Writer, addr uint16, inst Decoded, cfg ListingConfig) {
	mnemonic := renderMnemonic(d, inst)
	if cfg.OpcodesLowerCase {
		mnemonic = strings.ToLower(mnemonic)
	}
	if cfg.OpcodeFirstPartWidth > 0 {
		mnemonic = padOpcodeFirstPart(mnemonic, cfg)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-*s ", cfg.addressWidth(), hexWord(addr))
	if cfg.AddOpcodeBytes {
		bytesStart := sb.Len()
		for _, b := range inst.Bytes {
			fmt.Fprintf(&sb, "%02X ", b)
		}
		padTo(&sb, bytesStart+cfg.bytesWidth())
	}
	sb.WriteString(mnemonic)

	if comment := instructionComment(d, addr, inst, cfg); comment != "" {
		padTo(&sb, sb.Len()+cfg.mnemonicWidth()-len(mnemonic))
		sb.WriteString("; ")
		sb.WriteString(comment)
	}

	fmt.Fprintln(w, sb.String())
}

// padOpcodeFirstPart pads a mnemonic's leading token (the opcode itself, e.g.
// "LD") to OpcodeFirstPartWidth, leaving the operand text that follows
// unpadded. A mnemonic with no operands (no space) is returned unchanged.
func padOpcodeFirstPart(mnemonic string, cfg ListingConfig) string {
	i := strings.IndexByte(mnemonic, ' ')
	if i < 0 {
		return mnemonic
	}
	op, rest := mnemonic[:i], mnemonic[i+1:]
	var sb strings.Builder
	sb.WriteString(op)
	padTo(&sb, cfg.opcodeFirstPartWidth())
	sb.WriteString(rest)
	return sb.String()
}

func writeDataLine(d *Disassembler, w io.Writer, addr uint16, cfg ListingConfig) {
	b := d.Mem.ReadByte(addr)
	line := fmt.Sprintf("%-*s DEFB %s", cfg.addressWidth(), hexWord(addr), hexByte(b))
	if cfg.OpcodesLowerCase {
		line = strings.ToLower(line)
	}
	fmt.Fprintln(w, line)
}

// renderMnemonic substitutes an instruction's "{x}" operand sentinel with
// its resolved text: a label name (preferring the offset-label form for
// self-modified targets), or a hex literal when no label applies.
func renderMnemonic(d *Disassembler, inst Decoded) string {
	if !inst.HasImm {
		return inst.Template
	}
	return strings.Replace(inst.Template, "{x}", d.resolveOperandText(inst.ImmKind, inst.ImmValue), 1)
}

func (d *Disassembler) resolveOperandText(kind LabelType, value uint16) string {
	switch kind {
	case NumberByte:
		return hexByte(uint8(value))
	case NumberWord, RelativeIndex:
		return hexWord(value)
	}

	if offs, ok := d.Labels.OffsetLabels[value]; ok {
		anchor := uint16(int32(value) + int32(offs))
		name := ""
		if l := d.Labels.Get(anchor); l != nil {
			name = l.Name
		}
		delta := -offs
		if delta == 0 {
			return name
		}
		return fmt.Sprintf("%s+%d", name, delta)
	}
	if l := d.Labels.Get(value); l != nil {
		return l.Name
	}
	return hexWord(value)
}

func instructionComment(d *Disassembler, addr uint16, inst Decoded, cfg ListingConfig) string {
	l := d.Labels.Get(addr)
	if l == nil {
		return ""
	}
	wantRefs := false
	switch l.Type {
	case CodeSub:
		wantRefs = cfg.AddReferencesToSubroutines
	case CodeRst:
		wantRefs = cfg.AddReferencesToRstLabels
	case CodeLbl:
		wantRefs = cfg.AddReferencesToAbsoluteLbl
	case DataLbl:
		wantRefs = cfg.AddReferencesToDataLabels
	}
	if !wantRefs {
		return ""
	}
	return referenceSuffix(l, cfg)
}

func referenceSuffix(l *Label, cfg ListingConfig) string {
	if len(l.Referrers) == 0 {
		return ""
	}
	refs := make([]string, 0, len(l.Referrers))
	for r := range l.Referrers {
		refs = append(refs, hexWord(r))
	}
	sort.Strings(refs)
	return " referenced from " + strings.Join(refs, ", ")
}

func padTo(sb *strings.Builder, col int) {
	for sb.Len() < col {
		sb.WriteByte(' ')
	}
}

func hexByte(v uint8) string { return hexLit(fmt.Sprintf("%02X", v)) }
func hexWord(v uint16) string { return hexLit(fmt.Sprintf("%04X", v)) }

func hexLit(digits string) string {
	if digits[0] < '0' || digits[0] > '9' {
		digits = "0" + digits
	}
	return digits + "h"
}
