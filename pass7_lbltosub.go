package z80dismblr

import "strings"

// turnLBLintoSUB is pass 7. A CODE_LBL that eventually returns is really a
// subroutine entered by fallthrough or a bare JP rather than a CALL;
// promote it so the call graph and naming treat it as one.
func (d *Disassembler) turnLBLintoSUB() {
	for _, l := range d.Labels.All() {
		if l.Type != CodeLbl {
			continue
		}
		if d.reachesReturn(l.Address, make(map[uint16]bool)) {
			l.Type = CodeSub
		}
	}
}

// reachesReturn performs a depth-first walk of linear flow plus non-call
// branches starting at addr, reporting whether a RET-family mnemonic is
// reachable. Reaching an address already typed CODE_SUB/CODE_RST counts as
// success without descending further into that routine's body.
func (d *Disassembler) reachesReturn(addr uint16, visited map[uint16]bool) bool {
	for {
		if visited[addr] {
			return false
		}
		visited[addr] = true

		if lbl := d.Labels.Get(addr); lbl != nil && (lbl.Type == CodeSub || lbl.Type == CodeRst) {
			return true
		}
		if d.Mem.Attribute(addr)&Assigned == 0 {
			return false
		}

		inst := Decode(d.Mem, addr)
		if isReturnMnemonic(inst.Template) {
			return true
		}
		if inst.Flags&FlagBranch != 0 && inst.Flags&FlagCall == 0 {
			if d.reachesReturn(inst.ImmValue, visited) {
				return true
			}
		}
		if inst.Flags&FlagStop != 0 {
			return false
		}
		addr += uint16(inst.Length)
	}
}

func isReturnMnemonic(template string) bool {
	return strings.HasPrefix(strings.ToUpper(template), "RET")
}
