package z80dismblr

// addParentReferences is pass 9. It assigns every address to the top-level
// label that owns it, then drops referrers that are really just internal
// control flow folding back on its own entry point (a loop back to the top
// of a subroutine isn't a second caller) while preserving genuine
// self-recursive CALLs so the call graph still shows them.
func (d *Disassembler) addParentReferences() {
	var owners []*Label
	for _, l := range d.Labels.All() {
		if l.Type == CodeSub || l.Type == CodeRst || l.Type == CodeLbl {
			owners = append(owners, l)
		}
	}

	for _, owner := range owners {
		d.walkBody(owner, owner.Address, make(map[uint16]bool))
	}

	for _, l := range d.Labels.All() {
		for r := range l.Referrers {
			if d.Parent[r] != l {
				continue
			}
			if Decode(d.Mem, r).Flags&FlagCall != 0 {
				continue
			}
			delete(l.Referrers, r)
		}
	}

	for _, l := range d.Labels.All() {
		if l.Type != CodeSub && l.Type != CodeRst {
			continue
		}
		if len(l.Referrers) == 0 {
			continue
		}
		onlySelf := true
		for r := range l.Referrers {
			if d.Parent[r] != l {
				onlySelf = false
				break
			}
		}
		if onlySelf {
			d.Sink.Warn(Event{
				Message:   "subroutine is only ever called by itself",
				Addresses: []uint16{l.Address},
			})
		}
	}
}

// walkBody records owner as the parent of every address in its body,
// stopping at any other top-level label (CODE_SUB/CODE_RST/CODE_LBL).
func (d *Disassembler) walkBody(owner *Label, addr uint16, visited map[uint16]bool) {
	for {
		if visited[addr] {
			return
		}
		if d.Mem.Attribute(addr)&Assigned == 0 {
			return
		}
		if lbl := d.Labels.Get(addr); lbl != nil && lbl != owner &&
			(lbl.Type == CodeSub || lbl.Type == CodeRst || lbl.Type == CodeLbl) {
			return
		}

		visited[addr] = true
		d.Parent[addr] = owner

		inst := Decode(d.Mem, addr)
		if inst.Flags&FlagBranch != 0 {
			d.walkBody(owner, inst.ImmValue, visited)
		}
		if inst.Flags&FlagStop != 0 {
			return
		}
		addr += uint16(inst.Length)
	}
}
