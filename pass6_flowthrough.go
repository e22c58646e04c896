package z80dismblr

// addFlowThroughReferences is pass 6. A subroutine that simply falls off
// its own end into the next one is a real caller of that next label even
// though nothing branched to it; this pass records that referrer so pass 9
// and the call graph see it.
func (d *Disassembler) addFlowThroughReferences() {
	for _, l := range d.Labels.All() {
		if l.Type != CodeLbl && l.Type != CodeSub && l.Type != CodeRst {
			continue
		}

		cursor := l.Address
		for {
			if d.Mem.Attribute(cursor)&Assigned == 0 {
				break
			}
			inst := Decode(d.Mem, cursor)
			last := cursor
			if inst.Flags&FlagStop != 0 {
				break
			}
			next := cursor + uint16(inst.Length)
			if other := d.Labels.Get(next); other != nil && other != l &&
				(other.Type == CodeLbl || other.Type == CodeSub) {
				other.Referrers[last] = struct{}{}
				break
			}
			cursor = next
		}
	}
}
