package z80dismblr

// adjustSelfModifyingLabels is pass 5. A DATA_LBL whose target lands inside
// an instruction rather than at its first byte describes code that patches
// its own operand at runtime. The label can't live at its original address
// (that address already belongs to the owning instruction's CODE_FIRST
// byte), so it is merged onto the anchor and the original address keeps
// only a signed offset for rendering.
func (d *Disassembler) adjustSelfModifyingLabels() {
	for _, l := range d.Labels.All() {
		if l.Type != DataLbl {
			continue
		}
		attr := d.Mem.Attribute(l.Address)
		if attr&Code == 0 || attr&CodeFirst != 0 {
			continue
		}

		anchor := d.findEnclosingCodeFirst(l.Address)
		referrers := make([]uint16, 0, len(l.Referrers))
		for r := range l.Referrers {
			referrers = append(referrers, r)
		}

		d.Labels.SetFound(anchor, referrers, l.Type, d.Mem.Attribute(anchor))
		d.Labels.Delete(l.Address)
		d.Labels.OffsetLabels[l.Address] = int16(anchor) - int16(l.Address)
	}
}
