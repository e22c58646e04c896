package z80dismblr

import "fmt"

// findInterruptLabels is pass 2. It scans the whole address space looking
// for CODE_FIRST bytes that were reached by pass 1 but have no label yet and
// sit at a control-flow discontinuity: either the previous byte is
// unassigned/non-code, or the previous CODE_FIRST instruction ended with
// STOP. Both describe an address a debugger would only ever land on via an
// interrupt vector.
func (d *Disassembler) findInterruptLabels() {
	var candidates []uint16
	lastWasStop := true
	lastInstrEnd := uint16(0)
	haveLast := false

	for a := 0; a < 65536; a++ {
		addr := uint16(a)
		attr := d.Mem.Attribute(addr)
		if attr&CodeFirst == 0 || attr&Assigned == 0 {
			continue
		}

		exempt := (d.hasSNAStart && addr == d.snaStart) || d.EntryPoints[addr]
		if d.Labels.Get(addr) == nil && !exempt {
			prevDiscontinuous := addr == 0 ||
				d.Mem.Attribute(addr-1)&Assigned == 0 ||
				d.Mem.Attribute(addr-1)&Code == 0
			prevStop := haveLast && lastInstrEnd == addr && lastWasStop
			if prevDiscontinuous || prevStop {
				candidates = append(candidates, addr)
			}
		}

		inst := Decode(d.Mem, addr)
		lastWasStop = inst.Flags&FlagStop != 0
		lastInstrEnd = addr + uint16(inst.Length)
		haveLast = true
	}

	prefix := d.cfg.intrptPrefix()
	for i, addr := range candidates {
		name := prefix
		if len(candidates) > 1 {
			name = fmt.Sprintf("%s%d", prefix, i+1)
		}
		l, _ := d.Labels.SetFixed(addr, name, d.Mem.Attribute(addr))
		l.BelongsToInterrupt = true
	}
}
