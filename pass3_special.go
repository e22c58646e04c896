package z80dismblr

import "fmt"

// setSpecialLabels is pass 3. It names the synthetic entry point created by
// loading a .sna snapshot, and every load-address boundary created by
// loading one or more raw binaries into otherwise-unassigned memory.
func (d *Disassembler) setSpecialLabels() {
	if d.hasSNAStart && d.Labels.Get(d.snaStart) == nil {
		name := fmt.Sprintf("SNA_LBL_MAIN_START_%04X", d.snaStart)
		d.Labels.SetFixed(d.snaStart, name, d.Mem.Attribute(d.snaStart))
	}

	for a := 0; a < 65536; a++ {
		addr := uint16(a)
		if d.Mem.Attribute(addr)&Assigned == 0 {
			continue
		}
		prevAssigned := addr != 0 && d.Mem.Attribute(addr-1)&Assigned != 0
		if prevAssigned {
			continue
		}
		if d.Labels.Get(addr) != nil {
			continue
		}
		name := fmt.Sprintf("BIN_START_%04X", addr)
		d.Labels.SetFound(addr, nil, DataLbl, d.Mem.Attribute(addr))
		d.Labels.Get(addr).Name = name
		d.Labels.Get(addr).IsFixed = true
	}
}
