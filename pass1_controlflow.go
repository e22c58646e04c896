package z80dismblr

// collectLabels is pass 1: recursive control-flow discovery. It pops
// addresses from the queue until empty, linearly decoding each trace until
// it hits already-decoded code, unassigned memory, or a STOP instruction.
func (d *Disassembler) collectLabels() error {
	for {
		addr, ok := d.Queue.Pop()
		if !ok {
			break
		}
		if err := d.traceFrom(addr); err != nil {
			return err
		}
	}
	return nil
}

func (d *Disassembler) traceFrom(start uint16) error {
	cursor := start
	for {
		attr := d.Mem.Attribute(cursor)
		if attr&CodeFirst != 0 {
			return nil
		}
		if attr&Assigned == 0 {
			d.Sink.Warn(Event{
				Message:   "attempted to disassemble unassigned address",
				Addresses: []uint16{cursor},
			})
			return nil
		}
		if attr&Code != 0 {
			// cursor lands mid-instruction relative to a decode that already
			// claimed this byte as an operand: the same byte means two
			// different things depending on which trace reached it first.
			inst := Decode(d.Mem, cursor)
			anchor := d.findEnclosingCodeFirst(cursor)
			other := Decode(d.Mem, anchor)
			return &AmbiguousDisassemblyError{
				AddressA: cursor, MnemonicA: inst.Template,
				AddressB: anchor, MnemonicB: other.Template,
			}
		}

		inst := Decode(d.Mem, cursor)

		for i := uint16(1); i < uint16(inst.Length); i++ {
			if d.Mem.Attribute(cursor+i)&Code != 0 {
				anchor := d.findEnclosingCodeFirst(cursor + i)
				other := Decode(d.Mem, anchor)
				return &AmbiguousDisassemblyError{
					AddressA: cursor, MnemonicA: inst.Template,
					AddressB: anchor, MnemonicB: other.Template,
				}
			}
		}

		d.Mem.OrAttribute(cursor, 1, CodeFirst|Code)
		if inst.Length > 1 {
			d.Mem.OrAttribute(cursor+1, int(inst.Length)-1, Code)
		}

		if inst.HasImm && inst.Flags&FlagBranch != 0 {
			kind := d.branchTargetKind(inst, cursor)
			target := inst.ImmValue
			d.Labels.SetFound(target, []uint16{cursor}, kind, d.Mem.Attribute(target))

			targetAttr := d.Mem.Attribute(target)
			switch {
			case targetAttr&Code == 0:
				d.Queue.Push(target)
			case targetAttr&CodeFirst == 0:
				anchor := d.findEnclosingCodeFirst(target)
				other := Decode(d.Mem, anchor)
				return &AmbiguousDisassemblyError{
					AddressA: cursor, MnemonicA: inst.Template,
					AddressB: anchor, MnemonicB: other.Template,
				}
			}
		} else if inst.HasImm && inst.ImmKind == DataLbl {
			d.Labels.SetFound(inst.ImmValue, []uint16{cursor}, DataLbl, d.Mem.Attribute(inst.ImmValue))
		}

		if inst.Flags&FlagStop != 0 {
			return nil
		}
		cursor += uint16(inst.Length)
	}
}

// branchTargetKind implements the pass 1 default/promotion rule for a
// BRANCH_ADDRESS instruction's target label type.
func (d *Disassembler) branchTargetKind(inst Decoded, instrAddr uint16) LabelType {
	switch inst.ImmKind {
	case CodeLocalLbl:
		if inst.ImmValue <= instrAddr {
			return CodeLocalLoop
		}
		return CodeLocalLbl
	case CodeLbl:
		if d.Mem.Attribute(inst.ImmValue)&Assigned == 0 {
			return CodeSub
		}
		return CodeLbl
	default:
		return inst.ImmKind
	}
}

// findEnclosingCodeFirst scans backward up to the maximum instruction
// length (4 bytes, DDCB/FDCB) to find the CODE_FIRST byte that owns addr.
func (d *Disassembler) findEnclosingCodeFirst(addr uint16) uint16 {
	a := addr
	for i := 0; i < 4; i++ {
		if d.Mem.Attribute(a)&CodeFirst != 0 {
			return a
		}
		a--
	}
	return addr
}
