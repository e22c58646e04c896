package z80dismblr

import "strings"

// addCallsListToLabels is the first half of pass 10: every referrer of a
// top-level label becomes, via its parent, a callee edge on the caller.
func (d *Disassembler) addCallsListToLabels() {
	for _, l := range d.Labels.All() {
		if l.Type != CodeSub && l.Type != CodeRst && l.Type != CodeLbl {
			continue
		}
		for r := range l.Referrers {
			if parent := d.Parent[r]; parent != nil {
				parent.Callees = append(parent.Callees, l)
			}
		}
	}
}

// countStatistics is the second half of pass 10: size, instruction count,
// and cyclomatic complexity per non-EQU top-level label, plus the global
// min/max used to scale call graph font sizes.
func (d *Disassembler) countStatistics() {
	first := true
	for _, l := range d.Labels.All() {
		if l.Type != CodeSub && l.Type != CodeRst && l.Type != CodeLbl {
			continue
		}
		if l.IsEqu {
			continue
		}

		stats := d.walkStats(l.Address)
		l.Stats = stats

		if first {
			d.StatsMin, d.StatsMax = stats, stats
			first = false
			continue
		}
		if stats.SizeInBytes < d.StatsMin.SizeInBytes {
			d.StatsMin.SizeInBytes = stats.SizeInBytes
		}
		if stats.CountOfInstructions < d.StatsMin.CountOfInstructions {
			d.StatsMin.CountOfInstructions = stats.CountOfInstructions
		}
		if stats.CyclomaticComplexity < d.StatsMin.CyclomaticComplexity {
			d.StatsMin.CyclomaticComplexity = stats.CyclomaticComplexity
		}
		if stats.SizeInBytes > d.StatsMax.SizeInBytes {
			d.StatsMax.SizeInBytes = stats.SizeInBytes
		}
		if stats.CountOfInstructions > d.StatsMax.CountOfInstructions {
			d.StatsMax.CountOfInstructions = stats.CountOfInstructions
		}
		if stats.CyclomaticComplexity > d.StatsMax.CyclomaticComplexity {
			d.StatsMax.CyclomaticComplexity = stats.CyclomaticComplexity
		}
	}
}

// isConditionalBranch reports whether inst is a branch that doesn't always
// take: its mnemonic carries a condition (a comma, e.g. "JP NZ,{x}"), or it
// is DJNZ, which is conditional on B without a comma in its mnemonic.
func isConditionalBranch(inst Decoded) bool {
	if inst.Flags&FlagBranch == 0 {
		return false
	}
	return strings.Contains(inst.Template, ",") || strings.HasPrefix(inst.Template, "DJNZ")
}

func (d *Disassembler) walkStats(start uint16) Stats {
	visited := make(map[uint16]bool)
	s := Stats{CyclomaticComplexity: 1}

	var walk func(addr uint16)
	walk = func(addr uint16) {
		for {
			if visited[addr] {
				return
			}
			if d.Mem.Attribute(addr)&Assigned == 0 {
				return
			}
			if lbl := d.Labels.Get(addr); lbl != nil && addr != start &&
				(lbl.Type == CodeSub || lbl.Type == CodeRst) {
				return
			}

			visited[addr] = true
			inst := Decode(d.Mem, addr)
			s.SizeInBytes += int(inst.Length)
			s.CountOfInstructions++

			switch {
			case isConditionalBranch(inst):
				s.CyclomaticComplexity++
			case strings.HasPrefix(inst.Template, "RET "):
				s.CyclomaticComplexity++
			}

			if inst.Flags&FlagBranch != 0 {
				walk(inst.ImmValue)
			}
			if inst.Flags&FlagStop != 0 {
				return
			}
			addr += uint16(inst.Length)
		}
	}
	walk(start)
	return s
}
