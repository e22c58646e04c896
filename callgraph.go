package z80dismblr

import (
	"fmt"
	"io"
	"sort"
)

// WriteCallGraph renders the subroutine/label call graph as Graphviz DOT.
// One node per CODE_SUB/CODE_RST/CODE_LBL; an edge per distinct callee.
// Font size scales linearly on cyclomatic complexity across the pass-10
// global min/max; EQU labels are grey, zero-referrer/orphan nodes
// lightyellow, pass-9-warned self-only-recursive subroutines lightblue.
func WriteCallGraph(d *Disassembler, w io.Writer) {
	fmt.Fprintln(w, "digraph callgraph {")
	fmt.Fprintln(w, `  rankdir="TB";`)

	var nodes []*Label
	for _, l := range d.Labels.All() {
		if l.Type == CodeSub || l.Type == CodeRst || l.Type == CodeLbl {
			nodes = append(nodes, l)
		}
	}

	var zeroRef, withRef []*Label
	for _, l := range nodes {
		fmt.Fprintf(w, "  n%04X [label=%q, fontsize=%d, style=filled, fillcolor=%s];\n",
			l.Address, nodeLabel(l), d.fontSize(l), nodeColor(d, l))
		if len(l.Referrers) == 0 {
			zeroRef = append(zeroRef, l)
		} else if l.Type == CodeLbl {
			withRef = append(withRef, l)
		}
	}

	writeRank(w, zeroRef)
	writeRank(w, withRef)

	for _, l := range nodes {
		seen := make(map[uint16]bool)
		for _, callee := range l.Callees {
			if seen[callee.Address] {
				continue
			}
			seen[callee.Address] = true
			fmt.Fprintf(w, "  n%04X -> n%04X;\n", l.Address, callee.Address)
		}
	}

	fmt.Fprintln(w, "}")
}

func nodeLabel(l *Label) string {
	return fmt.Sprintf("%s\\nSize=%d CC=%d", l.Name, l.Stats.SizeInBytes, l.Stats.CyclomaticComplexity)
}

func (d *Disassembler) fontSize(l *Label) int {
	const lo, hi = 13, 40
	minCC, maxCC := d.StatsMin.CyclomaticComplexity, d.StatsMax.CyclomaticComplexity
	if maxCC <= minCC {
		return lo
	}
	frac := float64(l.Stats.CyclomaticComplexity-minCC) / float64(maxCC-minCC)
	return lo + int(frac*float64(hi-lo))
}

func nodeColor(d *Disassembler, l *Label) string {
	if l.IsEqu {
		return "grey"
	}
	if isSelfOnlyRecursive(d, l) {
		return "lightblue"
	}
	if len(l.Referrers) == 0 {
		return "lightyellow"
	}
	return "white"
}

func isSelfOnlyRecursive(d *Disassembler, l *Label) bool {
	if (l.Type != CodeSub && l.Type != CodeRst) || len(l.Referrers) == 0 {
		return false
	}
	for r := range l.Referrers {
		if d.Parent[r] != l {
			return false
		}
	}
	return true
}

func writeRank(w io.Writer, labels []*Label) {
	if len(labels) == 0 {
		return
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].Address < labels[j].Address })
	fmt.Fprint(w, "  { rank=same; ")
	for _, l := range labels {
		fmt.Fprintf(w, "n%04X; ", l.Address)
	}
	fmt.Fprintln(w, "}")
}
