package z80dismblr

import (
	"fmt"
	"strconv"
	"strings"
)

// assignNames is pass 11, the final pass. Every label without a
// user-provided or previously-fixed name is counted by kind, and named with
// an index padded to that kind's total digit width.
func (d *Disassembler) assignNames() {
	var subs, lbls, datas, selfMods []*Label

	for _, l := range d.Labels.All() {
		if l.Name != "" {
			continue
		}
		switch l.Type {
		case CodeSub:
			if l.BelongsToInterrupt {
				l.Name = d.cfg.intrptPrefix()
			} else {
				subs = append(subs, l)
			}
		case CodeLbl:
			if l.BelongsToInterrupt {
				l.Name = d.cfg.intrptPrefix()
			} else {
				lbls = append(lbls, l)
			}
		case CodeRst:
			l.Name = fmt.Sprintf("%s%02d", d.cfg.rstPrefix(), l.Address)
		case DataLbl:
			if d.Mem.Attribute(l.Address)&Code != 0 {
				selfMods = append(selfMods, l)
			} else {
				datas = append(datas, l)
			}
		}
	}

	assignIndexed(subs, d.cfg.subPrefix())
	assignIndexed(lbls, d.cfg.lblPrefix())
	assignIndexed(datas, d.cfg.dataLblPrefix())
	assignIndexed(selfMods, d.cfg.selfModifyingPrefix())

	d.assignLocalNames()
}

func assignIndexed(list []*Label, prefix string) {
	width := len(strconv.Itoa(len(list)))
	for i, l := range list {
		l.Name = fmt.Sprintf("%s%0*d", prefix, width, i+1)
	}
}

// assignLocalNames names CODE_LOCAL_LBL/CODE_LOCAL_LOOP labels after their
// owning top-level label, which by this point has a final name. A parent
// with more than one such child gets a trailing index; a lone child doesn't.
func (d *Disassembler) assignLocalNames() {
	locals := make(map[*Label][]*Label)
	loops := make(map[*Label][]*Label)

	for _, l := range d.Labels.All() {
		if l.Name != "" {
			continue
		}
		switch l.Type {
		case CodeLocalLbl:
			p := d.Parent[l.Address]
			locals[p] = append(locals[p], l)
		case CodeLocalLoop:
			p := d.Parent[l.Address]
			loops[p] = append(loops[p], l)
		}
	}

	nameLocalGroup(locals, d.cfg.localLablePrefix())
	nameLocalGroup(loops, d.cfg.loopPrefix())
}

func nameLocalGroup(groups map[*Label][]*Label, suffix string) {
	for parent, children := range groups {
		pname := "orphan"
		if parent != nil && parent.Name != "" {
			pname = strings.ToLower(parent.Name)
		}
		for i, c := range children {
			if len(children) > 1 {
				c.Name = "." + pname + suffix + strconv.Itoa(i+1)
			} else {
				c.Name = "." + pname + suffix
			}
		}
	}
}
