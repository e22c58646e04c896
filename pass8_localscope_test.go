package z80dismblr

import "testing"

// TestLocalLabelDemotedWhenOwnedBySingleSubroutine covers a forward
// conditional branch whose only referrer sits inside its own subroutine's
// body: pass 8 must demote it from CODE_LBL to a local label scoped to that
// subroutine, named after it.
func TestLocalLabelDemotedWhenOwnedBySingleSubroutine(t *testing.T) {
	d := NewDisassembler()
	d.Mem.SetBytes(0x0000, []byte{
		0xC2, 0x05, 0x00, // JP NZ,0x0005
		0x3E, 0x00, // LD A,0
		0xC9, // RET  (0x0005 -- branch target and fallthrough converge here)
	})
	d.AddEntryPoint(0x0000)

	if err := d.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	l := d.Labels.Get(0x0005)
	if l == nil {
		t.Fatal("no label at 0x0005")
	}
	if l.Type != CodeLocalLbl {
		t.Errorf("label type = %v, want CodeLocalLbl", l.Type)
	}
	if l.Name != ".sub1_l" {
		t.Errorf("label name = %q, want .sub1_l", l.Name)
	}
}

// TestSharedLabelNotDemotedAcrossTwoSubroutines covers a subroutine called
// from two independent places: since its referrers aren't wholly contained
// in either single caller's body, pass 8 must leave it as a top-level label.
func TestSharedLabelNotDemotedAcrossTwoSubroutines(t *testing.T) {
	d := NewDisassembler()
	d.Mem.SetBytes(0x0000, []byte{0xCD, 0x00, 0x20, 0xC9}) // CALL 0x2000 ; RET
	d.Mem.SetBytes(0x1000, []byte{0xCD, 0x00, 0x20, 0xC9}) // CALL 0x2000 ; RET
	d.Mem.SetBytes(0x2000, []byte{0xC9})                   // RET
	d.AddEntryPoint(0x0000)
	d.AddEntryPoint(0x1000)

	if err := d.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	shared := d.Labels.Get(0x2000)
	if shared == nil {
		t.Fatal("no label at 0x2000")
	}
	if shared.Type != CodeSub {
		t.Errorf("shared label type = %v, want CodeSub (not demoted)", shared.Type)
	}
	if len(shared.Referrers) != 2 {
		t.Errorf("shared label referrers = %d, want 2", len(shared.Referrers))
	}
}
