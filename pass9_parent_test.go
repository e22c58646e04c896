package z80dismblr

import "testing"

// TestSelfRecursiveSubroutineWarns covers a subroutine whose only caller is
// itself: the recursive CALL referrer must survive pass 9's pruning (it's a
// genuine call, not control flow folding back on the entry point), and pass
// 9 must warn that the subroutine is never called from anywhere else.
func TestSelfRecursiveSubroutineWarns(t *testing.T) {
	d := NewDisassembler()
	d.Mem.SetBytes(0x0010, []byte{
		0x3E, 0x01, // LD A,1
		0xCD, 0x10, 0x00, // CALL 0x0010 (recursive)
		0xC9, // RET
	})
	d.AddEntryPoint(0x0010)

	if err := d.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	l := d.Labels.Get(0x0010)
	if l == nil {
		t.Fatal("no label at 0x0010")
	}
	if len(l.Referrers) != 1 {
		t.Errorf("referrers = %d, want 1 (the self-recursive CALL should survive pruning)", len(l.Referrers))
	}

	sink := d.Sink.(*SliceEventSink)
	found := false
	for _, ev := range sink.Events {
		if ev.Message == "subroutine is only ever called by itself" {
			for _, a := range ev.Addresses {
				if a == 0x0010 {
					found = true
				}
			}
		}
	}
	if !found {
		t.Error("expected a self-only-recursive warning for 0x0010")
	}
}
