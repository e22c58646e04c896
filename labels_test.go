package z80dismblr

import "testing"

func TestSetFoundCreatesAndPromotes(t *testing.T) {
	s := NewLabelStore()

	l := s.SetFound(0x8000, []uint16{0x7FFD}, CodeLbl, Assigned)
	if l.Type != CodeLbl {
		t.Fatalf("new label type = %v, want CodeLbl", l.Type)
	}
	if _, ok := l.Referrers[0x7FFD]; !ok {
		t.Error("referrer not recorded")
	}

	l2 := s.SetFound(0x8000, []uint16{0x7FE0}, CodeSub, Assigned)
	if l2 != l {
		t.Fatal("SetFound should return the same label on re-entry")
	}
	if l.Type != CodeSub {
		t.Errorf("label type = %v, want promoted to CodeSub", l.Type)
	}
	if len(l.Referrers) != 2 {
		t.Errorf("referrers = %d, want 2 (union)", len(l.Referrers))
	}

	// A lower-priority type must not demote an already-promoted label.
	s.SetFound(0x8000, nil, CodeLbl, Assigned)
	if l.Type != CodeSub {
		t.Errorf("label type regressed to %v after lower-priority SetFound", l.Type)
	}
}

func TestSetFoundExcludesSelfReferrer(t *testing.T) {
	s := NewLabelStore()
	l := s.SetFound(0x9000, []uint16{0x9000, 0x8FF0}, CodeSub, Assigned)
	if _, ok := l.Referrers[0x9000]; ok {
		t.Error("a referrer equal to its own address should be excluded")
	}
	if len(l.Referrers) != 1 {
		t.Errorf("referrers = %d, want 1", len(l.Referrers))
	}
}

func TestSetFoundMarksEquWhenUnassigned(t *testing.T) {
	s := NewLabelStore()
	l := s.SetFound(0xC000, []uint16{0x1000}, DataLbl, 0)
	if !l.IsEqu {
		t.Error("label targeting an unassigned address should be IsEqu")
	}
}

func TestSetFixedIsImmuneToRename(t *testing.T) {
	s := NewLabelStore()
	l, queue := s.SetFixed(0x0038, "INTRPT", Assigned)
	if !queue {
		t.Error("SetFixed on an assigned address should report queue=true")
	}
	if !l.IsFixed || l.Name != "INTRPT" {
		t.Errorf("got IsFixed=%v Name=%q, want true/INTRPT", l.IsFixed, l.Name)
	}

	_, queue2 := s.SetFixed(0x0038, "", Assigned)
	if l.Name != "INTRPT" {
		t.Error("a later SetFixed with an empty name should not clear an existing name")
	}
	if !queue2 {
		t.Error("queue should still report true for an assigned address")
	}
}

func TestSetFixedUnassignedDoesNotQueue(t *testing.T) {
	s := NewLabelStore()
	_, queue := s.SetFixed(0x4000, "", 0)
	if queue {
		t.Error("SetFixed on an unassigned address should report queue=false")
	}
}

func TestLabelStoreAllSortsAscending(t *testing.T) {
	s := NewLabelStore()
	s.SetFound(0x8000, nil, CodeLbl, Assigned)
	s.SetFound(0x0100, nil, CodeLbl, Assigned)
	s.SetFound(0x4000, nil, CodeLbl, Assigned)

	all := s.All()
	if len(all) != 3 {
		t.Fatalf("All() returned %d labels, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Address >= all[i].Address {
			t.Errorf("All() not ascending at index %d: %#x then %#x", i, all[i-1].Address, all[i].Address)
		}
	}
}
