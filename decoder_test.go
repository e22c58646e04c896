package z80dismblr

import "testing"

func TestDecodeBaseInstructions(t *testing.T) {
	tests := []struct {
		name     string
		bytes    []byte
		wantLen  uint8
		wantTmpl string
		wantImm  bool
		wantFlag InstrFlag
	}{
		{"NOP", []byte{0x00}, 1, "NOP", false, 0},
		{"LD BC,nn", []byte{0x01, 0x34, 0x12}, 3, "LD BC,{x}", true, 0},
		{"LD B,n", []byte{0x06, 0x42}, 2, "LD B,{x}", true, 0},
		{"HALT", []byte{0x76}, 1, "HALT", false, 0},
		{"ADD A,B", []byte{0x80}, 1, "ADD A,B", false, 0},
		{"JP nn", []byte{0xC3, 0x00, 0x80}, 3, "JP {x}", true, FlagBranch | FlagStop},
		{"CALL nn", []byte{0xCD, 0x00, 0x80}, 3, "CALL {x}", true, FlagBranch | FlagCall},
		{"CALL NZ,nn", []byte{0xC4, 0x00, 0x80}, 3, "CALL NZ,{x}", true, FlagBranch | FlagCall},
		{"RET", []byte{0xC9}, 1, "RET", false, FlagStop},
		{"RET NZ", []byte{0xC0}, 1, "RET NZ", false, 0},
		{"RST 38h", []byte{0xFF}, 1, "RST {x}", true, FlagBranch | FlagCall},
		{"DJNZ", []byte{0x10, 0x05}, 2, "DJNZ {x}", true, FlagBranch},
		{"JR e", []byte{0x18, 0x05}, 2, "JR {x}", true, FlagBranch | FlagStop},
	}

	for _, tc := range tests {
		m := NewMemSpace()
		m.SetBytes(0x8000, tc.bytes)
		got := Decode(m, 0x8000)
		if got.Length != tc.wantLen {
			t.Errorf("%s: Length = %d, want %d", tc.name, got.Length, tc.wantLen)
		}
		if got.Template != tc.wantTmpl {
			t.Errorf("%s: Template = %q, want %q", tc.name, got.Template, tc.wantTmpl)
		}
		if got.HasImm != tc.wantImm {
			t.Errorf("%s: HasImm = %v, want %v", tc.name, got.HasImm, tc.wantImm)
		}
		if got.Flags != tc.wantFlag {
			t.Errorf("%s: Flags = %v, want %v", tc.name, got.Flags, tc.wantFlag)
		}
	}
}

func TestDecodeRSTTargetIsPageZero(t *testing.T) {
	m := NewMemSpace()
	m.SetBytes(0x8000, []byte{0xD7}) // RST 10h
	got := Decode(m, 0x8000)
	if got.ImmValue != 0x10 {
		t.Errorf("RST 10h ImmValue = %#x, want 0x10", got.ImmValue)
	}
	if got.ImmKind != CodeRst {
		t.Errorf("RST ImmKind = %v, want CodeRst", got.ImmKind)
	}
}

func TestDecodeJRRelativeArithmetic(t *testing.T) {
	m := NewMemSpace()
	// JR $-2 (displacement 0xFE = -2 from the end of the instruction)
	// loops back onto its own opcode byte.
	m.SetBytes(0x8000, []byte{0x18, 0xFE})
	got := Decode(m, 0x8000)
	if got.ImmValue != 0x8000 {
		t.Errorf("JR $-2 target = %#x, want 0x8000 (self)", got.ImmValue)
	}

	m2 := NewMemSpace()
	m2.SetBytes(0x8000, []byte{0x18, 0x00})
	got2 := Decode(m2, 0x8000)
	if got2.ImmValue != 0x8002 {
		t.Errorf("JR +0 target = %#x, want 0x8002", got2.ImmValue)
	}
}

func TestDecodeCBPrefix(t *testing.T) {
	m := NewMemSpace()
	m.SetBytes(0x8000, []byte{0xCB, 0x00}) // RLC B
	got := Decode(m, 0x8000)
	if got.Length != 2 {
		t.Errorf("RLC B length = %d, want 2", got.Length)
	}
	if got.Template != "RLC B" {
		t.Errorf("RLC B template = %q", got.Template)
	}

	m2 := NewMemSpace()
	m2.SetBytes(0x8000, []byte{0xCB, 0x47}) // BIT 0,A
	got2 := Decode(m2, 0x8000)
	if got2.Template != "BIT 0,A" {
		t.Errorf("BIT 0,A template = %q", got2.Template)
	}
}

func TestDecodeEDPrefix(t *testing.T) {
	m := NewMemSpace()
	m.SetBytes(0x8000, []byte{0xED, 0x44}) // NEG
	got := Decode(m, 0x8000)
	if got.Template != "NEG" || got.Length != 2 {
		t.Errorf("NEG = %q/%d, want NEG/2", got.Template, got.Length)
	}

	m2 := NewMemSpace()
	m2.SetBytes(0x8000, []byte{0xED, 0x43, 0x00, 0x80}) // LD (nn),BC
	got2 := Decode(m2, 0x8000)
	if got2.Length != 4 || got2.ImmKind != DataLbl || got2.ImmValue != 0x8000 {
		t.Errorf("LD (nn),BC decoded as %+v", got2)
	}

	m3 := NewMemSpace()
	m3.SetBytes(0x8000, []byte{0xED, 0xB0}) // LDIR
	got3 := Decode(m3, 0x8000)
	if got3.Template != "LDIR" {
		t.Errorf("LDIR template = %q", got3.Template)
	}
}

func TestDecodeIndexedIXIY(t *testing.T) {
	m := NewMemSpace()
	m.SetBytes(0x8000, []byte{0xDD, 0x21, 0x00, 0x80}) // LD IX,nn
	got := Decode(m, 0x8000)
	if got.Template != "LD IX,{x}" || got.Length != 4 {
		t.Errorf("LD IX,nn = %q/%d", got.Template, got.Length)
	}

	m2 := NewMemSpace()
	m2.SetBytes(0x8000, []byte{0xDD, 0x7E, 0x05}) // LD A,(IX+5)
	got2 := Decode(m2, 0x8000)
	if got2.Template != "LD A,(IX+5)" || got2.Length != 3 {
		t.Errorf("LD A,(IX+5) = %q/%d", got2.Template, got2.Length)
	}

	m3 := NewMemSpace()
	m3.SetBytes(0x8000, []byte{0xFD, 0x35, 0xFB}) // DEC (IY-5)
	got3 := Decode(m3, 0x8000)
	if got3.Template != "DEC (IY-5)" || got3.Length != 3 {
		t.Errorf("DEC (IY-5) = %q/%d", got3.Template, got3.Length)
	}
}

func TestDecodeIndexedCB(t *testing.T) {
	m := NewMemSpace()
	m.SetBytes(0x8000, []byte{0xDD, 0xCB, 0x02, 0x46}) // BIT 0,(IX+2)
	got := Decode(m, 0x8000)
	if got.Length != 4 {
		t.Errorf("DDCB length = %d, want 4", got.Length)
	}
	if got.Template != "BIT 0,(IX+2)" {
		t.Errorf("DDCB template = %q", got.Template)
	}
}

func TestDecodeIndexedPassThrough(t *testing.T) {
	// An indexed prefix in front of an instruction that touches neither
	// HL nor (HL) just wastes the prefix byte.
	m := NewMemSpace()
	m.SetBytes(0x8000, []byte{0xDD, 0x00}) // DD NOP
	got := Decode(m, 0x8000)
	if got.Length != 2 || got.Template != "NOP" {
		t.Errorf("DD NOP = %q/%d, want NOP/2", got.Template, got.Length)
	}
}
