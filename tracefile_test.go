package z80dismblr

import (
	"strings"
	"testing"
)

func TestReadTraceParsesAndDeduplicates(t *testing.T) {
	input := "0100: LD A,(HL)\n" +
		"0102: INC HL\n" +
		"0038: RET\n" +
		"0100: LD A,(HL)\n" + // revisits, must be deduplicated
		"not a trace line\n" +
		"xx: also not one\n"

	addrs, err := ReadTrace(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadTrace() = %v", err)
	}

	want := []uint16{0x0038, 0x0100, 0x0102}
	if len(addrs) != len(want) {
		t.Fatalf("ReadTrace() = %v, want %v", addrs, want)
	}
	for i, w := range want {
		if addrs[i] != w {
			t.Errorf("addrs[%d] = %#04x, want %#04x", i, addrs[i], w)
		}
	}
}

func TestReadTraceEmptyInput(t *testing.T) {
	addrs, err := ReadTrace(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadTrace() = %v", err)
	}
	if len(addrs) != 0 {
		t.Errorf("ReadTrace(empty) = %v, want empty", addrs)
	}
}
