package z80dismblr

import "fmt"

// Event is a non-fatal warning raised during analysis.
type Event struct {
	Message   string
	Addresses []uint16
}

// EventSink receives warnings raised during analysis. The zero value of
// SliceEventSink is ready to use and is the default sink for a Disassembler
// constructed without one.
type EventSink interface {
	Warn(Event)
}

// SliceEventSink accumulates warnings in memory, in emission order.
type SliceEventSink struct {
	Events []Event
}

// Warn appends e to the sink.
func (s *SliceEventSink) Warn(e Event) {
	s.Events = append(s.Events, e)
}

// AmbiguousDisassemblyError is the one fatal analysis error: the same byte
// was decoded as two different instructions, either because a branch target
// lands mid-instruction or because two independent decode traces overlap.
type AmbiguousDisassemblyError struct {
	AddressA, AddressB   uint16
	MnemonicA, MnemonicB string
}

func (e *AmbiguousDisassemblyError) Error() string {
	return fmt.Sprintf("ambiguous disassembly: %04Xh decoded as %q conflicts with %04Xh decoded as %q",
		e.AddressA, e.MnemonicA, e.AddressB, e.MnemonicB)
}
