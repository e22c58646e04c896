package z80dismblr

// Disassembler owns the address space, label store, work queue, and
// address-parent map for one analysis run. It is not safe to reuse across
// two calls to Run; construct a fresh Disassembler per image.
type Disassembler struct {
	Mem    *MemSpace
	Labels *LabelStore
	Queue  *AddressQueue
	Sink   EventSink

	// Parent maps each address to the label considered to own that byte,
	// populated by pass 9.
	Parent [65536]*Label

	// StatsMin and StatsMax are the global size/instruction-count/CC
	// aggregates across all non-EQU CODE_SUB/CODE_RST/CODE_LBL labels,
	// populated by pass 10.
	StatsMin, StatsMax Stats

	// EntryPoints holds every address queued directly via AddEntryPoint: a
	// known starting point supplied by the caller, as opposed to an address
	// pass 1 merely reached by following code. Pass 2 exempts these from
	// INTRPT labeling the same way it exempts the SNA start address.
	EntryPoints map[uint16]bool

	// cfg carries the ListingConfig stored by SetListingConfig. Only its
	// prefix fields are read here, by pass 2 (INTRPT naming) and pass 11
	// (name assignment); WriteListing renders from its own ListingConfig
	// argument instead. The zero value (the default returned by
	// NewDisassembler) resolves every prefix through ListingConfig's own
	// accessor defaults, so a caller that never calls SetListingConfig
	// sees the same names as before this field existed.
	cfg ListingConfig

	snaStart    uint16
	hasSNAStart bool
}

// NewDisassembler returns an empty Disassembler ready to have input loaded
// and entry points queued.
func NewDisassembler() *Disassembler {
	return &Disassembler{
		Mem:         NewMemSpace(),
		Labels:      NewLabelStore(),
		Queue:       NewAddressQueue(),
		Sink:        &SliceEventSink{},
		EntryPoints: make(map[uint16]bool),
	}
}

// SetListingConfig stores cfg so that pass 2 and pass 11 name labels with its
// label-prefix options. Call before Run; WriteListing takes its own
// ListingConfig argument separately, since everything but the eight label
// prefixes is a pure rendering concern with no bearing on the analysis
// passes. Passing the same cfg to both keeps prefixes consistent between the
// names baked into Labels and whatever WriteListing is asked to render.
func (d *Disassembler) SetListingConfig(cfg ListingConfig) {
	d.cfg = cfg
}

// AddEntryPoint queues addr for disassembly as a known entry point: a
// subroutine or program start the caller vouches for directly, such as a
// --entry flag or the reset vector. Pass 2 will never tag it INTRPT.
func (d *Disassembler) AddEntryPoint(addr uint16) {
	d.EntryPoints[addr] = true
	d.Queue.Push(addr)
}

// QueueTraceAddress queues addr for disassembly as observed in an execution
// trace, without vouching for it as a known entry point. Unlike
// AddEntryPoint, an address reached only this way is still eligible for
// pass 2 to tag INTRPT if nothing else ever branches or falls into it.
func (d *Disassembler) QueueTraceAddress(addr uint16) {
	d.Queue.Push(addr)
}

// seedEntryPointLabels creates a fixed, unnamed label at every address
// queued via AddEntryPoint that doesn't already have one, so pass 11 has a
// CODE_LBL to promote (via pass 7) or rename even when nothing else ever
// refers to the address.
func (d *Disassembler) seedEntryPointLabels() {
	for addr := range d.EntryPoints {
		if d.Labels.Get(addr) == nil {
			d.Labels.SetFixed(addr, "", d.Mem.Attribute(addr))
		}
	}
}

// SetJumpTable reads count little-endian 16-bit words starting at addr,
// creates a fixed CODE_LBL at each, and queues it.
func (d *Disassembler) SetJumpTable(addr uint16, count int) {
	a := addr
	for i := 0; i < count; i++ {
		target := d.Mem.ReadWord(a)
		label, queue := d.Labels.SetFixed(target, "", d.Mem.Attribute(target))
		_ = label
		if queue {
			d.Queue.Push(target)
		}
		a += 2
	}
}

// SetSNAStart records addr as the ZX-Spectrum snapshot start address and
// queues it. Passes 2 and 3 treat this address specially.
func (d *Disassembler) SetSNAStart(addr uint16) {
	d.snaStart = addr
	d.hasSNAStart = true
	d.Queue.Push(addr)
}

// Run executes the eleven analysis passes in order. If pass 1 detects an
// ambiguous decode it aborts and returns the error immediately; all state
// accumulated up to that point remains on the Disassembler for postmortem
// inspection.
func (d *Disassembler) Run() error {
	d.seedEntryPointLabels()
	if err := d.collectLabels(); err != nil {
		return err
	}
	d.findInterruptLabels()
	d.setSpecialLabels()
	// Pass 4 ("Sort") is realized by LabelStore.All() returning addresses
	// in ascending order; there is no separate mutation step.
	d.adjustSelfModifyingLabels()
	d.addFlowThroughReferences()
	d.turnLBLintoSUB()
	d.findLocalLabelsInSubroutines()
	d.addParentReferences()
	d.addCallsListToLabels()
	d.countStatistics()
	d.assignNames()
	return nil
}
