package z80dismblr

import (
	"errors"
	"io"
)

const (
	snaHeaderSize = 27
	snaImageSize  = 48 * 1024
	snaImageBase  = 0x4000
)

// ReadSNA loads a ZX-Spectrum 48K .sna snapshot from r into space and
// returns the entry point derived from the emulated stack pointer recorded
// in the header. The caller is responsible for queuing start and recording
// it as the SNA start address (see Disassembler.SetSNAStart).
func ReadSNA(space *MemSpace, r io.Reader) (uint16, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if len(data) != snaHeaderSize+snaImageSize {
		return 0, errors.New("z80dismblr: not a 48K .sna snapshot (unexpected file size)")
	}

	header := data[:snaHeaderSize]
	image := data[snaHeaderSize:]
	space.SetBytes(snaImageBase, image)

	sp := uint16(header[23]) + 256*uint16(header[24])
	start := uint16(image[sp-snaImageBase]) + 256*uint16(image[sp-snaImageBase+1])
	return start, nil
}
