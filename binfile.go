package z80dismblr

import "io"

// ReadBin loads the entire contents of r into space starting at origin,
// wrapping the address mod 65536, and marks every loaded byte Assigned.
func ReadBin(space *MemSpace, origin uint16, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	space.SetBytes(origin, data)
	return nil
}
