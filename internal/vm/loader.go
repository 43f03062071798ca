package vm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// userOrigin is the conventional load/execution origin for LC-3 user
// programs; the OS reserves addresses below it.
const userOrigin uint16 = 0x3000

// LoadImage reads a big-endian LC-3 object image from r: the first word is
// the origin address, and every subsequent word is placed into memory at
// successive addresses starting there. Loading stops at EOF or at the end
// of memory, whichever comes first. Calling LoadImage repeatedly loads
// multiple images into the same memory; later loads win at overlapping
// addresses.
func (m *VM) LoadImage(r io.Reader) error {
	var originBuf [2]byte
	if _, err := io.ReadFull(r, originBuf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("lc3vm: image has no origin word: %w", err)
		}
		return fmt.Errorf("lc3vm: reading image origin: %w", err)
	}
	origin := binary.BigEndian.Uint16(originBuf[:])

	addr := origin
	var wordBuf [2]byte
	for {
		_, err := io.ReadFull(r, wordBuf[:])
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			// A dangling trailing byte with no pair: ignore it, matching
			// read-until-EOF behavior rather than treating it as an error.
			break
		}
		if err != nil {
			return fmt.Errorf("lc3vm: reading image word: %w", err)
		}

		m.mem.Write(addr, binary.BigEndian.Uint16(wordBuf[:]))

		if addr == 0xFFFF {
			// Any further words would run past the end of memory.
			var probe [1]byte
			if n, _ := r.Read(probe[:]); n > 0 {
				return ErrImageTooLarge
			}
			break
		}
		addr++
	}

	m.loaded = true
	return nil
}

// ResetPC sets the program counter to the conventional user origin. Called
// once after all images for a run have been loaded.
func (m *VM) ResetPC() {
	m.regs.SetPC(userOrigin)
}
