// This file is part of CoreShell.
//
// CoreShell is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// CoreShell is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with CoreShell.  If not, see <https://www.gnu.org/licenses/>.

// Package hif is the hardware I/O facade: a thin, synchronous wrapper over
// the four memory-mapped peripherals the shell drives directly - the CSR,
// the paged data window, the cycle counter and the keyboard matrix.
//
// The selector bus is shared by every component of the shell. The contract
// throughout the codebase is that a selection does not survive a call into
// another component: every access group starts with Select() or, preferably,
// is wrapped in WithDevice().
package hif

import (
	"fmt"

	"github.com/jetsetilly/coreshell/hardware/addresses"
	"github.com/jetsetilly/coreshell/hardware/bus"
)

// HIF is the hardware I/O facade. All shell components reach the machine
// through an instance of this type.
type HIF struct {
	bus bus.Register
}

// NewHIF is the preferred method of initialisation for the HIF type.
func NewHIF(b bus.Register) *HIF {
	return &HIF{bus: b}
}

// Select the device and 4 KiB window exposed by the data window. Both
// selectors are written on every call; callers must not assume a previous
// selection is still in place.
func (h *HIF) Select(device uint16, window uint16) {
	h.bus.WriteRegister(addresses.SelectorDevice, device)
	h.bus.WriteRegister(addresses.SelectorWindow, window)
}

// Read a word from the currently selected window. Offset must be in the
// range 0 to 4095.
func (h *HIF) Read(offset uint16) uint16 {
	if offset >= addresses.WindowSize {
		panic(fmt.Sprintf("hif: window offset out of range (%#04x)", offset))
	}
	return h.bus.ReadRegister(addresses.WindowBase + offset)
}

// Write a word to the currently selected window. Offset must be in the range
// 0 to 4095.
func (h *HIF) Write(offset uint16, data uint16) {
	if offset >= addresses.WindowSize {
		panic(fmt.Sprintf("hif: window offset out of range (%#04x)", offset))
	}
	h.bus.WriteRegister(addresses.WindowBase+offset, data)
}

// DataWindow is the typed handle given to the function argument of
// WithDevice(). It is only valid for the duration of that call.
type DataWindow struct {
	h *HIF
}

// Read a word from the window.
func (w DataWindow) Read(offset uint16) uint16 {
	return w.h.Read(offset)
}

// Write a word to the window.
func (w DataWindow) Write(offset uint16, data uint16) {
	w.h.Write(offset, data)
}

// WithDevice selects the device and window and calls f with a handle to the
// data window. It exists to make the select-before-access contract hard to
// get wrong; the selection is not restored afterwards.
func (h *HIF) WithDevice(device uint16, window uint16, f func(DataWindow)) {
	h.Select(device, window)
	f(DataWindow{h: h})
}

// Cycles returns the value of the monotonic 32-bit cycle counter. The mid
// word is read before the high word.
func (h *HIF) Cycles() uint32 {
	mid := uint32(h.bus.ReadRegister(addresses.CycleMid))
	high := uint32(h.bus.ReadRegister(addresses.CycleHigh))
	return high<<16 | mid
}

// SetCSRBits sets the given bits in the control/status register.
func (h *HIF) SetCSRBits(bits uint16) {
	h.bus.WriteRegister(addresses.CSR, h.bus.ReadRegister(addresses.CSR)|bits)
}

// ClearCSRBits clears the given bits in the control/status register.
func (h *HIF) ClearCSRBits(bits uint16) {
	h.bus.WriteRegister(addresses.CSR, h.bus.ReadRegister(addresses.CSR)&^bits)
}

// TestCSRBits returns true if all the given bits are set in the
// control/status register.
func (h *HIF) TestCSRBits(bits uint16) bool {
	return h.bus.ReadRegister(addresses.CSR)&bits == bits
}

// ActiveSlot returns the SD slot the card controller is currently using.
func (h *HIF) ActiveSlot() uint16 {
	return (h.bus.ReadRegister(addresses.CSR) & addresses.CSRSlotMask) >> addresses.CSRSlotShift
}

// ReadKeyboard selects a row of the keyboard matrix and returns the column
// bits.
func (h *HIF) ReadKeyboard(row uint16) uint16 {
	h.bus.WriteRegister(addresses.KeyboardRow, row)
	return h.bus.ReadRegister(addresses.KeyboardCol)
}
