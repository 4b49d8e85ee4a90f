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

package machine

import (
	"github.com/jetsetilly/coreshell/hardware/addresses"
)

// The functions in this file are the scripting surface of the model: they
// play the part of the emulated core and of the physical world (card swaps,
// time passing). Apart from Advance(), none of them advance the cycle
// counter; otherwise only bus traffic does that.

// RaiseRead raises a read request on the drive: size bytes starting at the
// given byte address of the image buffer are to be copied into the drive's
// internal buffer.
func (m *Machine) RaiseRead(drive int, start uint32, size uint16) {
	w := m.window(addresses.DriveDevice(drive), 0)
	w[addresses.DriveBytesLo] = uint16(start)
	w[addresses.DriveBytesHi] = uint16(start >> 16)
	w[addresses.DriveSizeBytes] = size
	w[addresses.DriveWin4K] = uint16(start >> 12)
	w[addresses.DriveOff4K] = uint16(start & 0x0fff)
	w[addresses.DriveLBALo] = uint16(start >> 8)
	w[addresses.DriveLBAHi] = uint16(start >> 24)
	w[addresses.DriveBlockCnt] = (size + 255) / 256
	w[addresses.DriveSDRd] = 1
}

// RaiseWrite loads the drive's internal buffer with data and raises a write
// request for it at the given byte address of the image buffer. The drive's
// anti-thrash timer restarts.
func (m *Machine) RaiseWrite(drive int, start uint32, data []uint8) {
	d := &m.drives[drive]
	copy(d.buffer[:], data)
	d.lastWrite = m.cycles
	d.hasWritten = true

	w := m.window(addresses.DriveDevice(drive), 0)
	w[addresses.DriveBytesLo] = uint16(start)
	w[addresses.DriveBytesHi] = uint16(start >> 16)
	w[addresses.DriveSizeBytes] = uint16(len(data))
	w[addresses.DriveWin4K] = uint16(start >> 12)
	w[addresses.DriveOff4K] = uint16(start & 0x0fff)
	w[addresses.DriveLBALo] = uint16(start >> 8)
	w[addresses.DriveLBAHi] = uint16(start >> 24)
	w[addresses.DriveBlockCnt] = (uint16(len(data)) + 255) / 256
	w[addresses.DriveSDWr] = 1
}

// RequestPending returns true while either request flag of the drive is
// still raised.
func (m *Machine) RequestPending(drive int) bool {
	w := m.window(addresses.DriveDevice(drive), 0)
	return w[addresses.DriveSDRd] == 1 || w[addresses.DriveSDWr] == 1
}

// Buffer returns a copy of the drive's internal buffer.
func (m *Machine) Buffer(drive int) []uint8 {
	b := make([]uint8, len(m.drives[drive].buffer))
	copy(b, m.drives[drive].buffer[:])
	return b
}

// AckCounts returns the number of assert and de-assert edges seen on the
// drive's acknowledge line.
func (m *Machine) AckCounts(drive int) (int, int) {
	return m.drives[drive].ackAsserts, m.drives[drive].ackDeasserts
}

// ImageByte returns the byte at the given offset of the drive's image
// buffer.
func (m *Machine) ImageByte(drive int, offset uint32) uint8 {
	w := m.window(addresses.ImageDevice(drive), uint16(offset>>12))
	return uint8(w[offset&0x0fff])
}

// LoadHyperRAM stores a byte image into HyperRAM starting at the given word
// address. Two bytes pack into each word, little-endian.
func (m *Machine) LoadHyperRAM(wordAddr uint32, data []uint8) {
	for i := 0; i < len(data); i += 2 {
		word := uint16(data[i])
		if i+1 < len(data) {
			word |= uint16(data[i+1]) << 8
		}
		a := wordAddr + uint32(i)/2
		m.window(addresses.HyperRAM, uint16(a>>12))[a&0x0fff] = word
	}
}

// HyperRAMWord returns the word at the given DRAM word address.
func (m *Machine) HyperRAMWord(wordAddr uint32) uint16 {
	return m.window(addresses.HyperRAM, uint16(wordAddr>>12))[wordAddr&0x0fff]
}

// BRAMWord returns a word of one of the bank memories. The device argument
// is addresses.BRAMLo or addresses.BRAMHi.
func (m *Machine) BRAMWord(device uint16, offset uint16) uint16 {
	return m.window(device, 0)[offset&0x0fff]
}

// CartRegister returns the value of a cartridge status register.
func (m *Machine) CartRegister(offset uint16) uint16 {
	return m.window(addresses.CartStatus, 0)[offset]
}

// SetBankRequest sets one of the core's bank request registers. The lo
// argument selects between the lo and hi request.
func (m *Machine) SetBankRequest(lo bool, bank uint16) {
	if lo {
		m.window(addresses.CartStatus, 0)[addresses.CartBankLoReq] = bank
	} else {
		m.window(addresses.CartStatus, 0)[addresses.CartBankHiReq] = bank
	}
}

// SetSlot changes the SD slot observation bits in the CSR, as a card swap
// would.
func (m *Machine) SetSlot(slot uint16) {
	m.csr = (m.csr &^ addresses.CSRSlotMask) | (slot << addresses.CSRSlotShift & addresses.CSRSlotMask)
}

// Advance the cycle counter, as the passage of time would. Used by tests to
// run the anti-thrash quiet period down.
func (m *Machine) Advance(cycles uint64) {
	m.cycles += cycles
}
