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

// the number of cycles the counter advances for every register access. the
// real counter runs on the core clock and the exact figure is immaterial to
// the shell; it only matters that the counter moves while the shell works.
const cycleStep = 4

// the default anti-thrash quiet period, in cycles. tests shorten this.
const defaultQuietCycles = 100000

// MountEvent records one pulse of a drive's mount strobe, with the auxiliary
// values as they were at the rising edge.
type MountEvent struct {
	Drive    int
	SizeLo   uint16
	SizeHi   uint16
	ReadOnly uint16
	ImgType  uint16
}

// BankEvent records one pulse of the cartridge bank-table strobe.
type BankEvent struct {
	Load   uint16
	Size   uint16
	Number uint16
	OffLo  uint16
	OffHi  uint16
}

// coreDrive is the core-side state of one drive: the internal buffer behind
// the buffer port and the write timestamp driving the anti-thrash signal.
type coreDrive struct {
	buffer     [4096]uint8
	lastWrite  uint64
	hasWritten bool

	ackHigh      bool
	ackAsserts   int
	ackDeasserts int
}

// Machine models the memory-mapped surface of the hardware. It implements
// the bus.Register interface.
type Machine struct {
	numDrives int

	csr    uint16
	selDev uint16
	selWin uint16
	cycles uint64

	keyRow  uint16
	keyCols [16]uint16

	// device storage, keyed by device<<16 | window. windows are allocated
	// on first touch
	devices map[uint32][]uint16

	drives []coreDrive

	// the quiet period enforced by the anti-thrash timers, in cycles
	QuietCycles uint64

	// every mount pulse and bank-table pulse observed, in order
	MountEvents []MountEvent
	BankEvents  []BankEvent

	// the FAT32 card in the active slot
	Card *Card
}

// NewMachine is the preferred method of initialisation for the Machine type.
func NewMachine(numDrives int) *Machine {
	m := &Machine{
		numDrives:   numDrives,
		devices:     make(map[uint32][]uint16),
		drives:      make([]coreDrive, numDrives),
		QuietCycles: defaultQuietCycles,
		Card:        NewCard(),
	}
	return m
}

func (m *Machine) window(device uint16, window uint16) []uint16 {
	key := uint32(device)<<16 | uint32(window)
	w, ok := m.devices[key]
	if !ok {
		w = make([]uint16, addresses.WindowSize)
		m.devices[key] = w
	}
	return w
}

// returns the drive number if the device id is a drive register file, or -1.
func (m *Machine) driveForDevice(device uint16) int {
	for n := 0; n < m.numDrives; n++ {
		if device == addresses.DriveDevice(n) {
			return n
		}
	}
	return -1
}

// ReadRegister implements the bus.Register interface.
func (m *Machine) ReadRegister(address uint16) uint16 {
	m.cycles += cycleStep

	switch address {
	case addresses.CSR:
		return m.csr
	case addresses.SelectorDevice:
		return m.selDev
	case addresses.SelectorWindow:
		return m.selWin
	case addresses.CycleMid:
		return uint16(m.cycles)
	case addresses.CycleHigh:
		return uint16(m.cycles >> 16)
	case addresses.KeyboardRow:
		return m.keyRow
	case addresses.KeyboardCol:
		return m.keyCols[m.keyRow&0x000f]
	}

	if address >= addresses.WindowBase && address < addresses.WindowBase+addresses.WindowSize {
		offset := address - addresses.WindowBase
		if n := m.driveForDevice(m.selDev); n != -1 {
			return m.readDrive(n, offset)
		}
		return m.window(m.selDev, m.selWin)[offset]
	}

	return 0
}

// WriteRegister implements the bus.Register interface.
func (m *Machine) WriteRegister(address uint16, data uint16) {
	m.cycles += cycleStep

	switch address {
	case addresses.CSR:
		// the slot observation bits are hardware driven and not writable
		m.csr = (m.csr & addresses.CSRSlotMask) | (data &^ addresses.CSRSlotMask)
		return
	case addresses.SelectorDevice:
		m.selDev = data
		return
	case addresses.SelectorWindow:
		m.selWin = data
		return
	case addresses.KeyboardRow:
		m.keyRow = data
		return
	}

	if address >= addresses.WindowBase && address < addresses.WindowBase+addresses.WindowSize {
		offset := address - addresses.WindowBase
		if n := m.driveForDevice(m.selDev); n != -1 {
			m.writeDrive(n, offset, data)
			return
		}
		if m.selDev == addresses.CartStatus {
			m.writeCartStatus(offset, data)
			return
		}
		m.window(m.selDev, m.selWin)[offset] = data
	}
}

func (m *Machine) readDrive(n int, offset uint16) uint16 {
	w := m.window(addresses.DriveDevice(n), 0)
	switch offset {
	case addresses.DriveBufDIn:
		return uint16(m.drives[n].buffer[w[addresses.DriveBufAddr]&0x0fff])
	case addresses.DriveAntiThrash:
		d := &m.drives[n]
		if !d.hasWritten || m.cycles-d.lastWrite >= m.QuietCycles {
			return 1
		}
		return 0
	}
	return w[offset]
}

func (m *Machine) writeDrive(n int, offset uint16, data uint16) {
	w := m.window(addresses.DriveDevice(n), 0)
	d := &m.drives[n]

	switch offset {
	case addresses.DriveAck:
		high := data&1 == 1
		if high && !d.ackHigh {
			d.ackAsserts++
			// the core drops the request flags when it sees the
			// acknowledgement
			w[addresses.DriveSDRd] = 0
			w[addresses.DriveSDWr] = 0
		}
		if !high && d.ackHigh {
			d.ackDeasserts++
		}
		d.ackHigh = high

	case addresses.DriveBufWrEn:
		if data&1 == 1 && w[addresses.DriveBufWrEn]&1 == 0 {
			d.buffer[w[addresses.DriveBufAddr]&0x0fff] = uint8(w[addresses.DriveBufDOut])
		}

	case addresses.DriveMount:
		if data&1 == 1 && w[addresses.DriveMount]&1 == 0 {
			m.MountEvents = append(m.MountEvents, MountEvent{
				Drive:    n,
				SizeLo:   w[addresses.DriveSizeLo],
				SizeHi:   w[addresses.DriveSizeHi],
				ReadOnly: w[addresses.DriveReadOnly],
				ImgType:  w[addresses.DriveImgType],
			})
		}
	}

	w[offset] = data
}

func (m *Machine) writeCartStatus(offset uint16, data uint16) {
	w := m.window(addresses.CartStatus, 0)

	if offset == addresses.CartBankStrobe {
		if data&1 == 1 && w[addresses.CartBankStrobe]&1 == 0 {
			m.BankEvents = append(m.BankEvents, BankEvent{
				Load:   w[addresses.CartBankLoad],
				Size:   w[addresses.CartBankSize],
				Number: w[addresses.CartBankNumber],
				OffLo:  w[addresses.CartBankOffLo],
				OffHi:  w[addresses.CartBankOffHi],
			})
		}
	}

	w[offset] = data
}
