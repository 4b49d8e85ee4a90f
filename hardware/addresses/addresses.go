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

// Package addresses collects every magic address on the register bus into
// named constants: the fixed peripheral registers, the layout of the paged
// data window, the well-known device ids and the per-device register
// offsets. No other package spells out a raw hardware address.
package addresses

// Fixed peripheral registers. Everything else on the bus is reached through
// the paged data window.
const (
	// control/status register
	CSR uint16 = 0xff00

	// the selector bus. device and window must both be written before the
	// data window is touched
	SelectorDevice uint16 = 0xff01
	SelectorWindow uint16 = 0xff02

	// the monotonic cycle counter. read mid before high
	CycleMid  uint16 = 0xff03
	CycleHigh uint16 = 0xff04

	// keyboard matrix row select / column read
	KeyboardRow uint16 = 0xff05
	KeyboardCol uint16 = 0xff06
)

// CSR bits.
const (
	CSRResetCore uint16 = 0x0001
	CSRUnpause   uint16 = 0x0002
	CSRKbdAttach uint16 = 0x0004
	CSRJoyAttach uint16 = 0x0008

	// which physical SD slot the card controller is currently using. the
	// bits are an observation, not a control
	CSRSlotMask  uint16 = 0x0300
	CSRSlotShift        = 8
)

// The data window. A 16-bit device selector and a 16-bit window selector
// expose 4096 words of the selected device at WindowBase.
const (
	WindowBase uint16 = 0x7000
	WindowSize uint16 = 0x1000
)

// Well-known device ids. The per-drive devices are banks of consecutive ids
// starting at the given base; use DriveDevice() and ImageDevice() rather
// than the bases directly.
const (
	driveDeviceBase uint16 = 0x0100
	imageDeviceBase uint16 = 0x0200

	// external DRAM holding the CRT container. word-addressed; each word
	// packs two file bytes little-endian
	HyperRAM uint16 = 0x0300

	// cartridge status register file
	CartStatus uint16 = 0x0400

	// the two 8 KiB bank memories the emulated core executes out of. each
	// fills exactly one window
	BRAMLo uint16 = 0x0500
	BRAMHi uint16 = 0x0501
)

// DriveDevice returns the device id of the register file shared with the
// emulated core's disk controller for drive number n.
func DriveDevice(drive int) uint16 {
	return driveDeviceBase + uint16(drive)
}

// ImageDevice returns the device id of the image buffer for drive number n.
// The buffer is the linear content of the mounted image; one byte per word,
// low byte significant, in windows of 4096 bytes.
func ImageDevice(drive int) uint16 {
	return imageDeviceBase + uint16(drive)
}

// Register offsets in a drive's register file (window 0). The core raises
// requests in SDRd/SDWr and the shell acknowledges through Ack. The buffer
// port gives byte access to the drive's small internal buffer.
const (
	DriveSDRd      uint16 = 0x00
	DriveSDWr      uint16 = 0x01
	DriveAck       uint16 = 0x02
	DriveLBALo     uint16 = 0x03
	DriveLBAHi     uint16 = 0x04
	DriveBlockCnt  uint16 = 0x05
	DriveBytesLo   uint16 = 0x06
	DriveBytesHi   uint16 = 0x07
	DriveSizeBytes uint16 = 0x08
	DriveWin4K     uint16 = 0x09
	DriveOff4K     uint16 = 0x0a

	// internal buffer port. shell is the master
	DriveBufAddr uint16 = 0x0b
	DriveBufDOut uint16 = 0x0c
	DriveBufDIn  uint16 = 0x0d
	DriveBufWrEn uint16 = 0x0e

	// mount strobe and its auxiliaries. the core latches the auxiliaries on
	// the rising edge of DriveMount
	DriveMount    uint16 = 0x0f
	DriveSizeLo   uint16 = 0x10
	DriveSizeHi   uint16 = 0x11
	DriveReadOnly uint16 = 0x12
	DriveImgType  uint16 = 0x13

	// asserted by hardware once the configured quiet period since the last
	// core write has elapsed
	DriveAntiThrash uint16 = 0x14
)

// Register offsets in the cartridge status register file (window 0).
const (
	CartStatusWord uint16 = 0x00
	CartSizeLo     uint16 = 0x01
	CartSizeHi     uint16 = 0x02

	// start address of the container in DRAM, in units of 16 words
	CartStartLo uint16 = 0x03
	CartStartHi uint16 = 0x04

	// 0xffff = busy, 0 = none, anything else is an error code
	CartError uint16 = 0x05
	CartDiag0 uint16 = 0x06
	CartDiag1 uint16 = 0x07

	// bank requests, written by the core
	CartBankLoReq uint16 = 0x08
	CartBankHiReq uint16 = 0x09

	// bank table publication port. the core latches the entry on the rising
	// edge of CartBankStrobe
	CartBankLoad   uint16 = 0x0a
	CartBankSize   uint16 = 0x0b
	CartBankNumber uint16 = 0x0c
	CartBankOffLo  uint16 = 0x0d
	CartBankOffHi  uint16 = 0x0e
	CartBankStrobe uint16 = 0x0f

	CartID    uint16 = 0x10
	CartExrom uint16 = 0x11
	CartGame  uint16 = 0x12
)

// Values for the CartStatusWord register.
const (
	CartNotStarted uint16 = 0
	CartLoading    uint16 = 1
	CartErrored    uint16 = 2
	CartSuccess    uint16 = 3
)

// The busy value for the CartError register.
const CartErrorBusy uint16 = 0xffff
