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

package crt

import (
	"encoding/binary"
	"fmt"

	"github.com/jetsetilly/coreshell/hardware/addresses"
	"github.com/jetsetilly/coreshell/hardware/hif"
	"github.com/jetsetilly/coreshell/logger"
)

// Error patterns for the crt package. A parse failure is not fatal to the
// shell: the core is notified through the status register and stays inert.
const (
	LengthTooSmall    = "crt: file too small (%d bytes)"
	MissingCRTHeader  = "crt: cartridge signature not found"
	MissingCHIPHeader = "crt: CHIP header not found"
)

// State of the loader.
type State int

// List of valid State values. ReadLo and ReadHi only ever exist within one
// call to Step(); between calls the loader is Idle, Parsing (transiently,
// inside Start()), Ready or Errored.
const (
	Idle State = iota
	Parsing
	Ready
	ReadLo
	ReadHi
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Parsing:
		return "parsing"
	case Ready:
		return "ready"
	case ReadLo:
		return "read lo"
	case ReadHi:
		return "read hi"
	case Errored:
		return "error"
	}
	return fmt.Sprintf("state %d", int(s))
}

// ErrorCode distinguishes the ways a parse can fail. The value is written
// to the cartridge status register for the core's benefit.
type ErrorCode uint16

// List of valid ErrorCode values.
const (
	ErrNone ErrorCode = iota
	ErrLengthTooSmall
	ErrMissingCRTHeader
	ErrMissingCHIPHeader
)

const crtSignature = "C64 CARTRIDGE   "
const chipSignature = "CHIP"

// the file header is fixed at 0x40 bytes in every CRT in the wild but the
// length field is authoritative and is what the parser follows
const minFileLength = 0x40

// a CHIP packet is a 0x10 byte header and an 8 KiB payload: 0x2010 bytes,
// 0x1008 words. bank n's payload sits at bankStride*n words past the first
// payload
const chipHeaderLen = 0x10
const bankStride = 0x1008

// a bank is 8 KiB: 4096 words, exactly one window
const bankWords = 0x1000

// DRAM streaming happens in bursts of at most 256 bytes
const burstWords = 128

// Bank is one entry of the published bank table. Offset is in words,
// relative to the first packet's payload.
type Bank struct {
	LoadAddress uint16
	Size        uint16
	Number      uint16
	Offset      uint32
}

func (b Bank) String() string {
	return fmt.Sprintf("bank %d: %#04x bytes at %#04x (DRAM offset %#x)", b.Number, b.Size, b.LoadAddress, b.Offset)
}

// Loader is the CRT parse-and-bank-cache state machine. One instance exists
// in the shell.
type Loader struct {
	state   State
	errCode ErrorCode

	// the byte offset into the file at which a parse error was detected
	errAddr uint32

	// word address in DRAM of the first byte of the file, and the file's
	// length in bytes
	fileBase uint32
	length   uint32

	// word address in DRAM of the first CHIP packet's payload. established
	// once, after the file header; all bank arithmetic is relative to it
	payloadBase uint32

	cartID uint16
	exrom  uint8
	game   uint8

	banks []Bank

	// the banks currently held in the two bank memories
	loBank uint16
	hiBank uint16

	// edge detection on the core's bank request registers
	loReq     uint16
	hiReq     uint16
	loPending bool
	hiPending bool
}

// NewLoader is the preferred method of initialisation for the Loader type.
func NewLoader() *Loader {
	return &Loader{state: Idle}
}

// State the loader is currently in.
func (ld *Loader) State() State {
	return ld.state
}

// ErrorCode of the most recent parse failure, or ErrNone.
func (ld *Loader) ErrorCode() ErrorCode {
	return ld.errCode
}

// ErrorAddr is the byte offset into the file at which the most recent parse
// failure was detected.
func (ld *Loader) ErrorAddr() uint32 {
	return ld.errAddr
}

// Banks returns the published bank table, in file order.
func (ld *Loader) Banks() []Bank {
	return ld.banks
}

// ActiveBanks returns the bank numbers currently held in the lo and hi
// bank memories.
func (ld *Loader) ActiveBanks() (uint16, uint16) {
	return ld.loBank, ld.hiBank
}

// readBytes copies n file bytes starting at the given byte offset out of
// DRAM, unpacking two bytes per word.
func (ld *Loader) readBytes(h *hif.HIF, offset uint32, n int) []uint8 {
	b := make([]uint8, n)
	for i := 0; i < n; i++ {
		a := ld.fileBase + (offset+uint32(i))>>1
		var word uint16
		h.WithDevice(addresses.HyperRAM, uint16(a>>12), func(w hif.DataWindow) {
			word = w.Read(uint16(a & 0x0fff))
		})
		if (offset+uint32(i))&1 == 1 {
			b[i] = uint8(word >> 8)
		} else {
			b[i] = uint8(word)
		}
	}
	return b
}

func (ld *Loader) fail(h *hif.HIF, code ErrorCode, addr uint32) {
	ld.state = Errored
	ld.errCode = code
	ld.errAddr = addr
	ld.writeStatus(h)
	logger.Logf("crt", "parse failed (code %d) at byte %#x", code, addr)
}

// Start parsing the container at the given DRAM word address and byte
// length. On success the loader is left Ready with the first LO bank load
// already queued, so the core has something to execute from, and a load of
// the core's current hi request queued alongside it; the queued loads are
// serviced by the next call to Step().
func (ld *Loader) Start(h *hif.HIF, fileBase uint32, length uint32) {
	ld.state = Parsing
	ld.errCode = ErrNone
	ld.errAddr = 0
	ld.fileBase = fileBase
	ld.length = length
	ld.banks = ld.banks[:0]
	ld.loPending = false
	ld.hiPending = false
	ld.writeStatus(h)

	if length < minFileLength {
		ld.fail(h, ErrLengthTooSmall, 0)
		return
	}

	// header signature
	sig := ld.readBytes(h, 0, 16)
	for i := 0; i < 16; i++ {
		if sig[i] != crtSignature[i] {
			ld.fail(h, ErrMissingCRTHeader, uint32(i))
			return
		}
	}

	// header fields. all integers in the file are big-endian
	hdr := ld.readBytes(h, 0x10, 16)
	hdrLen := binary.BigEndian.Uint32(hdr[0:4])
	ld.cartID = binary.BigEndian.Uint16(hdr[6:8])
	ld.exrom = hdr[8]
	ld.game = hdr[9]
	ld.publishHeader(h)

	// the header length field is authoritative: the first CHIP packet
	// starts wherever it says, not at 0x40
	cursor := hdrLen
	ld.payloadBase = ld.fileBase + (hdrLen+chipHeaderLen)/2

	for {
		// a truncated file cannot hold another header, however plausible
		// the header length field looked
		if cursor+chipHeaderLen > ld.length {
			ld.fail(h, ErrMissingCHIPHeader, cursor)
			return
		}

		chip := ld.readBytes(h, cursor, chipHeaderLen)
		for i := 0; i < len(chipSignature); i++ {
			if chip[i] != chipSignature[i] {
				ld.fail(h, ErrMissingCHIPHeader, cursor+uint32(i))
				return
			}
		}

		bank := Bank{
			Number:      binary.BigEndian.Uint16(chip[0x0a:0x0c]),
			LoadAddress: binary.BigEndian.Uint16(chip[0x0c:0x0e]),
			Size:        binary.BigEndian.Uint16(chip[0x0e:0x10]),
			Offset:      ld.fileBase + (cursor+chipHeaderLen)/2 - ld.payloadBase,
		}
		ld.publishBank(h, bank)
		ld.banks = append(ld.banks, bank)

		// the read cursor now sits just past the CHIP header. another
		// packet can only exist if the file holds this packet's payload
		// plus at least one more header
		cursor += chipHeaderLen
		if ld.length >= cursor+uint32(bank.Size)+chipHeaderLen {
			cursor += uint32(bank.Size)
			continue
		}
		break
	}

	ld.state = Ready
	ld.writeStatus(h)

	// force the first LO bank so the machine has something to execute from.
	// the hi memory is filled on the same pass with whichever bank the core's
	// hi request names
	ld.loBank = ld.banks[0].Number
	ld.loReq = ld.banks[0].Number
	ld.loPending = true
	ld.hiReq = 0
	ld.hiPending = true

	logger.Logf("crt", "parsed: cartridge %d, %d banks", ld.cartID, len(ld.banks))
}

// Step is the loader's housekeeping entry, called once per pass of the main
// loop. In the ready state it watches the core's bank request registers and
// streams newly requested banks into the bank memories. Requests that
// change while a stream is in progress are picked up on the next pass.
func (ld *Loader) Step(h *hif.HIF) {
	if ld.state != Ready {
		return
	}

	var lo, hi uint16
	h.WithDevice(addresses.CartStatus, 0, func(w hif.DataWindow) {
		lo = w.Read(addresses.CartBankLoReq)
		hi = w.Read(addresses.CartBankHiReq)
	})

	if lo != ld.loReq {
		ld.loReq = lo
		ld.loPending = true
	}
	if hi != ld.hiReq {
		ld.hiReq = hi
		ld.hiPending = true
	}

	if ld.loPending {
		ld.state = ReadLo
		ld.copyBank(h, addresses.BRAMLo, ld.loReq)
		ld.loBank = ld.loReq
		ld.loPending = false
		ld.state = Ready
	}

	if ld.hiPending {
		ld.state = ReadHi
		ld.copyBank(h, addresses.BRAMHi, ld.hiReq)
		ld.hiBank = ld.hiReq
		ld.hiPending = false
		ld.state = Ready
	}
}

// copyBank streams one 8 KiB bank from DRAM into a bank memory, in bursts
// of at most 256 bytes. A burst never straddles a window boundary.
func (ld *Loader) copyBank(h *hif.HIF, device uint16, bank uint16) {
	src := ld.payloadBase + uint32(bank)*bankStride

	burst := make([]uint16, burstWords)

	for copied := uint32(0); copied < bankWords; {
		n := uint32(burstWords)
		if bankWords-copied < n {
			n = bankWords - copied
		}
		// clip the burst at the source window edge
		if rem := 0x1000 - (src+copied)&0x0fff; rem < n {
			n = rem
		}

		h.WithDevice(addresses.HyperRAM, uint16((src+copied)>>12), func(w hif.DataWindow) {
			for i := uint32(0); i < n; i++ {
				burst[i] = w.Read(uint16((src + copied + i) & 0x0fff))
			}
		})

		h.WithDevice(device, 0, func(w hif.DataWindow) {
			for i := uint32(0); i < n; i++ {
				w.Write(uint16(copied+i), burst[i])
			}
		})

		copied += n
	}
}

// Reset returns the loader to idle and clears the status registers. Called
// on core reset.
func (ld *Loader) Reset(h *hif.HIF) {
	ld.state = Idle
	ld.errCode = ErrNone
	ld.errAddr = 0
	ld.banks = ld.banks[:0]
	ld.loPending = false
	ld.hiPending = false
	ld.writeStatus(h)
}
