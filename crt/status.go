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
	"github.com/jetsetilly/coreshell/hardware/addresses"
	"github.com/jetsetilly/coreshell/hardware/hif"
)

// writeStatus publishes the loader's current state to the cartridge status
// register file: the status word, the file geometry, and the error
// word/diagnostics when the loader is in the error state.
func (ld *Loader) writeStatus(h *hif.HIF) {
	var status uint16
	switch ld.state {
	case Idle:
		status = addresses.CartNotStarted
	case Parsing, ReadLo, ReadHi:
		status = addresses.CartLoading
	case Ready:
		status = addresses.CartSuccess
	case Errored:
		status = addresses.CartErrored
	}

	h.WithDevice(addresses.CartStatus, 0, func(w hif.DataWindow) {
		w.Write(addresses.CartStatusWord, status)
		w.Write(addresses.CartSizeLo, uint16(ld.length))
		w.Write(addresses.CartSizeHi, uint16(ld.length>>16))

		// start address is published in units of 16 words
		w.Write(addresses.CartStartLo, uint16(ld.fileBase>>4))
		w.Write(addresses.CartStartHi, uint16(ld.fileBase>>20))

		if ld.state == Errored {
			w.Write(addresses.CartError, uint16(ld.errCode))
			w.Write(addresses.CartDiag0, uint16(ld.errAddr))
			w.Write(addresses.CartDiag1, uint16(ld.errAddr>>16))
		} else {
			w.Write(addresses.CartError, 0)
			w.Write(addresses.CartDiag0, 0)
			w.Write(addresses.CartDiag1, 0)
		}
	})
}

// publishHeader surfaces the cartridge identity fields to the core.
func (ld *Loader) publishHeader(h *hif.HIF) {
	h.WithDevice(addresses.CartStatus, 0, func(w hif.DataWindow) {
		w.Write(addresses.CartID, ld.cartID)
		w.Write(addresses.CartExrom, uint16(ld.exrom))
		w.Write(addresses.CartGame, uint16(ld.game))
	})
}

// publishBank writes one bank table entry to the core with a one-cycle
// strobe. The core latches the entry on the rising edge.
func (ld *Loader) publishBank(h *hif.HIF, b Bank) {
	h.WithDevice(addresses.CartStatus, 0, func(w hif.DataWindow) {
		w.Write(addresses.CartBankLoad, b.LoadAddress)
		w.Write(addresses.CartBankSize, b.Size)
		w.Write(addresses.CartBankNumber, b.Number)
		w.Write(addresses.CartBankOffLo, uint16(b.Offset))
		w.Write(addresses.CartBankOffHi, uint16(b.Offset>>16))
		w.Write(addresses.CartBankStrobe, 1)
		w.Write(addresses.CartBankStrobe, 0)
	})
}

// ReportFatal writes a fatal error code to the cartridge status register.
// Called by the shell's halt routine; the core samples the register and
// stays inert.
func ReportFatal(h *hif.HIF, code uint16) {
	h.WithDevice(addresses.CartStatus, 0, func(w hif.DataWindow) {
		w.Write(addresses.CartStatusWord, addresses.CartErrored)
		w.Write(addresses.CartError, code)
	})
}
