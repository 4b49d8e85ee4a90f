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

// Package bus defines the interface between the shell and the register file
// of the machine it runs inside. It is the single seam between firmware and
// hardware: every peripheral - the CSR, the selector bus, the cycle counter,
// the data window - is reached through a Register implementation.
package bus

// Register is the interface to the memory-mapped register file. The shell is
// word-oriented; all registers are 16 bits wide.
//
// Implementations are expected to perform whatever side effects the hardware
// performs: a write to a strobe register is an event, not a store, and a read
// of the cycle counter returns a moving value.
type Register interface {
	ReadRegister(address uint16) uint16
	WriteRegister(address uint16, data uint16)
}
