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

// Package machine is the reference model of the hardware peers the shell
// runs alongside: the register bus with its paged data window, the cycle
// counter, the per-drive register files of the emulated core's disk
// controller, the cartridge status registers, HyperRAM and the two bank
// memories, and a byte-slice backed FAT32 card.
//
// It is not an emulator of the retro machine. It models exactly the surfaces
// the shell can observe, with enough scripting hooks (RaiseRead, RaiseWrite,
// SetBankRequest, failure injection on the card) for the package tests to
// play the part of the emulated core.
package machine
