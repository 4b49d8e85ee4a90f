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

// Package crt parses a CRT cartridge container that has been streamed into
// external DRAM and keeps the emulated core's two 8 KiB bank memories
// loaded with whichever banks the core currently wants.
//
// The container is a 0x40 byte file header followed by CHIP packets, each a
// 16 byte header and one bank of ROM. All multi-byte fields in the file are
// big-endian while DRAM packs file bytes into words little-endian, so every
// field read is byte-swapped at the point of use.
//
// Parsing happens once, up front: the packet headers are walked, the bank
// table is published to the core one entry at a time, and the loader then
// sits in the ready state watching the core's bank request registers. A
// bank change is serviced by streaming the 8 KiB payload from DRAM into the
// corresponding bank memory.
package crt
