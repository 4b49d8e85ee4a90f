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

// Package drive implements the virtual-drive subsystem: the registry of
// per-drive state, mounting and unmounting of disk images, the dispatcher
// that services the emulated core's read and write requests, and the
// deferred write-back of dirty image caches to the SD card.
//
// A mounted image lives in full in a RAM buffer shared with the emulated
// core's disk controller; the core reads and writes that buffer freely
// through its own port and raises requests only when it wants the shell to
// move data between the buffer and its small internal sector buffer. The
// image file on the card is updated lazily: a serviced write marks the cache
// dirty, and once the hardware reports the anti-thrash quiet period has
// passed, the flush engine copies the whole image back to the card in small
// bounded iterations so the main loop never misses an acknowledgement
// deadline.
package drive
