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

package drive

import (
	"github.com/jetsetilly/coreshell/curated"
	"github.com/jetsetilly/coreshell/hardware/addresses"
	"github.com/jetsetilly/coreshell/hardware/hif"
	"github.com/jetsetilly/coreshell/logger"
	"github.com/jetsetilly/coreshell/sdcard"
)

// IterSize is the most bytes a single flush iteration will write to the
// card. It bounds the time the flush engine spends away from the main loop;
// the emulated core's tolerance for acknowledgement latency is what sets
// it. A single value is used for all drives for now.
const IterSize = 100

// FlushFatalCode is written to the cartridge status register when a flush
// fails. The cache is authoritative once dirty; an image file that cannot
// be updated means data loss and the user must be told rather than carry on
// silently.
const FlushFatalCode uint16 = 0xef01

// whether the hardware's anti-thrash timer for drive n has run down.
func antiThrashReady(h *hif.HIF, n int) bool {
	var ready bool
	h.WithDevice(addresses.DriveDevice(n), 0, func(w hif.DataWindow) {
		ready = w.Read(addresses.DriveAntiThrash) == 1
	})
	return ready
}

// flushIterate advances the flush state machine for drive n by at most one
// bounded iteration. The dispatcher only calls it when the cache is dirty,
// so the Clean and Pending states are implicit in that guard plus the
// anti-thrash check here.
//
// With force set the anti-thrash check is skipped; used when draining a
// cache ahead of an unmount.
func (reg *Registry) flushIterate(h *hif.HIF, sd *sdcard.Client, n int, force bool) error {
	d := &reg.drives[n]

	if !d.Mounted || !d.CacheDirty {
		return nil
	}

	if !d.Flushing {
		// Pending until the quiet period since the last core write has
		// elapsed
		if !force && !antiThrashReady(h, n) {
			return nil
		}

		// Starting: capture the image size and rewind the file. from here
		// the cursor alone drives the copy
		size := sdcard.Size(d.File)
		if err := sd.Seek(d.File, 0, 0); err != nil {
			return curated.Fatalf(FlushFatalCode, FlushError, n, err)
		}
		d.Cursor = FlushCursor{}
		d.Cursor.setRemaining(size)
		d.Flushing = true
		logger.Logf("flush", "drive %d: begin (%d bytes)", n, size)
	}

	for written := 0; written < IterSize && d.Cursor.remaining() > 0; written++ {
		var b uint8
		h.WithDevice(d.BufferDevice, d.Cursor.Window, func(w hif.DataWindow) {
			b = uint8(w.Read(d.Cursor.Offset))
		})

		if err := sd.WriteByte(d.File, b); err != nil {
			return curated.Fatalf(FlushFatalCode, FlushError, n, err)
		}

		d.Cursor.Offset++
		if d.Cursor.Offset == addresses.WindowSize {
			d.Cursor.Offset = 0
			d.Cursor.Window++
		}
		d.Cursor.setRemaining(d.Cursor.remaining() - 1)
	}

	if d.Cursor.remaining() == 0 {
		if err := sd.Flush(d.File); err != nil {
			return curated.Fatalf(FlushFatalCode, FlushError, n, err)
		}
		d.CacheDirty = false
		d.Flushing = false
		logger.Logf("flush", "drive %d: complete", n)
	}

	return nil
}

// drainFlush runs the flush to completion regardless of the anti-thrash
// timer. No requests are serviced while it runs so no new write can
// pre-empt it.
func (reg *Registry) drainFlush(h *hif.HIF, sd *sdcard.Client, n int) error {
	for reg.drives[n].CacheDirty {
		if err := reg.flushIterate(h, sd, n, true); err != nil {
			return err
		}
	}
	return nil
}
