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
	"github.com/jetsetilly/coreshell/hardware/addresses"
	"github.com/jetsetilly/coreshell/hardware/hif"
	"github.com/jetsetilly/coreshell/logger"
	"github.com/jetsetilly/coreshell/sdcard"
)

// Persistence is how the dispatcher tells the configuration layer to stop
// writing settings. Implemented by config.Settings.
type Persistence interface {
	Disable()
}

// Dispatcher sweeps the registry for work on every pass of the main loop:
// card hot-swap detection, the read and write requests raised by the
// emulated core, and one flush iteration per dirty drive.
type Dispatcher struct {
	reg *Registry
	sd  *sdcard.Client

	// may be nil if the shell is running without a settings file
	persist Persistence

	// the SD slot active when the shell started. settings must never be
	// written to any other card
	bootSlot uint16

	lastSlot        uint16
	sdChanged       bool
	persistDisabled bool
}

// NewDispatcher is the preferred method of initialisation for the
// Dispatcher type. The active SD slot is sampled immediately and becomes
// the reference for the ROM-integrity check.
func NewDispatcher(h *hif.HIF, reg *Registry, sd *sdcard.Client, persist Persistence) *Dispatcher {
	slot := h.ActiveSlot()
	return &Dispatcher{
		reg:      reg,
		sd:       sd,
		persist:  persist,
		bootSlot: slot,
		lastSlot: slot,
	}
}

// SDChanged returns true if the active SD slot has changed since the last
// mount. While true, mount attempts must restart the card first.
func (dsp *Dispatcher) SDChanged() bool {
	return dsp.sdChanged
}

// ClearSDChanged acknowledges a hot swap. Called after the card has been
// restarted by a mount retry.
func (dsp *Dispatcher) ClearSDChanged() {
	dsp.sdChanged = false
}

// Service is the dispatcher's once-per-loop entry point. Order matters:
// slot checks first so a swapped card can never receive settings or mounts
// meant for the old one; then the read sweep, the write sweep and finally
// one flush iteration for each dirty drive. Drives are always swept in
// ascending order.
func (dsp *Dispatcher) Service(h *hif.HIF) error {
	slot := h.ActiveSlot()

	if slot != dsp.bootSlot && !dsp.persistDisabled {
		dsp.persistDisabled = true
		if dsp.persist != nil {
			dsp.persist.Disable()
		}
		logger.Logf("shell", "SD slot changed from %d to %d: settings writes disabled", dsp.bootSlot, slot)
	}

	if slot != dsp.lastSlot {
		dsp.sdChanged = true
		dsp.lastSlot = slot
		logger.Log("shell", "SD card changed: mounts inhibited until restart")
	}

	for n := 0; n < dsp.reg.NumDrives(); n++ {
		if dsp.reg.Mounted(n) && dsp.requested(h, n, addresses.DriveSDRd) {
			dsp.serviceRead(h, n)
		}
	}

	for n := 0; n < dsp.reg.NumDrives(); n++ {
		if dsp.reg.Mounted(n) && dsp.requested(h, n, addresses.DriveSDWr) {
			dsp.serviceWrite(h, n)
		}
	}

	for n := 0; n < dsp.reg.NumDrives(); n++ {
		if dsp.reg.Drive(n).CacheDirty {
			if err := dsp.reg.flushIterate(h, dsp.sd, n, false); err != nil {
				return err
			}
		}
	}

	return nil
}

func (dsp *Dispatcher) requested(h *hif.HIF, n int, flag uint16) bool {
	var raised bool
	h.WithDevice(addresses.DriveDevice(n), 0, func(w hif.DataWindow) {
		raised = w.Read(flag) == 1
	})
	return raised
}

// request parameters common to the read and the write service.
type request struct {
	start uint32
	size  uint16
}

func (dsp *Dispatcher) readRequest(h *hif.HIF, n int) request {
	var rq request
	h.WithDevice(addresses.DriveDevice(n), 0, func(w hif.DataWindow) {
		rq.start = uint32(w.Read(addresses.DriveWin4K))<<12 | uint32(w.Read(addresses.DriveOff4K))&0x0fff
		rq.size = w.Read(addresses.DriveSizeBytes)
	})
	return rq
}

// serviceRead copies from the image buffer into the drive's internal
// buffer. The acknowledge is asserted once before the transfer and
// de-asserted once after it; the transfer itself runs lowest to highest
// address.
func (dsp *Dispatcher) serviceRead(h *hif.HIF, n int) {
	rq := dsp.readRequest(h, n)

	h.WithDevice(addresses.DriveDevice(n), 0, func(w hif.DataWindow) {
		w.Write(addresses.DriveAck, 1)
	})

	for i := uint16(0); i < rq.size; i++ {
		addr := rq.start + uint32(i)

		var b uint16
		h.WithDevice(dsp.reg.drives[n].BufferDevice, uint16(addr>>12), func(w hif.DataWindow) {
			b = w.Read(uint16(addr & 0x0fff))
		})

		h.WithDevice(addresses.DriveDevice(n), 0, func(w hif.DataWindow) {
			w.Write(addresses.DriveBufAddr, i)
			w.Write(addresses.DriveBufDOut, b)
			w.Write(addresses.DriveBufWrEn, 1)
			w.Write(addresses.DriveBufWrEn, 0)
		})
	}

	h.WithDevice(addresses.DriveDevice(n), 0, func(w hif.DataWindow) {
		w.Write(addresses.DriveAck, 0)
	})
}

// serviceWrite copies from the drive's internal buffer into the image
// buffer, marks the cache dirty and knocks any flush in progress back to
// the Pending state. A write against a read-only image is acknowledged but
// not applied.
func (dsp *Dispatcher) serviceWrite(h *hif.HIF, n int) {
	d := dsp.reg.Drive(n)
	rq := dsp.readRequest(h, n)

	h.WithDevice(addresses.DriveDevice(n), 0, func(w hif.DataWindow) {
		w.Write(addresses.DriveAck, 1)
	})

	if d.ReadOnly {
		if !d.roWarned {
			logger.Logf("drive", "%d: write request against read-only image", n)
			d.roWarned = true
		}
		h.WithDevice(addresses.DriveDevice(n), 0, func(w hif.DataWindow) {
			w.Write(addresses.DriveAck, 0)
		})
		return
	}

	for i := uint16(0); i < rq.size; i++ {
		addr := rq.start + uint32(i)

		var b uint16
		h.WithDevice(addresses.DriveDevice(n), 0, func(w hif.DataWindow) {
			w.Write(addresses.DriveBufAddr, i)
			b = w.Read(addresses.DriveBufDIn)
		})

		h.WithDevice(d.BufferDevice, uint16(addr>>12), func(w hif.DataWindow) {
			w.Write(uint16(addr&0x0fff), b)
		})
	}

	h.WithDevice(addresses.DriveDevice(n), 0, func(w hif.DataWindow) {
		w.Write(addresses.DriveAck, 0)
	})

	// a write always restarts the flush: the engine falls back to Pending
	// and the whole image goes to the card again once the hardware's quiet
	// period next elapses
	d.CacheDirty = true
	d.Flushing = false
}
