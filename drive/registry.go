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
	"fmt"

	"github.com/jetsetilly/coreshell/curated"
	"github.com/jetsetilly/coreshell/hardware/addresses"
	"github.com/jetsetilly/coreshell/hardware/hif"
	"github.com/jetsetilly/coreshell/sdcard"
)

// Error patterns for the drive package.
const (
	NotMounted    = "drive: drive %d is not mounted"
	UnknownDrive  = "drive: no such drive (%d)"
	ImageLoad     = "drive: image load: %v"
	BadImageSize  = "drive: %s: unexpected size for %s image (%d)"
	BrokenRecord = "drive: drive %d: %s"
	FlushError   = "drive: flush: drive %d: %v"
)

// ImageType is the format discriminator surfaced to the emulated core on
// mount. It means nothing to the shell beyond size validation.
type ImageType uint16

// List of valid ImageType values.
const (
	ImageD64 ImageType = iota
	ImageG64
	ImageD81
)

func (t ImageType) String() string {
	switch t {
	case ImageD64:
		return "D64"
	case ImageG64:
		return "G64"
	case ImageD81:
		return "D81"
	}
	return fmt.Sprintf("type %d", uint16(t))
}

// FlushCursor is the saved position inside the image between the bounded
// iterations of a flush. The remaining count is kept as two 16-bit words,
// matching how the value travels through the register file.
type FlushCursor struct {
	Window      uint16
	Offset      uint16
	RemainingLo uint16
	RemainingHi uint16
}

func (c FlushCursor) remaining() uint32 {
	return uint32(c.RemainingHi)<<16 | uint32(c.RemainingLo)
}

func (c *FlushCursor) setRemaining(v uint32) {
	c.RemainingLo = uint16(v)
	c.RemainingHi = uint16(v >> 16)
}

// Record is the state of one virtual drive.
type Record struct {
	Mounted  bool
	ImgType  ImageType
	ReadOnly bool

	// valid iff Mounted
	File     sdcard.Handle
	Filename string

	// the device id of the image buffer shared with the emulated core.
	// assigned at init and never changed
	BufferDevice uint16

	// CacheDirty is set by any serviced write and cleared only when the
	// whole image has been flushed back to the card. Flushing marks a flush
	// pass in progress
	CacheDirty bool
	Flushing   bool
	Cursor     FlushCursor

	// whether a write request has already been refused because the image is
	// read-only. stops the log filling up
	roWarned bool

	// the last mount state published to the menu, for redraw change
	// detection
	MountSnapshot bool

	// the menu entry associated with this drive, or -1
	MenuGroup int
}

// Registry is the table of virtual-drive records. The number of drives is
// fixed at initialisation.
type Registry struct {
	drives []Record
}

// NewRegistry is the preferred method of initialisation for the Registry
// type.
func NewRegistry(numDrives int) *Registry {
	reg := &Registry{
		drives: make([]Record, numDrives),
	}
	for n := range reg.drives {
		reg.drives[n].BufferDevice = addresses.ImageDevice(n)
		reg.drives[n].MenuGroup = -1
	}
	return reg
}

// NumDrives returns the number of drives in the registry.
func (reg *Registry) NumDrives() int {
	return len(reg.drives)
}

// Drive returns the record for drive n. The returned pointer is into the
// registry's own storage.
func (reg *Registry) Drive(n int) *Record {
	return &reg.drives[n]
}

// Mounted returns true if drive n is mounted.
func (reg *Registry) Mounted(n int) bool {
	return reg.drives[n].Mounted
}

// SetMenuGroup associates drive n with a menu entry.
func (reg *Registry) SetMenuGroup(n int, group int) {
	reg.drives[n].MenuGroup = group
}

// MenuGroupOf returns the menu entry associated with drive n. The second
// return value is false if there is no association.
func (reg *Registry) MenuGroupOf(n int) (int, bool) {
	if reg.drives[n].MenuGroup == -1 {
		return 0, false
	}
	return reg.drives[n].MenuGroup, true
}

// DriveForGroup returns the drive associated with a menu entry, or -1.
func (reg *Registry) DriveForGroup(group int) int {
	for n := range reg.drives {
		if reg.drives[n].MenuGroup == group {
			return n
		}
	}
	return -1
}

// StrobeMount publishes image metadata to the emulated core for drive n.
// The auxiliary registers are written before the pulse and cleared after
// it; the core latches them on the rising edge of the mount bit.
func (reg *Registry) StrobeMount(h *hif.HIF, n int, sizeLo uint16, sizeHi uint16, ro bool, typ ImageType) {
	var rov uint16
	if ro {
		rov = 1
	}

	h.WithDevice(addresses.DriveDevice(n), 0, func(w hif.DataWindow) {
		w.Write(addresses.DriveImgType, uint16(typ))
		w.Write(addresses.DriveReadOnly, rov)
		w.Write(addresses.DriveSizeLo, sizeLo)
		w.Write(addresses.DriveSizeHi, sizeHi)
		w.Write(addresses.DriveMount, 1)
		w.Write(addresses.DriveMount, 0)
		w.Write(addresses.DriveSizeLo, 0)
		w.Write(addresses.DriveSizeHi, 0)
		w.Write(addresses.DriveReadOnly, 0)
		w.Write(addresses.DriveImgType, 0)
	})
}

// CheckInvariants tests every record against the registry invariants. It is
// called at loop boundaries by tests; the returned error names the first
// violated invariant.
func (reg *Registry) CheckInvariants() error {
	for n := range reg.drives {
		d := &reg.drives[n]
		if d.Mounted && (d.File == nil || d.BufferDevice == 0) {
			return curated.Errorf(BrokenRecord, n, "mounted without file handle or buffer device")
		}
		if d.CacheDirty && !d.Mounted {
			return curated.Errorf(BrokenRecord, n, "dirty cache on unmounted drive")
		}
		if d.Flushing && !d.CacheDirty {
			return curated.Errorf(BrokenRecord, n, "flush in progress with clean cache")
		}
	}
	return nil
}
