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

// accepted sizes for the fixed-size image formats. the two sizes per track
// count are with and without the appended error bytes.
var d64Sizes = []uint32{174848, 175531, 196608, 197376}
var d81Sizes = []uint32{819200, 822400}

func validImageSize(typ ImageType, size uint32) bool {
	switch typ {
	case ImageD64:
		for _, s := range d64Sizes {
			if size == s {
				return true
			}
		}
		return false
	case ImageD81:
		for _, s := range d81Sizes {
			if size == s {
				return true
			}
		}
		return false
	case ImageG64:
		// G64 images carry their own geometry; any non-empty file is
		// plausible at this point
		return size > 0
	}
	return false
}

// Mount the image at path into drive n and publish it to the emulated core.
//
// Mounting the file that is already mounted is a no-op: the cache state is
// untouched and the core sees no new mount pulse. Mounting a different file
// unmounts the current image first, which drains any dirty cache back to
// the card.
func (reg *Registry) Mount(h *hif.HIF, sd *sdcard.Client, n int, path string, typ ImageType, ro bool) error {
	if n < 0 || n >= len(reg.drives) {
		return curated.Errorf(UnknownDrive, n)
	}
	d := &reg.drives[n]

	if d.Mounted {
		if d.Filename == path {
			return nil
		}
		if err := reg.Unmount(h, sd, n); err != nil {
			return err
		}
	}

	handle, err := sd.Open(path)
	if err != nil {
		return curated.Errorf(ImageLoad, err)
	}

	size := sdcard.Size(handle)
	if !validImageSize(typ, size) {
		return curated.Errorf(BadImageSize, path, typ.String(), size)
	}

	if err := sd.Seek(handle, 0, 0); err != nil {
		return curated.Errorf(ImageLoad, err)
	}

	// stream the file into the image buffer. the card driver does not touch
	// the selector bus so the selection holds for a whole window
	var window uint16
	for copied := uint32(0); copied < size; {
		var werr error
		h.WithDevice(d.BufferDevice, window, func(w hif.DataWindow) {
			for offset := uint16(0); offset < addresses.WindowSize && copied < size; offset++ {
				var b uint8
				b, werr = sd.ReadByte(handle)
				if werr != nil {
					return
				}
				w.Write(offset, uint16(b))
				copied++
			}
		})
		if werr != nil {
			return curated.Errorf(ImageLoad, werr)
		}
		window++
	}

	reg.StrobeMount(h, n, handle.SizeLo(), handle.SizeHi(), ro, typ)

	d.Mounted = true
	d.ImgType = typ
	d.ReadOnly = ro
	d.File = handle
	d.Filename = path
	d.CacheDirty = false
	d.Flushing = false
	d.Cursor = FlushCursor{}
	d.roWarned = false

	logger.Logf("drive", "%d: mounted %s (%s, %d bytes)", n, path, typ.String(), size)

	return nil
}

// Unmount drive n. A dirty cache is drained back to the card first - the
// anti-thrash delay does not apply because no further writes can arrive
// once the image is going away. The core is told with a mount pulse of size
// zero.
func (reg *Registry) Unmount(h *hif.HIF, sd *sdcard.Client, n int) error {
	if n < 0 || n >= len(reg.drives) {
		return curated.Errorf(UnknownDrive, n)
	}
	d := &reg.drives[n]

	if !d.Mounted {
		return curated.Errorf(NotMounted, n)
	}

	if d.CacheDirty {
		if err := reg.drainFlush(h, sd, n); err != nil {
			return err
		}
	}

	reg.StrobeMount(h, n, 0, 0, false, 0)

	d.Mounted = false
	d.File = nil
	d.Filename = ""
	d.CacheDirty = false
	d.Flushing = false
	d.Cursor = FlushCursor{}

	logger.Logf("drive", "%d: unmounted", n)

	return nil
}
