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

package machine

import (
	"fmt"
	"io"

	"github.com/jetsetilly/coreshell/sdcard"
)

// Card is a byte-slice backed implementation of the sdcard.Driver
// interface. Every error field, when non-nil, is returned by the
// corresponding operation - the failure injection used by the flush-error
// tests.
type Card struct {
	files   map[string]*cardFile
	mounted bool

	MountErr error
	SeekErr  error
	ReadErr  error
	WriteErr error
	FlushErr error
}

type cardFile struct {
	data []uint8
	pos  int

	// bytes written since the last flush. purely diagnostic; the data slice
	// is always current
	unflushed int
}

type cardHandle struct {
	f *cardFile
}

// SizeLo implements the sdcard.Handle interface.
func (h *cardHandle) SizeLo() uint16 {
	return uint16(len(h.f.data))
}

// SizeHi implements the sdcard.Handle interface.
func (h *cardHandle) SizeHi() uint16 {
	return uint16(len(h.f.data) >> 16)
}

// NewCard is the preferred method of initialisation for the Card type.
func NewCard() *Card {
	return &Card{
		files: make(map[string]*cardFile),
	}
}

// AddFile places a file on the card, replacing any previous content at that
// path.
func (c *Card) AddFile(path string, data []uint8) {
	d := make([]uint8, len(data))
	copy(d, data)
	c.files[path] = &cardFile{data: d}
}

// Data returns the current content of a file on the card, or nil if the
// file does not exist.
func (c *Card) Data(path string) []uint8 {
	f, ok := c.files[path]
	if !ok {
		return nil
	}
	d := make([]uint8, len(f.data))
	copy(d, f.data)
	return d
}

// Mount implements the sdcard.Driver interface.
func (c *Card) Mount(partition int) error {
	if c.MountErr != nil {
		return c.MountErr
	}
	c.mounted = true
	return nil
}

// Open implements the sdcard.Driver interface.
func (c *Card) Open(partition int, path string) (sdcard.Handle, error) {
	if !c.mounted {
		return nil, fmt.Errorf("card not mounted")
	}
	f, ok := c.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found")
	}
	f.pos = 0
	return &cardHandle{f: f}, nil
}

// Seek implements the sdcard.Driver interface.
func (c *Card) Seek(handle sdcard.Handle, lo uint16, hi uint16) error {
	if c.SeekErr != nil {
		return c.SeekErr
	}
	f := handle.(*cardHandle).f
	pos := int(uint32(hi)<<16 | uint32(lo))
	if pos > len(f.data) {
		return fmt.Errorf("seek beyond end of file")
	}
	f.pos = pos
	return nil
}

// ReadByte implements the sdcard.Driver interface.
func (c *Card) ReadByte(handle sdcard.Handle) (uint8, error) {
	if c.ReadErr != nil {
		return 0, c.ReadErr
	}
	f := handle.(*cardHandle).f
	if f.pos >= len(f.data) {
		return 0, io.EOF
	}
	b := f.data[f.pos]
	f.pos++
	return b, nil
}

// WriteByte implements the sdcard.Driver interface.
func (c *Card) WriteByte(handle sdcard.Handle, data uint8) error {
	if c.WriteErr != nil {
		return c.WriteErr
	}
	f := handle.(*cardHandle).f
	if f.pos >= len(f.data) {
		f.data = append(f.data, data)
	} else {
		f.data[f.pos] = data
	}
	f.pos++
	f.unflushed++
	return nil
}

// Flush implements the sdcard.Driver interface.
func (c *Card) Flush(handle sdcard.Handle) error {
	if c.FlushErr != nil {
		return c.FlushErr
	}
	handle.(*cardHandle).f.unflushed = 0
	return nil
}
