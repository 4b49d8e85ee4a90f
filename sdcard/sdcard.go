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

package sdcard

import (
	"io"

	"github.com/jetsetilly/coreshell/curated"
)

// Error patterns for the sdcard package.
const (
	NotMounted  = "sdcard: not mounted"
	MountFailed = "sdcard: mount: %v"
	OpenFailed  = "sdcard: open %s: %v"
	SeekFailed  = "sdcard: seek: %v"
	ReadFailed  = "sdcard: read: %v"
	WriteFailed = "sdcard: write: %v"
	FlushFailed = "sdcard: flush: %v"
	EndOfFile   = "sdcard: end of file"
)

// Handle is an open file on the card. The driver owns the handle; the only
// things the shell ever asks of it directly are the two size words.
type Handle interface {
	SizeLo() uint16
	SizeHi() uint16
}

// Size combines the two size words of a handle.
func Size(handle Handle) uint32 {
	return uint32(handle.SizeHi())<<16 | uint32(handle.SizeLo())
}

// Driver is the interface to the platform's FAT32 implementation. Files are
// read and written a byte at a time; the driver is expected to do its own
// sector buffering behind Flush().
//
// ReadByte returns io.EOF at the end of the file.
type Driver interface {
	Mount(partition int) error
	Open(partition int, path string) (Handle, error)
	Seek(handle Handle, lo uint16, hi uint16) error
	ReadByte(handle Handle) (uint8, error)
	WriteByte(handle Handle, data uint8) error
	Flush(handle Handle) error
}

// Client mediates between the shell and the FAT32 driver.
type Client struct {
	drv       Driver
	mounted   bool
	partition int
}

// NewClient is the preferred method of initialisation for the Client type.
func NewClient(drv Driver) *Client {
	return &Client{drv: drv}
}

// Mount the given partition. The partition number is remembered for
// Remount().
func (c *Client) Mount(partition int) error {
	err := c.drv.Mount(partition)
	if err != nil {
		c.mounted = false
		return curated.Errorf(MountFailed, err)
	}
	c.mounted = true
	c.partition = partition
	return nil
}

// Remount the partition given to the most recent Mount(). Used to restart
// the card after a hot swap.
func (c *Client) Remount() error {
	if !c.mounted && c.partition == 0 {
		return curated.Errorf(NotMounted)
	}
	return c.Mount(c.partition)
}

// IsMounted returns true if a partition is currently mounted.
func (c *Client) IsMounted() bool {
	return c.mounted
}

// Open a file on the mounted partition.
func (c *Client) Open(path string) (Handle, error) {
	if !c.mounted {
		return nil, curated.Errorf(NotMounted)
	}
	handle, err := c.drv.Open(c.partition, path)
	if err != nil {
		return nil, curated.Errorf(OpenFailed, path, err)
	}
	return handle, nil
}

// Seek to the byte position given by the two position words.
func (c *Client) Seek(handle Handle, lo uint16, hi uint16) error {
	if !c.mounted {
		return curated.Errorf(NotMounted)
	}
	if err := c.drv.Seek(handle, lo, hi); err != nil {
		return curated.Errorf(SeekFailed, err)
	}
	return nil
}

// ReadByte reads one byte at the current file position. At the end of the
// file the returned error satisfies curated.Is(err, EndOfFile).
func (c *Client) ReadByte(handle Handle) (uint8, error) {
	if !c.mounted {
		return 0, curated.Errorf(NotMounted)
	}
	b, err := c.drv.ReadByte(handle)
	if err != nil {
		if err == io.EOF {
			return 0, curated.Errorf(EndOfFile)
		}
		return 0, curated.Errorf(ReadFailed, err)
	}
	return b, nil
}

// WriteByte writes one byte at the current file position.
func (c *Client) WriteByte(handle Handle, data uint8) error {
	if !c.mounted {
		return curated.Errorf(NotMounted)
	}
	if err := c.drv.WriteByte(handle, data); err != nil {
		return curated.Errorf(WriteFailed, err)
	}
	return nil
}

// Flush the driver's write buffers for the handle.
func (c *Client) Flush(handle Handle) error {
	if !c.mounted {
		return curated.Errorf(NotMounted)
	}
	if err := c.drv.Flush(handle); err != nil {
		return curated.Errorf(FlushFailed, err)
	}
	return nil
}
