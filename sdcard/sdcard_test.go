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

package sdcard_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/coreshell/curated"
	"github.com/jetsetilly/coreshell/machine"
	"github.com/jetsetilly/coreshell/sdcard"
	"github.com/jetsetilly/coreshell/test"
)

func TestMountGuard(t *testing.T) {
	card := machine.NewCard()
	sd := sdcard.NewClient(card)

	// nothing works before a mount
	_, err := sd.Open("/file")
	test.ExpectedSuccess(t, curated.Is(err, sdcard.NotMounted))
	test.ExpectedFailure(t, sd.IsMounted())

	test.ExpectedSuccess(t, sd.Mount(1))
	test.ExpectedSuccess(t, sd.IsMounted())
}

func TestMountFailure(t *testing.T) {
	card := machine.NewCard()
	card.MountErr = errors.New("no card")
	sd := sdcard.NewClient(card)

	err := sd.Mount(1)
	test.ExpectedSuccess(t, curated.Is(err, sdcard.MountFailed))
	test.ExpectedFailure(t, sd.IsMounted())
}

func TestOpenAndSize(t *testing.T) {
	card := machine.NewCard()
	card.AddFile("/file", []uint8{10, 20, 30})
	sd := sdcard.NewClient(card)
	test.ExpectedSuccess(t, sd.Mount(1))

	_, err := sd.Open("/missing")
	test.ExpectedSuccess(t, curated.Is(err, sdcard.OpenFailed))

	handle, err := sd.Open("/file")
	test.ExpectedSuccess(t, err)
	test.Equate(t, sdcard.Size(handle), 3)
	test.Equate(t, handle.SizeLo(), 3)
	test.Equate(t, handle.SizeHi(), 0)
}

func TestReadToEOF(t *testing.T) {
	card := machine.NewCard()
	card.AddFile("/file", []uint8{10, 20})
	sd := sdcard.NewClient(card)
	test.ExpectedSuccess(t, sd.Mount(1))

	handle, err := sd.Open("/file")
	test.ExpectedSuccess(t, err)

	b, err := sd.ReadByte(handle)
	test.ExpectedSuccess(t, err)
	test.Equate(t, b, 10)
	b, err = sd.ReadByte(handle)
	test.ExpectedSuccess(t, err)
	test.Equate(t, b, 20)

	// end of file is a distinct identity, not a generic read failure
	_, err = sd.ReadByte(handle)
	test.ExpectedSuccess(t, curated.Is(err, sdcard.EndOfFile))
}

func TestWriteSeekFlush(t *testing.T) {
	card := machine.NewCard()
	card.AddFile("/file", []uint8{0, 0, 0, 0})
	sd := sdcard.NewClient(card)
	test.ExpectedSuccess(t, sd.Mount(1))

	handle, err := sd.Open("/file")
	test.ExpectedSuccess(t, err)

	test.ExpectedSuccess(t, sd.Seek(handle, 2, 0))
	test.ExpectedSuccess(t, sd.WriteByte(handle, 0x55))
	test.ExpectedSuccess(t, sd.Flush(handle))
	test.Equate(t, card.Data("/file")[2], 0x55)

	// errors pass through with the package's identity and no retry
	card.WriteErr = errors.New("write failure")
	err = sd.WriteByte(handle, 0x66)
	test.ExpectedSuccess(t, curated.Is(err, sdcard.WriteFailed))
}
