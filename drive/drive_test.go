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

package drive_test

import (
	"testing"

	"github.com/jetsetilly/coreshell/drive"
	"github.com/jetsetilly/coreshell/hardware/hif"
	"github.com/jetsetilly/coreshell/machine"
	"github.com/jetsetilly/coreshell/sdcard"
	"github.com/jetsetilly/coreshell/test"
)

const d64Size = 174848
const imagePath = "/test.d64"
const otherPath = "/other.d64"

// quiet period used by the tests. large against the few hundred cycles a
// single dispatcher pass costs, small enough to run down quickly
const quiet = 100000

type rig struct {
	m   *machine.Machine
	h   *hif.HIF
	sd  *sdcard.Client
	reg *drive.Registry
	dsp *drive.Dispatcher
}

// a fresh machine with two drives and two D64 images on the card. the
// image files carry a position-dependent pattern so copies can be checked.
func newRig(t *testing.T) *rig {
	t.Helper()

	m := machine.NewMachine(2)
	m.QuietCycles = quiet

	img := make([]uint8, d64Size)
	for i := range img {
		img[i] = uint8(i * 7)
	}
	m.Card.AddFile(imagePath, img)
	m.Card.AddFile(otherPath, make([]uint8, d64Size))

	h := hif.NewHIF(m)
	sd := sdcard.NewClient(m.Card)
	if err := sd.Mount(1); err != nil {
		t.Fatalf("mount card: %v", err)
	}

	reg := drive.NewRegistry(2)

	return &rig{
		m:   m,
		h:   h,
		sd:  sd,
		reg: reg,
		dsp: drive.NewDispatcher(h, reg, sd, nil),
	}
}

func (r *rig) mount(t *testing.T, n int, path string, ro bool) {
	t.Helper()
	if err := r.reg.Mount(r.h, r.sd, n, path, drive.ImageD64, ro); err != nil {
		t.Fatalf("mount drive %d: %v", n, err)
	}
	test.ExpectedSuccess(t, r.reg.CheckInvariants())
}

func (r *rig) service(t *testing.T) {
	t.Helper()
	if err := r.dsp.Service(r.h); err != nil {
		t.Fatalf("dispatcher: %v", err)
	}
	test.ExpectedSuccess(t, r.reg.CheckInvariants())
}

// run the dispatcher until the drive's cache is clean again. the bound is
// generous: a whole D64 at IterSize bytes a pass, plus slack.
func (r *rig) flushOut(t *testing.T, n int) {
	t.Helper()
	r.m.Advance(quiet)
	for i := 0; i < d64Size/drive.IterSize+10; i++ {
		if !r.reg.Drive(n).CacheDirty {
			return
		}
		r.service(t)
	}
	t.Fatalf("drive %d still dirty after full flush allowance", n)
}

func TestMountStrobe(t *testing.T) {
	r := newRig(t)
	r.mount(t, 0, imagePath, false)

	// scenario 1: exactly one mount pulse with the image geometry latched
	test.Equate(t, len(r.m.MountEvents), 1)
	ev := r.m.MountEvents[0]
	test.Equate(t, ev.Drive, 0)
	test.Equate(t, ev.SizeLo, 0xab00)
	test.Equate(t, ev.SizeHi, 0x0002)
	test.Equate(t, ev.ImgType, 0)
	test.Equate(t, ev.ReadOnly, 0)

	// the image buffer is the linear file content
	test.Equate(t, r.m.ImageByte(0, 0), 0)
	test.Equate(t, r.m.ImageByte(0, 1), 7)
	for _, i := range []int{5000, d64Size - 1} {
		test.Equate(t, r.m.ImageByte(0, uint32(i)), uint8(i*7))
	}
}

func TestMountBadSize(t *testing.T) {
	r := newRig(t)
	r.m.Card.AddFile("/short.d64", make([]uint8, 1000))

	err := r.reg.Mount(r.h, r.sd, 0, "/short.d64", drive.ImageD64, false)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, r.reg.Mounted(0) == false)
	test.Equate(t, len(r.m.MountEvents), 0)
}

func TestMountIdempotence(t *testing.T) {
	r := newRig(t)
	r.mount(t, 0, imagePath, false)

	// dirty the cache
	r.m.RaiseWrite(0, 0, []uint8{0x42})
	r.service(t)
	test.ExpectedSuccess(t, r.reg.Drive(0).CacheDirty)

	// remounting the same image must not reset the drive or touch the
	// cache state
	r.mount(t, 0, imagePath, false)
	test.Equate(t, len(r.m.MountEvents), 1)
	test.ExpectedSuccess(t, r.reg.Drive(0).CacheDirty)
}

func TestMountReplacesImage(t *testing.T) {
	r := newRig(t)
	r.mount(t, 0, imagePath, false)

	r.m.RaiseWrite(0, 3, []uint8{0x99})
	r.service(t)

	// mounting a different image first drains the dirty cache to the old
	// file, then pulses unmount (size zero) and mount
	r.mount(t, 0, otherPath, false)

	test.Equate(t, r.m.Card.Data(imagePath)[3], 0x99)
	test.Equate(t, len(r.m.MountEvents), 3)
	test.Equate(t, r.m.MountEvents[1].SizeLo, 0)
	test.Equate(t, r.m.MountEvents[1].SizeHi, 0)
	test.Equate(t, r.m.MountEvents[2].SizeLo, 0xab00)
}

func TestReadRequest(t *testing.T) {
	r := newRig(t)
	r.mount(t, 0, imagePath, false)

	// a read crossing a window boundary
	const start = 4090
	const size = 12
	r.m.RaiseRead(0, start, size)
	r.service(t)

	test.ExpectedFailure(t, r.m.RequestPending(0))

	buf := r.m.Buffer(0)
	for i := 0; i < size; i++ {
		test.Equate(t, buf[i], uint8((start+i)*7))
	}

	// P1: exactly one assert and one de-assert of the acknowledge
	asserts, deasserts := r.m.AckCounts(0)
	test.Equate(t, asserts, 1)
	test.Equate(t, deasserts, 1)
}

func TestWriteRequest(t *testing.T) {
	r := newRig(t)
	r.mount(t, 0, imagePath, false)

	r.m.RaiseWrite(0, 0x1000, []uint8{0xde, 0xad, 0xbe, 0xef})
	r.service(t)

	test.ExpectedFailure(t, r.m.RequestPending(0))
	test.ExpectedSuccess(t, r.reg.Drive(0).CacheDirty)
	test.Equate(t, r.m.ImageByte(0, 0x1000), 0xde)
	test.Equate(t, r.m.ImageByte(0, 0x1003), 0xef)

	asserts, deasserts := r.m.AckCounts(0)
	test.Equate(t, asserts, 1)
	test.Equate(t, deasserts, 1)

	// the card file itself is untouched until a flush happens
	orig := 0x1000
	test.Equate(t, r.m.Card.Data(imagePath)[orig], uint8(orig*7))
}

func TestReadOnlyWrite(t *testing.T) {
	r := newRig(t)
	r.mount(t, 0, imagePath, true)

	test.Equate(t, r.m.MountEvents[0].ReadOnly, 1)

	r.m.RaiseWrite(0, 0, []uint8{0x42})
	r.service(t)

	// acknowledged but not applied
	asserts, deasserts := r.m.AckCounts(0)
	test.Equate(t, asserts, 1)
	test.Equate(t, deasserts, 1)
	test.ExpectedFailure(t, r.reg.Drive(0).CacheDirty)
	test.Equate(t, r.m.ImageByte(0, 0), 0)
}

func TestFlushSimple(t *testing.T) {
	r := newRig(t)
	r.mount(t, 0, imagePath, false)

	// scenario 2: one byte written, quiet period passes, flush lands the
	// byte in the file and the cache is clean
	r.m.RaiseWrite(0, 0, []uint8{0x42})
	r.service(t)

	r.flushOut(t, 0)

	test.Equate(t, r.m.Card.Data(imagePath)[0], 0x42)
	test.ExpectedFailure(t, r.reg.Drive(0).CacheDirty)
	test.ExpectedFailure(t, r.reg.Drive(0).Flushing)

	// the rest of the image survived the round trip
	data := r.m.Card.Data(imagePath)
	test.Equate(t, data[1], 7)
	last := d64Size - 1
	test.Equate(t, data[last], uint8(last*7))
}

func TestAntiThrashHold(t *testing.T) {
	r := newRig(t)
	r.mount(t, 0, imagePath, false)

	// P4: flushing never begins inside the quiet period
	r.m.RaiseWrite(0, 0, []uint8{0x01})
	r.service(t)
	r.service(t)
	test.ExpectedFailure(t, r.reg.Drive(0).Flushing)

	// scenario 3: a second write within the quiet period pushes the flush
	// out to a full quiet period after the second write
	r.m.Advance(quiet * 3 / 4)
	r.m.RaiseWrite(0, 1, []uint8{0x02})
	r.service(t)

	r.m.Advance(quiet * 9 / 10)
	r.service(t)
	test.ExpectedFailure(t, r.reg.Drive(0).Flushing)

	r.m.Advance(quiet / 4)
	r.service(t)
	test.ExpectedSuccess(t, r.reg.Drive(0).Flushing)
}

func TestFlushBoundedIteration(t *testing.T) {
	r := newRig(t)
	r.mount(t, 0, imagePath, false)

	r.m.RaiseWrite(0, 0, []uint8{0x42})
	r.service(t)
	r.m.Advance(quiet)

	// P5: each pass moves the cursor on by exactly IterSize bytes
	r.service(t)
	d := r.reg.Drive(0)
	test.ExpectedSuccess(t, d.Flushing)
	rem := d64Size - drive.IterSize
	test.Equate(t, d.Cursor.RemainingLo, uint16(rem))
	test.Equate(t, d.Cursor.RemainingHi, uint16(rem>>16))

	r.service(t)
	rem -= drive.IterSize
	test.Equate(t, d.Cursor.RemainingLo, uint16(rem))
}

func TestFlushRestartOnWrite(t *testing.T) {
	r := newRig(t)
	r.mount(t, 0, imagePath, false)

	r.m.RaiseWrite(0, 0, []uint8{0x42})
	r.service(t)
	r.m.Advance(quiet)
	r.service(t)
	test.ExpectedSuccess(t, r.reg.Drive(0).Flushing)

	// P3: a write during a flush knocks the drive back to pending within
	// one pass. the cache stays dirty
	r.m.RaiseWrite(0, 7, []uint8{0x43})
	r.service(t)
	test.ExpectedFailure(t, r.reg.Drive(0).Flushing)
	test.ExpectedSuccess(t, r.reg.Drive(0).CacheDirty)

	// and the restarted flush covers both writes
	r.flushOut(t, 0)
	test.Equate(t, r.m.Card.Data(imagePath)[0], 0x42)
	test.Equate(t, r.m.Card.Data(imagePath)[7], 0x43)
}

func TestWriteBackFaithfulness(t *testing.T) {
	r := newRig(t)
	r.mount(t, 0, imagePath, false)

	// P2: non-colliding writes all land; everything else is the pre-mount
	// image. the second write straddles a window boundary
	r.m.RaiseWrite(0, 100, []uint8{1, 2, 3})
	r.service(t)
	r.m.RaiseWrite(0, 4094, []uint8{4, 5, 6, 7})
	r.service(t)

	r.flushOut(t, 0)

	expected := make([]uint8, d64Size)
	for i := range expected {
		expected[i] = uint8(i * 7)
	}
	copy(expected[100:], []uint8{1, 2, 3})
	copy(expected[4094:], []uint8{4, 5, 6, 7})

	data := r.m.Card.Data(imagePath)
	for i := range expected {
		if data[i] != expected[i] {
			t.Fatalf("write-back mismatch at byte %d (%#02x - wanted %#02x)", i, data[i], expected[i])
		}
	}
}

func TestTwoDrivesFlushFairness(t *testing.T) {
	r := newRig(t)
	r.mount(t, 0, imagePath, false)
	r.mount(t, 1, otherPath, false)

	// scenario 6: both drives dirty; every pass advances each by at most
	// IterSize and neither is starved
	r.m.RaiseWrite(0, 0, []uint8{0x11})
	r.m.RaiseWrite(1, 0, []uint8{0x22})
	r.service(t)
	r.m.Advance(quiet)

	r.service(t)
	rem := d64Size - drive.IterSize
	test.Equate(t, r.reg.Drive(0).Cursor.RemainingLo, uint16(rem))
	test.Equate(t, r.reg.Drive(1).Cursor.RemainingLo, uint16(rem))

	r.flushOut(t, 0)
	r.flushOut(t, 1)
	test.Equate(t, r.m.Card.Data(imagePath)[0], 0x11)
	test.Equate(t, r.m.Card.Data(otherPath)[0], 0x22)
}

func TestUnmountDrainsDirtyCache(t *testing.T) {
	r := newRig(t)
	r.mount(t, 0, imagePath, false)

	r.m.RaiseWrite(0, 9, []uint8{0x55})
	r.service(t)

	// no quiet period has passed but unmount must not lose the cache
	err := r.reg.Unmount(r.h, r.sd, 0)
	test.ExpectedSuccess(t, err)
	test.ExpectedSuccess(t, r.reg.CheckInvariants())

	test.Equate(t, r.m.Card.Data(imagePath)[9], 0x55)
	test.ExpectedFailure(t, r.reg.Mounted(0))

	// the unmount pulse carries size zero
	test.Equate(t, len(r.m.MountEvents), 2)
	test.Equate(t, r.m.MountEvents[1].SizeLo, 0)
	test.Equate(t, r.m.MountEvents[1].SizeHi, 0)
}
