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
	"errors"
	"testing"

	"github.com/jetsetilly/coreshell/curated"
	"github.com/jetsetilly/coreshell/drive"
	"github.com/jetsetilly/coreshell/test"
)

type persistStub struct {
	disabled bool
}

func (p *persistStub) Disable() {
	p.disabled = true
}

func TestHotSwapDetection(t *testing.T) {
	r := newRig(t)
	persist := &persistStub{}
	r.dsp = drive.NewDispatcher(r.h, r.reg, r.sd, persist)

	r.service(t)
	test.ExpectedFailure(t, r.dsp.SDChanged())
	test.ExpectedFailure(t, persist.disabled)

	// a card swap inhibits mounts and, because the slot no longer matches
	// the boot slot, disables settings persistence
	r.m.SetSlot(1)
	r.service(t)
	test.ExpectedSuccess(t, r.dsp.SDChanged())
	test.ExpectedSuccess(t, persist.disabled)

	// the flag holds until a mount retry restarts the card
	r.service(t)
	test.ExpectedSuccess(t, r.dsp.SDChanged())
	r.dsp.ClearSDChanged()
	test.ExpectedFailure(t, r.dsp.SDChanged())

	// swapping back re-raises the changed flag. persistence stays off for
	// good
	r.m.SetSlot(0)
	r.service(t)
	test.ExpectedSuccess(t, r.dsp.SDChanged())
}

func TestFlushErrorIsFatal(t *testing.T) {
	r := newRig(t)
	r.mount(t, 0, imagePath, false)

	r.m.RaiseWrite(0, 0, []uint8{0x42})
	r.service(t)
	r.m.Advance(quiet)

	// a write failure during the flush must not be absorbed: the cache is
	// authoritative and the user has to know the card copy is stale
	r.m.Card.WriteErr = errors.New("write failure")
	err := r.dsp.Service(r.h)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.IsFatal(err))

	code, ok := curated.FatalCode(err)
	test.ExpectedSuccess(t, ok)
	test.Equate(t, code, drive.FlushFatalCode)

	// the cache still claims the data
	test.ExpectedSuccess(t, r.reg.Drive(0).CacheDirty)
}

func TestMenuGroups(t *testing.T) {
	r := newRig(t)

	_, ok := r.reg.MenuGroupOf(0)
	test.ExpectedFailure(t, ok)
	test.Equate(t, r.reg.DriveForGroup(5), -1)

	r.reg.SetMenuGroup(0, 5)
	r.reg.SetMenuGroup(1, 9)

	group, ok := r.reg.MenuGroupOf(0)
	test.ExpectedSuccess(t, ok)
	test.Equate(t, group, 5)
	test.Equate(t, r.reg.DriveForGroup(9), 1)
}
