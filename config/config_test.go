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

package config_test

import (
	"testing"

	"github.com/jetsetilly/coreshell/config"
	"github.com/jetsetilly/coreshell/curated"
	"github.com/jetsetilly/coreshell/machine"
	"github.com/jetsetilly/coreshell/sdcard"
	"github.com/jetsetilly/coreshell/test"
)

const settingsPath = "/settings.cfg"

func newSettings(t *testing.T, fileContent []uint8, numItems int) (*machine.Card, *config.Settings) {
	t.Helper()

	card := machine.NewCard()
	if fileContent != nil {
		card.AddFile(settingsPath, fileContent)
	}

	sd := sdcard.NewClient(card)
	if err := sd.Mount(1); err != nil {
		t.Fatalf("mount card: %v", err)
	}

	return card, config.NewSettings(sd, settingsPath, numItems)
}

func TestLoadMissingFile(t *testing.T) {
	_, s := newSettings(t, nil, 4)

	// a missing file is recoverable: defaults stand
	err := s.Load()
	test.ExpectedFailure(t, err)
	test.ExpectedFailure(t, curated.IsFatal(err))
	test.ExpectedFailure(t, s.Bit(0))
}

func TestLoadUnprogrammed(t *testing.T) {
	_, s := newSettings(t, []uint8{0xff, 0x07, 0x07, 0x07}, 4)

	// a first byte of 0xff means the file has never been written: the rest
	// of the content is ignored and defaults apply
	test.ExpectedSuccess(t, s.Load())
	for i := 0; i < 4; i++ {
		test.ExpectedFailure(t, s.Bit(i))
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	card, s := newSettings(t, []uint8{1, 0, 1, 0}, 4)

	test.ExpectedSuccess(t, s.Load())
	test.ExpectedSuccess(t, s.Bit(0))
	test.ExpectedFailure(t, s.Bit(1))
	test.ExpectedSuccess(t, s.Bit(2))
	test.ExpectedFailure(t, s.Bit(3))

	// one byte per item, lowest item first
	s.SetBit(1, true)
	s.SetBit(2, false)
	test.ExpectedSuccess(t, s.Save())

	data := card.Data(settingsPath)
	test.Equate(t, data[0], 1)
	test.Equate(t, data[1], 1)
	test.Equate(t, data[2], 0)
	test.Equate(t, data[3], 0)
}

func TestLoadCorrupt(t *testing.T) {
	_, s := newSettings(t, []uint8{1, 0, 7, 0}, 4)

	err := s.Load()
	test.ExpectedSuccess(t, curated.IsFatal(err))
	code, ok := curated.FatalCode(err)
	test.ExpectedSuccess(t, ok)
	test.Equate(t, code, config.CorruptFatalCode)
}

func TestLoadWrongSize(t *testing.T) {
	_, s := newSettings(t, []uint8{1, 0}, 4)

	err := s.Load()
	test.ExpectedSuccess(t, curated.IsFatal(err))
}

func TestDisable(t *testing.T) {
	card, s := newSettings(t, []uint8{0, 0, 0, 0}, 4)
	test.ExpectedSuccess(t, s.Load())

	s.Disable()
	test.ExpectedFailure(t, s.Enabled())

	// a save while disabled is a quiet no-op
	s.SetBit(0, true)
	test.ExpectedSuccess(t, s.Save())
	test.Equate(t, card.Data(settingsPath)[0], 0)
}
