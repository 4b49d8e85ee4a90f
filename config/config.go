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

package config

import (
	"github.com/jetsetilly/coreshell/curated"
	"github.com/jetsetilly/coreshell/logger"
	"github.com/jetsetilly/coreshell/sdcard"
)

// Error patterns for the config package.
const (
	NoSettingsFile = "config: no settings file: %v"
	Corrupt        = "config: settings file is corrupt"
)

// CorruptFatalCode is written to the cartridge status register when the
// settings file holds anything other than the expected bit bytes.
const CorruptFatalCode uint16 = 0xef02

// DefaultSettingsFile is the fixed pathname of the settings file on the
// mounted card.
const DefaultSettingsFile = "/coreshell.cfg"

// a first byte of unprogrammed means the file has never been saved to
const unprogrammed = 0xff

// Settings is the in-memory copy of the menu's option bits and the
// machinery to keep the on-card file in step with them.
type Settings struct {
	sd   *sdcard.Client
	path string
	bits []bool

	enabled bool

	// the file was found unprogrammed; defaults are in force until the
	// first save writes them out
	rewrite bool
}

// NewSettings is the preferred method of initialisation for the Settings
// type. All bits default to false until Load() is called.
func NewSettings(sd *sdcard.Client, path string, numItems int) *Settings {
	return &Settings{
		sd:      sd,
		path:    path,
		bits:    make([]bool, numItems),
		enabled: true,
	}
}

// NumItems returns the number of menu bits held by the settings.
func (s *Settings) NumItems() int {
	return len(s.bits)
}

// Bit returns the value of one menu bit.
func (s *Settings) Bit(item int) bool {
	return s.bits[item]
}

// SetBit changes one menu bit. The change is not persisted until Save() is
// called.
func (s *Settings) SetBit(item int, value bool) {
	s.bits[item] = value
}

// Enabled returns true while persistence is still permitted.
func (s *Settings) Enabled() bool {
	return s.enabled
}

// Disable persistence for the rest of the session. Implements the
// drive.Persistence interface; called by the dispatcher when the active SD
// slot no longer matches the boot slot. There is no way to re-enable.
func (s *Settings) Disable() {
	if s.enabled {
		s.enabled = false
		logger.Log("config", "persistence disabled")
	}
}

// Load the settings file. A missing file is a recoverable error - the
// defaults stand. A file of the wrong size or holding anything other than
// bit bytes is fatal: guessing at settings is worse than stopping.
func (s *Settings) Load() error {
	handle, err := s.sd.Open(s.path)
	if err != nil {
		return curated.Errorf(NoSettingsFile, err)
	}

	if sdcard.Size(handle) != uint32(len(s.bits)) {
		return curated.Fatalf(CorruptFatalCode, Corrupt)
	}

	if err := s.sd.Seek(handle, 0, 0); err != nil {
		return curated.Errorf(NoSettingsFile, err)
	}

	for i := 0; i < len(s.bits); i++ {
		b, err := s.sd.ReadByte(handle)
		if err != nil {
			return curated.Errorf(NoSettingsFile, err)
		}

		if i == 0 && b == unprogrammed {
			s.rewrite = true
			logger.Log("config", "settings file unprogrammed: using defaults")
			return nil
		}

		switch b {
		case 0:
			s.bits[i] = false
		case 1:
			s.bits[i] = true
		default:
			return curated.Fatalf(CorruptFatalCode, Corrupt)
		}
	}

	logger.Logf("config", "loaded %d settings", len(s.bits))

	return nil
}

// Save the settings file. Bits are written lowest item first. Saving while
// persistence is disabled quietly does nothing.
func (s *Settings) Save() error {
	if !s.enabled {
		return nil
	}

	handle, err := s.sd.Open(s.path)
	if err != nil {
		return curated.Errorf(NoSettingsFile, err)
	}

	if err := s.sd.Seek(handle, 0, 0); err != nil {
		return curated.Errorf(NoSettingsFile, err)
	}

	for i := 0; i < len(s.bits); i++ {
		var b uint8
		if s.bits[i] {
			b = 1
		}
		if err := s.sd.WriteByte(handle, b); err != nil {
			return curated.Errorf(NoSettingsFile, err)
		}
	}

	if err := s.sd.Flush(handle); err != nil {
		return curated.Errorf(NoSettingsFile, err)
	}

	if s.rewrite {
		logger.Log("config", "settings file programmed")
		s.rewrite = false
	}

	logger.Logf("config", "saved %d settings", len(s.bits))

	return nil
}
