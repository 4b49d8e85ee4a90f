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

package shell

import (
	"github.com/jetsetilly/coreshell/config"
	"github.com/jetsetilly/coreshell/crt"
	"github.com/jetsetilly/coreshell/curated"
	"github.com/jetsetilly/coreshell/drive"
	"github.com/jetsetilly/coreshell/hardware/addresses"
	"github.com/jetsetilly/coreshell/hardware/bus"
	"github.com/jetsetilly/coreshell/hardware/hif"
	"github.com/jetsetilly/coreshell/logger"
	"github.com/jetsetilly/coreshell/sdcard"
)

// the nominal core clock. timing constants below are expressed against it
const clockHz = 50000000

// DebouncePeriod is how long after delivering a keypress the shell ignores
// the keyboard. Roughly a third of a second.
const DebouncePeriod uint32 = clockHz / 3

// SDStabilisePeriod is how long the shell waits after restarting the card
// before talking to it.
const SDStabilisePeriod uint32 = clockHz / 20

// the partition the shell mounts
const sdPartition = 1

// OSD is the interface to the on-screen surfaces, all of which live
// outside the shell: the menu, the help screen and the fatal overlay.
type OSD interface {
	// a debounced keypress for the menu to act on
	Key(code uint16)

	// called once per loop pass so the help screen can show or hide itself
	HelpCheck()

	// the mount state of a drive changed; the menu entry needs redrawing
	RedrawMount(drive int, mounted bool)

	// switch to the full-screen error overlay. the shell halts after this
	// returns
	Fatal(code uint16, message string)
}

// Keyboard is the interface to the key decoder, which lives outside the
// shell. Scan returns a key code and true if a key is down.
type Keyboard interface {
	Scan(h *hif.HIF) (uint16, bool)
}

// Shell is the context owned by main. Every component operation works on
// state reachable from here; there is no other global state.
type Shell struct {
	HIF        *hif.HIF
	SD         *sdcard.Client
	Drives     *drive.Registry
	Dispatcher *drive.Dispatcher
	CRT        *crt.Loader
	Settings   *config.Settings

	osd OSD
	kbd Keyboard

	debounce   hif.Deadline
	debouncing bool
}

// NewShell is the preferred method of initialisation for the Shell type.
// The card is mounted and the settings file loaded before this returns; a
// failed card mount is returned as a recoverable error for the caller to
// retry.
//
// The osd and kbd arguments may be nil, in which case keypresses go
// nowhere and mount changes are tracked but not displayed.
func NewShell(b bus.Register, drv sdcard.Driver, numDrives int, numSettings int, osd OSD, kbd Keyboard) (*Shell, error) {
	h := hif.NewHIF(b)
	sd := sdcard.NewClient(drv)

	if err := sd.Mount(sdPartition); err != nil {
		return nil, err
	}

	settings := config.NewSettings(sd, config.DefaultSettingsFile, numSettings)
	if err := settings.Load(); err != nil {
		if curated.IsFatal(err) {
			return nil, err
		}
		// a missing settings file just means defaults
		logger.Logf("shell", "%v", err)
	}

	reg := drive.NewRegistry(numDrives)

	sh := &Shell{
		HIF:        h,
		SD:         sd,
		Drives:     reg,
		Dispatcher: drive.NewDispatcher(h, reg, sd, settings),
		CRT:        crt.NewLoader(),
		Settings:   settings,
		osd:        osd,
		kbd:        kbd,
	}

	logger.Logf("shell", "up: %d drives, %d settings", numDrives, numSettings)

	return sh, nil
}

// MountDrive mounts an image into a drive. If the card has been swapped
// since the last mount it is restarted, and given time to stabilise, before
// the image is opened.
func (sh *Shell) MountDrive(n int, path string, typ drive.ImageType, ro bool) error {
	if sh.Dispatcher.SDChanged() {
		if err := sh.SD.Remount(); err != nil {
			return err
		}
		sh.HIF.WaitFor(SDStabilisePeriod)
		sh.Dispatcher.ClearSDChanged()
	}
	return sh.Drives.Mount(sh.HIF, sh.SD, n, path, typ, ro)
}

// UnmountDrive unmounts a drive, draining any dirty cache back to the card
// first. The returned error can be fatal; the caller hands it to Fatal().
func (sh *Shell) UnmountDrive(n int) error {
	return sh.Drives.Unmount(sh.HIF, sh.SD, n)
}

// ToggleMount is the menu's mount/unmount entry point, keyed by menu group
// rather than drive number.
func (sh *Shell) ToggleMount(group int, path string, typ drive.ImageType, ro bool) error {
	n := sh.Drives.DriveForGroup(group)
	if n == -1 {
		return curated.Errorf(drive.UnknownDrive, n)
	}
	if sh.Drives.Mounted(n) {
		return sh.UnmountDrive(n)
	}
	return sh.MountDrive(n, path, typ, ro)
}

// StartCartridge begins the CRT parse. The container must already have
// been streamed into DRAM at the given word address.
func (sh *Shell) StartCartridge(fileBase uint32, length uint32) {
	sh.CRT.Start(sh.HIF, fileBase, length)
}

// ResetCore pulses the core reset bit and returns the CRT loader to idle.
func (sh *Shell) ResetCore() {
	sh.HIF.SetCSRBits(addresses.CSRResetCore)
	sh.HIF.ClearCSRBits(addresses.CSRResetCore)
	sh.CRT.Reset(sh.HIF)
	logger.Log("shell", "core reset")
}
