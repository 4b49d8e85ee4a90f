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
	"github.com/jetsetilly/coreshell/crt"
	"github.com/jetsetilly/coreshell/curated"
	"github.com/jetsetilly/coreshell/logger"
)

// Run is the firmware's main loop. Each pass services the dispatcher,
// scans the keyboard, lets the help screen update and gives the CRT loader
// its housekeeping step. A pass must complete well inside the emulated
// core's tolerance for request acknowledgement, which is what bounds the
// work every one of those calls is allowed to do.
//
// The continueCheck function is consulted at the end of every pass; Run
// returns cleanly when it returns false. A nil continueCheck loops forever.
//
// A fatal error from any subsystem ends the loop through the halt path:
// the code is written to the cartridge status register, the OSD switches to
// the error overlay, and the error is returned.
func (sh *Shell) Run(continueCheck func() (bool, error)) error {
	if continueCheck == nil {
		continueCheck = func() (bool, error) { return true, nil }
	}

	for {
		if err := sh.Dispatcher.Service(sh.HIF); err != nil {
			return sh.Fatal(err)
		}

		sh.scanKeyboard()

		if sh.osd != nil {
			sh.osd.HelpCheck()
		}

		sh.CRT.Step(sh.HIF)

		sh.publishMountChanges()

		cont, err := continueCheck()
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}

// scanKeyboard polls the key decoder and delivers at most one keypress per
// debounce period.
func (sh *Shell) scanKeyboard() {
	if sh.kbd == nil {
		return
	}

	code, down := sh.kbd.Scan(sh.HIF)
	if !down {
		return
	}

	if sh.debouncing && !sh.debounce.Elapsed(sh.HIF) {
		return
	}

	if sh.osd != nil {
		sh.osd.Key(code)
	}
	sh.debounce = sh.HIF.NewDeadline(DebouncePeriod)
	sh.debouncing = true
}

// publishMountChanges tells the OSD about any drive whose mount state no
// longer matches what the menu last drew. The snapshot is updated as the
// redraw is issued, so snapshot and menu agree after every pass.
func (sh *Shell) publishMountChanges() {
	for n := 0; n < sh.Drives.NumDrives(); n++ {
		d := sh.Drives.Drive(n)
		if d.Mounted != d.MountSnapshot {
			if sh.osd != nil {
				sh.osd.RedrawMount(n, d.Mounted)
			}
			d.MountSnapshot = d.Mounted
		}
	}
}

// Fatal is the single halt path for unrecoverable errors: the code goes to
// the cartridge status register, the OSD switches to the error overlay and
// the error is handed back for main to act on. An error without a fatal
// code passes through untouched.
func (sh *Shell) Fatal(err error) error {
	code, ok := curated.FatalCode(err)
	if !ok {
		return err
	}

	crt.ReportFatal(sh.HIF, code)
	if sh.osd != nil {
		sh.osd.Fatal(code, err.Error())
	}
	logger.Logf("shell", "fatal (code %#04x): %v", code, err)

	return err
}
