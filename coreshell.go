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

// CoreShell is the firmware that runs inside the soft-processor sitting
// alongside an FPGA-emulated retro computer. It mounts disk images from SD
// card into the image buffers the emulated core reads, services the core's
// read/write requests against those buffers, flushes dirty caches back to
// the card, and parses CRT cartridge containers out of external DRAM.
//
// This program runs the firmware against the reference machine model in the
// machine package. On real hardware the same packages are driven through a
// bus.Register implementation backed by the actual register file.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/bradleyjkemp/memviz"

	"github.com/jetsetilly/coreshell/config"
	"github.com/jetsetilly/coreshell/drive"
	"github.com/jetsetilly/coreshell/logger"
	"github.com/jetsetilly/coreshell/machine"
	"github.com/jetsetilly/coreshell/shell"
	"github.com/jetsetilly/coreshell/statsview"
)

const numDrives = 2
const numSettings = 16

// a blank 35-track D64 and an unprogrammed settings file, so a freshly
// started shell has something to mount
func seedCard(card *machine.Card) {
	card.AddFile("/demo.d64", make([]uint8, 174848))

	settings := make([]uint8, numSettings)
	settings[0] = 0xff
	card.AddFile(config.DefaultSettingsFile, settings)
}

func newShell() (*shell.Shell, error) {
	m := machine.NewMachine(numDrives)
	seedCard(m.Card)
	return shell.NewShell(m, m.Card, numDrives, numSettings, nil, nil)
}

func run(output io.Writer, passes int) error {
	sh, err := newShell()
	if err != nil {
		return err
	}

	if statsview.Available() {
		statsview.Launch(output)
	}

	if err := sh.MountDrive(0, "/demo.d64", drive.ImageD64, false); err != nil {
		return err
	}

	remaining := passes
	err = sh.Run(func() (bool, error) {
		remaining--
		return remaining > 0, nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "%d passes completed\n", passes)
	return nil
}

// dump renders the shell context as a graphviz dot graph. Useful when
// chasing a broken invariant: the entire firmware state is reachable from
// the one Shell value, so the graph is the whole story.
func dump(output io.Writer) error {
	sh, err := newShell()
	if err != nil {
		return err
	}
	memviz.Map(output, sh)
	return nil
}

func main() {
	mode := flag.String("mode", "run", "run or dump")
	passes := flag.Int("passes", 100000, "main loop passes before exiting (run mode)")
	echoLog := flag.Bool("log", false, "echo the shell log to stderr")
	flag.Parse()

	if *echoLog {
		logger.SetEcho(os.Stderr)
	}

	var err error
	switch *mode {
	case "run":
		err = run(os.Stdout, *passes)
	case "dump":
		err = dump(os.Stdout)
	default:
		err = fmt.Errorf("unknown mode (%s)", *mode)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "* %v\n", err)
		os.Exit(10)
	}
}
