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

// Package shell ties the subsystems together. The Shell type owns the
// hardware facade, the SD client, the drive registry and dispatcher, the
// CRT loader and the settings, and Run() is the firmware's cooperative main
// loop: service drive requests, scan the keyboard, give the overlay its
// help check, let the CRT loader do its housekeeping, repeat. There is one
// control flow and no pre-emption; every subsystem returns to the loop
// promptly and invariants hold at loop boundaries.
//
// Menu rendering, the file browser and the error overlay are not part of
// the shell. They are reached through the OSD and Keyboard interfaces.
package shell
