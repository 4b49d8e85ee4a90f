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

// Package hardware is the umbrella for the packages that describe the
// memory-mapped surface between the shell and the machine it runs inside:
// the register addresses, the bus interface and the I/O facade built on top
// of them.
//
// Nothing in here is an emulation of the machine. The shell only ever sees
// the machine through the bus.Register interface; the reference model of the
// machine lives in the machine package.
package hardware
