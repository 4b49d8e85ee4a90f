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

// Package statsview optionally launches a web server that can be used to
// monitor the performance of the shell's main loop while it runs against the
// reference machine. It is only available when built with the "statsview"
// build tag:
//
//	go build -tags statsview
//
// Without the tag the package compiles to a stub and adds nothing to the
// binary.
package statsview
