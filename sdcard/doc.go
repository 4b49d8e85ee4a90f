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

// Package sdcard wraps the platform's FAT32 driver. The driver itself is an
// external collaborator reached through the Driver interface; this package
// adds mount-state tracking and curated errors and nothing else. In
// particular no retrying happens here - every error surfaces to the caller,
// which decides whether a retry makes sense (it only ever does at SD mount
// and at image load).
//
// The reference driver, backed by plain byte slices, lives in the machine
// package.
package sdcard
