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

// Package curated provides the error type used throughout the shell. Errors
// are created with a pattern string and a list of values; the pattern doubles
// as the error's identity, meaning callers can test for a specific error with
// Is() and Has() without string matching on the formatted message.
//
// Packages declare their error identities as string constants. For example:
//
//	const NotMounted = "sdcard: not mounted"
//
//	return curated.Errorf(NotMounted)
//
// A caller that cares can then say:
//
//	if curated.Is(err, sdcard.NotMounted) {
//	    ...
//	}
//
// Fatal errors are a special case. The shell distinguishes errors that the
// dispatcher can recover from (a failed mount attempt, say) from errors that
// must halt the machine (a failed cache flush). The latter are created with
// Fatalf() and carry a numeric code that the main loop writes to the
// cartridge status register before halting.
package curated
