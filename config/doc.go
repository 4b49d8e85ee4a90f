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

// Package config persists the menu's option bits in a small file on the SD
// card. The file is one byte per menu item, each byte 0 or 1, written
// lowest item first. A first byte of 0xff marks a file that has never been
// programmed: defaults apply and the file is rewritten in full on the first
// save.
//
// Persistence is one-way disabled for the rest of the session if the active
// SD slot ever differs from the slot the shell booted from - writing
// settings to a card they did not come from would corrupt that card's own
// settings.
package config
