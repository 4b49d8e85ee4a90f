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

// Package logger is the central log for the shell. Components log through the
// package level Log() function with a stable tag ("drive", "flush", "crt",
// etc.) and a detail string.
//
// The log is bounded and repeated entries are compressed, so it is safe to
// log from inside the main loop. Nothing is printed unless an echo writer has
// been attached with SetEcho().
package logger
