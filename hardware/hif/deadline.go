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

package hif

// Deadline is a point on the 32-bit cycle counter. The counter wraps roughly
// every 86 seconds at 50MHz so elapsed-ness is decided by wrapping
// comparison, never by signed subtraction.
type Deadline struct {
	target uint32
}

// NewDeadline returns a Deadline that elapses after the given number of
// cycles from now.
func (h *HIF) NewDeadline(cycles uint32) Deadline {
	return Deadline{target: h.Cycles() + cycles}
}

// Elapsed returns true once the cycle counter has passed the deadline. The
// result is only meaningful within half a counter wrap of the deadline being
// set, which is ample for the coarse waits the shell performs.
func (d Deadline) Elapsed(h *HIF) bool {
	return h.Cycles()-d.target < 0x80000000
}

// WaitFor busy-waits for the given number of cycles. The only blocking
// mechanism in the shell; used for the keypress debounce and the SD
// stabilisation wait.
func (h *HIF) WaitFor(cycles uint32) {
	d := h.NewDeadline(cycles)
	for !d.Elapsed(h) {
	}
}
