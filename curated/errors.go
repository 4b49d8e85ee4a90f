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

package curated

import (
	"fmt"
	"strings"
)

// curated is an implementation of the go language error interface.
type curated struct {
	pattern string
	values  []interface{}

	// fatal errors additionally carry a code for the cartridge status
	// register. see Fatalf()
	fatal bool
	code  uint16
}

// Errorf creates a new curated error.
//
// The first argument is named "pattern" rather than "format" because the
// string is also the error's identity, as used by the Is() and Has()
// functions.
func Errorf(pattern string, values ...interface{}) error {
	// formatting is deferred until the Error() function. only the arguments
	// are stored here
	return curated{
		pattern: pattern,
		values:  values,
	}
}

// Fatalf creates a curated error that the shell's main loop will treat as
// unrecoverable. The code is the value written to the cartridge status
// register by the halt routine.
func Fatalf(code uint16, pattern string, values ...interface{}) error {
	return curated{
		pattern: pattern,
		values:  values,
		fatal:   true,
		code:    code,
	}
}

// Error returns the normalised error message. Normalisation being the removal
// of duplicate adjacent message parts along the error chain. Letter-case and
// white space are not affected.
//
// Implements the go language error interface.
func (er curated) Error() string {
	s := fmt.Errorf(er.pattern, er.values...).Error()

	// de-duplicate message parts along the entire chain
	p := strings.Split(s, ": ")
	t := make([]string, 0, len(p))
	for i := range p {
		if len(t) == 0 || t[len(t)-1] != p[i] {
			t = append(t, p[i])
		}
	}

	return strings.Join(t, ": ")
}

// Unwrap returns the first curated error in the list of stored values, or nil
// if there is none.
func (er curated) Unwrap() error {
	for i := range er.values {
		if e, ok := er.values[i].(curated); ok {
			return e
		}
	}
	return nil
}

// IsAny checks if the error is a curated error.
func IsAny(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(curated); ok {
		return true
	}

	return false
}

// Is checks if the error is a curated error with the specified pattern.
func Is(err error, pattern string) bool {
	if err == nil {
		return false
	}

	if er, ok := err.(curated); ok {
		return er.pattern == pattern
	}

	return false
}

// Has checks if the error is a curated error with the specified pattern
// anywhere in the chain.
func Has(err error, pattern string) bool {
	if !IsAny(err) {
		return false
	}

	if Is(err, pattern) {
		return true
	}

	for i := range err.(curated).values {
		if e, ok := err.(curated).values[i].(curated); ok {
			if Has(e, pattern) {
				return true
			}
		}
	}

	return false
}

// IsFatal checks if the error, or any curated error in its chain, was created
// with Fatalf().
func IsFatal(err error) bool {
	if !IsAny(err) {
		return false
	}

	er := err.(curated)
	if er.fatal {
		return true
	}

	for i := range er.values {
		if e, ok := er.values[i].(curated); ok {
			if IsFatal(e) {
				return true
			}
		}
	}

	return false
}

// FatalCode returns the code of the first fatal error in the chain. The
// second return value is false if there is no fatal error in the chain.
func FatalCode(err error) (uint16, bool) {
	if !IsAny(err) {
		return 0, false
	}

	er := err.(curated)
	if er.fatal {
		return er.code, true
	}

	for i := range er.values {
		if e, ok := er.values[i].(curated); ok {
			if code, ok := FatalCode(e); ok {
				return code, true
			}
		}
	}

	return 0, false
}
