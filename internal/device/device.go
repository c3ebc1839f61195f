/*
 * discdiag - Block device interface (spec §6) the engine consumes.
 *
 * Copyright 2026, discdiag contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package device defines the Block Device Interface boundary of spec
// §6 — the abstraction that keeps the core engine free of any
// OS-specific open/read/write/size code — plus FileDevice, a concrete
// implementation backing it with a regular file or block special file,
// matching the teacher's small-interface-per-concrete-device shape
// (command/command/command.go's Command interface).
package device

import "errors"

// SectorSize is the fixed, indivisible unit the interface reads/writes.
const SectorSize = 512

// MaxDrive is the highest valid logical drive number (spec §6: drives
// are identified by a small integer in [0..9]).
const MaxDrive = 9

// ErrNoDrive reports an operation attempted with no current drive.
var ErrNoDrive = errors.New("no drive set")

// BlockDevice is the external interface the core consumes. Any
// conforming implementation (real device, file-backed simulator,
// in-memory array) may be plugged in; the engine never type-asserts
// down to a concrete backend.
type BlockDevice interface {
	Init() error
	Deinit()

	SetDrive(n int) error
	GetDrive() (n int, ok bool)
	TestDrive(n int) error

	ReadSectors(buf []byte, lba, count int64) error
	WriteSectors(buf []byte, lba, count int64) error

	SizeCurrent() (bytes int64, err error)
	SizeOf(n int) (bytes int64, err error)

	CloseDrive()
	DriveName(n int) (name string, ok bool)
}

// ValidDrive reports whether n is in the accepted drive range.
//
// spec §9 flags the source's drive-range check ("drive >= 0 || drive <=
// 9") as a likely logical-always-true bug and directs implementations
// to accept only 0..9.
func ValidDrive(n int) bool {
	return n >= 0 && n <= MaxDrive
}
