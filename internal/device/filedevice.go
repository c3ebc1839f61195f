/*
 * discdiag - File-backed Block Device Interface implementation.
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

package device

import (
	"fmt"
	"os"
)

// FileDevice backs the Block Device Interface with a regular file or
// block special file per logical drive number. Drive-name mapping is
// implementation-defined (spec §6); FileDevice uses "driveN.img" in the
// current directory, overridable per-drive with a DISCDIAG_DRIVE<n>
// environment variable pointing at a real block device for on-hardware
// testing.
type FileDevice struct {
	file       *os.File
	current    int
	hasCurrent bool
}

// NewFileDevice returns a FileDevice with no drive open.
func NewFileDevice() *FileDevice {
	return &FileDevice{}
}

func (d *FileDevice) Init() error { return nil }

func (d *FileDevice) Deinit() { d.CloseDrive() }

// DriveName implements the interface's drive_name(n); it never fails
// for any n in range, since the mapping is purely textual.
func (d *FileDevice) DriveName(n int) (string, bool) {
	if !ValidDrive(n) {
		return "", false
	}
	if p := os.Getenv(fmt.Sprintf("DISCDIAG_DRIVE%d", n)); p != "" {
		return p, true
	}
	return fmt.Sprintf("drive%d.img", n), true
}

func (d *FileDevice) SetDrive(n int) error {
	if !ValidDrive(n) {
		return fmt.Errorf("invalid drive: %d", n)
	}
	name, _ := d.DriveName(n)
	f, err := os.OpenFile(name, os.O_RDWR, 0o666)
	if err != nil {
		return err
	}
	d.CloseDrive()
	d.file = f
	d.current = n
	d.hasCurrent = true
	return nil
}

func (d *FileDevice) GetDrive() (int, bool) {
	return d.current, d.hasCurrent
}

func (d *FileDevice) TestDrive(n int) error {
	if !ValidDrive(n) {
		return fmt.Errorf("invalid drive: %d", n)
	}
	name, _ := d.DriveName(n)
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	return f.Close()
}

func (d *FileDevice) ReadSectors(buf []byte, lba, count int64) error {
	if !d.hasCurrent || d.file == nil {
		return ErrNoDrive
	}
	need := count * SectorSize
	if int64(len(buf)) < need {
		return fmt.Errorf("buffer too small for %d sectors", count)
	}
	n, err := d.file.ReadAt(buf[:need], lba*SectorSize)
	if err != nil {
		return err
	}
	if int64(n) != need {
		return fmt.Errorf("short read: got %d of %d bytes", n, need)
	}
	return nil
}

func (d *FileDevice) WriteSectors(buf []byte, lba, count int64) error {
	if !d.hasCurrent || d.file == nil {
		return ErrNoDrive
	}
	need := count * SectorSize
	if int64(len(buf)) < need {
		return fmt.Errorf("buffer too small for %d sectors", count)
	}
	n, err := d.file.WriteAt(buf[:need], lba*SectorSize)
	if err != nil {
		return err
	}
	if int64(n) != need {
		return fmt.Errorf("short write: wrote %d of %d bytes", n, need)
	}
	return nil
}

func (d *FileDevice) SizeCurrent() (int64, error) {
	if !d.hasCurrent || d.file == nil {
		return 0, ErrNoDrive
	}
	fi, err := d.file.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (d *FileDevice) SizeOf(n int) (int64, error) {
	name, ok := d.DriveName(n)
	if !ok {
		return 0, fmt.Errorf("invalid drive: %d", n)
	}
	fi, err := os.Stat(name)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (d *FileDevice) CloseDrive() {
	if d.file != nil {
		_ = d.file.Close()
		d.file = nil
	}
	d.hasCurrent = false
}
