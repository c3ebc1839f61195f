/*
 * discdiag - REPL completion and script-runner test cases.
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
package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/samiam95124/diskdiagnostic/internal/interp"
)

// stripReports removes the automatic "Time: ... IOW: ... IO: ... BW: ...
// BR: ... BT: ..." line RunLine appends after every top-level command, so
// assertions here don't need to hardcode elapsed time or byte counts.
func stripReports(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(l, "Time: ") {
			continue
		}
		kept = append(kept, l)
	}
	return strings.Join(kept, "\n")
}

// nullDevice is a no-op device.BlockDevice: RunScript/completeLine never
// touch the drive, so every method just needs to satisfy the interface.
type nullDevice struct{}

func (nullDevice) Init() error                      { return nil }
func (nullDevice) Deinit()                          {}
func (nullDevice) SetDrive(n int) error              { return nil }
func (nullDevice) GetDrive() (int, bool)             { return 0, false }
func (nullDevice) TestDrive(n int) error             { return nil }
func (nullDevice) CloseDrive()                       {}
func (nullDevice) DriveName(n int) (string, bool)    { return "null", true }
func (nullDevice) SizeOf(n int) (int64, error)       { return 0, nil }
func (nullDevice) SizeCurrent() (int64, error)       { return 0, nil }
func (nullDevice) ReadSectors(buf []byte, lba, count int64) error  { return nil }
func (nullDevice) WriteSectors(buf []byte, lba, count int64) error { return nil }

func newTestEngine() (*interp.Engine, *bytes.Buffer) {
	var out bytes.Buffer
	return interp.New(nullDevice{}, &out), &out
}

func TestCompleteLineMatchesVerbPrefix(t *testing.T) {
	e, _ := newTestEngine()
	got := completeLine(e, "sran")
	want := []string{"srand "}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("completeLine(%q) = %v, want %v", "sran", got, want)
	}
}

func TestCompleteLineEmptyPrefixReturnsNil(t *testing.T) {
	e, _ := newTestEngine()
	if got := completeLine(e, ""); got != nil {
		t.Errorf("completeLine(\"\") = %v, want nil", got)
	}
}

func TestCompleteLinePreservesHeadAndAddsTrailingSpace(t *testing.T) {
	e, _ := newTestEngine()
	got := completeLine(e, "s x 0; ech")
	want := "s x 0; echo "
	found := false
	for _, c := range got {
		if c == want {
			found = true
		}
	}
	if !found {
		t.Errorf("completeLine(%q) = %v, want it to contain %q", "s x 0; ech", got, want)
	}
}

func TestCompleteLineMatchesProgramLabel(t *testing.T) {
	e, _ := newTestEngine()
	if _, err := e.RunLine("10 addtwo(a b): s r a+b; end"); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	got := completeLine(e, "addt")
	if len(got) != 1 || got[0] != "addtwo " {
		t.Errorf("completeLine(%q) = %v, want %v", "addt", got, []string{"addtwo "})
	}
}

func TestRunScriptExecutesEachLine(t *testing.T) {
	e, out := newTestEngine()
	RunScript(e, []string{"s x 5", "pn x", "", "  ", "pn x+1"})
	if got := stripReports(out.String()); got != "5\n6\n" {
		t.Errorf("RunScript output = %q, want %q", got, "5\n6\n")
	}
}

func TestRunScriptStopsAtExit(t *testing.T) {
	e, out := newTestEngine()
	done := RunScript(e, []string{"pn 1", "exit", "pn 2"})
	if got := stripReports(out.String()); got != "1\n" {
		t.Errorf("RunScript output = %q, want %q (stop at exit, never reach the third line)", got, "1\n")
	}
	if done {
		t.Errorf("RunScript() = true, want false (exitonerror was never set)")
	}
}

func TestRunScriptReturnsTrueOnEscalatedError(t *testing.T) {
	e, _ := newTestEngine()
	done := RunScript(e, []string{"exitonerror 1", "bogus"})
	if !done {
		t.Errorf("RunScript() = false, want true once an error escalates to exit under exitonerror")
	}
}
