/*
 * discdiag - Engine/dispatcher end-to-end test cases.
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
package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/samiam95124/diskdiagnostic/internal/diag"
)

// memDevice is an in-memory device.BlockDevice, standing in for a real
// drive so read/write/pattern verb tests don't touch the filesystem.
type memDevice struct {
	data    []byte
	current int
	has     bool
}

func newMemDevice(sectors int64) *memDevice {
	return &memDevice{data: make([]byte, sectors*SectorSize)}
}

func (d *memDevice) Init() error  { return nil }
func (d *memDevice) Deinit()      {}
func (d *memDevice) SetDrive(n int) error {
	d.current, d.has = n, true
	return nil
}
func (d *memDevice) GetDrive() (int, bool)  { return d.current, d.has }
func (d *memDevice) TestDrive(n int) error  { return nil }
func (d *memDevice) CloseDrive()            { d.has = false }
func (d *memDevice) DriveName(n int) (string, bool) { return "mem", true }
func (d *memDevice) SizeOf(n int) (int64, error)    { return int64(len(d.data)), nil }
func (d *memDevice) SizeCurrent() (int64, error)    { return int64(len(d.data)), nil }

func (d *memDevice) ReadSectors(buf []byte, lba, count int64) error {
	copy(buf, d.data[lba*SectorSize:(lba+count)*SectorSize])
	return nil
}
func (d *memDevice) WriteSectors(buf []byte, lba, count int64) error {
	copy(d.data[lba*SectorSize:(lba+count)*SectorSize], buf[:count*SectorSize])
	return nil
}

// newTestEngine returns an Engine over a 16-sector in-memory drive,
// already selected and write-unprotected, ready for scripted verbs.
func newTestEngine(t *testing.T) (*Engine, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	dev := newMemDevice(16)
	e := New(dev, &out)
	if _, err := e.RunLine("drive 0"); err != nil {
		t.Fatalf("drive 0: %v", err)
	}
	if _, err := e.RunLine("unprot"); err != nil {
		t.Fatalf("unprot: %v", err)
	}
	out.Reset()
	return e, &out
}

// stripReports removes the automatic "Time: ... IOW: ... IO: ... BW: ...
// BR: ... BT: ..." line RunLine appends after every top-level command,
// leaving whatever the command itself printed so output assertions don't
// need to hardcode elapsed time or byte counts.
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

// runLines feeds text through RunLine one line at a time, the same way
// RunScript does, failing the test on the first unexpected error.
func runLines(t *testing.T, e *Engine, lines ...string) diag.Outcome {
	t.Helper()
	var outcome diag.Outcome
	var err error
	for _, line := range lines {
		outcome, err = e.RunLine(line)
		if err != nil && outcome != diag.ErrorOutcome {
			t.Fatalf("RunLine(%q): unexpected outcome %v with error %v", line, outcome, err)
		}
	}
	return outcome
}

func TestFormatDirectiveHexWidth(t *testing.T) {
	e, out := newTestEngine(t)
	if _, err := e.RunLine(`s x 0x10; p "%4.4x" x`); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	// "p" prints no trailing newline of its own, but RunLine forces the
	// automatic per-command report onto its own line regardless.
	if got := stripReports(out.String()); got != "0010\n" {
		t.Errorf("output = %q, want %q", got, "0010\n")
	}
}

func TestPatternWriteThenCompareIsIdempotent(t *testing.T) {
	e, out := newTestEngine(t)
	outcome, err := e.RunLine("pt cnt; c cnt 0 1")
	if err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	if outcome != diag.Ok {
		t.Errorf("outcome = %v, want diag.Ok", outcome)
	}
	if got := stripReports(out.String()); got != "" {
		t.Errorf("compare against its own pattern should report nothing, got %q", got)
	}
}

func TestForLoopPrintsRangeAndLeavesVarPastEnd(t *testing.T) {
	e, out := newTestEngine(t)
	if _, err := e.RunLine(`for i 1 3; pn i; fend`); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	if got := stripReports(out.String()); got != "1\n2\n3\n" {
		t.Errorf("output = %q, want %q", got, "1\n2\n3\n")
	}
	v, ok := e.Vars.Lookup("i")
	if !ok || v != 4 {
		t.Errorf("loop var after fend = (%d, %v), want (4, true)", v, ok)
	}
}

func TestForLoopEmptyRangeNeverRuns(t *testing.T) {
	e, out := newTestEngine(t)
	if _, err := e.RunLine(`for i 5 1; pn i; fend; pn 99`); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	if got := stripReports(out.String()); got != "99\n" {
		t.Errorf("output = %q, want %q (body never runs)", got, "99\n")
	}
}

func TestWhileFalseSkipsBody(t *testing.T) {
	e, out := newTestEngine(t)
	if _, err := e.RunLine(`while 0; pn 1; wend; pn 2`); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	if got := stripReports(out.String()); got != "2\n" {
		t.Errorf("output = %q, want %q", got, "2\n")
	}
}

func TestWhileCountsDown(t *testing.T) {
	e, out := newTestEngine(t)
	if _, err := e.RunLine(`s x 3; while x; pn x; s x x-1; wend`); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	if got := stripReports(out.String()); got != "3\n2\n1\n" {
		t.Errorf("output = %q, want %q", got, "3\n2\n1\n")
	}
}

func TestRepeatUntilRunsAtLeastOnce(t *testing.T) {
	e, out := newTestEngine(t)
	if _, err := e.RunLine(`s x 0; repeat; pn x; s x x+1; until x>=3`); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	if got := stripReports(out.String()); got != "0\n1\n2\n" {
		t.Errorf("output = %q, want %q", got, "0\n1\n2\n")
	}
}

func TestIfFalseSkipsRestOfLine(t *testing.T) {
	e, out := newTestEngine(t)
	if _, err := e.RunLine(`if 0; pn 1; pn 2`); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	if got := stripReports(out.String()); got != "" {
		t.Errorf("output = %q, want empty (if 0 discards rest of line)", got)
	}
}

func TestIfTrueContinuesLine(t *testing.T) {
	e, out := newTestEngine(t)
	if _, err := e.RunLine(`if 1; pn 7`); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	if got := stripReports(out.String()); got != "7\n" {
		t.Errorf("output = %q, want %q", got, "7\n")
	}
}

func TestProcedureCallScoping(t *testing.T) {
	e, _ := newTestEngine(t)
	runLines(t, e,
		"10 addtwo(a b): s r a+b; end",
		"s a 100",
		// "r" must already exist in the outer scope for Set to mutate it
		// in place; otherwise it would be created above the call's mark
		// and wiped out when the procedure's frame is truncated on end.
		"s r 0",
	)
	if _, err := e.RunLine("addtwo 2 3"); err != nil {
		t.Fatalf("addtwo 2 3: %v", err)
	}
	r, ok := e.Vars.Lookup("r")
	if !ok || r != 5 {
		t.Fatalf("r = (%d, %v), want (5, true)", r, ok)
	}
	// the procedure's params must not leak into the caller's scope
	if _, ok := e.Vars.Lookup("b"); ok {
		t.Errorf("parameter b leaked into caller scope")
	}
	// the caller's own "a" must survive the call unclobbered
	a, ok := e.Vars.Lookup("a")
	if !ok || a != 100 {
		t.Errorf("caller's a = (%d, %v), want (100, true), should not be shadowed permanently", a, ok)
	}
}

func TestSelectDispatchesMatchingCase(t *testing.T) {
	e, out := newTestEngine(t)
	// No "send" after a non-matching case's body: per spec, "send" always
	// exits the select with no match, even one hit while skipping past a
	// case that didn't match, so only the final arm carries one.
	script := `select 2; case 1; pn 11; case 2,3; pn 22; default; pn 99; send`
	if _, err := e.RunLine(script); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	if got := stripReports(out.String()); got != "22\n" {
		t.Errorf("output = %q, want %q", got, "22\n")
	}
}

func TestSelectFallsThroughToDefault(t *testing.T) {
	e, out := newTestEngine(t)
	script := `select 9; case 1; pn 11; default; pn 99; send`
	if _, err := e.RunLine(script); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	if got := stripReports(out.String()); got != "99\n" {
		t.Errorf("output = %q, want %q", got, "99\n")
	}
}

func TestUndefinedVerbIsNameError(t *testing.T) {
	e, _ := newTestEngine(t)
	outcome, err := e.RunLine("bogus 1 2")
	if outcome != diag.ErrorOutcome || err == nil {
		t.Fatalf("RunLine(bogus) = (%v, %v), want (diag.ErrorOutcome, non-nil)", outcome, err)
	}
	if diag.KindOf(err) != diag.Name {
		t.Errorf("KindOf(err) = %v, want diag.Name", diag.KindOf(err))
	}
}

func TestExitOnErrorEscalatesErrorToExit(t *testing.T) {
	e, _ := newTestEngine(t)
	runLines(t, e, "exitonerror 1")
	outcome, err := e.RunLine("bogus")
	if outcome != diag.Exit {
		t.Fatalf("outcome = %v, want diag.Exit once exitonerror is active", outcome)
	}
	if err == nil {
		t.Errorf("expected the escalated error to still be returned")
	}
}

func TestLastErroredTracksPlainError(t *testing.T) {
	e, _ := newTestEngine(t)
	if outcome, _ := e.RunLine("bogus"); outcome != diag.ErrorOutcome {
		t.Fatalf("outcome = %v, want diag.ErrorOutcome without exitonerror", outcome)
	}
	if !e.LastErrored {
		t.Errorf("LastErrored should be true after a plain (non-escalated) error")
	}
	if _, err := e.RunLine("p 1"); err != nil {
		t.Fatalf("p 1: %v", err)
	}
	if e.LastErrored {
		t.Errorf("LastErrored should clear after a line that completes without error")
	}
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.RunLine("pt val 0x5a 2; w 0 2"); err != nil {
		t.Fatalf("pt/w: %v", err)
	}
	if _, err := e.RunLine("r 0 2; c val 0x5a 2"); err != nil {
		t.Fatalf("r/c: %v", err)
	}
}

func TestWriteProtectBlocksWrite(t *testing.T) {
	var out bytes.Buffer
	dev := newMemDevice(16)
	e := New(dev, &out)
	if _, err := e.RunLine("drive 0"); err != nil {
		t.Fatalf("drive 0: %v", err)
	}
	outcome, err := e.RunLine("w 0 1")
	if outcome != diag.ErrorOutcome || err == nil {
		t.Fatalf("w on a write-protected drive = (%v, %v), want an error", outcome, err)
	}
	if diag.KindOf(err) != diag.State {
		t.Errorf("KindOf(err) = %v, want diag.State", diag.KindOf(err))
	}
}

func TestOutOfBoundsReadIsBoundsError(t *testing.T) {
	e, _ := newTestEngine(t)
	outcome, err := e.RunLine("r 1000 1")
	if outcome != diag.ErrorOutcome || err == nil {
		t.Fatalf("r 1000 1 = (%v, %v), want an error", outcome, err)
	}
	if diag.KindOf(err) != diag.Bounds {
		t.Errorf("KindOf(err) = %v, want diag.Bounds", diag.KindOf(err))
	}
}

func TestLineEditInsertsIntoProgram(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.RunLine("1 p 1"); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	if _, err := e.RunLine("2 p 2"); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	if e.Program.Len() != 2 {
		t.Fatalf("Program.Len() = %d, want 2", e.Program.Len())
	}
	if e.Program.At(1).Text != "p 1" || e.Program.At(2).Text != "p 2" {
		t.Errorf("program lines = %q, %q", e.Program.At(1).Text, e.Program.At(2).Text)
	}
}

func TestLoopRepeatsFixedCount(t *testing.T) {
	e, out := newTestEngine(t)
	// "loop" restarts by resetting the cursor to the start of the
	// current RunLine call's text, so the initializer must be its own
	// line or it would be re-run on every iteration.
	if _, err := e.RunLine(`s n 0`); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	if _, err := e.RunLine(`pn n; s n n+1; loop 3`); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	if got := stripReports(out.String()); got != "0\n1\n2\n" {
		t.Errorf("output = %q, want %q", got, "0\n1\n2\n")
	}
}

func TestBareEchoPrintsRestOfLineVerbatim(t *testing.T) {
	e, out := newTestEngine(t)
	if _, err := e.RunLine(`echo hello there`); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	if got := strings.TrimRight(stripReports(out.String()), "\n"); got != "hello there" {
		t.Errorf("output = %q, want %q", got, "hello there")
	}
}

func TestDumpWriteRendersHexAndASCII(t *testing.T) {
	e, out := newTestEngine(t)
	if _, err := e.RunLine("pt val 0x41424344 1; dumpwrite 1"); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	got := stripReports(out.String())
	if !strings.HasPrefix(got, "00000000  ") {
		t.Fatalf("dumpwrite output = %q, want it to start with an 8-digit offset", got)
	}
	if !strings.Contains(got, "41 42 43 44") {
		t.Errorf("dumpwrite output = %q, want it to contain the written bytes in hex", got)
	}
	if !strings.Contains(got, "ABCD") {
		t.Errorf("dumpwrite output = %q, want the printable ASCII column to read ABCD", got)
	}
	// SectorSize/dumpBytesPerLine = 32 lines per dumped sector.
	if got := strings.Count(got, "\n"); got != 32 {
		t.Errorf("dumpwrite printed %d lines, want 32", got)
	}
}

func TestDumpReadDefaultsToFullBuffer(t *testing.T) {
	e, out := newTestEngine(t)
	if _, err := e.RunLine("dumpread"); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	// NumSectors sectors * (SectorSize/dumpBytesPerLine) lines each.
	want := NumSectors * (SectorSize / 16)
	if got := strings.Count(stripReports(out.String()), "\n"); got != want {
		t.Errorf("dumpread printed %d lines, want %d", got, want)
	}
}

func TestSrandResetsToFixedSeed(t *testing.T) {
	e, _ := newTestEngine(t)
	e.RNG.SetSeed(12345)
	if _, err := e.RunLine("srand"); err != nil {
		t.Fatalf("RunLine error: %v", err)
	}
	if e.RNG.Seed() != 42 {
		t.Errorf("seed after srand = %d, want 42", e.RNG.Seed())
	}
}
