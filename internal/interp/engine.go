/*
 * discdiag - Engine: buffers, drive state, and the dispatcher's frame stack.
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

// Package interp is the Command Dispatcher (spec §4.9) and the Engine
// that ties every other package together: the two fixed I/O buffers,
// current-drive state, the variable/program/control stacks, and the
// interpreter call-frame stack of §4.5 (immediate-mode sentinel plus
// pushed procedure frames). It generalizes the teacher's cmdList
// verb table (command/parser/parser.go) from S370's device-number verbs
// to discdiag's expression-argument ones.
package interp

import (
	"fmt"
	"io"

	"github.com/samiam95124/diskdiagnostic/internal/breaksig"
	"github.com/samiam95124/diskdiagnostic/internal/control"
	"github.com/samiam95124/diskdiagnostic/internal/cursor"
	"github.com/samiam95124/diskdiagnostic/internal/device"
	"github.com/samiam95124/diskdiagnostic/internal/diag"
	"github.com/samiam95124/diskdiagnostic/internal/eval"
	"github.com/samiam95124/diskdiagnostic/internal/pager"
	"github.com/samiam95124/diskdiagnostic/internal/pattern"
	"github.com/samiam95124/diskdiagnostic/internal/program"
	"github.com/samiam95124/diskdiagnostic/internal/rng"
	"github.com/samiam95124/diskdiagnostic/internal/stats"
	"github.com/samiam95124/diskdiagnostic/internal/vars"
)

// NumSectors is NOSECS: the capacity, in sectors, of each of the two
// fixed I/O buffers (spec §3).
const NumSectors = 256

// SectorSize is the fixed, indivisible I/O unit.
const SectorSize = device.SectorSize

// frame is one interpreter call-frame (spec §3/§4.5). line is nil for
// the immediate-mode sentinel, whose text lives directly in cur.
type frame struct {
	line *program.Line
	cur  *cursor.Cursor
	mark vars.Mark
}

// Engine holds every piece of mutable state the dispatcher threads
// through a running script: the two buffers, drive state, the
// variable/program/control stacks, the RNG, statistics, and the
// interpreter's own frame stack.
type Engine struct {
	WriteBuf []byte
	ReadBuf  []byte

	Device       device.BlockDevice
	Drive        int
	HasDrive     bool
	DriveSize    int64 // sectors
	WriteProtect bool

	Vars    *vars.Store
	Program *program.Store
	Control *control.Stack
	RNG     *rng.State
	Policy  *pattern.MismatchPolicy
	Stats   *stats.Counters

	ExitOnError bool
	LastErrored bool

	Out   io.Writer
	Pager *pager.Pager

	outTracker *lastByteWriter

	// ReadLine supplies the "input" verb's value; the REPL wires this to
	// its liner prompt. nil means no interactive source is available
	// (e.g. when running a script file headlessly).
	ReadLine func() (string, error)

	frames []*frame
	// immLoop tracks loop/loopq site counters for the transient
	// immediate-mode line, which has no *program.Line to own them.
	immLoop map[int]int

	baseMark vars.Mark
}

// lastByteWriter remembers the final byte of the most recent Write, so
// the automatic per-command timing report can always start its own
// line even after a verb (like bare "p") that prints without a
// trailing newline.
type lastByteWriter struct {
	io.Writer
	last byte
}

func (w *lastByteWriter) Write(p []byte) (int, error) {
	n, err := w.Writer.Write(p)
	if n > 0 {
		w.last = p[n-1]
	}
	return n, err
}

// New allocates a fresh Engine with NumSectors-sector buffers, wired to
// dev for all physical I/O.
func New(dev device.BlockDevice, out io.Writer) *Engine {
	tracked := &lastByteWriter{Writer: out}
	e := &Engine{
		WriteBuf:     make([]byte, NumSectors*SectorSize),
		ReadBuf:      make([]byte, NumSectors*SectorSize),
		Device:       dev,
		WriteProtect: true,
		Vars:         vars.NewStore(),
		Program:      program.NewStore(),
		Control:      control.NewStack(),
		RNG:          rng.New(),
		Policy:       pattern.NewMismatchPolicy(),
		Stats:        stats.New(),
		Out:          tracked,
		outTracker:   tracked,
	}
	e.baseMark = e.Vars.Mark()
	e.frames = []*frame{{line: nil}}
	return e
}

func (e *Engine) top() *frame { return e.frames[len(e.frames)-1] }

// Builtin implements eval.Builtins for the five identifiers of spec
// §4.2, resolved ahead of the user-variable stack.
func (e *Engine) Builtin(name string) (int64, bool, error) {
	switch name {
	case "secsiz":
		return SectorSize, true, nil
	case "bufsiz":
		return int64(NumSectors), true, nil
	case "drvsiz":
		if !e.HasDrive {
			return 0, true, diag.New(diag.State, "no drive set")
		}
		return e.DriveSize, true, nil
	case "rand":
		return int64(e.RNG.Rand64() & 0x7fffffffffffffff), true, nil
	case "lbarnd":
		if !e.HasDrive || e.DriveSize == 0 {
			return 0, true, diag.New(diag.State, "no drive set")
		}
		return int64(e.RNG.Rand64() % uint64(e.DriveSize)), true, nil
	}
	return 0, false, nil
}

// jumpTo redirects the current frame's line/cursor to line at offset.
// line == nil means "stay on the current frame's own text", used by
// immediate-mode loops that have no program.Line to jump to.
func (e *Engine) jumpTo(line *program.Line, offset int) {
	top := e.top()
	if line == nil {
		top.cur.Pos = offset
		return
	}
	top.line = line
	top.cur = cursor.New(line.Text)
	top.cur.Pos = offset
}

func (e *Engine) popFrame() {
	f := e.frames[len(e.frames)-1]
	e.Vars.Truncate(f.mark)
	e.frames = e.frames[:len(e.frames)-1]
	if len(e.frames) == 0 {
		e.frames = []*frame{{line: nil}}
	}
}

// unwind drains the control and interpreter stacks back to a fresh
// immediate-mode sentinel, per spec §4.11's "drained back to immediate
// mode" and §7's "does not walk frames gracefully" unwind-on-error rule.
func (e *Engine) unwind() {
	e.Control.Drain()
	e.Vars.Truncate(e.baseMark)
	e.frames = []*frame{{line: nil}}
}

// incLoopCounter/resetLoopCounter key loop-site counters by
// (line identity, byte offset), per Design Notes §9, falling back to a
// transient per-call map for immediate-mode lines.
func (e *Engine) incLoopCounter(offset int) int {
	top := e.top()
	if top.line != nil {
		return top.line.IncLoopCounter(offset)
	}
	if e.immLoop == nil {
		e.immLoop = map[int]int{}
	}
	e.immLoop[offset]++
	return e.immLoop[offset]
}

func (e *Engine) resetLoopCounter(offset int) {
	top := e.top()
	if top.line != nil {
		top.line.ResetLoopCounter(offset)
		return
	}
	delete(e.immLoop, offset)
}

// eval evaluates one expression at cur against this Engine's builtins
// and variable store.
func (e *Engine) eval(cur *cursor.Cursor) (int64, error) {
	return eval.Eval(cur, e, e.Vars)
}

// RunLine is the REPL's entry point for one line of input: a leading
// decimal-integer edit of the program store (spec §4.4), or a sequence
// of ';'-separated verbs executed immediately. It always leaves the
// Engine's frame stack back at a single immediate-mode sentinel.
func (e *Engine) RunLine(text string) (diag.Outcome, error) {
	if n, rest, ok := parseLineEdit(text); ok {
		if _, err := e.Program.Insert(n, rest); err != nil {
			return diag.ErrorOutcome, err
		}
		return diag.Ok, nil
	}

	e.immLoop = nil
	e.Stats.Reset()
	breaksig.Sample()

	top := e.frames[0]
	top.line = nil
	top.cur = cursor.New(text)

	outcome, err := e.run()
	// Every top-level command brackets a timing window (spec §4.10): the
	// Stats.Reset() above is the entry side, this Report() the exit
	// side. Force a fresh line first if the command's own output (e.g.
	// a bare "p") didn't already end with one.
	if e.outTracker.last != 0 && e.outTracker.last != '\n' {
		fmt.Fprintln(e.Out)
	}
	fmt.Fprintln(e.Out, e.Stats.Report())
	// err != nil, not outcome == diag.ErrorOutcome: escalate() rewrites a
	// failing outcome to diag.Exit once exitonerror is active, and the
	// process exit code (cmd/discdiag, repl.RunScript) depends on
	// LastErrored surviving that rewrite.
	e.LastErrored = err != nil
	return outcome, err
}

// run drives the frame stack forward one verb at a time until immediate
// mode drains (normal completion) or a non-continuing outcome occurs.
func (e *Engine) run() (diag.Outcome, error) {
	for {
		top := e.top()
		if top.cur == nil || top.cur.AtEOL() {
			more, err := e.advanceOrPop(top)
			if err != nil {
				e.unwind()
				return e.escalate(diag.ErrorOutcome, err)
			}
			if !more {
				return diag.Ok, nil
			}
			continue
		}

		if breaksig.Sample() {
			e.unwind()
			return e.escalate(diag.Stop, nil)
		}

		outcome, err := e.stepVerb()
		switch outcome {
		case diag.Ok, diag.Restart:
			continue
		case diag.Exit:
			e.unwind()
			return diag.Exit, err
		case diag.ErrorOutcome, diag.Stop:
			e.unwind()
			return e.escalate(outcome, err)
		default:
			continue
		}
	}
}

// escalate implements spec §7's "with exitonerror active, error is
// escalated to exit" rule (stop escalates the same way once exitonerror
// has been set, per §4.11).
func (e *Engine) escalate(outcome diag.Outcome, err error) (diag.Outcome, error) {
	if e.ExitOnError && (outcome == diag.ErrorOutcome || outcome == diag.Stop) {
		return diag.Exit, err
	}
	return outcome, err
}

// advanceOrPop is called when the current frame's cursor has run out of
// text. For a stored-program frame it moves to the next line in
// sequence, per §4.5's "reaching the end of a program's line list also
// pops frames"; running off the end of the store pops the frame (and
// cascades if the stack drains). For the immediate-mode sentinel it
// simply reports "no more work".
func (e *Engine) advanceOrPop(top *frame) (bool, error) {
	if top.line == nil {
		return false, nil
	}
	next := e.Program.At(e.Program.IndexOf(top.line) + 1)
	if next == nil {
		e.popFrame()
		return true, nil
	}
	top.line = next
	top.cur = cursor.New(next.Text)
	return true, nil
}

// stepVerb parses and executes exactly one verb at the current frame's
// cursor: a procedure call if the token names a program label, else a
// lookup in the built-in verb table.
func (e *Engine) stepVerb() (diag.Outcome, error) {
	top := e.top()
	cur := top.cur
	cur.SkipSpace()
	if cur.AtEOL() {
		return diag.Ok, nil
	}

	verbStart := cur.Pos
	word := cur.TakeWord()
	if word == "" {
		// "?" is a bare punctuation alias for "help" and never parses as
		// a word via TakeWord, so it needs its own one-character path.
		if cur.Peek() == '?' {
			cur.Next()
			word = "?"
		} else {
			return diag.ErrorOutcome, diag.New(diag.Syntax, "unexpected character %q", cur.Peek())
		}
	}

	if line, ok := e.Program.FindLabel(word); ok {
		outcome, err := e.callProcedure(line, cur)
		return e.afterVerb(outcome, err)
	}

	handler, ok := verbTable[word]
	if !ok {
		return diag.ErrorOutcome, diag.New(diag.Name, "Verb %q invalid", word)
	}
	outcome, err := handler(e, cur, verbStart)
	return e.afterVerb(outcome, err)
}

// afterVerb advances past a single trailing ';' once a verb has
// consumed its own arguments, per the dispatcher's ';'-splitting
// contract; verbs never consume the separator themselves.
func (e *Engine) afterVerb(outcome diag.Outcome, err error) (diag.Outcome, error) {
	if outcome != diag.Ok {
		return outcome, err
	}
	cur := e.top().cur
	cur.SkipSpace()
	if !cur.AtEOL() && cur.Peek() == ';' {
		cur.Next()
	}
	return outcome, err
}

// callProcedure evaluates line.Params' arguments in the caller's scope,
// marks the variable stack, pushes the arguments as new locals, and
// pushes a frame redirected to the callee's line, per spec §4.4/§4.5.
func (e *Engine) callProcedure(line *program.Line, cur *cursor.Cursor) (diag.Outcome, error) {
	args := make([]int64, len(line.Params))
	for i := range line.Params {
		cur.SkipSpace()
		v, err := e.eval(cur)
		if err != nil {
			return diag.ErrorOutcome, err
		}
		args[i] = v
	}
	mark := e.Vars.Mark()
	for i, p := range line.Params {
		e.Vars.Local(p, args[i])
	}
	e.frames = append(e.frames, &frame{line: line, cur: cursor.New(line.Text), mark: mark})
	return diag.Ok, nil
}

// PrintBanner writes the startup banner, matching the teacher's own
// "S370 Started" style log line but to the user-facing Out rather than
// slog, since spec §4.10 calls for a printed banner at startup.
func (e *Engine) PrintBanner() {
	fmt.Fprintln(e.Out, "discdiag - raw block device exerciser")
}
