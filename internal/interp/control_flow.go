/*
 * discdiag - Flow-control verbs: while/repeat/for, select/case, go/if/end.
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
	"github.com/samiam95124/diskdiagnostic/internal/control"
	"github.com/samiam95124/diskdiagnostic/internal/cursor"
	"github.com/samiam95124/diskdiagnostic/internal/diag"
)

// skipToTerminator is Design Notes §9's "single most delicate algorithm
// in the core": scan forward from the current frame's cursor, following
// program lines as they run out (per §4.5's line-advance rule), until
// one of terms is seen at nesting depth zero. while/repeat/for nest
// independently by keyword pair (while/wend, repeat/until, for/fend);
// select nests as a single open/close pair whose close is its own first
// depth-zero `send`, since the grammar gives select no other closing
// keyword — an outer skip must still vault over an entire nested
// select's case/default/send vocabulary without being fooled by it.
func skipToTerminator(e *Engine, terms ...string) (string, error) {
	wants := func(w string) bool {
		for _, t := range terms {
			if t == w {
				return true
			}
		}
		return false
	}

	depth := map[string]int{"while": 0, "repeat": 0, "for": 0, "select": 0}

	for {
		top := e.top()
		cur := top.cur
		if cur == nil || cur.AtEOL() {
			if top.line == nil {
				return "", diag.New(diag.Flow, "ran off end of program searching for terminator")
			}
			next := e.Program.At(e.Program.IndexOf(top.line) + 1)
			if next == nil {
				return "", diag.New(diag.Flow, "ran off end of program searching for terminator")
			}
			top.line = next
			top.cur = cursor.New(next.Text)
			continue
		}

		cur.SkipSpace()
		if cur.AtEOL() {
			continue
		}
		if cur.Peek() == ';' {
			cur.Next()
			continue
		}

		word := cur.TakeWord()
		if word == "" {
			cur.Next()
			continue
		}

		switch word {
		case "while", "repeat", "for", "select":
			depth[word]++
		case "wend":
			if depth["while"] > 0 {
				depth["while"]--
			} else if wants("wend") {
				return "wend", nil
			}
		case "until":
			if depth["repeat"] > 0 {
				depth["repeat"]--
			} else if wants("until") {
				return "until", nil
			}
		case "fend":
			if depth["for"] > 0 {
				depth["for"]--
			} else if wants("fend") {
				return "fend", nil
			}
		case "send":
			if depth["select"] > 0 {
				depth["select"]--
			} else if wants("send") {
				return "send", nil
			}
		case "case", "default":
			if depth["select"] == 0 && wants(word) {
				return word, nil
			}
		}
		discardToSemicolon(cur)
	}
}

// discardToSemicolon advances past any trailing arguments of a keyword
// matched during a skip (e.g. a while's condition, a for's bounds) so
// the next TakeWord sees the following verb rather than stray tokens.
func discardToSemicolon(cur *cursor.Cursor) {
	for !cur.AtEOL() && cur.Peek() != ';' {
		cur.Next()
	}
}

func verbWhile(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error) {
	top := e.top()
	condLine := top.line
	cur.SkipSpace()
	condOffset := cur.Pos

	v, err := e.eval(cur)
	if err != nil {
		return diag.ErrorOutcome, err
	}
	if v == 0 {
		if _, err := skipToTerminator(e, "wend"); err != nil {
			return diag.ErrorOutcome, err
		}
		return diag.Ok, nil
	}
	e.Control.Push(&control.Frame{Kind: control.While, ReturnLine: condLine, ReturnOffset: condOffset})
	return diag.Ok, nil
}

func verbWend(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error) {
	afterLine := e.top().line
	afterPos := cur.Pos

	f := e.Control.Pop()
	if f == nil || f.Kind != control.While {
		return diag.ErrorOutcome, diag.New(diag.Flow, "wend without matching while")
	}
	e.jumpTo(f.ReturnLine, f.ReturnOffset)
	cond, err := e.eval(e.top().cur)
	if err != nil {
		return diag.ErrorOutcome, err
	}
	if cond != 0 {
		e.Control.Push(f)
		return diag.Ok, nil
	}
	e.jumpTo(afterLine, afterPos)
	return diag.Ok, nil
}

func verbRepeat(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error) {
	top := e.top()
	cur.SkipSpace()
	e.Control.Push(&control.Frame{Kind: control.Repeat, ReturnLine: top.line, ReturnOffset: cur.Pos})
	return diag.Ok, nil
}

func verbUntil(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error) {
	f := e.Control.Pop()
	if f == nil || f.Kind != control.Repeat {
		return diag.ErrorOutcome, diag.New(diag.Flow, "until without matching repeat")
	}
	cond, err := e.eval(cur)
	if err != nil {
		return diag.ErrorOutcome, err
	}
	if cond == 0 {
		e.jumpTo(f.ReturnLine, f.ReturnOffset)
		e.Control.Push(f)
	}
	return diag.Ok, nil
}

func verbFor(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error) {
	name := cur.TakeWord()
	if name == "" {
		return diag.ErrorOutcome, diag.New(diag.Syntax, "expected loop variable")
	}
	start, err := e.eval(cur)
	if err != nil {
		return diag.ErrorOutcome, err
	}
	cur.SkipSpace()
	endStart := cur.Pos
	end, err := e.eval(cur)
	if err != nil {
		return diag.ErrorOutcome, err
	}
	endText := cur.Line[endStart:cur.Pos]

	step := int64(1)
	cur.SkipSpace()
	if !cur.AtEOL() && cur.Peek() != ';' {
		step, err = e.eval(cur)
		if err != nil {
			return diag.ErrorOutcome, err
		}
	}
	if step == 0 {
		return diag.ErrorOutcome, diag.New(diag.Arithmetic, "for step cannot be zero")
	}

	e.Vars.Set(name, start)

	top := e.top()
	bodyLine := top.line
	cur.SkipSpace()
	bodyOffset := cur.Pos

	rangeEmpty := (step > 0 && start > end) || (step < 0 && start < end)
	if rangeEmpty {
		if _, err := skipToTerminator(e, "fend"); err != nil {
			return diag.ErrorOutcome, err
		}
		return diag.Ok, nil
	}

	stepSign := int64(1)
	if step < 0 {
		stepSign = -1
	}
	e.Control.Push(&control.Frame{
		Kind: control.For, ReturnLine: bodyLine, ReturnOffset: bodyOffset,
		LoopVar: name, EndExpr: endText, Step: step, StepSign: stepSign,
	})
	return diag.Ok, nil
}

func verbFend(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error) {
	f := e.Control.Pop()
	if f == nil || f.Kind != control.For {
		return diag.ErrorOutcome, diag.New(diag.Flow, "fend without matching for")
	}
	v, _ := e.Vars.Lookup(f.LoopVar)
	v += f.Step
	e.Vars.Set(f.LoopVar, v)

	endVal, err := e.eval(cursor.New(f.EndExpr))
	if err != nil {
		return diag.ErrorOutcome, err
	}
	inRange := (f.StepSign > 0 && v <= endVal) || (f.StepSign < 0 && v >= endVal)
	if inRange {
		e.jumpTo(f.ReturnLine, f.ReturnOffset)
		e.Control.Push(f)
	}
	return diag.Ok, nil
}

// verbLoop implements both `l`/`loop` and `lq`/`loopq` (spec §4.6 gives
// them a single merged table row; there is no specified behavioral
// difference between the two spellings).
func verbLoop(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error) {
	hasN := false
	var n int64
	cur.SkipSpace()
	if !cur.AtEOL() && cur.Peek() != ';' {
		v, err := e.eval(cur)
		if err != nil {
			return diag.ErrorOutcome, err
		}
		n, hasN = v, true
	}

	count := e.incLoopCounter(verbStart)
	if !hasN || int64(count) < n {
		cur.Pos = 0
		return diag.Restart, nil
	}
	e.resetLoopCounter(verbStart)
	return diag.Ok, nil
}

// verbU implements `u cond`: restart the current line from the start if
// cond is false.
func verbU(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error) {
	v, err := e.eval(cur)
	if err != nil {
		return diag.ErrorOutcome, err
	}
	if v == 0 {
		cur.Pos = 0
		return diag.Restart, nil
	}
	return diag.Ok, nil
}

func verbIf(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error) {
	v, err := e.eval(cur)
	if err != nil {
		return diag.ErrorOutcome, err
	}
	if v == 0 {
		cur.Pos = len(cur.Line)
	}
	return diag.Ok, nil
}

func verbGo(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error) {
	name := cur.TakeWord()
	line, ok := e.Program.FindLabel(name)
	if !ok {
		return diag.ErrorOutcome, diag.New(diag.Name, "Label %q invalid", name)
	}
	top := e.top()
	top.line = line
	top.cur = cursor.New(line.Text)
	return diag.Ok, nil
}

func verbEnd(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error) {
	if len(e.frames) <= 1 {
		return diag.ErrorOutcome, diag.New(diag.Fatal, "interpreter stack underflow: end without matching call")
	}
	e.popFrame()
	return diag.Ok, nil
}

// verbSelect evaluates its value then repeatedly scans for case/default/
// send, per spec §4.6.
func verbSelect(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error) {
	val, err := e.eval(cur)
	if err != nil {
		return diag.ErrorOutcome, err
	}
	for {
		word, err := skipToTerminator(e, "case", "default", "send")
		if err != nil {
			return diag.ErrorOutcome, err
		}
		switch word {
		case "send", "default":
			return diag.Ok, nil
		case "case":
			top := e.top()
			matched := false
			for {
				top.cur.SkipSpace()
				v, err := e.eval(top.cur)
				if err != nil {
					return diag.ErrorOutcome, err
				}
				if v == val {
					matched = true
				}
				top.cur.SkipSpace()
				if top.cur.Peek() == ',' {
					top.cur.Next()
					continue
				}
				break
			}
			if matched {
				return diag.Ok, nil
			}
		}
	}
}

// verbCase/verbDefault handle the case where normal sequential dispatch
// (not select's own scan) walks straight into a "case"/"default" token
// because the previous branch's body fell through without a `send`;
// spec §4.6 treats that as needing a skip to the next `send`.
func verbCase(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error) {
	discardToSemicolon(cur)
	if _, err := skipToTerminator(e, "send"); err != nil {
		return diag.ErrorOutcome, err
	}
	return diag.Ok, nil
}

func verbDefault(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error) {
	if _, err := skipToTerminator(e, "send"); err != nil {
		return diag.ErrorOutcome, err
	}
	return diag.Ok, nil
}

// verbSend is a no-op when reached by ordinary dispatch; it only has
// meaning as a skip target.
func verbSend(e *Engine, cur *cursor.Cursor, verbStart int) (diag.Outcome, error) {
	return diag.Ok, nil
}
