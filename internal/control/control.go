/*
 * discdiag - Control stack frames for while/repeat/for.
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

// Package control holds the nested while/repeat/for frames of spec
// §4.6. The frame data lives here; the delicate skip-to-terminator scan
// (which must walk the interpreter's current line and the program
// store together) lives in internal/interp, the one place that already
// holds both.
package control

import "github.com/samiam95124/diskdiagnostic/internal/program"

// Kind identifies which looping construct a Frame belongs to.
type Kind int

const (
	While Kind = 1 + iota
	Repeat
	For
)

// Frame is one nested loop's saved state.
type Frame struct {
	Kind Kind

	// ReturnLine/ReturnOffset: where to jump back to re-test the loop
	// condition (while's saved cond text, repeat's post-repeat token,
	// for's loop body start). ReturnLine is nil in immediate mode.
	ReturnLine   *program.Line
	ReturnOffset int

	// For 'for' frames only.
	LoopVar  string
	EndExpr  string // the end-expression text, re-evaluated each fend
	Step     int64
	StepSign int64 // +1 or -1, precomputed for fend's in-range check
}

// Stack is a LIFO of control frames.
type Stack struct {
	frames []*Frame
}

// NewStack returns an empty control stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push adds a new frame on top.
func (s *Stack) Push(f *Frame) {
	s.frames = append(s.frames, f)
}

// Pop removes and returns the top frame, or nil if empty.
func (s *Stack) Pop() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f
}

// Top returns the top frame without removing it, or nil if empty.
func (s *Stack) Top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Len reports the number of live frames.
func (s *Stack) Len() int { return len(s.frames) }

// Drain empties the stack, used when break/error unwinds to top level.
func (s *Stack) Drain() {
	s.frames = nil
}
