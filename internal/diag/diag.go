/*
 * discdiag - Error kinds surfaced by verbs.
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

// Package diag defines the error kinds the engine's verbs can surface and
// the propagation outcomes the dispatcher uses to decide whether to unwind.
package diag

import "fmt"

// Kind is one of the error categories of spec §7.
type Kind int

const (
	Syntax Kind = 1 + iota
	Name
	Arithmetic
	Bounds
	State
	IO
	Compare
	Flow
	Fatal
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax"
	case Name:
		return "name"
	case Arithmetic:
		return "arithmetic"
	case Bounds:
		return "bounds"
	case State:
		return "state"
	case IO:
		return "io"
	case Compare:
		return "compare"
	case Flow:
		return "flow"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error wraps a Kind with a message. Verbs return these (or nil); the
// dispatcher inspects the Kind to decide unwind/escalation behavior.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// New builds an *Error from a kind and a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from an error, defaulting to Fatal for any
// error that didn't originate from this package (should not happen in
// practice, since every verb is expected to wrap failures here).
func KindOf(err error) Kind {
	var e *Error
	if err == nil {
		return 0
	}
	if de, ok := err.(*Error); ok {
		return de.Kind
	}
	_ = e
	return Fatal
}

// Outcome is what a verb (or the skip-to-terminator scan) reports back
// to its caller, per spec §4.9.
type Outcome int

const (
	Ok Outcome = iota
	Exit
	ErrorOutcome
	Stop
	Restart
	BreakOutcome
	ContinueOutcome
)

func (o Outcome) String() string {
	switch o {
	case Ok:
		return "ok"
	case Exit:
		return "exit"
	case ErrorOutcome:
		return "error"
	case Stop:
		return "stop"
	case Restart:
		return "restart"
	case BreakOutcome:
		return "break"
	case ContinueOutcome:
		return "continue"
	default:
		return "unknown"
	}
}
