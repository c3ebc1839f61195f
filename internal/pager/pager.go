/*
 * discdiag - Screen pager for long dump/list output.
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

// Package pager paces dumpread/dumpwrite/list output a screenful at a
// time, per spec §4.9/§5. It reuses the teacher's liner.Prompt
// read-loop shape (command/reader/reader.go's ConsoleReader) for the
// "--More--" line instead of introducing a second line-editing
// dependency for a single prompt.
package pager

import (
	"errors"
	"fmt"
	"io"

	"github.com/peterh/liner"

	"github.com/samiam95124/diskdiagnostic/internal/breaksig"
)

// Pager prints lines to Out, pausing for "--More--" every Height lines.
// A Height of 0 or less disables paging entirely.
type Pager struct {
	Out    io.Writer
	Height int

	liner *liner.State
	count int
}

// New returns a Pager with the given page height. liner may be nil,
// which disables interactive pausing (used for non-tty output such as
// a script running from a file) but printed lines still flow through
// Out.
func New(out io.Writer, height int, l *liner.State) *Pager {
	return &Pager{Out: out, Height: height, liner: l}
}

// Println emits one line, pausing for the user (or a break) once Height
// lines have been shown since the last pause. It returns false if the
// caller should stop producing further output, either because the user
// quit the pager or because a break was sampled.
func (p *Pager) Println(format string, args ...any) bool {
	fmt.Fprintf(p.Out, format+"\n", args...)
	p.count++

	if breaksig.Check() {
		return false
	}
	if p.Height <= 0 || p.liner == nil {
		return true
	}
	if p.count < p.Height {
		return true
	}
	p.count = 0

	_, err := p.liner.Prompt("--More--")
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			breaksig.Raise()
		}
		return false
	}
	return true
}

// Reset zeroes the line counter, used between independent dump/list runs.
func (p *Pager) Reset() {
	p.count = 0
}
