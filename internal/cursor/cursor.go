/*
 * discdiag - Shared character-cursor helper.
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

// Package cursor is the mutable character-cursor the evaluator,
// dispatcher, and flow-control verbs all thread through a line's text.
// Design Notes §9 calls for a small explicit helper API instead of
// open-coding cursor motion in every verb; this generalizes the
// teacher's cmdLine type (command/parser/parser.go) to a standalone
// package since discdiag shares one cursor across three subsystems.
package cursor

import (
	"strings"
	"unicode"
)

// Cursor is a position within a line of program or immediate-mode text.
type Cursor struct {
	Line string
	Pos  int
}

// New wraps a line of text at position 0.
func New(line string) *Cursor {
	return &Cursor{Line: line}
}

// AtEOL reports whether the cursor is at or past the end of the line,
// or sitting on a '!' comment leader (spec §4.4: "'!' at the start of
// any command position makes the rest of the line a comment").
func (c *Cursor) AtEOL() bool {
	if c.Pos >= len(c.Line) {
		return true
	}
	return c.Line[c.Pos] == '!'
}

// Peek returns the byte at the cursor without advancing, or 0 past the
// end of the line. A '!' is returned as-is; callers that must treat it
// as a comment leader check AtEOL first.
func (c *Cursor) Peek() byte {
	if c.Pos >= len(c.Line) {
		return 0
	}
	return c.Line[c.Pos]
}

// PeekAt returns the byte offset bytes ahead of the cursor, or 0 if out
// of range. Does not treat '!' specially (used by the evaluator's '!='
// lookahead, which must see the raw next byte).
func (c *Cursor) PeekAt(offset int) byte {
	p := c.Pos + offset
	if p < 0 || p >= len(c.Line) {
		return 0
	}
	return c.Line[p]
}

// Next consumes and returns the current byte, advancing the cursor.
func (c *Cursor) Next() byte {
	if c.Pos >= len(c.Line) {
		return 0
	}
	b := c.Line[c.Pos]
	c.Pos++
	return b
}

// Back moves the cursor backward n bytes (used by the evaluator's '!'
// comment-leader backup per spec §4.2).
func (c *Cursor) Back(n int) {
	c.Pos -= n
	if c.Pos < 0 {
		c.Pos = 0
	}
}

// SkipSpace advances over whitespace.
func (c *Cursor) SkipSpace() {
	for c.Pos < len(c.Line) && unicode.IsSpace(rune(c.Line[c.Pos])) {
		c.Pos++
	}
}

// TakeWord reads a run of letters/digits/underscore starting at the
// cursor (after skipping leading whitespace), stopping at the first
// byte that isn't part of an identifier. Used for verb names, variable
// names, and labels.
func (c *Cursor) TakeWord() string {
	c.SkipSpace()
	start := c.Pos
	for c.Pos < len(c.Line) {
		b := c.Line[c.Pos]
		if !unicode.IsLetter(rune(b)) && !unicode.IsDigit(rune(b)) && b != '_' {
			break
		}
		c.Pos++
	}
	return c.Line[start:c.Pos]
}

// TakeParam reads a whitespace-delimited parameter: everything up to
// the next space, ';', or EOL. Spec §4.2: "Whitespace is not permitted
// inside an expression (a space terminates the parameter)."
func (c *Cursor) TakeParam() string {
	c.SkipSpace()
	start := c.Pos
	for c.Pos < len(c.Line) {
		b := c.Line[c.Pos]
		if b == ' ' || b == '\t' || b == ';' {
			break
		}
		c.Pos++
	}
	return c.Line[start:c.Pos]
}

// TakeQuotedString reads a double-quoted string starting at the cursor
// (which must be positioned on the opening '"'), honoring "" as an
// escaped literal quote, matching the teacher's parseQuoteString. The
// bool result is false on an unterminated string.
func (c *Cursor) TakeQuotedString() (string, bool) {
	if c.Peek() != '"' {
		return "", false
	}
	c.Pos++ // skip opening quote
	var sb strings.Builder
	for {
		if c.Pos >= len(c.Line) {
			return sb.String(), false
		}
		b := c.Line[c.Pos]
		c.Pos++
		if b == '"' {
			if c.Pos < len(c.Line) && c.Line[c.Pos] == '"' {
				sb.WriteByte('"')
				c.Pos++
				continue
			}
			return sb.String(), true
		}
		sb.WriteByte(b)
	}
}

// RestOfLine returns everything from the cursor to the next ';' (or EOL),
// without advancing. Used by echo/echon and the command dispatcher's
// per-verb ';'-splitting.
func (c *Cursor) RestOfLine() string {
	rest := c.Line[c.Pos:]
	if i := strings.IndexByte(rest, ';'); i >= 0 {
		return rest[:i]
	}
	return rest
}

// SkipToSemicolon advances the cursor past the next ';' (or to EOL if
// none), used by the dispatcher to move from one verb to the next.
func (c *Cursor) SkipToSemicolon() {
	for c.Pos < len(c.Line) {
		if c.Line[c.Pos] == ';' {
			c.Pos++
			return
		}
		c.Pos++
	}
}
