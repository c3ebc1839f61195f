/*
 * discdiag - print/printn format-string rendering.
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
	"fmt"
	"strconv"
	"strings"

	"github.com/samiam95124/diskdiagnostic/internal/cursor"
	"github.com/samiam95124/diskdiagnostic/internal/diag"
)

// doPrint implements the p|print / pn|printn verb family of spec §4.9:
// an optional double-quoted format string, else a single bare
// expression.
func (e *Engine) doPrint(cur *cursor.Cursor, newline bool) (diag.Outcome, error) {
	cur.SkipSpace()

	var out strings.Builder
	if cur.Peek() == '"' {
		format, ok := cur.TakeQuotedString()
		if !ok {
			return diag.ErrorOutcome, diag.New(diag.Syntax, "unterminated format string")
		}
		if err := e.renderFormat(&out, format, cur); err != nil {
			return diag.ErrorOutcome, err
		}
	} else {
		cur.SkipSpace()
		if !cur.AtEOL() && cur.Peek() != ';' {
			v, err := e.eval(cur)
			if err != nil {
				return diag.ErrorOutcome, err
			}
			out.WriteString(strconv.FormatInt(v, 10))
		}
	}

	if newline {
		fmt.Fprintln(e.Out, out.String())
	} else {
		fmt.Fprint(e.Out, out.String())
	}
	return diag.Ok, nil
}

// renderFormat walks format left to right: '\' escapes the next
// character literally; '%' begins a directive
// "%[width[.prec]]{d|x|o}"; any other '%x' is printed in default
// decimal (spec §4.9). When a directive has no corresponding
// expression left on the line, the filler text around it still prints
// and the substitution is silently skipped — spec §9's resolution of
// the printn/vv=0 case, applied uniformly since nothing in §4.9
// distinguishes p from pn here.
func (e *Engine) renderFormat(out *strings.Builder, format string, cur *cursor.Cursor) error {
	i := 0
	for i < len(format) {
		c := format[i]
		if c == '\\' && i+1 < len(format) {
			out.WriteByte(format[i+1])
			i += 2
			continue
		}
		if c != '%' {
			out.WriteByte(c)
			i++
			continue
		}
		i++
		start := i
		for i < len(format) && format[i] >= '0' && format[i] <= '9' {
			i++
		}
		width := 0
		if i > start {
			width, _ = strconv.Atoi(format[start:i])
		}
		prec := -1
		if i < len(format) && format[i] == '.' {
			i++
			pstart := i
			for i < len(format) && format[i] >= '0' && format[i] <= '9' {
				i++
			}
			prec, _ = strconv.Atoi(format[pstart:i])
		}
		if i >= len(format) {
			out.WriteByte('%')
			break
		}
		verb := format[i]
		i++

		cur.SkipSpace()
		haveArg := !cur.AtEOL() && cur.Peek() != ';'

		switch verb {
		case 'd', 'x', 'o':
			if !haveArg {
				continue
			}
			v, err := e.eval(cur)
			if err != nil {
				return err
			}
			out.WriteString(formatInt(v, verb, width, prec))
		default:
			if !haveArg {
				out.WriteByte('%')
				out.WriteByte(verb)
				continue
			}
			v, err := e.eval(cur)
			if err != nil {
				return err
			}
			out.WriteString(strconv.FormatInt(v, 10))
		}
	}
	return nil
}

// formatInt renders v in the requested base, zero-padded to
// max(width, prec) digits, matching the C-style "%w.px" convention
// scenario 1 of spec §8 depends on ("%4.4x" of 0x10 -> "0010").
func formatInt(v int64, verb byte, width, prec int) string {
	base := 10
	switch verb {
	case 'x':
		base = 16
	case 'o':
		base = 8
	}
	s := strconv.FormatInt(v, base)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	pad := width
	if prec > pad {
		pad = prec
	}
	for len(s) < pad {
		s = "0" + s
	}
	if neg {
		s = "-" + s
	}
	return s
}
